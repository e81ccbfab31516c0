package backtest

import (
	"time"

	"github.com/newthinker/mercado/internal/core"
)

// Result holds the complete backtest output
type Result struct {
	Symbol  string               `json:"symbol"`
	Period  string               `json:"period"`
	Series  []core.EnrichedPoint `json:"series"`
	Trades  []Trade              `json:"trades"`
	Summary Summary              `json:"summary"`
}

// Trade is a closed long round trip.
type Trade struct {
	BuyDate   time.Time `json:"buy_date"`
	SellDate  time.Time `json:"sell_date"`
	BuyPrice  float64   `json:"buy_price"`
	SellPrice float64   `json:"sell_price"`
	ReturnPct float64   `json:"return_pct"` // fraction, 0.1 = 10%
}

// Summary aggregates a trade list. Returns and rates are fractions.
type Summary struct {
	Count            int     `json:"count"`
	Wins             int     `json:"wins"`
	Losses           int     `json:"losses"`
	WinRate          float64 `json:"win_rate"`
	AvgReturn        float64 `json:"avg_return"`
	CumulativeReturn float64 `json:"cumulative_return"` // arithmetic sum, not compounded
	MaxDrawdown      float64 `json:"max_drawdown"`
	SharpeRatio      float64 `json:"sharpe_ratio"`
}

// IsWin returns true if the trade was profitable
func (t Trade) IsWin() bool {
	return t.ReturnPct > 0
}

// HoldingDays returns the calendar days between entry and exit.
func (t Trade) HoldingDays() int {
	return int(t.SellDate.Sub(t.BuyDate).Hours() / 24)
}
