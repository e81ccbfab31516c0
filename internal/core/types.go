package core

import "time"

// Market represents a trading market
type Market string

const (
	MarketUS    Market = "US"
	MarketEU    Market = "EU"
	MarketUK    Market = "UK"
	MarketJP    Market = "JP"
	MarketHK    Market = "HK"
	MarketCNA   Market = "CN_A"
	MarketIndex Market = "INDEX"
)

// PricePoint is a single daily close.
type PricePoint struct {
	Date  time.Time `json:"date"`
	Price float64   `json:"price"`
}

// Signal is the discrete backtest signal attached to every enriched row.
type Signal int

const (
	SignalSell Signal = -1
	SignalHold Signal = 0
	SignalBuy  Signal = 1
)

func (s Signal) String() string {
	switch s {
	case SignalBuy:
		return "buy"
	case SignalSell:
		return "sell"
	default:
		return "hold"
	}
}

// EnrichedPoint carries a price point and every indicator derived from it.
// A nil indicator means not enough history has accumulated yet.
type EnrichedPoint struct {
	PricePoint
	Return       *float64 `json:"return"`
	Volatility30 *float64 `json:"volatility30"`
	MA50         *float64 `json:"ma50"`
	MA200        *float64 `json:"ma200"`
	EMA12        *float64 `json:"ema12"`
	EMA26        *float64 `json:"ema26"`
	MACD         *float64 `json:"macd"`
	SignalLine   *float64 `json:"signalLine"`
	SMA20        *float64 `json:"sma20"`
	BBUpper      *float64 `json:"bbUpper"`
	BBLower      *float64 `json:"bbLower"`
	RSI14        *float64 `json:"rsi14"`
	ATR14        *float64 `json:"atr14"`
	SignalBT     Signal   `json:"signalBT"`
}

// Profile is descriptive metadata about a listed symbol.
type Profile struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Exchange      string  `json:"exchange,omitempty"`
	Currency      string  `json:"currency,omitempty"`
	Market        Market  `json:"market"`
}

// Fundamental holds company data that does not come with the price series.
// Missing numbers are zero.
type Fundamental struct {
	Symbol        string    `json:"symbol"`
	Sector        string    `json:"sector,omitempty"`
	Industry      string    `json:"industry,omitempty"`
	Country       string    `json:"country,omitempty"`
	DividendYield float64   `json:"dividend_yield"` // percent
	TrailingPE    float64   `json:"trailing_pe,omitempty"`
	MarketCap     float64   `json:"market_cap,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Closes extracts the price column of a series.
func Closes(series []PricePoint) []float64 {
	out := make([]float64, len(series))
	for i, p := range series {
		out[i] = p.Price
	}
	return out
}
