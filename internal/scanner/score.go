package scanner

import (
	"fmt"
	"math"

	"github.com/newthinker/mercado/internal/core"
	"gonum.org/v1/gonum/stat"
)

const (
	tradingDays = 252
	// momentumWindow is the number of closes averaged at each end of the series.
	momentumWindow = 30
	// DefaultRiskFreePct is the annual risk-free rate, in percent, for the scanner Sharpe ratio.
	DefaultRiskFreePct = 2.0
)

// Metrics are the per-symbol figures the score is built from.
// Percentages are expressed in percent, not fractions.
type Metrics struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Sector        string  `json:"sector"`
	Country       string  `json:"country"`
	Price         float64 `json:"price"`
	AnnualReturn  float64 `json:"annual_return_pct"`
	Volatility    float64 `json:"volatility_pct"`
	Sharpe        float64 `json:"sharpe"`
	Momentum      float64 `json:"momentum_pct"`
	DividendYield float64 `json:"dividend_yield_pct"`
	PE            float64 `json:"pe_ratio,omitempty"`
	MarketCapM    float64 `json:"market_cap_m,omitempty"`
	Score         float64 `json:"score"`
}

// ComputeMetrics derives return, volatility, Sharpe and momentum from a
// close series. At least two closes are required.
func ComputeMetrics(closes []float64, riskFreePct float64) (Metrics, error) {
	if len(closes) < 2 {
		return Metrics{}, core.ErrInsufficientData
	}

	first, last := closes[0], closes[len(closes)-1]
	if first <= 0 {
		return Metrics{}, fmt.Errorf("%w: first close %v", core.ErrInsufficientData, first)
	}

	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] > 0 {
			returns = append(returns, closes[i]/closes[i-1]-1)
		}
	}

	m := Metrics{
		Price:        last,
		AnnualReturn: (last/first - 1) * 100,
	}

	if len(returns) >= 2 {
		mean, std := stat.MeanStdDev(returns, nil)
		m.Volatility = std * math.Sqrt(tradingDays) * 100
		if m.Volatility > 0 {
			m.Sharpe = (mean*tradingDays*100 - riskFreePct) / m.Volatility
		}
	}

	if len(closes) >= 2*momentumWindow {
		head := stat.Mean(closes[:momentumWindow], nil)
		tail := stat.Mean(closes[len(closes)-momentumWindow:], nil)
		m.Momentum = (tail/head - 1) * 100
	}

	return m, nil
}

// Score weights the metrics into a single ranking figure:
// return 3x, Sharpe 5x, momentum 4x, inverse volatility 3x, dividend 2x.
func Score(m Metrics) float64 {
	score := clamp(m.AnnualReturn/5, -10, 10) * 3
	score += clamp(m.Sharpe*2, -5, 5) * 5
	score += clamp(m.Momentum/4, -5, 5) * 4
	if m.Volatility > 0 {
		score += clamp(5-m.Volatility/10, -5, 5) * 3
	}
	score += math.Min(m.DividendYield, 5) * 2
	return score
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
