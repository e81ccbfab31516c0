package analysis

import (
	"math"

	"github.com/newthinker/mercado/internal/core"
	"gonum.org/v1/gonum/stat"
)

const (
	// TradingDays annualises daily statistics.
	TradingDays = 252
	// DefaultRiskFreeRate is the annual risk-free rate used for the daily Sharpe ratio.
	DefaultRiskFreeRate = 0.01
)

// DailySharpe is the annualised Sharpe ratio of the series' daily returns:
// (mean*252 - rf) / (std*sqrt(252)). Zero when the deviation is zero or
// fewer than two returns are defined.
func DailySharpe(series []core.EnrichedPoint, riskFree float64) float64 {
	returns := make([]float64, 0, len(series))
	for _, p := range series {
		if p.Return != nil {
			returns = append(returns, *p.Return)
		}
	}
	if len(returns) < 2 {
		return 0
	}

	mean, std := stat.MeanStdDev(returns, nil)
	if std == 0 || math.IsNaN(std) {
		return 0
	}

	return (mean*TradingDays - riskFree) / (std * math.Sqrt(TradingDays))
}
