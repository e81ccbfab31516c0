package backtest

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// CalculateStats computes performance statistics from closed trades
func CalculateStats(trades []Trade) Summary {
	if len(trades) == 0 {
		return Summary{}
	}

	var wins int
	var total float64
	returns := make([]float64, 0, len(trades))

	for _, t := range trades {
		returns = append(returns, t.ReturnPct)
		total += t.ReturnPct
		if t.IsWin() {
			wins++
		}
	}

	count := len(trades)
	return Summary{
		Count:            count,
		Wins:             wins,
		Losses:           count - wins,
		WinRate:          float64(wins) / float64(count),
		AvgReturn:        total / float64(count),
		CumulativeReturn: total,
		MaxDrawdown:      calculateMaxDrawdown(returns),
		SharpeRatio:      calculateSharpeRatio(returns),
	}
}

// calculateMaxDrawdown finds the largest peak-to-trough decline of the
// compounded equity curve
func calculateMaxDrawdown(returns []float64) float64 {
	if len(returns) == 0 {
		return 0
	}

	var maxDD float64
	peak := 1.0
	cumulative := 1.0

	for _, r := range returns {
		cumulative *= (1 + r)
		if cumulative > peak {
			peak = cumulative
		}
		if peak > 0 {
			dd := (peak - cumulative) / peak
			if dd > maxDD {
				maxDD = dd
			}
		}
	}

	return maxDD
}

// calculateSharpeRatio computes risk-adjusted return per trade, annualized
// over ~252 trading days with a zero risk-free rate
func calculateSharpeRatio(returns []float64) float64 {
	if len(returns) < 2 {
		return 0
	}

	mean, stdDev := stat.MeanStdDev(returns, nil)
	if stdDev == 0 || math.IsNaN(stdDev) {
		return 0
	}

	return (mean * 252) / (stdDev * math.Sqrt(252))
}
