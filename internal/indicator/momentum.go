package indicator

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// deltas returns x[i]-x[i-1], NaN at index 0.
func deltas(x []float64) []float64 {
	out := nanSlice(len(x))
	for i := 1; i < len(x); i++ {
		out[i] = x[i] - x[i-1]
	}
	return out
}

// RSI calculates the Relative Strength Index from simple rolling means of
// gains and losses over the last period deltas (no Wilder smoothing).
//
// A window with losses but no gains yields 0, a window with gains and no
// losses yields exactly 100, and a flat window (no gains, no losses) is NaN.
func RSI(x []float64, period int) []float64 {
	d := deltas(x)
	gains := nanSlice(len(d))
	losses := nanSlice(len(d))
	for i, v := range d {
		if math.IsNaN(v) {
			continue
		}
		gains[i] = math.Max(v, 0)
		losses[i] = math.Max(-v, 0)
	}

	out := nanSlice(len(x))
	for i := range x {
		gw, ok := window(gains, i, period)
		if !ok {
			continue
		}
		lw, _ := window(losses, i, period)

		avgGain := floats.Sum(gw) / float64(period)
		avgLoss := floats.Sum(lw) / float64(period)
		out[i] = rsiFromAverages(avgGain, avgLoss)
	}
	return out
}

func rsiFromAverages(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		if avgGain == 0 {
			return math.NaN()
		}
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// ATR calculates the Average True Range from close prices only. Without
// intraday highs and lows the true range collapses to |x[i]-x[i-1]|.
func ATR(x []float64, period int) []float64 {
	d := deltas(x)
	tr := make([]float64, len(d))
	for i, v := range d {
		tr[i] = math.Abs(v)
	}

	out := nanSlice(len(x))
	for i := range x {
		if w, ok := window(tr, i, period); ok {
			out[i] = floats.Sum(w) / float64(period)
		}
	}
	return out
}
