package indicator

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// All rolling functions return a slice aligned with the input. Positions
// without a full window of defined samples hold NaN.

// window returns x[i-period+1 : i+1] when it is full and NaN-free.
func window(x []float64, i, period int) ([]float64, bool) {
	if period <= 0 || i-period+1 < 0 {
		return nil, false
	}
	w := x[i-period+1 : i+1]
	for _, v := range w {
		if math.IsNaN(v) {
			return nil, false
		}
	}
	return w, true
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// SMA calculates the trailing Simple Moving Average
func SMA(x []float64, period int) []float64 {
	out := nanSlice(len(x))
	for i := range x {
		if w, ok := window(x, i, period); ok {
			out[i] = stat.Mean(w, nil)
		}
	}
	return out
}

// RollingStd calculates the trailing sample standard deviation (n-1 denominator).
func RollingStd(x []float64, period int) []float64 {
	out := nanSlice(len(x))
	if period < 2 {
		return out
	}
	for i := range x {
		if w, ok := window(x, i, period); ok {
			out[i] = stat.StdDev(w, nil)
		}
	}
	return out
}

// EMA calculates the Exponential Moving Average with smoothing 2/(period+1).
// The average is seeded with the first sample rather than an SMA, so it is
// defined from index 0.
func EMA(x []float64, period int) []float64 {
	if len(x) == 0 || period <= 0 {
		return []float64{}
	}

	out := make([]float64, len(x))
	alpha := 2.0 / float64(period+1)

	out[0] = x[0]
	for i := 1; i < len(x); i++ {
		out[i] = (x[i]-out[i-1])*alpha + out[i-1]
	}
	return out
}

// Returns calculates simple period-over-period returns. Index 0 is NaN.
func Returns(x []float64) []float64 {
	out := nanSlice(len(x))
	for i := 1; i < len(x); i++ {
		out[i] = x[i]/x[i-1] - 1
	}
	return out
}
