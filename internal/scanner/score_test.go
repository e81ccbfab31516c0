package scanner

import (
	"errors"
	"math"
	"testing"

	"github.com/newthinker/mercado/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniverse(t *testing.T) {
	symbols := Universe(DefaultRegions)

	seen := map[string]bool{}
	for _, s := range symbols {
		assert.False(t, seen[s], "duplicate %s", s)
		seen[s] = true
	}
	assert.Equal(t, "AAPL", symbols[0])
	assert.True(t, seen["600519.SS"])
	assert.True(t, seen["SAP.DE"])

	us := Universe(DefaultRegions[:1])
	// 10 + 4 new from ^DJI + 3 new from ^IXIC
	assert.Len(t, us, 17)
}

func TestComputeMetrics_Insufficient(t *testing.T) {
	_, err := ComputeMetrics([]float64{100}, DefaultRiskFreePct)
	assert.True(t, errors.Is(err, core.ErrInsufficientData))

	_, err = ComputeMetrics([]float64{0, 10}, DefaultRiskFreePct)
	assert.True(t, errors.Is(err, core.ErrInsufficientData))
}

func TestComputeMetrics_ReturnAndVolatility(t *testing.T) {
	closes := []float64{100, 110, 99, 108.9}

	m, err := ComputeMetrics(closes, DefaultRiskFreePct)
	require.NoError(t, err)

	assert.InDelta(t, 8.9, m.AnnualReturn, 1e-9)
	assert.Equal(t, 108.9, m.Price)

	// daily returns 0.1, -0.1, 0.1
	mean := 0.1 / 3
	variance := (2*math.Pow(0.1-mean, 2) + math.Pow(-0.1-mean, 2)) / 2
	vol := math.Sqrt(variance) * math.Sqrt(252) * 100
	assert.InDelta(t, vol, m.Volatility, 1e-9)
	assert.InDelta(t, (mean*252*100-2)/vol, m.Sharpe, 1e-9)

	// fewer than 60 closes
	assert.Equal(t, 0.0, m.Momentum)
}

func TestComputeMetrics_Constant(t *testing.T) {
	closes := make([]float64, 80)
	for i := range closes {
		closes[i] = 50
	}

	m, err := ComputeMetrics(closes, DefaultRiskFreePct)
	require.NoError(t, err)
	assert.Equal(t, 0.0, m.AnnualReturn)
	assert.Equal(t, 0.0, m.Volatility)
	assert.Equal(t, 0.0, m.Sharpe)
	assert.Equal(t, 0.0, m.Momentum)
}

func TestComputeMetrics_Momentum(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		if i < 30 {
			closes[i] = 100
		} else {
			closes[i] = 120
		}
	}

	m, err := ComputeMetrics(closes, DefaultRiskFreePct)
	require.NoError(t, err)
	assert.InDelta(t, 20.0, m.Momentum, 1e-9)
}

func TestScore(t *testing.T) {
	tests := []struct {
		name string
		m    Metrics
		want float64
	}{
		{"zero", Metrics{}, 0},
		{"return only", Metrics{AnnualReturn: 25}, 15},
		{"return capped", Metrics{AnnualReturn: 500}, 30},
		{"return floored", Metrics{AnnualReturn: -500}, -30},
		{"sharpe", Metrics{Sharpe: 1}, 10},
		{"sharpe capped", Metrics{Sharpe: 10}, 25},
		{"momentum", Metrics{Momentum: 8}, 8},
		{"low volatility", Metrics{Volatility: 20}, 9},
		{"high volatility", Metrics{Volatility: 200}, -15},
		{"dividend", Metrics{DividendYield: 3}, 6},
		{"dividend capped", Metrics{DividendYield: 12}, 10},
		{"combined", Metrics{AnnualReturn: 10, Sharpe: 0.5, Momentum: 4, Volatility: 30, DividendYield: 1}, 6 + 5 + 4 + 6 + 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, Score(tc.m), 1e-9)
		})
	}
}
