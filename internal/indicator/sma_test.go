package indicator

import (
	"math"
	"testing"
)

func TestSMA_Calculate(t *testing.T) {
	prices := []float64{10, 11, 12, 13, 14, 15}

	sma := SMA(prices, 3)

	// SMA(3) for [10,11,12,13,14,15], aligned to the input:
	// [0],[1] = warm-up
	// [2] = (10+11+12)/3 = 11
	// [5] = (13+14+15)/3 = 14
	if len(sma) != len(prices) {
		t.Fatalf("expected %d values, got %d", len(prices), len(sma))
	}
	if !math.IsNaN(sma[0]) || !math.IsNaN(sma[1]) {
		t.Errorf("expected NaN warm-up, got %v", sma[:2])
	}

	expected := []float64{11, 12, 13, 14}
	for i, v := range expected {
		if sma[i+2] != v {
			t.Errorf("sma[%d] = %f, want %f", i+2, sma[i+2], v)
		}
	}
}

func TestSMA_NotEnoughData(t *testing.T) {
	prices := []float64{10, 11}
	sma := SMA(prices, 5)

	for i, v := range sma {
		if !math.IsNaN(v) {
			t.Errorf("sma[%d] = %f, want NaN", i, v)
		}
	}
}

func TestSMA_SkipsWindowsWithNaN(t *testing.T) {
	x := []float64{math.NaN(), 1, 2, 3}
	sma := SMA(x, 2)

	if !math.IsNaN(sma[1]) {
		t.Errorf("window containing NaN should be NaN, got %f", sma[1])
	}
	if sma[2] != 1.5 || sma[3] != 2.5 {
		t.Errorf("unexpected values: %v", sma)
	}
}

func TestEMA_SeededWithFirstValue(t *testing.T) {
	prices := []float64{10, 11, 12}
	ema := EMA(prices, 3)

	// alpha = 2/(3+1) = 0.5
	// [0] = 10
	// [1] = 11*0.5 + 10*0.5 = 10.5
	// [2] = 12*0.5 + 10.5*0.5 = 11.25
	expected := []float64{10, 10.5, 11.25}
	for i, v := range expected {
		if !almostEqual(ema[i], v, 1e-12) {
			t.Errorf("ema[%d] = %f, want %f", i, ema[i], v)
		}
	}
}

func TestEMA_Increasing(t *testing.T) {
	prices := []float64{10, 11, 12, 13, 14, 15}
	ema := EMA(prices, 3)

	if len(ema) != len(prices) {
		t.Fatalf("expected %d values, got %d", len(prices), len(ema))
	}
	for i := 1; i < len(ema); i++ {
		if ema[i] <= ema[i-1] {
			t.Errorf("EMA should be increasing, ema[%d]=%f <= ema[%d]=%f", i, ema[i], i-1, ema[i-1])
		}
	}
}

func TestEMA_Empty(t *testing.T) {
	if got := EMA(nil, 5); len(got) != 0 {
		t.Errorf("expected empty slice, got %d values", len(got))
	}
}

func TestRollingStd_Sample(t *testing.T) {
	x := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	std := RollingStd(x, 8)

	// mean 5, squared deviations sum to 32, sample variance 32/7
	want := math.Sqrt(32.0 / 7.0)
	if !almostEqual(std[7], want, 1e-12) {
		t.Errorf("std = %f, want %f", std[7], want)
	}
	for i := 0; i < 7; i++ {
		if !math.IsNaN(std[i]) {
			t.Errorf("std[%d] should be NaN during warm-up", i)
		}
	}
}

func TestReturns(t *testing.T) {
	r := Returns([]float64{100, 110, 99})

	if !math.IsNaN(r[0]) {
		t.Errorf("first return should be NaN, got %f", r[0])
	}
	if !almostEqual(r[1], 0.10, 1e-12) {
		t.Errorf("r[1] = %f, want 0.10", r[1])
	}
	if !almostEqual(r[2], -0.10, 1e-12) {
		t.Errorf("r[2] = %f, want -0.10", r[2])
	}
}

func almostEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) < tolerance
}
