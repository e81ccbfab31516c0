package backtest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/newthinker/mercado/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockProvider implements PriceProvider for testing
type mockProvider struct {
	data []core.PricePoint
	err  error
}

func (m *mockProvider) FetchHistory(ctx context.Context, symbol, period string) ([]core.PricePoint, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.data, nil
}

var day0 = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

func rows(prices []float64, signals []core.Signal) []core.EnrichedPoint {
	out := make([]core.EnrichedPoint, len(prices))
	for i, p := range prices {
		out[i] = core.EnrichedPoint{
			PricePoint: core.PricePoint{Date: day0.AddDate(0, 0, i), Price: p},
			SignalBT:   signals[i],
		}
	}
	return out
}

const (
	B = core.SignalBuy
	S = core.SignalSell
	H = core.SignalHold
)

func TestReplay_RoundTrips(t *testing.T) {
	series := rows(
		[]float64{100, 105, 110, 108, 115, 120},
		[]core.Signal{B, H, S, B, H, S},
	)

	trades, summary := Replay(series)
	require.Len(t, trades, 2)

	assert.Equal(t, 100.0, trades[0].BuyPrice)
	assert.Equal(t, 110.0, trades[0].SellPrice)
	assert.Equal(t, day0, trades[0].BuyDate)
	assert.Equal(t, day0.AddDate(0, 0, 2), trades[0].SellDate)
	assert.Equal(t, (110.0-100.0)/100.0, trades[0].ReturnPct)

	assert.Equal(t, 108.0, trades[1].BuyPrice)
	assert.Equal(t, 120.0, trades[1].SellPrice)
	assert.Equal(t, (120.0-108.0)/108.0, trades[1].ReturnPct)

	assert.Equal(t, 2, summary.Count)
	assert.Equal(t, 2, summary.Wins)
	assert.Equal(t, 0, summary.Losses)
}

func TestReplay_IgnoresRedundantSignals(t *testing.T) {
	series := rows(
		[]float64{90, 100, 101, 102, 95, 94},
		[]core.Signal{S, B, B, H, S, S},
	)

	trades, _ := Replay(series)
	require.Len(t, trades, 1)
	assert.Equal(t, 100.0, trades[0].BuyPrice, "second buy while long must be ignored")
	assert.Equal(t, 95.0, trades[0].SellPrice, "first sell closes the position")
}

func TestReplay_OpenPositionAtEndIsDropped(t *testing.T) {
	series := rows(
		[]float64{100, 110, 105, 107},
		[]core.Signal{B, S, B, H},
	)

	trades, summary := Replay(series)
	require.Len(t, trades, 1)
	assert.Equal(t, 110.0, trades[0].SellPrice)
	assert.Equal(t, 1, summary.Count)
}

func TestReplay_EmptyAndFlat(t *testing.T) {
	trades, summary := Replay(nil)
	assert.Empty(t, trades)
	assert.Equal(t, Summary{}, summary)

	trades, summary = Replay(rows([]float64{1, 2, 3}, []core.Signal{H, S, H}))
	assert.Empty(t, trades)
	assert.Equal(t, Summary{}, summary)
}

func TestReplay_Idempotent(t *testing.T) {
	series := rows(
		[]float64{100, 95, 97, 99, 101, 98},
		[]core.Signal{B, S, B, H, S, B},
	)

	trades1, summary1 := Replay(series)
	trades2, summary2 := Replay(series)

	assert.Equal(t, trades1, trades2)
	assert.Equal(t, summary1, summary2)
}

func TestReplay_CumulativeReturnNotCompounded(t *testing.T) {
	series := rows(
		[]float64{100, 110, 100, 90},
		[]core.Signal{B, S, B, S},
	)

	_, summary := Replay(series)
	assert.InDelta(t, 0.0, summary.CumulativeReturn, 1e-12)
	assert.Equal(t, 1, summary.Wins)
	assert.Equal(t, 1, summary.Losses)
	assert.Equal(t, 0.5, summary.WinRate)
}

func TestBacktester_Run(t *testing.T) {
	prices := []float64{100, 102, 101, 105, 103, 98, 110, 108, 95, 120}
	data := make([]core.PricePoint, len(prices))
	for i, p := range prices {
		data[i] = core.PricePoint{Date: day0.AddDate(0, 0, i), Price: p}
	}

	backtester := New(&mockProvider{data: data})
	result, err := backtester.Run(context.Background(), "AAPL", "1y")
	require.NoError(t, err)

	assert.Equal(t, "AAPL", result.Symbol)
	assert.Equal(t, "1y", result.Period)
	assert.Len(t, result.Series, len(prices))
	assert.Empty(t, result.Trades, "ten bars cannot satisfy the MA50 condition")
	assert.Equal(t, Summary{}, result.Summary)
}

func TestBacktester_Run_NoData(t *testing.T) {
	backtester := New(&mockProvider{data: []core.PricePoint{}})

	_, err := backtester.Run(context.Background(), "AAPL", "1y")
	if !errors.Is(err, core.ErrEmptyInput) {
		t.Errorf("expected ErrEmptyInput, got %v", err)
	}
}

func TestBacktester_Run_ProviderError(t *testing.T) {
	backtester := New(&mockProvider{err: errors.New("provider error")})

	_, err := backtester.Run(context.Background(), "AAPL", "1y")
	if err == nil {
		t.Error("Expected error from provider")
	}
}

func TestBacktester_Run_ContextCancellation(t *testing.T) {
	data := make([]core.PricePoint, 100)
	for i := range data {
		data[i] = core.PricePoint{Date: day0.AddDate(0, 0, i), Price: 100}
	}
	backtester := New(&mockProvider{data: data})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := backtester.Run(ctx, "AAPL", "1y")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
