package backtest

import (
	"context"
	"fmt"

	"github.com/newthinker/mercado/internal/core"
	"github.com/newthinker/mercado/internal/indicator"
	"go.uber.org/zap"
)

// PriceProvider defines the interface for fetching daily close history
type PriceProvider interface {
	FetchHistory(ctx context.Context, symbol, period string) ([]core.PricePoint, error)
}

// Backtester runs the crossover rule against historical data
type Backtester struct {
	provider PriceProvider
	logger   *zap.Logger
}

// New creates a new Backtester with the given price provider
func New(provider PriceProvider, logger ...*zap.Logger) *Backtester {
	l := zap.NewNop()
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &Backtester{
		provider: provider,
		logger:   l,
	}
}

// Run fetches history for symbol, enriches it and replays the signals.
func (b *Backtester) Run(ctx context.Context, symbol, period string) (*Result, error) {
	series, err := b.provider.FetchHistory(ctx, symbol, period)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	enriched, err := indicator.Compute(series)
	if err != nil {
		return nil, fmt.Errorf("computing indicators for %s: %w", symbol, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	trades, summary := Replay(enriched)

	b.logger.Debug("backtest complete",
		zap.String("symbol", symbol),
		zap.String("period", period),
		zap.Int("bars", len(enriched)),
		zap.Int("trades", summary.Count),
	)

	return &Result{
		Symbol:  symbol,
		Period:  period,
		Series:  enriched,
		Trades:  trades,
		Summary: summary,
	}, nil
}

// Replay walks the enriched series once with a single long position.
// A buy opens the position when flat, a sell closes it when long, every
// other row is ignored. A position still open after the last row is not
// reported.
func Replay(series []core.EnrichedPoint) ([]Trade, Summary) {
	trades := []Trade{}
	var open *core.EnrichedPoint

	for i := range series {
		row := &series[i]
		switch {
		case row.SignalBT == core.SignalBuy && open == nil:
			open = row
		case row.SignalBT == core.SignalSell && open != nil:
			trades = append(trades, Trade{
				BuyDate:   open.Date,
				SellDate:  row.Date,
				BuyPrice:  open.Price,
				SellPrice: row.Price,
				ReturnPct: (row.Price - open.Price) / open.Price,
			})
			open = nil
		}
	}

	return trades, CalculateStats(trades)
}
