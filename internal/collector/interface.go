package collector

import (
	"context"
	"time"

	"github.com/newthinker/mercado/internal/core"
)

// Config holds collector configuration
type Config struct {
	Enabled    bool
	BaseURL    string
	SummaryURL string
	Timeout    time.Duration
	RateLimit  float64 // requests per second, 0 = unlimited
}

// Collector defines the interface for market data collectors
type Collector interface {
	// Metadata
	Name() string
	SupportedMarkets() []core.Market

	// Lifecycle
	Init(cfg Config) error

	// Data fetching
	FetchHistory(ctx context.Context, symbol, period string) ([]core.PricePoint, error)
	FetchProfile(ctx context.Context, symbol string) (*core.Profile, error)
}
