package collector

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/newthinker/mercado/internal/core"
)

// FundamentalCollector defines interface for fundamental data collectors
type FundamentalCollector interface {
	Name() string
	FetchFundamental(ctx context.Context, symbol string) (*core.Fundamental, error)
}

// FundamentalRegistry manages fundamental collector instances
type FundamentalRegistry struct {
	mu         sync.RWMutex
	collectors map[string]FundamentalCollector
}

// NewFundamentalRegistry creates a new fundamental collector registry
func NewFundamentalRegistry() *FundamentalRegistry {
	return &FundamentalRegistry{
		collectors: make(map[string]FundamentalCollector),
	}
}

func (r *FundamentalRegistry) Register(c FundamentalCollector) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.collectors[c.Name()] = c
}

func (r *FundamentalRegistry) Get(name string) (FundamentalCollector, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.collectors[name]
	return c, ok
}

func (r *FundamentalRegistry) GetAll() []FundamentalCollector {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]FundamentalCollector, 0, len(r.collectors))
	for _, c := range r.collectors {
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name() < result[j].Name() })
	return result
}

// FetchFundamental returns the first answer any collector gives.
func (r *FundamentalRegistry) FetchFundamental(ctx context.Context, symbol string) (*core.Fundamental, error) {
	collectors := r.GetAll()
	if len(collectors) == 0 {
		return nil, core.WrapError(core.ErrCollectorFailed, fmt.Errorf("no fundamental collectors registered"))
	}

	var lastErr error
	for _, c := range collectors {
		f, err := c.FetchFundamental(ctx, symbol)
		if err == nil && f != nil {
			return f, nil
		}
		if err != nil {
			lastErr = err
		}
	}
	if lastErr == nil {
		lastErr = core.WrapError(core.ErrNoData, fmt.Errorf("no fundamentals for %s", symbol))
	}
	return nil, lastErr
}
