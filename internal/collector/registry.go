package collector

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/newthinker/mercado/internal/core"
)

// Registry manages collector plugins
type Registry struct {
	mu         sync.RWMutex
	collectors map[string]Collector
}

// NewRegistry creates a new collector registry
func NewRegistry() *Registry {
	return &Registry{
		collectors: make(map[string]Collector),
	}
}

// Register adds a collector to the registry
func (r *Registry) Register(c Collector) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.collectors[c.Name()] = c
}

// Get retrieves a collector by name
func (r *Registry) Get(name string) (Collector, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.collectors[name]
	return c, ok
}

// GetAll returns all registered collectors ordered by name
func (r *Registry) GetAll() []Collector {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Collector, 0, len(r.collectors))
	for _, c := range r.collectors {
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name() < result[j].Name() })
	return result
}

// FetchHistory asks each collector in turn and returns the first non-empty
// series. An empty series is returned as-is when every collector answered
// without data.
func (r *Registry) FetchHistory(ctx context.Context, symbol, period string) ([]core.PricePoint, error) {
	collectors := r.GetAll()
	if len(collectors) == 0 {
		return nil, core.WrapError(core.ErrCollectorFailed, fmt.Errorf("no collectors registered"))
	}

	var lastErr error
	answered := false
	for _, c := range collectors {
		series, err := c.FetchHistory(ctx, symbol, period)
		if err != nil {
			lastErr = err
			continue
		}
		answered = true
		if len(series) > 0 {
			return series, nil
		}
	}

	if answered {
		return []core.PricePoint{}, nil
	}
	return nil, core.WrapError(core.ErrCollectorFailed, lastErr)
}

// FetchProfile returns the first profile any collector can provide.
func (r *Registry) FetchProfile(ctx context.Context, symbol string) (*core.Profile, error) {
	var lastErr error = core.ErrSymbolNotFound
	for _, c := range r.GetAll() {
		p, err := c.FetchProfile(ctx, symbol)
		if err == nil && p != nil {
			return p, nil
		}
		if err != nil {
			lastErr = err
		}
	}
	return nil, lastErr
}
