package news

import (
	"context"
	"sync"
	"time"
)

// CachedProvider wraps a news provider with a per-symbol TTL cache.
type CachedProvider struct {
	provider Provider
	ttl      time.Duration
	now      func() time.Time

	mu      sync.Mutex
	cache   map[string][]Item
	cacheAt map[string]time.Time
}

// NewCachedProvider creates a cached news provider.
func NewCachedProvider(provider Provider, ttl time.Duration) *CachedProvider {
	return &CachedProvider{
		provider: provider,
		ttl:      ttl,
		now:      time.Now,
		cache:    make(map[string][]Item),
		cacheAt:  make(map[string]time.Time),
	}
}

// GetNews returns cached news or fetches from the underlying provider.
// Errors are not cached.
func (p *CachedProvider) GetNews(ctx context.Context, symbol string) ([]Item, error) {
	p.mu.Lock()
	if cached, ok := p.cache[symbol]; ok && p.now().Sub(p.cacheAt[symbol]) < p.ttl {
		p.mu.Unlock()
		return cached, nil
	}
	p.mu.Unlock()

	items, err := p.provider.GetNews(ctx, symbol)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.cache[symbol] = items
	p.cacheAt[symbol] = p.now()
	p.mu.Unlock()
	return items, nil
}
