package news

import (
	"context"
	"errors"
	"testing"
	"time"
)

type countingProvider struct {
	calls int
	err   error
}

func (p *countingProvider) GetNews(ctx context.Context, symbol string) ([]Item, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return []Item{{Title: symbol + " headline"}}, nil
}

func TestStaticProvider_GetNews(t *testing.T) {
	items := []Item{
		{Title: "Stock rises", Symbols: []string{"AAPL"}},
		{Title: "Other stock", Symbols: []string{"GOOG"}},
		{Title: "Market update"},
	}

	provider := NewStaticProvider(items)
	result, err := provider.GetNews(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result) != 2 {
		t.Fatalf("expected 2 news items, got %d", len(result))
	}
	if result[0].Title != "Stock rises" {
		t.Errorf("expected 'Stock rises', got %s", result[0].Title)
	}
	if result[1].Title != "Market update" {
		t.Errorf("expected 'Market update', got %s", result[1].Title)
	}
}

func TestCachedProvider_GetNews(t *testing.T) {
	inner := &countingProvider{}
	cached := NewCachedProvider(inner, time.Hour)
	ctx := context.Background()

	_, _ = cached.GetNews(ctx, "AAPL")
	_, _ = cached.GetNews(ctx, "AAPL")
	if inner.calls != 1 {
		t.Errorf("expected 1 call to underlying provider, got %d", inner.calls)
	}

	_, _ = cached.GetNews(ctx, "MSFT")
	if inner.calls != 2 {
		t.Errorf("expected 2 calls after new symbol, got %d", inner.calls)
	}
}

func TestCachedProvider_Expiry(t *testing.T) {
	inner := &countingProvider{}
	cached := NewCachedProvider(inner, time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cached.now = func() time.Time { return now }

	ctx := context.Background()
	_, _ = cached.GetNews(ctx, "AAPL")
	now = now.Add(2 * time.Minute)
	_, _ = cached.GetNews(ctx, "AAPL")

	if inner.calls != 2 {
		t.Errorf("expected refetch after TTL, got %d calls", inner.calls)
	}
}

func TestCachedProvider_ErrorNotCached(t *testing.T) {
	inner := &countingProvider{err: errors.New("feed down")}
	cached := NewCachedProvider(inner, time.Hour)

	if _, err := cached.GetNews(context.Background(), "AAPL"); err == nil {
		t.Fatal("expected error")
	}
	inner.err = nil
	items, err := cached.GetNews(context.Background(), "AAPL")
	if err != nil || len(items) != 1 {
		t.Errorf("expected fresh fetch after error, got %v %v", items, err)
	}
}
