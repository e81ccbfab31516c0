package news

import (
	"context"
	"time"
)

// Item represents a news headline about a symbol.
type Item struct {
	Title       string    `json:"title"`
	Source      string    `json:"source,omitempty"`
	URL         string    `json:"url,omitempty"`
	Symbols     []string  `json:"symbols,omitempty"`
	PublishedAt time.Time `json:"published_at,omitempty"`
}

// Provider returns recent headlines for a symbol, most relevant first.
type Provider interface {
	GetNews(ctx context.Context, symbol string) ([]Item, error)
}
