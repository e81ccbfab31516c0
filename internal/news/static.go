package news

import "context"

// StaticProvider returns configured headlines. Used offline and in tests.
type StaticProvider struct {
	items []Item
}

// NewStaticProvider creates a news provider with static news items.
func NewStaticProvider(items []Item) *StaticProvider {
	return &StaticProvider{items: items}
}

// GetNews returns items tagged with the symbol, or untagged market-wide items.
func (p *StaticProvider) GetNews(ctx context.Context, symbol string) ([]Item, error) {
	var result []Item
	for _, item := range p.items {
		if len(item.Symbols) == 0 {
			result = append(result, item)
			continue
		}
		for _, s := range item.Symbols {
			if s == symbol {
				result = append(result, item)
				break
			}
		}
	}
	return result, nil
}
