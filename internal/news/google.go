package news

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed/rss"
	"github.com/newthinker/mercado/internal/core"
)

const DefaultFeedURL = "https://news.google.com/rss/search"

// GoogleNews reads headlines from the Google News RSS search feed.
type GoogleNews struct {
	client   *http.Client
	feedURL  string
	language string
	region   string
}

// NewGoogleNews creates a provider. An empty feedURL uses DefaultFeedURL.
func NewGoogleNews(feedURL string, timeout time.Duration) *GoogleNews {
	if feedURL == "" {
		feedURL = DefaultFeedURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &GoogleNews{
		client:   &http.Client{Timeout: timeout},
		feedURL:  feedURL,
		language: "en-US",
		region:   "US",
	}
}

// WithLocale sets the hl/gl feed parameters, e.g. ("es", "ES").
func (g *GoogleNews) WithLocale(language, region string) *GoogleNews {
	g.language = language
	g.region = region
	return g
}

// GetNews returns the feed items for "<symbol> stock" in feed order.
func (g *GoogleNews) GetNews(ctx context.Context, symbol string) ([]Item, error) {
	if strings.TrimSpace(symbol) == "" {
		return nil, core.ErrEmptyInput
	}

	q := url.Values{}
	q.Set("q", symbol+" stock")
	q.Set("hl", g.language)
	q.Set("gl", g.region)
	q.Set("ceid", g.region+":"+strings.SplitN(g.language, "-", 2)[0])

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.feedURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, core.WrapError(core.ErrNewsFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, core.WrapError(core.ErrNewsFailed, fmt.Errorf("unexpected status: %d", resp.StatusCode))
	}

	// rss.Parser keeps per-document state.
	var parser rss.Parser
	feed, err := parser.Parse(resp.Body)
	if err != nil {
		return nil, core.WrapError(core.ErrNewsFailed, fmt.Errorf("parsing feed: %w", err))
	}

	items := make([]Item, 0, len(feed.Items))
	for _, it := range feed.Items {
		title := strings.TrimSpace(it.Title)
		if title == "" {
			continue
		}
		item := Item{
			Title:   title,
			URL:     it.Link,
			Symbols: []string{symbol},
		}
		if it.Source != nil {
			item.Source = strings.TrimSpace(it.Source.Title)
		}
		if it.PubDateParsed != nil {
			item.PublishedAt = it.PubDateParsed.UTC()
		}
		items = append(items, item)
	}

	return items, nil
}
