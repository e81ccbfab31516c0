package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/newthinker/mercado/internal/collector"
	"github.com/newthinker/mercado/internal/core"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL    = "https://query1.finance.yahoo.com/v8/finance/chart"
	defaultSummaryURL = "https://query2.finance.yahoo.com/v10/finance/quoteSummary"
	summaryModules    = "summaryDetail,assetProfile"
	defaultTimeout    = 10 * time.Second
	userAgent         = "Mozilla/5.0 (compatible; mercado/1.0)"
)

// validSymbol matches symbols like AAPL, BRK-B, ^GSPC, 0700.HK, 600519.SS
var validSymbol = regexp.MustCompile(`^\^?[A-Za-z0-9-]{1,12}(\.[A-Za-z]{1,4})?$`)

// validateSymbol checks if a symbol has valid format
func validateSymbol(symbol string) error {
	if symbol == "" {
		return core.WrapError(core.ErrInvalidRequest, fmt.Errorf("symbol cannot be empty"))
	}
	if len(symbol) > 20 {
		return core.WrapError(core.ErrInvalidRequest, fmt.Errorf("symbol too long: %s", symbol))
	}
	if !validSymbol.MatchString(symbol) {
		return core.WrapError(core.ErrInvalidRequest, fmt.Errorf("invalid symbol format: %s", symbol))
	}
	return nil
}

// Yahoo implements the Yahoo Finance chart collector
type Yahoo struct {
	client     *http.Client
	baseURL    string
	summaryURL string
	limiter    *rate.Limiter
	now        func() time.Time
}

// New creates a new Yahoo collector
func New() *Yahoo {
	return &Yahoo{
		client:     &http.Client{Timeout: defaultTimeout},
		baseURL:    defaultBaseURL,
		summaryURL: defaultSummaryURL,
		limiter:    rate.NewLimiter(rate.Inf, 1),
		now:        time.Now,
	}
}

func (y *Yahoo) Name() string {
	return "yahoo"
}

func (y *Yahoo) SupportedMarkets() []core.Market {
	return []core.Market{core.MarketUS, core.MarketEU, core.MarketUK, core.MarketJP, core.MarketHK, core.MarketCNA, core.MarketIndex}
}

func (y *Yahoo) Init(cfg collector.Config) error {
	if cfg.BaseURL != "" {
		y.baseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}
	if cfg.SummaryURL != "" {
		y.summaryURL = strings.TrimSuffix(cfg.SummaryURL, "/")
	}
	if cfg.Timeout > 0 {
		y.client.Timeout = cfg.Timeout
	}
	if cfg.RateLimit > 0 {
		y.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}
	return nil
}

// toYahooSymbol converts internal symbol format to Yahoo format
func (y *Yahoo) toYahooSymbol(symbol string) string {
	// Shanghai stocks: 600519.SH -> 600519.SS
	if strings.HasSuffix(symbol, ".SH") {
		return strings.TrimSuffix(symbol, ".SH") + ".SS"
	}
	return symbol
}

// FetchHistory fetches daily closes for the lookback period
func (y *Yahoo) FetchHistory(ctx context.Context, symbol, period string) ([]core.PricePoint, error) {
	if err := validateSymbol(symbol); err != nil {
		return nil, err
	}
	end := y.now()
	start, err := collector.PeriodStart(period, end)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/%s?interval=1d&period1=%d&period2=%d",
		y.baseURL, y.toYahooSymbol(symbol), start.Unix(), end.Unix())

	result, err := y.fetchChart(ctx, url, symbol)
	if err != nil {
		return nil, err
	}

	if len(result.Indicators.Quote) == 0 {
		return []core.PricePoint{}, nil
	}
	closes := result.Indicators.Quote[0].Close

	data := make([]core.PricePoint, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(closes) || closes[i] == nil {
			continue // Skip missing data
		}
		data = append(data, core.PricePoint{
			Date:  time.Unix(int64(ts), 0).UTC(),
			Price: *closes[i],
		})
	}

	return data, nil
}

// FetchProfile returns the descriptive fields of the chart metadata
func (y *Yahoo) FetchProfile(ctx context.Context, symbol string) (*core.Profile, error) {
	if err := validateSymbol(symbol); err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/%s?interval=1d&range=1d", y.baseURL, y.toYahooSymbol(symbol))

	result, err := y.fetchChart(ctx, url, symbol)
	if err != nil {
		return nil, err
	}

	meta := result.Meta
	name := meta.ShortName
	if name == "" {
		name = meta.LongName
	}
	if name == "" {
		name = symbol
	}

	return &core.Profile{
		Symbol:   symbol,
		Name:     name,
		Exchange: meta.ExchangeName,
		Currency: meta.Currency,
		Market:   y.detectMarket(symbol),
	}, nil
}

// FetchFundamental reads sector, country, dividend yield, trailing P/E and
// market cap from the quoteSummary endpoint.
func (y *Yahoo) FetchFundamental(ctx context.Context, symbol string) (*core.Fundamental, error) {
	if err := validateSymbol(symbol); err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/%s?modules=%s", y.summaryURL, y.toYahooSymbol(symbol), summaryModules)

	var body summaryResponse
	if err := y.getJSON(ctx, url, symbol, &body); err != nil {
		return nil, err
	}
	if body.QuoteSummary.Error != nil {
		return nil, core.WrapError(core.ErrCollectorFailed, fmt.Errorf("yahoo error: %s", body.QuoteSummary.Error.Description))
	}
	if len(body.QuoteSummary.Result) == 0 {
		return nil, core.WrapError(core.ErrNoData, fmt.Errorf("no fundamentals for symbol: %s", symbol))
	}

	r := body.QuoteSummary.Result[0]
	return &core.Fundamental{
		Symbol:        symbol,
		Sector:        r.AssetProfile.Sector,
		Industry:      r.AssetProfile.Industry,
		Country:       r.AssetProfile.Country,
		DividendYield: r.SummaryDetail.DividendYield.Raw * 100,
		TrailingPE:    r.SummaryDetail.TrailingPE.Raw,
		MarketCap:     r.SummaryDetail.MarketCap.Raw,
		UpdatedAt:     y.now().UTC(),
	}, nil
}

func (y *Yahoo) fetchChart(ctx context.Context, url, symbol string) (*chartResult, error) {
	var body chartResponse
	if err := y.getJSON(ctx, url, symbol, &body); err != nil {
		return nil, err
	}

	if body.Chart.Error != nil {
		return nil, core.WrapError(core.ErrCollectorFailed, fmt.Errorf("yahoo error: %s", body.Chart.Error.Description))
	}

	if len(body.Chart.Result) == 0 {
		return nil, core.WrapError(core.ErrNoData, fmt.Errorf("no data for symbol: %s", symbol))
	}

	return &body.Chart.Result[0], nil
}

func (y *Yahoo) getJSON(ctx context.Context, url, symbol string, out any) error {
	if err := y.limiter.Wait(ctx); err != nil {
		return core.WrapError(core.ErrCollectorTimeout, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := y.client.Do(req)
	if err != nil {
		return core.WrapError(core.ErrCollectorFailed, fmt.Errorf("fetching %s: %w", symbol, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return core.WrapError(core.ErrSymbolNotFound, fmt.Errorf("symbol %s", symbol))
	}
	if resp.StatusCode != http.StatusOK {
		return core.WrapError(core.ErrCollectorFailed, fmt.Errorf("unexpected status: %d", resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return core.WrapError(core.ErrCollectorFailed, fmt.Errorf("decoding response: %w", err))
	}
	return nil
}

func (y *Yahoo) detectMarket(symbol string) core.Market {
	s := strings.ToUpper(symbol)
	switch {
	case strings.HasPrefix(s, "^"):
		return core.MarketIndex
	case strings.HasSuffix(s, ".HK"):
		return core.MarketHK
	case strings.HasSuffix(s, ".SH"), strings.HasSuffix(s, ".SS"), strings.HasSuffix(s, ".SZ"):
		return core.MarketCNA
	case strings.HasSuffix(s, ".T"):
		return core.MarketJP
	case strings.HasSuffix(s, ".L"):
		return core.MarketUK
	case strings.HasSuffix(s, ".AS"), strings.HasSuffix(s, ".PA"), strings.HasSuffix(s, ".DE"), strings.HasSuffix(s, ".MC"):
		return core.MarketEU
	default:
		return core.MarketUS
	}
}

// Yahoo API response types
type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Meta       chartMeta  `json:"meta"`
	Timestamp  []int64    `json:"timestamp"`
	Indicators indicators `json:"indicators"`
}

type chartMeta struct {
	Symbol             string  `json:"symbol"`
	Currency           string  `json:"currency"`
	ExchangeName       string  `json:"exchangeName"`
	ShortName          string  `json:"shortName"`
	LongName           string  `json:"longName"`
	RegularMarketPrice float64 `json:"regularMarketPrice"`
}

type indicators struct {
	Quote []quoteIndicator `json:"quote"`
}

type quoteIndicator struct {
	Close []*float64 `json:"close"`
}

type summaryResponse struct {
	QuoteSummary struct {
		Result []summaryResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

type summaryResult struct {
	SummaryDetail struct {
		DividendYield rawValue `json:"dividendYield"`
		TrailingPE    rawValue `json:"trailingPE"`
		MarketCap     rawValue `json:"marketCap"`
	} `json:"summaryDetail"`
	AssetProfile struct {
		Sector   string `json:"sector"`
		Industry string `json:"industry"`
		Country  string `json:"country"`
	} `json:"assetProfile"`
}

// rawValue is Yahoo's {"raw": 0.0044, "fmt": "0.44%"} number wrapper.
type rawValue struct {
	Raw float64 `json:"raw"`
}
