package yahoo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/newthinker/mercado/internal/collector"
	"github.com/newthinker/mercado/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chartFixture = `{
  "chart": {
    "result": [{
      "meta": {"symbol": "AAPL", "currency": "USD", "exchangeName": "NMS", "shortName": "Apple Inc.", "regularMarketPrice": 103.0},
      "timestamp": [1704205800, 1704292200, 1704378600, 1704465000],
      "indicators": {"quote": [{"close": [100.0, null, 101.5, 103.0]}]}
    }],
    "error": null
  }
}`

func newTestYahoo(t *testing.T, handler http.HandlerFunc) *Yahoo {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	y := New()
	require.NoError(t, y.Init(collector.Config{BaseURL: srv.URL, Timeout: 5 * time.Second}))
	y.now = func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }
	return y
}

func TestYahoo_ImplementsCollector(t *testing.T) {
	var _ collector.Collector = (*Yahoo)(nil)
}

func TestYahoo_Name(t *testing.T) {
	y := New()
	if y.Name() != "yahoo" {
		t.Errorf("expected 'yahoo', got '%s'", y.Name())
	}
}

func TestYahoo_SupportedMarkets(t *testing.T) {
	y := New()
	markets := y.SupportedMarkets()

	if len(markets) == 0 {
		t.Error("expected at least one supported market")
	}
}

func TestYahoo_ToYahooSymbol(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"AAPL", "AAPL"},
		{"0700.HK", "0700.HK"},
		{"600519.SH", "600519.SS"},
		{"^GSPC", "^GSPC"},
	}

	y := New()
	for _, tc := range tests {
		got := y.toYahooSymbol(tc.input)
		if got != tc.expected {
			t.Errorf("toYahooSymbol(%s) = %s, want %s", tc.input, got, tc.expected)
		}
	}
}

func TestYahoo_DetectMarket(t *testing.T) {
	tests := []struct {
		symbol   string
		expected core.Market
	}{
		{"AAPL", core.MarketUS},
		{"0700.HK", core.MarketHK},
		{"600519.SS", core.MarketCNA},
		{"7203.T", core.MarketJP},
		{"HSBA.L", core.MarketUK},
		{"ASML.AS", core.MarketEU},
		{"^N225", core.MarketIndex},
	}

	y := New()
	for _, tc := range tests {
		if got := y.detectMarket(tc.symbol); got != tc.expected {
			t.Errorf("detectMarket(%s) = %s, want %s", tc.symbol, got, tc.expected)
		}
	}
}

func TestValidateSymbol(t *testing.T) {
	valid := []string{"AAPL", "BRK-B", "^GSPC", "0700.HK", "SAP.DE"}
	for _, s := range valid {
		assert.NoError(t, validateSymbol(s), s)
	}

	invalid := []string{"", "AAPL; DROP", "../etc", "A B"}
	for _, s := range invalid {
		assert.ErrorIs(t, validateSymbol(s), core.ErrInvalidRequest, s)
	}
}

func TestYahoo_FetchHistory(t *testing.T) {
	var gotQuery string
	y := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		assert.True(t, strings.HasSuffix(r.URL.Path, "/AAPL"))
		w.Write([]byte(chartFixture))
	})

	data, err := y.FetchHistory(context.Background(), "AAPL", "1y")
	require.NoError(t, err)

	// the null close is skipped
	require.Len(t, data, 3)
	assert.Equal(t, 100.0, data[0].Price)
	assert.Equal(t, 103.0, data[2].Price)
	assert.Equal(t, time.UTC, data[0].Date.Location())
	assert.True(t, data[0].Date.Before(data[1].Date))

	start := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC).Unix()
	assert.Contains(t, gotQuery, "interval=1d")
	assert.Contains(t, gotQuery, "period1="+itoa(start))
}

func TestYahoo_FetchHistory_InvalidPeriod(t *testing.T) {
	y := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	_, err := y.FetchHistory(context.Background(), "AAPL", "forever")
	assert.ErrorIs(t, err, core.ErrInvalidRequest)
}

func TestYahoo_FetchHistory_NotFound(t *testing.T) {
	y := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := y.FetchHistory(context.Background(), "NOPE", "1y")
	assert.True(t, errors.Is(err, core.ErrSymbolNotFound))
}

func TestYahoo_FetchHistory_ChartError(t *testing.T) {
	y := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Bad","description":"bad request"}}}`))
	})

	_, err := y.FetchHistory(context.Background(), "AAPL", "1y")
	assert.True(t, errors.Is(err, core.ErrCollectorFailed))
}

func TestYahoo_FetchHistory_EmptyResult(t *testing.T) {
	y := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":[],"error":null}}`))
	})

	_, err := y.FetchHistory(context.Background(), "AAPL", "1y")
	assert.True(t, errors.Is(err, core.ErrNoData))
}

func TestYahoo_FetchHistory_ContextCanceled(t *testing.T) {
	y := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chartFixture))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := y.FetchHistory(ctx, "AAPL", "1y")
	assert.Error(t, err)
}

func TestYahoo_FetchProfile(t *testing.T) {
	y := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chartFixture))
	})

	p, err := y.FetchProfile(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "Apple Inc.", p.Name)
	assert.Equal(t, "NMS", p.Exchange)
	assert.Equal(t, "USD", p.Currency)
	assert.Equal(t, core.MarketUS, p.Market)
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}

const summaryFixture = `{
  "quoteSummary": {
    "result": [{
      "summaryDetail": {
        "dividendYield": {"raw": 0.0044, "fmt": "0.44%"},
        "trailingPE": {"raw": 31.2, "fmt": "31.20"},
        "marketCap": {"raw": 3400000000000, "fmt": "3.4T"}
      },
      "assetProfile": {"sector": "Technology", "industry": "Consumer Electronics", "country": "United States"}
    }],
    "error": null
  }
}`

func TestYahoo_ImplementsFundamentalCollector(t *testing.T) {
	var _ collector.FundamentalCollector = (*Yahoo)(nil)
}

func TestYahoo_FetchFundamental(t *testing.T) {
	var gotPath, gotModules string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotModules = r.URL.Query().Get("modules")
		w.Write([]byte(summaryFixture))
	}))
	t.Cleanup(srv.Close)

	y := New()
	require.NoError(t, y.Init(collector.Config{SummaryURL: srv.URL + "/", Timeout: 5 * time.Second}))

	f, err := y.FetchFundamental(context.Background(), "600519.SH")
	require.NoError(t, err)

	assert.Equal(t, "/600519.SS", gotPath)
	assert.Equal(t, "summaryDetail,assetProfile", gotModules)
	assert.Equal(t, "600519.SH", f.Symbol)
	assert.Equal(t, "Technology", f.Sector)
	assert.Equal(t, "Consumer Electronics", f.Industry)
	assert.Equal(t, "United States", f.Country)
	assert.InDelta(t, 0.44, f.DividendYield, 1e-9)
	assert.Equal(t, 31.2, f.TrailingPE)
	assert.Equal(t, 3.4e12, f.MarketCap)
}

func TestYahoo_FetchFundamental_MissingFieldsAreZero(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"quoteSummary":{"result":[{"summaryDetail":{},"assetProfile":{}}],"error":null}}`))
	}))
	t.Cleanup(srv.Close)

	y := New()
	require.NoError(t, y.Init(collector.Config{SummaryURL: srv.URL}))

	f, err := y.FetchFundamental(context.Background(), "^GSPC")
	require.NoError(t, err)
	assert.Empty(t, f.Sector)
	assert.Zero(t, f.DividendYield)
}

func TestYahoo_FetchFundamental_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"not found", http.StatusNotFound, "", core.ErrSymbolNotFound},
		{"yahoo error", http.StatusOK, `{"quoteSummary":{"result":null,"error":{"code":"Not Found","description":"Quote not found"}}}`, core.ErrCollectorFailed},
		{"empty result", http.StatusOK, `{"quoteSummary":{"result":[],"error":null}}`, core.ErrNoData},
		{"server error", http.StatusInternalServerError, "", core.ErrCollectorFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			t.Cleanup(srv.Close)

			y := New()
			require.NoError(t, y.Init(collector.Config{SummaryURL: srv.URL}))

			_, err := y.FetchFundamental(context.Background(), "AAPL")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
