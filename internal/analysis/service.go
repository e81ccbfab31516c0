package analysis

import (
	"context"
	"errors"
	"time"

	"github.com/newthinker/mercado/internal/backtest"
	"github.com/newthinker/mercado/internal/core"
	"github.com/newthinker/mercado/internal/metrics"
	"github.com/newthinker/mercado/internal/news"
	"github.com/newthinker/mercado/internal/sentiment"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// MarketData supplies price history and descriptive data for a symbol.
type MarketData interface {
	FetchHistory(ctx context.Context, symbol, period string) ([]core.PricePoint, error)
	FetchProfile(ctx context.Context, symbol string) (*core.Profile, error)
}

// Config holds analysis settings.
type Config struct {
	DefaultPeriod string
	RiskFreeRate  float64
}

// Report is the full analysis of one symbol.
type Report struct {
	Symbol         string               `json:"symbol"`
	Period         string               `json:"period"`
	Profile        *core.Profile        `json:"profile,omitempty"`
	From           time.Time            `json:"from"`
	To             time.Time            `json:"to"`
	Latest         core.EnrichedPoint   `json:"latest"`
	SharpeRatio    float64              `json:"sharpe_ratio"`
	Sentiment      sentiment.Result     `json:"sentiment"`
	Recommendation Recommendation       `json:"recommendation"`
	Trades         []backtest.Trade     `json:"trades"`
	Summary        backtest.Summary     `json:"summary"`
	Series         []core.EnrichedPoint `json:"series"`
	GeneratedAt    time.Time            `json:"generated_at"`
}

// Service runs the indicator pipeline, the backtest and the news check for a symbol.
type Service struct {
	cfg        Config
	data       MarketData
	backtester *backtest.Backtester
	news       news.Provider
	scorer     sentiment.Scorer
	metrics    *metrics.Registry
	logger     *zap.Logger
}

// NewService creates an analysis service. newsProvider may be nil, in which
// case every report carries NO_DATA sentiment.
func NewService(cfg Config, data MarketData, newsProvider news.Provider, scorer sentiment.Scorer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.DefaultPeriod == "" {
		cfg.DefaultPeriod = "1y"
	}
	if scorer == nil {
		scorer = sentiment.NewVaderScorer()
	}
	return &Service{
		cfg:        cfg,
		data:       data,
		backtester: backtest.New(data, logger),
		news:       newsProvider,
		scorer:     scorer,
		logger:     logger,
	}
}

// SetMetrics enables business metrics recording.
func (s *Service) SetMetrics(m *metrics.Registry) {
	s.metrics = m
}

// Analyze builds the report for symbol over period. An empty period uses the
// configured default. Price data errors fail the analysis; news and profile
// errors only degrade the report.
func (s *Service) Analyze(ctx context.Context, symbol, period string) (*Report, error) {
	if symbol == "" {
		return nil, core.WrapError(core.ErrSymbolNotFound, errors.New("symbol is required"))
	}
	if period == "" {
		period = s.cfg.DefaultPeriod
	}

	start := time.Now()
	var (
		result  *backtest.Result
		profile *core.Profile
		senti   = sentiment.NoData()
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		result, err = s.backtester.Run(gctx, symbol, period)
		return err
	})
	g.Go(func() error {
		p, err := s.data.FetchProfile(gctx, symbol)
		if err != nil {
			s.logger.Debug("profile unavailable", zap.String("symbol", symbol), zap.Error(err))
			return nil
		}
		profile = p
		return nil
	})
	if s.news != nil {
		g.Go(func() error {
			items, err := s.news.GetNews(gctx, symbol)
			if err != nil {
				s.logger.Warn("news unavailable", zap.String("symbol", symbol), zap.Error(err))
				return nil
			}
			senti = sentiment.Analyze(items, s.scorer)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.record("error", start, nil, senti.Label)
		return nil, err
	}

	series := result.Series
	latest := series[len(series)-1]

	report := &Report{
		Symbol:         symbol,
		Period:         period,
		Profile:        profile,
		From:           series[0].Date,
		To:             latest.Date,
		Latest:         latest,
		SharpeRatio:    DailySharpe(series, s.cfg.RiskFreeRate),
		Sentiment:      senti,
		Recommendation: Recommend(latest, senti.Label),
		Trades:         result.Trades,
		Summary:        result.Summary,
		Series:         series,
		GeneratedAt:    time.Now().UTC(),
	}

	s.record("success", start, &report.Summary, senti.Label)
	s.logger.Info("analysis complete",
		zap.String("symbol", symbol),
		zap.String("period", period),
		zap.Int("bars", len(series)),
		zap.Int("trades", report.Summary.Count),
		zap.String("action", string(report.Recommendation.Action)),
		zap.String("sentiment", string(senti.Label)),
	)

	return report, nil
}

func (s *Service) record(status string, start time.Time, summary *backtest.Summary, label sentiment.Label) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordAnalysis(status, time.Since(start).Seconds())
	if summary != nil {
		s.metrics.RecordTrades(summary.Wins, summary.Losses)
		s.metrics.RecordSentiment(string(label))
	}
}
