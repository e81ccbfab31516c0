package scanner

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/newthinker/mercado/internal/core"
	"github.com/newthinker/mercado/internal/metrics"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// MarketData supplies history and profile data for scanned symbols.
type MarketData interface {
	FetchHistory(ctx context.Context, symbol, period string) ([]core.PricePoint, error)
	FetchProfile(ctx context.Context, symbol string) (*core.Profile, error)
}

// Fundamentals supplies sector, country and dividend data.
type Fundamentals interface {
	FetchFundamental(ctx context.Context, symbol string) (*core.Fundamental, error)
}

// Config holds scanner settings.
type Config struct {
	Period      string
	Workers     int
	TopN        int
	RiskFreePct float64
}

// Result is a completed scan, ranked by score descending.
type Result struct {
	Ranked     []Metrics `json:"ranked"`
	Skipped    []string  `json:"skipped"`
	TopN       int       `json:"top_n"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Top returns the best TopN entries.
func (r *Result) Top() []Metrics {
	if r.TopN <= 0 || r.TopN >= len(r.Ranked) {
		return r.Ranked
	}
	return r.Ranked[:r.TopN]
}

// ProgressFunc is called after each symbol with the number done so far.
type ProgressFunc func(done, total int)

// Scanner scores a universe of symbols in parallel.
type Scanner struct {
	cfg          Config
	data         MarketData
	fundamentals Fundamentals
	metrics      *metrics.Registry
	logger  *zap.Logger
}

// New creates a scanner.
func New(cfg Config, data MarketData, logger *zap.Logger) *Scanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Period == "" {
		cfg.Period = "1y"
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.TopN <= 0 {
		cfg.TopN = 10
	}
	return &Scanner{cfg: cfg, data: data, logger: logger}
}

// SetMetrics enables business metrics recording.
func (s *Scanner) SetMetrics(m *metrics.Registry) {
	s.metrics = m
}

// SetFundamentals sets the source of sector, country and dividend data.
// Without one those fields stay at their defaults.
func (s *Scanner) SetFundamentals(f Fundamentals) {
	s.fundamentals = f
}

// Run evaluates every symbol. Symbols whose data cannot be fetched or
// scored are logged and skipped; only context cancellation fails the scan.
func (s *Scanner) Run(ctx context.Context, symbols []string, progress ProgressFunc) (*Result, error) {
	result := &Result{
		Ranked:    []Metrics{},
		Skipped:   []string{},
		TopN:      s.cfg.TopN,
		StartedAt: time.Now().UTC(),
	}

	var (
		mu   sync.Mutex
		done int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Workers)

	for _, symbol := range symbols {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			m, err := s.evaluate(gctx, symbol)

			mu.Lock()
			defer mu.Unlock()
			done++
			if err != nil {
				s.logger.Warn("skipping symbol", zap.String("symbol", symbol), zap.Error(err))
				result.Skipped = append(result.Skipped, symbol)
				s.recordSymbol("skipped")
			} else {
				result.Ranked = append(result.Ranked, m)
				s.recordSymbol("scored")
			}
			if progress != nil {
				progress(done, len(symbols))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.recordScan("error", result.StartedAt)
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		s.recordScan("error", result.StartedAt)
		return nil, err
	}

	sort.SliceStable(result.Ranked, func(i, j int) bool {
		if result.Ranked[i].Score != result.Ranked[j].Score {
			return result.Ranked[i].Score > result.Ranked[j].Score
		}
		return result.Ranked[i].Symbol < result.Ranked[j].Symbol
	})
	sort.Strings(result.Skipped)
	result.FinishedAt = time.Now().UTC()

	s.recordScan("success", result.StartedAt)
	s.logger.Info("scan complete",
		zap.Int("symbols", len(symbols)),
		zap.Int("scored", len(result.Ranked)),
		zap.Int("skipped", len(result.Skipped)),
		zap.Duration("duration", result.FinishedAt.Sub(result.StartedAt)),
	)

	return result, nil
}

func (s *Scanner) evaluate(ctx context.Context, symbol string) (Metrics, error) {
	history, err := s.data.FetchHistory(ctx, symbol, s.cfg.Period)
	if err != nil {
		return Metrics{}, err
	}

	m, err := ComputeMetrics(core.Closes(history), s.cfg.RiskFreePct)
	if err != nil {
		return Metrics{}, err
	}
	m.Symbol = symbol
	m.Name = symbol
	m.Sector = "N/A"
	m.Country = "N/A"

	if p, err := s.data.FetchProfile(ctx, symbol); err == nil && p != nil && p.Name != "" {
		m.Name = p.Name
	}

	if s.fundamentals != nil {
		f, err := s.fundamentals.FetchFundamental(ctx, symbol)
		if err != nil {
			s.logger.Debug("fundamentals unavailable", zap.String("symbol", symbol), zap.Error(err))
		} else if f != nil {
			if f.Sector != "" {
				m.Sector = f.Sector
			}
			if f.Country != "" {
				m.Country = f.Country
			}
			m.DividendYield = f.DividendYield
			m.PE = f.TrailingPE
			m.MarketCapM = f.MarketCap / 1e6
		}
	}

	m.Score = Score(m)
	return m, nil
}

func (s *Scanner) recordSymbol(status string) {
	if s.metrics != nil {
		s.metrics.RecordScannedSymbol(status)
	}
}

func (s *Scanner) recordScan(status string, start time.Time) {
	if s.metrics != nil {
		s.metrics.RecordScan(status, time.Since(start).Seconds())
	}
}
