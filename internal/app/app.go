package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/newthinker/mercado/internal/analysis"
	"github.com/newthinker/mercado/internal/api/job"
	"github.com/newthinker/mercado/internal/config"
	"github.com/newthinker/mercado/internal/core"
	"github.com/newthinker/mercado/internal/metrics"
	"github.com/newthinker/mercado/internal/news"
	"github.com/newthinker/mercado/internal/notifier"
	"github.com/newthinker/mercado/internal/report"
	"github.com/newthinker/mercado/internal/router"
	"github.com/newthinker/mercado/internal/scanner"
	"github.com/newthinker/mercado/internal/sentiment"
	"github.com/newthinker/mercado/internal/storage/archive"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// JobTypeScan is the job type of asynchronous universe scans.
const JobTypeScan = "scan"

const (
	scanTimeout      = 30 * time.Minute
	watchlistTimeout = 10 * time.Minute
	reportPrefix     = "reports"
)

// Deps groups the services the app is built on. Fundamentals, News,
// Notifiers and Metrics may be nil.
type Deps struct {
	Data         analysis.MarketData
	Fundamentals scanner.Fundamentals
	News         news.Provider
	Archive      archive.Storage
	Notifiers    *notifier.Registry
	Metrics      *metrics.Registry
	Logger       *zap.Logger
}

// ScanOutput is a finished scan and its stored PDF.
type ScanOutput struct {
	Result *scanner.Result
	Path   string
	PDF    []byte
}

// App is the main application orchestrator
type App struct {
	cfg      *config.Config
	logger   *zap.Logger
	analysis *analysis.Service
	scanner  *scanner.Scanner
	exporter *report.Exporter
	archive  archive.Storage
	jobs     *job.Store
	router   *router.Router
	metrics  *metrics.Registry
	universe []string

	mu       sync.Mutex
	cron     *cron.Cron
	running  bool
	stopping bool
	wg       sync.WaitGroup
}

// New creates a new App instance
func New(cfg *config.Config, deps Deps) *App {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	svc := analysis.NewService(analysis.Config{
		DefaultPeriod: cfg.Analysis.DefaultPeriod,
		RiskFreeRate:  cfg.Analysis.RiskFreeRate,
	}, deps.Data, deps.News, sentiment.NewVaderScorer(), logger.Named("analysis"))

	sc := scanner.New(scanner.Config{
		Period:      cfg.Scanner.Period,
		Workers:     cfg.Scanner.Workers,
		TopN:        cfg.Scanner.TopN,
		RiskFreePct: cfg.Scanner.RiskFreePct,
	}, deps.Data, logger.Named("scanner"))
	if deps.Fundamentals != nil {
		sc.SetFundamentals(deps.Fundamentals)
	}

	rt := router.New(router.Config{
		Cooldown:       time.Duration(cfg.Router.CooldownHours) * time.Hour,
		EnabledActions: cfg.Router.EnabledActions,
	}, deps.Notifiers, logger.Named("router"))

	if deps.Metrics != nil {
		svc.SetMetrics(deps.Metrics)
		sc.SetMetrics(deps.Metrics)
		rt.SetMetrics(deps.Metrics)
	}

	return &App{
		cfg:      cfg,
		logger:   logger,
		analysis: svc,
		scanner:  sc,
		exporter: report.NewExporter(deps.Archive, reportPrefix),
		archive:  deps.Archive,
		jobs:     job.NewStore(cfg.Server.MaxJobs, time.Duration(cfg.Server.JobTTLHours)*time.Hour),
		router:   rt,
		metrics:  deps.Metrics,
		universe: scanner.Universe(scanner.DefaultRegions),
	}
}

// Analyze runs the full single-symbol analysis.
func (a *App) Analyze(ctx context.Context, symbol, period string) (*analysis.Report, error) {
	return a.analysis.Analyze(ctx, normalizeSymbol(symbol), period)
}

// ExportAnalysis stores the CSV exports of a report.
func (a *App) ExportAnalysis(ctx context.Context, r *analysis.Report) ([]string, error) {
	return a.exporter.ExportAnalysis(ctx, r)
}

// Universe returns the default scan universe.
func (a *App) Universe() []string {
	out := make([]string, len(a.universe))
	copy(out, a.universe)
	return out
}

// Watchlist returns the configured watchlist symbols.
func (a *App) Watchlist() []string {
	out := make([]string, 0, len(a.cfg.Watchlist))
	for _, s := range a.cfg.Watchlist {
		if s = normalizeSymbol(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Scan scores symbols (the default universe when empty) and stores the PDF report.
func (a *App) Scan(ctx context.Context, symbols []string, progress scanner.ProgressFunc) (*ScanOutput, error) {
	if len(symbols) == 0 {
		symbols = a.Universe()
	}

	res, err := a.scanner.Run(ctx, symbols, progress)
	if err != nil {
		return nil, err
	}

	path, pdf, err := a.exporter.ExportScan(ctx, res)
	if err != nil {
		return nil, err
	}

	a.logger.Info("scan report stored",
		zap.String("path", path),
		zap.Int("ranked", len(res.Ranked)),
		zap.Int("skipped", len(res.Skipped)),
	)
	return &ScanOutput{Result: res, Path: path, PDF: pdf}, nil
}

// StartScan runs a scan in the background and returns its pending job. Once
// Stop has been called the job is returned already failed.
func (a *App) StartScan(symbols []string) job.Job {
	a.mu.Lock()
	if a.stopping {
		a.mu.Unlock()
		return a.rejectScan()
	}
	a.wg.Add(1)
	a.mu.Unlock()

	j := a.jobs.Create(JobTypeScan)
	a.updateJobGauge()

	go func() {
		defer a.wg.Done()
		a.runScan(j.ID, symbols)
	}()

	return j
}

func (a *App) rejectScan() job.Job {
	j := a.jobs.Create(JobTypeScan)
	fail := func(j *job.Job) {
		j.Status = job.StatusFailed
		j.Error = core.ErrShuttingDown
	}
	a.updateJob(j.ID, fail)
	fail(&j)

	a.logger.Warn("scan rejected during shutdown", zap.String("job_id", j.ID))
	return j
}

// updateJob applies fn to a stored job. The job may already have been
// evicted from a full store.
func (a *App) updateJob(id string, fn func(*job.Job)) {
	if err := a.jobs.Update(id, fn); err != nil {
		a.logger.Warn("job update dropped", zap.String("job_id", id), zap.Error(err))
	}
}

func (a *App) runScan(jobID string, symbols []string) {
	a.updateJob(jobID, func(j *job.Job) {
		j.Status = job.StatusRunning
	})

	ctx, cancel := context.WithTimeout(context.Background(), scanTimeout)
	defer cancel()

	out, err := a.Scan(ctx, symbols, func(done, total int) {
		a.updateJob(jobID, func(j *job.Job) {
			j.Progress = done * 100 / total
		})
	})

	if err != nil {
		a.logger.Error("scan failed", zap.String("job_id", jobID), zap.Error(err))
		a.updateJob(jobID, func(j *job.Job) {
			j.Status = job.StatusFailed
			j.Error = asCoreError(err)
		})
		a.updateJobGauge()
		return
	}

	a.updateJob(jobID, func(j *job.Job) {
		j.Status = job.StatusComplete
		j.Progress = 100
		j.Result = out.Result
		j.Artifact = out.Path
	})
	a.updateJobGauge()
}

// Job returns a snapshot of a job.
func (a *App) Job(id string) (*job.Job, error) {
	return a.jobs.Get(id)
}

// ReadArtifact reads a stored report.
func (a *App) ReadArtifact(ctx context.Context, path string) ([]byte, error) {
	return a.archive.Read(ctx, path)
}

// RunWatchlist analyzes every watchlist symbol, stores its CSV exports and
// routes BUY and SELL recommendations to the notifiers. It returns the number
// of symbols exported.
func (a *App) RunWatchlist(ctx context.Context) int {
	exported := 0
	var alerts []notifier.Alert
	for _, symbol := range a.Watchlist() {
		if ctx.Err() != nil {
			break
		}

		r, err := a.analysis.Analyze(ctx, symbol, "")
		if err != nil {
			a.logger.Warn("watchlist analysis failed", zap.String("symbol", symbol), zap.Error(err))
			continue
		}
		if alert, ok := notifier.FromReport(r); ok {
			alerts = append(alerts, alert)
		}
		if _, err := a.exporter.ExportAnalysis(ctx, r); err != nil {
			a.logger.Warn("watchlist export failed", zap.String("symbol", symbol), zap.Error(err))
			continue
		}
		exported++
	}

	sent := a.router.Route(ctx, alerts)

	a.logger.Info("watchlist run finished",
		zap.Int("exported", exported),
		zap.Int("alerts", len(alerts)),
		zap.Int("sent", len(sent)),
	)
	return exported
}

// Start registers the configured cron schedules and starts the scheduler.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.running {
		return fmt.Errorf("app already running")
	}
	a.stopping = false

	c := cron.New()
	if spec := a.cfg.Scanner.Schedule; spec != "" {
		if _, err := c.AddFunc(spec, func() { a.StartScan(nil) }); err != nil {
			return core.WrapError(core.ErrConfigInvalid, fmt.Errorf("scanner schedule %q: %w", spec, err))
		}
	}
	if spec := a.cfg.Analysis.Schedule; spec != "" {
		if _, err := c.AddFunc(spec, func() {
			ctx, cancel := context.WithTimeout(context.Background(), watchlistTimeout)
			defer cancel()
			a.RunWatchlist(ctx)
		}); err != nil {
			return core.WrapError(core.ErrConfigInvalid, fmt.Errorf("analysis schedule %q: %w", spec, err))
		}
		if _, err := c.AddFunc("@hourly", func() {
			if n := a.router.CleanupExpiredCooldowns(); n > 0 {
				a.logger.Debug("expired alert cooldowns removed", zap.Int("count", n))
			}
		}); err != nil {
			return fmt.Errorf("adding cooldown cleanup: %w", err)
		}
	}

	c.Start()
	a.cron = c
	a.running = true

	a.logger.Info("scheduler started",
		zap.Int("entries", len(c.Entries())),
		zap.Int("watchlist_count", len(a.cfg.Watchlist)),
	)
	return nil
}

// Stop halts the scheduler, rejects new scans and waits for background scans
// and running scheduled jobs, or until ctx is done.
func (a *App) Stop(ctx context.Context) error {
	a.mu.Lock()
	c := a.cron
	a.cron = nil
	a.running = false
	a.stopping = true
	a.mu.Unlock()

	done := make(chan struct{})
	go func() {
		if c != nil {
			<-c.Stop().Done()
		}
		a.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (a *App) updateJobGauge() {
	if a.metrics != nil {
		a.metrics.SetJobsActive(JobTypeScan, a.jobs.Active(JobTypeScan))
	}
}

func normalizeSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func asCoreError(err error) *core.Error {
	var ce *core.Error
	if errors.As(err, &ce) {
		return ce
	}
	return core.WrapError(core.ErrReportFailed, err)
}
