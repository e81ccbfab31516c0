package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/newthinker/mercado/internal/analysis"
	apihandler "github.com/newthinker/mercado/internal/api/handler/api"
	"github.com/newthinker/mercado/internal/api/handler/web"
	"github.com/newthinker/mercado/internal/api/job"
	"github.com/newthinker/mercado/internal/api/middleware"
	"github.com/newthinker/mercado/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Backend is the application surface served over HTTP.
type Backend interface {
	Analyze(ctx context.Context, symbol, period string) (*analysis.Report, error)
	Watchlist() []string
	StartScan(symbols []string) job.Job
	Job(id string) (*job.Job, error)
	ReadArtifact(ctx context.Context, path string) ([]byte, error)
}

// Server represents the HTTP server for Mercado
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
	mux        *http.ServeMux
}

// Config holds server configuration
type Config struct {
	Host         string
	Port         int
	APIKey       string
	TemplatesDir string
	MetricsPath  string
}

// Dependencies holds what the handlers are built on. Metrics may be nil.
type Dependencies struct {
	App     Backend
	Metrics *metrics.Registry
}

// NewServer creates a new HTTP server
func NewServer(cfg Config, deps Dependencies, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	mux := http.NewServeMux()
	s := &Server{logger: logger, mux: mux}

	if err := s.setupRoutes(cfg, deps); err != nil {
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	var handler http.Handler = mux
	handler = metrics.LoggingMiddleware(logger)(handler)
	if deps.Metrics != nil {
		handler = metrics.HTTPMiddleware(deps.Metrics)(handler)
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 3 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(cfg Config, deps Dependencies) error {
	webHandler, err := web.NewHandler(cfg.TemplatesDir, deps.App)
	if err != nil {
		return fmt.Errorf("creating web handler: %w", err)
	}

	s.mux.HandleFunc("GET /{$}", webHandler.Dashboard)
	s.mux.HandleFunc("GET /analysis", webHandler.Analysis)
	s.mux.HandleFunc("POST /scans", webHandler.StartScan)
	s.mux.HandleFunc("GET /scans/{id}", webHandler.Scan)

	s.mux.HandleFunc("GET /api/health", s.handleHealth)

	auth := middleware.APIKeyAuth(cfg.APIKey)
	analysisHandler := apihandler.NewAnalysisHandler(deps.App)
	scanHandler := apihandler.NewScanHandler(deps.App)

	s.mux.Handle("GET /api/v1/analysis", auth(http.HandlerFunc(analysisHandler.Get)))
	s.mux.Handle("GET /api/v1/analysis/text", auth(http.HandlerFunc(analysisHandler.Text)))
	s.mux.Handle("GET /api/v1/analysis/csv", auth(http.HandlerFunc(analysisHandler.CSV)))
	s.mux.Handle("POST /api/v1/scans", auth(http.HandlerFunc(scanHandler.Create)))
	s.mux.Handle("GET /api/v1/scans/{id}", auth(http.HandlerFunc(scanHandler.GetStatus)))
	s.mux.Handle("GET /api/v1/scans/{id}/report.pdf", auth(http.HandlerFunc(scanHandler.Report)))

	if deps.Metrics != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		s.mux.Handle("GET "+path, promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{}))
	}

	return nil
}

// Handler returns the root handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
