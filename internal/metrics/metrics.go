package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry holds all Prometheus metrics.
type Registry struct {
	*prometheus.Registry

	// HTTP metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight prometheus.Gauge

	// Business metrics
	analysesTotal    *prometheus.CounterVec
	analysisDuration prometheus.Histogram
	backtestTrades   *prometheus.CounterVec
	sentimentLabels  *prometheus.CounterVec
	scansTotal       *prometheus.CounterVec
	scanDuration     prometheus.Histogram
	scannedSymbols   *prometheus.CounterVec
	jobsActive       *prometheus.GaugeVec
	alertsTotal      *prometheus.CounterVec
}

// NewRegistry creates a new metrics registry with all metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	// Register Go runtime metrics
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Registry{
		Registry: reg,

		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),

		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		httpRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently in flight",
			},
		),
	}

	reg.MustRegister(r.httpRequestsTotal)
	reg.MustRegister(r.httpRequestDuration)
	reg.MustRegister(r.httpRequestsInFlight)

	// Business metrics
	r.analysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mercado_analyses_total",
			Help: "Total number of symbol analyses",
		},
		[]string{"status"},
	)
	r.analysisDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mercado_analysis_duration_seconds",
			Help:    "Symbol analysis duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
	r.backtestTrades = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mercado_backtest_trades_total",
			Help: "Total number of closed backtest trades",
		},
		[]string{"outcome"},
	)
	r.sentimentLabels = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mercado_sentiment_labels_total",
			Help: "Sentiment labels assigned to analysed symbols",
		},
		[]string{"label"},
	)
	r.scansTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mercado_scans_total",
			Help: "Total number of universe scans",
		},
		[]string{"status"},
	)
	r.scanDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mercado_scan_duration_seconds",
			Help:    "Universe scan duration in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
		},
	)
	r.scannedSymbols = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mercado_scanned_symbols_total",
			Help: "Symbols evaluated by the scanner",
		},
		[]string{"status"},
	)
	r.jobsActive = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "mercado_jobs_active",
			Help: "Number of active jobs",
		},
		[]string{"type"},
	)

	reg.MustRegister(r.analysesTotal)
	reg.MustRegister(r.analysisDuration)
	reg.MustRegister(r.backtestTrades)
	reg.MustRegister(r.sentimentLabels)
	reg.MustRegister(r.scansTotal)
	reg.MustRegister(r.scanDuration)
	reg.MustRegister(r.scannedSymbols)
	reg.MustRegister(r.jobsActive)

	r.alertsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mercado_alerts_total",
			Help: "Recommendation alerts by routing outcome",
		},
		[]string{"outcome"},
	)
	reg.MustRegister(r.alertsTotal)

	return r
}

// RecordRequest records metrics for an HTTP request.
func (r *Registry) RecordRequest(method, path string, status int, duration float64) {
	statusStr := statusToString(status)
	r.httpRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
	r.httpRequestDuration.WithLabelValues(method, path).Observe(duration)
}

// InFlightInc increments in-flight requests.
func (r *Registry) InFlightInc() {
	r.httpRequestsInFlight.Inc()
}

// InFlightDec decrements in-flight requests.
func (r *Registry) InFlightDec() {
	r.httpRequestsInFlight.Dec()
}

// RecordAnalysis records a completed symbol analysis.
func (r *Registry) RecordAnalysis(status string, duration float64) {
	r.analysesTotal.WithLabelValues(status).Inc()
	r.analysisDuration.Observe(duration)
}

// RecordTrades counts closed backtest trades by outcome.
func (r *Registry) RecordTrades(wins, losses int) {
	r.backtestTrades.WithLabelValues("win").Add(float64(wins))
	r.backtestTrades.WithLabelValues("loss").Add(float64(losses))
}

// RecordSentiment counts an assigned sentiment label.
func (r *Registry) RecordSentiment(label string) {
	r.sentimentLabels.WithLabelValues(label).Inc()
}

// RecordScan records a completed universe scan.
func (r *Registry) RecordScan(status string, duration float64) {
	r.scansTotal.WithLabelValues(status).Inc()
	r.scanDuration.Observe(duration)
}

// RecordScannedSymbol counts a symbol evaluated by the scanner.
func (r *Registry) RecordScannedSymbol(status string) {
	r.scannedSymbols.WithLabelValues(status).Inc()
}

// SetJobsActive sets the number of active jobs of a type.
func (r *Registry) SetJobsActive(jobType string, count int) {
	r.jobsActive.WithLabelValues(jobType).Set(float64(count))
}

// RecordAlerts counts routed alerts as sent or suppressed.
func (r *Registry) RecordAlerts(sent, suppressed int) {
	r.alertsTotal.WithLabelValues("sent").Add(float64(sent))
	r.alertsTotal.WithLabelValues("suppressed").Add(float64(suppressed))
}

func statusToString(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	default:
		return "1xx"
	}
}
