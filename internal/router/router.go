package router

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/newthinker/mercado/internal/metrics"
	"github.com/newthinker/mercado/internal/notifier"
	"go.uber.org/zap"
)

// Config holds router configuration
type Config struct {
	Cooldown       time.Duration
	EnabledActions []string
}

// DefaultConfig returns default router configuration
func DefaultConfig() Config {
	return Config{
		Cooldown:       24 * time.Hour,
		EnabledActions: []string{"BUY", "SELL"},
	}
}

type lastAlert struct {
	action string
	at     time.Time
}

// Router forwards alerts to notifiers, dropping repeats. An alert for a
// symbol is held back while the same action was sent within the cooldown;
// a changed action always goes through.
type Router struct {
	cfg      Config
	registry *notifier.Registry
	logger   *zap.Logger
	metrics  *metrics.Registry
	last     map[string]lastAlert
	now      func() time.Time
	mu       sync.Mutex
}

// New creates a new alert router
func New(cfg Config, registry *notifier.Registry, logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{
		cfg:      cfg,
		registry: registry,
		logger:   logger,
		last:     make(map[string]lastAlert),
		now:      time.Now,
	}
}

// SetMetrics sets the metrics registry for alert counts.
func (r *Router) SetMetrics(reg *metrics.Registry) {
	r.metrics = reg
}

// Route filters a batch and sends what is left as one message per notifier.
// It returns the alerts that were sent. Cooldowns start only once at least
// one notifier accepted the batch; with no notifiers registered they start
// immediately.
func (r *Router) Route(ctx context.Context, alerts []notifier.Alert) []notifier.Alert {
	var filtered []notifier.Alert

	r.mu.Lock()
	now := r.now()
	inBatch := make(map[string]string)
	for _, a := range alerts {
		if action, ok := inBatch[a.Symbol]; (ok && action == a.Action) || !r.passesLocked(a, now) {
			r.logger.Debug("alert filtered out",
				zap.String("symbol", a.Symbol),
				zap.String("action", a.Action),
			)
			continue
		}
		inBatch[a.Symbol] = a.Action
		filtered = append(filtered, a)
	}
	r.mu.Unlock()

	suppressed := len(alerts) - len(filtered)
	if len(filtered) == 0 {
		r.recordMetrics(0, suppressed)
		return filtered
	}

	var errs map[string]error
	notifiers := 0
	if r.registry != nil {
		notifiers = r.registry.Len()
		errs = r.registry.NotifyAllBatch(ctx, filtered)
	}
	for name, err := range errs {
		r.logger.Error("notifier failed on batch",
			zap.String("notifier", name),
			zap.Error(err),
		)
	}

	if notifiers > 0 && len(errs) >= notifiers {
		r.logger.Warn("alerts not delivered, cooldown not started",
			zap.Int("alerts", len(filtered)),
			zap.Int("notifiers", notifiers),
		)
		r.recordMetrics(0, suppressed)
		return nil
	}

	r.mu.Lock()
	for _, a := range filtered {
		r.last[a.Symbol] = lastAlert{action: a.Action, at: now}
	}
	r.mu.Unlock()
	r.recordMetrics(len(filtered), suppressed)

	r.logger.Info("alerts routed",
		zap.Int("total", len(alerts)),
		zap.Int("sent", len(filtered)),
		zap.Int("notifiers", notifiers),
		zap.Int("errors", len(errs)),
	)

	return filtered
}

func (r *Router) recordMetrics(sent, suppressed int) {
	if r.metrics != nil {
		r.metrics.RecordAlerts(sent, suppressed)
	}
}

// passesLocked applies the action whitelist and the cooldown. Caller holds mu.
func (r *Router) passesLocked(a notifier.Alert, now time.Time) bool {
	if len(r.cfg.EnabledActions) > 0 && !slices.Contains(r.cfg.EnabledActions, a.Action) {
		return false
	}

	prev, ok := r.last[a.Symbol]
	if ok && prev.action == a.Action && now.Sub(prev.at) < r.cfg.Cooldown {
		return false
	}
	return true
}

// ClearCooldown removes cooldown for a specific symbol
func (r *Router) ClearCooldown(symbol string) {
	r.mu.Lock()
	delete(r.last, symbol)
	r.mu.Unlock()
}

// CleanupExpiredCooldowns removes entries older than twice the cooldown.
func (r *Router) CleanupExpiredCooldowns() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	expiry := r.cfg.Cooldown * 2
	removed := 0

	for symbol, prev := range r.last {
		if now.Sub(prev.at) > expiry {
			delete(r.last, symbol)
			removed++
		}
	}

	return removed
}
