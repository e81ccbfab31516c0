package notifier

import (
	"context"
	"time"

	"github.com/newthinker/mercado/internal/analysis"
)

// Alert is an actionable recommendation pushed to the configured channels.
type Alert struct {
	Symbol      string    `json:"symbol"`
	Name        string    `json:"name,omitempty"`
	Action      string    `json:"action"`
	Reason      string    `json:"reason"`
	Note        string    `json:"note,omitempty"`
	Horizon     string    `json:"horizon,omitempty"`
	Price       float64   `json:"price"`
	Sentiment   string    `json:"sentiment"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Notifier delivers alerts to one channel.
type Notifier interface {
	// Name returns the unique identifier for this notifier
	Name() string

	// Send delivers a single alert
	Send(ctx context.Context, alert Alert) error

	// SendBatch delivers several alerts as one message
	SendBatch(ctx context.Context, alerts []Alert) error
}

// FromReport builds the alert for a report. ok is false unless the
// recommendation is BUY or SELL.
func FromReport(r *analysis.Report) (alert Alert, ok bool) {
	rec := r.Recommendation
	if rec.Action != analysis.ActionBuy && rec.Action != analysis.ActionSell {
		return Alert{}, false
	}

	alert = Alert{
		Symbol:      r.Symbol,
		Action:      string(rec.Action),
		Reason:      rec.Reason,
		Note:        rec.Note,
		Horizon:     rec.Horizon,
		Price:       r.Latest.Price,
		Sentiment:   string(r.Sentiment.Label),
		GeneratedAt: r.GeneratedAt,
	}
	if r.Profile != nil && r.Profile.Name != r.Symbol {
		alert.Name = r.Profile.Name
	}
	return alert, true
}
