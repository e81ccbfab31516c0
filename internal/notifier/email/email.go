// Package email implements an SMTP-based email notifier
package email

import (
	"context"
	"fmt"
	"html"
	"net/smtp"
	"strings"
	"time"

	"github.com/newthinker/mercado/internal/notifier"
)

// Config holds SMTP settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       []string
}

// Email sends alerts over SMTP.
type Email struct {
	cfg      Config
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// New creates a new Email notifier
func New(cfg Config) (*Email, error) {
	if cfg.Host == "" || cfg.From == "" || len(cfg.To) == 0 {
		return nil, fmt.Errorf("email: host, from, and to are required")
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	return &Email{cfg: cfg, sendMail: smtp.SendMail}, nil
}

func (e *Email) Name() string { return "email" }

func (e *Email) Send(ctx context.Context, alert notifier.Alert) error {
	subject := fmt.Sprintf("Mercado: %s %s", alert.Symbol, alert.Action)
	return e.send(ctx, subject, "text/plain", formatAlert(alert))
}

func (e *Email) SendBatch(ctx context.Context, alerts []notifier.Alert) error {
	if len(alerts) == 0 {
		return nil
	}

	subject := fmt.Sprintf("Mercado digest: %d recommendations", len(alerts))

	var sb strings.Builder
	sb.WriteString("<html><body>")
	sb.WriteString("<h2>Mercado recommendations</h2>")
	fmt.Fprintf(&sb, "<p>Generated at: %s</p>", time.Now().Format("2006-01-02 15:04:05"))
	sb.WriteString("<hr>")

	for _, alert := range alerts {
		sb.WriteString(formatAlertHTML(alert))
		sb.WriteString("<hr>")
	}

	sb.WriteString("</body></html>")

	return e.send(ctx, subject, "text/html", sb.String())
}

func formatAlert(alert notifier.Alert) string {
	return fmt.Sprintf(`
Mercado recommendation

Symbol: %s
Action: %s
Reason: %s
Price: %.2f
News sentiment: %s
Time: %s
`,
		alert.Symbol,
		alert.Action,
		alert.Reason,
		alert.Price,
		alert.Sentiment,
		alert.GeneratedAt.Format("2006-01-02 15:04:05"),
	)
}

func formatAlertHTML(alert notifier.Alert) string {
	actionColor := "#28a745"
	if alert.Action == "SELL" {
		actionColor = "#dc3545"
	}

	note := ""
	if alert.Note != "" {
		note = fmt.Sprintf("<p><em>%s</em></p>", html.EscapeString(alert.Note))
	}

	return fmt.Sprintf(`
<div style="margin: 10px 0;">
  <h3 style="color: %s;">%s - %s</h3>
  <p><strong>Reason:</strong> %s</p>
  <p><strong>Price:</strong> %.2f</p>
  <p><strong>News sentiment:</strong> %s</p>%s
  <p><small>%s</small></p>
</div>
`,
		actionColor,
		html.EscapeString(alert.Symbol),
		alert.Action,
		html.EscapeString(alert.Reason),
		alert.Price,
		alert.Sentiment,
		note,
		alert.GeneratedAt.Format("2006-01-02 15:04:05"),
	)
}

func (e *Email) send(ctx context.Context, subject, contentType, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", e.cfg.Host, e.cfg.Port)

	var auth smtp.Auth
	if e.cfg.Username != "" {
		auth = smtp.PlainAuth("", e.cfg.Username, e.cfg.Password, e.cfg.Host)
	}

	msg := fmt.Sprintf("From: %s\r\n"+
		"To: %s\r\n"+
		"Subject: %s\r\n"+
		"MIME-Version: 1.0\r\n"+
		"Content-Type: %s; charset=UTF-8\r\n"+
		"\r\n"+
		"%s",
		e.cfg.From,
		strings.Join(e.cfg.To, ","),
		subject,
		contentType,
		body,
	)

	if err := e.sendMail(addr, auth, e.cfg.From, e.cfg.To, []byte(msg)); err != nil {
		return fmt.Errorf("email: %w", err)
	}
	return nil
}
