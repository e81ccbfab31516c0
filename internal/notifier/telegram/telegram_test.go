package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/newthinker/mercado/internal/notifier"
)

func TestTelegram_ImplementsNotifier(t *testing.T) {
	var _ notifier.Notifier = (*Telegram)(nil)
}

func TestTelegram_New_MissingFields(t *testing.T) {
	if _, err := New("", "chat"); err == nil {
		t.Error("expected error for missing bot_token")
	}
	if _, err := New("token", ""); err == nil {
		t.Error("expected error for missing chat_id")
	}
}

func newTestTelegram(t *testing.T, handler http.HandlerFunc) *Telegram {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	tg, err := New("test-token", "test-chat")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tg.apiBase = server.URL
	return tg
}

func TestTelegram_Send(t *testing.T) {
	var received map[string]any
	var path string

	tg := newTestTelegram(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		json.NewDecoder(r.Body).Decode(&received)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"ok":true}`))
	})

	alert := notifier.Alert{
		Symbol:      "AAPL",
		Action:      "BUY",
		Reason:      "MACD above signal line",
		Price:       180.5,
		Sentiment:   "POSITIVE",
		GeneratedAt: time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
	}
	if err := tg.Send(context.Background(), alert); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	if path != "/bottest-token/sendMessage" {
		t.Errorf("unexpected path %s", path)
	}
	if received["chat_id"] != "test-chat" {
		t.Errorf("expected chat_id test-chat, got %v", received["chat_id"])
	}
	text := received["text"].(string)
	for _, want := range []string{"*AAPL* - BUY", "Price: 180.50", "News: POSITIVE", "2024-03-01 09:30:00"} {
		if !strings.Contains(text, want) {
			t.Errorf("message missing %q:\n%s", want, text)
		}
	}
}

func TestTelegram_SendBatch(t *testing.T) {
	var received map[string]any
	tg := newTestTelegram(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&received)
		w.WriteHeader(http.StatusOK)
	})

	alerts := []notifier.Alert{{Symbol: "AAPL", Action: "BUY"}, {Symbol: "TSLA", Action: "SELL"}}
	if err := tg.SendBatch(context.Background(), alerts); err != nil {
		t.Fatalf("SendBatch failed: %v", err)
	}

	text := received["text"].(string)
	if !strings.HasPrefix(text, "📊 *2 Recommendations*") {
		t.Errorf("unexpected header: %s", text)
	}
	if !strings.Contains(text, "📉 *TSLA* - SELL") {
		t.Errorf("expected sell line: %s", text)
	}
}

func TestTelegram_APIError(t *testing.T) {
	tg := newTestTelegram(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"ok":false,"description":"chat not found"}`))
	})

	err := tg.Send(context.Background(), notifier.Alert{Symbol: "AAPL"})
	if err == nil || !strings.Contains(err.Error(), "status 400") {
		t.Errorf("expected API error, got %v", err)
	}
}
