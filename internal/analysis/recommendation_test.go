package analysis

import (
	"testing"

	"github.com/newthinker/mercado/internal/core"
	"github.com/newthinker/mercado/internal/sentiment"
	"github.com/stretchr/testify/assert"
)

func f(v float64) *float64 { return &v }

func row(macd, signal, rsi *float64) core.EnrichedPoint {
	return core.EnrichedPoint{MACD: macd, SignalLine: signal, RSI14: rsi}
}

func TestRecommend(t *testing.T) {
	tests := []struct {
		name    string
		row     core.EnrichedPoint
		label   sentiment.Label
		action  Action
		horizon string
		noted   bool
	}{
		{"bullish", row(f(1.2), f(1.0), f(55)), sentiment.LabelNeutral, ActionBuy, MediumTerm, false},
		{"bullish with negative news", row(f(1.2), f(1.0), f(55)), sentiment.LabelNegative, ActionBuy, MediumTerm, true},
		{"overbought", row(f(1.2), f(1.0), f(75)), sentiment.LabelNeutral, ActionDoNotBuy, "", false},
		{"overbought with bearish macd", row(f(0.5), f(1.0), f(75)), sentiment.LabelPositive, ActionDoNotBuy, "", false},
		{"bearish", row(f(0.5), f(1.0), f(40)), sentiment.LabelNeutral, ActionSell, "", false},
		{"bearish with positive news", row(f(0.5), f(1.0), f(40)), sentiment.LabelPositive, ActionSell, "", true},
		{"rsi exactly 70 and macd above", row(f(1.2), f(1.0), f(70)), sentiment.LabelNeutral, ActionWait, "", false},
		{"macd equals signal", row(f(1.0), f(1.0), f(50)), sentiment.LabelNeutral, ActionWait, "", false},
		{"missing rsi", row(f(1.2), f(1.0), nil), sentiment.LabelNoData, ActionWait, "", false},
		{"missing rsi bearish macd", row(f(0.5), f(1.0), nil), sentiment.LabelNoData, ActionSell, "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := Recommend(tc.row, tc.label)
			assert.Equal(t, tc.action, rec.Action)
			assert.Equal(t, tc.horizon, rec.Horizon)
			assert.NotEmpty(t, rec.Reason)
			assert.Equal(t, tc.noted, rec.Note != "")
		})
	}
}
