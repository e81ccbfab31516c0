package analysis

import (
	"github.com/newthinker/mercado/internal/core"
	"github.com/newthinker/mercado/internal/indicator"
	"github.com/newthinker/mercado/internal/sentiment"
)

// Action is the headline verdict of a recommendation.
type Action string

const (
	ActionBuy      Action = "BUY"
	ActionDoNotBuy Action = "DO_NOT_BUY"
	ActionSell     Action = "SELL"
	ActionWait     Action = "WAIT"
)

// MediumTerm is the holding horizon attached to a BUY.
const MediumTerm = "medium term (3-12 months)"

// Recommendation is the advice derived from the latest row and sentiment.
type Recommendation struct {
	Action  Action `json:"action"`
	Reason  string `json:"reason"`
	Horizon string `json:"horizon,omitempty"`
	Note    string `json:"note,omitempty"`
}

// Recommend evaluates the latest enriched row. Missing indicator values
// make their comparisons false, so a series too short for RSI ends in WAIT.
func Recommend(latest core.EnrichedPoint, label sentiment.Label) Recommendation {
	macdAbove := latest.MACD != nil && latest.SignalLine != nil && *latest.MACD > *latest.SignalLine
	macdBelow := latest.MACD != nil && latest.SignalLine != nil && *latest.MACD < *latest.SignalLine
	rsiBelow := latest.RSI14 != nil && *latest.RSI14 < indicator.RSIOverbought
	rsiAbove := latest.RSI14 != nil && *latest.RSI14 > indicator.RSIOverbought

	var rec Recommendation
	switch {
	case macdAbove && rsiBelow:
		rec = Recommendation{
			Action:  ActionBuy,
			Reason:  "bullish trend confirmed",
			Horizon: MediumTerm,
		}
	case rsiAbove:
		rec = Recommendation{
			Action: ActionDoNotBuy,
			Reason: "RSI indicates overbought, possible correction",
		}
	case macdBelow:
		rec = Recommendation{
			Action: ActionSell,
			Reason: "MACD suggests a weakening trend",
		}
	default:
		rec = Recommendation{
			Action: ActionWait,
			Reason: "mixed signals, analyse further before investing",
		}
	}

	switch {
	case label == sentiment.LabelNegative && rec.Action == ActionBuy:
		rec.Note = "technical picture is positive but recent news is NEGATIVE, proceed with caution"
	case label == sentiment.LabelPositive && rec.Action == ActionSell:
		rec.Note = "technicals suggest selling but news is POSITIVE, consider waiting for confirmation"
	}

	return rec
}
