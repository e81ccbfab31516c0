package sentiment

import (
	"strings"

	"github.com/jonreiter/govader"
)

// Scorer assigns a polarity in [-1, 1] to a piece of text.
type Scorer interface {
	Score(text string) float64
}

// VaderScorer scores text with the VADER compound polarity.
type VaderScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewVaderScorer loads the VADER lexicon. The returned scorer is safe for
// concurrent use.
func NewVaderScorer() *VaderScorer {
	return &VaderScorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

func (s *VaderScorer) Score(text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	return s.analyzer.PolarityScores(text).Compound
}
