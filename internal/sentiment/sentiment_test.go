package sentiment

import (
	"fmt"
	"testing"

	"github.com/newthinker/mercado/internal/news"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedScorer map[string]float64

func (f fixedScorer) Score(text string) float64 { return f[text] }

func TestClassify(t *testing.T) {
	tests := []struct {
		avg  float64
		want Label
	}{
		{0.5, LabelPositive},
		{0.11, LabelPositive},
		{0.1, LabelNeutral},
		{0, LabelNeutral},
		{-0.1, LabelNeutral},
		{-0.11, LabelNegative},
		{-1, LabelNegative},
	}

	for _, tc := range tests {
		t.Run(fmt.Sprintf("%v", tc.avg), func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.avg))
		})
	}
}

func TestAnalyze_NoItems(t *testing.T) {
	res := Analyze(nil, NewVaderScorer())
	assert.Equal(t, LabelNoData, res.Label)
	assert.NotNil(t, res.Headlines)
	assert.Empty(t, res.Headlines)
}

func TestAnalyze_Average(t *testing.T) {
	scorer := fixedScorer{"a": 0.6, "b": -0.2, "c": 0.2}
	items := []news.Item{{Title: "a"}, {Title: "b"}, {Title: "c"}}

	res := Analyze(items, scorer)
	assert.InDelta(t, 0.2, res.Average, 1e-12)
	assert.Equal(t, LabelPositive, res.Label)
	require.Len(t, res.Headlines, 3)
	assert.Equal(t, -0.2, res.Headlines[1].Polarity)
}

func TestAnalyze_OnlyFirstTenHeadlines(t *testing.T) {
	scorer := fixedScorer{"pos": 1, "neg": -1}
	var items []news.Item
	for i := 0; i < MaxHeadlines; i++ {
		items = append(items, news.Item{Title: "pos"})
	}
	for i := 0; i < 20; i++ {
		items = append(items, news.Item{Title: "neg"})
	}

	res := Analyze(items, scorer)
	assert.Len(t, res.Headlines, MaxHeadlines)
	assert.Equal(t, 1.0, res.Average)
	assert.Equal(t, LabelPositive, res.Label)
}

func TestVaderScorer_Score(t *testing.T) {
	s := NewVaderScorer()

	assert.Greater(t, s.Score("Great quarter, investors are happy with excellent results"), Threshold)
	assert.Less(t, s.Score("Terrible quarter ends in disaster for shareholders"), -Threshold)
	assert.InDelta(t, 0.0, s.Score("Company announces quarterly dividend"), Threshold)
	assert.Equal(t, 0.0, s.Score(""))
	assert.Equal(t, 0.0, s.Score("   "))
}

func TestVaderScorer_Negation(t *testing.T) {
	s := NewVaderScorer()

	plain := s.Score("results were good")
	negated := s.Score("results were not good")
	assert.Greater(t, plain, 0.0)
	assert.Less(t, negated, 0.0)
}

func TestVaderScorer_Bounds(t *testing.T) {
	s := NewVaderScorer()

	for _, text := range []string{
		"best best best amazing wonderful excellent!!!",
		"worst worst worst horrible terrible disaster!!!",
	} {
		v := s.Score(text)
		assert.GreaterOrEqual(t, v, -1.0, text)
		assert.LessOrEqual(t, v, 1.0, text)
	}
}

func TestAnalyze_WithVader(t *testing.T) {
	items := []news.Item{
		{Title: "Apple posts great results, analysts excited"},
		{Title: "Apple wins major award for excellent design"},
	}

	res := Analyze(items, NewVaderScorer())
	assert.Equal(t, LabelPositive, res.Label)
	require.Len(t, res.Headlines, 2)
	for _, h := range res.Headlines {
		assert.Greater(t, h.Polarity, 0.0, h.Title)
	}
}
