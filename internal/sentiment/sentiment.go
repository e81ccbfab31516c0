package sentiment

import "github.com/newthinker/mercado/internal/news"

// Label is the coarse sentiment of a set of headlines.
type Label string

const (
	LabelPositive Label = "POSITIVE"
	LabelNegative Label = "NEGATIVE"
	LabelNeutral  Label = "NEUTRAL"
	LabelNoData   Label = "NO_DATA"
)

const (
	// MaxHeadlines is how many headlines are scored per symbol.
	MaxHeadlines = 10
	// Threshold is the absolute average polarity needed to leave NEUTRAL.
	Threshold = 0.1
)

// Headline is a scored news title.
type Headline struct {
	Title    string  `json:"title"`
	Polarity float64 `json:"polarity"`
}

// Result is the sentiment verdict over a symbol's headlines.
type Result struct {
	Label     Label      `json:"label"`
	Average   float64    `json:"average"`
	Headlines []Headline `json:"headlines"`
}

// Classify maps an average polarity to a label.
func Classify(avg float64) Label {
	switch {
	case avg > Threshold:
		return LabelPositive
	case avg < -Threshold:
		return LabelNegative
	default:
		return LabelNeutral
	}
}

// Analyze scores the first MaxHeadlines items. No items yields NO_DATA.
func Analyze(items []news.Item, scorer Scorer) Result {
	if len(items) > MaxHeadlines {
		items = items[:MaxHeadlines]
	}
	if len(items) == 0 {
		return NoData()
	}

	headlines := make([]Headline, 0, len(items))
	var sum float64
	for _, item := range items {
		p := scorer.Score(item.Title)
		headlines = append(headlines, Headline{Title: item.Title, Polarity: p})
		sum += p
	}

	avg := sum / float64(len(headlines))
	return Result{
		Label:     Classify(avg),
		Average:   avg,
		Headlines: headlines,
	}
}

// NoData is the result used when headlines could not be fetched.
func NoData() Result {
	return Result{Label: LabelNoData, Headlines: []Headline{}}
}
