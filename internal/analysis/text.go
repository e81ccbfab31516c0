package analysis

import (
	"bufio"
	"fmt"
	"io"

	"github.com/newthinker/mercado/internal/sentiment"
)

const dateLayout = "2006-01-02"

// WriteText renders the report as the plain-text summary used by the CLI
// and the text endpoint.
func WriteText(w io.Writer, r *Report) error {
	bw := bufio.NewWriter(w)

	currency := ""
	name := r.Symbol
	if r.Profile != nil {
		currency = " " + r.Profile.Currency
		if r.Profile.Name != "" && r.Profile.Name != r.Symbol {
			name = fmt.Sprintf("%s (%s)", r.Profile.Name, r.Symbol)
		}
	}

	fmt.Fprintf(bw, "ANALYSIS: %s\n", name)
	fmt.Fprintf(bw, "Data range:      %s - %s (%s)\n", r.From.Format(dateLayout), r.To.Format(dateLayout), r.Period)
	fmt.Fprintf(bw, "Current price:   %.2f%s\n", r.Latest.Price, currency)
	fmt.Fprintf(bw, "MA 50:           %s%s\n", fmtPtr(r.Latest.MA50, 2), currency)
	fmt.Fprintf(bw, "MA 200:          %s%s\n", fmtPtr(r.Latest.MA200, 2), currency)
	fmt.Fprintf(bw, "MACD:            %s\n", fmtPtr(r.Latest.MACD, 4))
	fmt.Fprintf(bw, "MACD signal:     %s\n", fmtPtr(r.Latest.SignalLine, 4))
	fmt.Fprintf(bw, "RSI 14:          %s\n", fmtPtr(r.Latest.RSI14, 2))
	fmt.Fprintf(bw, "Bollinger upper: %s%s\n", fmtPtr(r.Latest.BBUpper, 2), currency)
	fmt.Fprintf(bw, "Bollinger lower: %s%s\n", fmtPtr(r.Latest.BBLower, 2), currency)
	fmt.Fprintf(bw, "ATR 14:          %s\n", fmtPtr(r.Latest.ATR14, 4))
	fmt.Fprintf(bw, "Sharpe ratio:    %.2f\n", r.SharpeRatio)

	fmt.Fprintf(bw, "\nNEWS SENTIMENT: %s", r.Sentiment.Label)
	if r.Sentiment.Label != sentiment.LabelNoData {
		fmt.Fprintf(bw, " (avg %.2f)", r.Sentiment.Average)
	}
	fmt.Fprintln(bw)
	for _, h := range r.Sentiment.Headlines {
		fmt.Fprintf(bw, "  %s %s (%.2f)\n", polarityMark(h.Polarity), h.Title, h.Polarity)
	}

	fmt.Fprintln(bw, "\nBACKTEST")
	if len(r.Trades) == 0 {
		fmt.Fprintln(bw, "  no buy/sell round trips in this period")
	} else {
		for _, t := range r.Trades {
			fmt.Fprintf(bw, "  buy %s at %.2f | sell %s at %.2f | %+.2f%% | %dd\n",
				t.BuyDate.Format(dateLayout), t.BuyPrice,
				t.SellDate.Format(dateLayout), t.SellPrice,
				t.ReturnPct*100, t.HoldingDays())
		}
		s := r.Summary
		fmt.Fprintf(bw, "  Cumulative return: %.2f%%\n", s.CumulativeReturn*100)
		fmt.Fprintf(bw, "  Trades:            %d\n", s.Count)
		fmt.Fprintf(bw, "  Winning:           %d (%.2f%%)\n", s.Wins, s.WinRate*100)
		fmt.Fprintf(bw, "  Losing:            %d (%.2f%%)\n", s.Losses, (1-s.WinRate)*100)
		fmt.Fprintf(bw, "  Average return:    %.2f%%\n", s.AvgReturn*100)
		fmt.Fprintf(bw, "  Max drawdown:      %.2f%%\n", s.MaxDrawdown*100)
	}

	rec := r.Recommendation
	fmt.Fprintf(bw, "\nRECOMMENDATION: %s - %s\n", rec.Action, rec.Reason)
	if rec.Note != "" {
		fmt.Fprintf(bw, "  note: %s\n", rec.Note)
	}
	if rec.Horizon != "" {
		fmt.Fprintf(bw, "  horizon: %s\n", rec.Horizon)
	}

	return bw.Flush()
}

func fmtPtr(v *float64, decimals int) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.*f", decimals, *v)
}

func polarityMark(p float64) string {
	switch {
	case p > 0:
		return "+"
	case p < 0:
		return "-"
	default:
		return "="
	}
}
