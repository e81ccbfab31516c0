package web

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/newthinker/mercado/internal/analysis"
	"github.com/newthinker/mercado/internal/api/response"
	"github.com/newthinker/mercado/internal/core"
)

const analysisTimeout = 2 * time.Minute

// AnalysisData holds data for the analysis template
type AnalysisData struct {
	Title   string
	Symbol  string
	Period  string
	Periods []string
	Report  *analysis.Report
	Charts  *Charts
	Error   string
}

// Analysis runs and renders the analysis of ?symbol=&period=.
func (h *Handler) Analysis(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	data := AnalysisData{
		Title:   "Analysis",
		Symbol:  strings.ToUpper(strings.TrimSpace(q.Get("symbol"))),
		Period:  strings.TrimSpace(q.Get("period")),
		Periods: Periods,
	}

	if data.Symbol == "" {
		data.Error = "Enter a ticker symbol."
		h.render(w, http.StatusBadRequest, "analysis.html", data)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), analysisTimeout)
	defer cancel()

	rep, err := h.backend.Analyze(ctx, data.Symbol, data.Period)
	if err != nil {
		data.Error = errorText(err)
		h.render(w, response.StatusFor(err), "analysis.html", data)
		return
	}

	data.Title = rep.Symbol
	data.Period = rep.Period
	data.Report = rep
	charts, err := buildCharts(rep.Series)
	if err != nil {
		data.Error = "Charts unavailable: " + err.Error()
	}
	data.Charts = charts
	h.render(w, http.StatusOK, "analysis.html", data)
}

func errorText(err error) string {
	var ce *core.Error
	if errors.As(err, &ce) {
		return ce.Message
	}
	return "analysis failed"
}
