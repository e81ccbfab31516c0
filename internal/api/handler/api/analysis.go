package api

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/newthinker/mercado/internal/analysis"
	"github.com/newthinker/mercado/internal/api/response"
	"github.com/newthinker/mercado/internal/core"
	"github.com/newthinker/mercado/internal/report"
)

const analysisTimeout = 2 * time.Minute

// Analyzer runs a single-symbol analysis.
type Analyzer interface {
	Analyze(ctx context.Context, symbol, period string) (*analysis.Report, error)
}

// AnalysisHandler handles analysis API requests.
type AnalysisHandler struct {
	analyzer Analyzer
}

// NewAnalysisHandler creates a new analysis handler.
func NewAnalysisHandler(analyzer Analyzer) *AnalysisHandler {
	return &AnalysisHandler{analyzer: analyzer}
}

// Get returns the JSON report for ?symbol=&period=. The enriched series is
// omitted unless series=true.
func (h *AnalysisHandler) Get(w http.ResponseWriter, r *http.Request) {
	rep, ok := h.run(w, r)
	if !ok {
		return
	}

	if r.URL.Query().Get("series") != "true" {
		trimmed := *rep
		trimmed.Series = nil
		rep = &trimmed
	}
	response.JSON(w, http.StatusOK, rep)
}

// Text returns the plain-text report.
func (h *AnalysisHandler) Text(w http.ResponseWriter, r *http.Request) {
	rep, ok := h.run(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := analysis.WriteText(&buf, rep); err != nil {
		response.Error(w, http.StatusInternalServerError, core.WrapError(core.ErrReportFailed, err))
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// CSV downloads the enriched series as CSV.
func (h *AnalysisHandler) CSV(w http.ResponseWriter, r *http.Request) {
	rep, ok := h.run(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := report.WriteSeriesCSV(&buf, rep.Series); err != nil {
		response.Error(w, http.StatusInternalServerError, core.WrapError(core.ErrReportFailed, err))
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		`attachment; filename="`+report.SeriesFileName(rep.Symbol, rep.GeneratedAt)+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (h *AnalysisHandler) run(w http.ResponseWriter, r *http.Request) (*analysis.Report, bool) {
	q := r.URL.Query()
	symbol := strings.TrimSpace(q.Get("symbol"))
	if symbol == "" {
		response.Error(w, http.StatusBadRequest,
			core.WrapError(core.ErrInvalidRequest, errors.New("symbol is required")))
		return nil, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), analysisTimeout)
	defer cancel()

	rep, err := h.analyzer.Analyze(ctx, symbol, strings.TrimSpace(q.Get("period")))
	if err != nil {
		response.FromError(w, err)
		return nil, false
	}
	return rep, true
}
