package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/newthinker/mercado/internal/api/job"
	"github.com/newthinker/mercado/internal/api/response"
	"github.com/newthinker/mercado/internal/core"
)

// maxScanSymbols caps custom universes posted to the API.
const maxScanSymbols = 500

// ScanRequest is the optional request body for starting a scan. An empty
// symbol list scans the default universe.
type ScanRequest struct {
	Symbols []string `json:"symbols,omitempty"`
}

// ScanRunner starts scans and exposes their jobs and reports.
type ScanRunner interface {
	StartScan(symbols []string) job.Job
	Job(id string) (*job.Job, error)
	ReadArtifact(ctx context.Context, path string) ([]byte, error)
}

// ScanHandler handles scanner API requests.
type ScanHandler struct {
	runner ScanRunner
}

// NewScanHandler creates a new scan handler.
func NewScanHandler(runner ScanRunner) *ScanHandler {
	return &ScanHandler{runner: runner}
}

// Create starts a new scan job.
func (h *ScanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ScanRequest
	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			response.Error(w, http.StatusBadRequest,
				core.WrapError(core.ErrInvalidRequest, err))
			return
		}
	}

	symbols := make([]string, 0, len(req.Symbols))
	for _, s := range req.Symbols {
		if s = strings.ToUpper(strings.TrimSpace(s)); s != "" {
			symbols = append(symbols, s)
		}
	}
	if len(symbols) > maxScanSymbols {
		response.Error(w, http.StatusBadRequest,
			core.WrapError(core.ErrInvalidRequest, errors.New("too many symbols")))
		return
	}

	j := h.runner.StartScan(symbols)

	response.JSON(w, http.StatusAccepted, map[string]any{
		"job_id": j.ID,
		"status": j.Status,
	})
}

// GetStatus returns the status of a scan job.
func (h *ScanHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	j, err := h.runner.Job(r.PathValue("id"))
	if err != nil {
		response.Error(w, http.StatusNotFound, err)
		return
	}

	resp := map[string]any{
		"job_id":   j.ID,
		"status":   j.Status,
		"progress": j.Progress,
	}

	if j.Status == job.StatusComplete {
		resp["result"] = j.Result
		resp["report"] = path.Join("/api/v1/scans", j.ID, "report.pdf")
	}
	if j.Status == job.StatusFailed && j.Error != nil {
		resp["error"] = map[string]string{
			"code":    j.Error.Code,
			"message": j.Error.Message,
		}
	}

	response.JSON(w, http.StatusOK, resp)
}

// Report serves the PDF of a finished scan.
func (h *ScanHandler) Report(w http.ResponseWriter, r *http.Request) {
	j, err := h.runner.Job(r.PathValue("id"))
	if err != nil {
		response.Error(w, http.StatusNotFound, err)
		return
	}
	if j.Status != job.StatusComplete || j.Artifact == "" {
		response.Error(w, http.StatusConflict,
			core.WrapError(core.ErrNoData, errors.New("scan not finished")))
		return
	}

	data, err := h.runner.ReadArtifact(r.Context(), j.Artifact)
	if err != nil {
		response.FromError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="`+path.Base(j.Artifact)+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
