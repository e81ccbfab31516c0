package web

import (
	"net/http"

	"github.com/newthinker/mercado/internal/api/job"
	"github.com/newthinker/mercado/internal/scanner"
)

// ScanData holds data for the scan status template
type ScanData struct {
	Title string
	Job   *job.Job
	Top   []scanner.Metrics
}

// Scan renders the status page of a scan job.
func (h *Handler) Scan(w http.ResponseWriter, r *http.Request) {
	j, err := h.backend.Job(r.PathValue("id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	data := ScanData{Title: "Scan", Job: j}
	if res, ok := j.Result.(*scanner.Result); ok {
		data.Top = res.Top()
	}
	h.render(w, http.StatusOK, "scan.html", data)
}

// StartScan launches a scan of the default universe and redirects to its page.
func (h *Handler) StartScan(w http.ResponseWriter, r *http.Request) {
	j := h.backend.StartScan(nil)
	http.Redirect(w, r, "/scans/"+j.ID, http.StatusSeeOther)
}
