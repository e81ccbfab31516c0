package web

import (
	"net/http"
)

// Periods offered by the dashboard form.
var Periods = []string{"3mo", "6mo", "ytd", "1y", "2y", "5y"}

// DashboardData holds data for the dashboard template
type DashboardData struct {
	Title     string
	Watchlist []string
	Periods   []string
	Period    string
}

// Dashboard renders the dashboard page
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	data := DashboardData{
		Title:     "Dashboard",
		Watchlist: h.backend.Watchlist(),
		Periods:   Periods,
		Period:    "1y",
	}

	h.render(w, http.StatusOK, "dashboard.html", data)
}
