package web

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path/filepath"
	"time"

	"github.com/newthinker/mercado/internal/analysis"
	"github.com/newthinker/mercado/internal/api/job"
)

//go:embed templates/*
var templateFS embed.FS

var pages = []string{"dashboard.html", "analysis.html", "scan.html"}

// Backend is what the pages read from.
type Backend interface {
	Analyze(ctx context.Context, symbol, period string) (*analysis.Report, error)
	Watchlist() []string
	StartScan(symbols []string) job.Job
	Job(id string) (*job.Job, error)
}

// Handler provides web UI handlers with template rendering
type Handler struct {
	// pageTemplates holds one template set per page, each with layout.html
	pageTemplates map[string]*template.Template
	backend       Backend
}

// NewHandler creates a web handler with templates loaded from templatesDir,
// or from the embedded templates when templatesDir is empty.
func NewHandler(templatesDir string, backend Backend) (*Handler, error) {
	if templatesDir == "" {
		return NewHandlerWithFS(TemplateFS(), backend)
	}

	pageTemplates := make(map[string]*template.Template)
	for _, page := range pages {
		tmpl, err := template.New("layout.html").Funcs(funcs).ParseFiles(
			filepath.Join(templatesDir, "layout.html"),
			filepath.Join(templatesDir, page),
		)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", page, err)
		}
		pageTemplates[page] = tmpl
	}

	return &Handler{pageTemplates: pageTemplates, backend: backend}, nil
}

// NewHandlerWithFS creates a web handler using a custom filesystem.
func NewHandlerWithFS(fsys fs.FS, backend Backend) (*Handler, error) {
	pageTemplates := make(map[string]*template.Template)
	for _, page := range pages {
		tmpl, err := template.New("layout.html").Funcs(funcs).ParseFS(fsys, "layout.html", page)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s from fs: %w", page, err)
		}
		pageTemplates[page] = tmpl
	}

	return &Handler{pageTemplates: pageTemplates, backend: backend}, nil
}

// render executes the specified page template with the given data
func (h *Handler) render(w http.ResponseWriter, status int, page string, data any) {
	tmpl, ok := h.pageTemplates[page]
	if !ok {
		http.Error(w, "template not found: "+page, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "layout.html", data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// TemplateFS returns the embedded template filesystem for external use.
func TemplateFS() fs.FS {
	subFS, err := fs.Sub(templateFS, "templates")
	if err != nil {
		return templateFS
	}
	return subFS
}

var funcs = template.FuncMap{
	"num": func(v *float64, decimals int) string {
		if v == nil {
			return "n/a"
		}
		return fmt.Sprintf("%.*f", decimals, *v)
	},
	"pct": func(v float64) string {
		return fmt.Sprintf("%+.2f%%", v*100)
	},
	"fixed": func(v float64, decimals int) string {
		return fmt.Sprintf("%.*f", decimals, v)
	},
	"inc": func(i int) int {
		return i + 1
	},
	"date": func(t time.Time) string {
		return t.Format("2006-01-02")
	},
}
