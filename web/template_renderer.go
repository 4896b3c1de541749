package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/RezaEskandarii/recordgrid/internal/grid"
	"github.com/RezaEskandarii/recordgrid/internal/query"
)

//go:embed templates/*.html
var templateFiles embed.FS

var pageNames = []string{"users", "form", "confirm"}

type renderer struct {
	pages  map[string]*template.Template
	logger *slog.Logger
}

// newRenderer parses every page against the shared layout once.
func newRenderer(logger *slog.Logger) (*renderer, error) {
	funcMap := template.FuncMap{
		"BadgeClass": BadgeClass,
		"CellClass":  CellClass,
		"SortIcon":   SortIcon,
	}

	r := &renderer{pages: map[string]*template.Template{}, logger: logger}
	for _, name := range pageNames {
		tmpl, err := template.New("layout.html").Funcs(funcMap).ParseFS(templateFiles,
			"templates/layout.html",
			fmt.Sprintf("templates/%s.html", name),
		)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.pages[name] = tmpl
	}
	return r, nil
}

func (r *renderer) render(w http.ResponseWriter, status int, name string, data any) {
	tmpl, ok := r.pages[name]
	if !ok {
		http.Error(w, "unknown page", http.StatusInternalServerError)
		return
	}

	// Render into a buffer so a template error never sends a half page.
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		r.logger.Error("render page", "page", name, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func BadgeClass(variant string) string {
	switch variant {
	case "default":
		return "badge bg-primary"
	case "secondary":
		return "badge bg-secondary"
	case "destructive":
		return "badge bg-danger"
	case "outline":
		return "badge border text-dark"
	default:
		return "badge bg-light text-dark"
	}
}

func CellClass(c grid.Cell) string {
	class := ""
	switch c.Kind {
	case grid.KindMuted, grid.KindPlaceholder:
		class = "text-muted"
	case grid.KindSkeleton:
		class = "placeholder col-8"
	}
	if c.Mono {
		class += " font-monospace"
	}
	return class
}

func SortIcon(h grid.Header) string {
	if !h.Active {
		return "↕"
	}
	if h.Dir == query.Asc {
		return "↑"
	}
	return "↓"
}
