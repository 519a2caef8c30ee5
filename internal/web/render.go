package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/rs/zerolog/log"

	"scribble/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// pageNames lists every page template that pairs with the base layout.
var pageNames = []string{"index", "register", "login", "create", "update", "error"}

// PageData carries everything a page template can bind. Pages use the
// fields they need and ignore the rest.
type PageData struct {
	User   *models.User
	Flash  string
	Posts  []models.Post
	Post   models.Post
	Status int
}

// Renderer renders the embedded HTML templates, one parsed set per page.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses all page templates against the base layout.
func NewRenderer() (*Renderer, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.ParseFS(templateFS, "templates/base.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		pages[name] = t
	}
	return &Renderer{pages: pages}, nil
}

// Page writes a rendered page with the given status. The template runs
// into a buffer first so a render failure can still produce a clean 500.
func (r *Renderer) Page(w http.ResponseWriter, status int, name string, data PageData) {
	t, ok := r.pages[name]
	if !ok {
		log.Error().Str("template", name).Msg("Unknown page template")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base", data); err != nil {
		log.Error().Err(err).Str("template", name).Msg("Failed to render template")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// Error renders the terminal error page.
func (r *Renderer) Error(w http.ResponseWriter, user *models.User, status int, message string) {
	r.Page(w, status, "error", PageData{User: user, Flash: message, Status: status})
}
