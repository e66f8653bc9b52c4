// Package view renders the HTML pages.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/rewear/rewear/internal/auth"
	"github.com/rewear/rewear/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page names.
const (
	PageHome   = "home"
	PageAdd    = "add"
	PageSignUp = "sign_up"
	PageLogIn  = "log_in"
)

var pageTitles = map[string]string{
	PageHome:   "Home",
	PageAdd:    "Add item",
	PageSignUp: "Sign up",
	PageLogIn:  "Log in",
}

// Data is passed to every page.
type Data struct {
	Title    string
	Username string
	Flashes  []auth.Flash
	Listings []model.ListingView
}

// Renderer executes the embedded page templates.
type Renderer struct {
	pages map[string]*template.Template
}

// New parses every page together with the shared layout.
func New() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(pageTitles))}
	for name := range pageTitles {
		tmpl, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.pages[name] = tmpl
	}
	return r, nil
}

// Render writes page with status 200. The page is rendered into a buffer
// first so a template error never produces a partial response.
func (r *Renderer) Render(w http.ResponseWriter, page string, data Data) error {
	tmpl, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}
	if data.Title == "" {
		data.Title = pageTitles[page]
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("render %s: %w", page, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, err := buf.WriteTo(w)
	return err
}
