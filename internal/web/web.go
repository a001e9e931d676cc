// Package web holds the embedded views and static assets of the site and the
// echo renderer that executes them.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/cse-motors/dealership/internal/core/domain"
)

//go:embed templates static
var files embed.FS

const pagesDir = "templates/pages"

// Page is the view model every template receives.
type Page struct {
	Title    string
	Path     string
	Nav      []domain.Classification
	Identity domain.Identity
	Notices  []string
	Errors   []string
	// Form holds submitted values keyed by input name so forms re-render
	// with what the visitor typed. Passwords are never put here.
	Form map[string]string
	Data any
}

// ManagesInventory reports whether the signed-in account may see inventory tools.
func (p Page) ManagesInventory() bool {
	return domain.InventoryManagers.Contains(p.Identity.Role)
}

// Renderer implements echo.Renderer over the embedded page templates.
// Each page is parsed together with the shared layout and partials.
type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	r := &Renderer{pages: map[string]*template.Template{}}

	err := fs.WalkDir(files, pagesDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || path.Ext(p) != ".html" {
			return err
		}
		name := strings.TrimSuffix(strings.TrimPrefix(p, pagesDir+"/"), ".html")

		t, err := template.New(name).
			Funcs(funcs).
			Option("missingkey=zero").
			ParseFS(files, "templates/layouts/*.html", "templates/partials/*.html", p)
		if err != nil {
			return fmt.Errorf("parse %s: %w", name, err)
		}
		r.pages[name] = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Render executes the base layout for the named page, e.g. "inventory/detail".
func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("web: unknown page %q", name)
	}
	return t.ExecuteTemplate(w, "base", data)
}

// Has reports whether a page with the given name exists.
func (r *Renderer) Has(name string) bool {
	_, ok := r.pages[name]
	return ok
}

// Static returns the public assets rooted at /css, /js and /images.
func Static() fs.FS {
	sub, err := fs.Sub(files, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
