// Package view renders server-side HTML pages. Every page template is parsed
// together with the base layout so pages inherit the shared chrome and only
// override the content and title blocks.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var templatesFS embed.FS

const layoutName = "base.html"

// Renderer implements echo.Renderer over html/template.
type Renderer struct {
	templates map[string]*template.Template
}

var funcs = template.FuncMap{
	"date": func(t time.Time) string {
		return t.Format("Jan 2, 2006")
	},
	"datePtr": func(t *time.Time) string {
		if t == nil {
			return "—"
		}
		return t.Format("Jan 2, 2006")
	},
	"stars": func(rating int) string {
		out := ""
		for i := 1; i <= 5; i++ {
			if i <= rating {
				out += "★"
			} else {
				out += "☆"
			}
		}
		return out
	},
	"money": func(d decimal.Decimal) string {
		return d.StringFixed(2)
	},
	"add": func(a, b int) int { return a + b },
	"sub": func(a, b int) int { return a - b },
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	pages, err := fs.Glob(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("glob templates: %w", err)
	}

	templates := make(map[string]*template.Template)
	for _, page := range pages {
		name := path.Base(page)
		if name == layoutName {
			continue
		}
		t, err := template.New(layoutName).Funcs(funcs).
			ParseFS(templatesFS, "templates/"+layoutName, page)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		templates[name] = t
	}
	return &Renderer{templates: templates}, nil
}

// Render implements echo.Renderer.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	t, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}
	return t.ExecuteTemplate(w, layoutName, data)
}
