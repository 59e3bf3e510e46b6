// Package views renders the HTML pages of the frontend. Every page is a
// template under templates/ defining "content", wrapped by the shared layout.
package views

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/gumanista/hate-2-action/pkg/errors"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	layoutFile   = "templates/layout.html"
	partialsFile = "templates/partials.html"
)

// Page is the root value every template receives.
type Page struct {
	Title     string
	Data      any
	Errors    *errors.ValidationError
	RequestID string
}

// Field is one labelled input.
type Field struct {
	Name  string
	Label string
	Value string
	Error string
}

// Select is one labelled select; Options is a []forms.Option of any key type.
type Select struct {
	Name     string
	Label    string
	Options  any
	Multiple bool
	Error    string
}

// Renderer implements echo.Renderer.
type Renderer struct {
	pages map[string]*template.Template
}

// New parses every page template once.
func New() (*Renderer, error) {
	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	r := &Renderer{pages: map[string]*template.Template{}}
	for _, file := range files {
		if file == layoutFile || file == partialsFile {
			continue
		}
		name := strings.TrimSuffix(path.Base(file), ".html")
		tmpl, err := template.New(name).Funcs(funcs()).ParseFS(templateFS, layoutFile, partialsFile, file)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		r.pages[name] = tmpl
	}
	return r, nil
}

// Render writes the named page. data should be a Page; anything else is
// wrapped in one.
func (r *Renderer) Render(w io.Writer, name string, data any, c echo.Context) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	page, ok := data.(Page)
	if !ok {
		page = Page{Data: data}
	}
	return tmpl.ExecuteTemplate(w, "layout", page)
}

// Has reports whether a page template exists.
func (r *Renderer) Has(name string) bool {
	_, ok := r.pages[name]
	return ok
}

func funcs() template.FuncMap {
	return template.FuncMap{
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
		"hasValue": func(s *string) bool {
			return s != nil && *s != ""
		},
		"itemPath": func(collection string, id int64) string {
			return fmt.Sprintf("/%s/%d", collection, id)
		},
		"lines": func(s string) []string {
			return strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
		},
		"field": func(name, label, value string, errs *errors.ValidationError) Field {
			return Field{Name: name, Label: label, Value: value, Error: fieldError(errs, name)}
		},
		"selectField": func(name, label string, options any, multiple bool, errs *errors.ValidationError) Select {
			return Select{Name: name, Label: label, Options: options, Multiple: multiple, Error: fieldError(errs, name)}
		},
		"fieldError": fieldError,
	}
}

func fieldError(errs *errors.ValidationError, field string) string {
	if errs == nil {
		return ""
	}
	return errs.Get(field)
}
