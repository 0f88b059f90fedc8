// Package web serves the landing page, the resume editor and its JSON API.
package web

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
)

// TemplateSet holds pre-parsed templates. Each view is parsed on top of a
// clone of the layouts so views can redefine blocks independently.
type TemplateSet struct {
	views map[string]*template.Template
}

// NewTemplateSet parses the layouts matched by layoutGlob and clones them for
// each view. Parsing happens once at startup so a broken template fails fast.
func NewTemplateSet(fsys fs.FS, layoutGlob string, funcs template.FuncMap, views ...string) (*TemplateSet, error) {
	layouts, err := template.New("").Funcs(funcs).ParseFS(fsys, layoutGlob)
	if err != nil {
		return nil, err
	}

	set := make(map[string]*template.Template, len(views))
	for _, v := range views {
		t, err := layouts.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layouts for %s: %w", v, err)
		}
		if _, err := t.ParseFS(fsys, v); err != nil {
			return nil, fmt.Errorf("parse template: %s: %w", v, err)
		}
		set[v] = t
	}
	return &TemplateSet{views: set}, nil
}

// Render executes the named template of a view.
func (ts *TemplateSet) Render(w http.ResponseWriter, view, name string, data any) error {
	t, ok := ts.views[view]
	if !ok {
		return fmt.Errorf("template not found: %s", view)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return t.ExecuteTemplate(w, name, data)
}
