package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
)

//go:embed templ
var templateDir embed.FS

const templSuffix = ".html"

type viewRenderer interface {
	Render(w io.Writer, name string, data any) error
}

// templateRenderer holds one template set per page, each of them built on top of the layout
type templateRenderer struct {
	pages map[string]*template.Template
}

func (t *templateRenderer) Render(w io.Writer, name string, data any) error {
	page, ok := t.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	return page.ExecuteTemplate(w, "layout", data)
}

// parseTemplates parses every page under templ/ (except the layout) into its own set.
// Page names are their paths relative to templ/, without the suffix.
func parseTemplates(funcs template.FuncMap) (*templateRenderer, error) {
	layout, err := template.New("layout").Funcs(funcs).ParseFS(templateDir, "templ/layout"+templSuffix)
	if err != nil {
		return nil, fmt.Errorf("could not parse layout: %w", err)
	}
	rd := &templateRenderer{pages: make(map[string]*template.Template)}
	err = fs.WalkDir(templateDir, "templ", func(fpath string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(fpath, templSuffix) || fpath == "templ/layout"+templSuffix {
			return nil
		}
		name := strings.TrimSuffix(strings.TrimPrefix(fpath, "templ/"), templSuffix)
		page, err := template.Must(layout.Clone()).ParseFS(templateDir, fpath)
		if err != nil {
			return fmt.Errorf("could not parse %s: %w", path.Base(fpath), err)
		}
		rd.pages[name] = page
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rd, nil
}
