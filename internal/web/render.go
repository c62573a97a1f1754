package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"bookadmin/internal/entity"
	"bookadmin/internal/httpx"
	"bookadmin/internal/session"

	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// view names a page template and how the layout presents it.
type view struct {
	Page    string
	Title   string
	Nav     string
	Refresh bool // navigate to /home after one second
}

type layoutData struct {
	Title     string
	Nav       string
	Refresh   bool
	Session   session.State
	RequestID string
	Page      any
}

var funcs = template.FuncMap{
	"date": entity.CanonicalDate,
	"deref": func(id *entity.ID) entity.ID {
		if id == nil {
			return 0
		}
		return *id
	},
	"fieldError": func(errs []FieldError, field string) string {
		for _, e := range errs {
			if e.Field == field {
				return e.Message
			}
		}
		return ""
	},
}

type renderer struct {
	pages map[string]*template.Template
	log   *zap.Logger
}

func newRenderer(log *zap.Logger) (*renderer, error) {
	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	rd := &renderer{pages: make(map[string]*template.Template), log: log}
	for _, f := range files {
		name := strings.TrimSuffix(path.Base(f), ".html")
		if name == "layout" {
			continue
		}
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", f)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", f, err)
		}
		rd.pages[name] = t
	}
	return rd, nil
}

// render executes the page into a buffer first so a template failure still
// yields a clean 500.
func (rd *renderer) render(w http.ResponseWriter, r *http.Request, status int, v view, data any) {
	t, ok := rd.pages[v.Page]
	if !ok {
		rd.log.Error("unknown page template", zap.String("page", v.Page))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	err := t.ExecuteTemplate(&buf, "layout", layoutData{
		Title:     v.Title,
		Nav:       v.Nav,
		Refresh:   v.Refresh,
		Session:   session.FromContext(r.Context()),
		RequestID: httpx.RequestIDFrom(r),
		Page:      data,
	})
	if err != nil {
		rd.log.Error("render failed", zap.String("page", v.Page), zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func staticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServerFS(sub))
}
