package httpx

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"
)

// TemplateRenderer renders HTML pages. Every page template defines a
// "content" block executed inside the shared layout; each page gets its own
// clone of the layout so page-level blocks never collide.
type TemplateRenderer struct {
	pages  map[string]*template.Template
	logger *slog.Logger
}

// TemplateRendererConfig holds configuration for creating a TemplateRenderer.
type TemplateRendererConfig struct {
	// TemplateFS contains layout.tmpl and pages/*.tmpl (required).
	TemplateFS fs.FS
	// Logger for template errors (optional).
	Logger *slog.Logger
}

// NewTemplateRenderer parses the layout and every page template up front so
// a broken template fails at startup, not on first render.
func NewTemplateRenderer(cfg TemplateRendererConfig) (*TemplateRenderer, error) {
	if cfg.TemplateFS == nil {
		return nil, errors.New("TemplateFS is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	layout, err := template.New("layout").ParseFS(cfg.TemplateFS, "layout.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	pageFiles, err := fs.Glob(cfg.TemplateFS, "pages/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("list page templates: %w", err)
	}
	if len(pageFiles) == 0 {
		return nil, errors.New("no page templates found")
	}

	pages := make(map[string]*template.Template, len(pageFiles))
	for _, file := range pageFiles {
		clone, err := layout.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layout: %w", err)
		}
		t, err := clone.ParseFS(cfg.TemplateFS, file)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
		name := strings.TrimSuffix(path.Base(file), ".tmpl")
		pages[name] = t
	}

	return &TemplateRenderer{pages: pages, logger: logger}, nil
}

// RenderPage renders a page inside the layout. The page is rendered to a
// buffer first so a template failure never leaks a half-written body.
func (r *TemplateRenderer) RenderPage(w http.ResponseWriter, page string, data any) error {
	t, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page template %q", page)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		r.logger.Error("template execution failed",
			slog.String("template", page),
			slog.Any("error", err),
		)
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		return err
	}
	return nil
}

// RenderErrorPage renders the error page with the given status code.
func (r *TemplateRenderer) RenderErrorPage(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)

	t, ok := r.pages["error"]
	if !ok {
		_, _ = w.Write([]byte(http.StatusText(code)))
		return
	}

	data := PageData{Title: "Error", Data: map[string]any{
		"Code":    code,
		"Message": message,
	}}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		r.logger.Error("error template failed", slog.Any("error", err))
		_, _ = w.Write([]byte(http.StatusText(code)))
		return
	}
	_, _ = buf.WriteTo(w)
}
