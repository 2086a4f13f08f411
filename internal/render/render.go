// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package render parses the site and admin templates and executes them with
// per-request data.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/firmsite/internal/content"
	"github.com/olegiv/firmsite/internal/session"
	"github.com/olegiv/firmsite/internal/store"
)

// blankLinesRegex collapses runs of blank lines left by template actions.
var blankLinesRegex = regexp.MustCompile(`(\r?\n[ \t]*)+\r?\n`)

const (
	baseLayout  = "layouts/base.html"
	adminLayout = "layouts/admin.html"
)

// Renderer handles template rendering with caching.
type Renderer struct {
	templates      map[string]*template.Template
	sessionManager *scs.SessionManager
	isDev          bool
	now            func() time.Time
}

// Config holds renderer configuration.
type Config struct {
	TemplatesFS    fs.FS
	SessionManager *scs.SessionManager
	IsDev          bool
}

// New creates a new Renderer with parsed templates.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		templates:      make(map[string]*template.Template),
		sessionManager: cfg.SessionManager,
		isDev:          cfg.IsDev,
		now:            time.Now,
	}

	if err := r.parseTemplates(cfg.TemplatesFS); err != nil {
		return nil, err
	}

	return r, nil
}

// parseTemplates parses every page under pages/, admin/ and auth/. Admin
// pages are wrapped in the admin layout as well as the base layout.
func (r *Renderer) parseTemplates(templatesFS fs.FS) error {
	partials, err := getTemplateFiles(templatesFS, "partials")
	if err != nil {
		return fmt.Errorf("getting partials: %w", err)
	}

	groups := []struct {
		dir     string
		layouts []string
	}{
		{"pages", []string{baseLayout}},
		{"auth", []string{baseLayout}},
		{"admin", []string{baseLayout, adminLayout}},
	}

	for _, g := range groups {
		pages, err := getTemplateFiles(templatesFS, g.dir)
		if err != nil {
			return fmt.Errorf("getting %s templates: %w", g.dir, err)
		}

		for _, tmplPath := range pages {
			name := g.dir + "/" + strings.TrimSuffix(path.Base(tmplPath), ".html")

			files := append([]string{}, g.layouts...)
			files = append(files, partials...)
			files = append(files, tmplPath)

			tmpl, err := template.New("").Funcs(r.TemplateFuncs()).ParseFS(templatesFS, files...)
			if err != nil {
				return fmt.Errorf("parsing template %s: %w", name, err)
			}
			r.templates[name] = tmpl
		}
	}

	return nil
}

// getTemplateFiles returns all .html files in a directory. A missing
// directory yields no files.
func getTemplateFiles(templatesFS fs.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(templatesFS, dir)
	if err != nil {
		return nil, nil
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".html") {
			files = append(files, path.Join(dir, entry.Name()))
		}
	}
	return files, nil
}

// Has reports whether a template with the given name was parsed.
func (r *Renderer) Has(name string) bool {
	_, ok := r.templates[name]
	return ok
}

// TemplateData holds data passed to templates.
type TemplateData struct {
	Title       string
	Description string
	Data        any
	Flash       string
	FlashType   string
	CurrentYear int
	CurrentPath string
	User        *store.User
	IsAdmin     bool

	// Content is the site content with defaults applied by Get.
	Content content.Lookup

	// Form and Errors carry submitted values and per-field messages for
	// forms that re-render on validation failure.
	Form   map[string]string
	Errors map[string]string
}

// Render renders a template with a 200 status.
func (r *Renderer) Render(w http.ResponseWriter, req *http.Request, name string, data TemplateData) error {
	return r.RenderStatus(w, req, http.StatusOK, name, data)
}

// RenderStatus renders a template with the given status code. The template
// is executed into a buffer so a failure never sends a partial page.
func (r *Renderer) RenderStatus(w http.ResponseWriter, req *http.Request, status int, name string, data TemplateData) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}

	data.CurrentYear = r.now().Year()
	data.CurrentPath = req.URL.Path
	if data.Content == nil {
		data.Content = content.Lookup{}
	}

	if r.sessionManager != nil {
		if flash := r.sessionManager.PopString(req.Context(), session.KeyFlash); flash != "" {
			data.Flash = flash
			data.FlashType = r.sessionManager.PopString(req.Context(), session.KeyFlashType)
			if data.FlashType == "" {
				data.FlashType = "info"
			}
		}
	}

	buf := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(buf, "base", data); err != nil {
		return fmt.Errorf("executing template %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := w.Write(blankLinesRegex.ReplaceAll(buf.Bytes(), []byte("\n")))
	return err
}

// SetFlash sets a flash message in the session.
func (r *Renderer) SetFlash(req *http.Request, message, flashType string) {
	if r.sessionManager != nil {
		r.sessionManager.Put(req.Context(), session.KeyFlash, message)
		r.sessionManager.Put(req.Context(), session.KeyFlashType, flashType)
	}
}
