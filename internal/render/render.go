// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package render executes the embedded console templates.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/ocms-console/internal/middleware"
	"github.com/olegiv/ocms-console/internal/model"
	"github.com/olegiv/ocms-console/internal/session"
	"github.com/olegiv/ocms-console/internal/submit"
	"github.com/olegiv/ocms-console/internal/uikit"
)

// Renderer handles template rendering with caching.
type Renderer struct {
	templates      map[string]*template.Template
	sessionManager *scs.SessionManager
	assetBaseURL   string
	isDev          bool
}

// Config holds renderer configuration.
type Config struct {
	TemplatesFS    fs.FS
	SessionManager *scs.SessionManager
	AssetBaseURL   string
	IsDev          bool
}

// New creates a new Renderer with parsed templates.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		templates:      make(map[string]*template.Template),
		sessionManager: cfg.SessionManager,
		assetBaseURL:   strings.TrimRight(cfg.AssetBaseURL, "/"),
		isDev:          cfg.IsDev,
	}

	if err := r.parseTemplates(cfg.TemplatesFS); err != nil {
		return nil, err
	}

	return r, nil
}

// parseTemplates parses all templates from the filesystem. Admin pages get
// the admin layout; auth and error pages only the base layout.
func (r *Renderer) parseTemplates(templatesFS fs.FS) error {
	partials, err := r.getTemplateFiles(templatesFS, "partials")
	if err != nil {
		return fmt.Errorf("getting partials: %w", err)
	}

	const (
		baseLayout  = "layouts/base.html"
		adminLayout = "layouts/admin.html"
	)

	groups := []struct {
		dir     string
		layouts []string
	}{
		{"admin", []string{baseLayout, adminLayout}},
		{"auth", []string{baseLayout}},
		{"errors", []string{baseLayout}},
	}

	for _, g := range groups {
		pages, err := r.getTemplateFiles(templatesFS, g.dir)
		if err != nil {
			return fmt.Errorf("getting %s templates: %w", g.dir, err)
		}

		for _, tmplPath := range pages {
			name := g.dir + "/" + strings.TrimSuffix(filepath.Base(tmplPath), ".html")

			// Parse in order: layouts, partials, page template
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

// getTemplateFiles returns all .html files in a directory.
func (r *Renderer) getTemplateFiles(templatesFS fs.FS, dir string) ([]string, error) {
	var files []string

	entries, err := fs.ReadDir(templatesFS, dir)
	if err != nil {
		// Directory might not exist, that's ok
		return files, nil
	}

	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".html") {
			files = append(files, dir+"/"+entry.Name())
		}
	}

	return files, nil
}

// Has reports whether a page template is registered.
func (r *Renderer) Has(name string) bool {
	_, ok := r.templates[name]
	return ok
}

// TemplateData holds data passed to templates.
type TemplateData struct {
	Title       string
	Data        any
	User        *model.User
	Lang        string
	CurrentPath string
	Flash       string
	FlashType   string
	CurrentYear int
	SubmitID    string
	Breadcrumbs []uikit.Breadcrumb
}

// Render renders a page template with status 200.
func (r *Renderer) Render(w http.ResponseWriter, req *http.Request, name string, data TemplateData) error {
	return r.RenderStatus(w, req, http.StatusOK, name, data)
}

// RenderStatus renders a page template with the given status code. The
// identity, UI language, flash message and a fresh submission ID are filled
// in from the request.
func (r *Renderer) RenderStatus(w http.ResponseWriter, req *http.Request, status int, name string, data TemplateData) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}

	r.fill(req, &data)

	// Render to buffer first to catch errors
	buf := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(buf, "base", data); err != nil {
		return fmt.Errorf("executing template %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
	return nil
}

// RenderPartial executes one named block of a page template without the
// layout. htmx requests use it to swap a single fragment.
func (r *Renderer) RenderPartial(w http.ResponseWriter, req *http.Request, name, block string, data TemplateData) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}

	if data.User == nil {
		data.User = middleware.GetUser(req)
	}
	if data.Lang == "" {
		data.Lang = middleware.GetAdminLang(req)
	}

	buf := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(buf, block, data); err != nil {
		return fmt.Errorf("executing block %s of %s: %w", block, name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
	return nil
}

func (r *Renderer) fill(req *http.Request, data *TemplateData) {
	data.CurrentYear = time.Now().Year()
	data.CurrentPath = req.URL.Path
	if data.User == nil {
		data.User = middleware.GetUser(req)
	}
	if data.Lang == "" {
		data.Lang = middleware.GetAdminLang(req)
	}
	if data.SubmitID == "" {
		data.SubmitID = submit.NewID()
	}

	// Get flash message from session
	if r.sessionManager != nil && data.Flash == "" {
		if flash := r.sessionManager.PopString(req.Context(), session.KeyFlash); flash != "" {
			data.Flash = flash
			data.FlashType = r.sessionManager.PopString(req.Context(), session.KeyFlashTyp)
			if data.FlashType == "" {
				data.FlashType = "info"
			}
		}
	}
}

// SetFlash sets a flash message in the session.
func (r *Renderer) SetFlash(req *http.Request, message, flashType string) {
	if r.sessionManager == nil {
		slog.Warn("flash dropped, no session manager", "message", message)
		return
	}
	r.sessionManager.Put(req.Context(), session.KeyFlash, message)
	r.sessionManager.Put(req.Context(), session.KeyFlashTyp, flashType)
}
