// Copyright (c) 2026 Wander. All rights reserved.
// Author: platform@wander.app

// Package web is the server-rendered HTML surface: the template renderer
// and the view routes for the overview, tour detail, login, and account
// pages.
package web

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
)

// Renderer renders HTML pages from a layout plus per-page content blocks.
//
// Each page is parsed into its own template set at startup, so a broken
// template fails the boot instead of the first request that hits it.
type Renderer struct {
	pages  map[string]*template.Template
	logger *slog.Logger
}

// NewRenderer parses every page under pages/ against the shared layout.
func NewRenderer(templateFS fs.FS, logger *slog.Logger) (*Renderer, error) {
	pagePaths, err := fs.Glob(templateFS, "pages/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("web: glob pages: %w", err)
	}
	if len(pagePaths) == 0 {
		return nil, fmt.Errorf("web: no page templates found")
	}

	pages := make(map[string]*template.Template, len(pagePaths))
	for _, pagePath := range pagePaths {
		set, err := template.ParseFS(templateFS, "layout.tmpl", pagePath)
		if err != nil {
			return nil, fmt.Errorf("web: parse %s: %w", pagePath, err)
		}

		// "pages/overview.tmpl" → "overview"
		name := pagePath[len("pages/") : len(pagePath)-len(".tmpl")]
		pages[name] = set
	}

	return &Renderer{pages: pages, logger: logger}, nil
}

// Render writes one page with the given status code.
//
// The page is executed into a buffer first: a template failure mid-stream
// would otherwise leave the client with half a page and a 200 status.
func (renderer *Renderer) Render(writer http.ResponseWriter, statusCode int, page string, data any) {
	set, found := renderer.pages[page]
	if !found {
		renderer.logger.Error("template_missing", slog.String("page", page))
		http.Error(writer, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := set.ExecuteTemplate(&buf, "layout", data); err != nil {
		renderer.logger.Error("template_execution_failed",
			slog.String("page", page),
			slog.Any("error", err),
		)
		http.Error(writer, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	writer.Header().Set("Content-Type", "text/html; charset=utf-8")
	writer.WriteHeader(statusCode)
	_, _ = buf.WriteTo(writer)
}
