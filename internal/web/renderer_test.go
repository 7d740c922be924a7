// Copyright (c) 2026 Wander. All rights reserved.
// Author: platform@wander.app

package web_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderhq/wander/internal/web"
)

func testTemplates() fstest.MapFS {
	return fstest.MapFS{
		"layout.tmpl": &fstest.MapFile{Data: []byte(
			`{{define "layout"}}<html><body>{{template "content" .}}</body></html>{{end}}`,
		)},
		"pages/overview.tmpl": &fstest.MapFile{Data: []byte(
			`{{define "content"}}<h1>{{.Title}}</h1>{{end}}`,
		)},
		"pages/error.tmpl": &fstest.MapFile{Data: []byte(
			`{{define "content"}}<p>{{.Data}}</p>{{end}}`,
		)},
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

/*
TestNewRenderer checks startup parsing of the page template sets.
*/
func TestNewRenderer(t *testing.T) {
	renderer, err := web.NewRenderer(testTemplates(), discardLogger())
	require.NoError(t, err)
	require.NotNil(t, renderer)

	// A broken template fails the boot, not the first request.
	broken := testTemplates()
	broken["pages/overview.tmpl"] = &fstest.MapFile{Data: []byte(`{{define "content"}}{{.Unclosed`)}
	_, err = web.NewRenderer(broken, discardLogger())
	assert.Error(t, err)

	// An empty template directory is a misconfiguration.
	_, err = web.NewRenderer(fstest.MapFS{}, discardLogger())
	assert.Error(t, err)
}

/*
TestRenderer_Render checks page execution into the layout.
*/
func TestRenderer_Render(t *testing.T) {
	renderer, err := web.NewRenderer(testTemplates(), discardLogger())
	require.NoError(t, err)

	recorder := httptest.NewRecorder()
	renderer.Render(recorder, http.StatusOK, "overview", struct{ Title string }{Title: "All Tours"})

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, recorder.Body.String(), "<h1>All Tours</h1>")
	assert.Contains(t, recorder.Body.String(), "<body>")
}

/*
TestRenderer_Render_UnknownPage checks the missing-page fallback.
*/
func TestRenderer_Render_UnknownPage(t *testing.T) {
	renderer, err := web.NewRenderer(testTemplates(), discardLogger())
	require.NoError(t, err)

	recorder := httptest.NewRecorder()
	renderer.Render(recorder, http.StatusOK, "no-such-page", nil)

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
}

/*
TestRenderer_Render_EscapesData checks contextual auto-escaping of
user-controlled values.
*/
func TestRenderer_Render_EscapesData(t *testing.T) {
	renderer, err := web.NewRenderer(testTemplates(), discardLogger())
	require.NoError(t, err)

	recorder := httptest.NewRecorder()
	renderer.Render(recorder, http.StatusNotFound, "error", struct{ Data string }{
		Data: `<script>alert(1)</script>`,
	})

	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.NotContains(t, recorder.Body.String(), "<script>alert(1)</script>")
}
