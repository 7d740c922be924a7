// Copyright (c) 2026 Wander. All rights reserved.
// Author: platform@wander.app

package web_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderhq/wander/internal/web"
)

/*
TestErrorPage checks the HTML branch of the error funnel: status and message
land on the rendered error page.
*/
func TestErrorPage(t *testing.T) {
	renderer, err := web.NewRenderer(testTemplates(), discardLogger())
	require.NoError(t, err)

	handler := web.NewHandler(renderer, nil, nil, nil, discardLogger())

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/me", nil)

	handler.ErrorPage(recorder, request, http.StatusUnauthorized,
		"You are not logged in! Please log in to get access.")

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Contains(t, recorder.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, recorder.Body.String(), "You are not logged in! Please log in to get access.")
}
