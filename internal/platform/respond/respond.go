// Copyright (c) 2026 Wander. All rights reserved.
// Author: platform@wander.app

// Package respond provides HTTP response helpers used by all API handlers,
// including the API half of the error funnel.
//
// # Architecture
//
// This package centralizes the presentation logic for HTTP responses.
// It ensures that every response (Success or Error) across the entire application
// follows a strict, predictable JSON envelope structure:
//
//	success: {"status": "success", "data": ...}
//	failure: {"status": "fail"|"error", "message": ...}
//
// "fail" marks 4xx (client) failures, "error" marks 5xx (server) failures.
//
// # Verbosity Modes
//
// In production, only operational failures surface their message; everything
// else collapses to a generic message with status 500. In development the
// envelope additionally carries the underlying error detail. The mode is set
// once during startup via [SetDevelopmentMode], before the server accepts
// traffic, and read atomically afterwards.
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/wanderhq/wander/internal/platform/apperr"
	"github.com/wanderhq/wander/internal/platform/constants"
	"github.com/wanderhq/wander/internal/platform/ctxutil"
	"github.com/wanderhq/wander/pkg/pagination"
)

// developmentMode gates error detail exposure. Zero value (production) is the
// safe default.
var developmentMode atomic.Bool

// SetDevelopmentMode switches the error funnel to verbose output.
// Call once from main before serving.
func SetDevelopmentMode(enabled bool) {
	developmentMode.Store(enabled)
}

// PageRenderer renders a failure as an HTML page for browser-facing routes.
// The message has already been through the verbosity collapse.
type PageRenderer func(writer http.ResponseWriter, request *http.Request, status int, message string)

var pageRenderer atomic.Value

// SetPageRenderer installs the HTML branch of the error funnel: failures on
// routes outside the API prefix render through it instead of the JSON
// envelope. Call once from main before serving. Without a renderer every
// failure falls back to JSON.
func SetPageRenderer(renderer PageRenderer) {
	pageRenderer.Store(renderer)
}

// pageRendererFor returns the installed renderer when the request targets a
// browser-facing route, nil otherwise.
func pageRendererFor(request *http.Request) PageRenderer {
	if strings.HasPrefix(request.URL.Path, constants.APIPathPrefix) {
		return nil
	}
	renderer, ok := pageRenderer.Load().(PageRenderer)
	if !ok {
		return nil
	}
	return renderer
}

// SuccessEnvelope is the JSON envelope for successful responses.
type SuccessEnvelope struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data"`
}

// PaginatedEnvelope is the JSON envelope for paginated list responses.
type PaginatedEnvelope struct {
	Status string          `json:"status"`
	Data   interface{}     `json:"data"`
	Meta   pagination.Meta `json:"meta"`
}

// ErrorEnvelope is the JSON envelope for failure responses.
type ErrorEnvelope struct {
	Status  string              `json:"status"`
	Message string              `json:"message"`
	Code    string              `json:"code,omitempty"`
	Details []apperr.FieldError `json:"details,omitempty"`
	// Detail carries the underlying error text in development mode only.
	Detail string `json:"detail,omitempty"`
}

// JSON writes a JSON response with the given status code.
func JSON(writer http.ResponseWriter, statusCode int, payload interface{}) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(statusCode)
	_ = json.NewEncoder(writer).Encode(payload)
}

// OK writes a 200 OK response with data wrapped in the standard success envelope.
func OK(writer http.ResponseWriter, data interface{}) {
	JSON(writer, http.StatusOK, SuccessEnvelope{Status: "success", Data: data})
}

// Created writes a 201 Created response with data wrapped in the standard success envelope.
func Created(writer http.ResponseWriter, data interface{}) {
	JSON(writer, http.StatusCreated, SuccessEnvelope{Status: "success", Data: data})
}

// Paginated writes a 200 OK response with paginated data and a metadata block.
func Paginated(writer http.ResponseWriter, data interface{}, metadata pagination.Meta) {
	JSON(writer, http.StatusOK, PaginatedEnvelope{Status: "success", Data: data, Meta: metadata})
}

// NoContent writes a 204 No Content response.
func NoContent(writer http.ResponseWriter) {
	writer.WriteHeader(http.StatusNoContent)
}

// Error is the terminal funnel for API failures.
//
// Every failure object from any pipeline stage lands here and is normalized:
//
//   - Operational [apperr.AppError]: status code + message, verbatim.
//   - Non-operational or untagged errors: generic message with a fixed 500
//     in production; message plus underlying detail in development.
func Error(writer http.ResponseWriter, request *http.Request, err error) {
	appError := apperr.As(err)
	if appError == nil {
		// Untagged failure: log full details, expose nothing.
		logger := ctxutil.GetLogger(request.Context())
		logger.ErrorContext(request.Context(), "unhandled_error",
			slog.String("error", err.Error()),
			slog.String("request_id", ctxutil.GetRequestID(request.Context())),
		)
		appError = apperr.Internal(err)
	}

	// 5xx always gets logged — it indicates a server-side issue.
	if appError.HTTPStatus >= 500 {
		logger := ctxutil.GetLogger(request.Context())
		logger.ErrorContext(request.Context(), "api_server_error",
			slog.String("code", appError.Code),
			slog.String("request_id", ctxutil.GetRequestID(request.Context())),
			slog.Any("cause", appError.Cause),
		)
	}

	status := appError.HTTPStatus
	envelope := ErrorEnvelope{
		Status:  statusWord(status),
		Message: appError.Message,
		Code:    appError.Code,
		Details: appError.Details,
	}

	if !appError.Operational && !developmentMode.Load() {
		// Production: programming failures collapse to the generic shape.
		status = http.StatusInternalServerError
		envelope = ErrorEnvelope{
			Status:  "error",
			Message: "Something went very wrong!",
		}
	} else if developmentMode.Load() && appError.Cause != nil {
		envelope.Detail = appError.Cause.Error()
	}

	// View routes fail as pages, not envelopes.
	if render := pageRendererFor(request); render != nil {
		render(writer, request, status, envelope.Message)
		return
	}

	JSON(writer, status, envelope)
}

// statusWord maps an HTTP status to the envelope's status discriminator.
func statusWord(httpStatus int) string {
	if httpStatus >= 500 {
		return "error"
	}
	return "fail"
}
