// Copyright (c) 2026 Wander. All rights reserved.
// Author: platform@wander.app

/*
Package apperr defines the centralized error taxonomy for Wander.

It provides a rich error type that bridges the gap between low-level Domain/Storage
errors and the uniform HTTP failure shape produced by the error funnel.

Architecture:

  - AppError: A struct containing machine-readable ErrorCode and user-friendly messages.
  - Operational flag: distinguishes anticipated failures (safe to describe to a
    client verbatim) from programming/unexpected ones, which must collapse to a
    generic message in production.
  - Mapping: Explicit mapping from AppError to standard HTTP Status Codes.

Every error that leaves the service layer should be wrapped as an [AppError] to ensure
consistent API responses.
*/
package apperr

import (
	"errors"
	"net/http"
)

// AppError is the canonical error type for the Wander API.
//
// It carries an HTTP status code, a machine-readable code, a client-safe
// message, and an optional slice of field-level validation errors.
//
// # Security
//
// The Cause field is for server-side logging only and is never sent to clients
// to avoid leaking internal implementation details (e.g., SQL queries).
type AppError struct {
	// Code is a machine-readable error identifier (e.g. "NOT_FOUND", "DUPLICATE_KEY").
	Code string `json:"code"`
	// Message is a human-readable description safe to return to the client.
	Message string `json:"message"`
	// HTTPStatus is the HTTP response status code.
	HTTPStatus int `json:"-"`
	// Operational marks the error as anticipated. Non-operational errors never
	// surface their message to a client in production mode.
	Operational bool `json:"-"`
	// Cause is the underlying error, used for server-side logging only.
	Cause error `json:"-"`
	// Details holds per-field validation errors for VALIDATION_ERROR responses.
	Details []FieldError `json:"details,omitempty"`
}

// FieldError represents a single field-level validation failure.
type FieldError struct {
	// Field is the JSON field name that failed validation.
	Field string `json:"field"`
	// Message is the human-readable description of the failure.
	Message string `json:"message"`
}

// Error implements the error interface. It returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// # Client Errors (4xx)

// NotFound creates a 404 [AppError] for a named resource.
//
// Example:
//
//	apperr.NotFound("Tour") // Returns "Tour not found"
func NotFound(resource string) *AppError {
	return &AppError{
		Code:        "NOT_FOUND",
		Message:     resource + " not found",
		HTTPStatus:  http.StatusNotFound,
		Operational: true,
	}
}

// NotFoundMessage creates a 404 [AppError] carrying msg verbatim, for the
// places where the client-facing text is a full sentence rather than a
// resource name.
func NotFoundMessage(msg string) *AppError {
	return &AppError{
		Code:        "NOT_FOUND",
		Message:     msg,
		HTTPStatus:  http.StatusNotFound,
		Operational: true,
	}
}

// Unauthenticated creates a 401 [AppError].
//
// Both credential-verification failures and identity-lookup failures use this
// kind — they must never be reported as authorization (403) failures.
func Unauthenticated(msg string) *AppError {
	return &AppError{
		Code:        "AUTHENTICATION_ERROR",
		Message:     msg,
		HTTPStatus:  http.StatusUnauthorized,
		Operational: true,
	}
}

// Forbidden creates a 403 [AppError]. Reserved for role checks on an
// already-authenticated identity.
func Forbidden(msg string) *AppError {
	return &AppError{
		Code:        "AUTHORIZATION_ERROR",
		Message:     msg,
		HTTPStatus:  http.StatusForbidden,
		Operational: true,
	}
}

// DuplicateKey creates a 409 [AppError] for unique-constraint violations.
func DuplicateKey(msg string) *AppError {
	return &AppError{
		Code:        "DUPLICATE_KEY",
		Message:     msg,
		HTTPStatus:  http.StatusConflict,
		Operational: true,
	}
}

// ValidationError creates a 400 [AppError] with optional per-field details.
func ValidationError(msg string, details ...FieldError) *AppError {
	return &AppError{
		Code:        "VALIDATION_ERROR",
		Message:     msg,
		HTTPStatus:  http.StatusBadRequest,
		Operational: true,
		Details:     details,
	}
}

// MalformedID creates a 400 [AppError] for identifiers that cannot be parsed.
func MalformedID(msg string) *AppError {
	return &AppError{
		Code:        "MALFORMED_IDENTIFIER",
		Message:     msg,
		HTTPStatus:  http.StatusBadRequest,
		Operational: true,
	}
}

// PayloadTooLarge creates a 413 [AppError] for bodies over the ingestion cap.
func PayloadTooLarge(msg string) *AppError {
	return &AppError{
		Code:        "PAYLOAD_TOO_LARGE",
		Message:     msg,
		HTTPStatus:  http.StatusRequestEntityTooLarge,
		Operational: true,
	}
}

// RateLimited creates a 429 [AppError] with a fixed client-facing message.
func RateLimited(msg string) *AppError {
	return &AppError{
		Code:        "RATE_LIMITED",
		Message:     msg,
		HTTPStatus:  http.StatusTooManyRequests,
		Operational: true,
	}
}

// # Server Errors (5xx)

// PaymentGateway creates a 502 [AppError] for failures of the external
// checkout collaborator.
func PaymentGateway(msg string, cause error) *AppError {
	return &AppError{
		Code:        "PAYMENT_GATEWAY_ERROR",
		Message:     msg,
		HTTPStatus:  http.StatusBadGateway,
		Operational: true,
		Cause:       cause,
	}
}

// Internal creates a 500 [AppError] wrapping an unexpected server-side error.
// The cause is stored for logging but is never sent to the client.
func Internal(cause error) *AppError {
	return &AppError{
		Code:        "INTERNAL_ERROR",
		Message:     "Something went very wrong!",
		HTTPStatus:  http.StatusInternalServerError,
		Operational: false,
		Cause:       cause,
	}
}

// # Helpers

// IsAppError reports whether err (or any error in its chain) is an [*AppError].
func IsAppError(err error) bool {
	var ae *AppError
	return errors.As(err, &ae)
}

// As extracts the [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}
