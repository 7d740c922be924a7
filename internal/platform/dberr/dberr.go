// Copyright (c) 2026 Wander. All rights reserved.
// Author: platform@wander.app

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
//
// # Classification
//
// Storage failures are folded into the taxonomy the error funnel understands:
//
//   - pgx.ErrNoRows            → NOT_FOUND
//   - SQLSTATE 23505 (unique)  → DUPLICATE_KEY
//   - SQLSTATE 22P02 (invalid
//     text representation)     → MALFORMED_IDENTIFIER (e.g. a bad UUID)
//   - anything else            → INTERNAL_ERROR (non-operational)
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/wanderhq/wander/internal/platform/apperr"
)

var (
	// ErrNotFound is a standard error returned when a queried row doesn't exist.
	ErrNotFound = apperr.NotFound("Resource")
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return apperr.DuplicateKey("Duplicate field value: please use another value")
		case pgerrcode.InvalidTextRepresentation:
			return apperr.MalformedID("Invalid identifier format")
		case pgerrcode.ForeignKeyViolation:
			return apperr.ValidationError("Referenced resource does not exist")
		}
	}

	return apperr.Internal(fmt.Errorf("%s: %w", action, err))
}

// WrapNotFound behaves like [Wrap] but names the missing resource, so a
// handler can produce "Tour not found" instead of the generic message.
func WrapNotFound(err error, action, resource string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(resource)
	}
	return Wrap(err, action)
}
