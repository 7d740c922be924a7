// Copyright (c) 2026 Wander. All rights reserved.
// Author: platform@wander.app

package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/wanderhq/wander/internal/platform/apperr"
	"github.com/wanderhq/wander/internal/platform/respond"
)

// # Body Ingestion & Sanitization

// SanitizeBody caps the request payload and strips injection-prone content
// from JSON bodies before any handler decodes them.
//
// # Transformations
//
//   - Bodies over maxBytes are rejected with a payload-too-large failure.
//   - Key names lose NoSQL operator characters: leading '$' runs and every
//     embedded '.' are removed, recursively through nested objects/arrays.
//   - String values have '<' and '>' HTML-escaped so script payloads are
//     neutralized. Non-string values pass through untouched.
//
// Bodies that are not valid JSON are left as-is for the handler's decoder
// to reject with its own validation error.
func SanitizeBody(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			if request.Body == nil || request.ContentLength == 0 {
				next.ServeHTTP(writer, request)
				return
			}

			request.Body = http.MaxBytesReader(writer, request.Body, maxBytes)

			contentType := request.Header.Get("Content-Type")
			if !strings.HasPrefix(contentType, "application/json") {
				next.ServeHTTP(writer, request)
				return
			}

			raw, err := io.ReadAll(request.Body)
			if err != nil {
				var maxBytesErr *http.MaxBytesError
				if errors.As(err, &maxBytesErr) {
					respond.Error(writer, request, apperr.PayloadTooLarge("Request body exceeds the 10 KB limit"))
					return
				}
				respond.Error(writer, request, apperr.Internal(err))
				return
			}

			var payload any
			if jsonErr := json.Unmarshal(raw, &payload); jsonErr == nil {
				cleaned, marshalErr := json.Marshal(cleanValue(payload))
				if marshalErr == nil {
					raw = cleaned
				}
			}

			request.Body = io.NopCloser(bytes.NewReader(raw))
			request.ContentLength = int64(len(raw))

			next.ServeHTTP(writer, request)
		})
	}
}

// cleanValue recursively sanitizes decoded JSON values.
func cleanValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		cleaned := make(map[string]any, len(typed))
		for key, nested := range typed {
			cleaned[cleanKey(key)] = cleanValue(nested)
		}
		return cleaned
	case []any:
		cleaned := make([]any, len(typed))
		for i, nested := range typed {
			cleaned[i] = cleanValue(nested)
		}
		return cleaned
	case string:
		return escapeHTML(typed)
	default:
		return typed
	}
}

// cleanKey removes NoSQL operator characters from a key name.
func cleanKey(key string) string {
	key = strings.TrimLeft(key, "$")
	return strings.ReplaceAll(key, ".", "")
}

// escapeHTML neutralizes markup in a string value.
func escapeHTML(value string) string {
	value = strings.ReplaceAll(value, "<", "&lt;")
	return strings.ReplaceAll(value, ">", "&gt;")
}

// # Parameter Pollution Guard

// DedupeQuery collapses repeated query parameters to their LAST occurrence,
// except for names on the allow-list, which keep every occurrence as an
// ordered sequence (used for multi-value filters such as difficulty).
//
// Keys are also stripped of NoSQL operator characters, mirroring the body
// sanitizer, so `?{"$gt":""}`-style operators never reach a controller.
func DedupeQuery(allowRepeats []string) func(http.Handler) http.Handler {

	allowed := make(map[string]struct{}, len(allowRepeats))
	for _, name := range allowRepeats {
		allowed[name] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			if request.URL.RawQuery == "" {
				next.ServeHTTP(writer, request)
				return
			}

			request.URL.RawQuery = dedupeRawQuery(request.URL.RawQuery, allowed)
			next.ServeHTTP(writer, request)
		})
	}
}

type queryPair struct {
	key   string
	value string
}

// dedupeRawQuery rewrites a raw query string, preserving original pair order
// for surviving entries.
func dedupeRawQuery(rawQuery string, allowRepeats map[string]struct{}) string {

	segments := strings.Split(rawQuery, "&")
	pairs := make([]queryPair, 0, len(segments))
	lastIndex := make(map[string]int, len(segments))

	for _, segment := range segments {
		if segment == "" {
			continue
		}

		key, value, _ := strings.Cut(segment, "=")
		decodedKey, err := url.QueryUnescape(key)
		if err != nil {
			decodedKey = key
		}
		decodedValue, err := url.QueryUnescape(value)
		if err != nil {
			decodedValue = value
		}

		cleanedKey := cleanKey(decodedKey)
		pairs = append(pairs, queryPair{key: cleanedKey, value: escapeHTML(decodedValue)})
		lastIndex[cleanedKey] = len(pairs) - 1
	}

	var builder strings.Builder
	for i, pair := range pairs {
		_, repeatable := allowRepeats[pair.key]
		if !repeatable && lastIndex[pair.key] != i {
			continue
		}

		if builder.Len() > 0 {
			builder.WriteByte('&')
		}
		builder.WriteString(url.QueryEscape(pair.key))
		builder.WriteByte('=')
		builder.WriteString(url.QueryEscape(pair.value))
	}

	return builder.String()
}
