// Copyright (c) 2026 Wander. All rights reserved.
// Author: platform@wander.app

package middleware

import (
	"net/http"
	"strings"
)

// # Edge Security Filter

// SecurityPolicy holds the content-security-policy allow-lists.
//
// The policy is static configuration: it is assembled into a header value
// once at construction time and attached to every response unchanged.
type SecurityPolicy struct {
	ScriptSrc  []string
	StyleSrc   []string
	ConnectSrc []string
	ImgSrc     []string
	FontSrc    []string
	FrameSrc   []string
	ChildSrc   []string
}

// DefaultSecurityPolicy returns the allow-lists for the Wander front end:
// map tiles from OpenStreetMap via unpkg/leaflet, Google fonts, and the
// payment gateway's hosted checkout frame.
func DefaultSecurityPolicy() SecurityPolicy {
	return SecurityPolicy{
		ScriptSrc: []string{
			"https://unpkg.com/",
			"https://tile.openstreetmap.org",
			"https://*.cloudflare.com",
		},
		StyleSrc: []string{
			"'unsafe-inline'",
			"https://unpkg.com/",
			"https://tile.openstreetmap.org",
			"https://fonts.googleapis.com/",
		},
		ConnectSrc: []string{
			"blob:",
			"https://unpkg.com",
			"https://tile.openstreetmap.org",
		},
		ImgSrc: []string{"blob:", "data:", "https:"},
		FontSrc: []string{
			"fonts.googleapis.com",
			"fonts.gstatic.com",
			"https:",
			"data:",
		},
		FrameSrc: []string{"https://*.stripe.com"},
		ChildSrc: []string{"blob:"},
	}
}

// SecurityHeaders attaches the content-security-policy header plus standard
// hardening headers to every response.
//
// Purely additive: no error paths, mutates only response headers.
func SecurityHeaders(policy SecurityPolicy) func(http.Handler) http.Handler {

	// Assemble the CSP value once; it never changes per request.
	cspValue := buildCSP(policy)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			header := writer.Header()
			header.Set("Content-Security-Policy", cspValue)
			header.Set("X-Content-Type-Options", "nosniff")
			header.Set("X-Frame-Options", "SAMEORIGIN")
			header.Set("Referrer-Policy", "strict-origin-when-cross-origin")

			next.ServeHTTP(writer, request)
		})
	}
}

// buildCSP renders the policy allow-lists into a CSP header value.
func buildCSP(policy SecurityPolicy) string {
	directives := []struct {
		name    string
		base    []string
		sources []string
	}{
		{"default-src", []string{"'self'", "data:", "blob:"}, nil},
		{"base-uri", []string{"'self'"}, nil},
		{"script-src", []string{"'self'"}, policy.ScriptSrc},
		{"style-src", []string{"'self'"}, policy.StyleSrc},
		{"connect-src", []string{"'self'"}, policy.ConnectSrc},
		{"img-src", []string{"'self'"}, policy.ImgSrc},
		{"font-src", []string{"'self'"}, policy.FontSrc},
		{"frame-src", []string{"'self'"}, policy.FrameSrc},
		{"child-src", []string{"'self'"}, policy.ChildSrc},
		{"worker-src", []string{"'self'", "data:", "blob:"}, nil},
		{"object-src", []string{"'none'"}, nil},
	}

	parts := make([]string, 0, len(directives))
	for _, directive := range directives {
		sources := append(append([]string{}, directive.base...), directive.sources...)
		parts = append(parts, directive.name+" "+strings.Join(sources, " "))
	}

	return strings.Join(parts, "; ")
}

// # Cross-Origin Resource Sharing

// CORS attaches cross-origin headers and answers pre-flight requests.
//
// # Pre-flight
//
// OPTIONS requests are answered for ALL routes without invoking downstream
// handlers — the pre-flight never reaches the rate limiter or any gate.
//
// # Origins
//
// allowedOrigins lists the permitted origins; the single entry "*" allows
// every origin (the default deployment).
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {

	allowAll := len(allowedOrigins) == 1 && allowedOrigins[0] == "*"
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			origin := request.Header.Get("Origin")

			if origin != "" {
				_, originAllowed := allowed[origin]
				if allowAll || originAllowed {
					header := writer.Header()
					if allowAll {
						header.Set("Access-Control-Allow-Origin", "*")
					} else {
						header.Set("Access-Control-Allow-Origin", origin)
						header.Set("Vary", "Origin")
						header.Set("Access-Control-Allow-Credentials", "true")
					}
					header.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
					header.Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Authorization, X-Request-ID")
					header.Set("Access-Control-Max-Age", "300")
				}
			}

			// Pre-flight: answer immediately, skip all downstream stages.
			if request.Method == http.MethodOptions {
				writer.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
