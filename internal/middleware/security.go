// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// HTMXOrigin serves the pinned htmx build loaded by the base layout.
const HTMXOrigin = "https://unpkg.com"

// SecurityHeadersConfig holds configuration for security headers.
type SecurityHeadersConfig struct {
	// IsDevelopment disables HSTS so the console runs over plain HTTP.
	IsDevelopment bool

	// AssetOrigin is the scheme and host serving backend images. Empty
	// allows same-origin images only.
	AssetOrigin string

	// HSTSMaxAge is the Strict-Transport-Security max-age in seconds.
	// Zero disables the header.
	HSTSMaxAge int

	// NoStorePrefixes are paths whose responses carry personal data and
	// must not be kept by the browser after sign-out.
	NoStorePrefixes []string
}

// DefaultSecurityHeadersConfig returns the console's policy. assetBaseURL
// is CONSOLE_ASSET_BASE_URL; only its origin ends up in the CSP.
func DefaultSecurityHeadersConfig(isDev bool, assetBaseURL string) SecurityHeadersConfig {
	return SecurityHeadersConfig{
		IsDevelopment:   isDev,
		AssetOrigin:     originOf(assetBaseURL),
		HSTSMaxAge:      31536000,
		NoStorePrefixes: []string{"/admin", LoginPath},
	}
}

func originOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

// ContentSecurityPolicy renders the CSP header value.
func (c SecurityHeadersConfig) ContentSecurityPolicy() string {
	img := "'self' data:"
	if c.AssetOrigin != "" {
		img += " " + c.AssetOrigin
	}
	directives := [][2]string{
		{"default-src", "'self'"},
		{"script-src", "'self' " + HTMXOrigin},
		// htmx injects its indicator styles at load.
		{"style-src", "'self' 'unsafe-inline'"},
		{"img-src", img},
		{"connect-src", "'self'"},
		{"object-src", "'none'"},
		{"base-uri", "'self'"},
		{"form-action", "'self'"},
		{"frame-ancestors", "'none'"},
	}
	parts := make([]string, 0, len(directives))
	for _, d := range directives {
		parts = append(parts, d[0]+" "+d[1])
	}
	return strings.Join(parts, "; ")
}

const permissionsPolicy = "camera=(), microphone=(), geolocation=(), payment=(), usb=(), interest-cohort=(), browsing-topics=()"

// SecurityHeaders returns a middleware that adds security headers to responses.
func SecurityHeaders(cfg SecurityHeadersConfig) func(http.Handler) http.Handler {
	csp := cfg.ContentSecurityPolicy()
	hsts := ""
	if !cfg.IsDevelopment && cfg.HSTSMaxAge > 0 {
		hsts = "max-age=" + strconv.Itoa(cfg.HSTSMaxAge) + "; includeSubDomains"
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Content-Security-Policy", csp)
			if hsts != "" {
				h.Set("Strict-Transport-Security", hsts)
			}
			// The console is never framed.
			h.Set("X-Frame-Options", "DENY")
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("Referrer-Policy", "same-origin")
			h.Set("Permissions-Policy", permissionsPolicy)

			for _, prefix := range cfg.NoStorePrefixes {
				if r.URL.Path == prefix || strings.HasPrefix(r.URL.Path, prefix+"/") {
					h.Set("Cache-Control", "no-store")
					break
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}
