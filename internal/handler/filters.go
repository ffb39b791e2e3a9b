// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Query parameter names shared by every list view and the backend.
const (
	paramSearch   = "search"
	paramStatus   = "status"
	paramCategory = "category"
	paramLanguage = "language"
	paramVersion  = "version"
	paramPage     = "page"
)

// ListQuery is the filter set of a list view. It is read from the URL and
// forwarded to the backend list call unchanged.
type ListQuery struct {
	Search   string
	Status   string
	Category string
	Language string
	Version  string
	Page     string
}

// ParseListQuery reads the filters from the request URL. Values are trimmed;
// a page or version that is not a number is dropped. Page numbers are not
// clamped.
func ParseListQuery(r *http.Request) ListQuery {
	q := r.URL.Query()
	return ListQuery{
		Search:   strings.TrimSpace(q.Get(paramSearch)),
		Status:   strings.TrimSpace(q.Get(paramStatus)),
		Category: strings.TrimSpace(q.Get(paramCategory)),
		Language: strings.TrimSpace(q.Get(paramLanguage)),
		Version:  numericParam(q.Get(paramVersion)),
		Page:     numericParam(q.Get(paramPage)),
	}
}

func numericParam(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if _, err := strconv.Atoi(raw); err != nil {
		return ""
	}
	return raw
}

// Values encodes the query for the backend. Blank values are omitted, so an
// empty filter set requests the unfiltered first page.
func (q ListQuery) Values() url.Values {
	v := url.Values{}
	set := func(key, value string) {
		if value != "" {
			v.Set(key, value)
		}
	}
	set(paramSearch, q.Search)
	set(paramStatus, q.Status)
	set(paramCategory, q.Category)
	set(paramLanguage, q.Language)
	set(paramVersion, q.Version)
	set(paramPage, q.Page)
	return v
}

// Filtered reports whether any filter other than the page is set.
func (q ListQuery) Filtered() bool {
	return q.Search != "" || q.Status != "" || q.Category != "" || q.Language != "" || q.Version != ""
}

// IsEmpty reports whether no parameter is set at all.
func (q ListQuery) IsEmpty() bool {
	return !q.Filtered() && q.Page == ""
}
