// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http/httptest"
	"testing"
)

func TestParseListQuery(t *testing.T) {
	tests := []struct {
		name   string
		target string
		want   ListQuery
	}{
		{"empty", "/admin/blogs", ListQuery{}},
		{"trims values", "/admin/blogs?search=+news+&status=draft&language=mn", ListQuery{Search: "news", Status: "draft", Language: "mn"}},
		{"category and page", "/admin/blogs?category=c1&page=3", ListQuery{Category: "c1", Page: "3"}},
		{"non-numeric page dropped", "/admin/blogs?page=last", ListQuery{}},
		{"version", "/admin/surveys/v1/responses?version=2", ListQuery{Version: "2"}},
		{"non-numeric version dropped", "/admin/surveys/v1/responses?version=latest", ListQuery{}},
		{"page not clamped", "/admin/blogs?page=999", ListQuery{Page: "999"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseListQuery(httptest.NewRequest("GET", tt.target, nil))
			if got != tt.want {
				t.Errorf("ParseListQuery(%q) = %+v; want %+v", tt.target, got, tt.want)
			}
		})
	}
}

func TestListQueryValues(t *testing.T) {
	q := ListQuery{Search: "news", Category: "c1", Page: "2"}

	got := q.Values()

	if got.Encode() != "category=c1&page=2&search=news" {
		t.Errorf("Values() = %q", got.Encode())
	}
	if len(ListQuery{}.Values()) != 0 {
		t.Error("empty query should encode no parameters")
	}
}

func TestListQueryFilteredAndEmpty(t *testing.T) {
	tests := []struct {
		name         string
		q            ListQuery
		wantFiltered bool
		wantEmpty    bool
	}{
		{"nothing", ListQuery{}, false, true},
		{"page only", ListQuery{Page: "2"}, false, false},
		{"search", ListQuery{Search: "x"}, true, false},
		{"version", ListQuery{Version: "1"}, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.q.Filtered(); got != tt.wantFiltered {
				t.Errorf("Filtered() = %v; want %v", got, tt.wantFiltered)
			}
			if got := tt.q.IsEmpty(); got != tt.wantEmpty {
				t.Errorf("IsEmpty() = %v; want %v", got, tt.wantEmpty)
			}
		})
	}
}
