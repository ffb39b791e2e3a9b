// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package uikit

import (
	"bytes"
	"encoding/json"
	"html/template"
	"testing"
	"time"
)

func execFunc(t *testing.T, tmpl string, data any) string {
	t.Helper()
	tpl, err := template.New("t").Funcs(TemplateFuncs()).Parse(tmpl)
	if err != nil {
		t.Fatalf("parse %q: %v", tmpl, err)
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		t.Fatalf("execute %q: %v", tmpl, err)
	}
	return buf.String()
}

func TestTemplateFuncs_FormatFunctions(t *testing.T) {
	ts := time.Date(2026, 3, 7, 14, 5, 0, 0, time.UTC)

	if got := execFunc(t, `{{formatDate .}}`, ts); got != "Mar 7, 2026" {
		t.Errorf("formatDate = %q", got)
	}
	if got := execFunc(t, `{{formatDateTime .}}`, ts); got != "Mar 7, 2026 2:05 PM" {
		t.Errorf("formatDateTime = %q", got)
	}
}

func TestTemplateFuncs_StringFunctions(t *testing.T) {
	tests := []struct {
		tmpl string
		data any
		want string
	}{
		{`{{lower "ABC"}}`, nil, "abc"},
		{`{{upper "abc"}}`, nil, "ABC"},
		{`{{hasPrefix "/admin/blogs" "/admin"}}`, nil, "true"},
		{`{{join . ", "}}`, []string{"a", "b"}, "a, b"},
		{`{{truncate "hello world" 5}}`, nil, "hello..."},
		{`{{truncate "hi" 5}}`, nil, "hi"},
	}

	for _, tt := range tests {
		t.Run(tt.tmpl, func(t *testing.T) {
			if got := execFunc(t, tt.tmpl, tt.data); got != tt.want {
				t.Errorf("%s = %q, want %q", tt.tmpl, got, tt.want)
			}
		})
	}
}

func TestTruncate_Runes(t *testing.T) {
	if got := Truncate("Сайн байна уу", 4); got != "Сайн..." {
		t.Errorf("Truncate = %q, want %q", got, "Сайн...")
	}
}

func TestTemplateFuncs_MathFunctions(t *testing.T) {
	if got := execFunc(t, `{{add 2 3}} {{sub 5 2}}`, nil); got != "5 3" {
		t.Errorf("math = %q", got)
	}
}

func TestTemplateFuncs_SeqFunction(t *testing.T) {
	if got := execFunc(t, `{{range seq 1 3}}{{.}}{{end}}`, nil); got != "123" {
		t.Errorf("seq = %q", got)
	}
	if got := execFunc(t, `{{range seq 3 1}}{{.}}{{end}}`, nil); got != "" {
		t.Errorf("reverse seq = %q, want empty", got)
	}
}

func TestTemplateFuncs_Contains(t *testing.T) {
	tests := []struct {
		name       string
		collection any
		element    any
		want       bool
	}{
		{"slice hit", []string{"admin", "super-admin"}, "admin", true},
		{"slice miss", []string{"admin"}, "user", false},
		{"substring", "super-admin", "admin", true},
		{"unsupported", 42, "4", false},
	}

	contains := TemplateFuncs()["contains"].(func(any, any) bool)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := contains(tt.collection, tt.element); got != tt.want {
				t.Errorf("contains = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTemplateFuncs_Dict(t *testing.T) {
	dict := TemplateFuncs()["dict"].(func(...any) map[string]any)

	d := dict("a", 1, "b", "two")
	if d["a"] != 1 || d["b"] != "two" {
		t.Errorf("dict = %v", d)
	}
	if dict("odd") != nil {
		t.Error("odd argument count should return nil")
	}
}

func TestPrettyJSON(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"string", `{"a":1}`, "{\n  \"a\": 1\n}"},
		{"raw message", json.RawMessage(`[1]`), "[\n  1\n]"},
		{"invalid", "{nope", "{nope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PrettyJSON(tt.in); got != tt.want {
				t.Errorf("PrettyJSON = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatDateForLocale(t *testing.T) {
	ts := time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		lang string
		want string
	}{
		{"en", "Oct 18, 2026"},
		{"mn", "2026 оны 10-р сарын 18"},
		{"", "Oct 18, 2026"},
	}

	for _, tt := range tests {
		t.Run(tt.lang, func(t *testing.T) {
			if got := FormatDateForLocale(ts, tt.lang); got != tt.want {
				t.Errorf("FormatDateForLocale(%q) = %q, want %q", tt.lang, got, tt.want)
			}
		})
	}

	if got := FormatDateForLocale(time.Time{}, "en"); got != "" {
		t.Errorf("zero time = %q, want empty", got)
	}
}

func TestFormatDateTimeForLocale(t *testing.T) {
	ts := time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)

	if got := FormatDateTimeForLocale(ts, "mn"); got != "2026 оны 10-р сарын 18, 09:30" {
		t.Errorf("mn = %q", got)
	}
	if got := FormatDateTimeForLocale(ts, "en"); got != "Oct 18, 2026 9:30 AM" {
		t.Errorf("en = %q", got)
	}
}

func TestApplyTimeFormatter(t *testing.T) {
	ts := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	var nilTime *time.Time

	tests := []struct {
		name string
		in   any
		want string
	}{
		{"value", ts, "Jan 2, 2026"},
		{"pointer", &ts, "Jan 2, 2026"},
		{"nil pointer", nilTime, ""},
		{"unsupported", "2026-01-02", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ApplyTimeFormatter(tt.in, "en", FormatDateForLocale); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
