// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"strings"
	"testing"
	"time"

	"github.com/olegiv/ocms-console/internal/model"
)

func TestImageURL(t *testing.T) {
	tests := []struct {
		name string
		base string
		path string
		want string
	}{
		{"relative path", "https://cdn.example.com", "uploads/a.png", "https://cdn.example.com/uploads/a.png"},
		{"leading slash", "https://cdn.example.com", "/uploads/a.png", "https://cdn.example.com/uploads/a.png"},
		{"base with path", "https://api.example.com/v1", "files/b.jpg", "https://api.example.com/v1/files/b.jpg"},
		{"absolute url untouched", "https://cdn.example.com", "https://img.example.org/c.png", "https://img.example.org/c.png"},
		{"blank", "https://cdn.example.com", "  ", ""},
		{"no base", "", "uploads/a.png", "uploads/a.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Renderer{assetBaseURL: tt.base}
			if got := r.ImageURL(tt.path); got != tt.want {
				t.Errorf("ImageURL(%q) = %q; want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestMarkdown(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    []string
		notWant []string
	}{
		{"emphasis", "Hello **world**", []string{"<strong>world</strong>"}, nil},
		{"list", "- one\n- two", []string{"<li>one</li>", "<li>two</li>"}, nil},
		{"script stripped", "Hi <script>alert(1)</script>", []string{"Hi"}, []string{"<script", "</script>"}},
		{"javascript link stripped", "[x](javascript:alert(1))", nil, []string{"javascript:"}},
		{"safe link kept", "[docs](https://example.com)", []string{`href="https://example.com"`}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(Markdown(tt.in))
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("Markdown(%q) = %q; missing %q", tt.in, got, w)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(got, w) {
					t.Errorf("Markdown(%q) = %q; must not contain %q", tt.in, got, w)
				}
			}
		})
	}
}

func TestTemplateFuncs_Present(t *testing.T) {
	funcs := (&Renderer{}).TemplateFuncs()

	names := []string{
		// uikit
		"lower", "upper", "truncate", "contains", "add", "sub", "seq",
		"formatDate", "formatDateTime", "prettyJSON", "dict",
		// console
		"T", "langName", "uiLanguages", "contentLanguages", "blogStatuses",
		"messageStatuses", "roles", "can", "hasRole", "localized",
		"imageURL", "markdown", "textBlock", "imageBlock", "quoteBlock",
	}
	for _, name := range names {
		if _, ok := funcs[name]; !ok {
			t.Errorf("TemplateFuncs missing %s", name)
		}
	}
}

func TestTemplateFuncs_Localized(t *testing.T) {
	funcs := (&Renderer{}).TemplateFuncs()
	localized := funcs["localized"].(func(model.LocalizedText, string) string)

	text := model.LocalizedText{EN: "Hello", MN: "Сайн уу"}
	if got := localized(text, "mn"); got != "Сайн уу" {
		t.Errorf("localized(mn) = %q", got)
	}
	if got := localized(text, "en"); got != "Hello" {
		t.Errorf("localized(en) = %q", got)
	}
}

func TestTemplateFuncs_FormatDate(t *testing.T) {
	funcs := (&Renderer{}).TemplateFuncs()

	formatDate := funcs["formatDate"].(func(time.Time) string)
	testTime := time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)
	if got := formatDate(testTime); got != "Mar 15, 2025" {
		t.Errorf("formatDate() = %q, want %q", got, "Mar 15, 2025")
	}
}
