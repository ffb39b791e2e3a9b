// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package uikit provides reusable template helpers, pagination logic,
// and view model types for the console templates.
package uikit

import (
	"encoding/json"
	"fmt"
	"html/template"
	"strings"
	"time"
)

// TemplateFuncs returns a template.FuncMap with pure, reusable helper functions.
// These functions have no external dependencies beyond the Go standard library.
//
// Callers merge project-specific functions on top:
//
//	funcs := uikit.TemplateFuncs()
//	funcs["can"] = canFunc
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		// String functions
		"lower":     strings.ToLower,
		"upper":     strings.ToUpper,
		"hasPrefix": strings.HasPrefix,
		"join":      strings.Join,
		"truncate":  Truncate,
		"contains": func(collection, element any) bool {
			if slice, ok := collection.([]string); ok {
				if elem, ok := element.(string); ok {
					for _, s := range slice {
						if s == elem {
							return true
						}
					}
				}
				return false
			}
			if s, ok := collection.(string); ok {
				if substr, ok := element.(string); ok {
					return strings.Contains(s, substr)
				}
			}
			return false
		},

		// Math
		"add": func(a, b int) int {
			return a + b
		},
		"sub": func(a, b int) int {
			return a - b
		},
		"seq": func(start, end int) []int {
			var result []int
			for i := start; i <= end; i++ {
				result = append(result, i)
			}
			return result
		},

		// Time
		"formatDate": func(t time.Time) string {
			return FormatDateForLocale(t, "en")
		},
		"formatDateTime": func(t time.Time) string {
			return FormatDateTimeForLocale(t, "en")
		},
		"formatDateLocale": func(t any, lang string) string {
			return ApplyTimeFormatter(t, lang, FormatDateForLocale)
		},
		"formatDateTimeLocale": func(t any, lang string) string {
			return ApplyTimeFormatter(t, lang, FormatDateTimeForLocale)
		},

		// JSON
		"prettyJSON": PrettyJSON,

		// Data structures
		"dict": func(values ...any) map[string]any {
			if len(values)%2 != 0 {
				return nil
			}
			dict := make(map[string]any, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					continue
				}
				dict[key] = values[i+1]
			}
			return dict
		},
	}
}

// Truncate shortens s to at most length runes, appending "..." when cut.
func Truncate(s string, length int) string {
	runes := []rune(s)
	if len(runes) <= length {
		return s
	}
	return string(runes[:length]) + "..."
}

// PrettyJSON indents a JSON document. Invalid input is returned unchanged.
func PrettyJSON(v any) string {
	var raw []byte
	switch val := v.(type) {
	case string:
		raw = []byte(val)
	case []byte:
		raw = val
	case json.RawMessage:
		raw = val
	default:
		return fmt.Sprint(v)
	}
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return string(raw)
	}
	pretty, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return string(raw)
	}
	return string(pretty)
}

// FormatDateForLocale formats a date according to the specified language.
func FormatDateForLocale(t time.Time, lang string) string {
	if t.IsZero() {
		return ""
	}
	if lang == "mn" {
		return fmt.Sprintf("%d оны %d-р сарын %d", t.Year(), int(t.Month()), t.Day())
	}
	return t.Format("Jan 2, 2006")
}

// FormatDateTimeForLocale formats a time.Time as a localized datetime string.
func FormatDateTimeForLocale(t time.Time, lang string) string {
	if t.IsZero() {
		return ""
	}
	if lang == "mn" {
		return fmt.Sprintf("%s, %02d:%02d", FormatDateForLocale(t, lang), t.Hour(), t.Minute())
	}
	return t.Format("Jan 2, 2006 3:04 PM")
}

// ApplyTimeFormatter applies a time formatting function to a value that may be time.Time or *time.Time.
// Returns an empty string for nil pointers or unsupported types.
func ApplyTimeFormatter(t any, lang string, formatter func(time.Time, string) string) string {
	switch v := t.(type) {
	case time.Time:
		return formatter(v, lang)
	case *time.Time:
		if v == nil {
			return ""
		}
		return formatter(*v, lang)
	default:
		return ""
	}
}
