// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the records exchanged with the content backend:
// users, categories, blogs, pages, sections, surveys, and messages.
package model

import "strings"

// Content languages supported by the backend.
const (
	LangEnglish   = "en"
	LangMongolian = "mn"
)

// ContentLanguages lists content languages in display order.
var ContentLanguages = []string{LangEnglish, LangMongolian}

// LocalizedText holds parallel English and Mongolian values of one field.
type LocalizedText struct {
	EN string `json:"en"`
	MN string `json:"mn"`
}

// Get returns the value for the given language code, or "" for unknown codes.
func (t LocalizedText) Get(lang string) string {
	switch lang {
	case LangEnglish:
		return t.EN
	case LangMongolian:
		return t.MN
	default:
		return ""
	}
}

// Or returns the value for lang, falling back to the other language when empty.
func (t LocalizedText) Or(lang string) string {
	if v := t.Get(lang); v != "" {
		return v
	}
	if t.EN != "" {
		return t.EN
	}
	return t.MN
}

// Complete reports whether both language variants are non-blank.
func (t LocalizedText) Complete() bool {
	return strings.TrimSpace(t.EN) != "" && strings.TrimSpace(t.MN) != ""
}

// Trimmed returns a copy with surrounding whitespace removed from both variants.
func (t LocalizedText) Trimmed() LocalizedText {
	return LocalizedText{EN: strings.TrimSpace(t.EN), MN: strings.TrimSpace(t.MN)}
}

// IsValidLanguage reports whether code is a supported content language.
func IsValidLanguage(code string) bool {
	for _, l := range ContentLanguages {
		if l == code {
			return true
		}
	}
	return false
}
