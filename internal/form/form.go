// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package form provides local validation for admin forms. Validation runs
// before any backend call; a form with errors is never submitted.
package form

import (
	"net/http"
	"strings"

	"github.com/olegiv/ocms-console/internal/model"
)

// Errors maps a field name to its validation message.
type Errors map[string]string

// New returns an empty Errors.
func New() Errors {
	return make(Errors)
}

// Add records a message for field unless one is already present.
func (e Errors) Add(field, message string) {
	if _, ok := e[field]; !ok {
		e[field] = message
	}
}

// Get returns the message for field.
func (e Errors) Get(field string) string {
	return e[field]
}

// Has reports whether field has an error.
func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// Valid reports whether no errors were recorded.
func (e Errors) Valid() bool {
	return len(e) == 0
}

// Require records "<label> is required" when value is blank.
func (e Errors) Require(field, label, value string) {
	if strings.TrimSpace(value) == "" {
		e.Add(field, label+" is required")
	}
}

// RequireLocalized checks both language variants of a multilingual field.
// Errors are recorded under "<field>.en" and "<field>.mn".
func (e Errors) RequireLocalized(field, label string, value model.LocalizedText) {
	if strings.TrimSpace(value.EN) == "" {
		e.Add(field+"."+model.LangEnglish, label+" (English) is required")
	}
	if strings.TrimSpace(value.MN) == "" {
		e.Add(field+"."+model.LangMongolian, label+" (Mongolian) is required")
	}
}

// OneOf records an error when value is not in allowed.
func (e Errors) OneOf(field, label, value string, allowed []string) {
	for _, a := range allowed {
		if a == value {
			return
		}
	}
	e.Add(field, "Invalid "+strings.ToLower(label))
}

// MinLength records an error when value has fewer than n characters.
func (e Errors) MinLength(field, label, value string, n int) {
	if len([]rune(value)) < n {
		e.Add(field, label+" is too short")
	}
}

// Localized reads a multilingual field posted as "<name>_en" and "<name>_mn".
func Localized(r *http.Request, name string) model.LocalizedText {
	return model.LocalizedText{
		EN: r.FormValue(name + "_" + model.LangEnglish),
		MN: r.FormValue(name + "_" + model.LangMongolian),
	}.Trimmed()
}

// Values is the draft of a form, re-rendered when validation or submission fails.
type Values map[string]string

// SetLocalized stores both variants of a multilingual value.
func (v Values) SetLocalized(name string, t model.LocalizedText) {
	v[name+"_"+model.LangEnglish] = t.EN
	v[name+"_"+model.LangMongolian] = t.MN
}
