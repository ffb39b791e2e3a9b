// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Page is a static page. Slug is its stable external key.
type Page struct {
	ID          string        `json:"id"`
	Slug        string        `json:"slug"`
	Name        LocalizedText `json:"name"`
	Description LocalizedText `json:"description"`
	Keywords    []string      `json:"keywords"`
	Sections    []SectionRef  `json:"sections"`
}

// SectionRef references a section attached to a page.
type SectionRef struct {
	ID  string `json:"id"`
	Key string `json:"key,omitempty"`
}

// SectionIDs returns the referenced section IDs in order.
func (p *Page) SectionIDs() []string {
	ids := make([]string, 0, len(p.Sections))
	for _, s := range p.Sections {
		ids = append(ids, s.ID)
	}
	return ids
}
