// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/ocms-console/internal/backend"
	"github.com/olegiv/ocms-console/internal/model"
)

func pageForm(slug string) url.Values {
	return url.Values{
		"slug":           {slug},
		"name_en":        {"About us"},
		"name_mn":        {"Бидний тухай"},
		"description_en": {"Who we are"},
		"description_mn": {"Бид хэн бэ"},
	}
}

func TestPagesCreate_KeywordsAndSections(t *testing.T) {
	env := newTestEnv(t)
	section := env.fake.AddSection(model.Section{Key: "hero", Content: json.RawMessage(`{}`)})
	h := NewPagesHandler(env.api, env.renderer, env.sm)

	form := pageForm("about")
	form["keywords"] = []string{"company", "team"}
	form.Set("keyword_draft", "team, history")
	form["sections"] = []string{section.ID}
	rec := env.serve(h.Create, env.request(http.MethodPost, "/admin/pages", form, adminUser, nil))

	assertRedirect(t, rec, "/admin/pages")

	writes := env.fake.Writes()
	require.Len(t, writes, 1)
	var sent backend.PageInput
	require.NoError(t, json.Unmarshal(writes[0].Body, &sent))
	assert.Equal(t, []string{"company", "team", "history"}, sent.Keywords, "draft is committed and duplicates dropped")
	assert.Equal(t, []string{section.ID}, sent.Sections)

	pages := env.fake.Pages()
	require.Len(t, pages, 1)
	assert.Equal(t, "hero", pages[0].Sections[0].Key)
}

func TestPagesCreate_SlugFromName(t *testing.T) {
	env := newTestEnv(t)
	h := NewPagesHandler(env.api, env.renderer, env.sm)

	rec := env.serve(h.Create, env.request(http.MethodPost, "/admin/pages", pageForm(""), adminUser, nil))

	assertRedirect(t, rec, "/admin/pages")
	pages := env.fake.Pages()
	require.Len(t, pages, 1)
	assert.Equal(t, "about-us", pages[0].Slug)
	assert.Equal(t, []string{}, pages[0].Keywords)
}

func TestPagesCreate_SlugFromMongolianName(t *testing.T) {
	env := newTestEnv(t)
	h := NewPagesHandler(env.api, env.renderer, env.sm)

	form := pageForm("")
	form.Set("name_en", "")
	form.Set("name_mn", "Холбоо барих")
	rec := env.serve(h.Create, env.request(http.MethodPost, "/admin/pages", form, adminUser, nil))

	// The English name is required, so the draft comes back with the
	// suggested slug filled in.
	assertStatus(t, rec.Code, http.StatusUnprocessableEntity)
	assert.Contains(t, rec.Body.String(), `value="kholboo-barikh"`)
	assertNoWrites(t, env.fake)
}

func TestPagesCreate_Validation(t *testing.T) {
	tests := []struct {
		name      string
		form      url.Values
		wantError string
	}{
		{"uppercase slug", pageForm("About"), "Slug may only contain lowercase letters, digits and hyphens"},
		{"slug with space", pageForm("about us"), "Slug may only contain lowercase letters, digits and hyphens"},
		{"reserved slug", pageForm("new"), "This slug is reserved"},
		{"no slug and no name", url.Values{"description_en": {"d"}, "description_mn": {"d"}}, "Slug is required"},
		{"missing mongolian description", func() url.Values {
			f := pageForm("about")
			f.Set("description_mn", "")
			return f
		}(), "Description (Mongolian) is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			h := NewPagesHandler(env.api, env.renderer, env.sm)

			rec := env.serve(h.Create, env.request(http.MethodPost, "/admin/pages", tt.form, adminUser, nil))

			assertStatus(t, rec.Code, http.StatusUnprocessableEntity)
			assert.Contains(t, rec.Body.String(), tt.wantError)
			assertNoWrites(t, env.fake)
		})
	}
}

func TestPagesCreate_SlugConflict(t *testing.T) {
	env := newTestEnv(t)
	env.fake.AddPage(model.Page{Slug: "about"})
	h := NewPagesHandler(env.api, env.renderer, env.sm)

	form := pageForm("about")
	form["keywords"] = []string{"company"}
	rec := env.serve(h.Create, env.request(http.MethodPost, "/admin/pages", form, adminUser, nil))

	assertStatus(t, rec.Code, http.StatusConflict)
	body := rec.Body.String()
	assert.Contains(t, body, "Slug already exists")
	assert.Contains(t, body, `value="about"`)
	assert.Contains(t, body, "company", "committed keywords survive the failure")
	assert.Len(t, env.fake.Pages(), 1)
}

func TestPagesEditAndUpdate_BySlug(t *testing.T) {
	env := newTestEnv(t)
	page := env.fake.AddPage(model.Page{
		Slug:        "about",
		Name:        model.LocalizedText{EN: "About us", MN: "Бидний тухай"},
		Description: model.LocalizedText{EN: "d", MN: "d"},
		Keywords:    []string{"company"},
	})
	h := NewPagesHandler(env.api, env.renderer, env.sm)
	params := map[string]string{"slug": "about"}

	edit := env.serve(h.EditForm, env.request(http.MethodGet, "/admin/pages/about", nil, adminUser, params))
	assertStatus(t, edit.Code, http.StatusOK)
	assert.Contains(t, edit.Body.String(), `value="About us"`)
	assert.Contains(t, edit.Body.String(), "company")

	form := pageForm("about-company")
	rec := env.serve(h.Update, env.request(http.MethodPost, "/admin/pages/about", form, adminUser, params))

	assertRedirect(t, rec, "/admin/pages")
	writes := env.fake.Writes()
	require.Len(t, writes, 1)
	assert.Equal(t, http.MethodPut, writes[0].Method)
	assert.Equal(t, "/pages/"+page.ID, writes[0].Path, "writes address the page by ID")
	assert.Equal(t, "about-company", env.fake.Pages()[0].Slug)
}

func TestPagesEdit_UnknownSlug(t *testing.T) {
	env := newTestEnv(t)
	h := NewPagesHandler(env.api, env.renderer, env.sm)

	rec := env.serve(h.EditForm, env.request(http.MethodGet, "/admin/pages/missing", nil, adminUser, map[string]string{"slug": "missing"}))

	assertStatus(t, rec.Code, http.StatusNotFound)
}

func TestPagesDelete_BySlug(t *testing.T) {
	env := newTestEnv(t)
	env.fake.AddPage(model.Page{Slug: "about", Name: model.LocalizedText{EN: "About us", MN: "Бидний тухай"}})
	h := NewPagesHandler(env.api, env.renderer, env.sm)
	params := map[string]string{"slug": "about"}

	confirm := env.serve(h.ConfirmDelete, env.request(http.MethodGet, "/admin/pages/about/delete", nil, adminUser, params))
	assertStatus(t, confirm.Code, http.StatusOK)
	assert.Contains(t, confirm.Body.String(), "About us")
	token := confirmToken(t, confirm.Body.String())

	rec := env.serve(h.Delete, env.request(http.MethodPost, "/admin/pages/about/delete",
		url.Values{confirmTokenField: {token}}, adminUser, params))

	assertRedirect(t, rec, "/admin/pages")
	msg, _ := env.flash()
	assert.Equal(t, "Page deleted.", msg)
	assert.Empty(t, env.fake.Pages())
}

func TestPagesDelete_WithoutTokenNeverCallsBackend(t *testing.T) {
	env := newTestEnv(t)
	env.fake.AddPage(model.Page{Slug: "about"})
	h := NewPagesHandler(env.api, env.renderer, env.sm)

	rec := env.serve(h.Delete, env.request(http.MethodPost, "/admin/pages/about/delete",
		url.Values{}, adminUser, map[string]string{"slug": "about"}))

	assertRedirect(t, rec, "/admin/pages/about/delete")
	msg, typ := env.flash()
	assert.Equal(t, "Confirmation expired. Please confirm again.", msg)
	assert.Equal(t, flashTypeInfo, typ)
	assertNoWrites(t, env.fake)
	assert.Len(t, env.fake.Pages(), 1)
}

func TestPagesList_Search(t *testing.T) {
	env := newTestEnv(t)
	env.fake.AddPage(model.Page{Slug: "about", Name: model.LocalizedText{EN: "About us", MN: "Бидний тухай"}})
	env.fake.AddPage(model.Page{Slug: "contact", Name: model.LocalizedText{EN: "Contact", MN: "Холбоо барих"}})
	h := NewPagesHandler(env.api, env.renderer, env.sm)

	rec := env.serve(h.List, env.request(http.MethodGet, "/admin/pages?search=contact", nil, adminUser, nil))

	assertStatus(t, rec.Code, http.StatusOK)
	assert.Contains(t, rec.Body.String(), "/admin/pages/contact")
	assert.NotContains(t, rec.Body.String(), "/admin/pages/about")
}
