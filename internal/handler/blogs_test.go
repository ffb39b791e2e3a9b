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

func blogForm(title, status, language string) url.Values {
	return url.Values{
		"title":         {title},
		"status":        {status},
		"language":      {language},
		"block_type":    {"text", "quote", "image", "text"},
		"block_text":    {"Hello **world**", "Be brave", "", ""},
		"block_url":     {"", "", "/uploads/cover.jpg", ""},
		"block_caption": {"", "", "Cover", ""},
		"block_author":  {"", "Anon", "", ""},
	}
}

func TestParseBlockDrafts(t *testing.T) {
	r, _ := http.NewRequest(http.MethodPost, "/admin/blogs", nil)
	r.PostForm = blogForm("t", "draft", "en")

	drafts := parseBlockDrafts(r)

	want := []BlockDraft{
		{Type: "text", Text: "Hello **world**"},
		{Type: "quote", Text: "Be brave", Author: "Anon"},
		{Type: "image", URL: "/uploads/cover.jpg", Caption: "Cover"},
	}
	assert.Equal(t, want, drafts, "empty rows are dropped")
}

func TestBlocksFromDrafts(t *testing.T) {
	blocks, err := blocksFromDrafts([]BlockDraft{
		{Type: model.BlockTypeText, Text: "Hello"},
		{Type: model.BlockTypeImage, URL: "/a.png", Caption: "A"},
		{Type: model.BlockTypeQuote, Text: "Q", Author: "W"},
	})
	require.NoError(t, err)
	require.Len(t, blocks, 3)

	tb, err := blocks[0].Text()
	require.NoError(t, err)
	assert.Equal(t, "Hello", tb.Text)

	ib, err := blocks[1].Image()
	require.NoError(t, err)
	assert.Equal(t, model.ImageBlock{URL: "/a.png", Caption: "A"}, ib)

	qb, err := blocks[2].Quote()
	require.NoError(t, err)
	assert.Equal(t, model.QuoteBlock{Text: "Q", Author: "W"}, qb)

	_, err = blocksFromDrafts([]BlockDraft{{Type: "video", URL: "/v.mp4"}})
	assert.Error(t, err)
}

func TestDraftsFromBlocks_RoundTrip(t *testing.T) {
	drafts := []BlockDraft{
		{Type: model.BlockTypeText, Text: "Hello"},
		{Type: model.BlockTypeQuote, Text: "Q", Author: "W"},
	}
	blocks, err := blocksFromDrafts(drafts)
	require.NoError(t, err)

	blocks = append(blocks,
		model.ContentBlock{Type: "embed", Data: json.RawMessage(`{"html":"<iframe>"}`)},
		model.ContentBlock{Type: model.BlockTypeText, Data: json.RawMessage(`["not","an","object"]`)},
	)
	got := draftsFromBlocks(blocks)

	want := append(drafts,
		BlockDraft{Type: "embed", Raw: `{"html":"<iframe>"}`},
		BlockDraft{Type: model.BlockTypeText, Raw: `["not","an","object"]`},
	)
	assert.Equal(t, want, got, "blocks the editor cannot decode stay as opaque rows")

	resubmitted, err := blocksFromDrafts(got)
	require.NoError(t, err)
	require.Len(t, resubmitted, len(blocks))
	for i := range blocks {
		assert.Equal(t, blocks[i].Type, resubmitted[i].Type)
		assert.JSONEq(t, string(blocks[i].Data), string(resubmitted[i].Data))
	}
}

func TestBlocksFromDrafts_RejectsBadOpaqueRows(t *testing.T) {
	tests := []struct {
		name  string
		draft BlockDraft
	}{
		{"invalid json", BlockDraft{Type: "video", Raw: `{"src":`}},
		{"missing type", BlockDraft{Raw: `{}`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := blocksFromDrafts([]BlockDraft{tt.draft}); err == nil {
				t.Errorf("blocksFromDrafts(%+v) succeeded", tt.draft)
			}
		})
	}
}

func TestBlogsCreate_Success(t *testing.T) {
	env := newTestEnv(t)
	cat := env.fake.AddCategory(model.Category{Name: model.LocalizedText{EN: "News", MN: "Мэдээ"}})
	h := NewBlogsHandler(env.api, env.renderer, env.sm)

	form := blogForm("Launch day", model.BlogStatusPublished, model.LangEnglish)
	form["categories"] = []string{cat.ID, " "}
	rec := env.serve(h.Create, env.request(http.MethodPost, "/admin/blogs", form, adminUser, nil))

	assertRedirect(t, rec, "/admin/blogs")

	writes := env.fake.Writes()
	require.Len(t, writes, 1)
	var sent backend.BlogInput
	require.NoError(t, json.Unmarshal(writes[0].Body, &sent))
	assert.Equal(t, "Launch day", sent.Title)
	assert.Equal(t, []string{cat.ID}, sent.Categories)
	assert.Len(t, sent.Content, 3)

	blogs := env.fake.Blogs()
	require.Len(t, blogs, 1)
	assert.Equal(t, "News", blogs[0].Categories[0].Name.EN)
}

func TestBlogsCreate_Validation(t *testing.T) {
	tests := []struct {
		name      string
		form      url.Values
		wantError string
	}{
		{"missing title", blogForm("", "draft", "en"), "Title is required"},
		{"bad status", blogForm("T", "archived", "en"), "Invalid status"},
		{"bad language", blogForm("T", "draft", "fr"), "Invalid language"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			h := NewBlogsHandler(env.api, env.renderer, env.sm)

			rec := env.serve(h.Create, env.request(http.MethodPost, "/admin/blogs", tt.form, adminUser, nil))

			assertStatus(t, rec.Code, http.StatusUnprocessableEntity)
			assert.Contains(t, rec.Body.String(), tt.wantError)
			assert.Contains(t, rec.Body.String(), "Be brave", "block drafts are kept")
			assertNoWrites(t, env.fake)
		})
	}
}

func TestBlogsList_Filters(t *testing.T) {
	env := newTestEnv(t)
	news := env.fake.AddCategory(model.Category{Name: model.LocalizedText{EN: "News", MN: "Мэдээ"}})
	env.fake.AddBlog(model.Blog{Title: "Published news", Status: model.BlogStatusPublished, Language: "en", Categories: []model.Category{news}})
	env.fake.AddBlog(model.Blog{Title: "Draft news", Status: model.BlogStatusDraft, Language: "en", Categories: []model.Category{news}})
	env.fake.AddBlog(model.Blog{Title: "Mongolian post", Status: model.BlogStatusPublished, Language: "mn"})
	h := NewBlogsHandler(env.api, env.renderer, env.sm)

	tests := []struct {
		name    string
		query   string
		want    []string
		notWant []string
	}{
		{"no filter", "", []string{"Published news", "Draft news", "Mongolian post"}, nil},
		{"status", "?status=draft", []string{"Draft news"}, []string{"Published news", "Mongolian post"}},
		{"category", "?category=" + news.ID, []string{"Published news", "Draft news"}, []string{"Mongolian post"}},
		{"language", "?language=mn", []string{"Mongolian post"}, []string{"Draft news"}},
		{"search", "?search=mongol", []string{"Mongolian post"}, []string{"Published news"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.serve(h.List, env.request(http.MethodGet, "/admin/blogs"+tt.query, nil, plainUser, nil))

			assertStatus(t, rec.Code, http.StatusOK)
			body := rec.Body.String()
			for _, s := range tt.want {
				assert.Contains(t, body, s)
			}
			for _, s := range tt.notWant {
				assert.NotContains(t, body, s)
			}
		})
	}
}

func TestBlogsPreview_RendersBlocks(t *testing.T) {
	env := newTestEnv(t)
	blocks, err := blocksFromDrafts([]BlockDraft{
		{Type: model.BlockTypeText, Text: "Hello **world**<script>alert(1)</script>"},
		{Type: model.BlockTypeQuote, Text: "Stay curious", Author: "Anon"},
		{Type: model.BlockTypeImage, URL: "/uploads/a.png", Caption: "A picture"},
	})
	require.NoError(t, err)
	blog := env.fake.AddBlog(model.Blog{Title: "Preview me", Status: model.BlogStatusDraft, Language: "en", Content: blocks})
	h := NewBlogsHandler(env.api, env.renderer, env.sm)

	rec := env.serve(h.Preview, env.request(http.MethodGet, "/admin/blogs/"+blog.ID+"/preview", nil, plainUser, map[string]string{"id": blog.ID}))

	assertStatus(t, rec.Code, http.StatusOK)
	body := rec.Body.String()
	assert.Contains(t, body, "<strong>world</strong>")
	assert.NotContains(t, body, "<script>alert(1)</script>")
	assert.Contains(t, body, "Stay curious")
	assert.Contains(t, body, "https://cdn.example.com/uploads/a.png")
}

func TestBlogsUpdate_BackendFailureKeepsDraft(t *testing.T) {
	env := newTestEnv(t)
	blog := env.fake.AddBlog(model.Blog{Title: "Old", Status: model.BlogStatusDraft, Language: "en"})
	h := NewBlogsHandler(env.api, env.renderer, env.sm)
	env.fake.FailNext(http.MethodPut, http.StatusBadRequest, "Title too long")

	form := blogForm("New title", model.BlogStatusDraft, "en")
	rec := env.serve(h.Update, env.request(http.MethodPost, "/admin/blogs/"+blog.ID, form, adminUser, map[string]string{"id": blog.ID}))

	assertStatus(t, rec.Code, http.StatusBadRequest)
	body := rec.Body.String()
	assert.Contains(t, body, "Title too long")
	assert.Contains(t, body, `value="New title"`)
	assert.Equal(t, "Old", env.fake.Blogs()[0].Title)
}

func TestBlogsUpdate_KeepsUnsupportedBlocks(t *testing.T) {
	env := newTestEnv(t)
	text, err := blocksFromDrafts([]BlockDraft{{Type: model.BlockTypeText, Text: "Intro"}})
	require.NoError(t, err)
	video := model.ContentBlock{Type: "video", Data: json.RawMessage(`{"src":"/v.mp4"}`)}
	blog := env.fake.AddBlog(model.Blog{
		Title:    "Mixed",
		Status:   model.BlogStatusDraft,
		Language: "en",
		Content:  append(text, video),
	})
	h := NewBlogsHandler(env.api, env.renderer, env.sm)
	params := map[string]string{"id": blog.ID}

	rec := env.serve(h.EditForm, env.request(http.MethodGet, "/admin/blogs/"+blog.ID, nil, adminUser, params))

	assertStatus(t, rec.Code, http.StatusOK)
	body := rec.Body.String()
	assert.Contains(t, body, "video block, kept unchanged")
	assert.Contains(t, body, `name="block_raw" value="{&#34;src&#34;:&#34;/v.mp4&#34;}"`)

	// The browser posts the opaque row back alongside the edited one.
	form := url.Values{
		"title":         {"Mixed, edited"},
		"status":        {model.BlogStatusDraft},
		"language":      {"en"},
		"block_type":    {"text", "video"},
		"block_text":    {"Intro, edited", ""},
		"block_url":     {"", ""},
		"block_caption": {"", ""},
		"block_author":  {"", ""},
		"block_raw":     {"", `{"src":"/v.mp4"}`},
	}
	rec = env.serve(h.Update, env.request(http.MethodPost, "/admin/blogs/"+blog.ID, form, adminUser, params))

	assertRedirect(t, rec, "/admin/blogs")
	stored := env.fake.Blogs()[0].Content
	require.Len(t, stored, 2)
	tb, err := stored[0].Text()
	require.NoError(t, err)
	assert.Equal(t, "Intro, edited", tb.Text)
	assert.Equal(t, "video", stored[1].Type)
	assert.JSONEq(t, `{"src":"/v.mp4"}`, string(stored[1].Data))
}
