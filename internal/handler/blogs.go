// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/ocms-console/internal/backend"
	"github.com/olegiv/ocms-console/internal/form"
	"github.com/olegiv/ocms-console/internal/i18n"
	"github.com/olegiv/ocms-console/internal/middleware"
	"github.com/olegiv/ocms-console/internal/model"
	"github.com/olegiv/ocms-console/internal/render"
	"github.com/olegiv/ocms-console/internal/uikit"
)

// BlogsHandler handles blog post management routes.
type BlogsHandler struct {
	backendHandler
}

// NewBlogsHandler creates a new BlogsHandler.
func NewBlogsHandler(api *backend.Client, renderer *render.Renderer, sm *scs.SessionManager) *BlogsHandler {
	return &BlogsHandler{backendHandler: newBackendHandler(api, renderer, sm)}
}

var blogDelete = deleteTarget{entity: "blog", labelID: "entity.blog", listURL: redirectAdminBlogs}

// BlogsListData holds data for the blogs list template.
type BlogsListData struct {
	Blogs      []model.Blog
	Categories []model.Category // filter options
	Query      ListQuery
	Pagination uikit.Pagination
}

// BlogFormData holds data for the blog form template.
type BlogFormData struct {
	Blog             *model.Blog
	Categories       []model.Category
	SelectedCategory map[string]bool
	Blocks           []BlockDraft
	Errors           form.Errors
	FormValues       form.Values
	IsEdit           bool
}

// BlockDraft is one content block as edited in the blog form. Raw holds
// the stored payload of a block the editor cannot show; such a block is
// posted back as is.
type BlockDraft struct {
	Type    string
	Text    string
	URL     string
	Caption string
	Author  string
	Raw     string
}

// List handles GET /admin/blogs - displays a filtered list of blog posts.
func (h *BlogsHandler) List(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetAdminLang(r)

	page, ok := fetchList(w, r, &h.backendHandler, redirectAdminBlogs, "blogs",
		func(ctx context.Context, q ListQuery) (*backend.Paginated[model.Blog], error) {
			return h.client(r).ListBlogs(ctx, q.Values())
		})
	if !ok {
		return
	}

	h.renderList(w, r, "admin/blogs_list", page.LoadError, render.TemplateData{
		Title: i18n.T(lang, "title.blogs"),
		Data: BlogsListData{
			Blogs:      page.Items,
			Categories: h.categoryOptions(r),
			Query:      page.Query,
			Pagination: page.Pagination,
		},
		Breadcrumbs: adminBreadcrumbs(lang, uikit.Breadcrumb{Label: i18n.T(lang, "nav.blogs"), URL: redirectAdminBlogs}),
	})
}

// Preview handles GET /admin/blogs/{id}/preview - renders the post's content blocks.
func (h *BlogsHandler) Preview(w http.ResponseWriter, r *http.Request) {
	blog, _, ok := requireEntity(w, r, &h.backendHandler, redirectAdminBlogs, "blog", h.client(r).GetBlog)
	if !ok {
		return
	}

	lang := middleware.GetAdminLang(r)
	h.render(w, r, http.StatusOK, "admin/blogs_preview", render.TemplateData{
		Title: blog.Title,
		Data:  blog,
		Breadcrumbs: adminBreadcrumbs(lang,
			uikit.Breadcrumb{Label: i18n.T(lang, "nav.blogs"), URL: redirectAdminBlogs},
			uikit.Breadcrumb{Label: blog.Title},
		),
	})
}

// NewForm handles GET /admin/blogs/new - displays the new blog form.
func (h *BlogsHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	values := form.Values{
		"status":   model.BlogStatusDraft,
		"language": middleware.GetAdminLang(r),
	}
	h.renderForm(w, r, http.StatusOK, BlogFormData{
		Categories:       h.categoryOptions(r),
		SelectedCategory: map[string]bool{},
		Blocks:           []BlockDraft{{Type: model.BlockTypeText}},
		Errors:           form.New(),
		FormValues:       values,
	})
}

// Create handles POST /admin/blogs - creates a new blog post.
func (h *BlogsHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminBlogs+RouteSuffixNew) {
		return
	}

	in, data := parseBlogForm(r)
	data.Categories = h.categoryOptions(r)
	if !data.Errors.Valid() {
		h.renderInvalid(w, r, "admin/blogs_form", h.formTemplateData(r, data))
		return
	}

	blog, err := h.client(r).CreateBlog(r.Context(), in)
	if err != nil {
		h.handleWriteError(w, r, err, "admin/blogs_form", h.formTemplateData(r, data), "failed to create blog")
		return
	}

	slog.Info("blog created", "blog_id", blog.ID, "created_by", middleware.GetUserID(r))
	lang := middleware.GetAdminLang(r)
	flashSuccess(w, r, h.renderer, redirectAdminBlogs, i18n.T(lang, "flash.created", i18n.T(lang, "entity.blog")))
}

// EditForm handles GET /admin/blogs/{id} - displays the edit blog form.
func (h *BlogsHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	blog, _, ok := requireEntity(w, r, &h.backendHandler, redirectAdminBlogs, "blog", h.client(r).GetBlog)
	if !ok {
		return
	}

	selected := make(map[string]bool, len(blog.Categories))
	for _, id := range blog.CategoryIDs() {
		selected[id] = true
	}
	blocks := draftsFromBlocks(blog.Content)
	if len(blocks) == 0 {
		blocks = []BlockDraft{{Type: model.BlockTypeText}}
	}

	h.renderForm(w, r, http.StatusOK, BlogFormData{
		Blog:             blog,
		Categories:       h.categoryOptions(r),
		SelectedCategory: selected,
		Blocks:           blocks,
		Errors:           form.New(),
		FormValues: form.Values{
			"title":     blog.Title,
			"thumbnail": blog.Thumbnail,
			"status":    blog.Status,
			"language":  blog.Language,
		},
		IsEdit: true,
	})
}

// Update handles PUT/POST /admin/blogs/{id} - updates an existing blog post.
func (h *BlogsHandler) Update(w http.ResponseWriter, r *http.Request) {
	blog, id, ok := requireEntity(w, r, &h.backendHandler, redirectAdminBlogs, "blog", h.client(r).GetBlog)
	if !ok {
		return
	}
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminBlogs+"/"+id) {
		return
	}

	in, data := parseBlogForm(r)
	data.Blog = blog
	data.IsEdit = true
	data.Categories = h.categoryOptions(r)
	if !data.Errors.Valid() {
		h.renderInvalid(w, r, "admin/blogs_form", h.formTemplateData(r, data))
		return
	}

	if _, err := h.client(r).UpdateBlog(r.Context(), id, in); err != nil {
		h.handleWriteError(w, r, err, "admin/blogs_form", h.formTemplateData(r, data), "failed to update blog", "blog_id", id)
		return
	}

	slog.Info("blog updated", "blog_id", id, "updated_by", middleware.GetUserID(r))
	lang := middleware.GetAdminLang(r)
	flashSuccess(w, r, h.renderer, redirectAdminBlogs, i18n.T(lang, "flash.updated", i18n.T(lang, "entity.blog")))
}

// ConfirmDelete handles GET /admin/blogs/{id}/delete - asks for confirmation.
func (h *BlogsHandler) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	blog, id, ok := requireEntity(w, r, &h.backendHandler, redirectAdminBlogs, "blog", h.client(r).GetBlog)
	if !ok {
		return
	}
	h.renderConfirm(w, r, blogDelete, id, blog.Title)
}

// Delete handles POST /admin/blogs/{id}/delete - deletes a confirmed blog post.
func (h *BlogsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.confirmedDelete(w, r, blogDelete, chiID(r), h.client(r).DeleteBlog)
}

// categoryOptions loads every category for pickers. A failure leaves the
// picker empty; the page itself still renders.
func (h *BlogsHandler) categoryOptions(r *http.Request) []model.Category {
	categories, err := h.client(r).AllCategories(r.Context())
	if err != nil {
		slog.Warn("failed to load category options", "error", err)
		return nil
	}
	return categories
}

func (h *BlogsHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, data BlogFormData) {
	h.render(w, r, status, "admin/blogs_form", h.formTemplateData(r, data))
}

func (h *BlogsHandler) formTemplateData(r *http.Request, data BlogFormData) render.TemplateData {
	lang := middleware.GetAdminLang(r)
	title := i18n.T(lang, "title.blog_new")
	if data.IsEdit {
		title = i18n.T(lang, "title.blog_edit")
	}
	return render.TemplateData{
		Title: title,
		Data:  data,
		Breadcrumbs: adminBreadcrumbs(lang,
			uikit.Breadcrumb{Label: i18n.T(lang, "nav.blogs"), URL: redirectAdminBlogs},
			uikit.Breadcrumb{Label: title},
		),
	}
}

// parseBlogForm reads and validates the blog form. The returned form data
// carries the draft for re-rendering.
func parseBlogForm(r *http.Request) (backend.BlogInput, BlogFormData) {
	values := form.Values{
		"title":     strings.TrimSpace(r.FormValue("title")),
		"thumbnail": strings.TrimSpace(r.FormValue("thumbnail")),
		"status":    r.FormValue("status"),
		"language":  r.FormValue("language"),
	}

	categoryIDs := nonBlank(r.PostForm["categories"])
	selected := make(map[string]bool, len(categoryIDs))
	for _, id := range categoryIDs {
		selected[id] = true
	}

	drafts := parseBlockDrafts(r)

	errs := form.New()
	errs.Require("title", "Title", values["title"])
	errs.OneOf("status", "Status", values["status"], model.BlogStatuses)
	errs.OneOf("language", "Language", values["language"], model.ContentLanguages)

	content, err := blocksFromDrafts(drafts)
	if err != nil {
		errs.Add("content", "Invalid content block")
	}

	data := BlogFormData{
		SelectedCategory: selected,
		Blocks:           drafts,
		Errors:           errs,
		FormValues:       values,
	}
	if len(data.Blocks) == 0 {
		data.Blocks = []BlockDraft{{Type: model.BlockTypeText}}
	}

	return backend.BlogInput{
		Title:      values["title"],
		Thumbnail:  values["thumbnail"],
		Content:    content,
		Categories: categoryIDs,
		Status:     values["status"],
		Language:   values["language"],
	}, data
}

// parseBlockDrafts reads the parallel block_* fields. Rows with nothing
// filled in are dropped.
func parseBlockDrafts(r *http.Request) []BlockDraft {
	types := r.PostForm["block_type"]
	field := func(name string, i int) string {
		vals := r.PostForm[name]
		if i < len(vals) {
			return strings.TrimSpace(vals[i])
		}
		return ""
	}

	var drafts []BlockDraft
	for i, typ := range types {
		d := BlockDraft{
			Type:    typ,
			Text:    field("block_text", i),
			URL:     field("block_url", i),
			Caption: field("block_caption", i),
			Author:  field("block_author", i),
			Raw:     field("block_raw", i),
		}
		if d.Text == "" && d.URL == "" && d.Raw == "" {
			continue
		}
		drafts = append(drafts, d)
	}
	return drafts
}

// blocksFromDrafts encodes drafts as typed content blocks.
func blocksFromDrafts(drafts []BlockDraft) ([]model.ContentBlock, error) {
	blocks := make([]model.ContentBlock, 0, len(drafts))
	for _, d := range drafts {
		if d.Raw != "" {
			if d.Type == "" || !json.Valid([]byte(d.Raw)) {
				return nil, fmt.Errorf("invalid opaque content block %q", d.Type)
			}
			blocks = append(blocks, model.ContentBlock{Type: d.Type, Data: json.RawMessage(d.Raw)})
			continue
		}
		var payload any
		switch d.Type {
		case model.BlockTypeText:
			payload = model.TextBlock{Text: d.Text}
		case model.BlockTypeImage:
			payload = model.ImageBlock{URL: d.URL, Caption: d.Caption}
		case model.BlockTypeQuote:
			payload = model.QuoteBlock{Text: d.Text, Author: d.Author}
		default:
			return nil, fmt.Errorf("unknown content block type %q", d.Type)
		}
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, model.ContentBlock{Type: d.Type, Data: raw})
	}
	return blocks, nil
}

// draftsFromBlocks turns stored content blocks back into form rows. Blocks
// the editor cannot decode become opaque rows so an update keeps them.
func draftsFromBlocks(blocks []model.ContentBlock) []BlockDraft {
	drafts := make([]BlockDraft, 0, len(blocks))
	for _, b := range blocks {
		if d, ok := editableDraft(b); ok {
			drafts = append(drafts, d)
			continue
		}
		raw := string(b.Data)
		if raw == "" {
			raw = "null"
		}
		drafts = append(drafts, BlockDraft{Type: b.Type, Raw: raw})
	}
	return drafts
}

func editableDraft(b model.ContentBlock) (BlockDraft, bool) {
	switch b.Type {
	case model.BlockTypeText:
		if tb, err := b.Text(); err == nil {
			return BlockDraft{Type: b.Type, Text: tb.Text}, true
		}
	case model.BlockTypeImage:
		if ib, err := b.Image(); err == nil {
			return BlockDraft{Type: b.Type, URL: ib.URL, Caption: ib.Caption}, true
		}
	case model.BlockTypeQuote:
		if qb, err := b.Quote(); err == nil {
			return BlockDraft{Type: b.Type, Text: qb.Text, Author: qb.Author}, true
		}
	}
	return BlockDraft{}, false
}

// nonBlank returns the trimmed non-empty values of vals.
func nonBlank(vals []string) []string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
