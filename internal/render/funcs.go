// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"bytes"
	"html/template"
	"log/slog"
	"net/url"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"

	"github.com/olegiv/ocms-console/internal/i18n"
	"github.com/olegiv/ocms-console/internal/model"
	"github.com/olegiv/ocms-console/internal/policy"
	"github.com/olegiv/ocms-console/internal/uikit"
)

// htmlSanitizer cleans rendered blog text before it reaches a template.
var htmlSanitizer = bluemonday.UGCPolicy()

// TemplateFuncs returns the shared uikit helpers plus console-specific ones.
func (r *Renderer) TemplateFuncs() template.FuncMap {
	funcs := uikit.TemplateFuncs()

	funcs["T"] = i18n.T
	funcs["langName"] = i18n.LanguageName
	funcs["uiLanguages"] = i18n.Languages
	funcs["contentLanguages"] = func() []string { return model.ContentLanguages }
	funcs["blogStatuses"] = func() []string { return model.BlogStatuses }
	funcs["messageStatuses"] = func() []string { return model.MessageStatuses }
	funcs["roles"] = func() []string { return model.ValidRoles }

	funcs["can"] = func(user *model.User, action string) bool {
		return policy.Can(user, policy.Action(action))
	}
	funcs["hasRole"] = func(user *model.User, roles ...string) bool {
		return user.HasRole(roles...)
	}

	funcs["localized"] = func(t model.LocalizedText, lang string) string {
		return t.Or(lang)
	}
	funcs["imageURL"] = r.ImageURL
	funcs["markdown"] = Markdown

	funcs["textBlock"] = func(b model.ContentBlock) model.TextBlock {
		tb, _ := b.Text()
		return tb
	}
	funcs["imageBlock"] = func(b model.ContentBlock) model.ImageBlock {
		ib, _ := b.Image()
		return ib
	}
	funcs["quoteBlock"] = func(b model.ContentBlock) model.QuoteBlock {
		qb, _ := b.Quote()
		return qb
	}

	return funcs
}

// ImageURL resolves a backend file path against the asset base URL.
// Absolute URLs are returned unchanged.
func (r *Renderer) ImageURL(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if u, err := url.Parse(path); err == nil && u.IsAbs() {
		return path
	}
	if r.assetBaseURL == "" {
		return path
	}
	return r.assetBaseURL + "/" + strings.TrimLeft(path, "/")
}

// Markdown converts blog text to sanitized HTML.
func Markdown(text string) template.HTML {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(text), &buf); err != nil {
		slog.Warn("markdown conversion failed", "error", err)
		return template.HTML(template.HTMLEscapeString(text))
	}
	return template.HTML(htmlSanitizer.SanitizeBytes(buf.Bytes()))
}
