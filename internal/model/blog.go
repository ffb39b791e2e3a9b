// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// Blog statuses
const (
	BlogStatusDraft     = "draft"
	BlogStatusPublished = "published"
)

// BlogStatuses lists valid blog statuses.
var BlogStatuses = []string{BlogStatusDraft, BlogStatusPublished}

// Content block types
const (
	BlockTypeText  = "text"
	BlockTypeImage = "image"
	BlockTypeQuote = "quote"
)

// Blog is a blog post.
type Blog struct {
	ID         string         `json:"id"`
	Title      string         `json:"title"`
	Thumbnail  string         `json:"thumbnail,omitempty"`
	Content    []ContentBlock `json:"content"`
	Categories []Category     `json:"categories"`
	Author     *User          `json:"author,omitempty"`
	Status     string         `json:"status"`
	Language   string         `json:"language"`
	CreatedAt  time.Time      `json:"createdAt"`
}

// IsPublished returns true if the blog is published.
func (b *Blog) IsPublished() bool {
	return b.Status == BlogStatusPublished
}

// CategoryIDs returns the IDs of the blog's categories.
func (b *Blog) CategoryIDs() []string {
	ids := make([]string, 0, len(b.Categories))
	for _, c := range b.Categories {
		ids = append(ids, c.ID)
	}
	return ids
}

// ContentBlock is one entry of a blog body. Data's shape depends on Type.
type ContentBlock struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// TextBlock is the payload of a "text" block. Text is markdown.
type TextBlock struct {
	Text string `json:"text"`
}

// ImageBlock is the payload of an "image" block.
type ImageBlock struct {
	URL     string `json:"url"`
	Caption string `json:"caption,omitempty"`
}

// QuoteBlock is the payload of a "quote" block.
type QuoteBlock struct {
	Text   string `json:"text"`
	Author string `json:"author,omitempty"`
}

// NewTextBlock builds a text block.
func NewTextBlock(text string) ContentBlock {
	data, _ := json.Marshal(TextBlock{Text: text})
	return ContentBlock{Type: BlockTypeText, Data: data}
}

// Text decodes a text block.
func (b ContentBlock) Text() (TextBlock, error) {
	var tb TextBlock
	return tb, b.decode(BlockTypeText, &tb)
}

// Image decodes an image block.
func (b ContentBlock) Image() (ImageBlock, error) {
	var ib ImageBlock
	return ib, b.decode(BlockTypeImage, &ib)
}

// Quote decodes a quote block.
func (b ContentBlock) Quote() (QuoteBlock, error) {
	var qb QuoteBlock
	return qb, b.decode(BlockTypeQuote, &qb)
}

func (b ContentBlock) decode(want string, v any) error {
	if b.Type != want {
		return fmt.Errorf("content block is %q, not %q", b.Type, want)
	}
	if len(b.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(b.Data, v); err != nil {
		return fmt.Errorf("decoding %s block: %w", want, err)
	}
	return nil
}

// PlainText joins the text of all text blocks, separated by blank lines.
// It is used to prefill the blog editor.
func PlainText(blocks []ContentBlock) string {
	var out string
	for _, b := range blocks {
		tb, err := b.Text()
		if err != nil || tb.Text == "" {
			continue
		}
		if out != "" {
			out += "\n\n"
		}
		out += tb.Text
	}
	return out
}
