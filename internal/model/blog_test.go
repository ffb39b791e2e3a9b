// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"encoding/json"
	"testing"
)

func TestContentBlockDecoding(t *testing.T) {
	raw := `[
		{"type":"text","data":{"text":"# Hello"}},
		{"type":"image","data":{"url":"/uploads/a.png","caption":"A"}},
		{"type":"quote","data":{"text":"Less is more","author":"Mies"}}
	]`
	var blocks []ContentBlock
	if err := json.Unmarshal([]byte(raw), &blocks); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(blocks) != 3 {
		t.Fatalf("got %d blocks, want 3", len(blocks))
	}

	tb, err := blocks[0].Text()
	if err != nil || tb.Text != "# Hello" {
		t.Errorf("Text() = %+v, %v", tb, err)
	}
	ib, err := blocks[1].Image()
	if err != nil || ib.URL != "/uploads/a.png" || ib.Caption != "A" {
		t.Errorf("Image() = %+v, %v", ib, err)
	}
	qb, err := blocks[2].Quote()
	if err != nil || qb.Author != "Mies" {
		t.Errorf("Quote() = %+v, %v", qb, err)
	}

	if _, err := blocks[1].Text(); err == nil {
		t.Error("Text() on image block should fail")
	}
}

func TestPlainText(t *testing.T) {
	blocks := []ContentBlock{
		NewTextBlock("first"),
		{Type: BlockTypeImage, Data: json.RawMessage(`{"url":"/a.png"}`)},
		NewTextBlock("second"),
	}
	if got := PlainText(blocks); got != "first\n\nsecond" {
		t.Errorf("PlainText() = %q", got)
	}
}

func TestBlogCategoryIDs(t *testing.T) {
	b := Blog{Categories: []Category{{ID: "c1"}, {ID: "c2"}}}
	ids := b.CategoryIDs()
	if len(ids) != 2 || ids[0] != "c1" || ids[1] != "c2" {
		t.Errorf("CategoryIDs() = %v", ids)
	}
}
