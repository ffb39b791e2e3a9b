// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package uikit

import (
	"net/url"
	"strconv"
)

// linkRadius is how many page links are shown on each side of the current page.
const linkRadius = 2

// Pagination is the view of one page of a backend list. CurrentPage is the
// page the backend reports and is never clamped to TotalPages.
type Pagination struct {
	CurrentPage int
	TotalPages  int
	TotalItems  int
	HasPrev     bool
	HasNext     bool
	PrevPage    int
	NextPage    int
	Links       []PageLink

	path    string
	filters url.Values
}

// PageLink is one entry of the numbered page list. Gap entries stand for
// skipped pages and carry no URL.
type PageLink struct {
	Number  int
	URL     string
	Current bool
	Gap     bool
}

// NewPagination builds the controls for a list at path. filters are the
// list's query parameters; blank ones and "page" are not carried into links.
func NewPagination(currentPage, totalPages, totalItems int, path string, filters url.Values) Pagination {
	// A backend that reports no page means the first one.
	if currentPage < 1 {
		currentPage = 1
	}
	totalPages = max(totalPages, 0)

	p := Pagination{
		CurrentPage: currentPage,
		TotalPages:  totalPages,
		TotalItems:  totalItems,
		HasPrev:     currentPage > 1,
		HasNext:     currentPage < totalPages,
		NextPage:    currentPage + 1,
		path:        path,
		filters:     make(url.Values),
	}
	// From beyond the last page, "previous" leads back into range.
	p.PrevPage = currentPage - 1
	if totalPages > 0 && p.PrevPage > totalPages {
		p.PrevPage = totalPages
	}

	for k, v := range filters {
		if k != "page" && len(v) > 0 && v[0] != "" {
			p.filters[k] = v
		}
	}

	for _, n := range pageNumbers(currentPage, totalPages) {
		if n == 0 {
			p.Links = append(p.Links, PageLink{Gap: true})
			continue
		}
		p.Links = append(p.Links, PageLink{Number: n, URL: p.PageURL(n), Current: n == currentPage})
	}
	return p
}

// PageURL returns the list URL for page n with the current filters.
func (p Pagination) PageURL(n int) string {
	q := make(url.Values, len(p.filters)+1)
	for k, v := range p.filters {
		q[k] = v
	}
	q.Set("page", strconv.Itoa(n))
	return p.path + "?" + q.Encode()
}

// ShouldShow reports whether there is more than one page.
func (p Pagination) ShouldShow() bool {
	return p.TotalPages > 1
}

// pageNumbers lists the page links to show: the first and last pages and
// a window around current. 0 marks a gap.
func pageNumbers(current, total int) []int {
	if total < 1 {
		return nil
	}
	lo := max(1, min(current, total)-linkRadius)
	hi := min(total, lo+2*linkRadius)
	lo = max(1, hi-2*linkRadius)

	var out []int
	if lo > 1 {
		out = append(out, 1)
		if lo > 2 {
			out = append(out, 0)
		}
	}
	for n := lo; n <= hi; n++ {
		out = append(out, n)
	}
	if hi < total {
		if hi < total-1 {
			out = append(out, 0)
		}
		out = append(out, total)
	}
	return out
}
