// internal/app/system/paging/paging.go

// Package paging parses offset pagination parameters for list endpoints
// and computes the response metadata.
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

const (
	// DefaultLimit is the page size when the caller does not ask for one.
	DefaultLimit = 10

	// MaxLimit caps the page size a caller may request.
	MaxLimit = 100
)

// Params are the parsed page/limit query parameters. Page is 1-based.
type Params struct {
	Page  int
	Limit int
}

// Parse reads "page" and "limit" from the request query. Missing or
// invalid values fall back to page 1 and DefaultLimit; limit is clamped
// to MaxLimit.
func Parse(r *http.Request) Params {
	p := Params{Page: 1, Limit: DefaultLimit}

	if s := query.Get(r, "page"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n >= 1 {
			p.Page = n
		}
	}
	if s := query.Get(r, "limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n >= 1 {
			p.Limit = n
		}
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// Skip returns the number of documents to skip for this page.
func (p Params) Skip() int64 {
	return int64(p.Page-1) * int64(p.Limit)
}

// Limit64 returns the limit as int64 for Mongo Find options.
func (p Params) Limit64() int64 {
	return int64(p.Limit)
}

// TotalPages returns how many pages a collection of total documents
// spans at this page size. Zero documents is zero pages.
func (p Params) TotalPages(total int64) int {
	if total <= 0 {
		return 0
	}
	pages := total / int64(p.Limit)
	if total%int64(p.Limit) != 0 {
		pages++
	}
	return int(pages)
}
