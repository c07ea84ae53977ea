package common

import (
	"net/http"
	"strconv"
)

const maxPageLimit = 100

// PageParams is a 1-based page request.
type PageParams struct {
	Page  int
	Limit int
}

// ParsePage reads the page and limit query parameters. Missing or invalid
// values fall back to page 1 and defaultLimit; limit is capped at 100.
func ParsePage(r *http.Request, defaultLimit int) PageParams {
	q := r.URL.Query()
	p := PageParams{Page: 1, Limit: defaultLimit}
	if v, err := strconv.Atoi(q.Get("page")); err == nil && v > 0 {
		p.Page = v
	}
	if v, err := strconv.Atoi(q.Get("limit")); err == nil && v > 0 {
		p.Limit = v
	}
	return p.Normalize(defaultLimit)
}

// Normalize clamps p into valid bounds.
func (p PageParams) Normalize(defaultLimit int) PageParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = defaultLimit
	}
	if p.Limit > maxPageLimit {
		p.Limit = maxPageLimit
	}
	return p
}

// SQLLimit returns the LIMIT argument.
func (p PageParams) SQLLimit() int32 { return int32(p.Limit) }

// SQLOffset returns the OFFSET argument.
func (p PageParams) SQLOffset() int32 { return int32((p.Page - 1) * p.Limit) }

// Pagination is the metadata returned next to a page of results.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewPagination describes page p of a result set holding total rows.
func NewPagination(p PageParams, total int64) Pagination {
	pages := 0
	if p.Limit > 0 {
		pages = int((total + int64(p.Limit) - 1) / int64(p.Limit))
	}
	return Pagination{Page: p.Page, Limit: p.Limit, Total: int(total), TotalPages: pages}
}
