// Package pagination materializes bounded, offset-based pages from
// caller-constructed gorm queries and computes navigation metadata.
package pagination

import (
	"fmt"

	"gorm.io/gorm"
)

const (
	DefaultLimit = 10
	DefaultPage  = 1
	MaxLimit     = 100
)

// Request is the offset-style page request. Page is 1-indexed.
type Request struct {
	Limit int `form:"limit" binding:"omitempty,gt=0"`
	Page  int `form:"page" binding:"omitempty,gt=0"`
}

// Normalized applies defaults and the upper bound on limit.
func (r Request) Normalized() Request {
	if r.Limit <= 0 {
		r.Limit = DefaultLimit
	}
	if r.Limit > MaxLimit {
		r.Limit = MaxLimit
	}
	if r.Page <= 0 {
		r.Page = DefaultPage
	}
	return r
}

type Meta struct {
	ItemsPerPage int   `json:"itemsPerPage"`
	TotalItems   int64 `json:"totalItems"`
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
}

// Links are page-addressable references relative to the collection URL.
// Previous and Next are empty when out of range.
type Links struct {
	First    string `json:"first"`
	Previous string `json:"previous"`
	Current  string `json:"current"`
	Next     string `json:"next"`
	Last     string `json:"last"`
}

type Page[T any] struct {
	Data  []T   `json:"data"`
	Meta  Meta  `json:"meta"`
	Links Links `json:"links"`
}

// BuildMeta computes page math for the given totals.
// TotalPages = ceil(TotalItems / ItemsPerPage).
func BuildMeta(totalItems int64, limit, page int) Meta {
	totalPages := int((totalItems + int64(limit) - 1) / int64(limit))
	return Meta{
		ItemsPerPage: limit,
		TotalItems:   totalItems,
		CurrentPage:  page,
		TotalPages:   totalPages,
	}
}

// BuildLinks derives navigation links from meta.
func BuildLinks(meta Meta) Links {
	ref := func(page int) string {
		return fmt.Sprintf("?limit=%d&page=%d", meta.ItemsPerPage, page)
	}

	links := Links{
		First:   ref(1),
		Current: ref(meta.CurrentPage),
		Last:    ref(meta.TotalPages),
	}
	if meta.TotalPages == 0 {
		links.Last = ref(1)
	}
	if meta.CurrentPage > 1 {
		links.Previous = ref(meta.CurrentPage - 1)
	}
	if meta.CurrentPage < meta.TotalPages {
		links.Next = ref(meta.CurrentPage + 1)
	}
	return links
}

// Paginate executes the caller's filtered/ordered query twice: once for
// the total count and once for the requested page. Read-only and
// idempotent; any execution failure surfaces as a generic fetch error
// for the caller to translate.
func Paginate[T any](req Request, query *gorm.DB) (*Page[T], error) {
	req = req.Normalized()

	var totalItems int64
	if err := query.Session(&gorm.Session{}).Count(&totalItems).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch results: %w", err)
	}

	items := make([]T, 0, req.Limit)
	offset := (req.Page - 1) * req.Limit
	if err := query.Offset(offset).Limit(req.Limit).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch results: %w", err)
	}

	meta := BuildMeta(totalItems, req.Limit, req.Page)
	return &Page[T]{
		Data:  items,
		Meta:  meta,
		Links: BuildLinks(meta),
	}, nil
}
