package models

import "math"

const (
	DefaultPageSize int64 = 20
	MaxPageSize     int64 = 100
)

// PageRequest is a normalized 1-based page/limit pair.
type PageRequest struct {
	Page  int64
	Limit int64
}

// Normalize applies defaults and caps the page size.
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	return p
}

// Skip is the number of records before this page. It saturates at
// math.MaxInt64 so a far-off page reads as past the end.
func (p PageRequest) Skip() int64 {
	if p.Page <= 1 || p.Limit <= 0 {
		return 0
	}
	if p.Page-1 > math.MaxInt64/p.Limit {
		return math.MaxInt64
	}
	return (p.Page - 1) * p.Limit
}

type Pagination struct {
	CurrentPage int64 `json:"currentPage"`
	PageSize    int64 `json:"pageSize"`
	TotalPages  int64 `json:"totalPages"`
	TotalItems  int64 `json:"totalItems"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

func NewPagination(p PageRequest, total int64) Pagination {
	totalPages := int64(0)
	if total > 0 {
		totalPages = (total + p.Limit - 1) / p.Limit
	}
	return Pagination{
		CurrentPage: p.Page,
		PageSize:    p.Limit,
		TotalPages:  totalPages,
		TotalItems:  total,
		HasNextPage: p.Page < totalPages,
		HasPrevPage: p.Page > 1,
	}
}
