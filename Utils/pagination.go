package utils

import (
	"fmt"
	"net/http"
	"strconv"
)

// Constants for pagination
const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// Pagination holds one validated page request. SortBy is always one of the
// columns the handler whitelisted, so it is safe to interpolate into ORDER BY.
type Pagination struct {
	Page     int
	Limit    int
	SortBy   string
	SortDesc bool
}

// PagedResult pairs one bounded slice with the size of the full collection.
// The page query and the count query are two independent reads, so the two
// values may reflect different points in time under concurrent writes.
type PagedResult struct {
	Items      interface{} `json:"items"`
	TotalCount int         `json:"totalCount"`
}

// ParsePagination reads ?page&limit&sortBy&sortType from the request.
// Out-of-range page and limit are clamped rather than rejected, and a sortBy
// that is not in allowedSortFields falls back to created_at ascending.
func ParsePagination(r *http.Request, allowedSortFields ...string) Pagination {
	p := Pagination{
		Page:   1,
		Limit:  DefaultPageLimit,
		SortBy: "created_at",
	}

	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		if n, err := strconv.Atoi(pageStr); err == nil && n > 0 {
			p.Page = n
		}
	}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil {
			if l > 0 && l <= MaxPageLimit {
				p.Limit = l
			} else if l > MaxPageLimit {
				p.Limit = MaxPageLimit
			}
		}
	}

	if sortBy := r.URL.Query().Get("sortBy"); sortBy != "" {
		for _, field := range allowedSortFields {
			if sortBy == field {
				p.SortBy = sortBy
				break
			}
		}
	}

	p.SortDesc = r.URL.Query().Get("sortType") == "desc"

	return p
}

// Offset computes the row offset for the current page
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// OrderBy renders the ORDER BY clause for the validated sort field
func (p Pagination) OrderBy() string {
	direction := "ASC"
	if p.SortDesc {
		direction = "DESC"
	}
	return fmt.Sprintf("ORDER BY %s %s", p.SortBy, direction)
}
