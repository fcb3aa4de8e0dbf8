package util

import (
	"math"
	"strconv"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

// Calculate clamps page and size and returns the row window they select.
// The offset never exceeds math.MaxInt32, which is also the cap for
// Elasticsearch's from parameter.
func Calculate(page, size int) (offset, limit int) {
	size = clampSize(size)
	return (ClampPage(page, size) - 1) * size, size
}

// ClampPage keeps page within [1, MaxPage(size)].
func ClampPage(page, size int) int {
	if page < 1 {
		return 1
	}
	if last := MaxPage(size); page > last {
		return last
	}
	return page
}

// MaxPage is the highest page whose offset still fits in an int32.
func MaxPage(size int) int {
	return math.MaxInt32/clampSize(size) + 1
}

func clampSize(size int) int {
	if size <= 0 || size > MaxPageSize {
		return DefaultPageSize
	}
	return size
}

type Meta struct {
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
	HasPrev    bool  `json:"has_prev"`
	HasNext    bool  `json:"has_next"`
}

func NewMeta(page, offset, limit int, total int64) Meta {
	if page < 1 {
		page = 1
	}
	return Meta{
		Page:       page,
		Size:       limit,
		Total:      total,
		TotalPages: (total + int64(limit) - 1) / int64(limit),
		HasPrev:    page > 1,
		HasNext:    int64(offset+limit) < total,
	}
}

// Page is the list envelope returned by paginated endpoints.
type Page[T any] struct {
	Data []T `json:"data"`
	Meta Meta `json:"meta"`
}
