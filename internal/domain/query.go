package domain

import (
	"fmt"
	"strings"
)

// Sort orders accepted by the course listing.
const (
	SortNewest    = "newest"
	SortPopular   = "popular"
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
)

// CourseFilter carries the listing query: filters, sort and pagination.
type CourseFilter struct {
	Category string
	Level    string
	Search   string
	Sort     string
	Page     int
	Limit    int
}

// Normalize fills pagination defaults.
func (f CourseFilter) Normalize() CourseFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}
	return f
}

// Offset returns the row offset for the normalized filter.
func (f CourseFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// CacheKey returns the listing cache key for this filter. Keys share the
// "courses:" prefix so a single "courses:*" pattern invalidates every
// cached listing.
func (f CourseFilter) CacheKey() string {
	var b strings.Builder
	b.WriteString("courses:")
	fmt.Fprintf(&b, "category=%s&level=%s&search=%s&sort=%s&page=%d&limit=%d",
		f.Category, f.Level, f.Search, f.Sort, f.Page, f.Limit)
	return b.String()
}
