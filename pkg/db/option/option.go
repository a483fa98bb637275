package option

import (
	"strings"

	"github.com/storekeeplabs/storekeep/pkg/db/pagination"
	"gorm.io/gorm"
)

// Option mutates a gorm statement. Options compose left to right.
type Option interface {
	Apply(stmt *gorm.DB) *gorm.DB
}

type optionFunc func(stmt *gorm.DB) *gorm.DB

func (f optionFunc) Apply(stmt *gorm.DB) *gorm.DB { return f(stmt) }

// SortBy is a validated ORDER BY clause.
type SortBy struct {
	Field string
	Desc  bool
}

func (s SortBy) clause() string {
	if s.Desc {
		return s.Field + " desc"
	}
	return s.Field + " asc"
}

// WithQuerySortBy validates the requested sort field against the allowed
// column set. Unknown fields fall back to created_at; order defaults to desc.
func WithQuerySortBy(field, order string, allowed map[string]bool) SortBy {
	field = strings.ToLower(strings.TrimSpace(field))
	if !allowed[field] {
		field = "created_at"
	}
	return SortBy{
		Field: field,
		Desc:  strings.ToLower(strings.TrimSpace(order)) != "asc",
	}
}

func WithSortBy(sort SortBy) Option {
	return optionFunc(func(stmt *gorm.DB) *gorm.DB {
		return stmt.Order(sort.clause())
	})
}

// ApplyPagination applies limit/offset for the normalized page.
func ApplyPagination(page pagination.Pagination) Option {
	return optionFunc(func(stmt *gorm.DB) *gorm.DB {
		n := page.Normalize()
		return stmt.Limit(n.PerPage).Offset(n.Offset())
	})
}
