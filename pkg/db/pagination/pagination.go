package pagination

// Pagination carries the raw page/per_page query values for list endpoints.
type Pagination struct {
	Page    int `form:"page"`
	PerPage int `form:"per_page"`
}

const (
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// Normalize coerces page and per_page into their valid ranges.
func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
	return p
}

// Offset returns the row offset for the normalized page.
func (p Pagination) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.PerPage
}

// PageInfo is the pagination metadata returned alongside a page of results.
type PageInfo struct {
	Total       int64 `json:"total"`
	PerPage     int   `json:"per_page"`
	CurrentPage int   `json:"current_page"`
	LastPage    int   `json:"last_page"`
}

// BuildPageInfo derives page metadata from a total row count.
func BuildPageInfo(total int64, page Pagination) PageInfo {
	n := page.Normalize()
	last := int(total) / n.PerPage
	if int(total)%n.PerPage != 0 || last == 0 {
		last++
	}
	return PageInfo{
		Total:       total,
		PerPage:     n.PerPage,
		CurrentPage: n.Page,
		LastPage:    last,
	}
}
