// Package pagination splits an ordered list into fixed-size pages with
// navigation bounded to [1, totalPages].
package pagination

// Pager describes one page of a list. Construct it with New so the
// page number is clamped; the zero value renders an empty page.
type Pager struct {
	Page       int
	PageSize   int
	TotalItems int
}

// New builds a Pager for the requested page, clamping the page number
// into [1, TotalPages]. A list with no items has zero pages and is
// presented as page 1 with an empty window.
func New(totalItems, pageSize, requestedPage int) Pager {
	if totalItems < 0 {
		totalItems = 0
	}
	if pageSize < 1 {
		pageSize = 1
	}

	totalPages := (totalItems + pageSize - 1) / pageSize

	page := requestedPage
	if page < 1 {
		page = 1
	}
	if totalPages > 0 && page > totalPages {
		page = totalPages
	}
	if totalPages == 0 {
		page = 1
	}

	return Pager{
		Page:       page,
		PageSize:   pageSize,
		TotalItems: totalItems,
	}
}

// TotalPages is ceil(TotalItems / PageSize); zero for an empty list.
func (p Pager) TotalPages() int {
	if p.PageSize < 1 || p.TotalItems <= 0 {
		return 0
	}
	return (p.TotalItems + p.PageSize - 1) / p.PageSize
}

// HasPrev reports whether a previous page exists.
func (p Pager) HasPrev() bool {
	return p.Page > 1
}

// HasNext reports whether a following page exists.
func (p Pager) HasNext() bool {
	return p.Page < p.TotalPages()
}

// Prev returns the previous page number, floored at 1.
func (p Pager) Prev() int {
	if p.Page <= 1 {
		return 1
	}
	return p.Page - 1
}

// Next returns the following page number, capped at the last page.
func (p Pager) Next() int {
	next := p.Page + 1
	if tp := p.TotalPages(); next > tp {
		next = tp
	}
	if next < 1 {
		next = 1
	}
	return next
}

// Bounds returns the half-open index range [start, end) of the visible
// slice within the full list.
func (p Pager) Bounds() (int, int) {
	if p.PageSize < 1 || p.TotalItems <= 0 {
		return 0, 0
	}
	start := (p.Page - 1) * p.PageSize
	if start > p.TotalItems {
		start = p.TotalItems
	}
	end := start + p.PageSize
	if end > p.TotalItems {
		end = p.TotalItems
	}
	return start, end
}

// Slice returns the page window of items described by p. Bounds are
// clamped against the actual slice length, so a Pager built for a
// different count cannot index out of range.
func Slice[T any](items []T, p Pager) []T {
	start, end := p.Bounds()
	if start > len(items) {
		start = len(items)
	}
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
