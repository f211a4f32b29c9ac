package catalog

import "errors"

// ErrInvalidPageSize is returned when a page size below 1 is requested
var ErrInvalidPageSize = errors.New("page size must be at least 1")

// PageResult is one page of a list
type PageResult[T any] struct {
	Items       []T `json:"items"`
	CurrentPage int `json:"current_page"`
	TotalPages  int `json:"total_pages"`
	TotalItems  int `json:"total_items"`
	PageSize    int `json:"page_size"`
}

// HasNext reports whether a page follows the current one
func (p PageResult[T]) HasNext() bool {
	return p.CurrentPage < p.TotalPages
}

// HasPrevious reports whether a page precedes the current one
func (p PageResult[T]) HasPrevious() bool {
	return p.CurrentPage > 1
}

// Paginate returns page pageNumber of items. Out of range page numbers are
// clamped to the first or last page; an empty list has a single empty page.
// The returned items are a copy.
func Paginate[T any](items []T, pageSize, pageNumber int) (PageResult[T], error) {
	if pageSize < 1 {
		return PageResult[T]{}, ErrInvalidPageSize
	}

	total := len(items)
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	page := pageNumber
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	pageItems := make([]T, end-start)
	copy(pageItems, items[start:end])

	return PageResult[T]{
		Items:       pageItems,
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalItems:  total,
		PageSize:    pageSize,
	}, nil
}
