// Package catalog holds the list logic the pages run locally: filtering
// the room catalog, paginating any list and the admin dashboard totals.
package catalog

// Page sizes used by the pages.
const (
	RoomsPerPage          = 6
	MemberBookingsPerPage = 5
	AdminUsersPerPage     = 10
	AdminReviewsPerPage   = 8
	AdminBookingsPerPage  = 10
	AdminRoomsPerPage     = 10
)

// Page is one slice of a longer list.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// Paginate returns page number page (1-based) of items.  Out-of-range page
// numbers are clamped to the nearest valid page.
func Paginate[T any](items []T, page, perPage int) Page[T] {
	if perPage < 1 {
		perPage = 1
	}
	total := len(items)
	pages := (total + perPage - 1) / perPage
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}
	if pages == 0 {
		page = 1
	}
	start := (page - 1) * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}
	out := make([]T, end-start)
	copy(out, items[start:end])
	return Page[T]{Items: out, Page: page, PerPage: perPage, TotalItems: total, TotalPages: pages}
}
