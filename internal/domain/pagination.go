package domain

// Pagination defaults and bounds.
const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// Page selects a window of a list. Page is 1-based.
type Page struct {
	Page  int
	Limit int
}

// DefaultPageRequest returns the first page with the default limit.
func DefaultPageRequest() Page {
	return Page{Page: DefaultPage, Limit: DefaultLimit}
}

// NewPage validates page and limit.
func NewPage(page, limit int) (Page, error) {
	if page < 1 {
		return Page{}, NewValidationError("page", "must be at least 1", nil)
	}
	if limit < 1 || limit > MaxLimit {
		return Page{}, NewValidationError("limit", "must be between 1 and 100", nil)
	}
	return Page{Page: page, Limit: limit}, nil
}

// Offset returns the number of rows to skip.
func (p Page) Offset() int {
	return (p.Page - 1) * p.Limit
}
