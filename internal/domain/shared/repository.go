package shared

// Page represents offset-based pagination parameters.
// Zero values fall back to the defaults at the query site.
type Page struct {
	Limit  int
	Offset int
}

// Normalize clamps the page to sane bounds
func (p Page) Normalize() Page {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// Paginated represents a paginated result
type Paginated[T any] struct {
	Items  []T   `json:"items"`
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

// NewPaginated creates a new paginated result
func NewPaginated[T any](items []T, total int64, page Page) Paginated[T] {
	return Paginated[T]{
		Items:  items,
		Total:  total,
		Limit:  page.Limit,
		Offset: page.Offset,
	}
}
