package domain

// DefaultPageSize is the number of stores shown per listing page.
const DefaultPageSize = 6

// MaxLimit caps every caller-supplied page size or result limit.
const MaxLimit = 100

// PaginationParams carries page/limit values from the HTTP layer to the repo layer.
// Page is 1-indexed. Limit is capped at MaxLimit by NewPaginationParams.
type PaginationParams struct {
	// Page is the current page number, starting at 1.
	Page int
	// Limit is the maximum number of items to return.
	Limit int
}

// NewPaginationParams builds a PaginationParams from optional HTTP query params.
// Nil pointers fall back to sane defaults (page=1, limit=DefaultPageSize).
func NewPaginationParams(page, limit *int) PaginationParams {
	p := PaginationParams{Page: 1, Limit: DefaultPageSize}
	if page != nil && *page >= 1 {
		p.Page = *page
	}
	if limit != nil && *limit >= 1 {
		p.Limit = ClampLimit(*limit, DefaultPageSize)
	}
	return p
}

// Offset returns the zero-based row offset for a SQL OFFSET clause.
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// TotalPages returns how many pages of p.Limit items hold total items.
func (p PaginationParams) TotalPages(total int64) int {
	if p.Limit <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(p.Limit) - 1) / int64(p.Limit))
}

// ClampLimit returns fallback for non-positive n and caps n at MaxLimit.
func ClampLimit(n, fallback int) int {
	if n <= 0 {
		return fallback
	}
	if n > MaxLimit {
		return MaxLimit
	}
	return n
}

// StorePage is one page of the store listing, newest first.
type StorePage struct {
	Stores     []Store
	Page       int
	PageSize   int
	TotalPages int
	TotalCount int64
}
