package query

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/prodex/internal/domain"
	"github.com/kailas-cloud/prodex/internal/domain/search/filter"
	"github.com/kailas-cloud/prodex/internal/domain/search/method"
)

// Pagination limits.
const (
	MinLimit = 1
	MaxLimit = 1000
)

// SortField selects the result ordering. Empty means relevance when text
// matching produced scores, product ID otherwise.
type SortField string

// Sort field constants.
const (
	SortDefault   SortField = ""
	SortName      SortField = "name"
	SortPrice     SortField = "price"
	SortStock     SortField = "stock_quantity"
	SortCreatedAt SortField = "created_at"
)

// IsValid checks if the sort field is supported.
func (f SortField) IsValid() bool {
	return f == SortDefault || f == SortName || f == SortPrice ||
		f == SortStock || f == SortCreatedAt
}

// SortOrder is the sort direction.
type SortOrder string

// Sort order constants.
const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

// Query is a validated search request. Constructed per call, never persisted.
type Query struct {
	text      string
	searchFn  method.Method
	filters   filter.Filter
	sortBy    SortField
	sortOrder SortOrder
	limit     int
	offset    int
}

// New validates and normalizes search parameters.
// Defaults: method=combined, sort_order=asc. Limit must be in [1,1000],
// offset non-negative; out-of-range values are rejected, not clamped.
func New(
	text string,
	m method.Method,
	filters filter.Filter,
	sortBy SortField,
	sortOrder SortOrder,
	limit, offset int,
) (Query, error) {
	if m == "" {
		m = method.Combined
	}
	if !m.IsValid() {
		return Query{}, fmt.Errorf("%w: %q", domain.ErrInvalidSearchMethod, m)
	}
	if limit < MinLimit || limit > MaxLimit {
		return Query{}, fmt.Errorf("%w: limit must be between %d and %d, got %d",
			domain.ErrInvalidPagination, MinLimit, MaxLimit, limit)
	}
	if offset < 0 {
		return Query{}, fmt.Errorf("%w: offset must be non-negative, got %d",
			domain.ErrInvalidPagination, offset)
	}
	if !sortBy.IsValid() {
		return Query{}, fmt.Errorf("%w: %q", domain.ErrInvalidSortField, sortBy)
	}
	if sortOrder == "" {
		sortOrder = Asc
	}
	if sortOrder != Asc && sortOrder != Desc {
		return Query{}, fmt.Errorf("%w: sort_order must be asc or desc, got %q",
			domain.ErrInvalidSortField, sortOrder)
	}
	if err := filters.Validate(); err != nil {
		return Query{}, err
	}

	return Query{
		text:      strings.TrimSpace(text),
		searchFn:  m,
		filters:   filters,
		sortBy:    sortBy,
		sortOrder: sortOrder,
		limit:     limit,
		offset:    offset,
	}, nil
}

// Text returns the trimmed query text.
func (q *Query) Text() string { return q.text }

// IsEmpty reports whether the query carries no text to match.
func (q *Query) IsEmpty() bool { return q.text == "" }

// Method returns the search strategy.
func (q *Query) Method() method.Method { return q.searchFn }

// Filters returns the non-text predicates.
func (q *Query) Filters() filter.Filter { return q.filters }

// SortBy returns the requested sort field.
func (q *Query) SortBy() SortField { return q.sortBy }

// SortOrder returns the sort direction.
func (q *Query) SortOrder() SortOrder { return q.sortOrder }

// Limit returns the page size.
func (q *Query) Limit() int { return q.limit }

// Offset returns the page start.
func (q *Query) Offset() int { return q.offset }
