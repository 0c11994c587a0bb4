package filter

import (
	"fmt"

	"github.com/kailas-cloud/prodex/internal/domain"
	"github.com/kailas-cloud/prodex/internal/domain/product"
)

// Filter is the set of non-text predicates applied to candidates before any
// text matching. Nil range bounds are open.
type Filter struct {
	Category   string
	MinPrice   *float64
	MaxPrice   *float64
	MinStock   *int
	MaxStock   *int
	ActiveOnly bool
}

// Validate checks range bounds for consistency.
func (f Filter) Validate() error {
	if f.MinPrice != nil && *f.MinPrice < 0 {
		return fmt.Errorf("%w: min_price must be non-negative", domain.ErrInvalidProduct)
	}
	if f.MaxPrice != nil && *f.MaxPrice < 0 {
		return fmt.Errorf("%w: max_price must be non-negative", domain.ErrInvalidProduct)
	}
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		return fmt.Errorf("%w: min_price greater than max_price", domain.ErrInvalidProduct)
	}
	if f.MinStock != nil && f.MaxStock != nil && *f.MinStock > *f.MaxStock {
		return fmt.Errorf("%w: min_stock greater than max_stock", domain.ErrInvalidProduct)
	}
	return nil
}

// Matches reports whether the product passes every predicate.
func (f Filter) Matches(p *product.Product) bool {
	if f.ActiveOnly && !p.Active() {
		return false
	}
	if f.Category != "" && p.Category() != f.Category {
		return false
	}
	if f.MinPrice != nil && p.Price() < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price() > *f.MaxPrice {
		return false
	}
	if f.MinStock != nil && p.StockQuantity() < *f.MinStock {
		return false
	}
	if f.MaxStock != nil && p.StockQuantity() > *f.MaxStock {
		return false
	}
	return true
}

// IsEmpty reports whether no predicate is set.
func (f Filter) IsEmpty() bool {
	return f.Category == "" && f.MinPrice == nil && f.MaxPrice == nil &&
		f.MinStock == nil && f.MaxStock == nil && !f.ActiveOnly
}
