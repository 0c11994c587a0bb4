package product

import (
	"context"

	"github.com/kailas-cloud/prodex/internal/domain"
	domprod "github.com/kailas-cloud/prodex/internal/domain/product"
	"github.com/kailas-cloud/prodex/internal/domain/search/filter"
)

// Repository defines the storage contract for catalog operations.
type Repository interface {
	Create(ctx context.Context, p *domprod.Product) error
	Get(ctx context.Context, id string) (domprod.Product, error)
	Update(ctx context.Context, p *domprod.Product) error
	Delete(ctx context.Context, p *domprod.Product) error
	ListByFilter(ctx context.Context, scope domain.Scope, f filter.Filter) ([]domprod.Product, error)
	Categories(ctx context.Context, scope domain.Scope) ([]string, error)
}

// EmbeddingInvalidator drops a product's stored embedding when its text
// fields change.
type EmbeddingInvalidator interface {
	Invalidate(ctx context.Context, productID string) error
}
