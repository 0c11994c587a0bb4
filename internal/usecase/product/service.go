package product

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/prodex/internal/domain"
	domprod "github.com/kailas-cloud/prodex/internal/domain/product"
	"github.com/kailas-cloud/prodex/internal/domain/search/filter"
	"github.com/kailas-cloud/prodex/internal/domain/search/query"
	"github.com/kailas-cloud/prodex/internal/logger"
)

// Service handles catalog CRUD, statistics, and category listing.
type Service struct {
	repo  Repository
	index EmbeddingInvalidator // nil when no embedding backend is configured
	now   func() time.Time
}

// New creates a catalog service.
func New(repo Repository, index EmbeddingInvalidator) *Service {
	return &Service{repo: repo, index: index, now: time.Now}
}

// CreateInput carries the fields for a new product.
type CreateInput struct {
	OwnerID       string
	Name          string
	Description   string
	Price         float64
	StockQuantity int
	Category      string
	SKU           string
}

// Create validates and persists a new product. The SKU must be unique.
func (s *Service) Create(ctx context.Context, in CreateInput) (domprod.Product, error) {
	p, err := domprod.New(
		in.OwnerID, in.Name, in.Description,
		in.Price, in.StockQuantity,
		in.Category, in.SKU,
		s.now(),
	)
	if err != nil {
		return domprod.Product{}, err
	}

	if err := s.repo.Create(ctx, &p); err != nil {
		return domprod.Product{}, fmt.Errorf("create product: %w", err)
	}
	return p, nil
}

// Get returns a product by ID.
func (s *Service) Get(ctx context.Context, id string) (domprod.Product, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return domprod.Product{}, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// Update applies a patch to an owned product. SKU is immutable. A change to
// any searchable text field obsoletes the product's stored embedding.
func (s *Service) Update(
	ctx context.Context, callerID, id string, patch domprod.Patch,
) (domprod.Product, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return domprod.Product{}, fmt.Errorf("get product: %w", err)
	}
	if p.OwnerID() != callerID {
		return domprod.Product{}, domain.ErrNotOwner
	}

	textChanged, err := p.Apply(patch, s.now())
	if err != nil {
		return domprod.Product{}, err
	}

	if err := s.repo.Update(ctx, &p); err != nil {
		return domprod.Product{}, fmt.Errorf("update product: %w", err)
	}

	if textChanged {
		s.invalidateEmbedding(ctx, p.ID())
	}
	return p, nil
}

// Delete removes an owned product and its stored embedding.
func (s *Service) Delete(ctx context.Context, callerID, id string) error {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("get product: %w", err)
	}
	if p.OwnerID() != callerID {
		return domain.ErrNotOwner
	}

	if err := s.repo.Delete(ctx, &p); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	s.invalidateEmbedding(ctx, p.ID())
	return nil
}

// List returns the plain catalog listing: products in scope passing the
// filters, ID-ordered, with offset/limit pagination and the total count.
func (s *Service) List(
	ctx context.Context, scope domain.Scope, f filter.Filter, limit, offset int,
) ([]domprod.Product, int, error) {
	if limit < query.MinLimit || limit > query.MaxLimit {
		return nil, 0, fmt.Errorf("%w: limit must be between %d and %d, got %d",
			domain.ErrInvalidPagination, query.MinLimit, query.MaxLimit, limit)
	}
	if offset < 0 {
		return nil, 0, fmt.Errorf("%w: offset must be non-negative, got %d",
			domain.ErrInvalidPagination, offset)
	}
	if err := f.Validate(); err != nil {
		return nil, 0, err
	}

	products, err := s.repo.ListByFilter(ctx, scope, f)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}

	total := len(products)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return products[offset:end], total, nil
}

// Statistics summarizes the products visible in scope.
type Statistics struct {
	TotalProducts    int
	ActiveProducts   int
	InactiveProducts int
	TotalValue       float64
}

// Stats computes catalog statistics: counts and total inventory value
// (price times stock) over the scope.
func (s *Service) Stats(ctx context.Context, scope domain.Scope) (Statistics, error) {
	products, err := s.repo.ListByFilter(ctx, scope, filter.Filter{})
	if err != nil {
		return Statistics{}, fmt.Errorf("load products: %w", err)
	}

	var stats Statistics
	stats.TotalProducts = len(products)
	for i := range products {
		p := &products[i]
		if p.Active() {
			stats.ActiveProducts++
		}
		stats.TotalValue += p.Price() * float64(p.StockQuantity())
	}
	stats.InactiveProducts = stats.TotalProducts - stats.ActiveProducts
	return stats, nil
}

// Categories returns the distinct categories visible in scope.
func (s *Service) Categories(ctx context.Context, scope domain.Scope) ([]string, error) {
	categories, err := s.repo.Categories(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// invalidateEmbedding is best-effort: the index also detects stale entries
// by text digest, so a failed delete cannot serve a stale vector.
func (s *Service) invalidateEmbedding(ctx context.Context, productID string) {
	if s.index == nil {
		return
	}
	if err := s.index.Invalidate(ctx, productID); err != nil {
		logger.FromContext(ctx).Warn("Failed to invalidate embedding",
			zap.String("product_id", productID), zap.Error(err))
	}
}
