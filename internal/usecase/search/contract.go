package search

import (
	"context"

	"github.com/kailas-cloud/prodex/internal/domain"
	"github.com/kailas-cloud/prodex/internal/domain/product"
	"github.com/kailas-cloud/prodex/internal/domain/search/candidate"
	"github.com/kailas-cloud/prodex/internal/domain/search/filter"
	"github.com/kailas-cloud/prodex/internal/domain/search/method"
)

// Repository loads the candidate set for a search invocation. Non-text
// predicates and scope restriction are applied at load time, before any
// text matching.
type Repository interface {
	ListByFilter(ctx context.Context, scope domain.Scope, f filter.Filter) ([]product.Product, error)
}

// EmbeddingIndex resolves per-product embeddings for the vector matcher.
type EmbeddingIndex interface {
	Embedding(ctx context.Context, p *product.Product) ([]float32, error)
}

// Matcher scores candidates against a query and returns them ranked by
// descending relevance. An empty result is not an error.
type Matcher interface {
	Method() method.Method
	Match(ctx context.Context, queryText string, candidates []product.Product) ([]candidate.Scored, error)
}
