package candidate

import (
	"github.com/kailas-cloud/prodex/internal/domain/product"
	"github.com/kailas-cloud/prodex/internal/domain/search/method"
)

// Scored is a product with the relevance score a matcher assigned to it.
// Transient: produced and consumed within one search invocation.
type Scored struct {
	product product.Product
	score   float64
	source  method.Method
}

// New creates a scored candidate.
func New(p product.Product, score float64, source method.Method) Scored {
	return Scored{product: p, score: score, source: source}
}

// Product returns the underlying product.
func (s *Scored) Product() product.Product { return s.product }

// Score returns the relevance score.
func (s *Scored) Score() float64 { return s.score }

// Source returns the matcher that produced the score.
func (s *Scored) Source() method.Method { return s.source }
