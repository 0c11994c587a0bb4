package search

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/prodex/internal/domain"
	"github.com/kailas-cloud/prodex/internal/domain/product"
	"github.com/kailas-cloud/prodex/internal/domain/search/candidate"
	"github.com/kailas-cloud/prodex/internal/domain/search/method"
	"github.com/kailas-cloud/prodex/internal/logger"
)

// DefaultEmbedTimeout bounds model inference latency for one search.
const DefaultEmbedTimeout = 5 * time.Second

// VectorMatcher embeds the query and ranks candidates by cosine similarity
// against their indexed embeddings.
type VectorMatcher struct {
	embedder domain.Embedder
	index    EmbeddingIndex
	timeout  time.Duration
}

// NewVectorMatcher creates a vector matcher. A non-positive timeout falls
// back to the default.
func NewVectorMatcher(embedder domain.Embedder, index EmbeddingIndex, timeout time.Duration) *VectorMatcher {
	if timeout <= 0 {
		timeout = DefaultEmbedTimeout
	}
	return &VectorMatcher{embedder: embedder, index: index, timeout: timeout}
}

// Method returns the strategy this matcher implements.
func (m *VectorMatcher) Method() method.Method { return method.Vector }

// Match embeds the query and scores candidates by cosine similarity,
// ranked descending. Backend failure or timeout yields
// domain.ErrSearchBackendUnavailable for the orchestrator to degrade on;
// per-candidate embedding faults skip the candidate instead of aborting.
func (m *VectorMatcher) Match(
	ctx context.Context, queryText string, candidates []product.Product,
) ([]candidate.Scored, error) {
	if queryText == "" {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	result, err := m.embedder.Embed(ctx, queryText)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w: %w", domain.ErrSearchBackendUnavailable, err)
	}
	queryVec := result.Embedding

	log := logger.FromContext(ctx)
	var hits []candidate.Scored
	for i := range candidates {
		p := candidates[i]
		vec, err := m.index.Embedding(ctx, &p)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
				return nil, fmt.Errorf("embedding index timeout: %w: %w",
					domain.ErrSearchBackendUnavailable, err)
			}
			log.Debug("Skipping candidate without embedding",
				zap.String("product_id", p.ID()), zap.Error(err))
			continue
		}
		sim, ok := cosineSimilarity(queryVec, vec)
		if !ok {
			continue
		}
		// Map [-1,1] to 0-100 to line up with the other matchers.
		hits = append(hits, candidate.New(p, (sim+1)/2*100, method.Vector))
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score() != hits[j].Score() {
			return hits[i].Score() > hits[j].Score()
		}
		pi, pj := hits[i].Product(), hits[j].Product()
		return pi.ID() < pj.ID()
	})
	return hits, nil
}

// cosineSimilarity returns the cosine of the angle between two vectors.
// False on dimension mismatch or zero magnitude.
func cosineSimilarity(a, b []float32) (float64, bool) {
	if len(a) == 0 || len(a) != len(b) {
		return 0, false
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0, false
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), true
}
