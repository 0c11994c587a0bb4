package search

import (
	"context"
	"sort"
	"strings"

	"github.com/kailas-cloud/prodex/internal/domain/product"
	"github.com/kailas-cloud/prodex/internal/domain/search/candidate"
	"github.com/kailas-cloud/prodex/internal/domain/search/method"
	"github.com/kailas-cloud/prodex/internal/domain/search/token"
)

// Full-text match scores: exact full-field > prefix > substring.
const (
	scoreExact     = 100.0
	scorePrefix    = 75.0
	scoreSubstring = 50.0
)

// FulltextMatcher matches the normalized query as a pattern against the
// normalized name, description, category, and SKU fields.
type FulltextMatcher struct{}

// NewFulltextMatcher creates a full-text matcher.
func NewFulltextMatcher() *FulltextMatcher {
	return &FulltextMatcher{}
}

// Method returns the strategy this matcher implements.
func (m *FulltextMatcher) Method() method.Method { return method.Fulltext }

// Match performs case-insensitive exact/prefix/substring matching. Results
// are ranked by match quality; ties broken by shorter matched field, then
// product ID for determinism.
func (m *FulltextMatcher) Match(
	_ context.Context, queryText string, candidates []product.Product,
) ([]candidate.Scored, error) {
	normQuery := token.Normalize(queryText)
	if normQuery == "" {
		return nil, nil
	}

	type hit struct {
		scored   candidate.Scored
		fieldLen int
	}
	var hits []hit

	for i := range candidates {
		p := candidates[i]
		score, fieldLen := bestFieldMatch(normQuery, searchFields(&p))
		if score == 0 {
			continue
		}
		hits = append(hits, hit{
			scored:   candidate.New(p, score, method.Fulltext),
			fieldLen: fieldLen,
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].scored.Score() != hits[j].scored.Score() {
			return hits[i].scored.Score() > hits[j].scored.Score()
		}
		if hits[i].fieldLen != hits[j].fieldLen {
			return hits[i].fieldLen < hits[j].fieldLen
		}
		pi, pj := hits[i].scored.Product(), hits[j].scored.Product()
		return pi.ID() < pj.ID()
	})

	out := make([]candidate.Scored, len(hits))
	for i, h := range hits {
		out[i] = h.scored
	}
	return out, nil
}

// searchFields returns the normalized text fields a product is matched on.
func searchFields(p *product.Product) []string {
	return []string{
		token.Normalize(p.Name()),
		token.Normalize(p.Description()),
		token.Normalize(p.Category()),
		token.Normalize(p.SKU()),
	}
}

// bestFieldMatch returns the best match score across fields and the length
// of the matched field (for tie-breaking).
func bestFieldMatch(normQuery string, fields []string) (float64, int) {
	best := 0.0
	bestLen := 0
	for _, f := range fields {
		if f == "" {
			continue
		}
		var score float64
		switch {
		case f == normQuery:
			score = scoreExact
		case strings.HasPrefix(f, normQuery):
			score = scorePrefix
		case strings.Contains(f, normQuery):
			score = scoreSubstring
		default:
			continue
		}
		if score > best || (score == best && len(f) < bestLen) {
			best = score
			bestLen = len(f)
		}
	}
	return best, bestLen
}
