package search

import (
	"context"
	"sort"
	"strings"

	"github.com/xrash/smetrics"

	"github.com/kailas-cloud/prodex/internal/domain/product"
	"github.com/kailas-cloud/prodex/internal/domain/search/candidate"
	"github.com/kailas-cloud/prodex/internal/domain/search/method"
	"github.com/kailas-cloud/prodex/internal/domain/search/token"
)

// DefaultFuzzyThreshold is the minimum similarity (0-100) a candidate must
// reach. A policy constant, overridable via config.
const DefaultFuzzyThreshold = 60.0

// Jaro-Winkler parameters (standard values).
const (
	jwBoostThreshold = 0.7
	jwPrefixSize     = 4
)

// FuzzyMatcher scores candidates by approximate string similarity, tolerant
// of transpositions and partial overlaps.
type FuzzyMatcher struct {
	threshold float64
}

// NewFuzzyMatcher creates a fuzzy matcher with the given score threshold.
// A non-positive threshold falls back to the default.
func NewFuzzyMatcher(threshold float64) *FuzzyMatcher {
	if threshold <= 0 {
		threshold = DefaultFuzzyThreshold
	}
	return &FuzzyMatcher{threshold: threshold}
}

// Method returns the strategy this matcher implements.
func (m *FuzzyMatcher) Method() method.Method { return method.Fuzzy }

// Match computes a normalized 0-100 similarity between the query and each
// candidate's searchable text, excluding candidates below the threshold.
// Empty or whitespace-only queries yield an empty sequence.
func (m *FuzzyMatcher) Match(
	_ context.Context, queryText string, candidates []product.Product,
) ([]candidate.Scored, error) {
	queryTokens := token.Tokens(queryText)
	if len(queryTokens) == 0 {
		return nil, nil
	}

	var hits []candidate.Scored
	for i := range candidates {
		p := candidates[i]
		score := fuzzyScore(queryTokens, p.SearchText())
		if score < m.threshold {
			continue
		}
		hits = append(hits, candidate.New(p, score, method.Fuzzy))
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

// fuzzyScore rates how closely text resembles the query tokens on a 0-100
// scale. The whole-string similarity is blended with a per-token best-match
// component so a close match on a single word of a longer text still scores
// high (partial overlap tolerance).
func fuzzyScore(queryTokens []string, text string) float64 {
	textTokens := token.Tokens(text)
	if len(textTokens) == 0 {
		return 0
	}

	whole := smetrics.JaroWinkler(
		strings.Join(queryTokens, " "), strings.Join(textTokens, " "),
		jwBoostThreshold, jwPrefixSize,
	)

	var tokenSum float64
	for _, qt := range queryTokens {
		best := 0.0
		for _, tt := range textTokens {
			if s := smetrics.JaroWinkler(qt, tt, jwBoostThreshold, jwPrefixSize); s > best {
				best = s
			}
		}
		tokenSum += best
	}
	tokenAvg := tokenSum / float64(len(queryTokens))

	score := whole
	if tokenAvg > score {
		score = tokenAvg
	}
	return score * 100
}
