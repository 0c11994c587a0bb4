package search

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/prodex/internal/domain"
	"github.com/kailas-cloud/prodex/internal/domain/product"
	"github.com/kailas-cloud/prodex/internal/domain/search/candidate"
	"github.com/kailas-cloud/prodex/internal/domain/search/filter"
	"github.com/kailas-cloud/prodex/internal/domain/search/method"
	"github.com/kailas-cloud/prodex/internal/domain/search/query"
	"github.com/kailas-cloud/prodex/internal/domain/search/token"
	"github.com/kailas-cloud/prodex/internal/logger"
	"github.com/kailas-cloud/prodex/internal/metrics"
)

// DefaultSuggestLimit caps the number of suggestions returned.
const DefaultSuggestLimit = 10

// Service orchestrates product search: candidate loading, matcher dispatch,
// fallback, ordering, and pagination. Stateless per invocation.
type Service struct {
	repo             Repository
	fulltext         Matcher
	fuzzy            Matcher
	vector           Matcher // nil when no embedding backend is configured
	suggestLimit     int
	suggestThreshold float64
}

// New creates a search service. vector may be nil; vector searches then
// degrade to combined immediately.
func New(repo Repository, fulltext, fuzzy, vector Matcher) *Service {
	return &Service{
		repo:             repo,
		fulltext:         fulltext,
		fuzzy:            fuzzy,
		vector:           vector,
		suggestLimit:     DefaultSuggestLimit,
		suggestThreshold: DefaultFuzzyThreshold,
	}
}

// WithSuggest overrides suggestion limits. Non-positive values keep defaults.
func (s *Service) WithSuggest(limit int, threshold float64) *Service {
	if limit > 0 {
		s.suggestLimit = limit
	}
	if threshold > 0 {
		s.suggestThreshold = threshold
	}
	return s
}

// Methods returns the supported search methods. Static enumeration for the
// read-only discovery endpoint.
func (s *Service) Methods() []method.Method {
	return method.All()
}

// Search executes a search request and returns the requested page plus the
// total count of matches before pagination.
func (s *Service) Search(
	ctx context.Context, scope domain.Scope, q *query.Query,
) ([]product.Product, int, error) {
	metrics.SearchRequestsTotal.WithLabelValues(string(q.Method())).Inc()

	candidates, err := s.repo.ListByFilter(ctx, scope, q.Filters())
	if err != nil {
		return nil, 0, fmt.Errorf("load candidates: %w", err)
	}

	ranked, textMatched, err := s.dispatch(ctx, q, candidates)
	if err != nil {
		return nil, 0, err
	}

	ordered := orderResults(q, candidates, ranked, textMatched)
	total := len(ordered)
	return paginate(ordered, q.Offset(), q.Limit()), total, nil
}

// dispatch runs the matcher(s) selected by the query method. The boolean
// reports whether text matching ran (and therefore produced relevance
// scores); an empty combined query skips matching entirely.
func (s *Service) dispatch(
	ctx context.Context, q *query.Query, candidates []product.Product,
) ([]candidate.Scored, bool, error) {
	switch q.Method() {
	case method.Fulltext:
		ranked, err := s.fulltext.Match(ctx, q.Text(), candidates)
		return ranked, true, err

	case method.Fuzzy:
		ranked, err := s.fuzzy.Match(ctx, q.Text(), candidates)
		return ranked, true, err

	case method.Vector:
		if s.vector == nil {
			s.noteFallback(ctx, errors.New("vector matcher not configured"))
			return s.combined(ctx, q, candidates)
		}
		ranked, err := s.vector.Match(ctx, q.Text(), candidates)
		if err != nil {
			if errors.Is(err, domain.ErrSearchBackendUnavailable) {
				s.noteFallback(ctx, err)
				return s.combined(ctx, q, candidates)
			}
			return nil, false, err
		}
		return ranked, true, nil

	case method.Combined:
		return s.combined(ctx, q, candidates)

	default:
		return nil, false, fmt.Errorf("%w: %q", domain.ErrInvalidSearchMethod, q.Method())
	}
}

// combined runs full-text first and falls back to fuzzy only when full-text
// returned zero results for a non-empty query. An empty query skips text
// matching: all pre-filtered candidates pass through.
func (s *Service) combined(
	ctx context.Context, q *query.Query, candidates []product.Product,
) ([]candidate.Scored, bool, error) {
	if q.IsEmpty() {
		return nil, false, nil
	}

	ranked, err := s.fulltext.Match(ctx, q.Text(), candidates)
	if err != nil {
		return nil, false, err
	}
	if len(ranked) > 0 {
		return ranked, true, nil
	}

	ranked, err = s.fuzzy.Match(ctx, q.Text(), candidates)
	return ranked, true, err
}

// Suggest returns up to the configured number of distinct product names and
// categories in scope whose normalized form starts with or fuzzily resembles
// the prefix, ordered by match quality then alphabetically.
func (s *Service) Suggest(ctx context.Context, scope domain.Scope, prefix string) ([]string, error) {
	normPrefix := token.Normalize(prefix)
	if normPrefix == "" {
		return nil, nil
	}
	prefixTokens := token.Tokens(prefix)

	products, err := s.repo.ListByFilter(ctx, scope, filter.Filter{ActiveOnly: true})
	if err != nil {
		return nil, fmt.Errorf("load suggestions: %w", err)
	}

	type suggestion struct {
		value string
		score float64
	}
	seen := make(map[string]struct{})
	var matches []suggestion

	for i := range products {
		p := products[i]
		for _, value := range []string{p.Name(), p.Category()} {
			norm := token.Normalize(value)
			if norm == "" {
				continue
			}
			if _, ok := seen[norm]; ok {
				continue
			}

			var score float64
			switch {
			case strings.HasPrefix(norm, normPrefix):
				score = scoreExact
			default:
				score = fuzzyScore(prefixTokens, value)
				if score < s.suggestThreshold {
					continue
				}
			}
			seen[norm] = struct{}{}
			matches = append(matches, suggestion{value: value, score: score})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score > matches[j].score
		}
		return matches[i].value < matches[j].value
	})

	if len(matches) > s.suggestLimit {
		matches = matches[:s.suggestLimit]
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.value
	}
	return out, nil
}

func (s *Service) noteFallback(ctx context.Context, cause error) {
	metrics.SearchFallbacksTotal.WithLabelValues(string(method.Vector), string(method.Combined)).Inc()
	logger.FromContext(ctx).Warn("Vector search unavailable, degrading to combined",
		zap.Error(cause))
}

// orderResults produces the final ordered sequence. Relevance order (matcher
// ranking) applies when text matching ran and no explicit sort was
// requested; otherwise the requested field with ties broken by product ID
// ascending for reproducible pagination.
func orderResults(
	q *query.Query, candidates []product.Product, ranked []candidate.Scored, textMatched bool,
) []product.Product {
	var products []product.Product
	if textMatched {
		products = make([]product.Product, len(ranked))
		for i := range ranked {
			products[i] = ranked[i].Product()
		}
	} else {
		// Candidates arrive ID-sorted from the repository.
		products = candidates
	}

	if q.SortBy() == query.SortDefault {
		return products
	}

	sorted := make([]product.Product, len(products))
	copy(sorted, products)
	sort.Slice(sorted, func(i, j int) bool {
		return productLess(&sorted[i], &sorted[j], q.SortBy(), q.SortOrder())
	})
	return sorted
}

func productLess(a, b *product.Product, field query.SortField, order query.SortOrder) bool {
	var c int
	switch field {
	case query.SortName:
		c = strings.Compare(a.Name(), b.Name())
	case query.SortPrice:
		c = compareFloat(a.Price(), b.Price())
	case query.SortStock:
		c = a.StockQuantity() - b.StockQuantity()
	case query.SortCreatedAt:
		c = a.CreatedAt().Compare(b.CreatedAt())
	}
	if c == 0 {
		return a.ID() < b.ID()
	}
	if order == query.Desc {
		return c > 0
	}
	return c < 0
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func paginate(products []product.Product, offset, limit int) []product.Product {
	if offset >= len(products) {
		return nil
	}
	end := offset + limit
	if end > len(products) {
		end = len(products)
	}
	return products[offset:end]
}
