package search

import (
	"context"
	"testing"
	"time"

	"github.com/kailas-cloud/prodex/internal/domain"
	"github.com/kailas-cloud/prodex/internal/domain/product"
	"github.com/kailas-cloud/prodex/internal/domain/search/candidate"
	"github.com/kailas-cloud/prodex/internal/domain/search/filter"
	"github.com/kailas-cloud/prodex/internal/domain/search/method"
	"github.com/kailas-cloud/prodex/internal/domain/search/query"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// testCatalog is the shared fixture set. IDs sort in declaration order.
func testCatalog() []product.Product {
	return []product.Product{
		product.Reconstruct("p1", "user-1", "Gaming Laptop Pro",
			"High performance laptop with RTX graphics", 1999.99, 5,
			"Electronics", "LAP-001", true, fixedNow, fixedNow),
		product.Reconstruct("p2", "user-1", "Desktop Computer",
			"Compact office tower", 899.00, 8,
			"Electronics", "DT-010", true, fixedNow.Add(time.Minute), fixedNow.Add(time.Minute)),
		product.Reconstruct("p3", "user-1", "Premium Coffee Beans",
			"Dark roast arabica", 24.99, 100,
			"Grocery", "COF-BEAN", true, fixedNow.Add(2*time.Minute), fixedNow.Add(2*time.Minute)),
		product.Reconstruct("p4", "user-2", "Coffee Maker",
			"Drip brewer with timer", 79.90, 12,
			"Appliances", "COF-MKR", true, fixedNow.Add(3*time.Minute), fixedNow.Add(3*time.Minute)),
		product.Reconstruct("p5", "user-2", "Wireless Mouse",
			"Ergonomic wireless mouse", 29.99, 50,
			"Electronics", "MOU-201", true, fixedNow.Add(4*time.Minute), fixedNow.Add(4*time.Minute)),
	}
}

// --- Mocks ---

type mockRepo struct {
	products []product.Product
	err      error
	calls    int
}

func (m *mockRepo) ListByFilter(
	_ context.Context, scope domain.Scope, f filter.Filter,
) ([]product.Product, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	var out []product.Product
	for i := range m.products {
		p := m.products[i]
		if !scope.Contains(p.OwnerID()) {
			continue
		}
		if !f.Matches(&p) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

type mockMatcher struct {
	m       method.Method
	results []candidate.Scored
	err     error
	called  bool
}

func (m *mockMatcher) Method() method.Method { return m.m }

func (m *mockMatcher) Match(
	_ context.Context, _ string, _ []product.Product,
) ([]candidate.Scored, error) {
	m.called = true
	return m.results, m.err
}

type mockIndex struct {
	embeddings map[string][]float32
	errs       map[string]error
}

func (m *mockIndex) Embedding(_ context.Context, p *product.Product) ([]float32, error) {
	if err, ok := m.errs[p.ID()]; ok {
		return nil, err
	}
	return m.embeddings[p.ID()], nil
}

type mockEmbedder struct {
	vec    []float32
	err    error
	called bool
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	m.called = true
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vec}, nil
}

// --- Helpers ---

func makeQuery(t *testing.T, text string, m method.Method) *query.Query {
	t.Helper()
	q, err := query.New(text, m, filter.Filter{}, "", "", 100, 0)
	if err != nil {
		t.Fatalf("query.New: %v", err)
	}
	return &q
}

func resultIDs(products []product.Product) []string {
	ids := make([]string, len(products))
	for i := range products {
		ids[i] = products[i].ID()
	}
	return ids
}

func scoredIDs(hits []candidate.Scored) []string {
	ids := make([]string, len(hits))
	for i := range hits {
		p := hits[i].Product()
		ids[i] = p.ID()
	}
	return ids
}
