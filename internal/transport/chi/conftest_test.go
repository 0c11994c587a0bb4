package chi

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"testing"
	"time"

	gochi "github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/prodex/internal/domain"
	domprod "github.com/kailas-cloud/prodex/internal/domain/product"
	"github.com/kailas-cloud/prodex/internal/domain/search/filter"
	healthuc "github.com/kailas-cloud/prodex/internal/usecase/health"
	productuc "github.com/kailas-cloud/prodex/internal/usecase/product"
	searchuc "github.com/kailas-cloud/prodex/internal/usecase/search"
)

// memRepo is an in-memory catalog satisfying both usecase repositories.
type memRepo struct {
	mu       sync.Mutex
	products map[string]domprod.Product
	nextID   int
}

func newMemRepo() *memRepo {
	return &memRepo{products: make(map[string]domprod.Product)}
}

func (r *memRepo) Create(_ context.Context, p *domprod.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.products {
		if existing.SKU() == p.SKU() {
			return fmt.Errorf("sku %s: %w", p.SKU(), domain.ErrSKUExists)
		}
	}
	r.nextID++
	p.SetID(fmt.Sprintf("p%03d", r.nextID))
	r.products[p.ID()] = *p
	return nil
}

func (r *memRepo) Get(_ context.Context, id string) (domprod.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return domprod.Product{}, domain.ErrProductNotFound
	}
	return p, nil
}

func (r *memRepo) Update(_ context.Context, p *domprod.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[p.ID()]; !ok {
		return domain.ErrProductNotFound
	}
	r.products[p.ID()] = *p
	return nil
}

func (r *memRepo) Delete(_ context.Context, p *domprod.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[p.ID()]; !ok {
		return domain.ErrProductNotFound
	}
	delete(r.products, p.ID())
	return nil
}

func (r *memRepo) ListByFilter(
	_ context.Context, scope domain.Scope, f filter.Filter,
) ([]domprod.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domprod.Product
	for _, p := range r.products {
		if !scope.Contains(p.OwnerID()) || !f.Matches(&p) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, nil
}

func (r *memRepo) Categories(ctx context.Context, scope domain.Scope) ([]string, error) {
	products, err := r.ListByFilter(ctx, scope, filter.Filter{})
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	var out []string
	for i := range products {
		c := products[i].Category()
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	sort.Strings(out)
	return out, nil
}

type okPinger struct{}

func (okPinger) Ping(_ context.Context) error { return nil }

// testKeys maps bearer tokens to principals for handler tests.
var testKeys = map[string]string{
	"key-alice": "alice",
	"key-bob":   "bob",
}

// newTestHandler wires a full router over an in-memory catalog.
func newTestHandler(t *testing.T) (http.Handler, *memRepo) {
	t.Helper()
	repo := newMemRepo()

	searchSvc := searchuc.New(
		repo,
		searchuc.NewFulltextMatcher(),
		searchuc.NewFuzzyMatcher(searchuc.DefaultFuzzyThreshold),
		nil,
	)
	productSvc := productuc.New(repo, nil)
	healthSvc := healthuc.New(okPinger{}, nil)

	server := NewServer(productSvc, searchSvc, healthSvc, zap.NewNop())

	r := gochi.NewRouter()
	r.Use(BearerAuthMiddleware(testKeys))
	server.Routes(r)
	return r, repo
}

func seedProduct(t *testing.T, repo *memRepo, owner, name, category, sku string, price float64) domprod.Product {
	t.Helper()
	p, err := domprod.New(owner, name, "", price, 5, category, sku,
		time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("product.New: %v", err)
	}
	if err := repo.Create(context.Background(), &p); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return p
}
