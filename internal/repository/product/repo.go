package product

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/kailas-cloud/prodex/internal/db"
	"github.com/kailas-cloud/prodex/internal/domain"
	domprod "github.com/kailas-cloud/prodex/internal/domain/product"
	"github.com/kailas-cloud/prodex/internal/domain/search/filter"
)

const (
	productKeyPrefix = "prodex:product:"
	skuKeyPrefix     = "prodex:sku:"
)

// store is the consumer interface for products (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
	SetNX(ctx context.Context, key string, value []byte) (bool, error)
}

// Repo implements the product storage contracts of the usecase layer.
type Repo struct {
	store store
}

// New creates a product repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Create assigns a store ID, claims the SKU, and persists the product.
// The SKU claim is an atomic SETNX; a lost race surfaces as ErrSKUExists.
func (r *Repo) Create(ctx context.Context, p *domprod.Product) error {
	p.SetID(uuid.NewString())

	claimed, err := r.store.SetNX(ctx, skuKey(p.SKU()), []byte(p.ID()))
	if err != nil {
		return fmt.Errorf("claim sku %s: %w", p.SKU(), storeErr(err))
	}
	if !claimed {
		return fmt.Errorf("sku %s: %w", p.SKU(), domain.ErrSKUExists)
	}

	if err := r.store.HSet(ctx, productKey(p.ID()), buildHashFields(p)); err != nil {
		return fmt.Errorf("hset %s: %w", productKey(p.ID()), storeErr(err))
	}
	return nil
}

// Get returns a product by ID.
func (r *Repo) Get(ctx context.Context, id string) (domprod.Product, error) {
	key := productKey(id)
	m, err := r.store.HGetAll(ctx, key)
	if err != nil {
		return domprod.Product{}, fmt.Errorf("hgetall %s: %w", key, storeErr(err))
	}
	if len(m) == 0 {
		return domprod.Product{}, domain.ErrProductNotFound
	}
	p, err := parseHashFields(id, m)
	if err != nil {
		return domprod.Product{}, fmt.Errorf("parse product %s: %w", id, err)
	}
	return p, nil
}

// Update persists a modified product. SKU never changes, so the claim key
// stays as-is.
func (r *Repo) Update(ctx context.Context, p *domprod.Product) error {
	key := productKey(p.ID())
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists %s: %w", key, storeErr(err))
	}
	if !exists {
		return domain.ErrProductNotFound
	}
	if err := r.store.HSet(ctx, key, buildHashFields(p)); err != nil {
		return fmt.Errorf("hset %s: %w", key, storeErr(err))
	}
	return nil
}

// Delete removes a product and releases its SKU.
func (r *Repo) Delete(ctx context.Context, p *domprod.Product) error {
	key := productKey(p.ID())
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists %s: %w", key, storeErr(err))
	}
	if !exists {
		return domain.ErrProductNotFound
	}
	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w", key, storeErr(err))
	}
	if err := r.store.Del(ctx, skuKey(p.SKU())); err != nil {
		return fmt.Errorf("del sku %s: %w", p.SKU(), storeErr(err))
	}
	return nil
}

// ListByFilter loads the candidate set: every product in scope passing the
// non-text predicates, ordered by ID for reproducibility. Records that fail
// to parse are skipped rather than failing the whole load.
func (r *Repo) ListByFilter(
	ctx context.Context, scope domain.Scope, f filter.Filter,
) ([]domprod.Product, error) {
	keys, err := r.store.Scan(ctx, productKeyPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("scan products: %w", storeErr(err))
	}
	if len(keys) == 0 {
		return nil, nil
	}

	maps, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", storeErr(err))
	}

	products := make([]domprod.Product, 0, len(maps))
	for i, m := range maps {
		if len(m) == 0 {
			continue // deleted between SCAN and HGETALL
		}
		p, err := parseHashFields(extractID(keys[i]), m)
		if err != nil {
			continue
		}
		if !scope.Contains(p.OwnerID()) || !f.Matches(&p) {
			continue
		}
		products = append(products, p)
	}

	sort.Slice(products, func(i, j int) bool {
		return products[i].ID() < products[j].ID()
	})
	return products, nil
}

// Categories returns the distinct non-empty categories visible in scope,
// sorted alphabetically.
func (r *Repo) Categories(ctx context.Context, scope domain.Scope) ([]string, error) {
	products, err := r.ListByFilter(ctx, scope, filter.Filter{})
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var categories []string
	for i := range products {
		c := products[i].Category()
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		categories = append(categories, c)
	}
	sort.Strings(categories)
	return categories, nil
}

func productKey(id string) string { return productKeyPrefix + id }

func skuKey(sku string) string { return skuKeyPrefix + sku }

func extractID(key string) string {
	return strings.TrimPrefix(key, productKeyPrefix)
}

// storeErr marks connectivity-level failures as fatal store unavailability.
func storeErr(err error) error {
	if errors.Is(err, db.ErrKeyNotFound) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
}
