package product

import (
	"context"
	"testing"
	"time"

	domprod "github.com/kailas-cloud/prodex/internal/domain/product"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hsetFn         func(ctx context.Context, key string, fields map[string]string) error
	hgetAllFn      func(ctx context.Context, key string) (map[string]string, error)
	hgetAllMultiFn func(ctx context.Context, keys []string) ([]map[string]string, error)
	delFn          func(ctx context.Context, key string) error
	existsFn       func(ctx context.Context, key string) (bool, error)
	scanFn         func(ctx context.Context, pattern string) ([]string, error)
	setNXFn        func(ctx context.Context, key string, value []byte) (bool, error)
}

func (m *mockStore) HSet(ctx context.Context, key string, fields map[string]string) error {
	if m.hsetFn != nil {
		return m.hsetFn(ctx, key, fields)
	}
	return nil
}

func (m *mockStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if m.hgetAllFn != nil {
		return m.hgetAllFn(ctx, key)
	}
	return map[string]string{}, nil
}

func (m *mockStore) HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error) {
	if m.hgetAllMultiFn != nil {
		return m.hgetAllMultiFn(ctx, keys)
	}
	return nil, nil
}

func (m *mockStore) Del(ctx context.Context, key string) error {
	if m.delFn != nil {
		return m.delFn(ctx, key)
	}
	return nil
}

func (m *mockStore) Exists(ctx context.Context, key string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, key)
	}
	return false, nil
}

func (m *mockStore) Scan(ctx context.Context, pattern string) ([]string, error) {
	if m.scanFn != nil {
		return m.scanFn(ctx, pattern)
	}
	return nil, nil
}

func (m *mockStore) SetNX(ctx context.Context, key string, value []byte) (bool, error) {
	if m.setNXFn != nil {
		return m.setNXFn(ctx, key, value)
	}
	return true, nil
}

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestProduct(t *testing.T) domprod.Product {
	t.Helper()
	p, err := domprod.New("user-1", "Gaming Laptop Pro", "RTX graphics", 1999.99, 5,
		"Electronics", "LAP-001", fixedNow)
	if err != nil {
		t.Fatalf("product.New: %v", err)
	}
	return p
}

// storedHash returns a valid persisted hash for parse tests.
func storedHash(owner, name, category string, price string) map[string]string {
	return map[string]string{
		fieldOwner:       owner,
		fieldName:        name,
		fieldDescription: "",
		fieldPrice:       price,
		fieldStock:       "5",
		fieldCategory:    category,
		fieldSKU:         "SKU-1",
		fieldActive:      "true",
		fieldCreatedAt:   fixedNow.Format(time.RFC3339Nano),
		fieldUpdatedAt:   fixedNow.Format(time.RFC3339Nano),
	}
}
