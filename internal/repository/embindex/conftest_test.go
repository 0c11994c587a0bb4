package embindex

import (
	"context"
	"sync"
	"time"

	"github.com/kailas-cloud/prodex/internal/db"
	"github.com/kailas-cloud/prodex/internal/domain"
	domprod "github.com/kailas-cloud/prodex/internal/domain/product"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testProduct(id, name string) domprod.Product {
	return domprod.Reconstruct(id, "user-1", name, "", 10, 1, "", "SKU-"+id,
		true, fixedNow, fixedNow)
}

// memKV is an in-memory KV store, safe for concurrent use.
type memKV struct {
	mu     sync.Mutex
	data   map[string][]byte
	getErr error
	dels   []string
}

func newMemKV() *memKV {
	return &memKV{data: make(map[string][]byte)}
}

func (s *memKV) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	v, ok := s.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (s *memKV) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *memKV) Del(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	s.dels = append(s.dels, key)
	return nil
}

// countingEmbedder returns a fixed vector and counts invocations.
type countingEmbedder struct {
	mu    sync.Mutex
	vec   []float32
	err   error
	calls int
}

func (e *countingEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls++
	if e.err != nil {
		return domain.EmbeddingResult{}, e.err
	}
	return domain.EmbeddingResult{Embedding: e.vec}, nil
}

func (e *countingEmbedder) callCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}
