package embindex

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/prodex/internal/db"
	"github.com/kailas-cloud/prodex/internal/domain"
	domprod "github.com/kailas-cloud/prodex/internal/domain/product"
)

const cacheKeyPrefix = "prodex:emb:"

// store is the consumer interface for the embedding index (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, key string) error
}

// Index maps product IDs to their current embeddings. Entries carry a digest
// of the searchable text, so a text change makes the stored vector stale and
// forces recomputation. Reads are safe under concurrency; writes are
// serialized per product ID.
type Index struct {
	embedder   domain.Embedder
	store      store
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates an embedding index backed by the KV store.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	embedder domain.Embedder,
	s store,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *Index {
	return &Index{
		embedder:   embedder,
		store:      s,
		cacheTotal: cacheTotal,
		logger:     logger,
		locks:      make(map[string]*sync.Mutex),
	}
}

// Embedding returns the product's current embedding, computing and caching
// it when absent or stale. Computation for the same product ID is serialized
// so two concurrent writers cannot produce inconsistent entries.
func (x *Index) Embedding(ctx context.Context, p *domprod.Product) ([]float32, error) {
	key := cacheKey(p.ID())
	digest := textDigest(p.SearchText())

	if vec, ok := x.lookup(ctx, key, digest); ok {
		x.incCache("hit")
		return vec, nil
	}
	x.incCache("miss")

	lock := x.keyLock(p.ID())
	lock.Lock()
	defer lock.Unlock()

	// Another writer may have filled the entry while we waited.
	if vec, ok := x.lookup(ctx, key, digest); ok {
		return vec, nil
	}

	result, err := x.embedder.Embed(ctx, p.SearchText())
	if err != nil {
		return nil, fmt.Errorf("embed product %s: %w", p.ID(), err)
	}

	x.put(ctx, key, digest, result.Embedding)
	return result.Embedding, nil
}

// Invalidate drops the stored embedding for a product. Called on product
// update and delete.
func (x *Index) Invalidate(ctx context.Context, productID string) error {
	lock := x.keyLock(productID)
	lock.Lock()
	defer lock.Unlock()

	if err := x.store.Del(ctx, cacheKey(productID)); err != nil {
		return fmt.Errorf("invalidate embedding %s: %w", productID, err)
	}
	return nil
}

func (x *Index) keyLock(productID string) *sync.Mutex {
	x.mu.Lock()
	defer x.mu.Unlock()
	l, ok := x.locks[productID]
	if !ok {
		l = &sync.Mutex{}
		x.locks[productID] = l
	}
	return l
}

func (x *Index) incCache(result string) {
	if x.cacheTotal != nil {
		x.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (x *Index) lookup(ctx context.Context, key string, digest []byte) ([]float32, bool) {
	data, err := x.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			x.logger.Warn("Failed to get stored embedding", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	if len(data) < sha256.Size {
		return nil, false
	}
	if !bytes.Equal(data[:sha256.Size], digest) {
		return nil, false // text changed since the vector was computed
	}

	vec, err := bytesToVector(data[sha256.Size:])
	if err != nil {
		x.logger.Warn("Failed to parse stored embedding", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return vec, true
}

func (x *Index) put(ctx context.Context, key string, digest []byte, vec []float32) {
	data := make([]byte, 0, sha256.Size+len(vec)*4)
	data = append(data, digest...)
	data = append(data, vectorToBytes(vec)...)
	if err := x.store.Set(ctx, key, data); err != nil {
		x.logger.Warn("Failed to store embedding", zap.String("key", key), zap.Error(err))
	}
}

func cacheKey(productID string) string {
	return cacheKeyPrefix + productID
}

func textDigest(text string) []byte {
	h := sha256.Sum256([]byte(text))
	return h[:]
}

func vectorToBytes(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func bytesToVector(data []byte) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("invalid embedding data: len=%d (not multiple of 4)", len(data))
	}
	vec := make([]float32, len(data)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return vec, nil
}
