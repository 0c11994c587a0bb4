package db

import (
	"context"
	"time"
)

// Store is the full database facade. Repositories consume narrow interfaces
// of their own; Store exists for wiring and lifecycle management.
type Store interface {
	Pinger
	KVStore
	HashStore
	Keyspace

	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KVStore reads and writes opaque byte values.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetNX(ctx context.Context, key string, value []byte) (bool, error)
}

// HashSetItem is one key+fields pair of a pipelined HSET batch.
type HashSetItem struct {
	Key    string
	Fields map[string]string
}

// HashStore reads and writes string-field hashes, singly or batched.
type HashStore interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HSetMulti(ctx context.Context, items []HashSetItem) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
}

// Keyspace covers operations on keys regardless of value type.
type Keyspace interface {
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}
