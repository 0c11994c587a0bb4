package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/prodex/internal/domain"
)

func TestVector_RanksByCosineSimilarity(t *testing.T) {
	embed := &mockEmbedder{vec: []float32{1, 0}}
	index := &mockIndex{embeddings: map[string][]float32{
		"p1": {1, 0},  // similarity 1
		"p2": {0, 1},  // similarity 0
		"p3": {-1, 0}, // similarity -1
	}}
	m := NewVectorMatcher(embed, index, time.Second)

	hits, err := m.Match(context.Background(), "laptop", testCatalog()[:3])
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if len(hits) != 3 {
		t.Fatalf("expected 3 hits, got %d", len(hits))
	}
	got := scoredIDs(hits)
	want := []string{"p1", "p2", "p3"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ranking = %v, want %v", got, want)
		}
	}
	if hits[0].Score() != 100 {
		t.Errorf("identical vector score = %v, want 100", hits[0].Score())
	}
	if hits[1].Score() != 50 {
		t.Errorf("orthogonal vector score = %v, want 50", hits[1].Score())
	}
	if hits[2].Score() != 0 {
		t.Errorf("opposite vector score = %v, want 0", hits[2].Score())
	}
}

func TestVector_EmbedderFailureIsBackendUnavailable(t *testing.T) {
	embed := &mockEmbedder{err: errors.New("connection refused")}
	m := NewVectorMatcher(embed, &mockIndex{}, time.Second)

	_, err := m.Match(context.Background(), "laptop", testCatalog())
	if !errors.Is(err, domain.ErrSearchBackendUnavailable) {
		t.Errorf("expected ErrSearchBackendUnavailable, got %v", err)
	}
}

func TestVector_SkipsCandidateWithoutEmbedding(t *testing.T) {
	embed := &mockEmbedder{vec: []float32{1, 0}}
	index := &mockIndex{
		embeddings: map[string][]float32{"p1": {1, 0}},
		errs:       map[string]error{"p2": errors.New("provider rejected input")},
	}
	m := NewVectorMatcher(embed, index, time.Second)

	hits, err := m.Match(context.Background(), "laptop", testCatalog()[:2])
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("expected 1 hit, got %d", len(hits))
	}
	p := hits[0].Product()
	if p.ID() != "p1" {
		t.Errorf("hit = %s, want p1", p.ID())
	}
}

func TestVector_IndexTimeoutIsBackendUnavailable(t *testing.T) {
	embed := &mockEmbedder{vec: []float32{1, 0}}
	index := &mockIndex{errs: map[string]error{"p1": context.DeadlineExceeded}}
	m := NewVectorMatcher(embed, index, time.Second)

	_, err := m.Match(context.Background(), "laptop", testCatalog()[:1])
	if !errors.Is(err, domain.ErrSearchBackendUnavailable) {
		t.Errorf("expected ErrSearchBackendUnavailable, got %v", err)
	}
}

func TestVector_SkipsDimensionMismatch(t *testing.T) {
	embed := &mockEmbedder{vec: []float32{1, 0}}
	index := &mockIndex{embeddings: map[string][]float32{
		"p1": {1, 0, 0},
		"p2": {1, 0},
	}}
	m := NewVectorMatcher(embed, index, time.Second)

	hits, err := m.Match(context.Background(), "laptop", testCatalog()[:2])
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("expected mismatched vector skipped, got %d hits", len(hits))
	}
}

func TestVector_EmptyQuery(t *testing.T) {
	embed := &mockEmbedder{vec: []float32{1, 0}}
	m := NewVectorMatcher(embed, &mockIndex{}, time.Second)

	hits, err := m.Match(context.Background(), "", testCatalog())
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if hits != nil {
		t.Errorf("empty query should yield nil, got %v", scoredIDs(hits))
	}
	if embed.called {
		t.Error("embedder should not be called for empty query")
	}
}

func TestCosineSimilarity(t *testing.T) {
	if sim, ok := cosineSimilarity([]float32{1, 0}, []float32{1, 0}); !ok || sim != 1 {
		t.Errorf("identical vectors: sim=%v ok=%v", sim, ok)
	}
	if sim, ok := cosineSimilarity([]float32{1, 0}, []float32{-1, 0}); !ok || sim != -1 {
		t.Errorf("opposite vectors: sim=%v ok=%v", sim, ok)
	}
	if _, ok := cosineSimilarity([]float32{1, 0}, []float32{1, 0, 0}); ok {
		t.Error("dimension mismatch should not be ok")
	}
	if _, ok := cosineSimilarity([]float32{0, 0}, []float32{1, 0}); ok {
		t.Error("zero vector should not be ok")
	}
	if _, ok := cosineSimilarity(nil, nil); ok {
		t.Error("empty vectors should not be ok")
	}
}
