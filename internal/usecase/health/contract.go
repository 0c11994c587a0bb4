package health

import "context"

// DBPinger reports whether the product store answers.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// EmbeddingChecker reports whether the embedding provider answers. Optional:
// a nil checker means vector search is not configured.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}
