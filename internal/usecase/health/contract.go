package health

import "context"

// StorePinger checks entry store availability.
type StorePinger interface {
	Ping(ctx context.Context) error
}

// EmbeddingChecker checks embedding provider availability.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}

// QueueReader reports the embedding backlog depth.
type QueueReader interface {
	Pending(ctx context.Context) (int, error)
}
