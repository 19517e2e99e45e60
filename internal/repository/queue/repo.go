package queue

import (
	"context"
	"fmt"

	"github.com/chronofeed/chronofeed/internal/domain"
)

// store is the consumer interface for the embedding queue (ISP).
type store interface {
	SAdd(ctx context.Context, key string, members ...string) error
	SPopN(ctx context.Context, key string, count int) ([]string, error)
	SMembers(ctx context.Context, key string) ([]string, error)
}

var queueKey = domain.KeyPrefix + "embed_queue"

// Repo is the pending-embedding work queue. Members are entry IDs whose
// title/body changed since the last embedding run.
type Repo struct {
	store store
}

// New creates an embedding queue repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Enqueue marks entries as needing (re-)embedding. Duplicate IDs collapse.
func (r *Repo) Enqueue(ctx context.Context, ids ...string) error {
	if err := r.store.SAdd(ctx, queueKey, ids...); err != nil {
		return fmt.Errorf("enqueue entries: %w", err)
	}
	return nil
}

// PopBatch atomically claims up to count pending entry IDs.
func (r *Repo) PopBatch(ctx context.Context, count int) ([]string, error) {
	ids, err := r.store.SPopN(ctx, queueKey, count)
	if err != nil {
		return nil, fmt.Errorf("claim queued entries: %w", err)
	}
	return ids, nil
}

// Requeue returns failed IDs to the queue for a later run.
func (r *Repo) Requeue(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	if err := r.store.SAdd(ctx, queueKey, ids...); err != nil {
		return fmt.Errorf("requeue entries: %w", err)
	}
	return nil
}

// Pending returns the number of entries waiting for embeddings.
func (r *Repo) Pending(ctx context.Context) (int, error) {
	ids, err := r.store.SMembers(ctx, queueKey)
	if err != nil {
		return 0, fmt.Errorf("list queued entries: %w", err)
	}
	return len(ids), nil
}
