package embedding

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/chronofeed/chronofeed/internal/domain"
	domentry "github.com/chronofeed/chronofeed/internal/domain/entry"
)

// Backfill batch limits.
const (
	DefaultBatchSize = 50
	MaxBatchSize     = 200
	embedParallelism = 4
)

// Queue is the pending-embedding work queue contract.
type Queue interface {
	PopBatch(ctx context.Context, count int) ([]string, error)
	Requeue(ctx context.Context, ids ...string) error
}

// EntryStore reads entries and attaches their vectors.
type EntryStore interface {
	Get(ctx context.Context, id string) (domentry.Entry, error)
	SetEmbedding(ctx context.Context, id string, vec []float32) error
}

// ItemResult reports the outcome for one queued entry.
type ItemResult struct {
	ID  string
	Err error
}

// Report summarizes one backfill run.
type Report struct {
	Processed int
	Succeeded int
	Failed    int
	Items     []ItemResult
}

// Backfill drains the embedding queue: it claims a batch of entry IDs, embeds
// each entry's title and body, and stores the vector. Per-entry failures are
// collected and the failed IDs requeued; they never abort the run.
type Backfill struct {
	queue   Queue
	entries EntryStore
	embed   domain.Embedder
	logger  *zap.Logger
}

// NewBackfill creates the embedding backfill job.
func NewBackfill(queue Queue, entries EntryStore, embed domain.Embedder, logger *zap.Logger) *Backfill {
	return &Backfill{queue: queue, entries: entries, embed: embed, logger: logger}
}

// Run processes up to batchSize queued entries with bounded parallelism.
// Returns an error only when the queue itself cannot be read.
func (b *Backfill) Run(ctx context.Context, batchSize int) (Report, error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if batchSize > MaxBatchSize {
		batchSize = MaxBatchSize
	}

	ids, err := b.queue.PopBatch(ctx, batchSize)
	if err != nil {
		return Report{}, fmt.Errorf("claim batch: %w", err)
	}
	if len(ids) == 0 {
		return Report{}, nil
	}

	items := make([]ItemResult, len(ids))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(embedParallelism)
	for i, id := range ids {
		g.Go(func() error {
			err := b.processOne(gctx, id)
			mu.Lock()
			items[i] = ItemResult{ID: id, Err: err}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	report := Report{Processed: len(items), Items: items}
	var failed []string
	for _, item := range items {
		if item.Err == nil {
			report.Succeeded++
			continue
		}
		report.Failed++
		// Entries deleted while queued are dropped, everything else retries later.
		if !errors.Is(item.Err, domain.ErrNotFound) {
			failed = append(failed, item.ID)
		}
		b.logger.Warn("entry embedding failed",
			zap.String("entry_id", item.ID), zap.Error(item.Err))
	}

	if len(failed) > 0 {
		if err := b.queue.Requeue(ctx, failed...); err != nil {
			b.logger.Error("failed to requeue entries", zap.Error(err))
		}
	}

	b.logger.Info("embedding backfill run complete",
		zap.Int("processed", report.Processed),
		zap.Int("succeeded", report.Succeeded),
		zap.Int("failed", report.Failed),
	)
	return report, nil
}

func (b *Backfill) processOne(ctx context.Context, id string) error {
	e, err := b.entries.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("load entry: %w", err)
	}

	res, err := b.embed.Embed(ctx, e.EmbeddingInput())
	if err != nil {
		return fmt.Errorf("embed entry: %w", err)
	}

	if err := b.entries.SetEmbedding(ctx, id, res.Embedding); err != nil {
		return fmt.Errorf("store embedding: %w", err)
	}
	return nil
}
