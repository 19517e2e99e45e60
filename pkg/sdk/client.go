package chronofeed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.uber.org/zap"

	"github.com/chronofeed/chronofeed/internal/db"
	dbRedis "github.com/chronofeed/chronofeed/internal/db/redis"
	"github.com/chronofeed/chronofeed/internal/domain"
	domentry "github.com/chronofeed/chronofeed/internal/domain/entry"
	"github.com/chronofeed/chronofeed/internal/domain/search/query"
	entryrepo "github.com/chronofeed/chronofeed/internal/repository/entry"
	queuerepo "github.com/chronofeed/chronofeed/internal/repository/queue"
	embeddinguc "github.com/chronofeed/chronofeed/internal/usecase/embedding"
	entryuc "github.com/chronofeed/chronofeed/internal/usecase/entry"
	healthuc "github.com/chronofeed/chronofeed/internal/usecase/health"
	searchuc "github.com/chronofeed/chronofeed/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal use case interfaces for test substitution.
type searchUseCase interface {
	Search(ctx context.Context, q *query.Query) (searchuc.Response, error)
}

type entryUseCase interface {
	List(ctx context.Context, req entryuc.ListRequest) (entryuc.Page, error)
	Get(ctx context.Context, id string) (domentry.Entry, error)
	Upsert(ctx context.Context, e *domentry.Entry) (bool, error)
	Delete(ctx context.Context, id string) error
}

type backfillUseCase interface {
	Run(ctx context.Context, batchSize int) (embeddinguc.Report, error)
}

// Client is the chronofeed SDK entry point.
type Client struct {
	store     db.Store
	searchSvc searchUseCase
	entrySvc  entryUseCase
	backfill  backfillUseCase
	healthSvc healthUseCase
	logger    *slog.Logger
}

// New creates a chronofeed Client and connects to the database.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("chronofeed: database address required (use WithRedis)")
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Username: cfg.username,
		Password: cfg.password,
	})
	if err != nil {
		return nil, fmt.Errorf("chronofeed: create store: %w", err)
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("chronofeed: database not ready: %w", err)
	}

	return wireClient(store, cfg), nil
}

func wireClient(store db.Store, cfg *clientConfig) *Client {
	entryRepo := entryrepo.New(store)
	queueRepo := queuerepo.New(store)

	// Embedder: noop if not configured (text mode works, vector returns an error)
	var domEmb domain.Embedder = &noopEmbedder{}
	if cfg.embedder != nil {
		domEmb = &embedderAdapter{inner: cfg.embedder}
	}

	return &Client{
		store:     store,
		searchSvc: searchuc.New(entryRepo, domEmb),
		entrySvc:  entryuc.New(entryRepo, queueRepo),
		backfill:  embeddinguc.NewBackfill(queueRepo, entryRepo, domEmb, zap.NewNop()),
		healthSvc: healthuc.New(store, nil, queueRepo),
		logger:    cfg.logger,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// observe emits one debug or warn log line per SDK operation.
func (c *Client) observe(op string, start time.Time, err error) {
	if c.logger == nil {
		return
	}
	dur := time.Since(start)
	if err != nil {
		c.logger.Warn("operation failed", "op", op, "duration", dur, "error", err)
		return
	}
	c.logger.Debug("operation completed", "op", op, "duration", dur)
}

// embedderAdapter wraps public Embedder to satisfy internal domain.Embedder.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	r, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}
	return domain.EmbeddingResult{
		Embedding:    r.Embedding,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}

// noopEmbedder returns an error on Embed call (used when no embedder configured).
type noopEmbedder struct{}

func (noopEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	return domain.EmbeddingResult{}, fmt.Errorf(
		"chronofeed: embedder not configured (use WithEmbedder for hybrid and vector modes): %w",
		domain.ErrEmbeddingProviderError,
	)
}
