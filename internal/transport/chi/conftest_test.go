package chi

import (
	"context"
	"net/http"
	"testing"

	"go.uber.org/zap"

	"github.com/chronofeed/chronofeed/internal/domain"
	domentry "github.com/chronofeed/chronofeed/internal/domain/entry"
	"github.com/chronofeed/chronofeed/internal/domain/search/filter"
	embeddinguc "github.com/chronofeed/chronofeed/internal/usecase/embedding"
	entryuc "github.com/chronofeed/chronofeed/internal/usecase/entry"
	healthuc "github.com/chronofeed/chronofeed/internal/usecase/health"
	searchuc "github.com/chronofeed/chronofeed/internal/usecase/search"
)

type mockRepo struct {
	upsertFn          func(ctx context.Context, e *domentry.Entry) (bool, error)
	getFn             func(ctx context.Context, id string) (domentry.Entry, error)
	getByReadableFn   func(ctx context.Context, readableID string) (domentry.Entry, error)
	deleteFn          func(ctx context.Context, id string) error
	fetchCandidatesFn func(ctx context.Context, filters filter.Set) ([]domentry.Entry, error)
	fetchStarredFn    func(ctx context.Context) ([]domentry.Entry, error)
	listPageFn        func(ctx context.Context, cursor string, asc bool, limit int) ([]domentry.Entry, error)
	setEmbeddingFn    func(ctx context.Context, id string, vec []float32) error
}

func (m *mockRepo) Upsert(ctx context.Context, e *domentry.Entry) (bool, error) {
	return m.upsertFn(ctx, e)
}

func (m *mockRepo) Get(ctx context.Context, id string) (domentry.Entry, error) {
	return m.getFn(ctx, id)
}

func (m *mockRepo) GetByReadableID(ctx context.Context, readableID string) (domentry.Entry, error) {
	return m.getByReadableFn(ctx, readableID)
}

func (m *mockRepo) Delete(ctx context.Context, id string) error {
	return m.deleteFn(ctx, id)
}

func (m *mockRepo) FetchCandidates(ctx context.Context, filters filter.Set) ([]domentry.Entry, error) {
	return m.fetchCandidatesFn(ctx, filters)
}

func (m *mockRepo) FetchStarred(ctx context.Context) ([]domentry.Entry, error) {
	return m.fetchStarredFn(ctx)
}

func (m *mockRepo) ListPage(ctx context.Context, cursor string, asc bool, limit int) ([]domentry.Entry, error) {
	return m.listPageFn(ctx, cursor, asc, limit)
}

func (m *mockRepo) SetEmbedding(ctx context.Context, id string, vec []float32) error {
	return m.setEmbeddingFn(ctx, id, vec)
}

type mockQueue struct {
	enqueueFn  func(ctx context.Context, ids ...string) error
	popBatchFn func(ctx context.Context, count int) ([]string, error)
	requeueFn  func(ctx context.Context, ids ...string) error
	pendingFn  func(ctx context.Context) (int, error)
}

func (m *mockQueue) Enqueue(ctx context.Context, ids ...string) error {
	if m.enqueueFn != nil {
		return m.enqueueFn(ctx, ids...)
	}
	return nil
}

func (m *mockQueue) PopBatch(ctx context.Context, count int) ([]string, error) {
	if m.popBatchFn != nil {
		return m.popBatchFn(ctx, count)
	}
	return nil, nil
}

func (m *mockQueue) Requeue(ctx context.Context, ids ...string) error {
	if m.requeueFn != nil {
		return m.requeueFn(ctx, ids...)
	}
	return nil
}

func (m *mockQueue) Pending(ctx context.Context) (int, error) {
	if m.pendingFn != nil {
		return m.pendingFn(ctx)
	}
	return 0, nil
}

type mockEmbedder struct {
	embedFn func(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	if m.embedFn != nil {
		return m.embedFn(ctx, text)
	}
	return domain.EmbeddingResult{Embedding: []float32{1, 0}}, nil
}

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(context.Context) error { return m.err }

type mockChecker struct {
	err error
}

func (m *mockChecker) HealthCheck(context.Context) error { return m.err }

// newTestHandler wires real services over the mocks and returns the routed
// handler ready for httptest.
func newTestHandler(t *testing.T, repo *mockRepo, queue *mockQueue, emb *mockEmbedder, adminKeys []string) http.Handler {
	t.Helper()

	searchSvc := searchuc.New(repo, emb)
	entrySvc := entryuc.New(repo, queue)
	backfill := embeddinguc.NewBackfill(queue, repo, emb, zap.NewNop())
	healthSvc := healthuc.New(&mockPinger{}, &mockChecker{}, queue)

	s := NewServer(searchSvc, entrySvc, backfill, healthSvc, zap.NewNop())
	return s.Routes(adminKeys)
}

func testEntry(id, title, body string, embedding []float32) domentry.Entry {
	return domentry.Reconstruct(
		id, "", title, body, id[:10], false,
		map[string][]string{"theme": {"infra"}}, nil, embedding,
	)
}
