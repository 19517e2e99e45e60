package chronofeed

import (
	"context"

	domentry "github.com/chronofeed/chronofeed/internal/domain/entry"
	"github.com/chronofeed/chronofeed/internal/domain/search/query"
	embeddinguc "github.com/chronofeed/chronofeed/internal/usecase/embedding"
	entryuc "github.com/chronofeed/chronofeed/internal/usecase/entry"
	healthuc "github.com/chronofeed/chronofeed/internal/usecase/health"
	searchuc "github.com/chronofeed/chronofeed/internal/usecase/search"
)

// --- searchUseCase mock ---

type mockSearchUC struct {
	searchFn func(ctx context.Context, q *query.Query) (searchuc.Response, error)
}

func (m *mockSearchUC) Search(ctx context.Context, q *query.Query) (searchuc.Response, error) {
	return m.searchFn(ctx, q)
}

// --- entryUseCase mock ---

type mockEntryUC struct {
	listFn   func(ctx context.Context, req entryuc.ListRequest) (entryuc.Page, error)
	getFn    func(ctx context.Context, id string) (domentry.Entry, error)
	upsertFn func(ctx context.Context, e *domentry.Entry) (bool, error)
	deleteFn func(ctx context.Context, id string) error
}

func (m *mockEntryUC) List(ctx context.Context, req entryuc.ListRequest) (entryuc.Page, error) {
	return m.listFn(ctx, req)
}

func (m *mockEntryUC) Get(ctx context.Context, id string) (domentry.Entry, error) {
	return m.getFn(ctx, id)
}

func (m *mockEntryUC) Upsert(ctx context.Context, e *domentry.Entry) (bool, error) {
	return m.upsertFn(ctx, e)
}

func (m *mockEntryUC) Delete(ctx context.Context, id string) error {
	return m.deleteFn(ctx, id)
}

// --- backfillUseCase mock ---

type mockBackfillUC struct {
	runFn func(ctx context.Context, batchSize int) (embeddinguc.Report, error)
}

func (m *mockBackfillUC) Run(ctx context.Context, batchSize int) (embeddinguc.Report, error) {
	return m.runFn(ctx, batchSize)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	checkFn func(ctx context.Context) healthuc.Report
}

func (m *mockHealthUC) Check(ctx context.Context) healthuc.Report {
	return m.checkFn(ctx)
}

// --- Embedder mock ---

type mockEmbedder struct {
	fn func(ctx context.Context, text string) (EmbeddingResult, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) (EmbeddingResult, error) {
	return m.fn(ctx, text)
}
