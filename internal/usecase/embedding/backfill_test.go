package embedding

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/chronofeed/chronofeed/internal/domain"
	domentry "github.com/chronofeed/chronofeed/internal/domain/entry"
)

// --- Mocks ---

type mockBackfillQueue struct {
	mu       sync.Mutex
	ids      []string
	popErr   error
	requeued []string
}

func (m *mockBackfillQueue) PopBatch(_ context.Context, count int) ([]string, error) {
	if m.popErr != nil {
		return nil, m.popErr
	}
	if count > len(m.ids) {
		count = len(m.ids)
	}
	batch := m.ids[:count]
	m.ids = m.ids[count:]
	return batch, nil
}

func (m *mockBackfillQueue) Requeue(_ context.Context, ids ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requeued = append(m.requeued, ids...)
	return nil
}

type mockEntryStore struct {
	mu      sync.Mutex
	entries map[string]domentry.Entry
	stored  map[string][]float32
	setErr  error
}

func newMockEntryStore(ids ...string) *mockEntryStore {
	s := &mockEntryStore{
		entries: make(map[string]domentry.Entry),
		stored:  make(map[string][]float32),
	}
	for _, id := range ids {
		s.entries[id] = domentry.Reconstruct(id, "", "title "+id, "body", id, false, nil, nil, nil)
	}
	return s
}

func (m *mockEntryStore) Get(_ context.Context, id string) (domentry.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok {
		return domentry.Entry{}, domain.ErrNotFound
	}
	return e, nil
}

func (m *mockEntryStore) SetEmbedding(_ context.Context, id string, vec []float32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.stored[id] = vec
	return nil
}

type selectiveEmbedder struct {
	mu      sync.Mutex
	failFor map[string]error
	inputs  []string
}

func (s *selectiveEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inputs = append(s.inputs, text)
	for needle, err := range s.failFor {
		if text == needle {
			return domain.EmbeddingResult{}, err
		}
	}
	return domain.EmbeddingResult{Embedding: []float32{0.1, 0.2}}, nil
}

// --- Tests ---

func TestBackfill_EmbedsBatch(t *testing.T) {
	queue := &mockBackfillQueue{ids: []string{"2025-01-01", "2025-01-02"}}
	store := newMockEntryStore("2025-01-01", "2025-01-02")
	job := NewBackfill(queue, store, &selectiveEmbedder{}, zap.NewNop())

	report, err := job.Run(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Processed != 2 || report.Succeeded != 2 || report.Failed != 0 {
		t.Errorf("report = %+v", report)
	}
	if len(store.stored) != 2 {
		t.Errorf("stored %d embeddings, want 2", len(store.stored))
	}
	if len(queue.requeued) != 0 {
		t.Errorf("requeued = %v, want none", queue.requeued)
	}
}

func TestBackfill_EmbedsTitleAndBody(t *testing.T) {
	queue := &mockBackfillQueue{ids: []string{"2025-01-01"}}
	store := newMockEntryStore("2025-01-01")
	embed := &selectiveEmbedder{}
	job := NewBackfill(queue, store, embed, zap.NewNop())

	if _, err := job.Run(context.Background(), 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(embed.inputs) != 1 || embed.inputs[0] != "title 2025-01-01 body" {
		t.Errorf("embed inputs = %v", embed.inputs)
	}
}

func TestBackfill_RequeuesFailures(t *testing.T) {
	queue := &mockBackfillQueue{ids: []string{"2025-01-01", "2025-01-02"}}
	store := newMockEntryStore("2025-01-01", "2025-01-02")
	embed := &selectiveEmbedder{failFor: map[string]error{
		"title 2025-01-02 body": errors.New("provider down"),
	}}
	job := NewBackfill(queue, store, embed, zap.NewNop())

	report, err := job.Run(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Succeeded != 1 || report.Failed != 1 {
		t.Errorf("report = %+v", report)
	}
	if len(queue.requeued) != 1 || queue.requeued[0] != "2025-01-02" {
		t.Errorf("requeued = %v", queue.requeued)
	}
}

func TestBackfill_DropsDeletedEntries(t *testing.T) {
	// 2025-01-02 sits in the queue but was deleted: it fails the run without
	// being requeued.
	queue := &mockBackfillQueue{ids: []string{"2025-01-01", "2025-01-02"}}
	store := newMockEntryStore("2025-01-01")
	job := NewBackfill(queue, store, &selectiveEmbedder{}, zap.NewNop())

	report, err := job.Run(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Failed != 1 {
		t.Errorf("report = %+v", report)
	}
	if len(queue.requeued) != 0 {
		t.Errorf("deleted entries must not be requeued, got %v", queue.requeued)
	}
}

func TestBackfill_EmptyQueue(t *testing.T) {
	queue := &mockBackfillQueue{}
	job := NewBackfill(queue, newMockEntryStore(), &selectiveEmbedder{}, zap.NewNop())

	report, err := job.Run(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Processed != 0 {
		t.Errorf("report = %+v", report)
	}
}

func TestBackfill_QueueErrorIsFatal(t *testing.T) {
	queue := &mockBackfillQueue{popErr: errors.New("connection refused")}
	job := NewBackfill(queue, newMockEntryStore(), &selectiveEmbedder{}, zap.NewNop())

	if _, err := job.Run(context.Background(), 10); err == nil {
		t.Fatal("expected error when the queue cannot be read")
	}
}

func TestBackfill_BatchSizeBounds(t *testing.T) {
	var ids []string
	for i := 0; i < MaxBatchSize+50; i++ {
		ids = append(ids, "2025-01-01")
	}
	queue := &mockBackfillQueue{ids: ids}
	store := newMockEntryStore("2025-01-01")
	job := NewBackfill(queue, store, &selectiveEmbedder{}, zap.NewNop())

	report, err := job.Run(context.Background(), MaxBatchSize*2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Processed != MaxBatchSize {
		t.Errorf("processed = %d, want cap %d", report.Processed, MaxBatchSize)
	}
}

func TestBackfill_ItemsCoverEveryID(t *testing.T) {
	queue := &mockBackfillQueue{ids: []string{"2025-01-01", "2025-01-02", "2025-01-03"}}
	store := newMockEntryStore("2025-01-01", "2025-01-02", "2025-01-03")
	job := NewBackfill(queue, store, &selectiveEmbedder{}, zap.NewNop())

	report, err := job.Run(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := make([]string, len(report.Items))
	for i, item := range report.Items {
		got[i] = item.ID
	}
	sort.Strings(got)
	want := []string{"2025-01-01", "2025-01-02", "2025-01-03"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("items = %v, want %v", got, want)
		}
	}
}
