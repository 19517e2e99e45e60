package queue

import (
	"context"
	"errors"
	"testing"
)

type mockStore struct {
	saddFn     func(ctx context.Context, key string, members ...string) error
	spopFn     func(ctx context.Context, key string, count int) ([]string, error)
	smembersFn func(ctx context.Context, key string) ([]string, error)
}

func (m *mockStore) SAdd(ctx context.Context, key string, members ...string) error {
	if m.saddFn != nil {
		return m.saddFn(ctx, key, members...)
	}
	return nil
}

func (m *mockStore) SPopN(ctx context.Context, key string, count int) ([]string, error) {
	if m.spopFn != nil {
		return m.spopFn(ctx, key, count)
	}
	return nil, nil
}

func (m *mockStore) SMembers(ctx context.Context, key string) ([]string, error) {
	if m.smembersFn != nil {
		return m.smembersFn(ctx, key)
	}
	return nil, nil
}

func TestEnqueue(t *testing.T) {
	var gotKey string
	var gotMembers []string
	store := &mockStore{
		saddFn: func(_ context.Context, key string, members ...string) error {
			gotKey, gotMembers = key, members
			return nil
		},
	}
	repo := New(store)

	if err := repo.Enqueue(context.Background(), "2025-01-01", "2025-01-02"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotKey != "chronofeed:embed_queue" {
		t.Errorf("key = %s", gotKey)
	}
	if len(gotMembers) != 2 {
		t.Errorf("members = %v", gotMembers)
	}
}

func TestPopBatch(t *testing.T) {
	store := &mockStore{
		spopFn: func(_ context.Context, _ string, count int) ([]string, error) {
			if count != 50 {
				t.Errorf("count = %d", count)
			}
			return []string{"2025-01-01"}, nil
		},
	}
	repo := New(store)

	ids, err := repo.PopBatch(context.Background(), 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 1 || ids[0] != "2025-01-01" {
		t.Errorf("ids = %v", ids)
	}
}

func TestRequeue_EmptyIsNoop(t *testing.T) {
	called := false
	store := &mockStore{
		saddFn: func(_ context.Context, _ string, _ ...string) error {
			called = true
			return nil
		},
	}
	repo := New(store)

	if err := repo.Requeue(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if called {
		t.Error("empty requeue must not touch the store")
	}
}

func TestPending(t *testing.T) {
	store := &mockStore{
		smembersFn: func(_ context.Context, _ string) ([]string, error) {
			return []string{"a", "b", "c"}, nil
		},
	}
	repo := New(store)

	n, err := repo.Pending(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 3 {
		t.Errorf("pending = %d, want 3", n)
	}
}

func TestPending_Error(t *testing.T) {
	store := &mockStore{
		smembersFn: func(_ context.Context, _ string) ([]string, error) {
			return nil, errors.New("connection refused")
		},
	}
	repo := New(store)

	if _, err := repo.Pending(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
