package entry

import (
	"context"
	"fmt"

	domentry "github.com/chronofeed/chronofeed/internal/domain/entry"
	"github.com/chronofeed/chronofeed/internal/domain/search/filter"
)

// Pagination limits for timeline listing.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// ListRequest selects one timeline page.
type ListRequest struct {
	Limit   int
	Asc     bool
	Cursor  string
	Starred bool
	Filters filter.Set
}

// Page is one timeline page. HasNext reports whether entries remain past the
// returned page.
type Page struct {
	Entries []domentry.Entry
	HasNext bool
}

// Service handles entry reads and admin authoring writes.
type Service struct {
	repo  Repository
	queue Enqueuer
}

// New creates an entry service.
func New(repo Repository, queue Enqueuer) *Service {
	return &Service{repo: repo, queue: queue}
}

// List returns one timeline page, newest first unless Asc. The starred flag
// and tag filters narrow the set before pagination.
func (s *Service) List(ctx context.Context, req ListRequest) (Page, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	// Unfiltered listing pages straight off the timeline index; the probe
	// row (limit+1) detects whether another page exists.
	if !req.Starred && req.Filters.IsEmpty() {
		entries, err := s.repo.ListPage(ctx, req.Cursor, req.Asc, limit+1)
		if err != nil {
			return Page{}, fmt.Errorf("list entries: %w", err)
		}
		return makePage(entries, limit), nil
	}

	var (
		entries []domentry.Entry
		err     error
	)
	if req.Starred {
		entries, err = s.repo.FetchStarred(ctx)
	} else {
		entries, err = s.repo.FetchCandidates(ctx, req.Filters)
	}
	if err != nil {
		return Page{}, fmt.Errorf("fetch filtered entries: %w", err)
	}
	if req.Starred && !req.Filters.IsEmpty() {
		kept := entries[:0]
		for _, e := range entries {
			if req.Filters.Matches(e.Tags()) {
				kept = append(kept, e)
			}
		}
		entries = kept
	}

	return paginateInMemory(entries, req.Cursor, req.Asc, limit), nil
}

// Get returns an entry by date-ordinal ID or readable slug.
func (s *Service) Get(ctx context.Context, id string) (domentry.Entry, error) {
	e, err := s.repo.GetByReadableID(ctx, id)
	if err != nil {
		return domentry.Entry{}, fmt.Errorf("get entry %q: %w", id, err)
	}
	return e, nil
}

// Upsert stores an entry and queues it for embedding. Returns true if created.
func (s *Service) Upsert(ctx context.Context, e *domentry.Entry) (bool, error) {
	created, err := s.repo.Upsert(ctx, e)
	if err != nil {
		return false, fmt.Errorf("upsert entry: %w", err)
	}
	if err := s.queue.Enqueue(ctx, e.ID()); err != nil {
		return created, fmt.Errorf("enqueue for embedding: %w", err)
	}
	return created, nil
}

// Delete removes an entry.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return fmt.Errorf("delete entry %q: %w", id, err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete entry %q: %w", id, err)
	}
	return nil
}

func makePage(entries []domentry.Entry, limit int) Page {
	if len(entries) > limit {
		return Page{Entries: entries[:limit], HasNext: true}
	}
	return Page{Entries: entries}
}

// paginateInMemory applies cursor+limit to an already-ordered filtered set.
// Filtered sets are fetched whole (the tag membership sets cannot paginate a
// multi-category intersection), so the page window is cut here.
func paginateInMemory(entries []domentry.Entry, cursor string, asc bool, limit int) Page {
	if asc {
		reverse(entries)
	}

	// A cursor outside the filtered set falls back to start-of-feed.
	start := 0
	if cursor != "" {
		for i, e := range entries {
			if e.ID() == cursor {
				start = i + 1
				break
			}
		}
	}

	end := start + limit
	if end >= len(entries) {
		return Page{Entries: entries[start:]}
	}
	return Page{Entries: entries[start:end], HasNext: true}
}

func reverse(entries []domentry.Entry) {
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
}
