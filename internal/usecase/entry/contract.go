package entry

import (
	"context"

	domentry "github.com/chronofeed/chronofeed/internal/domain/entry"
	"github.com/chronofeed/chronofeed/internal/domain/search/filter"
)

// Repository is the storage contract for entries.
type Repository interface {
	Upsert(ctx context.Context, e *domentry.Entry) (bool, error)
	Get(ctx context.Context, id string) (domentry.Entry, error)
	GetByReadableID(ctx context.Context, readableID string) (domentry.Entry, error)
	Delete(ctx context.Context, id string) error
	FetchCandidates(ctx context.Context, filters filter.Set) ([]domentry.Entry, error)
	FetchStarred(ctx context.Context) ([]domentry.Entry, error)
	ListPage(ctx context.Context, cursor string, asc bool, limit int) ([]domentry.Entry, error)
}

// Enqueuer marks entries for (re-)embedding after a content change.
type Enqueuer interface {
	Enqueue(ctx context.Context, ids ...string) error
}
