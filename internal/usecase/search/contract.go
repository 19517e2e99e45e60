package search

import (
	"context"

	"github.com/chronofeed/chronofeed/internal/domain/entry"
	"github.com/chronofeed/chronofeed/internal/domain/search/filter"
)

// EntryReader fetches the candidate entry set for one search invocation.
// The returned slice is an immutable snapshot: filters are applied at fetch,
// ranking never mutates it.
type EntryReader interface {
	FetchCandidates(ctx context.Context, filters filter.Set) ([]entry.Entry, error)
}
