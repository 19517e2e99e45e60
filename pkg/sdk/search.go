package chronofeed

import (
	"context"
	"fmt"
	"time"

	"github.com/chronofeed/chronofeed/internal/domain/search/filter"
	"github.com/chronofeed/chronofeed/internal/domain/search/mode"
	"github.com/chronofeed/chronofeed/internal/domain/search/query"
)

// Search runs a ranked search over the timeline.
// The mode defaults to hybrid; queries shorter than three characters after
// trimming fail with ErrValidation.
func (c *Client) Search(ctx context.Context, req SearchRequest) (res SearchResult, err error) {
	start := time.Now()
	defer func() { c.observe("search", start, err) }()

	filters, err := filter.NewSet(req.Filters)
	if err != nil {
		return SearchResult{}, fmt.Errorf("search: %w", err)
	}

	q, err := query.New(req.Query, mode.Mode(req.Mode), filters)
	if err != nil {
		return SearchResult{}, fmt.Errorf("search: %w", err)
	}

	resp, err := c.searchSvc.Search(ctx, &q)
	if err != nil {
		return SearchResult{}, fmt.Errorf("search: %w", err)
	}

	hits := make([]SearchHit, len(resp.Hits))
	for i := range resp.Hits {
		h := &resp.Hits[i]
		hits[i] = SearchHit{
			ID:             h.ID(),
			ReadableID:     h.ReadableID(),
			Title:          h.Title(),
			Body:           h.Body(),
			Date:           h.Date(),
			TextScore:      h.TextScore(),
			VectorScore:    h.VectorScore(),
			Score:          h.FinalScore(),
			TitleHighlight: h.TitleHighlight(),
			BodyHighlight:  h.BodyHighlight(),
		}
	}

	return SearchResult{
		Hits:  hits,
		Mode:  SearchMode(resp.Mode),
		Query: resp.Query,
		Stats: SearchStats{
			TotalResults:   resp.Stats.TotalResults,
			SearchMode:     SearchMode(resp.Stats.SearchMode),
			VectorSearched: resp.Stats.VectorSearched,
			TextSearched:   resp.Stats.TextSearched,
			TookMs:         resp.Stats.Took.Milliseconds(),
		},
	}, nil
}
