package search

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/chronofeed/chronofeed/internal/domain"
	"github.com/chronofeed/chronofeed/internal/domain/search/mode"
	"github.com/chronofeed/chronofeed/internal/domain/search/query"
	"github.com/chronofeed/chronofeed/internal/domain/search/result"
	"github.com/chronofeed/chronofeed/internal/logger"
	"github.com/chronofeed/chronofeed/internal/metrics"
)

// Stats is the diagnostic metadata attached to a search response.
type Stats struct {
	TotalResults   int
	SearchMode     mode.Mode
	VectorSearched bool
	TextSearched   bool
	Took           time.Duration
}

// Response is the outcome of one ranked search.
type Response struct {
	Hits  []result.Scored
	Mode  mode.Mode
	Query string
	Stats Stats
}

// Service orchestrates query embedding, candidate fetch, and ranking.
type Service struct {
	entries EntryReader
	embed   domain.Embedder
}

// New creates a search service.
func New(entries EntryReader, embed domain.Embedder) *Service {
	return &Service{entries: entries, embed: embed}
}

// Search ranks the filtered candidate set against a validated query.
//
// Embedding failures are fatal in vector mode. In hybrid mode the search
// degrades to text-only ranking: vector scores are 0 everywhere and the
// response stats report VectorSearched=false. An empty hit list is a valid,
// successful outcome.
func (s *Service) Search(ctx context.Context, q *query.Query) (Response, error) {
	start := time.Now()
	m := q.Mode()

	var queryEmbedding []float32
	vectorSearched := false
	if m.UsesVector() {
		embRes, err := s.embed.Embed(ctx, q.Text())
		switch {
		case err == nil:
			queryEmbedding = embRes.Embedding
			vectorSearched = true
		case m == mode.Vector:
			metrics.SearchRequestsTotal.WithLabelValues(string(m), "error").Inc()
			return Response{}, fmt.Errorf("vectorize query: %w", err)
		default:
			// Hybrid degrades to text-only ranking.
			logger.FromContext(ctx).Warn("embedding unavailable, degrading to text-only search",
				zap.Error(err))
		}
	}

	candidates, err := s.entries.FetchCandidates(ctx, q.Filters())
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(string(m), "error").Inc()
		return Response{}, fmt.Errorf("fetch candidates: %w: %w", domain.ErrStorageUnavailable, err)
	}

	hits := rank(q.Text(), m, candidates, queryEmbedding)

	outcome := "ok"
	if m.UsesVector() && !vectorSearched {
		outcome = "degraded"
	}
	metrics.SearchRequestsTotal.WithLabelValues(string(m), outcome).Inc()

	return Response{
		Hits:  hits,
		Mode:  m,
		Query: q.Text(),
		Stats: Stats{
			TotalResults:   len(hits),
			SearchMode:     m,
			VectorSearched: vectorSearched,
			TextSearched:   m.UsesText(),
			Took:           time.Since(start),
		},
	}, nil
}
