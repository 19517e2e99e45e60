package search

import (
	"sort"

	"github.com/chronofeed/chronofeed/internal/domain/entry"
	"github.com/chronofeed/chronofeed/internal/domain/search/mode"
	"github.com/chronofeed/chronofeed/internal/domain/search/result"
)

// Hybrid blending weights and result cap.
const (
	hybridTextWeight   = 0.6
	hybridVectorWeight = 0.4

	// MaxHits is the number of results kept after the score > 0 filter.
	MaxHits = 10
)

// rank scores every candidate entry, drops non-matches, and returns the top
// MaxHits by finalScore. The sort is stable: equal scores keep candidate
// order, so output is deterministic for a fixed input.
//
// queryEmbedding may be nil in hybrid mode (degraded run); vector scores are
// then 0 for every entry, which reduces hybrid to down-weighted text ranking.
func rank(q string, m mode.Mode, entries []entry.Entry, queryEmbedding []float32) []result.Scored {
	hl := newHighlighter(q)

	hits := make([]result.Scored, 0, len(entries))
	for i := range entries {
		e := &entries[i]

		var textScore float64
		if m.UsesText() {
			textScore = scoreLexical(e.Title(), e.Body(), q)
		}

		var vectorScore float64
		if m.UsesVector() && queryEmbedding != nil && e.HasEmbedding() {
			vectorScore = cosineSimilarity(queryEmbedding, e.Embedding())
			if vectorScore < 0 {
				vectorScore = 0
			}
		}

		finalScore := blend(m, textScore, vectorScore)
		if finalScore <= 0 {
			continue
		}

		hits = append(hits, result.New(
			e.ID(), e.ReadableID(), e.Title(), e.Body(), e.Date(),
			textScore, vectorScore, finalScore,
			hl.apply(e.Title()), hl.apply(e.Body()),
		))
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].FinalScore() > hits[j].FinalScore()
	})

	if len(hits) > MaxHits {
		hits = hits[:MaxHits]
	}
	return hits
}

// blend computes finalScore as a pure function of the two scores and the mode.
func blend(m mode.Mode, textScore, vectorScore float64) float64 {
	switch m {
	case mode.Text:
		return textScore
	case mode.Vector:
		return vectorScore
	default:
		return hybridTextWeight*textScore + hybridVectorWeight*vectorScore
	}
}
