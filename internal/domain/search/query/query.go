package query

import (
	"fmt"
	"strings"

	"github.com/chronofeed/chronofeed/internal/domain"
	"github.com/chronofeed/chronofeed/internal/domain/search/filter"
	"github.com/chronofeed/chronofeed/internal/domain/search/mode"
)

// Query length limits.
const (
	// MinLength is the shortest searchable query. Shorter input is a
	// "not enough input" state on the caller side, never a search.
	MinLength = 3
	MaxLength = 1024
)

// Query is a validated search request.
type Query struct {
	text       string
	searchMode mode.Mode
	filters    filter.Set
}

// New validates and normalizes search parameters. Mode defaults to hybrid.
func New(text string, m mode.Mode, filters filter.Set) (Query, error) {
	text = strings.TrimSpace(text)
	if len(text) < MinLength {
		return Query{}, fmt.Errorf("%w: query must be at least %d characters", domain.ErrValidation, MinLength)
	}
	if len(text) > MaxLength {
		return Query{}, fmt.Errorf("%w: query too long (max %d chars)", domain.ErrValidation, MaxLength)
	}
	if m == "" {
		m = mode.Hybrid
	}
	if !m.IsValid() {
		return Query{}, fmt.Errorf("%w: invalid search mode %q", domain.ErrValidation, m)
	}
	return Query{text: text, searchMode: m, filters: filters}, nil
}

// Text returns the search query text.
func (q *Query) Text() string { return q.text }

// Mode returns the search strategy.
func (q *Query) Mode() mode.Mode { return q.searchMode }

// Filters returns the candidate-narrowing filter set.
func (q *Query) Filters() filter.Set { return q.filters }
