package chronofeed

// SearchMode controls the ranking algorithm.
type SearchMode string

// Search mode constants.
const (
	ModeHybrid SearchMode = "hybrid"
	ModeVector SearchMode = "vector"
	ModeText   SearchMode = "text"
)

// Link is an external reference attached to an entry.
type Link struct {
	URL   string
	Label string
}

// Entry is a timeline entry.
type Entry struct {
	ID         string
	ReadableID string
	Title      string
	Body       string
	Date       string
	Starred    bool
	Tags       map[string][]string
	Links      []Link
}

// SearchRequest describes one search.
// Filters are keyed by tag type (theme, category, server); an entry matches
// when it carries at least one selected value for every filtered type.
type SearchRequest struct {
	Query   string
	Mode    SearchMode
	Filters map[string][]string
}

// SearchHit is a single ranked search result.
type SearchHit struct {
	ID             string
	ReadableID     string
	Title          string
	Body           string
	Date           string
	TextScore      float64
	VectorScore    float64
	Score          float64
	TitleHighlight string
	BodyHighlight  string
}

// SearchStats is the diagnostic metadata of one search.
type SearchStats struct {
	TotalResults   int
	SearchMode     SearchMode
	VectorSearched bool
	TextSearched   bool
	TookMs         int64
}

// SearchResult is the outcome of one search.
type SearchResult struct {
	Hits  []SearchHit
	Mode  SearchMode
	Query string
	Stats SearchStats
}

// ListRequest selects one timeline page.
type ListRequest struct {
	Limit   int
	Asc     bool
	Cursor  string
	Starred bool
	Filters map[string][]string
}

// ListResult is a paginated timeline page.
type ListResult struct {
	Entries []Entry
	HasNext bool
}

// BackfillReport summarizes one embedding backfill run.
type BackfillReport struct {
	Processed int
	Succeeded int
	Failed    int
	FailedIDs []string
}
