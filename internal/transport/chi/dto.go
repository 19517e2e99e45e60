package chi

import (
	domentry "github.com/chronofeed/chronofeed/internal/domain/entry"
	"github.com/chronofeed/chronofeed/internal/domain/search/result"
	searchuc "github.com/chronofeed/chronofeed/internal/usecase/search"
)

// errorResponse is the JSON error envelope for every non-2xx reply.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

const (
	codeBadRequest       = "bad_request"
	codeValidationFailed = "validation_failed"
	codeNotFound         = "not_found"
	codeUnauthorized     = "unauthorized"
	codeEmbeddingError   = "embedding_provider_error"
	codeStorageError     = "storage_unavailable"
	codeInternalError    = "internal_error"
)

type linkJSON struct {
	URL   string `json:"url"`
	Label string `json:"label,omitempty"`
}

type entryJSON struct {
	ID           string              `json:"id"`
	ReadableID   string              `json:"readable_id,omitempty"`
	Title        string              `json:"title"`
	Body         string              `json:"body"`
	Date         string              `json:"date"`
	Starred      bool                `json:"starred,omitempty"`
	Tags         map[string][]string `json:"tags,omitempty"`
	Links        []linkJSON          `json:"links,omitempty"`
	HasEmbedding bool                `json:"has_embedding"`
}

func entryToJSON(e *domentry.Entry) entryJSON {
	var links []linkJSON
	for _, l := range e.Links() {
		links = append(links, linkJSON{URL: l.URL, Label: l.Label})
	}
	return entryJSON{
		ID:           e.ID(),
		ReadableID:   e.ReadableID(),
		Title:        e.Title(),
		Body:         e.Body(),
		Date:         e.Date(),
		Starred:      e.Starred(),
		Tags:         e.Tags(),
		Links:        links,
		HasEmbedding: e.HasEmbedding(),
	}
}

type entryListResponse struct {
	Entries    []entryJSON `json:"entries"`
	HasNext    bool        `json:"has_next"`
	NextCursor string      `json:"next_cursor,omitempty"`
}

// upsertEntryRequest is the admin authoring payload. The entry ID comes from
// the URL path, never the body.
type upsertEntryRequest struct {
	ReadableID string              `json:"readable_id"`
	Title      string              `json:"title"`
	Body       string              `json:"body"`
	Date       string              `json:"date"`
	Starred    bool                `json:"starred"`
	Tags       map[string][]string `json:"tags"`
	Links      []linkJSON          `json:"links"`
}

func (r upsertEntryRequest) toEntry(id string) (domentry.Entry, error) {
	links := make([]domentry.Link, 0, len(r.Links))
	for _, l := range r.Links {
		links = append(links, domentry.Link{URL: l.URL, Label: l.Label})
	}
	return domentry.New(id, r.ReadableID, r.Title, r.Body, r.Date, r.Starred, r.Tags, links)
}

type searchHitJSON struct {
	ID             string  `json:"id"`
	ReadableID     string  `json:"readable_id,omitempty"`
	Title          string  `json:"title"`
	Body           string  `json:"body"`
	Date           string  `json:"date"`
	TextScore      float64 `json:"text_score"`
	VectorScore    float64 `json:"vector_score"`
	Score          float64 `json:"score"`
	TitleHighlight string  `json:"title_highlight,omitempty"`
	BodyHighlight  string  `json:"body_highlight,omitempty"`
}

type searchStatsJSON struct {
	TotalResults   int    `json:"totalResults"`
	SearchMode     string `json:"searchMode"`
	VectorSearched bool   `json:"vectorSearched"`
	TextSearched   bool   `json:"textSearched"`
	TookMs         int64  `json:"took_ms"`
}

type searchResponseJSON struct {
	Hits  []searchHitJSON `json:"hits"`
	Mode  string          `json:"mode"`
	Query string          `json:"query"`
	Stats searchStatsJSON `json:"stats"`
}

func searchHitToJSON(h *result.Scored) searchHitJSON {
	return searchHitJSON{
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

func searchResponseToJSON(resp searchuc.Response) searchResponseJSON {
	hits := make([]searchHitJSON, len(resp.Hits))
	for i := range resp.Hits {
		hits[i] = searchHitToJSON(&resp.Hits[i])
	}
	return searchResponseJSON{
		Hits:  hits,
		Mode:  string(resp.Mode),
		Query: resp.Query,
		Stats: searchStatsJSON{
			TotalResults:   resp.Stats.TotalResults,
			SearchMode:     string(resp.Stats.SearchMode),
			VectorSearched: resp.Stats.VectorSearched,
			TextSearched:   resp.Stats.TextSearched,
			TookMs:         resp.Stats.Took.Milliseconds(),
		},
	}
}

type backfillResponse struct {
	Processed int      `json:"processed"`
	Succeeded int      `json:"succeeded"`
	Failed    int      `json:"failed"`
	FailedIDs []string `json:"failed_ids,omitempty"`
}

type healthResponse struct {
	Status       string            `json:"status"`
	Checks       map[string]string `json:"checks"`
	QueueBacklog int               `json:"queue_backlog"`
	Version      string            `json:"version"`
}
