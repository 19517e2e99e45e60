package entry

import (
	"fmt"
	"regexp"

	"github.com/chronofeed/chronofeed/internal/domain/search/filter"
)

// Entry IDs are date-ordinal: YYYY-MM-DD with an optional two-digit suffix
// for multiple entries on one day.
var idRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}(-\d{1,2})?$`)

// MaxBodySize is the maximum entry body size in bytes.
const MaxBodySize = 65536

// Link is an outbound reference attached to an entry.
type Link struct {
	URL   string `json:"url"`
	Label string `json:"label,omitempty"`
}

// Entry is the timeline entry aggregate (immutable value object).
// The embedding is owned by the backfill job and may lag behind the
// title/body content.
type Entry struct {
	id         string
	readableID string
	title      string
	body       string
	date       string
	starred    bool
	tags       map[string][]string
	links      []Link
	embedding  []float32
}

// New validates and creates an Entry.
// ID: date-ordinal form (2025-03-14 or 2025-03-14-02). Tags are keyed by
// known filter types only.
func New(
	id, readableID, title, body, date string,
	starred bool, tags map[string][]string, links []Link,
) (Entry, error) {
	if id == "" {
		return Entry{}, fmt.Errorf("entry ID is required")
	}
	if !idRegex.MatchString(id) {
		return Entry{}, fmt.Errorf("entry ID %q must be date-ordinal (YYYY-MM-DD[-NN])", id)
	}
	if title == "" {
		return Entry{}, fmt.Errorf("title is required")
	}
	if body == "" {
		return Entry{}, fmt.Errorf("body is required")
	}
	if len(body) > MaxBodySize {
		return Entry{}, fmt.Errorf("body too large (max %d bytes)", MaxBodySize)
	}
	for t := range tags {
		if !filter.ValidType(t) {
			return Entry{}, fmt.Errorf("unknown tag type %q", t)
		}
	}

	return Entry{
		id:         id,
		readableID: readableID,
		title:      title,
		body:       body,
		date:       date,
		starred:    starred,
		tags:       cloneTags(tags),
		links:      append([]Link(nil), links...),
	}, nil
}

// Reconstruct creates an Entry without validation (storage hydration).
func Reconstruct(
	id, readableID, title, body, date string,
	starred bool, tags map[string][]string, links []Link, embedding []float32,
) Entry {
	return Entry{
		id: id, readableID: readableID, title: title, body: body, date: date,
		starred: starred, tags: tags, links: links, embedding: embedding,
	}
}

// ID returns the date-ordinal identifier.
func (e *Entry) ID() string { return e.id }

// ReadableID returns the URL slug.
func (e *Entry) ReadableID() string { return e.readableID }

// Title returns the entry title.
func (e *Entry) Title() string { return e.title }

// Body returns the long-form body (may contain markup).
func (e *Entry) Body() string { return e.body }

// Date returns the display date.
func (e *Entry) Date() string { return e.date }

// Starred reports whether the entry is pinned as notable.
func (e *Entry) Starred() bool { return e.starred }

// Tags returns the tag values keyed by filter type.
func (e *Entry) Tags() map[string][]string { return e.tags }

// Links returns the outbound references.
func (e *Entry) Links() []Link { return e.links }

// Embedding returns the dense vector, or nil while the backfill job has not
// processed this entry yet.
func (e *Entry) Embedding() []float32 { return e.embedding }

// HasEmbedding reports whether an embedding is attached.
func (e *Entry) HasEmbedding() bool { return len(e.embedding) > 0 }

// WithEmbedding returns a copy with the given vector set.
func (e *Entry) WithEmbedding(v []float32) Entry {
	c := *e
	c.embedding = v
	return c
}

// EmbeddingInput is the text the backfill job vectorizes: title and body
// combined for better semantic coverage.
func (e *Entry) EmbeddingInput() string { return e.title + " " + e.body }

func cloneTags(tags map[string][]string) map[string][]string {
	if tags == nil {
		return nil
	}
	c := make(map[string][]string, len(tags))
	for t, values := range tags {
		c[t] = append([]string(nil), values...)
	}
	return c
}
