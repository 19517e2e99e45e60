package entry

import (
	"encoding/json"
	"fmt"

	domentry "github.com/chronofeed/chronofeed/internal/domain/entry"
)

// entryDoc is the JSON wire shape of an entry in the store.
type entryDoc struct {
	ID         string              `json:"id"`
	ReadableID string              `json:"readable_id,omitempty"`
	Title      string              `json:"title"`
	Body       string              `json:"body"`
	Date       string              `json:"date,omitempty"`
	Starred    bool                `json:"starred,omitempty"`
	Tags       map[string][]string `json:"tags,omitempty"`
	Links      []domentry.Link     `json:"links,omitempty"`
	Embedding  []float32           `json:"embedding,omitempty"`
}

func toDoc(e *domentry.Entry) entryDoc {
	return entryDoc{
		ID:         e.ID(),
		ReadableID: e.ReadableID(),
		Title:      e.Title(),
		Body:       e.Body(),
		Date:       e.Date(),
		Starred:    e.Starred(),
		Tags:       e.Tags(),
		Links:      e.Links(),
		Embedding:  e.Embedding(),
	}
}

func fromDoc(d entryDoc) domentry.Entry {
	return domentry.Reconstruct(
		d.ID, d.ReadableID, d.Title, d.Body, d.Date,
		d.Starred, d.Tags, d.Links, d.Embedding,
	)
}

// parseDoc decodes a JSON.GET result. JSON path queries return an array
// wrapper around the root document.
func parseDoc(raw []byte) (entryDoc, error) {
	var docs []entryDoc
	if err := json.Unmarshal(raw, &docs); err != nil {
		// Root reads without a path come back unwrapped.
		var d entryDoc
		if err2 := json.Unmarshal(raw, &d); err2 == nil {
			return d, nil
		}
		return entryDoc{}, fmt.Errorf("unmarshal entry: %w", err)
	}
	if len(docs) == 0 {
		return entryDoc{}, fmt.Errorf("empty entry document")
	}
	return docs[0], nil
}
