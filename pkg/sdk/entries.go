package chronofeed

import (
	"context"
	"fmt"
	"time"

	domentry "github.com/chronofeed/chronofeed/internal/domain/entry"
	"github.com/chronofeed/chronofeed/internal/domain/search/filter"
	entryuc "github.com/chronofeed/chronofeed/internal/usecase/entry"
)

// List returns one timeline page, newest first unless Asc.
func (c *Client) List(ctx context.Context, req ListRequest) (res ListResult, err error) {
	start := time.Now()
	defer func() { c.observe("list", start, err) }()

	filters, err := filter.NewSet(req.Filters)
	if err != nil {
		return ListResult{}, fmt.Errorf("list: %w", err)
	}

	page, err := c.entrySvc.List(ctx, entryuc.ListRequest{
		Limit:   req.Limit,
		Asc:     req.Asc,
		Cursor:  req.Cursor,
		Starred: req.Starred,
		Filters: filters,
	})
	if err != nil {
		return ListResult{}, fmt.Errorf("list: %w", err)
	}

	entries := make([]Entry, len(page.Entries))
	for i := range page.Entries {
		entries[i] = entryFromDomain(&page.Entries[i])
	}
	return ListResult{Entries: entries, HasNext: page.HasNext}, nil
}

// Get returns an entry by date-ordinal ID or readable slug.
func (c *Client) Get(ctx context.Context, id string) (res Entry, err error) {
	start := time.Now()
	defer func() { c.observe("get", start, err) }()

	e, err := c.entrySvc.Get(ctx, id)
	if err != nil {
		return Entry{}, fmt.Errorf("get: %w", err)
	}
	return entryFromDomain(&e), nil
}

// Upsert stores an entry and queues it for embedding. Returns true if created.
func (c *Client) Upsert(ctx context.Context, e Entry) (created bool, err error) {
	start := time.Now()
	defer func() { c.observe("upsert", start, err) }()

	dom, err := entryToDomain(e)
	if err != nil {
		return false, fmt.Errorf("upsert: %w", err)
	}

	created, err = c.entrySvc.Upsert(ctx, &dom)
	if err != nil {
		return false, fmt.Errorf("upsert: %w", err)
	}
	return created, nil
}

// Delete removes an entry by ID.
func (c *Client) Delete(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { c.observe("delete", start, err) }()

	if err = c.entrySvc.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	return nil
}

// RunBackfill embeds up to batchSize queued entries and stores their vectors.
// Pass 0 for the default batch size.
func (c *Client) RunBackfill(ctx context.Context, batchSize int) (res BackfillReport, err error) {
	start := time.Now()
	defer func() { c.observe("backfill", start, err) }()

	report, err := c.backfill.Run(ctx, batchSize)
	if err != nil {
		return BackfillReport{}, fmt.Errorf("backfill: %w", err)
	}

	out := BackfillReport{
		Processed: report.Processed,
		Succeeded: report.Succeeded,
		Failed:    report.Failed,
	}
	for _, item := range report.Items {
		if item.Err != nil {
			out.FailedIDs = append(out.FailedIDs, item.ID)
		}
	}
	return out, nil
}

func entryFromDomain(e *domentry.Entry) Entry {
	var links []Link
	for _, l := range e.Links() {
		links = append(links, Link{URL: l.URL, Label: l.Label})
	}
	return Entry{
		ID:         e.ID(),
		ReadableID: e.ReadableID(),
		Title:      e.Title(),
		Body:       e.Body(),
		Date:       e.Date(),
		Starred:    e.Starred(),
		Tags:       e.Tags(),
		Links:      links,
	}
}

func entryToDomain(e Entry) (domentry.Entry, error) {
	links := make([]domentry.Link, 0, len(e.Links))
	for _, l := range e.Links {
		links = append(links, domentry.Link{URL: l.URL, Label: l.Label})
	}
	return domentry.New(e.ID, e.ReadableID, e.Title, e.Body, e.Date, e.Starred, e.Tags, links)
}
