package entry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/chronofeed/chronofeed/internal/db"
	"github.com/chronofeed/chronofeed/internal/domain"
	domentry "github.com/chronofeed/chronofeed/internal/domain/entry"
	"github.com/chronofeed/chronofeed/internal/domain/search/filter"
)

// store is the consumer interface for entries (ISP).
type store interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	JSONGetMulti(ctx context.Context, keys []string) ([][]byte, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SAdd(ctx context.Context, key string, members ...string) error
	SRem(ctx context.Context, key string, members ...string) error
	SMembers(ctx context.Context, key string) ([]string, error)
	ZAdd(ctx context.Context, key, member string, score float64) error
	ZRem(ctx context.Context, key string, members ...string) error
	ZRangeByScore(ctx context.Context, key string, min, max string, rev bool, limit int) ([]string, error)
}

// Repo persists entries as JSON documents plus derived indexes: a
// date-ordered timeline sorted set, one membership set per tag value, a
// starred set, and a readable-ID lookup.
type Repo struct {
	store store
}

// New creates an entry repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Upsert creates or updates an entry and refreshes its index memberships.
// Returns true if created. An update drops the stored embedding: the entry
// must be re-embedded for its new content.
func (r *Repo) Upsert(ctx context.Context, e *domentry.Entry) (bool, error) {
	key := entryKey(e.ID())

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return false, fmt.Errorf("check exists %s: %w", key, err)
	}
	if exists {
		if err := r.removeIndexes(ctx, e.ID()); err != nil {
			return false, err
		}
	}

	data, err := json.Marshal(toDoc(e))
	if err != nil {
		return false, fmt.Errorf("marshal entry: %w", err)
	}
	if err := r.store.JSONSet(ctx, key, "$", data); err != nil {
		return false, fmt.Errorf("json.set %s: %w", key, err)
	}

	if err := r.addIndexes(ctx, e); err != nil {
		return false, err
	}
	return !exists, nil
}

// Get returns an entry by its date-ordinal ID.
func (r *Repo) Get(ctx context.Context, id string) (domentry.Entry, error) {
	raw, err := r.store.JSONGet(ctx, entryKey(id), "$")
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domentry.Entry{}, domain.ErrNotFound
		}
		return domentry.Entry{}, fmt.Errorf("json.get %s: %w", entryKey(id), err)
	}
	doc, err := parseDoc(raw)
	if err != nil {
		return domentry.Entry{}, err
	}
	return fromDoc(doc), nil
}

// GetByReadableID resolves a slug to its entry. IDs already in date-ordinal
// form resolve directly.
func (r *Repo) GetByReadableID(ctx context.Context, readableID string) (domentry.Entry, error) {
	if _, err := idScore(readableID); err == nil {
		return r.Get(ctx, readableID)
	}
	id, err := r.store.Get(ctx, readableKey(readableID))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domentry.Entry{}, domain.ErrNotFound
		}
		return domentry.Entry{}, fmt.Errorf("resolve readable id %q: %w", readableID, err)
	}
	return r.Get(ctx, string(id))
}

// Delete removes an entry and all its index memberships.
func (r *Repo) Delete(ctx context.Context, id string) error {
	if err := r.removeIndexes(ctx, id); err != nil {
		return err
	}
	if err := r.store.Del(ctx, entryKey(id)); err != nil {
		return fmt.Errorf("del %s: %w", entryKey(id), err)
	}
	return nil
}

// SetEmbedding attaches a vector to a stored entry.
func (r *Repo) SetEmbedding(ctx context.Context, id string, vec []float32) error {
	data, err := json.Marshal(vec)
	if err != nil {
		return fmt.Errorf("marshal embedding: %w", err)
	}
	if err := r.store.JSONSet(ctx, entryKey(id), "$.embedding", data); err != nil {
		return fmt.Errorf("json.set embedding %s: %w", id, err)
	}
	return nil
}

// FetchCandidates returns the entries matching the filter set: AND across tag
// types, OR within one type's values. An empty set returns every entry.
func (r *Repo) FetchCandidates(ctx context.Context, filters filter.Set) ([]domentry.Entry, error) {
	ids, err := r.candidateIDs(ctx, filters)
	if err != nil {
		return nil, err
	}
	return r.hydrate(ctx, ids)
}

// FetchStarred returns all starred entries in timeline order.
func (r *Repo) FetchStarred(ctx context.Context) ([]domentry.Entry, error) {
	ids, err := r.store.SMembers(ctx, starredKey())
	if err != nil {
		return nil, fmt.Errorf("smembers starred: %w", err)
	}
	sortIDs(ids, false)
	return r.hydrate(ctx, ids)
}

// ListPage returns one timeline page. cursor is an exclusive entry ID bound
// ("" starts at the newest for descending, the oldest for ascending).
func (r *Repo) ListPage(ctx context.Context, cursor string, asc bool, limit int) ([]domentry.Entry, error) {
	min, max := "-inf", "+inf"
	if cursor != "" {
		score, err := idScore(cursor)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid cursor %q", domain.ErrValidation, cursor)
		}
		bound := "(" + strconv.FormatFloat(score, 'f', -1, 64)
		if asc {
			min = bound
		} else {
			max = bound
		}
	}

	ids, err := r.store.ZRangeByScore(ctx, timelineKey(), min, max, !asc, limit)
	if err != nil {
		return nil, fmt.Errorf("zrange timeline: %w", err)
	}
	return r.hydrate(ctx, ids)
}

func (r *Repo) candidateIDs(ctx context.Context, filters filter.Set) ([]string, error) {
	if filters.IsEmpty() {
		ids, err := r.store.ZRangeByScore(ctx, timelineKey(), "-inf", "+inf", true, 0)
		if err != nil {
			return nil, fmt.Errorf("zrange timeline: %w", err)
		}
		return ids, nil
	}

	var candidates map[string]struct{}
	for _, t := range filters.Types() {
		// OR within one tag type: union of the selected value sets.
		union := make(map[string]struct{})
		for _, v := range filters.Values(t) {
			members, err := r.store.SMembers(ctx, tagKey(t, v))
			if err != nil {
				return nil, fmt.Errorf("smembers %s: %w", tagKey(t, v), err)
			}
			for _, id := range members {
				union[id] = struct{}{}
			}
		}
		// AND across tag types: intersect with the running candidate set.
		if candidates == nil {
			candidates = union
			continue
		}
		for id := range candidates {
			if _, ok := union[id]; !ok {
				delete(candidates, id)
			}
		}
	}

	ids := make([]string, 0, len(candidates))
	for id := range candidates {
		ids = append(ids, id)
	}
	sortIDs(ids, false)
	return ids, nil
}

func (r *Repo) hydrate(ctx context.Context, ids []string) ([]domentry.Entry, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = entryKey(id)
	}
	raws, err := r.store.JSONGetMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("json.mget entries: %w", err)
	}

	entries := make([]domentry.Entry, 0, len(raws))
	for _, raw := range raws {
		if raw == nil {
			// Index ahead of the document; skip the phantom ID.
			continue
		}
		doc, err := parseDoc(raw)
		if err != nil {
			return nil, err
		}
		entries = append(entries, fromDoc(doc))
	}
	return entries, nil
}

func (r *Repo) addIndexes(ctx context.Context, e *domentry.Entry) error {
	score, err := idScore(e.ID())
	if err != nil {
		return fmt.Errorf("score entry ID: %w", err)
	}
	if err := r.store.ZAdd(ctx, timelineKey(), e.ID(), score); err != nil {
		return fmt.Errorf("zadd timeline: %w", err)
	}
	for t, values := range e.Tags() {
		for _, v := range values {
			if err := r.store.SAdd(ctx, tagKey(t, v), e.ID()); err != nil {
				return fmt.Errorf("sadd %s: %w", tagKey(t, v), err)
			}
		}
	}
	if e.Starred() {
		if err := r.store.SAdd(ctx, starredKey(), e.ID()); err != nil {
			return fmt.Errorf("sadd starred: %w", err)
		}
	}
	if e.ReadableID() != "" {
		if err := r.store.Set(ctx, readableKey(e.ReadableID()), []byte(e.ID())); err != nil {
			return fmt.Errorf("set readable id: %w", err)
		}
	}
	return nil
}

// removeIndexes drops every index membership derived from the stored copy of
// the entry. Tolerates a missing document.
func (r *Repo) removeIndexes(ctx context.Context, id string) error {
	old, err := r.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}

	if err := r.store.ZRem(ctx, timelineKey(), id); err != nil {
		return fmt.Errorf("zrem timeline: %w", err)
	}
	for t, values := range old.Tags() {
		for _, v := range values {
			if err := r.store.SRem(ctx, tagKey(t, v), id); err != nil {
				return fmt.Errorf("srem %s: %w", tagKey(t, v), err)
			}
		}
	}
	if err := r.store.SRem(ctx, starredKey(), id); err != nil {
		return fmt.Errorf("srem starred: %w", err)
	}
	if old.ReadableID() != "" {
		if err := r.store.Del(ctx, readableKey(old.ReadableID())); err != nil {
			return fmt.Errorf("del readable id: %w", err)
		}
	}
	return nil
}

func entryKey(id string) string     { return domain.KeyPrefix + "entry:" + id }
func timelineKey() string           { return domain.KeyPrefix + "timeline" }
func starredKey() string            { return domain.KeyPrefix + "starred" }
func tagKey(t, v string) string     { return domain.KeyPrefix + "tag:" + t + ":" + v }
func readableKey(rid string) string { return domain.KeyPrefix + "readable:" + rid }

// idScore maps a date-ordinal ID to a sortable numeric score:
// 2025-03-14-02 -> 2025031402, 2025-03-14 -> 2025031400.
func idScore(id string) (float64, error) {
	parts := strings.Split(id, "-")
	if len(parts) != 3 && len(parts) != 4 {
		return 0, fmt.Errorf("malformed entry ID %q", id)
	}
	ordinal := "0"
	if len(parts) == 4 {
		ordinal = parts[3]
	}
	date := parts[0] + parts[1] + parts[2]
	if len(date) != 8 {
		return 0, fmt.Errorf("malformed entry ID %q", id)
	}
	d, err := strconv.Atoi(date)
	if err != nil {
		return 0, fmt.Errorf("malformed entry ID %q", id)
	}
	n, err := strconv.Atoi(ordinal)
	if err != nil || n < 0 || n > 99 {
		return 0, fmt.Errorf("malformed entry ID %q", id)
	}
	return float64(d*100 + n), nil
}

// sortIDs orders entry IDs by timeline position, newest first unless asc.
func sortIDs(ids []string, asc bool) {
	scores := make(map[string]float64, len(ids))
	for _, id := range ids {
		if s, err := idScore(id); err == nil {
			scores[id] = s
		}
	}
	sort.Slice(ids, func(i, j int) bool {
		if asc {
			return scores[ids[i]] < scores[ids[j]]
		}
		return scores[ids[i]] > scores[ids[j]]
	})
}
