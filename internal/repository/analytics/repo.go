// Package analytics persists search tracking state: the frequency-ranked
// suggestion table (sorted set + last-used hash), the append-only analytics
// event log (list), and saved searches (JSON values).
package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/inkwell-cms/relevance/internal/db"
	"github.com/inkwell-cms/relevance/internal/domain"
	"github.com/inkwell-cms/relevance/internal/domain/suggestion"
)

// store is the consumer interface for analytics state (ISP).
type store interface {
	ZIncrBy(ctx context.Context, key, member string, delta float64) (float64, error)
	ZRevRangeWithScores(ctx context.Context, key string, start, stop int) ([]db.ScoredMember, error)
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	RPush(ctx context.Context, key string, values ...string) error
	LRange(ctx context.Context, key string, start, stop int) ([]string, error)
	LLen(ctx context.Context, key string) (int64, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

const (
	suggestionsKey    = domain.KeyPrefix + "suggestions"
	suggestionMetaKey = domain.KeyPrefix + "suggestion_meta"
	eventsKey         = domain.KeyPrefix + "search_events"
	savedPrefix       = domain.KeyPrefix + "saved:"
)

// Repo implements the suggestion/analytics storage contract.
type Repo struct {
	store store
}

// New creates an analytics repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// UpsertSuggestion increments the frequency of a normalized query and
// refreshes its last-used timestamp. The increment is atomic per key
// (ZINCRBY), so concurrent trackers of the same query never lose updates.
func (r *Repo) UpsertSuggestion(ctx context.Context, normalizedQuery string, usedAt time.Time) error {
	if _, err := r.store.ZIncrBy(ctx, suggestionsKey, normalizedQuery, 1); err != nil {
		return fmt.Errorf("increment suggestion %q: %w", normalizedQuery, err)
	}
	meta := map[string]string{normalizedQuery: usedAt.UTC().Format(time.RFC3339Nano)}
	if err := r.store.HSet(ctx, suggestionMetaKey, meta); err != nil {
		return fmt.Errorf("refresh suggestion meta %q: %w", normalizedQuery, err)
	}
	return nil
}

// Suggestions returns records whose normalized query contains the input,
// ordered by frequency descending.
func (r *Repo) Suggestions(ctx context.Context, input string, limit int) ([]suggestion.Record, error) {
	needle := suggestion.Normalize(input)

	members, err := r.store.ZRevRangeWithScores(ctx, suggestionsKey, 0, -1)
	if err != nil {
		return nil, fmt.Errorf("list suggestions: %w", err)
	}

	meta, err := r.store.HGetAll(ctx, suggestionMetaKey)
	if err != nil {
		return nil, fmt.Errorf("load suggestion meta: %w", err)
	}

	records := make([]suggestion.Record, 0, limit)
	for _, m := range members {
		if needle != "" && !strings.Contains(m.Member, needle) {
			continue
		}
		records = append(records, toRecord(m, meta))
		if len(records) == limit {
			break
		}
	}
	return records, nil
}

// PopularSearches returns the globally most frequent suggestions.
func (r *Repo) PopularSearches(ctx context.Context, limit int) ([]suggestion.Record, error) {
	members, err := r.store.ZRevRangeWithScores(ctx, suggestionsKey, 0, limit-1)
	if err != nil {
		return nil, fmt.Errorf("list popular searches: %w", err)
	}

	meta, err := r.store.HGetAll(ctx, suggestionMetaKey)
	if err != nil {
		return nil, fmt.Errorf("load suggestion meta: %w", err)
	}

	records := make([]suggestion.Record, len(members))
	for i, m := range members {
		records[i] = toRecord(m, meta)
	}
	return records, nil
}

// AppendEvent appends a write-once analytics event to the log.
func (r *Repo) AppendEvent(ctx context.Context, event *suggestion.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := r.store.RPush(ctx, eventsKey, string(data)); err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

// RecentEvents returns up to limit events from the tail of the log, newest
// first. Entries that fail to decode are skipped.
func (r *Repo) RecentEvents(ctx context.Context, limit int) ([]suggestion.Event, error) {
	raw, err := r.store.LRange(ctx, eventsKey, -limit, -1)
	if err != nil {
		return nil, fmt.Errorf("read event log: %w", err)
	}

	events := make([]suggestion.Event, 0, len(raw))
	// LRANGE returns oldest-first within the window.
	for i := len(raw) - 1; i >= 0; i-- {
		var event suggestion.Event
		if err := json.Unmarshal([]byte(raw[i]), &event); err != nil {
			continue
		}
		events = append(events, event)
	}
	return events, nil
}

// EventCount returns the total length of the event log.
func (r *Repo) EventCount(ctx context.Context) (int64, error) {
	n, err := r.store.LLen(ctx, eventsKey)
	if err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return n, nil
}

// SaveSearch persists a named saved search.
func (r *Repo) SaveSearch(ctx context.Context, saved *suggestion.SavedSearch) error {
	data, err := json.Marshal(saved)
	if err != nil {
		return fmt.Errorf("marshal saved search: %w", err)
	}
	if err := r.store.Set(ctx, savedPrefix+saved.ID, data); err != nil {
		return fmt.Errorf("save search %s: %w", saved.ID, err)
	}
	return nil
}

// GetSavedSearch returns a saved search by ID.
func (r *Repo) GetSavedSearch(ctx context.Context, id string) (*suggestion.SavedSearch, error) {
	data, err := r.store.Get(ctx, savedPrefix+id)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("load saved search %s: %w", id, err)
	}

	var saved suggestion.SavedSearch
	if err := json.Unmarshal(data, &saved); err != nil {
		return nil, fmt.Errorf("decode saved search %s: %w", id, err)
	}
	return &saved, nil
}

func toRecord(m db.ScoredMember, meta map[string]string) suggestion.Record {
	rec := suggestion.Record{
		NormalizedQuery: m.Member,
		Frequency:       int64(m.Score),
	}
	if raw, ok := meta[m.Member]; ok {
		if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			rec.LastUsedAt = t
		}
	}
	return rec
}
