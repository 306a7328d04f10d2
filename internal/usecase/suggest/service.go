// Package suggest tracks searches and serves typeahead suggestions, popular
// queries, and saved searches.
package suggest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/inkwell-cms/relevance/internal/domain"
	"github.com/inkwell-cms/relevance/internal/domain/suggestion"
)

// Suggestion list limits.
const (
	DefaultLimit = 10
	MaxLimit     = 50
)

// minInputLen keeps one-character typeahead requests from scanning the whole
// suggestion table.
const minInputLen = 2

// Service implements search tracking and suggestion lookups.
type Service struct {
	store  Store
	logger *zap.Logger
}

// New creates a suggestion service.
func New(store Store, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Track records one executed search: an analytics event always, a suggestion
// upsert only for non-empty queries. Tracking is best-effort; failures are
// logged and swallowed so they never surface to the search caller.
func (s *Service) Track(ctx context.Context, event *suggestion.Event) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	if err := s.store.AppendEvent(ctx, event); err != nil {
		s.logger.Warn("append search event failed", zap.Error(err))
	}

	normalized := suggestion.Normalize(event.Query)
	if normalized == "" {
		return
	}
	if err := s.store.UpsertSuggestion(ctx, normalized, event.Timestamp); err != nil {
		s.logger.Warn("suggestion upsert failed",
			zap.String("query", normalized),
			zap.Error(err),
		)
	}
}

// Suggestions returns tracked queries containing the input, most frequent
// first. Inputs shorter than two characters return nothing.
func (s *Service) Suggestions(ctx context.Context, input string, limit int) ([]suggestion.Record, error) {
	normalized := suggestion.Normalize(input)
	if len([]rune(normalized)) < minInputLen {
		return nil, nil
	}

	records, err := s.store.Suggestions(ctx, normalized, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("%w: suggestions: %w", domain.ErrStoreUnavailable, err)
	}
	return records, nil
}

// PopularSearches returns the globally most frequent tracked queries.
func (s *Service) PopularSearches(ctx context.Context, limit int) ([]suggestion.Record, error) {
	records, err := s.store.PopularSearches(ctx, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("%w: popular searches: %w", domain.ErrStoreUnavailable, err)
	}
	return records, nil
}

// RecentActivity returns the newest tracked search events together with the
// total size of the event log.
func (s *Service) RecentActivity(ctx context.Context, limit int) ([]suggestion.Event, int64, error) {
	events, err := s.store.RecentEvents(ctx, clampLimit(limit))
	if err != nil {
		return nil, 0, fmt.Errorf("%w: recent events: %w", domain.ErrStoreUnavailable, err)
	}
	total, err := s.store.EventCount(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: event count: %w", domain.ErrStoreUnavailable, err)
	}
	return events, total, nil
}

// SaveSearch persists a named, re-runnable search for a session.
func (s *Service) SaveSearch(
	ctx context.Context,
	name, query string,
	filters suggestion.FiltersSnapshot,
	sessionID string,
	isPublic bool,
) (*suggestion.SavedSearch, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: saved search name is required", domain.ErrInvalidQuery)
	}
	if query == "" && emptyFilters(filters) {
		return nil, fmt.Errorf("%w: saved search needs a query or at least one filter", domain.ErrInvalidQuery)
	}

	saved := &suggestion.SavedSearch{
		ID:        uuid.NewString(),
		Name:      name,
		Query:     query,
		Filters:   filters,
		SessionID: sessionID,
		IsPublic:  isPublic,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.SaveSearch(ctx, saved); err != nil {
		return nil, fmt.Errorf("%w: save search: %w", domain.ErrStoreUnavailable, err)
	}
	return saved, nil
}

// SavedSearch returns a previously saved search by ID.
func (s *Service) SavedSearch(ctx context.Context, id string) (*suggestion.SavedSearch, error) {
	saved, err := s.store.GetSavedSearch(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: load saved search: %w", domain.ErrStoreUnavailable, err)
	}
	return saved, nil
}

func emptyFilters(f suggestion.FiltersSnapshot) bool {
	return len(f.CategoryIDs) == 0 && len(f.AuthorIDs) == 0 && len(f.Tags) == 0 &&
		f.DateFrom == nil && f.DateTo == nil &&
		f.ReadingTimeMin == nil && f.ReadingTimeMax == nil &&
		!f.FeaturedOnly
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}
