package suggest

import (
	"context"
	"time"

	"github.com/inkwell-cms/relevance/internal/domain/suggestion"
)

// Store is the consumer interface for suggestion/analytics persistence (ISP).
type Store interface {
	UpsertSuggestion(ctx context.Context, normalizedQuery string, usedAt time.Time) error
	Suggestions(ctx context.Context, input string, limit int) ([]suggestion.Record, error)
	PopularSearches(ctx context.Context, limit int) ([]suggestion.Record, error)
	AppendEvent(ctx context.Context, event *suggestion.Event) error
	RecentEvents(ctx context.Context, limit int) ([]suggestion.Event, error)
	EventCount(ctx context.Context) (int64, error)
	SaveSearch(ctx context.Context, saved *suggestion.SavedSearch) error
	GetSavedSearch(ctx context.Context, id string) (*suggestion.SavedSearch, error)
}
