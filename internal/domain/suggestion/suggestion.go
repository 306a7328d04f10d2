// Package suggestion holds the search tracking records: frequency-ranked
// suggestions, append-only analytics events, and saved searches.
package suggestion

import (
	"strings"
	"time"

	"github.com/inkwell-cms/relevance/internal/domain/search/scope"
)

// Normalize maps a raw query onto its suggestion key (lowercase, trimmed).
func Normalize(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// Record is one tracked query. Frequency is incremented and LastUsedAt
// refreshed on every tracked search; records are never deleted by the engine.
type Record struct {
	NormalizedQuery string
	Frequency       int64
	LastUsedAt      time.Time
}

// FiltersSnapshot captures the filters active when a search was tracked.
// Range bounds are nil when the search carried no such bound.
type FiltersSnapshot struct {
	CategoryIDs    []string   `json:"category_ids,omitempty"`
	AuthorIDs      []string   `json:"author_ids,omitempty"`
	Tags           []string   `json:"tags,omitempty"`
	DateFrom       *time.Time `json:"date_from,omitempty"`
	DateTo         *time.Time `json:"date_to,omitempty"`
	ReadingTimeMin *int       `json:"reading_time_min,omitempty"`
	ReadingTimeMax *int       `json:"reading_time_max,omitempty"`
	FeaturedOnly   bool       `json:"featured_only,omitempty"`
}

// Event is a write-once analytics record of a single search.
type Event struct {
	ID          string          `json:"id"`
	Query       string          `json:"query"`
	Scope       scope.Scope     `json:"scope"`
	Filters     FiltersSnapshot `json:"filters"`
	ResultCount int             `json:"result_count"`
	LatencyMs   int64           `json:"latency_ms"`
	Timestamp   time.Time       `json:"timestamp"`
}

// SavedSearch is a named, re-runnable search owned by a session.
type SavedSearch struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Query     string          `json:"query"`
	Filters   FiltersSnapshot `json:"filters"`
	SessionID string          `json:"session_id"`
	IsPublic  bool            `json:"is_public"`
	CreatedAt time.Time       `json:"created_at"`
}
