// Package options holds the validated search request parameters.
package options

import (
	"fmt"
	"time"

	"github.com/inkwell-cms/relevance/internal/domain/search/scope"
)

// Search parameter limits.
const (
	MaxQueryLength = 1024
	DefaultLimit   = 20
	MaxLimit       = 100
)

// SortBy selects the result ordering key.
type SortBy string

// Supported sort keys.
const (
	SortRelevance   SortBy = "relevance"
	SortPublishedAt SortBy = "publishedAt"
	SortTitle       SortBy = "title"
	SortReadingTime SortBy = "readingTime"
	SortViewCount   SortBy = "viewCount"
)

// IsValid reports whether s is a known sort key.
func (s SortBy) IsValid() bool {
	switch s {
	case SortRelevance, SortPublishedAt, SortTitle, SortReadingTime, SortViewCount:
		return true
	}
	return false
}

// SortOrder is the ordering direction.
type SortOrder string

// Ordering directions.
const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

// DateRange bounds publication dates (either side may be nil).
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// IntRange bounds an integer attribute (either side may be nil).
type IntRange struct {
	Min *int
	Max *int
}

// Options is a validated search request.
type Options struct {
	query            string
	searchScope      scope.Scope
	categoryIDs      []string
	authorIDs        []string
	tags             []string
	dateRange        DateRange
	readingTimeRange IntRange
	sortBy           SortBy
	sortOrder        SortOrder
	limit            int
	offset           int
	featuredOnly     bool
	includeDrafts    bool
}

// New validates and normalizes search parameters.
// Defaults: scope=all, sortBy=relevance for non-empty queries and publishedAt
// otherwise, sortOrder=desc, limit=20 (capped at 100), offset=0.
func New(
	query string,
	sc scope.Scope,
	categoryIDs, authorIDs, tags []string,
	dateRange DateRange,
	readingTimeRange IntRange,
	sortBy SortBy,
	sortOrder SortOrder,
	limit, offset int,
	featuredOnly, includeDrafts bool,
) (Options, error) {
	if len(query) > MaxQueryLength {
		return Options{}, fmt.Errorf("query too long (max %d chars)", MaxQueryLength)
	}
	if sc == "" {
		sc = scope.All
	}
	if !sc.IsValid() {
		return Options{}, fmt.Errorf("invalid search scope %q", sc)
	}
	if sortBy == "" {
		if query != "" {
			sortBy = SortRelevance
		} else {
			sortBy = SortPublishedAt
		}
	}
	if !sortBy.IsValid() {
		return Options{}, fmt.Errorf("invalid sort key %q", sortBy)
	}
	switch sortOrder {
	case "":
		sortOrder = Desc
	case Asc, Desc:
	default:
		return Options{}, fmt.Errorf("invalid sort order %q", sortOrder)
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		return Options{}, fmt.Errorf("offset must not be negative")
	}
	if dateRange.From != nil && dateRange.To != nil && dateRange.To.Before(*dateRange.From) {
		return Options{}, fmt.Errorf("date range end before start")
	}
	if err := validateIntRange(readingTimeRange); err != nil {
		return Options{}, fmt.Errorf("reading time range: %w", err)
	}

	return Options{
		query:            query,
		searchScope:      sc,
		categoryIDs:      categoryIDs,
		authorIDs:        authorIDs,
		tags:             tags,
		dateRange:        dateRange,
		readingTimeRange: readingTimeRange,
		sortBy:           sortBy,
		sortOrder:        sortOrder,
		limit:            limit,
		offset:           offset,
		featuredOnly:     featuredOnly,
		includeDrafts:    includeDrafts,
	}, nil
}

func validateIntRange(r IntRange) error {
	if r.Min != nil && *r.Min < 0 {
		return fmt.Errorf("min must not be negative")
	}
	if r.Min != nil && r.Max != nil && *r.Max < *r.Min {
		return fmt.Errorf("max below min")
	}
	return nil
}

// Query returns the raw query text ("" for browse-style requests).
func (o *Options) Query() string { return o.query }

// Scope returns the field scope.
func (o *Options) Scope() scope.Scope { return o.searchScope }

// CategoryIDs returns the category filter set (empty means no filter).
func (o *Options) CategoryIDs() []string { return o.categoryIDs }

// AuthorIDs returns the author filter set.
func (o *Options) AuthorIDs() []string { return o.authorIDs }

// Tags returns the tag filter set.
func (o *Options) Tags() []string { return o.tags }

// DateRange returns the publication date bounds.
func (o *Options) DateRange() DateRange { return o.dateRange }

// ReadingTimeRange returns the reading time bounds in minutes.
func (o *Options) ReadingTimeRange() IntRange { return o.readingTimeRange }

// SortBy returns the ordering key.
func (o *Options) SortBy() SortBy { return o.sortBy }

// SortOrder returns the ordering direction.
func (o *Options) SortOrder() SortOrder { return o.sortOrder }

// Limit returns the page size.
func (o *Options) Limit() int { return o.limit }

// Offset returns the pagination offset.
func (o *Options) Offset() int { return o.offset }

// FeaturedOnly reports whether only featured documents match.
func (o *Options) FeaturedOnly() bool { return o.featuredOnly }

// IncludeDrafts reports whether the published-only filter is lifted.
func (o *Options) IncludeDrafts() bool { return o.includeDrafts }
