// Package search implements the query engine: corpus filtering, field-weighted
// relevance ranking, facet aggregation, and snippet extraction.
package search

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/inkwell-cms/relevance/internal/domain"
	domdoc "github.com/inkwell-cms/relevance/internal/domain/document"
	"github.com/inkwell-cms/relevance/internal/domain/document/block"
	"github.com/inkwell-cms/relevance/internal/domain/search/options"
	"github.com/inkwell-cms/relevance/internal/domain/search/result"
	"github.com/inkwell-cms/relevance/internal/domain/suggestion"
)

// Service executes searches against a corpus snapshot. Every call is a pure
// function of the snapshot and the options; the service itself holds no
// per-search state and is safe for concurrent use.
type Service struct {
	corpus     CorpusLister
	tracker    Tracker
	labels     LabelFunc
	snippetCfg SnippetConfig
	logger     *zap.Logger

	searchesTotal  *prometheus.CounterVec
	searchDuration prometheus.Observer
	zeroResults    prometheus.Counter
}

// New creates a search service. tracker may be nil to disable analytics.
func New(corpus CorpusLister, tracker Tracker, logger *zap.Logger) *Service {
	return &Service{
		corpus:     corpus,
		tracker:    tracker,
		snippetCfg: DefaultSnippetConfig(),
		logger:     logger,
	}
}

// WithSnippetConfig overrides the snippet bound and markers.
func (s *Service) WithSnippetConfig(cfg SnippetConfig) *Service {
	s.snippetCfg = cfg
	return s
}

// WithLabels installs a facet label resolver.
func (s *Service) WithLabels(labels LabelFunc) *Service {
	s.labels = labels
	return s
}

// WithMetrics installs engine metrics, passed explicitly (no globals).
func (s *Service) WithMetrics(
	searchesTotal *prometheus.CounterVec,
	duration prometheus.Observer,
	zeroResults prometheus.Counter,
) *Service {
	s.searchesTotal = searchesTotal
	s.searchDuration = duration
	s.zeroResults = zeroResults
	return s
}

// Search filters, ranks, and paginates the corpus for the given options.
// A query with no matches is a normal empty response, never an error.
func (s *Service) Search(ctx context.Context, opts *options.Options) (result.Response, error) {
	start := time.Now()

	docs, err := s.corpus.List(ctx)
	if err != nil {
		return result.Response{}, fmt.Errorf("%w: list corpus: %w", domain.ErrStoreUnavailable, err)
	}

	terms := block.Tokenize(opts.Query())

	filtered := make([]scoredDoc, 0, len(docs))
	for i := range docs {
		doc := docs[i]
		if !matchesFilters(&doc, opts) {
			continue
		}
		sd := scoredDoc{doc: doc}
		if len(terms) > 0 {
			sd.bodyText, _ = doc.BodyText()
			if !matchesQuery(&sd, terms, opts.Scope()) {
				continue
			}
			sd.score = scoreDocument(&sd, terms)
		}
		filtered = append(filtered, sd)
	}

	total := len(filtered)
	facets := computeFacets(filtered, s.labels)

	sortResults(filtered, opts)
	page := paginate(filtered, opts.Offset(), opts.Limit())

	h := newHighlighter(s.snippetCfg, terms)
	results := make([]result.Result, len(page))
	for i := range page {
		sd := &page[i]
		if sd.bodyText == "" && len(sd.doc.Body()) > 0 {
			sd.bodyText, _ = sd.doc.BodyText()
		}
		snippet := buildSnippet(&sd.doc, sd.bodyText, terms, h, s.snippetCfg)
		results[i] = result.New(sd.doc, sd.score, snippet, h.Highlight(sd.doc.Title()))
	}

	elapsed := time.Since(start)
	s.observe(opts, total, elapsed)
	s.track(ctx, opts, total, elapsed)

	s.logger.Debug("search executed",
		zap.String("scope", string(opts.Scope())),
		zap.Int("total", total),
		zap.Duration("took", elapsed),
	)

	return result.Response{
		Results:    results,
		Total:      total,
		Facets:     facets,
		SearchTime: elapsed,
	}, nil
}

// matchesFilters applies the hard-AND filter predicates.
func matchesFilters(doc *domdoc.Document, opts *options.Options) bool {
	if !opts.IncludeDrafts() && doc.Status() != domdoc.StatusPublished {
		return false
	}
	if opts.FeaturedOnly() && !doc.Featured() {
		return false
	}
	if len(opts.CategoryIDs()) > 0 && !contains(opts.CategoryIDs(), doc.CategoryID()) {
		return false
	}
	if len(opts.AuthorIDs()) > 0 && !contains(opts.AuthorIDs(), doc.AuthorID()) {
		return false
	}
	if len(opts.Tags()) > 0 && !anyTag(doc, opts.Tags()) {
		return false
	}
	if !inDateRange(doc.PublishedAt(), opts.DateRange()) {
		return false
	}
	if !inIntRange(doc.ReadingTime(), opts.ReadingTimeRange()) {
		return false
	}
	return true
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func anyTag(doc *domdoc.Document, tags []string) bool {
	for _, t := range tags {
		if doc.HasTag(t) {
			return true
		}
	}
	return false
}

func inDateRange(published *time.Time, r options.DateRange) bool {
	if r.From == nil && r.To == nil {
		return true
	}
	if published == nil {
		return false
	}
	if r.From != nil && published.Before(*r.From) {
		return false
	}
	if r.To != nil && published.After(*r.To) {
		return false
	}
	return true
}

func inIntRange(v int, r options.IntRange) bool {
	if r.Min == nil && r.Max == nil {
		return true
	}
	if v <= 0 {
		return false
	}
	if r.Min != nil && v < *r.Min {
		return false
	}
	if r.Max != nil && v > *r.Max {
		return false
	}
	return true
}

// sortResults orders the filtered set by the requested key, with a
// deterministic publishedAt-desc then id-asc tie-break.
func sortResults(docs []scoredDoc, opts *options.Options) {
	desc := opts.SortOrder() == options.Desc
	sort.SliceStable(docs, func(i, j int) bool {
		a, b := &docs[i], &docs[j]
		cmp := compareBy(a, b, opts.SortBy())
		if cmp != 0 {
			if desc {
				return cmp > 0
			}
			return cmp < 0
		}
		if pc := comparePublished(a.doc.PublishedAt(), b.doc.PublishedAt()); pc != 0 {
			return pc > 0
		}
		return a.doc.ID() < b.doc.ID()
	})
}

func compareBy(a, b *scoredDoc, key options.SortBy) int {
	switch key {
	case options.SortRelevance:
		return compareFloat(a.score, b.score)
	case options.SortTitle:
		return strings.Compare(a.doc.Title(), b.doc.Title())
	case options.SortReadingTime:
		return a.doc.ReadingTime() - b.doc.ReadingTime()
	case options.SortViewCount:
		return a.doc.ViewCount() - b.doc.ViewCount()
	default: // options.SortPublishedAt
		return comparePublished(a.doc.PublishedAt(), b.doc.PublishedAt())
	}
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// comparePublished treats a missing publish date as the oldest possible.
func comparePublished(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	case a.Before(*b):
		return -1
	case a.After(*b):
		return 1
	default:
		return 0
	}
}

func paginate(docs []scoredDoc, offset, limit int) []scoredDoc {
	if offset >= len(docs) {
		return nil
	}
	end := offset + limit
	if end > len(docs) {
		end = len(docs)
	}
	return docs[offset:end]
}

func (s *Service) observe(opts *options.Options, total int, elapsed time.Duration) {
	if s.searchesTotal != nil {
		s.searchesTotal.WithLabelValues(string(opts.Scope())).Inc()
	}
	if s.searchDuration != nil {
		s.searchDuration.Observe(elapsed.Seconds())
	}
	if s.zeroResults != nil && total == 0 && opts.Query() != "" {
		s.zeroResults.Inc()
	}
}

// track hands the search off to the analytics tracker. Best-effort only: the
// tracker swallows its own failures.
func (s *Service) track(ctx context.Context, opts *options.Options, total int, elapsed time.Duration) {
	if s.tracker == nil {
		return
	}
	s.tracker.Track(ctx, &suggestion.Event{
		Query: opts.Query(),
		Scope: opts.Scope(),
		Filters: suggestion.FiltersSnapshot{
			CategoryIDs:    opts.CategoryIDs(),
			AuthorIDs:      opts.AuthorIDs(),
			Tags:           opts.Tags(),
			DateFrom:       opts.DateRange().From,
			DateTo:         opts.DateRange().To,
			ReadingTimeMin: opts.ReadingTimeRange().Min,
			ReadingTimeMax: opts.ReadingTimeRange().Max,
			FeaturedOnly:   opts.FeaturedOnly(),
		},
		ResultCount: total,
		LatencyMs:   elapsed.Milliseconds(),
	})
}
