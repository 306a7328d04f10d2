package chi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	domdoc "github.com/inkwell-cms/relevance/internal/domain/document"
	"github.com/inkwell-cms/relevance/internal/domain/document/block"
	"github.com/inkwell-cms/relevance/internal/domain/document/patch"
	"github.com/inkwell-cms/relevance/internal/domain/search/options"
	"github.com/inkwell-cms/relevance/internal/domain/search/result"
	"github.com/inkwell-cms/relevance/internal/domain/search/scope"
	"github.com/inkwell-cms/relevance/internal/domain/similarity"
	"github.com/inkwell-cms/relevance/internal/domain/suggestion"
	relateduc "github.com/inkwell-cms/relevance/internal/usecase/related"
)

// errorCode is the machine-readable error class in error responses.
type errorCode string

const (
	codeBadRequest       errorCode = "bad_request"
	codeInvalidQuery     errorCode = "invalid_query"
	codeValidationFailed errorCode = "validation_failed"
	codeDocumentNotFound errorCode = "document_not_found"
	codeNotFound         errorCode = "not_found"
	codeStoreUnavailable errorCode = "store_unavailable"
	codeInternalError    errorCode = "internal_error"
)

type errorResponse struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
}

// documentPayload is the write shape for PUT /documents/{id}.
type documentPayload struct {
	Title       string        `json:"title"`
	Excerpt     string        `json:"excerpt,omitempty"`
	Body        []block.Block `json:"body,omitempty"`
	Tags        []string      `json:"tags,omitempty"`
	CategoryID  string        `json:"category_id,omitempty"`
	AuthorID    string        `json:"author_id,omitempty"`
	PublishedAt *time.Time    `json:"published_at,omitempty"`
	ReadingTime int           `json:"reading_time,omitempty"`
	ViewCount   int           `json:"view_count,omitempty"`
	Status      string        `json:"status,omitempty"`
	Featured    bool          `json:"featured,omitempty"`
}

// documentPatchPayload is the write shape for PATCH /documents/{id}.
// Absent fields are unchanged; published_at accepts an explicit null to
// unpublish, which is why it is raw JSON rather than a time pointer.
type documentPatchPayload struct {
	Title       *string         `json:"title,omitempty"`
	Excerpt     *string         `json:"excerpt,omitempty"`
	Body        *[]block.Block  `json:"body,omitempty"`
	Tags        *[]string       `json:"tags,omitempty"`
	CategoryID  *string         `json:"category_id,omitempty"`
	AuthorID    *string         `json:"author_id,omitempty"`
	PublishedAt json.RawMessage `json:"published_at,omitempty"`
	ReadingTime *int            `json:"reading_time,omitempty"`
	ViewCount   *int            `json:"view_count,omitempty"`
	Status      *string         `json:"status,omitempty"`
	Featured    *bool           `json:"featured,omitempty"`
}

type documentResponse struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Excerpt     string        `json:"excerpt,omitempty"`
	Body        []block.Block `json:"body,omitempty"`
	Tags        []string      `json:"tags,omitempty"`
	CategoryID  string        `json:"category_id,omitempty"`
	AuthorID    string        `json:"author_id,omitempty"`
	PublishedAt *time.Time    `json:"published_at,omitempty"`
	ReadingTime int           `json:"reading_time,omitempty"`
	ViewCount   int           `json:"view_count,omitempty"`
	Status      string        `json:"status"`
	Featured    bool          `json:"featured,omitempty"`
}

type searchResultDTO struct {
	Document         documentResponse `json:"document"`
	RelevanceScore   float64          `json:"relevance_score"`
	Snippet          string           `json:"snippet,omitempty"`
	HighlightedTitle string           `json:"highlighted_title"`
}

type facetCountDTO struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

type facetsDTO struct {
	Categories         []facetCountDTO `json:"categories,omitempty"`
	Authors            []facetCountDTO `json:"authors,omitempty"`
	Tags               []facetCountDTO `json:"tags,omitempty"`
	ReadingTimeBuckets []facetCountDTO `json:"reading_time_buckets,omitempty"`
}

type searchResponseDTO struct {
	Results      []searchResultDTO `json:"results"`
	Total        int               `json:"total"`
	Facets       facetsDTO         `json:"facets"`
	SearchTimeMs int64             `json:"search_time_ms"`
}

type suggestionsResponse struct {
	Suggestions []string `json:"suggestions"`
}

type popularItemDTO struct {
	Query      string     `json:"query"`
	Frequency  int64      `json:"frequency"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
}

type popularResponse struct {
	Items []popularItemDTO `json:"items"`
}

type similarityFactorsDTO struct {
	CategoryMatch         float64 `json:"category_match"`
	TagOverlap            float64 `json:"tag_overlap"`
	ReadingTimeSimilarity float64 `json:"reading_time_similarity"`
	RecencyScore          float64 `json:"recency_score"`
	AuthorMatch           float64 `json:"author_match"`
}

type relatedItemDTO struct {
	Document documentResponse     `json:"document"`
	Score    float64              `json:"score"`
	Factors  similarityFactorsDTO `json:"factors"`
}

type relatedResponse struct {
	Items []relatedItemDTO `json:"items"`
}

type filtersDTO struct {
	CategoryIDs    []string   `json:"category_ids,omitempty"`
	AuthorIDs      []string   `json:"author_ids,omitempty"`
	Tags           []string   `json:"tags,omitempty"`
	DateFrom       *time.Time `json:"date_from,omitempty"`
	DateTo         *time.Time `json:"date_to,omitempty"`
	ReadingTimeMin *int       `json:"reading_time_min,omitempty"`
	ReadingTimeMax *int       `json:"reading_time_max,omitempty"`
	FeaturedOnly   bool       `json:"featured_only,omitempty"`
}

type trackRequest struct {
	Query       string     `json:"query"`
	Scope       string     `json:"scope,omitempty"`
	Filters     filtersDTO `json:"filters,omitempty"`
	ResultCount int        `json:"result_count,omitempty"`
	LatencyMs   int64      `json:"latency_ms,omitempty"`
}

type recentResponse struct {
	Total int64              `json:"total"`
	Items []suggestion.Event `json:"items"`
}

type saveSearchRequest struct {
	Name      string     `json:"name"`
	Query     string     `json:"query,omitempty"`
	Filters   filtersDTO `json:"filters,omitempty"`
	SessionID string     `json:"session_id,omitempty"`
	IsPublic  bool       `json:"is_public,omitempty"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// --- Mapping ---

func documentToDTO(doc *domdoc.Document, includeBody bool) documentResponse {
	resp := documentResponse{
		ID:          doc.ID(),
		Title:       doc.Title(),
		Excerpt:     doc.Excerpt(),
		Tags:        doc.Tags(),
		CategoryID:  doc.CategoryID(),
		AuthorID:    doc.AuthorID(),
		PublishedAt: doc.PublishedAt(),
		ReadingTime: doc.ReadingTime(),
		ViewCount:   doc.ViewCount(),
		Status:      string(doc.Status()),
		Featured:    doc.Featured(),
	}
	if includeBody {
		resp.Body = doc.Body()
	}
	return resp
}

func documentFromPayload(id string, p documentPayload) (domdoc.Document, error) {
	doc, err := domdoc.New(
		id, p.Title, p.Excerpt, p.Body, p.Tags,
		p.CategoryID, p.AuthorID, p.PublishedAt,
		p.ReadingTime, p.ViewCount, domdoc.Status(p.Status), p.Featured,
	)
	if err != nil {
		return domdoc.Document{}, fmt.Errorf("build document: %w", err)
	}
	return doc, nil
}

func patchFromPayload(p documentPatchPayload) (patch.Patch, error) {
	var status *domdoc.Status
	if p.Status != nil {
		s := domdoc.Status(*p.Status)
		status = &s
	}

	out, err := patch.New(patch.Fields{
		Title:       p.Title,
		Excerpt:     p.Excerpt,
		CategoryID:  p.CategoryID,
		AuthorID:    p.AuthorID,
		ReadingTime: p.ReadingTime,
		ViewCount:   p.ViewCount,
		Status:      status,
		Featured:    p.Featured,
	})
	if err != nil {
		return patch.Patch{}, err
	}

	if p.Body != nil {
		out = out.WithBody(*p.Body)
	}
	if p.Tags != nil {
		out = out.WithTags(*p.Tags)
	}
	if len(p.PublishedAt) > 0 {
		if string(p.PublishedAt) == "null" {
			out = out.WithPublishedAt(nil)
		} else {
			var t time.Time
			if err := json.Unmarshal(p.PublishedAt, &t); err != nil {
				return patch.Patch{}, fmt.Errorf("published_at: %w", err)
			}
			out = out.WithPublishedAt(&t)
		}
	}
	return out, nil
}

func searchResponseToDTO(resp *result.Response) searchResponseDTO {
	results := make([]searchResultDTO, len(resp.Results))
	for i := range resp.Results {
		r := &resp.Results[i]
		doc := r.Document()
		results[i] = searchResultDTO{
			Document:         documentToDTO(&doc, false),
			RelevanceScore:   r.Score(),
			Snippet:          r.Snippet(),
			HighlightedTitle: r.HighlightedTitle(),
		}
	}
	return searchResponseDTO{
		Results:      results,
		Total:        resp.Total,
		Facets:       facetsToDTO(resp.Facets),
		SearchTimeMs: resp.SearchTime.Milliseconds(),
	}
}

func facetsToDTO(f result.Facets) facetsDTO {
	return facetsDTO{
		Categories:         facetCountsToDTO(f.Categories),
		Authors:            facetCountsToDTO(f.Authors),
		Tags:               facetCountsToDTO(f.Tags),
		ReadingTimeBuckets: facetCountsToDTO(f.ReadingTimeBuckets),
	}
}

func facetCountsToDTO(fc []result.FacetCount) []facetCountDTO {
	if len(fc) == 0 {
		return nil
	}
	out := make([]facetCountDTO, len(fc))
	for i, c := range fc {
		out[i] = facetCountDTO{Key: c.Key, Label: c.Label, Count: c.Count}
	}
	return out
}

func relatedToDTO(matches []relateduc.Match) relatedResponse {
	items := make([]relatedItemDTO, len(matches))
	for i := range matches {
		m := &matches[i]
		items[i] = relatedItemDTO{
			Document: documentToDTO(&m.Document, false),
			Score:    m.Score.Total,
			Factors:  factorsToDTO(m.Score.Factors),
		}
	}
	return relatedResponse{Items: items}
}

func factorsToDTO(f similarity.Factors) similarityFactorsDTO {
	return similarityFactorsDTO{
		CategoryMatch:         f.CategoryMatch,
		TagOverlap:            f.TagOverlap,
		ReadingTimeSimilarity: f.ReadingTimeSimilarity,
		RecencyScore:          f.RecencyScore,
		AuthorMatch:           f.AuthorMatch,
	}
}

func popularToDTO(records []suggestion.Record) popularResponse {
	items := make([]popularItemDTO, len(records))
	for i, rec := range records {
		items[i] = popularItemDTO{
			Query:     rec.NormalizedQuery,
			Frequency: rec.Frequency,
		}
		if !rec.LastUsedAt.IsZero() {
			t := rec.LastUsedAt
			items[i].LastUsedAt = &t
		}
	}
	return popularResponse{Items: items}
}

func filtersFromDTO(f filtersDTO) suggestion.FiltersSnapshot {
	return suggestion.FiltersSnapshot{
		CategoryIDs:    f.CategoryIDs,
		AuthorIDs:      f.AuthorIDs,
		Tags:           f.Tags,
		DateFrom:       f.DateFrom,
		DateTo:         f.DateTo,
		ReadingTimeMin: f.ReadingTimeMin,
		ReadingTimeMax: f.ReadingTimeMax,
		FeaturedOnly:   f.FeaturedOnly,
	}
}

// --- Query parsing ---

// parseSearchOptions builds validated search options from URL query
// parameters. Any unparseable parameter fails the whole request; nothing is
// silently dropped.
func parseSearchOptions(r *http.Request) (*options.Options, error) {
	q := r.URL.Query()

	dateFrom, err := parseDate(q.Get("date_from"))
	if err != nil {
		return nil, fmt.Errorf("date_from: %w", err)
	}
	dateTo, err := parseDate(q.Get("date_to"))
	if err != nil {
		return nil, fmt.Errorf("date_to: %w", err)
	}
	rtMin, err := parseIntPtr(q.Get("reading_time_min"))
	if err != nil {
		return nil, fmt.Errorf("reading_time_min: %w", err)
	}
	rtMax, err := parseIntPtr(q.Get("reading_time_max"))
	if err != nil {
		return nil, fmt.Errorf("reading_time_max: %w", err)
	}
	limit, err := parseInt(q.Get("limit"))
	if err != nil {
		return nil, fmt.Errorf("limit: %w", err)
	}
	offset, err := parseInt(q.Get("offset"))
	if err != nil {
		return nil, fmt.Errorf("offset: %w", err)
	}
	featured, err := parseBool(q.Get("featured"))
	if err != nil {
		return nil, fmt.Errorf("featured: %w", err)
	}
	includeDrafts, err := parseBool(q.Get("include_drafts"))
	if err != nil {
		return nil, fmt.Errorf("include_drafts: %w", err)
	}

	opts, err := options.New(
		q.Get("q"),
		scope.Scope(q.Get("scope")),
		splitCSV(q.Get("categories")),
		splitCSV(q.Get("authors")),
		splitCSV(q.Get("tags")),
		options.DateRange{From: dateFrom, To: dateTo},
		options.IntRange{Min: rtMin, Max: rtMax},
		options.SortBy(q.Get("sort_by")),
		options.SortOrder(q.Get("sort_order")),
		limit, offset,
		featured, includeDrafts,
	)
	if err != nil {
		return nil, err
	}
	return &opts, nil
}

// parseDate accepts RFC 3339 timestamps and bare dates (2006-01-02).
func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, fmt.Errorf("expected RFC 3339 timestamp or YYYY-MM-DD date, got %q", s)
	}
	return &t, nil
}

func parseInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("expected integer, got %q", s)
	}
	return v, nil
}

func parseIntPtr(s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("expected integer, got %q", s)
	}
	return &v, nil
}

func parseBool(s string) (bool, error) {
	if s == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("expected boolean, got %q", s)
	}
	return v, nil
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
