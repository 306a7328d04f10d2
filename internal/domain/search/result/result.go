// Package result holds search hits, facet counts, and the search response.
package result

import (
	"time"

	domdoc "github.com/inkwell-cms/relevance/internal/domain/document"
)

// Result is a single search hit: a document with its relevance score and
// presentation strings. Created per search call and discarded with the
// response.
type Result struct {
	doc              domdoc.Document
	score            float64
	snippet          string
	highlightedTitle string
}

// New creates a search result.
func New(doc domdoc.Document, score float64, snippet, highlightedTitle string) Result {
	return Result{doc: doc, score: score, snippet: snippet, highlightedTitle: highlightedTitle}
}

// Document returns the matched document.
func (r *Result) Document() domdoc.Document { return r.doc }

// Score returns the relevance score (0 for empty queries).
func (r *Result) Score() float64 { return r.score }

// Snippet returns the bounded excerpt chosen for the query.
func (r *Result) Snippet() string { return r.snippet }

// HighlightedTitle returns the title with query terms wrapped in markers.
func (r *Result) HighlightedTitle() string { return r.highlightedTitle }

// FacetCount is one bucket of a facet dimension.
type FacetCount struct {
	Key   string
	Label string
	Count int
}

// Facets breaks the filtered (pre-pagination) result set down by attribute.
type Facets struct {
	Categories         []FacetCount
	Authors            []FacetCount
	Tags               []FacetCount
	ReadingTimeBuckets []FacetCount
}

// Response is the full output of a search call. Total counts the filtered set
// before pagination.
type Response struct {
	Results    []Result
	Total      int
	Facets     Facets
	SearchTime time.Duration
}
