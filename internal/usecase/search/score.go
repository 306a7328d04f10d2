package search

import (
	"strings"

	domdoc "github.com/inkwell-cms/relevance/internal/domain/document"
	"github.com/inkwell-cms/relevance/internal/domain/document/block"
	"github.com/inkwell-cms/relevance/internal/domain/search/scope"
)

// Field weights for relevance scoring. Only the strict ordering
// title > excerpt > body > tags is semantic; the concrete values are a
// documented choice, not inherited constants.
const (
	weightTitle   = 10.0
	weightExcerpt = 5.0
	weightBody    = 2.0
	weightTags    = 1.0
)

// scoredDoc pairs a document with its per-search derived state.
type scoredDoc struct {
	doc      domdoc.Document
	bodyText string
	score    float64
}

// scoreDocument computes the field-weighted relevance of a document against
// the tokenized query. Each field contributes its match density (query-term
// occurrences normalized by field word count) times the field weight.
func scoreDocument(d *scoredDoc, terms []string) float64 {
	doc := &d.doc
	return weightTitle*matchDensity(doc.Title(), terms) +
		weightExcerpt*matchDensity(doc.Excerpt(), terms) +
		weightBody*matchDensity(d.bodyText, terms) +
		weightTags*matchDensity(strings.Join(doc.Tags(), " "), terms)
}

// matchDensity counts case-insensitive substring occurrences of every query
// term, normalized by the field's word count. An empty field scores 0.
func matchDensity(field string, terms []string) float64 {
	words := block.CountWords(field)
	if words == 0 {
		return 0
	}
	lower := strings.ToLower(field)
	occurrences := 0
	for _, term := range terms {
		occurrences += strings.Count(lower, term)
	}
	if occurrences == 0 {
		return 0
	}
	return float64(occurrences) / float64(words)
}

// matchesQuery reports whether any query term occurs in the scoped fields.
func matchesQuery(d *scoredDoc, terms []string, sc scope.Scope) bool {
	doc := &d.doc
	var haystack string
	switch sc {
	case scope.Title:
		haystack = doc.Title()
	case scope.Content:
		haystack = doc.Excerpt() + " " + d.bodyText
	case scope.Authors:
		haystack = doc.AuthorID()
	case scope.Tags:
		haystack = strings.Join(doc.Tags(), " ")
	default: // scope.All
		haystack = doc.Title() + " " + doc.Excerpt() + " " + d.bodyText + " " +
			strings.Join(doc.Tags(), " ") + " " + doc.AuthorID()
	}

	lower := strings.ToLower(haystack)
	for _, term := range terms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}
