package search

import (
	"context"

	domdoc "github.com/inkwell-cms/relevance/internal/domain/document"
	"github.com/inkwell-cms/relevance/internal/domain/suggestion"
)

// CorpusLister provides the document snapshot a search runs against.
type CorpusLister interface {
	List(ctx context.Context) ([]domdoc.Document, error)
}

// Tracker records a search for analytics and suggestions. Implementations
// must be best-effort: a tracking failure never reaches the search caller.
type Tracker interface {
	Track(ctx context.Context, event *suggestion.Event)
}

// LabelFunc resolves a facet key to a display label. dimension is one of
// "category", "author", "tag". Returning "" falls back to the raw key.
type LabelFunc func(dimension, key string) string
