package document

import (
	"context"

	domdoc "github.com/inkwell-cms/relevance/internal/domain/document"
)

// Repo is the consumer interface for corpus persistence (ISP).
type Repo interface {
	Upsert(ctx context.Context, doc *domdoc.Document) (bool, error)
	Get(ctx context.Context, id string) (domdoc.Document, error)
	Delete(ctx context.Context, id string) error
}

// Invalidator drops a cached corpus snapshot after a write.
type Invalidator interface {
	Invalidate()
}
