package health

import (
	"context"

	domdoc "github.com/inkwell-cms/relevance/internal/domain/document"
)

// DBPinger checks store availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// CorpusChecker verifies the document snapshot can be loaded.
type CorpusChecker interface {
	List(ctx context.Context) ([]domdoc.Document, error)
}
