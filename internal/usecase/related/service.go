// Package related recommends documents similar to a source document, scored
// by weighted attribute overlap rather than a prebuilt index.
package related

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/inkwell-cms/relevance/internal/domain"
	domdoc "github.com/inkwell-cms/relevance/internal/domain/document"
	"github.com/inkwell-cms/relevance/internal/domain/similarity"
)

// Recommendation list limits.
const (
	DefaultLimit = 5
	MaxLimit     = 50
)

// CorpusLister provides the document snapshot recommendations run against.
type CorpusLister interface {
	List(ctx context.Context) ([]domdoc.Document, error)
}

// Match pairs a recommended document with its similarity breakdown.
type Match struct {
	Document domdoc.Document
	Score    similarity.Score
}

// Service computes related-content recommendations over a corpus snapshot.
type Service struct {
	corpus CorpusLister
	logger *zap.Logger
}

// New creates a related-content service.
func New(corpus CorpusLister, logger *zap.Logger) *Service {
	return &Service{corpus: corpus, logger: logger}
}

// Related returns up to limit published documents most similar to the source,
// best first. The source itself and any excluded IDs never appear; candidates
// with no overlapping attributes at all are dropped rather than padded in.
// Returns domain.ErrDocumentNotFound when the source ID is unknown.
func (s *Service) Related(ctx context.Context, sourceID string, limit int, exclude []string) ([]Match, error) {
	limit = clampLimit(limit)

	docs, err := s.corpus.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list corpus: %w", domain.ErrStoreUnavailable, err)
	}

	source, ok := findDoc(docs, sourceID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, sourceID)
	}

	excluded := make(map[string]struct{}, len(exclude)+1)
	excluded[sourceID] = struct{}{}
	for _, id := range exclude {
		excluded[id] = struct{}{}
	}

	matches := make([]Match, 0, len(docs))
	for i := range docs {
		candidate := docs[i]
		if candidate.Status() != domdoc.StatusPublished {
			continue
		}
		if _, skip := excluded[candidate.ID()]; skip {
			continue
		}
		score := similarity.Compute(&source, &candidate)
		if score.Total == 0 {
			continue
		}
		matches = append(matches, Match{Document: candidate, Score: score})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		a, b := &matches[i], &matches[j]
		if a.Score.Total != b.Score.Total {
			return a.Score.Total > b.Score.Total
		}
		if pc := comparePublished(a.Document.PublishedAt(), b.Document.PublishedAt()); pc != 0 {
			return pc > 0
		}
		return a.Document.ID() < b.Document.ID()
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}

	s.logger.Debug("related computed",
		zap.String("source_id", sourceID),
		zap.Int("matches", len(matches)),
	)
	return matches, nil
}

// PopularInCategory returns the most-viewed published documents of a category,
// optionally excluding one (typically the document the reader is on).
func (s *Service) PopularInCategory(ctx context.Context, categoryID, excludeID string, limit int) ([]domdoc.Document, error) {
	limit = clampLimit(limit)

	docs, err := s.corpus.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list corpus: %w", domain.ErrStoreUnavailable, err)
	}

	picked := filterDocs(docs, func(d *domdoc.Document) bool {
		return d.CategoryID() == categoryID && d.ID() != excludeID
	})
	sort.SliceStable(picked, func(i, j int) bool {
		a, b := &picked[i], &picked[j]
		if a.ViewCount() != b.ViewCount() {
			return a.ViewCount() > b.ViewCount()
		}
		if pc := comparePublished(a.PublishedAt(), b.PublishedAt()); pc != 0 {
			return pc > 0
		}
		return a.ID() < b.ID()
	})

	if len(picked) > limit {
		picked = picked[:limit]
	}
	return picked, nil
}

// MoreFromAuthor returns the author's newest published documents, optionally
// excluding one (typically the document the reader is on).
func (s *Service) MoreFromAuthor(ctx context.Context, authorID, excludeID string, limit int) ([]domdoc.Document, error) {
	limit = clampLimit(limit)

	docs, err := s.corpus.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list corpus: %w", domain.ErrStoreUnavailable, err)
	}

	picked := filterDocs(docs, func(d *domdoc.Document) bool {
		return d.AuthorID() == authorID && d.ID() != excludeID
	})
	sort.SliceStable(picked, func(i, j int) bool {
		a, b := &picked[i], &picked[j]
		if pc := comparePublished(a.PublishedAt(), b.PublishedAt()); pc != 0 {
			return pc > 0
		}
		return a.ID() < b.ID()
	})

	if len(picked) > limit {
		picked = picked[:limit]
	}
	return picked, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// findDoc locates a document of any status.
func findDoc(docs []domdoc.Document, id string) (domdoc.Document, bool) {
	for i := range docs {
		if docs[i].ID() == id {
			return docs[i], true
		}
	}
	return domdoc.Document{}, false
}

func filterDocs(docs []domdoc.Document, keep func(*domdoc.Document) bool) []domdoc.Document {
	out := make([]domdoc.Document, 0, len(docs))
	for i := range docs {
		if docs[i].Status() != domdoc.StatusPublished {
			continue
		}
		if keep(&docs[i]) {
			out = append(out, docs[i])
		}
	}
	return out
}

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
