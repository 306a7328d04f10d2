// Package document handles corpus writes from the CMS: upserts and deletes,
// with cache invalidation so searches see changes promptly.
package document

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/inkwell-cms/relevance/internal/domain"
	domdoc "github.com/inkwell-cms/relevance/internal/domain/document"
	"github.com/inkwell-cms/relevance/internal/domain/document/patch"
)

// Service coordinates corpus writes.
type Service struct {
	repo   Repo
	cache  Invalidator
	logger *zap.Logger
}

// New creates a document service. cache may be nil.
func New(repo Repo, cache Invalidator, logger *zap.Logger) *Service {
	return &Service{repo: repo, cache: cache, logger: logger}
}

// Upsert stores a document and reports whether it was created.
func (s *Service) Upsert(ctx context.Context, doc *domdoc.Document) (bool, error) {
	created, err := s.repo.Upsert(ctx, doc)
	if err != nil {
		return false, fmt.Errorf("upsert document %s: %w", doc.ID(), err)
	}
	if s.cache != nil {
		s.cache.Invalidate()
	}
	s.logger.Info("document upserted",
		zap.String("document_id", doc.ID()),
		zap.Bool("created", created),
	)
	return created, nil
}

// Patch applies a partial update to an existing document and returns the
// updated value. An empty patch is rejected before the store is touched.
func (s *Service) Patch(ctx context.Context, id string, p patch.Patch) (domdoc.Document, error) {
	if p.IsEmpty() {
		return domdoc.Document{}, fmt.Errorf("%w: patch must update at least one field", domain.ErrInvalidQuery)
	}

	doc, err := s.repo.Get(ctx, id)
	if err != nil {
		return domdoc.Document{}, fmt.Errorf("patch document %s: %w", id, err)
	}

	updated, err := p.Apply(&doc)
	if err != nil {
		return domdoc.Document{}, fmt.Errorf("%w: %w", domain.ErrInvalidQuery, err)
	}

	if _, err := s.repo.Upsert(ctx, &updated); err != nil {
		return domdoc.Document{}, fmt.Errorf("patch document %s: %w", id, err)
	}
	if s.cache != nil {
		s.cache.Invalidate()
	}
	s.logger.Info("document patched", zap.String("document_id", id))
	return updated, nil
}

// Get returns a single document by ID.
func (s *Service) Get(ctx context.Context, id string) (domdoc.Document, error) {
	doc, err := s.repo.Get(ctx, id)
	if err != nil {
		return domdoc.Document{}, fmt.Errorf("get document %s: %w", id, err)
	}
	return doc, nil
}

// Delete removes a document from the corpus.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete document %s: %w", id, err)
	}
	if s.cache != nil {
		s.cache.Invalidate()
	}
	s.logger.Info("document deleted", zap.String("document_id", id))
	return nil
}
