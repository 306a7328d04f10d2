// Package document persists the searchable corpus as one Redis hash per
// document under the relevance:doc: prefix.
package document

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/inkwell-cms/relevance/internal/domain"
	domdoc "github.com/inkwell-cms/relevance/internal/domain/document"
)

// store is the consumer interface for documents (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

const keyPrefix = domain.KeyPrefix + "doc:"

// Repo implements the corpus reader/writer used by the search engine.
type Repo struct {
	store store
}

// New creates a document repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Upsert creates or updates a document. Returns true if created.
func (r *Repo) Upsert(ctx context.Context, doc *domdoc.Document) (bool, error) {
	key := docKey(doc.ID())

	fields, err := buildHashFields(doc)
	if err != nil {
		return false, fmt.Errorf("encode document %s: %w", doc.ID(), err)
	}

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return false, fmt.Errorf("check exists %s: %w", key, err)
	}

	if err := r.store.HSet(ctx, key, fields); err != nil {
		return false, fmt.Errorf("hset %s: %w", key, err)
	}

	return !exists, nil
}

// Get returns a document by ID.
func (r *Repo) Get(ctx context.Context, id string) (domdoc.Document, error) {
	fields, err := r.store.HGetAll(ctx, docKey(id))
	if err != nil {
		return domdoc.Document{}, fmt.Errorf("hgetall %s: %w", docKey(id), err)
	}
	if len(fields) == 0 {
		return domdoc.Document{}, domain.ErrDocumentNotFound
	}
	return parseHashFields(id, fields), nil
}

// List returns the full corpus snapshot, ordered by ID for determinism.
func (r *Repo) List(ctx context.Context) ([]domdoc.Document, error) {
	keys, err := r.store.Scan(ctx, keyPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("scan corpus: %w", err)
	}
	if len(keys) == 0 {
		return nil, nil
	}
	sort.Strings(keys)

	hashes, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}

	docs := make([]domdoc.Document, 0, len(hashes))
	for i, fields := range hashes {
		if len(fields) == 0 {
			// Key expired or was deleted between SCAN and HGETALL.
			continue
		}
		docs = append(docs, parseHashFields(docID(keys[i]), fields))
	}
	return docs, nil
}

// Delete removes a document.
func (r *Repo) Delete(ctx context.Context, id string) error {
	key := docKey(id)

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists %s: %w", key, err)
	}
	if !exists {
		return domain.ErrDocumentNotFound
	}

	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

func docKey(id string) string {
	return keyPrefix + id
}

func docID(key string) string {
	return strings.TrimPrefix(key, keyPrefix)
}
