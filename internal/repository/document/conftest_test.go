package document

import (
	"context"
	"testing"
	"time"

	domdoc "github.com/inkwell-cms/relevance/internal/domain/document"
	"github.com/inkwell-cms/relevance/internal/domain/document/block"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hsetFn         func(ctx context.Context, key string, fields map[string]string) error
	hgetAllFn      func(ctx context.Context, key string) (map[string]string, error)
	hgetAllMultiFn func(ctx context.Context, keys []string) ([]map[string]string, error)
	delFn          func(ctx context.Context, key string) error
	existsFn       func(ctx context.Context, key string) (bool, error)
	scanFn         func(ctx context.Context, pattern string) ([]string, error)
}

func (m *mockStore) HSet(ctx context.Context, key string, fields map[string]string) error {
	if m.hsetFn != nil {
		return m.hsetFn(ctx, key, fields)
	}
	return nil
}

func (m *mockStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if m.hgetAllFn != nil {
		return m.hgetAllFn(ctx, key)
	}
	return map[string]string{}, nil
}

func (m *mockStore) HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error) {
	if m.hgetAllMultiFn != nil {
		return m.hgetAllMultiFn(ctx, keys)
	}
	return nil, nil
}

func (m *mockStore) Del(ctx context.Context, key string) error {
	if m.delFn != nil {
		return m.delFn(ctx, key)
	}
	return nil
}

func (m *mockStore) Exists(ctx context.Context, key string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, key)
	}
	return false, nil
}

func (m *mockStore) Scan(ctx context.Context, pattern string) ([]string, error) {
	if m.scanFn != nil {
		return m.scanFn(ctx, pattern)
	}
	return nil, nil
}

func testDocument(t *testing.T, id string) domdoc.Document {
	t.Helper()
	published := time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)
	body := []block.Block{
		{Kind: block.Heading, Text: "Overview", Level: 2},
		{Kind: block.Paragraph, Text: "A paragraph of body text."},
	}
	doc, err := domdoc.New(
		id, "Title "+id, "Excerpt "+id, body,
		[]string{"go", "search"}, "cat-1", "auth-1",
		&published, 4, 120, domdoc.StatusPublished, true,
	)
	if err != nil {
		t.Fatalf("build test document: %v", err)
	}
	return doc
}
