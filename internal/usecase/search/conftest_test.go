package search

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	domdoc "github.com/inkwell-cms/relevance/internal/domain/document"
	"github.com/inkwell-cms/relevance/internal/domain/document/block"
	"github.com/inkwell-cms/relevance/internal/domain/search/options"
	"github.com/inkwell-cms/relevance/internal/domain/search/scope"
	"github.com/inkwell-cms/relevance/internal/domain/suggestion"
)

// --- Mocks ---

type mockCorpus struct {
	docs []domdoc.Document
	err  error
}

func (m *mockCorpus) List(_ context.Context) ([]domdoc.Document, error) {
	return m.docs, m.err
}

type mockTracker struct {
	events []*suggestion.Event
}

func (m *mockTracker) Track(_ context.Context, event *suggestion.Event) {
	m.events = append(m.events, event)
}

// --- Builders ---

type docParams struct {
	id, title, excerpt   string
	body                 []block.Block
	tags                 []string
	categoryID, authorID string
	publishedAt          *time.Time
	readingTime          int
	viewCount            int
	status               domdoc.Status
	featured             bool
}

func makeDoc(t *testing.T, p docParams) domdoc.Document {
	t.Helper()
	if p.title == "" {
		p.title = "Untitled " + p.id
	}
	if p.status == "" {
		p.status = domdoc.StatusPublished
	}
	doc, err := domdoc.New(
		p.id, p.title, p.excerpt, p.body, p.tags,
		p.categoryID, p.authorID, p.publishedAt,
		p.readingTime, p.viewCount, p.status, p.featured,
	)
	if err != nil {
		t.Fatalf("document.New(%s): %v", p.id, err)
	}
	return doc
}

func paragraphs(texts ...string) []block.Block {
	blocks := make([]block.Block, len(texts))
	for i, text := range texts {
		blocks[i] = block.Block{Kind: block.Paragraph, Text: text}
	}
	return blocks
}

func ts(t *testing.T, value string) *time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("time.Parse(%s): %v", value, err)
	}
	return &parsed
}

type optParams struct {
	query            string
	scope            scope.Scope
	categoryIDs      []string
	authorIDs        []string
	tags             []string
	dateRange        options.DateRange
	readingTimeRange options.IntRange
	sortBy           options.SortBy
	sortOrder        options.SortOrder
	limit, offset    int
	featuredOnly     bool
	includeDrafts    bool
}

func makeOptions(t *testing.T, p optParams) *options.Options {
	t.Helper()
	opts, err := options.New(
		p.query, p.scope,
		p.categoryIDs, p.authorIDs, p.tags,
		p.dateRange, p.readingTimeRange,
		p.sortBy, p.sortOrder,
		p.limit, p.offset,
		p.featuredOnly, p.includeDrafts,
	)
	if err != nil {
		t.Fatalf("options.New: %v", err)
	}
	return &opts
}

func newTestService(docs []domdoc.Document) (*Service, *mockTracker) {
	tracker := &mockTracker{}
	svc := New(&mockCorpus{docs: docs}, tracker, zap.NewNop())
	return svc, tracker
}
