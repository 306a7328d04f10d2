package chi

import (
	"context"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	domdoc "github.com/inkwell-cms/relevance/internal/domain/document"
	"github.com/inkwell-cms/relevance/internal/domain/document/block"
	"github.com/inkwell-cms/relevance/internal/domain/suggestion"
	documentuc "github.com/inkwell-cms/relevance/internal/usecase/document"
	healthuc "github.com/inkwell-cms/relevance/internal/usecase/health"
	relateduc "github.com/inkwell-cms/relevance/internal/usecase/related"
	searchuc "github.com/inkwell-cms/relevance/internal/usecase/search"
	suggestuc "github.com/inkwell-cms/relevance/internal/usecase/suggest"
)

// --- Mocks ---

type mockCorpus struct {
	docs []domdoc.Document
	err  error
}

func (m *mockCorpus) List(_ context.Context) ([]domdoc.Document, error) {
	return m.docs, m.err
}

type mockSuggestStore struct {
	upserts  []string
	events   []*suggestion.Event
	saved    []*suggestion.SavedSearch
	records  []suggestion.Record
	recent   []suggestion.Event
	getSaved *suggestion.SavedSearch
	getErr   error
	err      error
}

func (m *mockSuggestStore) UpsertSuggestion(_ context.Context, q string, _ time.Time) error {
	m.upserts = append(m.upserts, q)
	return m.err
}

func (m *mockSuggestStore) Suggestions(_ context.Context, _ string, _ int) ([]suggestion.Record, error) {
	return m.records, m.err
}

func (m *mockSuggestStore) PopularSearches(_ context.Context, _ int) ([]suggestion.Record, error) {
	return m.records, m.err
}

func (m *mockSuggestStore) AppendEvent(_ context.Context, event *suggestion.Event) error {
	m.events = append(m.events, event)
	return m.err
}

func (m *mockSuggestStore) RecentEvents(_ context.Context, limit int) ([]suggestion.Event, error) {
	if limit < len(m.recent) {
		return m.recent[:limit], m.err
	}
	return m.recent, m.err
}

func (m *mockSuggestStore) EventCount(_ context.Context) (int64, error) {
	return int64(len(m.recent)), m.err
}

func (m *mockSuggestStore) SaveSearch(_ context.Context, saved *suggestion.SavedSearch) error {
	m.saved = append(m.saved, saved)
	return m.err
}

func (m *mockSuggestStore) GetSavedSearch(_ context.Context, _ string) (*suggestion.SavedSearch, error) {
	return m.getSaved, m.getErr
}

type mockDocRepo struct {
	created   bool
	upsertErr error
	getDoc    domdoc.Document
	getErr    error
	deleteErr error
}

func (m *mockDocRepo) Upsert(_ context.Context, _ *domdoc.Document) (bool, error) {
	return m.created, m.upsertErr
}

func (m *mockDocRepo) Get(_ context.Context, _ string) (domdoc.Document, error) {
	return m.getDoc, m.getErr
}

func (m *mockDocRepo) Delete(_ context.Context, _ string) error {
	return m.deleteErr
}

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

// --- Fixtures ---

type testEnv struct {
	router       *chi.Mux
	suggestStore *mockSuggestStore
	docRepo      *mockDocRepo
	pinger       *mockPinger
}

func newTestEnv(t *testing.T, docs []domdoc.Document) *testEnv {
	t.Helper()
	return buildEnv(&mockCorpus{docs: docs})
}

func newBrokenEnv(t *testing.T, listErr error) *testEnv {
	t.Helper()
	return buildEnv(&mockCorpus{err: listErr})
}

func buildEnv(corpus *mockCorpus) *testEnv {
	logger := zap.NewNop()
	suggestStore := &mockSuggestStore{}
	docRepo := &mockDocRepo{}
	pinger := &mockPinger{}

	suggestSvc := suggestuc.New(suggestStore, logger)
	server := NewServer(
		searchuc.New(corpus, suggestSvc, logger),
		relateduc.New(corpus, logger),
		suggestSvc,
		documentuc.New(docRepo, nil, logger),
		healthuc.New(pinger, corpus),
		logger,
	)

	router := chi.NewRouter()
	server.Routes(router)
	return &testEnv{
		router:       router,
		suggestStore: suggestStore,
		docRepo:      docRepo,
		pinger:       pinger,
	}
}

func makeDoc(t *testing.T, id, title, excerpt string, body []block.Block, tags []string, categoryID, authorID string, published *time.Time, readingTime, viewCount int) domdoc.Document {
	t.Helper()
	doc, err := domdoc.New(id, title, excerpt, body, tags, categoryID, authorID, published,
		readingTime, viewCount, domdoc.StatusPublished, false)
	if err != nil {
		t.Fatalf("document.New(%s): %v", id, err)
	}
	return doc
}

func ts(t *testing.T, value string) *time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("time.Parse(%s): %v", value, err)
	}
	return &parsed
}

func testCorpus(t *testing.T) []domdoc.Document {
	t.Helper()
	return []domdoc.Document{
		makeDoc(t, "widget-guide", "Widget Assembly Guide",
			"Everything you need to assemble a widget.",
			[]block.Block{{Kind: block.Paragraph, Text: "The widget base comes first."}},
			[]string{"widget", "howto"}, "tutorials", "ann",
			ts(t, "2026-01-10T00:00:00Z"), 5, 120),
		makeDoc(t, "garden-notes", "Spring Garden Notes",
			"Soil, seeds, and patience.",
			[]block.Block{{Kind: block.Paragraph, Text: "Plant the seeds early."}},
			[]string{"garden"}, "life", "ann",
			ts(t, "2026-03-05T00:00:00Z"), 3, 80),
	}
}
