package doccache

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	domdoc "github.com/inkwell-cms/relevance/internal/domain/document"
)

type mockLister struct {
	docs  []domdoc.Document
	err   error
	calls int
}

func (m *mockLister) List(_ context.Context) ([]domdoc.Document, error) {
	m.calls++
	return m.docs, m.err
}

func publishedDoc(id string) domdoc.Document {
	now := time.Now().UTC()
	return domdoc.Reconstruct(id, "Title "+id, "", nil, nil, "", "", &now, 0, 0, domdoc.StatusPublished, false)
}

func TestList_ServesSnapshotWithinTTL(t *testing.T) {
	inner := &mockLister{docs: []domdoc.Document{publishedDoc("a")}}
	c := New(inner, time.Minute, nil, zap.NewNop())

	for i := 0; i < 3; i++ {
		docs, err := c.List(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(docs) != 1 {
			t.Fatalf("len = %d, want 1", len(docs))
		}
	}
	if inner.calls != 1 {
		t.Errorf("inner called %d times, want 1", inner.calls)
	}
}

func TestList_RefreshesAfterTTL(t *testing.T) {
	inner := &mockLister{}
	c := New(inner, time.Minute, nil, zap.NewNop())

	if _, err := c.List(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c.fetchedAt = time.Now().Add(-2 * time.Minute)

	if _, err := c.List(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls != 2 {
		t.Errorf("inner called %d times, want 2", inner.calls)
	}
}

func TestList_CachesEmptyCorpus(t *testing.T) {
	inner := &mockLister{}
	c := New(inner, time.Minute, nil, zap.NewNop())

	if _, err := c.List(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := c.List(context.Background()); err != nil {
		t.Fatal(err)
	}
	if inner.calls != 1 {
		t.Errorf("empty corpus not cached: %d calls", inner.calls)
	}
}

func TestList_PropagatesRefreshError(t *testing.T) {
	inner := &mockLister{err: errors.New("store down")}
	c := New(inner, time.Minute, nil, zap.NewNop())

	if _, err := c.List(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestInvalidate(t *testing.T) {
	inner := &mockLister{}
	c := New(inner, time.Minute, nil, zap.NewNop())

	if _, err := c.List(context.Background()); err != nil {
		t.Fatal(err)
	}
	c.Invalidate()
	if _, err := c.List(context.Background()); err != nil {
		t.Fatal(err)
	}
	if inner.calls != 2 {
		t.Errorf("inner called %d times after invalidate, want 2", inner.calls)
	}
}
