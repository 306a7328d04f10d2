package patch

import (
	"strings"
	"testing"
	"time"

	"github.com/inkwell-cms/relevance/internal/domain/document"
	"github.com/inkwell-cms/relevance/internal/domain/document/block"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func baseDoc(t *testing.T) document.Document {
	t.Helper()
	published := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	doc, err := document.New(
		"post-1", "Original Title", "Original excerpt",
		[]block.Block{{Kind: block.Paragraph, Text: "Original body."}},
		[]string{"go", "testing"},
		"tutorials", "ann", &published,
		5, 120, document.StatusPublished, false,
	)
	if err != nil {
		t.Fatalf("document.New: %v", err)
	}
	return doc
}

func TestApply_TitleOnly(t *testing.T) {
	doc := baseDoc(t)
	p, err := New(Fields{Title: strPtr("New Title")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated, err := p.Apply(&doc)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if updated.Title() != "New Title" {
		t.Errorf("Title() = %q", updated.Title())
	}
	if updated.Excerpt() != doc.Excerpt() {
		t.Error("excerpt should be unchanged")
	}
	if len(updated.Tags()) != 2 {
		t.Errorf("tags should be unchanged, got %v", updated.Tags())
	}
}

func TestApply_ReplacesTagSet(t *testing.T) {
	doc := baseDoc(t)
	p, err := New(Fields{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p = p.WithTags([]string{"redis"})

	updated, err := p.Apply(&doc)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(updated.Tags()) != 1 || updated.Tags()[0] != "redis" {
		t.Errorf("Tags() = %v, want [redis]", updated.Tags())
	}
}

func TestApply_ClearsTags(t *testing.T) {
	doc := baseDoc(t)
	p, _ := New(Fields{})
	p = p.WithTags(nil)

	updated, err := p.Apply(&doc)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(updated.Tags()) != 0 {
		t.Errorf("Tags() = %v, want empty", updated.Tags())
	}
}

func TestApply_Unpublish(t *testing.T) {
	doc := baseDoc(t)
	draft := document.StatusDraft
	p, err := New(Fields{Status: &draft})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p = p.WithPublishedAt(nil)

	updated, err := p.Apply(&doc)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if updated.Status() != document.StatusDraft {
		t.Errorf("Status() = %q", updated.Status())
	}
	if updated.PublishedAt() != nil {
		t.Error("PublishedAt() should be nil after unpublish")
	}
}

func TestApply_RevalidatesResult(t *testing.T) {
	doc := baseDoc(t)
	p, err := New(Fields{Title: strPtr("")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := p.Apply(&doc); err == nil {
		t.Fatal("expected error when patch clears the title")
	}
}

func TestNew_InvalidStatus(t *testing.T) {
	bad := document.Status("review")
	_, err := New(Fields{Status: &bad})
	if err == nil {
		t.Fatal("expected error for invalid status")
	}
	if !strings.Contains(err.Error(), "status") {
		t.Errorf("error = %q", err)
	}
}

func TestNew_NegativeReadingTime(t *testing.T) {
	if _, err := New(Fields{ReadingTime: intPtr(-1)}); err == nil {
		t.Fatal("expected error for negative reading time")
	}
}

func TestIsEmpty(t *testing.T) {
	p, err := New(Fields{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.IsEmpty() {
		t.Error("empty fields should produce an empty patch")
	}
	if p.WithBody(nil).IsEmpty() {
		t.Error("WithBody marks the patch non-empty even when clearing")
	}
}
