package document

import (
	"fmt"
	"regexp"
	"time"

	"github.com/inkwell-cms/relevance/internal/domain/document/block"
)

var idRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Status is the publication state of a document.
type Status string

// Publication states.
const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

// IsValid reports whether the status is a known publication state.
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}

// Document is the searchable content aggregate (immutable value object).
// CategoryID and AuthorID are empty when absent; PublishedAt is nil for
// unpublished drafts; ReadingTime is 0 when unknown.
type Document struct {
	id          string
	title       string
	excerpt     string
	body        []block.Block
	tags        []string
	categoryID  string
	authorID    string
	publishedAt *time.Time
	readingTime int
	viewCount   int
	status      Status
	featured    bool
}

// New validates and creates a Document.
// ID: ^[a-zA-Z0-9_-]+$, 1-256 chars. Title is required. Tags are deduplicated
// preserving first occurrence.
func New(
	id, title, excerpt string,
	body []block.Block,
	tags []string,
	categoryID, authorID string,
	publishedAt *time.Time,
	readingTime, viewCount int,
	status Status,
	featured bool,
) (Document, error) {
	if id == "" {
		return Document{}, fmt.Errorf("document ID is required")
	}
	if len(id) > 256 {
		return Document{}, fmt.Errorf("document ID too long (max 256)")
	}
	if !idRegex.MatchString(id) {
		return Document{}, fmt.Errorf("document ID must be alphanumeric with underscores and hyphens")
	}
	if title == "" {
		return Document{}, fmt.Errorf("title is required")
	}
	if status == "" {
		status = StatusDraft
	}
	if !status.IsValid() {
		return Document{}, fmt.Errorf("invalid status %q", status)
	}
	for _, b := range body {
		if !b.Kind.IsValid() {
			return Document{}, fmt.Errorf("invalid block kind %q", b.Kind)
		}
	}
	if readingTime < 0 {
		return Document{}, fmt.Errorf("reading time must not be negative")
	}
	if viewCount < 0 {
		return Document{}, fmt.Errorf("view count must not be negative")
	}

	return Document{
		id:          id,
		title:       title,
		excerpt:     excerpt,
		body:        body,
		tags:        dedupeTags(tags),
		categoryID:  categoryID,
		authorID:    authorID,
		publishedAt: publishedAt,
		readingTime: readingTime,
		viewCount:   viewCount,
		status:      status,
		featured:    featured,
	}, nil
}

// Reconstruct creates a Document without validation (storage hydration).
func Reconstruct(
	id, title, excerpt string,
	body []block.Block,
	tags []string,
	categoryID, authorID string,
	publishedAt *time.Time,
	readingTime, viewCount int,
	status Status,
	featured bool,
) Document {
	return Document{
		id: id, title: title, excerpt: excerpt, body: body, tags: tags,
		categoryID: categoryID, authorID: authorID, publishedAt: publishedAt,
		readingTime: readingTime, viewCount: viewCount, status: status, featured: featured,
	}
}

// ID returns the document identifier.
func (d *Document) ID() string { return d.id }

// Title returns the document title.
func (d *Document) Title() string { return d.title }

// Excerpt returns the optional hand-written summary.
func (d *Document) Excerpt() string { return d.excerpt }

// Body returns the structured content tree.
func (d *Document) Body() []block.Block { return d.body }

// Tags returns the document tags.
func (d *Document) Tags() []string { return d.tags }

// CategoryID returns the category identifier ("" when uncategorized).
func (d *Document) CategoryID() string { return d.categoryID }

// AuthorID returns the author identifier ("" when unknown).
func (d *Document) AuthorID() string { return d.authorID }

// PublishedAt returns the publication time (nil for drafts).
func (d *Document) PublishedAt() *time.Time { return d.publishedAt }

// ReadingTime returns the estimated reading time in minutes (0 when unknown).
func (d *Document) ReadingTime() int { return d.readingTime }

// ViewCount returns the accumulated view counter.
func (d *Document) ViewCount() int { return d.viewCount }

// Status returns the publication state.
func (d *Document) Status() Status { return d.status }

// Featured reports whether the document is editorially featured.
func (d *Document) Featured() bool { return d.featured }

// BodyText extracts the flat searchable text of the body with its word count.
func (d *Document) BodyText() (string, int) {
	return block.ExtractText(d.body)
}

// HasTag reports whether the document carries the given tag.
func (d *Document) HasTag(tag string) bool {
	for _, t := range d.tags {
		if t == tag {
			return true
		}
	}
	return false
}

func dedupeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
