package patch

import (
	"fmt"
	"time"

	"github.com/inkwell-cms/relevance/internal/domain/document"
	"github.com/inkwell-cms/relevance/internal/domain/document/block"
)

// Patch is a partial document update. Nil fields are unchanged.
// Tags replaces the whole tag set when present (no per-tag merge).
type Patch struct {
	title       *string
	excerpt     *string
	body        []block.Block
	hasBody     bool
	tags        []string
	hasTags     bool
	categoryID  *string
	authorID    *string
	publishedAt *time.Time
	hasPublish  bool
	readingTime *int
	viewCount   *int
	status      *document.Status
	featured    *bool
}

// Fields collects the optional updates for New. A nil pointer leaves the
// corresponding document field unchanged; SetBody/SetTags/SetPublishedAt
// distinguish "replace with empty" from "unchanged".
type Fields struct {
	Title       *string
	Excerpt     *string
	CategoryID  *string
	AuthorID    *string
	ReadingTime *int
	ViewCount   *int
	Status      *document.Status
	Featured    *bool
}

// New validates and creates a Patch. At least one update must be set,
// counting SetBody/SetTags/SetPublishedAt calls made afterwards via the
// With helpers on the returned value.
func New(f Fields) (Patch, error) {
	p := Patch{
		title:       f.Title,
		excerpt:     f.Excerpt,
		categoryID:  f.CategoryID,
		authorID:    f.AuthorID,
		readingTime: f.ReadingTime,
		viewCount:   f.ViewCount,
		status:      f.Status,
		featured:    f.Featured,
	}
	if f.Status != nil && !f.Status.IsValid() {
		return Patch{}, fmt.Errorf("invalid status %q", *f.Status)
	}
	if f.ReadingTime != nil && *f.ReadingTime < 0 {
		return Patch{}, fmt.Errorf("reading time must not be negative")
	}
	if f.ViewCount != nil && *f.ViewCount < 0 {
		return Patch{}, fmt.Errorf("view count must not be negative")
	}
	return p, nil
}

// WithBody replaces the content tree (an empty slice clears it).
func (p Patch) WithBody(body []block.Block) Patch {
	p.body = body
	p.hasBody = true
	return p
}

// WithTags replaces the tag set (an empty slice clears it).
func (p Patch) WithTags(tags []string) Patch {
	p.tags = tags
	p.hasTags = true
	return p
}

// WithPublishedAt replaces the publication time (nil unpublishes).
func (p Patch) WithPublishedAt(t *time.Time) Patch {
	p.publishedAt = t
	p.hasPublish = true
	return p
}

// IsEmpty reports whether the patch carries no updates at all.
func (p Patch) IsEmpty() bool {
	return p.title == nil && p.excerpt == nil && !p.hasBody && !p.hasTags &&
		p.categoryID == nil && p.authorID == nil && !p.hasPublish &&
		p.readingTime == nil && p.viewCount == nil && p.status == nil && p.featured == nil
}

// Apply merges the patch onto doc and revalidates the result.
func (p Patch) Apply(doc *document.Document) (document.Document, error) {
	title := doc.Title()
	if p.title != nil {
		title = *p.title
	}
	excerpt := doc.Excerpt()
	if p.excerpt != nil {
		excerpt = *p.excerpt
	}
	body := doc.Body()
	if p.hasBody {
		body = p.body
	}
	tags := doc.Tags()
	if p.hasTags {
		tags = p.tags
	}
	categoryID := doc.CategoryID()
	if p.categoryID != nil {
		categoryID = *p.categoryID
	}
	authorID := doc.AuthorID()
	if p.authorID != nil {
		authorID = *p.authorID
	}
	publishedAt := doc.PublishedAt()
	if p.hasPublish {
		publishedAt = p.publishedAt
	}
	readingTime := doc.ReadingTime()
	if p.readingTime != nil {
		readingTime = *p.readingTime
	}
	viewCount := doc.ViewCount()
	if p.viewCount != nil {
		viewCount = *p.viewCount
	}
	status := doc.Status()
	if p.status != nil {
		status = *p.status
	}
	featured := doc.Featured()
	if p.featured != nil {
		featured = *p.featured
	}

	updated, err := document.New(
		doc.ID(), title, excerpt, body, tags,
		categoryID, authorID, publishedAt,
		readingTime, viewCount, status, featured,
	)
	if err != nil {
		return document.Document{}, fmt.Errorf("apply patch: %w", err)
	}
	return updated, nil
}
