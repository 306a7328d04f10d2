package document

import (
	"encoding/json"
	"strconv"
	"time"

	domdoc "github.com/inkwell-cms/relevance/internal/domain/document"
	"github.com/inkwell-cms/relevance/internal/domain/document/block"
)

// Hash field names for the per-document Redis hash.
const (
	fieldTitle       = "title"
	fieldExcerpt     = "excerpt"
	fieldBody        = "body"
	fieldTags        = "tags"
	fieldCategoryID  = "category_id"
	fieldAuthorID    = "author_id"
	fieldPublishedAt = "published_at"
	fieldReadingTime = "reading_time"
	fieldViewCount   = "view_count"
	fieldStatus      = "status"
	fieldFeatured    = "featured"
)

// buildHashFields converts a domain Document into a flat map[string]string for HSET.
// Body and tags are embedded as JSON.
func buildHashFields(doc *domdoc.Document) (map[string]string, error) {
	body, err := json.Marshal(doc.Body())
	if err != nil {
		return nil, err
	}
	tags, err := json.Marshal(doc.Tags())
	if err != nil {
		return nil, err
	}

	m := map[string]string{
		fieldTitle:       doc.Title(),
		fieldExcerpt:     doc.Excerpt(),
		fieldBody:        string(body),
		fieldTags:        string(tags),
		fieldCategoryID:  doc.CategoryID(),
		fieldAuthorID:    doc.AuthorID(),
		fieldReadingTime: strconv.Itoa(doc.ReadingTime()),
		fieldViewCount:   strconv.Itoa(doc.ViewCount()),
		fieldStatus:      string(doc.Status()),
		fieldFeatured:    strconv.FormatBool(doc.Featured()),
	}
	// Always write published_at: HSET merges into the existing hash, so
	// omitting the field would leave a stale date behind on unpublish.
	if doc.PublishedAt() != nil {
		m[fieldPublishedAt] = doc.PublishedAt().UTC().Format(time.RFC3339Nano)
	} else {
		m[fieldPublishedAt] = ""
	}
	return m, nil
}

// parseHashFields converts a flat hash map back into a domain Document.
// Malformed fields degrade to their zero values rather than failing the load.
func parseHashFields(id string, m map[string]string) domdoc.Document {
	var body []block.Block
	if raw := m[fieldBody]; raw != "" {
		_ = json.Unmarshal([]byte(raw), &body)
	}

	var tags []string
	if raw := m[fieldTags]; raw != "" {
		_ = json.Unmarshal([]byte(raw), &tags)
	}

	var publishedAt *time.Time
	if raw := m[fieldPublishedAt]; raw != "" {
		if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			publishedAt = &t
		}
	}

	readingTime, _ := strconv.Atoi(m[fieldReadingTime])
	viewCount, _ := strconv.Atoi(m[fieldViewCount])
	featured, _ := strconv.ParseBool(m[fieldFeatured])

	return domdoc.Reconstruct(
		id,
		m[fieldTitle],
		m[fieldExcerpt],
		body,
		tags,
		m[fieldCategoryID],
		m[fieldAuthorID],
		publishedAt,
		readingTime,
		viewCount,
		domdoc.Status(m[fieldStatus]),
		featured,
	)
}
