package search

import (
	"sort"

	"github.com/inkwell-cms/relevance/internal/domain/search/result"
)

// Reading-time bucket bounds in minutes.
const (
	quickMaxMinutes  = 3
	mediumMaxMinutes = 10
)

// Reading-time bucket keys and labels.
const (
	bucketQuick  = "quick"
	bucketMedium = "medium"
	bucketLong   = "long"
)

var bucketLabels = map[string]string{
	bucketQuick:  "Quick read",
	bucketMedium: "Medium read",
	bucketLong:   "Long read",
}

// computeFacets counts attribute occurrences over the filtered set — the
// pre-pagination set the caller will see as Total, never the raw corpus.
// Zero-count buckets are omitted; each list is ordered by count descending
// with a stable label-ascending tie-break.
func computeFacets(filtered []scoredDoc, labels LabelFunc) result.Facets {
	categories := make(map[string]int)
	authors := make(map[string]int)
	tags := make(map[string]int)
	buckets := make(map[string]int)

	for i := range filtered {
		doc := &filtered[i].doc
		if id := doc.CategoryID(); id != "" {
			categories[id]++
		}
		if id := doc.AuthorID(); id != "" {
			authors[id]++
		}
		for _, tag := range doc.Tags() {
			tags[tag]++
		}
		if b := readingTimeBucket(doc.ReadingTime()); b != "" {
			buckets[b]++
		}
	}

	return result.Facets{
		Categories:         toFacetCounts(categories, "category", labels),
		Authors:            toFacetCounts(authors, "author", labels),
		Tags:               toFacetCounts(tags, "tag", labels),
		ReadingTimeBuckets: bucketFacetCounts(buckets),
	}
}

func readingTimeBucket(minutes int) string {
	switch {
	case minutes <= 0:
		return ""
	case minutes <= quickMaxMinutes:
		return bucketQuick
	case minutes <= mediumMaxMinutes:
		return bucketMedium
	default:
		return bucketLong
	}
}

func toFacetCounts(counts map[string]int, dimension string, labels LabelFunc) []result.FacetCount {
	out := make([]result.FacetCount, 0, len(counts))
	for key, count := range counts {
		label := ""
		if labels != nil {
			label = labels(dimension, key)
		}
		if label == "" {
			label = key
		}
		out = append(out, result.FacetCount{Key: key, Label: label, Count: count})
	}
	sortFacetCounts(out)
	return out
}

func bucketFacetCounts(counts map[string]int) []result.FacetCount {
	out := make([]result.FacetCount, 0, len(counts))
	for key, count := range counts {
		out = append(out, result.FacetCount{Key: key, Label: bucketLabels[key], Count: count})
	}
	sortFacetCounts(out)
	return out
}

func sortFacetCounts(fc []result.FacetCount) {
	sort.Slice(fc, func(i, j int) bool {
		if fc[i].Count != fc[j].Count {
			return fc[i].Count > fc[j].Count
		}
		return fc[i].Label < fc[j].Label
	})
}
