// Package similarity scores how related two documents are using five weighted
// lexical/statistical factors. No index is built: callers run an O(N) pass
// over their candidate set, which is the known scaling limit of this engine.
package similarity

import (
	"math"

	domdoc "github.com/inkwell-cms/relevance/internal/domain/document"
)

// Factor weights. They sum to 1.0, so a total score always lies in [0,1].
const (
	WeightCategory    = 0.25
	WeightTags        = 0.30
	WeightReadingTime = 0.15
	WeightRecency     = 0.20
	WeightAuthor      = 0.10
)

// recencyWindowDays is the horizon beyond which two publish dates contribute
// nothing to the recency factor.
const recencyWindowDays = 365.0

// Factors are the individual similarity components, each in [0,1].
type Factors struct {
	CategoryMatch         float64
	TagOverlap            float64
	ReadingTimeSimilarity float64
	RecencyScore          float64
	AuthorMatch           float64
}

// Score is the similarity of one candidate document to a source document.
type Score struct {
	DocumentID string
	Total      float64
	Factors    Factors
}

// Compute scores a candidate against a source document.
func Compute(source, candidate *domdoc.Document) Score {
	f := Factors{
		CategoryMatch:         matchNonEmpty(source.CategoryID(), candidate.CategoryID()),
		TagOverlap:            Jaccard(source.Tags(), candidate.Tags()),
		ReadingTimeSimilarity: readingTimeSimilarity(source.ReadingTime(), candidate.ReadingTime()),
		RecencyScore:          recencyScore(source, candidate),
		AuthorMatch:           matchNonEmpty(source.AuthorID(), candidate.AuthorID()),
	}
	total := WeightCategory*f.CategoryMatch +
		WeightTags*f.TagOverlap +
		WeightReadingTime*f.ReadingTimeSimilarity +
		WeightRecency*f.RecencyScore +
		WeightAuthor*f.AuthorMatch

	return Score{DocumentID: candidate.ID(), Total: total, Factors: f}
}

// Jaccard returns |A∩B| / |A∪B| for two tag sets, 0 when either is empty.
// Symmetric in its arguments.
func Jaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	setA := make(map[string]struct{}, len(a))
	for _, t := range a {
		setA[t] = struct{}{}
	}
	union := make(map[string]struct{}, len(a)+len(b))
	for t := range setA {
		union[t] = struct{}{}
	}
	intersection := 0
	for _, t := range b {
		if _, ok := union[t]; !ok {
			union[t] = struct{}{}
			continue
		}
		if _, ok := setA[t]; ok {
			// Count each shared tag once even if b repeats it.
			delete(setA, t)
			intersection++
		}
	}
	return float64(intersection) / float64(len(union))
}

func matchNonEmpty(a, b string) float64 {
	if a != "" && a == b {
		return 1
	}
	return 0
}

func readingTimeSimilarity(a, b int) float64 {
	if a <= 0 || b <= 0 {
		return 0
	}
	longer := math.Max(float64(a), float64(b))
	return math.Max(0, 1-math.Abs(float64(a-b))/longer)
}

func recencyScore(source, candidate *domdoc.Document) float64 {
	sp, cp := source.PublishedAt(), candidate.PublishedAt()
	if sp == nil || cp == nil {
		return 0
	}
	days := math.Abs(sp.Sub(*cp).Hours()) / 24
	return math.Max(0, 1-days/recencyWindowDays)
}
