package search

import (
	"math"
	"testing"

	"github.com/inkwell-cms/relevance/internal/domain/search/scope"
)

func TestMatchDensity(t *testing.T) {
	cases := []struct {
		name  string
		field string
		terms []string
		want  float64
	}{
		{"single occurrence", "the widget spins", []string{"widget"}, 1.0 / 3.0},
		{"repeated term", "widget widget gadget", []string{"widget"}, 2.0 / 3.0},
		{"case insensitive", "Widget WIDGET", []string{"widget"}, 1.0},
		{"multiple terms", "red widget blue gadget", []string{"widget", "gadget"}, 0.5},
		{"no match", "nothing here", []string{"widget"}, 0},
		{"empty field", "", []string{"widget"}, 0},
		{"substring counts", "widgets galore", []string{"widget"}, 0.5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := matchDensity(tc.field, tc.terms)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("matchDensity(%q, %v) = %f, expected %f", tc.field, tc.terms, got, tc.want)
			}
		})
	}
}

func TestScoreDocument_FieldWeights(t *testing.T) {
	terms := []string{"widget"}

	titleHit := scoredDoc{doc: makeDoc(t, docParams{id: "a", title: "widget"})}
	excerptHit := scoredDoc{doc: makeDoc(t, docParams{id: "b", title: "x", excerpt: "widget"})}
	bodyHit := scoredDoc{doc: makeDoc(t, docParams{id: "c", title: "x"}), bodyText: "widget"}
	tagHit := scoredDoc{doc: makeDoc(t, docParams{id: "d", title: "x", tags: []string{"widget"}})}

	scores := []float64{
		scoreDocument(&titleHit, terms),
		scoreDocument(&excerptHit, terms),
		scoreDocument(&bodyHit, terms),
		scoreDocument(&tagHit, terms),
	}
	for i := 1; i < len(scores); i++ {
		if scores[i-1] <= scores[i] {
			t.Fatalf("expected strictly decreasing field weights, got %v", scores)
		}
	}
	if scores[3] <= 0 {
		t.Errorf("tag-only match must still score positive, got %f", scores[3])
	}
}

func TestScoreDocument_Additive(t *testing.T) {
	terms := []string{"widget"}
	everywhere := scoredDoc{
		doc: makeDoc(t, docParams{
			id: "all", title: "widget", excerpt: "widget", tags: []string{"widget"},
		}),
		bodyText: "widget",
	}
	titleOnly := scoredDoc{doc: makeDoc(t, docParams{id: "one", title: "widget"})}

	if scoreDocument(&everywhere, terms) <= scoreDocument(&titleOnly, terms) {
		t.Error("matches across more fields must score higher")
	}
}

func TestMatchesQuery_Scopes(t *testing.T) {
	d := scoredDoc{
		doc: makeDoc(t, docParams{
			id:       "doc",
			title:    "Garden Tips",
			excerpt:  "About soil.",
			tags:     []string{"outdoors"},
			authorID: "carol",
		}),
		bodyText: "Plant a widget-shaped trellis.",
	}

	cases := []struct {
		name  string
		term  string
		scope scope.Scope
		want  bool
	}{
		{"all matches title", "garden", scope.All, true},
		{"all matches body", "trellis", scope.All, true},
		{"title scope ignores body", "trellis", scope.Title, false},
		{"content scope sees excerpt", "soil", scope.Content, true},
		{"content scope ignores title", "garden", scope.Content, false},
		{"tags scope", "outdoors", scope.Tags, true},
		{"authors scope", "carol", scope.Authors, true},
		{"authors scope ignores title", "garden", scope.Authors, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := matchesQuery(&d, []string{tc.term}, tc.scope); got != tc.want {
				t.Errorf("matchesQuery(%q, %s) = %v, expected %v", tc.term, tc.scope, got, tc.want)
			}
		})
	}
}
