package options

import (
	"strings"
	"testing"
	"time"

	"github.com/inkwell-cms/relevance/internal/domain/search/scope"
)

func newDefault(t *testing.T, query string) Options {
	t.Helper()
	o, err := New(query, "", nil, nil, nil, DateRange{}, IntRange{}, "", "", 0, 0, false, false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return o
}

func TestNew_Defaults(t *testing.T) {
	o := newDefault(t, "widget")
	if o.Scope() != scope.All {
		t.Errorf("scope = %q, want all", o.Scope())
	}
	if o.SortBy() != SortRelevance {
		t.Errorf("sortBy = %q, want relevance", o.SortBy())
	}
	if o.SortOrder() != Desc {
		t.Errorf("sortOrder = %q, want desc", o.SortOrder())
	}
	if o.Limit() != DefaultLimit {
		t.Errorf("limit = %d, want %d", o.Limit(), DefaultLimit)
	}
}

func TestNew_EmptyQueryDefaultsToPublishedAtSort(t *testing.T) {
	o := newDefault(t, "")
	if o.SortBy() != SortPublishedAt {
		t.Errorf("sortBy = %q, want publishedAt", o.SortBy())
	}
}

func TestNew_LimitClamped(t *testing.T) {
	o, err := New("", "", nil, nil, nil, DateRange{}, IntRange{}, "", "", 5000, 0, false, false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if o.Limit() != MaxLimit {
		t.Errorf("limit = %d, want %d", o.Limit(), MaxLimit)
	}
}

func TestNew_Rejections(t *testing.T) {
	from := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, -1, 0)
	neg := -1
	min5, max2 := 5, 2

	tests := []struct {
		name string
		fn   func() error
	}{
		{"long query", func() error {
			_, err := New(strings.Repeat("q", MaxQueryLength+1), "", nil, nil, nil, DateRange{}, IntRange{}, "", "", 0, 0, false, false)
			return err
		}},
		{"bad scope", func() error {
			_, err := New("", scope.Scope("body"), nil, nil, nil, DateRange{}, IntRange{}, "", "", 0, 0, false, false)
			return err
		}},
		{"bad sort key", func() error {
			_, err := New("", "", nil, nil, nil, DateRange{}, IntRange{}, SortBy("rank"), "", 0, 0, false, false)
			return err
		}},
		{"bad sort order", func() error {
			_, err := New("", "", nil, nil, nil, DateRange{}, IntRange{}, "", SortOrder("down"), 0, 0, false, false)
			return err
		}},
		{"negative offset", func() error {
			_, err := New("", "", nil, nil, nil, DateRange{}, IntRange{}, "", "", 0, -1, false, false)
			return err
		}},
		{"inverted dates", func() error {
			_, err := New("", "", nil, nil, nil, DateRange{From: &from, To: &to}, IntRange{}, "", "", 0, 0, false, false)
			return err
		}},
		{"negative reading time", func() error {
			_, err := New("", "", nil, nil, nil, DateRange{}, IntRange{Min: &neg}, "", "", 0, 0, false, false)
			return err
		}},
		{"inverted reading time", func() error {
			_, err := New("", "", nil, nil, nil, DateRange{}, IntRange{Min: &min5, Max: &max2}, "", "", 0, 0, false, false)
			return err
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.fn() == nil {
				t.Fatal("expected error")
			}
		})
	}
}
