package search

import (
	"regexp"
	"strings"

	domdoc "github.com/inkwell-cms/relevance/internal/domain/document"
)

// SnippetConfig bounds snippet extraction and names the highlight markers.
type SnippetConfig struct {
	MaxLength   int
	MarkerOpen  string
	MarkerClose string
}

// DefaultSnippetConfig mirrors the storefront defaults.
func DefaultSnippetConfig() SnippetConfig {
	return SnippetConfig{MaxLength: 200, MarkerOpen: "<mark>", MarkerClose: "</mark>"}
}

// minHighlightLen: shorter query tokens still participate in matching but are
// never wrapped, to keep highlights readable.
const minHighlightLen = 3

const ellipsis = "…"

var sentenceRe = regexp.MustCompile(`[^.!?]+[.!?]*\s*`)

// highlighter wraps query terms in markers, case-insensitively and
// idempotently: terms already inside a marker pair are left alone.
type highlighter struct {
	cfg SnippetConfig
	re  *regexp.Regexp
}

func newHighlighter(cfg SnippetConfig, terms []string) *highlighter {
	h := &highlighter{cfg: cfg}
	h.re = h.buildRegexp(terms)
	return h
}

// buildRegexp compiles one alternation for all highlightable terms. The first
// branch swallows existing marker pairs so a second pass cannot re-wrap them;
// the second branch matches bare terms on word boundaries.
func (h *highlighter) buildRegexp(terms []string) *regexp.Regexp {
	escaped := make([]string, 0, len(terms))
	for _, t := range terms {
		if len([]rune(t)) < minHighlightLen {
			continue
		}
		escaped = append(escaped, regexp.QuoteMeta(t))
	}
	if len(escaped) == 0 {
		return nil
	}

	pattern := `(?i)` +
		regexp.QuoteMeta(h.cfg.MarkerOpen) + `.*?` + regexp.QuoteMeta(h.cfg.MarkerClose) +
		`|\b(?:` + strings.Join(escaped, "|") + `)\b`
	return regexp.MustCompile(pattern)
}

// Highlight wraps every matched term in the marker pair.
func (h *highlighter) Highlight(text string) string {
	if h.re == nil || text == "" {
		return text
	}
	return h.re.ReplaceAllStringFunc(text, func(m string) string {
		if strings.HasPrefix(strings.ToLower(m), strings.ToLower(h.cfg.MarkerOpen)) {
			return m
		}
		return h.cfg.MarkerOpen + m + h.cfg.MarkerClose
	})
}

// containsMatch reports whether the text contains at least one highlightable term.
func (h *highlighter) containsMatch(text string) bool {
	if h.re == nil {
		return false
	}
	for _, m := range h.re.FindAllString(text, -1) {
		if !strings.HasPrefix(strings.ToLower(m), strings.ToLower(h.cfg.MarkerOpen)) {
			return true
		}
	}
	return false
}

// buildSnippet picks the most query-relevant excerpt of a document, bounded
// by cfg.MaxLength (excluding highlight markers).
// Preference order: the hand-written excerpt when it matches or fits, then
// the sentence with the most distinct query terms, then a plain truncation.
func buildSnippet(doc *domdoc.Document, bodyText string, terms []string, h *highlighter, cfg SnippetConfig) string {
	if excerpt := doc.Excerpt(); excerpt != "" {
		if h.containsMatch(excerpt) || len([]rune(excerpt)) <= cfg.MaxLength {
			return h.Highlight(truncate(excerpt, cfg.MaxLength))
		}
	}

	if sentence := bestSentence(bodyText, terms); sentence != "" {
		return h.Highlight(truncate(sentence, cfg.MaxLength))
	}

	return h.Highlight(truncate(bodyText, cfg.MaxLength))
}

// bestSentence returns the sentence containing the most distinct query terms,
// ties broken by first occurrence. Empty when no sentence matches.
func bestSentence(text string, terms []string) string {
	if text == "" || len(terms) == 0 {
		return ""
	}

	best := ""
	bestDistinct := 0
	for _, raw := range sentenceRe.FindAllString(text, -1) {
		sentence := strings.TrimSpace(raw)
		if sentence == "" {
			continue
		}
		lower := strings.ToLower(sentence)
		distinct := 0
		for _, term := range terms {
			if strings.Contains(lower, term) {
				distinct++
			}
		}
		if distinct > bestDistinct {
			best, bestDistinct = sentence, distinct
		}
	}
	return best
}

// truncate bounds text to maxLen runes, appending an ellipsis when it cuts.
func truncate(text string, maxLen int) string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	cut := strings.TrimRight(string(runes[:maxLen-1]), " ")
	return cut + ellipsis
}
