// Package block models the structured document body as a closed set of
// typed content blocks and provides plain-text extraction for indexing.
package block

import (
	"regexp"
	"strings"
)

// Kind identifies a content block type.
type Kind string

// Supported block kinds.
const (
	Heading   Kind = "heading"
	Paragraph Kind = "paragraph"
	Image     Kind = "image"
	Callout   Kind = "callout"
	HTML      Kind = "html"
)

// IsValid reports whether the kind is one of the supported block types.
func (k Kind) IsValid() bool {
	switch k {
	case Heading, Paragraph, Image, Callout, HTML:
		return true
	}
	return false
}

// Block is one node of a document body tree.
// Text carries the visible text (alt text for images, raw markup for html).
type Block struct {
	Kind        Kind    `json:"kind"`
	Text        string  `json:"text,omitempty"`
	URL         string  `json:"url,omitempty"`
	CalloutKind string  `json:"callout_kind,omitempty"`
	Level       int     `json:"level,omitempty"`
	Children    []Block `json:"children,omitempty"`
}

var (
	htmlTagRe    = regexp.MustCompile(`<[^>]*>?`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// ExtractText flattens a body tree into a searchable plain-text string and
// returns it together with the word count. The text is derived fresh on every
// call: the engine keeps no persistent index, so the body may have changed
// since the last extraction.
func ExtractText(blocks []Block) (string, int) {
	var sb strings.Builder
	appendBlocks(&sb, blocks)
	text := strings.TrimSpace(whitespaceRe.ReplaceAllString(sb.String(), " "))
	return text, CountWords(text)
}

func appendBlocks(sb *strings.Builder, blocks []Block) {
	for _, b := range blocks {
		switch b.Kind {
		case Heading, Paragraph, Callout:
			appendText(sb, b.Text)
		case Image:
			// Alt text only; an image without alt text contributes nothing.
			appendText(sb, b.Text)
		case HTML:
			appendText(sb, StripHTML(b.Text))
		}
		if len(b.Children) > 0 {
			appendBlocks(sb, b.Children)
		}
	}
}

func appendText(sb *strings.Builder, text string) {
	if text == "" {
		return
	}
	if sb.Len() > 0 {
		sb.WriteByte(' ')
	}
	sb.WriteString(text)
}

// StripHTML removes markup tags (including dangling unterminated ones) and
// collapses the remaining whitespace.
func StripHTML(markup string) string {
	stripped := htmlTagRe.ReplaceAllString(markup, " ")
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(stripped, " "))
}

// CountWords returns the number of whitespace-delimited non-empty tokens.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// Tokenize lowercases a query and splits it into whitespace-delimited terms.
// Short terms (<= 2 runes) are kept: they still participate in matching, the
// highlighter skips them separately.
func Tokenize(query string) []string {
	return strings.Fields(strings.ToLower(query))
}
