// Package markup converts the editor's rich-text dialect into plain lines for export.
// It scans tags with a tokenizer and never builds or renders a DOM.
package markup

import (
	"strings"

	"golang.org/x/net/html"
)

// BulletGlyph prefixes every list item in normalized output.
const BulletGlyph = "• "

// lineBreakTags end the current line whether they open or close.
var lineBreakTags = map[string]bool{
	"div": true, "p": true, "ul": true, "ol": true, "li": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"tr": true, "section": true, "blockquote": true, "pre": true, "table": true,
}

// inlineTags are recognized formatting tags that contribute no line structure.
var inlineTags = map[string]bool{
	"b": true, "strong": true, "i": true, "em": true, "u": true, "span": true,
	"a": true, "td": true, "th": true, "thead": true, "tbody": true,
}

// skippedTags have their text content dropped.
var skippedTags = map[string]bool{
	"script": true, "style": true, "head": true, "title": true,
}

// Normalize returns the plain lines of a markup string: tags stripped, entities decoded,
// list items prefixed with BulletGlyph, whitespace collapsed and empty lines discarded.
// Tags outside the known vocabulary, and tags cut off at end of input, are kept as literal text.
func Normalize(markup string) []string {
	if strings.TrimSpace(markup) == "" {
		return []string{}
	}

	b := &lineBuilder{lines: []string{}}
	z := html.NewTokenizer(strings.NewReader(markup))
	skipDepth := 0

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if raw := z.Raw(); len(raw) > 0 && skipDepth == 0 {
				b.writeText(string(raw))
			}
			b.flush()
			return b.lines

		case html.TextToken:
			if skipDepth > 0 {
				continue
			}
			b.writeText(string(z.Text()))

		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			tag := string(name)
			switch {
			case skippedTags[tag]:
				if tt == html.StartTagToken {
					skipDepth++
				}
			case tag == "br" || tag == "hr":
				b.flush()
			case tag == "li":
				b.flush()
				b.bullet = true
			case lineBreakTags[tag]:
				b.flush()
			case !inlineTags[tag] && skipDepth == 0:
				b.writeText(string(z.Raw()))
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			switch {
			case skippedTags[tag]:
				if skipDepth > 0 {
					skipDepth--
				}
			case tag == "br" || lineBreakTags[tag]:
				b.flush()
			case tag != "hr" && !inlineTags[tag] && skipDepth == 0:
				b.writeText(string(z.Raw()))
			}
		}
	}
}

// PlainText joins the normalized lines with newlines.
func PlainText(markup string) string {
	return strings.Join(Normalize(markup), "\n")
}

// lineBuilder accumulates text for the current line.
type lineBuilder struct {
	lines  []string
	cur    strings.Builder
	bullet bool
}

// writeText appends text, treating literal newlines as line breaks.
func (b *lineBuilder) writeText(text string) {
	parts := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for i, part := range parts {
		if i > 0 {
			b.flush()
		}
		b.cur.WriteString(part)
	}
}

// flush closes the current line, dropping it when it holds no visible text.
func (b *lineBuilder) flush() {
	text := collapseSpace(b.cur.String())
	b.cur.Reset()
	bullet := b.bullet
	b.bullet = false

	if text == "" {
		return
	}
	if bullet && !strings.HasPrefix(text, strings.TrimSpace(BulletGlyph)) {
		text = BulletGlyph + text
	}
	b.lines = append(b.lines, text)
}

// collapseSpace trims the line and folds runs of whitespace (including nbsp) into one space.
func collapseSpace(s string) string {
	return strings.Join(strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\u00a0' || r == '\f' || r == '\v'
	}), " ")
}
