package export

import (
	"strings"
)

// MeasureFunc returns the rendered width of a string.
type MeasureFunc func(s string) float64

// GreedyWrapper wraps on word boundaries, breaking words that are wider than the line.
type GreedyWrapper struct {
	Measure MeasureFunc
}

// Wrap implements LineWrapper.
func (gw GreedyWrapper) Wrap(text string, width float64) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	cur := ""
	for _, word := range words {
		candidate := word
		if cur != "" {
			candidate = cur + " " + word
		}
		if gw.Measure(candidate) <= width {
			cur = candidate
			continue
		}
		if cur != "" {
			lines = append(lines, cur)
			cur = ""
		}
		if gw.Measure(word) <= width {
			cur = word
			continue
		}
		pieces := gw.breakWord(word, width)
		lines = append(lines, pieces[:len(pieces)-1]...)
		cur = pieces[len(pieces)-1]
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}

// breakWord splits an over-long word into chunks that fit, at least one rune each.
func (gw GreedyWrapper) breakWord(word string, width float64) []string {
	var pieces []string
	var cur []rune
	for _, r := range word {
		next := append(cur, r)
		if len(cur) > 0 && gw.Measure(string(next)) > width {
			pieces = append(pieces, string(cur))
			cur = []rune{r}
			continue
		}
		cur = next
	}
	if len(cur) > 0 {
		pieces = append(pieces, string(cur))
	}
	return pieces
}
