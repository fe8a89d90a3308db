package rewriting

import (
	"regexp"
	"strings"

	"github.com/jonathan/resume-auditor/internal/markup"
)

// Common strong action verbs for resume bullets (heuristic check)
var strongVerbs = map[string]bool{
	"achieved": true, "architected": true, "built": true, "created": true,
	"delivered": true, "designed": true, "developed": true, "engineered": true,
	"implemented": true, "improved": true, "increased": true, "launched": true,
	"led": true, "optimized": true, "reduced": true, "scaled": true,
	"shipped": true, "spearheaded": true, "transformed": true,
}

// fluffPhrases are the subjective openers the summary rules ask the model to remove.
var fluffPhrases = []string{
	"passionate about",
	"looking for",
	"hardworking",
	"hard-working",
	"team player",
	"detail-oriented",
	"results-driven",
}

var digitPattern = regexp.MustCompile(`\d`)

// Quality is a local heuristic read of a rewrite, shown next to the variants.
type Quality struct {
	Kind             SectionKind `json:"kind"`
	Bullets          int         `json:"bullets"`
	StrongVerbStarts int         `json:"strongVerbStarts"`
	QuantifiedLines  int         `json:"quantifiedLines"`
	FluffPhrases     []string    `json:"fluffPhrases,omitempty"`
}

// Assess inspects rewritten markup for the section title.
func Assess(title, content string) Quality {
	q := Quality{Kind: KindFor(title)}
	lines := markup.Normalize(content)
	for _, line := range lines {
		body, isBullet := strings.CutPrefix(line, markup.BulletGlyph)
		if isBullet {
			q.Bullets++
			if startsWithStrongVerb(body) {
				q.StrongVerbStarts++
			}
		}
		if checkQuantifiedImpact(line) {
			q.QuantifiedLines++
		}
	}
	q.FluffPhrases = findPhrases(strings.Join(lines, "\n"), fluffPhrases)
	return q
}

// startsWithStrongVerb checks if text starts with a strong action verb
func startsWithStrongVerb(text string) bool {
	words := strings.Fields(strings.ToLower(text))
	if len(words) == 0 {
		return false
	}

	firstWord := strings.TrimRight(words[0], ".,!?;:")
	if strongVerbs[firstWord] {
		return true
	}

	// Past-tense forms are usually action verbs
	return strings.HasSuffix(firstWord, "ed") && len(firstWord) > 3
}

func checkQuantifiedImpact(text string) bool {
	return digitPattern.MatchString(text) || strings.Contains(text, "%")
}

// findPhrases returns the phrases present in text, case-insensitively, without duplicates.
func findPhrases(text string, phrases []string) []string {
	normalizedText := strings.ToLower(text)

	var found []string
	seen := make(map[string]bool)
	for _, phrase := range phrases {
		p := strings.ToLower(strings.TrimSpace(phrase))
		if p == "" || seen[p] {
			continue
		}
		if strings.Contains(normalizedText, p) {
			found = append(found, phrase)
			seen[p] = true
		}
	}
	return found
}
