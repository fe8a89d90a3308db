package matching

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	htmlTagPattern  = regexp.MustCompile(`(?i)<\s*(p|div|li|ul|ol|br|span|b|strong|h[1-6]|section|article|body|html)[\s/>]`)
	spaceRunPattern = regexp.MustCompile(`[ \t\f\v\x{00a0}]+`)
)

// noiseSelectors are stripped from pasted job pages before reading text.
const noiseSelectors = "nav, footer, header, script, style, noscript, form, .apply, .cookie-banner, .share, .eeo"

// jobPostingSelectors are tried in order to find the posting body.
var jobPostingSelectors = []string{
	".job-description",
	".job-content",
	"#job-description",
	".posting-content",
	".job-details",
	"[data-testid='job-description']",
	"main",
	"article",
}

// blockSelectors end a line when a pasted fragment is flattened to text.
const blockSelectors = "p, div, li, br, tr, h1, h2, h3, h4, h5, h6, section, article"

// CleanJobDescription returns the job description as plain lines. Text that looks like
// pasted HTML is parsed and reduced to the posting body; plain text only has its
// whitespace normalized.
func CleanJobDescription(raw string) (string, error) {
	if !htmlTagPattern.MatchString(raw) {
		return cleanWhitespace(raw), nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("failed to parse job description HTML: %w", err)
	}

	doc.Find(noiseSelectors).Remove()
	doc.Find(blockSelectors).Each(func(_ int, s *goquery.Selection) {
		s.AfterHtml("\n")
	})

	var body *goquery.Selection
	for _, selector := range jobPostingSelectors {
		if sel := doc.Find(selector); sel.Length() > 0 {
			body = sel.First()
			break
		}
	}
	if body == nil {
		body = doc.Find("body")
	}

	return cleanWhitespace(body.Text()), nil
}

// cleanWhitespace trims every line, collapses runs of spaces and drops empty lines.
func cleanWhitespace(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(spaceRunPattern.ReplaceAllString(line, " "))
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
