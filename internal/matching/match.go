// Package matching compares a resume against a job description and produces tailored
// section rewrites. The match percentage is always derived locally from keyword counts.
package matching

import (
	"context"
	"encoding/json"
	"log"
	"math"
	"strings"
	"time"

	"github.com/jonathan/resume-auditor/internal/llm"
	"github.com/jonathan/resume-auditor/internal/metrics"
	"github.com/jonathan/resume-auditor/internal/prompts"
	"github.com/jonathan/resume-auditor/internal/rewriting"
	"github.com/jonathan/resume-auditor/internal/schemas"
	"github.com/jonathan/resume-auditor/internal/types"
)

// minJobDescriptionChars rejects descriptions too short to match against.
const minJobDescriptionChars = 20

// Matcher runs job matches with an LLM client.
type Matcher struct {
	client llm.Client
	tier   llm.ModelTier
}

// NewMatcher creates a Matcher on the advanced tier.
func NewMatcher(client llm.Client) *Matcher {
	return &Matcher{client: client, tier: llm.TierAdvanced}
}

// MatchPercentage is round(100*matched/(matched+missing)), and 0 when both are 0.
func MatchPercentage(matched, missing int) int {
	if matched < 0 {
		matched = 0
	}
	if missing < 0 {
		missing = 0
	}
	total := matched + missing
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(matched) * 100 / float64(total)))
}

type promptSection struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type wireMatch struct {
	MatchingKeywords []string              `json:"matchingKeywords"`
	MissingKeywords  []string              `json:"missingKeywords"`
	MatchFeedback    string                `json:"matchFeedback"`
	TailoredSections []types.ResumeSection `json:"tailoredSections"`
}

// Match compares the resume with jobDescription. Tailored sections come back in the
// order of sections and with their IDs.
func (m *Matcher) Match(ctx context.Context, resumeText string, sections []types.ResumeSection, jobDescription string) (*types.JobMatchResult, error) {
	if m.client == nil {
		return nil, &MatchError{Message: "LLM client is not configured"}
	}

	jd, err := CleanJobDescription(jobDescription)
	if err != nil {
		return nil, &MatchError{Message: "could not read job description", Cause: err}
	}
	if len([]rune(jd)) < minJobDescriptionChars {
		return nil, &MatchError{Message: "job description is too short"}
	}

	prompt, err := buildPrompt(resumeText, sections, jd)
	if err != nil {
		return nil, &MatchError{Message: "failed to build prompt", Cause: err}
	}

	start := time.Now()
	raw, err := m.client.GenerateJSON(ctx, prompt, m.tier, llm.WithTemperature(llm.MatchTemperature))
	metrics.ObserveLLMCall(metrics.OpMatch, start, err)
	if err != nil {
		log.Printf("[match] model call failed: %v", err)
		return nil, &MatchError{Message: "model call failed", Cause: err}
	}

	if err := schemas.Validate(schemas.Match, raw); err != nil {
		log.Printf("[match] rejected model payload: %v", err)
		return nil, &MatchError{Message: "payload failed schema validation", Cause: err}
	}
	var w wireMatch
	if err := json.Unmarshal([]byte(raw), &w); err != nil {
		return nil, &MatchError{Message: "failed to decode payload", Cause: err}
	}

	matching := dedupe(w.MatchingKeywords)
	missing := dedupe(w.MissingKeywords)
	result := &types.JobMatchResult{
		MatchingKeywords: matching,
		MissingKeywords:  missing,
		MatchFeedback:    strings.TrimSpace(w.MatchFeedback),
		TailoredSections: ReconcileTailored(sections, w.TailoredSections),
		MatchPercentage:  MatchPercentage(len(matching), len(missing)),
	}
	log.Printf("[match] matched=%d missing=%d percentage=%d", len(matching), len(missing), result.MatchPercentage)
	return result, nil
}

func buildPrompt(resumeText string, sections []types.ResumeSection, jd string) (string, error) {
	ps := make([]promptSection, len(sections))
	for i, s := range sections {
		ps[i] = promptSection{ID: s.ID, Title: s.Title, Content: s.Content}
	}
	encoded, err := json.Marshal(ps)
	if err != nil {
		return "", err
	}
	return prompts.Render(prompts.MatchingFile, "match-job", map[string]string{
		"JobDescription": jd,
		"ResumeText":     resumeText,
		"Sections":       string(encoded),
	})
}

// ReconcileTailored lines tailored output up with the current sections: unknown IDs are
// dropped, missing IDs keep the current section, and changed content is applied as a
// rewrite so the pre-tailoring text is captured as the original.
func ReconcileTailored(current, tailored []types.ResumeSection) []types.ResumeSection {
	byID := make(map[string]types.ResumeSection, len(tailored))
	for _, t := range tailored {
		if _, dup := byID[t.ID]; !dup {
			byID[t.ID] = t
		}
	}

	out := make([]types.ResumeSection, 0, len(current))
	for _, section := range current {
		t, ok := byID[section.ID]
		if !ok {
			out = append(out, section)
			continue
		}
		if title := strings.TrimSpace(t.Title); title != "" {
			section.Title = title
		}
		if strings.TrimSpace(t.Content) != "" && t.Content != section.Content {
			section = rewriting.ApplyRewrite(section, t.Content)
		}
		out = append(out, section)
	}
	return out
}

// dedupe trims keywords and removes blanks and case-insensitive repeats, keeping order.
func dedupe(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	seen := make(map[string]bool, len(keywords))
	for _, k := range keywords {
		k = strings.TrimSpace(k)
		key := strings.ToLower(k)
		if k == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, k)
	}
	return out
}
