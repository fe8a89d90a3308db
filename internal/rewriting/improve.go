// Package rewriting rewrites resume sections with the hosted model, one section per
// call, and merges batch results back into the section sequence in one step.
package rewriting

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/jonathan/resume-auditor/internal/llm"
	"github.com/jonathan/resume-auditor/internal/metrics"
	"github.com/jonathan/resume-auditor/internal/prompts"
	"github.com/jonathan/resume-auditor/internal/schemas"
	"github.com/jonathan/resume-auditor/internal/types"
)

// SectionKind selects the rule set used for a rewrite.
type SectionKind string

const (
	KindSummary    SectionKind = "summary"
	KindExperience SectionKind = "experience"
	KindGeneral    SectionKind = "general"
)

var (
	summaryKeywords    = []string{"summary", "profile", "about"}
	experienceKeywords = []string{"experience", "work", "history", "employment"}
)

// KindFor classifies a section by keywords in its title. Summary wins over experience.
func KindFor(title string) SectionKind {
	lower := strings.ToLower(title)
	switch {
	case containsAny(lower, summaryKeywords):
		return KindSummary
	case containsAny(lower, experienceKeywords):
		return KindExperience
	default:
		return KindGeneral
	}
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// DefaultConcurrency bounds in-flight model calls during a batch rewrite.
const DefaultConcurrency = 8

// Rewriter improves sections with an LLM client.
type Rewriter struct {
	client      llm.Client
	tier        llm.ModelTier
	concurrency int
}

// NewRewriter creates a Rewriter on the lite tier.
func NewRewriter(client llm.Client) *Rewriter {
	return &Rewriter{
		client:      client,
		tier:        llm.TierLite,
		concurrency: DefaultConcurrency,
	}
}

// WithConcurrency returns a copy of r that runs at most n section calls at once.
func (r *Rewriter) WithConcurrency(n int) *Rewriter {
	cp := *r
	if n < 1 {
		n = 1
	}
	cp.concurrency = n
	return &cp
}

// ImproveSection asks for both rewrite variants of one section.
func (r *Rewriter) ImproveSection(ctx context.Context, title, content string) (*types.ImprovedContent, error) {
	if r.client == nil {
		return nil, &APICallError{Message: "LLM client is not configured"}
	}

	prompt, err := buildPrompt(title, content)
	if err != nil {
		return nil, &APICallError{Message: "failed to build prompt", Cause: err}
	}

	start := time.Now()
	raw, err := r.client.GenerateJSON(ctx, prompt, r.tier, llm.WithTemperature(llm.RewriteTemperature))
	metrics.ObserveLLMCall(metrics.OpImprove, start, err)
	if err != nil {
		return nil, &APICallError{Message: "failed to rewrite section " + title, Cause: err}
	}

	return parseImproved(raw)
}

func buildPrompt(title, content string) (string, error) {
	rules, err := prompts.Get(prompts.RewritingFile, "rules-"+string(KindFor(title)))
	if err != nil {
		return "", err
	}
	return prompts.Render(prompts.RewritingFile, "improve-section", map[string]string{
		"Title":   title,
		"Content": content,
		"Rules":   rules,
	})
}

func parseImproved(raw string) (*types.ImprovedContent, error) {
	if err := schemas.Validate(schemas.Rewrite, raw); err != nil {
		return nil, &ParseError{Message: "rewrite payload failed schema validation", Cause: err}
	}
	var improved types.ImprovedContent
	if err := json.Unmarshal([]byte(raw), &improved); err != nil {
		return nil, &ParseError{Message: "failed to decode rewrite payload", Cause: err}
	}
	return &improved, nil
}
