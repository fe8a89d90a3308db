package rewriting

import (
	"context"
	"log"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-auditor/internal/metrics"
	"github.com/jonathan/resume-auditor/internal/types"
)

// Outcome is the tagged result of one section in a batch: Err is set on failure,
// Content holds the chosen variant on success.
type Outcome struct {
	SectionID string
	Content   string
	Err       error
}

// OK reports whether the section was rewritten.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// BatchResult is the merged section sequence plus the per-section outcomes, in input order.
type BatchResult struct {
	Sections  []types.ResumeSection
	Outcomes  []Outcome
	Rewritten int
	Failed    int
}

// RewriteAll rewrites every section concurrently and merges the results once all calls
// have finished. A failed section keeps its content; only setup problems return an error.
// The input slice is not modified.
func (r *Rewriter) RewriteAll(ctx context.Context, sections []types.ResumeSection, mode types.RewriteMode) (*BatchResult, error) {
	return r.RewriteAllWithProgress(ctx, sections, mode, nil)
}

// RewriteAllWithProgress is RewriteAll with a callback invoked once per finished section,
// in completion order. Calls to progress are serialized.
func (r *Rewriter) RewriteAllWithProgress(ctx context.Context, sections []types.ResumeSection, mode types.RewriteMode, progress func(Outcome)) (*BatchResult, error) {
	if !mode.Valid() {
		return nil, &BatchError{Message: "unknown rewrite mode " + string(mode)}
	}
	if r.client == nil {
		return nil, &BatchError{Message: "LLM client is not configured"}
	}

	outcomes := make([]Outcome, len(sections))
	var progressMu sync.Mutex

	g := new(errgroup.Group)
	g.SetLimit(r.concurrency)
	for i, section := range sections {
		g.Go(func() error {
			outcomes[i] = r.rewriteOne(ctx, section, mode)
			if progress != nil {
				progressMu.Lock()
				progress(outcomes[i])
				progressMu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, &BatchError{Message: "dispatch failed", Cause: err}
	}

	return merge(sections, outcomes), nil
}

func (r *Rewriter) rewriteOne(ctx context.Context, section types.ResumeSection, mode types.RewriteMode) Outcome {
	out := Outcome{SectionID: section.ID}

	improved, err := r.ImproveSection(ctx, section.Title, section.Content)
	if err == nil {
		out.Content = improved.Pick(mode)
		if strings.TrimSpace(out.Content) == "" {
			err = &ParseError{Message: "empty " + string(mode) + " variant"}
		}
	}
	if err != nil {
		log.Printf("[rewrite] warning: section %s (%q) failed to improve, keeping original: %v", section.ID, section.Title, err)
		out.Content = ""
		out.Err = err
	}
	metrics.RecordSectionRewrite(err)
	return out
}

// merge builds the new section slice from outcomes in one pass.
func merge(sections []types.ResumeSection, outcomes []Outcome) *BatchResult {
	result := &BatchResult{
		Sections: types.CloneSections(sections),
		Outcomes: outcomes,
	}
	for i, o := range outcomes {
		if !o.OK() {
			result.Failed++
			continue
		}
		result.Sections[i] = ApplyRewrite(result.Sections[i], o.Content)
		result.Rewritten++
	}
	return result
}

// MergeInto applies the successful outcomes of a batch that ran on base to current,
// matching sections by ID. A section edited since base, or gone from current, keeps its
// current state. The second result counts the outcomes dropped that way.
func MergeInto(current, base []types.ResumeSection, outcomes []Outcome) ([]types.ResumeSection, int) {
	merged := types.CloneSections(current)
	stale := 0
	for i, o := range outcomes {
		if !o.OK() || i >= len(base) {
			continue
		}
		idx := types.FindSection(merged, o.SectionID)
		if idx < 0 || merged[idx].Content != base[i].Content {
			stale++
			continue
		}
		merged[idx] = ApplyRewrite(merged[idx], o.Content)
	}
	return merged, stale
}
