// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-auditor/internal/rewriting"
	"github.com/jonathan/resume-auditor/internal/scoring"
	"github.com/jonathan/resume-auditor/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-3]) + "..."
}

// writeList writes a labelled bullet list capped at limit items.
func writeList(sb *strings.Builder, label string, items []string, limit int) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(label + ":\n")
	for _, item := range items[:min(len(items), limit)] {
		sb.WriteString(fmt.Sprintf("  • %s\n", item))
	}
	if len(items) > limit {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-limit))
	}
	sb.WriteString("\n")
}

// PrintAnalysis outputs the audit report of an analyzed resume.
func (p *Printer) PrintAnalysis(analysis *types.AnalysisResult) {
	if analysis == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Role:     %s\n", analysis.DetectedRole))
	sb.WriteString(fmt.Sprintf("Score:    %d (%s)\n", analysis.OverallScore, scoring.GradeFor(analysis.OverallScore)))
	sb.WriteString(fmt.Sprintf("Bullets:  %d, %d%% quantified, %d weak verbs\n",
		analysis.Metrics.TotalBulletPoints,
		scoring.QuantifiedPercent(analysis.Metrics),
		analysis.Metrics.WeakVerbsCount))
	sb.WriteString("\n")

	writeList(&sb, "Critical Errors", analysis.CriticalErrors, maxItemsToShow)
	writeList(&sb, "Hard Skills", analysis.HardSkillsFound, maxItemsToShow)
	writeList(&sb, "Missing Skills", analysis.MissingHardSkills, maxItemsToShow)
	writeList(&sb, "Formatting Issues", analysis.FormattingIssues, 3)
	writeList(&sb, "Strengths", analysis.Strengths, 3)
	writeList(&sb, "Weaknesses", analysis.Weaknesses, 3)

	if analysis.SummaryFeedback != "" {
		sb.WriteString(analysis.SummaryFeedback)
	}

	p.printBox("ATS AUDIT", strings.TrimRight(sb.String(), "\n"))
}

// PrintJobMatch outputs the keyword comparison against a job description.
func (p *Printer) PrintJobMatch(result *types.JobMatchResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Match:    %d%%\n\n", result.MatchPercentage))
	writeList(&sb, "Matching", result.MatchingKeywords, maxItemsToShow)
	writeList(&sb, "Missing", result.MissingKeywords, maxItemsToShow)
	if len(result.TailoredSections) > 0 {
		sb.WriteString(fmt.Sprintf("Tailored sections: %d\n", len(result.TailoredSections)))
	}
	if result.MatchFeedback != "" {
		sb.WriteString(result.MatchFeedback)
	}

	p.printBox("JOB MATCH", strings.TrimRight(sb.String(), "\n"))
}

// PrintRewrite outputs one line per section of a batch rewrite.
func (p *Printer) PrintRewrite(sections []types.ResumeSection, result *rewriting.BatchResult) {
	if result == nil || len(result.Outcomes) == 0 {
		return
	}

	titles := make(map[string]string, len(sections))
	for _, s := range sections {
		titles[s.ID] = s.Title
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Rewritten %d of %d sections:\n\n", result.Rewritten, len(result.Outcomes)))
	for _, o := range result.Outcomes {
		mark := "✓"
		if !o.OK() {
			mark = "✗"
		}
		sb.WriteString(fmt.Sprintf("%s %s\n", mark, titles[o.SectionID]))
	}

	p.printBox("SECTION REWRITE", strings.TrimRight(sb.String(), "\n"))
}
