package observability

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/resume-auditor/internal/rewriting"
	"github.com/jonathan/resume-auditor/internal/types"
)

func TestPrintAnalysis(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintAnalysis(&types.AnalysisResult{
		DetectedRole:      "Backend Engineer",
		OverallScore:      82,
		HardSkillsFound:   []string{"Go", "PostgreSQL", "Docker", "gRPC", "Redis", "Kafka", "Terraform"},
		MissingHardSkills: []string{"Kubernetes"},
		Metrics:           types.Metrics{TotalBulletPoints: 8, BulletsWithMetrics: 2, WeakVerbsCount: 1},
		SummaryFeedback:   "Strong profile.",
	})
	output := buf.String()

	assert.Contains(t, output, "ATS AUDIT")
	assert.Contains(t, output, "Backend Engineer")
	assert.Contains(t, output, "82 (excellent)")
	assert.Contains(t, output, "8, 25% quantified, 1 weak verbs")
	assert.Contains(t, output, "• Redis")
	assert.NotContains(t, output, "• Kafka")
	assert.Contains(t, output, "... and 2 more")
	assert.Contains(t, output, "• Kubernetes")
	assert.NotContains(t, output, "Critical Errors")
	assert.Contains(t, output, "Strong profile.")
}

func TestPrintAnalysis_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintAnalysis(nil)
	assert.Empty(t, buf.String())
}

func TestPrintJobMatch(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintJobMatch(&types.JobMatchResult{
		MatchPercentage:  67,
		MatchingKeywords: []string{"Go", "SQL"},
		MissingKeywords:  []string{"Kubernetes"},
		MatchFeedback:    "Add container orchestration.",
		TailoredSections: []types.ResumeSection{{ID: "1"}},
	})
	output := buf.String()

	assert.Contains(t, output, "JOB MATCH")
	assert.Contains(t, output, "67%")
	assert.Contains(t, output, "• SQL")
	assert.Contains(t, output, "Tailored sections: 1")
	assert.Contains(t, output, "Add container orchestration.")
}

func TestPrintRewrite(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	sections := []types.ResumeSection{{ID: "1", Title: "Summary"}, {ID: "2", Title: "Experience"}}
	p.PrintRewrite(sections, &rewriting.BatchResult{
		Rewritten: 1,
		Failed:    1,
		Outcomes:  []rewriting.Outcome{{SectionID: "1", Content: "x"}, {SectionID: "2", Err: errors.New("503")}},
	})
	output := buf.String()

	assert.Contains(t, output, "Rewritten 1 of 2 sections")
	assert.Contains(t, output, "✓ Summary")
	assert.Contains(t, output, "✗ Experience")
}

func TestPrintBox_TruncatesLongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", strings.Repeat("é", 100))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 5)
	assert.Contains(t, lines[3], "...")
	for _, line := range lines {
		assert.Equal(t, boxWidth, len([]rune(line)), line)
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
}
