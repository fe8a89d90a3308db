// Package analysis runs the resume audit: one model call, schema validation at the
// boundary, conversion into the typed model and a locally computed score.
package analysis

import (
	"context"
	"encoding/json"
	"log"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-auditor/internal/extraction"
	"github.com/jonathan/resume-auditor/internal/llm"
	"github.com/jonathan/resume-auditor/internal/metrics"
	"github.com/jonathan/resume-auditor/internal/prompts"
	"github.com/jonathan/resume-auditor/internal/schemas"
	"github.com/jonathan/resume-auditor/internal/scoring"
	"github.com/jonathan/resume-auditor/internal/types"
)

// Analyzer audits resumes with an LLM client.
type Analyzer struct {
	client llm.Client
	tier   llm.ModelTier
	newID  func() string
}

// NewAnalyzer creates an Analyzer that uses the standard model tier.
func NewAnalyzer(client llm.Client) *Analyzer {
	return &Analyzer{
		client: client,
		tier:   llm.TierStandard,
		newID:  uuid.NewString,
	}
}

// AnalyzeDocument extracts text from an uploaded file and analyzes it. Extraction
// errors are returned unchanged so callers can tell them apart from analysis errors.
func (a *Analyzer) AnalyzeDocument(ctx context.Context, filename string, data []byte) (string, *types.AnalysisResult, error) {
	text, err := extraction.ExtractText(ctx, filename, data)
	if err != nil {
		return "", nil, err
	}
	result, err := a.Analyze(ctx, text)
	if err != nil {
		return "", nil, err
	}
	return text, result, nil
}

// Analyze audits resume text. The returned result has section IDs assigned and
// OverallScore computed; on any failure no result is returned.
func (a *Analyzer) Analyze(ctx context.Context, resumeText string) (*types.AnalysisResult, error) {
	if a.client == nil {
		return nil, &AnalysisError{Message: "LLM client is not configured"}
	}
	if strings.TrimSpace(resumeText) == "" {
		return nil, &AnalysisError{Message: "resume text is empty"}
	}

	prompt, err := buildPrompt(resumeText)
	if err != nil {
		return nil, &AnalysisError{Message: "failed to build prompt", Cause: err}
	}

	start := time.Now()
	raw, err := a.client.GenerateJSON(ctx, prompt, a.tier, llm.WithTemperature(llm.AnalysisTemperature))
	metrics.ObserveLLMCall(metrics.OpAnalyze, start, err)
	if err != nil {
		log.Printf("[analysis] model call failed: %v", err)
		return nil, &AnalysisError{Message: "model call failed", Cause: err}
	}

	result, err := a.decode(raw)
	if err != nil {
		log.Printf("[analysis] rejected model payload: %v", err)
		return nil, err
	}

	// A canceled request must not hand back a result scored from a half-finished call.
	if err := ctx.Err(); err != nil {
		return nil, &AnalysisError{Message: "analysis canceled", Cause: err}
	}

	scoring.Rescore(result)
	log.Printf("[analysis] role=%q sections=%d score=%d", result.DetectedRole, len(result.StructuredSections), result.OverallScore)
	return result, nil
}

func buildPrompt(resumeText string) (string, error) {
	system, err := prompts.Get(prompts.AnalysisFile, "system")
	if err != nil {
		return "", err
	}
	return prompts.Render(prompts.AnalysisFile, "analyze-resume", map[string]string{
		"System":     system,
		"ResumeText": resumeText,
	})
}

// wireAnalysis mirrors the model payload. Counts arrive as JSON numbers and may be fractional.
type wireAnalysis struct {
	DetectedRole      string   `json:"detectedRole"`
	HardSkillsFound   []string `json:"hardSkillsFound"`
	MissingHardSkills []string `json:"missingHardSkills"`
	SoftSkillsFound   []string `json:"softSkillsFound"`
	Metrics           struct {
		TotalBulletPoints  float64 `json:"totalBulletPoints"`
		BulletsWithMetrics float64 `json:"bulletsWithMetrics"`
		WeakVerbsCount     float64 `json:"weakVerbsCount"`
		SectionCount       float64 `json:"sectionCount"`
	} `json:"metrics"`
	FormattingIssues   []string `json:"formattingIssues"`
	CriticalErrors     []string `json:"criticalErrors"`
	Strengths          []string `json:"strengths"`
	Weaknesses         []string `json:"weaknesses"`
	SummaryFeedback    string   `json:"summaryFeedback"`
	StructuredSections []struct {
		ID      string `json:"id"`
		Title   string `json:"title"`
		Content string `json:"content"`
	} `json:"structuredSections"`
}

func (a *Analyzer) decode(raw string) (*types.AnalysisResult, error) {
	if err := schemas.Validate(schemas.Analysis, raw); err != nil {
		return nil, &AnalysisError{Message: "payload failed schema validation", Cause: err}
	}

	var w wireAnalysis
	if err := json.Unmarshal([]byte(raw), &w); err != nil {
		return nil, &AnalysisError{Message: "failed to decode payload", Cause: err}
	}

	result := &types.AnalysisResult{
		DetectedRole:      strings.TrimSpace(w.DetectedRole),
		HardSkillsFound:   nonNil(w.HardSkillsFound),
		MissingHardSkills: nonNil(w.MissingHardSkills),
		SoftSkillsFound:   nonNil(w.SoftSkillsFound),
		Metrics: types.Metrics{
			TotalBulletPoints:  toCount(w.Metrics.TotalBulletPoints),
			BulletsWithMetrics: toCount(w.Metrics.BulletsWithMetrics),
			WeakVerbsCount:     toCount(w.Metrics.WeakVerbsCount),
			SectionCount:       toCount(w.Metrics.SectionCount),
		},
		FormattingIssues: nonNil(w.FormattingIssues),
		CriticalErrors:   nonNil(w.CriticalErrors),
		Strengths:        nonNil(w.Strengths),
		Weaknesses:       nonNil(w.Weaknesses),
		SummaryFeedback:  w.SummaryFeedback,
	}

	sections := make([]types.ResumeSection, 0, len(w.StructuredSections))
	for _, s := range w.StructuredSections {
		sections = append(sections, types.ResumeSection{
			ID:      strings.TrimSpace(s.ID),
			Title:   strings.TrimSpace(s.Title),
			Content: s.Content,
		})
	}
	result.StructuredSections = AssignSectionIDs(sections, a.newID)
	if result.Metrics.SectionCount == 0 {
		result.Metrics.SectionCount = len(result.StructuredSections)
	}
	return result, nil
}

// AssignSectionIDs gives every section a unique, non-empty ID. Existing unique IDs are
// kept; blanks and repeats get a fresh one from newID.
func AssignSectionIDs(sections []types.ResumeSection, newID func() string) []types.ResumeSection {
	seen := make(map[string]bool, len(sections))
	for i := range sections {
		id := sections[i].ID
		for id == "" || seen[id] {
			id = newID()
		}
		sections[i].ID = id
		seen[id] = true
	}
	return sections
}

func toCount(v float64) int {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(math.Round(v))
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
