// Package scoring computes the deterministic ATS compliance score of an analysis.
package scoring

import (
	"math"
	"strings"

	"github.com/jonathan/resume-auditor/internal/types"
)

// Score weights. Every term is capped on its own so no single category dominates.
const (
	baselinePoints = 15.0

	skillPointsEach = 2.0
	skillPointsCap  = 25.0

	impactTargetRatio = 0.30
	impactScale       = 15.0
	impactCap         = 20.0

	missingSkillPenaltyEach = 3.0
	missingSkillPenaltyCap  = 15.0
	formattingPenaltyEach   = 4.0
	formattingPenaltyCap    = 12.0
	weakVerbPenaltyEach     = 1.0
	weakVerbPenaltyCap      = 10.0
	criticalPenaltyEach     = 15.0
	criticalPenaltyCap      = 45.0

	minScore = 0
	maxScore = 100
)

// structureCategory is a canonical section category matched by title keywords.
type structureCategory struct {
	Key      string
	Label    string
	Keywords []string
	Points   float64
}

var structureCategories = []structureCategory{
	{Key: "experience", Label: "Experience section", Keywords: []string{"experience", "work"}, Points: 10},
	{Key: "education", Label: "Education section", Keywords: []string{"education"}, Points: 5},
	{Key: "skills", Label: "Skills section", Keywords: []string{"skills", "technologies"}, Points: 5},
	{Key: "summary", Label: "Summary section", Keywords: []string{"summary", "profile"}, Points: 5},
}

// Score returns the compliance score of the analysis in [0, 100].
// A nil analysis scores the floor.
func Score(analysis *types.AnalysisResult) int {
	return Explain(analysis).Total
}

// Rescore recomputes and stores OverallScore on the analysis. It returns the new score.
func Rescore(analysis *types.AnalysisResult) int {
	if analysis == nil {
		return minScore
	}
	analysis.OverallScore = Score(analysis)
	return analysis.OverallScore
}

// Explain returns the per-term breakdown whose clamped sum is the score.
func Explain(analysis *types.AnalysisResult) Breakdown {
	if analysis == nil {
		return Breakdown{Total: minScore}
	}

	components := make([]Component, 0, 9)
	components = append(components, Component{
		Key:    "baseline",
		Label:  "Baseline structure",
		Points: baselinePoints,
	})

	components = append(components, structureComponents(analysis.StructuredSections)...)

	components = append(components, Component{
		Key:    "hardSkills",
		Label:  "Hard skills found",
		Points: cappedProduct(len(analysis.HardSkillsFound), skillPointsEach, skillPointsCap),
		Cap:    skillPointsCap,
	})

	components = append(components, Component{
		Key:    "impact",
		Label:  "Quantified bullet ratio",
		Points: impactPoints(analysis.Metrics),
		Cap:    impactCap,
	})

	components = append(components,
		Component{
			Key:    "missingSkills",
			Label:  "Missing hard skills",
			Points: -cappedProduct(len(analysis.MissingHardSkills), missingSkillPenaltyEach, missingSkillPenaltyCap),
			Cap:    missingSkillPenaltyCap,
		},
		Component{
			Key:    "formatting",
			Label:  "Formatting issues",
			Points: -cappedProduct(len(analysis.FormattingIssues), formattingPenaltyEach, formattingPenaltyCap),
			Cap:    formattingPenaltyCap,
		},
		Component{
			Key:    "weakVerbs",
			Label:  "Weak verbs",
			Points: -cappedProduct(analysis.Metrics.WeakVerbsCount, weakVerbPenaltyEach, weakVerbPenaltyCap),
			Cap:    weakVerbPenaltyCap,
		},
		Component{
			Key:    "criticalErrors",
			Label:  "Critical errors",
			Points: -cappedProduct(len(analysis.CriticalErrors), criticalPenaltyEach, criticalPenaltyCap),
			Cap:    criticalPenaltyCap,
		},
	)

	raw := 0.0
	for _, c := range components {
		raw += c.Points
	}

	return Breakdown{
		Components: components,
		Raw:        raw,
		Total:      clampScore(raw),
	}
}

// structureComponents awards each category at most once, independently of the others.
func structureComponents(sections []types.ResumeSection) []Component {
	titles := make([]string, 0, len(sections))
	for _, s := range sections {
		titles = append(titles, strings.ToLower(s.Title))
	}

	out := make([]Component, 0, len(structureCategories))
	for _, cat := range structureCategories {
		points := 0.0
		if anyTitleContains(titles, cat.Keywords) {
			points = cat.Points
		}
		out = append(out, Component{
			Key:    "structure." + cat.Key,
			Label:  cat.Label,
			Points: points,
			Cap:    cat.Points,
		})
	}
	return out
}

func anyTitleContains(titles []string, keywords []string) bool {
	for _, title := range titles {
		for _, kw := range keywords {
			if strings.Contains(title, kw) {
				return true
			}
		}
	}
	return false
}

// impactPoints scales the quantified ratio against the target ratio. Zero bullets contribute zero.
func impactPoints(m types.Metrics) float64 {
	total := max(m.TotalBulletPoints, 0)
	if total == 0 {
		return 0
	}
	withMetrics := min(max(m.BulletsWithMetrics, 0), total)
	ratio := float64(withMetrics) / float64(total)
	return math.Min(ratio/impactTargetRatio*impactScale, impactCap)
}

// cappedProduct returns min(count*each, limit), treating negative counts as zero.
func cappedProduct(count int, each, limit float64) float64 {
	if count <= 0 {
		return 0
	}
	return math.Min(float64(count)*each, limit)
}

func clampScore(raw float64) int {
	if math.IsNaN(raw) {
		return minScore
	}
	rounded := int(math.Round(raw))
	return min(max(rounded, minScore), maxScore)
}
