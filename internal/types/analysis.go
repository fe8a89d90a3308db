package types

// Metrics holds the bullet counts reported by the analysis model. Ratios are derived, never stored.
type Metrics struct {
	TotalBulletPoints  int `json:"totalBulletPoints"`
	BulletsWithMetrics int `json:"bulletsWithMetrics"`
	WeakVerbsCount     int `json:"weakVerbsCount"`
	SectionCount       int `json:"sectionCount"`
}

// AnalysisResult is the structured audit of one uploaded resume.
// OverallScore is derived locally and must be refreshed whenever the other fields change.
type AnalysisResult struct {
	DetectedRole       string          `json:"detectedRole"`
	HardSkillsFound    []string        `json:"hardSkillsFound"`
	MissingHardSkills  []string        `json:"missingHardSkills"`
	SoftSkillsFound    []string        `json:"softSkillsFound"`
	Metrics            Metrics         `json:"metrics"`
	FormattingIssues   []string        `json:"formattingIssues"`
	CriticalErrors     []string        `json:"criticalErrors"`
	Strengths          []string        `json:"strengths"`
	Weaknesses         []string        `json:"weaknesses"`
	SummaryFeedback    string          `json:"summaryFeedback"`
	StructuredSections []ResumeSection `json:"structuredSections"`
	OverallScore       int             `json:"overallScore"`
}

// ImprovedContent holds the two rewrite variants returned for a section.
type ImprovedContent struct {
	Professional string `json:"professional"`
	ATSOptimized string `json:"atsOptimized"`
}

// RewriteMode selects which variant of ImprovedContent is applied.
type RewriteMode string

const (
	// ModeProfessional applies the formal business rewrite
	ModeProfessional RewriteMode = "professional"
	// ModeATSOptimized applies the high-impact, rule-driven rewrite
	ModeATSOptimized RewriteMode = "atsOptimized"
)

// Valid reports whether the mode is one of the known variants.
func (m RewriteMode) Valid() bool {
	return m == ModeProfessional || m == ModeATSOptimized
}

// Pick returns the variant selected by mode.
func (c ImprovedContent) Pick(mode RewriteMode) string {
	if mode == ModeProfessional {
		return c.Professional
	}
	return c.ATSOptimized
}
