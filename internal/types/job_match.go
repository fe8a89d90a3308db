package types

// JobMatchResult is the comparison of a resume against a pasted job description.
// MatchPercentage is derived from the keyword sets, never taken from the model.
type JobMatchResult struct {
	MatchPercentage  int             `json:"matchPercentage"`
	MatchingKeywords []string        `json:"matchingKeywords"`
	MissingKeywords  []string        `json:"missingKeywords"`
	MatchFeedback    string          `json:"matchFeedback"`
	TailoredSections []ResumeSection `json:"tailoredSections,omitempty"`
}
