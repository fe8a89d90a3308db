package types

import (
	"github.com/go-playground/validator/v10"
)

// RewriteRequest asks for every section of a session to be rewritten in one mode.
type RewriteRequest struct {
	Mode RewriteMode `json:"mode" validate:"required,oneof=professional atsOptimized"`
}

// UpdateSectionRequest replaces the content of one section after a manual edit.
type UpdateSectionRequest struct {
	Content string `json:"content"`
}

// MatchRequest carries the job description pasted by the user.
type MatchRequest struct {
	JobDescription string `json:"job_description" validate:"required,min=20"`
}

// TailorRequest applies tailored sections returned by a previous match.
type TailorRequest struct {
	Sections []ResumeSection `json:"sections" validate:"required,min=1,dive"`
}

// ScoreRequest posts an analysis to be (re)scored.
type ScoreRequest struct {
	Analysis *AnalysisResult `json:"analysis" validate:"required"`
}

var validate = validator.New()

// Validate validates the RewriteRequest using the validator.
func (r *RewriteRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the MatchRequest using the validator.
func (r *MatchRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the TailorRequest using the validator.
func (r *TailorRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the ScoreRequest using the validator.
func (r *ScoreRequest) Validate() error {
	return validate.Struct(r)
}
