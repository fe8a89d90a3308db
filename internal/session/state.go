// Package session holds the per-user workflow snapshot: current step, raw resume text,
// last analysis and current sections. It is an explicit value loaded and saved at step
// boundaries through a Store.
package session

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/jonathan/resume-auditor/internal/schemas"
	"github.com/jonathan/resume-auditor/internal/types"
)

// State is the persisted snapshot of one session.
type State struct {
	Step       types.Step            `json:"step"`
	ResumeText string                `json:"resumeText"`
	Analysis   *types.AnalysisResult `json:"analysis"`
	Sections   []types.ResumeSection `json:"sections"`
}

// DefaultState is the state of a fresh or reset session.
func DefaultState() State {
	return State{Step: types.StepUpload, Sections: []types.ResumeSection{}}
}

// Encode serializes the state.
func Encode(s State) ([]byte, error) {
	if s.Sections == nil {
		s.Sections = []types.ResumeSection{}
	}
	return json.Marshal(s)
}

// Decode parses a stored snapshot. Anything that does not validate, including an
// unknown step, yields DefaultState instead of an error.
func Decode(data []byte) State {
	if err := schemas.Validate(schemas.SessionState, string(data)); err != nil {
		log.Printf("[session] discarding unreadable snapshot: %v", err)
		return DefaultState()
	}
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		log.Printf("[session] discarding unreadable snapshot: %v", err)
		return DefaultState()
	}
	if !s.Step.Valid() {
		log.Printf("[session] discarding snapshot with unknown step %q", s.Step)
		return DefaultState()
	}
	if s.Sections == nil {
		s.Sections = []types.ResumeSection{}
	}
	return s
}

// TransitionError is returned when a step change is not allowed from the current state.
type TransitionError struct {
	From types.Step
	To   types.Step
	Why  string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot move from %s to %s: %s", e.From, e.To, e.Why)
}

// UserMessage is safe to show to the user.
func (e *TransitionError) UserMessage() string {
	return "Upload and analyze a resume first."
}

// Uploaded records a successful upload and analysis and moves to the dashboard.
// The sections start as a copy of the analysis sections.
func (s State) Uploaded(resumeText string, analysis *types.AnalysisResult) State {
	next := State{
		Step:       types.StepDashboard,
		ResumeText: resumeText,
		Analysis:   analysis,
		Sections:   []types.ResumeSection{},
	}
	if analysis != nil && analysis.StructuredSections != nil {
		next.Sections = types.CloneSections(analysis.StructuredSections)
	}
	return next
}

// OpenEditor moves from the dashboard to the editor.
func (s State) OpenEditor() (State, error) {
	if s.Analysis == nil {
		return s, &TransitionError{From: s.Step, To: types.StepEditor, Why: "no analysis"}
	}
	s.Step = types.StepEditor
	return s, nil
}

// BackToDashboard returns from the editor, keeping edited sections.
func (s State) BackToDashboard() (State, error) {
	if s.Analysis == nil {
		return s, &TransitionError{From: s.Step, To: types.StepDashboard, Why: "no analysis"}
	}
	s.Step = types.StepDashboard
	return s, nil
}

// ApplyTailoring replaces the sections with tailored ones and opens the editor.
func (s State) ApplyTailoring(sections []types.ResumeSection) (State, error) {
	if s.Analysis == nil {
		return s, &TransitionError{From: s.Step, To: types.StepEditor, Why: "no analysis"}
	}
	s.Sections = types.CloneSections(sections)
	if s.Sections == nil {
		s.Sections = []types.ResumeSection{}
	}
	s.Step = types.StepEditor
	return s, nil
}

// WithSections swaps in a new section sequence without changing the step.
func (s State) WithSections(sections []types.ResumeSection) State {
	s.Sections = types.CloneSections(sections)
	if s.Sections == nil {
		s.Sections = []types.ResumeSection{}
	}
	return s
}

// Reset clears everything.
func (s State) Reset() State {
	return DefaultState()
}
