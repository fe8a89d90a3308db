package types

// Step is the user-visible stage of a session.
type Step string

const (
	StepUpload    Step = "UPLOAD"
	StepDashboard Step = "DASHBOARD"
	StepEditor    Step = "EDITOR"
)

// Valid reports whether s is a known step.
func (s Step) Valid() bool {
	switch s {
	case StepUpload, StepDashboard, StepEditor:
		return true
	}
	return false
}
