package analysis

import "fmt"

// userMessage is the single message shown for any analysis failure.
const userMessage = "Failed to analyze resume. Please check your API key and try again."

// AnalysisError wraps every failure of the analysis call: transport, malformed JSON or
// schema mismatch. Callers keep no partial state when they see one.
type AnalysisError struct {
	Message string
	Cause   error
}

func (e *AnalysisError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("analysis failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("analysis failed: %s", e.Message)
}

func (e *AnalysisError) Unwrap() error {
	return e.Cause
}

// UserMessage is safe to show to the user.
func (e *AnalysisError) UserMessage() string {
	return userMessage
}
