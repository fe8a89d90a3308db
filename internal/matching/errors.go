package matching

import "fmt"

// MatchError wraps every failure of a job match. The caller's job description is
// left untouched so the user can retry.
type MatchError struct {
	Message string
	Cause   error
}

func (e *MatchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("job match failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("job match failed: %s", e.Message)
}

func (e *MatchError) Unwrap() error {
	return e.Cause
}

// UserMessage is safe to show to the user.
func (e *MatchError) UserMessage() string {
	return "Job matching failed. Your job description was kept; please try again."
}
