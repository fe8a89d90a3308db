package rewriting

import "fmt"

// APICallError represents a failed model call for one section
type APICallError struct {
	Message string
	Cause   error
}

func (e *APICallError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("API call failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("API call failed: %s", e.Message)
}

func (e *APICallError) Unwrap() error {
	return e.Cause
}

// UserMessage is safe to show to the user.
func (e *APICallError) UserMessage() string {
	return "The rewrite service is unavailable right now. Please try again."
}

// ParseError represents a model response that failed validation or decoding
type ParseError struct {
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// UserMessage is safe to show to the user.
func (e *ParseError) UserMessage() string {
	return "The rewrite came back in an unexpected format. Please try again."
}

// BatchError is returned when a batch rewrite cannot start at all.
// Failures of individual sections never produce one.
type BatchError struct {
	Message string
	Cause   error
}

func (e *BatchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("batch rewrite failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("batch rewrite failed: %s", e.Message)
}

func (e *BatchError) Unwrap() error {
	return e.Cause
}

// UserMessage is safe to show to the user.
func (e *BatchError) UserMessage() string {
	return "Could not start the rewrite. Please try again."
}

// SectionNotFoundError is returned when an edit names an unknown section id.
type SectionNotFoundError struct {
	ID string
}

func (e *SectionNotFoundError) Error() string {
	return fmt.Sprintf("section %q not found", e.ID)
}
