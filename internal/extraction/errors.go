package extraction

import "fmt"

// UnsupportedFormatError is returned for file types no extractor handles.
type UnsupportedFormatError struct {
	Filename  string
	Extension string
	Hint      string
}

func (e *UnsupportedFormatError) Error() string {
	msg := fmt.Sprintf("unsupported file format %q for %s", e.Extension, e.Filename)
	if e.Hint != "" {
		msg += ": " + e.Hint
	}
	return msg
}

// UserMessage is safe to show to the uploader.
func (e *UnsupportedFormatError) UserMessage() string {
	if e.Hint != "" {
		return "Unsupported file format. " + e.Hint
	}
	return "Unsupported file format. Please upload PDF or Word files."
}

// ExtractionError represents a parser failure on a supported format.
type ExtractionError struct {
	Format  string
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s extraction failed: %s: %v", e.Format, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s extraction failed: %s", e.Format, e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// UserMessage is safe to show to the uploader.
func (e *ExtractionError) UserMessage() string {
	return "Could not read text from the uploaded file. Please try another file."
}
