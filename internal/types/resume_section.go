// Package types provides type definitions for structured data used throughout the resume-auditor system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// ResumeSection is one titled block of a resume. Content is a small rich-text dialect
// (bold spans, unordered lists, line breaks).
type ResumeSection struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Content         string `json:"content"`
	OriginalContent string `json:"originalContent,omitempty"`
}

// HasOriginal reports whether a pre-rewrite snapshot has been captured.
func (s ResumeSection) HasOriginal() bool {
	return s.OriginalContent != ""
}

// FindSection returns the index of the section with the given id, or -1.
func FindSection(sections []ResumeSection, id string) int {
	for i := range sections {
		if sections[i].ID == id {
			return i
		}
	}
	return -1
}

// CloneSections returns a copy of the slice so callers can swap it in atomically.
func CloneSections(sections []ResumeSection) []ResumeSection {
	if sections == nil {
		return nil
	}
	out := make([]ResumeSection, len(sections))
	copy(out, sections)
	return out
}
