package rewriting

import "github.com/jonathan/resume-auditor/internal/types"

// ApplyRewrite replaces the content of a section, capturing the pre-rewrite content as
// OriginalContent the first time only.
func ApplyRewrite(section types.ResumeSection, newContent string) types.ResumeSection {
	if !section.HasOriginal() {
		section.OriginalContent = section.Content
	}
	section.Content = newContent
	return section
}

// RevertSection restores the captured original, if any. The original stays captured.
func RevertSection(section types.ResumeSection) types.ResumeSection {
	if section.HasOriginal() {
		section.Content = section.OriginalContent
	}
	return section
}

// ApplyToSection applies newContent to the section with id, returning a new slice.
func ApplyToSection(sections []types.ResumeSection, id, newContent string) ([]types.ResumeSection, error) {
	i := types.FindSection(sections, id)
	if i < 0 {
		return nil, &SectionNotFoundError{ID: id}
	}
	out := types.CloneSections(sections)
	out[i] = ApplyRewrite(out[i], newContent)
	return out, nil
}

// RevertByID reverts the section with id, returning a new slice.
func RevertByID(sections []types.ResumeSection, id string) ([]types.ResumeSection, error) {
	i := types.FindSection(sections, id)
	if i < 0 {
		return nil, &SectionNotFoundError{ID: id}
	}
	out := types.CloneSections(sections)
	out[i] = RevertSection(out[i])
	return out, nil
}

// UpdateSectionContent records a manual edit. Manual edits never touch OriginalContent.
func UpdateSectionContent(sections []types.ResumeSection, id, content string) ([]types.ResumeSection, error) {
	i := types.FindSection(sections, id)
	if i < 0 {
		return nil, &SectionNotFoundError{ID: id}
	}
	out := types.CloneSections(sections)
	out[i].Content = content
	return out, nil
}
