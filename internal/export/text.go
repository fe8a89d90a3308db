package export

import (
	"bufio"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-auditor/internal/markup"
	"github.com/jonathan/resume-auditor/internal/types"
)

// TextExporter writes the reference plain-text serialization: an uppercased title,
// an "=" underline as long as the title, the normalized lines and a blank separator.
type TextExporter struct{}

// Format implements Exporter.
func (TextExporter) Format() Format { return FormatText }

// Filename implements Exporter.
func (TextExporter) Filename() string { return filename(FormatText) }

// ContentType implements Exporter.
func (TextExporter) ContentType() string { return "text/plain; charset=utf-8" }

// Export implements Exporter.
func (TextExporter) Export(w io.Writer, sections []types.ResumeSection) error {
	bw := bufio.NewWriter(w)
	for _, section := range sections {
		bw.WriteString(strings.ToUpper(section.Title))
		bw.WriteString("\n")
		bw.WriteString(strings.Repeat("=", utf8.RuneCountInString(section.Title)))
		bw.WriteString("\n")
		bw.WriteString(strings.Join(markup.Normalize(section.Content), "\n"))
		bw.WriteString("\n\n")
	}
	if err := bw.Flush(); err != nil {
		return &RenderError{Format: FormatText, Message: "failed to write text", Cause: err}
	}
	return nil
}

// Text is a convenience wrapper returning the plain-text serialization as a string.
func Text(sections []types.ResumeSection) string {
	var sb strings.Builder
	_ = TextExporter{}.Export(&sb, sections)
	return sb.String()
}
