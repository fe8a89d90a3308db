// Package export serializes resume sections into plain text, paginated PDF and DOCX.
// All exporters normalize section content with the markup package first and differ
// only in layout.
package export

import (
	"bytes"
	"io"
	"strings"

	"github.com/jonathan/resume-auditor/internal/types"
)

// Format identifies an output encoding.
type Format string

const (
	FormatText Format = "txt"
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
)

// filenameBase is shared by every exported file.
const filenameBase = "ATS_Optimized_Resume"

// Exporter writes a section sequence in one output format.
type Exporter interface {
	Export(w io.Writer, sections []types.ResumeSection) error
	Format() Format
	Filename() string
	ContentType() string
}

// ParseFormat maps a user-supplied format name to a Format.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatText, FormatPDF, FormatDOCX:
		return f, nil
	default:
		return "", &UnknownFormatError{Format: name}
	}
}

// ForFormat returns the exporter for f.
func ForFormat(f Format) (Exporter, error) {
	switch f {
	case FormatText:
		return TextExporter{}, nil
	case FormatPDF:
		return NewPDFExporter(A4()), nil
	case FormatDOCX:
		return DocxExporter{}, nil
	default:
		return nil, &UnknownFormatError{Format: string(f)}
	}
}

// Render runs an exporter into memory.
func Render(e Exporter, sections []types.ResumeSection) ([]byte, error) {
	var buf bytes.Buffer
	if err := e.Export(&buf, sections); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func filename(f Format) string {
	return filenameBase + "." + string(f)
}
