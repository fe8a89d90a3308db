package extraction

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-auditor/internal/export"
	"github.com/jonathan/resume-auditor/internal/types"
)

func TestExtractText_PlainText(t *testing.T) {
	data := []byte("\xef\xbb\xbf  Jane Doe\r\nBackend Engineer\r\n\r\n")

	text, err := ExtractText(context.Background(), "resume.TXT", data)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nBackend Engineer", text)
}

func TestExtractText_Unsupported(t *testing.T) {
	tests := []struct {
		filename string
		hint     bool
	}{
		{"resume.doc", true},
		{"resume.rtf", false},
		{"resume", false},
	}
	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			_, err := ExtractText(context.Background(), tt.filename, []byte("x"))
			require.Error(t, err)

			var unsupported *UnsupportedFormatError
			require.True(t, errors.As(err, &unsupported))
			assert.Equal(t, tt.hint, unsupported.Hint != "")
			assert.Contains(t, unsupported.UserMessage(), "Unsupported file format")

			var extractionErr *ExtractionError
			assert.False(t, errors.As(err, &extractionErr))
		})
	}
}

func TestExtractText_EmptyFile(t *testing.T) {
	_, err := ExtractText(context.Background(), "resume.pdf", nil)

	var extractionErr *ExtractionError
	require.True(t, errors.As(err, &extractionErr))
	assert.Equal(t, "pdf", extractionErr.Format)
}

func TestExtractText_CorruptPDF(t *testing.T) {
	_, err := ExtractText(context.Background(), "resume.pdf", []byte("definitely not a pdf"))

	var extractionErr *ExtractionError
	require.True(t, errors.As(err, &extractionErr))
	assert.Equal(t, "pdf", extractionErr.Format)
}

func TestExtractText_CorruptDOCX(t *testing.T) {
	_, err := ExtractText(context.Background(), "resume.docx", []byte("PK not really a zip"))

	var extractionErr *ExtractionError
	require.True(t, errors.As(err, &extractionErr))
	assert.Equal(t, "docx", extractionErr.Format)
}

func TestExtractText_InvalidUTF8(t *testing.T) {
	_, err := ExtractText(context.Background(), "resume.txt", []byte{0xff, 0xfe, 0xfd})

	var extractionErr *ExtractionError
	assert.True(t, errors.As(err, &extractionErr))
}

func TestExtractText_WhitespaceOnly(t *testing.T) {
	_, err := ExtractText(context.Background(), "resume.txt", []byte(" \r\n\t "))

	var extractionErr *ExtractionError
	require.True(t, errors.As(err, &extractionErr))
	assert.Contains(t, extractionErr.Message, "no text")
}

func TestExtractText_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ExtractText(ctx, "resume.txt", []byte("text"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExtractText_DOCXRoundTrip(t *testing.T) {
	sections := []types.ResumeSection{
		{ID: "s1", Title: "Experience", Content: "<ul><li>Built APIs</li><li>Cut costs by 20%</li></ul>"},
		{ID: "s2", Title: "Skills", Content: "Go, SQL"},
	}
	data, err := export.Render(export.DocxExporter{}, sections)
	require.NoError(t, err)

	text, err := ExtractText(context.Background(), "resume.docx", data)
	require.NoError(t, err)
	assert.Equal(t, "EXPERIENCE\n• Built APIs\n• Cut costs by 20%\nSKILLS\nGo, SQL", text)
}

func TestStripDocxXML(t *testing.T) {
	raw := `<w:document xmlns:w="w"><w:body><w:p><w:r><w:t>Jane</w:t><w:tab/><w:t>Doe</w:t></w:r><w:r><w:br/><w:t>Engineer</w:t></w:r></w:p></w:body></w:document>`

	text, err := stripDocxXML(raw)
	require.NoError(t, err)
	assert.Equal(t, "Jane\tDoe\nEngineer\n", text)
}
