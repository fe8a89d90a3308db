// Package extraction turns uploaded resume files into plain text.
// PDF is read with github.com/ledongthuc/pdf and DOCX with github.com/nguyenthenguyen/docx.
package extraction

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// Extractor converts one file format to text.
type Extractor func(data []byte) (string, error)

var extractors = map[string]Extractor{
	".pdf":  extractPDF,
	".docx": extractDOCX,
	".txt":  extractPlain,
	".md":   extractPlain,
}

// Supported lists the accepted extensions.
func Supported() []string {
	return []string{".pdf", ".docx", ".txt", ".md"}
}

// ExtractText picks an extractor from the filename extension and returns normalized text.
func ExtractText(ctx context.Context, filename string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	extract, ok := extractors[ext]
	if !ok {
		unsupported := &UnsupportedFormatError{Filename: filename, Extension: ext}
		if ext == ".doc" {
			unsupported.Hint = "Legacy .doc files are not supported; save the file as DOCX or PDF."
		}
		return "", unsupported
	}

	if len(data) == 0 {
		return "", &ExtractionError{Format: strings.TrimPrefix(ext, "."), Message: "file is empty"}
	}

	text, err := extract(data)
	if err != nil {
		return "", err
	}

	text = normalize(text)
	if text == "" {
		return "", &ExtractionError{Format: strings.TrimPrefix(ext, "."), Message: "no text found in document"}
	}
	return text, nil
}

func normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.TrimSpace(text)
}

func extractPlain(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", &ExtractionError{Format: "txt", Message: "file is not valid UTF-8"}
	}
	return string(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))), nil
}

// extractPDF reads every page; the parser panics on some malformed inputs, so that is
// converted into an ExtractionError.
func extractPDF(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = &ExtractionError{Format: "pdf", Message: "malformed document", Cause: fmt.Errorf("%v", r)}
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ExtractionError{Format: "pdf", Message: "failed to open document", Cause: err}
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", &ExtractionError{Format: "pdf", Message: fmt.Sprintf("failed to read page %d", i), Cause: err}
		}
		sb.WriteString(pageText)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

func extractDOCX(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ExtractionError{Format: "docx", Message: "failed to open document", Cause: err}
	}
	defer doc.Close()

	return stripDocxXML(doc.Editable().GetContent())
}

// stripDocxXML keeps character data and ends a line at each paragraph, break or tab.
func stripDocxXML(raw string) (string, error) {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var sb strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", &ExtractionError{Format: "docx", Message: "malformed document body", Cause: err}
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "tab" {
				sb.WriteString("\t")
			}
		case xml.CharData:
			sb.Write(t)
		case xml.EndElement:
			if t.Name.Local == "p" || t.Name.Local == "br" {
				sb.WriteString("\n")
			}
		}
	}
	return sb.String(), nil
}
