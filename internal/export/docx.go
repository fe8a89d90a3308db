package export

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"strconv"
	"strings"

	"github.com/jonathan/resume-auditor/internal/markup"
	"github.com/jonathan/resume-auditor/internal/types"
)

const (
	docxHeadingBefore = 240
	docxHeadingAfter  = 120
	docxBodyAfter     = 80
	docxBodySize      = 22 // half-points
)

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>
</Types>`

const packageRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

const documentRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>
</Relationships>`

const stylesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/><w:rPr><w:sz w:val="22"/></w:rPr></w:style>
<w:style w:type="paragraph" w:styleId="Heading2"><w:name w:val="heading 2"/><w:basedOn w:val="Normal"/><w:next w:val="Normal"/><w:qFormat/><w:pPr><w:keepNext/><w:outlineLvl w:val="1"/></w:pPr><w:rPr><w:b/><w:sz w:val="26"/></w:rPr></w:style>
</w:styles>`

const documentOpen = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`

const documentClose = `<w:sectPr><w:pgSz w:w="11906" w:h="16838"/><w:pgMar w:top="1440" w:right="1440" w:bottom="1440" w:left="1440" w:header="708" w:footer="708" w:gutter="0"/></w:sectPr></w:body></w:document>`

// DocxExporter writes a minimal WordprocessingML package: a Heading2 paragraph per
// section followed by one justified paragraph per normalized line.
type DocxExporter struct{}

// Format implements Exporter.
func (DocxExporter) Format() Format { return FormatDOCX }

// Filename implements Exporter.
func (DocxExporter) Filename() string { return filename(FormatDOCX) }

// ContentType implements Exporter.
func (DocxExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
}

// Export implements Exporter.
func (DocxExporter) Export(w io.Writer, sections []types.ResumeSection) error {
	body, err := documentXML(sections)
	if err != nil {
		return &RenderError{Format: FormatDOCX, Message: "failed to build document body", Cause: err}
	}

	parts := []struct {
		name    string
		content []byte
	}{
		{"[Content_Types].xml", []byte(contentTypesXML)},
		{"_rels/.rels", []byte(packageRelsXML)},
		{"word/_rels/document.xml.rels", []byte(documentRelsXML)},
		{"word/styles.xml", []byte(stylesXML)},
		{"word/document.xml", body},
	}

	zw := zip.NewWriter(w)
	for _, part := range parts {
		fw, err := zw.Create(part.name)
		if err != nil {
			return &RenderError{Format: FormatDOCX, Message: "failed to create " + part.name, Cause: err}
		}
		if _, err := fw.Write(part.content); err != nil {
			return &RenderError{Format: FormatDOCX, Message: "failed to write " + part.name, Cause: err}
		}
	}
	if err := zw.Close(); err != nil {
		return &RenderError{Format: FormatDOCX, Message: "failed to finalize archive", Cause: err}
	}
	return nil
}

func documentXML(sections []types.ResumeSection) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(documentOpen)
	for _, section := range sections {
		if err := writeHeading(&buf, strings.ToUpper(section.Title)); err != nil {
			return nil, err
		}
		for _, line := range markup.Normalize(section.Content) {
			if strings.TrimSpace(line) == "" {
				continue
			}
			if err := writeBodyParagraph(&buf, line); err != nil {
				return nil, err
			}
		}
	}
	buf.WriteString(documentClose)
	return buf.Bytes(), nil
}

func writeHeading(buf *bytes.Buffer, text string) error {
	buf.WriteString(`<w:p><w:pPr><w:pStyle w:val="Heading2"/>`)
	writeSpacing(buf, docxHeadingBefore, docxHeadingAfter)
	buf.WriteString(`</w:pPr><w:r>`)
	if err := writeText(buf, text); err != nil {
		return err
	}
	buf.WriteString(`</w:r></w:p>`)
	return nil
}

func writeBodyParagraph(buf *bytes.Buffer, text string) error {
	buf.WriteString(`<w:p><w:pPr>`)
	writeSpacing(buf, 0, docxBodyAfter)
	buf.WriteString(`<w:jc w:val="both"/></w:pPr><w:r><w:rPr><w:sz w:val="`)
	buf.WriteString(strconv.Itoa(docxBodySize))
	buf.WriteString(`"/></w:rPr>`)
	if err := writeText(buf, text); err != nil {
		return err
	}
	buf.WriteString(`</w:r></w:p>`)
	return nil
}

func writeSpacing(buf *bytes.Buffer, before, after int) {
	buf.WriteString(`<w:spacing w:before="`)
	buf.WriteString(strconv.Itoa(before))
	buf.WriteString(`" w:after="`)
	buf.WriteString(strconv.Itoa(after))
	buf.WriteString(`"/>`)
}

func writeText(buf *bytes.Buffer, text string) error {
	buf.WriteString(`<w:t xml:space="preserve">`)
	if err := xml.EscapeText(buf, []byte(text)); err != nil {
		return err
	}
	buf.WriteString(`</w:t>`)
	return nil
}
