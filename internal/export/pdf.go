package export

import (
	_ "embed"
	"io"

	"github.com/go-pdf/fpdf"

	"github.com/jonathan/resume-auditor/internal/types"
)

// Embedded UTF-8 fonts; text is drawn as-is with no single-byte code page.
var (
	//go:embed fonts/DejaVuSansCondensed.ttf
	fontRegular []byte
	//go:embed fonts/DejaVuSansCondensed-Bold.ttf
	fontBold []byte
)

const (
	pdfFont      = "DejaVu"
	pdfTitleSize = 12
	pdfBodySize  = 10
	pdfTitleR    = 30
	pdfTitleG    = 41
	pdfTitleB    = 59
	pdfBodyR     = 51
	pdfBodyG     = 65
	pdfBodyB     = 85
	pdfRuleR     = 226
	pdfRuleG     = 232
	pdfRuleB     = 240
)

// PDFExporter writes sections as a paginated A4 document.
type PDFExporter struct {
	geometry PageGeometry
}

// NewPDFExporter creates a PDF exporter for the given page geometry.
func NewPDFExporter(g PageGeometry) PDFExporter {
	return PDFExporter{geometry: g}
}

// Format implements Exporter.
func (PDFExporter) Format() Format { return FormatPDF }

// Filename implements Exporter.
func (PDFExporter) Filename() string { return filename(FormatPDF) }

// ContentType implements Exporter.
func (PDFExporter) ContentType() string { return "application/pdf" }

// Export implements Exporter.
func (e PDFExporter) Export(w io.Writer, sections []types.ResumeSection) error {
	pdf := e.build(sections)
	if err := pdf.Error(); err != nil {
		return &RenderError{Format: FormatPDF, Message: "failed to build document", Cause: err}
	}
	if err := pdf.Output(w); err != nil {
		return &RenderError{Format: FormatPDF, Message: "failed to write document", Cause: err}
	}
	return nil
}

// build lays the sections out with real font metrics and draws them. Errors are left on the document.
func (e PDFExporter) build(sections []types.ResumeSection) *fpdf.Fpdf {
	g := e.geometry
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: g.Width, Ht: g.Height},
	})
	pdf.SetMargins(g.Margin, g.Margin, g.Margin)
	pdf.SetAutoPageBreak(false, g.BottomMargin)
	pdf.AddUTF8FontFromBytes(pdfFont, "", fontRegular)
	pdf.AddUTF8FontFromBytes(pdfFont, "B", fontBold)
	if pdf.Err() {
		return pdf
	}

	measureIn := func(style string, size float64) GreedyWrapper {
		return GreedyWrapper{Measure: func(s string) float64 {
			pdf.SetFont(pdfFont, style, size)
			return pdf.GetStringWidth(s)
		}}
	}
	layout := Paginate(sections, g, measureIn("", pdfBodySize), measureIn("B", pdfTitleSize))

	pdf.AddPage()
	page := 1
	for _, el := range layout.Elements {
		for page < el.Page {
			pdf.AddPage()
			page++
		}
		switch el.Kind {
		case ElementTitle:
			pdf.SetFont(pdfFont, "B", pdfTitleSize)
			pdf.SetTextColor(pdfTitleR, pdfTitleG, pdfTitleB)
			pdf.Text(g.Margin, el.Y, el.Text)
		case ElementRule:
			pdf.SetDrawColor(pdfRuleR, pdfRuleG, pdfRuleB)
			pdf.Line(g.Margin, el.Y, g.Width-g.Margin, el.Y)
		case ElementLine:
			pdf.SetFont(pdfFont, "", pdfBodySize)
			pdf.SetTextColor(pdfBodyR, pdfBodyG, pdfBodyB)
			pdf.Text(g.Margin, el.Y, el.Text)
		}
	}
	return pdf
}
