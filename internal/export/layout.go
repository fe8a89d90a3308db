package export

import (
	"strings"

	"github.com/jonathan/resume-auditor/internal/markup"
	"github.com/jonathan/resume-auditor/internal/types"
)

// PageGeometry fixes the page size and vertical rhythm of the paginated export, in millimetres.
type PageGeometry struct {
	Width        float64
	Height       float64
	Margin       float64 // left, right and top
	BottomMargin float64
	TitleReserve float64 // space required below the cursor before a title is placed
	TitleLeading float64 // baseline distance between wrapped title lines
	LineReserve  float64 // space required below the cursor before a body line is placed
	LineHeight   float64
	RuleOffset   float64 // title baseline to horizontal rule
	RuleGap      float64 // rule to first body line
	SectionGap   float64
}

// A4 returns the portrait A4 geometry used for resume exports.
func A4() PageGeometry {
	return PageGeometry{
		Width:        210,
		Height:       297,
		Margin:       15,
		BottomMargin: 15,
		TitleReserve: 20,
		TitleLeading: 6,
		LineReserve:  7,
		LineHeight:   5.5,
		RuleOffset:   2,
		RuleGap:      6,
		SectionGap:   6,
	}
}

// ContentWidth is the usable width between the side margins.
func (g PageGeometry) ContentWidth() float64 {
	return g.Width - 2*g.Margin
}

// Limit is the lowest y coordinate content may reach.
func (g PageGeometry) Limit() float64 {
	return g.Height - g.BottomMargin
}

// ElementKind tells the drawing stage what to put at a position.
type ElementKind int

const (
	ElementTitle ElementKind = iota
	ElementRule
	ElementLine
)

// Element is one placed item of the layout. Y is the text baseline (or rule position).
type Element struct {
	Kind    ElementKind
	Page    int
	Y       float64
	Text    string
	Section int
}

// Layout is the full placement of a document.
type Layout struct {
	Elements []Element
	Pages    int
}

// LineWrapper splits one logical line into physical lines no wider than width.
type LineWrapper interface {
	Wrap(text string, width float64) []string
}

// Paginate places every section on pages. Body lines are wrapped with body and titles
// with title, both to ContentWidth. Page breaks are decided before an element is
// placed, so the last line of a title always has TitleReserve below it and a body line
// always has LineReserve below it on the page it lands on. A title block never splits.
func Paginate(sections []types.ResumeSection, g PageGeometry, body, title LineWrapper) Layout {
	layout := Layout{Pages: 1}
	page := 1
	y := g.Margin
	limit := g.Limit()

	newPage := func() {
		page++
		layout.Pages = page
		y = g.Margin
	}

	for i, section := range sections {
		var physical []string
		for _, line := range markup.Normalize(section.Content) {
			physical = append(physical, body.Wrap(line, g.ContentWidth())...)
		}

		titleLines := title.Wrap(strings.ToUpper(section.Title), g.ContentWidth())
		if len(titleLines) == 0 {
			titleLines = []string{""}
		}
		extra := float64(len(titleLines)-1) * g.TitleLeading
		if y+extra+g.TitleReserve > limit && y > g.Margin {
			newPage()
		}
		for j, text := range titleLines {
			if j > 0 {
				y += g.TitleLeading
			}
			layout.Elements = append(layout.Elements, Element{
				Kind: ElementTitle, Page: page, Y: y, Text: text, Section: i,
			})
		}

		y += g.RuleOffset
		layout.Elements = append(layout.Elements, Element{Kind: ElementRule, Page: page, Y: y, Section: i})
		y += g.RuleGap

		for _, line := range physical {
			if y+g.LineReserve > limit {
				newPage()
			}
			layout.Elements = append(layout.Elements, Element{
				Kind: ElementLine, Page: page, Y: y, Text: line, Section: i,
			})
			y += g.LineHeight
		}

		y += g.SectionGap
	}

	return layout
}
