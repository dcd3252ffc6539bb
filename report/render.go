package report

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

const (
	fontFamily = "Arial"
	pageMargin = 15.0
)

type rgb struct{ r, g, b int }

var (
	headingFill   = rgb{200, 220, 255}
	tableHeadFill = rgb{232, 232, 232}
	highlightFill = rgb{220, 240, 220}
)

// Renderer lays a Document out on A4 pages.
type Renderer struct {
	// Compress deflates page streams. Turn it off to grep the raw output.
	Compress bool
}

func NewRenderer() *Renderer {
	return &Renderer{Compress: true}
}

// Render returns the finished PDF bytes.
func (r *Renderer) Render(doc Document) ([]byte, error) {
	pdf := r.layout(doc)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) layout(doc Document) *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(r.Compress)
	pdf.SetTitle(doc.Title, false)
	pdf.SetCreator("TaxBot India", false)
	if !doc.Meta.GeneratedAt.IsZero() {
		pdf.SetCreationDate(doc.Meta.GeneratedAt)
	}
	pdf.SetAutoPageBreak(true, pageMargin)

	pdf.SetHeaderFunc(func() {
		pdf.SetFont(fontFamily, "B", 15)
		pdf.CellFormat(0, 10, doc.Title, "", 1, "C", false, 0, "")
		pdf.SetFont(fontFamily, "I", 10)
		pdf.CellFormat(0, 5, "Generated on: "+doc.Meta.GeneratedAt.Format("02 Jan 2006, 15:04"), "", 1, "C", false, 0, "")
		if doc.Meta.ID != "" {
			pdf.SetFont(fontFamily, "I", 8)
			pdf.CellFormat(0, 4, "Report ID: "+doc.Meta.ID, "", 1, "C", false, 0, "")
		}
		pdf.Ln(5)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-pageMargin)
		pdf.SetFont(fontFamily, "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	for _, b := range doc.Blocks {
		switch v := b.(type) {
		case Heading:
			pdf.SetFont(fontFamily, "B", 12)
			pdf.SetFillColor(headingFill.r, headingFill.g, headingFill.b)
			pdf.CellFormat(0, 6, v.Text, "", 1, "L", true, 0, "")
			pdf.Ln(4)
		case Paragraph:
			style := ""
			if v.Bold {
				style = "B"
			}
			pdf.SetFont(fontFamily, style, 11)
			for _, line := range v.Lines {
				pdf.MultiCell(0, 6, line, "", "L", false)
			}
			pdf.Ln(2)
		case Table:
			drawTable(pdf, v)
		case Highlight:
			pdf.SetFont(fontFamily, "B", 11)
			pdf.SetFillColor(highlightFill.r, highlightFill.g, highlightFill.b)
			for _, line := range v.Lines {
				pdf.MultiCell(0, 7, line, "", "L", true)
			}
			pdf.Ln(4)
		case NumberedList:
			pdf.SetFont(fontFamily, "", 11)
			for i, item := range v.Items {
				pdf.MultiCell(0, 6, fmt.Sprintf("%d. %s", i+1, item), "", "L", false)
			}
		case Note:
			pdf.SetFont(fontFamily, "I", 9)
			pdf.MultiCell(0, 5, v.Text, "", "L", false)
		case Spacer:
			pdf.Ln(v.Height)
		case PageBreak:
			pdf.AddPage()
		}
	}
	return pdf
}

func drawTable(pdf *fpdf.Fpdf, t Table) {
	left, _, right, _ := pdf.GetMargins()
	pageWidth, _ := pdf.GetPageSize()
	colWidth := pageWidth - left - right
	if len(t.Header) > 0 {
		colWidth /= float64(len(t.Header))
	}

	pdf.SetFont(fontFamily, "B", 11)
	pdf.SetFillColor(tableHeadFill.r, tableHeadFill.g, tableHeadFill.b)
	for _, h := range t.Header {
		pdf.CellFormat(colWidth, 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(fontFamily, "", 10)
	for _, row := range t.Rows {
		for _, cell := range row {
			pdf.CellFormat(colWidth, 6, cell, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}
}
