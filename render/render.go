/*
Package render paginates report documents.

PURPOSE:
  Turns the documents assembled by report/ into bytes: PDF attendance
  cards (A4, one employee per page), a PDF salary sheet (A3 landscape)
  and an XLSX salary sheet. Rendering never changes a figure; every value
  printed comes from the document as assembled.

EMPTY DOCUMENTS:
  A document without pages or departments still renders a valid file
  carrying the company header and a short notice.

SEE ALSO:
  - report/request.go: document types
*/
package render

import (
	"fmt"
	"io"
	"time"

	"github.com/alhasan/attendance-payroll/report"
	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Document formats.
const (
	FormatPDF  = "pdf"
	FormatXLSX = "xlsx"
	FormatJSON = "json"
)

// DateLayout is the printed form of calendar dates, e.g. 02-Aug-2022.
const DateLayout = "02-Jan-2006"

const (
	fontFamily = "Times"
	lineHeight = 6.0
)

var printer = message.NewPrinter(language.English)

// ContentType returns the MIME type of a format.
func ContentType(format string) string {
	switch format {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatJSON:
		return "application/json"
	default:
		return "application/pdf"
	}
}

// PDF renders any document as PDF.
func PDF(w io.Writer, doc report.Document) error {
	switch d := doc.(type) {
	case *report.AttendanceDocument:
		return AttendancePDF(w, d)
	case *report.SalaryDocument:
		return SalaryPDF(w, d)
	default:
		return fmt.Errorf("%T: %w", doc, report.ErrUnknownKind)
	}
}

// Amount formats money with thousands separators: 26000 -> "26,000".
func Amount(d decimal.Decimal) string {
	if d.Equal(d.Truncate(0)) {
		return printer.Sprintf("%d", d.IntPart())
	}
	return printer.Sprintf("%.2f", d.InexactFloat64())
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// pdfDoc routes every cell through a cp1252 translator, the encoding of the
// core fonts.
type pdfDoc struct {
	*fpdf.Fpdf
	tr func(string) string
}

// CellFormat shadows fpdf's CellFormat with translated text.
func (d *pdfDoc) CellFormat(w, h float64, txt, border string, ln int, align string, fill bool, link int, linkStr string) {
	d.Fpdf.CellFormat(w, h, d.tr(txt), border, ln, align, fill, link, linkStr)
}

func newPDF(orientation, size, title string) *pdfDoc {
	pdf := &pdfDoc{Fpdf: fpdf.New(orientation, "mm", size, "")}
	pdf.tr = pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(title, true)
	pdf.SetCreator("attendance-payroll", false)
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 12)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-10)
		pdf.SetFont(fontFamily, "I", 8)
		pdf.CellFormat(0, 5, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	return pdf
}

func output(w io.Writer, pdf *pdfDoc) error {
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return pdf.Output(w)
}
