package render

import (
	"io"
	"strconv"

	"github.com/alhasan/attendance-payroll/payroll"
	"github.com/alhasan/attendance-payroll/report"
	"github.com/shopspring/decimal"
)

// SalaryColumns are the salary sheet headers, shared by the PDF and XLSX output.
var SalaryColumns = []string{
	"Srl #", "E-Code", "Name", "Designation", "DOJ", "Gross Salary", "Days", "O/T",
	"O/T Amount", "EOBI", "Tax", "Loan", "Other ded.", "Advance Amount", "Net Pay",
	"Receipent Signature",
}

var salaryWidths = []float64{12, 18, 45, 35, 22, 26, 14, 14, 22, 18, 18, 18, 22, 26, 28, 42}

// labelColumns is how many leading columns a totals label spans.
const labelColumns = 5

// SalaryTitle is the heading printed above the sheet, e.g. "Salary sheet for the month Aug - 23".
func SalaryTitle(m payroll.Month) string {
	return "Salary sheet for the month " + m.Label()
}

// SalaryCells returns the printed cells of one row in SalaryColumns order.
func SalaryCells(r payroll.Row) []string {
	return []string{
		strconv.Itoa(r.Serial),
		r.Code,
		r.Name,
		r.Designation,
		formatDate(r.JoinedOn),
		Amount(r.Gross),
		strconv.Itoa(r.Days),
		Amount(r.Overtime),
		Amount(r.OvertimeAmount),
		Amount(r.EOBI),
		Amount(r.Tax),
		Amount(r.Loan),
		Amount(r.OtherDeductions),
		Amount(r.Advance),
		Amount(r.NetPay),
		"",
	}
}

// TotalCells returns the amount cells of a totals row, aligned to SalaryColumns
// after the label span.
func TotalCells(t payroll.Totals) []string {
	return []string{
		Amount(t.Gross),
		"",
		"",
		Amount(t.OvertimeAmount),
		Amount(t.EOBI),
		Amount(t.Tax),
		Amount(t.Loan),
		Amount(t.OtherDeductions),
		Amount(t.Advance),
		Amount(t.NetPay),
		"",
	}
}

// SalaryPDF writes the salary sheet on A3 landscape pages.
func SalaryPDF(w io.Writer, doc *report.SalaryDocument) error {
	title := SalaryTitle(doc.Sheet.Month)
	pdf := newPDF("L", "A3", title)
	pdf.SetHeaderFunc(func() {
		pdf.SetFont(fontFamily, "B", 14)
		pdf.CellFormat(0, lineHeight+1, doc.Company.Name, "", 1, "C", false, 0, "")
		pdf.SetFont(fontFamily, "B", 12)
		pdf.CellFormat(0, lineHeight+1, title, "", 1, "C", false, 0, "")
		pdf.Ln(2)
	})
	pdf.AddPage()

	if len(doc.Sheet.Departments) == 0 {
		pdf.SetFont(fontFamily, "", 11)
		pdf.CellFormat(0, lineHeight, "No employees are payable for this month.", "", 1, "L", false, 0, "")
		return output(w, pdf)
	}

	for _, d := range doc.Sheet.Departments {
		pdf.SetFont(fontFamily, "B", 11)
		pdf.CellFormat(0, lineHeight+1, d.Name, "", 1, "L", false, 0, "")
		salaryHeader(pdf)

		pdf.SetFont(fontFamily, "", 9)
		for _, r := range d.Rows {
			for i, cell := range SalaryCells(r) {
				pdf.CellFormat(salaryWidths[i], lineHeight+2, cell, "1", 0, alignment(i), false, 0, "")
			}
			pdf.Ln(-1)
		}
		totalRow(pdf, "Department Total:", d.Subtotal)
		pdf.Ln(3)
	}
	totalRow(pdf, "All Department Total:", doc.Sheet.GrandTotal)
	return output(w, pdf)
}

func salaryHeader(pdf *pdfDoc) {
	pdf.SetFont(fontFamily, "B", 9)
	pdf.SetFillColor(220, 220, 220)
	for i, title := range SalaryColumns {
		pdf.CellFormat(salaryWidths[i], lineHeight+1, title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
}

func totalRow(pdf *pdfDoc, label string, t payroll.Totals) {
	var span float64
	for _, w := range salaryWidths[:labelColumns] {
		span += w
	}
	pdf.SetFont(fontFamily, "B", 9)
	pdf.CellFormat(span, lineHeight+1, label, "1", 0, "R", false, 0, "")
	for i, cell := range TotalCells(t) {
		col := labelColumns + i
		pdf.CellFormat(salaryWidths[col], lineHeight+1, cell, "1", 0, alignment(col), false, 0, "")
	}
	pdf.Ln(-1)
}

// alignment right-aligns the numeric columns.
func alignment(col int) string {
	switch {
	case col == 0 || col == 6:
		return "C"
	case col >= 5 && col <= 14:
		return "R"
	default:
		return "L"
	}
}

// salaryRowValues is the XLSX form of one row: numbers stay numeric.
func salaryRowValues(r payroll.Row) []any {
	return []any{
		r.Serial,
		r.Code,
		r.Name,
		r.Designation,
		formatDate(r.JoinedOn),
		number(r.Gross),
		r.Days,
		number(r.Overtime),
		number(r.OvertimeAmount),
		number(r.EOBI),
		number(r.Tax),
		number(r.Loan),
		number(r.OtherDeductions),
		number(r.Advance),
		number(r.NetPay),
		"",
	}
}

func totalValues(label string, t payroll.Totals) []any {
	return []any{
		label, "", "", "", "",
		number(t.Gross),
		"", "",
		number(t.OvertimeAmount),
		number(t.EOBI),
		number(t.Tax),
		number(t.Loan),
		number(t.OtherDeductions),
		number(t.Advance),
		number(t.NetPay),
		"",
	}
}

func number(d decimal.Decimal) any {
	if d.Equal(d.Truncate(0)) {
		return d.IntPart()
	}
	f, _ := d.Float64()
	return f
}
