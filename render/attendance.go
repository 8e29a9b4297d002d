package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/alhasan/attendance-payroll/calendar"
	"github.com/alhasan/attendance-payroll/report"
)

var attendanceColumns = []struct {
	title string
	width float64
}{
	{"Srl #", 12},
	{"Day", 16},
	{"Closing Date", 30},
	{"Time In", 24},
	{"Time Out", 24},
	{"Tot Time", 24},
	{"Over time", 24},
	{"Attendance", 36},
}

// AttendancePDF writes one A4 attendance card per page.
func AttendancePDF(w io.Writer, doc *report.AttendanceDocument) error {
	title := fmt.Sprintf("Attendance card for %s to %s",
		formatDate(doc.Period.Start), formatDate(doc.Period.End))

	pdf := newPDF("P", "A4", title)
	if len(doc.Pages) == 0 {
		pdf.AddPage()
		attendanceHeading(pdf, doc.Company.Name, title)
		pdf.SetFont(fontFamily, "", 11)
		pdf.CellFormat(0, lineHeight, "No employees were employed in this range.", "", 1, "L", false, 0, "")
		return output(w, pdf)
	}

	for _, page := range doc.Pages {
		pdf.AddPage()
		attendanceHeading(pdf, doc.Company.Name, title)
		identityBar(pdf, page)
		dayTable(pdf, page)
		statsRow(pdf, page)
	}
	return output(w, pdf)
}

func attendanceHeading(pdf *pdfDoc, company, title string) {
	pdf.SetFont(fontFamily, "B", 13)
	pdf.CellFormat(0, lineHeight, company, "", 1, "L", false, 0, "")
	pdf.SetFont(fontFamily, "B", 11)
	pdf.CellFormat(0, lineHeight+1, title, "", 1, "L", false, 0, "")
	pdf.Ln(2)
}

func identityBar(pdf *pdfDoc, page report.AttendancePage) {
	emp := page.Employee
	pairs := [][2][2]string{
		{{"Emp Code", emp.Code}, {"Name", emp.Name}},
		{{"Designation", emp.Designation}, {"Section", emp.Department}},
		{{"D O J", formatDate(emp.JoinedOn)}, {"Overtime", page.Ledger.Stats.Overtime}},
	}

	pdf.SetFont(fontFamily, "", 10)
	for line := 0; line < 2; line++ {
		for _, group := range pairs {
			pdf.SetFont(fontFamily, "", 10)
			pdf.CellFormat(22, lineHeight-1, group[line][0], "", 0, "L", false, 0, "")
			pdf.SetFont(fontFamily, "B", 10)
			pdf.CellFormat(41, lineHeight-1, group[line][1], "", 0, "L", false, 0, "")
		}
		pdf.Ln(lineHeight - 1)
	}
	pdf.Ln(2)
}

func dayTable(pdf *pdfDoc, page report.AttendancePage) {
	pdf.SetFont(fontFamily, "B", 10)
	pdf.SetFillColor(220, 220, 220)
	for _, c := range attendanceColumns {
		pdf.CellFormat(c.width, lineHeight, c.title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(fontFamily, "", 10)
	pdf.SetFillColor(235, 235, 235)
	for _, r := range page.Ledger.Rows {
		shade := r.Code == calendar.CodeWeekend
		cells := []string{
			strconv.Itoa(r.Serial),
			r.Weekday,
			formatDate(r.Date),
			r.TimeIn,
			r.TimeOut,
			r.Worked,
			r.Overtime,
			string(r.Code),
		}
		for i, c := range attendanceColumns {
			pdf.CellFormat(c.width, lineHeight-0.5, cells[i], "1", 0, "C", shade, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(2)
}

func statsRow(pdf *pdfDoc, page report.AttendancePage) {
	s := page.Ledger.Stats
	stats := [][2]string{
		{"PP", strconv.Itoa(s.Present)},
		{"AB", strconv.Itoa(s.Absent)},
		{"GH", strconv.Itoa(s.Holiday)},
		{"WE", strconv.Itoa(s.Weekend)},
		{"Days", strconv.Itoa(s.Days)},
		{"O/T", s.Overtime},
		{"Earn days", strconv.Itoa(s.EarnedDays)},
	}

	width := 190.0 / float64(len(stats))
	pdf.SetFont(fontFamily, "B", 10)
	for _, st := range stats {
		pdf.CellFormat(width, lineHeight, st[0], "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont(fontFamily, "", 10)
	for _, st := range stats {
		pdf.CellFormat(width, lineHeight, st[1], "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
}
