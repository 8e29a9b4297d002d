package render

import (
	"fmt"
	"io"

	"github.com/alhasan/attendance-payroll/report"
	"github.com/xuri/excelize/v2"
)

const salarySheetName = "Salary"

// SalaryXLSX writes the salary sheet as a single-worksheet workbook.
func SalaryXLSX(w io.Writer, doc *report.SalaryDocument) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(salarySheetName)
	if err != nil {
		return fmt.Errorf("render xlsx: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("render xlsx: %w", err)
	}

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9D9D9"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	})
	totalStyle, _ := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		NumFmt: 3, // #,##0
	})
	amountStyle, _ := f.NewStyle(&excelize.Style{NumFmt: 3})

	last, _ := excelize.ColumnNumberToName(len(SalaryColumns))
	row := 1
	setRow := func(values []any) error {
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(salarySheetName, cell, &values); err != nil {
			return fmt.Errorf("render xlsx row %d: %w", row, err)
		}
		row++
		return nil
	}
	styleRow := func(r, style int) {
		f.SetCellStyle(salarySheetName, fmt.Sprintf("A%d", r), fmt.Sprintf("%s%d", last, r), style)
	}

	for _, heading := range []string{doc.Company.Name, SalaryTitle(doc.Sheet.Month)} {
		f.MergeCell(salarySheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("%s%d", last, row))
		if err := setRow([]any{heading}); err != nil {
			return err
		}
		styleRow(row-1, titleStyle)
	}
	row++

	for _, d := range doc.Sheet.Departments {
		if err := setRow([]any{d.Name}); err != nil {
			return err
		}
		header := make([]any, len(SalaryColumns))
		for i, c := range SalaryColumns {
			header[i] = c
		}
		if err := setRow(header); err != nil {
			return err
		}
		styleRow(row-1, headerStyle)

		for _, r := range d.Rows {
			if err := setRow(salaryRowValues(r)); err != nil {
				return err
			}
			f.SetCellStyle(salarySheetName, fmt.Sprintf("F%d", row-1), fmt.Sprintf("O%d", row-1), amountStyle)
		}
		if err := setRow(totalValues("Department Total:", d.Subtotal)); err != nil {
			return err
		}
		styleRow(row-1, totalStyle)
		row++
	}
	if err := setRow(totalValues("All Department Total:", doc.Sheet.GrandTotal)); err != nil {
		return err
	}
	styleRow(row-1, totalStyle)

	f.SetColWidth(salarySheetName, "A", "A", 7)
	f.SetColWidth(salarySheetName, "B", "B", 10)
	f.SetColWidth(salarySheetName, "C", "D", 26)
	f.SetColWidth(salarySheetName, "E", last, 13)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("render xlsx: %w", err)
	}
	return nil
}
