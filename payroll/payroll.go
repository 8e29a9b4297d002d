/*
Package payroll computes the monthly salary sheet.

PURPOSE:
  For a salary month, derive one payroll row per eligible employee, group
  the rows by department and total them per department and company-wide.

RULES:
  - Eligible: hired strictly before the first day of the salary month.
  - perDayRate   = round(gross / 26)
  - absences     = employee's AB records dated inside the salary month
  - netPay       = gross - EOBI - absences * perDayRate
  - eligibleDays = 26 - absences
  - Blank departments are dropped from every bucket and from the totals.
  - Departments are emitted in lexicographic order; rows keep roster order.

PLACEHOLDERS:
  Tax, loan, other deductions, advance and overtime are not computed in this
  version and are always zero.

SEE ALSO:
  - report/assemble.go: drives Compute concurrently and calls Group
*/
package payroll

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/alhasan/attendance-payroll/calendar"
	"github.com/alhasan/attendance-payroll/roster"
	"github.com/shopspring/decimal"
)

// WorkingDays is the assumed number of paid working days in a month.
const WorkingDays = 26

// DefaultEOBI is the statutory deduction applied when none is configured.
var DefaultEOBI = decimal.NewFromInt(250)

// ErrInvalidMonth is returned for month strings that are not YYYY-MM.
var ErrInvalidMonth = errors.New("invalid month (use YYYY-MM)")

// =============================================================================
// SALARY MONTH
// =============================================================================

// Month is a salary period: one calendar month.
type Month struct {
	Year  int
	Month time.Month
}

// ParseMonth parses "YYYY-MM".
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(s))
	if err != nil {
		return Month{}, fmt.Errorf("%q: %w", s, ErrInvalidMonth)
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

// MonthOf returns the salary month containing t.
func MonthOf(t time.Time) Month { return Month{Year: t.Year(), Month: t.Month()} }

// First returns the first day of the month.
func (m Month) First() time.Time { return calendar.StartOfMonth(m.Year, m.Month) }

// Period returns the whole month as a day range.
func (m Month) Period() calendar.Period { return calendar.MonthPeriod(m.Year, m.Month) }

// String returns the month as "YYYY-MM".
func (m Month) String() string { return m.First().Format("2006-01") }

// Label returns the month as printed on the salary sheet, e.g. "Aug - 23".
func (m Month) Label() string { return m.First().Format("Jan - 06") }

// Eligible reports whether emp is paid for month m.
func Eligible(emp roster.Employee, m Month) bool {
	return calendar.Day(emp.JoinedOn).Before(m.First())
}

// CountAbsences counts the employee's absence records inside the salary month.
func CountAbsences(code string, m Month, offDays []roster.OffDay) int {
	period := m.Period()
	n := 0
	for _, o := range offDays {
		if o.Code == code && o.Type == roster.LeaveAbsence && period.Contains(o.Date) {
			n++
		}
	}
	return n
}

// =============================================================================
// ROWS + TOTALS
// =============================================================================

// Row is one employee's line on the salary sheet.
type Row struct {
	Serial          int
	Code            string
	Name            string
	Designation     string
	Department      string
	JoinedOn        time.Time
	Gross           decimal.Decimal
	PerDayRate      decimal.Decimal
	Absences        int
	Days            int
	Overtime        decimal.Decimal
	OvertimeAmount  decimal.Decimal
	EOBI            decimal.Decimal
	Tax             decimal.Decimal
	Loan            decimal.Decimal
	OtherDeductions decimal.Decimal
	Advance         decimal.Decimal
	NetPay          decimal.Decimal
}

// Totals is a running sum over rows.
type Totals struct {
	Gross           decimal.Decimal
	OvertimeAmount  decimal.Decimal
	EOBI            decimal.Decimal
	Tax             decimal.Decimal
	Loan            decimal.Decimal
	OtherDeductions decimal.Decimal
	Advance         decimal.Decimal
	NetPay          decimal.Decimal
}

// Add returns t with r's amounts added.
func (t Totals) Add(r Row) Totals {
	return Totals{
		Gross:           t.Gross.Add(r.Gross),
		OvertimeAmount:  t.OvertimeAmount.Add(r.OvertimeAmount),
		EOBI:            t.EOBI.Add(r.EOBI),
		Tax:             t.Tax.Add(r.Tax),
		Loan:            t.Loan.Add(r.Loan),
		OtherDeductions: t.OtherDeductions.Add(r.OtherDeductions),
		Advance:         t.Advance.Add(r.Advance),
		NetPay:          t.NetPay.Add(r.NetPay),
	}
}

// Merge returns the sum of two totals.
func (t Totals) Merge(o Totals) Totals {
	return Totals{
		Gross:           t.Gross.Add(o.Gross),
		OvertimeAmount:  t.OvertimeAmount.Add(o.OvertimeAmount),
		EOBI:            t.EOBI.Add(o.EOBI),
		Tax:             t.Tax.Add(o.Tax),
		Loan:            t.Loan.Add(o.Loan),
		OtherDeductions: t.OtherDeductions.Add(o.OtherDeductions),
		Advance:         t.Advance.Add(o.Advance),
		NetPay:          t.NetPay.Add(o.NetPay),
	}
}

// Compute derives the payroll row of one employee.
func Compute(emp roster.Employee, eobi decimal.Decimal, absences int) Row {
	gross := emp.LatestSalary
	perDay := gross.Div(decimal.NewFromInt(WorkingDays)).Round(0)
	net := gross.Sub(eobi).Sub(perDay.Mul(decimal.NewFromInt(int64(absences))))

	return Row{
		Code:            emp.Code,
		Name:            emp.Name,
		Designation:     emp.Designation,
		Department:      strings.TrimSpace(emp.Department),
		JoinedOn:        emp.JoinedOn,
		Gross:           gross,
		PerDayRate:      perDay,
		Absences:        absences,
		Days:            WorkingDays - absences,
		Overtime:        decimal.Zero,
		OvertimeAmount:  decimal.Zero,
		EOBI:            eobi,
		Tax:             decimal.Zero,
		Loan:            decimal.Zero,
		OtherDeductions: decimal.Zero,
		Advance:         decimal.Zero,
		NetPay:          net,
	}
}

// =============================================================================
// DEPARTMENTS
// =============================================================================

// Department is one bucket of the salary sheet.
type Department struct {
	Name     string
	Rows     []Row
	Subtotal Totals
}

// Sheet is the company salary sheet for one month.
type Sheet struct {
	Month       Month
	Departments []Department
	GrandTotal  Totals
}

// Group buckets rows by department. Rows must be in roster order.
func Group(m Month, rows []Row) Sheet {
	byDept := make(map[string]*Department)
	for _, r := range rows {
		name := strings.TrimSpace(r.Department)
		if name == "" {
			continue
		}
		d, ok := byDept[name]
		if !ok {
			d = &Department{Name: name}
			byDept[name] = d
		}
		r.Serial = len(d.Rows) + 1
		d.Rows = append(d.Rows, r)
		d.Subtotal = d.Subtotal.Add(r)
	}

	names := make([]string, 0, len(byDept))
	for name := range byDept {
		names = append(names, name)
	}
	sort.Strings(names)

	sheet := Sheet{Month: m, Departments: make([]Department, 0, len(names))}
	for _, name := range names {
		d := byDept[name]
		sheet.Departments = append(sheet.Departments, *d)
		sheet.GrandTotal = sheet.GrandTotal.Merge(d.Subtotal)
	}
	return sheet
}

// Aggregate computes the full sheet sequentially.
func Aggregate(employees []roster.Employee, m Month, eobi decimal.Decimal, offDays []roster.OffDay) Sheet {
	rows := make([]Row, 0, len(employees))
	for _, emp := range employees {
		if !Eligible(emp, m) {
			continue
		}
		rows = append(rows, Compute(emp, eobi, CountAbsences(emp.Code, m, offDays)))
	}
	return Group(m, rows)
}
