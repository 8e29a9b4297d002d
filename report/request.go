/*
Package report assembles attendance and salary documents.

PURPOSE:
  A report request is one of two variants. The assembler resolves the
  inputs of the matching variant (roster, off-days, holidays, company
  configuration) into a document the render package can paginate.

VARIANTS:
  AttendanceRequest -> AttendanceDocument  one page per employee in range
  SalaryRequest     -> SalaryDocument      department-grouped salary sheet

INPUT SNAPSHOT:
  Inputs and the company configuration are read once by the caller and
  are never mutated here, so employees can be processed concurrently.

SEE ALSO:
  - assemble.go: the worker fan-out
  - render/: PDF and XLSX output
*/
package report

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alhasan/attendance-payroll/attendance"
	"github.com/alhasan/attendance-payroll/calendar"
	"github.com/alhasan/attendance-payroll/payroll"
	"github.com/alhasan/attendance-payroll/roster"
	"github.com/alhasan/attendance-payroll/settings"
	"github.com/shopspring/decimal"
)

var (
	ErrUnknownKind  = errors.New("unknown report kind")
	ErrInvalidRange = errors.New("report range ends before it starts")
	ErrInvalidShift = errors.New("invalid company shift")
)

// Kind names a report variant.
type Kind string

const (
	KindAttendance Kind = "attendance"
	KindSalary     Kind = "salary"
)

// ParseKind accepts a report kind name, case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindAttendance, KindSalary:
		return k, nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnknownKind)
}

// =============================================================================
// REQUESTS
// =============================================================================

// Request is implemented by AttendanceRequest and SalaryRequest only.
type Request interface {
	Kind() Kind
	request()
}

// AttendanceRequest asks for attendance cards over a date range.
type AttendanceRequest struct {
	Company settings.Company
	Period  calendar.Period
}

// SalaryRequest asks for the salary sheet of one month.
type SalaryRequest struct {
	Company settings.Company
	Month   payroll.Month
	EOBI    decimal.Decimal
}

func (AttendanceRequest) Kind() Kind { return KindAttendance }
func (SalaryRequest) Kind() Kind { return KindSalary }
func (AttendanceRequest) request() {}
func (SalaryRequest) request() {}

// Inputs is the uploaded data a report is computed from.
type Inputs struct {
	Employees []roster.Employee
	OffDays   []roster.OffDay
	Holidays  []calendar.Holiday
}

// =============================================================================
// DOCUMENTS
// =============================================================================

// Document is implemented by AttendanceDocument and SalaryDocument.
type Document interface {
	Kind() Kind
}

// AttendancePage is one employee's attendance card.
type AttendancePage struct {
	Employee roster.Employee
	Ledger   attendance.Ledger
}

// AttendanceDocument holds the cards of every employee employed in range.
// Pages follow roster order. An empty document is valid.
type AttendanceDocument struct {
	Company settings.Company
	Period  calendar.Period
	Pages   []AttendancePage
}

// SalaryDocument is the company salary sheet of one month.
type SalaryDocument struct {
	Company settings.Company
	Sheet   payroll.Sheet
}

func (*AttendanceDocument) Kind() Kind { return KindAttendance }
func (*SalaryDocument) Kind() Kind { return KindSalary }
