/*
Package roster holds the uploaded employee roster and leave records.

PURPOSE:
  Roster and off-day data arrive as spreadsheet exports. This package defines
  the parsed records, the acceptance filter applied before any computation,
  and the leave index the calendar classifier reads.

LIFECYCLE:
  Records are created by parsing an upload and are read-only for the duration
  of one report request. Nothing in this package mutates a caller's slice.

SEE ALSO:
  - xlsx.go: spreadsheet ingestion
  - calendar/classify.go: consumes LeaveIndex through calendar.LeaveLookup
*/
package roster

import (
	"strings"
	"time"

	"github.com/alhasan/attendance-payroll/calendar"
	"github.com/shopspring/decimal"
)

// =============================================================================
// LEAVE TYPES
// =============================================================================

// LeaveType is the code carried by an off-day record.
type LeaveType string

const (
	LeaveAbsence LeaveType = "AB"
	LeaveSick    LeaveType = "SL"
	LeaveCasual  LeaveType = "CL"
)

// Known reports whether lt is one of the enumerated leave types.
func (lt LeaveType) Known() bool {
	switch lt {
	case LeaveAbsence, LeaveSick, LeaveCasual:
		return true
	}
	return false
}

// Code returns the attendance code printed for a day covered by this leave.
func (lt LeaveType) Code() calendar.Code { return calendar.Code(lt) }

// =============================================================================
// EMPLOYEE
// =============================================================================

// Employee is one roster entry.
type Employee struct {
	Serial        string
	Code          string
	Name          string
	FatherName    string
	Address       string
	Designation   string
	Department    string // trimmed
	CNIC          string
	JoinedOn      time.Time
	LeftOn        *time.Time // nil = still employed
	JoiningSalary decimal.Decimal
	LatestSalary  decimal.Decimal
}

// Active reports whether the employee is employed on the given day.
func (e Employee) Active(on time.Time) bool {
	d := calendar.Day(on)
	if d.Before(calendar.Day(e.JoinedOn)) {
		return false
	}
	return e.LeftOn == nil || !d.After(calendar.Day(*e.LeftOn))
}

// Accept applies the acceptance filter: only rows with a code and a hire date survive.
// Order is preserved.
func Accept(employees []Employee) []Employee {
	accepted := make([]Employee, 0, len(employees))
	for _, e := range employees {
		if strings.TrimSpace(e.Code) == "" || e.JoinedOn.IsZero() {
			continue
		}
		accepted = append(accepted, e)
	}
	return accepted
}

// =============================================================================
// OFF DAYS
// =============================================================================

// OffDay is one employee-day leave record.
type OffDay struct {
	Code string // employee code
	Name string // denormalized, not authoritative
	Type LeaveType
	Date time.Time
}

// ForEmployee returns the records of one employee in input order.
func ForEmployee(offDays []OffDay, code string) []OffDay {
	var out []OffDay
	for _, o := range offDays {
		if o.Code == code {
			out = append(out, o)
		}
	}
	return out
}

// LeaveIndex resolves (employee code, day) to a leave code.
// When several records hit the same employee-day the first one in input order wins.
type LeaveIndex struct {
	byKey map[leaveKey]LeaveType
}

type leaveKey struct {
	code string
	day  time.Time
}

// NewLeaveIndex indexes off-day records.
func NewLeaveIndex(offDays []OffDay) *LeaveIndex {
	idx := &LeaveIndex{byKey: make(map[leaveKey]LeaveType, len(offDays))}
	for _, o := range offDays {
		if o.Date.IsZero() {
			continue
		}
		k := leaveKey{code: o.Code, day: calendar.Day(o.Date)}
		if _, ok := idx.byKey[k]; ok {
			continue
		}
		idx.byKey[k] = o.Type
	}
	return idx
}

// LeaveOn implements calendar.LeaveLookup.
func (idx *LeaveIndex) LeaveOn(employeeCode string, date time.Time) (calendar.Code, bool) {
	if idx == nil {
		return "", false
	}
	lt, ok := idx.byKey[leaveKey{code: employeeCode, day: calendar.Day(date)}]
	if !ok {
		return "", false
	}
	return lt.Code(), true
}

var _ calendar.LeaveLookup = (*LeaveIndex)(nil)
