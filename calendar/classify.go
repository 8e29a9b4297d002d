package calendar

import "time"

// =============================================================================
// ATTENDANCE CODES
// =============================================================================

// Code is the attendance code printed for a single day.
// Leave records contribute their own codes (AB, SL, CL, ...).
type Code string

const (
	CodePresent  Code = "PP"
	CodeWeekend  Code = "SN"
	CodeGazetted Code = "GH"
	CodeFestival Code = "FH"
)

// IsHoliday reports whether the code is one of the holiday buckets.
func (c Code) IsHoliday() bool { return c == CodeGazetted || c == CodeFestival }

// LeaveLookup finds an explicit leave record for an employee on a day.
type LeaveLookup interface {
	LeaveOn(employeeCode string, date time.Time) (Code, bool)
}

// Classify assigns the attendance code for one employee-day.
//
// PRECEDENCE (first match wins):
//  1. explicit leave record -> the record's code
//  2. Sunday                -> SN
//  3. gazetted holiday      -> GH (month/day, any year)
//  4. festival holiday      -> FH (exact date)
//  5. otherwise             -> PP
func (c *Calendar) Classify(date time.Time, employeeCode string, leaves LeaveLookup) Code {
	if leaves != nil {
		if code, ok := leaves.LeaveOn(employeeCode, date); ok {
			return code
		}
	}
	if date.Weekday() == time.Sunday {
		return CodeWeekend
	}
	if c.IsGazetted(date) {
		return CodeGazetted
	}
	if c.IsFestival(date) {
		return CodeFestival
	}
	return CodePresent
}
