package attendance

import (
	"github.com/alhasan/attendance-payroll/calendar"
	"github.com/alhasan/attendance-payroll/roster"
)

// ResolveWindow clips the requested range to the employee's employment dates.
//
// The employee is excluded (ok == false) when the request ends before the hire
// date, the employee left before the request starts, or the clipped window is
// empty (leaving date before hire date). Otherwise:
//
//	start = max(hire, requested.Start)
//	end   = min(leaving or requested.End, requested.End)
func ResolveWindow(emp roster.Employee, requested calendar.Period) (calendar.Period, bool) {
	hire := calendar.Day(emp.JoinedOn)
	if calendar.Day(requested.End).Before(hire) {
		return calendar.Period{}, false
	}
	if emp.LeftOn != nil && calendar.Day(*emp.LeftOn).Before(calendar.Day(requested.Start)) {
		return calendar.Period{}, false
	}

	end := calendar.Day(requested.End)
	if emp.LeftOn != nil {
		end = calendar.MinDay(*emp.LeftOn, end)
	}
	start := calendar.MaxDay(hire, requested.Start)
	if end.Before(start) {
		return calendar.Period{}, false
	}
	return calendar.Period{Start: start, End: end}, true
}
