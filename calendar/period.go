package calendar

import (
	"errors"
	"time"
)

// ErrInvalidPeriod is returned when a period ends before it starts.
var ErrInvalidPeriod = errors.New("invalid period: end before start")

// =============================================================================
// PERIOD - Inclusive day range
// =============================================================================

// Period is an inclusive [Start, End] range of calendar days.
//
// Examples:
//   - Reporting range: 2023-01-01 .. 2023-01-07 (7 days)
//   - Salary month:    2023-08-01 .. 2023-08-31
//   - Employee window: reporting range clipped to hire/leaving dates
type Period struct {
	Start time.Time
	End   time.Time
}

// NewPeriod normalizes both bounds to days and validates ordering.
func NewPeriod(start, end time.Time) (Period, error) {
	p := Period{Start: Day(start), End: Day(end)}
	if p.End.Before(p.Start) {
		return Period{}, ErrInvalidPeriod
	}
	return p, nil
}

// MonthPeriod returns the full calendar month.
func MonthPeriod(year int, month time.Month) Period {
	return Period{Start: StartOfMonth(year, month), End: EndOfMonth(year, month)}
}

// Contains returns true if the day is within [Start, End].
func (p Period) Contains(t time.Time) bool {
	d := Day(t)
	return !d.Before(Day(p.Start)) && !d.After(Day(p.End))
}

// Len returns the number of days in the period, both ends included.
func (p Period) Len() int {
	if Day(p.End).Before(Day(p.Start)) {
		return 0
	}
	return DaysBetween(p.Start, p.End) + 1
}

// Days returns every day in the period in order.
func (p Period) Days() []time.Time {
	days := make([]time.Time, 0, p.Len())
	for current := Day(p.Start); !current.After(Day(p.End)); current = current.AddDate(0, 0, 1) {
		days = append(days, current)
	}
	return days
}

// String returns a string representation of the period.
func (p Period) String() string {
	return "[" + p.Start.Format(DateLayout) + ", " + p.End.Format(DateLayout) + "]"
}
