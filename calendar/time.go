/*
Package calendar provides day arithmetic and the company holiday calendar.

PURPOSE:
  Everything in the reporting core is computed at day granularity. A date is a
  time.Time normalized to UTC midnight of its calendar day; the time-of-day of
  an input value never influences comparisons.

KEY CONCEPTS:
  - Day:      normalize any time.Time to its calendar day
  - Period:   inclusive [Start, End] day range (see period.go)
  - Holiday:  gazetted (recurring month/day) or festival (exact date)
  - Code:     attendance code assigned to a single day (see classify.go)

SEE ALSO:
  - classify.go: attendance-code precedence
  - defaults.go: built-in gazetted holidays
*/
package calendar

import (
	"time"
)

// =============================================================================
// DAYS - Day-granularity helpers
// =============================================================================

// DateLayout is the canonical wire format for dates.
const DateLayout = "2006-01-02"

// NewDate returns the given calendar day at UTC midnight.
func NewDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Day drops the time-of-day and location of t, keeping its wall-clock date.
func Day(t time.Time) time.Time {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return Day(a).Equal(Day(b))
}

// SameMonthDay reports whether a and b share month and day, ignoring year.
func SameMonthDay(a, b time.Time) bool {
	return a.Month() == b.Month() && a.Day() == b.Day()
}

// ParseDate parses a YYYY-MM-DD string into a day.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return Day(t), nil
}

// DaysBetween returns the number of whole days from from to to.
func DaysBetween(from, to time.Time) int { return int(Day(to).Sub(Day(from)).Hours() / 24) }

// StartOfMonth returns the first day of the month.
func StartOfMonth(year int, month time.Month) time.Time { return NewDate(year, month, 1) }

// EndOfMonth returns the last day of the month.
func EndOfMonth(year int, month time.Month) time.Time {
	return NewDate(year, month+1, 1).AddDate(0, 0, -1)
}

// MaxDay returns the later of two days.
func MaxDay(a, b time.Time) time.Time {
	if Day(a).After(Day(b)) {
		return Day(a)
	}
	return Day(b)
}

// MinDay returns the earlier of two days.
func MinDay(a, b time.Time) time.Time {
	if Day(a).Before(Day(b)) {
		return Day(a)
	}
	return Day(b)
}

// =============================================================================
// HOLIDAY CALENDAR
// =============================================================================

// Holiday is a non-working day declared by the company calendar.
type Holiday struct {
	ID        string
	Date      time.Time
	Name      string
	Recurring bool // true = gazetted, same month/day every year; false = festival on this exact date
}

// Calendar answers holiday lookups for the classifier.
// It is built once per request and is read-only afterwards.
type Calendar struct {
	gazetted map[monthDay]string
	festival map[time.Time]string
}

type monthDay struct {
	month time.Month
	day   int
}

// NewCalendar indexes the given holidays. Later duplicates do not replace earlier names.
func NewCalendar(holidays []Holiday) *Calendar {
	c := &Calendar{
		gazetted: make(map[monthDay]string),
		festival: make(map[time.Time]string),
	}
	for _, h := range holidays {
		if h.Recurring {
			k := monthDay{month: h.Date.Month(), day: h.Date.Day()}
			if _, ok := c.gazetted[k]; !ok {
				c.gazetted[k] = h.Name
			}
			continue
		}
		d := Day(h.Date)
		if _, ok := c.festival[d]; !ok {
			c.festival[d] = h.Name
		}
	}
	return c
}

// IsGazetted reports whether date matches a gazetted holiday in any year.
func (c *Calendar) IsGazetted(date time.Time) bool {
	if c == nil {
		return false
	}
	_, ok := c.gazetted[monthDay{month: date.Month(), day: date.Day()}]
	return ok
}

// IsFestival reports whether date is exactly a festival holiday.
func (c *Calendar) IsFestival(date time.Time) bool {
	if c == nil {
		return false
	}
	_, ok := c.festival[Day(date)]
	return ok
}
