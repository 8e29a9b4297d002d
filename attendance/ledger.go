/*
Package attendance builds the per-day attendance ledger for one employee.

PURPOSE:
  Given an employee, its resolved window and the company shift, derive one
  row per calendar day with a classification, simulated punch times and a
  running summary.

SIMULATED PUNCHES:
  Time-in/time-out are synthetic: the configured shift start minus 0-8
  minutes and the configured shift end plus 2-5 minutes. The randomness is
  read from an injected Jitter so reports are reproducible under test.

STATS:
  Days       window length
  Present    Days minus every non-present day
  Absent     days covered by an explicit leave record
  Weekend    Sundays
  Holiday    gazetted + festival
  EarnedDays Days minus Absent

SEE ALSO:
  - window.go: employment-window clipping
  - calendar/classify.go: day classification
*/
package attendance

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/alhasan/attendance-payroll/calendar"
	"github.com/alhasan/attendance-payroll/roster"
)

// ErrInvalidTimeOfDay is returned for strings that are not HH:MM.
var ErrInvalidTimeOfDay = errors.New("invalid time of day (use HH:MM)")

// Punch jitter bounds in minutes, inclusive.
const (
	ArrivalJitterMin   = 0
	ArrivalJitterMax   = 8
	DepartureJitterMin = 2
	DepartureJitterMax = 5
)

// =============================================================================
// TIME OF DAY + SHIFT
// =============================================================================

// TimeOfDay is a wall-clock time in minutes since midnight.
type TimeOfDay int

// ParseTimeOfDay parses "HH:MM" (hour may be a single digit).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("%q: %w", s, ErrInvalidTimeOfDay)
	}
	hour, err := strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 || len(h) > 2 {
		return 0, fmt.Errorf("%q: %w", s, ErrInvalidTimeOfDay)
	}
	minute, err := strconv.Atoi(m)
	if err != nil || minute < 0 || minute > 59 || len(m) != 2 {
		return 0, fmt.Errorf("%q: %w", s, ErrInvalidTimeOfDay)
	}
	return TimeOfDay(hour*60 + minute), nil
}

// On returns the instant of t on the given day, in the day's location.
func (t TimeOfDay) On(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location()).
		Add(time.Duration(t) * time.Minute)
}

func (t TimeOfDay) String() string { return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60) }

// Shift is the company's standard working day.
type Shift struct {
	In  TimeOfDay
	Out TimeOfDay
}

// ParseShift parses the configured time-in and time-out.
func ParseShift(timeIn, timeOut string) (Shift, error) {
	in, err := ParseTimeOfDay(timeIn)
	if err != nil {
		return Shift{}, fmt.Errorf("time in: %w", err)
	}
	out, err := ParseTimeOfDay(timeOut)
	if err != nil {
		return Shift{}, fmt.Errorf("time out: %w", err)
	}
	return Shift{In: in, Out: out}, nil
}

// =============================================================================
// JITTER - replaceable randomness
// =============================================================================

// Jitter draws integers in [min, max].
type Jitter interface {
	Between(min, max int) int
}

// RandJitter is a Jitter backed by a PCG generator. Not safe for concurrent use.
type RandJitter struct {
	r *rand.Rand
}

// NewJitter returns a deterministic jitter for the given seed and stream.
func NewJitter(seed, stream uint64) *RandJitter {
	return &RandJitter{r: rand.New(rand.NewPCG(seed, stream))}
}

// NewEntropyJitter returns a jitter seeded from the runtime's entropy source.
func NewEntropyJitter() *RandJitter {
	return NewJitter(rand.Uint64(), rand.Uint64())
}

func (j *RandJitter) Between(min, max int) int {
	if max <= min {
		return min
	}
	return min + j.r.IntN(max-min+1)
}

// =============================================================================
// LEDGER
// =============================================================================

// DayRecord is one row of the ledger.
type DayRecord struct {
	Serial   int
	Weekday  string // "Mon", "Tue", ...
	Date     time.Time
	TimeIn   string
	TimeOut  string
	Worked   string
	Overtime string
	Code     calendar.Code
	OffDay   bool // classified by an explicit leave record
}

// Stats is the running summary of a ledger.
type Stats struct {
	Days       int
	Present    int
	Absent     int
	Weekend    int
	Holiday    int
	EarnedDays int
	Overtime   string
}

// Ledger is the attendance ledger of one employee over its window.
type Ledger struct {
	Window calendar.Period
	Rows   []DayRecord
	Stats  Stats
}

// Builder produces ledgers. Calendar and Shift are shared read-only inputs;
// Jitter is per builder and must not be shared across goroutines.
type Builder struct {
	Calendar *calendar.Calendar
	Shift    Shift
	Jitter   Jitter
	Now      func() time.Time
}

// Build iterates every day of window and classifies it for emp.
func (b *Builder) Build(emp roster.Employee, window calendar.Period, leaves calendar.LeaveLookup) Ledger {
	days := window.Days()
	stats := Stats{
		Days:       len(days),
		Present:    len(days),
		EarnedDays: len(days),
		Overtime:   "00:00",
	}

	now := time.Now()
	if b.Now != nil {
		now = b.Now()
	}

	rows := make([]DayRecord, 0, len(days))
	for i, day := range days {
		code := b.Calendar.Classify(day, emp.Code, leaves)
		explicit := false
		if leaves != nil {
			_, explicit = leaves.LeaveOn(emp.Code, day)
		}

		row := DayRecord{
			Serial:  i + 1,
			Weekday: day.Format("Mon"),
			Date:    day,
			Code:    code,
			OffDay:  explicit,
		}

		switch {
		case code == calendar.CodePresent:
			b.punch(&row, day, now)
		case explicit:
			stats.Present--
			stats.Absent++
			stats.EarnedDays--
		case code == calendar.CodeWeekend:
			stats.Present--
			stats.Weekend++
		case code.IsHoliday():
			stats.Present--
			stats.Holiday++
		}
		rows = append(rows, row)
	}

	return Ledger{Window: window, Rows: rows, Stats: stats}
}

func (b *Builder) punch(row *DayRecord, day, now time.Time) {
	in := b.Shift.In.On(day).Add(-time.Duration(b.jitter(ArrivalJitterMin, ArrivalJitterMax)) * time.Minute)
	out := b.Shift.Out.On(day).Add(time.Duration(b.jitter(DepartureJitterMin, DepartureJitterMax)) * time.Minute)
	row.TimeIn = in.Format("15:04")

	if calendar.SameDay(now, day) && now.Before(b.Shift.Out.On(now)) {
		return
	}

	if out.Before(in) {
		out = out.Add(24 * time.Hour)
	}
	row.TimeOut = out.Format("15:04")
	row.Worked = FormatDuration(out.Sub(in))
}

func (b *Builder) jitter(min, max int) int {
	if b.Jitter == nil {
		return min
	}
	return b.Jitter.Between(min, max)
}

// FormatDuration renders d as zero-padded HH:MM.
func FormatDuration(d time.Duration) string {
	total := int(d / time.Minute)
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
