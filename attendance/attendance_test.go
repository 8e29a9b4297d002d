package attendance_test

import (
	"testing"
	"time"

	"github.com/alhasan/attendance-payroll/attendance"
	"github.com/alhasan/attendance-payroll/calendar"
	"github.com/alhasan/attendance-payroll/roster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

// fixedJitter always returns max, so punches are exact.
type fixedJitter struct{}

func (fixedJitter) Between(_, max int) int { return max }

func date(y int, m time.Month, d int) time.Time { return calendar.NewDate(y, m, d) }

func period(t *testing.T, from, to time.Time) calendar.Period {
	t.Helper()
	p, err := calendar.NewPeriod(from, to)
	require.NoError(t, err)
	return p
}

func ptr(t time.Time) *time.Time { return &t }

func builder(t *testing.T, holidays []calendar.Holiday) *attendance.Builder {
	t.Helper()
	shift, err := attendance.ParseShift("09:00", "18:00")
	require.NoError(t, err)
	return &attendance.Builder{
		Calendar: calendar.NewCalendar(holidays),
		Shift:    shift,
		Jitter:   fixedJitter{},
		Now:      func() time.Time { return date(2030, time.January, 1) },
	}
}

// =============================================================================
// EMPLOYMENT WINDOW
// =============================================================================

func TestResolveWindow(t *testing.T) {
	req := period(t, date(2023, time.January, 1), date(2023, time.January, 31))

	tests := []struct {
		name   string
		emp    roster.Employee
		ok     bool
		window calendar.Period
	}{
		{
			name:   "hired before range, still employed",
			emp:    roster.Employee{JoinedOn: date(2022, time.June, 1)},
			ok:     true,
			window: calendar.Period{Start: date(2023, time.January, 1), End: date(2023, time.January, 31)},
		},
		{
			name:   "hired mid range",
			emp:    roster.Employee{JoinedOn: date(2023, time.January, 10)},
			ok:     true,
			window: calendar.Period{Start: date(2023, time.January, 10), End: date(2023, time.January, 31)},
		},
		{
			name:   "left mid range",
			emp:    roster.Employee{JoinedOn: date(2022, time.June, 1), LeftOn: ptr(date(2023, time.January, 15))},
			ok:     true,
			window: calendar.Period{Start: date(2023, time.January, 1), End: date(2023, time.January, 15)},
		},
		{
			name:   "left on first day",
			emp:    roster.Employee{JoinedOn: date(2022, time.June, 1), LeftOn: ptr(date(2023, time.January, 1))},
			ok:     true,
			window: calendar.Period{Start: date(2023, time.January, 1), End: date(2023, time.January, 1)},
		},
		{
			name: "hired after range",
			emp:  roster.Employee{JoinedOn: date(2023, time.February, 1)},
			ok:   false,
		},
		{
			name: "left before range",
			emp:  roster.Employee{JoinedOn: date(2021, time.June, 1), LeftOn: ptr(date(2022, time.December, 31))},
			ok:   false,
		},
		{
			name: "left before hire, inside range",
			emp:  roster.Employee{JoinedOn: date(2023, time.January, 20), LeftOn: ptr(date(2023, time.January, 5))},
			ok:   false,
		},
		{
			name: "sentinel leaving date before hire",
			emp:  roster.Employee{JoinedOn: date(2023, time.January, 10), LeftOn: ptr(date(2022, time.August, 2))},
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			window, ok := attendance.ResolveWindow(tt.emp, req)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.window, window)
			}
		})
	}
}

// =============================================================================
// LEDGER
// =============================================================================

func TestBuild_FirstWeekOf2023(t *testing.T) {
	// GIVEN: Employee hired 2023-01-01, shift 09:00-18:00
	// WHEN: Building 2023-01-01 (Sunday) .. 2023-01-07
	// THEN: Day 1 is SN, days 2-7 are PP
	emp := roster.Employee{Code: "E1", JoinedOn: date(2023, time.January, 1)}
	window, ok := attendance.ResolveWindow(emp, period(t, date(2023, time.January, 1), date(2023, time.January, 7)))
	require.True(t, ok)

	ledger := builder(t, nil).Build(emp, window, roster.NewLeaveIndex(nil))

	require.Len(t, ledger.Rows, 7)
	assert.Equal(t, calendar.CodeWeekend, ledger.Rows[0].Code)
	assert.Equal(t, "Sun", ledger.Rows[0].Weekday)
	assert.Empty(t, ledger.Rows[0].TimeIn)
	for _, row := range ledger.Rows[1:] {
		assert.Equal(t, calendar.CodePresent, row.Code)
		assert.Equal(t, "08:52", row.TimeIn)
		assert.Equal(t, "18:05", row.TimeOut)
		assert.Equal(t, "09:13", row.Worked)
	}

	assert.Equal(t, attendance.Stats{
		Days: 7, Present: 6, Absent: 0, Weekend: 1, Holiday: 0, EarnedDays: 7, Overtime: "00:00",
	}, ledger.Stats)
}

func TestBuild_LeaveAndHolidays(t *testing.T) {
	emp := roster.Employee{Code: "E1", JoinedOn: date(2020, time.January, 1)}
	holidays := []calendar.Holiday{
		{Date: date(1997, time.August, 14), Name: "Independence Day", Recurring: true},
		{Date: date(2023, time.August, 16), Name: "Festival"},
	}
	leaves := roster.NewLeaveIndex([]roster.OffDay{
		{Code: "E1", Type: roster.LeaveAbsence, Date: date(2023, time.August, 13)}, // Sunday
		{Code: "E1", Type: roster.LeaveSick, Date: date(2023, time.August, 15)},
		{Code: "E2", Type: roster.LeaveAbsence, Date: date(2023, time.August, 17)},
	})

	window := period(t, date(2023, time.August, 13), date(2023, time.August, 19))
	ledger := builder(t, holidays).Build(emp, window, leaves)

	codes := make([]calendar.Code, len(ledger.Rows))
	for i, r := range ledger.Rows {
		codes[i] = r.Code
	}
	assert.Equal(t, []calendar.Code{"AB", "GH", "SL", "FH", "PP", "PP", "PP"}, codes)
	assert.True(t, ledger.Rows[0].OffDay)
	assert.False(t, ledger.Rows[1].OffDay)

	assert.Equal(t, 7, ledger.Stats.Days)
	assert.Equal(t, 3, ledger.Stats.Present)
	assert.Equal(t, 2, ledger.Stats.Absent)
	assert.Equal(t, 0, ledger.Stats.Weekend)
	assert.Equal(t, 2, ledger.Stats.Holiday)
	assert.Equal(t, 5, ledger.Stats.EarnedDays)
}

func TestBuild_RowCountMatchesWindow(t *testing.T) {
	emp := roster.Employee{Code: "E1", JoinedOn: date(2020, time.January, 1)}
	b := builder(t, calendar.DefaultGazetted(2024))

	for _, n := range []int{1, 28, 31, 366} {
		start := date(2024, time.January, 1)
		window := period(t, start, start.AddDate(0, 0, n-1))
		ledger := b.Build(emp, window, nil)
		assert.Len(t, ledger.Rows, n)
		assert.Equal(t, n, ledger.Stats.Days)
		assert.Equal(t, n, ledger.Stats.Present+ledger.Stats.Absent+ledger.Stats.Weekend+ledger.Stats.Holiday)
	}
}

func TestBuild_SuppressesTimeOutBeforeShiftEnds(t *testing.T) {
	emp := roster.Employee{Code: "E1", JoinedOn: date(2020, time.January, 1)}
	b := builder(t, nil)
	today := date(2023, time.January, 2)
	b.Now = func() time.Time { return today.Add(12 * time.Hour) }

	ledger := b.Build(emp, period(t, today, today), nil)
	require.Len(t, ledger.Rows, 1)
	assert.Equal(t, "08:52", ledger.Rows[0].TimeIn)
	assert.Empty(t, ledger.Rows[0].TimeOut)
	assert.Empty(t, ledger.Rows[0].Worked)

	b.Now = func() time.Time { return today.Add(19 * time.Hour) }
	ledger = b.Build(emp, period(t, today, today), nil)
	assert.Equal(t, "18:05", ledger.Rows[0].TimeOut)
}

func TestRandJitter_BoundsAndDeterminism(t *testing.T) {
	a := attendance.NewJitter(42, 1)
	b := attendance.NewJitter(42, 1)
	for i := 0; i < 200; i++ {
		va := a.Between(attendance.ArrivalJitterMin, attendance.ArrivalJitterMax)
		vb := b.Between(attendance.ArrivalJitterMin, attendance.ArrivalJitterMax)
		assert.Equal(t, va, vb)
		assert.GreaterOrEqual(t, va, 0)
		assert.LessOrEqual(t, va, 8)
	}
}

func TestParseTimeOfDay(t *testing.T) {
	tod, err := attendance.ParseTimeOfDay("9:05")
	require.NoError(t, err)
	assert.Equal(t, "09:05", tod.String())

	for _, bad := range []string{"", "24:00", "09:60", "0900", "ab:cd", "09:5"} {
		_, err := attendance.ParseTimeOfDay(bad)
		assert.ErrorIs(t, err, attendance.ErrInvalidTimeOfDay, bad)
	}
}
