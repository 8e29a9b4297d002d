package payroll_test

import (
	"testing"
	"time"

	"github.com/alhasan/attendance-payroll/calendar"
	"github.com/alhasan/attendance-payroll/payroll"
	"github.com/alhasan/attendance-payroll/roster"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func assertDec(t *testing.T, want int64, got decimal.Decimal, msg ...any) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %d, got %s %v", want, got.String(), msg)
}

func employee(code, dept string, joined time.Time, salary int64) roster.Employee {
	return roster.Employee{
		Code:         code,
		Name:         "Name " + code,
		Designation:  "Operator",
		Department:   dept,
		JoinedOn:     joined,
		LatestSalary: dec(salary),
	}
}

var august = payroll.Month{Year: 2023, Month: time.August}

// =============================================================================
// PER-EMPLOYEE
// =============================================================================

func TestCompute_TwoAbsences(t *testing.T) {
	// GIVEN: gross 26000, EOBI 250, two absences
	// THEN: per day 1000, net 23750, 24 eligible days
	row := payroll.Compute(employee("E1", "Cutting", calendar.NewDate(2022, 1, 1), 26000), dec(250), 2)

	assertDec(t, 1000, row.PerDayRate)
	assertDec(t, 23750, row.NetPay)
	assert.Equal(t, 24, row.Days)
	assertDec(t, 0, row.Tax)
	assertDec(t, 0, row.Loan)
	assertDec(t, 0, row.OtherDeductions)
	assertDec(t, 0, row.Advance)
}

func TestCompute_PerDayRateRounds(t *testing.T) {
	// 20000 / 26 = 769.23 -> 769 ; 20013 / 26 = 769.73 -> 770
	row := payroll.Compute(employee("E1", "Cutting", calendar.NewDate(2022, 1, 1), 20000), dec(250), 1)
	assertDec(t, 769, row.PerDayRate)
	assertDec(t, 20000-250-769, row.NetPay)

	row = payroll.Compute(employee("E1", "Cutting", calendar.NewDate(2022, 1, 1), 20013), dec(0), 0)
	assertDec(t, 770, row.PerDayRate)
}

func TestCountAbsences_OnlyABInsideMonth(t *testing.T) {
	offDays := []roster.OffDay{
		{Code: "E1", Type: roster.LeaveAbsence, Date: calendar.NewDate(2023, 8, 1)},
		{Code: "E1", Type: roster.LeaveAbsence, Date: calendar.NewDate(2023, 8, 31)},
		{Code: "E1", Type: roster.LeaveSick, Date: calendar.NewDate(2023, 8, 2)},
		{Code: "E1", Type: roster.LeaveAbsence, Date: calendar.NewDate(2023, 9, 1)},
		{Code: "E1", Type: roster.LeaveAbsence, Date: calendar.NewDate(2022, 8, 10)},
		{Code: "E2", Type: roster.LeaveAbsence, Date: calendar.NewDate(2023, 8, 5)},
	}
	assert.Equal(t, 2, payroll.CountAbsences("E1", august, offDays))
	assert.Equal(t, 1, payroll.CountAbsences("E2", august, offDays))
	assert.Equal(t, 0, payroll.CountAbsences("E3", august, offDays))
}

func TestEligible_HiredStrictlyBeforeMonth(t *testing.T) {
	assert.True(t, payroll.Eligible(employee("E1", "X", calendar.NewDate(2023, 7, 31), 1), august))
	assert.False(t, payroll.Eligible(employee("E1", "X", calendar.NewDate(2023, 8, 1), 1), august))
	assert.False(t, payroll.Eligible(employee("E1", "X", calendar.NewDate(2023, 8, 15), 1), august))
}

// =============================================================================
// AGGREGATION
// =============================================================================

func TestAggregate_GroupsSortsAndTotals(t *testing.T) {
	employees := []roster.Employee{
		employee("E1", " Stitching ", calendar.NewDate(2022, 1, 1), 26000),
		employee("E2", "Cutting", calendar.NewDate(2022, 1, 1), 13000),
		employee("E3", "   ", calendar.NewDate(2022, 1, 1), 99999),      // blank department
		employee("E4", "Stitching", calendar.NewDate(2023, 8, 1), 50000), // hired in month
		employee("E5", "Stitching", calendar.NewDate(2021, 1, 1), 52000),
	}
	offDays := []roster.OffDay{
		{Code: "E1", Type: roster.LeaveAbsence, Date: calendar.NewDate(2023, 8, 3)},
		{Code: "E1", Type: roster.LeaveAbsence, Date: calendar.NewDate(2023, 8, 4)},
	}

	sheet := payroll.Aggregate(employees, august, dec(250), offDays)

	require.Len(t, sheet.Departments, 2)
	assert.Equal(t, "Cutting", sheet.Departments[0].Name)
	assert.Equal(t, "Stitching", sheet.Departments[1].Name)

	stitching := sheet.Departments[1]
	require.Len(t, stitching.Rows, 2)
	assert.Equal(t, "E1", stitching.Rows[0].Code)
	assert.Equal(t, 1, stitching.Rows[0].Serial)
	assert.Equal(t, "E5", stitching.Rows[1].Code)
	assert.Equal(t, 2, stitching.Rows[1].Serial)
	assertDec(t, 23750, stitching.Rows[0].NetPay)

	assertDec(t, 26000+52000, stitching.Subtotal.Gross)
	assertDec(t, 500, stitching.Subtotal.EOBI)
	assertDec(t, 23750+51750, stitching.Subtotal.NetPay)

	// Grand total equals the sum of department subtotals and excludes E3/E4
	var sum payroll.Totals
	for _, d := range sheet.Departments {
		sum = sum.Merge(d.Subtotal)
	}
	assertDec(t, 26000+52000+13000, sheet.GrandTotal.Gross)
	assert.True(t, sum.Gross.Equal(sheet.GrandTotal.Gross))
	assert.True(t, sum.NetPay.Equal(sheet.GrandTotal.NetPay))
	assert.True(t, sum.EOBI.Equal(sheet.GrandTotal.EOBI))

	for _, d := range sheet.Departments {
		for _, r := range d.Rows {
			assert.NotEqual(t, "E3", r.Code)
			assert.NotEqual(t, "E4", r.Code)
		}
	}
}

func TestAggregate_Empty(t *testing.T) {
	sheet := payroll.Aggregate(nil, august, dec(250), nil)
	assert.Empty(t, sheet.Departments)
	assert.True(t, sheet.GrandTotal.Gross.IsZero())
}

func TestParseMonth(t *testing.T) {
	m, err := payroll.ParseMonth("2023-08")
	require.NoError(t, err)
	assert.Equal(t, august, m)
	assert.Equal(t, "Aug - 23", m.Label())
	assert.Equal(t, 31, m.Period().Len())

	_, err = payroll.ParseMonth("August")
	assert.ErrorIs(t, err, payroll.ErrInvalidMonth)
}
