package report_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alhasan/attendance-payroll/calendar"
	"github.com/alhasan/attendance-payroll/payroll"
	"github.com/alhasan/attendance-payroll/report"
	"github.com/alhasan/attendance-payroll/roster"
	"github.com/alhasan/attendance-payroll/settings"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assembler() *report.Assembler {
	return &report.Assembler{
		Now:     func() time.Time { return calendar.NewDate(2030, time.January, 1) },
		Seed:    7,
		Workers: 4,
	}
}

func week(t *testing.T) calendar.Period {
	t.Helper()
	p, err := calendar.NewPeriod(calendar.NewDate(2023, time.January, 1), calendar.NewDate(2023, time.January, 7))
	require.NoError(t, err)
	return p
}

func manyEmployees(n int) []roster.Employee {
	out := make([]roster.Employee, n)
	for i := range out {
		out[i] = roster.Employee{
			Code:         fmt.Sprintf("E%03d", i),
			Department:   []string{"Stitching", "Cutting", "Packing"}[i%3],
			JoinedOn:     calendar.NewDate(2022, time.January, 1),
			LatestSalary: decimal.NewFromInt(int64(26000 + i)),
		}
	}
	return out
}

// =============================================================================
// ATTENDANCE
// =============================================================================

func TestAttendance_SkipsEmployeesOutsideRange(t *testing.T) {
	left := calendar.NewDate(2022, time.December, 31)
	in := report.Inputs{Employees: []roster.Employee{
		{Code: "A", JoinedOn: calendar.NewDate(2023, time.January, 1)},
		{Code: "B", JoinedOn: calendar.NewDate(2023, time.February, 1)}, // hired after
		{Code: "C", JoinedOn: calendar.NewDate(2020, time.January, 1), LeftOn: &left},
		{Code: "", JoinedOn: calendar.NewDate(2020, time.January, 1)}, // rejected by acceptance filter
		{Code: "D", JoinedOn: calendar.NewDate(2023, time.January, 4)},
	}}

	doc, err := assembler().Attendance(context.Background(),
		report.AttendanceRequest{Company: settings.Default(), Period: week(t)}, in)
	require.NoError(t, err)

	require.Len(t, doc.Pages, 2)
	assert.Equal(t, "A", doc.Pages[0].Employee.Code)
	assert.Equal(t, 1, doc.Pages[0].Ledger.Stats.Weekend)
	assert.Equal(t, 6, doc.Pages[0].Ledger.Stats.Present)
	assert.Equal(t, "D", doc.Pages[1].Employee.Code)
	assert.Len(t, doc.Pages[1].Ledger.Rows, 4)
}

func TestAttendance_SkipsLeavingDateBeforeHire(t *testing.T) {
	// GIVEN: An employee whose leaving cell fell back to the sentinel date,
	// which precedes the hire date, and a range covering both dates
	left := roster.SentinelDate
	in := report.Inputs{Employees: []roster.Employee{
		{Code: "E9", JoinedOn: calendar.NewDate(2023, time.May, 1), LeftOn: &left},
		{Code: "E10", JoinedOn: calendar.NewDate(2023, time.May, 1)},
	}}
	p, err := calendar.NewPeriod(calendar.NewDate(2022, time.January, 1), calendar.NewDate(2023, time.December, 31))
	require.NoError(t, err)

	// WHEN: Assembling the attendance document
	doc, err := assembler().Attendance(context.Background(),
		report.AttendanceRequest{Company: settings.Default(), Period: p}, in)
	require.NoError(t, err)

	// THEN: Only the employee with a real window gets a card
	require.Len(t, doc.Pages, 1)
	assert.Equal(t, "E10", doc.Pages[0].Employee.Code)
	assert.NotEmpty(t, doc.Pages[0].Ledger.Rows)
}

func TestAttendance_EmptyIsValid(t *testing.T) {
	doc, err := assembler().Attendance(context.Background(),
		report.AttendanceRequest{Company: settings.Default(), Period: week(t)}, report.Inputs{})
	require.NoError(t, err)
	assert.NotNil(t, doc.Pages)
	assert.Empty(t, doc.Pages)
}

func TestAttendance_DeterministicUnderConcurrency(t *testing.T) {
	in := report.Inputs{Employees: manyEmployees(60)}
	req := report.AttendanceRequest{Company: settings.Default(), Period: week(t)}

	first, err := assembler().Attendance(context.Background(), req, in)
	require.NoError(t, err)
	second, err := assembler().Attendance(context.Background(), req, in)
	require.NoError(t, err)

	require.Len(t, first.Pages, 60)
	for i := range first.Pages {
		assert.Equal(t, fmt.Sprintf("E%03d", i), first.Pages[i].Employee.Code)
	}
	assert.Equal(t, first, second)
}

func TestAttendance_RejectsBadInput(t *testing.T) {
	ctx := context.Background()
	reversed := calendar.Period{Start: calendar.NewDate(2023, time.January, 7), End: calendar.NewDate(2023, time.January, 1)}

	_, err := assembler().Attendance(ctx, report.AttendanceRequest{Company: settings.Default(), Period: reversed}, report.Inputs{})
	assert.ErrorIs(t, err, report.ErrInvalidRange)

	bad := settings.Company{Name: "X", TimeIn: "9am", TimeOut: "18:00"}
	_, err = assembler().Attendance(ctx, report.AttendanceRequest{Company: bad, Period: week(t)}, report.Inputs{})
	assert.ErrorIs(t, err, report.ErrInvalidShift)
}

// =============================================================================
// SALARY
// =============================================================================

func TestSalary_MatchesSequentialAggregate(t *testing.T) {
	month := payroll.Month{Year: 2023, Month: time.August}
	employees := manyEmployees(45)
	offDays := []roster.OffDay{
		{Code: "E000", Type: roster.LeaveAbsence, Date: calendar.NewDate(2023, time.August, 2)},
		{Code: "E004", Type: roster.LeaveAbsence, Date: calendar.NewDate(2023, time.August, 9)},
	}

	doc, err := assembler().Salary(context.Background(),
		report.SalaryRequest{Company: settings.Default(), Month: month, EOBI: payroll.DefaultEOBI},
		report.Inputs{Employees: employees, OffDays: offDays})
	require.NoError(t, err)

	want := payroll.Aggregate(employees, month, payroll.DefaultEOBI, offDays)
	require.Len(t, doc.Sheet.Departments, len(want.Departments))
	for i := range want.Departments {
		assert.Equal(t, want.Departments[i].Name, doc.Sheet.Departments[i].Name)
		assert.Len(t, doc.Sheet.Departments[i].Rows, len(want.Departments[i].Rows))
		assert.True(t, want.Departments[i].Subtotal.NetPay.Equal(doc.Sheet.Departments[i].Subtotal.NetPay))
	}
	assert.True(t, want.GrandTotal.NetPay.Equal(doc.Sheet.GrandTotal.NetPay))
}

func TestAssemble_DispatchesOnVariant(t *testing.T) {
	ctx := context.Background()

	doc, err := assembler().Assemble(ctx, report.AttendanceRequest{Company: settings.Default(), Period: week(t)}, report.Inputs{})
	require.NoError(t, err)
	assert.Equal(t, report.KindAttendance, doc.Kind())

	doc, err = assembler().Assemble(ctx, report.SalaryRequest{
		Company: settings.Default(), Month: payroll.Month{Year: 2023, Month: time.May}, EOBI: payroll.DefaultEOBI,
	}, report.Inputs{})
	require.NoError(t, err)
	assert.Equal(t, report.KindSalary, doc.Kind())
	assert.Empty(t, doc.(*report.SalaryDocument).Sheet.Departments)
}

func TestAttendance_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := assembler().Attendance(ctx,
		report.AttendanceRequest{Company: settings.Default(), Period: week(t)},
		report.Inputs{Employees: manyEmployees(5)})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseKind(t *testing.T) {
	k, err := report.ParseKind(" Salary ")
	require.NoError(t, err)
	assert.Equal(t, report.KindSalary, k)

	_, err = report.ParseKind("payslip")
	assert.ErrorIs(t, err, report.ErrUnknownKind)
}
