package roster_test

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/alhasan/attendance-payroll/calendar"
	"github.com/alhasan/attendance-payroll/roster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func workbook(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow("Sheet1", cellRef, &r))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

var rosterHeader = []any{
	"serial_number", "code", "name", "father_name", "address", "designation",
	"cnic", "doj", "dol", "department", "joining_salary", "latest_salary",
}

func testParser(buf *bytes.Buffer) *roster.Parser {
	return roster.NewParser(slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
}

// =============================================================================
// ROSTER INGESTION
// =============================================================================

func TestEmployees_ParsesAndFilters(t *testing.T) {
	// GIVEN: A roster with a header, one complete row, one without code,
	// one without hire date, and a blank row
	data := workbook(t, [][]any{
		rosterHeader,
		{"1", "E100", "Ali Khan", "Ahmed Khan", "Lahore", "Operator", "35202-1", time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), "", " Stitching ", "20,000", 26000},
		{"2", "", "No Code", "", "", "", "35202-2", "2023-01-01", "", "Cutting", "1", "1"},
		{"3", "E102", "No Doj", "", "", "", "35202-3", "", "", "Cutting", "1", "1"},
		{},
		{"4", "E103", "Bilal", "", "", "Helper", "35202-4", "14-Aug-2020", "2023-03-31", "Cutting", "15000", "18000"},
	})

	var logs bytes.Buffer
	employees, err := testParser(&logs).Employees(data)
	require.NoError(t, err)

	// THEN: Only rows with code and hire date survive, in order
	require.Len(t, employees, 2)

	first := employees[0]
	assert.Equal(t, "E100", first.Code)
	assert.Equal(t, "Ali Khan", first.Name)
	assert.Equal(t, "Stitching", first.Department)
	assert.Equal(t, calendar.NewDate(2023, time.January, 1), first.JoinedOn)
	assert.Nil(t, first.LeftOn)
	assert.Equal(t, "20000", first.JoiningSalary.String())
	assert.Equal(t, "26000", first.LatestSalary.String())

	second := employees[1]
	assert.Equal(t, "E103", second.Code)
	assert.Equal(t, calendar.NewDate(2020, time.August, 14), second.JoinedOn)
	require.NotNil(t, second.LeftOn)
	assert.Equal(t, calendar.NewDate(2023, time.March, 31), *second.LeftOn)
}

func TestEmployees_MalformedDateFallsBackToSentinel(t *testing.T) {
	data := workbook(t, [][]any{
		rosterHeader,
		{"1", "E200", "Bad Date", "", "", "", "1", "not a date", "", "Cutting", "1", "1"},
	})

	var logs bytes.Buffer
	employees, err := testParser(&logs).Employees(data)
	require.NoError(t, err)
	require.Len(t, employees, 1)

	assert.Equal(t, roster.SentinelDate, employees[0].JoinedOn)
	assert.Contains(t, logs.String(), "using sentinel")
	assert.Contains(t, logs.String(), "E200")
}

func TestEmployees_LeavingBeforeJoiningUsesSentinel(t *testing.T) {
	data := workbook(t, [][]any{
		rosterHeader,
		{"1", "E300", "Backwards", "", "", "", "1", "2023-05-01", "2023-01-01", "Cutting", "1", "1"},
	})

	var logs bytes.Buffer
	employees, err := testParser(&logs).Employees(data)
	require.NoError(t, err)
	require.Len(t, employees, 1)
	require.NotNil(t, employees[0].LeftOn)
	assert.Equal(t, roster.SentinelDate, *employees[0].LeftOn)
	assert.Contains(t, logs.String(), "leaving date precedes joining date")
}

func TestEmployees_NotAWorkbook(t *testing.T) {
	_, err := roster.NewParser(nil).Employees(bytes.NewBufferString("plain text"))
	assert.Error(t, err)
}

// =============================================================================
// OFF-DAY INGESTION
// =============================================================================

func TestOffDays_Parse(t *testing.T) {
	data := workbook(t, [][]any{
		{"code", "name", "leaveType", "date"},
		{"E100", "Ali Khan", "ab", time.Date(2023, 8, 3, 0, 0, 0, 0, time.UTC)},
		{"E100", "Ali Khan", "SL", "2023-08-04"},
		{"", "Nobody", "AB", "2023-08-04"},
		{"E101", "Bad", "AB", "someday"},
	})

	offDays, err := roster.NewParser(nil).OffDays(data)
	require.NoError(t, err)
	require.Len(t, offDays, 2)

	assert.Equal(t, roster.LeaveAbsence, offDays[0].Type)
	assert.Equal(t, calendar.NewDate(2023, time.August, 3), offDays[0].Date)
	assert.Equal(t, roster.LeaveSick, offDays[1].Type)
}

// =============================================================================
// ACCEPTANCE + LEAVE INDEX
// =============================================================================

func TestAccept(t *testing.T) {
	in := []roster.Employee{
		{Code: "A", JoinedOn: calendar.NewDate(2023, 1, 1)},
		{Code: "  ", JoinedOn: calendar.NewDate(2023, 1, 1)},
		{Code: "C"},
		{Code: "D", JoinedOn: calendar.NewDate(2022, 1, 1)},
	}
	out := roster.Accept(in)
	require.Len(t, out, 2)
	assert.Equal(t, "A", out[0].Code)
	assert.Equal(t, "D", out[1].Code)
}

func TestLeaveIndex_FirstMatchWins(t *testing.T) {
	day := calendar.NewDate(2023, time.August, 3)
	idx := roster.NewLeaveIndex([]roster.OffDay{
		{Code: "E1", Type: roster.LeaveCasual, Date: day.Add(10 * time.Hour)},
		{Code: "E1", Type: roster.LeaveAbsence, Date: day},
	})

	code, ok := idx.LeaveOn("E1", day)
	assert.True(t, ok)
	assert.Equal(t, calendar.Code("CL"), code)

	_, ok = idx.LeaveOn("E2", day)
	assert.False(t, ok)
}

func TestEmployee_Active(t *testing.T) {
	left := calendar.NewDate(2023, time.March, 31)
	e := roster.Employee{JoinedOn: calendar.NewDate(2023, time.January, 1), LeftOn: &left}

	assert.False(t, e.Active(calendar.NewDate(2022, time.December, 31)))
	assert.True(t, e.Active(calendar.NewDate(2023, time.January, 1)))
	assert.True(t, e.Active(left))
	assert.False(t, e.Active(calendar.NewDate(2023, time.April, 1)))
}

func TestParseAmount(t *testing.T) {
	assert.Equal(t, "26000", roster.ParseAmount("26,000").String())
	assert.True(t, roster.ParseAmount("").IsZero())
	assert.True(t, roster.ParseAmount("n/a").IsZero())
}
