package roster

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/alhasan/attendance-payroll/calendar"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

var (
	// ErrNoWorksheet is returned when the workbook has no sheet to read.
	ErrNoWorksheet = errors.New("no worksheet found")

	// ErrEmptySheet is returned when the first worksheet has no rows.
	ErrEmptySheet = errors.New("worksheet is empty")
)

// SentinelDate replaces hire/leaving cells that cannot be parsed.
var SentinelDate = calendar.NewDate(2022, time.August, 2)

// Column order of the roster export. The first row is a header and is skipped.
const (
	colSerial = iota
	colCode
	colName
	colFatherName
	colAddress
	colDesignation
	colCNIC
	colJoined
	colLeft
	colDepartment
	colJoiningSalary
	colLatestSalary
)

// Column order of the off-days export.
const (
	colOffCode = iota
	colOffName
	colOffType
	colOffDate
)

var dateLayouts = []string{
	"2006-01-02",
	"02-Jan-2006",
	"2-Jan-2006",
	"02-Jan-06",
	"02 Jan 2006",
	"Jan 2, 2006",
	"1/2/2006",
	"01/02/2006",
	"1/2/06",
	"01-02-06",
	"2006/01/02",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// Parser reads roster and off-day workbooks.
type Parser struct {
	Logger   *slog.Logger
	Sentinel time.Time
}

// NewParser returns a parser that reports date substitutions to logger.
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{Logger: logger, Sentinel: SentinelDate}
}

// Employees parses a roster workbook and applies the acceptance filter.
func (p *Parser) Employees(r io.Reader) ([]Employee, error) {
	rows, err := readRows(r)
	if err != nil {
		return nil, err
	}

	employees := make([]Employee, 0, len(rows))
	for i, row := range rows {
		if i == 0 || blank(row) {
			continue
		}
		code := cell(row, colCode)
		joinedRaw := cell(row, colJoined)
		if code == "" || joinedRaw == "" {
			continue
		}

		e := Employee{
			Serial:        cell(row, colSerial),
			Code:          code,
			Name:          cell(row, colName),
			FatherName:    cell(row, colFatherName),
			Address:       cell(row, colAddress),
			Designation:   cell(row, colDesignation),
			CNIC:          cell(row, colCNIC),
			Department:    cell(row, colDepartment),
			JoiningSalary: ParseAmount(cell(row, colJoiningSalary)),
			LatestSalary:  ParseAmount(cell(row, colLatestSalary)),
		}
		e.JoinedOn = p.date(code, "doj", joinedRaw)

		if leftRaw := cell(row, colLeft); leftRaw != "" {
			left := p.date(code, "dol", leftRaw)
			if left.Before(e.JoinedOn) {
				p.Logger.Warn("leaving date precedes joining date, using sentinel",
					slog.String("code", code),
					slog.String("doj", e.JoinedOn.Format(calendar.DateLayout)),
					slog.String("dol", left.Format(calendar.DateLayout)),
					slog.String("sentinel", p.Sentinel.Format(calendar.DateLayout)))
				left = p.Sentinel
			}
			e.LeftOn = &left
		}
		employees = append(employees, e)
	}
	return Accept(employees), nil
}

// OffDays parses an off-days workbook. Rows without a code or date are skipped.
func (p *Parser) OffDays(r io.Reader) ([]OffDay, error) {
	rows, err := readRows(r)
	if err != nil {
		return nil, err
	}

	offDays := make([]OffDay, 0, len(rows))
	for i, row := range rows {
		if i == 0 || blank(row) {
			continue
		}
		code := cell(row, colOffCode)
		date, ok := ParseDate(cell(row, colOffDate))
		if code == "" || !ok {
			p.Logger.Debug("skipping off-day row", slog.Int("row", i+1), slog.String("code", code))
			continue
		}
		offDays = append(offDays, OffDay{
			Code: code,
			Name: cell(row, colOffName),
			Type: LeaveType(strings.ToUpper(cell(row, colOffType))),
			Date: date,
		})
	}
	return offDays, nil
}

func (p *Parser) date(code, column, raw string) time.Time {
	if d, ok := ParseDate(raw); ok {
		return d
	}
	p.Logger.Warn("unparseable date cell, using sentinel",
		slog.String("code", code),
		slog.String("column", column),
		slog.String("value", raw),
		slog.String("sentinel", p.Sentinel.Format(calendar.DateLayout)))
	return p.Sentinel
}

// ParseDate accepts Excel serial numbers and the textual layouts common in exports.
func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	if serial, err := strconv.ParseFloat(raw, 64); err == nil {
		if serial <= 0 {
			return time.Time{}, false
		}
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, false
		}
		return calendar.Day(t), true
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return calendar.Day(t), true
		}
	}
	return time.Time{}, false
}

// ParseAmount parses a salary cell such as "26,000". Unparseable cells are zero.
func ParseAmount(raw string) decimal.Decimal {
	cleaned := strings.NewReplacer(",", "", " ", "").Replace(strings.TrimSpace(raw))
	if cleaned == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func readRows(r io.Reader) ([][]string, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = file.Close() }()

	sheetName := file.GetSheetName(0)
	if sheetName == "" {
		return nil, ErrNoWorksheet
	}

	rows, err := file.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptySheet
	}
	return rows, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
