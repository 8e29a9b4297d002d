/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the domain model (roster, attendance, payroll) from the external API
  contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

VALIDATION:
  Request types carry validator/v10 struct tags. The custom "hhmm" tag
  accepts a 24h time of day with an optional leading zero on the hour.
  Rules that depend on another field (attendance needs from/to, salary
  needs month) are checked in the handler.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/alhasan/attendance-payroll/attendance"
	"github.com/alhasan/attendance-payroll/calendar"
	"github.com/alhasan/attendance-payroll/payroll"
	"github.com/alhasan/attendance-payroll/render"
	"github.com/alhasan/attendance-payroll/report"
	"github.com/alhasan/attendance-payroll/roster"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// =============================================================================
// VALIDATION
// =============================================================================

var timeOfDayPattern = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):[0-5][0-9]$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return timeOfDayPattern.MatchString(fl.Field().String())
	})
	return v
}

// validationDetails maps each failing field to the tag it failed.
func validationDetails(err error) map[string]string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil
	}
	details := make(map[string]string, len(ve))
	for _, fe := range ve {
		details[fe.Field()] = fe.Tag()
	}
	return details
}

// =============================================================================
// COMPANY
// =============================================================================

// CompanyDTO is the company configuration, both as request and response.
type CompanyDTO struct {
	Name    string `json:"name" validate:"required,max=120"`
	TimeIn  string `json:"timeIn" validate:"required,hhmm"`
	TimeOut string `json:"timeOut" validate:"required,hhmm"`
}

// =============================================================================
// HOLIDAYS
// =============================================================================

type HolidayDTO struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	Name      string `json:"name"`
	Recurring bool   `json:"recurring"`
}

// CreateHolidayRequest adds a gazetted (recurring) or festival holiday.
type CreateHolidayRequest struct {
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	Name      string `json:"name" validate:"required,max=120"`
	Recurring bool   `json:"recurring"`
}

// DefaultHolidaysRequest seeds the built-in gazetted holidays anchored on Year.
type DefaultHolidaysRequest struct {
	Year int `json:"year" validate:"omitempty,min=1900,max=2999"`
}

func toHolidayDTO(h calendar.Holiday) HolidayDTO {
	return HolidayDTO{
		ID:        h.ID,
		Date:      h.Date.Format(calendar.DateLayout),
		Name:      h.Name,
		Recurring: h.Recurring,
	}
}

// =============================================================================
// UPLOADS
// =============================================================================

type EmployeeDTO struct {
	Serial        string          `json:"serialNumber,omitempty"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	FatherName    string          `json:"fatherName,omitempty"`
	Address       string          `json:"address,omitempty"`
	Designation   string          `json:"designation"`
	Department    string          `json:"department"`
	CNIC          string          `json:"cnic,omitempty"`
	JoinedOn      string          `json:"doj"`
	LeftOn        *string         `json:"dol,omitempty"`
	JoiningSalary decimal.Decimal `json:"joiningSalary"`
	LatestSalary  decimal.Decimal `json:"latestSalary"`
}

type OffDayDTO struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	LeaveType string `json:"leaveType"`
	Date      string `json:"date"`
}

// UploadResponse reports what a roster or off-day upload stored.
type UploadResponse struct {
	BatchID   string        `json:"batchId"`
	Count     int           `json:"count"`
	Employees []EmployeeDTO `json:"employees,omitempty"`
	OffDays   []OffDayDTO   `json:"offDays,omitempty"`
}

func toEmployeeDTO(e roster.Employee) EmployeeDTO {
	dto := EmployeeDTO{
		Serial:        e.Serial,
		Code:          e.Code,
		Name:          e.Name,
		FatherName:    e.FatherName,
		Address:       e.Address,
		Designation:   e.Designation,
		Department:    e.Department,
		CNIC:          e.CNIC,
		JoinedOn:      e.JoinedOn.Format(calendar.DateLayout),
		JoiningSalary: e.JoiningSalary,
		LatestSalary:  e.LatestSalary,
	}
	if e.LeftOn != nil {
		s := e.LeftOn.Format(calendar.DateLayout)
		dto.LeftOn = &s
	}
	return dto
}

func toEmployeeDTOs(employees []roster.Employee) []EmployeeDTO {
	dtos := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		dtos[i] = toEmployeeDTO(e)
	}
	return dtos
}

func toOffDayDTOs(offDays []roster.OffDay) []OffDayDTO {
	dtos := make([]OffDayDTO, len(offDays))
	for i, o := range offDays {
		dtos[i] = OffDayDTO{
			Code:      o.Code,
			Name:      o.Name,
			LeaveType: string(o.Type),
			Date:      o.Date.Format(calendar.DateLayout),
		}
	}
	return dtos
}

// =============================================================================
// REPORTS
// =============================================================================

// ReportRequest asks for one report. Blank name/timeIn/timeOut fall back to
// the stored company configuration; a missing eobi falls back to the default.
type ReportRequest struct {
	Kind    string           `json:"kind" validate:"required,oneof=attendance salary"`
	From    string           `json:"from" validate:"omitempty,datetime=2006-01-02"`
	To      string           `json:"to" validate:"omitempty,datetime=2006-01-02"`
	Month   string           `json:"month" validate:"omitempty,datetime=2006-01"`
	EOBI    *decimal.Decimal `json:"eobi"`
	Name    string           `json:"name" validate:"omitempty,max=120"`
	TimeIn  string           `json:"timeIn" validate:"omitempty,hhmm"`
	TimeOut string           `json:"timeOut" validate:"omitempty,hhmm"`
	Format  string           `json:"format" validate:"omitempty,oneof=pdf json xlsx"`
}

type DayRecordDTO struct {
	Serial     int    `json:"serial"`
	Day        string `json:"day"`
	Date       string `json:"date"`
	TimeIn     string `json:"timeIn"`
	TimeOut    string `json:"timeOut"`
	TotalTime  string `json:"totalTime"`
	Overtime   string `json:"overtime"`
	Attendance string `json:"attendance"`
}

type StatsDTO struct {
	PP       int    `json:"PP"`
	AB       int    `json:"AB"`
	GH       int    `json:"GH"`
	WE       int    `json:"WE"`
	Days     int    `json:"days"`
	Overtime string `json:"overtime"`
	EarnDays int    `json:"earnDays"`
}

type AttendancePageDTO struct {
	Employee EmployeeDTO    `json:"employee"`
	From     string         `json:"from"`
	To       string         `json:"to"`
	Rows     []DayRecordDTO `json:"rows"`
	Stats    StatsDTO       `json:"stats"`
}

type AttendanceReportResponse struct {
	Kind    string              `json:"kind"`
	Company CompanyDTO          `json:"company"`
	From    string              `json:"from"`
	To      string              `json:"to"`
	Pages   []AttendancePageDTO `json:"pages"`
}

type SalaryRowDTO struct {
	Serial          int             `json:"serial"`
	Code            string          `json:"code"`
	Name            string          `json:"name"`
	Designation     string          `json:"designation"`
	JoinedOn        string          `json:"doj"`
	Gross           decimal.Decimal `json:"grossSalary"`
	PerDayRate      decimal.Decimal `json:"perDayRate"`
	Absences        int             `json:"absences"`
	Days            int             `json:"days"`
	Overtime        decimal.Decimal `json:"overtime"`
	OvertimeAmount  decimal.Decimal `json:"overtimeAmount"`
	EOBI            decimal.Decimal `json:"eobi"`
	Tax             decimal.Decimal `json:"tax"`
	Loan            decimal.Decimal `json:"loan"`
	OtherDeductions decimal.Decimal `json:"otherDeductions"`
	Advance         decimal.Decimal `json:"advance"`
	NetPay          decimal.Decimal `json:"netPay"`
}

type TotalsDTO struct {
	Gross           decimal.Decimal `json:"grossSalary"`
	OvertimeAmount  decimal.Decimal `json:"overtimeAmount"`
	EOBI            decimal.Decimal `json:"eobi"`
	Tax             decimal.Decimal `json:"tax"`
	Loan            decimal.Decimal `json:"loan"`
	OtherDeductions decimal.Decimal `json:"otherDeductions"`
	Advance         decimal.Decimal `json:"advance"`
	NetPay          decimal.Decimal `json:"netPay"`
}

type DepartmentDTO struct {
	Name     string         `json:"name"`
	Rows     []SalaryRowDTO `json:"rows"`
	Subtotal TotalsDTO      `json:"subtotal"`
}

type SalaryReportResponse struct {
	Kind        string          `json:"kind"`
	Company     CompanyDTO      `json:"company"`
	Month       string          `json:"month"`
	Title       string          `json:"title"`
	Departments []DepartmentDTO `json:"departments"`
	GrandTotal  TotalsDTO       `json:"grandTotal"`
}

func toAttendanceResponse(doc *report.AttendanceDocument) AttendanceReportResponse {
	resp := AttendanceReportResponse{
		Kind:    string(report.KindAttendance),
		Company: CompanyDTO(doc.Company),
		From:    doc.Period.Start.Format(calendar.DateLayout),
		To:      doc.Period.End.Format(calendar.DateLayout),
		Pages:   make([]AttendancePageDTO, len(doc.Pages)),
	}
	for i, p := range doc.Pages {
		resp.Pages[i] = AttendancePageDTO{
			Employee: toEmployeeDTO(p.Employee),
			From:     p.Ledger.Window.Start.Format(calendar.DateLayout),
			To:       p.Ledger.Window.End.Format(calendar.DateLayout),
			Rows:     toDayRecordDTOs(p.Ledger.Rows),
			Stats:    toStatsDTO(p.Ledger.Stats),
		}
	}
	return resp
}

func toDayRecordDTOs(rows []attendance.DayRecord) []DayRecordDTO {
	dtos := make([]DayRecordDTO, len(rows))
	for i, r := range rows {
		dtos[i] = DayRecordDTO{
			Serial:     r.Serial,
			Day:        r.Weekday,
			Date:       r.Date.Format(calendar.DateLayout),
			TimeIn:     r.TimeIn,
			TimeOut:    r.TimeOut,
			TotalTime:  r.Worked,
			Overtime:   r.Overtime,
			Attendance: string(r.Code),
		}
	}
	return dtos
}

func toStatsDTO(s attendance.Stats) StatsDTO {
	return StatsDTO{
		PP:       s.Present,
		AB:       s.Absent,
		GH:       s.Holiday,
		WE:       s.Weekend,
		Days:     s.Days,
		Overtime: s.Overtime,
		EarnDays: s.EarnedDays,
	}
}

func toSalaryResponse(doc *report.SalaryDocument) SalaryReportResponse {
	resp := SalaryReportResponse{
		Kind:        string(report.KindSalary),
		Company:     CompanyDTO(doc.Company),
		Month:       doc.Sheet.Month.String(),
		Title:       render.SalaryTitle(doc.Sheet.Month),
		Departments: make([]DepartmentDTO, len(doc.Sheet.Departments)),
		GrandTotal:  toTotalsDTO(doc.Sheet.GrandTotal),
	}
	for i, d := range doc.Sheet.Departments {
		rows := make([]SalaryRowDTO, len(d.Rows))
		for j, r := range d.Rows {
			rows[j] = toSalaryRowDTO(r)
		}
		resp.Departments[i] = DepartmentDTO{Name: d.Name, Rows: rows, Subtotal: toTotalsDTO(d.Subtotal)}
	}
	return resp
}

func toSalaryRowDTO(r payroll.Row) SalaryRowDTO {
	return SalaryRowDTO{
		Serial:          r.Serial,
		Code:            r.Code,
		Name:            r.Name,
		Designation:     r.Designation,
		JoinedOn:        r.JoinedOn.Format(calendar.DateLayout),
		Gross:           r.Gross,
		PerDayRate:      r.PerDayRate,
		Absences:        r.Absences,
		Days:            r.Days,
		Overtime:        r.Overtime,
		OvertimeAmount:  r.OvertimeAmount,
		EOBI:            r.EOBI,
		Tax:             r.Tax,
		Loan:            r.Loan,
		OtherDeductions: r.OtherDeductions,
		Advance:         r.Advance,
		NetPay:          r.NetPay,
	}
}

func toTotalsDTO(t payroll.Totals) TotalsDTO {
	return TotalsDTO(t)
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}
