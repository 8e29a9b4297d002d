/*
handlers.go - HTTP API handlers for attendance and payroll reports

PURPOSE:
  Exposes uploads, company settings, the holiday calendar and report
  generation over REST. Handles HTTP request/response, validation and
  serialization, and delegates computation to report/ and output to
  render/.

ENDPOINTS:
  Company:
    GET    /api/company               Current configuration (default when unset)
    PUT    /api/company               Replace configuration (no merge)
    POST   /api/company               Same as PUT

  Uploads:
    POST   /api/employees             Upload roster xlsx (raw body or multipart "file")
    GET    /api/employees             Latest accepted roster
    POST   /api/off-days              Upload off-day xlsx
    GET    /api/off-days              Latest leave records

  Holidays:
    GET    /api/holidays              List holidays
    POST   /api/holidays              Add holiday
    POST   /api/holidays/defaults     Seed the default gazetted holidays
    DELETE /api/holidays/{id}         Remove holiday

  Reports:
    POST   /api/reports               Generate attendance or salary report

  Admin:
    POST   /api/reset                 Clear every table (dev only)

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input
  3. Read one snapshot of settings and uploads from the store
  4. Assemble the document, render it
  5. Handle errors

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, unreadable spreadsheets
  - 404: Resource not found
  - 413: Upload too large
  - 500: Internal errors

SECURITY NOTE:
  No authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/alhasan/attendance-payroll/calendar"
	"github.com/alhasan/attendance-payroll/payroll"
	"github.com/alhasan/attendance-payroll/render"
	"github.com/alhasan/attendance-payroll/report"
	"github.com/alhasan/attendance-payroll/roster"
	"github.com/alhasan/attendance-payroll/settings"
	"github.com/alhasan/attendance-payroll/store/sqlite"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// DefaultMaxUploadBytes bounds spreadsheet uploads.
const DefaultMaxUploadBytes = 16 << 20

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store     *sqlite.Store
	Assembler *report.Assembler
	Parser    *roster.Parser
	Logger    *slog.Logger

	DefaultEOBI    decimal.Decimal
	MaxUploadBytes int64
}

// NewHandler creates a new handler with the given store.
func NewHandler(store *sqlite.Store, assembler *report.Assembler, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if assembler == nil {
		assembler = &report.Assembler{}
	}
	return &Handler{
		Store:          store,
		Assembler:      assembler,
		Parser:         roster.NewParser(logger),
		Logger:         logger,
		DefaultEOBI:    payroll.DefaultEOBI,
		MaxUploadBytes: DefaultMaxUploadBytes,
	}
}

// =============================================================================
// COMPANY HANDLERS
// =============================================================================

// GetCompany returns the company configuration.
// GET /api/company
func (h *Handler) GetCompany(w http.ResponseWriter, r *http.Request) {
	c, err := h.Store.GetCompany(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get company details", err)
		return
	}
	writeJSON(w, http.StatusOK, CompanyDTO(c))
}

// SaveCompany replaces the company configuration.
// PUT /api/company
func (h *Handler) SaveCompany(w http.ResponseWriter, r *http.Request) {
	var req CompanyDTO
	if !decodeAndValidate(w, r, &req) {
		return
	}

	c := settings.Company(req)
	if err := h.Store.SaveCompany(r.Context(), c); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save company details", err)
		return
	}
	writeJSON(w, http.StatusOK, CompanyDTO(c))
}

// =============================================================================
// UPLOAD HANDLERS
// =============================================================================

// UploadEmployees replaces the stored roster with an uploaded spreadsheet.
// POST /api/employees
func (h *Handler) UploadEmployees(w http.ResponseWriter, r *http.Request) {
	body, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	employees, err := h.Parser.Employees(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read employee spreadsheet", err)
		return
	}

	batch, err := h.Store.ReplaceEmployees(r.Context(), employees)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to store employees", err)
		return
	}

	h.Logger.Info("roster uploaded", slog.String("batch", batch), slog.Int("employees", len(employees)))
	writeJSON(w, http.StatusCreated, UploadResponse{
		BatchID:   batch,
		Count:     len(employees),
		Employees: toEmployeeDTOs(employees),
	})
}

// ListEmployees returns the latest roster.
// GET /api/employees
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"employees": toEmployeeDTOs(employees)})
}

// UploadOffDays replaces the stored leave records with an uploaded spreadsheet.
// POST /api/off-days
func (h *Handler) UploadOffDays(w http.ResponseWriter, r *http.Request) {
	body, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	offDays, err := h.Parser.OffDays(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read off-day spreadsheet", err)
		return
	}

	batch, err := h.Store.ReplaceOffDays(r.Context(), offDays)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to store off days", err)
		return
	}

	h.Logger.Info("off days uploaded", slog.String("batch", batch), slog.Int("records", len(offDays)))
	writeJSON(w, http.StatusCreated, UploadResponse{
		BatchID: batch,
		Count:   len(offDays),
		OffDays: toOffDayDTOs(offDays),
	})
}

// ListOffDays returns the latest leave records.
// GET /api/off-days
func (h *Handler) ListOffDays(w http.ResponseWriter, r *http.Request) {
	offDays, err := h.Store.ListOffDays(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list off days", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"offDays": toOffDayDTOs(offDays)})
}

// readUpload returns the spreadsheet bytes from a multipart "file" field or the raw body.
func (h *Handler) readUpload(w http.ResponseWriter, r *http.Request) (io.Reader, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes)

	var src io.Reader = r.Body
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		file, _, err := r.FormFile("file")
		if err != nil {
			writeUploadError(w, err)
			return nil, false
		}
		defer file.Close()
		src = file
	}

	data, err := io.ReadAll(src)
	if err != nil {
		writeUploadError(w, err)
		return nil, false
	}
	if len(data) == 0 {
		writeError(w, http.StatusBadRequest, "Empty upload", nil)
		return nil, false
	}
	return bytes.NewReader(data), true
}

func writeUploadError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, "Upload too large", err)
		return
	}
	writeError(w, http.StatusBadRequest, "Invalid upload", err)
}

// =============================================================================
// HOLIDAY ENDPOINTS
// =============================================================================

// ListHolidays returns all holidays.
// GET /api/holidays
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	holidays, err := h.Store.ListHolidays(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get holidays", err)
		return
	}

	dtos := make([]HolidayDTO, 0, len(holidays))
	for _, hol := range holidays {
		dtos = append(dtos, toHolidayDTO(hol))
	}

	writeJSON(w, http.StatusOK, map[string]any{"holidays": dtos})
}

// CreateHoliday creates a new holiday.
// POST /api/holidays
func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req CreateHolidayRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	date, err := calendar.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	holiday, err := h.Store.SaveHoliday(r.Context(), calendar.Holiday{
		Date:      date,
		Name:      strings.TrimSpace(req.Name),
		Recurring: req.Recurring,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create holiday", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"status":  "created",
		"holiday": toHolidayDTO(holiday),
	})
}

// DeleteHoliday deletes a holiday.
// DELETE /api/holidays/{id}
func (h *Handler) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Store.DeleteHoliday(r.Context(), id); err != nil {
		if errors.Is(err, sqlite.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Holiday not found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete holiday", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"status": "deleted"})
}

// AddDefaultHolidays adds the built-in gazetted holidays.
// POST /api/holidays/defaults
func (h *Handler) AddDefaultHolidays(w http.ResponseWriter, r *http.Request) {
	var req DefaultHolidaysRequest
	if !decodeOptional(w, r, &req) {
		return
	}

	year := req.Year
	if year == 0 {
		year = time.Now().Year()
	}

	saved, err := h.Store.SaveHolidays(r.Context(), calendar.DefaultGazetted(year))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create holidays", err)
		return
	}

	dtos := make([]HolidayDTO, len(saved))
	for i, hol := range saved {
		dtos[i] = toHolidayDTO(hol)
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"status":   "created",
		"count":    len(saved),
		"holidays": dtos,
	})
}

// =============================================================================
// REPORT HANDLERS
// =============================================================================

// GenerateReport assembles and renders one report.
// POST /api/reports
func (h *Handler) GenerateReport(w http.ResponseWriter, r *http.Request) {
	var req ReportRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	ctx := r.Context()
	company, err := h.Store.GetCompany(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get company details", err)
		return
	}
	company = company.WithOverrides(req.Name, req.TimeIn, req.TimeOut)

	reportReq, err := h.buildRequest(req, company)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid report request", err)
		return
	}

	format := req.Format
	if format == "" {
		format = render.FormatPDF
	}
	if format == render.FormatXLSX && reportReq.Kind() != report.KindSalary {
		writeError(w, http.StatusBadRequest, "xlsx is only available for salary reports", nil)
		return
	}

	in, err := h.loadInputs(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load report inputs", err)
		return
	}

	doc, err := h.Assembler.Assemble(ctx, reportReq, in)
	if err != nil {
		if errors.Is(err, report.ErrInvalidRange) || errors.Is(err, report.ErrInvalidShift) {
			writeError(w, http.StatusBadRequest, "Invalid report request", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to assemble report", err)
		return
	}

	if format == render.FormatJSON {
		switch d := doc.(type) {
		case *report.AttendanceDocument:
			writeJSON(w, http.StatusOK, toAttendanceResponse(d))
		case *report.SalaryDocument:
			writeJSON(w, http.StatusOK, toSalaryResponse(d))
		}
		return
	}

	var buf bytes.Buffer
	if format == render.FormatXLSX {
		err = render.SalaryXLSX(&buf, doc.(*report.SalaryDocument))
	} else {
		err = render.PDF(&buf, doc)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to render report", err)
		return
	}

	filename := fmt.Sprintf("%s-%s.%s", reportReq.Kind(), time.Now().Format("20060102-150405"), format)
	w.Header().Set("Content-Type", render.ContentType(format))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// buildRequest resolves the request variant and its cross-field rules.
func (h *Handler) buildRequest(req ReportRequest, company settings.Company) (report.Request, error) {
	kind, err := report.ParseKind(req.Kind)
	if err != nil {
		return nil, err
	}

	switch kind {
	case report.KindAttendance:
		if req.From == "" || req.To == "" {
			return nil, errors.New("attendance reports need from and to")
		}
		from, err := calendar.ParseDate(req.From)
		if err != nil {
			return nil, err
		}
		to, err := calendar.ParseDate(req.To)
		if err != nil {
			return nil, err
		}
		period, err := calendar.NewPeriod(from, to)
		if err != nil {
			return nil, err
		}
		return report.AttendanceRequest{Company: company, Period: period}, nil

	default:
		if req.Month == "" {
			return nil, errors.New("salary reports need month")
		}
		month, err := payroll.ParseMonth(req.Month)
		if err != nil {
			return nil, err
		}
		eobi := h.DefaultEOBI
		if req.EOBI != nil {
			eobi = *req.EOBI
		}
		if eobi.IsNegative() {
			return nil, errors.New("eobi must not be negative")
		}
		return report.SalaryRequest{Company: company, Month: month, EOBI: eobi}, nil
	}
}

// loadInputs reads one snapshot of the uploads and the holiday calendar.
func (h *Handler) loadInputs(ctx context.Context) (report.Inputs, error) {
	employees, err := h.Store.ListEmployees(ctx)
	if err != nil {
		return report.Inputs{}, err
	}
	offDays, err := h.Store.ListOffDays(ctx)
	if err != nil {
		return report.Inputs{}, err
	}
	holidays, err := h.Store.ListHolidays(ctx)
	if err != nil {
		return report.Inputs{}, err
	}
	return report.Inputs{Employees: employees, OffDays: offDays, Holidays: holidays}, nil
}

// =============================================================================
// ADMIN HANDLERS
// =============================================================================

// ResetDatabase clears all stored data.
// POST /api/reset
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "reset"})
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// decodeAndValidate decodes a JSON body into dst and runs its struct tags.
// On failure the error response is already written.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	return validateBody(w, dst)
}

// decodeOptional is decodeAndValidate for endpoints whose body may be absent.
// An empty body, chunked or not, leaves dst at its zero value.
func decodeOptional(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	return validateBody(w, dst)
}

func validateBody(w http.ResponseWriter, dst any) bool {
	if err := validate.Struct(dst); err != nil {
		if details := validationDetails(err); details != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{
				Error:   "Validation failed",
				Code:    "validation",
				Details: details,
			})
			return false
		}
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	return true
}
