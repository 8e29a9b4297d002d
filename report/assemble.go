package report

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/alhasan/attendance-payroll/attendance"
	"github.com/alhasan/attendance-payroll/calendar"
	"github.com/alhasan/attendance-payroll/payroll"
	"github.com/alhasan/attendance-payroll/roster"
	"golang.org/x/sync/errgroup"
)

// Assembler turns a request plus its inputs into a document.
// The zero value is usable: wall clock, entropy jitter, GOMAXPROCS workers.
type Assembler struct {
	// Now is the clock used for time-out suppression on the current day.
	Now func() time.Time
	// Seed makes punch jitter reproducible. Zero draws from entropy.
	Seed uint64
	// Workers bounds the per-employee fan-out.
	Workers int
}

// Assemble dispatches on the request variant.
func (a *Assembler) Assemble(ctx context.Context, req Request, in Inputs) (Document, error) {
	switch r := req.(type) {
	case AttendanceRequest:
		return a.Attendance(ctx, r, in)
	case SalaryRequest:
		return a.Salary(ctx, r, in)
	default:
		return nil, fmt.Errorf("%T: %w", req, ErrUnknownKind)
	}
}

// Attendance builds one card per employee whose employment overlaps the range.
func (a *Assembler) Attendance(ctx context.Context, req AttendanceRequest, in Inputs) (*AttendanceDocument, error) {
	if calendar.Day(req.Period.End).Before(calendar.Day(req.Period.Start)) {
		return nil, fmt.Errorf("%s: %w", req.Period, ErrInvalidRange)
	}
	shift, err := attendance.ParseShift(req.Company.TimeIn, req.Company.TimeOut)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidShift, err)
	}

	employees := roster.Accept(in.Employees)
	cal := calendar.NewCalendar(in.Holidays)
	leaves := roster.NewLeaveIndex(in.OffDays)
	now := a.clock()

	pages := make([]*AttendancePage, len(employees))
	err = a.fanOut(ctx, len(employees), func(i int) {
		emp := employees[i]
		window, ok := attendance.ResolveWindow(emp, req.Period)
		if !ok {
			return
		}
		b := attendance.Builder{
			Calendar: cal,
			Shift:    shift,
			Jitter:   a.jitter(i),
			Now:      now,
		}
		pages[i] = &AttendancePage{Employee: emp, Ledger: b.Build(emp, window, leaves)}
	})
	if err != nil {
		return nil, err
	}

	doc := &AttendanceDocument{Company: req.Company, Period: req.Period, Pages: []AttendancePage{}}
	for _, p := range pages {
		if p != nil {
			doc.Pages = append(doc.Pages, *p)
		}
	}
	return doc, nil
}

// Salary computes the salary sheet of the requested month.
func (a *Assembler) Salary(ctx context.Context, req SalaryRequest, in Inputs) (*SalaryDocument, error) {
	employees := roster.Accept(in.Employees)

	rows := make([]*payroll.Row, len(employees))
	err := a.fanOut(ctx, len(employees), func(i int) {
		emp := employees[i]
		if !payroll.Eligible(emp, req.Month) {
			return
		}
		row := payroll.Compute(emp, req.EOBI, payroll.CountAbsences(emp.Code, req.Month, in.OffDays))
		rows[i] = &row
	})
	if err != nil {
		return nil, err
	}

	eligible := make([]payroll.Row, 0, len(rows))
	for _, r := range rows {
		if r != nil {
			eligible = append(eligible, *r)
		}
	}
	return &SalaryDocument{Company: req.Company, Sheet: payroll.Group(req.Month, eligible)}, nil
}

// fanOut runs fn for every index on a bounded pool. Each fn writes only its own slot.
func (a *Assembler) fanOut(ctx context.Context, n int, fn func(i int)) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers())
	for i := 0; i < n; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fn(i)
			return nil
		})
	}
	return g.Wait()
}

func (a *Assembler) workers() int {
	if a.Workers > 0 {
		return a.Workers
	}
	return runtime.GOMAXPROCS(0)
}

func (a *Assembler) clock() func() time.Time {
	if a.Now != nil {
		return a.Now
	}
	return time.Now
}

func (a *Assembler) jitter(i int) attendance.Jitter {
	if a.Seed == 0 {
		return attendance.NewEntropyJitter()
	}
	return attendance.NewJitter(a.Seed, uint64(i))
}
