package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alhasan/attendance-payroll/calendar"
	"github.com/alhasan/attendance-payroll/payroll"
	"github.com/alhasan/attendance-payroll/render"
	"github.com/alhasan/attendance-payroll/report"
	"github.com/alhasan/attendance-payroll/roster"
	"github.com/alhasan/attendance-payroll/settings"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "reportgen",
		Short:         "Generates attendance cards and salary sheets from roster spreadsheets",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	flags := rootCmd.PersistentFlags()
	flags.String("employees", "", "roster workbook (xlsx)")
	flags.String("off-days", "", "off-day workbook (xlsx)")
	flags.String("name", "", "company name")
	flags.String("time-in", "", "shift start, HH:MM")
	flags.String("time-out", "", "shift end, HH:MM")
	flags.String("out", "", "output file (default stdout)")
	flags.Uint64("seed", 0, "punch jitter seed (0 = random)")
	flags.Bool("no-default-holidays", false, "do not apply the built-in gazetted holidays")
	_ = rootCmd.MarkPersistentFlagRequired("employees")

	rootCmd.AddCommand(newAttendanceCmd(), newSalaryCmd())
	return rootCmd
}

func newAttendanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attendance",
		Short: "Writes one attendance card per employee for a date range (PDF)",
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := cmd.Flags().GetString("from")
			if err != nil {
				return fmt.Errorf("failed to return the string value of from flag: %w", err)
			}
			to, err := cmd.Flags().GetString("to")
			if err != nil {
				return fmt.Errorf("failed to return the string value of to flag: %w", err)
			}

			start, err := calendar.ParseDate(from)
			if err != nil {
				return fmt.Errorf("--from: %w", err)
			}
			end, err := calendar.ParseDate(to)
			if err != nil {
				return fmt.Errorf("--to: %w", err)
			}
			period, err := calendar.NewPeriod(start, end)
			if err != nil {
				return err
			}

			run, err := loadEnv(cmd, yearsOf(period))
			if err != nil {
				return err
			}
			doc, err := run.assembler.Attendance(cmd.Context(), report.AttendanceRequest{Company: run.company, Period: period}, run.inputs)
			if err != nil {
				return err
			}
			return run.write(cmd, func(w io.Writer) error { return render.AttendancePDF(w, doc) })
		},
	}
	cmd.Flags().String("from", "", "first day, YYYY-MM-DD")
	cmd.Flags().String("to", "", "last day, YYYY-MM-DD")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func newSalaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "salary",
		Short: "Writes the department-grouped salary sheet of one month",
		RunE: func(cmd *cobra.Command, args []string) error {
			monthFlag, err := cmd.Flags().GetString("month")
			if err != nil {
				return fmt.Errorf("failed to return the string value of month flag: %w", err)
			}
			eobiFlag, err := cmd.Flags().GetString("eobi")
			if err != nil {
				return fmt.Errorf("failed to return the string value of eobi flag: %w", err)
			}
			format, err := cmd.Flags().GetString("format")
			if err != nil {
				return fmt.Errorf("failed to return the string value of format flag: %w", err)
			}

			month, err := payroll.ParseMonth(monthFlag)
			if err != nil {
				return err
			}
			eobi, err := decimal.NewFromString(eobiFlag)
			if err != nil || eobi.IsNegative() {
				return fmt.Errorf("--eobi %q: must be a non-negative amount", eobiFlag)
			}
			if format != render.FormatPDF && format != render.FormatXLSX {
				return fmt.Errorf("--format %q: use pdf or xlsx", format)
			}

			run, err := loadEnv(cmd, []int{month.Year})
			if err != nil {
				return err
			}
			doc, err := run.assembler.Salary(cmd.Context(), report.SalaryRequest{Company: run.company, Month: month, EOBI: eobi}, run.inputs)
			if err != nil {
				return err
			}
			return run.write(cmd, func(w io.Writer) error {
				if format == render.FormatXLSX {
					return render.SalaryXLSX(w, doc)
				}
				return render.SalaryPDF(w, doc)
			})
		},
	}
	cmd.Flags().String("month", "", "salary month, YYYY-MM")
	cmd.Flags().String("eobi", payroll.DefaultEOBI.String(), "EOBI deduction per employee")
	cmd.Flags().String("format", render.FormatPDF, "pdf or xlsx")
	_ = cmd.MarkFlagRequired("month")
	return cmd
}

// =============================================================================
// SHARED INPUTS
// =============================================================================

type env struct {
	company   settings.Company
	inputs    report.Inputs
	assembler *report.Assembler
}

func loadEnv(cmd *cobra.Command, years []int) (*env, error) {
	flags := cmd.Flags()
	employeesPath, _ := flags.GetString("employees")
	offDaysPath, _ := flags.GetString("off-days")
	name, _ := flags.GetString("name")
	timeIn, _ := flags.GetString("time-in")
	timeOut, _ := flags.GetString("time-out")
	seed, _ := flags.GetUint64("seed")
	noDefaults, _ := flags.GetBool("no-default-holidays")

	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelWarn}))
	parser := roster.NewParser(logger)

	e := &env{
		company:   settings.Default().WithOverrides(name, timeIn, timeOut),
		assembler: &report.Assembler{Seed: seed},
	}

	var err error
	if e.inputs.Employees, err = parseFile(employeesPath, parser.Employees); err != nil {
		return nil, fmt.Errorf("--employees: %w", err)
	}
	if offDaysPath != "" {
		if e.inputs.OffDays, err = parseFile(offDaysPath, parser.OffDays); err != nil {
			return nil, fmt.Errorf("--off-days: %w", err)
		}
	}
	if !noDefaults {
		for _, y := range years {
			e.inputs.Holidays = append(e.inputs.Holidays, calendar.DefaultGazetted(y)...)
		}
	}
	return e, nil
}

func parseFile[T any](path string, parse func(io.Reader) ([]T, error)) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parse(f)
}

func (e *env) write(cmd *cobra.Command, emit func(io.Writer) error) error {
	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		return emit(cmd.OutOrStdout())
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := emit(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", out)
	return nil
}

func yearsOf(p calendar.Period) []int {
	var years []int
	for y := p.Start.Year(); y <= p.End.Year(); y++ {
		years = append(years, y)
	}
	return years
}
