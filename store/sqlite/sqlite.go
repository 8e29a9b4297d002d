/*
Package sqlite provides the SQLite-backed settings and upload store.

PURPOSE:
  Persists everything a report request reads before computation starts:
  the company configuration, the holiday calendar, and the latest roster
  and off-day uploads. The computation core never talks to the store; the
  API reads one snapshot per request and hands plain values to report/.

KEY TABLES:
  settings:  key/value JSON documents (company configuration)
  holidays:  gazetted (recurring) and festival (exact-date) holidays
  employees: latest accepted roster, roster order kept in position
  off_days:  latest leave records, upload order kept in position

REPLACE SEMANTICS:
  SaveCompany overwrites the stored document; no field is merged.
  ReplaceEmployees and ReplaceOffDays drop the previous upload inside the
  same transaction that inserts the new one.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety and a single connection, which also
  keeps ":memory:" databases coherent across calls.

USAGE:
  store, err := sqlite.New("./data/reports.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - settings/company.go: configuration document
  - api/handlers.go: the only caller
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/alhasan/attendance-payroll/calendar"
	"github.com/alhasan/attendance-payroll/roster"
	"github.com/alhasan/attendance-payroll/settings"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a keyed record does not exist.
var ErrNotFound = errors.New("not found")

const companyKey = "company"

// Store implements persistence using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value_json TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- recurring = TRUE: gazetted, matched on month/day in any year
	CREATE TABLE IF NOT EXISTS holidays (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		name TEXT NOT NULL,
		recurring BOOLEAN DEFAULT FALSE,
		created_at TEXT NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_holidays_unique
		ON holidays(date, name);

	CREATE TABLE IF NOT EXISTS employees (
		position INTEGER PRIMARY KEY,
		batch_id TEXT NOT NULL,
		serial TEXT,
		code TEXT NOT NULL,
		name TEXT,
		father_name TEXT,
		address TEXT,
		designation TEXT,
		department TEXT,
		cnic TEXT,
		joined_on TEXT NOT NULL,
		left_on TEXT,
		joining_salary TEXT NOT NULL,
		latest_salary TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS off_days (
		position INTEGER PRIMARY KEY,
		batch_id TEXT NOT NULL,
		code TEXT NOT NULL,
		name TEXT,
		leave_type TEXT NOT NULL,
		date TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_off_days_code_date
		ON off_days(code, date);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// COMPANY SETTINGS
// =============================================================================

// GetCompany returns the stored company configuration, or the default when unset.
func (s *Store) GetCompany(ctx context.Context) (settings.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var raw string
	err := s.db.QueryRowContext(ctx,
		"SELECT value_json FROM settings WHERE key = ?", companyKey,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return settings.Default(), nil
	}
	if err != nil {
		return settings.Company{}, err
	}

	var c settings.Company
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return settings.Company{}, fmt.Errorf("decode company settings: %w", err)
	}
	return c, nil
}

// SaveCompany replaces the stored company configuration.
func (s *Store) SaveCompany(ctx context.Context, c settings.Company) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(c)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value_json, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value_json = excluded.value_json,
			updated_at = excluded.updated_at
	`, companyKey, string(raw), time.Now().UTC().Format(time.RFC3339))
	return err
}

// =============================================================================
// HOLIDAY CALENDAR
// =============================================================================

// SaveHoliday saves a holiday and returns it with its id.
// A holiday with the same date and name is updated in place.
func (s *Store) SaveHoliday(ctx context.Context, h calendar.Holiday) (calendar.Holiday, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.saveHoliday(ctx, s.db, h)
}

// SaveHolidays saves several holidays in one transaction.
func (s *Store) SaveHolidays(ctx context.Context, hs []calendar.Holiday) ([]calendar.Holiday, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	saved := make([]calendar.Holiday, 0, len(hs))
	for _, h := range hs {
		h, err := s.saveHoliday(ctx, tx, h)
		if err != nil {
			return nil, err
		}
		saved = append(saved, h)
	}
	return saved, tx.Commit()
}

type execQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Store) saveHoliday(ctx context.Context, db execQuerier, h calendar.Holiday) (calendar.Holiday, error) {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	h.Date = calendar.Day(h.Date)

	query := `
		INSERT INTO holidays (id, date, name, recurring, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(date, name) DO UPDATE SET
			recurring = excluded.recurring
	`
	if _, err := db.ExecContext(ctx, query,
		h.ID,
		h.Date.Format(calendar.DateLayout),
		h.Name,
		h.Recurring,
		time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return calendar.Holiday{}, err
	}

	// On conflict the existing row keeps its id.
	err := db.QueryRowContext(ctx,
		"SELECT id FROM holidays WHERE date = ? AND name = ?",
		h.Date.Format(calendar.DateLayout), h.Name,
	).Scan(&h.ID)
	return h, err
}

// DeleteHoliday deletes a holiday by ID.
func (s *Store) DeleteHoliday(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM holidays WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("holiday %s: %w", id, ErrNotFound)
	}
	return nil
}

// ListHolidays returns every stored holiday ordered by date.
func (s *Store) ListHolidays(ctx context.Context) ([]calendar.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, date, name, recurring FROM holidays ORDER BY date ASC, name ASC",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	holidays := []calendar.Holiday{}
	for rows.Next() {
		var h calendar.Holiday
		var dateStr string
		if err := rows.Scan(&h.ID, &dateStr, &h.Name, &h.Recurring); err != nil {
			return nil, err
		}
		if h.Date, err = calendar.ParseDate(dateStr); err != nil {
			return nil, fmt.Errorf("holiday %s: %w", h.ID, err)
		}
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}

// =============================================================================
// UPLOADS
// =============================================================================

// ReplaceEmployees swaps the stored roster for employees and returns the batch id.
func (s *Store) ReplaceEmployees(ctx context.Context, employees []roster.Employee) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM employees"); err != nil {
		return "", err
	}

	batch := uuid.NewString()
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO employees (position, batch_id, serial, code, name, father_name, address,
			designation, department, cnic, joined_on, left_on, joining_salary, latest_salary)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return "", err
	}
	defer stmt.Close()

	for i, e := range employees {
		var leftOn any
		if e.LeftOn != nil {
			leftOn = e.LeftOn.Format(calendar.DateLayout)
		}
		if _, err := stmt.ExecContext(ctx,
			i, batch, e.Serial, e.Code, e.Name, e.FatherName, e.Address,
			e.Designation, e.Department, e.CNIC,
			e.JoinedOn.Format(calendar.DateLayout), leftOn,
			e.JoiningSalary.String(), e.LatestSalary.String(),
		); err != nil {
			return "", fmt.Errorf("employee %s: %w", e.Code, err)
		}
	}
	return batch, tx.Commit()
}

// ListEmployees returns the stored roster in upload order.
func (s *Store) ListEmployees(ctx context.Context) ([]roster.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT serial, code, name, father_name, address, designation, department, cnic,
			joined_on, left_on, joining_salary, latest_salary
		FROM employees ORDER BY position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees := []roster.Employee{}
	for rows.Next() {
		var e roster.Employee
		var joinedOn, joining, latest string
		var leftOn sql.NullString
		if err := rows.Scan(&e.Serial, &e.Code, &e.Name, &e.FatherName, &e.Address,
			&e.Designation, &e.Department, &e.CNIC, &joinedOn, &leftOn, &joining, &latest); err != nil {
			return nil, err
		}
		if e.JoinedOn, err = calendar.ParseDate(joinedOn); err != nil {
			return nil, fmt.Errorf("employee %s: %w", e.Code, err)
		}
		if leftOn.Valid {
			t, err := calendar.ParseDate(leftOn.String)
			if err != nil {
				return nil, fmt.Errorf("employee %s: %w", e.Code, err)
			}
			e.LeftOn = &t
		}
		e.JoiningSalary, _ = decimal.NewFromString(joining)
		e.LatestSalary, _ = decimal.NewFromString(latest)
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

// ReplaceOffDays swaps the stored leave records for offDays and returns the batch id.
func (s *Store) ReplaceOffDays(ctx context.Context, offDays []roster.OffDay) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM off_days"); err != nil {
		return "", err
	}

	batch := uuid.NewString()
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO off_days (position, batch_id, code, name, leave_type, date)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return "", err
	}
	defer stmt.Close()

	for i, o := range offDays {
		if _, err := stmt.ExecContext(ctx,
			i, batch, o.Code, o.Name, string(o.Type), o.Date.Format(calendar.DateLayout),
		); err != nil {
			return "", fmt.Errorf("off day %s %s: %w", o.Code, o.Date.Format(calendar.DateLayout), err)
		}
	}
	return batch, tx.Commit()
}

// ListOffDays returns the stored leave records in upload order.
func (s *Store) ListOffDays(ctx context.Context) ([]roster.OffDay, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT code, name, leave_type, date FROM off_days ORDER BY position",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	offDays := []roster.OffDay{}
	for rows.Next() {
		var o roster.OffDay
		var leaveType, date string
		if err := rows.Scan(&o.Code, &o.Name, &leaveType, &date); err != nil {
			return nil, err
		}
		o.Type = roster.LeaveType(leaveType)
		if o.Date, err = calendar.ParseDate(date); err != nil {
			return nil, fmt.Errorf("off day %s: %w", o.Code, err)
		}
		offDays = append(offDays, o)
	}
	return offDays, rows.Err()
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"settings", "holidays", "employees", "off_days"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}
