/*
Package sqlite persists the payroll engine's mutable data in SQLite.

PURPOSE:
  The calculators are pure; two things around them change at runtime and
  live here: the public holiday calendar (editable through the API) and
  saved calculation records.

HOLIDAYS:
  The store holds the editable holiday list; it is not a calendar itself.
  Callers take a snapshot with ListHolidays and build an in-memory
  calendar (rates.NewCalendar), so a query failure surfaces as an error
  instead of a missing holiday.

KEY TABLES:
  holidays:            One row per public holiday date
  holiday_seeds:       Years whose statutory holidays were already seeded
  calculation_records: Saved forward/reverse results as JSON payloads

CONCURRENCY:
  Uses sync.RWMutex for thread-safety on top of SQLite's own locking.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging):
  - Multiple readers don't block
  - Single writer at a time

USAGE:
  store, err := sqlite.New("./data/payroll.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  if err := store.SeedHolidays(ctx, rates.Default().Latest().Holidays); err != nil { ... }
  hs, err := store.ListHolidays(ctx, 0)
  calc := calculator.NewSalaryCalculator(table, rates.NewCalendar(hs))

MIGRATION:
  Schema is auto-migrated on New().

SEE ALSO:
  - payroll/calendar.go: HolidayCalendar interface
  - rates/statutory.yaml: Seed holiday list
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/payroll-engine/payroll"
)

const (
	dateLayout = "2006-01-02"
	// Fixed width so created_at sorts as text.
	timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

// ErrNotFound is returned when a delete targets a missing row.
var ErrNotFound = errors.New("not found")

// Store holds holidays and calculation records in SQLite.
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
	// Every connection to ":memory:" is a separate database.
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

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS holidays (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		all_sizes BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS holiday_seeds (
		year INTEGER PRIMARY KEY,
		seeded_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS calculation_records (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		employee_name TEXT NOT NULL,
		month TEXT NOT NULL,
		net_pay INTEGER NOT NULL,
		total_gross INTEGER NOT NULL,
		payload_json TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_records_created
		ON calculation_records(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_records_month
		ON calculation_records(month);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// HOLIDAYS
// =============================================================================

// SaveHoliday inserts a holiday, or updates the one already on that date.
// An empty ID gets a new UUID.
func (s *Store) SaveHoliday(ctx context.Context, h payroll.Holiday) (payroll.Holiday, error) {
	if h.Date.IsZero() {
		return payroll.Holiday{}, &payroll.ValidationError{Field: "date", Reason: "is required"}
	}
	if strings.TrimSpace(h.Name) == "" {
		return payroll.Holiday{}, &payroll.ValidationError{Field: "name", Reason: "is required"}
	}
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	h.Date = payroll.DateOf(h.Date)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := upsertHoliday(ctx, s.db, h); err != nil {
		return payroll.Holiday{}, err
	}
	// The row keeps its original ID when the date already existed.
	err := s.db.QueryRowContext(ctx, "SELECT id FROM holidays WHERE date = ?", h.Date.Format(dateLayout)).Scan(&h.ID)
	return h, err
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func upsertHoliday(ctx context.Context, db execer, h payroll.Holiday) error {
	query := `
		INSERT INTO holidays (id, date, name, all_sizes, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			name = excluded.name,
			all_sizes = excluded.all_sizes
	`
	_, err := db.ExecContext(ctx, query,
		h.ID,
		h.Date.Format(dateLayout),
		h.Name,
		h.AllCompanySizes,
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// SeedHolidays adds the statutory holidays of every year that has not been
// seeded before, in one transaction. A seeded year is never seeded again, so
// holidays edited or deleted through the API stay that way across restarts.
func (s *Store) SeedHolidays(ctx context.Context, holidays []payroll.Holiday) error {
	byYear := make(map[int][]payroll.Holiday)
	for _, h := range holidays {
		y := h.Date.Year()
		byYear[y] = append(byYear[y], h)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO holidays (id, date, name, all_sizes, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(date) DO NOTHING
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for year, hs := range byYear {
		res, err := tx.ExecContext(ctx,
			"INSERT INTO holiday_seeds (year, seeded_at) VALUES (?, ?) ON CONFLICT(year) DO NOTHING",
			year, now)
		if err != nil {
			return fmt.Errorf("mark %d seeded: %w", year, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			continue
		}
		for _, h := range hs {
			id := h.ID
			if id == "" {
				id = uuid.NewString()
			}
			if _, err := stmt.ExecContext(ctx, id, payroll.DateOf(h.Date).Format(dateLayout), h.Name, h.AllCompanySizes, now); err != nil {
				return fmt.Errorf("seed holiday %s: %w", h.Date.Format(dateLayout), err)
			}
		}
	}
	return tx.Commit()
}

// DeleteHoliday deletes a holiday by ID.
func (s *Store) DeleteHoliday(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM holidays WHERE id = ?", id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// ListHolidays returns the holidays of year ordered by date; year 0 lists all.
func (s *Store) ListHolidays(ctx context.Context, year int) ([]payroll.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := "SELECT id, date, name, all_sizes FROM holidays"
	var args []any
	if year != 0 {
		query += " WHERE strftime('%Y', date) = ?"
		args = append(args, fmt.Sprintf("%04d", year))
	}
	query += " ORDER BY date ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holidays []payroll.Holiday
	for rows.Next() {
		var h payroll.Holiday
		var dateStr string
		if err := rows.Scan(&h.ID, &dateStr, &h.Name, &h.AllCompanySizes); err != nil {
			return nil, err
		}
		if h.Date, err = time.Parse(dateLayout, dateStr); err != nil {
			return nil, fmt.Errorf("holiday %s: %w", h.ID, err)
		}
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}

// =============================================================================
// CALCULATION RECORDS
// =============================================================================

// Record kinds.
const (
	KindForward = "forward"
	KindReverse = "reverse"
)

// CalculationRecord is a saved calculation. Payload is the JSON response
// body returned to the caller when it was computed.
type CalculationRecord struct {
	ID           string
	Kind         string
	EmployeeName string
	Month        string
	NetPay       int64
	TotalGross   int64
	Payload      []byte
	CreatedAt    time.Time
}

// SaveRecord stores r, assigning an ID and creation time when missing.
func (s *Store) SaveRecord(ctx context.Context, r CalculationRecord) (CalculationRecord, error) {
	if r.Kind != KindForward && r.Kind != KindReverse {
		return CalculationRecord{}, &payroll.ValidationError{Field: "kind", Reason: fmt.Sprintf("unknown value %q", r.Kind)}
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO calculation_records (id, kind, employee_name, month, net_pay, total_gross, payload_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		r.ID, r.Kind, r.EmployeeName, r.Month, r.NetPay, r.TotalGross,
		string(r.Payload), r.CreatedAt.UTC().Format(timestampLayout),
	)
	if isUniqueConstraintError(err) {
		return CalculationRecord{}, &payroll.ValidationError{Field: "id", Reason: "already exists"}
	}
	if err != nil {
		return CalculationRecord{}, err
	}
	return r, nil
}

// GetRecord retrieves a record by ID; a missing record returns nil, nil.
func (s *Store) GetRecord(ctx context.Context, id string) (*CalculationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, kind, employee_name, month, net_pay, total_gross, payload_json, created_at
		FROM calculation_records WHERE id = ?
	`, id)
	r, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ListRecords returns the newest records first, without payloads. A limit of
// zero or less means no limit.
func (s *Store) ListRecords(ctx context.Context, limit int) ([]CalculationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, kind, employee_name, month, net_pay, total_gross, '', created_at
		FROM calculation_records
		ORDER BY created_at DESC, id
	`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []CalculationRecord
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// DeleteRecord removes a record by ID.
func (s *Store) DeleteRecord(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM calculation_records WHERE id = ?", id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// PruneRecords deletes records created before cutoff and reports how many
// were removed.
func (s *Store) PruneRecords(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		"DELETE FROM calculation_records WHERE created_at < ?",
		cutoff.UTC().Format(timestampLayout),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (CalculationRecord, error) {
	var r CalculationRecord
	var payload, createdAt string
	if err := row.Scan(&r.ID, &r.Kind, &r.EmployeeName, &r.Month, &r.NetPay, &r.TotalGross, &payload, &createdAt); err != nil {
		return CalculationRecord{}, err
	}
	if payload != "" {
		r.Payload = []byte(payload)
	}
	r.CreatedAt, _ = time.Parse(timestampLayout, createdAt)
	return r, nil
}

// Helper functions

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
