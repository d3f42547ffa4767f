/*
Package sqlite provides the SQLite-backed store for the time tracker.

PURPOSE:
  One store implements every persistence interface the system needs:
  tracker.RecordStore for the service layer, plus the booking engine's
  IntervalStore and ProjectLookup collaborators. In production the same
  patterns apply to PostgreSQL - only minor SQL dialect differences.

INTERFACES IMPLEMENTED:
  tracker.RecordStore:   time record CRUD + search
  booking.IntervalStore: neighbour fetch for the overlap guard
  booking.ProjectLookup: canonical project state for the availability guard

KEY TABLES:
  employees:    employee records
  projects:     project state including the lock flag and date range
  time_records: the booked intervals

TIME STORAGE:
  All timestamps are normalized to UTC and stored as RFC3339 strings,
  so lexicographic comparison in SQL matches chronological order. The
  original timezone is not preserved; records compare by instant.

INDEXES:
  idx_time_records_pair_start: the overlap guard's window fetch
  (project, owner, start_time) is the hot path.

WAL MODE:
  SQLite is opened with WAL for better concurrency: readers don't block
  and a single writer at a time is enough for this workload.

USAGE:
  store, err := sqlite.New("./data/tracker.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  service := tracker.NewTimeRecordService(store, store)

SEE ALSO:
  - tracker/service.go: the service consuming this store
  - booking/store/memory.go: in-memory counterpart for engine tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/tempo/timetracker/booking"
	"github.com/tempo/timetracker/tracker"
)

// Store implements all storage interfaces using SQLite.
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
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS projects (
		id TEXT PRIMARY KEY,
		owner TEXT NOT NULL,
		locked INTEGER NOT NULL DEFAULT 0,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS time_records (
		id TEXT PRIMARY KEY,
		owner TEXT NOT NULL,
		project_id TEXT NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		pause_minutes INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Hot path: the overlap guard fetches a (project, owner) pair's
	-- records in a window around the candidate's start.
	CREATE INDEX IF NOT EXISTS idx_time_records_pair_start
		ON time_records(project_id, owner, start_time);

	CREATE INDEX IF NOT EXISTS idx_time_records_owner
		ON time_records(owner, start_time);

	CREATE INDEX IF NOT EXISTS idx_time_records_status
		ON time_records(status);
	`

	_, err := s.db.Exec(schema)
	return err
}

func fmtTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

// =============================================================================
// TIME RECORDS (tracker.RecordStore interface)
// =============================================================================

// InsertRecord persists a new time record.
func (s *Store) InsertRecord(ctx context.Context, rec booking.TimeRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO time_records
		(id, owner, project_id, start_time, end_time, pause_minutes, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	now := fmtTime(time.Now())
	_, err := s.db.ExecContext(ctx, query,
		rec.ID, rec.Owner, rec.Project,
		fmtTime(rec.StartTime), fmtTime(rec.EndTime),
		rec.PauseMinutes, rec.Status, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert time record: %w", err)
	}
	return nil
}

// UpdateRecord replaces the stored values of an existing record.
func (s *Store) UpdateRecord(ctx context.Context, rec booking.TimeRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		UPDATE time_records
		SET owner = ?, project_id = ?, start_time = ?, end_time = ?,
		    pause_minutes = ?, status = ?, updated_at = ?
		WHERE id = ?
	`

	res, err := s.db.ExecContext(ctx, query,
		rec.Owner, rec.Project,
		fmtTime(rec.StartTime), fmtTime(rec.EndTime),
		rec.PauseMinutes, rec.Status, fmtTime(time.Now()),
		rec.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update time record: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("time record %s: no row updated", rec.ID)
	}
	return nil
}

// DeleteRecord removes a record by id.
func (s *Store) DeleteRecord(ctx context.Context, id booking.RecordID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM time_records WHERE id = ?", id)
	return err
}

// RecordByID returns a record or (nil, nil) when it does not exist.
func (s *Store) RecordByID(ctx context.Context, id booking.RecordID) (*booking.TimeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := recordSelect + " WHERE id = ?"
	records, err := s.queryRecords(ctx, query, id)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}

// FindRecords returns records matching the search pattern, ordered by
// start time.
func (s *Store) FindRecords(ctx context.Context, search tracker.RecordSearch) ([]booking.TimeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var where []string
	var args []any
	if search.HasEmployee() {
		where = append(where, "owner = ?")
		args = append(args, search.Employee)
	}
	if search.HasProject() {
		where = append(where, "project_id = ?")
		args = append(args, search.Project)
	}
	if search.HasFrom() {
		where = append(where, "start_time >= ?")
		args = append(args, fmtTime(search.From))
	}
	if search.HasThrough() {
		where = append(where, "end_time <= ?")
		args = append(args, fmtTime(search.Through))
	}

	query := recordSelect
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY start_time ASC"

	return s.queryRecords(ctx, query, args...)
}

// FindOverlapping implements booking.IntervalStore: records for the
// pair whose interval intersects [from, to].
func (s *Store) FindOverlapping(ctx context.Context, project booking.ProjectID, employee booking.EmployeeID, from, to time.Time) ([]booking.TimeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := recordSelect + `
	 WHERE project_id = ? AND owner = ?
	   AND start_time <= ? AND end_time >= ?
	 ORDER BY start_time ASC`

	return s.queryRecords(ctx, query, project, employee, fmtTime(to), fmtTime(from))
}

const recordSelect = `
	SELECT id, owner, project_id, start_time, end_time, pause_minutes, status
	FROM time_records`

func (s *Store) queryRecords(ctx context.Context, query string, args ...any) ([]booking.TimeRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query time records: %w", err)
	}
	defer rows.Close()

	var records []booking.TimeRecord
	for rows.Next() {
		var rec booking.TimeRecord
		var start, end string
		if err := rows.Scan(&rec.ID, &rec.Owner, &rec.Project, &start, &end, &rec.PauseMinutes, &rec.Status); err != nil {
			return nil, fmt.Errorf("failed to scan time record: %w", err)
		}
		rec.StartTime = parseTime(start)
		rec.EndTime = parseTime(end)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// =============================================================================
// PROJECTS (booking.ProjectLookup interface + CRUD)
// =============================================================================

// SaveProject inserts or replaces a project.
func (s *Store) SaveProject(ctx context.Context, p booking.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO projects (id, owner, locked, start_date, end_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			owner = excluded.owner,
			locked = excluded.locked,
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			updated_at = excluded.updated_at
	`

	now := fmtTime(time.Now())
	_, err := s.db.ExecContext(ctx, query,
		p.ID, p.Owner, p.Locked,
		fmtTime(p.StartDate), fmtTime(p.EndDate),
		now, now,
	)
	return err
}

// ProjectByID implements booking.ProjectLookup. Returns (nil, nil) when
// the project does not exist.
func (s *Store) ProjectByID(ctx context.Context, id booking.ProjectID) (*booking.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var p booking.Project
	var start, end string
	err := s.db.QueryRowContext(ctx,
		"SELECT id, owner, locked, start_date, end_date FROM projects WHERE id = ?",
		id,
	).Scan(&p.ID, &p.Owner, &p.Locked, &start, &end)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	p.StartDate = parseTime(start)
	p.EndDate = parseTime(end)
	return &p, nil
}

// ListProjects returns all projects ordered by id.
func (s *Store) ListProjects(ctx context.Context) ([]booking.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, owner, locked, start_date, end_date FROM projects ORDER BY id",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []booking.Project
	for rows.Next() {
		var p booking.Project
		var start, end string
		if err := rows.Scan(&p.ID, &p.Owner, &p.Locked, &start, &end); err != nil {
			return nil, err
		}
		p.StartDate = parseTime(start)
		p.EndDate = parseTime(end)
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// DeleteProject removes a project.
func (s *Store) DeleteProject(ctx context.Context, id booking.ProjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id)
	return err
}

// =============================================================================
// EMPLOYEES
// =============================================================================

// Employee represents an employee record.
type Employee struct {
	ID        booking.EmployeeID
	Name      string
	Email     string
	CreatedAt time.Time
}

// SaveEmployee inserts or replaces an employee.
func (s *Store) SaveEmployee(ctx context.Context, emp Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO employees (id, name, email, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email
	`

	_, err := s.db.ExecContext(ctx, query,
		emp.ID, emp.Name, emp.Email, fmtTime(time.Now()),
	)
	return err
}

// GetEmployee returns an employee or (nil, nil) when absent.
func (s *Store) GetEmployee(ctx context.Context, id booking.EmployeeID) (*Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var emp Employee
	var createdAt string
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, email, created_at FROM employees WHERE id = ?",
		id,
	).Scan(&emp.ID, &emp.Name, &emp.Email, &createdAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	emp.CreatedAt = parseTime(createdAt)
	return &emp, nil
}

// ListEmployees returns all employees ordered by name.
func (s *Store) ListEmployees(ctx context.Context) ([]Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, email, created_at FROM employees ORDER BY name",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []Employee
	for rows.Next() {
		var emp Employee
		var createdAt string
		if err := rows.Scan(&emp.ID, &emp.Name, &emp.Email, &createdAt); err != nil {
			return nil, err
		}
		emp.CreatedAt = parseTime(createdAt)
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

// DeleteEmployee removes an employee.
func (s *Store) DeleteEmployee(ctx context.Context, id booking.EmployeeID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM employees WHERE id = ?", id)
	return err
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"time_records", "projects", "employees"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}
