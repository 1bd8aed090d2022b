/*
Package sqlite provides a SQLite-backed implementation of generic.Store.

PURPOSE:
  Persists employee and leave-request documents plus regional bank holidays.
  Documents are stored whole as JSON so every alias the record decoder knows
  survives a round trip; name, code and status are lifted into columns for
  lookup and filtering.

KEY TABLES:
  employees:      Employee documents
  leave_requests: Leave-request documents
  bank_holidays:  One row per region and date

MATCHING:
  name_norm and code_norm hold generic.NormalizeText of the lifted fields so
  ListRequestsFor can match case and whitespace variants with an index.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. ":memory:" databases are pinned to a
  single connection because every SQLite connection gets its own memory
  database.

WAL MODE:
  File databases are opened with WAL (Write-Ahead Logging):
  - Multiple readers don't block
  - Single writer at a time

USAGE:
  store, err := sqlite.New("./data/leave.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - generic/store.go: Interface definitions
  - generic/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/leave-engine/generic"
)

// timeLayout is fixed-width so timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store implements generic.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ generic.Store = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	memory := dbPath == ":memory:"
	dsn := dbPath + "?_foreign_keys=on&_journal_mode=WAL"
	if memory {
		dsn = dbPath + "?_foreign_keys=on"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if memory {
		db.SetMaxOpenConns(1)
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

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		code TEXT NOT NULL DEFAULT '',
		data_json TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_employees_name
		ON employees(name);

	CREATE TABLE IF NOT EXISTS leave_requests (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		code TEXT NOT NULL DEFAULT '',
		name_norm TEXT NOT NULL DEFAULT '',
		code_norm TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT '',
		data_json TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_leave_requests_name
		ON leave_requests(name_norm);
	CREATE INDEX IF NOT EXISTS idx_leave_requests_code
		ON leave_requests(code_norm);
	CREATE INDEX IF NOT EXISTS idx_leave_requests_status
		ON leave_requests(status);

	CREATE TABLE IF NOT EXISTS bank_holidays (
		region TEXT NOT NULL,
		date TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (region, date)
	);

	CREATE INDEX IF NOT EXISTS idx_bank_holidays_date
		ON bank_holidays(date);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// EMPLOYEE STORE
// =============================================================================

// SaveEmployee inserts or replaces an employee document.
func (s *Store) SaveEmployee(ctx context.Context, doc generic.StoredDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := encodeDocument(doc.Data)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO employees (id, name, code, data_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			code = excluded.code,
			data_json = excluded.data_json,
			updated_at = excluded.updated_at
	`

	created, updated := timestamps(doc)
	_, err = s.db.ExecContext(ctx, query, doc.ID, doc.Name, doc.Code, data, created, updated)
	if err != nil {
		return fmt.Errorf("failed to save employee: %w", err)
	}
	return nil
}

// GetEmployee retrieves an employee by ID.
func (s *Store) GetEmployee(ctx context.Context, id string) (*generic.StoredDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, code, '', data_json, created_at, updated_at FROM employees WHERE id = ?",
		id,
	)
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, generic.ErrEmployeeNotFound
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// ListEmployees returns all employees ordered by name.
func (s *Store) ListEmployees(ctx context.Context) ([]generic.StoredDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryDocuments(ctx,
		"SELECT id, name, code, '', data_json, created_at, updated_at FROM employees ORDER BY name, id",
	)
}

// DeleteEmployee removes an employee. Deleting an unknown ID is not an error.
func (s *Store) DeleteEmployee(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM employees WHERE id = ?", id)
	return err
}

// =============================================================================
// REQUEST STORE
// =============================================================================

// SaveRequest inserts or replaces a leave-request document.
func (s *Store) SaveRequest(ctx context.Context, doc generic.StoredDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := encodeDocument(doc.Data)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO leave_requests
			(id, name, code, name_norm, code_norm, status, data_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			code = excluded.code,
			name_norm = excluded.name_norm,
			code_norm = excluded.code_norm,
			status = excluded.status,
			data_json = excluded.data_json,
			updated_at = excluded.updated_at
	`

	created, updated := timestamps(doc)
	_, err = s.db.ExecContext(ctx, query,
		doc.ID, doc.Name, doc.Code,
		generic.NormalizeText(doc.Name), generic.NormalizeText(doc.Code),
		doc.Status, data, created, updated,
	)
	if err != nil {
		return fmt.Errorf("failed to save leave request: %w", err)
	}
	return nil
}

// GetRequest retrieves a leave request by ID.
func (s *Store) GetRequest(ctx context.Context, id string) (*generic.StoredDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, code, status, data_json, created_at, updated_at FROM leave_requests WHERE id = ?",
		id,
	)
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, generic.ErrRequestNotFound
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// ListRequests returns requests in creation order, optionally filtered by status.
func (s *Store) ListRequests(ctx context.Context, status string) ([]generic.StoredDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, name, code, status, data_json, created_at, updated_at
		FROM leave_requests
		WHERE ? = '' OR status = ?
		ORDER BY created_at, id
	`
	return s.queryDocuments(ctx, query, status, status)
}

// ListRequestsFor returns requests whose owner name or code matches.
func (s *Store) ListRequestsFor(ctx context.Context, name, code string) ([]generic.StoredDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	name, code = generic.NormalizeText(name), generic.NormalizeText(code)
	if name == "" && code == "" {
		return nil, nil
	}

	query := `
		SELECT id, name, code, status, data_json, created_at, updated_at
		FROM leave_requests
		WHERE (? != '' AND name_norm = ?) OR (? != '' AND code_norm = ?)
		ORDER BY created_at, id
	`
	return s.queryDocuments(ctx, query, name, name, code, code)
}

// DeleteRequest removes a leave request. Deleting an unknown ID is not an error.
func (s *Store) DeleteRequest(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM leave_requests WHERE id = ?", id)
	return err
}

// =============================================================================
// HOLIDAY STORE
// =============================================================================

// SaveHolidays upserts holidays atomically.
func (s *Store) SaveHolidays(ctx context.Context, holidays []generic.Holiday) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO bank_holidays (region, date, title, notes)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(region, date) DO UPDATE SET
			title = excluded.title,
			notes = excluded.notes
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, h := range holidays {
		if _, err := stmt.ExecContext(ctx, h.Region, h.Date.String(), h.Title, h.Notes); err != nil {
			return fmt.Errorf("failed to save holiday %s %s: %w", h.Region, h.Date, err)
		}
	}
	return tx.Commit()
}

// ListHolidays returns a region's holidays in date order. Year 0 means all years.
func (s *Store) ListHolidays(ctx context.Context, region string, year int) ([]generic.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := "SELECT region, date, title, notes FROM bank_holidays WHERE region = ?"
	args := []any{region}
	if year != 0 {
		query += " AND date >= ? AND date <= ?"
		args = append(args,
			generic.StartOfYear(year).String(),
			generic.EndOfYear(year).String())
	}
	query += " ORDER BY date"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query holidays: %w", err)
	}
	defer rows.Close()

	var out []generic.Holiday
	for rows.Next() {
		var h generic.Holiday
		var date string
		if err := rows.Scan(&h.Region, &date, &h.Title, &h.Notes); err != nil {
			return nil, err
		}
		t, err := time.Parse(generic.DateLayout, date)
		if err != nil {
			continue
		}
		h.Date = generic.DateOf(t, time.UTC)
		out = append(out, h)
	}
	return out, rows.Err()
}

// DeleteHoliday removes one holiday.
func (s *Store) DeleteHoliday(ctx context.Context, region string, date generic.TimePoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"DELETE FROM bank_holidays WHERE region = ? AND date = ?",
		region, date.String(),
	)
	return err
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"leave_requests", "employees", "bank_holidays"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (generic.StoredDocument, error) {
	var doc generic.StoredDocument
	var data, createdAt, updatedAt string
	if err := row.Scan(&doc.ID, &doc.Name, &doc.Code, &doc.Status, &data, &createdAt, &updatedAt); err != nil {
		return doc, err
	}

	parsed, err := decodeDocument(data)
	if err != nil {
		return doc, fmt.Errorf("document %s: %w", doc.ID, err)
	}
	doc.Data = parsed
	doc.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	doc.UpdatedAt, _ = time.Parse(timeLayout, updatedAt)
	return doc, nil
}

func (s *Store) queryDocuments(ctx context.Context, query string, args ...any) ([]generic.StoredDocument, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	var docs []generic.StoredDocument
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func encodeDocument(doc generic.Document) (string, error) {
	if doc == nil {
		doc = generic.Document{}
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to encode document: %w", err)
	}
	return string(data), nil
}

// decodeDocument keeps numbers as json.Number so integers and epoch
// timestamps come back without float rounding.
func decodeDocument(data string) (generic.Document, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(strings.TrimSpace(data))))
	dec.UseNumber()
	var doc generic.Document
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	if doc == nil {
		doc = generic.Document{}
	}
	return doc, nil
}

func timestamps(doc generic.StoredDocument) (created, updated string) {
	now := time.Now().UTC()
	c := doc.CreatedAt
	if c.IsZero() {
		c = now
	}
	return c.UTC().Format(timeLayout), now.Format(timeLayout)
}
