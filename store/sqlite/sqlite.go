/*
Package sqlite provides a SQLite-backed CalendarStore.

PURPOSE:
  Embedded/dev persistence for calendar documents. Each calendar is one row;
  the payout configuration and the period-key record map are stored as JSON
  columns, mirroring the document shape the Mongo store persists natively.

CONCURRENCY:
  Uses sync.RWMutex around read-modify-write of the JSON columns. SQLite is
  opened with WAL for better crash recovery.

MIGRATION:
  Schema is auto-migrated on New(). Use ":memory:" for an in-memory database.

SEE ALSO:
  - payout/store.go: interface definition
  - store/memory:    in-memory implementation for tests
  - store/mongo:     production document store
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/payout-engine/payout"
)

// Store implements payout.CalendarStore using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
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

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS calendars (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL DEFAULT '',
		name TEXT NOT NULL DEFAULT '',
		payout_details TEXT,
		payout_records TEXT NOT NULL DEFAULT '{}',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_calendars_owner ON calendars(owner_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) GetCalendarByID(ctx context.Context, id string) (*payout.Calendar, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getLocked(ctx, id)
}

func (s *Store) getLocked(ctx context.Context, id string) (*payout.Calendar, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, owner_id, name, payout_details, payout_records FROM calendars WHERE id = ?`, id)
	cal, err := scanCalendar(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return cal, err
}

func (s *Store) ListCalendarsByOwner(ctx context.Context, ownerID string) ([]*payout.Calendar, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, owner_id, name, payout_details, payout_records FROM calendars WHERE owner_id = ? ORDER BY id`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*payout.Calendar
	for rows.Next() {
		cal, err := scanCalendar(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, cal)
	}
	return result, rows.Err()
}

func (s *Store) CreateCalendar(ctx context.Context, cal *payout.Calendar) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	details, records, err := marshalDoc(cal)
	if err != nil {
		return err
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO calendars (id, owner_id, name, payout_details, payout_records, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		cal.ID, cal.OwnerID, cal.Name, details, records, now, now)
	if err != nil && isUniqueViolation(err) {
		return payout.ErrCalendarExists
	}
	return err
}

func (s *Store) UpdatePayoutDetails(ctx context.Context, calendarID string, details payout.PayoutDetails) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(details)
	if err != nil {
		return err
	}
	return s.execOnCalendar(ctx, calendarID,
		`UPDATE calendars SET payout_details = ?, updated_at = ? WHERE id = ?`,
		string(raw), time.Now().UTC().Format(time.RFC3339), calendarID)
}

func (s *Store) UpdatePayoutDetailsAndRecord(ctx context.Context, calendarID, periodKey string, details *payout.PayoutDetails, patch payout.RecordPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cal, err := s.getLocked(ctx, calendarID)
	if err != nil {
		return err
	}
	if cal == nil {
		return payout.ErrNoSuchCalendar
	}

	if details != nil {
		d := *details
		cal.PayoutDetails = &d
	}
	if cal.PayoutRecords == nil {
		cal.PayoutRecords = make(map[string]payout.PayoutRecord)
	}
	cal.PayoutRecords[periodKey] = patch.Apply(cal.PayoutRecords[periodKey])

	return s.writeDocLocked(ctx, cal)
}

func (s *Store) UpdatePayoutRecord(ctx context.Context, calendarID, periodKey string, patch payout.RecordPatch) error {
	return s.UpdatePayoutDetailsAndRecord(ctx, calendarID, periodKey, nil, patch)
}

func (s *Store) ReplacePayoutRecords(ctx context.Context, calendarID string, records map[string]payout.PayoutRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(records)
	if err != nil {
		return err
	}
	return s.execOnCalendar(ctx, calendarID,
		`UPDATE calendars SET payout_records = ?, updated_at = ? WHERE id = ?`,
		string(raw), time.Now().UTC().Format(time.RFC3339), calendarID)
}

func (s *Store) writeDocLocked(ctx context.Context, cal *payout.Calendar) error {
	details, records, err := marshalDoc(cal)
	if err != nil {
		return err
	}
	return s.execOnCalendar(ctx, cal.ID,
		`UPDATE calendars SET payout_details = ?, payout_records = ?, updated_at = ? WHERE id = ?`,
		details, records, time.Now().UTC().Format(time.RFC3339), cal.ID)
}

// execOnCalendar runs an UPDATE and maps "no rows touched" to ErrNoSuchCalendar.
func (s *Store) execOnCalendar(ctx context.Context, _ string, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return payout.ErrNoSuchCalendar
	}
	return nil
}

// =============================================================================
// ROW <-> DOCUMENT
// =============================================================================

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCalendar(row rowScanner) (*payout.Calendar, error) {
	var (
		cal        payout.Calendar
		rawDetails sql.NullString
		rawRecords string
	)
	if err := row.Scan(&cal.ID, &cal.OwnerID, &cal.Name, &rawDetails, &rawRecords); err != nil {
		return nil, err
	}
	if rawDetails.Valid && rawDetails.String != "" {
		var details payout.PayoutDetails
		if err := json.Unmarshal([]byte(rawDetails.String), &details); err != nil {
			return nil, fmt.Errorf("calendar %s: corrupt payout_details: %w", cal.ID, err)
		}
		cal.PayoutDetails = &details
	}
	if rawRecords != "" {
		if err := json.Unmarshal([]byte(rawRecords), &cal.PayoutRecords); err != nil {
			return nil, fmt.Errorf("calendar %s: corrupt payout_records: %w", cal.ID, err)
		}
	}
	return &cal, nil
}

func marshalDoc(cal *payout.Calendar) (details, records string, err error) {
	details = ""
	if cal.PayoutDetails != nil {
		raw, err := json.Marshal(cal.PayoutDetails)
		if err != nil {
			return "", "", err
		}
		details = string(raw)
	}
	recs := cal.PayoutRecords
	if recs == nil {
		recs = map[string]payout.PayoutRecord{}
	}
	raw, err := json.Marshal(recs)
	if err != nil {
		return "", "", err
	}
	return details, string(raw), nil
}

func isUniqueViolation(err error) bool {
	// go-sqlite3 reports constraint failures in the error text.
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
