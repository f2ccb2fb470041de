// Package store persists decision-cycle history and error events in a
// local SQLite database. The control loop is the only writer; the HTTP
// history endpoint reads recent rows.
package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const driverName = "sqlite"

// Timestamps are stored as RFC3339 text so rows stay readable with the
// sqlite3 shell.
const timeLayout = time.RFC3339

// Cycle is one persisted decision-cycle row. Low and High are the active
// limits; nil when the stage is disabled or not yet computed.
type Cycle struct {
	ID       string
	At       time.Time
	Temp     float64
	Decision float64
	Low      *float64
	High     *float64
	Unit     string
	HeatOn   bool
	CoolOn   bool
}

// Event is one persisted error-event row.
type Event struct {
	ID      string
	At      time.Time
	Kind    string
	Message string
}

// Store wraps the SQLite handle.
type Store struct {
	db *sql.DB
}

// Open opens/creates the database at path and ensures the schema exists.
// Use ":memory:" for tests.
func Open(path string) (*Store, error) {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %q: %w", path, err)
	}

	// One connection: SQLite is not great with many writers, and a single
	// conn keeps :memory: databases alive across queries.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA busy_timeout = 5000;",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &Store{db: db}, nil
}

const schemaCycles = `
CREATE TABLE IF NOT EXISTS cycles (
    id TEXT PRIMARY KEY,
    at TEXT NOT NULL,
    temp REAL NOT NULL,
    decision REAL NOT NULL,
    low REAL,
    high REAL,
    unit TEXT NOT NULL,
    heat_on BOOLEAN NOT NULL,
    cool_on BOOLEAN NOT NULL
);
`

const schemaEvents = `
CREATE TABLE IF NOT EXISTS events (
    id TEXT PRIMARY KEY,
    at TEXT NOT NULL,
    kind TEXT NOT NULL,
    message TEXT NOT NULL
);
`

func ensureSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for i, stmt := range []string{schemaCycles, schemaEvents} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema transaction: %w", err)
	}
	return nil
}

// AppendCycle inserts one decision-cycle row. Empty ID and zero At are
// filled in.
func (s *Store) AppendCycle(c Cycle) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.At.IsZero() {
		c.At = time.Now().UTC()
	}

	var low, high sql.NullFloat64
	if c.Low != nil {
		low = sql.NullFloat64{Float64: *c.Low, Valid: true}
	}
	if c.High != nil {
		high = sql.NullFloat64{Float64: *c.High, Valid: true}
	}

	_, err := s.db.Exec(`
		INSERT INTO cycles (id, at, temp, decision, low, high, unit, heat_on, cool_on)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, c.ID, c.At.UTC().Format(timeLayout), c.Temp, c.Decision, low, high, c.Unit, c.HeatOn, c.CoolOn)
	if err != nil {
		return fmt.Errorf("insert cycle: %w", err)
	}
	return nil
}

// AppendEvent inserts one error-event row.
func (s *Store) AppendEvent(kind, message string) error {
	_, err := s.db.Exec(`
		INSERT INTO events (id, at, kind, message)
		VALUES (?, ?, ?, ?)
	`, uuid.NewString(), time.Now().UTC().Format(timeLayout), kind, message)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// RecentCycles returns up to n cycle rows, newest first.
func (s *Store) RecentCycles(n int) ([]Cycle, error) {
	rows, err := s.db.Query(`
		SELECT id, at, temp, decision, low, high, unit, heat_on, cool_on
		FROM cycles ORDER BY at DESC LIMIT ?
	`, n)
	if err != nil {
		return nil, fmt.Errorf("query cycles: %w", err)
	}
	defer rows.Close()

	var out []Cycle
	for rows.Next() {
		var (
			c         Cycle
			at        string
			low, high sql.NullFloat64
		)
		if err := rows.Scan(&c.ID, &at, &c.Temp, &c.Decision, &low, &high, &c.Unit, &c.HeatOn, &c.CoolOn); err != nil {
			return nil, fmt.Errorf("scan cycle: %w", err)
		}
		if c.At, err = time.Parse(timeLayout, at); err != nil {
			return nil, fmt.Errorf("cycle %s timestamp: %w", c.ID, err)
		}
		if low.Valid {
			v := low.Float64
			c.Low = &v
		}
		if high.Valid {
			v := high.Float64
			c.High = &v
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// RecentEvents returns up to n event rows, newest first.
func (s *Store) RecentEvents(n int) ([]Event, error) {
	rows, err := s.db.Query(`
		SELECT id, at, kind, message
		FROM events ORDER BY at DESC LIMIT ?
	`, n)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var (
			e  Event
			at string
		)
		if err := rows.Scan(&e.ID, &at, &e.Kind, &e.Message); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		if e.At, err = time.Parse(timeLayout, at); err != nil {
			return nil, fmt.Errorf("event %s timestamp: %w", e.ID, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
