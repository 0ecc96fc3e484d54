package audit

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// SQLiteLog appends events to an append-only SQLite table. The single
// connection serializes appends; WAL mode keeps replay reads concurrent
// with writes.
type SQLiteLog struct {
	db *sql.DB
}

// OpenSQLite creates or opens the audit database at path.
func OpenSQLite(path string) (*SQLiteLog, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open audit database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect audit database: %w", err)
	}

	// SQLite supports one writer at a time; a single connection avoids
	// SQLITE_BUSY churn.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", p, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply audit schema: %w", err)
	}

	return &SQLiteLog{db: db}, nil
}

// Append inserts e. Re-appending an event with a known content-addressed
// id is a silent no-op, which makes replayed appends idempotent.
func (l *SQLiteLog) Append(e Event) error {
	payload, err := json.Marshal(e.Payload)
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}

	_, err = l.db.Exec(`
		INSERT INTO audit_events (id, run, ts, cycle, phase, payload)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, e.ID, e.Run, e.Timestamp.UTC().Format(time.RFC3339Nano), e.Cycle, string(e.Phase), string(payload))
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

// Replay returns the full event history in append order.
func (l *SQLiteLog) Replay() ([]Event, error) {
	rows, err := l.db.Query(`
		SELECT id, run, ts, cycle, phase, payload
		FROM audit_events
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("replay audit events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var (
			e       Event
			ts      string
			phase   string
			payload string
		)
		if err := rows.Scan(&e.ID, &e.Run, &ts, &e.Cycle, &phase, &payload); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		e.Timestamp, err = time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("parse audit timestamp %q: %w", ts, err)
		}
		e.Phase = Phase(phase)
		if err := json.Unmarshal([]byte(payload), &e.Payload); err != nil {
			return nil, fmt.Errorf("parse audit payload: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Close releases the database connection.
func (l *SQLiteLog) Close() error {
	if l.db == nil {
		return nil
	}
	return l.db.Close()
}
