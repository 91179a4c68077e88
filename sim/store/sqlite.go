package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite" // pure Go SQLite driver

	"github.com/parksim/parksim/sim"
	"github.com/parksim/parksim/sim/road"
)

// ErrNotFound is returned when a save slot does not exist.
var ErrNotFound = errors.New("save not found")

// SaveInfo describes one save slot without its payload.
type SaveInfo struct {
	ID      string
	Label   string
	Clock   int64
	Money   int
	SavedAt time.Time
}

// EventRecord is one logged park notification.
type EventRecord struct {
	ID        string
	RunID     string
	Clock     int64
	Kind      string // "broke", "repaired" or "gameover"
	At        road.Tile
	Timestamp time.Time
}

// SQLiteStore keeps park snapshots in a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at dbPath and ensures the schema.
// Use ":memory:" for a throwaway store.
func OpenSQLite(dbPath string) (*SQLiteStore, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// A single connection keeps ":memory:" databases alive across calls.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}
	if err := createSchemas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schemas: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func createSchemas(db *sql.DB) error {
	schemas := []string{
		`CREATE TABLE IF NOT EXISTS saves (
			save_id TEXT PRIMARY KEY,
			label TEXT NOT NULL DEFAULT '',
			clock INTEGER NOT NULL,
			money INTEGER NOT NULL,
			snapshot TEXT NOT NULL,
			saved_at DATETIME NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS park_events (
			id TEXT PRIMARY KEY,
			run_id TEXT NOT NULL,
			clock INTEGER NOT NULL,
			kind TEXT NOT NULL,
			x INTEGER NOT NULL,
			y INTEGER NOT NULL,
			recorded_at DATETIME NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_park_events_run_id ON park_events(run_id);`,
	}
	for _, query := range schemas {
		if _, err := db.Exec(query); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Save stores snap in a new slot and returns the slot ID.
func (s *SQLiteStore) Save(ctx context.Context, label string, snap *sim.Snapshot) (string, error) {
	payload, err := json.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	id := uuid.NewString()
	query := `INSERT INTO saves (save_id, label, clock, money, snapshot, saved_at) VALUES (?, ?, ?, ?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, query, id, label, snap.Clock, snap.Money, string(payload), time.Now().UTC()); err != nil {
		return "", fmt.Errorf("failed to insert save: %w", err)
	}
	logrus.Infof("Saved park at tick %d as %s (%q)", snap.Clock, id, label)
	return id, nil
}

// Load returns the snapshot stored under id.
func (s *SQLiteStore) Load(ctx context.Context, id string) (*sim.Snapshot, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT snapshot FROM saves WHERE save_id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("loading %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query save %s: %w", id, err)
	}
	var snap sim.Snapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal save %s: %w", id, err)
	}
	return &snap, nil
}

// List returns every save slot, newest first.
func (s *SQLiteStore) List(ctx context.Context) ([]SaveInfo, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT save_id, label, clock, money, saved_at FROM saves ORDER BY saved_at DESC, rowid DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SaveInfo
	for rows.Next() {
		var info SaveInfo
		if err := rows.Scan(&info.ID, &info.Label, &info.Clock, &info.Money, &info.SavedAt); err != nil {
			return nil, err
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

// Delete removes a save slot.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM saves WHERE save_id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("deleting %s: %w", id, ErrNotFound)
	}
	return nil
}

// AppendEvent logs one park notification.
func (s *SQLiteStore) AppendEvent(ctx context.Context, ev EventRecord) error {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}
	query := `INSERT INTO park_events (id, run_id, clock, kind, x, y, recorded_at) VALUES (?, ?, ?, ?, ?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, query, ev.ID, ev.RunID, ev.Clock, ev.Kind, ev.At.X, ev.At.Y, ev.Timestamp); err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}
	return nil
}

// Events returns the notifications logged for a run, in tick order.
func (s *SQLiteStore) Events(ctx context.Context, runID string) ([]EventRecord, error) {
	query := `SELECT id, run_id, clock, kind, x, y, recorded_at FROM park_events WHERE run_id = ? ORDER BY clock ASC, rowid ASC`
	rows, err := s.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EventRecord
	for rows.Next() {
		var ev EventRecord
		if err := rows.Scan(&ev.ID, &ev.RunID, &ev.Clock, &ev.Kind, &ev.At.X, &ev.At.Y, &ev.Timestamp); err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}
