package eventstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

const (
	// HistoryDir is the per-site directory holding local state.
	HistoryDir = ".venblog"
	// HistoryFile is the database file inside HistoryDir.
	HistoryFile = "history.db"
)

// DefaultPath returns the history database path for a site root.
func DefaultPath(root string) string {
	return filepath.Join(root, HistoryDir, HistoryFile)
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteStore opens (creating if needed) a history database.
// Use ":memory:" for an in-memory database, or a file path for persistent storage.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDatabaseOpenFailed, err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatabaseOpenFailed, err)
	}
	// Every pooled connection to ":memory:" would otherwise see its own database.
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %w", ErrInitializeSchemaFailed, err)
	}

	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS builds (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		build_id TEXT NOT NULL UNIQUE,
		started_at INTEGER NOT NULL,
		duration_ns INTEGER NOT NULL,
		posts INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		stage TEXT,
		error TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_builds_started_at ON builds(started_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Append adds a finished build.
func (s *SQLiteStore) Append(ctx context.Context, rec BuildRecord) error {
	if rec.BuildID == "" {
		return fmt.Errorf("%w: empty build id", ErrAppendFailed)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO builds (build_id, started_at, duration_ns, posts, outcome, stage, error) VALUES (?, ?, ?, ?, ?, ?, ?)",
		rec.BuildID, rec.StartedAt.UnixMilli(), int64(rec.Duration), rec.Posts, string(rec.Outcome), rec.Stage, rec.Error,
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrAppendFailed, err)
	}
	return nil
}

// Get returns the record for buildID.
func (s *SQLiteStore) Get(ctx context.Context, buildID string) (BuildRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT build_id, started_at, duration_ns, posts, outcome, stage, error FROM builds WHERE build_id = ?",
		buildID,
	)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return BuildRecord{}, fmt.Errorf("%w: %s", ErrNotFound, buildID)
	}
	if err != nil {
		return BuildRecord{}, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}
	return rec, nil
}

// Recent returns up to limit records, newest first. A non-positive limit
// returns every record.
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]BuildRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT build_id, started_at, duration_ns, posts, outcome, stage, error FROM builds ORDER BY started_at DESC, id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}
	defer func() { _ = rows.Close() }()

	var records []BuildRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrQueryFailed, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}
	return records, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (BuildRecord, error) {
	var (
		rec       BuildRecord
		startedMs int64
		duration  int64
		outcome   string
		stage     sql.NullString
		errText   sql.NullString
	)
	if err := row.Scan(&rec.BuildID, &startedMs, &duration, &rec.Posts, &outcome, &stage, &errText); err != nil {
		return BuildRecord{}, err
	}
	rec.StartedAt = time.UnixMilli(startedMs)
	rec.Duration = time.Duration(duration)
	rec.Outcome = Outcome(outcome)
	rec.Stage = stage.String
	rec.Error = errText.String
	return rec, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
