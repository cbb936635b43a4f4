package history

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"aqmsnotify/internal/notify"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema changes.
const schemaVersion = 1

const defaultListLimit = 20

// startedLayout is fixed width so started_at sorts lexically.
const startedLayout = "2006-01-02T15:04:05.000000000Z"

// ErrSchemaMismatch indicates the database schema version doesn't match the expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// Entry is a journaled attempt.
type Entry struct {
	ID          int64
	RunID       string
	EventID     string
	ExternalID  string
	Action      string
	Mode        string
	Command     string
	ExitCode    int
	Stdout      string
	Stderr      string
	LaunchError string
	StartedAt   time.Time
	Duration    time.Duration
}

// Store persists notification attempts in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database at path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("history path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to reset history)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// Record journals a single attempt.
func (s *Store) Record(ctx context.Context, attempt notify.Attempt) (int64, error) {
	launchErr := ""
	if attempt.LaunchErr != nil {
		launchErr = attempt.LaunchErr.Error()
	}
	res, err := s.db.ExecContext(ctx, `INSERT INTO attempts
		(run_id, event_id, external_id, action, mode, command, exit_code, stdout, stderr, launch_error, started_at, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		attempt.RunID,
		attempt.EventID,
		attempt.ExternalID,
		attempt.Action,
		string(attempt.Mode),
		attempt.CommandLine(),
		attempt.ExitCode,
		attempt.Stdout,
		attempt.Stderr,
		launchErr,
		attempt.StartedAt.UTC().Format(startedLayout),
		attempt.Duration.Milliseconds(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert attempt: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read attempt id: %w", err)
	}
	return id, nil
}

// RecordReport journals every attempt in the report.
func (s *Store) RecordReport(ctx context.Context, report *notify.Report) error {
	if report == nil {
		return nil
	}
	for _, attempt := range report.Attempts {
		if _, err := s.Record(ctx, attempt); err != nil {
			return err
		}
	}
	return nil
}

const entryColumns = `id, run_id, event_id, external_id, action, mode, command, exit_code, stdout, stderr, launch_error, started_at, duration_ms`

// Recent returns the newest attempts first. A non-positive limit uses the default.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	rows, err := s.db.QueryContext(ctx, `SELECT `+entryColumns+` FROM attempts ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	return collectEntries(rows)
}

// ForEvent returns attempts for one event, newest first.
func (s *Store) ForEvent(ctx context.Context, eventID string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	rows, err := s.db.QueryContext(ctx, `SELECT `+entryColumns+` FROM attempts WHERE event_id = ? ORDER BY started_at DESC, id DESC LIMIT ?`, eventID, limit)
	if err != nil {
		return nil, fmt.Errorf("list attempts for %s: %w", eventID, err)
	}
	return collectEntries(rows)
}

func collectEntries(rows *sql.Rows) ([]Entry, error) {
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func scanEntry(scanner interface{ Scan(dest ...any) error }) (Entry, error) {
	var (
		entry      Entry
		startedRaw string
		durationMS int64
	)
	if err := scanner.Scan(
		&entry.ID,
		&entry.RunID,
		&entry.EventID,
		&entry.ExternalID,
		&entry.Action,
		&entry.Mode,
		&entry.Command,
		&entry.ExitCode,
		&entry.Stdout,
		&entry.Stderr,
		&entry.LaunchError,
		&startedRaw,
		&durationMS,
	); err != nil {
		return Entry{}, fmt.Errorf("scan attempt: %w", err)
	}
	if ts, err := time.Parse(startedLayout, startedRaw); err == nil {
		entry.StartedAt = ts
	}
	entry.Duration = time.Duration(durationMS) * time.Millisecond
	return entry, nil
}
