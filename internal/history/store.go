// Package history keeps a SQLite ledger of aggregation runs and the files
// each run copied.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/harrison/filesaggregate/internal/models"
	_ "github.com/mattn/go-sqlite3"
)

// ErrRunNotFound is returned when no run matches an ID or ID prefix
var ErrRunNotFound = errors.New("run not found")

// ErrAmbiguousRun is returned when an ID prefix matches more than one run
var ErrAmbiguousRun = errors.New("run id prefix is ambiguous")

// Run is a recorded aggregation run
type Run struct {
	ID           string
	Root         string
	Destination  string
	StartedAt    time.Time
	Duration     time.Duration
	Scanned      int
	Skipped      int
	Copied       int
	Renamed      int
	Bytes        int64
	Status       models.RunStatus
	ErrorMessage string
}

// Store manages the SQLite history database
type Store struct {
	db     *sql.DB
	dbPath string
}

// NewStore opens (creating if needed) the database at dbPath and applies migrations
func NewStore(dbPath string) (*Store, error) {
	dsn := dbPath
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
		dsn = "file:" + dbPath + "?_busy_timeout=5000&_journal_mode=WAL&_synchronous=NORMAL"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Each pooled connection to :memory: would see its own empty database
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	store := &Store{
		db:     db,
		dbPath: dbPath,
	}

	if err := store.ApplyMigrations(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return store, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// RecordRun stores a run and all of its copies in a single transaction
func (s *Store) RecordRun(ctx context.Context, result *models.RunResult) error {
	if result == nil {
		return fmt.Errorf("record run: nil result")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var errMsg sql.NullString
	if result.Err != nil {
		errMsg = sql.NullString{String: result.Err.Error(), Valid: true}
	}

	_, err = tx.ExecContext(ctx, `INSERT INTO runs
		(id, root, destination, started_at, duration_ms, scanned, skipped, copied, renamed, bytes, status, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		result.RunID,
		result.Root,
		result.Destination,
		result.StartedAt.UTC(),
		result.Duration.Milliseconds(),
		result.Scanned,
		result.Skipped,
		len(result.Copied),
		result.RenamedCount(),
		result.BytesCopied(),
		string(result.Status),
		errMsg,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO copies (run_id, source, destination, size, renamed) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare copy insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range result.Copied {
		if _, err := stmt.ExecContext(ctx, result.RunID, c.Source, c.Destination, c.Size, c.Renamed); err != nil {
			return fmt.Errorf("insert copy %s: %w", c.Source, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

const runColumns = `id, root, destination, started_at, duration_ms, scanned, skipped, copied, renamed, bytes, status, error_message`

func scanRun(row interface{ Scan(...any) error }) (*Run, error) {
	var (
		r          Run
		durationMS int64
		status     string
		errMsg     sql.NullString
	)
	if err := row.Scan(&r.ID, &r.Root, &r.Destination, &r.StartedAt, &durationMS,
		&r.Scanned, &r.Skipped, &r.Copied, &r.Renamed, &r.Bytes, &status, &errMsg); err != nil {
		return nil, err
	}
	r.Duration = time.Duration(durationMS) * time.Millisecond
	r.Status = models.RunStatus(status)
	r.ErrorMessage = errMsg.String
	return &r, nil
}

// ListRuns returns the most recent runs, newest first. limit <= 0 returns all runs.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := make([]*Run, 0)
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// GetRun looks a run up by full ID or unique ID prefix and returns it with its copies
func (s *Store) GetRun(ctx context.Context, idPrefix string) (*Run, []models.CopyRecord, error) {
	if idPrefix == "" {
		return nil, nil, ErrRunNotFound
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs WHERE substr(id, 1, length(?)) = ? LIMIT 2`, idPrefix, idPrefix)
	if err != nil {
		return nil, nil, fmt.Errorf("query run: %w", err)
	}

	var matches []*Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			rows.Close()
			return nil, nil, fmt.Errorf("scan run: %w", err)
		}
		matches = append(matches, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate runs: %w", err)
	}

	switch len(matches) {
	case 0:
		return nil, nil, fmt.Errorf("%s: %w", idPrefix, ErrRunNotFound)
	case 1:
	default:
		return nil, nil, fmt.Errorf("%s: %w", idPrefix, ErrAmbiguousRun)
	}

	run := matches[0]
	copies, err := s.copiesForRun(ctx, run.ID)
	if err != nil {
		return nil, nil, err
	}
	return run, copies, nil
}

func (s *Store) copiesForRun(ctx context.Context, runID string) ([]models.CopyRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT source, destination, size, renamed FROM copies WHERE run_id = ? ORDER BY id ASC`, runID)
	if err != nil {
		return nil, fmt.Errorf("query copies: %w", err)
	}
	defer rows.Close()

	copies := make([]models.CopyRecord, 0)
	for rows.Next() {
		var c models.CopyRecord
		if err := rows.Scan(&c.Source, &c.Destination, &c.Size, &c.Renamed); err != nil {
			return nil, fmt.Errorf("scan copy: %w", err)
		}
		copies = append(copies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate copies: %w", err)
	}
	return copies, nil
}

// PruneRuns deletes all but the keep most recent runs and their copies.
// keep <= 0 keeps everything. Returns the number of runs removed.
func (s *Store) PruneRuns(ctx context.Context, keep int) (int64, error) {
	if keep <= 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE id NOT IN
		(SELECT id FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?)`, keep)
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM copies WHERE run_id NOT IN (SELECT id FROM runs)`); err != nil {
		return 0, fmt.Errorf("prune copies: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit prune: %w", err)
	}
	return removed, nil
}
