package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"chartsync/internal/config"
)

// Store manages document persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the database and verifies the schema.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.Paths.DatabasePath
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// upsert runs an existence probe followed by the provided statement and
// reports whether the write inserted a new row. The probe and write are not
// atomic; concurrent writers on the same key still converge through the
// statement's ON CONFLICT clause, only the inserted/updated attribution can
// shift.
func (s *Store) upsert(ctx context.Context, probe string, probeArgs []any, stmt string, stmtArgs []any) (bool, error) {
	var exists int
	if err := s.db.QueryRowContext(ctx, probe, probeArgs...).Scan(&exists); err != nil {
		return false, fmt.Errorf("probe existing document: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, stmt, stmtArgs...); err != nil {
		return false, err
	}
	return exists == 0, nil
}
