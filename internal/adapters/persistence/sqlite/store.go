// Package sqlite persists aggregate snapshots in an embedded SQLite
// database. Each aggregate is stored as the JSON encoding of its primitives
// in a single snapshots table, keyed by kind and id, with a scope key for
// parent lookups (workspace of a project, project of a task) and a
// secondary key for unique lookups such as user email.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// Store owns the database handle shared by every repository.
type Store struct {
	db *sql.DB
}

// Open opens (creating when missing) the database at path and applies the
// embedded migrations. busyTimeout bounds how long a writer waits on a lock.
func Open(ctx context.Context, path string, busyTimeout time.Duration) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=foreign_keys(1)&_pragma=busy_timeout(%d)",
		path, busyTimeout.Milliseconds())
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}
	// SQLite serializes writers; one connection keeps transactions from
	// tripping over each other's locks.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging sqlite: %w", err)
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Name identifies the store in health reports.
func (s *Store) Name() string { return "sqlite" }

// HealthCheck pings the database.
func (s *Store) HealthCheck(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("sqlite ping: %w", err)
	}
	return nil
}
