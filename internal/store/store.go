package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

// PersistentStore holds the session event log. It is wiped on open, so
// nothing it records outlives the process.
type PersistentStore struct {
	db     *sql.DB
	driver string
}

func NewPersistentStore(driver, dsn string) (*PersistentStore, error) {
	var (
		db  *sql.DB
		err error
	)

	switch driver {
	case DriverSQLite:
		db, err = openSQLite(dsn)
	case DriverPostgres:
		db, err = sql.Open("pgx", dsn)
	default:
		return nil, fmt.Errorf("unsupported store driver %q", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", driver, err)
	}

	// Ping makes sure the database is actually reachable and the DSN is valid
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to %s: %w", driver, err)
	}

	store := &PersistentStore{db: db, driver: driver}

	if err := store.RunMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not migrate database: %w", err)
	}

	if err := store.Reset(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not reset session log: %w", err)
	}

	return store, nil
}

func openSQLite(dsn string) (*sql.DB, error) {
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}

	// Ensure the database directory exists
	if path != "" && path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return sql.Open("sqlite", dsn+sep+"_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)")
}

// Reset drops every recorded event
func (s *PersistentStore) Reset(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM download_events")
	return err
}

func (s *PersistentStore) Driver() string {
	return s.driver
}

func (s *PersistentStore) Close() error {
	return s.db.Close()
}

// rebind rewrites ? placeholders to $n for postgres
func (s *PersistentStore) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}

	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
