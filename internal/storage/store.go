// Package storage implements the SQLite persistence layer. Cascade rules
// and uniqueness constraints live in the schema; this package maps SQLite
// constraint failures onto the core error taxonomy.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fintrack/internal/core"

	_ "modernc.org/sqlite"
)

// Store is the SQLite-backed persistence layer for all entities.
type Store struct {
	db *sql.DB
}

// NewStore opens (creating if needed) the database at dbPath, enables
// foreign-key enforcement and runs pending migrations.
func NewStore(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

const (
	dateLayout = "2006-01-02"
	timeLayout = time.RFC3339
)

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(timeLayout, s)
	return t
}

func parseDate(s string) time.Time {
	t, _ := time.Parse(dateLayout, s)
	return t
}

// mapConstraintErr translates SQLite constraint failures into the core
// taxonomy; other errors pass through for the caller to wrap.
func mapConstraintErr(err error, entity, ref string) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return &core.DuplicateError{Entity: entity, Ref: ref}
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return &core.IntegrityError{Reason: fmt.Sprintf("%s %q references a missing row", entity, ref)}
	case strings.Contains(msg, "CHECK constraint failed"):
		return &core.ValidationError{Field: entity, Reason: "violates a stored constraint"}
	default:
		return err
	}
}

// withTx runs fn inside a transaction, rolling back on error. Logical
// operations that touch multiple tables commit atomically through this.
func (s *Store) withTx(fn func(tx *sql.Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
