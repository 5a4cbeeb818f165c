package kv

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// SQLite keeps every key as a row of a single-file SQLite database.
type SQLite struct {
	sqlState
	path string
}

var _ Store = (*SQLite)(nil)

// NewSQLite opens (creating if needed) the database at path.
func NewSQLite(path string) (*SQLite, error) {
	if path == "" {
		path = "darew.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("kv: create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("kv: open sqlite: %w", err)
	}
	// a single writer avoids SQLITE_BUSY under concurrent Puts
	db.SetMaxOpenConns(1)
	s, err := newSQLite(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	s.path = path
	return s, nil
}

func newSQLite(db *sql.DB) (*SQLite, error) {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS state (
		bucket TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("kv: create state table: %w", err)
	}
	return &SQLite{sqlState: sqlState{
		db:          db,
		driver:      DriverSQLite,
		getQuery:    `SELECT payload FROM state WHERE bucket = ?`,
		upsertQuery: `INSERT INTO state(bucket, payload) VALUES(?, ?) ON CONFLICT(bucket) DO UPDATE SET payload = excluded.payload`,
		deleteQuery: `DELETE FROM state WHERE bucket = ?`,
		listQuery:   `SELECT bucket FROM state ORDER BY bucket`,
	}}, nil
}

// Path returns the database file location.
func (s *SQLite) Path() string { return s.path }
