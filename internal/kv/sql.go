package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// sqlState stores values in a two-column state(bucket, payload) table. The
// SQLite and Postgres backends differ only in DDL and placeholder syntax.
type sqlState struct {
	db     *sql.DB
	driver Driver

	getQuery    string
	upsertQuery string
	deleteQuery string
	listQuery   string
}

func (s *sqlState) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	var payload []byte
	err := s.db.QueryRowContext(ctx, s.getQuery, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("kv: select %s: %w", key, err)
	}
	return payload, nil
}

func (s *sqlState) Put(ctx context.Context, key string, value []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, s.upsertQuery, key, s.encode(value)); err != nil {
		return fmt.Errorf("kv: upsert %s: %w", key, err)
	}
	return nil
}

func (s *sqlState) Delete(ctx context.Context, key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, s.deleteQuery, key); err != nil {
		return fmt.Errorf("kv: delete %s: %w", key, err)
	}
	return nil
}

func (s *sqlState) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, s.listQuery)
	if err != nil {
		return nil, fmt.Errorf("kv: list: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("kv: scan: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func (s *sqlState) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *sqlState) Driver() Driver { return s.driver }

func (s *sqlState) Close() error { return s.db.Close() }

// encode adapts the payload to the column type. JSONB columns take text.
func (s *sqlState) encode(value []byte) any {
	if s.driver == DriverPostgres {
		return string(value)
	}
	return value
}
