package kv

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Postgres keeps every key as a JSONB row of the state table.
type Postgres struct {
	sqlState
}

var _ Store = (*Postgres)(nil)

// NewPostgres connects to dsn and ensures the state table exists.
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	if dsn == "" {
		return nil, fmt.Errorf("kv: postgres dsn required")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(15 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)
	s, err := newPostgres(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func newPostgres(ctx context.Context, db *sql.DB) (*Postgres, error) {
	if _, err := db.ExecContext(ctx, `create table if not exists state (
		bucket text primary key,
		payload jsonb not null,
		updated_at timestamptz not null default now()
	)`); err != nil {
		return nil, fmt.Errorf("kv: create state table: %w", err)
	}
	return &Postgres{sqlState: sqlState{
		db:       db,
		driver:   DriverPostgres,
		getQuery: `select payload from state where bucket = $1`,
		upsertQuery: `insert into state(bucket, payload, updated_at) values ($1, $2::jsonb, now())
			on conflict (bucket) do update set payload = excluded.payload, updated_at = now()`,
		deleteQuery: `delete from state where bucket = $1`,
		listQuery:   `select bucket from state order by bucket`,
	}}, nil
}
