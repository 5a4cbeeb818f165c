// Package kv provides the durable key/value blob storage the content stores
// mirror their collections into. Every backend stores opaque byte values
// under short string keys; callers own the encoding.
package kv

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Driver identifies a storage backend.
type Driver string

const (
	DriverMemory   Driver = "memory"   // process memory (tests, demos)
	DriverFile     Driver = "file"     // one JSON file per key (default)
	DriverSQLite   Driver = "sqlite"   // single-file SQLite state table
	DriverPostgres Driver = "postgres" // Postgres state table
	DriverS3       Driver = "s3"       // S3 / MinIO objects under a prefix
)

var (
	// ErrNotFound is returned by Get when no value is stored under the key.
	ErrNotFound = errors.New("kv: key not found")
	// ErrInvalidKey is returned when a key contains characters that cannot be
	// mapped onto every backend's naming rules.
	ErrInvalidKey = errors.New("kv: invalid key")
)

// Store is implemented by every backend.
type Store interface {
	// Get returns the value stored under key or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, key string, value []byte) error
	// Delete removes key. Removing an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// List returns all stored keys in ascending order.
	List(ctx context.Context) ([]string, error)
	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
	Driver() Driver
	Close() error
}

// Config selects and configures a backend.
type Config struct {
	Driver      Driver
	Dir         string
	SQLitePath  string
	PostgresDSN string
	S3          S3Config
}

// Open constructs the backend named by cfg.Driver.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case DriverMemory:
		return NewMemory(), nil
	case DriverFile, "":
		return NewFile(cfg.Dir)
	case DriverSQLite:
		return NewSQLite(cfg.SQLitePath)
	case DriverPostgres:
		return NewPostgres(ctx, cfg.PostgresDSN)
	case DriverS3:
		return NewS3(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("kv: unknown driver %q", cfg.Driver)
	}
}

// ValidateKey checks that key is usable as a file name, SQL primary key and
// object name alike.
func ValidateKey(key string) error {
	if key == "" || key == "." || key == ".." || strings.HasPrefix(key, ".") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '_', r == '-', r == '.':
		default:
			return fmt.Errorf("%w: %q", ErrInvalidKey, key)
		}
	}
	return nil
}

// Copy writes every key held by src into dst, overwriting existing values.
// It returns the number of keys copied.
func Copy(ctx context.Context, src, dst Store) (int, error) {
	keys, err := src.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("kv: list source keys: %w", err)
	}
	copied := 0
	for _, key := range keys {
		val, err := src.Get(ctx, key)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return copied, fmt.Errorf("kv: read %s: %w", key, err)
		}
		if err := dst.Put(ctx, key, val); err != nil {
			return copied, fmt.Errorf("kv: write %s: %w", key, err)
		}
		copied++
	}
	return copied, nil
}
