// Package persist mirrors whole collections into a kv.Store as JSON.
//
// Every write replaces the full collection under its key. Reads never fail:
// an absent, unreadable or malformed value yields the caller's fallback.
package persist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"darew.com/internal/kv"
	"darew.com/internal/obs"
)

// Durable keys. The names match the browser storage layout of the site
// front end so exported blobs load unchanged.
const (
	KeyCurrentIdentity = "darew_auth_user"
	KeyIdentities      = "darew_users"
	KeyOfferings       = "darew_services"
	KeyProjects        = "darew_projects"
	KeyInquiries       = "darew_inquiries"
	KeyStats           = "darew_stats"
	KeyLogs            = "darew_logs"
)

// Keys lists every durable key in a stable order.
func Keys() []string {
	return []string{
		KeyCurrentIdentity,
		KeyIdentities,
		KeyOfferings,
		KeyProjects,
		KeyInquiries,
		KeyStats,
		KeyLogs,
	}
}

var null = []byte("null")

// Load returns the collection stored under key, or fallback when the key is
// absent, unreadable, null or not a JSON array of T.
func Load[T any](ctx context.Context, st kv.Store, key string, fallback []T) []T {
	raw, err := st.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			obs.Logger().Warn("persist_load_failed", zap.String("key", key), zap.Error(err))
		}
		return fallback
	}
	if bytes.Equal(bytes.TrimSpace(raw), null) {
		obs.Logger().Warn("persist_null_discarded", zap.String("key", key))
		return fallback
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		obs.Logger().Warn("persist_decode_failed", zap.String("key", key), zap.Error(err))
		return fallback
	}
	if out == nil {
		out = []T{}
	}
	return out
}

// LoadOne returns the single record stored under key. ok is false when the
// key is absent or the value does not decode.
func LoadOne[T any](ctx context.Context, st kv.Store, key string) (v T, ok bool) {
	raw, err := st.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			obs.Logger().Warn("persist_load_failed", zap.String("key", key), zap.Error(err))
		}
		return v, false
	}
	if bytes.Equal(bytes.TrimSpace(raw), null) {
		return v, false
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		obs.Logger().Warn("persist_decode_failed", zap.String("key", key), zap.Error(err))
		var zero T
		return zero, false
	}
	return v, true
}

// Save serialises value and writes it under key. Nil slices are written as
// empty arrays.
func Save[T any](ctx context.Context, st kv.Store, key string, value T) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("persist: encode %s: %w", key, err)
	}
	if bytes.Equal(raw, null) {
		raw = []byte("[]")
	}
	if err := st.Put(ctx, key, raw); err != nil {
		return fmt.Errorf("persist: write %s: %w", key, err)
	}
	return nil
}

// Clear removes key.
func Clear(ctx context.Context, st kv.Store, key string) error {
	if err := st.Delete(ctx, key); err != nil {
		return fmt.Errorf("persist: clear %s: %w", key, err)
	}
	return nil
}
