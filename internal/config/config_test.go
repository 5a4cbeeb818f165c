package config

import (
	"net/netip"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"darew.com/internal/kv"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestDefaults(t *testing.T) {
	cfg, err := LoadWith(envMap(nil))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, kv.DriverFile, cfg.KV().Driver)
	assert.Equal(t, 8*time.Hour, cfg.Auth.SessionTTL)
}

func TestYAMLThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "darew.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http:
  addr: ":9000"
  allowed_origins: ["https://darew.com"]
storage:
  driver: sqlite
  sqlite_path: /var/lib/darew/state.db
auth:
  session_ttl: 30m
log:
  level: debug
`), 0o600))

	cfg, err := LoadWith(envMap(map[string]string{
		"DAREW_CONFIG":    path,
		"DAREW_HTTP_ADDR": ":9100",
		"DAREW_GRPC_ADDR": "",
	}))
	require.NoError(t, err)
	assert.Equal(t, ":9100", cfg.HTTP.Addr, "env wins over file")
	assert.Equal(t, "", cfg.GRPC.Addr, "explicitly empty env disables grpc")
	assert.Equal(t, []string{"https://darew.com"}, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, "/var/lib/darew/state.db", cfg.KV().SQLitePath)
	assert.Equal(t, 30*time.Minute, cfg.Auth.SessionTTL)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 5, cfg.HTTP.ContactBurst, "untouched keys keep defaults")
}

func TestEnvParsing(t *testing.T) {
	cfg, err := LoadWith(envMap(map[string]string{
		"DAREW_STORAGE_DRIVER":  "s3",
		"DAREW_S3_BUCKET":       "darew-state",
		"DAREW_S3_PATH_STYLE":   "true",
		"DAREW_S3_ENDPOINT":     "http://minio:9000",
		"DAREW_SESSION_TTL":     "2h",
		"DAREW_HASH_COST":       "12",
		"DAREW_CONTACT_RATE":    "0.5",
		"DAREW_CONTACT_BURST":   "3",
		"DAREW_ALLOWED_ORIGINS": "https://a.example, https://b.example,",
		"DAREW_TRUSTED_PROXIES": "10.0.0.0/8, 192.168.1.7",
	}))
	require.NoError(t, err)
	kvc := cfg.KV()
	assert.Equal(t, kv.DriverS3, kvc.Driver)
	assert.Equal(t, "darew-state", kvc.S3.Bucket)
	assert.True(t, kvc.S3.PathStyle)
	assert.Equal(t, "us-east-1", kvc.S3.Region)
	assert.Equal(t, 2*time.Hour, cfg.Auth.SessionTTL)
	assert.Equal(t, 12, cfg.Auth.HashCost)
	assert.Equal(t, 0.5, cfg.HTTP.ContactRate)
	assert.Equal(t, 3, cfg.HTTP.ContactBurst)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.AllowedOrigins)
	prefixes, err := cfg.HTTP.TrustedPrefixes()
	require.NoError(t, err)
	assert.Equal(t, []netip.Prefix{netip.MustParsePrefix("10.0.0.0/8"), netip.MustParsePrefix("192.168.1.7/32")}, prefixes)
}

func TestValidation(t *testing.T) {
	cases := map[string]map[string]string{
		"unknown driver":   {"DAREW_STORAGE_DRIVER": "redis"},
		"postgres w/o dsn": {"DAREW_STORAGE_DRIVER": "postgres"},
		"s3 w/o bucket":    {"DAREW_STORAGE_DRIVER": "s3"},
		"bad ttl":          {"DAREW_SESSION_TTL": "soon"},
		"zero ttl":         {"DAREW_SESSION_TTL": "0s"},
		"bad cost":         {"DAREW_HASH_COST": "40"},
		"bad rate":         {"DAREW_CONTACT_RATE": "0"},
		"bad bool":         {"DAREW_S3_PATH_STYLE": "maybe"},
		"bad proxy":        {"DAREW_TRUSTED_PROXIES": "10.0.0.0/33"},
		"missing file":     {"DAREW_CONFIG": "/nonexistent/darew.yaml"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadWith(envMap(env))
			require.Error(t, err)
			assert.True(t, strings.HasPrefix(err.Error(), "config: "), err.Error())
		})
	}
}

func TestValidateJoinsErrors(t *testing.T) {
	cfg := Default()
	cfg.HTTP.Addr = ""
	cfg.Storage.Driver = "nope"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http.addr")
	assert.Contains(t, err.Error(), "storage.driver")
}

func TestLoadReadsProcessEnv(t *testing.T) {
	t.Setenv("DAREW_LOG_LEVEL", "warn")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
}
