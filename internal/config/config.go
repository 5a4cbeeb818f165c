// Package config loads service settings from an optional YAML file named by
// DAREW_CONFIG, then applies DAREW_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"darew.com/internal/kv"
)

// Config is the full service configuration.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	GRPC    GRPCConfig    `yaml:"grpc"`
	Storage StorageConfig `yaml:"storage"`
	Auth    AuthConfig    `yaml:"auth"`
	Log     LogConfig     `yaml:"log"`
}

type HTTPConfig struct {
	Addr           string   `yaml:"addr"`
	ContactRate    float64  `yaml:"contact_rate"`  // submissions per second per client IP
	ContactBurst   int      `yaml:"contact_burst"` // burst allowance per client IP
	AllowedOrigins []string `yaml:"allowed_origins"`
	TrustedProxies []string `yaml:"trusted_proxies"` // CIDRs or addresses whose X-Forwarded-For is believed
}

// TrustedPrefixes parses TrustedProxies. A bare address is a single-host
// prefix.
func (h HTTPConfig) TrustedPrefixes() ([]netip.Prefix, error) {
	out := make([]netip.Prefix, 0, len(h.TrustedProxies))
	for _, raw := range h.TrustedProxies {
		raw = strings.TrimSpace(raw)
		if strings.Contains(raw, "/") {
			p, err := netip.ParsePrefix(raw)
			if err != nil {
				return nil, fmt.Errorf("http.trusted_proxies: %w", err)
			}
			out = append(out, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(raw)
		if err != nil {
			return nil, fmt.Errorf("http.trusted_proxies: %w", err)
		}
		out = append(out, netip.PrefixFrom(addr.Unmap(), addr.Unmap().BitLen()))
	}
	return out, nil
}

type GRPCConfig struct {
	Addr string `yaml:"addr"` // empty disables the gRPC listener
}

type StorageConfig struct {
	Driver      string   `yaml:"driver"`
	Dir         string   `yaml:"dir"`
	SQLitePath  string   `yaml:"sqlite_path"`
	PostgresDSN string   `yaml:"postgres_dsn"`
	S3          S3Config `yaml:"s3"`
}

type S3Config struct {
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	Prefix    string `yaml:"prefix"`
	PathStyle bool   `yaml:"path_style"`
}

type AuthConfig struct {
	SessionSecret string        `yaml:"session_secret"`
	SessionTTL    time.Duration `yaml:"session_ttl"`
	HashCost      int           `yaml:"hash_cost"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		HTTP: HTTPConfig{
			Addr:         ":8080",
			ContactRate:  1,
			ContactBurst: 5,
		},
		GRPC: GRPCConfig{Addr: ":9090"},
		Storage: StorageConfig{
			Driver:     string(kv.DriverFile),
			Dir:        "./data",
			SQLitePath: "./data/darew.db",
			S3:         S3Config{Region: "us-east-1"},
		},
		Auth: AuthConfig{SessionTTL: 8 * time.Hour},
		Log:  LogConfig{Level: "info"},
	}
}

// Load reads the process environment.
func Load() (Config, error) {
	return LoadWith(os.LookupEnv)
}

// LoadWith builds a Config from defaults, the YAML file named by
// DAREW_CONFIG (if any) and the environment seen through lookup.
func LoadWith(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	if path, ok := lookup("DAREW_CONFIG"); ok && strings.TrimSpace(path) != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	if err := applyEnv(&cfg, lookup); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	str("DAREW_HTTP_ADDR", &cfg.HTTP.Addr)
	str("DAREW_GRPC_ADDR", &cfg.GRPC.Addr)
	str("DAREW_STORAGE_DRIVER", &cfg.Storage.Driver)
	str("DAREW_STORAGE_DIR", &cfg.Storage.Dir)
	str("DAREW_SQLITE_PATH", &cfg.Storage.SQLitePath)
	str("DAREW_PG_DSN", &cfg.Storage.PostgresDSN)
	str("DAREW_S3_BUCKET", &cfg.Storage.S3.Bucket)
	str("DAREW_S3_REGION", &cfg.Storage.S3.Region)
	str("DAREW_S3_ENDPOINT", &cfg.Storage.S3.Endpoint)
	str("DAREW_S3_PREFIX", &cfg.Storage.S3.Prefix)
	str("DAREW_SESSION_SECRET", &cfg.Auth.SessionSecret)
	str("DAREW_LOG_LEVEL", &cfg.Log.Level)

	if v, ok := lookup("DAREW_ALLOWED_ORIGINS"); ok {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	if v, ok := lookup("DAREW_TRUSTED_PROXIES"); ok {
		cfg.HTTP.TrustedProxies = splitList(v)
	}
	if v, ok := lookup("DAREW_S3_PATH_STYLE"); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("config: DAREW_S3_PATH_STYLE: %w", err)
		}
		cfg.Storage.S3.PathStyle = b
	}
	if v, ok := lookup("DAREW_SESSION_TTL"); ok {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("config: DAREW_SESSION_TTL: %w", err)
		}
		cfg.Auth.SessionTTL = d
	}
	if v, ok := lookup("DAREW_HASH_COST"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("config: DAREW_HASH_COST: %w", err)
		}
		cfg.Auth.HashCost = n
	}
	if v, ok := lookup("DAREW_CONTACT_RATE"); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("config: DAREW_CONTACT_RATE: %w", err)
		}
		cfg.HTTP.ContactRate = f
	}
	if v, ok := lookup("DAREW_CONTACT_BURST"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("config: DAREW_CONTACT_BURST: %w", err)
		}
		cfg.HTTP.ContactBurst = n
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate reports every inconsistency in cfg.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.HTTP.Addr) == "" {
		errs = append(errs, errors.New("http.addr is required"))
	}
	if c.HTTP.ContactRate <= 0 {
		errs = append(errs, errors.New("http.contact_rate must be positive"))
	}
	if c.HTTP.ContactBurst <= 0 {
		errs = append(errs, errors.New("http.contact_burst must be positive"))
	}
	if _, err := c.HTTP.TrustedPrefixes(); err != nil {
		errs = append(errs, err)
	}
	switch kv.Driver(c.Storage.Driver) {
	case kv.DriverMemory, kv.DriverFile, kv.DriverSQLite:
	case kv.DriverPostgres:
		if c.Storage.PostgresDSN == "" {
			errs = append(errs, errors.New("storage.postgres_dsn is required for the postgres driver"))
		}
	case kv.DriverS3:
		if c.Storage.S3.Bucket == "" {
			errs = append(errs, errors.New("storage.s3.bucket is required for the s3 driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage.driver %q", c.Storage.Driver))
	}
	if c.Auth.SessionTTL <= 0 {
		errs = append(errs, errors.New("auth.session_ttl must be positive"))
	}
	if c.Auth.HashCost != 0 && (c.Auth.HashCost < 4 || c.Auth.HashCost > 31) {
		errs = append(errs, fmt.Errorf("auth.hash_cost %d out of range 4-31", c.Auth.HashCost))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// KV converts the storage section into backend settings.
func (c Config) KV() kv.Config {
	return kv.Config{
		Driver:      kv.Driver(c.Storage.Driver),
		Dir:         c.Storage.Dir,
		SQLitePath:  c.Storage.SQLitePath,
		PostgresDSN: c.Storage.PostgresDSN,
		S3: kv.S3Config{
			Bucket:    c.Storage.S3.Bucket,
			Region:    c.Storage.S3.Region,
			Endpoint:  c.Storage.S3.Endpoint,
			Prefix:    c.Storage.S3.Prefix,
			PathStyle: c.Storage.S3.PathStyle,
		},
	}
}
