// Package config loads launcher settings from defaults, an optional TOML
// file and the environment, in that order of precedence (last wins).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
	StoreSQLite = "sqlite"
)

// MinLeaseTTL is the shortest namespace lease accepted. Leases are refreshed
// every third of their TTL, so shorter values would flood the store.
const MinLeaseTTL = time.Second

// Config holds the launcher settings.
type Config struct {
	// AmentPrefixPath is the colon separated list of install prefixes.
	AmentPrefixPath string        `env:"AMENT_PREFIX_PATH"`
	LogLevel        string        `env:"PLANLAUNCH_LOG_LEVEL"`
	LogDir          string        `env:"PLANLAUNCH_LOG_DIR"`
	ShutdownTimeout time.Duration `env:"PLANLAUNCH_SHUTDOWN_TIMEOUT"`
	Color           bool          `env:"PLANLAUNCH_COLOR"`

	Store      string        `env:"PLANLAUNCH_STORE"`
	RedisAddr  string        `env:"PLANLAUNCH_REDIS_ADDR"`
	SQLitePath string        `env:"PLANLAUNCH_SQLITE_PATH"`
	RunTTL     time.Duration `env:"PLANLAUNCH_RUN_TTL"`
	LeaseTTL   time.Duration `env:"PLANLAUNCH_LEASE_TTL"`

	StatusAddr   string `env:"PLANLAUNCH_STATUS_ADDR"`
	OTelEndpoint string `env:"PLANLAUNCH_OTEL_ENDPOINT"`
}

type fileConfig struct {
	AmentPrefixPath string `toml:"ament_prefix_path"`
	LogLevel        string `toml:"log_level"`
	LogDir          string `toml:"log_dir"`
	ShutdownTimeout string `toml:"shutdown_timeout"`
	Color           bool   `toml:"color"`
	Store           string `toml:"store"`
	RedisAddr       string `toml:"redis_addr"`
	SQLitePath      string `toml:"sqlite_path"`
	RunTTL          string `toml:"run_ttl"`
	LeaseTTL        string `toml:"lease_ttl"`
	StatusAddr      string `toml:"status_addr"`
	OTelEndpoint    string `toml:"otel_endpoint"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		LogLevel:        "info",
		LogDir:          filepath.Join(os.TempDir(), "planlaunch", "log"),
		ShutdownTimeout: 10 * time.Second,
		Store:           StoreMemory,
		RedisAddr:       "localhost:6379",
		SQLitePath:      "planlaunch.db",
		LeaseTTL:        30 * time.Second,
	}
}

// Load applies the TOML file at path (if path is not empty) and then the
// environment on top of the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := applyFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings for consistency.
func (c Config) Validate() error {
	switch c.Store {
	case StoreMemory, StoreRedis, StoreSQLite:
	default:
		return fmt.Errorf("unknown store %q (want %s, %s or %s)", c.Store, StoreMemory, StoreRedis, StoreSQLite)
	}
	if c.ShutdownTimeout < 0 {
		return fmt.Errorf("shutdown_timeout must not be negative")
	}
	if c.LeaseTTL < MinLeaseTTL {
		return fmt.Errorf("lease_ttl must be at least %s, got %s", MinLeaseTTL, c.LeaseTTL)
	}
	return nil
}

func applyFile(cfg *Config, path string) error {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("load config: unknown key %q", undecoded[0].String())
	}

	strs := []struct {
		key    string
		value  string
		target *string
	}{
		{"ament_prefix_path", raw.AmentPrefixPath, &cfg.AmentPrefixPath},
		{"log_level", raw.LogLevel, &cfg.LogLevel},
		{"log_dir", raw.LogDir, &cfg.LogDir},
		{"store", raw.Store, &cfg.Store},
		{"redis_addr", raw.RedisAddr, &cfg.RedisAddr},
		{"sqlite_path", raw.SQLitePath, &cfg.SQLitePath},
		{"status_addr", raw.StatusAddr, &cfg.StatusAddr},
		{"otel_endpoint", raw.OTelEndpoint, &cfg.OTelEndpoint},
	}
	for _, s := range strs {
		if meta.IsDefined(s.key) {
			*s.target = strings.TrimSpace(s.value)
		}
	}

	durations := []struct {
		key    string
		value  string
		target *time.Duration
	}{
		{"shutdown_timeout", raw.ShutdownTimeout, &cfg.ShutdownTimeout},
		{"run_ttl", raw.RunTTL, &cfg.RunTTL},
		{"lease_ttl", raw.LeaseTTL, &cfg.LeaseTTL},
	}
	for _, d := range durations {
		if !meta.IsDefined(d.key) {
			continue
		}
		v, err := time.ParseDuration(strings.TrimSpace(d.value))
		if err != nil {
			return fmt.Errorf("parse %s: %w", d.key, err)
		}
		*d.target = v
	}

	if meta.IsDefined("color") {
		cfg.Color = raw.Color
	}
	return nil
}
