// Package config provides configuration loading and management using koanf.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables that override config keys.
// CATALOG_STORAGE_PATH sets storage.path.
const EnvPrefix = "CATALOG_"

// Default configuration values.
const (
	// DefaultStoragePath is the catalog file used when none is configured.
	DefaultStoragePath = "books.txt"

	// DefaultSQLitePath is the database used by the sqlite backend.
	DefaultSQLitePath = "data/catalog.db"

	// DefaultLogFileMaxSizeMB is the default max log file size in megabytes.
	DefaultLogFileMaxSizeMB = 10

	// DefaultLogFileMaxBackups is the default number of old log files to retain.
	DefaultLogFileMaxBackups = 3

	// DefaultLogFileMaxAgeDays is the default max days to retain old log files.
	DefaultLogFileMaxAgeDays = 28
)

// Storage backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Config is the root configuration structure.
type Config struct {
	App       AppConfig       `koanf:"app"       validate:"required"`
	Storage   StorageConfig   `koanf:"storage"   validate:"required"`
	Log       LogConfig       `koanf:"log"       validate:"required"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Metrics   MetricsConfig   `koanf:"metrics"`
}

// AppConfig contains application-level settings.
type AppConfig struct {
	Name        string `koanf:"name"        validate:"required"`
	Version     string `koanf:"version"     validate:"required"`
	Environment string `koanf:"environment" validate:"required,oneof=local dev qa prod test"`
}

// StorageConfig selects where the catalog is persisted.
type StorageConfig struct {
	Backend    string `koanf:"backend"     validate:"required,oneof=file sqlite"`
	Path       string `koanf:"path"        validate:"required_if=Backend file"`
	SQLitePath string `koanf:"sqlite_path" validate:"required_if=Backend sqlite"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string        `koanf:"level"  validate:"required,oneof=trace debug info warn error"`
	Format string        `koanf:"format" validate:"required,oneof=json text pretty"`
	File   LogFileConfig `koanf:"file"`
}

// LogFileConfig contains rolling log file settings.
type LogFileConfig struct {
	Enabled    bool   `koanf:"enabled"`
	Path       string `koanf:"path"        validate:"required_if=Enabled true"`
	MaxSizeMB  int    `koanf:"max_size"    validate:"omitempty,min=1,max=1024"`
	MaxBackups int    `koanf:"max_backups" validate:"omitempty,min=0,max=100"`
	MaxAgeDays int    `koanf:"max_age"     validate:"omitempty,min=0,max=365"`
	Compress   bool   `koanf:"compress"`
}

// TelemetryConfig contains OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled      bool    `koanf:"enabled"`
	Endpoint     string  `koanf:"endpoint"      validate:"required_if=Enabled true"`
	ServiceName  string  `koanf:"service_name"  validate:"required_if=Enabled true"`
	SamplingRate float64 `koanf:"sampling_rate" validate:"min=0,max=1"`
}

// MetricsConfig controls the Prometheus textfile written at exit.
type MetricsConfig struct {
	// Textfile is the path of the .prom file; empty disables it.
	Textfile string `koanf:"textfile" validate:"omitempty,endswith=.prom"`
}

// defaults returns the default configuration values.
func defaults() map[string]any {
	return map[string]any{
		"app.name":        "library-catalog",
		"app.version":     "dev",
		"app.environment": "local",

		"storage.backend":     BackendFile,
		"storage.path":        DefaultStoragePath,
		"storage.sqlite_path": DefaultSQLitePath,

		"log.level":            "warn",
		"log.format":           "pretty",
		"log.file.enabled":     false,
		"log.file.path":        "./logs/catalog.log",
		"log.file.max_size":    DefaultLogFileMaxSizeMB,
		"log.file.max_backups": DefaultLogFileMaxBackups,
		"log.file.max_age":     DefaultLogFileMaxAgeDays,
		"log.file.compress":    true,

		"telemetry.enabled":       false,
		"telemetry.endpoint":      "",
		"telemetry.service_name":  "library-catalog",
		"telemetry.sampling_rate": 1.0,

		"metrics.textfile": "",
	}
}

// Load loads configuration with the following precedence (highest to lowest):
//  1. Environment variables (CATALOG_ prefix), including ones from ./.env
//  2. Profile config file (configs/{profile}.yaml)
//  3. Base config file (configs/base.yaml)
//  4. Default values
func Load(profile string) (*Config, error) {
	k := koanf.New(".")

	// 1. Load defaults
	err := k.Load(confmap.Provider(defaults(), "."), nil)
	if err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	// 2. Load base config file if it exists
	err = loadFileIfExists(k, "configs/base.yaml")
	if err != nil {
		return nil, fmt.Errorf("loading base config: %w", err)
	}

	// 3. Load profile config file if it exists
	if profile != "" {
		profilePath := fmt.Sprintf("configs/%s.yaml", profile)

		err := loadFileIfExists(k, profilePath)
		if err != nil {
			return nil, fmt.Errorf("loading profile config %q: %w", profile, err)
		}
	}

	// 4. Load .env into the process environment, then CATALOG_ variables.
	// Variables already set in the environment win over .env.
	err = loadDotEnvIfExists(".env")
	if err != nil {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	err = k.Load(env.Provider(EnvPrefix, ".", envKey), nil)
	if err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	var cfg Config

	err = k.Unmarshal("", &cfg)
	if err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return &cfg, nil
}

// envKey maps CATALOG_LOG_FILE_ENABLED to log.file.enabled. Keys whose names
// contain underscores (storage.sqlite_path, log.file.max_size, ...) are
// listed explicitly.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	if mapped, ok := underscoreKeys[key]; ok {
		return mapped
	}

	return strings.ReplaceAll(key, "_", ".")
}

var underscoreKeys = map[string]string{
	"storage_sqlite_path":     "storage.sqlite_path",
	"log_file_max_size":       "log.file.max_size",
	"log_file_max_backups":    "log.file.max_backups",
	"log_file_max_age":        "log.file.max_age",
	"telemetry_service_name":  "telemetry.service_name",
	"telemetry_sampling_rate": "telemetry.sampling_rate",
}

// loadFileIfExists loads a YAML config file if it exists.
// Returns nil if the file doesn't exist, error only for parse/read failures.
func loadFileIfExists(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return k.Load(file.Provider(path), yaml.Parser())
}

// loadDotEnvIfExists loads a dotenv file without overriding variables
// that are already set.
func loadDotEnvIfExists(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return godotenv.Load(path)
}
