// Package config provides centralized configuration for the student records manager.
// Settings come from environment variables (optionally seeded from a .env file by main)
// and are validated on startup so a misconfigured run fails before touching the store.
package config

import (
	"fmt"
	"strings"
)

// Config holds all application configuration.
type Config struct {
	Store     StoreConfig
	Import    ImportConfig
	Reference ReferenceConfig
	Logging   LoggingConfig
}

// StoreConfig holds storage settings.
type StoreConfig struct {
	// DSN is a file path for the embedded SQLite store or a postgres:// URL (default: students.db)
	DSN string `env:"STUDENTDB_DSN" envAlt:"DATABASE_URL" default:"students.db"`
}

// ImportConfig holds bulk import settings.
type ImportConfig struct {
	// File is the CSV file read by the import menu option (default: students.csv)
	File string `env:"STUDENTDB_IMPORT_FILE" default:"students.csv"`

	// Seed seeds advisor assignment; 0 means seed from the clock
	Seed int64 `env:"STUDENTDB_IMPORT_SEED" default:"0"`
}

// ReferenceConfig points at optional reference data overrides.
type ReferenceConfig struct {
	// File is a YAML file with states and advisors; empty uses the built-in lists
	File string `env:"STUDENTDB_REFERENCE_FILE"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: warn)
	Level string `env:"LOG_LEVEL" default:"warn"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`

	// Output is stderr, stdout, or a file path (default: stderr)
	Output string `env:"LOG_OUTPUT" default:"stderr"`
}

// IsPostgres reports whether the DSN addresses a PostgreSQL server.
func (c *StoreConfig) IsPostgres() bool {
	dsn := strings.ToLower(c.DSN)
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// String returns a safe representation of the config for logging.
// Server DSNs may carry credentials and are masked; file paths are shown.
func (c *Config) String() string {
	dsn := c.Store.DSN
	if c.Store.IsPostgres() {
		dsn = "[MASKED]"
	}

	var b strings.Builder
	b.WriteString("Config{")
	b.WriteString(fmt.Sprintf("Store: {DSN: %s}, ", dsn))
	b.WriteString(fmt.Sprintf("Import: {File: %q, Seed: %d}, ", c.Import.File, c.Import.Seed))
	b.WriteString(fmt.Sprintf("Reference: {File: %q}, ", c.Reference.File))
	b.WriteString(fmt.Sprintf("Logging: {Level: %q, Format: %q, Output: %q}",
		c.Logging.Level, c.Logging.Format, c.Logging.Output))
	b.WriteString("}")
	return b.String()
}
