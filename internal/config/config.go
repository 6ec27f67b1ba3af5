// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults,
// overlays command-line flags, and validates all settings before the run
// starts so misconfiguration fails fast.
package config

import (
	"fmt"
	"strings"
)

// Config holds all application configuration.
// Every setting can be configured via environment variables; the path
// settings can also be overridden by command-line flags.
type Config struct {
	Paths    PathsConfig
	Output   OutputConfig
	Logging  LoggingConfig
	Database DatabaseConfig
}

// PathsConfig holds the input, output and log directories.
// Empty values resolve to the current working directory.
type PathsConfig struct {
	// Input is the directory scanned recursively for CSV files
	Input string `env:"LDAPBINDS_INPUT_PATH"`

	// OutputDir is where the deduplicated CSV is written
	OutputDir string `env:"LDAPBINDS_OUTPUT_DIR"`

	// LogDir is where the run log is written
	LogDir string `env:"LDAPBINDS_LOG_DIR"`
}

// OutputConfig holds export settings.
type OutputConfig struct {
	// Compress selects output compression: none or zstd (default: none)
	Compress string `env:"LDAPBINDS_COMPRESS" default:"none"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// DatabaseConfig holds the optional run history database settings.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string. Run history is disabled when empty.
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// MaxConns is the maximum number of connections in the pool (default: 2)
	MaxConns int `env:"DB_MAX_CONNS" default:"2"`
}

// HistoryEnabled reports whether runs should be recorded in Postgres.
func (c *DatabaseConfig) HistoryEnabled() bool {
	return strings.TrimSpace(c.URL) != ""
}

// String returns a safe string representation of the config for logging.
// Sensitive values like database URLs are masked.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Config{")
	b.WriteString(fmt.Sprintf("Paths: {Input: %q, OutputDir: %q, LogDir: %q}, ",
		c.Paths.Input, c.Paths.OutputDir, c.Paths.LogDir))
	b.WriteString(fmt.Sprintf("Output: {Compress: %q}, ", c.Output.Compress))
	if c.Database.HistoryEnabled() {
		b.WriteString(fmt.Sprintf("Database: {URL: [MASKED], MaxConns: %d}, ", c.Database.MaxConns))
	} else {
		b.WriteString("Database: {disabled}, ")
	}
	b.WriteString(fmt.Sprintf("Logging: {Level: %q, Format: %q}",
		c.Logging.Level, c.Logging.Format))
	b.WriteString("}")
	return b.String()
}
