// Package config loads and validates application configuration.
// The API server reads environment variables (Load); the CLI reads a TOML
// file (LoadCLI, in cli.go).
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Storage drivers accepted in STORAGE_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// StorageDriver selects the trip store: "postgres" (default) or "sqlite".
	StorageDriver string

	// DatabaseURL is the Postgres connection string. Required for postgres.
	DatabaseURL string

	// SQLitePath is the database file for the sqlite driver.
	// Defaults to "schengen.db".
	SQLitePath string

	// AutoMigrate applies pending migrations at startup. Defaults to true.
	AutoMigrate bool

	// EnforceRule makes trip writes fail when they break the 90/180 rule.
	// Defaults to false so past overstays can be recorded.
	EnforceRule bool

	// MaxBodyBytes caps request bodies. Defaults to 1 MiB.
	MaxBodyBytes int64
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set and any
// values that cannot be parsed.
func Load() (Config, error) {
	cfg := Config{
		Port:          getEnv("PORT", "8080"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		CORSOrigins:   splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		StorageDriver: strings.ToLower(getEnv("STORAGE_DRIVER", DriverPostgres)),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		SQLitePath:    getEnv("SQLITE_PATH", "schengen.db"),
	}

	var missing, invalid []string

	switch cfg.StorageDriver {
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			missing = append(missing, "DATABASE_URL")
		}
	case DriverSQLite:
	default:
		invalid = append(invalid, fmt.Sprintf("STORAGE_DRIVER=%q (want postgres or sqlite)", cfg.StorageDriver))
	}

	var err error
	if cfg.AutoMigrate, err = getBool("AUTO_MIGRATE", true); err != nil {
		invalid = append(invalid, err.Error())
	}
	if cfg.EnforceRule, err = getBool("ENFORCE_RULE", false); err != nil {
		invalid = append(invalid, err.Error())
	}
	if cfg.MaxBodyBytes, err = getInt64("MAX_BODY_BYTES", 1<<20); err != nil {
		invalid = append(invalid, err.Error())
	} else if cfg.MaxBodyBytes <= 0 {
		invalid = append(invalid, "MAX_BODY_BYTES must be positive")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variables: %s", strings.Join(invalid, "; "))
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback, fmt.Errorf("%s=%q is not a boolean", key, v)
	}
	return b, nil
}

func getInt64(key string, fallback int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback, fmt.Errorf("%s=%q is not an integer", key, v)
	}
	return n, nil
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
