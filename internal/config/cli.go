package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// CLIConfig holds the settings of the schengen command-line tool.
type CLIConfig struct {
	Store   StoreConfig   `toml:"store"`
	Display DisplayConfig `toml:"display"`
	Rules   RulesConfig   `toml:"rules"`
}

// StoreConfig locates the local trip database.
type StoreConfig struct {
	// Path is the SQLite file. Empty means DataDir()/trips.db.
	Path string `toml:"path,omitempty"`
}

// DisplayConfig holds output preferences.
type DisplayConfig struct {
	// Color enables styled terminal output.
	Color bool `toml:"color"`
	// ExportFormat is the default for `export`: json, csv or ics.
	ExportFormat string `toml:"export_format"`
}

// RulesConfig mirrors the server's ENFORCE_RULE switch for local writes.
type RulesConfig struct {
	Enforce bool `toml:"enforce"`
}

// DefaultCLIConfig returns the configuration used when no file exists.
func DefaultCLIConfig() CLIConfig {
	return CLIConfig{
		Display: DisplayConfig{Color: true, ExportFormat: "csv"},
	}
}

// CLIConfigDir returns the XDG-compliant config directory.
func CLIConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "schengen")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "schengen")
}

// CLIConfigPath returns the full path to the default config file.
func CLIConfigPath() string {
	return filepath.Join(CLIConfigDir(), "config.toml")
}

// DataDir returns the XDG-compliant data directory holding the trip store.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "schengen")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "schengen")
}

// StorePath returns the configured SQLite path or the default location.
func (c CLIConfig) StorePath() string {
	if c.Store.Path != "" {
		return c.Store.Path
	}
	return filepath.Join(DataDir(), "trips.db")
}

// LoadCLI reads the config file at path, returning defaults if it doesn't exist.
func LoadCLI(path string) (CLIConfig, error) {
	cfg := DefaultCLIConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, fmt.Errorf("parsing config: unknown key %q", undecoded[0].String())
	}

	switch cfg.Display.ExportFormat {
	case "json", "csv", "ics":
	default:
		return cfg, fmt.Errorf("parsing config: display.export_format %q (want json, csv or ics)", cfg.Display.ExportFormat)
	}
	return cfg, nil
}

// SaveCLI writes cfg to path, creating its directory.
func SaveCLI(path string, cfg CLIConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}
