// Package paths resolves the configuration and data directories.
//
// Both follow the same precedence: an explicit flag, then (for the data
// directory) the value from config.yaml, then an environment variable, then
// the per-user platform directory from the XDG base directories.
package paths

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// AppName names the per-user subdirectories.
const AppName = "skilllog"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "SKILLLOG_CONFIG_DIR"
	EnvDataDir   = "SKILLLOG_DATA_DIR"
)

// platformDir holds the base-directory lookups; tests override them.
var platformDir = struct {
	configHome func() string
	dataHome   func() string
}{
	configHome: func() string { return baseDir("XDG_CONFIG_HOME", xdg.ConfigHome) },
	dataHome:   func() string { return baseDir("XDG_DATA_HOME", xdg.DataHome) },
}

// baseDir prefers the live environment over the value xdg computed at
// startup, so changes made after init are honored.
func baseDir(env, fallback string) string {
	if v := os.Getenv(env); v != "" {
		return v
	}
	return fallback
}

var errNoBaseDir = errors.New("cannot determine per-user base directory")

// DefaultConfigDir returns the per-user configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/skilllog (fallback ~/.config/skilllog)
// macOS:   ~/Library/Application Support/skilllog
// Windows: %LOCALAPPDATA%/skilllog
func DefaultConfigDir() (string, error) {
	return appDir(platformDir.configHome())
}

// DefaultDataDir returns the per-user data directory.
//
// Linux:   $XDG_DATA_HOME/skilllog (fallback ~/.local/share/skilllog)
// macOS:   ~/Library/Application Support/skilllog
// Windows: %LOCALAPPDATA%/skilllog
func DefaultDataDir() (string, error) {
	return appDir(platformDir.dataHome())
}

func appDir(base string) (string, error) {
	if base == "" {
		return "", errNoBaseDir
	}
	return filepath.Join(base, AppName), nil
}

// ResolveConfigDir returns the configuration directory: flag >
// SKILLLOG_CONFIG_DIR > DefaultConfigDir(). Relative paths are made
// absolute.
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns the data directory: flag > config.yaml data_dir >
// SKILLLOG_DATA_DIR > DefaultDataDir(). Relative paths are made absolute.
func ResolveDataDir(flag, configValue string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configValue != "" {
		return filepath.Abs(configValue)
	}
	if env := os.Getenv(EnvDataDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultDataDir()
}
