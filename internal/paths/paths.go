// Package paths resolves the configuration directory and the database
// location for the inspector CLI.
package paths

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
)

// appName names the per-user configuration directory.
const appName = "inspector"

// ConfigFileName is the configuration file read from the config directory.
const ConfigFileName = "config.yaml"

// Environment variable names for overrides.
const (
	EnvConfigDir = "INSPECTOR_CONFIG_DIR"
	EnvDatabase  = "INSPECTOR_DATABASE"
)

// ErrNoDatabase is returned when no database location is configured.
var ErrNoDatabase = errors.New("no database configured")

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/inspector (fallback ~/.config/inspector)
// macOS:   ~/Library/Application Support/inspector
// Windows: %APPDATA%/inspector
func DefaultConfigDir() (string, error) {
	if runtime.GOOS == "linux" {
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, appName), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", appName), nil
	}
	dir, err := platformDir.userConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName), nil
}

// ResolveConfigDir returns the configuration directory following the
// precedence chain: flag > INSPECTOR_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDatabase returns the database location following the precedence
// chain: flag > config file value > INSPECTOR_DATABASE env. A relative
// config file value is taken relative to configDir; flag and env values are
// relative to the working directory. It returns ErrNoDatabase when none is set.
func ResolveDatabase(flag, configValue, configDir string) (string, error) {
	switch {
	case flag != "":
		return filepath.Abs(flag)
	case configValue != "":
		if !filepath.IsAbs(configValue) && configDir != "" {
			configValue = filepath.Join(configDir, configValue)
		}
		return filepath.Abs(configValue)
	}
	if env := os.Getenv(EnvDatabase); env != "" {
		return filepath.Abs(env)
	}
	return "", ErrNoDatabase
}
