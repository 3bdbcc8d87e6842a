// Package pathutil resolves per-user mtt directories and validates names.
package pathutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// AppName is the directory name used under the per-user data and config dirs.
const AppName = "mtt"

// Overridable for tests.
var (
	goos        = runtime.GOOS
	getenv      = os.Getenv
	userHomeDir = os.UserHomeDir
)

// UserDataDir returns the OS-specific per-user data directory:
// $XDG_DATA_HOME or ~/.local/share on Unix, ~/Library/Application Support
// on macOS, %APPDATA% on Windows.
func UserDataDir() (string, error) {
	switch goos {
	case "windows":
		if dir := getenv("APPDATA"); dir != "" {
			return dir, nil
		}
		return "", errors.New("APPDATA is not set")
	case "darwin", "ios":
		home, err := userHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		return filepath.Join(home, "Library", "Application Support"), nil
	default:
		if dir := getenv("XDG_DATA_HOME"); dir != "" && filepath.IsAbs(dir) {
			return dir, nil
		}
		home, err := userHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		return filepath.Join(home, ".local", "share"), nil
	}
}

// UserConfigDir returns the OS-specific per-user config directory.
func UserConfigDir() (string, error) {
	if goos != "windows" && goos != "darwin" && goos != "ios" {
		if dir := getenv("XDG_CONFIG_HOME"); dir != "" && filepath.IsAbs(dir) {
			return dir, nil
		}
		home, err := userHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		return filepath.Join(home, ".config"), nil
	}
	return os.UserConfigDir()
}

// AppDataDir returns <override or user data dir>/mtt and creates it.
// A non-empty override is used verbatim (without the mtt suffix).
func AppDataDir(override string) (string, error) {
	dir := override
	if dir == "" {
		base, err := UserDataDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(base, AppName)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create data directory %s: %w", dir, err)
	}
	return dir, nil
}

// DefaultConfigPath returns <user config dir>/mtt/config.yaml.
func DefaultConfigPath() (string, error) {
	base, err := UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, AppName, "config.yaml"), nil
}
