package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// DefaultDataDir returns the per-user directory archives are stored in:
// $XDG_DATA_HOME/dunfell when set, otherwise the platform's user data
// location, falling back to ./dunfell-data without a home directory.
func DefaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "dunfell")
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "./dunfell-data"
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Dunfell")
	case "windows":
		return filepath.Join(home, "AppData", "Local", "Dunfell")
	default:
		return filepath.Join(home, ".local", "share", "dunfell")
	}
}
