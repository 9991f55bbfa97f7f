// Package paths resolves where tinygadget keeps its files, following the XDG
// base directory layout.
package paths

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// AppName is the directory name used under each XDG base directory.
const AppName = "tinygadget"

// ConfigFile returns the default config.yaml path. Parent directories are
// created.
func ConfigFile() (string, error) {
	path, err := xdg.ConfigFile(filepath.Join(AppName, "config.yaml"))
	if err != nil {
		return "", fmt.Errorf("failed to resolve config path: %w", err)
	}
	return path, nil
}

// PrefsDir returns the directory holding per-namespace YAML preference files.
func PrefsDir() (string, error) {
	dir := filepath.Join(xdg.DataHome, AppName, "prefs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create prefs dir: %w", err)
	}
	return dir, nil
}

// DatabaseFile returns the SQLite preference database path.
func DatabaseFile() (string, error) {
	path, err := xdg.DataFile(filepath.Join(AppName, "prefs.db"))
	if err != nil {
		return "", fmt.Errorf("failed to resolve database path: %w", err)
	}
	return path, nil
}
