package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
)

func withXDG(t *testing.T) (configHome, dataHome string) {
	t.Helper()
	configHome = t.TempDir()
	dataHome = t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)
	t.Setenv("XDG_DATA_HOME", dataHome)
	xdg.Reload()
	t.Cleanup(xdg.Reload)
	return configHome, dataHome
}

func TestConfigFileUnderConfigHome(t *testing.T) {
	configHome, _ := withXDG(t)

	path, err := ConfigFile()
	if err != nil {
		t.Fatalf("ConfigFile: %v", err)
	}
	if want := filepath.Join(configHome, AppName, "config.yaml"); path != want {
		t.Fatalf("expected %s, got %s", want, path)
	}
	if info, err := os.Stat(filepath.Dir(path)); err != nil || !info.IsDir() {
		t.Fatalf("config dir not created: %v", err)
	}
}

func TestDataPathsUnderDataHome(t *testing.T) {
	_, dataHome := withXDG(t)

	dir, err := PrefsDir()
	if err != nil {
		t.Fatalf("PrefsDir: %v", err)
	}
	if want := filepath.Join(dataHome, AppName, "prefs"); dir != want {
		t.Fatalf("expected %s, got %s", want, dir)
	}

	db, err := DatabaseFile()
	if err != nil {
		t.Fatalf("DatabaseFile: %v", err)
	}
	if want := filepath.Join(dataHome, AppName, "prefs.db"); db != want {
		t.Fatalf("expected %s, got %s", want, db)
	}
}
