package prefs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestValidateNamespace(t *testing.T) {
	valid := []string{"clock", "com.example.gadget", "weather_2"}
	for _, name := range valid {
		if err := ValidateNamespace(name); err != nil {
			t.Fatalf("ValidateNamespace(%q) unexpected error: %v", name, err)
		}
	}
	invalid := []string{"", "  ", "a/b", "..", "x..y", " padded"}
	for _, name := range invalid {
		if err := ValidateNamespace(name); !errors.Is(err, ErrInvalidNamespace) {
			t.Fatalf("ValidateNamespace(%q) = %v, want ErrInvalidNamespace", name, err)
		}
	}
}

func exerciseStore(t *testing.T, open func() Store) {
	t.Helper()
	s := open()

	v, err := s.GetInt("stageX", 42)
	if err != nil || v != 42 {
		t.Fatalf("GetInt on empty store = %d, %v; want 42", v, err)
	}
	if err := s.PutInt("stageX", -17); err != nil {
		t.Fatalf("PutInt: %v", err)
	}
	if err := s.PutInt("stageX", 100); err != nil {
		t.Fatalf("PutInt overwrite: %v", err)
	}

	fresh := open()
	v, err = fresh.GetInt("stageX", 0)
	if err != nil || v != 100 {
		t.Fatalf("fresh GetInt = %d, %v; want 100", v, err)
	}
	v, err = fresh.GetInt("stageY", 7)
	if err != nil || v != 7 {
		t.Fatalf("missing key = %d, %v; want default 7", v, err)
	}

	c, ok := fresh.(Clearer)
	if !ok {
		t.Fatalf("%T does not implement Clearer", fresh)
	}
	if err := c.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	v, _ = open().GetInt("stageX", 5)
	if v != 5 {
		t.Fatalf("after Clear got %d, want default", v)
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	exerciseStore(t, func() Store {
		s, err := OpenFile(dir, "clock")
		if err != nil {
			t.Fatalf("OpenFile: %v", err)
		}
		return s
	})
}

func TestFileStoreNamespacesAreIsolated(t *testing.T) {
	dir := t.TempDir()
	a, _ := OpenFile(dir, "a")
	b, _ := OpenFile(dir, "b")

	if err := a.PutInt("stageWidth", 640); err != nil {
		t.Fatalf("PutInt: %v", err)
	}
	if v, _ := b.GetInt("stageWidth", 320); v != 320 {
		t.Fatalf("namespace b saw a's value %d", v)
	}
	if _, err := os.Stat(filepath.Join(dir, "a.yaml")); err != nil {
		t.Fatalf("expected a.yaml to exist: %v", err)
	}
}

func TestFileStoreRejectsCorruptFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("stageX: [unterminated"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	s, _ := OpenFile(dir, "bad")
	if _, err := s.GetInt("stageX", 0); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestOpenFileValidatesNamespace(t *testing.T) {
	if _, err := OpenFile(t.TempDir(), "../escape"); !errors.Is(err, ErrInvalidNamespace) {
		t.Fatalf("expected ErrInvalidNamespace, got %v", err)
	}
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.db")
	var opened []*SQLiteStore
	t.Cleanup(func() {
		for _, s := range opened {
			s.Close()
		}
	})
	exerciseStore(t, func() Store {
		s, err := OpenSQLite(path, "clock")
		if err != nil {
			t.Fatalf("OpenSQLite: %v", err)
		}
		opened = append(opened, s)
		return s
	})
}

func TestSQLiteStoreNamespacesAreIsolated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.db")
	a, err := OpenSQLite(path, "a")
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer a.Close()
	b, err := OpenSQLite(path, "b")
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer b.Close()

	if err := a.PutInt("stageHeight", 480); err != nil {
		t.Fatalf("PutInt: %v", err)
	}
	if err := b.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if v, _ := a.GetInt("stageHeight", 200); v != 480 {
		t.Fatalf("clearing b removed a's value, got %d", v)
	}
}

func TestMemoryStore(t *testing.T) {
	m := NewMemory()
	exerciseStore(t, func() Store { return m })
}
