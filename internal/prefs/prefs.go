// Package prefs stores small integer preferences under a namespace.
package prefs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrInvalidNamespace is returned for namespaces that are empty or could
// escape the preferences directory.
var ErrInvalidNamespace = errors.New("invalid namespace")

// Store is a namespaced key/value record of integers.
type Store interface {
	PutInt(key string, value int) error
	// GetInt returns def when key has never been written.
	GetInt(key string, def int) (int, error)
}

// Clearer is implemented by stores that can drop every key in their namespace.
type Clearer interface {
	Clear() error
}

// ValidateNamespace checks that name is usable as a file name and table key.
func ValidateNamespace(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("%w: namespace is required", ErrInvalidNamespace)
	}
	if trimmed != name || strings.ContainsRune(name, os.PathSeparator) || name != filepath.Base(name) {
		return fmt.Errorf("%w: %q", ErrInvalidNamespace, name)
	}
	if strings.Contains(name, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidNamespace, name)
	}
	return nil
}

// Memory is a Store kept in process memory.
type Memory struct {
	values map[string]int
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]int)}
}

func (m *Memory) PutInt(key string, value int) error {
	m.values[key] = value
	return nil
}

func (m *Memory) GetInt(key string, def int) (int, error) {
	if v, ok := m.values[key]; ok {
		return v, nil
	}
	return def, nil
}

func (m *Memory) Clear() error {
	m.values = make(map[string]int)
	return nil
}
