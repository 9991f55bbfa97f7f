package prefs

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileStore keeps one namespace in a YAML file named <namespace>.yaml. Every
// call goes to disk, so two stores on the same file observe each other's
// writes.
type FileStore struct {
	path      string
	namespace string
}

var _ Store = (*FileStore)(nil)

// OpenFile returns the store for namespace under dir. The file is created on
// first write.
func OpenFile(dir, namespace string) (*FileStore, error) {
	if err := ValidateNamespace(namespace); err != nil {
		return nil, err
	}
	return &FileStore{
		path:      filepath.Join(dir, namespace+".yaml"),
		namespace: namespace,
	}, nil
}

// Path returns the backing file.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) GetInt(key string, def int) (int, error) {
	values, err := s.read()
	if err != nil {
		return def, err
	}
	if v, ok := values[key]; ok {
		return v, nil
	}
	return def, nil
}

func (s *FileStore) PutInt(key string, value int) error {
	values, err := s.read()
	if err != nil {
		return err
	}
	values[key] = value
	return s.write(values)
}

func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear preferences %q: %w", s.namespace, err)
	}
	return nil
}

func (s *FileStore) read() (map[string]int, error) {
	values := make(map[string]int)
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return values, nil
		}
		return nil, fmt.Errorf("failed to read preferences %q: %w", s.namespace, err)
	}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse preferences %q: %w", s.namespace, err)
	}
	if values == nil {
		values = make(map[string]int)
	}
	return values, nil
}

func (s *FileStore) write(values map[string]int) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create preferences directory: %w", err)
	}
	data, err := yaml.Marshal(values)
	if err != nil {
		return fmt.Errorf("failed to encode preferences %q: %w", s.namespace, err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write preferences %q: %w", s.namespace, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to write preferences %q: %w", s.namespace, err)
	}
	return nil
}
