package prefs

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `CREATE TABLE IF NOT EXISTS prefs (
	namespace TEXT NOT NULL,
	key       TEXT NOT NULL,
	value     INTEGER NOT NULL,
	PRIMARY KEY (namespace, key)
)`

// SQLiteStore keeps many namespaces in one sqlite database.
type SQLiteStore struct {
	db        *sql.DB
	namespace string
}

var _ Store = (*SQLiteStore)(nil)

// OpenSQLite opens (creating if needed) the database at path and scopes the
// store to namespace.
func OpenSQLite(path, namespace string) (*SQLiteStore, error) {
	if err := ValidateNamespace(namespace); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open preferences database: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize preferences database: %w", err)
	}
	return &SQLiteStore{db: db, namespace: namespace}, nil
}

func (s *SQLiteStore) GetInt(key string, def int) (int, error) {
	var v int
	err := s.db.QueryRow(
		`SELECT value FROM prefs WHERE namespace = ? AND key = ?`,
		s.namespace, key,
	).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return def, nil
	}
	if err != nil {
		return def, fmt.Errorf("failed to read %s/%s: %w", s.namespace, key, err)
	}
	return v, nil
}

func (s *SQLiteStore) PutInt(key string, value int) error {
	_, err := s.db.Exec(
		`INSERT INTO prefs (namespace, key, value) VALUES (?, ?, ?)
		 ON CONFLICT(namespace, key) DO UPDATE SET value = excluded.value`,
		s.namespace, key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to write %s/%s: %w", s.namespace, key, err)
	}
	return nil
}

func (s *SQLiteStore) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM prefs WHERE namespace = ?`, s.namespace); err != nil {
		return fmt.Errorf("failed to clear preferences %q: %w", s.namespace, err)
	}
	return nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
