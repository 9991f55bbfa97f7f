package main

import (
	"github.com/1broseidon/tinygadget/internal/config"
	"github.com/1broseidon/tinygadget/internal/paths"
	"github.com/1broseidon/tinygadget/internal/prefs"
)

// preferenceStore is a prefs.Store that can also be cleared and released.
type preferenceStore interface {
	prefs.Store
	prefs.Clearer
	Close() error
}

type fileStore struct {
	*prefs.FileStore
}

func (fileStore) Close() error { return nil }

func openStore(cfg *config.Config) (preferenceStore, error) {
	switch cfg.Store {
	case config.StoreSQLite:
		path, err := paths.DatabaseFile()
		if err != nil {
			return nil, err
		}
		s, err := prefs.OpenSQLite(path, cfg.Namespace)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		dir, err := paths.PrefsDir()
		if err != nil {
			return nil, err
		}
		s, err := prefs.OpenFile(dir, cfg.Namespace)
		if err != nil {
			return nil, err
		}
		return fileStore{s}, nil
	}
}
