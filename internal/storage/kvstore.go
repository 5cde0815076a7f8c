// Package storage provides the key-value persistence backends used by
// pomotask. Values are opaque strings; callers own their encoding.
package storage

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/valter-silva-au/pomotask/pkg/models"
)

// KVStore is a string key-value store.
type KVStore interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	// Clear removes every key.
	Clear(ctx context.Context) error
	Close() error
}

// Default file names for the on-disk backends, relative to the base path.
const (
	DefaultFileStoreName   = "pomotask.yaml"
	DefaultSQLiteStoreName = "pomotask.db"
)

// OpenKVStore opens the backend selected by cfg. A relative or empty path is
// resolved against basePath.
func OpenKVStore(basePath string, cfg models.StoreConfig) (KVStore, error) {
	switch cfg.Backend {
	case models.StoreBackendMemory:
		return NewMemoryKVStore(), nil
	case models.StoreBackendSQLite:
		return NewSQLiteKVStore(resolveStorePath(basePath, cfg.Path, DefaultSQLiteStoreName))
	case models.StoreBackendFile, "":
		return NewFileKVStore(resolveStorePath(basePath, cfg.Path, DefaultFileStoreName)), nil
	default:
		return nil, fmt.Errorf("opening store: unknown backend %q", cfg.Backend)
	}
}

func resolveStorePath(basePath, path, fallback string) string {
	if path == "" {
		return filepath.Join(basePath, fallback)
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(basePath, path)
}
