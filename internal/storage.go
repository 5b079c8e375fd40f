package internal

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/starford/jotpad/internal/storage"
)

// openStorage opens the configured key-value backend, creating its
// directory when needed.
func openStorage(cfg StorageConfig) (storage.Provider, error) {
	switch cfg.Driver {
	case StorageDriverMemory:
		return storage.NewMemory(), nil

	case StorageDriverFile:
		if err := os.MkdirAll(cfg.Path, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
		return storage.NewFS(cfg.Path)

	case StorageDriverSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
		return storage.OpenSQLite(cfg.Path)

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
