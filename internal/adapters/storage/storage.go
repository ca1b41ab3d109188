// Package storage selects the catalog store for the configured backend.
package storage

import (
	"fmt"
	"log/slog"

	"github.com/jsamuelsen/library-catalog/internal/adapters/storage/flatfile"
	"github.com/jsamuelsen/library-catalog/internal/adapters/storage/sqlite"
	"github.com/jsamuelsen/library-catalog/internal/platform/config"
	"github.com/jsamuelsen/library-catalog/internal/ports"
)

// Open returns the store for cfg.Backend and a function releasing it.
func Open(cfg config.StorageConfig, logger *slog.Logger) (ports.CatalogStore, func() error, error) {
	switch cfg.Backend {
	case config.BackendFile, "":
		store := flatfile.NewStore(flatfile.StoreConfig{Path: cfg.Path, Logger: logger})
		return store, func() error { return nil }, nil
	case config.BackendSQLite:
		store, err := sqlite.Open(sqlite.StoreConfig{Path: cfg.SQLitePath, Logger: logger})
		if err != nil {
			return nil, nil, fmt.Errorf("opening sqlite store: %w", err)
		}

		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
