// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application layer
// to depend on abstractions rather than concrete implementations.
package ports

import (
	"context"

	"github.com/jsamuelsen/library-catalog/internal/domain"
)

// CatalogStore persists full snapshots of the catalog.
//
// Stores never merge: Save replaces whatever was stored before, and Load
// returns the complete stored set.
type CatalogStore interface {
	// Load returns every stored record plus diagnostics for entries that
	// were skipped as malformed. Returns a *domain.NotFoundError if nothing
	// has been stored yet, and a *domain.IOError for any other failure.
	Load(ctx context.Context) (*LoadedSnapshot, error)

	// Save replaces the stored snapshot with records.
	// Returns a *domain.IOError on failure; the previous snapshot is kept.
	Save(ctx context.Context, records []domain.Record) error

	// Create initializes an empty store.
	Create(ctx context.Context) error

	// Location describes where the store lives, for log and user messages.
	Location() string
}

// LoadedSnapshot is the result of a successful Load.
type LoadedSnapshot struct {
	Records []domain.Record
	Skipped []SkippedEntry
}

// SkippedEntry describes one stored entry that could not be restored.
type SkippedEntry struct {
	// Line is the 1-based position of the entry in the store.
	Line   int
	Text   string
	Reason string
}
