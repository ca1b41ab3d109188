// Package sqlite stores catalog snapshots in a SQLite database using the
// cgo-free modernc.org/sqlite driver. It is an alternative to the flat file
// behind the same port and keeps the same full-replace semantics.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/jsamuelsen/library-catalog/internal/domain"
	"github.com/jsamuelsen/library-catalog/internal/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS catalog_meta (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	saved_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS books (
	position INTEGER NOT NULL,
	identifier TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	author TEXT NOT NULL,
	available INTEGER NOT NULL
);
`

// Store keeps catalog snapshots in SQLite.
type Store struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// StoreConfig contains configuration for the SQLite store.
type StoreConfig struct {
	Path   string
	Logger *slog.Logger
}

var _ ports.CatalogStore = (*Store)(nil)

// Open opens (creating if needed) the database at cfg.Path and applies the schema.
func Open(cfg StoreConfig) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("sqlite path is empty")
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// One connection: the catalog is single-threaded and this keeps
	// pragmas applied to every statement.
	db.SetMaxOpenConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Store{
		db:     db,
		path:   cfg.Path,
		logger: logger.With(slog.String("component", "sqlite.Store")),
	}, nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA busy_timeout = 5000;",
	}

	for _, stmt := range pragmas {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("applying pragma: %w", err)
		}
	}

	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}

	return s.db.Close()
}

// Location returns the database path.
func (s *Store) Location() string {
	return s.path
}

// Load returns the stored snapshot. A database that has never been saved
// to is reported as *domain.NotFoundError.
func (s *Store) Load(ctx context.Context) (*ports.LoadedSnapshot, error) {
	var saved int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM catalog_meta`).Scan(&saved); err != nil {
		return nil, domain.NewIOError("load", s.path, err)
	}

	if saved == 0 {
		return nil, domain.NewNotFoundError("catalog database", s.path)
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT title, author, identifier, available
FROM books
ORDER BY position
`)
	if err != nil {
		return nil, domain.NewIOError("load", s.path, err)
	}
	defer rows.Close()

	snap := &ports.LoadedSnapshot{}
	line := 0

	for rows.Next() {
		line++

		var (
			title, author, id string
			available         bool
		)

		if err := rows.Scan(&title, &author, &id, &available); err != nil {
			return nil, domain.NewIOError("load", s.path, err)
		}

		if id == "" {
			snap.Skipped = append(snap.Skipped, ports.SkippedEntry{Line: line, Text: title, Reason: "empty identifier"})
			continue
		}

		snap.Records = append(snap.Records, domain.NewRecord(title, author, id, available))
	}

	if err := rows.Err(); err != nil {
		return nil, domain.NewIOError("load", s.path, err)
	}

	return snap, nil
}

// Save replaces the stored snapshot inside one transaction.
func (s *Store) Save(ctx context.Context, records []domain.Record) error {
	err := s.replace(ctx, records)
	if err != nil {
		return domain.NewIOError("save", s.path, err)
	}

	s.logger.DebugContext(ctx, "catalog database written",
		slog.String("path", s.path),
		slog.Int("records", len(records)),
	)

	return nil
}

// Create marks the database as initialized with an empty catalog.
func (s *Store) Create(ctx context.Context) error {
	if err := s.replace(ctx, nil); err != nil {
		return domain.NewIOError("create", s.path, err)
	}

	return nil
}

func (s *Store) replace(ctx context.Context, records []domain.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM books`); err != nil {
		return fmt.Errorf("clearing books: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO books (position, identifier, title, author, available)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(identifier) DO UPDATE SET
	position = excluded.position,
	title = excluded.title,
	author = excluded.author,
	available = excluded.available
`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		if _, err := stmt.ExecContext(ctx, i, r.Identifier(), r.Title(), r.Author(), r.Available()); err != nil {
			return fmt.Errorf("inserting %q: %w", r.Identifier(), err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
INSERT INTO catalog_meta (id, saved_at) VALUES (1, CURRENT_TIMESTAMP)
ON CONFLICT(id) DO UPDATE SET saved_at = excluded.saved_at
`); err != nil {
		return fmt.Errorf("updating meta: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing: %w", err)
	}

	return nil
}
