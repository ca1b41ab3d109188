package flatfile

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jsamuelsen/library-catalog/internal/domain"
	"github.com/jsamuelsen/library-catalog/internal/platform/logging"
	"github.com/jsamuelsen/library-catalog/internal/ports"
)

// filePerm is applied to the catalog file on create and save.
const filePerm = 0o644

// Store keeps the catalog in a single text file.
type Store struct {
	path   string
	logger *slog.Logger
}

// StoreConfig contains configuration for the file store.
type StoreConfig struct {
	Path   string
	Logger *slog.Logger
}

var _ ports.CatalogStore = (*Store)(nil)

// NewStore creates a file store. The file is not touched until Load, Save
// or Create is called.
func NewStore(cfg StoreConfig) *Store {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Store{
		path:   cfg.Path,
		logger: logger.With(slog.String("component", "flatfile.Store")),
	}
}

// Location returns the file path.
func (s *Store) Location() string {
	return s.path
}

// Load reads and decodes the whole file.
// A missing file is reported as *domain.NotFoundError.
func (s *Store) Load(ctx context.Context) (*ports.LoadedSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewIOError("load", s.path, err)
	}

	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, domain.NewNotFoundError("catalog file", s.path)
	}

	if err != nil {
		return nil, domain.NewIOError("load", s.path, err)
	}
	defer f.Close()

	records, skipped, err := Decode(f)
	if err != nil {
		return nil, domain.NewIOError("load", s.path, err)
	}

	for _, entry := range skipped {
		s.logger.Log(ctx, logging.LevelTrace, "skipping malformed line",
			slog.Int("line", entry.Line),
			slog.String("text", entry.Text),
			slog.String("reason", entry.Reason),
		)
	}

	s.logger.DebugContext(ctx, "catalog file read",
		slog.String("path", s.path),
		slog.Int("records", len(records)),
		slog.Int("skipped", len(skipped)),
	)

	return &ports.LoadedSnapshot{Records: records, Skipped: skipped}, nil
}

// Save atomically replaces the file with records.
func (s *Store) Save(ctx context.Context, records []domain.Record) error {
	if err := ctx.Err(); err != nil {
		return domain.NewIOError("save", s.path, err)
	}

	if err := s.ensureDir(); err != nil {
		return domain.NewIOError("save", s.path, err)
	}

	err := writeFileAtomic(s.path, filePerm, func(f *os.File) error {
		return Encode(f, records)
	})
	if err != nil {
		return domain.NewIOError("save", s.path, err)
	}

	s.logger.DebugContext(ctx, "catalog file written",
		slog.String("path", s.path),
		slog.Int("records", len(records)),
	)

	return nil
}

// Create writes an empty catalog file, truncating any existing one.
func (s *Store) Create(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return domain.NewIOError("create", s.path, err)
	}

	if err := s.ensureDir(); err != nil {
		return domain.NewIOError("create", s.path, err)
	}

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePerm)
	if err != nil {
		return domain.NewIOError("create", s.path, err)
	}

	if err := f.Close(); err != nil {
		return domain.NewIOError("create", s.path, err)
	}

	return nil
}

func (s *Store) ensureDir() error {
	dir := filepath.Dir(s.path)
	if dir == "." {
		return nil
	}

	return os.MkdirAll(dir, 0o755)
}
