// Package app contains application services that orchestrate use cases.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jsamuelsen/library-catalog/internal/domain"
	"github.com/jsamuelsen/library-catalog/internal/platform/telemetry"
	"github.com/jsamuelsen/library-catalog/internal/ports"
)

// ErrCreateStore marks a failure to initialize an empty store after the
// catalog was found missing.
var ErrCreateStore = errors.New("creating catalog store")

// ErrNotLoaded is returned by Save after a Load that failed for a reason
// other than a missing store. The stored data is left untouched.
var ErrNotLoaded = errors.New("stored catalog could not be loaded, refusing to overwrite it")

// Recorder receives per-operation counts. *metrics.Registry implements it.
type Recorder interface {
	ObserveOperation(operation, outcome string)
	AddSkipped(n int)
	SetInventory(total, borrowed int)
}

// CatalogService owns one catalog and the store it is persisted to.
// It depends on port interfaces, not concrete implementations.
type CatalogService struct {
	catalog     *domain.Catalog
	store       ports.CatalogStore
	logger      *slog.Logger
	recorder    Recorder
	instruments *telemetry.StoreInstruments

	// loadFailed blocks Save until a Load succeeds.
	loadFailed bool
}

// CatalogServiceConfig contains the dependencies of the catalog service.
type CatalogServiceConfig struct {
	Store  ports.CatalogStore
	Logger *slog.Logger

	// Recorder is optional; nil disables operation counting.
	Recorder Recorder

	// Instruments is optional; nil uses instruments from the global
	// OpenTelemetry providers.
	Instruments *telemetry.StoreInstruments
}

// LoadResult describes what Load restored.
type LoadResult struct {
	// Created is set when no stored catalog existed and an empty one was
	// created instead.
	Created bool
	Loaded  int
	Skipped []ports.SkippedEntry
}

// NewCatalogService creates a service with an empty catalog.
// Panics if cfg.Store is nil.
func NewCatalogService(cfg CatalogServiceConfig) (*CatalogService, error) {
	if cfg.Store == nil {
		panic("app: CatalogServiceConfig.Store is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	instruments := cfg.Instruments
	if instruments == nil {
		var err error

		instruments, err = telemetry.NewStoreInstruments()
		if err != nil {
			return nil, fmt.Errorf("creating store instruments: %w", err)
		}
	}

	recorder := cfg.Recorder
	if recorder == nil {
		recorder = nopRecorder{}
	}

	return &CatalogService{
		catalog:     domain.NewCatalog(),
		store:       cfg.Store,
		logger:      logger.With(slog.String("component", "catalog")),
		recorder:    recorder,
		instruments: instruments,
	}, nil
}

// Add inserts an already constructed record.
func (s *CatalogService) Add(ctx context.Context, r domain.Record) domain.Outcome {
	out := s.catalog.Add(r)
	s.observe(ctx, "add", out, slog.String("isbn", r.Identifier()))

	return out
}

// AddFromInput validates the collected fields and adds the record as
// available. A *domain.ValidationError is returned for invalid input and
// the catalog is left unchanged.
func (s *CatalogService) AddFromInput(ctx context.Context, title, author, identifier string) (domain.Outcome, error) {
	r, err := domain.ParseRecord(title, author, identifier)
	if err != nil {
		s.logger.DebugContext(ctx, "rejected book input", slog.Any("error", err))
		s.recorder.ObserveOperation("add", "invalid_input")

		return domain.Outcome{}, err
	}

	return s.Add(ctx, r), nil
}

// Remove deletes the record with the given identifier.
func (s *CatalogService) Remove(ctx context.Context, identifier string) domain.Outcome {
	out := s.catalog.Remove(identifier)
	s.observe(ctx, "remove", out, slog.String("isbn", identifier))

	return out
}

// Search returns records whose title, author or identifier contain query.
func (s *CatalogService) Search(ctx context.Context, query string) domain.Outcome {
	out := s.catalog.Search(query)
	s.observe(ctx, "search", out, slog.Int("matches", len(out.Records)))

	return out
}

// Borrow marks an available record as borrowed.
func (s *CatalogService) Borrow(ctx context.Context, identifier string) domain.Outcome {
	out := s.catalog.Borrow(identifier)
	s.observe(ctx, "borrow", out, slog.String("isbn", identifier))

	return out
}

// Return marks a borrowed record as available.
func (s *CatalogService) Return(ctx context.Context, identifier string) domain.Outcome {
	out := s.catalog.Return(identifier)
	s.observe(ctx, "return", out, slog.String("isbn", identifier))

	return out
}

// List returns every record.
func (s *CatalogService) List(ctx context.Context) domain.Outcome {
	out := s.catalog.List()
	s.observe(ctx, "list", out, slog.Int("records", len(out.Records)))

	return out
}

// Len returns the number of records in the catalog.
func (s *CatalogService) Len() int {
	return s.catalog.Len()
}

// Load replaces the catalog with the stored snapshot.
//
// A missing store is not an error: the catalog is emptied, an empty store
// is created and the result has Created set. If creating it fails, the
// returned error wraps ErrCreateStore. On any error the catalog is left
// empty. Any other load error also makes later Saves fail with
// ErrNotLoaded, so unreadable data is never replaced by an empty catalog.
func (s *CatalogService) Load(ctx context.Context) (LoadResult, error) {
	ctx, call := s.instruments.Start(ctx, "load", s.store.Location())

	snap, err := s.store.Load(ctx)
	if err != nil {
		s.catalog.Replace(nil)
		defer s.refreshInventory()

		if !domain.IsNotFound(err) {
			s.loadFailed = true
			call.End(ctx, 0, err)
			s.logger.ErrorContext(ctx, "failed to load catalog", slog.Any("error", err))
			s.recorder.ObserveOperation("load", "error")

			return LoadResult{}, fmt.Errorf("loading catalog: %w", err)
		}

		s.logger.InfoContext(ctx, "no stored catalog, creating a new one",
			slog.String("location", s.store.Location()),
		)

		if err := s.store.Create(ctx); err != nil {
			call.End(ctx, 0, err)
			s.logger.ErrorContext(ctx, "failed to create catalog store", slog.Any("error", err))
			s.recorder.ObserveOperation("load", "error")

			return LoadResult{}, fmt.Errorf("%w: %w", ErrCreateStore, err)
		}

		s.loadFailed = false
		call.End(ctx, 0, nil)
		s.recorder.ObserveOperation("load", "created")

		return LoadResult{Created: true}, nil
	}

	s.loadFailed = false
	s.catalog.Replace(snap.Records)
	s.refreshInventory()

	for _, skipped := range snap.Skipped {
		s.logger.WarnContext(ctx, "skipped malformed catalog entry",
			slog.Int("line", skipped.Line),
			slog.String("reason", skipped.Reason),
		)
	}

	s.recorder.AddSkipped(len(snap.Skipped))
	s.recorder.ObserveOperation("load", "loaded")
	call.End(ctx, s.catalog.Len(), nil)

	s.logger.InfoContext(ctx, "catalog loaded",
		slog.Int("records", s.catalog.Len()),
		slog.Int("skipped", len(snap.Skipped)),
	)

	return LoadResult{Loaded: s.catalog.Len(), Skipped: snap.Skipped}, nil
}

// Save writes the full catalog to the store, replacing what was there.
func (s *CatalogService) Save(ctx context.Context) error {
	if s.loadFailed {
		s.logger.ErrorContext(ctx, "catalog not saved, last load failed",
			slog.String("location", s.store.Location()),
		)
		s.recorder.ObserveOperation("save", "refused")

		return fmt.Errorf("saving catalog: %w", ErrNotLoaded)
	}

	ctx, call := s.instruments.Start(ctx, "save", s.store.Location())

	records := s.catalog.Snapshot()

	if err := s.store.Save(ctx, records); err != nil {
		call.End(ctx, 0, err)
		s.logger.ErrorContext(ctx, "failed to save catalog", slog.Any("error", err))
		s.recorder.ObserveOperation("save", "error")

		return fmt.Errorf("saving catalog: %w", err)
	}

	call.End(ctx, len(records), nil)
	s.recorder.ObserveOperation("save", "saved")
	s.logger.InfoContext(ctx, "catalog saved", slog.Int("records", len(records)))

	return nil
}

func (s *CatalogService) observe(ctx context.Context, op string, out domain.Outcome, attrs ...slog.Attr) {
	s.recorder.ObserveOperation(op, string(out.Kind))
	s.refreshInventory()

	level := slog.LevelDebug
	if out.OK() {
		level = slog.LevelInfo
	}

	attrs = append(attrs, slog.String("operation", op), slog.String("outcome", string(out.Kind)))
	s.logger.LogAttrs(ctx, level, "catalog operation", attrs...)
}

func (s *CatalogService) refreshInventory() {
	s.recorder.SetInventory(s.catalog.Len(), s.catalog.Borrowed())
}

type nopRecorder struct{}

func (nopRecorder) ObserveOperation(string, string) {}
func (nopRecorder) AddSkipped(int) {}
func (nopRecorder) SetInventory(int, int) {}
