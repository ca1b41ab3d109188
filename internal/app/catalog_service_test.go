package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/library-catalog/internal/adapters/storage/flatfile"
	"github.com/jsamuelsen/library-catalog/internal/domain"
	"github.com/jsamuelsen/library-catalog/internal/mocks"
	"github.com/jsamuelsen/library-catalog/internal/ports"
)

// discardLogger returns a logger that discards all output.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeRecorder captures what the service reports.
type fakeRecorder struct {
	ops      []string
	skipped  int
	total    int
	borrowed int
}

func (r *fakeRecorder) ObserveOperation(operation, outcome string) {
	r.ops = append(r.ops, operation+":"+outcome)
}

func (r *fakeRecorder) AddSkipped(n int) { r.skipped += n }

func (r *fakeRecorder) SetInventory(total, borrowed int) {
	r.total = total
	r.borrowed = borrowed
}

func newTestService(t *testing.T) (*CatalogService, *mocks.MockCatalogStore, *fakeRecorder) {
	t.Helper()

	store := mocks.NewMockCatalogStore(t)
	store.EXPECT().Location().Return("books.txt").Maybe()

	rec := &fakeRecorder{}

	svc, err := NewCatalogService(CatalogServiceConfig{
		Store:    store,
		Logger:   discardLogger(),
		Recorder: rec,
	})
	require.NoError(t, err)

	return svc, store, rec
}

func TestNewCatalogService_PanicsWithoutStore(t *testing.T) {
	assert.Panics(t, func() {
		_, _ = NewCatalogService(CatalogServiceConfig{Logger: discardLogger()})
	})
}

func TestNewCatalogService_DefaultsOptionalDependencies(t *testing.T) {
	store := mocks.NewMockCatalogStore(t)

	svc, err := NewCatalogService(CatalogServiceConfig{Store: store})
	require.NoError(t, err)
	require.NotNil(t, svc)

	out := svc.List(context.Background())
	assert.Equal(t, domain.OutcomeEmpty, out.Kind)
}

func TestCatalogService_AddFromInput(t *testing.T) {
	tests := []struct {
		name       string
		title      string
		author     string
		identifier string
		wantKind   domain.OutcomeKind
		wantErr    string
	}{
		{
			name:       "valid input",
			title:      "Dune",
			author:     "Frank Herbert",
			identifier: "9780441172719",
			wantKind:   domain.OutcomeAdded,
		},
		{
			name:       "blank title",
			title:      "  ",
			author:     "Frank Herbert",
			identifier: "9780441172719",
			wantErr:    "Title cannot be empty.",
		},
		{
			name:       "bad identifier",
			title:      "Dune",
			author:     "Frank Herbert",
			identifier: "97804411",
			wantErr:    "ISBN must be 10 or 13 digits.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newTestService(t)

			out, err := svc.AddFromInput(context.Background(), tt.title, tt.author, tt.identifier)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.True(t, domain.IsValidation(err))
				assert.EqualError(t, err, tt.wantErr)
				assert.Equal(t, 0, svc.Len())

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, out.Kind)
			assert.Equal(t, domain.MsgAdded, out.Message)
			assert.Equal(t, 1, svc.Len())
		})
	}
}

func TestCatalogService_OperationsAreRecorded(t *testing.T) {
	svc, _, rec := newTestService(t)
	ctx := context.Background()

	svc.Add(ctx, domain.NewRecord("Dune", "Frank Herbert", "9780441172719", true))
	svc.Add(ctx, domain.NewRecord("Dune", "Frank Herbert", "9780441172719", true))
	svc.Borrow(ctx, "9780441172719")
	svc.Search(ctx, "Herbert")
	svc.Return(ctx, "0000000000")

	assert.Equal(t, []string{
		"add:added",
		"add:already_exists",
		"borrow:borrowed",
		"search:found",
		"return:not_found",
	}, rec.ops)
	assert.Equal(t, 1, rec.total)
	assert.Equal(t, 1, rec.borrowed)
}

func TestCatalogService_BorrowReturnRemove(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	svc.Add(ctx, domain.NewRecord("Dune", "Frank Herbert", "9780441172719", true))

	assert.Equal(t, "Book borrowed successfully.", svc.Borrow(ctx, "9780441172719").Message)
	assert.Equal(t, domain.MsgAlreadyBorrowed, svc.Borrow(ctx, "9780441172719").Message)
	assert.Equal(t, "Book returned successfully.", svc.Return(ctx, "9780441172719").Message)
	assert.Equal(t, domain.MsgAlreadyReturned, svc.Return(ctx, "9780441172719").Message)
	assert.Equal(t, domain.MsgRemoved, svc.Remove(ctx, "9780441172719").Message)
	assert.Equal(t, domain.MsgNotFound, svc.Remove(ctx, "9780441172719").Message)
}

func TestCatalogService_Load(t *testing.T) {
	svc, store, rec := newTestService(t)

	store.EXPECT().Load(mock.Anything).Return(&ports.LoadedSnapshot{
		Records: []domain.Record{
			domain.NewRecord("Dune", "Frank Herbert", "9780441172719", false),
			domain.NewRecord("Emma", "Jane Austen", "0141439580", true),
		},
		Skipped: []ports.SkippedEntry{{Line: 2, Text: "garbage", Reason: "expected 4 fields, got 1"}},
	}, nil).Once()

	result, err := svc.Load(context.Background())
	require.NoError(t, err)

	assert.False(t, result.Created)
	assert.Equal(t, 2, result.Loaded)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, 2, result.Skipped[0].Line)

	assert.Equal(t, 1, rec.skipped)
	assert.Equal(t, 2, rec.total)
	assert.Equal(t, 1, rec.borrowed)
	assert.Contains(t, rec.ops, "load:loaded")
}

func TestCatalogService_Load_ReplacesExistingEntries(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	svc.Add(ctx, domain.NewRecord("Emma", "Jane Austen", "0141439580", true))

	store.EXPECT().Load(mock.Anything).Return(&ports.LoadedSnapshot{
		Records: []domain.Record{domain.NewRecord("Dune", "Frank Herbert", "9780441172719", true)},
	}, nil).Once()

	_, err := svc.Load(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, svc.Len())
	assert.Equal(t, domain.OutcomeNotFound, svc.Borrow(ctx, "0141439580").Kind)
}

func TestCatalogService_Load_MissingStoreCreatesOne(t *testing.T) {
	svc, store, rec := newTestService(t)
	ctx := context.Background()

	svc.Add(ctx, domain.NewRecord("Emma", "Jane Austen", "0141439580", true))

	store.EXPECT().Load(mock.Anything).
		Return(nil, domain.NewNotFoundError("catalog file", "books.txt")).Once()
	store.EXPECT().Create(mock.Anything).Return(nil).Once()

	result, err := svc.Load(ctx)
	require.NoError(t, err)

	assert.True(t, result.Created)
	assert.Equal(t, 0, svc.Len())
	assert.Contains(t, rec.ops, "load:created")
}

func TestCatalogService_Load_CreateFails(t *testing.T) {
	svc, store, _ := newTestService(t)

	createErr := domain.NewIOError("create", "books.txt", errors.New("permission denied"))

	store.EXPECT().Load(mock.Anything).
		Return(nil, domain.NewNotFoundError("catalog file", "books.txt")).Once()
	store.EXPECT().Create(mock.Anything).Return(createErr).Once()

	_, err := svc.Load(context.Background())
	require.Error(t, err)

	assert.ErrorIs(t, err, ErrCreateStore)
	assert.True(t, domain.IsIO(err))
	assert.Equal(t, 0, svc.Len())
}

func TestCatalogService_Load_ReadFails(t *testing.T) {
	svc, store, rec := newTestService(t)

	store.EXPECT().Load(mock.Anything).
		Return(nil, domain.NewIOError("load", "books.txt", errors.New("is a directory"))).Once()

	_, err := svc.Load(context.Background())
	require.Error(t, err)

	assert.True(t, domain.IsIO(err))
	assert.NotErrorIs(t, err, ErrCreateStore)
	assert.Equal(t, 0, svc.Len())
	assert.Contains(t, rec.ops, "load:error")
}

func TestCatalogService_Save(t *testing.T) {
	svc, store, rec := newTestService(t)
	ctx := context.Background()

	dune := domain.NewRecord("Dune", "Frank Herbert", "9780441172719", true)
	svc.Add(ctx, dune)

	store.EXPECT().Save(mock.Anything, []domain.Record{dune}).Return(nil).Once()

	require.NoError(t, svc.Save(ctx))
	assert.Contains(t, rec.ops, "save:saved")
}

func TestCatalogService_Save_Fails(t *testing.T) {
	svc, store, _ := newTestService(t)

	store.EXPECT().Save(mock.Anything, mock.Anything).
		Return(domain.NewIOError("save", "books.txt", errors.New("disk full"))).Once()

	err := svc.Save(context.Background())
	require.Error(t, err)

	assert.True(t, domain.IsIO(err))
	assert.Contains(t, err.Error(), "disk full")
}

func TestCatalogService_SaveRefusedAfterFailedLoad(t *testing.T) {
	svc, store, rec := newTestService(t)
	ctx := context.Background()

	store.EXPECT().Load(mock.Anything).
		Return(nil, domain.NewIOError("load", "books.txt", errors.New("is a directory"))).Once()

	_, err := svc.Load(ctx)
	require.Error(t, err)

	svc.Add(ctx, domain.NewRecord("Dune", "Frank Herbert", "9780441172719", true))

	err = svc.Save(ctx)
	require.ErrorIs(t, err, ErrNotLoaded)
	assert.Contains(t, rec.ops, "save:refused")
	store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCatalogService_SaveAllowedAfterRecoveredLoad(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	store.EXPECT().Load(mock.Anything).
		Return(nil, domain.NewIOError("load", "books.txt", errors.New("device busy"))).Once()
	store.EXPECT().Load(mock.Anything).Return(&ports.LoadedSnapshot{}, nil).Once()
	store.EXPECT().Save(mock.Anything, []domain.Record{}).Return(nil).Once()

	_, err := svc.Load(ctx)
	require.Error(t, err)

	_, err = svc.Load(ctx)
	require.NoError(t, err)

	require.NoError(t, svc.Save(ctx))
}

func TestCatalogService_FailedLoadKeepsFileOnSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.txt")
	content := []byte("Dune,Herbert,1234567890,true\nEmma,Austen,0141439580,false\n")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	svc, err := NewCatalogService(CatalogServiceConfig{
		Store:  flatfile.NewStore(flatfile.StoreConfig{Path: path, Logger: discardLogger()}),
		Logger: discardLogger(),
	})
	require.NoError(t, err)

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = svc.Load(cancelled)
	require.Error(t, err)
	assert.Equal(t, 0, svc.Len())

	err = svc.Save(context.Background())
	require.ErrorIs(t, err, ErrNotLoaded)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, after)
}
