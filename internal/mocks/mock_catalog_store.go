// Package mocks holds testify mocks of the ports interfaces, in the shape
// mockery generates (constructor with cleanup assertion and typed EXPECT
// helpers).
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/jsamuelsen/library-catalog/internal/domain"
	"github.com/jsamuelsen/library-catalog/internal/ports"
)

// MockCatalogStore is a mock of ports.CatalogStore.
type MockCatalogStore struct {
	mock.Mock
}

var _ ports.CatalogStore = (*MockCatalogStore)(nil)

// NewMockCatalogStore creates a mock whose expectations are asserted when
// the test ends.
func NewMockCatalogStore(t interface {
	mock.TestingT
	Cleanup(func())
},
) *MockCatalogStore {
	m := &MockCatalogStore{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// MockCatalogStore_Expecter gives typed access to expectations.
type MockCatalogStore_Expecter struct { //nolint:revive // mockery naming
	mock *mock.Mock
}

// EXPECT returns the typed expecter.
func (m *MockCatalogStore) EXPECT() *MockCatalogStore_Expecter {
	return &MockCatalogStore_Expecter{mock: &m.Mock}
}

// Load provides a mock function.
func (m *MockCatalogStore) Load(ctx context.Context) (*ports.LoadedSnapshot, error) {
	ret := m.Called(ctx)

	var snap *ports.LoadedSnapshot
	if v, ok := ret.Get(0).(*ports.LoadedSnapshot); ok {
		snap = v
	}

	return snap, ret.Error(1)
}

// Load sets an expectation on Load.
func (e *MockCatalogStore_Expecter) Load(ctx any) *mock.Call {
	return e.mock.On("Load", ctx)
}

// Save provides a mock function.
func (m *MockCatalogStore) Save(ctx context.Context, records []domain.Record) error {
	ret := m.Called(ctx, records)
	return ret.Error(0)
}

// Save sets an expectation on Save.
func (e *MockCatalogStore_Expecter) Save(ctx, records any) *mock.Call {
	return e.mock.On("Save", ctx, records)
}

// Create provides a mock function.
func (m *MockCatalogStore) Create(ctx context.Context) error {
	ret := m.Called(ctx)
	return ret.Error(0)
}

// Create sets an expectation on Create.
func (e *MockCatalogStore_Expecter) Create(ctx any) *mock.Call {
	return e.mock.On("Create", ctx)
}

// Location provides a mock function.
func (m *MockCatalogStore) Location() string {
	ret := m.Called()
	return ret.String(0)
}

// Location sets an expectation on Location.
func (e *MockCatalogStore_Expecter) Location() *mock.Call {
	return e.mock.On("Location")
}
