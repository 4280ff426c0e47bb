package store

import (
	"context"

	"github.com/blowline/shiftlog/internal/contract"
	"github.com/blowline/shiftlog/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetRecordStore implements the StoreManager interface.
func (m *MockStoreManager) GetRecordStore() contract.RecordStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.RecordStore)
	return store
}

// MockRecordStore is a mock implementation of RecordStore for testing.
type MockRecordStore struct {
	mock.Mock
}

var _ contract.RecordStore = &MockRecordStore{} // Compile-time check

// Save implements the RecordStore interface.
func (m *MockRecordStore) Save(ctx context.Context, rec *schema.ProductionRecord) (string, error) {
	args := m.Called(ctx, rec)
	return args.String(0), args.Error(1)
}

// FindAll implements the RecordStore interface.
func (m *MockRecordStore) FindAll(ctx context.Context, filter schema.RecordFilter) ([]schema.ProductionRecord, error) {
	args := m.Called(ctx, filter)
	records, _ := args.Get(0).([]schema.ProductionRecord)
	return records, args.Error(1)
}

// Distinct implements the RecordStore interface.
func (m *MockRecordStore) Distinct(ctx context.Context, field schema.RecordField) ([]string, error) {
	args := m.Called(ctx, field)
	values, _ := args.Get(0).([]string)
	return values, args.Error(1)
}

// FindLatest implements the RecordStore interface.
func (m *MockRecordStore) FindLatest(ctx context.Context) (*schema.ProductionRecord, error) {
	args := m.Called(ctx)
	rec, _ := args.Get(0).(*schema.ProductionRecord)
	return rec, args.Error(1)
}

// GetStatus implements the RecordStore interface.
func (m *MockRecordStore) GetStatus(ctx context.Context) (schema.StoreStatus, error) {
	args := m.Called(ctx)
	return args.Get(0).(schema.StoreStatus), args.Error(1)
}

// Close implements the RecordStore interface.
func (m *MockRecordStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
