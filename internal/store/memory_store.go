package store

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strconv"
	"sync"

	"github.com/blowline/shiftlog/internal/contract"
	"github.com/blowline/shiftlog/schema"
)

// MemoryRecordStore keeps records in process memory. Data is lost on exit.
type MemoryRecordStore struct {
	mu      sync.RWMutex
	records []schema.ProductionRecord
	nextID  int64
}

var _ contract.RecordStore = &MemoryRecordStore{} // Compile-time check

// NewMemoryRecordStore returns an empty in-memory store.
func NewMemoryRecordStore() *MemoryRecordStore {
	return &MemoryRecordStore{nextID: 1}
}

// Save implements the RecordStore interface.
func (m *MemoryRecordStore) Save(_ context.Context, rec *schema.ProductionRecord) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := cloneRecord(rec)
	stored.ID = strconv.FormatInt(m.nextID, 10)
	m.nextID++
	m.records = append(m.records, stored)
	return stored.ID, nil
}

// FindAll implements the RecordStore interface.
func (m *MemoryRecordStore) FindAll(_ context.Context, filter schema.RecordFilter) ([]schema.ProductionRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var results []schema.ProductionRecord
	for i := range m.records {
		if matchesFilter(&m.records[i], filter) {
			results = append(results, cloneRecord(&m.records[i]))
		}
	}
	// Oldest first, submission order breaks ties
	slices.SortStableFunc(results, func(a, b schema.ProductionRecord) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	if filter.Limit > 0 && len(results) > filter.Limit {
		results = results[len(results)-filter.Limit:]
	}
	return results, nil
}

// Distinct implements the RecordStore interface.
func (m *MemoryRecordStore) Distinct(_ context.Context, field schema.RecordField) ([]string, error) {
	if _, ok := schema.ValidRecordFields[field]; !ok {
		return nil, fmt.Errorf("unsupported distinct field: %s", field)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[string]struct{})
	values := []string{}
	for i := range m.records {
		v := fieldValue(&m.records[i], field)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	sort.Strings(values)
	return values, nil
}

// FindLatest implements the RecordStore interface.
func (m *MemoryRecordStore) FindLatest(_ context.Context) (*schema.ProductionRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.records) == 0 {
		return nil, contract.ErrRecordNotFound
	}
	latest := 0
	for i := range m.records {
		// Ties on created time go to the later submission
		if !m.records[i].CreatedAt.Before(m.records[latest].CreatedAt) {
			latest = i
		}
	}
	rec := cloneRecord(&m.records[latest])
	return &rec, nil
}

// GetStatus implements the RecordStore interface.
func (m *MemoryRecordStore) GetStatus(_ context.Context) (schema.StoreStatus, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	status := schema.StoreStatus{
		Backend:          string(schema.MemoryBackend),
		Connected:        true,
		TotalRecords:     len(m.records),
		RecordsBySection: make(map[string]int),
	}
	customers := make(map[string]struct{})
	for i, rec := range m.records {
		status.RecordsBySection[string(rec.Section)]++
		if rec.CustomerName != "" {
			customers[rec.CustomerName] = struct{}{}
		}
		if i == 0 || rec.CreatedAt.Before(status.OldestRecordTime) {
			status.OldestRecordTime = rec.CreatedAt
		}
		if rec.CreatedAt.After(status.LastRecordTime) {
			status.LastRecordTime = rec.CreatedAt
		}
	}
	status.DistinctCustomers = len(customers)
	return status, nil
}

// Close implements the RecordStore interface.
func (m *MemoryRecordStore) Close() error {
	return nil
}

// Clear drops every stored record.
func (m *MemoryRecordStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = nil
}

func matchesFilter(rec *schema.ProductionRecord, filter schema.RecordFilter) bool {
	if filter.Section != "" && rec.Section != filter.Section {
		return false
	}
	if filter.Customer != "" && rec.CustomerName != filter.Customer {
		return false
	}
	if filter.DateFrom != "" && rec.Date < filter.DateFrom {
		return false
	}
	if filter.DateTo != "" && rec.Date > filter.DateTo {
		return false
	}
	return true
}

func fieldValue(rec *schema.ProductionRecord, field schema.RecordField) string {
	switch field {
	case schema.FieldCustomerName:
		return rec.CustomerName
	case schema.FieldSection:
		return string(rec.Section)
	case schema.FieldBrand:
		return rec.Brand
	case schema.FieldMoldType:
		return rec.MoldType
	case schema.FieldOperator:
		return rec.Operator
	case schema.FieldShiftIncharge:
		return rec.ShiftIncharge
	case schema.FieldResinGrade:
		return rec.ResinGrade
	default:
		return ""
	}
}

func cloneRecord(rec *schema.ProductionRecord) schema.ProductionRecord {
	c := *rec
	c.Processes = slices.Clone(rec.Processes)
	return c
}
