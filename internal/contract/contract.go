// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/blowline/shiftlog/schema"
)

// ErrRecordNotFound is returned when a lookup matches no production record.
var ErrRecordNotFound = errors.New("no production records found")

// RecordStore persists production records.
type RecordStore interface {
	// Save stores the record and returns its assigned ID.
	Save(ctx context.Context, rec *schema.ProductionRecord) (string, error)

	// FindAll returns records matching the filter in submission order.
	FindAll(ctx context.Context, filter schema.RecordFilter) ([]schema.ProductionRecord, error)

	// Distinct returns the sorted, non-empty distinct values of a field.
	Distinct(ctx context.Context, field schema.RecordField) ([]string, error)

	// FindLatest returns the most recently submitted record or ErrRecordNotFound.
	FindLatest(ctx context.Context) (*schema.ProductionRecord, error)

	// GetStatus returns status information about the store.
	GetStatus(ctx context.Context) (schema.StoreStatus, error)

	// Close releases the underlying connection.
	Close() error
}

// StoreManager provides access to the configured record store.
type StoreManager interface {
	GetRecordStore() RecordStore
}

// ValidationError lists the problems found in a submitted record.
type ValidationError struct {
	Missing []string // Required fields left empty
	Invalid []string // Fields with unusable values
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("missing required fields: %s", strings.Join(e.Missing, ", ")))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, fmt.Sprintf("invalid fields: %s", strings.Join(e.Invalid, ", ")))
	}
	return strings.Join(parts, "; ")
}

// HasProblems reports whether any problem was recorded.
func (e *ValidationError) HasProblems() bool {
	return len(e.Missing) > 0 || len(e.Invalid) > 0
}
