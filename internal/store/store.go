// Package store persists production records across SQL, MongoDB and in-memory backends.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/blowline/shiftlog/internal/contract"
	"github.com/blowline/shiftlog/schema"
)

// RecordStoreManager holds the record store used by the application.
type RecordStoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	records      contract.RecordStore
}

var _ contract.StoreManager = &RecordStoreManager{} // Compile-time check

// GetRecordStore returns the configured RecordStore.
func (mgr *RecordStoreManager) GetRecordStore() contract.RecordStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.records
}

// Global Manager instance for main logic.
var (
	Manager   = &RecordStoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// NewRecordStore opens a RecordStore for the given backend.
// dbName only applies to MongoDB, where the database is not part of the URI path.
func NewRecordStore(ctx context.Context, backend schema.DatabaseBackend, connStr, dbName string) (contract.RecordStore, error) {
	switch backend {
	case schema.SQLiteBackend, schema.MySQLBackend, schema.PostgreSQLBackend:
		return NewSQLRecordStore(backend, connStr)
	case schema.MongoDBBackend:
		if dbName == "" {
			dbName = contract.DefaultDBName
		}
		return NewMongoRecordStore(ctx, connStr, dbName)
	case schema.MemoryBackend:
		return NewMemoryRecordStore(), nil
	default:
		return nil, fmt.Errorf("unsupported database backend: %s", backend)
	}
}

// InitStore initializes the global store manager.
func InitStore(backend schema.DatabaseBackend, connStr, dbName string) error {
	var initErr error

	initOnce.Do(func() {
		records, err := NewRecordStore(context.Background(), backend, connStr, dbName)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize record store: %w", err)
			return
		}

		Manager.Lock()
		Manager.records = records
		Manager.Unlock()
	})

	return initErr
}

// CloseStore should be called on application shutdown.
func CloseStore() { // called in main defer
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.records != nil {
			_ = Manager.records.Close()
		}
	})
}

// ClearStore removes every stored record for the specified backend.
// For SQLite, it deletes the database file.
// For MySQL/PostgreSQL, it drops the records and migration tables.
// For MongoDB, it drops the records collection.
func ClearStore(ctx context.Context, backend schema.DatabaseBackend, connStr, dbName string) error {
	switch backend {
	case schema.SQLiteBackend:
		dbFilePath := defaultSQLitePath(connStr)
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend, schema.PostgreSQLBackend:
		return clearSQLTables(ctx, backend, connStr, recordsTable, "schema_migrations")

	case schema.MongoDBBackend:
		if dbName == "" {
			dbName = contract.DefaultDBName
		}
		return dropMongoCollection(ctx, connStr, dbName)

	case schema.MemoryBackend:
		if mem, ok := Manager.GetRecordStore().(*MemoryRecordStore); ok {
			mem.Clear()
		}
		return nil

	default:
		return fmt.Errorf("unsupported backend for clearing: %s", backend)
	}
}

// clearSQLTables connects to the SQL database and drops the tables if they exist.
func clearSQLTables(ctx context.Context, backend schema.DatabaseBackend, connStr string, tables ...string) error {
	db, err := openSQL(backend, connStr)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	for _, table := range tables {
		if err := dropTable(ctx, db, table); err != nil {
			return err
		}
	}
	return nil
}

func dropTable(ctx context.Context, db *sql.DB, table string) error {
	query := fmt.Sprintf("DROP TABLE IF EXISTS %s", table)
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", table, err)
	}
	return nil
}
