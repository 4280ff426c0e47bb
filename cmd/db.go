package cmd

import (
	"fmt"
	"os"

	"github.com/blowline/shiftlog/internal/contract"
	"github.com/blowline/shiftlog/internal/store"
	"github.com/blowline/shiftlog/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// dbCmd focused on record store management.
//
// Note: clear and migrate only validate the configuration and never open the
// store through the global manager, so they work on a fresh or broken database.
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the production record store",
	Long: `Manage the database that holds submitted shift logs.

Supported backends: SQLite (default), MySQL, PostgreSQL, MongoDB, or memory

Subcommands:
  status  - Show record counts and connection info
  clear   - Remove all stored records
  migrate - Apply or roll back SQL schema migrations

Examples:
  # Check store status
  shiftlog db status

  # Upgrade a PostgreSQL schema
  SHIFTLOG_BACKEND=postgresql SHIFTLOG_DB_CONNECT="host=... dbname=shiftlog" shiftlog db migrate`,
}

// dbStatusCmd shows record store status.
var dbStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display record counts and connection details",
	Long: `Show detailed information about the record store.

Displays:
- Backend type and connection status
- Total number of records and distinct customers
- Last and oldest record timestamps
- Records per section
- Applied schema version (SQL backends)`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := store.Manager.GetRecordStore().GetStatus(rootCtx)
		if err != nil {
			contract.LogFatal("Failed to get store status", err)
		}
		store.PrintStoreStatus(os.Stdout, status)

		if isSQLBackend(cfg.Backend) {
			version, dirty, err := store.MigrationVersion(cfg.Backend, cfg.DBConnect)
			if err != nil {
				contract.LogWarn("Failed to read schema version", err)
				return
			}
			store.PrintMigrationStatus(os.Stdout, version, dirty)
		}
	},
}

// dbClearCmd removes every stored record.
var dbClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored production records",
	Long: `Delete all production records from the configured backend.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the records and migration tables
For MongoDB: Drops the productionrecords collection

Examples:
  # Clear SQLite store (default)
  shiftlog db clear

  # Clear a MongoDB store
  MONGO_URI="mongodb://localhost:27017" shiftlog db clear --backend mongodb`,
	Args:    cobra.NoArgs,
	PreRunE: configSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := store.ClearStore(rootCtx, cfg.Backend, cfg.DBConnect, cfg.DBName); err != nil {
			contract.LogFatal("Failed to clear store", err)
		}
		fmt.Println("Store cleared successfully.")
	},
}

// dbMigrateCmd applies schema migrations.
var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply SQL schema migrations to the record store",
	Long: `Migrate the record store schema of a SQL backend.

Stores are migrated to the latest version whenever they are opened, so this is
mostly useful for rolling back or for preparing a database ahead of a deploy.

Examples:
  # Migrate to latest version
  shiftlog db migrate

  # Roll back to the initial state
  shiftlog db migrate --target-version 0

  # Migrate to version 2
  shiftlog db migrate --target-version 2`,
	Args:    cobra.NoArgs,
	PreRunE: configSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if !isSQLBackend(cfg.Backend) {
			contract.LogFatal("Cannot migrate", fmt.Errorf("migrations only apply to sqlite, mysql and postgresql (backend: %s)", cfg.Backend))
		}
		targetVersion := viper.GetInt("target-version")
		if err := store.MigrateRecords(cfg.Backend, cfg.DBConnect, targetVersion, os.Stdout); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}

func isSQLBackend(backend schema.DatabaseBackend) bool {
	switch backend {
	case schema.SQLiteBackend, schema.MySQLBackend, schema.PostgreSQLBackend:
		return true
	default:
		return false
	}
}
