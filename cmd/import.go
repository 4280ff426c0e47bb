package cmd

import (
	"github.com/blowline/shiftlog/core"
	"github.com/blowline/shiftlog/internal/contract"
	"github.com/blowline/shiftlog/internal/store"
	"github.com/spf13/cobra"
)

// importCmd replays exported records into the configured store.
var importCmd = &cobra.Command{
	Use:   "import <records.json>",
	Short: "Import a JSON array of shift logs.",
	Long: `Submit every record of a JSON array as if it came from the form.

Plain JSON and MongoDB Extended JSON (mongoexport --jsonArray) are both
accepted, so an existing productionrecords collection can be moved to any
backend. Invalid records are reported and skipped.

Examples:
  mongoexport --uri "$MONGO_URI" --collection productionrecords --jsonArray --out records.json
  shiftlog import records.json --backend postgresql --db-connect "host=... dbname=shiftlog"`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteImport(rootCtx, cfg, store.Manager, args[0]); err != nil {
			contract.LogFatal("Cannot import records", err)
		}
	},
}
