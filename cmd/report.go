package cmd

import (
	"github.com/blowline/shiftlog/core"
	"github.com/blowline/shiftlog/internal/contract"
	"github.com/blowline/shiftlog/internal/store"
	"github.com/spf13/cobra"
)

// reportCmd exports stored records with recomputed metrics.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Export production records with derived metrics.",
	Long: `Build the production report: one row per shift with net running hours,
downtime, wastage and Yes/No flags for each post-production process.

Derived values are always recomputed from the raw shift fields, so reports
stay consistent after a weight table change.

Examples:
  # Show every record as a table
  shiftlog report

  # Download-style workbook for one line (defaults to Production_Report_ASB_1_PET.xlsx)
  shiftlog report --section "ASB 1 (PET)" --output xlsx

  # Last 20 shifts of one customer as CSV
  shiftlog report --customer Acme --limit 20 --output csv --output-file acme.csv

  # Columnar export for analytics
  shiftlog report --from 2025-01-01 --to 2025-03-31 --output parquet`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteReport(rootCtx, cfg, store.Manager); err != nil {
			contract.LogFatal("Cannot build report", err)
		}
	},
}
