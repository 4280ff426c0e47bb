package cmd

import (
	"github.com/blowline/shiftlog/core"
	"github.com/blowline/shiftlog/internal/contract"
	"github.com/blowline/shiftlog/schema"
	"github.com/spf13/cobra"
)

// calcRecord collects the shift described by the calc flags.
var calcRecord = schema.ProductionRecord{}

// calcCmd derives metrics for one shift without touching the store.
var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Compute running hours and wastage for one shift.",
	Long: `Compute net running hours, downtime and wastage for a single shift
without storing it. A shift or stop whose end is before its start runs
past midnight.

Examples:
  # Night shift with one 30 minute stop
  shiftlog calc --section "ASB 1 (PET)" --shift-start 22:00 --shift-end 06:00 \
    --breakdown-start-1 01:00 --breakdown-end-1 01:30 \
    --good 1000 --rejected 50 --preform 20 --lumps 5`,
	Args:    cobra.NoArgs,
	PreRunE: configSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		rec := calcRecord
		rec.Section = cfg.Filter.Section
		if err := core.ExecuteCalc(rootCtx, cfg, &rec); err != nil {
			contract.LogFatal("Cannot compute metrics", err)
		}
	},
}
