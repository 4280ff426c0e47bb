package cmd

import (
	"github.com/blowline/shiftlog/core"
	"github.com/blowline/shiftlog/internal/contract"
	"github.com/blowline/shiftlog/internal/store"
	"github.com/spf13/cobra"
)

// latestCmd prints the most recent record the way the form prints it.
var latestCmd = &cobra.Command{
	Use:   "latest",
	Short: "Print the most recently submitted shift log.",
	Long: `Print the most recent shift log grouped into Shift & Runtime, Downtime,
Job Details, Material & Output and Post-Production & Notes.

Examples:
  shiftlog latest
  shiftlog latest --output json`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteLatest(rootCtx, cfg, store.Manager); err != nil {
			contract.LogFatal("Cannot print latest record", err)
		}
	},
}
