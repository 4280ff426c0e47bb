package cmd

import (
	"github.com/blowline/shiftlog/core"
	"github.com/blowline/shiftlog/internal/contract"
	"github.com/blowline/shiftlog/internal/store"
	"github.com/spf13/cobra"
)

// customersCmd lists the customer directory.
var customersCmd = &cobra.Command{
	Use:     "customers",
	Short:   "List the distinct customer names of stored records.",
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteCustomers(rootCtx, cfg, store.Manager); err != nil {
			contract.LogFatal("Cannot list customers", err)
		}
	},
}
