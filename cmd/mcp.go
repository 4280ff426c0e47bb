package cmd

import (
	"github.com/blowline/shiftlog/internal/mcp"
	"github.com/blowline/shiftlog/internal/store"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:     "mcp",
	Short:   "Start the shift log MCP server",
	Long:    `Launch an MCP server over stdio that lets AI agents compute shift metrics and read stored records.`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, store.Manager)
	},
}
