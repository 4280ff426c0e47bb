package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/blowline/shiftlog/internal/store"
	"github.com/blowline/shiftlog/internal/web"
	"github.com/spf13/cobra"
)

// serveCmd runs the HTTP API used by the shift log form.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the shift log API and live metrics preview.",
	Long: `Start the HTTP server the data-entry form talks to.

Endpoints:
  POST /submit-production  Store one shift log (JSON or form post)
  GET  /download-excel     Download the workbook, optionally ?section=ASB 1 (PET)
  GET  /get-customers      Distinct customer names
  GET  /get-last-record    Most recent shift log
  POST /api/preview        Derived metrics of a partially filled form
  GET  /ws/preview         Websocket variant of /api/preview
  GET  /healthz            Liveness probe

Examples:
  # Serve on the default port with the SQLite store
  shiftlog serve

  # Serve the form assets too, storing records in MongoDB
  MONGO_URI="mongodb://localhost:27017" shiftlog serve --backend mongodb --static-dir ./public`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
		defer stop()
		return web.NewServer(cfg, store.Manager).Run(ctx)
	},
}
