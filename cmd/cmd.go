// Package cmd defines the command-line interface for shiftlog.
package cmd

import (
	"github.com/blowline/shiftlog/internal/contract"
	"github.com/blowline/shiftlog/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(calcCmd)
	rootCmd.AddCommand(customersCmd)
	rootCmd.AddCommand(latestCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(dbCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the db subcommands to the parent db command
	dbCmd.AddCommand(dbStatusCmd)
	dbCmd.AddCommand(dbClearCmd)
	dbCmd.AddCommand(dbMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("backend", string(schema.SQLiteBackend), "Record store: sqlite or mysql or postgresql or mongodb or memory")
	rootCmd.PersistentFlags().String("db-connect", "", "Connection string for mysql/postgresql/mongodb, or a SQLite file path")
	rootCmd.PersistentFlags().String("db-name", contract.DefaultDBName, "Database name for the mongodb backend")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or xlsx or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().Float64("wastage-alert", contract.DefaultWastageAlert, "Wastage percentage above which a shift is flagged")
	rootCmd.PersistentFlags().Float64("unknown-weight", contract.DefaultUnknownWeight, "Unit weight in kg for sections missing from the weight table")
	rootCmd.PersistentFlags().String("section", "", "Only include records of this section, e.g. 'ASB 1 (PET)'")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of reportCmd to Viper
	reportCmd.Flags().String("customer", "", "Only include records of this customer")
	reportCmd.Flags().String("from", "", "Earliest record date (YYYY-MM-DD)")
	reportCmd.Flags().String("to", "", "Latest record date (YYYY-MM-DD)")
	reportCmd.Flags().IntP("limit", "l", 0, "Keep only the most recent N records (0 = all)")
	if err := viper.BindPFlags(reportCmd.Flags()); err != nil {
		contract.LogFatal("Error binding report flags", err)
	}

	// Bind all flags of serveCmd to Viper
	serveCmd.Flags().String("host", contract.DefaultHost, "Interface to listen on (empty = all)")
	serveCmd.Flags().IntP("port", "p", contract.DefaultPort, "Port to listen on (PORT is honored too)")
	serveCmd.Flags().String("static-dir", "", "Directory with the form assets to serve at /")
	serveCmd.Flags().Bool("debug", false, "Verbose request logging and permissive websocket origins")
	serveCmd.Flags().String("shutdown-timeout", contract.DefaultShutdownTimeout.String(), "Time allowed for open requests on shutdown")
	if err := viper.BindPFlags(serveCmd.Flags()); err != nil {
		contract.LogFatal("Error binding serve flags", err)
	}

	// calcCmd flags describe one shift and are not configuration
	calcCmd.Flags().StringVar(&calcRecord.ShiftStart, "shift-start", "", "Shift start (HH:MM)")
	calcCmd.Flags().StringVar(&calcRecord.ShiftEnd, "shift-end", "", "Shift end (HH:MM)")
	calcCmd.Flags().StringVar(&calcRecord.BreakdownStart1, "breakdown-start-1", "", "First stop start (HH:MM)")
	calcCmd.Flags().StringVar(&calcRecord.BreakdownEnd1, "breakdown-end-1", "", "First stop end (HH:MM)")
	calcCmd.Flags().StringVar(&calcRecord.BreakdownStart2, "breakdown-start-2", "", "Second stop start (HH:MM)")
	calcCmd.Flags().StringVar(&calcRecord.BreakdownEnd2, "breakdown-end-2", "", "Second stop end (HH:MM)")
	calcCmd.Flags().StringVar((*string)(&calcRecord.GoodBottles), "good", "", "Good pieces produced")
	calcCmd.Flags().StringVar((*string)(&calcRecord.RejectedBottles), "rejected", "", "Rejected pieces")
	calcCmd.Flags().StringVar((*string)(&calcRecord.Preform), "preform", "", "Scrapped preforms")
	calcCmd.Flags().StringVar((*string)(&calcRecord.LumpsKg), "lumps", "", "Scrap lumps in kg")

	// Bind all flags of dbMigrateCmd to Viper
	dbMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(dbMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding db migrate flags", err)
	}
}
