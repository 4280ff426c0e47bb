package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/blowline/shiftlog/internal/contract"
	"github.com/blowline/shiftlog/internal/store"
	"github.com/blowline/shiftlog/schema"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "shiftlog",
	Short:              "Record blow-molding shift logs and export production reports.",
	Long:               `Shiftlog stores shift production logs and derives running hours, downtime and material wastage for every shift.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in .env, config file and ENV variables if set.
func initConfig() {
	// A missing .env file is the normal case outside of local development
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		contract.LogWarn("Error loading .env file", err)
	}

	// Check if a specific config file is provided
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		// Set config file name and paths
		viper.SetConfigName(".shiftlog") // Name of config file (without extension)
		viper.SetConfigType("yaml")      // We'll use YAML format
		viper.AddConfigPath(".")         // Look in the current directory
		viper.AddConfigPath("$HOME")     // Look in the home directory
	}

	// Set environment variable prefix
	viper.SetEnvPrefix("SHIFTLOG")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// Plain PORT and MONGO_URI are what hosting platforms and older deployments provide
	_ = viper.BindEnv("port", "SHIFTLOG_PORT", "PORT")
	_ = viper.BindEnv("mongo-uri", "MONGO_URI")

	// Set defaults in Viper
	viper.SetDefault("backend", schema.SQLiteBackend)
	viper.SetDefault("db-connect", "")
	viper.SetDefault("db-name", contract.DefaultDBName)
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("color", "yes")
	viper.SetDefault("wastage-alert", contract.DefaultWastageAlert)
	viper.SetDefault("unknown-weight", contract.DefaultUnknownWeight)
	viper.SetDefault("port", contract.DefaultPort)
	viper.SetDefault("host", contract.DefaultHost)
	viper.SetDefault("shutdown-timeout", contract.DefaultShutdownTimeout.String())
}

// configSetup unmarshals config and runs validation without opening the store.
func configSetup(_ context.Context, _ *cobra.Command, _ []string) error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := loadConfigFile(); err != nil {
		return err
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. MongoDB deployments historically only set MONGO_URI.
	if input.DBConnect == "" && strings.EqualFold(strings.TrimSpace(input.Backend), string(schema.MongoDBBackend)) {
		input.DBConnect = viper.GetString("mongo-uri")
	}

	// 4. Run all validation and complex parsing.
	// This function populates the global 'cfg' from 'input'.
	return contract.ProcessAndValidate(cfg, input)
}

// sharedSetup validates the config and opens the configured record store.
func sharedSetup(ctx context.Context, cmd *cobra.Command, args []string) error {
	if err := configSetup(ctx, cmd, args); err != nil {
		return err
	}

	// Initialize persistence layer with validated config
	if err := store.InitStore(cfg.Backend, cfg.DBConnect, cfg.DBName); err != nil {
		return fmt.Errorf("failed to initialize persistence: %w", err)
	}
	return nil
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// configSetupWrapper wraps configSetup for commands that manage the store themselves.
func configSetupWrapper(cmd *cobra.Command, args []string) error {
	return configSetup(rootCtx, cmd, args)
}

// loadConfigFile reads the config file if one is present.
func loadConfigFile() error {
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			// Config file was found but another error was produced
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}
	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetRootContext replaces the context every command runs under.
func SetRootContext(ctx context.Context) {
	rootCtx = ctx
}
