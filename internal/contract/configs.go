package contract

import (
	"fmt"
	"maps"
	"math"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/blowline/shiftlog/schema"
)

// Default values for configuration.
const (
	DefaultPort            = 3000
	DefaultHost            = ""
	DefaultDBName          = "shiftlog"
	DefaultWastageAlert    = 3.0
	DefaultUnknownWeight   = 0.0
	DefaultShutdownTimeout = 10 * time.Second
	MaxResultLimit         = 100000
)

// Config holds the runtime configuration.
// This struct is the "final, validated" config.
type Config struct {
	Backend   schema.DatabaseBackend
	DBConnect string // Please use env var as this is plaintext
	DBName    string // Database name for the mongodb backend

	Addr            string
	StaticDir       string
	Debug           bool
	ShutdownTimeout time.Duration

	Output     schema.OutputMode
	OutputFile string
	Filter     schema.RecordFilter
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool

	WastageAlert  float64
	UnknownWeight float64

	// CustomWeights holds [Section] = kg per piece overrides from the config file
	CustomWeights map[schema.Section]float64
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	Backend       string  `mapstructure:"backend"`
	DBConnect     string  `mapstructure:"db-connect"`
	DBName        string  `mapstructure:"db-name"`
	Output        string  `mapstructure:"output"`
	OutputFile    string  `mapstructure:"output-file"`
	Width         int     `mapstructure:"width"`
	Color         string  `mapstructure:"color"`
	WastageAlert  float64 `mapstructure:"wastage-alert"`
	UnknownWeight float64 `mapstructure:"unknown-weight"`

	// --- Report filters ---
	Section  string `mapstructure:"section"`
	Customer string `mapstructure:"customer"`
	From     string `mapstructure:"from"`
	To       string `mapstructure:"to"`
	Limit    int    `mapstructure:"limit"`

	// --- Fields from serveCmd.Flags() ---
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	StaticDir       string `mapstructure:"static-dir"`
	Debug           bool   `mapstructure:"debug"`
	ShutdownTimeout string `mapstructure:"shutdown-timeout"`

	// --- Custom unit weights from config file ---
	Weights []SectionWeight `mapstructure:"weights"`
}

// SectionWeight is one `weights:` entry in the config file.
// Weights are a list rather than a map because viper lowercases map keys.
type SectionWeight struct {
	Section string  `mapstructure:"section"`
	Weight  float64 `mapstructure:"weight"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.CustomWeights != nil {
		clone.CustomWeights = maps.Clone(c.CustomWeights)
	}
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfig(cfg, input); err != nil {
		return err
	}
	if err := processFilter(cfg, input); err != nil {
		return err
	}
	if err := processServerInputs(cfg, input); err != nil {
		return err
	}
	if err := processCustomWeights(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for the networked backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.MemoryBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	case schema.MongoDBBackend:
		if connStr == "" {
			return fmt.Errorf("db-connect (or MONGO_URI) is required when using %s backend", backend)
		}
		if !strings.HasPrefix(connStr, "mongodb://") && !strings.HasPrefix(connStr, "mongodb+srv://") {
			return fmt.Errorf("MongoDB connection string must start with 'mongodb://' or 'mongodb+srv://'")
		}
	}
	return nil
}

// validateBackendConfig validates the storage backend configuration.
func validateBackendConfig(cfg *Config, input *ConfigRawInput) error {
	cfg.Backend = schema.DatabaseBackend(strings.ToLower(strings.TrimSpace(input.Backend)))
	if _, ok := schema.ValidDatabaseBackends[cfg.Backend]; !ok {
		return fmt.Errorf("invalid backend '%s'. must be sqlite, mysql, postgresql, mongodb, memory", input.Backend)
	}
	cfg.DBConnect = input.DBConnect
	if err := ValidateDatabaseConnectionString(cfg.Backend, cfg.DBConnect); err != nil {
		return err
	}
	cfg.DBName = input.DBName
	if cfg.DBName == "" {
		cfg.DBName = DefaultDBName
	}
	return nil
}

// validateSimpleInputs processes and validates output and presentation fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, xlsx, parquet", input.Output)
	}

	if input.WastageAlert < 0 || input.WastageAlert > 100 || math.IsNaN(input.WastageAlert) {
		return fmt.Errorf("wastage-alert must be between 0 and 100 (received %v)", input.WastageAlert)
	}
	cfg.WastageAlert = input.WastageAlert

	if input.UnknownWeight < 0 || math.IsNaN(input.UnknownWeight) || math.IsInf(input.UnknownWeight, 0) {
		return fmt.Errorf("unknown-weight must be a non-negative number (received %v)", input.UnknownWeight)
	}
	cfg.UnknownWeight = input.UnknownWeight

	return nil
}

// processFilter validates the report filters.
func processFilter(cfg *Config, input *ConfigRawInput) error {
	cfg.Filter = schema.RecordFilter{
		Section:  schema.Section(strings.TrimSpace(input.Section)),
		Customer: strings.TrimSpace(input.Customer),
	}

	for _, d := range []struct {
		name  string
		value string
		dest  *string
	}{
		{"from", input.From, &cfg.Filter.DateFrom},
		{"to", input.To, &cfg.Filter.DateTo},
	} {
		v := strings.TrimSpace(d.value)
		if v == "" {
			continue
		}
		if _, err := time.Parse(time.DateOnly, v); err != nil {
			return fmt.Errorf("invalid --%s date '%s'. expected YYYY-MM-DD", d.name, d.value)
		}
		*d.dest = v
	}
	if cfg.Filter.DateFrom != "" && cfg.Filter.DateTo != "" && cfg.Filter.DateFrom > cfg.Filter.DateTo {
		return fmt.Errorf("--from (%s) must not be after --to (%s)", cfg.Filter.DateFrom, cfg.Filter.DateTo)
	}

	if input.Limit < 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be between 0 and %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.Filter.Limit = input.Limit
	return nil
}

// processServerInputs resolves the listen address and server timeouts.
func processServerInputs(cfg *Config, input *ConfigRawInput) error {
	if input.Port < 0 || input.Port > 65535 {
		return fmt.Errorf("port must be between 0 and 65535 (received %d)", input.Port)
	}
	cfg.Addr = net.JoinHostPort(input.Host, strconv.Itoa(input.Port))
	cfg.StaticDir = input.StaticDir
	cfg.Debug = input.Debug

	cfg.ShutdownTimeout = DefaultShutdownTimeout
	if s := strings.TrimSpace(input.ShutdownTimeout); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil || d <= 0 {
			return fmt.Errorf("invalid shutdown-timeout '%s'. expected a positive duration like 10s", input.ShutdownTimeout)
		}
		cfg.ShutdownTimeout = d
	}
	return nil
}

// processCustomWeights validates the unit weight overrides from the config file.
func processCustomWeights(cfg *Config, input *ConfigRawInput) error {
	if len(input.Weights) == 0 {
		cfg.CustomWeights = nil
		return nil
	}
	cfg.CustomWeights = make(map[schema.Section]float64, len(input.Weights))
	for _, entry := range input.Weights {
		section, err := resolveSectionKey(entry.Section)
		if err != nil {
			return err
		}
		w := entry.Weight
		if _, dup := cfg.CustomWeights[section]; dup {
			return fmt.Errorf("duplicate weight for section '%s'", section)
		}
		if w <= 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return fmt.Errorf("weight for section '%s' must be a positive number (received %v)", section, w)
		}
		cfg.CustomWeights[section] = w
	}
	return nil
}

// resolveSectionKey maps a config entry to a section label.
// Built-in sections match case-insensitively; other labels are kept as written.
func resolveSectionKey(key string) (schema.Section, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", fmt.Errorf("weights entries need a section name")
	}
	for _, s := range schema.AllSections {
		if strings.EqualFold(string(s), key) {
			return s, nil
		}
	}
	return schema.Section(key), nil
}
