// =============================================================================
// Challan Generator - Configuration Module
// =============================================================================
//
// This module is responsible for loading the application configuration and
// the scripted batch (entries) files.
//
// CONFIGURATION SOURCES (highest precedence first):
//   1. Command line flags bound by the cmd package
//   2. Environment variables prefixed with CHALLAN_ (CHALLAN_DATA_FILE,
//      CHALLAN_LAYOUT_CONSUMER_COLUMN, ...)
//   3. The config file (config.yaml in the working directory, or --config)
//   4. Built-in defaults
//
// FILES:
//   1. Main Config (config.yaml): data source, layout, output and batch
//      defaults, read through spf13/viper
//   2. Entries file (entries.yaml): one scripted batch, read with yaml.v3
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ginjaninja78/challan-generator/internal/tabular"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every configuration environment variable.
const EnvPrefix = "CHALLAN"

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
type MainConfig struct {
	// =========================================================================
	// DATA SOURCE SETTINGS
	// =========================================================================

	// DataFile is the master spreadsheet (.xlsx or .csv).
	// Default: "./Book.xlsx"
	DataFile string `mapstructure:"data_file" yaml:"data_file"`

	// Layout describes where consumers, names and amounts live in DataFile.
	Layout LayoutConfig `mapstructure:"layout" yaml:"layout"`

	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// Format is the output document format: "xlsx" or "xml".
	// Default: "xlsx"
	Format string `mapstructure:"format" yaml:"format"`

	// Template is the XLSX template workbook. Empty uses the built-in layout.
	Template string `mapstructure:"template" yaml:"template"`

	// TemplateSheet is the template sheet. Empty uses the first sheet.
	TemplateSheet string `mapstructure:"template_sheet" yaml:"template_sheet"`

	// OutputDir is the directory where generated documents are placed.
	// Default: "./output"
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`

	// OutputName is the output file name pattern, without extension.
	// Placeholders:
	//   {uuid}      - A random UUID
	//   {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
	//   {date}      - Current date (YYYYMMDD)
	// Default: "challans_{timestamp}"
	OutputName string `mapstructure:"output_name" yaml:"output_name"`

	// =========================================================================
	// BATCH DEFAULTS
	// =========================================================================

	// StartNumber is the first challan number of a batch.
	// Default: 1
	StartNumber int `mapstructure:"start_number" yaml:"start_number"`

	// PaymentDate is the default payment date (dd/mm/yyyy). The interactive
	// session asks when it is empty.
	PaymentDate string `mapstructure:"payment_date" yaml:"payment_date"`

	// KeepDecimals keeps two decimal places on amounts and spells paise.
	// Default: false (whole rupees)
	KeepDecimals bool `mapstructure:"keep_decimals" yaml:"keep_decimals"`

	// OnlySuffix appends " Only" to amounts in words.
	// Default: false
	OnlySuffix bool `mapstructure:"only_suffix" yaml:"only_suffix"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`

	// LogFile is an optional log file. Logs always go to stderr as well.
	LogFile string `mapstructure:"log_file" yaml:"log_file"`
}

// LayoutConfig mirrors tabular.Layout.
type LayoutConfig struct {
	// Mode is "auto", "wide" or "long". Default: "auto"
	Mode string `mapstructure:"mode" yaml:"mode"`

	// Sheet is the data sheet of an XLSX source. Empty uses the first sheet.
	Sheet string `mapstructure:"sheet" yaml:"sheet"`

	// Delimiter is the CSV field separator. Default: ","
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`

	ConsumerColumn string `mapstructure:"consumer_column" yaml:"consumer_column"`
	NameColumn     string `mapstructure:"name_column" yaml:"name_column"`
	MonthColumn    string `mapstructure:"month_column" yaml:"month_column"`
	YearColumn     string `mapstructure:"year_column" yaml:"year_column"`
	AmountColumn   string `mapstructure:"amount_column" yaml:"amount_column"`
}

// TabularLayout converts the layout settings for the loader.
func (c *MainConfig) TabularLayout() tabular.Layout {
	return tabular.Layout{
		Mode:           c.Layout.Mode,
		Sheet:          c.Layout.Sheet,
		Delimiter:      c.Layout.Delimiter,
		ConsumerColumn: c.Layout.ConsumerColumn,
		NameColumn:     c.Layout.NameColumn,
		MonthColumn:    c.Layout.MonthColumn,
		YearColumn:     c.Layout.YearColumn,
		AmountColumn:   c.Layout.AmountColumn,
	}
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// LoadMainConfig reads the main configuration through v.
//
// PARAMETERS:
//   - v: The viper instance; flags may already be bound to it.
//   - configPath: An explicit config file. Empty searches for config.yaml in
//     the working directory and tolerates its absence.
//
// RETURNS:
//   - A pointer to the MainConfig struct.
//   - An error if the file cannot be read or parsed, or the result is invalid.
func LoadMainConfig(v *viper.Viper, configPath string) (*MainConfig, error) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	registerDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config MainConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyMainConfigDefaults(&config)

	if err := validateMainConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// registerDefaults makes every key known to viper so that environment
// variables reach Unmarshal even when the config file omits the key.
func registerDefaults(v *viper.Viper) {
	layout := tabular.DefaultLayout()

	v.SetDefault("data_file", "./Book.xlsx")
	v.SetDefault("layout.mode", layout.Mode)
	v.SetDefault("layout.sheet", "")
	v.SetDefault("layout.delimiter", ",")
	v.SetDefault("layout.consumer_column", layout.ConsumerColumn)
	v.SetDefault("layout.name_column", layout.NameColumn)
	v.SetDefault("layout.month_column", layout.MonthColumn)
	v.SetDefault("layout.year_column", layout.YearColumn)
	v.SetDefault("layout.amount_column", layout.AmountColumn)
	v.SetDefault("format", "xlsx")
	v.SetDefault("template", "")
	v.SetDefault("template_sheet", "")
	v.SetDefault("output_dir", "./output")
	v.SetDefault("output_name", "challans_{timestamp}")
	v.SetDefault("start_number", 1)
	v.SetDefault("payment_date", "")
	v.SetDefault("keep_decimals", false)
	v.SetDefault("only_suffix", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
}

// applyMainConfigDefaults sets default values for any unset configuration
// options, including ones explicitly blanked in the file.
func applyMainConfigDefaults(config *MainConfig) {
	layout := tabular.DefaultLayout()

	if config.DataFile == "" {
		config.DataFile = "./Book.xlsx"
	}
	if config.Layout.Mode == "" {
		config.Layout.Mode = tabular.ModeAuto
	}
	if config.Layout.Delimiter == "" {
		config.Layout.Delimiter = ","
	}
	if config.Layout.ConsumerColumn == "" {
		config.Layout.ConsumerColumn = layout.ConsumerColumn
	}
	if config.Layout.NameColumn == "" {
		config.Layout.NameColumn = layout.NameColumn
	}
	if config.Layout.MonthColumn == "" {
		config.Layout.MonthColumn = layout.MonthColumn
	}
	if config.Layout.YearColumn == "" {
		config.Layout.YearColumn = layout.YearColumn
	}
	if config.Layout.AmountColumn == "" {
		config.Layout.AmountColumn = layout.AmountColumn
	}
	if config.Format == "" {
		config.Format = "xlsx"
	}
	if config.OutputDir == "" {
		config.OutputDir = "./output"
	}
	if config.OutputName == "" {
		config.OutputName = "challans_{timestamp}"
	}
	if config.StartNumber == 0 {
		config.StartNumber = 1
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}

	config.Format = strings.ToLower(strings.TrimSpace(config.Format))
	config.Layout.Mode = strings.ToLower(strings.TrimSpace(config.Layout.Mode))
}

// validateMainConfig validates the main configuration.
func validateMainConfig(config *MainConfig) error {
	var problems []string

	switch config.Format {
	case "xlsx", "xml":
	default:
		problems = append(problems, fmt.Sprintf("format '%s' must be xlsx or xml", config.Format))
	}

	switch config.Layout.Mode {
	case tabular.ModeAuto, tabular.ModeWide, tabular.ModeLong:
	default:
		problems = append(problems, fmt.Sprintf("layout.mode '%s' must be auto, wide or long", config.Layout.Mode))
	}

	if config.StartNumber < 1 {
		problems = append(problems, fmt.Sprintf("start_number %d must be at least 1", config.StartNumber))
	}

	switch strings.ToLower(config.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("log_level '%s' must be debug, info, warn or error", config.LogLevel))
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}
