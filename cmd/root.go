// =============================================================================
// Challan Generator - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (challan)
//   ├── sessionCmd (challan session)   interactive batch
//   ├── processCmd (challan process)   scripted batch from an entries file
//   ├── inspectCmd (challan inspect)   show what the data source contains
//   └── versionCmd (challan version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (--config, --verbose, --data, ...)
//   2. Loading the configuration through viper
//   3. Setting up logging
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/ginjaninja78/challan-generator/internal/apperror"
	"github.com/ginjaninja78/challan-generator/internal/config"
	"github.com/ginjaninja78/challan-generator/internal/render"
	"github.com/ginjaninja78/challan-generator/internal/tabular"
	"github.com/ginjaninja78/challan-generator/pkg/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
// Empty means config.yaml in the working directory, if present.
var cfgFile string

// verbose enables debug logging with a human-readable encoder.
var verbose bool

// v is the viper instance the persistent flags are bound to.
var v = viper.New()

// appConfig and log are set up before any command that needs them runs.
var (
	appConfig *config.MainConfig
	log       *logger.Logger
)

// skipSetup marks commands that run without configuration.
const skipSetup = "skip-setup"

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "challan",
	Short: "Challan Generator - Batch payment receipts from a billing spreadsheet",
	Long: `Challan Generator builds batches of payment receipts (challans) from a
master billing spreadsheet. For each consumer and billing period it looks up
the amount due, records the cheque or demand draft details, numbers the
receipts contiguously and renders the whole batch into one document.

Key Features:
  - Single months or ranges across year boundaries ("Nov-25" to "Feb-26")
  - Indian digit grouping (12,34,567) and amounts in words (lakh, crore)
  - Wide (one column per month) or long (one row per month) spreadsheets
  - XLSX template output with a repeating row, or XML

Example Usage:
  challan session                          # Build a batch interactively
  challan process --entries entries.yaml   # Build a batch from a script
  challan inspect                          # List the billing months found`,

	SilenceUsage: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if _, ok := cmd.Annotations[skipSetup]; ok {
			return nil
		}
		return setup()
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. This is called by main.main().
func Execute() {
	err := rootCmd.Execute()
	if log != nil {
		_ = log.Sync()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", describeError(err))
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	flags := rootCmd.PersistentFlags()

	flags.StringVar(&cfgFile, "config", "", "Path to the main configuration file (default is ./config.yaml)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output for debugging")

	flags.String("data", "", "Master spreadsheet (.xlsx or .csv)")
	flags.String("sheet", "", "Sheet of the master spreadsheet")
	flags.String("format", "", "Output format: xlsx or xml")
	flags.String("template", "", "XLSX template with a {{r.<field>}} row")
	flags.String("output-dir", "", "Directory for generated documents")

	// Flags only override the config when set, so viper sees them through
	// BindPFlag and keeps file and environment values otherwise.
	bind := map[string]string{
		"data":       "data_file",
		"sheet":      "layout.sheet",
		"format":     "format",
		"template":   "template",
		"output-dir": "output_dir",
	}
	for flag, key := range bind {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(err)
		}
	}
}

// setup loads the configuration and builds the logger.
func setup() error {
	cfg, err := config.LoadMainConfig(v, cfgFile)
	if err != nil {
		return err
	}

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	outputs := []string{"stderr"}
	if cfg.LogFile != "" {
		outputs = append(outputs, cfg.LogFile)
	}

	l, err := logger.New(logger.Config{Level: level, Development: verbose, OutputPaths: outputs})
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}

	appConfig, log = cfg, l
	if used := v.ConfigFileUsed(); used != "" {
		log.Debugw("configuration loaded", "file", used)
	}
	return nil
}

// =============================================================================
// SHARED HELPERS
// =============================================================================

// loadTable reads the configured data source.
func loadTable() (*tabular.Table, error) {
	table, err := tabular.Load(appConfig.DataFile, appConfig.TabularLayout())
	if err != nil {
		return nil, apperror.NewIO(fmt.Sprintf("failed to load data source '%s'", appConfig.DataFile), err)
	}

	log.Infow("data source loaded",
		"file", appConfig.DataFile,
		"layout", table.Mode,
		"consumers", table.ConsumerCount(),
		"period_columns", len(table.PeriodColumns()),
		"skipped_rows", table.Skipped)
	return table, nil
}

// newRenderer builds the configured document renderer.
func newRenderer() (render.Renderer, error) {
	return render.New(render.Options{
		Format:   appConfig.Format,
		Template: appConfig.Template,
		Sheet:    appConfig.TemplateSheet,
	})
}

// describeError renders err for the operator. Validation failures list
// every violation on its own line.
func describeError(err error) string {
	appErr, ok := apperror.AsAppError(err)
	if !ok {
		return err.Error()
	}

	text := appErr.Message
	for _, violation := range appErr.Violations {
		text += "\n  - " + violation.Message
		if violation.Value != "" {
			text += fmt.Sprintf(" (got '%s')", violation.Value)
		}
	}
	if appErr.Err != nil {
		text += fmt.Sprintf(": %v", appErr.Err)
	}
	return text
}
