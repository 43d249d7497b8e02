// =============================================================================
// Challan Generator - Process Command
// =============================================================================
//
// This file defines the 'process' command, which builds one batch of receipts
// from an entries file instead of the interactive prompt.
//
// COMMAND USAGE:
//   challan process --entries entries.yaml [flags]
//
// FLAGS:
//   --entries     : Path to the entries YAML file (required)
//   --dry-run     : Run every entry and render the batch without writing it
//
// PROCESSING PIPELINE:
//   1. Load the master spreadsheet
//   2. Load the entries file and resolve the batch settings
//   3. Configure a session with those settings
//   4. For each entry, in file order:
//      a. Resolve the consumer and period
//      b. Validate the instrument details
//      c. Add the receipt (and apply an amount override, if given)
//   5. Render the batch and write the document (and its XSD for XML)
//   6. Write the error log and the batch summary
//
// Entries are processed one after the other: challan numbers are assigned in
// file order, so a failed entry never leaves a gap.
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/ginjaninja78/challan-generator/internal/apperror"
	"github.com/ginjaninja78/challan-generator/internal/config"
	"github.com/ginjaninja78/challan-generator/internal/money"
	"github.com/ginjaninja78/challan-generator/internal/session"
	"github.com/ginjaninja78/challan-generator/internal/types"
	"github.com/ginjaninja78/challan-generator/pkg/utils"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// entriesFile is the path to the entries file.
var entriesFile string

// dryRun renders the batch without writing any output files.
var dryRun bool

// =============================================================================
// PROCESS COMMAND DEFINITION
// =============================================================================

// processCmd represents the 'process' command.
var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Build a batch of receipts from an entries file",
	Long: `The process command reads an entries file listing one receipt per entry
(consumer, period and payment instrument) and builds the batch in one go.

Challan numbers are assigned in file order starting at the configured start
number. An entry that fails (unknown consumer, missing month, invalid cheque
details, nothing due) is skipped and recorded in the error log; the remaining
entries are still numbered contiguously.

On completion:
  - The rendered batch is placed in the output directory
  - An error log is written when any entry failed
  - A batch summary is written next to the document`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runProcess(cmd.OutOrStdout())
	},
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringVar(
		&entriesFile,
		"entries",
		"",
		"Path to the entries YAML file",
	)
	processCmd.Flags().BoolVar(
		&dryRun,
		"dry-run",
		false,
		"Render the batch without writing output files",
	)
	_ = processCmd.MarkFlagRequired("entries")
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// batchResult is the outcome of running every entry of a file.
type batchResult struct {
	records  []types.ReceiptRecord
	failures []utils.ErrorLogEntry
	document *session.Document
}

// runProcess orchestrates the scripted batch.
func runProcess(out io.Writer) error {
	startTime := time.Now()

	fmt.Fprintln(out, "=== Challan Generator ===")

	table, err := loadTable()
	if err != nil {
		return err
	}
	renderer, err := newRenderer()
	if err != nil {
		return err
	}

	file, err := config.LoadEntries(entriesFile)
	if err != nil {
		return apperror.NewIO(fmt.Sprintf("failed to load entries '%s'", entriesFile), err)
	}
	settings := file.Session.Apply(appConfig.Defaults())

	fmt.Fprintf(out, "Processing %d entries from %s...\n", len(file.Entries), entriesFile)

	handler := session.NewHandler(table, renderer, log)
	result, err := runEntries(handler, settings, file.Entries, out)
	if err != nil {
		return err
	}

	summary := utils.BatchSummary{
		StartTime:    startTime,
		EntriesFile:  entriesFile,
		DataFile:     appConfig.DataFile,
		TotalEntries: len(file.Entries),
		Added:        len(result.records),
		Failed:       len(result.failures),
		TotalAmount:  totalAmount(result.records, settings.KeepDecimals),
		DryRun:       dryRun,
	}
	if n := len(result.records); n > 0 {
		summary.FirstSerial = result.records[0].Serial
		summary.LastSerial = result.records[n-1].Serial
	}
	for i := range result.failures {
		result.failures[i].SourceFile = entriesFile
	}

	files := utils.NewFileManager(appConfig.OutputDir, appConfig.OutputName)

	if !dryRun {
		if result.document != nil {
			path, err := files.WriteOutput(result.document.Data, result.document.Extension, serialParams(result.records))
			if err != nil {
				return apperror.NewIO("failed to write the batch document", err)
			}
			summary.OutputFile = path

			if doc := result.document; doc.Schema != nil {
				schema, err := files.WriteCompanion(path, doc.Schema, doc.SchemaExtension)
				if err != nil {
					return apperror.NewIO("failed to write the schema", err)
				}
				fmt.Fprintf(out, "Schema written to %s\n", schema)
			}
		}

		if err := files.EnsureDirectories(); err != nil {
			return apperror.NewIO("failed to prepare the output directory", err)
		}
		errorLog, err := utils.WriteErrorLog(result.failures, appConfig.OutputDir)
		if err != nil {
			log.Warnw("error log not written", "error", err)
		} else if errorLog != "" {
			fmt.Fprintf(out, "Errors have been logged to %s\n", errorLog)
		}
	}

	summary.EndTime = time.Now()
	if !dryRun {
		if _, err := utils.WriteSummaryLog(summary, appConfig.OutputDir); err != nil {
			log.Warnw("summary not written", "error", err)
		}
	}

	fmt.Fprintln(out)
	fmt.Fprint(out, utils.FormatSummary(summary))

	log.Infow("batch complete",
		"entries", summary.TotalEntries,
		"added", summary.Added,
		"failed", summary.Failed,
		"output", summary.OutputFile,
		"dry_run", dryRun)
	return nil
}

// runEntries adds every entry to a fresh session. Entry failures are
// collected rather than returned; only a bad batch configuration or a
// rendering failure stops the run.
func runEntries(handler *session.Handler, settings config.BatchSettings, entries []config.Entry, out io.Writer) (batchResult, error) {
	var result batchResult

	s := session.New()
	err := handler.Configure(s, session.ConfigureRequest{
		StartNumber:  settings.StartNumber,
		PaymentDate:  settings.PaymentDate,
		KeepDecimals: settings.KeepDecimals,
		OnlySuffix:   settings.OnlySuffix,
	})
	if err != nil {
		return result, err
	}

	for i, entry := range entries {
		record, err := addEntry(handler, s, entry)
		if err != nil {
			fmt.Fprintf(out, "  ✗ #%d %s: %s\n", i+1, entry.Label(), describeError(err))
			result.failures = append(result.failures, failure(i+1, entry, err))
			continue
		}
		fmt.Fprintf(out, "  ✓ #%d %s -> challan %d, Rs. %s\n", i+1, entry.Label(), record.Serial, record.AmountDisplay)
	}

	if s.Len() == 0 {
		return result, nil
	}

	records, err := handler.Records(s)
	if err != nil {
		return result, err
	}
	doc, err := handler.Finalize(s)
	if err != nil {
		return result, err
	}
	result.records, result.document = records, &doc
	return result, nil
}

// addEntry adds one entry. An amount override is checked against the batch
// amount policy before the receipt is added, so a bad override never reaches
// the ledger.
func addEntry(handler *session.Handler, s *session.Session, entry config.Entry) (types.ReceiptRecord, error) {
	if entry.Amount != "" {
		if _, err := s.Config().Formatter().ParseAmount(entry.Amount); err != nil {
			return types.ReceiptRecord{}, err
		}
	}

	record, err := handler.Add(s, session.AddRequest{
		SearchRequest: session.SearchRequest{
			ConsumerNumber: entry.Consumer,
			From:           entry.From,
			To:             entry.To,
		},
		InstrumentType:   entry.InstrumentType,
		InstrumentNumber: entry.InstrumentNumber,
		InstrumentDate:   entry.InstrumentDate,
		BankName:         entry.Bank,
		PaymentDate:      entry.PaymentDate,
	})
	if err != nil || entry.Amount == "" {
		return record, err
	}

	updated, err := handler.EditAmount(s, record.ID, entry.Amount)
	if err != nil {
		if delErr := handler.Delete(s, record.ID); delErr != nil {
			log.Warnw("receipt with a bad amount could not be removed", "id", record.ID, "error", delErr)
		}
		return types.ReceiptRecord{}, err
	}
	return updated, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// failure turns an entry error into an error log entry.
func failure(index int, entry config.Entry, err error) utils.ErrorLogEntry {
	logEntry := utils.ErrorLogEntry{
		Timestamp:  time.Now(),
		EntryIndex: index,
		Entry:      entry.Label(),
		ErrorCode:  "ERROR",
		Message:    err.Error(),
	}

	if appErr, ok := apperror.AsAppError(err); ok {
		logEntry.ErrorCode = appErr.Code
		logEntry.Message = appErr.Message
		for _, violation := range appErr.Violations {
			logEntry.Details = append(logEntry.Details, violation.String())
		}
	}
	return logEntry
}

// totalAmount sums the batch and formats it with Indian grouping.
func totalAmount(records []types.ReceiptRecord, keepDecimals bool) string {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(r.Amount)
	}
	return money.FormatIndian(total, keepDecimals)
}
