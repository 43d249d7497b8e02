// =============================================================================
// Challan Generator - Main Entry Point
// =============================================================================
//
// This is the main entry point for the Challan Generator CLI application.
// It delegates command execution to the cmd package.
//
// USAGE:
//   challan session     - Build a batch of receipts interactively
//   challan process     - Build a batch from an entries file
//   challan inspect     - Show the billing months of the data source
//   challan version     - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Core logic (money, period, tabular, ledger, session,
//                      render, ...), not for external import
//   - pkg/           : Shared utilities (logging, output files)
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/challan-generator/cmd"
)

func main() {
	cmd.Execute()
}
