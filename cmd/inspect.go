// =============================================================================
// Challan Generator - Inspect Command
// =============================================================================
//
// This file defines the 'inspect' command, which loads the master spreadsheet
// and shows what the resolver will see: the layout, the number of consumers
// and every billing month column.
//
// COMMAND USAGE:
//   challan inspect [--data Book.xlsx] [--sheet Dues]
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// inspectCmd represents the 'inspect' command.
var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show the consumers and billing months of the data source",
	Long: `Load the master spreadsheet with the current configuration and list the
billing month columns it contains. Long-layout sheets are shown after they
have been pivoted into one column per month.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := loadTable()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "File:       %s\n", appConfig.DataFile)
		fmt.Fprintf(out, "Layout:     %s\n", table.Mode)
		fmt.Fprintf(out, "Consumers:  %d\n", table.ConsumerCount())
		if table.Skipped > 0 {
			fmt.Fprintf(out, "Skipped:    %d rows without a consumer or month\n", table.Skipped)
		}

		columns := table.PeriodColumns()
		if len(columns) == 0 {
			fmt.Fprintln(out, "\nNo billing month columns found.")
			return nil
		}

		fmt.Fprintf(out, "\nBilling months (%d):\n", len(columns))
		t := newTable(out, "Header", "Month", "Source")
		for _, h := range columns {
			source := "label"
			if h.FromDate {
				source = "date"
			}
			t.Append([]string{h.Name, h.Period.String(), source})
		}
		t.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
