// =============================================================================
// Challan Generator - Session Command
// =============================================================================
//
// This file defines the 'session' command: an interactive prompt for building
// one batch of receipts by hand.
//
// COMMAND USAGE:
//   challan session
//
// PROMPT COMMANDS:
//   setup    --start 100 --date 02/03/2026 [--decimals] [--only]
//   search   <consumer> <from> [to]
//   add      <consumer> <from> [to] --type cheque --number 004321
//            --date 01/11/2025 --bank "Canara Bank" [--pdate 05/03/2026]
//   list
//   edit     <serial|id> <amount>
//   delete   <serial|id>
//   finalize
//   reset
//   help
//   quit
//
// Each prompt line is parsed by its own small cobra command tree, so flags
// never leak from one line into the next. Errors are printed and the prompt
// continues.
//
// =============================================================================

package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ginjaninja78/challan-generator/internal/apperror"
	"github.com/ginjaninja78/challan-generator/internal/money"
	"github.com/ginjaninja78/challan-generator/internal/session"
	"github.com/ginjaninja78/challan-generator/internal/types"
	"github.com/ginjaninja78/challan-generator/pkg/utils"
	"github.com/google/shlex"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// errQuit ends the prompt loop.
var errQuit = errors.New("quit")

// =============================================================================
// SESSION COMMAND DEFINITION
// =============================================================================

// sessionCmd represents the 'session' command.
var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Build a batch of receipts interactively",
	Long: `The session command loads the master spreadsheet and opens a prompt.
Start with 'setup' to lock the first challan number and the payment date,
then 'search' and 'add' receipts. 'finalize' writes the batch document;
'reset' starts over and 'quit' leaves without writing anything further.`,
	RunE: runSession,
}

func init() {
	rootCmd.AddCommand(sessionCmd)
}

// prompt is the state of one interactive run.
type prompt struct {
	handler *session.Handler
	session *session.Session
	files   *utils.FileManager
	out     io.Writer
}

// runSession executes the session command.
func runSession(cmd *cobra.Command, args []string) error {
	table, err := loadTable()
	if err != nil {
		return err
	}
	renderer, err := newRenderer()
	if err != nil {
		return err
	}

	p := &prompt{
		handler: session.NewHandler(table, renderer, log),
		session: session.New(),
		files:   utils.NewFileManager(appConfig.OutputDir, appConfig.OutputName),
		out:     cmd.OutOrStdout(),
	}

	fmt.Fprintf(p.out, "Loaded %d consumers and %d billing months from %s.\n",
		table.ConsumerCount(), len(table.PeriodColumns()), appConfig.DataFile)
	fmt.Fprintln(p.out, "Type 'help' for commands. Start with 'setup'.")

	return p.loop(cmd.InOrStdin())
}

// loop reads and executes prompt lines until quit or end of input.
func (p *prompt) loop(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprintf(p.out, "challan[%s]> ", p.session.State())
		if !scanner.Scan() {
			fmt.Fprintln(p.out)
			break
		}

		err := p.execute(scanner.Text())
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(p.out, "Error: %s\n", describeError(err))
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	return nil
}

// execute runs one prompt line.
func (p *prompt) execute(line string) error {
	args, err := splitArgs(line)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return nil
	}

	root := p.commands()
	root.SetArgs(args)
	root.SetOut(p.out)
	root.SetErr(p.out)
	return root.Execute()
}

// =============================================================================
// PROMPT COMMAND TREE
// =============================================================================

// commands builds a fresh command tree for one line.
func (p *prompt) commands() *cobra.Command {
	root := &cobra.Command{
		Use:           "challan>",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	root.AddCommand(
		p.setupCommand(),
		p.searchCommand(),
		p.addCommand(),
		&cobra.Command{
			Use:   "list",
			Short: "List the receipts of the batch",
			Args:  cobra.NoArgs,
			RunE:  func(*cobra.Command, []string) error { return p.list() },
		},
		&cobra.Command{
			Use:   "edit <serial|id> <amount>",
			Short: "Change the amount of a receipt",
			Args:  cobra.ExactArgs(2),
			RunE:  func(_ *cobra.Command, args []string) error { return p.edit(args[0], args[1]) },
		},
		&cobra.Command{
			Use:   "delete <serial|id>",
			Short: "Remove a receipt; later receipts are renumbered",
			Args:  cobra.ExactArgs(1),
			RunE:  func(_ *cobra.Command, args []string) error { return p.remove(args[0]) },
		},
		&cobra.Command{
			Use:   "finalize",
			Short: "Write the batch document",
			Args:  cobra.NoArgs,
			RunE:  func(*cobra.Command, []string) error { return p.finalize() },
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Clear the settings and every receipt",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				if err := p.handler.Reset(p.session); err != nil {
					return err
				}
				fmt.Fprintln(p.out, "Session reset. Run 'setup' to start a new batch.")
				return nil
			},
		},
		&cobra.Command{
			Use:     "quit",
			Aliases: []string{"exit"},
			Short:   "Leave the session",
			Args:    cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				if err := p.handler.Discard(p.session); err != nil {
					return err
				}
				return errQuit
			},
		},
	)
	return root
}

func (p *prompt) setupCommand() *cobra.Command {
	var req session.ConfigureRequest

	c := &cobra.Command{
		Use:   "setup",
		Short: "Lock the first challan number, payment date and amount style",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			if err := p.handler.Configure(p.session, req); err != nil {
				return err
			}
			cfg := p.session.Config()
			fmt.Fprintf(p.out, "Batch starts at challan %d, payment date %s.\n",
				cfg.StartNumber, cfg.PaymentDate.Format("02.01.2006"))
			return nil
		},
	}

	c.Flags().IntVar(&req.StartNumber, "start", appConfig.StartNumber, "First challan number")
	c.Flags().StringVar(&req.PaymentDate, "date", appConfig.PaymentDate, "Payment date (dd/mm/yyyy)")
	c.Flags().BoolVar(&req.KeepDecimals, "decimals", appConfig.KeepDecimals, "Keep paise on amounts")
	c.Flags().BoolVar(&req.OnlySuffix, "only", appConfig.OnlySuffix, "End amounts in words with 'Only'")
	return c
}

func (p *prompt) searchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "search <consumer> <from> [to]",
		Short: "Show the amount due for a month or a range of months",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(_ *cobra.Command, args []string) error {
			resp, err := p.handler.Search(p.session, searchRequest(args))
			if err != nil {
				return err
			}

			res := resp.Resolution
			fmt.Fprintf(p.out, "%s (%s), %s\n", res.ConsumerName, res.ConsumerNumber, res.Period.Label())
			for _, m := range res.Months {
				switch {
				case !m.Matched:
					fmt.Fprintf(p.out, "  %-15s no column, counted as 0\n", m.Month)
				case strings.TrimSpace(m.Raw) == "":
					fmt.Fprintf(p.out, "  %-15s empty, counted as 0\n", m.Month)
				default:
					fmt.Fprintf(p.out, "  %-15s %s\n", m.Month, money.FormatOrRaw(m.Raw, p.session.Config().KeepDecimals))
				}
			}
			if !resp.Due {
				fmt.Fprintln(p.out, "No payment due for this period.")
				return nil
			}
			fmt.Fprintf(p.out, "Total: Rs. %s (%s)\n", resp.Display, resp.Words)
			return nil
		},
	}
}

func (p *prompt) addCommand() *cobra.Command {
	var req session.AddRequest

	c := &cobra.Command{
		Use:   "add <consumer> <from> [to]",
		Short: "Add a receipt to the batch",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(_ *cobra.Command, args []string) error {
			req.SearchRequest = searchRequest(args)
			record, err := p.handler.Add(p.session, req)
			if err != nil {
				return err
			}
			fmt.Fprintf(p.out, "Added challan %d: %s, Rs. %s\n", record.Serial, record.ConsumerName, record.AmountDisplay)
			return nil
		},
	}

	c.Flags().StringVar(&req.InstrumentType, "type", "cheque", "Instrument type: cheque or dd")
	c.Flags().StringVar(&req.InstrumentNumber, "number", "", "Six-digit cheque or DD number")
	c.Flags().StringVar(&req.InstrumentDate, "date", "", "Instrument date (dd/mm/yyyy)")
	c.Flags().StringVar(&req.BankName, "bank", "", "Bank name")
	c.Flags().StringVar(&req.PaymentDate, "pdate", "", "Payment date for this receipt only")
	return c
}

func searchRequest(args []string) session.SearchRequest {
	req := session.SearchRequest{ConsumerNumber: args[0], From: args[1]}
	if len(args) > 2 {
		req.To = args[2]
	}
	return req
}

// =============================================================================
// PROMPT ACTIONS
// =============================================================================

func (p *prompt) list() error {
	records, err := p.handler.Records(p.session)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(p.out, "No receipts yet.")
		return nil
	}

	printRecords(p.out, records)
	return nil
}

func (p *prompt) edit(ref, amount string) error {
	record, err := p.session.Find(ref)
	if err != nil {
		return err
	}
	updated, err := p.handler.EditAmount(p.session, record.ID, amount)
	if err != nil {
		return err
	}
	fmt.Fprintf(p.out, "Challan %d now Rs. %s (%s)\n", updated.Serial, updated.AmountDisplay, updated.AmountWords)
	return nil
}

func (p *prompt) remove(ref string) error {
	record, err := p.session.Find(ref)
	if err != nil {
		return err
	}
	if err := p.handler.Delete(p.session, record.ID); err != nil {
		return err
	}
	fmt.Fprintf(p.out, "Deleted challan %d (%s). %d receipts remain.\n", record.Serial, record.ConsumerName, p.session.Len())
	return nil
}

func (p *prompt) finalize() error {
	doc, err := p.handler.Finalize(p.session)
	if err != nil {
		return err
	}

	records, _ := p.handler.Records(p.session)
	path, err := p.files.WriteOutput(doc.Data, doc.Extension, serialParams(records))
	if err != nil {
		return err
	}
	fmt.Fprintf(p.out, "Wrote %d receipts to %s\n", doc.Records, path)

	if doc.Schema != nil {
		schema, err := p.files.WriteCompanion(path, doc.Schema, doc.SchemaExtension)
		if err != nil {
			return apperror.NewIO("failed to write the schema", err)
		}
		fmt.Fprintf(p.out, "Wrote schema to %s\n", schema)
	}
	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// printRecords writes the batch as a table.
func printRecords(out io.Writer, records []types.ReceiptRecord) {
	table := newTable(out, "Challan", "Consumer", "Name", "Period", "Amount", "Instrument", "Bank")
	for _, r := range records {
		table.Append([]string{
			strconv.Itoa(r.Serial),
			r.ConsumerNumber,
			r.ConsumerName,
			r.PeriodLabel,
			r.AmountDisplay,
			fmt.Sprintf("%s %s (%s)", r.InstrumentType, r.InstrumentNumber, r.InstrumentDate),
			r.BankName,
		})
	}
	table.Render()
}

// newTable returns a borderless table in the style shared by the commands.
func newTable(out io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(out)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	table.SetColumnSeparator("")
	table.SetCenterSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)
	return table
}

// serialParams exposes the serial range to the output name pattern.
func serialParams(records []types.ReceiptRecord) map[string]string {
	if len(records) == 0 {
		return nil
	}
	return map[string]string{
		"first": strconv.Itoa(records[0].Serial),
		"last":  strconv.Itoa(records[len(records)-1].Serial),
		"count": strconv.Itoa(len(records)),
	}
}

// splitArgs splits a prompt line into words with shell quoting rules, so
// "Canara Bank" stays one word.
func splitArgs(line string) ([]string, error) {
	args, err := shlex.Split(line)
	if err != nil {
		return nil, fmt.Errorf("cannot parse line: %w", err)
	}
	return args, nil
}
