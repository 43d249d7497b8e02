// =============================================================================
// Challan Generator - Tabular Data Source
// =============================================================================
//
// The master spreadsheet is loaded once per session into a read-only Table.
// Two layouts are understood:
//
//   WIDE (one row per consumer, one column per billing month)
//   | Consumer Number | Name         | Nov-25 | Jan-26 | 2026-02-01 |
//   |-----------------|--------------|--------|--------|------------|
//   | 7               | Asha Traders | 500    | 300    | 200        |
//
//   LONG (one row per consumer and month)
//   | Consumer Number | Name         | Month    | Year | Amount |
//   |-----------------|--------------|----------|------|--------|
//   | 7               | Asha Traders | November | 2025 | 500    |
//
// Long tables are pivoted into the wide shape at load time, so the period
// resolver only ever sees one representation of rows. Period columns are
// recognised either from a textual label ("Nov-25", "November 2025") or
// from a date-typed header cell.
//
// =============================================================================

package tabular

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/ginjaninja78/challan-generator/internal/period"
)

// ConsumerNumberWidth is the fixed width consumer numbers are padded to.
const ConsumerNumberWidth = 3

// =============================================================================
// LAYOUT
// =============================================================================

// Layout modes.
const (
	ModeAuto = "auto"
	ModeWide = "wide"
	ModeLong = "long"
)

// Layout describes where the data lives in the source file.
type Layout struct {
	// Mode is one of "auto", "wide" or "long".
	// Auto picks long when both the month and the amount columns exist.
	Mode string

	// Sheet is the XLSX sheet to read. Empty means the first sheet.
	Sheet string

	// Delimiter is the CSV field separator. Empty means ",".
	Delimiter string

	// Column headers, matched case-insensitively.
	ConsumerColumn string
	NameColumn     string
	MonthColumn    string
	YearColumn     string
	AmountColumn   string
}

// DefaultLayout returns the column names of the Book.xlsx master sheet.
func DefaultLayout() Layout {
	return Layout{
		Mode:           ModeAuto,
		ConsumerColumn: "Consumer Number",
		NameColumn:     "Name",
		MonthColumn:    "Month",
		YearColumn:     "Year",
		AmountColumn:   "Amount",
	}
}

// =============================================================================
// HEADER
// =============================================================================

// Header is one column header of the table.
type Header struct {
	// Name is the header text as it appears in the file.
	Name string

	// Period is the billing month the column holds, when HasPeriod is set.
	Period    period.MonthYear
	HasPeriod bool

	// FromDate is set when the period came from a date-typed header rather
	// than a textual label.
	FromDate bool
}

// dateHeaderLayouts are the text forms a date-typed header can take once it
// has gone through a CSV export.
var dateHeaderLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02-01-2006",
	"02/01/2006",
	"02.01.2006",
}

// ClassifyHeader recognises textual period labels and date strings.
func ClassifyHeader(name string) Header {
	name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
	h := Header{Name: name}

	if m, ok := period.ParseLabel(name); ok {
		h.Period, h.HasPeriod = m, true
		return h
	}

	for _, layout := range dateHeaderLayouts {
		if t, err := time.Parse(layout, name); err == nil {
			h.Period, h.HasPeriod, h.FromDate = period.Of(t), true, true
			return h
		}
	}

	return h
}

// =============================================================================
// TABLE
// =============================================================================

// Table is a loaded, read-only data source. It implements period.Source.
type Table struct {
	// SourceFile is the path the table was loaded from.
	SourceFile string

	// Headers holds one entry per column.
	Headers []Header

	// Rows holds the raw cell text of every data row.
	Rows [][]string

	// Mode is the layout the table was built from ("wide" or "long").
	Mode string

	// Skipped counts long-layout rows that had no recognisable month.
	Skipped int

	consumerCol int
	nameCol     int
	index       map[string]int
}

// NewTable indexes rows by consumer number. Consumer numbers are normalized
// with NormalizeConsumerNumber; the first row wins on duplicates.
func NewTable(headers []Header, rows [][]string, layout Layout) (*Table, error) {
	names := make([]string, len(headers))
	for i, h := range headers {
		names[i] = h.Name
	}

	consumerCol := indexOf(names, layout.ConsumerColumn)
	if consumerCol < 0 {
		return nil, fmt.Errorf("consumer column '%s' not found", layout.ConsumerColumn)
	}
	nameCol := indexOf(names, layout.NameColumn)
	if nameCol < 0 {
		return nil, fmt.Errorf("name column '%s' not found", layout.NameColumn)
	}

	t := &Table{
		Headers:     headers,
		Rows:        rows,
		Mode:        ModeWide,
		consumerCol: consumerCol,
		nameCol:     nameCol,
		index:       make(map[string]int, len(rows)),
	}

	// Identity columns never hold amounts, even when their text parses.
	t.Headers[consumerCol].HasPeriod = false
	t.Headers[nameCol].HasPeriod = false

	for i, row := range rows {
		key := NormalizeConsumerNumber(cell(row, consumerCol))
		if key == "" {
			continue
		}
		if _, exists := t.index[key]; !exists {
			t.index[key] = i
		}
	}

	return t, nil
}

// FindRow returns the row of a normalized consumer number.
func (t *Table) FindRow(consumerNumber string) (int, bool) {
	row, ok := t.index[consumerNumber]
	return row, ok
}

// ColumnFor returns the first column holding amounts for m.
func (t *Table) ColumnFor(m period.MonthYear) (period.ColumnID, bool) {
	for i, h := range t.Headers {
		if h.HasPeriod && h.Period == m {
			return period.ColumnID(i), true
		}
	}
	return 0, false
}

// Name returns the consumer name on row.
func (t *Table) Name(row int) string {
	return cell(t.Rows[row], t.nameCol)
}

// Value returns the raw cell text at row and col.
func (t *Table) Value(row int, col period.ColumnID) string {
	return cell(t.Rows[row], int(col))
}

// PeriodColumns lists the headers recognised as billing months.
func (t *Table) PeriodColumns() []Header {
	var out []Header
	for _, h := range t.Headers {
		if h.HasPeriod {
			out = append(out, h)
		}
	}
	return out
}

// ConsumerCount returns the number of distinct consumers.
func (t *Table) ConsumerCount() int {
	return len(t.index)
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

var floatInteger = regexp.MustCompile(`^(\d+)\.0+$`)

// NormalizeConsumerNumber trims s, drops a spreadsheet float suffix ("7.0")
// and left-pads all-digit values to ConsumerNumberWidth. Anything else is
// returned trimmed so that validation can reject it.
func NormalizeConsumerNumber(s string) string {
	s = strings.TrimSpace(s)
	if m := floatInteger.FindStringSubmatch(s); m != nil {
		s = m[1]
	}
	if s == "" || !isDigits(s) {
		return s
	}
	if len(s) < ConsumerNumberWidth {
		s = strings.Repeat("0", ConsumerNumberWidth-len(s)) + s
	}
	return s
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func indexOf(names []string, want string) int {
	want = strings.TrimSpace(want)
	if want == "" {
		return -1
	}
	for i, n := range names {
		if strings.EqualFold(strings.TrimSpace(n), want) {
			return i
		}
	}
	return -1
}

func cell(row []string, col int) string {
	if col >= 0 && col < len(row) {
		return strings.TrimSpace(row[col])
	}
	return ""
}

// isRowEmpty checks if a row contains only empty cells.
func isRowEmpty(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// cleanHeaders names empty header cells after their position.
func cleanHeaders(raw []string) []string {
	cleaned := make([]string, len(raw))
	for i, h := range raw {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if h == "" {
			h = fmt.Sprintf("Column_%d", i+1)
		}
		cleaned[i] = h
	}
	return cleaned
}
