package tabular

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ginjaninja78/challan-generator/internal/money"
	"github.com/ginjaninja78/challan-generator/internal/period"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Load reads a data source, choosing the parser from the file extension.
//
// PARAMETERS:
//   - filePath: .xlsx, .xlsm or .csv file
//   - layout: column names and layout mode
//
// RETURNS:
//   - *Table: the indexed, read-only table
//   - error: a plain error; callers wrap it as IO_ERROR
func Load(filePath string, layout Layout) (*Table, error) {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".xlsx", ".xlsm":
		return LoadXLSX(filePath, layout)
	case ".csv", ".txt":
		return LoadCSV(filePath, layout)
	default:
		return nil, fmt.Errorf("unsupported data source '%s' (expected .xlsx or .csv)", filepath.Base(filePath))
	}
}

// build picks the layout and returns the indexed table.
func build(headers []Header, rows [][]string, layout Layout) (*Table, error) {
	names := make([]string, len(headers))
	for i, h := range headers {
		names[i] = h.Name
	}

	mode := strings.ToLower(strings.TrimSpace(layout.Mode))
	switch mode {
	case "", ModeAuto:
		mode = ModeWide
		if indexOf(names, layout.MonthColumn) >= 0 && indexOf(names, layout.AmountColumn) >= 0 {
			mode = ModeLong
		}
	case ModeWide, ModeLong:
	default:
		return nil, fmt.Errorf("unknown layout mode '%s'", layout.Mode)
	}

	if mode == ModeWide {
		return NewTable(headers, rows, layout)
	}
	return pivotLong(names, rows, layout)
}

// =============================================================================
// LONG LAYOUT PIVOT
// =============================================================================

type pivotRow struct {
	consumer string
	name     string
	amounts  map[period.MonthYear]decimal.Decimal
}

// pivotLong turns one-row-per-month data into the wide shape. Amounts of
// repeated consumer and month pairs are summed. Rows whose month cannot be
// recognised are counted in Table.Skipped.
func pivotLong(names []string, rows [][]string, layout Layout) (*Table, error) {
	consumerCol := indexOf(names, layout.ConsumerColumn)
	if consumerCol < 0 {
		return nil, fmt.Errorf("consumer column '%s' not found", layout.ConsumerColumn)
	}
	nameCol := indexOf(names, layout.NameColumn)
	if nameCol < 0 {
		return nil, fmt.Errorf("name column '%s' not found", layout.NameColumn)
	}
	monthCol := indexOf(names, layout.MonthColumn)
	if monthCol < 0 {
		return nil, fmt.Errorf("month column '%s' not found", layout.MonthColumn)
	}
	amountCol := indexOf(names, layout.AmountColumn)
	if amountCol < 0 {
		return nil, fmt.Errorf("amount column '%s' not found", layout.AmountColumn)
	}
	yearCol := indexOf(names, layout.YearColumn)

	var order []string
	byConsumer := make(map[string]*pivotRow)
	months := make(map[period.MonthYear]bool)
	skipped := 0

	for _, row := range rows {
		consumer := NormalizeConsumerNumber(cell(row, consumerCol))
		if consumer == "" {
			skipped++
			continue
		}

		m, ok := monthOfRow(cell(row, monthCol), cell(row, yearCol))
		if !ok {
			skipped++
			continue
		}

		amount, err := money.ParseRaw(cell(row, amountCol))
		if err != nil {
			amount = decimal.Zero
		}

		pr, exists := byConsumer[consumer]
		if !exists {
			pr = &pivotRow{consumer: consumer, amounts: make(map[period.MonthYear]decimal.Decimal)}
			byConsumer[consumer] = pr
			order = append(order, consumer)
		}
		if pr.name == "" {
			pr.name = cell(row, nameCol)
		}
		pr.amounts[m] = pr.amounts[m].Add(amount)
		months[m] = true
	}

	sorted := make([]period.MonthYear, 0, len(months))
	for m := range months {
		sorted = append(sorted, m)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	headers := []Header{
		{Name: layout.ConsumerColumn},
		{Name: layout.NameColumn},
	}
	for _, m := range sorted {
		headers = append(headers, Header{Name: m.Short(), Period: m, HasPeriod: true})
	}

	wide := make([][]string, 0, len(order))
	for _, consumer := range order {
		pr := byConsumer[consumer]
		line := []string{pr.consumer, pr.name}
		for _, m := range sorted {
			if amount, ok := pr.amounts[m]; ok {
				line = append(line, amount.String())
			} else {
				line = append(line, "")
			}
		}
		wide = append(wide, line)
	}

	t, err := NewTable(headers, wide, layout)
	if err != nil {
		return nil, err
	}
	t.Mode = ModeLong
	t.Skipped = skipped
	return t, nil
}

// monthOfRow reads the month of a long-layout row. With a usable year cell
// the month cell only needs a month name or number; otherwise the month cell
// must carry the year itself (a label, a date or an Excel date serial).
func monthOfRow(monthCell, yearCell string) (period.MonthYear, bool) {
	if year, err := strconv.Atoi(strings.TrimSuffix(yearCell, ".0")); err == nil && year > 0 {
		if year < 100 {
			year += 2000
		}
		if month, ok := period.ParseMonth(monthCell); ok {
			return period.MonthYear{Month: month, Year: year}, true
		}
	}

	if m, ok := period.ParseLabel(monthCell); ok {
		return m, true
	}

	if h := ClassifyHeader(monthCell); h.HasPeriod {
		return h.Period, true
	}

	if serial, err := strconv.ParseFloat(monthCell, 64); err == nil && serial > 60 {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil && t.After(time.Date(1900, 3, 1, 0, 0, 0, 0, time.UTC)) {
			return period.Of(t), true
		}
	}

	return period.MonthYear{}, false
}
