package tabular_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ginjaninja78/challan-generator/internal/period"
	"github.com/ginjaninja78/challan-generator/internal/tabular"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, build func(f *excelize.File, sheet string)) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	build(f, f.GetSheetName(0))

	path := filepath.Join(t.TempDir(), "Book.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestNormalizeConsumerNumber(t *testing.T) {
	tests := map[string]string{
		"7":     "007",
		" 42 ":  "042",
		"7.0":   "007",
		"1234":  "1234",
		"007":   "007",
		"A12":   "A12",
		"":      "",
		"12.50": "12.50",
	}
	for in, want := range tests {
		assert.Equal(t, want, tabular.NormalizeConsumerNumber(in), "input %q", in)
	}
}

func TestParseCSV_Wide(t *testing.T) {
	data := "\ufeffConsumer Number,Name,Nov-25,Jan-26,2026-02-01\n" +
		"7,Asha Traders,500,300,200\n" +
		",,,,\n" +
		"12,Ravi,\"1,200\",,50\n"

	table, err := tabular.ParseCSV(strings.NewReader(data), tabular.DefaultLayout())
	require.NoError(t, err)

	assert.Equal(t, tabular.ModeWide, table.Mode)
	assert.Equal(t, 2, table.ConsumerCount())
	require.Len(t, table.PeriodColumns(), 3)
	assert.True(t, table.PeriodColumns()[2].FromDate)

	row, ok := table.FindRow("012")
	require.True(t, ok)
	assert.Equal(t, "Ravi", table.Name(row))

	col, ok := table.ColumnFor(period.MonthYear{Month: time.November, Year: 2025})
	require.True(t, ok)
	assert.Equal(t, "1,200", table.Value(row, col))

	_, ok = table.ColumnFor(period.MonthYear{Month: time.December, Year: 2025})
	assert.False(t, ok)
}

func TestParseCSV_SemicolonDelimiter(t *testing.T) {
	layout := tabular.DefaultLayout()
	layout.Delimiter = ";"

	table, err := tabular.ParseCSV(strings.NewReader("Consumer Number;Name;Mar-26\n3;Meera;75\n"), layout)
	require.NoError(t, err)

	_, ok := table.FindRow("003")
	assert.True(t, ok)
}

func TestParseCSV_MissingIdentityColumn(t *testing.T) {
	_, err := tabular.ParseCSV(strings.NewReader("Number,Name,Nov-25\n1,A,10\n"), tabular.DefaultLayout())
	assert.Error(t, err)
}

func TestParseCSV_LongLayoutIsPivoted(t *testing.T) {
	data := "Consumer Number,Name,Month,Year,Amount\n" +
		"7,Asha Traders,November,2025,500\n" +
		"7,Asha Traders,Jan,2026,300\n" +
		"7,Asha Traders,Jan,2026,25\n" +
		"9,Kiran,Nov-25,,40\n" +
		"9,Kiran,Someday,,99\n"

	table, err := tabular.ParseCSV(strings.NewReader(data), tabular.DefaultLayout())
	require.NoError(t, err)

	assert.Equal(t, tabular.ModeLong, table.Mode)
	assert.Equal(t, 1, table.Skipped)

	cols := table.PeriodColumns()
	require.Len(t, cols, 2)
	assert.Equal(t, "Nov-25", cols[0].Name)
	assert.Equal(t, "Jan-26", cols[1].Name)

	row, ok := table.FindRow("007")
	require.True(t, ok)
	col, ok := table.ColumnFor(period.MonthYear{Month: time.January, Year: 2026})
	require.True(t, ok)
	assert.Equal(t, "325", table.Value(row, col))

	kiran, ok := table.FindRow("009")
	require.True(t, ok)
	assert.Equal(t, "", table.Value(kiran, col))
}

func TestResolveAgainstLoadedTable(t *testing.T) {
	data := "Consumer Number,Name,Nov-25,Jan-26,Feb-26\n7,Asha Traders,500,300,200\n"
	table, err := tabular.ParseCSV(strings.NewReader(data), tabular.DefaultLayout())
	require.NoError(t, err)

	p, err := period.Parse("Nov-25", "Feb-26")
	require.NoError(t, err)

	res, err := period.Resolve(table, "007", p)
	require.NoError(t, err)
	assert.Equal(t, "1000", res.Total.String())
	assert.Len(t, res.MissingPeriods, 1)
}

func TestLoadXLSX_DateStyledHeaders(t *testing.T) {
	path := writeWorkbook(t, func(f *excelize.File, sheet string) {
		require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"Consumer Number", "Name", "Nov-25"}))
		require.NoError(t, f.SetCellValue(sheet, "D1", time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)))

		style, err := f.NewStyle(&excelize.Style{NumFmt: 14})
		require.NoError(t, err)
		require.NoError(t, f.SetCellStyle(sheet, "D1", "D1", style))

		require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{7, "Asha Traders", 500, 200.5}))
	})

	table, err := tabular.Load(path, tabular.DefaultLayout())
	require.NoError(t, err)
	assert.Equal(t, path, table.SourceFile)

	cols := table.PeriodColumns()
	require.Len(t, cols, 2)
	assert.False(t, cols[0].FromDate)
	assert.True(t, cols[1].FromDate)
	assert.Equal(t, period.MonthYear{Month: time.February, Year: 2026}, cols[1].Period)

	row, ok := table.FindRow("007")
	require.True(t, ok)
	col, ok := table.ColumnFor(period.MonthYear{Month: time.February, Year: 2026})
	require.True(t, ok)
	assert.Equal(t, "200.5", table.Value(row, col))
}

func TestLoadXLSX_NamedSheet(t *testing.T) {
	path := writeWorkbook(t, func(f *excelize.File, sheet string) {
		_, err := f.NewSheet("Dues")
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Dues", "A1", &[]any{"Consumer Number", "Name", "Mar-26"}))
		require.NoError(t, f.SetSheetRow("Dues", "A2", &[]any{"5", "Leela", "80"}))
	})

	layout := tabular.DefaultLayout()
	layout.Sheet = "Dues"
	table, err := tabular.Load(path, layout)
	require.NoError(t, err)
	assert.Equal(t, 1, table.ConsumerCount())

	layout.Sheet = "Missing"
	_, err = tabular.Load(path, layout)
	assert.Error(t, err)
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.ods")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	_, err := tabular.Load(path, tabular.DefaultLayout())
	assert.Error(t, err)
}
