package tabular

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ginjaninja78/challan-generator/internal/period"
	"github.com/xuri/excelize/v2"
)

// builtInDateFormats are the excelize built-in number format ids that render
// a serial number as a date.
var builtInDateFormats = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 18: true, 19: true, 20: true, 21: true, 22: true,
	27: true, 28: true, 29: true, 30: true, 31: true, 32: true, 33: true, 34: true, 35: true, 36: true,
	45: true, 46: true, 47: true,
	50: true, 51: true, 52: true, 53: true, 54: true, 55: true, 56: true, 57: true, 58: true,
}

// LoadXLSX reads an XLSX data source from the configured sheet (or the first
// one). Cells are read as raw values so amounts keep their full precision
// and date headers arrive as serial numbers.
func LoadXLSX(filePath string, layout Layout) (*Table, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	table, err := ReadWorkbook(f, layout)
	if err != nil {
		return nil, err
	}
	table.SourceFile = filePath
	return table, nil
}

// ReadWorkbook builds a Table from an open workbook.
func ReadWorkbook(f *excelize.File, layout Layout) (*Table, error) {
	sheetName := layout.Sheet
	if sheetName == "" {
		sheetName = f.GetSheetName(0)
	}
	if sheetName == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	if idx, err := f.GetSheetIndex(sheetName); err != nil || idx < 0 {
		return nil, fmt.Errorf("sheet '%s' not found", sheetName)
	}

	allRows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(allRows) == 0 {
		return nil, fmt.Errorf("sheet '%s' is empty", sheetName)
	}

	names := cleanHeaders(allRows[0])
	headers := make([]Header, len(names))
	for i, n := range names {
		headers[i] = classifyCellHeader(f, sheetName, i, n)
	}

	var rows [][]string
	for _, row := range allRows[1:] {
		if isRowEmpty(row) {
			continue
		}
		rows = append(rows, row)
	}

	return build(headers, rows, layout)
}

// classifyCellHeader treats a numeric header cell with a date number format
// as a date-typed header; everything else goes through ClassifyHeader.
func classifyCellHeader(f *excelize.File, sheet string, col int, name string) Header {
	cellName, err := excelize.CoordinatesToCellName(col+1, 1)
	if err != nil {
		return ClassifyHeader(name)
	}

	serial, err := strconv.ParseFloat(name, 64)
	if err != nil || !isDateStyled(f, sheet, cellName) {
		return ClassifyHeader(name)
	}

	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return ClassifyHeader(name)
	}

	return Header{
		Name:      name,
		Period:    period.Of(t),
		HasPeriod: true,
		FromDate:  true,
	}
}

func isDateStyled(f *excelize.File, sheet, cellName string) bool {
	styleID, err := f.GetCellStyle(sheet, cellName)
	if err != nil || styleID == 0 {
		return false
	}
	style, err := f.GetStyle(styleID)
	if err != nil || style == nil {
		return false
	}
	if builtInDateFormats[style.NumFmt] {
		return true
	}
	if style.CustomNumFmt != nil {
		return strings.ContainsAny(strings.ToLower(*style.CustomNumFmt), "dmy")
	}
	return false
}
