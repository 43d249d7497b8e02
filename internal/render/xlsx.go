package render

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ginjaninja78/challan-generator/internal/apperror"
	"github.com/ginjaninja78/challan-generator/internal/types"
	"github.com/xuri/excelize/v2"
)

// placeholderPattern matches "{{r.name}}" and "{{ r.name }}".
var placeholderPattern = regexp.MustCompile(`\{\{\s*r\.(\w+)\s*\}\}`)

// defaultTitles are the header cells of the built-in template.
var defaultTitles = map[string]string{
	types.FieldChallan:     "Challan No.",
	types.FieldPaymentDate: "Payment Date",
	types.FieldName:        "Name",
	types.FieldNumber:      "Consumer No.",
	types.FieldMonth:       "Month",
	types.FieldYear:        "Year",
	types.FieldAmount:      "Amount (Rs.)",
	types.FieldWords:       "Amount in Words",
	types.FieldPayType:     "Payment Mode",
	types.FieldPayNumber:   "Cheque / DD No.",
	types.FieldBank:        "Bank",
	types.FieldDate:        "Cheque / DD Date",
}

// XLSX renders the batch into a workbook. The template sheet holds one row
// of {{r.<field>}} placeholders; that row is repeated once per record and
// every other cell of the sheet is kept as it is.
type XLSX struct {
	// TemplatePath is the template workbook. Empty uses the built-in layout.
	TemplatePath string

	// Sheet is the template sheet. Empty uses the first sheet.
	Sheet string
}

// Extension implements Renderer.
func (x *XLSX) Extension() string {
	return ".xlsx"
}

// Render implements Renderer.
func (x *XLSX) Render(records []types.ReceiptRecord) ([]byte, error) {
	f, err := x.open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheet := x.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	row, cells, err := findPlaceholderRow(f, sheet)
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		if err := f.RemoveRow(sheet, row); err != nil {
			return nil, apperror.NewRender("failed to remove template row", err)
		}
	}
	for i := 1; i < len(records); i++ {
		if err := f.DuplicateRow(sheet, row); err != nil {
			return nil, apperror.NewRender("failed to repeat template row", err)
		}
	}

	for i, record := range records {
		fields := record.Fields()
		for col, text := range cells {
			cell, err := excelize.CoordinatesToCellName(col, row+i)
			if err != nil {
				return nil, apperror.NewRender("invalid template cell", err)
			}
			if err := setCell(f, sheet, cell, text, fields); err != nil {
				return nil, apperror.NewRender(fmt.Sprintf("failed to fill cell %s", cell), err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, apperror.NewRender("failed to write workbook", err)
	}
	return buf.Bytes(), nil
}

func (x *XLSX) open() (*excelize.File, error) {
	if x.TemplatePath == "" {
		f, err := DefaultTemplate()
		if err != nil {
			return nil, apperror.NewRender("failed to build default template", err)
		}
		return f, nil
	}

	f, err := excelize.OpenFile(x.TemplatePath)
	if err != nil {
		return nil, apperror.NewRender(fmt.Sprintf("failed to open template '%s'", x.TemplatePath), err)
	}
	return f, nil
}

// findPlaceholderRow returns the first row holding placeholders and its
// placeholder cells keyed by 1-based column number. Unknown field names are
// reported so that template typos surface before any output is written.
func findPlaceholderRow(f *excelize.File, sheet string) (int, map[int]string, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return 0, nil, apperror.NewRender(fmt.Sprintf("failed to read template sheet '%s'", sheet), err)
	}

	known := make(map[string]bool, len(types.FieldOrder))
	for _, key := range types.FieldOrder {
		known[key] = true
	}

	for r, row := range rows {
		cells := make(map[int]string)
		for c, text := range row {
			matches := placeholderPattern.FindAllStringSubmatch(text, -1)
			if len(matches) == 0 {
				continue
			}
			for _, m := range matches {
				if !known[m[1]] {
					return 0, nil, apperror.NewRender(fmt.Sprintf("template uses unknown field '%s'", m[1]), nil)
				}
			}
			cells[c+1] = text
		}
		if len(cells) > 0 {
			return r + 1, cells, nil
		}
	}

	return 0, nil, apperror.NewRender(fmt.Sprintf("template sheet '%s' has no {{r.<field>}} row", sheet), nil)
}

// setCell fills one template cell. A cell that is exactly the challan
// placeholder gets a numeric value; all other cells get text.
func setCell(f *excelize.File, sheet, cell, text string, fields map[string]string) error {
	if m := placeholderPattern.FindStringSubmatch(strings.TrimSpace(text)); m != nil && m[0] == strings.TrimSpace(text) {
		value := fields[m[1]]
		if m[1] == types.FieldChallan {
			if n, err := strconv.Atoi(value); err == nil {
				return f.SetCellInt(sheet, cell, n)
			}
		}
		return f.SetCellStr(sheet, cell, value)
	}

	filled := placeholderPattern.ReplaceAllStringFunc(text, func(p string) string {
		return fields[placeholderPattern.FindStringSubmatch(p)[1]]
	})
	return f.SetCellStr(sheet, cell, filled)
}

// DefaultTemplate builds the built-in one-sheet register: a bold title row
// and one placeholder row in template field order.
func DefaultTemplate() (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := "Challans"
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		f.Close()
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, err
	}

	for i, key := range types.FieldOrder {
		title, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			f.Close()
			return nil, err
		}
		placeholder, _ := excelize.CoordinatesToCellName(i+1, 2)

		if err := f.SetCellStr(sheet, title, defaultTitles[key]); err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetCellStr(sheet, placeholder, "{{r."+key+"}}"); err != nil {
			f.Close()
			return nil, err
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(len(types.FieldOrder))
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", bold); err != nil {
		f.Close()
		return nil, err
	}
	if err := f.SetColWidth(sheet, "A", lastCol, 16); err != nil {
		f.Close()
		return nil, err
	}
	wordsCol, _ := excelize.ColumnNumberToName(8)
	if err := f.SetColWidth(sheet, wordsCol, wordsCol, 48); err != nil {
		f.Close()
		return nil, err
	}

	return f, nil
}
