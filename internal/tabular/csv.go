package tabular

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// LoadCSV reads a CSV data source. The first row holds the headers.
func LoadCSV(filePath string, layout Layout) (*Table, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	table, err := ParseCSV(bufio.NewReader(file), layout)
	if err != nil {
		return nil, err
	}
	table.SourceFile = filePath
	return table, nil
}

// ParseCSV parses CSV content into a Table.
func ParseCSV(r io.Reader, layout Layout) (*Table, error) {
	csvReader := csv.NewReader(r)
	configureReader(csvReader, layout.Delimiter)

	allRows, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(allRows) == 0 {
		return nil, fmt.Errorf("CSV file is empty")
	}

	names := cleanHeaders(allRows[0])
	headers := make([]Header, len(names))
	for i, n := range names {
		headers[i] = ClassifyHeader(n)
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

// configureReader applies the delimiter and the lenient parsing options
// spreadsheet exports need.
func configureReader(reader *csv.Reader, delimiter string) {
	switch delimiter {
	case "\\t", "tab", "TAB":
		reader.Comma = '\t'
	case "|", "pipe", "PIPE":
		reader.Comma = '|'
	case ";", "semicolon":
		reader.Comma = ';'
	default:
		if len(delimiter) > 0 {
			reader.Comma = rune(delimiter[0])
		} else {
			reader.Comma = ','
		}
	}

	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
}
