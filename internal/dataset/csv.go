// Package dataset loads tabular prediction data from CSV files.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Row maps a CSV header name to the cell value of one data row.
type Row map[string]string

// LoadCSV reads a CSV file whose first record is the header row.
func LoadCSV(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	return ReadCSV(f, path)
}

// ReadCSV parses CSV records from r. name is only used in error messages.
func ReadCSV(r io.Reader, name string) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv: parse %s: %w", name, err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("csv: %s is empty (no header row)", name)
	}

	headers := records[0]
	for i, h := range headers {
		headers[i] = strings.TrimSpace(h)
	}

	rows := make([]Row, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(Row, len(headers))
		for j, h := range headers {
			row[h] = record[j]
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// LoadCSVRange returns data rows start through end (1-based, inclusive) of
// the file. end is clamped to the number of rows.
func LoadCSVRange(path string, start, end int) ([]Row, error) {
	if start < 1 {
		return nil, fmt.Errorf("csv: range start must be >= 1, got %d", start)
	}
	if end < start {
		return nil, fmt.Errorf("csv: range end (%d) must be >= start (%d)", end, start)
	}

	rows, err := LoadCSV(path)
	if err != nil {
		return nil, err
	}

	if start > len(rows) {
		return []Row{}, nil
	}
	return rows[start-1 : min(end, len(rows))], nil
}

// Float parses the named column of row as a float64.
func (r Row) Float(col string) (float64, error) {
	raw, ok := r[col]
	if !ok {
		return 0, fmt.Errorf("missing column %q", col)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("column %q: %q is not a number", col, raw)
	}
	return v, nil
}
