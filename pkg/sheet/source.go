// Package sheet reads query tables from xlsx workbooks and csv files.
package sheet

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dtnitsch/sheet-query-runner/models"
	"github.com/xuri/excelize/v2"
)

// firstDataRow is the sheet row number of the first row after the header.
const firstDataRow = 2

// Table is a sheet read into memory. Headers are unique and trimmed.
type Table struct {
	Sheet   string
	Headers []string
	Rows    [][]string
}

// Extract reads the query column from the given sheet (first sheet when
// sheetSelector is empty) and returns one record per non-blank query.
func Extract(filePath, sheetSelector, columnName string) ([]models.QueryRecord, error) {
	if columnName == "" {
		columnName = models.DefaultColumn
	}

	table, err := ReadTable(filePath, sheetSelector)
	if err != nil {
		return nil, err
	}
	return table.Queries(columnName), nil
}

// ReadTable loads the whole sheet. Files ending in .csv are parsed as csv.
func ReadTable(filePath, sheetSelector string) (*Table, error) {
	var (
		sheetName string
		rows      [][]string
		err       error
	)
	if strings.EqualFold(filepath.Ext(filePath), ".csv") {
		sheetName = strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
		rows, err = readCSV(filePath)
	} else {
		sheetName, rows, err = readWorkbook(filePath, sheetSelector)
	}
	if err != nil {
		return nil, &models.SourceReadError{Path: filePath, Err: err}
	}

	table := &Table{Sheet: sheetName}
	if len(rows) == 0 {
		return table, nil
	}

	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}
	table.Headers = headerNames(rows[0], width)
	table.Rows = rows[1:]
	return table, nil
}

// ColumnIndex finds a header by exact name, falling back to a
// case-insensitive match. It returns -1 when nothing matches.
func (t *Table) ColumnIndex(name string) int {
	for i, h := range t.Headers {
		if h == name {
			return i
		}
	}
	for i, h := range t.Headers {
		if strings.EqualFold(h, name) {
			return i
		}
	}
	return -1
}

// Queries turns the rows into query records. Blank rows still count toward
// the row number so it matches what a user sees in a spreadsheet.
func (t *Table) Queries(columnName string) []models.QueryRecord {
	col := t.ColumnIndex(columnName)
	if col < 0 {
		return []models.QueryRecord{}
	}

	records := make([]models.QueryRecord, 0, len(t.Rows))
	for i, row := range t.Rows {
		if col >= len(row) {
			continue
		}
		query := strings.TrimSpace(row[col])
		if query == "" {
			continue
		}
		records = append(records, models.QueryRecord{
			RowNumber:   i + firstDataRow,
			Query:       query,
			OriginalRow: t.rowMap(row),
		})
	}
	return records
}

// Value returns the cell of row under the named header, or "".
func (t *Table) Value(row []string, header string) string {
	col := t.ColumnIndex(header)
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}

func (t *Table) rowMap(row []string) map[string]any {
	m := make(map[string]any, len(row))
	for i, cell := range row {
		if cell == "" || i >= len(t.Headers) {
			continue
		}
		m[t.Headers[i]] = cell
	}
	return m
}

// headerNames trims the header row and makes every name unique. Empty names
// become __EMPTY, duplicates get a numeric suffix.
func headerNames(raw []string, width int) []string {
	headers := make([]string, width)
	seen := make(map[string]int, width)
	for i := 0; i < width; i++ {
		name := ""
		if i < len(raw) {
			name = strings.TrimSpace(raw[i])
		}
		if name == "" {
			name = "__EMPTY"
		}
		base := name
		for seen[name] > 0 {
			name = fmt.Sprintf("%s_%d", base, seen[base])
			seen[base]++
		}
		seen[name]++
		headers[i] = name
	}
	return headers
}

func readWorkbook(filePath, sheetSelector string) (string, [][]string, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return "", nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheetName := sheetSelector
	if sheetName == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return "", nil, fmt.Errorf("workbook has no sheets")
		}
		sheetName = sheets[0]
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read sheet %q: %w", sheetName, err)
	}
	return sheetName, rows, nil
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func readCSV(filePath string) ([][]string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv: %w", err)
	}

	data = bytes.TrimPrefix(data, utf8BOM)
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	var rows [][]string
	for {
		start := r.InputOffset()
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse csv: %w", err)
		}
		// csv.Reader skips empty lines; they still occupy a row number.
		if len(rows) > 0 {
			for n := emptyLines(data[start:r.InputOffset()]); n > 0; n-- {
				rows = append(rows, nil)
			}
		}
		rows = append(rows, record)
	}
	return rows, nil
}

// emptyLines counts the blank lines at the start of b.
func emptyLines(b []byte) int {
	n := 0
	for {
		switch {
		case bytes.HasPrefix(b, []byte("\r\n")):
			b = b[2:]
		case bytes.HasPrefix(b, []byte("\n")):
			b = b[1:]
		default:
			return n
		}
		n++
	}
}
