package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dtnitsch/sheet-query-runner/models"
	"github.com/xuri/excelize/v2"
)

// Excel refuses cells longer than MaxCellChars, so long values are cut well
// below it.
const (
	MaxCellChars     = 32767
	MaxErrorChars    = 1000
	MaxPayloadChars  = 30000
	TruncationMarker = "... [TRUNCATED]"

	ResultsSheet = "API Results"
)

var reportColumns = []column{
	{"Row Number", 12},
	{"Query", 50},
	{"API Success", 12},
	{"HTTP Status", 12},
	{"Error Message", 30},
	{"Response Data", 100},
	{"Timestamp", 25},
	{"Context ID", 30},
}

type column struct {
	Header string
	Width  float64
}

// WriteReport writes one row per record to the "API Results" sheet.
// Long error messages and payloads are truncated to fit a cell.
func WriteReport(result *models.BatchResult, path string) error {
	rows := make([][]any, 0, len(result.Records))
	for _, rec := range result.Records {
		rows = append(rows, reportRow(rec))
	}
	return writeSheet(path, ResultsSheet, reportColumns, rows)
}

func reportRow(rec models.ResultRecord) []any {
	out := rec.ApiResponse

	success := "NO"
	if out.Success {
		success = "YES"
	}

	var status any = out.Status.Code
	if out.Status.Sentinel != "" {
		status = out.Status.Sentinel
	}

	errMsg, _ := Truncate(out.Error, MaxErrorChars)

	payload := RenderPayload(out.Data)
	if cut, truncated := Truncate(payload, MaxPayloadChars); truncated {
		payload = cut + TruncationMarker
	}

	return []any{
		rec.RowNumber,
		rec.Query,
		success,
		status,
		errMsg,
		payload,
		rec.Timestamp,
		rec.ContextID,
	}
}

// RenderPayload serializes a payload as compact JSON. Absent or null
// payloads render as "".
func RenderPayload(data any) string {
	if data == nil {
		return ""
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(data); err != nil {
		return fmt.Sprint(data)
	}
	out := strings.TrimSuffix(buf.String(), "\n")
	if out == "null" {
		return ""
	}
	return out
}

// Truncate cuts s to at most limit characters and reports whether it did.
func Truncate(s string, limit int) (string, bool) {
	if len(s) <= limit {
		return s, false
	}
	n := 0
	for i := range s {
		if n == limit {
			return s[:i], true
		}
		n++
	}
	return s, false
}

func writeSheet(path, sheet string, cols []column, rows [][]any) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := fillSheet(f, sheet, cols, rows); err != nil {
		return &models.WriteError{Path: path, Err: err}
	}
	if err := f.SaveAs(path); err != nil {
		return &models.WriteError{Path: path, Err: err}
	}
	return nil
}

func fillSheet(f *excelize.File, sheet string, cols []column, rows [][]any) error {
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]any, len(cols))
	for i, c := range cols {
		header[i] = c.Header
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, name, name, c.Width); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	lastCol, err := excelize.ColumnNumberToName(len(cols))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		r := row
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}
	return nil
}
