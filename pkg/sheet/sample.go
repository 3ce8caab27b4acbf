package sheet

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

const (
	DefaultSamplePath = "input/sample_queries.xlsx"
	sampleSheet       = "Queries"
)

// SampleRow is one example query with the source document expected to answer it.
type SampleRow struct {
	Query  string
	Source string
}

var SampleRows = []SampleRow{
	{"What is the company's code of conduct?", "Employee-Handbook.pdf (pp. 5-7)"},
	{"How do I report harassment?", "Employee-Handbook.pdf (pp. 12-14)"},
	{"What are equal opportunity policies?", "Employee-Handbook.pdf (pp. 8-10)"},
	{"Outside employment policy?", "Employee-Handbook.pdf (p. 11)"},
	{"Confidentiality rules?", "Employee-Handbook.pdf (pp. 15-16)"},
}

// CreateSample writes a workbook with query and source columns filled from
// SampleRows. Parent directories are created as needed.
func CreateSample(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create sample directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sampleSheet); err != nil {
		return fmt.Errorf("failed to name sample sheet: %w", err)
	}
	if err := f.SetSheetRow(sampleSheet, "A1", &[]any{"query", "source"}); err != nil {
		return fmt.Errorf("failed to write sample header: %w", err)
	}
	for i, row := range SampleRows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sampleSheet, cell, &[]any{row.Query, row.Source}); err != nil {
			return fmt.Errorf("failed to write sample row %d: %w", i+2, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save sample workbook: %w", err)
	}
	return nil
}
