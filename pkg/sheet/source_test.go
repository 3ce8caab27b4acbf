package sheet

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dtnitsch/sheet-query-runner/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// writeWorkbook creates an xlsx file whose first sheet holds rows starting at A1.
func writeWorkbook(t *testing.T, sheetName string, rows [][]any) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	if sheetName != "Sheet1" {
		require.NoError(t, f.SetSheetName("Sheet1", sheetName))
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheetName, cell, &r))
	}

	path := filepath.Join(t.TempDir(), "queries.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestExtractSkipsBlankQueriesAndKeepsRowNumbers(t *testing.T) {
	path := writeWorkbook(t, "Sheet1", [][]any{
		{"query"},
		{"how to reset password"},
		{""},
		{"  "},
		{"create workspace"},
	})

	records, err := Extract(path, "", "")
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, 2, records[0].RowNumber)
	assert.Equal(t, "how to reset password", records[0].Query)
	assert.Equal(t, 5, records[1].RowNumber)
	assert.Equal(t, "create workspace", records[1].Query)
}

func TestExtractPreservesOriginalRow(t *testing.T) {
	path := writeWorkbook(t, "Sheet1", [][]any{
		{"id", "query", "source"},
		{"A-1", "  where is the handbook  ", "Handbook.pdf"},
		{"A-2", "", "ignored"},
	})

	records, err := Extract(path, "", "query")
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "where is the handbook", rec.Query)
	assert.Equal(t, "A-1", rec.OriginalRow["id"])
	assert.Equal(t, "Handbook.pdf", rec.OriginalRow["source"])
	assert.Equal(t, "  where is the handbook  ", rec.OriginalRow["query"])
}

func TestExtractNamedSheetAndColumn(t *testing.T) {
	path := writeWorkbook(t, "Questions", [][]any{
		{"Question"},
		{"first"},
		{"second"},
	})

	records, err := Extract(path, "Questions", "Question")
	require.NoError(t, err)
	assert.Len(t, records, 2)

	// case-insensitive fallback
	records, err = Extract(path, "Questions", "question")
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestExtractMissingColumnYieldsNothing(t *testing.T) {
	path := writeWorkbook(t, "Sheet1", [][]any{
		{"prompt"},
		{"hello"},
	})

	records, err := Extract(path, "", "query")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestExtractErrors(t *testing.T) {
	path := writeWorkbook(t, "Sheet1", [][]any{{"query"}, {"x"}})

	tests := []struct {
		name  string
		path  string
		sheet string
	}{
		{"missing file", filepath.Join(t.TempDir(), "absent.xlsx"), ""},
		{"missing sheet", path, "NoSuchSheet"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extract(tt.path, tt.sheet, "query")
			require.Error(t, err)

			var srcErr *models.SourceReadError
			assert.True(t, errors.As(err, &srcErr))
			assert.Equal(t, tt.path, srcErr.Path)
		})
	}
}

func TestExtractCorruptWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("not a zip"), 0600))

	_, err := Extract(path, "", "query")
	var srcErr *models.SourceReadError
	assert.ErrorAs(t, err, &srcErr)
}

func TestExtractCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "queries.csv")
	content := "\xEF\xBB\xBFquery,source\nfirst question,a.pdf\n,\nsecond question,b.pdf\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	records, err := Extract(path, "", "")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 2, records[0].RowNumber)
	assert.Equal(t, 4, records[1].RowNumber)
	assert.Equal(t, "b.pdf", records[1].OriginalRow["source"])
}

func TestExtractCSVBlankLinesKeepRowNumbers(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"lf", "query\nhow to reset password\n\n  \ncreate workspace\n"},
		{"crlf", "query\r\nhow to reset password\r\n\r\n  \r\ncreate workspace\r\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "queries.csv")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0600))

			records, err := Extract(path, "", "")
			require.NoError(t, err)
			require.Len(t, records, 2)
			assert.Equal(t, 2, records[0].RowNumber)
			assert.Equal(t, "how to reset password", records[0].Query)
			assert.Equal(t, 5, records[1].RowNumber)
			assert.Equal(t, "create workspace", records[1].Query)
		})
	}
}

func TestEmptyLines(t *testing.T) {
	assert.Equal(t, 0, emptyLines([]byte("q\n")))
	assert.Equal(t, 2, emptyLines([]byte("\n\r\nq\n")))
}

func TestHeaderNames(t *testing.T) {
	got := headerNames([]string{" query ", "", "query", "", "query"}, 6)
	want := []string{"query", "__EMPTY", "query_1", "__EMPTY_1", "query_2", "__EMPTY_2"}
	assert.Equal(t, want, got)
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input", "sample.xlsx")
	require.NoError(t, CreateSample(path))

	table, err := ReadTable(path, "")
	require.NoError(t, err)
	assert.Equal(t, "Queries", table.Sheet)
	assert.Equal(t, []string{"query", "source"}, table.Headers)

	records := table.Queries("query")
	require.Len(t, records, len(SampleRows))
	for i, rec := range records {
		assert.Equal(t, SampleRows[i].Query, rec.Query)
		assert.Equal(t, SampleRows[i].Source, rec.OriginalRow["source"])
	}
}
