package report

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/dtnitsch/sheet-query-runner/models"
	"github.com/dtnitsch/sheet-query-runner/pkg/answer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSummary(t *testing.T) {
	archive := &models.Archive{Results: sampleBatch().Records}

	rows := BuildSummary(archive, SummaryOptions{SourceColumn: "source"})
	require.Len(t, rows, 2)

	ok := rows[0]
	assert.Equal(t, 2, ok.Row)
	assert.Equal(t, "YES", ok.Success)
	assert.Equal(t, "200", ok.Status)
	assert.Equal(t, "YES", ok.HasData)
	assert.Equal(t, "2025-08-19", ok.Date)
	assert.Equal(t, "Use the link.", ok.Answer)
	assert.Equal(t, "Employee Handbook", ok.Titles)
	assert.Equal(t, answer.SourceMatch, ok.SourceMatch)
	assert.Empty(t, ok.Language)

	failed := rows[1]
	assert.Equal(t, "NO", failed.Success)
	assert.Equal(t, "NETWORK_ERROR", failed.Status)
	assert.Equal(t, "NO", failed.HasData)
	assert.Equal(t, answer.NoTitles, failed.Titles)
	assert.Equal(t, answer.SourceUnknown, failed.SourceMatch)
	assert.Empty(t, failed.Answer)
}

func TestBuildSummaryHasDataFollowsSuccess(t *testing.T) {
	records := sampleBatch().Records
	records[0].ApiResponse.Data = nil

	rows := BuildSummary(&models.Archive{Results: records}, SummaryOptions{})
	require.Len(t, rows, 2)
	assert.Equal(t, "YES", rows[0].HasData)
	assert.Equal(t, answer.NoAnswer, rows[0].Answer)
	assert.Equal(t, "NO", rows[1].HasData)
}

func TestWriteSummary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.xlsx")
	records := sampleBatch().Records
	records[0].ApiResponse.Data = json.RawMessage(`{"response":{"answer":"<p>Open the account settings page, choose the option to reset your password and follow the instructions in the email we send you.</p>"}}`)
	archive := &models.Archive{Results: records}

	opts := SummaryOptions{Languages: answer.NewLanguageDetector([]string{"English", "German"})}
	require.NoError(t, WriteSummary(archive, path, opts))

	rows := readSheet(t, path)
	require.Len(t, rows, 3)
	assert.Equal(t, "Row", rows[0][0])
	assert.Equal(t, "Language", rows[0][10])
	assert.Contains(t, rows[1][7], "Open the account settings page")
	assert.Equal(t, "en", rows[1][10])
}
