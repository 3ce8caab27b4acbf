package db

import (
	"bytes"
	"testing"
	"time"

	dbpkg "github.com/dtnitsch/sheet-query-runner/pkg/db"
	"github.com/stretchr/testify/assert"
)

func TestPrintRunTable(t *testing.T) {
	var buf bytes.Buffer
	printRunTable(&buf, []dbpkg.Run{{
		RunID:        "0b7e4c1a-5a7e-4f61-9c7e-5a2b1f0c9d11",
		CreatedAt:    time.Date(2025, 8, 19, 13, 46, 58, 0, time.UTC),
		InputPath:    "input/queries.xlsx",
		TotalCount:   3,
		SuccessCount: 2,
		FailedCount:  1,
		DelayMs:      1000,
	}})

	out := buf.String()
	assert.Contains(t, out, "0b7e4c1a ")
	assert.NotContains(t, out, "0b7e4c1a-5a7e")
	assert.Contains(t, out, "input/queries.xlsx")
}

func TestPrintRunDetails(t *testing.T) {
	var buf bytes.Buffer
	run := &dbpkg.Run{
		RunID:        "run-1",
		CreatedAt:    time.Now(),
		InputPath:    "input/queries.xlsx",
		QueryColumn:  "query",
		ContextID:    "st-ctx",
		TotalCount:   2,
		SuccessCount: 1,
		FailedCount:  1,
	}
	printRunDetails(&buf, run, []dbpkg.RunResult{
		{SheetRow: 2, Query: "how to reset password", Success: true, Status: "200", Timestamp: "2025-08-19T13:46:58.406Z"},
		{SheetRow: 5, Query: "create workspace", Success: false, Status: "NETWORK_ERROR", ErrorMessage: "timeout of 30000ms exceeded"},
	})

	out := buf.String()
	assert.Contains(t, out, "Run run-1")
	assert.Contains(t, out, "2 total (1 success, 1 failed)")
	assert.Contains(t, out, "[failed] create workspace")
	assert.Contains(t, out, "Error: [NETWORK_ERROR] timeout of 30000ms exceeded")
	assert.NotContains(t, out, "App ID")
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "abc", shortID("abc"))
	assert.Equal(t, "12345678", shortID("1234567890"))
}
