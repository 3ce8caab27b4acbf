package db

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/dtnitsch/sheet-query-runner/models"
)

// Run is one recorded batch run
type Run struct {
	RunID        string
	CreatedAt    time.Time
	InputPath    string
	Sheet        string
	QueryColumn  string
	ContextID    string
	AppID        string
	DelayMs      int
	TotalCount   int
	SuccessCount int
	FailedCount  int
	DurationMs   int64
	ArchivePath  string
	ReportPath   string
}

// RunResult is the stored outcome of one query within a run
type RunResult struct {
	SheetRow     int
	Query        string
	Success      bool
	Status       string
	ErrorMessage string
	Timestamp    string
}

// createdAtLayout sorts lexically in the same order as time.
const createdAtLayout = "2006-01-02T15:04:05.000000Z"

const runColumns = `run_id, created_at, input_path, sheet, query_column, context_id, app_id,
	delay_ms, total_count, success_count, failed_count, duration_ms, archive_path, report_path`

// RecordRun stores a run and its results in one transaction. Counts are
// taken from the records.
func (db *DB) RecordRun(run Run, records []models.ResultRecord) error {
	batch := &models.BatchResult{Records: records}
	run.TotalCount = batch.Total()
	run.SuccessCount = batch.Successful()
	run.FailedCount = batch.Failed()

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(`INSERT INTO runs (`+runColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID,
		run.CreatedAt.UTC().Format(createdAtLayout),
		run.InputPath,
		NewNullString(run.Sheet),
		run.QueryColumn,
		run.ContextID,
		NewNullString(run.AppID),
		run.DelayMs,
		run.TotalCount,
		run.SuccessCount,
		run.FailedCount,
		run.DurationMs,
		NewNullString(run.ArchivePath),
		NewNullString(run.ReportPath),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO run_results
		(run_id, sheet_row, query, success, status, error_message, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare result insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		out := rec.ApiResponse
		if _, err := stmt.Exec(run.RunID, rec.RowNumber, rec.Query, out.Success,
			out.Status.String(), NewNullString(out.Error), rec.Timestamp); err != nil {
			return fmt.Errorf("failed to insert result for row %d: %w", rec.RowNumber, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// GetRunByID retrieves a run by its ID
func (db *DB) GetRunByID(runID string) (*Run, error) {
	row := db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE run_id = ?`, runID)
	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %s not found", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// ResolveRunID accepts a full run ID or a unique prefix of one.
func (db *DB) ResolveRunID(idOrPrefix string) (string, error) {
	rows, err := db.Query(`SELECT run_id FROM runs WHERE substr(run_id, 1, length(?)) = ? LIMIT 2`,
		idOrPrefix, idOrPrefix)
	if err != nil {
		return "", fmt.Errorf("failed to look up run: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", fmt.Errorf("failed to scan run id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("failed to look up run: %w", err)
	}

	switch len(ids) {
	case 0:
		return "", fmt.Errorf("run %s not found", idOrPrefix)
	case 1:
		return ids[0], nil
	default:
		return "", fmt.Errorf("run prefix %s is ambiguous", idOrPrefix)
	}
}

// LatestRunID returns the most recently recorded run.
func (db *DB) LatestRunID() (string, error) {
	runs, err := db.ListRuns(1)
	if err != nil {
		return "", err
	}
	if len(runs) == 0 {
		return "", fmt.Errorf("no runs found. Run 'sheet-query-runner run --input <file>' first")
	}
	return runs[0].RunID, nil
}

// GetRunResults retrieves the results of a run in dispatch order
func (db *DB) GetRunResults(runID string, failedOnly bool) ([]RunResult, error) {
	query := `
		SELECT sheet_row, query, success, status, error_message, timestamp
		FROM run_results
		WHERE run_id = ?`
	if failedOnly {
		query += " AND success = 0"
	}
	query += " ORDER BY result_id"

	rows, err := db.Query(query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get run results: %w", err)
	}
	defer rows.Close()

	var results []RunResult
	for rows.Next() {
		var r RunResult
		var errorMessage sql.NullString
		if err := rows.Scan(&r.SheetRow, &r.Query, &r.Success, &r.Status, &errorMessage, &r.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		r.ErrorMessage = errorMessage.String
		results = append(results, r)
	}
	return results, rows.Err()
}

// ListRuns retrieves runs ordered by most recent first
func (db *DB) ListRuns(limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY created_at DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}
	return db.queryRuns(query)
}

// QueryRuns filters runs. queryPattern matches any query text in the run.
func (db *DB) QueryRuns(todayOnly, failedOnly bool, queryPattern string) ([]Run, error) {
	var conditions []string
	var args []interface{}

	if todayOnly {
		conditions = append(conditions, "substr(created_at, 1, 10) = ?")
		args = append(args, time.Now().UTC().Format("2006-01-02"))
	}
	if failedOnly {
		conditions = append(conditions, "failed_count > 0")
	}
	if queryPattern != "" {
		conditions = append(conditions,
			"run_id IN (SELECT run_id FROM run_results WHERE query LIKE ?)")
		args = append(args, "%"+queryPattern+"%")
	}

	query := `SELECT ` + runColumns + ` FROM runs`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	return db.queryRuns(query, args...)
}

func (db *DB) queryRuns(query string, args ...interface{}) ([]Run, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*Run, error) {
	var r Run
	var createdAt string
	var sheet, appID, archivePath, reportPath sql.NullString
	if err := s.Scan(&r.RunID, &createdAt, &r.InputPath, &sheet, &r.QueryColumn, &r.ContextID, &appID,
		&r.DelayMs, &r.TotalCount, &r.SuccessCount, &r.FailedCount, &r.DurationMs,
		&archivePath, &reportPath); err != nil {
		return nil, err
	}

	t, err := time.Parse(createdAtLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("invalid created_at %q: %w", createdAt, err)
	}
	r.CreatedAt = t
	r.Sheet = sheet.String
	r.AppID = appID.String
	r.ArchivePath = archivePath.String
	r.ReportPath = reportPath.String
	return &r, nil
}
