package db

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;
PRAGMA temp_store = MEMORY;

-- One row per batch run. created_at is fixed-width UTC text so it sorts.
CREATE TABLE IF NOT EXISTS runs (
    run_id TEXT PRIMARY KEY,
    created_at TEXT NOT NULL,
    input_path TEXT NOT NULL,
    sheet TEXT,
    query_column TEXT NOT NULL,
    context_id TEXT NOT NULL,
    app_id TEXT,
    delay_ms INTEGER NOT NULL DEFAULT 0,
    total_count INTEGER NOT NULL DEFAULT 0,
    success_count INTEGER NOT NULL DEFAULT 0,
    failed_count INTEGER NOT NULL DEFAULT 0,
    duration_ms INTEGER NOT NULL DEFAULT 0,
    archive_path TEXT,
    report_path TEXT
);

CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);

-- Per-query outcome, in dispatch order. Payloads stay in the archive.
CREATE TABLE IF NOT EXISTS run_results (
    result_id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL,
    sheet_row INTEGER NOT NULL,
    query TEXT NOT NULL,
    success BOOLEAN NOT NULL,
    status TEXT NOT NULL,
    error_message TEXT,
    timestamp TEXT NOT NULL,
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_run_results_run ON run_results(run_id);
CREATE INDEX IF NOT EXISTS idx_run_results_failed ON run_results(run_id) WHERE success = 0;
`
