// Package help holds the quick reference printed by the quickstart command.
package help

const QuickstartYAML = `# sheet-query-runner Quick Start

setup:
  config: "config.yaml (api.url, context_id, api.client_id / api.client_secret or api.auth_token)"
  env: "SQR_API_URL, SQR_AUTH_TOKEN, SQR_CLIENT_ID, SQR_CLIENT_SECRET, SQR_CONTEXT_ID, SQR_OUTPUT_DIR, SQR_LOG_LEVEL, SQR_DELAY_MS"
  dotenv: ".env in the working directory is loaded before SQR_* overrides"

commands:
  create_sample: |
    sheet-query-runner sample --path input/sample_queries.xlsx

  basic_run: |
    sheet-query-runner run --input input/queries.xlsx

  pick_sheet_and_column: |
    sheet-query-runner run --input input/queries.xlsx --sheet Queries --column question

  slower_pacing: |
    sheet-query-runner run --input input/queries.xlsx --delay-ms 2500

  summarize_archive: |
    sheet-query-runner summarize output/api_results_2025-08-19T13-46-58-406Z.json

  list_runs: |
    sheet-query-runner runs list

  run_details: |
    sheet-query-runner runs show 0b7e4c1a

  failed_queries: |
    sheet-query-runner runs get --file=failed 0b7e4c1a

  query_runs: |
    sheet-query-runner runs query --today
    sheet-query-runner runs query --failed
    sheet-query-runner runs query --query=password

output_files:
  - "output/api_results_{timestamp}.json (metadata + every result)"
  - "output/api_results_{timestamp}.xlsx (sheet 'API Results', one row per query)"
  - "output/failed_queries_{timestamp}.yaml (only written when a query failed)"
  - "output/api_summary_{timestamp}.xlsx (from the summarize command)"
  - "output/sheet-query-runner.db (run history, unless history.enabled is false)"

run_behavior:
  - "Queries are read from the named column; header match falls back to case-insensitive"
  - "Blank query cells are skipped but keep their sheet row number"
  - "One request at a time, in sheet order, with delay_ms between requests"
  - "A failed query is recorded and the run continues"
  - "Payload cells over 30000 characters end with '... [TRUNCATED]'"

runs_commands:
  list: "List recent runs with counts (--limit)"
  show: "Run details and per-query outcomes (--failed for failures only)"
  get: "Print a run file (--file=archive|failed)"
  query: "Filter runs (--today, --failed, --query=pattern)"

error_behavior:
  - "Missing input file: guidance printed, exit 1"
  - "Unreadable workbook or missing sheet: exit 1, no output files"
  - "HTTP and network failures: recorded per query, exit 0"
  - "Output directory not writable: exit 1"
`
