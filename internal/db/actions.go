// Package db holds the CLI actions that inspect run history.
package db

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	dbpkg "github.com/dtnitsch/sheet-query-runner/pkg/db"
	"github.com/urfave/cli/v2"
)

func RunsAction(c *cli.Context) error {
	database, err := openHistory(c)
	if err != nil {
		return err
	}
	defer database.Close()

	runs, err := database.ListRuns(c.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Println("No runs found")
		return nil
	}

	printRunTable(os.Stdout, runs)
	fmt.Printf("\nTotal: %d runs\n", len(runs))
	fmt.Printf("\nTip: Use 'sheet-query-runner runs show <id>' to see details\n")
	return nil
}

// ShowRunAction shows details for a specific run
func ShowRunAction(c *cli.Context) error {
	database, err := openHistory(c)
	if err != nil {
		return err
	}
	defer database.Close()

	runID, err := GetRunIDOrLatest(c, database)
	if err != nil {
		return err
	}

	run, err := database.GetRunByID(runID)
	if err != nil {
		return fmt.Errorf("failed to get run: %w", err)
	}

	results, err := database.GetRunResults(runID, c.Bool("failed"))
	if err != nil {
		return fmt.Errorf("failed to get run results: %w", err)
	}

	printRunDetails(os.Stdout, run, results)
	return nil
}

// GetRunAction prints one of the files a run wrote
func GetRunAction(c *cli.Context) error {
	database, err := openHistory(c)
	if err != nil {
		return err
	}
	defer database.Close()

	runID, err := GetRunIDOrLatest(c, database)
	if err != nil {
		return err
	}

	run, err := database.GetRunByID(runID)
	if err != nil {
		return fmt.Errorf("failed to get run: %w", err)
	}

	var filePath string
	switch strings.ToLower(c.String("file")) {
	case "archive":
		filePath = run.ArchivePath
	case "failed":
		stamp := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(run.ArchivePath), "api_results_"), ".json")
		filePath = filepath.Join(filepath.Dir(run.ArchivePath), "failed_queries_"+stamp+".yaml")
	default:
		return fmt.Errorf("unknown file type: %s (use: archive or failed)", c.String("file"))
	}

	data, err := os.ReadFile(filepath.Clean(filePath))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("file not found: %s", filePath)
		}
		return fmt.Errorf("failed to read file: %w", err)
	}

	fmt.Print(string(data))
	return nil
}

// QueryRunsAction lists runs matching filters
func QueryRunsAction(c *cli.Context) error {
	database, err := openHistory(c)
	if err != nil {
		return err
	}
	defer database.Close()

	todayOnly := c.Bool("today")
	failedOnly := c.Bool("failed")
	pattern := c.String("query")

	runs, err := database.QueryRuns(todayOnly, failedOnly, pattern)
	if err != nil {
		return fmt.Errorf("failed to query runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Println("No runs found matching filters")
		if todayOnly {
			fmt.Println("  - Filter: today only")
		}
		if failedOnly {
			fmt.Println("  - Filter: with failures")
		}
		if pattern != "" {
			fmt.Printf("  - Filter: query pattern '%s'\n", pattern)
		}
		return nil
	}

	printRunTable(os.Stdout, runs)
	fmt.Printf("\nTotal: %d runs\n", len(runs))
	return nil
}

func printRunTable(w io.Writer, runs []dbpkg.Run) {
	fmt.Fprintf(w, "%-10s %-20s %-8s %-8s %-8s %-10s %-30s\n",
		"ID", "Created", "Queries", "Success", "Failed", "Delay ms", "Input")
	fmt.Fprintln(w, strings.Repeat("-", 100))

	for _, r := range runs {
		fmt.Fprintf(w, "%-10s %-20s %-8d %-8d %-8d %-10d %-30s\n",
			shortID(r.RunID),
			r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			r.TotalCount,
			r.SuccessCount,
			r.FailedCount,
			r.DelayMs,
			r.InputPath,
		)
	}
}

func printRunDetails(w io.Writer, run *dbpkg.Run, results []dbpkg.RunResult) {
	fmt.Fprintf(w, "Run %s\n", run.RunID)
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintf(w, "Created:     %s\n", run.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Input:       %s\n", run.InputPath)
	if run.Sheet != "" {
		fmt.Fprintf(w, "Sheet:       %s\n", run.Sheet)
	}
	fmt.Fprintf(w, "Column:      %s\n", run.QueryColumn)
	fmt.Fprintf(w, "Context ID:  %s\n", run.ContextID)
	if run.AppID != "" {
		fmt.Fprintf(w, "App ID:      %s\n", run.AppID)
	}
	fmt.Fprintf(w, "Queries:     %d total (%d success, %d failed)\n",
		run.TotalCount, run.SuccessCount, run.FailedCount)
	fmt.Fprintf(w, "Duration:    %d ms (delay %d ms)\n", run.DurationMs, run.DelayMs)
	fmt.Fprintf(w, "Archive:     %s\n", run.ArchivePath)
	fmt.Fprintf(w, "Report:      %s\n", run.ReportPath)

	if len(results) == 0 {
		return
	}

	fmt.Fprintf(w, "\nResults (%d):\n", len(results))
	fmt.Fprintln(w, strings.Repeat("-", 60))
	for _, r := range results {
		mark := "ok"
		if !r.Success {
			mark = "failed"
		}
		fmt.Fprintf(w, "Row %-4d [%s] %s\n", r.SheetRow, mark, r.Query)
		if r.Success {
			fmt.Fprintf(w, "    Status: %s | %s\n", r.Status, r.Timestamp)
		} else {
			fmt.Fprintf(w, "    Error: [%s] %s\n", r.Status, r.ErrorMessage)
		}
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
