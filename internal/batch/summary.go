package batch

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dtnitsch/sheet-query-runner/models"
	"github.com/dtnitsch/sheet-query-runner/pkg/storage"
	"gopkg.in/yaml.v3"
)

// statusBreakdown counts calls per status, most frequent first.
func statusBreakdown(result *models.BatchResult) []StatusCount {
	counts := make(map[string]int)
	for _, rec := range result.Records {
		counts[rec.ApiResponse.Status.String()]++
	}

	ss := make([]StatusCount, 0, len(counts))
	for k, v := range counts {
		ss = append(ss, StatusCount{Status: k, Count: v})
	}
	sort.Slice(ss, func(i, j int) bool {
		if ss[i].Count != ss[j].Count {
			return ss[i].Count > ss[j].Count
		}
		return ss[i].Status < ss[j].Status
	})
	return ss
}

func collectFailedQueries(result *models.BatchResult) []FailedQuery {
	var failed []FailedQuery
	for _, rec := range result.Records {
		out := rec.ApiResponse
		if out.Success {
			continue
		}

		fq := FailedQuery{
			Row:          rec.RowNumber,
			Query:        rec.Query,
			Status:       out.Status.String(),
			ErrorMessage: out.Error,
		}
		switch {
		case strings.Contains(strings.ToLower(out.Error), "timeout"):
			fq.ErrorType = "timeout"
		case out.Status.IsNetworkError():
			fq.ErrorType = "network_error"
		default:
			fq.ErrorType = "http_error"
		}
		failed = append(failed, fq)
	}
	return failed
}

func failedQueriesPath(dir, stamp string) string {
	return filepath.Join(dir, "failed_queries_"+stamp+".yaml")
}

// writeFailedQueries writes the failed queries so they can be fixed and re-run.
func writeFailedQueries(runID string, failed []FailedQuery, path string) error {
	data, err := yaml.Marshal(&FailedQueries{RunID: runID, FailedQueries: failed})
	if err != nil {
		return &models.WriteError{Path: path, Err: fmt.Errorf("failed to marshal failed queries: %w", err)}
	}

	s := &storage.Storage{}
	if err := s.SaveFile(path, data); err != nil {
		return &models.WriteError{Path: path, Err: err}
	}
	return nil
}

// PrintSummary writes the end-of-run statistics for humans.
func PrintSummary(w io.Writer, s *Summary) {
	r := s.Result
	fmt.Fprintln(w)
	fmt.Fprintln(w, "=== Processing Summary ===")
	fmt.Fprintf(w, "Run ID: %s\n", s.RunID)
	fmt.Fprintf(w, "Total queries: %d\n", r.Total())
	fmt.Fprintf(w, "Successful API calls: %d\n", r.Successful())
	fmt.Fprintf(w, "Failed API calls: %d\n", r.Failed())
	fmt.Fprintf(w, "Success rate: %.1f%%\n", r.SuccessRate())
	fmt.Fprintf(w, "Context ID: %s\n", s.ContextID)
	fmt.Fprintf(w, "Elapsed: %s\n", s.Duration.Round(10*time.Millisecond))

	fmt.Fprintln(w, "\nResults saved to:")
	fmt.Fprintf(w, "  JSON:  %s\n", s.ArchivePath)
	fmt.Fprintf(w, "  Excel: %s\n", s.ReportPath)
	if s.FailedPath != "" {
		fmt.Fprintf(w, "  Failed queries: %s\n", s.FailedPath)
	}

	if len(s.Statuses) > 0 {
		fmt.Fprintln(w, "\nStatus breakdown:")
		for _, sc := range s.Statuses {
			fmt.Fprintf(w, "  %-15s %d\n", sc.Status, sc.Count)
		}
	}

	if len(s.Failed) > 0 {
		fmt.Fprintln(w, "\nFailed queries:")
		for _, f := range s.Failed {
			fmt.Fprintf(w, "  Row %d: %s (%s: %s)\n", f.Row, f.Query, f.Status, f.ErrorMessage)
		}
	}
}
