// Package summary builds the simplified answer report from a run archive.
package summary

import (
	"fmt"

	"github.com/dtnitsch/sheet-query-runner/internal/batch"
	"github.com/dtnitsch/sheet-query-runner/pkg/answer"
	"github.com/dtnitsch/sheet-query-runner/pkg/report"
	"github.com/dtnitsch/sheet-query-runner/pkg/storage"
	"github.com/urfave/cli/v2"
)

// Summarize reads the archive and writes the summary workbook to outputPath
// (next to the archive when empty). It returns the path written.
func Summarize(archivePath, outputPath string, opts report.SummaryOptions) (string, *report.Counts, error) {
	archive, err := report.ReadArchive(archivePath)
	if err != nil {
		return "", nil, err
	}
	if outputPath == "" {
		outputPath = storage.SummaryPath(archivePath)
	}
	if err := report.WriteSummary(archive, outputPath, opts); err != nil {
		return "", nil, err
	}
	counts := report.CountSummary(report.BuildSummary(archive, opts))
	counts.SuccessRate = report.BatchResult(archive).SuccessRate()
	return outputPath, &counts, nil
}

func SummarizeAction(c *cli.Context) error {
	archivePath := c.String("archive")
	if c.NArg() > 0 {
		archivePath = c.Args().First()
	}
	if archivePath == "" {
		return fmt.Errorf("an archive is required: sheet-query-runner summarize --archive output/api_results_<ts>.json")
	}

	cfg, err := batch.LoadConfig(c)
	if err != nil {
		return err
	}
	sourceColumn := cfg.Summary.SourceColumn
	if c.IsSet("source-column") {
		sourceColumn = c.String("source-column")
	}

	opts := report.SummaryOptions{SourceColumn: sourceColumn}
	if !c.Bool("no-language") {
		opts.Languages = answer.NewLanguageDetector(cfg.Summary.Languages)
	}

	path, counts, err := Summarize(archivePath, c.String("output"), opts)
	if err != nil {
		return err
	}

	fmt.Printf("Summary report created: %s\n", path)
	fmt.Printf("Total rows: %d\n", counts.Rows)
	fmt.Printf("Successful: %d\n", counts.Successful)
	fmt.Printf("Failed: %d\n", counts.Failed)
	fmt.Printf("Success rate: %.1f%%\n", counts.SuccessRate)
	fmt.Printf("With data: %d\n", counts.WithData)
	fmt.Printf("Source matches: %d/%d\n", counts.SourceMatches, counts.SourceChecked)
	return nil
}
