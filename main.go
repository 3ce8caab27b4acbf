package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dtnitsch/sheet-query-runner/internal/batch"
	"github.com/dtnitsch/sheet-query-runner/internal/db"
	"github.com/dtnitsch/sheet-query-runner/internal/summary"
	"github.com/dtnitsch/sheet-query-runner/models"
	"github.com/dtnitsch/sheet-query-runner/pkg/help"
	"github.com/dtnitsch/sheet-query-runner/pkg/sheet"
	"github.com/urfave/cli/v2"
)

func main() {
	// The first interrupt aborts the run without writing results; a second one kills the process.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		stop()
	}()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "sheet-query-runner",
		Usage: "Send every query in a spreadsheet column to the search API and record the results",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   models.DefaultConfigFile,
				Usage:   "Path to the YAML config file",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Only log errors to stderr",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level: debug, info, warn or error",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Also write JSON logs to this file",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "Run every query in the input workbook against the API",
				ArgsUsage: "[input]",
				Action:    batch.RunAction,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "input",
						Aliases: []string{"i"},
						Value:   batch.DefaultInputPath,
						Usage:   "Workbook (.xlsx) or .csv file holding the queries",
					},
					&cli.StringFlag{
						Name:  "sheet",
						Usage: "Sheet name (default: first sheet)",
					},
					&cli.StringFlag{
						Name:  "column",
						Usage: "Header of the column holding the queries (default: query)",
					},
					&cli.StringFlag{
						Name:  "output-dir",
						Usage: "Directory for the result files (default: ./output)",
					},
					&cli.IntFlag{
						Name:  "delay-ms",
						Usage: "Milliseconds to wait between requests (default: 1000)",
					},
					&cli.BoolFlag{
						Name:  "no-history",
						Usage: "Do not record the run in the history database",
					},
				},
			},
			{
				Name:   "sample",
				Usage:  "Write a sample input workbook",
				Action: batch.SampleAction,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "path",
						Value: sheet.DefaultSamplePath,
						Usage: "Where to write the sample workbook",
					},
				},
			},
			{
				Name:      "summarize",
				Usage:     "Build a summary workbook from a results archive",
				ArgsUsage: "[archive]",
				Action:    summary.SummarizeAction,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "archive",
						Aliases: []string{"a"},
						Usage:   "Path to an api_results_<timestamp>.json archive",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Summary workbook path (default: api_summary_<timestamp>.xlsx next to the archive)",
					},
					&cli.StringFlag{
						Name:  "source-column",
						Usage: "Input column holding the expected source document",
					},
					&cli.BoolFlag{
						Name:  "no-language",
						Usage: "Skip answer language detection",
					},
				},
			},
			{
				Name:  "runs",
				Usage: "Inspect the run history",
				Subcommands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "List recent runs",
						Action: db.RunsAction,
						Flags: []cli.Flag{
							dbFlag(),
							&cli.IntFlag{
								Name:  "limit",
								Value: 20,
								Usage: "Maximum number of runs to show",
							},
						},
					},
					{
						Name:      "show",
						Usage:     "Show a run and its per-query outcomes (latest if no ID)",
						ArgsUsage: "[run-id]",
						Action:    db.ShowRunAction,
						Flags: []cli.Flag{
							dbFlag(),
							&cli.BoolFlag{
								Name:  "failed",
								Usage: "Only show failed queries",
							},
						},
					},
					{
						Name:      "get",
						Usage:     "Print a file written by a run (latest if no ID)",
						ArgsUsage: "[run-id]",
						Action:    db.GetRunAction,
						Flags: []cli.Flag{
							dbFlag(),
							&cli.StringFlag{
								Name:  "file",
								Value: "archive",
								Usage: "File to print: archive or failed",
							},
						},
					},
					{
						Name:   "query",
						Usage:  "Filter runs",
						Action: db.QueryRunsAction,
						Flags: []cli.Flag{
							dbFlag(),
							&cli.BoolFlag{
								Name:  "today",
								Usage: "Only runs started today",
							},
							&cli.BoolFlag{
								Name:  "failed",
								Usage: "Only runs with at least one failed query",
							},
							&cli.StringFlag{
								Name:  "query",
								Usage: "Only runs that sent a query containing this text",
							},
						},
					},
				},
			},
			{
				Name:    "quickstart",
				Aliases: []string{"coldstart"},
				Usage:   "Print a quick reference",
				Action: func(c *cli.Context) error {
					fmt.Print(help.QuickstartYAML)
					return nil
				},
			},
		},
	}
}

func dbFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "db",
		Usage: "Path to the run history database (default: history.path or <output-dir>/sheet-query-runner.db)",
	}
}
