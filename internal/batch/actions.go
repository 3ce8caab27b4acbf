package batch

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dtnitsch/sheet-query-runner/internal/common"
	"github.com/dtnitsch/sheet-query-runner/models"
	"github.com/dtnitsch/sheet-query-runner/pkg/auth"
	"github.com/dtnitsch/sheet-query-runner/pkg/db"
	"github.com/dtnitsch/sheet-query-runner/pkg/invoker"
	"github.com/dtnitsch/sheet-query-runner/pkg/sheet"
	"github.com/dtnitsch/sheet-query-runner/pkg/storage"
	"github.com/urfave/cli/v2"
)

const DefaultInputPath = "./input/queries.xlsx"

// LoadConfig reads the config file named by --config and applies the run
// flags that were set on the command line. A --config that does not exist is
// an error; the default config.yaml is optional.
func LoadConfig(c *cli.Context) (*models.Config, error) {
	path := c.String("config")
	if c.IsSet("config") {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
	}

	cfg, err := models.LoadConfig(path)
	if err != nil {
		return nil, err
	}

	if c.IsSet("sheet") {
		cfg.Run.Sheet = c.String("sheet")
	}
	if c.IsSet("column") {
		cfg.Run.Column = c.String("column")
	}
	if c.IsSet("output-dir") {
		cfg.Run.OutputDir = c.String("output-dir")
	}
	if c.IsSet("delay-ms") {
		cfg.Run.DelayMs = c.Int("delay-ms")
	}
	if c.IsSet("log-level") {
		cfg.Log.Level = strings.ToLower(c.String("log-level"))
	}
	if c.IsSet("log-file") {
		cfg.Log.File = c.String("log-file")
	}
	if c.Bool("no-history") {
		cfg.History.Enabled = false
	}
	return cfg, nil
}

// HistoryPath is where the run database lives for cfg.
func HistoryPath(cfg *models.Config) string {
	if cfg.History.Path != "" {
		return cfg.History.Path
	}
	return filepath.Join(cfg.Run.OutputDir, db.DefaultDBName)
}

// RunAction executes a batch run from the command line.
func RunAction(c *cli.Context) error {
	cfg, err := LoadConfig(c)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, closeLog, err := common.SetupLogger(common.ParseLogLevel(cfg.Log.Level), c.Bool("quiet"), cfg.Log.File)
	if err != nil {
		return err
	}
	defer closeLog()

	inputPath := c.String("input")
	if c.NArg() > 0 {
		inputPath = c.Args().First()
	}
	s := &storage.Storage{}
	if !s.HasFile(inputPath) {
		printInputGuidance(os.Stderr, inputPath)
		return fmt.Errorf("input file not found: %s", inputPath)
	}

	token, err := auth.Resolve(cfg.API)
	if err != nil {
		return err
	}
	appID, err := auth.AppIDFromToken(token)
	if err != nil {
		logger.Debug("auth token carries no app id", "error", err)
	}

	opts := []Option{WithAppID(appID)}
	if cfg.History.Enabled {
		history, err := db.Open(HistoryPath(cfg))
		if err != nil {
			logger.Warn("run history disabled", "error", err)
		} else {
			defer history.Close()
			opts = append(opts, WithHistory(history))
		}
	}

	absInput, _ := filepath.Abs(inputPath)
	logger.Info("starting sheet query runner",
		"input", absInput,
		"endpoint", cfg.API.URL,
		"app_id", appID,
		"delay_ms", cfg.Run.DelayMs,
	)

	client := invoker.NewClient(cfg.API, token)
	orch := NewOrchestrator(client, cfg.ContextID, logger, opts...)
	summary, err := orch.Execute(c.Context, inputPath, Options{
		SheetSelector:   cfg.Run.Sheet,
		ColumnName:      cfg.Run.Column,
		OutputDirectory: cfg.Run.OutputDir,
		DelayMs:         cfg.Run.DelayMs,
	})
	if err != nil {
		return err
	}
	if summary == nil {
		fmt.Printf("No queries found in column %q of %s\n", cfg.Run.Column, inputPath)
		return nil
	}

	PrintSummary(os.Stdout, summary)
	return nil
}

// SampleAction writes a sample input workbook.
func SampleAction(c *cli.Context) error {
	path := c.String("path")
	if err := sheet.CreateSample(path); err != nil {
		return err
	}
	fmt.Printf("Sample input file created: %s\n", path)
	fmt.Printf("\nTo run it:\n  sheet-query-runner run --input %s\n", path)
	return nil
}

func printInputGuidance(w io.Writer, inputPath string) {
	fmt.Fprintf(w, "Input file not found: %s\n", inputPath)
	fmt.Fprintln(w, "\nCreate a workbook whose first row holds the column names, for example:")
	fmt.Fprintln(w, "   | query                    |")
	fmt.Fprintln(w, "   |--------------------------|")
	fmt.Fprintln(w, "   | how to remove admin user |")
	fmt.Fprintln(w, "   | reset password procedure |")
	fmt.Fprintln(w, "   | create new workspace     |")
	fmt.Fprintf(w, "\nSave it as %s, or run 'sheet-query-runner sample' to generate one.\n", DefaultInputPath)
}

