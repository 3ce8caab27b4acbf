// Package batch runs a spreadsheet of queries against the API and reports on it.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dtnitsch/sheet-query-runner/models"
	"github.com/dtnitsch/sheet-query-runner/pkg/db"
	"github.com/dtnitsch/sheet-query-runner/pkg/dispatch"
	"github.com/dtnitsch/sheet-query-runner/pkg/report"
	"github.com/dtnitsch/sheet-query-runner/pkg/sheet"
	"github.com/dtnitsch/sheet-query-runner/pkg/storage"
	"github.com/google/uuid"
)

// RunRecorder stores finished runs.
type RunRecorder interface {
	RecordRun(run db.Run, records []models.ResultRecord) error
}

type Orchestrator struct {
	invoker      dispatch.Invoker
	contextID    string
	appID        string
	logger       *slog.Logger
	storage      *storage.Storage
	history      RunRecorder
	now          func() time.Time
	newRunID     func() string
	dispatchOpts []dispatch.Option
}

type Option func(*Orchestrator)

// WithHistory records every written run in rec. Recording failures are logged only.
func WithHistory(rec RunRecorder) Option {
	return func(o *Orchestrator) {
		o.history = rec
	}
}

// WithAppID labels recorded runs with the client application id.
func WithAppID(appID string) Option {
	return func(o *Orchestrator) {
		o.appID = appID
	}
}

// WithClock replaces time.Now for run and record timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		o.now = now
		o.dispatchOpts = append(o.dispatchOpts, dispatch.WithClock(now))
	}
}

// WithSleeper replaces the pause between calls.
func WithSleeper(sleep func(time.Duration)) Option {
	return func(o *Orchestrator) {
		o.dispatchOpts = append(o.dispatchOpts, dispatch.WithSleeper(sleep))
	}
}

// WithRunIDs replaces the run id generator.
func WithRunIDs(next func() string) Option {
	return func(o *Orchestrator) {
		o.newRunID = next
	}
}

func NewOrchestrator(invoker dispatch.Invoker, contextID string, logger *slog.Logger, opts ...Option) *Orchestrator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	o := &Orchestrator{
		invoker:   invoker,
		contextID: contextID,
		logger:    logger,
		storage:   &storage.Storage{},
		now:       time.Now,
		newRunID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Execute reads the queries, dispatches them and writes the archive and
// report. A sheet without queries is logged and returns a nil Summary and
// no error. Errors from any stage are returned as they are. If ctx is done
// before every query was sent, nothing is written or recorded.
func (o *Orchestrator) Execute(ctx context.Context, inputPath string, opts Options) (*Summary, error) {
	opts = opts.withDefaults()
	start := o.now()

	if err := o.storage.EnsureDir(opts.OutputDirectory); err != nil {
		return nil, &models.WriteError{Path: opts.OutputDirectory, Err: err}
	}

	o.logger.Info("reading queries",
		"input", inputPath,
		"sheet", opts.SheetSelector,
		"column", opts.ColumnName,
	)
	queries, err := sheet.Extract(inputPath, opts.SheetSelector, opts.ColumnName)
	if err != nil {
		return nil, err
	}
	if len(queries) == 0 {
		o.logger.Warn("no queries found", "input", inputPath, "column", opts.ColumnName)
		return nil, nil
	}

	runID := o.newRunID()
	o.logger.Info("starting batch",
		"run_id", runID,
		"queries", len(queries),
		"delay_ms", opts.DelayMs,
		"context_id", o.contextID,
	)

	d := dispatch.New(o.invoker, o.contextID, o.logger, o.dispatchOpts...)
	result := d.Run(ctx, queries, time.Duration(opts.DelayMs)*time.Millisecond)
	if err := ctx.Err(); err != nil {
		o.logger.Warn("run aborted, nothing written", "run_id", runID, "completed", result.Total(), "total", len(queries))
		return nil, fmt.Errorf("run aborted after %d of %d queries: %w", result.Total(), len(queries), err)
	}

	finished := o.now()
	stamp := storage.RunTimestamp(finished)
	archivePath, reportPath := storage.OutputPaths(opts.OutputDirectory, stamp)

	meta := models.ArchiveMetadata{
		ContextID:   o.contextID,
		ProcessedAt: models.FormatTimestamp(finished),
		RunID:       runID,
	}
	if err := report.WriteArchive(result, meta, archivePath); err != nil {
		return nil, err
	}
	o.logger.Info("archive written", "path", archivePath)

	if err := report.WriteReport(result, reportPath); err != nil {
		return nil, err
	}
	o.logger.Info("report written", "path", reportPath)

	summary := &Summary{
		RunID:       runID,
		ContextID:   o.contextID,
		Result:      result,
		ArchivePath: archivePath,
		ReportPath:  reportPath,
		Duration:    finished.Sub(start),
		Statuses:    statusBreakdown(result),
		Failed:      collectFailedQueries(result),
	}

	if len(summary.Failed) > 0 {
		summary.FailedPath = failedQueriesPath(opts.OutputDirectory, stamp)
		if err := writeFailedQueries(runID, summary.Failed, summary.FailedPath); err != nil {
			return nil, err
		}
	}

	o.record(inputPath, opts, summary, start)
	return summary, nil
}

func (o *Orchestrator) record(inputPath string, opts Options, s *Summary, start time.Time) {
	if o.history == nil {
		return
	}
	run := db.Run{
		RunID:       s.RunID,
		CreatedAt:   start,
		InputPath:   inputPath,
		Sheet:       opts.SheetSelector,
		QueryColumn: opts.ColumnName,
		ContextID:   o.contextID,
		AppID:       o.appID,
		DelayMs:     opts.DelayMs,
		DurationMs:  s.Duration.Milliseconds(),
		ArchivePath: s.ArchivePath,
		ReportPath:  s.ReportPath,
	}
	if err := o.history.RecordRun(run, s.Result.Records); err != nil {
		o.logger.Warn("failed to record run history", "error", err, "run_id", s.RunID)
	}
}
