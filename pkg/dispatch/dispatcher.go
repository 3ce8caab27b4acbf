// Package dispatch sends queries one at a time with a fixed pause between calls.
package dispatch

import (
	"context"
	"log/slog"
	"time"

	"github.com/dtnitsch/sheet-query-runner/models"
)

// Invoker performs a single remote call. It must not return an error;
// failures are carried in the outcome.
type Invoker interface {
	Invoke(ctx context.Context, query string) models.ApiOutcome
}

type Dispatcher struct {
	invoker   Invoker
	contextID string
	logger    *slog.Logger
	sleep     func(time.Duration)
	now       func() time.Time
}

type Option func(*Dispatcher)

// WithSleeper replaces the context-aware pause between calls.
func WithSleeper(sleep func(time.Duration)) Option {
	return func(d *Dispatcher) {
		d.sleep = sleep
	}
}

// WithClock replaces time.Now for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) {
		d.now = now
	}
}

func New(invoker Invoker, contextID string, logger *slog.Logger, opts ...Option) *Dispatcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	d := &Dispatcher{
		invoker:   invoker,
		contextID: contextID,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run dispatches queries strictly in order and returns one record per query.
// The delay is applied between calls, never after the last one, and a failed
// call does not stop the batch. When ctx is done Run stops and returns the
// records made so far; the caller must check ctx.Err() before using them.
func (d *Dispatcher) Run(ctx context.Context, queries []models.QueryRecord, delay time.Duration) *models.BatchResult {
	result := &models.BatchResult{
		Records: make([]models.ResultRecord, 0, len(queries)),
	}

	for i, q := range queries {
		if ctx.Err() != nil {
			break
		}
		d.logger.Info("dispatching query",
			"position", i+1,
			"total", len(queries),
			"row", q.RowNumber,
			"query", q.Query,
		)

		outcome := d.invoker.Invoke(ctx, q.Query)
		if ctx.Err() != nil {
			// the call was cut short, its outcome says nothing about the query
			d.logger.Warn("batch interrupted", "row", q.RowNumber, "completed", len(result.Records), "total", len(queries))
			break
		}
		result.Records = append(result.Records, models.ResultRecord{
			RowNumber:   q.RowNumber,
			Query:       q.Query,
			OriginalRow: q.OriginalRow,
			ApiResponse: outcome,
			Timestamp:   models.FormatTimestamp(d.now()),
			ContextID:   d.contextID,
		})

		if outcome.Success {
			d.logger.Info("query succeeded", "row", q.RowNumber, "status", outcome.Status.String())
		} else {
			d.logger.Warn("query failed", "row", q.RowNumber, "status", outcome.Status.String(), "error", outcome.Error)
		}

		if i < len(queries)-1 && delay > 0 {
			d.logger.Debug("waiting before next query", "delay_ms", delay.Milliseconds())
			d.pause(ctx, delay)
		}
	}

	return result
}

func (d *Dispatcher) pause(ctx context.Context, delay time.Duration) {
	if d.sleep != nil {
		d.sleep(delay)
		return
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
