package batch

import (
	"time"

	"github.com/dtnitsch/sheet-query-runner/models"
)

// Options selects the input column and output location of a run.
type Options struct {
	SheetSelector   string
	ColumnName      string
	OutputDirectory string
	DelayMs         int
}

// withDefaults fills the column and directory. A zero DelayMs means no pause.
func (o Options) withDefaults() Options {
	if o.ColumnName == "" {
		o.ColumnName = models.DefaultColumn
	}
	if o.OutputDirectory == "" {
		o.OutputDirectory = models.DefaultOutputDir
	}
	if o.DelayMs < 0 {
		o.DelayMs = 0
	}
	return o
}

// Summary describes a finished run.
type Summary struct {
	RunID       string
	ContextID   string
	Result      *models.BatchResult
	ArchivePath string
	ReportPath  string
	FailedPath  string
	Duration    time.Duration
	Statuses    []StatusCount
	Failed      []FailedQuery
}

// StatusCount is how many calls ended with one status.
type StatusCount struct {
	Status string
	Count  int
}

// FailedQuery is a query whose call did not succeed.
type FailedQuery struct {
	Row          int    `yaml:"row"`
	Query        string `yaml:"query"`
	Status       string `yaml:"status"`
	ErrorType    string `yaml:"error_type"` // http_error, network_error, timeout
	ErrorMessage string `yaml:"error_message"`
}

// FailedQueries wraps the list of failed queries for YAML output.
type FailedQueries struct {
	RunID         string        `yaml:"run_id"`
	FailedQueries []FailedQuery `yaml:"failed_queries"`
}
