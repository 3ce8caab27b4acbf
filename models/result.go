package models

import "time"

// ISOTimestamp is the millisecond ISO-8601 layout used for every timestamp
// written to the archive and report.
const ISOTimestamp = "2006-01-02T15:04:05.000Z"

// FormatTimestamp renders t in UTC using ISOTimestamp.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(ISOTimestamp)
}

// ResultRecord pairs a dispatched query with its outcome.
type ResultRecord struct {
	RowNumber   int            `json:"rowNumber"`
	Query       string         `json:"query"`
	OriginalRow map[string]any `json:"originalRow"`
	ApiResponse ApiOutcome     `json:"apiResponse"`
	Timestamp   string         `json:"timestamp"`
	ContextID   string         `json:"contextId"`
}

// BatchResult holds every record of a run in dispatch order.
// Counts are derived from Records on demand.
type BatchResult struct {
	Records []ResultRecord
}

func (b *BatchResult) Total() int {
	return len(b.Records)
}

func (b *BatchResult) Successful() int {
	n := 0
	for _, r := range b.Records {
		if r.ApiResponse.Success {
			n++
		}
	}
	return n
}

func (b *BatchResult) Failed() int {
	return b.Total() - b.Successful()
}

// SuccessRate returns the share of successful calls as a percentage.
func (b *BatchResult) SuccessRate() float64 {
	if b.Total() == 0 {
		return 0
	}
	return float64(b.Successful()) / float64(b.Total()) * 100
}

// ArchiveMetadata is the header of the JSON archive.
type ArchiveMetadata struct {
	TotalQueries    int    `json:"totalQueries"`
	SuccessfulCalls int    `json:"successfulCalls"`
	FailedCalls     int    `json:"failedCalls"`
	ContextID       string `json:"contextId"`
	ProcessedAt     string `json:"processedAt"`
	RunID           string `json:"runId,omitempty"`
}

// Archive is the full JSON document written for a run.
type Archive struct {
	Metadata ArchiveMetadata `json:"metadata"`
	Results  []ResultRecord  `json:"results"`
}
