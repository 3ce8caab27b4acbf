package report

import (
	"strings"

	"github.com/dtnitsch/sheet-query-runner/models"
	"github.com/dtnitsch/sheet-query-runner/pkg/answer"
)

var summaryColumns = []column{
	{"Row", 8},
	{"Query", 50},
	{"Success", 10},
	{"Status", 15},
	{"Error", 30},
	{"Has_Data", 10},
	{"Timestamp", 12},
	{"Answer", 80},
	{"Response_Titles", 50},
	{"Source_Match", 14},
	{"Language", 10},
}

// SummaryOptions controls the extra columns of the summary report.
type SummaryOptions struct {
	// SourceColumn names the input column holding the expected source document.
	SourceColumn string
	// Languages labels each answer (the query when there is none); nil leaves
	// the Language column empty.
	Languages *answer.LanguageDetector
}

// SummaryRow is one line of the simplified report.
type SummaryRow struct {
	Row         int
	Query       string
	Success     string
	Status      string
	Error       string
	HasData     string
	Date        string
	Answer      string
	Titles      string
	SourceMatch string
	Language    string
}

// BuildSummary derives the simplified rows from an archive.
func BuildSummary(archive *models.Archive, opts SummaryOptions) []SummaryRow {
	rows := make([]SummaryRow, 0, len(archive.Results))
	for _, rec := range archive.Results {
		out := rec.ApiResponse
		row := SummaryRow{
			Row:      rec.RowNumber,
			Query:    rec.Query,
			Success:  yesNo(out.Success),
			Status:   out.Status.String(),
			HasData:  yesNo(out.Success),
			Date:     datePart(rec.Timestamp),
		}
		row.Error, _ = Truncate(out.Error, MaxErrorChars)

		expected := answer.ExpectedSource(rec.OriginalRow, opts.SourceColumn)
		if out.Success {
			extracted := answer.Extract(out.Data)
			text := answer.PlainText(extracted.Answer)
			if cut, truncated := Truncate(text, MaxPayloadChars); truncated {
				text = cut + TruncationMarker
			}
			row.Answer = text
			row.Titles = extracted.TitlesString()
			row.SourceMatch = answer.CompareSources(expected, extracted.Titles)
		} else {
			row.Titles = answer.NoTitles
			row.SourceMatch = answer.CompareSources(expected, nil)
		}

		languageText := row.Answer
		if languageText == "" || languageText == answer.NoAnswer {
			languageText = rec.Query
		}
		row.Language = opts.Languages.Detect(languageText)
		rows = append(rows, row)
	}
	return rows
}

// WriteSummary writes BuildSummary rows to the "API Results" sheet at path.
func WriteSummary(archive *models.Archive, path string, opts SummaryOptions) error {
	summary := BuildSummary(archive, opts)
	rows := make([][]any, 0, len(summary))
	for _, s := range summary {
		rows = append(rows, []any{
			s.Row, s.Query, s.Success, s.Status, s.Error, s.HasData,
			s.Date, s.Answer, s.Titles, s.SourceMatch, s.Language,
		})
	}
	return writeSheet(path, ResultsSheet, summaryColumns, rows)
}

func yesNo(b bool) string {
	if b {
		return "YES"
	}
	return "NO"
}

func datePart(ts string) string {
	date, _, _ := strings.Cut(ts, "T")
	return date
}

// Counts totals a summary for the console.
type Counts struct {
	Rows          int
	Successful    int
	Failed        int
	WithData      int
	SourceChecked int
	SourceMatches int
	SuccessRate   float64
}

func CountSummary(rows []SummaryRow) Counts {
	c := Counts{Rows: len(rows)}
	for _, r := range rows {
		if r.Success == "YES" {
			c.Successful++
		} else {
			c.Failed++
		}
		if r.HasData == "YES" {
			c.WithData++
		}
		switch r.SourceMatch {
		case answer.SourceMatch:
			c.SourceChecked++
			c.SourceMatches++
		case answer.SourceMiss:
			c.SourceChecked++
		}
	}
	return c
}
