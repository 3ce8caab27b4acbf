package models

// QueryRecord is one usable row of the input sheet.
type QueryRecord struct {
	// RowNumber is the sheet row the query came from. The header is row 1,
	// so the first data row is 2.
	RowNumber   int            `json:"rowNumber"`
	Query       string         `json:"query"`
	OriginalRow map[string]any `json:"originalRow"`
}
