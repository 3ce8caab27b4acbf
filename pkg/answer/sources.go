package answer

import (
	"regexp"
	"strings"
)

const (
	SourceMatch   = "YES"
	SourceMiss    = "NO"
	SourceUnknown = "N/A"
)

// sourceColumns are the header names tried, in order, when looking for the
// expected source of a query.
var sourceColumns = []string{"source", "source_url", "source_urls", "sourceurl"}

var (
	pageRefPattern = regexp.MustCompile(`\s*\([p.]*\s*\d+[-–]*\d*\)`)
	tokenSplit     = regexp.MustCompile(`[^\p{L}\p{N}.]+`)
)

// ExpectedSource returns the expected source for a row, trying column first and
// then the usual source header names, all case-insensitively.
func ExpectedSource(row map[string]any, column string) string {
	candidates := sourceColumns
	if column != "" {
		candidates = append([]string{column}, sourceColumns...)
	}
	for _, want := range candidates {
		for k, v := range row {
			if strings.EqualFold(strings.TrimSpace(k), want) {
				if s := strings.TrimSpace(stringify(v)); s != "" {
					return s
				}
			}
		}
	}
	return ""
}

// CompareSources reports whether any returned title refers to the expected
// source document. Page references such as "(pp. 5-7)" are ignored.
func CompareSources(expected string, titles []string) string {
	expected = strings.TrimSpace(expected)
	if expected == "" || expected == NoTitles {
		return SourceUnknown
	}
	if len(titles) == 0 {
		return SourceMiss
	}

	clean := strings.TrimSpace(pageRefPattern.ReplaceAllString(strings.ToLower(expected), ""))
	name := strings.TrimSuffix(clean, ".pdf")
	keywords := documentKeywords(name)
	parts := strings.Split(name, "-")

	for _, title := range titles {
		t := strings.ToLower(strings.TrimSpace(title))
		if t == "" {
			continue
		}

		if len(keywords) >= 2 {
			hits := 0
			for _, k := range keywords {
				if strings.Contains(t, k) {
					hits++
				}
			}
			if hits >= 2 {
				return SourceMatch
			}
		}

		if name != "" && strings.Contains(t, name) {
			return SourceMatch
		}

		if len(parts) > 1 {
			for _, p := range parts {
				if len(p) > 3 && strings.Contains(t, p) {
					return SourceMatch
				}
			}
		}
	}
	return SourceMiss
}

// documentKeywords splits a document name into distinct lowercase tokens of at
// least two characters.
func documentKeywords(name string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, tok := range tokenSplit.Split(name, -1) {
		tok = strings.Trim(tok, ".")
		if len(tok) < 2 || tok == "pdf" || seen[tok] {
			continue
		}
		seen[tok] = true
		out = append(out, tok)
	}
	return out
}
