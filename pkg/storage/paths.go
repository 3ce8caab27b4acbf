package storage

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/dtnitsch/sheet-query-runner/models"
)

const resultsPrefix = "api_results_"

// RunTimestamp renders t as an ISO-8601 UTC timestamp that is safe in file
// names: ':' and '.' become '-'.
func RunTimestamp(t time.Time) string {
	return strings.NewReplacer(":", "-", ".", "-").Replace(models.FormatTimestamp(t))
}

// OutputPaths returns the archive and report paths for one run. Both share
// the same stamp so they sort and pair together.
func OutputPaths(dir, stamp string) (archivePath, reportPath string) {
	base := filepath.Join(dir, resultsPrefix+stamp)
	return base + ".json", base + ".xlsx"
}

// SummaryPath names the simplified summary report written next to an archive.
func SummaryPath(archivePath string) string {
	dir := filepath.Dir(archivePath)
	name := strings.TrimSuffix(filepath.Base(archivePath), filepath.Ext(archivePath))
	name = strings.TrimPrefix(name, resultsPrefix)
	return filepath.Join(dir, "api_summary_"+name+".xlsx")
}
