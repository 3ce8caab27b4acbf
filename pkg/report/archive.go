// Package report writes batch results as a JSON archive and xlsx reports.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/dtnitsch/sheet-query-runner/models"
	"github.com/dtnitsch/sheet-query-runner/pkg/storage"
)

// WriteArchive writes the complete batch, payloads included, as indented JSON.
// Counts in meta are taken from result.
func WriteArchive(result *models.BatchResult, meta models.ArchiveMetadata, path string) error {
	meta.TotalQueries = result.Total()
	meta.SuccessfulCalls = result.Successful()
	meta.FailedCalls = result.Failed()

	records := result.Records
	if records == nil {
		records = []models.ResultRecord{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(models.Archive{Metadata: meta, Results: records}); err != nil {
		return &models.WriteError{Path: path, Err: fmt.Errorf("failed to marshal archive: %w", err)}
	}

	s := &storage.Storage{}
	if err := s.SaveFile(path, buf.Bytes()); err != nil {
		return &models.WriteError{Path: path, Err: err}
	}
	return nil
}

// ReadArchive loads an archive written by WriteArchive. Payloads come back as
// generic JSON values.
func ReadArchive(path string) (*models.Archive, error) {
	s := &storage.Storage{}
	data, err := s.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var archive models.Archive
	if err := json.Unmarshal(data, &archive); err != nil {
		return nil, fmt.Errorf("failed to parse archive %s: %w", path, err)
	}
	return &archive, nil
}

// BatchResult rebuilds the in-memory batch from an archive.
func BatchResult(archive *models.Archive) *models.BatchResult {
	return &models.BatchResult{Records: archive.Results}
}
