// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/nearbuy/assistant/internal/lang"
	"github.com/nearbuy/assistant/internal/util"
)

// TimestampLayout is the human-readable timestamp form used in export
// artifacts.
const TimestampLayout = "2006-01-02 15:04:05"

// DefaultExportPrefix names export artifacts when the host configures
// nothing else.
const DefaultExportPrefix = "conversations"

// =============================================================================
// EXPORTER INTERFACE
// =============================================================================

// Exporter converts a slice of records to a downloadable artifact.
type Exporter interface {
	// Export serializes the records.
	Export(records []Record) ([]byte, error)

	// FileExtension returns the artifact's extension including the dot.
	FileExtension() string

	// MimeType returns the artifact's MIME type.
	MimeType() string
}

// =============================================================================
// JSON EXPORTER
// =============================================================================

// exportEntry is the serialized shape of one record: the language code is
// resolved to its display name and the timestamp is formatted for reading,
// not re-import.
type exportEntry struct {
	Question  string `json:"question"`
	Response  string `json:"response"`
	Language  string `json:"language"`
	Timestamp string `json:"timestamp"`
}

// JSONExporter exports records as an indented JSON array.
type JSONExporter struct{}

// NewJSONExporter creates a JSON exporter.
func NewJSONExporter() *JSONExporter {
	return &JSONExporter{}
}

// Export serializes the records. Order is preserved.
func (e *JSONExporter) Export(records []Record) ([]byte, error) {
	entries := make([]exportEntry, len(records))
	for i, rec := range records {
		entries[i] = exportEntry{
			Question:  rec.Question,
			Response:  rec.Response,
			Language:  lang.DisplayName(rec.Language),
			Timestamp: rec.Timestamp.Format(TimestampLayout),
		}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize export: %w", err)
	}
	return data, nil
}

// FileExtension returns ".json".
func (e *JSONExporter) FileExtension() string {
	return ".json"
}

// MimeType returns the MIME type for JSON.
func (e *JSONExporter) MimeType() string {
	return "application/json"
}

// =============================================================================
// ARTIFACT WRITING
// =============================================================================

// ArtifactName builds the export file name: <prefix>-<date><ext>, with
// the date in DateLayout form.
func ArtifactName(prefix, ext string, now time.Time) string {
	if prefix == "" {
		prefix = DefaultExportPrefix
	}
	return prefix + "-" + now.Format(DateLayout) + ext
}

// WriteArtifact serializes the records with the exporter and writes the
// artifact into dir, atomically. Returns the full path written. The store
// itself is never touched: a failed export leaves everything as it was.
func WriteArtifact(dir, prefix string, exp Exporter, records []Record, now time.Time) (string, error) {
	data, err := exp.Export(records)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, ArtifactName(prefix, exp.FileExtension(), now))
	if err := util.AtomicWriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export artifact: %w", err)
	}
	return path, nil
}
