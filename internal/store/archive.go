// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nearbuy/assistant/internal/util"
)

// archiveFileName is the on-disk name of the conversation archive.
const archiveFileName = "conversations.json"

// ArchivePath returns the archive location under dir.
func ArchivePath(dir string) string {
	return filepath.Join(dir, archiveFileName)
}

// SaveArchive persists the full log to dir as a single JSON file, written
// atomically. Unlike export artifacts, the archive keeps raw records so
// it round-trips through LoadArchive.
func (s *Store) SaveArchive(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create archive directory: %w", err)
	}

	data, err := json.MarshalIndent(s.All(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize archive: %w", err)
	}

	if err := util.AtomicWriteFile(ArchivePath(dir), data, 0644); err != nil {
		return fmt.Errorf("failed to write archive: %w", err)
	}
	return nil
}

// LoadArchive replaces the log with the archive stored in dir. A missing
// archive is not an error; the store is simply left empty.
func (s *Store) LoadArchive(dir string) error {
	data, err := os.ReadFile(ArchivePath(dir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read archive: %w", err)
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("failed to parse archive: %w", err)
	}

	s.Restore(records)
	return nil
}
