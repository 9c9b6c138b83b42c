// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func testClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestAppendPrepends(t *testing.T) {
	s := New()

	first := s.Append("what time does the market open", "nine", "en")
	second := s.Append("is there parking nearby", "yes", "en")

	all := s.All()
	if len(all) != 2 {
		t.Fatalf("Len = %d, want 2", len(all))
	}
	if all[0].ID != second.ID {
		t.Errorf("most recent record not at index 0")
	}
	if all[1].ID != first.ID {
		t.Errorf("older record not at index 1")
	}
	if first.ID == second.ID {
		t.Errorf("record IDs collide: %q", first.ID)
	}
	if first.ID == "" {
		t.Error("record ID is empty")
	}
}

func TestFilteredViewIdentity(t *testing.T) {
	s := New()
	s.Append("q1", "r1", "en")
	s.Append("q2", "r2", "af")

	all := s.All()
	view := s.FilteredView("", "")
	if len(view) != len(all) {
		t.Fatalf("identity view length = %d, want %d", len(view), len(all))
	}
	for i := range all {
		if view[i].ID != all[i].ID {
			t.Errorf("identity view reordered records at %d", i)
		}
	}
}

func TestFilteredViewSearch(t *testing.T) {
	s := New()
	s.Append("where is the jazz festival", "at the park", "en")
	s.Append("weather tomorrow", "sunny, 24 degrees", "en")

	tests := []struct {
		name   string
		search string
		want   int
	}{
		{"matches question", "jazz", 1},
		{"matches response", "sunny", 1},
		{"case insensitive", "JAZZ", 1},
		{"no match", "cricket", 0},
		{"matches both records", "e", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.FilteredView(tt.search, "")
			if len(got) != tt.want {
				t.Errorf("FilteredView(%q) = %d records, want %d", tt.search, len(got), tt.want)
			}
		})
	}
}

func TestFilteredViewDate(t *testing.T) {
	now := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	s := NewWithClock(testClock(now))
	s.Append("today's question", "answer", "en")

	yesterday := now.Add(-24 * time.Hour)
	s2 := NewWithClock(testClock(yesterday))
	olderRec := s2.Append("yesterday's question", "answer", "en")
	s.Restore(append(s.All(), olderRec))

	if got := s.FilteredView("", "2025-03-14"); len(got) != 1 {
		t.Errorf("date filter 2025-03-14 = %d records, want 1", len(got))
	}
	if got := s.FilteredView("", "2025-03-13"); len(got) != 1 {
		t.Errorf("date filter 2025-03-13 = %d records, want 1", len(got))
	}
	if got := s.FilteredView("", "2025-03-12"); len(got) != 0 {
		t.Errorf("date filter 2025-03-12 = %d records, want 0", len(got))
	}

	// Both filters must hold at once.
	if got := s.FilteredView("yesterday", "2025-03-14"); len(got) != 0 {
		t.Errorf("combined filter = %d records, want 0", len(got))
	}
}

func TestClear(t *testing.T) {
	s := New()
	s.Append("q1", "r1", "en")
	s.Append("q2", "r2", "en")

	if n := s.Clear(); n != 2 {
		t.Errorf("Clear() = %d, want 2", n)
	}
	if s.Len() != 0 {
		t.Errorf("Len after Clear = %d, want 0", s.Len())
	}
	if n := s.Clear(); n != 0 {
		t.Errorf("second Clear() = %d, want 0", n)
	}
}

func TestJSONExport(t *testing.T) {
	now := time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC)
	s := NewWithClock(testClock(now))
	s.Append("waar is die mark", "by die plein", "af")

	exp := NewJSONExporter()
	data, err := exp.Export(s.All())
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	var entries []map[string]string
	if err := json.Unmarshal(data, &entries); err != nil {
		t.Fatalf("export artifact is not valid JSON: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("exported %d entries, want 1", len(entries))
	}

	entry := entries[0]
	if entry["question"] != "waar is die mark" {
		t.Errorf("question = %q", entry["question"])
	}
	if entry["language"] != "Afrikaans" {
		t.Errorf("language = %q, want display name Afrikaans", entry["language"])
	}
	if entry["timestamp"] != "2025-03-14 10:30:00" {
		t.Errorf("timestamp = %q, want formatted form", entry["timestamp"])
	}
	if _, ok := entry["id"]; ok {
		t.Error("export artifact leaks internal record ID")
	}
}

func TestExportDoesNotMutateStore(t *testing.T) {
	s := New()
	s.Append("q1", "r1", "en")
	s.Append("q2", "r2", "en")

	before := s.Len()
	if _, err := NewJSONExporter().Export(s.All()); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if s.Len() != before {
		t.Errorf("Len after export = %d, want %d", s.Len(), before)
	}
}

func TestArtifactName(t *testing.T) {
	now := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

	if got := ArtifactName("assistant", ".json", now); got != "assistant-2025-03-14.json" {
		t.Errorf("ArtifactName = %q", got)
	}
	if got := ArtifactName("", ".json", now); got != "conversations-2025-03-14.json" {
		t.Errorf("default ArtifactName = %q", got)
	}
}

func TestWriteArtifact(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

	s := NewWithClock(testClock(now))
	s.Append("q1", "r1", "en")

	path, err := WriteArtifact(dir, "assistant", NewJSONExporter(), s.All(), now)
	if err != nil {
		t.Fatalf("WriteArtifact() error = %v", err)
	}
	if filepath.Base(path) != "assistant-2025-03-14.json" {
		t.Errorf("artifact path = %q", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading artifact: %v", err)
	}
	if !strings.Contains(string(data), "q1") {
		t.Error("artifact missing exported question")
	}
}

func TestArchiveRoundTrip(t *testing.T) {
	dir := t.TempDir()

	s := New()
	s.Append("q1", "r1", "en")
	s.Append("q2", "r2", "zu")

	if err := s.SaveArchive(dir); err != nil {
		t.Fatalf("SaveArchive() error = %v", err)
	}

	loaded := New()
	if err := loaded.LoadArchive(dir); err != nil {
		t.Fatalf("LoadArchive() error = %v", err)
	}

	want := s.All()
	got := loaded.All()
	if len(got) != len(want) {
		t.Fatalf("loaded %d records, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].ID != want[i].ID || got[i].Question != want[i].Question {
			t.Errorf("record %d differs after round trip", i)
		}
	}
}

func TestLoadArchiveMissingFile(t *testing.T) {
	s := New()
	if err := s.LoadArchive(t.TempDir()); err != nil {
		t.Fatalf("LoadArchive on empty dir error = %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len = %d, want 0", s.Len())
	}
}
