// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the calendar-date form used by date filters and export
// file names.
const DateLayout = "2006-01-02"

// =============================================================================
// RECORD TYPE
// =============================================================================

// Record is one completed question/response exchange. Immutable once
// appended.
type Record struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	Response  string    `json:"response"`
	Timestamp time.Time `json:"timestamp"`

	// Language is the session language code the question was asked in.
	Language string `json:"language"`
}

// Date returns the record's calendar date in DateLayout form.
func (r Record) Date() string {
	return r.Timestamp.Format(DateLayout)
}

// Matches reports whether the record passes the given filters. An empty
// searchText matches everything; otherwise the text must appear in the
// question or the response, case-insensitively. An empty dateFilter
// matches everything; otherwise it must equal the record's calendar date.
func (r Record) Matches(searchText, dateFilter string) bool {
	if searchText != "" {
		needle := strings.ToLower(searchText)
		if !strings.Contains(strings.ToLower(r.Question), needle) &&
			!strings.Contains(strings.ToLower(r.Response), needle) {
			return false
		}
	}
	if dateFilter != "" && r.Date() != dateFilter {
		return false
	}
	return true
}

// =============================================================================
// CONVERSATION STORE
// =============================================================================

// Store is the in-memory conversation log. Most-recent-first ordering is
// an invariant: Append always prepends. Safe for concurrent use; the
// orchestrator appends from its cycle goroutine while the session reads.
type Store struct {
	mu      sync.RWMutex
	records []Record
	clock   func() time.Time
}

// New creates an empty store.
func New() *Store {
	return &Store{clock: time.Now}
}

// NewWithClock creates a store with an injected clock, for tests.
func NewWithClock(clock func() time.Time) *Store {
	return &Store{clock: clock}
}

// Append creates a record for a completed exchange and prepends it to
// the log. Returns the record so the caller can fold it into session
// state.
func (s *Store) Append(question, response, langCode string) Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := Record{
		ID:        uuid.NewString(),
		Question:  question,
		Response:  response,
		Timestamp: s.clock(),
		Language:  langCode,
	}

	s.records = append([]Record{rec}, s.records...)
	return rec
}

// Restore replaces the log with previously archived records, preserving
// their order. Used when loading an archive at startup.
func (s *Store) Restore(records []Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append([]Record(nil), records...)
}

// All returns a copy of the full log, most recent first.
func (s *Store) All() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Record(nil), s.records...)
}

// Len returns the number of records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Clear removes all records and returns how many were removed.
func (s *Store) Clear() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.records)
	s.records = nil
	return n
}

// FilteredView is a pure projection of the log. With both filters empty
// it returns the full list unchanged; otherwise only records that pass
// Record.Matches, still most recent first.
func (s *Store) FilteredView(searchText, dateFilter string) []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if searchText == "" && dateFilter == "" {
		return append([]Record(nil), s.records...)
	}

	out := make([]Record, 0, len(s.records))
	for _, rec := range s.records {
		if rec.Matches(searchText, dateFilter) {
			out = append(out, rec)
		}
	}
	return out
}
