// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package engine

import (
	"github.com/nearbuy/assistant/internal/lang"
	"github.com/nearbuy/assistant/internal/store"
	"github.com/nearbuy/assistant/internal/voice"
)

// =============================================================================
// LOADING PHASE
// =============================================================================

// Phase is the submission lifecycle. It moves idle → loading →
// {success, error} and returns to loading only on the next submission.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseSuccess
	PhaseError
)

// String returns the phase name for logs.
func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseSuccess:
		return "success"
	case PhaseError:
		return "error"
	default:
		return "idle"
	}
}

// =============================================================================
// SESSION STATE
// =============================================================================

// State is the complete session snapshot. It is a plain value: every
// change goes through Reduce, which returns a new State, so observers
// always see one coherent snapshot and never a half-applied update.
type State struct {
	// Phase is the current submission lifecycle state.
	Phase Phase

	// ErrorKind and ErrorMessage describe the last failure while Phase
	// is PhaseError.
	ErrorKind    ErrorKind
	ErrorMessage string

	// RetryCount is the number of retries consumed by the current cycle.
	// Reset to zero on each new submission and on success.
	RetryCount int

	// Offline mirrors the network monitor.
	Offline bool

	// Language is the active session language. The voice locale and the
	// command keyword table always correspond to this code.
	Language lang.Language

	// VoiceStatus and VoiceFeedback mirror the voice controller for
	// display; the controller owns them.
	VoiceStatus   voice.Status
	VoiceFeedback string

	// Models is the list discovered for the current cycle. Refreshed
	// each cycle, never cached across cycles.
	Models []string

	// Conversations mirrors the conversation store, most recent first.
	Conversations []store.Record

	// SearchText and DateFilter drive the filtered conversation view.
	SearchText string
	DateFilter string

	// ShowFilters and ShowHelp are presentation toggles.
	ShowFilters bool
	ShowHelp    bool
}

// NewState builds the initial session state.
func NewState(language lang.Language, offline bool) State {
	return State{
		Phase:    PhaseIdle,
		Language: language,
		Offline:  offline,
	}
}

// FilteredConversations applies the active search and date filters to
// the conversation list. Pure projection; with no filters set it returns
// the list as-is.
func (s State) FilteredConversations() []store.Record {
	if s.SearchText == "" && s.DateFilter == "" {
		return s.Conversations
	}
	out := make([]store.Record, 0, len(s.Conversations))
	for _, rec := range s.Conversations {
		if rec.Matches(s.SearchText, s.DateFilter) {
			out = append(out, rec)
		}
	}
	return out
}
