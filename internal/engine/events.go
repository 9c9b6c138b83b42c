// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package engine

import (
	"time"

	"github.com/nearbuy/assistant/internal/lang"
	"github.com/nearbuy/assistant/internal/store"
	"github.com/nearbuy/assistant/internal/voice"
)

// Event is one member of the closed set of state transitions. Every
// change to the session state is expressed as an event through Reduce;
// nothing mutates State fields directly.
type Event interface {
	isEvent()
}

// SubmitEvent starts a submission cycle: phase becomes loading, the
// retry counter and any previous error reset.
type SubmitEvent struct {
	Question string
}

// GuardFailedEvent records a pre-flight rejection (validation, missing
// key, offline). Terminal; the retry counter is untouched.
type GuardFailedEvent struct {
	Kind   ErrorKind
	Reason string
}

// DiscoverySucceededEvent records the models found for this cycle.
type DiscoverySucceededEvent struct {
	Models []string
}

// DiscoveryFailedEvent records a terminal discovery failure. Retryable
// discovery failures go through RetryScheduledEvent instead.
type DiscoveryFailedEvent struct {
	Kind   ErrorKind
	Reason string
}

// GenerationSucceededEvent completes the cycle: phase becomes success,
// the record is prepended to the conversation list, the retry counter
// resets.
type GenerationSucceededEvent struct {
	Record store.Record
}

// GenerationFailedEvent records a terminal generation failure.
type GenerationFailedEvent struct {
	Kind   ErrorKind
	Reason string
}

// RetryScheduledEvent records that attempt Attempt will run after Delay.
// The phase stays loading.
type RetryScheduledEvent struct {
	Attempt int
	Delay   time.Duration
}

// RetriesExhaustedEvent records that the retry bound was hit without
// success.
type RetriesExhaustedEvent struct {
	Kind   ErrorKind
	Reason string
}

// NetworkChangedEvent mirrors a connectivity transition. Coming back
// online clears a standing offline error (the user still resubmits).
type NetworkChangedEvent struct {
	Offline bool
}

// LanguageChangedEvent switches the session language; the caller is
// responsible for rebuilding the voice controller to match.
type LanguageChangedEvent struct {
	Language lang.Language
}

// VoiceStatusEvent mirrors the voice controller's lifecycle for display.
type VoiceStatusEvent struct {
	Status   voice.Status
	Feedback string
}

// SearchEvent sets the active search filter.
type SearchEvent struct {
	Term string
}

// DateFilterEvent sets the active calendar-date filter (DateLayout form,
// empty to clear).
type DateFilterEvent struct {
	Date string
}

// ToggleFiltersEvent flips the filter panel toggle.
type ToggleFiltersEvent struct{}

// ToggleHelpEvent flips the help panel toggle.
type ToggleHelpEvent struct{}

// ClearEvent empties the conversation list and resets both filters.
type ClearEvent struct{}

func (SubmitEvent) isEvent()              {}
func (GuardFailedEvent) isEvent()         {}
func (DiscoverySucceededEvent) isEvent()  {}
func (DiscoveryFailedEvent) isEvent()     {}
func (GenerationSucceededEvent) isEvent() {}
func (GenerationFailedEvent) isEvent()    {}
func (RetryScheduledEvent) isEvent()      {}
func (RetriesExhaustedEvent) isEvent()    {}
func (NetworkChangedEvent) isEvent()      {}
func (LanguageChangedEvent) isEvent()     {}
func (VoiceStatusEvent) isEvent()         {}
func (SearchEvent) isEvent()              {}
func (DateFilterEvent) isEvent()          {}
func (ToggleFiltersEvent) isEvent()       {}
func (ToggleHelpEvent) isEvent()          {}
func (ClearEvent) isEvent()               {}
