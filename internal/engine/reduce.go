// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package engine

import "github.com/nearbuy/assistant/internal/store"

// Reduce applies one event to the session state and returns the next
// state. Pure: no I/O, no timers, no clocks, so every transition is
// testable with plain values. Unknown events return the state unchanged.
func Reduce(s State, ev Event) State {
	switch ev := ev.(type) {

	case SubmitEvent:
		s.Phase = PhaseLoading
		s.RetryCount = 0
		s.ErrorKind = KindNone
		s.ErrorMessage = ""
		s.Models = nil
		return s

	case GuardFailedEvent:
		s.Phase = PhaseError
		s.ErrorKind = ev.Kind
		s.ErrorMessage = ev.Reason
		return s

	case DiscoverySucceededEvent:
		s.Models = ev.Models
		return s

	case DiscoveryFailedEvent:
		s.Phase = PhaseError
		s.ErrorKind = ev.Kind
		s.ErrorMessage = ev.Reason
		return s

	case GenerationSucceededEvent:
		s.Phase = PhaseSuccess
		s.RetryCount = 0
		s.ErrorKind = KindNone
		s.ErrorMessage = ""
		s.Conversations = append([]store.Record{ev.Record}, s.Conversations...)
		return s

	case GenerationFailedEvent:
		s.Phase = PhaseError
		s.ErrorKind = ev.Kind
		s.ErrorMessage = ev.Reason
		return s

	case RetryScheduledEvent:
		s.RetryCount = ev.Attempt
		return s

	case RetriesExhaustedEvent:
		s.Phase = PhaseError
		s.ErrorKind = ev.Kind
		s.ErrorMessage = ev.Reason
		// Counter returns to zero so the next manual submission starts a
		// fresh budget.
		s.RetryCount = 0
		return s

	case NetworkChangedEvent:
		s.Offline = ev.Offline
		// Recovery clears a standing offline error; the user resubmits.
		if !ev.Offline && s.Phase == PhaseError && s.ErrorKind == KindOffline {
			s.Phase = PhaseIdle
			s.ErrorKind = KindNone
			s.ErrorMessage = ""
		}
		return s

	case LanguageChangedEvent:
		s.Language = ev.Language
		return s

	case VoiceStatusEvent:
		s.VoiceStatus = ev.Status
		s.VoiceFeedback = ev.Feedback
		return s

	case SearchEvent:
		s.SearchText = ev.Term
		return s

	case DateFilterEvent:
		s.DateFilter = ev.Date
		return s

	case ToggleFiltersEvent:
		s.ShowFilters = !s.ShowFilters
		return s

	case ToggleHelpEvent:
		s.ShowHelp = !s.ShowHelp
		return s

	case ClearEvent:
		s.Conversations = nil
		s.SearchText = ""
		s.DateFilter = ""
		return s

	default:
		return s
	}
}
