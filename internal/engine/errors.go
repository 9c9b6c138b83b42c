// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package engine

import (
	"errors"

	"github.com/nearbuy/assistant/internal/gemini"
)

// =============================================================================
// ERROR TAXONOMY
// =============================================================================

// ErrorKind classifies a submission failure. The kind decides both the
// retry policy and which notification the user sees.
type ErrorKind int

const (
	// KindNone marks the absence of an error.
	KindNone ErrorKind = iota

	// KindValidation covers rejected input and missing configuration.
	// Terminal for the submission, never retried.
	KindValidation

	// KindOffline means the network monitor reported no connectivity
	// before the call was issued. Terminal for the attempt; clears when
	// connectivity returns.
	KindOffline

	// KindTransport covers non-2xx responses, malformed payloads, and
	// connection failures. Retryable.
	KindTransport

	// KindTimeout means a call lost the race against the timeout window.
	// Retryable, logged separately from transport failures.
	KindTimeout

	// KindEmptyModelList means discovery succeeded but no generation
	// models survived filtering. Terminal; a backend problem, not noise.
	KindEmptyModelList
)

// String returns the kind name for logs.
func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindOffline:
		return "offline"
	case KindTransport:
		return "transport"
	case KindTimeout:
		return "timeout"
	case KindEmptyModelList:
		return "empty_model_list"
	default:
		return "none"
	}
}

// Retryable reports whether failures of this kind re-enter the retry
// loop. Only transport and timeout failures do.
func (k ErrorKind) Retryable() bool {
	return k == KindTransport || k == KindTimeout
}

// Classify maps a backend error to its kind.
func Classify(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	if errors.Is(err, ErrOffline) {
		return KindOffline
	}
	if gemini.IsTimeout(err) {
		return KindTimeout
	}
	if gemini.IsNoModels(err) {
		return KindEmptyModelList
	}
	if errors.Is(err, gemini.ErrMissingKey) {
		return KindValidation
	}
	return KindTransport
}

// =============================================================================
// SENTINEL ERRORS
// =============================================================================

// ErrBusy is returned when Submit is called while a cycle is in flight.
// At most one submission runs per session.
var ErrBusy = errors.New("a request is already in progress")

// ErrClosed is returned when using the engine after Close.
var ErrClosed = errors.New("engine is closed")

// ErrOffline is raised when the network monitor reports no connectivity
// at the moment a call would be issued. Terminal for the attempt.
var ErrOffline = errors.New("network is offline")
