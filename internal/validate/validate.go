// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package validate checks user questions before they reach the orchestrator.
package validate

import (
	"strings"

	"github.com/nearbuy/assistant/internal/util"
)

// Question length bounds, counted in runes after trimming whitespace.
const (
	MinQuestionLen = 2
	MaxQuestionLen = 500
)

// Reason strings surfaced to the user. A failed validation is terminal for
// the submission; it is never retried.
const (
	ReasonEmpty    = "question cannot be empty"
	ReasonTooShort = "question must be at least 2 characters"
	ReasonTooLong  = "question must be at most 500 characters"
)

// Result is the outcome of validating a question.
type Result struct {
	Valid  bool
	Reason string
}

// Question validates free-text input. Rules are applied in order: empty or
// whitespace-only, below minimum length, above maximum length. Pure; no
// state, no side effects.
func Question(text string) Result {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Result{Reason: ReasonEmpty}
	}

	n := util.RuneLen(trimmed)
	if n < MinQuestionLen {
		return Result{Reason: ReasonTooShort}
	}
	if n > MaxQuestionLen {
		return Result{Reason: ReasonTooLong}
	}

	return Result{Valid: true}
}
