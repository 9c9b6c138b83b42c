// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store holds the conversation log: an append-only, most-recent-first
// list of question/response records.
//
// Records are immutable once appended. Reads go through copies or pure
// projections (FilteredView), so callers can never mutate the log in place.
// Export serializes a projection to a JSON artifact without touching the
// store; Clear replaces the visible list wholesale.
//
// The archive functions persist the log between CLI invocations as a single
// JSON file, written atomically.
package store
