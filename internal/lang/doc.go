// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package lang holds the fixed table of languages the assistant supports.
//
// Every language carries the recognizer locale, the English display name
// used in export artifacts, and the listening feedback string shown while
// voice input is active. The active voice locale and the active command
// keyword table must always correspond to the same language code; both are
// derived from this table so they cannot drift apart.
package lang
