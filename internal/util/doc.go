// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small shared helpers for the assistant engine:
// atomic file writes for export artifacts and rune-safe string handling
// for multilingual text.
package util
