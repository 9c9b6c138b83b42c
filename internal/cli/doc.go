// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the assistant command-line interface.
//
// The root command starts the interactive Bubble Tea session; subcommands
// cover one-shot use: ask, models, export, clear, languages, config, and
// version. All engine assembly happens here, so the rest of the module
// stays free of flag parsing and environment concerns.
package cli
