// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading for the assistant.
//
// Supports TOML configuration with sensible defaults, environment
// variable overrides, and validation.
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (ASSISTANT_*)
//   - ~/.assistant/config.toml
//   - Built-in defaults
//
// The API key lives here as read-only configuration: nothing mutates it
// at runtime, and its absence is a terminal error at submit time rather
// than at load time, so offline commands still work without a key.
//
// The optional Watcher reloads the file when it changes on disk, so a
// key or language edit takes effect without restarting the session.
package config
