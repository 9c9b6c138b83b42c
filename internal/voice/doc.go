// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package voice wraps a platform speech-recognition capability behind a
// small lifecycle: idle, listening, then back to idle on a result or an
// error.
//
// The platform capability is abstracted as the Recognizer interface with a
// RecognizerFactory so the dependency is explicit and tests can supply a
// fake. The recognizer's locale is fixed at construction; changing the
// session language constructs a new Controller (and recognizer) bound to
// the new locale.
//
// Recognized transcripts that begin with a reserved command keyword are
// handed to the intent interpreter; all other transcripts flow to the
// question path. Recognition errors are local to this package: they emit a
// notification and reset to idle without touching the request orchestrator.
package voice
