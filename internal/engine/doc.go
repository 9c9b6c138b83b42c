// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package engine is the request orchestrator and session state machine.
//
// The session is a single State value updated exclusively through Reduce,
// a pure (state, event) function over a closed event set. Timers, network
// calls, and voice callbacks all funnel into events, which keeps every
// transition unit-testable without mocks beyond simulated events.
//
// A submission runs idle → loading → {success, error}. Pre-flight guards
// check the input, the API key, and connectivity, in that order; a failed
// guard is terminal and never retried. Once loading, each attempt runs
// model discovery and then generation, both bounded by the timeout
// window. Timeouts and transport failures share a retry budget with
// exponential back-off; an empty model list and configuration problems
// end the cycle immediately.
//
// Close cancels the cycle context and the voice controller, so pending
// calls, retry timers, and recognizer callbacks cannot update a disposed
// session.
package engine
