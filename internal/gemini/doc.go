// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gemini provides the HTTP client for the generative-language API.
//
// The client covers the two calls the assistant engine needs:
//
//   - ListModels: GET /models, filtered to generation-capable gemini models.
//     Invoked once per submission cycle, never cached across cycles.
//   - GenerateContent: POST /{model}:generateContent with the user's
//     question; the first candidate's first part is the response text.
//
// # Errors
//
// Failures are typed: timeouts (ErrTypeTimeout) and transport failures
// (ErrTypeTransport, including non-2xx statuses and malformed bodies) are
// transient and retryable; an empty filtered model list (ErrNoModels) and a
// missing API key (ErrMissingKey) are terminal for the submission. Use
// IsRetryable, IsTimeout and IsNoModels to classify.
package gemini
