// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

import "strings"

// =============================================================================
// MODEL LISTING TYPES
// =============================================================================

// generateMethod is the capability a model must advertise to serve
// generateContent calls.
const generateMethod = "generateContent"

// Model is one entry from the model listing endpoint.
type Model struct {
	// Name is the fully-qualified model identifier, e.g. "models/gemini-2.0-flash".
	Name string `json:"name"`

	// DisplayName is the human-readable model name.
	DisplayName string `json:"displayName,omitempty"`

	// SupportedGenerationMethods lists the API methods the model serves.
	SupportedGenerationMethods []string `json:"supportedGenerationMethods,omitempty"`
}

// SupportsGeneration reports whether the model can serve generateContent.
func (m Model) SupportsGeneration() bool {
	for _, method := range m.SupportedGenerationMethods {
		if method == generateMethod {
			return true
		}
	}
	return false
}

// ShortName strips the "models/" prefix for display.
func (m Model) ShortName() string {
	return strings.TrimPrefix(m.Name, "models/")
}

// ListModelsResponse is the body of GET /models.
type ListModelsResponse struct {
	Models []Model `json:"models"`
}

// =============================================================================
// GENERATION TYPES
// =============================================================================

// Part is one fragment of content.
type Part struct {
	Text string `json:"text"`
}

// Content is a sequence of parts.
type Content struct {
	Parts []Part `json:"parts"`
}

// GenerateContentRequest is the body of POST /{model}:generateContent.
type GenerateContentRequest struct {
	Contents []Content `json:"contents"`
}

// Candidate is one generated answer.
type Candidate struct {
	Content Content `json:"content"`
}

// GenerateContentResponse is the generation call's response body.
type GenerateContentResponse struct {
	Candidates []Candidate `json:"candidates"`
}

// FirstText returns the first candidate's first part text.
func (r GenerateContentResponse) FirstText() (string, bool) {
	if len(r.Candidates) == 0 {
		return "", false
	}
	parts := r.Candidates[0].Content.Parts
	if len(parts) == 0 {
		return "", false
	}
	return parts[0].Text, true
}

// =============================================================================
// ERROR RESPONSE
// =============================================================================

// APIErrorResponse is the backend's structured error body.
type APIErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}
