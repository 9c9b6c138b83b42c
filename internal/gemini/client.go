// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gemini provides the HTTP client for the generative-language API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the generative-language client.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// ErrorType categorizes client errors for handling. Transport and timeout
// failures are transient and eligible for retry; an empty model list is a
// backend or configuration problem that retrying cannot fix.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeTimeout
	ErrTypeTransport
	ErrTypeInvalidResponse
	ErrTypeNoModels
	ErrTypeMissingKey
)

// Sentinel errors for easy checking.
var (
	ErrTimeout    = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
	ErrNoModels   = &ClientError{Type: ErrTypeNoModels, Message: "no generation-capable models available"}
	ErrMissingKey = &ClientError{Type: ErrTypeMissingKey, Message: "API key is not configured"}
)

// IsRetryable reports whether an error is a transient failure worth
// retrying: timeouts, transport failures and malformed responses. Missing
// configuration and an empty model list are terminal.
func IsRetryable(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		switch clientErr.Type {
		case ErrTypeTimeout, ErrTypeTransport, ErrTypeInvalidResponse:
			return true
		}
		return false
	}
	return errors.Is(err, context.DeadlineExceeded)
}

// IsTimeout checks if an error is a timeout error. Timeouts are retryable
// like transport errors but are logged with distinct diagnostics.
func IsTimeout(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeTimeout
	}
	return errors.Is(err, context.DeadlineExceeded)
}

// IsNoModels checks if an error indicates an empty filtered model list.
func IsNoModels(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeNoModels
	}
	return false
}

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// DefaultBaseURL is the hosted generative-language API endpoint.
const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// ClientConfig holds configuration options for the client.
type ClientConfig struct {
	// BaseURL is the API base URL (default: DefaultBaseURL).
	BaseURL string

	// Timeout is the window each network call races against (default: 30s).
	Timeout time.Duration

	// ModelPrefix filters the discovered model list; only models whose
	// name contains this fragment are kept (default: "gemini").
	ModelPrefix string
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:     DefaultBaseURL,
		Timeout:     30 * time.Second,
		ModelPrefix: "gemini",
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the generative-language API. The API key is supplied at
// construction; SetAPIKey replaces it when the host rotates the key.
//
// The Client is safe for concurrent use.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client

	mu     sync.RWMutex
	apiKey string
}

// NewClient creates a client with default configuration.
func NewClient(apiKey string) *Client {
	return NewClientWithConfig(apiKey, DefaultConfig())
}

// NewClientWithConfig creates a client with custom configuration.
func NewClientWithConfig(apiKey string, config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.ModelPrefix == "" {
		config.ModelPrefix = "gemini"
	}

	return &Client{
		config: config,
		apiKey: apiKey,
		// Per-call deadlines come from the caller's context so the engine
		// can race each call against its own timeout window.
		httpClient: &http.Client{},
	}
}

// Timeout returns the configured per-call timeout window.
func (c *Client) Timeout() time.Duration {
	return c.config.Timeout
}

// SetAPIKey replaces the key attached to subsequent requests.
func (c *Client) SetAPIKey(key string) {
	c.mu.Lock()
	c.apiKey = key
	c.mu.Unlock()
}

func (c *Client) key() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.apiKey
}

// =============================================================================
// MODEL DISCOVERY
// =============================================================================

// ListModels retrieves the models able to serve generateContent calls,
// in the order the backend returns them. The caller invokes this once per
// submission cycle; results are deliberately not cached so that model
// availability changes between cycles are picked up.
//
// Returns ErrNoModels when the listing succeeds but the filtered list is
// empty. That condition is terminal for the submission, not retryable.
func (c *Client) ListModels(ctx context.Context) ([]Model, error) {
	if c.key() == "" {
		return nil, ErrMissingKey
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("/models"), nil)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeTransport, Message: "failed to create request", Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, &ClientError{Type: ErrTypeTransport, Message: "model listing failed", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ClientError{
			Type:    ErrTypeTransport,
			Message: "model listing failed: " + resp.Status,
		}
	}

	var result ListModelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode model list", Cause: err}
	}

	models := filterGenerationModels(result.Models, c.config.ModelPrefix)
	if len(models) == 0 {
		return nil, ErrNoModels
	}
	return models, nil
}

// filterGenerationModels keeps only models matching the generation-model
// naming pattern whose supported methods include generateContent.
func filterGenerationModels(models []Model, prefix string) []Model {
	var out []Model
	for _, m := range models {
		if !strings.Contains(m.Name, prefix) {
			continue
		}
		if !m.SupportsGeneration() {
			continue
		}
		out = append(out, m)
	}
	return out
}

// =============================================================================
// GENERATION
// =============================================================================

// GenerateContent sends the question to the selected model and returns the
// first candidate's text.
func (c *Client) GenerateContent(ctx context.Context, model string, question string) (string, error) {
	if c.key() == "" {
		return "", ErrMissingKey
	}

	reqBody := GenerateContentRequest{
		Contents: []Content{{Parts: []Part{{Text: question}}}},
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.endpoint("/"+strings.TrimPrefix(model, "/")+":generateContent"), bytes.NewReader(body))
	if err != nil {
		return "", &ClientError{Type: ErrTypeTransport, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", ErrTimeout
		}
		return "", &ClientError{Type: ErrTypeTransport, Message: "generation request failed", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Try to surface the backend's error message
		var apiErr APIErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error.Message != "" {
			return "", &ClientError{Type: ErrTypeTransport, Message: apiErr.Error.Message}
		}
		return "", &ClientError{
			Type:    ErrTypeTransport,
			Message: "generation request failed: " + resp.Status,
		}
	}

	var result GenerateContentResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}

	text, ok := result.FirstText()
	if !ok {
		return "", &ClientError{Type: ErrTypeInvalidResponse, Message: "response contained no candidates"}
	}
	return text, nil
}

// endpoint builds a request URL with the API key attached.
func (c *Client) endpoint(path string) string {
	u := strings.TrimSuffix(c.config.BaseURL, "/") + path
	return u + "?key=" + url.QueryEscape(c.key())
}
