// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/nearbuy/assistant/internal/gemini"
	"github.com/nearbuy/assistant/internal/lang"
	"github.com/nearbuy/assistant/internal/store"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config is the complete assistant configuration.
type Config struct {
	Version string `toml:"version"`

	// API configures the Gemini backend.
	API APIConfig `toml:"api"`

	// Request configures the orchestrator's timeout and retry policy.
	Request RequestConfig `toml:"request"`

	// Language configures the session language.
	Language LanguageConfig `toml:"language"`

	// Export configures conversation export artifacts.
	Export ExportConfig `toml:"export"`

	// Log configures diagnostic logging.
	Log LogConfig `toml:"log"`
}

// APIConfig contains backend connection settings.
type APIConfig struct {
	// Key is the API key. Required before any submission; absence is a
	// terminal configuration error at submit time, never retried.
	Key string `toml:"key"`

	// BaseURL is the backend base URL.
	BaseURL string `toml:"base_url"`

	// ModelPrefix filters the discovered model list to generation models.
	ModelPrefix string `toml:"model_prefix"`
}

// RequestConfig contains the per-call timeout and retry policy.
type RequestConfig struct {
	// TimeoutSecs bounds each network call (discovery and generation).
	TimeoutSecs int `toml:"timeout_secs"`

	// MaxRetries bounds retries per submission for retryable failures.
	MaxRetries int `toml:"max_retries"`

	// RetryDelaySecs is the base back-off delay; attempt N waits
	// base × 2^(N-1).
	RetryDelaySecs int `toml:"retry_delay_secs"`
}

// LanguageConfig contains the session language selection.
type LanguageConfig struct {
	// Default is the language code active at startup.
	Default string `toml:"default"`
}

// ExportConfig contains export artifact settings.
type ExportConfig struct {
	// Dir is the directory export artifacts are written into.
	// Empty means the current working directory.
	Dir string `toml:"dir"`

	// Prefix names artifacts: <prefix>-<date>.json.
	Prefix string `toml:"prefix"`
}

// LogConfig contains diagnostic logging settings.
type LogConfig struct {
	// Level is a zerolog level name: debug, info, warn, error.
	Level string `toml:"level"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Version: "1.0",
		API: APIConfig{
			BaseURL:     gemini.DefaultBaseURL,
			ModelPrefix: "gemini",
		},
		Request: RequestConfig{
			TimeoutSecs:    30,
			MaxRetries:     3,
			RetryDelaySecs: 1,
		},
		Language: LanguageConfig{
			Default: lang.DefaultCode,
		},
		Export: ExportConfig{
			Prefix: store.DefaultExportPrefix,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Timeout returns the per-call timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Request.TimeoutSecs) * time.Second
}

// RetryDelay returns the base back-off delay as a duration.
func (c *Config) RetryDelay() time.Duration {
	return time.Duration(c.Request.RetryDelaySecs) * time.Second
}

// =============================================================================
// FILE LOCATIONS
// =============================================================================

// ConfigDir returns the assistant's configuration directory
// (~/.assistant).
func ConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".assistant"), nil
}

// ConfigPath returns the configuration file location
// (~/.assistant/config.toml).
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// EnsureConfigDir creates the configuration directory if missing.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads the configuration file, applies environment overrides, and
// validates. A missing file is not an error: defaults plus environment
// apply.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads configuration from an explicit file path.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config file: %w", err)
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ApplyEnvOverrides layers ASSISTANT_* environment variables over the
// loaded values. Environment wins over file.
func (c *Config) ApplyEnvOverrides() {
	if key := os.Getenv("ASSISTANT_API_KEY"); key != "" {
		c.API.Key = key
	}
	if base := os.Getenv("ASSISTANT_BASE_URL"); base != "" {
		c.API.BaseURL = base
	}
	if code := os.Getenv("ASSISTANT_LANGUAGE"); code != "" {
		c.Language.Default = code
	}
	if dir := os.Getenv("ASSISTANT_EXPORT_DIR"); dir != "" {
		c.Export.Dir = dir
	}
	if level := os.Getenv("ASSISTANT_LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
	if secs := os.Getenv("ASSISTANT_TIMEOUT_SECS"); secs != "" {
		if n, err := strconv.Atoi(secs); err == nil {
			c.Request.TimeoutSecs = n
		}
	}
}

// SetDefaults fills any zero-valued fields with built-in defaults, so a
// sparse config file still yields a complete configuration.
func (c *Config) SetDefaults() {
	def := Default()

	if c.API.BaseURL == "" {
		c.API.BaseURL = def.API.BaseURL
	}
	if c.API.ModelPrefix == "" {
		c.API.ModelPrefix = def.API.ModelPrefix
	}
	if c.Request.TimeoutSecs == 0 {
		c.Request.TimeoutSecs = def.Request.TimeoutSecs
	}
	if c.Request.MaxRetries == 0 {
		c.Request.MaxRetries = def.Request.MaxRetries
	}
	if c.Request.RetryDelaySecs == 0 {
		c.Request.RetryDelaySecs = def.Request.RetryDelaySecs
	}
	if c.Language.Default == "" {
		c.Language.Default = def.Language.Default
	}
	if c.Export.Prefix == "" {
		c.Export.Prefix = def.Export.Prefix
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError describes a single invalid field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors aggregates all validation failures.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	msgs := make([]string, len(e))
	for i, ve := range e {
		msgs[i] = ve.Error()
	}
	return strings.Join(msgs, "; ")
}

// Validate checks the configuration. The API key is deliberately NOT
// required here: its absence is surfaced at submit time as a terminal
// configuration error, so the CLI can still run offline commands.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if c.API.BaseURL != "" {
		if u, err := url.Parse(c.API.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, ValidationError{
				Field:   "api.base_url",
				Message: fmt.Sprintf("not an absolute URL: %q", c.API.BaseURL),
			})
		}
	}

	if c.Request.TimeoutSecs <= 0 {
		errs = append(errs, ValidationError{
			Field:   "request.timeout_secs",
			Message: "must be positive",
		})
	}
	if c.Request.MaxRetries < 0 {
		errs = append(errs, ValidationError{
			Field:   "request.max_retries",
			Message: "must not be negative",
		})
	}
	if c.Request.RetryDelaySecs <= 0 {
		errs = append(errs, ValidationError{
			Field:   "request.retry_delay_secs",
			Message: "must be positive",
		})
	}

	if _, ok := lang.Lookup(c.Language.Default); !ok {
		errs = append(errs, ValidationError{
			Field:   "language.default",
			Message: fmt.Sprintf("unsupported language code: %q", c.Language.Default),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// SAVING
// =============================================================================

// Save writes the configuration to its default location with owner-only
// permissions, since it carries the API key.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveToPath(cfg, path)
}

// SaveToPath writes the configuration to an explicit path, 0600.
func SaveToPath(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	if err := os.Chmod(path, 0600); err != nil {
		return fmt.Errorf("failed to set config file permissions: %w", err)
	}

	fmt.Fprintln(file, "# assistant configuration file")
	fmt.Fprintln(file, "")

	if err := toml.NewEncoder(file).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}
