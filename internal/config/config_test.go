// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	if cfg.Request.TimeoutSecs != 30 {
		t.Errorf("TimeoutSecs = %d, want 30", cfg.Request.TimeoutSecs)
	}
	if cfg.Request.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", cfg.Request.MaxRetries)
	}
	if cfg.Request.RetryDelaySecs != 1 {
		t.Errorf("RetryDelaySecs = %d, want 1", cfg.Request.RetryDelaySecs)
	}
	if cfg.Language.Default != "en" {
		t.Errorf("default language = %q, want en", cfg.Language.Default)
	}
	if cfg.Timeout() != 30*time.Second {
		t.Errorf("Timeout() = %v, want 30s", cfg.Timeout())
	}
	if cfg.RetryDelay() != time.Second {
		t.Errorf("RetryDelay() = %v, want 1s", cfg.RetryDelay())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadFromPathMissingFile(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("LoadFromPath() error = %v", err)
	}
	if cfg.Request.TimeoutSecs != 30 {
		t.Errorf("missing file did not fall back to defaults")
	}
}

func TestLoadFromPathSparseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[api]
key = "test-key"

[language]
default = "af"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error = %v", err)
	}
	if cfg.API.Key != "test-key" {
		t.Errorf("API key = %q", cfg.API.Key)
	}
	if cfg.Language.Default != "af" {
		t.Errorf("language = %q, want af", cfg.Language.Default)
	}
	// Unset fields keep defaults.
	if cfg.Request.TimeoutSecs != 30 {
		t.Errorf("TimeoutSecs = %d, want default 30", cfg.Request.TimeoutSecs)
	}
	if cfg.Export.Prefix == "" {
		t.Error("export prefix not defaulted")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("ASSISTANT_API_KEY", "env-key")
	t.Setenv("ASSISTANT_LANGUAGE", "zu")
	t.Setenv("ASSISTANT_TIMEOUT_SECS", "10")

	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("LoadFromPath() error = %v", err)
	}
	if cfg.API.Key != "env-key" {
		t.Errorf("API key = %q, want env-key", cfg.API.Key)
	}
	if cfg.Language.Default != "zu" {
		t.Errorf("language = %q, want zu", cfg.Language.Default)
	}
	if cfg.Request.TimeoutSecs != 10 {
		t.Errorf("TimeoutSecs = %d, want 10", cfg.Request.TimeoutSecs)
	}
}

func TestEnvWinsOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[api]\nkey = \"file-key\"\n"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ASSISTANT_API_KEY", "env-key")

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error = %v", err)
	}
	if cfg.API.Key != "env-key" {
		t.Errorf("API key = %q, want env override", cfg.API.Key)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"empty api key allowed", func(c *Config) { c.API.Key = "" }, false},
		{"bad base url", func(c *Config) { c.API.BaseURL = "not a url" }, true},
		{"zero timeout", func(c *Config) { c.Request.TimeoutSecs = 0 }, true},
		{"negative retries", func(c *Config) { c.Request.MaxRetries = -1 }, true},
		{"unknown language", func(c *Config) { c.Language.Default = "fr" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := Default()
	cfg.API.Key = "saved-key"
	cfg.Language.Default = "xh"

	if err := SaveToPath(cfg, path); err != nil {
		t.Fatalf("SaveToPath() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("config file permissions = %o, want 600", perm)
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error = %v", err)
	}
	if loaded.API.Key != "saved-key" {
		t.Errorf("key after round trip = %q", loaded.API.Key)
	}
	if loaded.Language.Default != "xh" {
		t.Errorf("language after round trip = %q", loaded.Language.Default)
	}
}

func TestWatcherReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[language]\ndefault = \"en\"\n"), 0600); err != nil {
		t.Fatal(err)
	}

	reloaded := make(chan *Config, 1)
	w, err := NewWatcher(path, func(cfg *Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	})
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Close()

	if err := w.Watch(); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	if err := os.WriteFile(path, []byte("[language]\ndefault = \"st\"\n"), 0600); err != nil {
		t.Fatal(err)
	}

	select {
	case cfg := <-reloaded:
		if cfg.Language.Default != "st" {
			t.Errorf("reloaded language = %q, want st", cfg.Language.Default)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("watcher never fired after config change")
	}
}
