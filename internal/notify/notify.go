// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package notify defines the notification sink the engine reports through.
package notify

import (
	"sync"

	"github.com/rs/zerolog"
)

// =============================================================================
// NOTIFIER INTERFACE
// =============================================================================

// Notifier is the host-supplied sink for user-facing notifications.
// The engine never renders UI itself; every terminal error, retry
// announcement and success message goes through this interface.
type Notifier interface {
	Success(msg string)
	Error(msg string)
	Info(msg string)
}

// =============================================================================
// IMPLEMENTATIONS
// =============================================================================

// Funcs adapts three plain functions to the Notifier interface. Nil
// functions are ignored, so hosts can subscribe to a subset of levels.
type Funcs struct {
	OnSuccess func(msg string)
	OnError   func(msg string)
	OnInfo    func(msg string)
}

func (f Funcs) Success(msg string) {
	if f.OnSuccess != nil {
		f.OnSuccess(msg)
	}
}

func (f Funcs) Error(msg string) {
	if f.OnError != nil {
		f.OnError(msg)
	}
}

func (f Funcs) Info(msg string) {
	if f.OnInfo != nil {
		f.OnInfo(msg)
	}
}

// Logger is a Notifier that writes structured log events. It backs the CLI
// host and doubles as the diagnostics trail for headless deployments.
type Logger struct {
	Log zerolog.Logger
}

// NewLogger creates a logging notifier.
func NewLogger(log zerolog.Logger) *Logger {
	return &Logger{Log: log}
}

func (l *Logger) Success(msg string) {
	l.Log.Info().Str("level", "success").Msg(msg)
}

func (l *Logger) Error(msg string) {
	l.Log.Error().Msg(msg)
}

func (l *Logger) Info(msg string) {
	l.Log.Info().Msg(msg)
}

// Multi fans one notification out to several sinks, in order.
func Multi(sinks ...Notifier) Notifier {
	return multi(sinks)
}

type multi []Notifier

func (m multi) Success(msg string) {
	for _, n := range m {
		n.Success(msg)
	}
}

func (m multi) Error(msg string) {
	for _, n := range m {
		n.Error(msg)
	}
}

func (m multi) Info(msg string) {
	for _, n := range m {
		n.Info(msg)
	}
}

// Discard drops all notifications.
var Discard Notifier = Funcs{}

// =============================================================================
// TEST CAPTURE
// =============================================================================

// Level classifies a captured notification.
type Level int

const (
	LevelSuccess Level = iota
	LevelError
	LevelInfo
)

// Record is one captured notification.
type Record struct {
	Level   Level
	Message string
}

// Capture records notifications for inspection. Safe for concurrent use;
// the engine emits from its cycle goroutine.
type Capture struct {
	mu      sync.Mutex
	records []Record
}

func (c *Capture) Success(msg string) { c.add(LevelSuccess, msg) }
func (c *Capture) Error(msg string)   { c.add(LevelError, msg) }
func (c *Capture) Info(msg string)    { c.add(LevelInfo, msg) }

func (c *Capture) add(level Level, msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, Record{Level: level, Message: msg})
}

// Records returns a copy of everything captured so far.
func (c *Capture) Records() []Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Record, len(c.records))
	copy(out, c.records)
	return out
}

// Errors returns only the error-level messages.
func (c *Capture) Errors() []string {
	var out []string
	for _, r := range c.Records() {
		if r.Level == LevelError {
			out = append(out, r.Message)
		}
	}
	return out
}

// Reset clears captured records.
func (c *Capture) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = nil
}
