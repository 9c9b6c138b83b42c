// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package voice

import (
	"errors"
	"fmt"
	"sync"

	"github.com/nearbuy/assistant/internal/intent"
	"github.com/nearbuy/assistant/internal/lang"
	"github.com/nearbuy/assistant/internal/notify"
)

// =============================================================================
// STATUS
// =============================================================================

// Status is the controller's lifecycle state.
type Status int

const (
	StatusIdle Status = iota
	StatusListening
	StatusError
)

// String returns the status name for logs.
func (s Status) String() string {
	switch s {
	case StatusListening:
		return "listening"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// ErrClosed is returned when starting a controller after Close.
var ErrClosed = errors.New("voice controller is closed")

// ErrAlreadyListening is returned when Start is called mid-session.
var ErrAlreadyListening = errors.New("voice recognition already in progress")

// =============================================================================
// CONTROLLER
// =============================================================================

// Config wires a Controller to its collaborators.
type Config struct {
	// Language fixes the recognizer locale and the command keyword table.
	Language lang.Language

	// Factory constructs the platform recognizer.
	Factory RecognizerFactory

	// OnQuestion receives transcripts that are plain question text.
	OnQuestion func(text string)

	// OnCommand receives transcripts interpreted as commands.
	OnCommand func(cmd intent.Command)

	// OnStatus mirrors every status/feedback change so the session state
	// can display it. Optional.
	OnStatus func(status Status, feedback string)

	// Notifier surfaces recognition errors. Optional.
	Notifier notify.Notifier
}

// Controller runs the voice-input lifecycle: idle, listening, then back to
// idle on a result or error. Recognition failures are local: they surface
// a notification and return the controller to idle without touching the
// request orchestrator.
//
// The recognizer's locale is immutable post-construction, so a language
// change requires constructing a new Controller.
type Controller struct {
	mu       sync.Mutex
	status   Status
	feedback string
	closed   bool

	language lang.Language
	rec      Recognizer
	interp   *intent.Interpreter

	onQuestion func(string)
	onCommand  func(intent.Command)
	onStatus   func(Status, string)
	notifier   notify.Notifier
}

// NewController builds a controller and its recognizer for the configured
// language.
func NewController(cfg Config) (*Controller, error) {
	if cfg.Factory == nil {
		cfg.Factory = NoopFactory
	}
	if cfg.Notifier == nil {
		cfg.Notifier = notify.Discard
	}
	if cfg.Language.Code == "" {
		cfg.Language = lang.Default()
	}

	c := &Controller{
		status:     StatusIdle,
		language:   cfg.Language,
		interp:     intent.NewInterpreter(cfg.Language.Code),
		onQuestion: cfg.OnQuestion,
		onCommand:  cfg.OnCommand,
		onStatus:   cfg.OnStatus,
		notifier:   cfg.Notifier,
	}

	rec, err := cfg.Factory(cfg.Language.Locale, Handlers{
		OnResult: c.handleResult,
		OnError:  c.handleError,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to construct recognizer for %s: %w", cfg.Language.Locale, err)
	}
	c.rec = rec

	return c, nil
}

// Language returns the language the controller is bound to.
func (c *Controller) Language() lang.Language {
	return c.language
}

// Status returns the current lifecycle state and feedback string.
func (c *Controller) Status() (Status, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status, c.feedback
}

// Start begins listening and surfaces the locale-appropriate feedback
// string.
func (c *Controller) Start() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.status == StatusListening {
		c.mu.Unlock()
		return ErrAlreadyListening
	}
	c.status = StatusListening
	c.feedback = c.language.Listening
	c.mu.Unlock()

	c.emitStatus(StatusListening, c.language.Listening)

	if err := c.rec.Start(); err != nil {
		c.handleError(err)
		return err
	}
	return nil
}

// Stop cancels an in-flight recognition session and returns to idle.
func (c *Controller) Stop() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	listening := c.status == StatusListening
	c.status = StatusIdle
	c.feedback = ""
	c.mu.Unlock()

	if listening {
		c.emitStatus(StatusIdle, "")
		return c.rec.Stop()
	}
	return nil
}

// Close tears the controller down. Any in-flight recognition is stopped
// explicitly so dangling callbacks cannot fire into a disposed session.
func (c *Controller) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	listening := c.status == StatusListening
	c.status = StatusIdle
	c.feedback = ""
	c.mu.Unlock()

	if listening {
		return c.rec.Stop()
	}
	return nil
}

// =============================================================================
// RECOGNIZER CALLBACKS
// =============================================================================

// handleResult routes a recognized transcript. Transcripts beginning with
// a reserved command keyword go to the interpreter; everything else is
// question text. The controller always returns to idle afterwards.
func (c *Controller) handleResult(transcript string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.status = StatusIdle
	c.feedback = ""
	c.mu.Unlock()

	c.emitStatus(StatusIdle, "")

	if c.interp.IsCommand(transcript) {
		if cmd := c.interp.Interpret(transcript); cmd.Intent != intent.IntentNone {
			if c.onCommand != nil {
				c.onCommand(cmd)
			}
			return
		}
	}
	if c.onQuestion != nil {
		c.onQuestion(transcript)
	}
}

// handleError surfaces a recognition failure and returns to idle. Voice
// errors never affect the orchestrator's state.
func (c *Controller) handleError(err error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.status = StatusError
	c.feedback = ""
	c.mu.Unlock()

	c.emitStatus(StatusError, "")
	c.notifier.Error("Voice recognition failed: " + err.Error())

	c.mu.Lock()
	c.status = StatusIdle
	c.mu.Unlock()
	c.emitStatus(StatusIdle, "")
}

func (c *Controller) emitStatus(status Status, feedback string) {
	if c.onStatus != nil {
		c.onStatus(status, feedback)
	}
}
