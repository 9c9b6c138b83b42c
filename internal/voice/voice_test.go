// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package voice

import (
	"errors"
	"testing"

	"github.com/nearbuy/assistant/internal/intent"
	"github.com/nearbuy/assistant/internal/lang"
	"github.com/nearbuy/assistant/internal/notify"
)

// fakeRecognizer captures the handlers so tests can fire results and
// errors on demand.
type fakeRecognizer struct {
	locale   string
	handlers Handlers
	started  int
	stopped  int
	startErr error
}

func (f *fakeRecognizer) Start() error   { f.started++; return f.startErr }
func (f *fakeRecognizer) Stop() error    { f.stopped++; return nil }
func (f *fakeRecognizer) Locale() string { return f.locale }

func newFakeFactory(rec *fakeRecognizer) RecognizerFactory {
	return func(locale string, handlers Handlers) (Recognizer, error) {
		rec.locale = locale
		rec.handlers = handlers
		return rec, nil
	}
}

func TestControllerResultRoutesQuestion(t *testing.T) {
	rec := &fakeRecognizer{}

	var gotQuestion string
	var gotCommands []intent.Command

	c, err := NewController(Config{
		Factory:    newFakeFactory(rec),
		OnQuestion: func(text string) { gotQuestion = text },
		OnCommand:  func(cmd intent.Command) { gotCommands = append(gotCommands, cmd) },
	})
	if err != nil {
		t.Fatalf("NewController() error = %v", err)
	}

	if rec.locale != lang.Default().Locale {
		t.Errorf("recognizer locale = %q, want %q", rec.locale, lang.Default().Locale)
	}

	if err := c.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if status, feedback := c.Status(); status != StatusListening || feedback != lang.Default().Listening {
		t.Errorf("after Start: status = %v feedback = %q", status, feedback)
	}

	rec.handlers.OnResult("what time does the market open")

	if gotQuestion != "what time does the market open" {
		t.Errorf("question = %q, want transcript", gotQuestion)
	}
	if len(gotCommands) != 0 {
		t.Errorf("commands = %v, want none", gotCommands)
	}
	if status, _ := c.Status(); status != StatusIdle {
		t.Errorf("status after result = %v, want idle", status)
	}
}

func TestControllerResultRoutesCommand(t *testing.T) {
	rec := &fakeRecognizer{}

	var gotQuestions []string
	var gotCmd intent.Command

	c, err := NewController(Config{
		Factory:    newFakeFactory(rec),
		OnQuestion: func(text string) { gotQuestions = append(gotQuestions, text) },
		OnCommand:  func(cmd intent.Command) { gotCmd = cmd },
	})
	if err != nil {
		t.Fatalf("NewController() error = %v", err)
	}

	if err := c.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	rec.handlers.OnResult("search for jazz festival")

	if gotCmd.Intent != intent.IntentSearch {
		t.Errorf("intent = %v, want search", gotCmd.Intent)
	}
	if gotCmd.Term != "jazz festival" {
		t.Errorf("term = %q, want %q", gotCmd.Term, "jazz festival")
	}
	if len(gotQuestions) != 0 {
		t.Errorf("questions = %v, want none", gotQuestions)
	}
}

func TestControllerLanguageBindsLocaleAndKeywords(t *testing.T) {
	rec := &fakeRecognizer{}

	var gotCmd intent.Command
	af := lang.Resolve("af")

	c, err := NewController(Config{
		Language:  af,
		Factory:   newFakeFactory(rec),
		OnCommand: func(cmd intent.Command) { gotCmd = cmd },
	})
	if err != nil {
		t.Fatalf("NewController() error = %v", err)
	}

	if rec.locale != "af-ZA" {
		t.Errorf("recognizer locale = %q, want af-ZA", rec.locale)
	}
	if err := c.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if _, feedback := c.Status(); feedback != af.Listening {
		t.Errorf("feedback = %q, want %q", feedback, af.Listening)
	}

	rec.handlers.OnResult("soek vir jazz fees")
	if gotCmd.Intent != intent.IntentSearch || gotCmd.Term != "jazz fees" {
		t.Errorf("command = %+v, want search(jazz fees)", gotCmd)
	}
}

func TestControllerErrorNotifiesAndReturnsToIdle(t *testing.T) {
	rec := &fakeRecognizer{}
	capture := &notify.Capture{}

	var statuses []Status

	c, err := NewController(Config{
		Factory:  newFakeFactory(rec),
		Notifier: capture,
		OnStatus: func(status Status, _ string) { statuses = append(statuses, status) },
	})
	if err != nil {
		t.Fatalf("NewController() error = %v", err)
	}

	if err := c.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	rec.handlers.OnError(errors.New("no speech input"))

	errs := capture.Errors()
	if len(errs) != 1 {
		t.Fatalf("error notifications = %d, want 1", len(errs))
	}
	if want := "Voice recognition failed: no speech input"; errs[0] != want {
		t.Errorf("notification = %q, want %q", errs[0], want)
	}

	if status, _ := c.Status(); status != StatusIdle {
		t.Errorf("status after error = %v, want idle", status)
	}
	// Listening, then the error surfaces, then back to idle.
	want := []Status{StatusListening, StatusError, StatusIdle}
	if len(statuses) != len(want) {
		t.Fatalf("status sequence = %v, want %v", statuses, want)
	}
	for i := range want {
		if statuses[i] != want[i] {
			t.Errorf("status[%d] = %v, want %v", i, statuses[i], want[i])
		}
	}
}

func TestControllerStartWhileListening(t *testing.T) {
	rec := &fakeRecognizer{}

	c, err := NewController(Config{Factory: newFakeFactory(rec)})
	if err != nil {
		t.Fatalf("NewController() error = %v", err)
	}

	if err := c.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := c.Start(); !errors.Is(err, ErrAlreadyListening) {
		t.Errorf("second Start() error = %v, want ErrAlreadyListening", err)
	}
	if rec.started != 1 {
		t.Errorf("recognizer started %d times, want 1", rec.started)
	}
}

func TestControllerStopCancelsRecognition(t *testing.T) {
	rec := &fakeRecognizer{}

	c, err := NewController(Config{Factory: newFakeFactory(rec)})
	if err != nil {
		t.Fatalf("NewController() error = %v", err)
	}

	if err := c.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := c.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if rec.stopped != 1 {
		t.Errorf("recognizer stopped %d times, want 1", rec.stopped)
	}
	if status, feedback := c.Status(); status != StatusIdle || feedback != "" {
		t.Errorf("after Stop: status = %v feedback = %q", status, feedback)
	}

	// Stop when already idle is a no-op.
	if err := c.Stop(); err != nil {
		t.Fatalf("idle Stop() error = %v", err)
	}
	if rec.stopped != 1 {
		t.Errorf("idle Stop touched recognizer, stops = %d", rec.stopped)
	}
}

func TestControllerCloseSuppressesCallbacks(t *testing.T) {
	rec := &fakeRecognizer{}
	capture := &notify.Capture{}

	var gotQuestions []string

	c, err := NewController(Config{
		Factory:    newFakeFactory(rec),
		Notifier:   capture,
		OnQuestion: func(text string) { gotQuestions = append(gotQuestions, text) },
	})
	if err != nil {
		t.Fatalf("NewController() error = %v", err)
	}

	if err := c.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if rec.stopped != 1 {
		t.Errorf("Close stopped recognizer %d times, want 1", rec.stopped)
	}

	// A recognizer that races Close may still fire; the controller must
	// swallow it.
	rec.handlers.OnResult("late transcript")
	rec.handlers.OnError(errors.New("late failure"))

	if len(gotQuestions) != 0 {
		t.Errorf("questions after Close = %v, want none", gotQuestions)
	}
	if len(capture.Errors()) != 0 {
		t.Errorf("notifications after Close = %v, want none", capture.Errors())
	}

	if err := c.Start(); !errors.Is(err, ErrClosed) {
		t.Errorf("Start() after Close error = %v, want ErrClosed", err)
	}
}

func TestControllerStartErrorSurfaces(t *testing.T) {
	rec := &fakeRecognizer{startErr: errors.New("microphone unavailable")}
	capture := &notify.Capture{}

	c, err := NewController(Config{
		Factory:  newFakeFactory(rec),
		Notifier: capture,
	})
	if err != nil {
		t.Fatalf("NewController() error = %v", err)
	}

	if err := c.Start(); err == nil {
		t.Fatal("Start() error = nil, want microphone failure")
	}
	if status, _ := c.Status(); status != StatusIdle {
		t.Errorf("status after failed Start = %v, want idle", status)
	}
	if len(capture.Errors()) != 1 {
		t.Errorf("error notifications = %d, want 1", len(capture.Errors()))
	}
}
