// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/nearbuy/assistant/internal/gemini"
	"github.com/nearbuy/assistant/internal/intent"
	"github.com/nearbuy/assistant/internal/lang"
	"github.com/nearbuy/assistant/internal/netmon"
	"github.com/nearbuy/assistant/internal/notify"
	"github.com/nearbuy/assistant/internal/store"
	"github.com/nearbuy/assistant/internal/validate"
	"github.com/nearbuy/assistant/internal/voice"
)

// User-facing messages for terminal failures.
const (
	MsgMissingAPIKey   = "API key is not configured."
	MsgOffline         = "Cannot send request while offline."
	MsgNoModels        = "No models are available right now. Please try again later."
	MsgRetriesExhausted = "The request failed after several attempts. Please try again."
)

// =============================================================================
// BACKEND INTERFACE
// =============================================================================

// Backend is the generation API surface the orchestrator drives. The
// gemini.Client satisfies it; tests supply fakes.
type Backend interface {
	// ListModels returns the generation-capable models.
	ListModels(ctx context.Context) ([]gemini.Model, error)

	// GenerateContent answers a question with the given model.
	GenerateContent(ctx context.Context, model string, question string) (string, error)
}

// =============================================================================
// ENGINE
// =============================================================================

// Config wires an Engine to its collaborators.
type Config struct {
	// APIKey is the backend key. Read-only; its absence fails the
	// pre-flight guard on every submission.
	APIKey string

	// Backend performs discovery and generation calls.
	Backend Backend

	// Store owns the conversation log.
	Store *store.Store

	// Network reports connectivity. Optional; without one the engine
	// assumes online.
	Network *netmon.Monitor

	// Notifier receives user-facing success/error/info messages.
	Notifier notify.Notifier

	// Logger receives diagnostics. Optional.
	Logger *zerolog.Logger

	// VoiceFactory builds recognizers for the voice controller.
	// Optional; defaults to the no-op recognizer.
	VoiceFactory voice.RecognizerFactory

	// Language is the initial session language.
	Language lang.Language

	// Timeout bounds each network call. Defaults to 30s.
	Timeout time.Duration

	// MaxRetries bounds retries per submission. Defaults to 3.
	MaxRetries int

	// RetryDelay is the base back-off; retry N waits base × 2^(N-1).
	// Defaults to 1s.
	RetryDelay time.Duration

	// ExportDir and ExportPrefix locate export artifacts.
	ExportDir    string
	ExportPrefix string
}

// Engine is the request orchestrator. It owns the session state, runs
// submission cycles against the backend, and mirrors the network monitor
// and voice controller into the state. At most one cycle is in flight at
// a time.
type Engine struct {
	mu       sync.Mutex
	state    State
	subs     []func(State)
	inFlight bool
	closed   bool

	apiKey   string
	backend  Backend
	store    *store.Store
	network  *netmon.Monitor
	notifier notify.Notifier
	log      zerolog.Logger

	voiceFactory voice.RecognizerFactory
	vc           *voice.Controller

	timeout      time.Duration
	maxRetries   int
	retryDelay   time.Duration
	exportDir    string
	exportPrefix string
	exporter     store.Exporter

	// ctx is cancelled on Close; it parents every cycle so teardown
	// stops in-flight calls and pending retry timers.
	ctx    context.Context
	cancel context.CancelFunc
}

// New builds an engine. Only the backend is required; every other
// collaborator has a usable default.
func New(cfg Config) (*Engine, error) {
	if cfg.Backend == nil {
		return nil, fmt.Errorf("engine requires a backend")
	}
	if cfg.Store == nil {
		cfg.Store = store.New()
	}
	if cfg.Notifier == nil {
		cfg.Notifier = notify.Discard
	}
	if cfg.VoiceFactory == nil {
		cfg.VoiceFactory = voice.NoopFactory
	}
	if cfg.Language.Code == "" {
		cfg.Language = lang.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Second
	}
	if cfg.Logger == nil {
		nop := zerolog.Nop()
		cfg.Logger = &nop
	}

	ctx, cancel := context.WithCancel(context.Background())

	offline := false
	if cfg.Network != nil {
		offline = cfg.Network.IsOffline()
	}

	e := &Engine{
		state:        NewState(cfg.Language, offline),
		apiKey:       cfg.APIKey,
		backend:      cfg.Backend,
		store:        cfg.Store,
		network:      cfg.Network,
		notifier:     cfg.Notifier,
		log:          *cfg.Logger,
		voiceFactory: cfg.VoiceFactory,
		timeout:      cfg.Timeout,
		maxRetries:   cfg.MaxRetries,
		retryDelay:   cfg.RetryDelay,
		exportDir:    cfg.ExportDir,
		exportPrefix: cfg.ExportPrefix,
		exporter:     store.NewJSONExporter(),
		ctx:          ctx,
		cancel:       cancel,
	}

	// Seed the state with any previously restored conversations.
	e.state.Conversations = cfg.Store.All()

	if cfg.Network != nil {
		cfg.Network.OnChange(func(off bool) {
			e.dispatch(NetworkChangedEvent{Offline: off})
		})
	}

	vc, err := e.buildVoiceController(cfg.Language)
	if err != nil {
		cancel()
		return nil, err
	}
	e.vc = vc

	return e, nil
}

// Close tears the engine down: the cycle context is cancelled so pending
// calls and retry timers stop, and the voice controller is closed so no
// recognizer callback lands on a disposed session.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	vc := e.vc
	e.mu.Unlock()

	e.cancel()
	if vc != nil {
		return vc.Close()
	}
	return nil
}

// State returns the current session snapshot.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Subscribe registers an observer called with each new state. Observers
// run on the goroutine that dispatched the event.
func (e *Engine) Subscribe(fn func(State)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.subs = append(e.subs, fn)
}

// dispatch folds an event into the state and fans the new snapshot out.
// Dropped silently after Close so late callbacks cannot revive a
// disposed session.
func (e *Engine) dispatch(ev Event) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.state = Reduce(e.state, ev)
	next := e.state
	subs := append([]func(State){}, e.subs...)
	e.mu.Unlock()

	for _, fn := range subs {
		fn(next)
	}
}

// =============================================================================
// SUBMISSION
// =============================================================================

// Submit validates the question, checks the pre-flight guards in order
// (input, API key, connectivity), and starts an asynchronous submission
// cycle. Guard failures are terminal: they surface a notification, move
// the phase to error, and return a descriptive error without touching
// the network. ErrBusy is returned while a cycle is in flight.
func (e *Engine) Submit(question string) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	if e.inFlight {
		e.mu.Unlock()
		return ErrBusy
	}
	langCode := e.state.Language.Code
	apiKey := e.apiKey
	e.mu.Unlock()

	if res := validate.Question(question); !res.Valid {
		e.dispatch(GuardFailedEvent{Kind: KindValidation, Reason: res.Reason})
		e.notifier.Error(res.Reason)
		return fmt.Errorf("invalid question: %s", res.Reason)
	}
	if apiKey == "" {
		e.dispatch(GuardFailedEvent{Kind: KindValidation, Reason: MsgMissingAPIKey})
		e.notifier.Error(MsgMissingAPIKey)
		return fmt.Errorf("missing api key")
	}
	if e.network != nil && e.network.IsOffline() {
		e.dispatch(GuardFailedEvent{Kind: KindOffline, Reason: MsgOffline})
		e.notifier.Error(MsgOffline)
		return fmt.Errorf("offline")
	}

	e.mu.Lock()
	if e.inFlight {
		e.mu.Unlock()
		return ErrBusy
	}
	e.inFlight = true
	e.mu.Unlock()

	e.dispatch(SubmitEvent{Question: question})
	go e.runCycle(e.ctx, question, langCode)
	return nil
}

// SetAPIKey replaces the configured key, so a key rotated on disk takes
// effect without restarting the session. An in-flight cycle keeps the
// key it started with.
func (e *Engine) SetAPIKey(key string) {
	e.mu.Lock()
	e.apiKey = key
	e.mu.Unlock()
}

// Wait blocks until no cycle is in flight. Intended for one-shot CLI
// use, not for the interactive session.
func (e *Engine) Wait() {
	for {
		e.mu.Lock()
		busy := e.inFlight
		e.mu.Unlock()
		if !busy {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
}

// cycleStage marks which call of the cycle failed.
type cycleStage int

const (
	stageDiscovery cycleStage = iota
	stageGeneration
)

// runCycle is one submission: discovery, then generation, with a shared
// retry budget for retryable failures. Each attempt repeats discovery so
// model availability changes are tolerated mid-submission.
func (e *Engine) runCycle(ctx context.Context, question, langCode string) {
	defer func() {
		e.mu.Lock()
		e.inFlight = false
		e.mu.Unlock()
	}()

	retries := 0
	for {
		answer, stage, err := e.attempt(ctx, question)
		if ctx.Err() != nil {
			// Teardown: no state updates against a disposed session.
			return
		}

		if err == nil {
			rec := e.store.Append(question, answer, langCode)
			e.dispatch(GenerationSucceededEvent{Record: rec})
			e.notifier.Success("Response received.")
			return
		}

		kind := Classify(err)
		// Connectivity lost mid-cycle supersedes a retryable failure:
		// waiting out a back-off cannot help while offline.
		if kind.Retryable() && e.isOffline() {
			kind = KindOffline
		}
		reason := e.describe(kind, err)

		if !kind.Retryable() {
			if stage == stageDiscovery {
				e.dispatch(DiscoveryFailedEvent{Kind: kind, Reason: reason})
			} else {
				e.dispatch(GenerationFailedEvent{Kind: kind, Reason: reason})
			}
			e.notifier.Error(reason)
			e.log.Error().Err(err).Stringer("kind", kind).Msg("request failed")
			return
		}

		retries++
		if retries > e.maxRetries {
			e.dispatch(RetriesExhaustedEvent{Kind: kind, Reason: MsgRetriesExhausted})
			e.notifier.Error(MsgRetriesExhausted)
			e.log.Error().Err(err).Stringer("kind", kind).
				Int("retries", e.maxRetries).Msg("retries exhausted")
			return
		}

		delay := e.retryDelay * time.Duration(1<<(retries-1))
		e.dispatch(RetryScheduledEvent{Attempt: retries, Delay: delay})
		e.notifier.Info(fmt.Sprintf("Retrying in %s (%d/%d)...", delay, retries, e.maxRetries))

		// Timeouts and transport failures retry the same way but are
		// logged apart for diagnostics.
		if kind == KindTimeout {
			e.log.Warn().Dur("delay", delay).Int("attempt", retries).
				Msg("call timed out, retrying")
		} else {
			e.log.Warn().Err(err).Dur("delay", delay).Int("attempt", retries).
				Msg("transport failure, retrying")
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// isOffline reads the connectivity flag; without a monitor the engine
// assumes online.
func (e *Engine) isOffline() bool {
	return e.network != nil && e.network.IsOffline()
}

// attempt runs one discovery-plus-generation pass, each call bounded by
// the timeout window. The offline flag is read immediately before each
// call; offline is fatal for the attempt, not retried.
func (e *Engine) attempt(ctx context.Context, question string) (string, cycleStage, error) {
	if e.isOffline() {
		return "", stageDiscovery, ErrOffline
	}

	dctx, cancel := context.WithTimeout(ctx, e.timeout)
	models, err := e.backend.ListModels(dctx)
	cancel()
	if err != nil {
		return "", stageDiscovery, err
	}
	if len(models) == 0 {
		return "", stageDiscovery, gemini.ErrNoModels
	}

	names := make([]string, len(models))
	for i, m := range models {
		names[i] = m.ShortName()
	}
	e.dispatch(DiscoverySucceededEvent{Models: names})

	if e.isOffline() {
		return "", stageGeneration, ErrOffline
	}

	gctx, cancel := context.WithTimeout(ctx, e.timeout)
	answer, err := e.backend.GenerateContent(gctx, models[0].Name, question)
	cancel()
	if err != nil {
		return "", stageGeneration, err
	}
	return answer, stageGeneration, nil
}

// describe maps a failure to its user-facing message.
func (e *Engine) describe(kind ErrorKind, err error) string {
	switch kind {
	case KindEmptyModelList:
		return MsgNoModels
	case KindOffline:
		return MsgOffline
	case KindValidation:
		return MsgMissingAPIKey
	case KindTimeout:
		return "The request timed out."
	default:
		return fmt.Sprintf("Request failed: %v", err)
	}
}

// =============================================================================
// LANGUAGE & VOICE
// =============================================================================

// SetLanguage switches the session language. The voice controller is
// rebuilt so its recognizer locale and command keyword table follow the
// new code atomically with the state change.
func (e *Engine) SetLanguage(code string) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	old := e.vc
	e.mu.Unlock()

	language := lang.Resolve(code)

	if old != nil {
		if err := old.Close(); err != nil {
			return err
		}
	}
	vc, err := e.buildVoiceController(language)
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.vc = vc
	e.mu.Unlock()

	e.dispatch(LanguageChangedEvent{Language: language})
	e.dispatch(VoiceStatusEvent{Status: voice.StatusIdle, Feedback: ""})
	return nil
}

func (e *Engine) buildVoiceController(language lang.Language) (*voice.Controller, error) {
	return voice.NewController(voice.Config{
		Language: language,
		Factory:  e.voiceFactory,
		Notifier: e.notifier,
		OnQuestion: func(text string) {
			if err := e.Submit(text); err != nil {
				e.log.Debug().Err(err).Msg("voice submission rejected")
			}
		},
		OnCommand: e.ApplyCommand,
		OnStatus: func(status voice.Status, feedback string) {
			e.dispatch(VoiceStatusEvent{Status: status, Feedback: feedback})
		},
	})
}

// StartVoice begins a voice recognition session.
func (e *Engine) StartVoice() error {
	e.mu.Lock()
	vc := e.vc
	closed := e.closed
	e.mu.Unlock()
	if closed {
		return ErrClosed
	}
	return vc.Start()
}

// StopVoice cancels an in-flight voice recognition session.
func (e *Engine) StopVoice() error {
	e.mu.Lock()
	vc := e.vc
	e.mu.Unlock()
	if vc == nil {
		return nil
	}
	return vc.Stop()
}

// =============================================================================
// COMMANDS & CONVERSATION ACTIONS
// =============================================================================

// ApplyCommand executes an interpreted voice command against the session.
func (e *Engine) ApplyCommand(cmd intent.Command) {
	switch cmd.Intent {
	case intent.IntentSearch:
		e.dispatch(SearchEvent{Term: cmd.Term})
	case intent.IntentFilter:
		e.dispatch(ToggleFiltersEvent{})
	case intent.IntentExport:
		_, _ = e.Export()
	case intent.IntentClear:
		e.ClearConversations()
	case intent.IntentHelp:
		e.dispatch(ToggleHelpEvent{})
	}
}

// SetSearch sets the conversation search filter.
func (e *Engine) SetSearch(term string) {
	e.dispatch(SearchEvent{Term: term})
}

// SetDateFilter sets the conversation date filter (2006-01-02, empty to
// clear).
func (e *Engine) SetDateFilter(date string) {
	e.dispatch(DateFilterEvent{Date: date})
}

// Export writes the currently visible conversations to a JSON artifact
// and returns its path. The store is never modified; a serialization or
// write failure only surfaces a notification.
func (e *Engine) Export() (string, error) {
	records := e.State().FilteredConversations()

	path, err := store.WriteArtifact(e.exportDir, e.exportPrefix, e.exporter, records, time.Now())
	if err != nil {
		e.notifier.Error(fmt.Sprintf("Failed to export conversations: %v", err))
		e.log.Error().Err(err).Msg("export failed")
		return "", err
	}

	e.notifier.Success(fmt.Sprintf("Conversations exported to %s", path))
	return path, nil
}

// ClearConversations empties the store and the visible list.
func (e *Engine) ClearConversations() {
	n := e.store.Clear()
	e.dispatch(ClearEvent{})
	e.notifier.Info(fmt.Sprintf("Cleared %d conversations.", n))
}
