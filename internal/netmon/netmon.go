// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package netmon tracks connectivity for the assistant engine.
package netmon

import (
	"context"
	"net"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/nearbuy/assistant/internal/notify"
)

// Notification messages, one per transition direction.
const (
	MsgWentOffline = "Connection lost. You appear to be offline."
	MsgBackOnline  = "Connection restored. You are back online."
)

// Probe checks whether the network is reachable. It must return nil when
// online and an error when offline.
type Probe func(ctx context.Context) error

// probeTimeout bounds each active probe so a hanging connect cannot
// stall the watch loop for the OS connect timeout.
const probeTimeout = 5 * time.Second

// DefaultProbe dials a well-known resolver address. It is intentionally
// cheap: a TCP connect, no payload.
func DefaultProbe(ctx context.Context) error {
	d := net.Dialer{}
	conn, err := d.DialContext(ctx, "tcp", "1.1.1.1:443")
	if err != nil {
		return err
	}
	return conn.Close()
}

// =============================================================================
// MONITOR
// =============================================================================

// Monitor maintains the session's offline flag. Hosts with a platform
// connectivity signal push transitions through SetOnline/SetOffline;
// headless hosts can run Watch, which drives the flag from rate-limited
// active probes. Each transition emits a one-shot notification, distinct
// per direction.
type Monitor struct {
	mu       sync.RWMutex
	offline  bool
	notifier notify.Notifier
	onChange []func(offline bool)

	probe   Probe
	limiter *rate.Limiter
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithProbe replaces the active connectivity probe.
func WithProbe(p Probe) Option {
	return func(m *Monitor) { m.probe = p }
}

// WithProbeLimit caps how often active probes may run. Defaults to one
// probe per 10 seconds with a burst of 1.
func WithProbeLimit(l *rate.Limiter) Option {
	return func(m *Monitor) { m.limiter = l }
}

// New creates a monitor initialized from the given connectivity state.
func New(initialOffline bool, notifier notify.Notifier, opts ...Option) *Monitor {
	if notifier == nil {
		notifier = notify.Discard
	}
	m := &Monitor{
		offline:  initialOffline,
		notifier: notifier,
		probe:    DefaultProbe,
		limiter:  rate.NewLimiter(rate.Every(10*time.Second), 1),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// IsOffline reports the current connectivity flag. The orchestrator reads
// this immediately before issuing any network call and refuses to proceed
// when offline.
func (m *Monitor) IsOffline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.offline
}

// OnChange registers a callback invoked on every transition. Callbacks run
// synchronously on the goroutine that reported the transition.
func (m *Monitor) OnChange(fn func(offline bool)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = append(m.onChange, fn)
}

// SetOffline records a "went offline" transition from the platform signal.
func (m *Monitor) SetOffline() {
	m.transition(true)
}

// SetOnline records a "came back online" transition from the platform signal.
func (m *Monitor) SetOnline() {
	m.transition(false)
}

// transition updates the flag and fires notifications exactly once per
// direction change. Repeated reports of the same state are ignored.
func (m *Monitor) transition(offline bool) {
	m.mu.Lock()
	if m.offline == offline {
		m.mu.Unlock()
		return
	}
	m.offline = offline
	callbacks := make([]func(bool), len(m.onChange))
	copy(callbacks, m.onChange)
	m.mu.Unlock()

	if offline {
		m.notifier.Error(MsgWentOffline)
	} else {
		m.notifier.Success(MsgBackOnline)
	}
	for _, fn := range callbacks {
		fn(offline)
	}
}

// =============================================================================
// ACTIVE PROBING
// =============================================================================

// CheckNow runs one active probe, subject to the rate limit, and updates
// the flag from the result. Returns the post-check offline state. When the
// limiter denies the probe, the current flag is returned unchanged.
func (m *Monitor) CheckNow(ctx context.Context) bool {
	if !m.limiter.Allow() {
		return m.IsOffline()
	}
	pctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	if err := m.probe(pctx); err != nil {
		m.transition(true)
	} else {
		m.transition(false)
	}
	return m.IsOffline()
}

// Watch probes on the given interval until the context is cancelled.
// Intended for headless hosts without a platform connectivity signal.
func (m *Monitor) Watch(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.CheckNow(ctx)
		}
	}
}
