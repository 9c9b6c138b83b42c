// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package voice

// Handlers carries the event callbacks a recognizer fires. A recognizer
// must invoke at most one of OnResult/OnError per Start, then go quiet
// until started again.
type Handlers struct {
	// OnResult delivers a recognized transcript.
	OnResult func(transcript string)

	// OnError delivers a recognition failure.
	OnError func(err error)
}

// Recognizer is the capability interface over the platform's speech
// recognition. The locale is fixed at construction; switching language
// means constructing a new recognizer through the factory.
type Recognizer interface {
	// Start begins a recognition session. Results and errors arrive via
	// the Handlers given to the factory.
	Start() error

	// Stop cancels any in-flight recognition. Stopping must prevent
	// further callbacks from firing.
	Stop() error

	// Locale returns the BCP-47 locale the recognizer was built with.
	Locale() string
}

// RecognizerFactory constructs a recognizer bound to a locale. The host
// supplies this; tests supply fakes.
type RecognizerFactory func(locale string, handlers Handlers) (Recognizer, error)

// =============================================================================
// NOOP RECOGNIZER
// =============================================================================

// NoopRecognizer is a recognizer that never hears anything. Hosts without
// a speech capability (headless CLI runs) use it so the rest of the engine
// is unaffected.
type NoopRecognizer struct {
	locale string
}

// NoopFactory builds NoopRecognizers.
func NoopFactory(locale string, _ Handlers) (Recognizer, error) {
	return &NoopRecognizer{locale: locale}, nil
}

func (n *NoopRecognizer) Start() error   { return nil }
func (n *NoopRecognizer) Stop() error    { return nil }
func (n *NoopRecognizer) Locale() string { return n.locale }
