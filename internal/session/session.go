// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nearbuy/assistant/internal/engine"
	"github.com/nearbuy/assistant/internal/intent"
	"github.com/nearbuy/assistant/internal/lang"
	"github.com/nearbuy/assistant/internal/voice"
)

// helpCommand toggles the help panel through the same path a voice
// "help" command takes.
var helpCommand = intent.Command{Intent: intent.IntentHelp}

// =============================================================================
// MESSAGES
// =============================================================================

// StateMsg carries an engine snapshot into the Bubble Tea loop. The
// engine pushes snapshots from its own goroutines; the session model only
// ever renders the most recent one.
type StateMsg engine.State

// =============================================================================
// SESSION MODEL
// =============================================================================

// Model is the interactive session: a thin Bubble Tea adapter over the
// engine. All logic lives in the engine; the model translates key events
// into engine calls and renders the latest snapshot.
type Model struct {
	eng    *engine.Engine
	states chan engine.State

	state    engine.State
	input    string
	quitting bool
	width    int
}

// New builds a session model bound to an engine.
func New(eng *engine.Engine) *Model {
	m := &Model{
		eng:    eng,
		states: make(chan engine.State, 32),
		state:  eng.State(),
	}
	eng.Subscribe(func(s engine.State) {
		// Drop intermediate snapshots rather than block the engine.
		select {
		case m.states <- s:
		default:
		}
	})
	return m
}

// waitForState resumes when the engine publishes a new snapshot.
func (m *Model) waitForState() tea.Cmd {
	return func() tea.Msg {
		return StateMsg(<-m.states)
	}
}

// Init starts listening for engine snapshots.
func (m *Model) Init() tea.Cmd {
	return m.waitForState()
}

// Update handles key events and engine snapshots.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case StateMsg:
		m.state = engine.State(msg)
		return m, m.waitForState()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {

	case tea.KeyCtrlC, tea.KeyEsc:
		m.quitting = true
		_ = m.eng.Close()
		return m, tea.Quit

	case tea.KeyEnter:
		text := strings.TrimSpace(m.input)
		m.input = ""
		if text != "" {
			_ = m.eng.Submit(text)
		}
		return m, nil

	case tea.KeyBackspace:
		if len(m.input) > 0 {
			runes := []rune(m.input)
			m.input = string(runes[:len(runes)-1])
		}
		return m, nil

	case tea.KeyCtrlV:
		_ = m.eng.StartVoice()
		return m, nil

	case tea.KeyCtrlE:
		_, _ = m.eng.Export()
		return m, nil

	case tea.KeyCtrlL:
		m.cycleLanguage()
		return m, nil

	case tea.KeyCtrlH:
		m.eng.ApplyCommand(helpCommand)
		return m, nil

	case tea.KeySpace:
		m.input += " "
		return m, nil

	case tea.KeyRunes:
		m.input += string(msg.Runes)
		return m, nil
	}

	return m, nil
}

// cycleLanguage steps to the next supported language.
func (m *Model) cycleLanguage() {
	langs := lang.Supported()
	current := m.state.Language.Code
	for i, l := range langs {
		if l.Code == current {
			next := langs[(i+1)%len(langs)]
			_ = m.eng.SetLanguage(next.Code)
			return
		}
	}
	_ = m.eng.SetLanguage(lang.DefaultCode)
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the latest snapshot as plain text.
func (m *Model) View() string {
	if m.quitting {
		return "Goodbye.\n"
	}

	var b strings.Builder
	s := m.state

	fmt.Fprintf(&b, "Assistant [%s]", s.Language.Name)
	if s.Offline {
		b.WriteString("  (offline)")
	}
	b.WriteString("\n\n")

	if s.ShowHelp {
		b.WriteString(helpText)
		b.WriteString("\n")
	}

	for _, rec := range s.FilteredConversations() {
		fmt.Fprintf(&b, "You: %s\n", rec.Question)
		fmt.Fprintf(&b, "Assistant: %s\n\n", rec.Response)
	}

	switch s.Phase {
	case engine.PhaseLoading:
		if s.RetryCount > 0 {
			fmt.Fprintf(&b, "Thinking... (retry %d)\n", s.RetryCount)
		} else {
			b.WriteString("Thinking...\n")
		}
	case engine.PhaseError:
		fmt.Fprintf(&b, "Error: %s\n", s.ErrorMessage)
	}

	if s.VoiceStatus == voice.StatusListening {
		fmt.Fprintf(&b, "%s\n", s.VoiceFeedback)
	}

	if s.SearchText != "" || s.DateFilter != "" {
		fmt.Fprintf(&b, "[filter: %s %s]\n", s.SearchText, s.DateFilter)
	}

	fmt.Fprintf(&b, "\n> %s", m.input)
	return b.String()
}

const helpText = `Keys:
  enter    send question
  ctrl+v   voice input
  ctrl+l   switch language
  ctrl+e   export conversations
  ctrl+h   toggle this help
  esc      quit
`

// =============================================================================
// PROGRAM
// =============================================================================

// Run drives the interactive session until the user quits.
func Run(eng *engine.Engine) error {
	p := tea.NewProgram(New(eng))
	_, err := p.Run()
	return err
}
