// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package intent maps recognized voice transcripts to assistant commands.
package intent

import (
	"strings"
)

// =============================================================================
// INTENT TYPES
// =============================================================================

// Intent is a recognized voice-command category.
type Intent int

const (
	// IntentNone means no keyword matched; the transcript is silently
	// ignored, it is not an error.
	IntentNone Intent = iota
	IntentSearch
	IntentFilter
	IntentExport
	IntentClear
	IntentHelp
)

// String returns the intent name for logs.
func (i Intent) String() string {
	switch i {
	case IntentSearch:
		return "search"
	case IntentFilter:
		return "filter"
	case IntentExport:
		return "export"
	case IntentClear:
		return "clear"
	case IntentHelp:
		return "help"
	default:
		return "none"
	}
}

// Command is the result of interpreting a transcript.
type Command struct {
	Intent Intent

	// Term is the search term extracted after the matched keyword.
	// Only set for IntentSearch.
	Term string
}

// =============================================================================
// INTERPRETER
// =============================================================================

// Interpreter matches transcripts against one language's keyword table.
// Construct a new Interpreter whenever the session language changes so the
// table always corresponds to the selected language.
type Interpreter struct {
	code string
	kw   Keywords
}

// NewInterpreter creates an interpreter bound to a language code.
// Unsupported codes fall back to the English table.
func NewInterpreter(code string) *Interpreter {
	return &Interpreter{code: code, kw: TableFor(code)}
}

// LanguageCode returns the language code the keyword table is bound to.
func (it *Interpreter) LanguageCode() string {
	return it.code
}

// Interpret maps a transcript to a Command. Matching is case-insensitive
// substring containment, tested in fixed priority order: search, filter,
// export, clear, help. First match wins; no match yields IntentNone.
func (it *Interpreter) Interpret(transcript string) Command {
	lowered := strings.ToLower(strings.TrimSpace(transcript))
	if lowered == "" {
		return Command{Intent: IntentNone}
	}

	if kw, idx := matchFirst(lowered, it.kw.Search); idx >= 0 {
		term := strings.TrimSpace(lowered[idx+len(kw):])
		return Command{Intent: IntentSearch, Term: term}
	}
	if _, idx := matchFirst(lowered, it.kw.Filter); idx >= 0 {
		return Command{Intent: IntentFilter}
	}
	if _, idx := matchFirst(lowered, it.kw.Export); idx >= 0 {
		return Command{Intent: IntentExport}
	}
	if _, idx := matchFirst(lowered, it.kw.Clear); idx >= 0 {
		return Command{Intent: IntentClear}
	}
	if _, idx := matchFirst(lowered, it.kw.Help); idx >= 0 {
		return Command{Intent: IntentHelp}
	}

	return Command{Intent: IntentNone}
}

// IsCommand reports whether the transcript begins with one of the table's
// reserved command keywords. The voice controller uses this to decide
// whether a transcript is a command or plain question text.
func (it *Interpreter) IsCommand(transcript string) bool {
	lowered := strings.ToLower(strings.TrimSpace(transcript))
	if lowered == "" {
		return false
	}
	for _, group := range [][]string{it.kw.Search, it.kw.Filter, it.kw.Export, it.kw.Clear, it.kw.Help} {
		for _, kw := range group {
			if strings.HasPrefix(lowered, kw) {
				return true
			}
		}
	}
	return false
}

// matchFirst returns the first keyword (in table order) contained in the
// lowered transcript and its byte offset, or -1 when nothing matches.
// Table order matters: longer phrases like "search for" are listed before
// their prefixes so term extraction strips the whole phrase.
func matchFirst(lowered string, keywords []string) (string, int) {
	for _, kw := range keywords {
		if idx := strings.Index(lowered, kw); idx >= 0 {
			return kw, idx
		}
	}
	return "", -1
}
