// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package intent

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nearbuy/assistant/internal/lang"
)

func TestIsCommand(t *testing.T) {
	it := NewInterpreter("en")

	assert.True(t, it.IsCommand("search for jazz festival"))
	assert.True(t, it.IsCommand("  Export everything  "))
	assert.True(t, it.IsCommand("help"))

	assert.False(t, it.IsCommand("what time does the market open"))
	assert.False(t, it.IsCommand(""))
	// Keyword mid-sentence is a question, not a command.
	assert.False(t, it.IsCommand("can you search for me"))
}

func TestIsCommandFollowsLanguageTable(t *testing.T) {
	af := NewInterpreter("af")

	assert.True(t, af.IsCommand("soek vir jazz fees"))
	assert.False(t, af.IsCommand("wat is die tyd"))
}

// Phrase keywords must precede their own prefixes so term extraction
// strips the whole phrase ("search for jazz" must not yield "for jazz").
func TestKeywordPhrasesOrderedLongestFirst(t *testing.T) {
	for _, l := range lang.Supported() {
		kw := TableFor(l.Code)
		groups := map[string][]string{
			"search": kw.Search,
			"filter": kw.Filter,
			"export": kw.Export,
			"clear":  kw.Clear,
			"help":   kw.Help,
		}
		for name, group := range groups {
			for i, earlier := range group {
				for _, later := range group[i+1:] {
					require.False(t, strings.HasPrefix(later, earlier+" "),
						"lang %s %s: phrase %q listed after its prefix %q",
						l.Code, name, later, earlier)
				}
			}
		}
	}
}

func TestKeywordsAreLowercase(t *testing.T) {
	for _, l := range lang.Supported() {
		kw := TableFor(l.Code)
		for _, group := range [][]string{kw.Search, kw.Filter, kw.Export, kw.Clear, kw.Help} {
			for _, k := range group {
				assert.Equal(t, strings.ToLower(k), k,
					"lang %s: keyword %q is not lowercase", l.Code, k)
			}
		}
	}
}
