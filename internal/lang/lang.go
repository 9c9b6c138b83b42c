// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package lang holds the fixed table of languages the assistant supports.
package lang

import (
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// DefaultCode is the language used when none is selected or a requested
// code is not supported.
const DefaultCode = "en"

// =============================================================================
// LANGUAGE TYPE
// =============================================================================

// Language describes one supported assistant language.
type Language struct {
	// Code is the short identifier used throughout the engine (e.g. "af").
	Code string

	// Locale is the BCP-47 tag handed to the speech recognizer. The
	// recognizer's locale is fixed at construction, so changing language
	// means constructing a new recognizer with this value.
	Locale string

	// Name is the English display name, used in export artifacts.
	Name string

	// Listening is the locale-appropriate feedback string shown while the
	// recognizer is active.
	Listening string
}

// supported is the fixed language set, default first.
var supported = []Language{
	{Code: "en", Locale: "en-ZA", Name: "English", Listening: "Listening..."},
	{Code: "af", Locale: "af-ZA", Name: "Afrikaans", Listening: "Luister..."},
	{Code: "zu", Locale: "zu-ZA", Name: "Zulu", Listening: "Ngilalele..."},
	{Code: "xh", Locale: "xh-ZA", Name: "Xhosa", Listening: "Ndimamele..."},
	{Code: "nso", Locale: "nso-ZA", Name: "Northern Sotho", Listening: "Ke theeleditse..."},
	{Code: "st", Locale: "st-ZA", Name: "Southern Sotho", Listening: "Ke mametse..."},
	{Code: "tn", Locale: "tn-ZA", Name: "Tswana", Listening: "Ke reeditse..."},
	{Code: "ts", Locale: "ts-ZA", Name: "Tsonga", Listening: "Ndza yingisela..."},
	{Code: "ss", Locale: "ss-ZA", Name: "Swati", Listening: "Ngilalele..."},
	{Code: "ve", Locale: "ve-ZA", Name: "Venda", Listening: "Ndi khou thetshelesa..."},
}

// index by code for O(1) lookup.
var byCode = func() map[string]Language {
	m := make(map[string]Language, len(supported))
	for _, l := range supported {
		m[l.Code] = l
	}
	return m
}()

// matcher resolves arbitrary BCP-47 input to the closest supported language.
var matcher = func() language.Matcher {
	tags := make([]language.Tag, len(supported))
	for i, l := range supported {
		tags[i] = language.Make(l.Locale)
	}
	return language.NewMatcher(tags)
}()

// =============================================================================
// LOOKUP
// =============================================================================

// Default returns the default language (English).
func Default() Language {
	return supported[0]
}

// Supported returns the full supported language list, default first.
// The returned slice is a copy.
func Supported() []Language {
	out := make([]Language, len(supported))
	copy(out, supported)
	return out
}

// Lookup returns the language for an exact code match.
func Lookup(code string) (Language, bool) {
	l, ok := byCode[code]
	return l, ok
}

// Resolve maps an arbitrary language code or BCP-47 tag to the closest
// supported language, falling back to the default. "af-NA" resolves to
// Afrikaans; "de" falls back to English.
func Resolve(code string) Language {
	if l, ok := byCode[code]; ok {
		return l
	}
	tag := language.Make(code)
	if tag == language.Und {
		return Default()
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return Default()
	}
	return supported[idx]
}

// DisplayName returns the English display name for a language code.
// Unknown codes resolve to the default language's name.
func DisplayName(code string) string {
	return Resolve(code).Name
}

// NativeName returns the language's name in the language itself, falling
// back to the English name when CLDR has no self-name for the tag.
func NativeName(code string) string {
	l := Resolve(code)
	tag := language.Make(l.Locale)
	if name := display.Self.Name(tag); name != "" {
		return name
	}
	return l.Name
}

// Tag returns the parsed BCP-47 tag for the language's locale.
func (l Language) Tag() language.Tag {
	return language.Make(l.Locale)
}
