// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package intent

import "github.com/nearbuy/assistant/internal/lang"

// Keywords is one language's command vocabulary. Within each intent the
// keywords are ordered longest-phrase first so that term extraction strips
// complete phrases ("search for jazz" yields "jazz", not "for jazz").
type Keywords struct {
	Search []string
	Filter []string
	Export []string
	Clear  []string
	Help   []string
}

// tables holds the per-language command vocabulary, keyed by language code.
// Immutable after init; interpreters copy nothing and must not mutate.
var tables = map[string]Keywords{
	"en": {
		Search: []string{"search for", "search", "look for", "find"},
		Filter: []string{"filter"},
		Export: []string{"export", "download"},
		Clear:  []string{"clear", "delete all"},
		Help:   []string{"help"},
	},
	"af": {
		Search: []string{"soek vir", "soek", "vind"},
		Filter: []string{"filtreer", "filter"},
		Export: []string{"voer uit", "uitvoer", "aflaai"},
		Clear:  []string{"maak skoon", "vee uit"},
		Help:   []string{"hulp", "help"},
	},
	"zu": {
		Search: []string{"sesha", "funa"},
		Filter: []string{"hlunga"},
		Export: []string{"thumela", "landa"},
		Clear:  []string{"sula"},
		Help:   []string{"usizo", "siza"},
	},
	"xh": {
		Search: []string{"khangela", "funa"},
		Filter: []string{"hluza"},
		Export: []string{"thumela", "khuphela"},
		Clear:  []string{"cima", "sula"},
		Help:   []string{"uncedo", "nceda"},
	},
	"nso": {
		Search: []string{"nyaka", "hwetsa"},
		Filter: []string{"sefa"},
		Export: []string{"romela", "laolla"},
		Clear:  []string{"phumola"},
		Help:   []string{"thuso"},
	},
	"st": {
		Search: []string{"batla", "fumana"},
		Filter: []string{"sefa"},
		Export: []string{"romela", "jarolla"},
		Clear:  []string{"hlakola"},
		Help:   []string{"thuso"},
	},
	"tn": {
		Search: []string{"batla", "senka"},
		Filter: []string{"sefa"},
		Export: []string{"romela"},
		Clear:  []string{"phimola"},
		Help:   []string{"thuso"},
	},
	"ts": {
		Search: []string{"lava", "kuma"},
		Filter: []string{"hlela"},
		Export: []string{"rhumela"},
		Clear:  []string{"sula"},
		Help:   []string{"mpfuno", "pfuna"},
	},
	"ss": {
		Search: []string{"funa", "sesha"},
		Filter: []string{"hlunga"},
		Export: []string{"tfumela"},
		Clear:  []string{"sula"},
		Help:   []string{"lusito", "sita"},
	},
	"ve": {
		Search: []string{"toda", "wana"},
		Filter: []string{"khetha"},
		Export: []string{"rumela"},
		Clear:  []string{"phumula"},
		Help:   []string{"thuso"},
	},
}

// TableFor returns the keyword table for a language code, falling back to
// English for unsupported codes.
func TableFor(code string) Keywords {
	if kw, ok := tables[code]; ok {
		return kw
	}
	return tables[lang.DefaultCode]
}

// HasTable reports whether a language code has its own keyword table.
func HasTable(code string) bool {
	_, ok := tables[code]
	return ok
}
