// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package validate

import (
	"strings"
	"testing"
)

func TestQuestion(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		valid  bool
		reason string
	}{
		{"empty", "", false, ReasonEmpty},
		{"whitespace only", "   \t\n", false, ReasonEmpty},
		{"single char", "a", false, ReasonTooShort},
		{"single char padded", "  a  ", false, ReasonTooShort},
		{"minimum length", "ab", true, ""},
		{"normal question", "what deals are on today?", true, ""},
		{"maximum length", strings.Repeat("x", 500), true, ""},
		{"over maximum", strings.Repeat("x", 501), false, ReasonTooLong},
		{"padding does not count", " " + strings.Repeat("x", 500) + " ", true, ""},
		{"multibyte counted as runes", strings.Repeat("é", 500), true, ""},
		{"multibyte over maximum", strings.Repeat("é", 501), false, ReasonTooLong},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Question(tc.input)
			if got.Valid != tc.valid {
				t.Errorf("Question(%.20q).Valid = %v, want %v", tc.input, got.Valid, tc.valid)
			}
			if got.Reason != tc.reason {
				t.Errorf("Question(%.20q).Reason = %q, want %q", tc.input, got.Reason, tc.reason)
			}
		})
	}
}
