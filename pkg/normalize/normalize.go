// Copyright (c) 2026 FillyTrackr. All rights reserved.

// Package normalize provides canonical string forms for case-insensitive
// comparison of catalog names.
//
// # Why casefolding
//
// Brand and color names come from free-form user input ("PLA", "pla",
// "Bambu", "BAMBU" are the same entry). Unicode casefolding via x/text
// handles characters that simple ToLower gets wrong (e.g. 'İ', 'ß').
package normalize

import (
	"strings"

	"golang.org/x/text/cases"
)

// Name returns the canonical comparison form of a catalog entity name:
// trimmed of surrounding whitespace and Unicode-casefolded.
//
// A fresh Caser per call: cases.Caser carries internal state and is not
// safe for concurrent use.
func Name(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// Equal reports whether two names are the same after normalization.
func Equal(a, b string) bool {
	return Name(a) == Name(b)
}
