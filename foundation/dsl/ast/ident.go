// File: ident.go
// Title: Identifier Rules
// Description: Character classes of bare identifiers, shared by the parser
//              and by String when deciding whether a name needs quotes.
// Author: msto63
// Version: v0.1.1
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation
// - 2026-10-19 v0.1.1: Reject the replacement rune of invalid UTF-8

package ast

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// IDStopChars may never appear in a bare identifier.
const IDStopChars = "}]),./:?"

// IsBareIDRune reports whether r may appear in an unquoted identifier.
// utf8.RuneError is excluded so invalid UTF-8 never passes as a name.
func IsBareIDRune(r rune) bool {
	return r != utf8.RuneError && unicode.IsPrint(r) && !unicode.IsSpace(r) && !strings.ContainsRune(IDStopChars, r)
}

// QuoteID renders name bare when it would parse back as the same Id, and
// quoted otherwise.
func QuoteID(name string) string {
	if needsQuotes(name) {
		if strings.ContainsRune(name, '\'') {
			return `"` + name + `"`
		}
		return "'" + name + "'"
	}
	return name
}

func needsQuotes(name string) bool {
	if name == "" {
		return true
	}
	for _, r := range name {
		if !IsBareIDRune(r) {
			return true
		}
	}
	first := name[0]
	switch {
	case first == '\'' || first == '"':
		return true
	case first >= '0' && first <= '9':
		// would parse as a Loc
		return true
	case first == '-' && len(name) > 1 && name[1] >= '0' && name[1] <= '9':
		return true
	case strings.ContainsAny(name[:1], "[{(") || strings.HasPrefix(name, "d(") || strings.HasPrefix(name, "s("):
		// would start a structure
		return true
	}
	return false
}
