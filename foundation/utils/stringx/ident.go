// File: ident.go
// Title: Identifier Conversion
// Description: Converts free-form header names into identifiers usable as SQL
//              column names.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Case conversion helpers
// - 2026-10-19 v0.2.0: Reduced to snake case and identifiers

package stringx

import (
	"strconv"
	"strings"
	"unicode"
)

// ToSnakeCase converts a string to snake_case.
// Example: "MyVariableName" -> "my_variable_name", "first name" -> "first_name"
func ToSnakeCase(s string) string {
	var b strings.Builder
	var prev rune
	for i, r := range s {
		switch {
		case unicode.IsUpper(r):
			if i > 0 && !unicode.IsUpper(prev) && prev != '_' {
				b.WriteRune('_')
			}
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsSpace(r) || r == '-':
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
		prev = r
	}
	out := b.String()
	for strings.Contains(out, "__") {
		out = strings.ReplaceAll(out, "__", "_")
	}
	return out
}

// Identifier turns name into a lower case identifier made of letters, digits
// and underscores. Names that end up empty or start with a digit are replaced
// by or prefixed with "c" plus the 1-based position.
func Identifier(name string, position int) string {
	snake := ToSnakeCase(strings.TrimSpace(name))
	var b strings.Builder
	for _, r := range snake {
		if r == '_' || r < 128 && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
		}
	}
	id := strings.Trim(b.String(), "_")
	fallback := "c" + strconv.Itoa(position)
	switch {
	case id == "":
		return fallback
	case unicode.IsDigit(rune(id[0])):
		return fallback + "_" + id
	default:
		return id
	}
}
