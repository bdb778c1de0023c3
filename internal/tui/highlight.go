package tui

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"

	"github.com/msto63/textomat/foundation/dsl/parser"
)

// highlightCommand renders a command with its tokens colored
func highlightCommand(cmd string) string {
	var b strings.Builder
	for _, tok := range parser.Tokenize(cmd) {
		if style, ok := tokenStyles[tok.Type]; ok {
			b.WriteString(paint(style, tok.Value))
		} else {
			b.WriteString(tok.Value)
		}
	}
	return b.String()
}

// highlightable lists the syntaxes highlightOutput colors
var highlightable = map[string]bool{
	"json":    true,
	"literal": true,
	"yaml":    true,
	"csv":     true,
}

var keywords = map[string]bool{
	"true": true, "false": true, "null": true,
	"True": true, "False": true, "None": true,
}

// highlightOutput colors strings, numbers, keywords and punctuation of text
// written in syntax. Text longer than threshold is returned unchanged.
func highlightOutput(text, syntax string, threshold int) string {
	if !highlightable[syntax] || threshold > 0 && len(text) > threshold {
		return text
	}

	runes := []rune(text)
	var b strings.Builder
	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case r == '"' || r == '\'' && syntax == "literal":
			j := closingQuote(runes, i)
			b.WriteString(paint(stringStyle, string(runes[i:j])))
			i = j
		case unicode.IsDigit(r) || r == '-' && i+1 < len(runes) && unicode.IsDigit(runes[i+1]):
			j := i + 1
			for j < len(runes) && strings.ContainsRune("0123456789.eE+-", runes[j]) {
				j++
			}
			b.WriteString(paint(numberStyle, string(runes[i:j])))
			i = j
		case unicode.IsLetter(r) || r == '_':
			j := i + 1
			for j < len(runes) && (unicode.IsLetter(runes[j]) || unicode.IsDigit(runes[j]) || runes[j] == '_') {
				j++
			}
			word := string(runes[i:j])
			if keywords[word] {
				word = paint(keywordStyle, word)
			}
			b.WriteString(word)
			i = j
		case strings.ContainsRune("[]{}(),:", r):
			b.WriteString(paint(punctStyle, string(r)))
			i++
		default:
			b.WriteRune(r)
			i++
		}
	}
	return b.String()
}

// closingQuote returns the index after the quote closing the string that
// starts at i, or len(runes) if it is unterminated.
func closingQuote(runes []rune, i int) int {
	q := runes[i]
	for j := i + 1; j < len(runes); j++ {
		switch runes[j] {
		case '\\':
			j++
		case q:
			return j + 1
		}
	}
	return len(runes)
}

// paint styles s line by line so multi-line text keeps its layout
func paint(style lipgloss.Style, s string) string {
	if !strings.Contains(s, "\n") {
		return style.Render(s)
	}
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = style.Render(l)
		}
	}
	return strings.Join(lines, "\n")
}
