// File: scanner.go
// Title: Character Scanner
// Description: Cursor over an expression with the lookahead and whitespace
//              helpers the recursive descent parser is built on.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-25 v0.1.0: Initial lexer implementation
// - 2026-10-19 v0.2.0: Rune cursor with save and restore for ordered choice

package parser

import (
	"strings"
	"unicode/utf8"
)

type scanner struct {
	input string
	pos   int
	// furthest position any alternative reached, for error reporting
	far int
}

func newScanner(input string) *scanner {
	return &scanner{input: input}
}

func (s *scanner) eof() bool {
	return s.pos >= len(s.input)
}

func (s *scanner) peek() rune {
	if s.eof() {
		return utf8.RuneError
	}
	r, _ := utf8.DecodeRuneInString(s.input[s.pos:])
	return r
}

func (s *scanner) peekByte(offset int) byte {
	if s.pos+offset >= len(s.input) {
		return 0
	}
	return s.input[s.pos+offset]
}

func (s *scanner) advance() rune {
	r, size := utf8.DecodeRuneInString(s.input[s.pos:])
	s.pos += size
	s.touch()
	return r
}

func (s *scanner) touch() {
	if s.pos > s.far {
		s.far = s.pos
	}
}

// eat consumes lit if the input continues with it.
func (s *scanner) eat(lit string) bool {
	if strings.HasPrefix(s.input[s.pos:], lit) {
		s.pos += len(lit)
		s.touch()
		return true
	}
	return false
}

func (s *scanner) hasPrefix(lit string) bool {
	return strings.HasPrefix(s.input[s.pos:], lit)
}

func (s *scanner) skipWhitespace() {
	for !s.eof() {
		switch s.input[s.pos] {
		case ' ', '\t', '\n', '\r':
			s.pos++
		default:
			return
		}
	}
}

// take consumes the longest run of runes accepted by ok.
func (s *scanner) take(ok func(rune) bool) string {
	start := s.pos
	for !s.eof() {
		r, size := utf8.DecodeRuneInString(s.input[s.pos:])
		if !ok(r) {
			break
		}
		s.pos += size
	}
	s.touch()
	return s.input[start:s.pos]
}

func (s *scanner) mark() int { return s.pos }

func (s *scanner) reset(pos int) { s.pos = pos }

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isAlnum(r rune) bool {
	return r < utf8.RuneSelf && (isDigit(r) || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z')
}
