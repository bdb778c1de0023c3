// File: tokens.go
// Title: Highlight Tokenizer
// Description: Splits a complete command into classified tokens for syntax
//              highlighting. Unlike the parsers the tokenizer never fails:
//              partial input typed at the prompt still yields tokens that
//              cover every byte of the command.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-25 v0.1.0: Initial lexer implementation
// - 2026-10-19 v0.2.0: Command level tokens for highlighting

package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// TokenType classifies a token for highlighting.
type TokenType int

const (
	TokenText TokenType = iota
	TokenWhitespace
	TokenSeparator
	TokenKeyword
	TokenFlag
	TokenBracket
	TokenPunct
	TokenNumber
	TokenString
	TokenDefault
	TokenArgs
)

var tokenNames = map[TokenType]string{
	TokenText:       "TEXT",
	TokenWhitespace: "WHITESPACE",
	TokenSeparator:  "SEPARATOR",
	TokenKeyword:    "KEYWORD",
	TokenFlag:       "FLAG",
	TokenBracket:    "BRACKET",
	TokenPunct:      "PUNCT",
	TokenNumber:     "NUMBER",
	TokenString:     "STRING",
	TokenDefault:    "DEFAULT",
	TokenArgs:       "ARGS",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// Token is a classified slice of a command.
type Token struct {
	Type  TokenType
	Value string
	Pos   int
}

// DefaultSeparator splits the expressions of a command unless the command
// starts with ":" followed by a custom separator.
const DefaultSeparator = ";"

// ExpressionKeys lists the letters that may start an expression.
const ExpressionKeys = "dhtsio"

// Tokenize splits a command into tokens. Concatenating the values of the
// result reproduces the input.
func Tokenize(command string) []Token {
	var tokens []Token
	emit := func(t TokenType, v string, pos int) {
		if v != "" {
			tokens = append(tokens, Token{Type: t, Value: v, Pos: pos})
		}
	}

	sep := DefaultSeparator
	offset := 0
	if strings.HasPrefix(command, ":") {
		emit(TokenPunct, ":", 0)
		offset = 1
		if _, size := utf8.DecodeRuneInString(command[1:]); size > 0 {
			sep = command[1 : 1+size]
			emit(TokenSeparator, sep, 1)
			offset += size
		}
	}

	rest := command[offset:]
	for {
		idx := strings.Index(rest, sep)
		expr := rest
		if idx >= 0 {
			expr = rest[:idx]
		}
		tokenizeExpression(expr, offset, emit)
		if idx < 0 {
			break
		}
		emit(TokenSeparator, sep, offset+idx)
		offset += idx + len(sep)
		rest = rest[idx+len(sep):]
	}
	return tokens
}

func tokenizeExpression(expr string, base int, emit func(TokenType, string, int)) {
	trimmed := strings.TrimLeftFunc(expr, unicode.IsSpace)
	lead := len(expr) - len(trimmed)
	emit(TokenWhitespace, expr[:lead], base)

	body := strings.TrimRightFunc(trimmed, unicode.IsSpace)
	trail := trimmed[len(body):]
	defer emit(TokenWhitespace, trail, base+lead+len(body))

	if body == "h" || body == "r" {
		emit(TokenFlag, body, base+lead)
		return
	}
	colon := strings.IndexByte(body, ':')
	if colon < 0 {
		emit(TokenText, body, base+lead)
		return
	}
	key := strings.TrimSpace(body[:colon])
	if len(key) != 1 || !strings.Contains(ExpressionKeys, key) {
		emit(TokenText, body, base+lead)
		return
	}
	emit(TokenKeyword, body[:colon+1], base+lead)
	tokenizeBody(body[colon+1:], base+lead+colon+1, emit)
}

func tokenizeBody(body string, base int, emit func(TokenType, string, int)) {
	s := newScanner(body)
	textStart := -1
	flushText := func() {
		if textStart >= 0 {
			emit(TokenText, body[textStart:s.pos], base+textStart)
			textStart = -1
		}
	}
	until := func(close rune) {
		s.advance()
		s.take(func(r rune) bool { return r != close })
		s.eat(string(close))
	}

	for !s.eof() {
		start := s.pos
		r := s.peek()
		switch {
		case unicode.IsSpace(r):
			flushText()
			s.take(unicode.IsSpace)
			emit(TokenWhitespace, body[start:s.pos], base+start)
		case r == '\'' || r == '"':
			flushText()
			until(r)
			emit(TokenString, body[start:s.pos], base+start)
		case r == '/':
			flushText()
			until('/')
			emit(TokenDefault, body[start:s.pos], base+start)
		case r == '`':
			flushText()
			until('`')
			emit(TokenArgs, body[start:s.pos], base+start)
		case textStart < 0 && (isDigit(r) || r == '-' && isDigit(rune(s.peekByte(1)))):
			s.eat("-")
			s.take(isDigit)
			emit(TokenNumber, body[start:s.pos], base+start)
		case textStart < 0 && (s.hasPrefix("d(") || s.hasPrefix("s(")):
			s.advance()
			s.advance()
			emit(TokenBracket, body[start:s.pos], base+start)
		case strings.ContainsRune("[]{}()", r):
			flushText()
			s.advance()
			emit(TokenBracket, body[start:s.pos], base+start)
		case strings.ContainsRune(",.:?", r):
			flushText()
			s.advance()
			emit(TokenPunct, body[start:s.pos], base+start)
		default:
			if textStart < 0 {
				textStart = start
			}
			s.advance()
		}
	}
	flushText()
}
