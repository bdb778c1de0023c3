// File: literal.go
// Title: Literal Evaluation
// Description: Evaluates literal text such as 1, 2.5, 'text', True, None,
//              [1, 2], (1, 2), {1, 2} or {'k': 'v'} into values. Used for
//              defaults in the command language and for the l column type.
//              Strings accept the backslash escapes of the output syntax,
//              adjacent strings are joined, and a top level "1, 2" is a
//              tuple. Bare words other than True, False and None are
//              rejected.
// Author: msto63
// Version: v0.2.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation
// - 2026-10-19 v0.2.0: Own recursive descent reader with tuples and escapes

package literal

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	mdwerror "github.com/msto63/textomat/foundation/core/error"
	"github.com/msto63/textomat/foundation/dsl/value"
)

// Eval evaluates text as a literal. Failures carry CodeInvalidLiteral.
func Eval(text string) (any, error) {
	r := &reader{src: text}
	r.skipSpace()
	if r.eof() {
		return nil, invalid(text, "empty literal")
	}
	v, err := r.value()
	if err == nil && r.peek() == ',' {
		var items []any
		if items, err = r.items([]any{v}, 0); err == nil {
			v = value.Tuple(items)
		}
	}
	if err == nil {
		r.skipSpace()
		if !r.eof() {
			err = fmt.Errorf("unexpected %q at offset %d", r.rest(), r.pos)
		}
	}
	if err != nil {
		return nil, invalid(text, err.Error())
	}
	return v, nil
}

func invalid(text, reason string) error {
	return mdwerror.New(fmt.Sprintf("invalid literal %q: %s", text, reason)).
		WithCode(mdwerror.CodeInvalidLiteral).
		WithDetail("literal", text)
}

type reader struct {
	src string
	pos int
}

func (r *reader) eof() bool { return r.pos >= len(r.src) }

func (r *reader) rest() string {
	rest := r.src[r.pos:]
	if len(rest) > 10 {
		rest = rest[:10] + "..."
	}
	return rest
}

// peek returns the next byte after whitespace, or 0 at the end.
func (r *reader) peek() byte {
	r.skipSpace()
	if r.eof() {
		return 0
	}
	return r.src[r.pos]
}

func (r *reader) skipSpace() {
	for !r.eof() {
		c, size := utf8.DecodeRuneInString(r.src[r.pos:])
		if !unicode.IsSpace(c) {
			return
		}
		r.pos += size
	}
}

func (r *reader) expect(c byte) error {
	if r.peek() != c {
		if r.eof() {
			return fmt.Errorf("missing %q", c)
		}
		return fmt.Errorf("expected %q at offset %d", c, r.pos)
	}
	r.pos++
	return nil
}

func (r *reader) value() (any, error) {
	switch c := r.peek(); {
	case c == 0:
		return nil, errors.New("unexpected end")
	case c == '[':
		r.pos++
		return r.list()
	case c == '(':
		r.pos++
		return r.paren()
	case c == '{':
		r.pos++
		return r.braces()
	case c == '\'' || c == '"':
		return r.text()
	case c == '-' || c == '+' || c == '.' || isDigit(c):
		return r.number()
	default:
		return r.name()
	}
}

// items reads ", value" pairs after the first item up to close. A
// trailing comma is allowed. A zero close ends at the end of the text.
func (r *reader) items(seq []any, close byte) ([]any, error) {
	for r.peek() == ',' {
		r.pos++
		if r.peek() == close {
			break
		}
		v, err := r.value()
		if err != nil {
			return nil, err
		}
		seq = append(seq, v)
	}
	if close == 0 {
		return seq, nil
	}
	if err := r.expect(close); err != nil {
		return nil, err
	}
	return seq, nil
}

func (r *reader) list() (any, error) {
	if r.peek() == ']' {
		r.pos++
		return []any{}, nil
	}
	v, err := r.value()
	if err != nil {
		return nil, err
	}
	return r.items([]any{v}, ']')
}

// paren reads a tuple or a parenthesized value: (), (1,), (1, 2) and (1).
func (r *reader) paren() (any, error) {
	if r.peek() == ')' {
		r.pos++
		return value.Tuple{}, nil
	}
	v, err := r.value()
	if err != nil {
		return nil, err
	}
	if r.peek() != ',' {
		if err := r.expect(')'); err != nil {
			return nil, err
		}
		return v, nil
	}
	items, err := r.items([]any{v}, ')')
	if err != nil {
		return nil, err
	}
	return value.Tuple(items), nil
}

// braces reads a dict, or a set when the first entry has no value. {} is
// an empty dict.
func (r *reader) braces() (any, error) {
	if r.peek() == '}' {
		r.pos++
		return value.NewDict(), nil
	}
	first, err := r.value()
	if err != nil {
		return nil, err
	}

	if r.peek() != ':' {
		set := value.NewSet(first)
		for r.peek() == ',' {
			r.pos++
			if r.peek() == '}' {
				break
			}
			v, err := r.value()
			if err != nil {
				return nil, err
			}
			set.Add(v)
		}
		if err := r.expect('}'); err != nil {
			return nil, err
		}
		return set, nil
	}

	d := value.NewDict()
	key := first
	for {
		if err := r.expect(':'); err != nil {
			return nil, err
		}
		v, err := r.value()
		if err != nil {
			return nil, err
		}
		d.Set(value.ToText(key), v)

		if r.peek() != ',' {
			break
		}
		r.pos++
		if r.peek() == '}' {
			break
		}
		if key, err = r.value(); err != nil {
			return nil, err
		}
	}
	if err := r.expect('}'); err != nil {
		return nil, err
	}
	return d, nil
}

// text reads one or more adjacent string literals and joins them.
func (r *reader) text() (any, error) {
	var b strings.Builder
	for {
		if err := r.quoted(&b); err != nil {
			return nil, err
		}
		if c := r.peek(); c != '\'' && c != '"' {
			return b.String(), nil
		}
	}
}

func (r *reader) quoted(b *strings.Builder) error {
	q := r.src[r.pos]
	start := r.pos
	r.pos++
	for !r.eof() {
		c := r.src[r.pos]
		switch {
		case c == q:
			r.pos++
			return nil
		case c == '\n':
			return fmt.Errorf("line break in string at offset %d", r.pos)
		case c == '\\':
			if err := r.escape(b); err != nil {
				return err
			}
		default:
			ch, size := utf8.DecodeRuneInString(r.src[r.pos:])
			b.WriteRune(ch)
			r.pos += size
		}
	}
	return fmt.Errorf("unterminated string at offset %d", start)
}

var simpleEscapes = map[byte]string{
	'\\': "\\", '\'': "'", '"': "\"", '\n': "",
	'a': "\a", 'b': "\b", 'f': "\f", 'n': "\n", 'r': "\r", 't': "\t", 'v': "\v",
}

// escape decodes the escape sequence at the current backslash. Unknown
// escapes are kept as written.
func (r *reader) escape(b *strings.Builder) error {
	at := r.pos
	r.pos++
	if r.eof() {
		return fmt.Errorf("unterminated string at offset %d", at)
	}
	c := r.src[r.pos]
	if s, ok := simpleEscapes[c]; ok {
		b.WriteString(s)
		r.pos++
		return nil
	}

	var digits, base int
	switch {
	case c >= '0' && c <= '7':
		digits, base = 3, 8
	case c == 'x':
		digits, base = 2, 16
	case c == 'u':
		digits, base = 4, 16
	case c == 'U':
		digits, base = 8, 16
	default:
		b.WriteByte('\\')
		return nil
	}
	if base == 16 {
		r.pos++
	}

	end := r.pos
	for end < len(r.src) && end-r.pos < digits && isBaseDigit(r.src[end], base) {
		end++
	}
	if base == 16 && end-r.pos != digits {
		return fmt.Errorf("truncated \\%c escape at offset %d", c, at)
	}
	n, err := strconv.ParseUint(r.src[r.pos:end], base, 32)
	if err != nil || n > unicode.MaxRune {
		return fmt.Errorf("invalid escape at offset %d", at)
	}
	b.WriteRune(rune(n))
	r.pos = end
	return nil
}

func isBaseDigit(c byte, base int) bool {
	if base == 8 {
		return c >= '0' && c <= '7'
	}
	return isDigit(c) || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func (r *reader) number() (any, error) {
	start := r.pos
	sign := ""
	if c := r.src[r.pos]; c == '-' || c == '+' {
		sign = string(c)
		r.pos++
		r.skipSpace()
	}

	body := r.pos
	for !r.eof() {
		c := r.src[r.pos]
		prev := byte(0)
		if r.pos > body {
			prev = r.src[r.pos-1]
		}
		exponentSign := (c == '-' || c == '+') && (prev == 'e' || prev == 'E') && !isPrefixed(r.src[body:r.pos])
		if !(isDigit(c) || c == '.' || c == '_' || exponentSign || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z') {
			break
		}
		r.pos++
	}
	tok := r.src[body:r.pos]
	if tok == "" || !(isDigit(tok[0]) || tok[0] == '.' && len(tok) > 1 && isDigit(tok[1])) {
		return nil, fmt.Errorf("invalid number %q", r.src[start:r.pos])
	}

	if isPrefixed(tok) || !strings.ContainsAny(tok, ".eE") {
		if !isPrefixed(tok) && len(tok) > 1 && tok[0] == '0' && strings.Trim(tok, "0_") != "" {
			return nil, fmt.Errorf("leading zeros in %q", tok)
		}
		n, err := strconv.ParseInt(sign+tok, 0, 64)
		if err == nil {
			return int(n), nil
		}
		if !errors.Is(err, strconv.ErrRange) {
			return nil, fmt.Errorf("invalid number %q", tok)
		}
	}
	if isPrefixed(tok) {
		return nil, fmt.Errorf("number %q out of range", tok)
	}
	f, err := strconv.ParseFloat(sign+tok, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return nil, fmt.Errorf("invalid number %q", tok)
	}
	return f, nil
}

func isPrefixed(tok string) bool {
	if len(tok) < 2 || tok[0] != '0' {
		return false
	}
	switch tok[1] {
	case 'x', 'X', 'o', 'O', 'b', 'B':
		return true
	}
	return false
}

func (r *reader) name() (any, error) {
	start := r.pos
	for !r.eof() {
		c, size := utf8.DecodeRuneInString(r.src[r.pos:])
		if c != '_' && !unicode.IsLetter(c) && !unicode.IsDigit(c) {
			break
		}
		r.pos += size
	}
	word := r.src[start:r.pos]
	switch word {
	case "None":
		return nil, nil
	case "True":
		return true, nil
	case "False":
		return false, nil
	case "":
		_, size := utf8.DecodeRuneInString(r.src[r.pos:])
		return nil, fmt.Errorf("unexpected %q at offset %d", r.src[r.pos:r.pos+size], r.pos)
	}
	return nil, fmt.Errorf("bare word %q", word)
}
