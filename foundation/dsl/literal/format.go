// File: format.go
// Title: Literal Formatting
// Description: Renders values in literal syntax, the inverse of Eval for the
//              supported forms. Format wraps containers that do not fit the
//              line width one element per line.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package literal

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/msto63/textomat/foundation/dsl/value"
)

// DefaultWidth is the line width used by Format.
const DefaultWidth = 80

// Repr renders v on a single line.
func Repr(v any) string {
	var b strings.Builder
	writeRepr(&b, v)
	return b.String()
}

func writeRepr(b *strings.Builder, v any) {
	switch t := v.(type) {
	case nil:
		b.WriteString("None")
	case bool:
		if t {
			b.WriteString("True")
		} else {
			b.WriteString("False")
		}
	case int:
		b.WriteString(strconv.Itoa(t))
	case int64:
		b.WriteString(strconv.FormatInt(t, 10))
	case float64:
		b.WriteString(floatRepr(t))
	case string:
		b.WriteString(Quote(t))
	case value.Cell:
		writeRepr(b, t.OrNil())
	case value.Row:
		writeSeq(b, "[", "]", t.Values(), false)
	case []value.Row:
		writeSeq(b, "[", "]", value.List(t), false)
	case []any:
		writeSeq(b, "[", "]", t, false)
	case value.Tuple:
		writeSeq(b, "(", ")", t, true)
	case *value.Set:
		if t.Len() == 0 {
			b.WriteString("set()")
			return
		}
		writeSeq(b, "{", "}", t.Items(), false)
	case *value.Dict:
		b.WriteByte('{')
		for i, k := range t.Keys() {
			if i > 0 {
				b.WriteString(", ")
			}
			val, _ := t.Get(k)
			b.WriteString(Quote(k))
			b.WriteString(": ")
			writeRepr(b, val)
		}
		b.WriteByte('}')
	case map[string]any:
		d := value.NewDict()
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			d.Set(k, t[k])
		}
		writeRepr(b, d)
	default:
		b.WriteString(Quote(fmt.Sprint(v)))
	}
}

func writeSeq(b *strings.Builder, open, close string, items []any, tuple bool) {
	b.WriteString(open)
	for i, it := range items {
		if i > 0 {
			b.WriteString(", ")
		}
		writeRepr(b, it)
	}
	if tuple && len(items) == 1 {
		b.WriteByte(',')
	}
	b.WriteString(close)
}

func floatRepr(f float64) string {
	s := value.FormatFloat(f)
	switch s {
	case "+Inf":
		return "inf"
	case "-Inf":
		return "-inf"
	case "NaN":
		return "nan"
	}
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

// Quote renders s as a quoted string literal. Single quotes are preferred
// unless s contains a single quote and no double quote.
func Quote(s string) string {
	q := byte('\'')
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		q = '"'
	}
	var b strings.Builder
	b.WriteByte(q)
	for _, r := range s {
		switch {
		case r == rune(q) || r == '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&b, `\x%02x`, r)
		case !unicode.IsPrint(r):
			if r > 0xffff {
				fmt.Fprintf(&b, `\U%08x`, r)
			} else {
				fmt.Fprintf(&b, `\u%04x`, r)
			}
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte(q)
	return b.String()
}

// Format renders v in literal syntax, breaking containers that exceed width
// after each element. Continuation lines are aligned one column after the
// opening bracket.
func Format(v any, width int) string {
	if width <= 0 {
		width = DefaultWidth
	}
	return pformat(v, 0, width)
}

func pformat(v any, indent, width int) string {
	if rows, ok := v.([]value.Row); ok {
		v = value.List(rows)
	}
	flat := Repr(v)
	if len(flat)+indent <= width {
		return flat
	}

	pad := ",\n" + strings.Repeat(" ", indent+1)
	seq := func(open, close string, items []any, tuple bool) string {
		parts := make([]string, len(items))
		for i, it := range items {
			parts[i] = pformat(it, indent+1, width)
		}
		if tuple && len(items) == 1 {
			close = "," + close
		}
		return open + strings.Join(parts, pad) + close
	}

	switch t := v.(type) {
	case []any:
		if len(t) > 0 {
			return seq("[", "]", t, false)
		}
	case value.Row:
		if len(t) > 0 {
			return seq("[", "]", t.Values(), false)
		}
	case value.Tuple:
		if len(t) > 0 {
			return seq("(", ")", t, true)
		}
	case *value.Set:
		if t.Len() > 0 {
			return seq("{", "}", t.Items(), false)
		}
	case *value.Dict:
		if t.Len() > 0 {
			parts := make([]string, 0, t.Len())
			for _, k := range t.Keys() {
				val, _ := t.Get(k)
				key := Quote(k) + ": "
				parts = append(parts, key+pformat(val, indent+1+len(key), width))
			}
			return "{" + strings.Join(parts, pad) + "}"
		}
	}
	return flat
}
