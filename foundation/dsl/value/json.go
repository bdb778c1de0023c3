// File: json.go
// Title: Ordered JSON Decoding
// Description: Decodes JSON text into []any, *Dict and scalars. Objects keep
//              their key order. Integral numbers become int, all other numbers
//              float64.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package value

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// DecodeJSON decodes exactly one JSON value from text.
func DecodeJSON(text string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unexpected data after JSON value")
	}
	return v, nil
}

// DecodeJSONStream decodes consecutive JSON values from r until EOF.
func DecodeJSONStream(r io.Reader) ([]any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var out []any
	for {
		v, err := decodeValue(dec)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			d := NewDict()
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := kt.(string)
				if !ok {
					return nil, fmt.Errorf("invalid object key %v", kt)
				}
				v, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				d.Set(key, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return d, nil
		case '[':
			list := []any{}
			for dec.More() {
				v, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				list = append(list, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return list, nil
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", t)
		}
	case json.Number:
		return Number(string(t))
	default:
		// string, bool, nil
		return t, nil
	}
}

// Number converts numeric text to int when it has no fraction or exponent
// and fits, otherwise to float64.
func Number(s string) (any, error) {
	if !strings.ContainsAny(s, ".eE") {
		if i, err := strconv.ParseInt(s, 10, 0); err == nil {
			return int(i), nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Plain converts shaped values into types that encoding/json, gojq and
// yaml handle natively: *Dict becomes map[string]any, Tuple and *Set
// become []any. Order of dict keys is lost.
func Plain(v any) any {
	switch t := v.(type) {
	case *Dict:
		m := make(map[string]any, t.Len())
		for _, k := range t.keys {
			m[k] = Plain(t.vals[k])
		}
		return m
	case Tuple:
		return plainList(t)
	case *Set:
		return plainList(t.items)
	case []any:
		return plainList(t)
	case Row:
		return plainList(t.Values())
	case []Row:
		return plainList(List(t))
	case Cell:
		return Plain(t.OrNil())
	default:
		return v
	}
}

func plainList(items []any) []any {
	out := make([]any, len(items))
	for i, it := range items {
		out[i] = Plain(it)
	}
	return out
}
