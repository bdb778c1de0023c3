// File: containers.go
// Title: Shaped Containers
// Description: Tuple, Set and Dict values produced by structure literals.
//              Dict keeps insertion order and serializes in that order to
//              JSON and YAML.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package value

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Tuple is a fixed sequence produced by the () shape.
type Tuple []any

// Set is a sequence without duplicates produced by the s() shape. Items keep
// the order of their first occurrence.
type Set struct {
	items []any
	seen  map[string]struct{}
}

// NewSet builds a set from items, dropping duplicates.
func NewSet(items ...any) *Set {
	s := &Set{seen: make(map[string]struct{}, len(items))}
	for _, it := range items {
		s.Add(it)
	}
	return s
}

// Add inserts v unless an equal value is already present.
func (s *Set) Add(v any) {
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	k := setKey(v)
	if _, dup := s.seen[k]; dup {
		return
	}
	s.seen[k] = struct{}{}
	s.items = append(s.items, v)
}

// Items returns the set members in first occurrence order.
func (s *Set) Items() []any {
	return append([]any(nil), s.items...)
}

// Len returns the number of members.
func (s *Set) Len() int { return len(s.items) }

// MarshalJSON encodes the set as a JSON array.
func (s *Set) MarshalJSON() ([]byte, error) {
	if len(s.items) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(s.items)
}

// MarshalYAML encodes the set as a YAML sequence.
func (s *Set) MarshalYAML() (interface{}, error) {
	return s.Items(), nil
}

// numbers compare by value, everything else by type and text
func setKey(v any) string {
	switch n := v.(type) {
	case int:
		return fmt.Sprintf("n:%d", n)
	case int64:
		return fmt.Sprintf("n:%d", n)
	case float64:
		if n == float64(int64(n)) {
			return fmt.Sprintf("n:%d", int64(n))
		}
		return fmt.Sprintf("n:%v", n)
	case string:
		return "s:" + n
	}
	return fmt.Sprintf("%T:%s", v, ToText(v))
}

// Dict is a string keyed mapping that remembers insertion order.
type Dict struct {
	keys []string
	vals map[string]any
}

// NewDict returns an empty dict.
func NewDict() *Dict {
	return &Dict{vals: make(map[string]any)}
}

// Set assigns v to k. A new key is appended; an existing key keeps its place.
func (d *Dict) Set(k string, v any) {
	if d.vals == nil {
		d.vals = make(map[string]any)
	}
	if _, ok := d.vals[k]; !ok {
		d.keys = append(d.keys, k)
	}
	d.vals[k] = v
}

// Get returns the value stored under k.
func (d *Dict) Get(k string) (any, bool) {
	v, ok := d.vals[k]
	return v, ok
}

// Keys returns the keys in insertion order.
func (d *Dict) Keys() []string {
	return append([]string(nil), d.keys...)
}

// Len returns the number of entries.
func (d *Dict) Len() int { return len(d.keys) }

// MarshalJSON encodes the dict as a JSON object in insertion order.
func (d *Dict) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range d.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(d.vals[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML encodes the dict as a YAML mapping in insertion order.
func (d *Dict) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range d.keys {
		var val yaml.Node
		if err := val.Encode(d.vals[k]); err != nil {
			return nil, err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
			&val,
		)
	}
	return node, nil
}
