// File: nodes.go
// Title: Syntax Tree Node Definitions
// Description: Defines the closed set of parse tree nodes. Segment is the
//              subset that may appear in a reference path or as a key.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-25 v0.1.0: Initial AST node definitions
// - 2026-10-19 v0.2.0: Type, structure, reference and processor nodes

package ast

import (
	"strconv"
	"strings"
)

// Node is implemented by every parse tree node.
type Node interface {
	// String renders the node in command syntax
	String() string
	node()
}

// Segment is one step of a reference path: a Loc or an Id.
type Segment interface {
	Node
	IsOptional() bool
	// Text is the literal text of the segment without the optional marker
	Text() string
	segment()
}

// TypeKind is a column type letter.
type TypeKind byte

const (
	KindDefault TypeKind = '_'
	KindText    TypeKind = 's'
	KindInt     TypeKind = 'i'
	KindFloat   TypeKind = 'f'
	KindBool    TypeKind = 'b'
	KindJSON    TypeKind = 'j'
	KindLiteral TypeKind = 'l'
	KindDate    TypeKind = 'd'
)

// TypeLetters lists every letter accepted by the type grammar.
const TypeLetters = "sifbjld_"

// Valid reports whether k is a known type letter.
func (k TypeKind) Valid() bool {
	return k != 0 && strings.IndexByte(TypeLetters, byte(k)) >= 0
}

func (k TypeKind) String() string {
	return string(rune(k))
}

// Shape is the container produced by a structure literal.
type Shape string

const (
	ShapeList     Shape = "[]"
	ShapeTuple    Shape = "()"
	ShapeDict     Shape = "{}"
	ShapeDictCall Shape = "d()"
	ShapeSet      Shape = "s()"
)

// Open returns the opening delimiter of the shape.
func (s Shape) Open() string { return string(s[:len(s)-1]) }

// Close returns the closing delimiter of the shape.
func (s Shape) Close() string { return string(s[len(s)-1:]) }

// IsDict reports whether the shape builds a mapping.
func (s Shape) IsDict() bool { return s == ShapeDict || s == ShapeDictCall }

// Loc addresses a column or element by position.
type Loc struct {
	Index    int
	Optional bool
}

// Id addresses a column or key by name.
type Id struct {
	Name     string
	Optional bool
}

// TypeDef declares the type of a column.
type TypeDef struct {
	Kind     TypeKind
	Optional bool
	// Default is the literal text between slashes, nil when absent
	Default *string
}

// Ref is a dotted path of segments with an optional default.
type Ref struct {
	Path    []Segment
	Default *string
}

// Structure is a structure literal. Fields is empty for the empty forms.
type Structure struct {
	Shape  Shape
	Fields []Node
}

// KeyToValue pairs a key with a TypeDef (in type lists) or with a Structure
// or Ref (in structure literals).
type KeyToValue struct {
	Key   Segment
	Value Node
}

// Processor is one step of an input or output chain.
type Processor struct {
	Alias string
	Args  string
}

func (Loc) node()         {}
func (Id) node()          {}
func (*TypeDef) node()    {}
func (*Ref) node()        {}
func (*Structure) node()  {}
func (*KeyToValue) node() {}
func (Processor) node()   {}

func (Loc) segment() {}
func (Id) segment()  {}

// IsOptional reports whether the segment carries the ? marker.
func (l Loc) IsOptional() bool { return l.Optional }

// Text returns the index as written.
func (l Loc) Text() string { return strconv.Itoa(l.Index) }

func (l Loc) String() string { return l.Text() + marker(l.Optional) }

// IsOptional reports whether the segment carries the ? marker.
func (i Id) IsOptional() bool { return i.Optional }

// Text returns the name.
func (i Id) Text() string { return i.Name }

func (i Id) String() string { return QuoteID(i.Name) + marker(i.Optional) }

func (t *TypeDef) String() string {
	return t.Kind.String() + marker(t.Optional) + defaultText(t.Default)
}

// HasDefault reports whether a default literal was given.
func (t *TypeDef) HasDefault() bool { return t.Default != nil }

func (r *Ref) String() string {
	parts := make([]string, len(r.Path))
	for i, s := range r.Path {
		parts[i] = s.String()
	}
	return strings.Join(parts, ".") + defaultText(r.Default)
}

// HasDefault reports whether a default literal was given.
func (r *Ref) HasDefault() bool { return r.Default != nil }

// HasOptional reports whether any segment carries the ? marker.
func (r *Ref) HasOptional() bool {
	for _, s := range r.Path {
		if s.IsOptional() {
			return true
		}
	}
	return false
}

func (s *Structure) String() string {
	if len(s.Fields) == 0 {
		return string(s.Shape)
	}
	return s.Shape.Open() + JoinNodes(s.Fields) + s.Shape.Close()
}

func (kv *KeyToValue) String() string {
	return kv.Key.String() + ":" + kv.Value.String()
}

func (p Processor) String() string {
	if p.Args == "" {
		return p.Alias
	}
	return p.Alias + "`" + p.Args + "`"
}

// JoinNodes renders nodes as a comma separated list.
func JoinNodes[N Node](nodes []N) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = n.String()
	}
	return strings.Join(parts, ",")
}

// StringPtr returns a pointer to s, for building defaults.
func StringPtr(s string) *string { return &s }

func marker(optional bool) string {
	if optional {
		return "?"
	}
	return ""
}

func defaultText(d *string) string {
	if d == nil {
		return ""
	}
	return "/" + *d + "/"
}
