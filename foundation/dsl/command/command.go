// File: command.go
// Title: Compiled Command and Change Sets
// Description: The compiled form of a command string and the set of
//              attributes that differ between two compiled commands.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package command

import (
	"reflect"
	"strings"

	"github.com/msto63/textomat/foundation/dsl/ast"
)

// ProcessedCommand is a command compiled into parse trees.
type ProcessedCommand struct {
	// Source is the trimmed command text this command was compiled from
	Source    string
	Delimiter *string
	Outputs   []ast.Processor
	Inputs    []ast.Processor
	Structure *ast.Structure
	Types     []ast.Node
	HasHeader bool
	// Headers holds the output headers of the last run, by position
	Headers []string
	Raw     bool
}

// DelimiterOr returns the configured delimiter or def when none is set.
func (c *ProcessedCommand) DelimiterOr(def string) string {
	if c == nil || c.Delimiter == nil {
		return def
	}
	return *c.Delimiter
}

// String renders the command in canonical form.
func (c *ProcessedCommand) String() string {
	var parts []string
	if c.Delimiter != nil {
		parts = append(parts, "d:"+delimiterText(*c.Delimiter))
	}
	if c.HasHeader {
		parts = append(parts, "h")
	}
	if c.Raw {
		parts = append(parts, "r")
	}
	if len(c.Types) > 0 {
		parts = append(parts, "t:"+ast.JoinNodes(c.Types))
	}
	if c.Structure != nil {
		parts = append(parts, "s:"+c.Structure.String())
	}
	if len(c.Inputs) > 0 {
		parts = append(parts, "i:"+ast.JoinNodes(c.Inputs))
	}
	if len(c.Outputs) > 0 {
		parts = append(parts, "o:"+ast.JoinNodes(c.Outputs))
	}
	return strings.Join(parts, DefaultSeparator)
}

// Attr names a compared attribute of a ProcessedCommand.
type Attr string

const (
	AttrDelimiter Attr = "delimiter"
	AttrOutputs   Attr = "outputs"
	AttrInputs    Attr = "inputs"
	AttrStructure Attr = "structure"
	AttrTypes     Attr = "types"
	AttrHasHeader Attr = "has_header"
	AttrRaw       Attr = "raw"
)

// Attrs lists every compared attribute in comparison order.
var Attrs = []Attr{AttrDelimiter, AttrOutputs, AttrInputs, AttrStructure, AttrTypes, AttrHasHeader, AttrRaw}

// ChangeSet is the set of attributes that differ between two commands,
// in the order of Attrs.
type ChangeSet []Attr

// Has reports whether attr changed.
func (cs ChangeSet) Has(attr Attr) bool {
	for _, a := range cs {
		if a == attr {
			return true
		}
	}
	return false
}

// Empty reports whether nothing changed.
func (cs ChangeSet) Empty() bool { return len(cs) == 0 }

// RequiresReparse reports whether a change invalidates previously parsed
// input rows.
func (cs ChangeSet) RequiresReparse() bool {
	return cs.Has(AttrDelimiter) || cs.Has(AttrInputs) || cs.Has(AttrHasHeader) || cs.Has(AttrRaw)
}

// Strings returns the attribute names.
func (cs ChangeSet) Strings() []string {
	out := make([]string, len(cs))
	for i, a := range cs {
		out[i] = string(a)
	}
	return out
}

// Diff compares two commands attribute by attribute. A nil previous
// command compares like an empty one.
func Diff(prev, next *ProcessedCommand) ChangeSet {
	if prev == nil {
		prev = &ProcessedCommand{}
	}
	if next == nil {
		next = &ProcessedCommand{}
	}
	var cs ChangeSet
	for _, attr := range Attrs {
		if !reflect.DeepEqual(field(prev, attr), field(next, attr)) {
			cs = append(cs, attr)
		}
	}
	return cs
}

func field(c *ProcessedCommand, attr Attr) any {
	switch attr {
	case AttrDelimiter:
		return c.Delimiter
	case AttrOutputs:
		return c.Outputs
	case AttrInputs:
		return c.Inputs
	case AttrStructure:
		return c.Structure
	case AttrTypes:
		return c.Types
	case AttrHasHeader:
		return c.HasHeader
	case AttrRaw:
		return c.Raw
	}
	return nil
}
