// File: cell.go
// Title: Cells and Rows
// Description: Cell carries a value plus its presence flag; Row is the
//              intermediate tabular form produced by input converters.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package value

import "encoding/json"

// Cell is one field of a row. The zero Cell is Missing.
type Cell struct {
	Value   any
	Present bool
}

// Missing marks a field that the source record did not have.
var Missing = Cell{}

// Of returns a present cell holding v. v may be nil.
func Of(v any) Cell {
	return Cell{Value: v, Present: true}
}

// IsMissing reports whether the source record lacked this field.
func (c Cell) IsMissing() bool {
	return !c.Present
}

// OrNil returns the value, or nil for a missing cell.
func (c Cell) OrNil() any {
	if !c.Present {
		return nil
	}
	return c.Value
}

// MarshalJSON encodes the value; a missing cell encodes as null.
func (c Cell) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.OrNil())
}

// MarshalYAML encodes the value; a missing cell encodes as null.
func (c Cell) MarshalYAML() (interface{}, error) {
	return c.OrNil(), nil
}

// Row is an ordered sequence of cells.
type Row []Cell

// RowOf builds a row of present cells.
func RowOf(values ...any) Row {
	row := make(Row, len(values))
	for i, v := range values {
		row[i] = Of(v)
	}
	return row
}

// StringRow builds a row of present string cells, as produced by text inputs.
func StringRow(fields []string) Row {
	row := make(Row, len(fields))
	for i, f := range fields {
		row[i] = Of(f)
	}
	return row
}

// Values returns the row values with missing cells replaced by nil.
func (r Row) Values() []any {
	out := make([]any, len(r))
	for i, c := range r {
		out[i] = c.OrNil()
	}
	return out
}

// Clone returns a shallow copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	copy(out, r)
	return out
}

// Index resolves an index against the row length: negative
// values count from the end. ok is false when the index is out of range.
func Index(i, length int) (int, bool) {
	if i < 0 {
		i += length
	}
	return i, i >= 0 && i < length
}

// List returns rows as a list of value lists.
func List(rows []Row) []any {
	out := make([]any, len(rows))
	for i, r := range rows {
		out[i] = r.Values()
	}
	return out
}
