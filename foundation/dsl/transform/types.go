// File: types.go
// Title: Type Coercion
// Description: Compiles column type lists into ordered coercion steps and
//              applies them to rows.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package transform

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	mdwerror "github.com/msto63/textomat/foundation/core/error"
	"github.com/msto63/textomat/foundation/dsl/ast"
	"github.com/msto63/textomat/foundation/dsl/literal"
	"github.com/msto63/textomat/foundation/dsl/value"
)

// Coercer converts a cell value. Data failures carry CodeCoercion.
type Coercer func(v any) (any, error)

// TypeStep coerces one column of a row.
type TypeStep struct {
	// Index is the target cell, negative values count from the end
	Index int
	// Column names the target for error messages
	Column       string
	Kind         ast.TypeKind
	RefOptional  bool
	TypeOptional bool
	Default      any
	coerce       Coercer
}

var truthy = map[string]bool{"true": true, "yes": true, "y": true, "on": true, "1": true}

// IndexHeaders maps header names to positions. A repeated name maps to
// its last position.
func IndexHeaders(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[h] = i
	}
	return idx
}

// RowIndex converts a 1-based column position to a row index. Zero and
// positive positions are decremented; negative ones count from the end.
func RowIndex(pos int) int {
	if pos >= 0 {
		return pos - 1
	}
	return pos
}

// CompileTypes compiles a type list. Positional entries address columns
// 0..k-1 in order; named entries address a column by position or header.
func CompileTypes(types []ast.Node, index map[string]int) ([]TypeStep, error) {
	var steps []TypeStep
	named := false
	for i, n := range types {
		var (
			td   *ast.TypeDef
			step TypeStep
			skip bool
		)
		switch t := n.(type) {
		case *ast.TypeDef:
			if named {
				return nil, mdwerror.New("cannot specify types for positional columns after named columns").
					WithCode(mdwerror.CodeSyntax).
					WithOperation("compile_types")
			}
			td = t
			step.Index = i
			step.Column = strconv.Itoa(i + 1)
			step.RefOptional = t.Optional
		case *ast.KeyToValue:
			named = true
			v, ok := t.Value.(*ast.TypeDef)
			if !ok {
				return nil, unsupported("type entry %s", t)
			}
			td = v
			step.RefOptional = t.Key.IsOptional()
			step.Column = t.Key.Text()
			switch key := t.Key.(type) {
			case ast.Loc:
				step.Index = RowIndex(key.Index)
			case ast.Id:
				pos, found := index[key.Name]
				if !found {
					if key.Optional {
						skip = true
						break
					}
					return nil, mdwerror.Newf("unknown column %q", key.Name).
						WithCode(mdwerror.CodeDataShape).
						WithOperation("compile_types").
						WithDetail("column", key.Name)
				}
				step.Index = pos
			default:
				return nil, unsupported("type key %s", t.Key)
			}
		default:
			return nil, unsupported("type entry %s", n)
		}
		if skip {
			continue
		}

		coerce, err := CoercerFor(td.Kind)
		if err != nil {
			return nil, err
		}
		step.Kind = td.Kind
		step.coerce = coerce
		step.TypeOptional = td.Optional

		if td.HasDefault() {
			if !step.RefOptional && !step.TypeOptional {
				step.RefOptional, step.TypeOptional = true, true
			}
			if step.Default, err = literal.Eval(*td.Default); err != nil {
				return nil, err
			}
		}
		steps = append(steps, step)
	}
	return steps, nil
}

// ApplyTypes runs the steps against a copy of row.
func ApplyTypes(steps []TypeStep, row value.Row) (value.Row, error) {
	if len(steps) == 0 {
		return row, nil
	}
	out := row.Clone()
	for _, st := range steps {
		i, ok := value.Index(st.Index, len(out))
		if !ok {
			if st.RefOptional {
				continue
			}
			return nil, mdwerror.Newf("column %s out of range for row of %d fields", st.Column, len(out)).
				WithCode(mdwerror.CodeDataShape).
				WithDetail("column", st.Column)
		}

		cell := out[i]
		if cell.IsMissing() {
			if st.RefOptional {
				out[i] = value.Of(st.Default)
				continue
			}
			return nil, mdwerror.Newf("missing index %d", i).
				WithCode(mdwerror.CodeDataShape).
				WithDetail("column", st.Column)
		}

		v, err := st.coerce(cell.Value)
		if err != nil {
			if !mdwerror.Recoverable(err) || !st.TypeOptional {
				return nil, err
			}
			v = st.Default
		}
		out[i] = value.Of(v)
	}
	return out, nil
}

// CoercerFor returns the coercion of a type letter. The date type is
// rejected.
func CoercerFor(kind ast.TypeKind) (Coercer, error) {
	switch kind {
	case ast.KindDefault, ast.KindText:
		return toText, nil
	case ast.KindInt:
		return toInt, nil
	case ast.KindFloat:
		return toFloat, nil
	case ast.KindBool:
		return toBool, nil
	case ast.KindJSON:
		return toJSON, nil
	case ast.KindLiteral:
		return toLiteral, nil
	case ast.KindDate:
		return nil, mdwerror.New("dates are not supported").
			WithCode(mdwerror.CodeUnsupported).
			WithOperation("compile_types")
	}
	return nil, unsupported("column type %s", kind)
}

func toText(v any) (any, error) { return value.ToText(v), nil }

func toInt(v any) (any, error) {
	switch t := v.(type) {
	case int:
		return t, nil
	case int64:
		return int(t), nil
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return nil, coercionError(v, "int")
		}
		return int(t), nil
	case bool:
		if t {
			return 1, nil
		}
		return 0, nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return nil, coercionError(v, "int")
		}
		return i, nil
	}
	return nil, coercionError(v, "int")
}

func toFloat(v any) (any, error) {
	switch t := v.(type) {
	case float64:
		return t, nil
	case int:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case bool:
		if t {
			return 1.0, nil
		}
		return 0.0, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return nil, coercionError(v, "float")
		}
		return f, nil
	}
	return nil, coercionError(v, "float")
}

func toBool(v any) (any, error) {
	return truthy[strings.ToLower(value.ToText(v))], nil
}

func toJSON(v any) (any, error) {
	out, err := value.DecodeJSON(value.ToText(v))
	if err != nil {
		return nil, mdwerror.Wrap(err, fmt.Sprintf("cannot decode %q as json", value.ToText(v))).
			WithCode(mdwerror.CodeCoercion)
	}
	return out, nil
}

func toLiteral(v any) (any, error) {
	out, err := literal.Eval(value.ToText(v))
	if err != nil {
		return nil, mdwerror.Wrap(err, "cannot evaluate cell as literal").
			WithCode(mdwerror.CodeCoercion)
	}
	return out, nil
}

func coercionError(v any, kind string) error {
	return mdwerror.Newf("cannot convert %q to %s", value.ToText(v), kind).
		WithCode(mdwerror.CodeCoercion).
		WithDetail("value", value.ToText(v))
}

func unsupported(format string, args ...any) error {
	return mdwerror.Newf("unsupported "+format, args...).
		WithCode(mdwerror.CodeUnsupported)
}
