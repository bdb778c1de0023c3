// File: structure.go
// Title: Structure Builder
// Description: Compiles structure literals into row shaping functions and
//              derives the header names of the shaped output.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package transform

import (
	"strconv"
	"strings"

	mdwerror "github.com/msto63/textomat/foundation/core/error"
	"github.com/msto63/textomat/foundation/dsl/ast"
	"github.com/msto63/textomat/foundation/dsl/literal"
	"github.com/msto63/textomat/foundation/dsl/value"
)

// Shaper builds the output value of one row.
type Shaper func(row value.Row) (any, error)

type builder struct {
	headers []string
	index   map[string]int
}

// CompileStructure compiles st against the input headers. A nil structure
// yields the row values with missing cells as nil.
func CompileStructure(st *ast.Structure, headers []string) (Shaper, error) {
	if st == nil {
		return func(row value.Row) (any, error) { return row.Values(), nil }, nil
	}
	b := &builder{headers: headers, index: IndexHeaders(headers)}
	return b.structure(st)
}

// OutputHeaders names the top level fields of st. Without a structure, or
// for an empty shape, the input headers are returned.
func OutputHeaders(st *ast.Structure, headers []string) ([]string, error) {
	if st == nil || len(st.Fields) == 0 {
		return append([]string(nil), headers...), nil
	}
	out := make([]string, len(st.Fields))
	for i, f := range st.Fields {
		switch t := f.(type) {
		case *ast.KeyToValue:
			out[i] = t.Key.Text()
		case *ast.Ref:
			out[i] = refName(t, headers)
		case *ast.Structure:
			out[i] = strconv.Itoa(i + 1)
		default:
			return nil, unsupported("structure field %s", f)
		}
	}
	return out, nil
}

func (b *builder) structure(st *ast.Structure) (Shaper, error) {
	if len(st.Fields) == 0 {
		return b.emptyShape(st.Shape)
	}

	fields := make([]Shaper, len(st.Fields))
	var keys []string
	if st.Shape.IsDict() {
		keys = make([]string, len(st.Fields))
	}
	for i, f := range st.Fields {
		fn, err := b.field(f)
		if err != nil {
			return nil, err
		}
		fields[i] = fn
		if keys != nil {
			if keys[i], err = b.key(f); err != nil {
				return nil, err
			}
		}
	}

	eval := func(row value.Row) ([]any, error) {
		vals := make([]any, len(fields))
		for i, fn := range fields {
			v, err := fn(row)
			if err != nil {
				return nil, err
			}
			vals[i] = v
		}
		return vals, nil
	}

	switch st.Shape {
	case ast.ShapeList:
		return func(row value.Row) (any, error) {
			vals, err := eval(row)
			if err != nil {
				return nil, err
			}
			return vals, nil
		}, nil
	case ast.ShapeTuple:
		return func(row value.Row) (any, error) {
			vals, err := eval(row)
			if err != nil {
				return nil, err
			}
			return value.Tuple(vals), nil
		}, nil
	case ast.ShapeSet:
		return func(row value.Row) (any, error) {
			vals, err := eval(row)
			if err != nil {
				return nil, err
			}
			return value.NewSet(vals...), nil
		}, nil
	case ast.ShapeDict, ast.ShapeDictCall:
		return func(row value.Row) (any, error) {
			vals, err := eval(row)
			if err != nil {
				return nil, err
			}
			d := value.NewDict()
			for i, k := range keys {
				d.Set(k, vals[i])
			}
			return d, nil
		}, nil
	}
	return nil, unsupported("structure shape %s", st.Shape)
}

func (b *builder) emptyShape(shape ast.Shape) (Shaper, error) {
	switch shape {
	case ast.ShapeList:
		return func(row value.Row) (any, error) { return row.Values(), nil }, nil
	case ast.ShapeTuple:
		return func(row value.Row) (any, error) { return value.Tuple(row.Values()), nil }, nil
	case ast.ShapeSet:
		return func(row value.Row) (any, error) { return value.NewSet(row.Values()...), nil }, nil
	case ast.ShapeDict, ast.ShapeDictCall:
		return func(row value.Row) (any, error) {
			d := value.NewDict()
			for i, c := range row {
				if i >= len(b.headers) {
					break
				}
				d.Set(b.headers[i], c.OrNil())
			}
			return d, nil
		}, nil
	}
	return nil, unsupported("structure shape %s", shape)
}

func (b *builder) field(f ast.Node) (Shaper, error) {
	switch t := f.(type) {
	case *ast.KeyToValue:
		return b.field(t.Value)
	case *ast.Structure:
		return b.structure(t)
	case *ast.Ref:
		return b.ref(t)
	}
	return nil, unsupported("structure field %s", f)
}

// key names a field inside a dict shape.
func (b *builder) key(f ast.Node) (string, error) {
	switch t := f.(type) {
	case *ast.KeyToValue:
		return t.Key.Text(), nil
	case *ast.Ref:
		return refName(t, b.headers), nil
	case *ast.Structure:
		return "", mdwerror.Newf("nested structure %s inside a dict needs a key", t).
			WithCode(mdwerror.CodeUnsupported).
			WithOperation("compile_structure")
	}
	return "", unsupported("structure field %s", f)
}

// lookup resolves one path segment against the current value.
type lookup struct {
	seg   ast.Segment
	first bool
	safe  bool
}

func (b *builder) ref(r *ast.Ref) (Shaper, error) {
	var def any
	if r.HasDefault() {
		var err error
		if def, err = literal.Eval(*r.Default); err != nil {
			return nil, err
		}
	}
	hasOptional := r.HasOptional()

	steps := make([]lookup, len(r.Path))
	for i, seg := range r.Path {
		steps[i] = lookup{
			seg:   seg,
			first: i == 0,
			safe:  seg.IsOptional() || (r.HasDefault() && !hasOptional),
		}
	}

	return func(row value.Row) (any, error) {
		var cur any = row
		for _, st := range steps {
			next, err := b.resolve(cur, st)
			if err != nil {
				if st.safe {
					return def, nil
				}
				return nil, err
			}
			cur = next
			if cur == nil && def == nil {
				break
			}
		}
		return cur, nil
	}, nil
}

func (b *builder) resolve(cur any, st lookup) (any, error) {
	if st.first {
		row := cur.(value.Row)
		var (
			i  int
			ok bool
		)
		switch seg := st.seg.(type) {
		case ast.Loc:
			i, ok = value.Index(RowIndex(seg.Index), len(row))
		case ast.Id:
			i, ok = b.index[seg.Name]
			if !ok {
				return nil, shapeError("unknown column %q", seg.Name)
			}
			ok = i < len(row)
		}
		if !ok {
			return nil, shapeError("column %s out of range for row of %d fields", st.seg.Text(), len(row))
		}
		if row[i].IsMissing() {
			return nil, shapeError("missing %s", st.seg.Text())
		}
		return row[i].Value, nil
	}

	switch c := cur.(type) {
	case *value.Dict:
		if v, ok := c.Get(st.seg.Text()); ok {
			return v, nil
		}
		return nil, shapeError("missing key %q", st.seg.Text())
	case map[string]any:
		if v, ok := c[st.seg.Text()]; ok {
			return v, nil
		}
		return nil, shapeError("missing key %q", st.seg.Text())
	case []any:
		return indexSeq(c, st.seg)
	case value.Tuple:
		return indexSeq(c, st.seg)
	case string:
		loc, ok := st.seg.(ast.Loc)
		if !ok {
			break
		}
		runes := []rune(c)
		if i, ok := value.Index(loc.Index, len(runes)); ok {
			return string(runes[i]), nil
		}
		return nil, shapeError("index %d out of range", loc.Index)
	}
	return nil, shapeError("cannot index %s with %s", typeName(cur), st.seg.Text())
}

func indexSeq(seq []any, seg ast.Segment) (any, error) {
	loc, ok := seg.(ast.Loc)
	if !ok {
		return nil, shapeError("cannot index list with %q", seg.Text())
	}
	i, ok := value.Index(loc.Index, len(seq))
	if !ok {
		return nil, shapeError("index %d out of range", loc.Index)
	}
	return seq[i], nil
}

// refName joins the header of the first segment with the text of the
// remaining ones.
func refName(r *ast.Ref, headers []string) string {
	parts := make([]string, len(r.Path))
	for i, seg := range r.Path {
		parts[i] = seg.Text()
	}
	if loc, ok := r.Path[0].(ast.Loc); ok {
		if i, ok := value.Index(RowIndex(loc.Index), len(headers)); ok {
			parts[0] = headers[i]
		}
	}
	return strings.Join(parts, ".")
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "text"
	case int, float64:
		return "number"
	case bool:
		return "bool"
	case *value.Set:
		return "set"
	}
	return "value"
}

func shapeError(format string, args ...any) error {
	return mdwerror.Newf(format, args...).
		WithCode(mdwerror.CodeDataShape)
}
