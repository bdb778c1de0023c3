// File: transform_test.go
// Title: Row Transformation Tests
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19

package transform

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	mdwerror "github.com/msto63/textomat/foundation/core/error"
	"github.com/msto63/textomat/foundation/dsl/ast"
	"github.com/msto63/textomat/foundation/dsl/parser"
	"github.com/msto63/textomat/foundation/dsl/value"
)

func compile(t *testing.T, types, structure string, headers []string) (*Program, error) {
	t.Helper()
	var (
		ty []ast.Node
		st *ast.Structure
	)
	if types != "" {
		var err error
		if ty, err = parser.ParseTypes(types); err != nil {
			t.Fatalf("ParseTypes(%q): %v", types, err)
		}
	}
	if structure != "" {
		var err error
		if st, err = parser.ParseStructure(structure); err != nil {
			t.Fatalf("ParseStructure(%q): %v", structure, err)
		}
	}
	return Compile(ty, st, headers)
}

func render(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal %#v: %v", v, err)
	}
	return string(b)
}

func TestTransformRows(t *testing.T) {
	tests := []struct {
		name      string
		types     string
		structure string
		headers   []string
		row       value.Row
		want      string
	}{
		{
			name: "types and dict", types: "i,s", structure: "{a,b}",
			headers: []string{"a", "b"}, row: value.RowOf("1", "x"),
			want: `{"a":1,"b":"x"}`,
		},
		{
			name: "no structure keeps values", row: value.Row{value.Of("a"), value.Missing},
			want: `["a",null]`,
		},
		{
			name: "default on coercion failure", types: "i/0/", row: value.RowOf("x"),
			want: `[0]`,
		},
		{
			name: "optional type without default", types: "i?", row: value.RowOf("x"),
			want: `[null]`,
		},
		{
			name: "optional column out of range", types: "_,i?", row: value.RowOf("a"),
			want: `["a"]`,
		},
		{
			name: "missing cell takes default", types: "i?/5/", row: value.Row{value.Missing},
			want: `[5]`,
		},
		{
			name: "named columns", types: "b:f, -1:b", headers: []string{"a", "b", "c"},
			row: value.RowOf("1", "2.5", "Yes"), want: `["1",2.5,true]`,
		},
		{
			name: "named position", types: "1:i", row: value.RowOf(" 7 ", "8"),
			want: `[7,"8"]`,
		},
		{
			name: "unknown optional column is skipped", types: "zz?:i", headers: []string{"a"},
			row: value.RowOf("x"), want: `["x"]`,
		},
		{
			name: "json column path", types: "j", structure: "[1.k.-1, 1.k.0]",
			row: value.RowOf(`{"k":[1,2]}`), want: `[2,1]`,
		},
		{
			name: "literal column", types: "l", structure: "(1.a)",
			row: value.RowOf(`{'a': 1}`), want: `[1]`,
		},
		{
			name: "literal tuple column", types: "l", structure: "[1.1]",
			row: value.RowOf(`(1, (2, 'x\ty'))`), want: `[[2,"x\ty"]]`,
		},
		{
			name: "bool column", types: "b,b,b", row: value.RowOf("on", "0", "nope"),
			want: `[true,false,false]`,
		},
		{
			name: "empty tuple", structure: "()", row: value.RowOf("a", "b"),
			want: `["a","b"]`,
		},
		{
			name: "empty set", structure: "s()", row: value.RowOf("a", "b", "a"),
			want: `["a","b"]`,
		},
		{
			name: "empty dict truncates to headers", structure: "{}", headers: []string{"a", "b"},
			row: value.RowOf(1, 2, 3), want: `{"a":1,"b":2}`,
		},
		{
			name: "empty dict truncates to row", structure: "d()", headers: []string{"a", "b", "c"},
			row: value.RowOf(1), want: `{"a":1}`,
		},
		{
			name: "nested", structure: "{x:a, y:[b, 1], z:s(2, 2)}", headers: []string{"a", "b"},
			row: value.RowOf("1", "2"), want: `{"x":"1","y":["2","1"],"z":["2"]}`,
		},
		{
			name: "zero addresses the last column", structure: "[0]",
			row: value.RowOf("a", "b"), want: `["b"]`,
		},
		{
			name: "optional unknown column", structure: "[b?]", headers: []string{"a"},
			row: value.RowOf("1"), want: `[null]`,
		},
		{
			name: "default makes path safe", structure: "[b/'z'/, a.x/5/]", headers: []string{"a"},
			row: value.RowOf("1"), want: `["z",5]`,
		},
		{
			name: "optional missing cell", structure: "[a?]", headers: []string{"a"},
			row: value.Row{value.Missing}, want: `[null]`,
		},
		{
			name: "optional later segment", types: "j", structure: "[a.x?/5/]", headers: []string{"a"},
			row: value.RowOf(`{"y":1}`), want: `[5]`,
		},
		{
			name: "text indexing", structure: "[a.-1]", headers: []string{"a"},
			row: value.RowOf("héllo"), want: `["o"]`,
		},
		{
			name: "null stops the path", types: "j", structure: "[a.x.y]", headers: []string{"a"},
			row: value.RowOf(`{"x":null}`), want: `[null]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := compile(t, tt.types, tt.structure, tt.headers)
			if err != nil {
				t.Fatalf("Compile: %v", err)
			}
			got, err := p.Row(tt.row)
			if err != nil {
				t.Fatalf("Row: %v", err)
			}
			if s := render(t, got); s != tt.want {
				t.Errorf("got %s, want %s", s, tt.want)
			}
		})
	}
}

func TestTransformTypedValues(t *testing.T) {
	p, err := compile(t, "i,f,s", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	got, err := p.Row(value.RowOf("1", "1", 3.5))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]any{1, 1.0, "3.5"}, got); diff != "" {
		t.Errorf("typed values mismatch (-want +got):\n%s", diff)
	}

	p, err = compile(t, "i", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	got, err = p.Row(value.RowOf(2.9))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]any{2}, got); diff != "" {
		t.Errorf("float truncation mismatch (-want +got):\n%s", diff)
	}
}

func TestTransformRowErrors(t *testing.T) {
	tests := []struct {
		name      string
		types     string
		structure string
		headers   []string
		row       value.Row
		code      mdwerror.Code
	}{
		{"coercion", "i", "", nil, value.RowOf("x"), mdwerror.CodeCoercion},
		{"fraction as int", "i", "", nil, value.RowOf("1.5"), mdwerror.CodeCoercion},
		{"column out of range", "_,i", "", nil, value.RowOf("a"), mdwerror.CodeDataShape},
		{"missing cell", "i", "", nil, value.Row{value.Missing}, mdwerror.CodeDataShape},
		{"bad json", "j", "", nil, value.RowOf("{"), mdwerror.CodeCoercion},
		{"unknown column in path", "", "[b]", []string{"a"}, value.RowOf("1"), mdwerror.CodeDataShape},
		{"missing cell in path", "", "[a]", []string{"a"}, value.Row{value.Missing}, mdwerror.CodeDataShape},
		{"strict segment despite default", "j", "[a?.x/5/]", []string{"a"}, value.RowOf(`{"y":1}`), mdwerror.CodeDataShape},
		{"index out of range", "", "[5]", nil, value.RowOf("a"), mdwerror.CodeDataShape},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := compile(t, tt.types, tt.structure, tt.headers)
			if err != nil {
				t.Fatalf("Compile: %v", err)
			}
			_, err = p.Rows([]value.Row{tt.row})
			if code := mdwerror.GetCode(err); code != tt.code {
				t.Fatalf("code = %v, want %v (%v)", code, tt.code, err)
			}
			e, _ := mdwerror.As(err)
			if got := e.Details()["row"]; got != 1 {
				t.Errorf("row detail = %v, want 1", got)
			}
		})
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name      string
		types     string
		structure string
		code      mdwerror.Code
	}{
		{"dates", "d", "", mdwerror.CodeUnsupported},
		{"invalid default", "i/x y/", "", mdwerror.CodeInvalidLiteral},
		{"unknown named column", "zz:i", "", mdwerror.CodeDataShape},
		{"invalid ref default", "", "[a/[/]", mdwerror.CodeInvalidLiteral},
		{"unnamed structure in dict", "", "{[a]}", mdwerror.CodeUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compile(t, tt.types, tt.structure, []string{"a"})
			if code := mdwerror.GetCode(err); code != tt.code {
				t.Errorf("code = %v, want %v (%v)", code, tt.code, err)
			}
		})
	}

	positional := []ast.Node{
		&ast.KeyToValue{Key: ast.Id{Name: "a"}, Value: &ast.TypeDef{Kind: ast.KindInt}},
		&ast.TypeDef{Kind: ast.KindInt},
	}
	if _, err := CompileTypes(positional, map[string]int{"a": 0}); err == nil {
		t.Error("positional type after named type compiled")
	}
}

func TestOptionalDefaultImplication(t *testing.T) {
	steps, err := CompileTypes([]ast.Node{
		&ast.TypeDef{Kind: ast.KindInt, Default: ast.StringPtr("1")},
		&ast.TypeDef{Kind: ast.KindInt, Optional: true, Default: ast.StringPtr("2")},
		&ast.KeyToValue{Key: ast.Loc{Index: 3, Optional: true}, Value: &ast.TypeDef{Kind: ast.KindInt, Default: ast.StringPtr("3")}},
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	type flags struct{ Ref, Type bool }
	var got []flags
	for _, s := range steps {
		got = append(got, flags{s.RefOptional, s.TypeOptional})
	}
	want := []flags{{true, true}, {true, true}, {true, false}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("optional flags mismatch (-want +got):\n%s", diff)
	}
}

func TestOutputHeaders(t *testing.T) {
	headers := []string{"a", "b", "c"}
	tests := []struct {
		structure string
		want      []string
	}{
		{"", headers},
		{"[]", headers},
		{"{a, x:b, 2, -1.k, [c], 0, 9}", []string{"a", "x", "b", "c.k", "5", "c", "9"}},
		{"['q'.1.z]", []string{"q.1.z"}},
	}
	for _, tt := range tests {
		var st *ast.Structure
		if tt.structure != "" {
			var err error
			if st, err = parser.ParseStructure(tt.structure); err != nil {
				t.Fatal(err)
			}
		}
		got, err := OutputHeaders(st, headers)
		if err != nil {
			t.Fatalf("OutputHeaders(%q): %v", tt.structure, err)
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("OutputHeaders(%q) mismatch (-want +got):\n%s", tt.structure, diff)
		}
	}
}
