// File: literal_test.go
// Title: Literal Evaluation Tests
// Author: msto63
// Version: v0.2.0
// Created: 2026-10-19
// Modified: 2026-10-19

package literal

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	mdwerror "github.com/msto63/textomat/foundation/core/error"
	"github.com/msto63/textomat/foundation/dsl/value"
)

func TestEvalScalars(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"1", 1},
		{"-7", -7},
		{"2.5", 2.5},
		{"1e3", 1000.0},
		{"'text'", "text"},
		{`"with space"`, "with space"},
		{"True", true},
		{"False", false},
		{"None", nil},
		{" 3 ", 3},
		{"[]", []any{}},
		{"[1, 'a', None]", []any{1, "a", nil}},
		{"[[1], [2, 3]]", []any{[]any{1}, []any{2, 3}}},
		{"()", value.Tuple{}},
		{"(1)", 1},
		{"(1,)", value.Tuple{1}},
		{"(1, 2)", value.Tuple{1, 2}},
		{"[(1,2)]", []any{value.Tuple{1, 2}}},
		{"1, 2", value.Tuple{1, 2}},
		{"[1, 2,]", []any{1, 2}},
		{`'a\nb'`, "a\nb"},
		{`'tab\there'`, "tab\there"},
		{`'\x41\u00e9\101'`, "A\u00e9A"},
		{`'keep\d'`, `keep\d`},
		{`'it\'s'`, "it's"},
		{`'a' "b"`, "ab"},
		{"0x1f", 31},
		{"0o17", 15},
		{"1_000", 1000},
		{"0", 0},
		{".5", 0.5},
		{"- 3", -3},
		{"99999999999999999999", 1e20},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Eval(tt.in)
			if err != nil {
				t.Fatalf("Eval(%q) error = %v", tt.in, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Eval(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestEvalMappingsAndSets(t *testing.T) {
	got, err := Eval("{'b': 1, 'a': [2]}")
	if err != nil {
		t.Fatal(err)
	}
	d, ok := got.(*value.Dict)
	if !ok {
		t.Fatalf("Eval() = %T, want *value.Dict", got)
	}
	if diff := cmp.Diff([]string{"b", "a"}, d.Keys()); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}

	got, err = Eval("{1, 2}")
	if err != nil {
		t.Fatal(err)
	}
	s, ok := got.(*value.Set)
	if !ok {
		t.Fatalf("Eval() = %T, want *value.Set", got)
	}
	if diff := cmp.Diff([]any{1, 2}, s.Items()); diff != "" {
		t.Errorf("set mismatch (-want +got):\n%s", diff)
	}
}

func TestEvalRejects(t *testing.T) {
	for _, in := range []string{"", "abc", "{a: 1}", "[1, 2", "- 1\n- 2", "a: b", "2001-12-14",
		"007", "1j", "0x", "(1, 2", "(1 2)", "[1 2]", "'abc", "'a\nb'", `'\x4'`, "{1: 2", "1,, 2",
	} {
		t.Run(in, func(t *testing.T) {
			_, err := Eval(in)
			if err == nil {
				t.Fatalf("Eval(%q) should fail", in)
			}
			if !mdwerror.HasCode(err, mdwerror.CodeInvalidLiteral) {
				t.Errorf("code = %v, want %v", mdwerror.GetCode(err), mdwerror.CodeInvalidLiteral)
			}
		})
	}
}

func TestRepr(t *testing.T) {
	d := value.NewDict()
	d.Set("a", 1)
	d.Set("b", value.Tuple{"x"})
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"none", nil, "None"},
		{"bools", []any{true, false}, "[True, False]"},
		{"float", 2.0, "2.0"},
		{"string", "it's", `"it's"`},
		{"escapes", "a\tb\n", `'a\tb\n'`},
		{"tuple", value.Tuple{1}, "(1,)"},
		{"empty set", value.NewSet(), "set()"},
		{"set", value.NewSet("a", "b"), "{'a', 'b'}"},
		{"dict", d, "{'a': 1, 'b': ('x',)}"},
		{"row", value.Row{value.Of("1"), value.Missing}, "['1', None]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Repr(tt.in); got != tt.want {
				t.Errorf("Repr() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestReprRoundTrip(t *testing.T) {
	in := []any{1, 2.5, "q'uote", nil, true, []any{"x"}, value.Tuple{1}, value.Tuple{"a\tb", "line\nbreak"}, "\x00\u00e9"}
	back, err := Eval(Repr(in))
	if err != nil {
		t.Fatalf("Eval(Repr()) error = %v", err)
	}
	if diff := cmp.Diff(in, back); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatWraps(t *testing.T) {
	rows := []any{
		[]any{"aaaaaaaaaa", "bbbbbbbbbb"},
		[]any{"cccccccccc", "dddddddddd"},
	}
	got := Format(rows, 30)
	want := "[['aaaaaaaaaa', 'bbbbbbbbbb'],\n ['cccccccccc', 'dddddddddd']]"
	if got != want {
		t.Errorf("Format() =\n%s\nwant\n%s", got, want)
	}
	if got := Format([]any{1, 2}, 80); got != "[1, 2]" {
		t.Errorf("Format() = %s", got)
	}
}
