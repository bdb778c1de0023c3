// File: command_test.go
// Title: Command Interpreter Tests
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19

package command

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	mdwerror "github.com/msto63/textomat/foundation/core/error"
	mdwlog "github.com/msto63/textomat/foundation/core/log"
	"github.com/msto63/textomat/foundation/dsl/ast"
)

func newTestInterpreter() *Interpreter {
	return NewInterpreter(Options{Logger: mdwlog.Discard()})
}

func TestInterpretExpressions(t *testing.T) {
	tab := "\t"
	pipe := "|"
	tests := []struct {
		name    string
		command string
		want    *ProcessedCommand
	}{
		{
			name:    "flags",
			command: "h; r",
			want:    &ProcessedCommand{Source: "h; r", HasHeader: true, Raw: true},
		},
		{
			name:    "escaped delimiter",
			command: `d:\t`,
			want:    &ProcessedCommand{Source: `d:\t`, Delimiter: &tab},
		},
		{
			name:    "plain delimiter",
			command: "d: |",
			want:    &ProcessedCommand{Source: "d: |", Delimiter: &pipe},
		},
		{
			name:    "types and structure",
			command: "t:i,s;s:{a,b}",
			want: &ProcessedCommand{
				Source: "t:i,s;s:{a,b}",
				Types:  []ast.Node{&ast.TypeDef{Kind: ast.KindInt}, &ast.TypeDef{Kind: ast.KindText}},
				Structure: &ast.Structure{Shape: ast.ShapeDict, Fields: []ast.Node{
					&ast.Ref{Path: []ast.Segment{ast.Id{Name: "a"}}},
					&ast.Ref{Path: []ast.Segment{ast.Id{Name: "b"}}},
				}},
			},
		},
		{
			name:    "processor chains",
			command: "i:c,sql`select * from t`;o:j",
			want: &ProcessedCommand{
				Source:  "i:c,sql`select * from t`;o:j",
				Inputs:  []ast.Processor{{Alias: "c"}, {Alias: "sql", Args: "select * from t"}},
				Outputs: []ast.Processor{{Alias: "j"}},
			},
		},
		{
			name:    "custom separator",
			command: ":|h|o:t|d:;",
			want: &ProcessedCommand{
				Source:    ":|h|o:t|d:;",
				HasHeader: true,
				Outputs:   []ast.Processor{{Alias: "t"}},
				Delimiter: ast.StringPtr(";"),
			},
		},
		{
			name:    "expressions without colon are ignored",
			command: "hello;o:l",
			want:    &ProcessedCommand{Source: "hello;o:l", Outputs: []ast.Processor{{Alias: "l"}}},
		},
		{
			name:    "header flag with value",
			command: "h:false;h:",
			want:    &ProcessedCommand{Source: "h:false;h:", HasHeader: true},
		},
		{
			name:    "empty bodies reset",
			command: "o:j;o:;d:,;d:",
			want:    &ProcessedCommand{Source: "o:j;o:;d:,;d:"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, err := newTestInterpreter().Interpret(tt.command)
			if err != nil {
				t.Fatalf("Interpret(%q) error: %v", tt.command, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Interpret(%q) mismatch (-want +got):\n%s", tt.command, diff)
			}
		})
	}
}

func TestInterpretIdempotent(t *testing.T) {
	in := newTestInterpreter()
	first, changes, err := in.Interpret("h;t:i;o:j")
	if err != nil {
		t.Fatal(err)
	}
	want := ChangeSet{AttrOutputs, AttrTypes, AttrHasHeader}
	if diff := cmp.Diff(want, changes); diff != "" {
		t.Errorf("first change set mismatch (-want +got):\n%s", diff)
	}

	for _, again := range []string{"h;t:i;o:j", "  h;t:i;o:j ", ":"} {
		cmd, changes, err := in.Interpret(again)
		if err != nil {
			t.Fatal(err)
		}
		if cmd != first {
			t.Errorf("Interpret(%q) returned a new command", again)
		}
		if !changes.Empty() {
			t.Errorf("Interpret(%q) changes = %v, want none", again, changes)
		}
	}
}

func TestChangeSetRequiresReparse(t *testing.T) {
	in := newTestInterpreter()
	if _, _, err := in.Interpret("t:i"); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		command string
		changed []Attr
		reparse bool
	}{
		{"t:f", []Attr{AttrTypes}, false},
		{"t:f;s:[1]", []Attr{AttrStructure}, false},
		{"t:f;s:[1];h", []Attr{AttrHasHeader}, true},
		{"t:f;s:[1];h;i:jl", []Attr{AttrInputs}, true},
		{"t:f;s:[1];h;i:jl;o:y", []Attr{AttrOutputs}, false},
		{"t:f;s:[1];h;i:jl;o:y;r", []Attr{AttrRaw}, true},
		{"t:f;s:[1];h;i:jl;o:y;r;d:,", []Attr{AttrDelimiter}, true},
	}
	for _, tt := range tests {
		_, changes, err := in.Interpret(tt.command)
		if err != nil {
			t.Fatalf("Interpret(%q) error: %v", tt.command, err)
		}
		if diff := cmp.Diff(ChangeSet(tt.changed), changes); diff != "" {
			t.Errorf("Interpret(%q) changes mismatch (-want +got):\n%s", tt.command, diff)
		}
		if got := changes.RequiresReparse(); got != tt.reparse {
			t.Errorf("Interpret(%q) RequiresReparse = %v, want %v", tt.command, got, tt.reparse)
		}
	}
}

func TestInterpretErrorsKeepPrevious(t *testing.T) {
	tests := []struct {
		command string
		code    mdwerror.Code
	}{
		{"x:1", mdwerror.CodeUnsupported},
		{"t:a:i,s", mdwerror.CodeSyntax},
		{"s:[a", mdwerror.CodeSyntax},
		{"o:j`", mdwerror.CodeSyntax},
		{`d:\q`, mdwerror.CodeInvalidLiteral},
		{"h:maybe", mdwerror.CodeInvalidLiteral},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			in := newTestInterpreter()
			prev, _, err := in.Interpret("o:j")
			if err != nil {
				t.Fatal(err)
			}
			cmd, _, err := in.Interpret(tt.command)
			if err == nil {
				t.Fatalf("Interpret(%q) succeeded with %+v", tt.command, cmd)
			}
			if code := mdwerror.GetCode(err); code != tt.code {
				t.Errorf("code = %v, want %v (%v)", code, tt.code, err)
			}
			if in.Current() != prev {
				t.Error("previous command was replaced after an error")
			}
		})
	}
}

func TestUnsupportedTypeSuggestion(t *testing.T) {
	_, _, err := newTestInterpreter().Interpret("ty:i")
	e, ok := mdwerror.As(err)
	if !ok {
		t.Fatalf("unexpected error type %T", err)
	}
	if got := e.Details()["suggestion"]; got != "did you mean t?" {
		t.Errorf("suggestion = %v", got)
	}
}

func TestProcessedCommandString(t *testing.T) {
	in := newTestInterpreter()
	cmd, _, err := in.Interpret(`o:jq` + "`.a`" + `;h;d:\t;s:[a, 1?];t:i`)
	if err != nil {
		t.Fatal(err)
	}
	want := `d:\t;h;t:i;s:[a,1?];o:jq` + "`.a`"
	if got := cmd.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	again, _, err := newTestInterpreter().Interpret(cmd.String())
	if err != nil {
		t.Fatal(err)
	}
	if diff := Diff(cmd, again); !diff.Empty() {
		t.Errorf("canonical form changed attributes %v", diff)
	}
}
