// Package convert provides the built-in input and output converters.
package convert

import (
	"strings"

	mdwerror "github.com/msto63/textomat/foundation/core/error"
	mdwlog "github.com/msto63/textomat/foundation/core/log"
	"github.com/msto63/textomat/foundation/dsl"
	"github.com/msto63/textomat/foundation/dsl/command"
	"github.com/msto63/textomat/foundation/dsl/value"
	"github.com/msto63/textomat/foundation/utils/stringx"
)

// Syntax hints reported by converters
const (
	SyntaxCSV     = "csv"
	SyntaxJSON    = "json"
	SyntaxYAML    = "yaml"
	SyntaxHTML    = "html"
	SyntaxSQL     = "sql"
	SyntaxLiteral = "literal"
	SyntaxText    = "text"
)

// Options configures the built-in registries
type Options struct {
	Logger *mdwlog.Logger
	// DefaultInput replaces dsl.DefaultInput when set
	DefaultInput string
	// DefaultOutput replaces dsl.DefaultOutput when set
	DefaultOutput string
	// OutputWidth is the line width of the literal output
	OutputWidth int
}

// NewInputs returns an input registry holding all built-in inputs.
func NewInputs(opts Options) *dsl.InputRegistry {
	r := dsl.NewInputRegistry(opts.Logger, opts.DefaultInput)
	r.MustRegister("c", func(args string) (dsl.Input, error) { return &CSVInput{}, nil })
	r.MustRegister("jl", func(args string) (dsl.Input, error) { return &JSONLinesInput{}, nil })
	r.MustRegister("sh", func(args string) (dsl.Input, error) { return &ShellInput{}, nil })
	r.MustRegister("jq", func(args string) (dsl.Input, error) { return NewJQInput(args) })
	r.MustRegister("sql", func(args string) (dsl.Input, error) { return NewSQLInput(args), nil })
	r.MustRegister("n", func(args string) (dsl.Input, error) { return NoOpInput{}, nil })
	return r
}

// NewOutputs returns an output registry holding all built-in outputs.
func NewOutputs(opts Options) *dsl.OutputRegistry {
	r := dsl.NewOutputRegistry(opts.Logger, opts.DefaultOutput)
	r.MustRegister("l", func(args string) (dsl.Output, error) { return &LiteralOutput{Width: opts.OutputWidth}, nil })
	r.MustRegister("j", func(args string) (dsl.Output, error) { return JSONOutput{}, nil })
	r.MustRegister("jl", func(args string) (dsl.Output, error) { return JSONLinesOutput{}, nil })
	r.MustRegister("c", func(args string) (dsl.Output, error) { return CSVOutput{}, nil })
	r.MustRegister("t", func(args string) (dsl.Output, error) { return TableOutput{}, nil })
	r.MustRegister("h", func(args string) (dsl.Output, error) { return HTMLOutput{}, nil })
	r.MustRegister("y", func(args string) (dsl.Output, error) { return YAMLOutput{}, nil })
	r.MustRegister("jq", func(args string) (dsl.Output, error) { return NewJQOutput(args) })
	r.MustRegister("n", func(args string) (dsl.Output, error) { return NoOpOutput{}, nil })
	return r
}

// NoOpInput passes its data through unchanged.
type NoOpInput struct{}

func (NoOpInput) GetRows(data any, _ *command.ProcessedCommand) (any, []string, error) {
	return data, nil, nil
}

func (NoOpInput) Syntax() string { return SyntaxText }

// NoOpOutput returns text unchanged and renders anything else as text.
type NoOpOutput struct{}

func (NoOpOutput) CreateOutput(data any, _ *command.ProcessedCommand) (string, error) {
	if s, ok := data.(string); ok {
		return s, nil
	}
	return value.ToText(data), nil
}

func (NoOpOutput) Syntax() string { return SyntaxText }

// textOf returns data as text for inputs that read text.
func textOf(alias string, data any) (string, error) {
	switch t := data.(type) {
	case string:
		return t, nil
	case []byte:
		return string(t), nil
	}
	return "", mdwerror.Newf("input %s expects text, got %T", alias, data).
		WithCode(mdwerror.CodeConverter).
		WithOperation("input_" + alias)
}

// nonBlankLines splits text into lines at any line ending, strips them and
// drops blank ones.
func nonBlankLines(text string) []string {
	var out []string
	for _, line := range stringx.SplitLines(text) {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// cells returns the fields of one row of output data.
func cells(row any) []any {
	switch t := row.(type) {
	case []any:
		return t
	case value.Tuple:
		return t
	case value.Row:
		return t.Values()
	case *value.Set:
		return t.Items()
	case *value.Dict:
		out := make([]any, 0, t.Len())
		for _, k := range t.Keys() {
			v, _ := t.Get(k)
			out = append(out, v)
		}
		return out
	}
	return []any{row}
}

// rowsOf returns output data as a list of rows. Text becomes one row per
// line.
func rowsOf(data any) []any {
	switch t := data.(type) {
	case string:
		lines := strings.Split(strings.TrimRight(t, "\n"), "\n")
		out := make([]any, len(lines))
		for i, l := range lines {
			out[i] = l
		}
		return out
	case []value.Row:
		out := make([]any, len(t))
		for i, r := range t {
			out[i] = r
		}
		return out
	case []any:
		return t
	case value.Tuple:
		return t
	case *value.Set:
		return t.Items()
	case nil:
		return nil
	}
	return []any{data}
}

// textCells renders the fields of every row as text.
func textCells(data any) [][]string {
	rows := rowsOf(data)
	out := make([][]string, len(rows))
	for i, r := range rows {
		cs := cells(r)
		fields := make([]string, len(cs))
		for j, c := range cs {
			fields[j] = value.ToText(c)
		}
		out[i] = fields
	}
	return out
}

func outputError(alias string, err error) *mdwerror.Error {
	return mdwerror.Wrap(err, "output "+alias+" failed").
		WithCode(mdwerror.CodeConverter).
		WithOperation("output_" + alias)
}

func inputError(alias string, err error) *mdwerror.Error {
	return mdwerror.Wrap(err, "input "+alias+" failed").
		WithCode(mdwerror.CodeConverter).
		WithOperation("input_" + alias)
}
