package convert

import (
	"github.com/google/shlex"

	mdwerror "github.com/msto63/textomat/foundation/core/error"
	"github.com/msto63/textomat/foundation/dsl/command"
	"github.com/msto63/textomat/foundation/dsl/value"
)

// JSONLinesInput reads one JSON object per non-blank line. The headers are
// the union of all keys in first-seen order; a record lacking a key gets a
// missing cell there.
type JSONLinesInput struct{}

func (*JSONLinesInput) Syntax() string { return SyntaxJSON }

func (*JSONLinesInput) GetRows(data any, _ *command.ProcessedCommand) (any, []string, error) {
	text, err := textOf("jl", data)
	if err != nil {
		return nil, nil, err
	}

	var (
		records []*value.Dict
		headers []string
		seen    = make(map[string]bool)
	)
	for i, line := range nonBlankLines(text) {
		v, err := value.DecodeJSON(line)
		if err != nil {
			return nil, nil, inputError("jl", err).WithDetail("line", i+1)
		}
		d, ok := v.(*value.Dict)
		if !ok {
			return nil, nil, mdwerror.Newf("line %d is not a JSON object", i+1).
				WithCode(mdwerror.CodeConverter).
				WithOperation("input_jl")
		}
		for _, k := range d.Keys() {
			if !seen[k] {
				seen[k] = true
				headers = append(headers, k)
			}
		}
		records = append(records, d)
	}

	rows := make([]value.Row, len(records))
	for i, d := range records {
		row := make(value.Row, len(headers))
		for j, h := range headers {
			if v, ok := d.Get(h); ok {
				row[j] = value.Of(v)
			}
		}
		rows[i] = row
	}
	return rows, headers, nil
}

// ShellInput splits each non-blank line into words using shell quoting
// rules. With the header flag the first line names the columns.
type ShellInput struct{}

func (*ShellInput) Syntax() string { return SyntaxText }

func (*ShellInput) GetRows(data any, cmd *command.ProcessedCommand) (any, []string, error) {
	text, err := textOf("sh", data)
	if err != nil {
		return nil, nil, err
	}
	lines := nonBlankLines(text)

	var headers []string
	if cmd.HasHeader && len(lines) > 0 {
		if headers, err = shlex.Split(lines[0]); err != nil {
			return nil, nil, inputError("sh", err).WithDetail("line", 1)
		}
		lines = lines[1:]
	}

	rows := make([]value.Row, 0, len(lines))
	for i, line := range lines {
		words, err := shlex.Split(line)
		if err != nil {
			return nil, nil, inputError("sh", err).WithDetail("line", i+1)
		}
		rows = append(rows, value.StringRow(words))
	}
	return rows, headers, nil
}
