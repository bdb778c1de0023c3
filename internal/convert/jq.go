package convert

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"

	"github.com/itchyny/gojq"

	mdwerror "github.com/msto63/textomat/foundation/core/error"
	"github.com/msto63/textomat/foundation/dsl/command"
	"github.com/msto63/textomat/foundation/dsl/value"
	"github.com/msto63/textomat/foundation/utils/stringx"
)

// query is a compiled jq program.
type query struct {
	src  string
	code *gojq.Code
}

func compileQuery(kind, src string) (*query, error) {
	src = stringx.FirstNonBlank(src, ".")
	q, err := gojq.Parse(src)
	if err != nil {
		return nil, mdwerror.Wrap(err, "invalid jq query").
			WithCode(mdwerror.CodeConverter).
			WithDetail("query", src).
			WithOperation(kind + "_jq")
	}
	code, err := gojq.Compile(q)
	if err != nil {
		return nil, mdwerror.Wrap(err, "invalid jq query").
			WithCode(mdwerror.CodeConverter).
			WithDetail("query", src).
			WithOperation(kind + "_jq")
	}
	return &query{src: src, code: code}, nil
}

// run applies the query to every input and collects all results.
func (q *query) run(inputs []any) ([]any, error) {
	var out []any
	for _, in := range inputs {
		iter := q.code.Run(in)
		for {
			v, ok := iter.Next()
			if !ok {
				break
			}
			if err, ok := v.(error); ok {
				if halt, ok := err.(*gojq.HaltError); ok && halt.Value() == nil {
					break
				}
				return nil, err
			}
			out = append(out, v)
		}
	}
	return out, nil
}

// jqInputs turns text into a stream of JSON values, and anything else into
// a single value gojq can read.
func jqInputs(data any) ([]any, error) {
	switch t := data.(type) {
	case string:
		vals, err := value.DecodeJSONStream(strings.NewReader(t))
		if err != nil {
			return nil, err
		}
		for i, v := range vals {
			vals[i] = value.Plain(v)
		}
		return vals, nil
	case []value.Row:
		rows := make([]any, len(t))
		for i, r := range t {
			rows[i] = value.Plain(r)
		}
		return []any{rows}, nil
	}
	return []any{value.Plain(data)}, nil
}

// JQInput runs a jq query over the JSON values of the text. Object results
// become records, array results positional rows and scalars single cell
// rows.
type JQInput struct {
	query *query
}

// NewJQInput compiles src; an empty query is ".".
func NewJQInput(src string) (*JQInput, error) {
	q, err := compileQuery("input", src)
	if err != nil {
		return nil, err
	}
	return &JQInput{query: q}, nil
}

func (*JQInput) Syntax() string { return SyntaxJSON }

func (j *JQInput) GetRows(data any, _ *command.ProcessedCommand) (any, []string, error) {
	inputs, err := jqInputs(data)
	if err != nil {
		return nil, nil, inputError("jq", err)
	}
	results, err := j.query.run(inputs)
	if err != nil {
		return nil, nil, inputError("jq", err).WithDetail("query", j.query.src)
	}

	var headers []string
	seen := make(map[string]bool)
	for _, r := range results {
		if m, ok := r.(map[string]any); ok {
			for _, k := range sortedKeys(m) {
				if !seen[k] {
					seen[k] = true
					headers = append(headers, k)
				}
			}
		}
	}

	rows := make([]value.Row, len(results))
	for i, r := range results {
		switch t := r.(type) {
		case map[string]any:
			row := make(value.Row, len(headers))
			for j, h := range headers {
				if v, ok := t[h]; ok {
					row[j] = value.Of(v)
				}
			}
			rows[i] = row
		case []any:
			rows[i] = value.RowOf(t...)
		default:
			rows[i] = value.RowOf(t)
		}
	}
	return rows, headers, nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// JQOutput runs a jq query over its data and prints each result as compact
// JSON on its own line. Text data is read as a stream of JSON values.
type JQOutput struct {
	query *query
}

// NewJQOutput compiles src; an empty query is ".".
func NewJQOutput(src string) (*JQOutput, error) {
	q, err := compileQuery("output", src)
	if err != nil {
		return nil, err
	}
	return &JQOutput{query: q}, nil
}

func (*JQOutput) Syntax() string { return SyntaxJSON }

func (j *JQOutput) CreateOutput(data any, _ *command.ProcessedCommand) (string, error) {
	inputs, err := jqInputs(data)
	if err != nil {
		return "", outputError("jq", err)
	}
	results, err := j.query.run(inputs)
	if err != nil {
		return "", outputError("jq", err).WithDetail("query", j.query.src)
	}

	lines := make([]string, len(results))
	for i, r := range results {
		b, err := compactJSON(r)
		if err != nil {
			return "", outputError("jq", err)
		}
		lines[i] = b
	}
	return strings.Join(lines, "\n"), nil
}

func compactJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
