package convert

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	mdwerror "github.com/msto63/textomat/foundation/core/error"
	mdwlog "github.com/msto63/textomat/foundation/core/log"
	"github.com/msto63/textomat/foundation/dsl"
	"github.com/msto63/textomat/foundation/dsl/command"
	"github.com/msto63/textomat/foundation/dsl/value"
)

func strptr(s string) *string { return &s }

func TestCSVInput(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		cmd     command.ProcessedCommand
		rows    []value.Row
		headers []string
	}{
		{
			name: "sniffed semicolon",
			text: "a;b;c\n1;2;3\n",
			rows: []value.Row{value.RowOf("a", "b", "c"), value.RowOf("1", "2", "3")},
		},
		{
			name:    "header row",
			text:    "a;b;c\n1;2;3\n",
			cmd:     command.ProcessedCommand{HasHeader: true},
			rows:    []value.Row{value.RowOf("1", "2", "3")},
			headers: []string{"a", "b", "c"},
		},
		{
			name: "blank lines dropped and lines stripped",
			text: "  1,2 \n\n   \n 3,4\n",
			rows: []value.Row{value.RowOf("1", "2"), value.RowOf("3", "4")},
		},
		{
			name: "mixed line endings",
			text: "1,2\r\n3,4\r5,6",
			rows: []value.Row{value.RowOf("1", "2"), value.RowOf("3", "4"), value.RowOf("5", "6")},
		},
		{
			name: "quoted fields",
			text: `"x, y",z` + "\n" + `"a ""b""",c`,
			rows: []value.Row{value.RowOf("x, y", "z"), value.RowOf(`a "b"`, "c")},
		},
		{
			name: "explicit delimiter",
			text: "a,b|c",
			cmd:  command.ProcessedCommand{Delimiter: strptr("|")},
			rows: []value.Row{value.RowOf("a,b", "c")},
		},
		{
			name: "single column",
			text: "x\ny",
			rows: []value.Row{value.RowOf("x"), value.RowOf("y")},
		},
		{
			name: "empty text",
			text: "\n\n",
			rows: []value.Row{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := tt.cmd
			rows, headers, err := (&CSVInput{}).GetRows(tt.text, &cmd)
			require.NoError(t, err)
			assert.Equal(t, tt.rows, rows)
			assert.Equal(t, tt.headers, headers)
		})
	}
}

func TestCSVInputDelimiterErrors(t *testing.T) {
	for _, d := range []string{"ab", `"`} {
		_, _, err := (&CSVInput{}).GetRows("a,b", &command.ProcessedCommand{Delimiter: strptr(d)})
		assert.True(t, mdwerror.HasCode(err, mdwerror.CodeConverter), "delimiter %q: %v", d, err)
	}
	_, _, err := (&CSVInput{}).GetRows([]value.Row{}, &command.ProcessedCommand{})
	assert.True(t, mdwerror.HasCode(err, mdwerror.CodeConverter))
}

func TestSniff(t *testing.T) {
	tests := []struct {
		text string
		want rune
	}{
		{"1,2,3\n4,5,6", ','},
		{"1\t2\n3\t4", '\t'},
		{"a b c\nd e f", ' '},
		{"a|b\nc|d", '|'},
		{"hello world,2\nfoo bar,3", ','},
		{"plain\ntext", ','},
	}
	for _, tt := range tests {
		assert.Equal(t, string(tt.want), string(Sniff(tt.text, SniffCandidates)), "Sniff(%q)", tt.text)
	}
}

func TestJSONLinesInput(t *testing.T) {
	text := "{\"a\": 1, \"b\": 2}\n\n{\"b\": \"x\", \"c\": [1]}\n"
	rows, headers, err := (&JSONLinesInput{}).GetRows(text, &command.ProcessedCommand{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, headers)

	got := rows.([]value.Row)
	require.Len(t, got, 2)
	assert.Equal(t, value.Row{value.Of(1), value.Of(2), value.Missing}, got[0])
	assert.True(t, got[1][0].IsMissing())
	assert.Equal(t, "x", got[1][1].Value)
	assert.Equal(t, []any{1}, got[1][2].Value)

	_, _, err = (&JSONLinesInput{}).GetRows("[1, 2]", &command.ProcessedCommand{})
	assert.True(t, mdwerror.HasCode(err, mdwerror.CodeConverter))
	_, _, err = (&JSONLinesInput{}).GetRows("{", &command.ProcessedCommand{})
	assert.True(t, mdwerror.HasCode(err, mdwerror.CodeConverter))
}

func TestShellInput(t *testing.T) {
	text := "name age\n\"Jane Doe\" 42\n'x y' z\\ w\n"
	rows, headers, err := (&ShellInput{}).GetRows(text, &command.ProcessedCommand{HasHeader: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "age"}, headers)
	assert.Equal(t, []value.Row{value.RowOf("Jane Doe", "42"), value.RowOf("x y", "z w")}, rows)

	_, _, err = (&ShellInput{}).GetRows(`"open`, &command.ProcessedCommand{})
	assert.True(t, mdwerror.HasCode(err, mdwerror.CodeConverter))
}

func TestJQInput(t *testing.T) {
	in, err := NewJQInput(".[]")
	require.NoError(t, err)
	rows, headers, err := in.GetRows(`[{"x": 1}, {"y": "s"}, [true, null], 3]`, &command.ProcessedCommand{})
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, headers)
	assert.Equal(t, []value.Row{
		{value.Of(1), value.Missing},
		{value.Missing, value.Of("s")},
		value.RowOf(true, nil),
		value.RowOf(3),
	}, rows)

	in, err = NewJQInput("")
	require.NoError(t, err)
	rows, _, err = in.GetRows("[1, 2]\n[3, 4]", &command.ProcessedCommand{})
	require.NoError(t, err)
	assert.Equal(t, []value.Row{value.RowOf(1, 2), value.RowOf(3, 4)}, rows)

	_, err = NewJQInput(".[")
	assert.True(t, mdwerror.HasCode(err, mdwerror.CodeConverter))

	in, err = NewJQInput(".a")
	require.NoError(t, err)
	_, _, err = in.GetRows("[1]", &command.ProcessedCommand{})
	assert.True(t, mdwerror.HasCode(err, mdwerror.CodeConverter))
}

func TestSQLInput(t *testing.T) {
	in := NewSQLInput("SELECT name, CAST(age AS INTEGER) AS age FROM t WHERE CAST(age AS INTEGER) > 26 ORDER BY name")
	rows, headers, err := in.GetRows("name,age\nbob,30\nann,25\ncid,27", &command.ProcessedCommand{HasHeader: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "age"}, headers)
	assert.Equal(t, []value.Row{value.RowOf("bob", 30), value.RowOf("cid", 27)}, rows)

	in = NewSQLInput("SELECT c2, c1 FROM t")
	rows, headers, err = in.GetRows([]value.Row{value.RowOf("a", 1), value.RowOf("b")}, &command.ProcessedCommand{})
	require.NoError(t, err)
	assert.Equal(t, []string{"c2", "c1"}, headers)
	assert.Equal(t, []value.Row{value.RowOf(1, "a"), value.RowOf(nil, "b")}, rows)

	in = NewSQLInput(" \n ")
	rows, _, err = in.GetRows("x;y", &command.ProcessedCommand{})
	require.NoError(t, err)
	assert.Equal(t, []value.Row{value.RowOf("x", "y")}, rows)

	_, _, err = NewSQLInput("SELECT nope FROM t").GetRows("a,b", &command.ProcessedCommand{})
	assert.True(t, mdwerror.HasCode(err, mdwerror.CodeConverter))
}

func TestColumnNames(t *testing.T) {
	rows := []value.Row{value.RowOf(1, 2, 3, 4)}
	assert.Equal(t, []string{"first_name", "first_name_2", "c3_1st", "c4"},
		columnNames(rows, []string{"First Name", "first name", "1st"}))
}

func TestOutputs(t *testing.T) {
	dict := value.NewDict()
	dict.Set("a", 1)
	dict.Set("b", "x\"y")
	data := []any{dict}
	cmd := &command.ProcessedCommand{Headers: []string{"a", "b"}}

	tests := []struct {
		name string
		out  dsl.Output
		want string
	}{
		{"literal", &LiteralOutput{}, `[{'a': 1, 'b': 'x"y'}]`},
		{"json", JSONOutput{}, "[\n    {\n        \"a\": 1,\n        \"b\": \"x\\\"y\"\n    }\n]"},
		{"json lines", JSONLinesOutput{}, `{"a":1,"b":"x\"y"}`},
		{"csv", CSVOutput{}, "\"a\",\"b\"\n\"1\",\"x\"\"y\"\n"},
		{"noop", NoOpOutput{}, `[{"a":1,"b":"x\"y"}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.out.CreateOutput(data, cmd)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNoOpOutputPassesText(t *testing.T) {
	got, err := NoOpOutput{}.CreateOutput("a <b>", &command.ProcessedCommand{})
	require.NoError(t, err)
	assert.Equal(t, "a <b>", got)
}

func TestCSVOutputWithoutHeaders(t *testing.T) {
	got, err := CSVOutput{}.CreateOutput([]any{[]any{1, nil, true}, "z"}, &command.ProcessedCommand{})
	require.NoError(t, err)
	assert.Equal(t, "\"1\",\"\",\"true\"\n\"z\"\n", got)
}

func TestHTMLOutput(t *testing.T) {
	got, err := HTMLOutput{}.CreateOutput([]any{[]any{"<b>", 2}}, &command.ProcessedCommand{Headers: []string{"a", "b"}})
	require.NoError(t, err)
	assert.Contains(t, got, "<tr><th>a</th><th>b</th></tr>")
	assert.Contains(t, got, "<tr><td>&lt;b&gt;</td><td>2</td></tr>")
}

func TestTableOutput(t *testing.T) {
	got, err := TableOutput{}.CreateOutput([]any{[]any{"x", 1}, []any{"longer"}}, &command.ProcessedCommand{Headers: []string{"name", "n"}})
	require.NoError(t, err)
	assert.Contains(t, got, "╭")
	assert.Contains(t, got, "name")
	assert.Contains(t, got, "longer")
}

func TestYAMLOutput(t *testing.T) {
	d := value.NewDict()
	d.Set("z", 1)
	d.Set("a", []any{"x", nil})
	got, err := YAMLOutput{}.CreateOutput([]any{d, value.RowOf(1, 2)}, &command.ProcessedCommand{})
	require.NoError(t, err)

	var back []any
	require.NoError(t, yaml.Unmarshal([]byte(got), &back))
	assert.Equal(t, []any{
		map[string]any{"z": 1, "a": []any{"x", nil}},
		[]any{1, 2},
	}, back)
	assert.Less(t, strings.Index(got, "z:"), strings.Index(got, "a:"))
}

func TestJQOutput(t *testing.T) {
	out, err := NewJQOutput(".a")
	require.NoError(t, err)
	got, err := out.CreateOutput("{\"a\": 1}\n{\"a\": \"<x>\"}", &command.ProcessedCommand{})
	require.NoError(t, err)
	assert.Equal(t, "1\n\"<x>\"", got)

	d := value.NewDict()
	d.Set("k", []any{1, 2})
	out, err = NewJQOutput(".[0].k | add")
	require.NoError(t, err)
	got, err = out.CreateOutput([]any{d}, &command.ProcessedCommand{})
	require.NoError(t, err)
	assert.Equal(t, "3", got)
}

func TestRegistries(t *testing.T) {
	inputs := NewInputs(Options{Logger: mdwlog.Discard()})
	outputs := NewOutputs(Options{Logger: mdwlog.Discard(), DefaultOutput: "j"})
	assert.Equal(t, []string{"c", "jl", "jq", "n", "sh", "sql"}, inputs.Aliases())
	assert.Equal(t, []string{"c", "h", "j", "jl", "jq", "l", "n", "t", "y"}, outputs.Aliases())
	assert.Equal(t, dsl.DefaultInput, inputs.Default())
	assert.Equal(t, "j", outputs.Default())
}

func TestEngineWithBuiltins(t *testing.T) {
	logger := mdwlog.Discard()
	e, err := dsl.New(dsl.Options{
		Inputs:  NewInputs(Options{Logger: logger}),
		Outputs: NewOutputs(Options{Logger: logger}),
		Logger:  logger,
	})
	require.NoError(t, err)

	tests := []struct {
		text    string
		command string
		want    string
	}{
		{"a,b\n1,x", "h;t:i;s:{a,b};o:j", "[\n    {\n        \"a\": 1,\n        \"b\": \"x\"\n    }\n]"},
		{"a,b\n1,x", "h;t:i", "[[1, 'x']]"},
		{"a,b\n1,x", "h;s:[b];o:c", "\"b\"\n\"x\"\n"},
		{`{"a": 1}`, "@jq .a", "1"},
		{"{\"k\": \"v\"}\n{\"k\": \"w\"}", "i:jl;s:[k];o:jl", "[\"v\"]\n[\"w\"]"},
		{"raw text", "r", "raw text"},
		{"raw text", "r;o:l", "'raw text'"},
	}
	for _, tt := range tests {
		res, err := e.Process(e.NewSession(), tt.text, tt.command, dsl.TriggerRun)
		require.NoError(t, err, tt.command)
		assert.Equal(t, tt.want, res.Output, tt.command)
	}

	in, out := e.Syntax(sessionWith(t, e, "i:jl;o:y"))
	assert.Equal(t, SyntaxJSON, in)
	assert.Equal(t, SyntaxYAML, out)
}

func sessionWith(t *testing.T, e *dsl.Engine, cmd string) *dsl.Session {
	t.Helper()
	s := e.NewSession()
	_, err := e.Process(s, "", cmd, dsl.TriggerRun)
	require.NoError(t, err)
	return s
}
