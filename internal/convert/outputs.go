package convert

import (
	"bytes"
	"encoding/json"
	"html/template"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"github.com/msto63/textomat/foundation/dsl/command"
	"github.com/msto63/textomat/foundation/dsl/literal"
)

// LiteralOutput pretty prints data in literal syntax.
type LiteralOutput struct {
	// Width is the line width; zero means literal.DefaultWidth
	Width int
}

func (*LiteralOutput) Syntax() string { return SyntaxLiteral }

func (l *LiteralOutput) CreateOutput(data any, _ *command.ProcessedCommand) (string, error) {
	return literal.Format(data, l.Width), nil
}

// JSONOutput renders data as JSON indented by four spaces.
type JSONOutput struct{}

func (JSONOutput) Syntax() string { return SyntaxJSON }

func (JSONOutput) CreateOutput(data any, _ *command.ProcessedCommand) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(data); err != nil {
		return "", outputError("j", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// JSONLinesOutput renders each row as compact JSON on its own line.
type JSONLinesOutput struct{}

func (JSONLinesOutput) Syntax() string { return SyntaxJSON }

func (JSONLinesOutput) CreateOutput(data any, _ *command.ProcessedCommand) (string, error) {
	rows := rowsOf(data)
	lines := make([]string, len(rows))
	for i, r := range rows {
		s, err := compactJSON(r)
		if err != nil {
			return "", outputError("jl", err)
		}
		lines[i] = s
	}
	return strings.Join(lines, "\n"), nil
}

// CSVOutput renders rows with every field quoted, preceded by a header row
// when the run has output headers.
type CSVOutput struct{}

func (CSVOutput) Syntax() string { return SyntaxCSV }

func (CSVOutput) CreateOutput(data any, cmd *command.ProcessedCommand) (string, error) {
	var b strings.Builder
	if len(cmd.Headers) > 0 {
		writeQuoted(&b, cmd.Headers)
	}
	for _, fields := range textCells(data) {
		writeQuoted(&b, fields)
	}
	return b.String(), nil
}

func writeQuoted(b *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(f, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteByte('\n')
}

// TableOutput renders rows as a grid with rounded borders.
type TableOutput struct{}

func (TableOutput) Syntax() string { return SyntaxText }

func (TableOutput) CreateOutput(data any, cmd *command.ProcessedCommand) (string, error) {
	rows := textCells(data)
	width := len(cmd.Headers)
	for _, r := range rows {
		if len(r) > width {
			width = len(r)
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderRow(true).
		StyleFunc(func(row, col int) lipgloss.Style {
			return lipgloss.NewStyle().Padding(0, 1)
		})
	if len(cmd.Headers) > 0 {
		t = t.Headers(pad(cmd.Headers, width)...)
	}
	for _, r := range rows {
		t = t.Row(pad(r, width)...)
	}
	return t.String(), nil
}

func pad(fields []string, width int) []string {
	if len(fields) >= width {
		return fields
	}
	out := make([]string, width)
	copy(out, fields)
	return out
}

var htmlTable = template.Must(template.New("table").Parse(`<table>
{{- if .Headers}}
<thead>
<tr>{{range .Headers}}<th>{{.}}</th>{{end}}</tr>
</thead>
{{- end}}
<tbody>
{{- range .Rows}}
<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{- end}}
</tbody>
</table>`))

// HTMLOutput renders rows as an HTML table.
type HTMLOutput struct{}

func (HTMLOutput) Syntax() string { return SyntaxHTML }

func (HTMLOutput) CreateOutput(data any, cmd *command.ProcessedCommand) (string, error) {
	var buf bytes.Buffer
	err := htmlTable.Execute(&buf, struct {
		Headers []string
		Rows    [][]string
	}{cmd.Headers, textCells(data)})
	if err != nil {
		return "", outputError("h", err)
	}
	return buf.String(), nil
}

// YAMLOutput renders data as a YAML document.
type YAMLOutput struct{}

func (YAMLOutput) Syntax() string { return SyntaxYAML }

func (YAMLOutput) CreateOutput(data any, _ *command.ProcessedCommand) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(data); err != nil {
		return "", outputError("y", err)
	}
	if err := enc.Close(); err != nil {
		return "", outputError("y", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
