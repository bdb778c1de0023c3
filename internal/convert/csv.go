package convert

import (
	"encoding/csv"
	"io"
	"strings"
	"unicode/utf8"

	mdwerror "github.com/msto63/textomat/foundation/core/error"
	"github.com/msto63/textomat/foundation/dsl/command"
	"github.com/msto63/textomat/foundation/dsl/value"
)

// SniffCandidates are the delimiters tried when the command sets none.
var SniffCandidates = []rune{',', ';', '\t', '|', ' '}

// sniffLimit bounds the amount of text inspected when sniffing.
const sniffLimit = 10000

// CSVInput reads delimiter separated text. Each non-blank line is stripped
// before parsing. With the header flag the first record names the columns.
type CSVInput struct{}

func (*CSVInput) Syntax() string { return SyntaxCSV }

func (*CSVInput) GetRows(data any, cmd *command.ProcessedCommand) (any, []string, error) {
	text, err := textOf("c", data)
	if err != nil {
		return nil, nil, err
	}
	lines := nonBlankLines(text)
	if len(lines) == 0 {
		return []value.Row{}, nil, nil
	}
	body := strings.Join(lines, "\n")

	comma, err := delimiterRune(cmd, body)
	if err != nil {
		return nil, nil, err
	}
	records, err := readCSV(body, comma)
	if err != nil {
		return nil, nil, inputError("c", err)
	}

	var headers []string
	if cmd.HasHeader && len(records) > 0 {
		headers, records = records[0], records[1:]
	}
	rows := make([]value.Row, len(records))
	for i, rec := range records {
		rows[i] = value.StringRow(rec)
	}
	return rows, headers, nil
}

func readCSV(text string, comma rune) ([][]string, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = comma
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	return r.ReadAll()
}

func delimiterRune(cmd *command.ProcessedCommand, body string) (rune, error) {
	if cmd.Delimiter == nil {
		return Sniff(body, SniffCandidates), nil
	}
	d := *cmd.Delimiter
	if utf8.RuneCountInString(d) != 1 {
		return 0, mdwerror.Newf("delimiter %q must be a single character", d).
			WithCode(mdwerror.CodeConverter).
			WithOperation("input_c")
	}
	r, _ := utf8.DecodeRuneInString(d)
	if r == '"' || r == '\n' || r == '\r' {
		return 0, mdwerror.Newf("delimiter %q cannot be used", d).
			WithCode(mdwerror.CodeConverter).
			WithOperation("input_c")
	}
	return r, nil
}

// Sniff picks the candidate that splits the sample into the most consistent
// number of fields. Ties go to the earlier candidate. Text that no candidate
// splits yields ','.
func Sniff(text string, candidates []rune) rune {
	if len(text) > sniffLimit {
		text = text[:sniffLimit]
		if i := strings.LastIndexByte(text, '\n'); i > 0 {
			text = text[:i]
		}
	}

	best, bestScore := ',', 0
	for _, c := range candidates {
		score, width := consistency(text, c)
		if width < 2 {
			continue
		}
		if score > bestScore {
			best, bestScore = c, score
		}
	}
	return best
}

// consistency returns how many records share the most common field count,
// and that field count.
func consistency(text string, comma rune) (score, width int) {
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = comma
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	counts := make(map[int]int)
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, 0
		}
		counts[len(rec)]++
	}
	for w, n := range counts {
		if n > score || n == score && w > width {
			score, width = n, w
		}
	}
	return score, width
}
