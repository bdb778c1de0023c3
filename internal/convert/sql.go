package convert

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/msto63/textomat/foundation/dsl/command"
	"github.com/msto63/textomat/foundation/dsl/value"
	"github.com/msto63/textomat/foundation/utils/stringx"
)

// DefaultQuery is run when the sql input has no arguments.
const DefaultQuery = "SELECT * FROM t"

// SQLTable is the name of the table the rows are loaded into.
const SQLTable = "t"

// sqlTimeout bounds one query.
const sqlTimeout = 10 * time.Second

// SQLInput loads rows into an in-memory SQLite table and replaces them with
// the result of a query. Text is read with the csv input first. Column
// names derive from the headers, or are c1, c2, ... without them.
type SQLInput struct {
	query string
	csv   CSVInput
}

// NewSQLInput creates an sql input running query.
func NewSQLInput(query string) *SQLInput {
	return &SQLInput{query: stringx.FirstNonBlank(query, DefaultQuery)}
}

func (*SQLInput) Syntax() string { return SyntaxSQL }

func (s *SQLInput) GetRows(data any, cmd *command.ProcessedCommand) (any, []string, error) {
	var (
		rows    []value.Row
		headers []string
	)
	switch t := data.(type) {
	case []value.Row:
		rows = t
	default:
		parsed, h, err := s.csv.GetRows(data, cmd)
		if err != nil {
			return nil, nil, err
		}
		rows, headers = parsed.([]value.Row), h
	}

	ctx, cancel := context.WithTimeout(context.Background(), sqlTimeout)
	defer cancel()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, nil, inputError("sql", err)
	}
	defer db.Close()
	// every connection would get its own in-memory database
	db.SetMaxOpenConns(1)

	if err := load(ctx, db, columnNames(rows, headers), rows); err != nil {
		return nil, nil, inputError("sql", err)
	}
	out, cols, err := runQuery(ctx, db, s.query)
	if err != nil {
		return nil, nil, inputError("sql", err).WithDetail("query", s.query)
	}
	return out, cols, nil
}

// columnNames returns one unique identifier per column of the widest row.
func columnNames(rows []value.Row, headers []string) []string {
	width := len(headers)
	for _, r := range rows {
		if len(r) > width {
			width = len(r)
		}
	}
	names := make([]string, width)
	used := make(map[string]bool, width)
	for i := range names {
		var h string
		if i < len(headers) {
			h = headers[i]
		}
		name := stringx.Identifier(h, i+1)
		for base, n := name, 2; used[name]; n++ {
			name = fmt.Sprintf("%s_%d", base, n)
		}
		used[name] = true
		names[i] = name
	}
	return names
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func load(ctx context.Context, db *sql.DB, cols []string, rows []value.Row) error {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = quoteIdent(c)
	}
	if len(cols) == 0 {
		quoted = []string{quoteIdent("c1")}
	}
	if _, err := db.ExecContext(ctx, fmt.Sprintf("CREATE TABLE %s (%s)", SQLTable, strings.Join(quoted, ", "))); err != nil {
		return err
	}
	if len(cols) == 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s VALUES (%s)", SQLTable, placeholders))
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	args := make([]any, len(cols))
	for _, r := range rows {
		for i := range args {
			args[i] = nil
			if i < len(r) {
				args[i] = sqlValue(r[i].OrNil())
			}
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func sqlValue(v any) any {
	switch v.(type) {
	case nil, string, int, int64, float64, bool:
		return v
	}
	return value.ToText(v)
}

func runQuery(ctx context.Context, db *sql.DB, q string) ([]value.Row, []string, error) {
	res, err := db.QueryContext(ctx, q)
	if err != nil {
		return nil, nil, err
	}
	defer res.Close()

	cols, err := res.Columns()
	if err != nil {
		return nil, nil, err
	}
	out := []value.Row{}
	for res.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := res.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		for i, v := range vals {
			switch t := v.(type) {
			case int64:
				vals[i] = int(t)
			case []byte:
				vals[i] = string(t)
			}
		}
		out = append(out, value.RowOf(vals...))
	}
	return out, cols, res.Err()
}
