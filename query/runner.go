/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package query

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/juju/loggo"
	_ "github.com/mattn/go-sqlite3"

	"github.com/suparena/ddbstreams/errors"
)

var logger = loggo.GetLogger("ddbstreams.query")

var readOnlyKeywords = []string{"SELECT", "WITH", "VALUES"}

var writeKeywords = []string{
	"INSERT", "UPDATE", "DELETE", "CREATE", "DROP", "ALTER",
	"ATTACH", "DETACH", "PRAGMA", "VACUUM", "REINDEX",
}

// Runner compiles and evaluates SQL queries over bound collections using an
// embedded in-memory SQLite database.
type Runner struct {
	db *sql.DB
}

// CompiledQuery is a query accepted by Compile.
type CompiledQuery struct {
	text string
}

// String returns the query text.
func (q *CompiledQuery) String() string {
	return q.text
}

// NewRunner opens the embedded database.
func NewRunner() (*Runner, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open query engine: %w", err)
	}
	// every connection to :memory: is a separate database
	db.SetMaxOpenConns(1)
	return &Runner{db: db}, nil
}

// Close releases the embedded database.
func (r *Runner) Close() error {
	return r.db.Close()
}

// Compile checks that text is a single read-only query. Evaluate also runs it with the
// engine in query-only mode.
func (r *Runner) Compile(text string) (*CompiledQuery, error) {
	q := strings.TrimRight(strings.TrimSpace(text), "; \t\r\n")
	if q == "" {
		return nil, errors.NewValidationError("query", "empty query")
	}

	words, err := keywords(q)
	if err != nil {
		return nil, errors.NewValidationError("query", err.Error())
	}
	if len(words) == 0 {
		return nil, errors.NewValidationError("query", "empty query")
	}
	if !contains(readOnlyKeywords, words[0]) {
		return nil, errors.NewValidationError("query", fmt.Sprintf("%s statements are not supported", words[0]))
	}
	for _, w := range words {
		if w == ";" {
			return nil, errors.NewValidationError("query", "multiple statements are not supported")
		}
		if contains(writeKeywords, w) {
			return nil, errors.NewValidationError("query", fmt.Sprintf("%s statements are not supported", w))
		}
	}
	return &CompiledQuery{text: q}, nil
}

// Evaluate runs q with every collection of b available as a table named after its binding.
// The tables only live for the duration of the call.
func (r *Runner) Evaluate(ctx context.Context, q *CompiledQuery, b Bindings) (Collection, error) {
	if q == nil {
		return Collection{}, errors.NewValidationError("query", "query is not compiled")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return Collection{}, fmt.Errorf("failed to begin evaluation: %w", err)
	}
	defer tx.Rollback()

	for _, name := range b.Names() {
		coll, err := b.Lookup(name)
		if err != nil {
			return Collection{}, err
		}
		if err := bindTable(ctx, tx, name, coll); err != nil {
			return Collection{}, fmt.Errorf("failed to bind %q: %w", name, err)
		}
	}

	if _, err := tx.ExecContext(ctx, "PRAGMA query_only = ON"); err != nil {
		return Collection{}, fmt.Errorf("failed to enter query-only mode: %w", err)
	}
	// runs before the rollback
	defer func() {
		if _, err := tx.ExecContext(context.Background(), "PRAGMA query_only = OFF"); err != nil {
			logger.Warningf("failed to leave query-only mode: %v", err)
		}
	}()

	logger.Debugf("evaluating %q against %v", q.text, b.Names())
	rows, err := tx.QueryContext(ctx, q.text)
	if err != nil {
		return Collection{}, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return Collection{}, fmt.Errorf("failed to read result columns: %w", err)
	}

	result := Collection{Columns: columns}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return Collection{}, fmt.Errorf("failed to scan result row: %w", err)
		}

		item := make(Struct, len(columns))
		for i, col := range columns {
			item[i] = Field{Name: col, Value: normalize(values[i])}
		}
		result.Items = append(result.Items, item)
	}
	if err := rows.Err(); err != nil {
		return Collection{}, fmt.Errorf("query failed: %w", err)
	}
	return result, nil
}

// Run compiles and evaluates text in one step.
func (r *Runner) Run(ctx context.Context, text string, b Bindings) (Collection, error) {
	q, err := r.Compile(text)
	if err != nil {
		return Collection{}, err
	}
	return r.Evaluate(ctx, q, b)
}

func bindTable(ctx context.Context, tx *sql.Tx, name string, coll Collection) error {
	if len(coll.Columns) == 0 {
		return errors.NewValidationError(name, "collection has no columns")
	}

	defs := make([]string, len(coll.Columns))
	quoted := make([]string, len(coll.Columns))
	marks := make([]string, len(coll.Columns))
	for i, col := range coll.Columns {
		quoted[i] = quoteIdent(col)
		defs[i] = strings.TrimSpace(quoted[i] + " " + columnType(coll, col))
		marks[i] = "?"
	}

	create := fmt.Sprintf("CREATE TEMP TABLE %s (%s)", quoteIdent(name), strings.Join(defs, ", "))
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return err
	}

	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(name), strings.Join(quoted, ", "), strings.Join(marks, ", "))
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return err
	}
	defer stmt.Close()

	args := make([]any, len(coll.Columns))
	for _, item := range coll.Items {
		for i, col := range coll.Columns {
			args[i], _ = item.Get(col)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return err
		}
	}
	return nil
}

// columnType picks a declared type from the first non-null value of the column.
// BOOLEAN makes the driver hand booleans back as bool.
func columnType(coll Collection, col string) string {
	for _, item := range coll.Items {
		v, ok := item.Get(col)
		if !ok || v == nil {
			continue
		}
		switch v.(type) {
		case string:
			return "TEXT"
		case bool:
			return "BOOLEAN"
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32:
			return "INTEGER"
		case float32, float64:
			return "REAL"
		default:
			return ""
		}
	}
	return ""
}

func normalize(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// keywords returns the upper-cased bare words of q and a ";" for each statement
// separator. String literals, quoted identifiers and comments are skipped.
func keywords(q string) ([]string, error) {
	var words []string
	for i := 0; i < len(q); {
		c := q[i]
		switch {
		case c == '\'' || c == '"' || c == '`' || c == '[':
			closing := c
			if c == '[' {
				closing = ']'
			}
			end := strings.IndexByte(q[i+1:], closing)
			if end < 0 {
				return nil, fmt.Errorf("unterminated %c", c)
			}
			// doubled quotes escape themselves and simply start the next scan
			i += end + 2
		case c == '-' && strings.HasPrefix(q[i:], "--"):
			end := strings.IndexByte(q[i:], '\n')
			if end < 0 {
				return words, nil
			}
			i += end + 1
		case c == '/' && strings.HasPrefix(q[i:], "/*"):
			end := strings.Index(q[i+2:], "*/")
			if end < 0 {
				return nil, fmt.Errorf("unterminated comment")
			}
			i += end + 4
		case c == ';':
			words = append(words, ";")
			i++
		case isWordByte(c):
			start := i
			for i < len(q) && isWordByte(q[i]) {
				i++
			}
			words = append(words, strings.ToUpper(q[start:i]))
		default:
			i++
		}
	}
	return words, nil
}

func isWordByte(c byte) bool {
	return c == '_' || c == '$' || c >= 0x80 ||
		('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
