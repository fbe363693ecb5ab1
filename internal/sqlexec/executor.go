// Package sqlexec runs N1QL statements through a database/sql driver, such as
// a N1QL driver talking to the query service. Named $parameters are bound
// positionally with the driver's bind style.
package sqlexec

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/eleven-am/couchstorm/pkg/bucket"
)

var namedParameter = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)

// Executor implements bucket.QueryExecutor on top of sqlx
type Executor struct {
	db *sqlx.DB
}

var _ bucket.QueryExecutor = (*Executor)(nil)

func New(db *sqlx.DB) *Executor {
	return &Executor{db: db}
}

// Bind rewrites $name parameters into the driver's positional bind variables
// and returns the matching argument list. Colons already in the statement,
// such as those in string literals or object constructors, are kept literal.
func (e *Executor) Bind(statement string, params map[string]interface{}) (string, []interface{}, error) {
	if params == nil {
		params = map[string]interface{}{}
	}

	escaped := strings.ReplaceAll(statement, ":", "::")
	named := namedParameter.ReplaceAllString(escaped, ":$1")

	query, args, err := sqlx.Named(named, params)
	if err != nil {
		return "", nil, fmt.Errorf("failed to bind parameters: %w", err)
	}

	return e.db.Rebind(query), args, nil
}

func (e *Executor) Query(ctx context.Context, statement string, params map[string]interface{}) (*bucket.RawResult, error) {
	query, args, err := e.Bind(statement, params)
	if err != nil {
		return nil, err
	}

	rows, err := e.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	result := &bucket.RawResult{Rows: make([]interface{}, 0)}
	for rows.Next() {
		row := make(map[string]interface{})
		if err := rows.MapScan(row); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		result.Rows = append(result.Rows, normalizeColumns(row))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	count := uint64(len(result.Rows))
	result.Metrics = &bucket.Metrics{ResultCount: count}

	return result, nil
}

// normalizeColumns turns driver byte slices into strings so rows match what
// the query service returns as JSON.
func normalizeColumns(row map[string]interface{}) map[string]interface{} {
	for column, value := range row {
		if b, ok := value.([]byte); ok {
			row[column] = string(b)
		}
	}
	return row
}
