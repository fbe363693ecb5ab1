package n1ql

import (
	"strconv"
	"strings"

	"github.com/eleven-am/couchstorm/internal/logger"
)

// QueryBuilder provides a fluent interface over a Query and carries the named
// parameters that go with it.
//
// A rendered sub-query cannot carry parameter bindings, so parameters used
// inside a builder passed to FromSubQuery must be registered on the outer
// builder as well. FromSubQueryWithParameters does that merge.
type QueryBuilder struct {
	query      *Query
	parameters map[string]Param
	err        error
}

// NewQueryBuilder creates a builder. A non-empty bucketName becomes the FROM
// target.
func NewQueryBuilder(bucketName string) *QueryBuilder {
	qb := &QueryBuilder{
		query:      NewQuery(),
		parameters: make(map[string]Param),
	}
	if bucketName != "" {
		qb.query.SetSource(bucketName, "")
	}
	return qb
}

func (qb *QueryBuilder) Select(expression string) *QueryBuilder {
	qb.query.AddSelect(expression, false)
	return qb
}

func (qb *QueryBuilder) SelectDistinct(expression string) *QueryBuilder {
	qb.query.AddSelect(expression, true)
	return qb
}

func (qb *QueryBuilder) SelectMultiple(expressions ...string) *QueryBuilder {
	for _, expression := range expressions {
		qb.query.AddSelect(expression, false)
	}
	return qb
}

// SelectRaw requests a SELECT RAW projection. Exactly one item must be
// selected by the time the query is rendered.
func (qb *QueryBuilder) SelectRaw() *QueryBuilder {
	qb.query.SetSelectRaw(true)
	return qb
}

func (qb *QueryBuilder) From(name, alias string) *QueryBuilder {
	qb.err = nil
	qb.query.SetSource(name, alias)
	return qb
}

// FromSubQuery renders sub now and uses it as the FROM target. Parameters of
// sub are not copied. If sub cannot be rendered the error is reported by Query.
func (qb *QueryBuilder) FromSubQuery(sub *QueryBuilder, alias string) *QueryBuilder {
	rendered, err := sub.Query()
	if err != nil {
		qb.err = err
		return qb
	}
	qb.err = nil
	qb.query.SetSourceFromSubQuery(rendered, alias)
	return qb
}

// FromSubQueryWithParameters behaves like FromSubQuery and also merges the
// parameters of sub into this builder. Nothing is merged when sub cannot be
// rendered.
func (qb *QueryBuilder) FromSubQueryWithParameters(sub *QueryBuilder, alias string) *QueryBuilder {
	qb.FromSubQuery(sub, alias)
	if qb.err != nil {
		return qb
	}
	return qb.SetParameters(sub.parameters)
}

func (qb *QueryBuilder) Where(expression string) *QueryBuilder {
	qb.query.AddWhere(expression)
	return qb
}

func (qb *QueryBuilder) WhereOr(expression string) *QueryBuilder {
	qb.query.AddWhereOr(expression)
	return qb
}

// OrderBy adds or replaces the ordering for field. Unknown directions,
// including the empty string, mean ASC.
func (qb *QueryBuilder) OrderBy(field string, direction Direction) *QueryBuilder {
	qb.query.AddOrderBy(field, direction)
	return qb
}

func (qb *QueryBuilder) GroupBy(field string) *QueryBuilder {
	qb.query.AddGroupBy(field)
	return qb
}

func (qb *QueryBuilder) Limit(limit int) *QueryBuilder {
	qb.query.SetLimit(limit)
	return qb
}

func (qb *QueryBuilder) Offset(offset int) *QueryBuilder {
	qb.query.SetOffset(offset)
	return qb
}

// LimitString accepts a numeric string, e.g. a query-string value.
// Non-numeric input is ignored.
func (qb *QueryBuilder) LimitString(limit string) *QueryBuilder {
	if n, ok := parseCount(limit); ok {
		qb.query.SetLimit(n)
	}
	return qb
}

// OffsetString accepts a numeric string. Non-numeric input is ignored.
func (qb *QueryBuilder) OffsetString(offset string) *QueryBuilder {
	if n, ok := parseCount(offset); ok {
		qb.query.SetOffset(n)
	}
	return qb
}

func (qb *QueryBuilder) UseIndex(index string) *QueryBuilder {
	qb.query.SetUseIndex(index)
	return qb
}

func (qb *QueryBuilder) UseKey(key string) *QueryBuilder {
	qb.query.AddUseKey(key)
	return qb
}

func (qb *QueryBuilder) UseKeys(keys ...string) *QueryBuilder {
	for _, key := range keys {
		qb.query.AddUseKey(key)
	}
	return qb
}

func (qb *QueryBuilder) SetParameter(name string, value Param) *QueryBuilder {
	qb.parameters[name] = value
	return qb
}

// SetParameters merges parameters into the existing set; existing names are
// overwritten, others are kept.
func (qb *QueryBuilder) SetParameters(parameters map[string]Param) *QueryBuilder {
	for name, value := range parameters {
		qb.parameters[name] = value
	}
	return qb
}

// Parameters returns a copy of the named parameters.
func (qb *QueryBuilder) Parameters() map[string]Param {
	params := make(map[string]Param, len(qb.parameters))
	for name, value := range qb.parameters {
		params[name] = value
	}
	return params
}

// NamedParameters returns the parameters as plain values for an executor.
func (qb *QueryBuilder) NamedParameters() map[string]interface{} {
	params := make(map[string]interface{}, len(qb.parameters))
	for name, value := range qb.parameters {
		params[name] = value.Value()
	}
	return params
}

// Query renders the statement.
func (qb *QueryBuilder) Query() (string, error) {
	if qb.err != nil {
		return "", qb.err
	}

	statement, err := qb.query.Build()
	if err != nil {
		logger.Query().Debug("failed to render statement: %v", err)
		return "", err
	}

	logger.Query().WithField("parameters", len(qb.parameters)).Debug("rendered %s", statement)
	return statement, nil
}

func parseCount(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return n, true
}
