package n1ql

import (
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
)

const distinctMarker = "DISTINCT"

// Query holds the clause state of a single N1QL statement. Mutators never
// validate; Build checks the structural invariants and renders.
type Query struct {
	selectItems []string
	selectRaw   bool
	source      string
	useIndex    string
	useKeys     []string
	whereAnd    []string
	whereOr     []string
	groupBy     []string
	orderBy     orderings
	limit       *uint64
	offset      *uint64
}

func NewQuery() *Query {
	return &Query{}
}

func (q *Query) AddSelect(expression string, distinct bool) {
	if distinct {
		expression = distinctMarker + " " + expression
	}
	q.selectItems = append(q.selectItems, strings.TrimSpace(expression))
}

func (q *Query) SetSelectRaw(raw bool) {
	q.selectRaw = raw
}

// SetSource sets a quoted keyspace as the FROM target, with an optional alias.
func (q *Query) SetSource(identifier, alias string) {
	source := "`" + identifier + "`"
	if alias != "" {
		source += " " + alias
	}
	q.source = source
}

// SetSourceFromSubQuery embeds an already rendered statement as the FROM target.
func (q *Query) SetSourceFromSubQuery(rendered, alias string) {
	q.source = fmt.Sprintf("(%s) %s", rendered, alias)
}

func (q *Query) AddUseKey(key string) {
	q.useKeys = append(q.useKeys, key)
}

func (q *Query) SetUseIndex(index string) {
	q.useIndex = index
}

func (q *Query) AddWhere(expression string) {
	q.whereAnd = append(q.whereAnd, expression)
}

func (q *Query) AddWhereOr(expression string) {
	q.whereOr = append(q.whereOr, expression)
}

func (q *Query) AddOrderBy(field string, direction Direction) {
	q.orderBy.set(field, direction.normalize())
}

func (q *Query) AddGroupBy(field string) {
	q.groupBy = append(q.groupBy, field)
}

// SetLimit ignores negative values.
func (q *Query) SetLimit(limit int) {
	if limit < 0 {
		return
	}
	l := uint64(limit)
	q.limit = &l
}

// SetOffset ignores negative values.
func (q *Query) SetOffset(offset int) {
	if offset < 0 {
		return
	}
	o := uint64(offset)
	q.offset = &o
}

// Build renders the statement. It has no side effects and can be repeated.
func (q *Query) Build() (string, error) {
	if q.selectRaw && len(q.selectItems) != 1 {
		return "", &QueryBuildError{Err: ErrRawSelectCount}
	}

	if q.source == "" {
		return "", &QueryBuildError{Err: ErrMissingSource}
	}

	options, columns := q.projection()
	builder := squirrel.Select(columns...).From(q.source)
	if len(options) > 0 {
		builder = builder.Options(options...)
	}

	if len(q.useKeys) > 0 {
		// USE KEYS ends the statement
		return q.render(builder.JoinClause(q.useKeysClause()))
	}

	if q.useIndex != "" {
		builder = builder.JoinClause(fmt.Sprintf("USE INDEX (%s USING GSI)", q.useIndex))
	}

	if where := q.whereClause(); where != "" {
		builder = builder.Where(where)
	}

	if len(q.groupBy) > 0 {
		builder = builder.GroupBy(q.groupBy...)
	}

	if q.orderBy.len() > 0 {
		builder = builder.OrderBy(q.orderBy.clauses()...)
	}

	if q.limit != nil {
		builder = builder.Limit(*q.limit)
	}

	if q.offset != nil {
		builder = builder.Offset(*q.offset)
	}

	return q.render(builder)
}

func (q *Query) render(builder squirrel.SelectBuilder) (string, error) {
	statement, _, err := builder.ToSql()
	if err != nil {
		return "", fmt.Errorf("failed to render query: %w", err)
	}
	return strings.TrimSpace(statement), nil
}

// projection returns the select options (DISTINCT/RAW markers) and columns.
func (q *Query) projection() ([]string, []string) {
	if len(q.selectItems) == 0 {
		return nil, []string{"*"}
	}

	if !q.selectRaw {
		columns := make([]string, len(q.selectItems))
		copy(columns, q.selectItems)
		return nil, columns
	}

	item := q.selectItems[0]
	if rest, ok := strings.CutPrefix(item, distinctMarker+" "); ok {
		return []string{distinctMarker, "RAW"}, []string{strings.TrimSpace(rest)}
	}
	return []string{"RAW"}, []string{item}
}

func (q *Query) whereClause() string {
	and := strings.Join(q.whereAnd, " AND ")
	or := strings.Join(q.whereOr, " OR ")

	switch {
	case and != "" && or != "":
		return and + " OR " + or
	case and != "":
		return and
	default:
		return or
	}
}

func (q *Query) useKeysClause() string {
	quoted := make([]string, len(q.useKeys))
	for i, key := range q.useKeys {
		quoted[i] = `"` + key + `"`
	}
	return fmt.Sprintf("USE KEYS [%s]", strings.Join(quoted, ", "))
}
