package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/eleven-am/couchstorm/pkg/n1ql"
)

// QueryDefinition is a YAML description of a statement. Each field maps onto
// the builder call of the same name.
type QueryDefinition struct {
	From           string                 `yaml:"from"`
	Alias          string                 `yaml:"alias"`
	SubQuery       *QueryDefinition       `yaml:"sub_query"`
	Select         []string               `yaml:"select"`
	SelectDistinct []string               `yaml:"select_distinct"`
	Raw            bool                   `yaml:"raw"`
	UseIndex       string                 `yaml:"use_index"`
	UseKeys        []string               `yaml:"use_keys"`
	Where          []string               `yaml:"where"`
	WhereOr        []string               `yaml:"where_or"`
	GroupBy        []string               `yaml:"group_by"`
	OrderBy        []OrderDefinition      `yaml:"order_by"`
	Limit          *int                   `yaml:"limit"`
	Offset         *int                   `yaml:"offset"`
	Parameters     map[string]interface{} `yaml:"parameters"`
}

type OrderDefinition struct {
	Field     string `yaml:"field"`
	Direction string `yaml:"direction"`
}

func LoadQueryDefinition(path string) (*QueryDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read query definition: %w", err)
	}

	var def QueryDefinition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("failed to parse query definition: %w", err)
	}

	return &def, nil
}

// Builder turns the definition into a query builder. defaultBucket is used
// when neither from nor sub_query is given. Parameters of a sub-query are
// merged into the outer builder.
func (d *QueryDefinition) Builder(defaultBucket string) (*n1ql.QueryBuilder, error) {
	qb := n1ql.NewQueryBuilder("")

	switch {
	case d.SubQuery != nil:
		if d.Alias == "" {
			return nil, fmt.Errorf("sub_query requires an alias")
		}
		inner, err := d.SubQuery.Builder(defaultBucket)
		if err != nil {
			return nil, fmt.Errorf("sub_query: %w", err)
		}
		qb.FromSubQueryWithParameters(inner, d.Alias)
	case d.From != "":
		qb.From(d.From, d.Alias)
	case defaultBucket != "":
		qb.From(defaultBucket, d.Alias)
	}

	qb.SelectMultiple(d.Select...)
	for _, expression := range d.SelectDistinct {
		qb.SelectDistinct(expression)
	}
	if d.Raw {
		qb.SelectRaw()
	}

	if d.UseIndex != "" {
		qb.UseIndex(d.UseIndex)
	}
	qb.UseKeys(d.UseKeys...)

	for _, expression := range d.Where {
		qb.Where(expression)
	}
	for _, expression := range d.WhereOr {
		qb.WhereOr(expression)
	}
	for _, field := range d.GroupBy {
		qb.GroupBy(field)
	}
	for _, order := range d.OrderBy {
		qb.OrderBy(order.Field, n1ql.Direction(order.Direction))
	}

	if d.Limit != nil {
		qb.Limit(*d.Limit)
	}
	if d.Offset != nil {
		qb.Offset(*d.Offset)
	}

	params, err := convertParameters(d.Parameters)
	if err != nil {
		return nil, err
	}
	qb.SetParameters(params)

	return qb, nil
}

func convertParameters(raw map[string]interface{}) (map[string]n1ql.Param, error) {
	params := make(map[string]n1ql.Param, len(raw))
	for name, value := range raw {
		param, err := n1ql.ParamOf(value)
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %w", name, err)
		}
		params[name] = param
	}
	return params, nil
}
