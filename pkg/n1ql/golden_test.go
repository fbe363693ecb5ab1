package n1ql

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"
)

func TestRenderedStatementsGolden(t *testing.T) {
	cases := map[string]func() *QueryBuilder{
		"grouped_ordered_paged": func() *QueryBuilder {
			return NewQueryBuilder("default_bucket").
				Select("someField").
				GroupBy("someField").
				OrderBy("data.f", Desc).
				Limit(10).
				Offset(5)
		},
		"use_keys": func() *QueryBuilder {
			return NewQueryBuilder("default_bucket").
				UseKey("k1").
				UseKey("k2")
		},
		"where_and_or": func() *QueryBuilder {
			return NewQueryBuilder("default_bucket").
				Where("a=1").
				Where("b=2").
				WhereOr("c=3")
		},
		"distinct_raw_index": func() *QueryBuilder {
			return NewQueryBuilder("default_bucket").
				SelectDistinct("data.someField").
				SelectRaw().
				UseIndex("some_index_name").
				Where("type = $type")
		},
		"nested_sub_query": func() *QueryBuilder {
			inner := NewQueryBuilder("possibly_some_other_bucket").Where("type = $foo")
			return NewQueryBuilder("default_bucket").
				Select("q1.someFieldOfTheSubSelect").
				FromSubQuery(inner, "q1").
				OrderBy("q1.someFieldOfTheSubSelect", "")
		},
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata"),
		goldie.WithNameSuffix(".golden"),
	)

	for name, build := range cases {
		t.Run(name, func(t *testing.T) {
			sql, err := build().Query()
			require.NoError(t, err)
			g.Assert(t, name, []byte(sql))
		})
	}
}
