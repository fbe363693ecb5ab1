package n1ql

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryBuild(t *testing.T) {
	t.Run("empty select renders star", func(t *testing.T) {
		q := NewQuery()
		q.SetSource("default_bucket", "")

		sql, err := q.Build()
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM `default_bucket`", sql)
	})

	t.Run("select items keep insertion order", func(t *testing.T) {
		q := NewQuery()
		q.SetSource("default_bucket", "d")
		q.AddSelect("b", false)
		q.AddSelect("a", false)
		q.AddSelect("  c  ", true)

		sql, err := q.Build()
		require.NoError(t, err)
		assert.Equal(t, "SELECT b, a, DISTINCT c FROM `default_bucket` d", sql)
	})

	t.Run("raw with one item", func(t *testing.T) {
		q := NewQuery()
		q.SetSource("default_bucket", "")
		q.AddSelect("data.someField", false)
		q.SetSelectRaw(true)

		sql, err := q.Build()
		require.NoError(t, err)
		assert.Equal(t, "SELECT RAW data.someField FROM `default_bucket`", sql)
	})

	t.Run("raw with distinct item", func(t *testing.T) {
		q := NewQuery()
		q.SetSource("default_bucket", "")
		q.AddSelect("data.someField", true)
		q.SetSelectRaw(true)

		sql, err := q.Build()
		require.NoError(t, err)
		assert.Equal(t, "SELECT DISTINCT RAW data.someField FROM `default_bucket`", sql)
	})

	t.Run("raw select count must be one", func(t *testing.T) {
		for _, items := range [][]string{nil, {"a", "b"}} {
			q := NewQuery()
			q.SetSource("default_bucket", "")
			for _, item := range items {
				q.AddSelect(item, false)
			}
			q.SetSelectRaw(true)

			_, err := q.Build()
			require.Error(t, err)
			assert.True(t, IsQueryBuildError(err))
			assert.True(t, errors.Is(err, ErrRawSelectCount))
			assert.Equal(t, "Can only use 'SELECT RAW' when exactly one property is selected.", err.Error())
		}
	})

	t.Run("missing source fails regardless of other clauses", func(t *testing.T) {
		q := NewQuery()
		q.AddSelect("a", false)
		q.AddWhere("a = 1")
		q.AddUseKey("k1")
		q.SetLimit(3)

		_, err := q.Build()
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrMissingSource))
		assert.Equal(t, "Can't build query because of missing source clause.", err.Error())
	})

	t.Run("where groups", func(t *testing.T) {
		q := NewQuery()
		q.SetSource("b", "")
		q.AddWhere("a=1")
		q.AddWhere("b=2")
		q.AddWhereOr("c=3")

		sql, err := q.Build()
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM `b` WHERE a=1 AND b=2 OR c=3", sql)
	})

	t.Run("where with only or fragments", func(t *testing.T) {
		q := NewQuery()
		q.SetSource("b", "")
		q.AddWhereOr("c=3")
		q.AddWhereOr("d=4")

		sql, err := q.Build()
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM `b` WHERE c=3 OR d=4", sql)
	})

	t.Run("order by overwrites direction in place", func(t *testing.T) {
		q := NewQuery()
		q.SetSource("b", "")
		q.AddOrderBy("f", Asc)
		q.AddOrderBy("g", Desc)
		q.AddOrderBy("f", Desc)

		sql, err := q.Build()
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM `b` ORDER BY f DESC, g DESC", sql)
	})

	t.Run("unknown direction normalizes to asc", func(t *testing.T) {
		q := NewQuery()
		q.SetSource("b", "")
		q.AddOrderBy("f", "sideways")
		q.AddOrderBy("g", "desc")
		q.AddOrderBy("h", "")

		sql, err := q.Build()
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM `b` ORDER BY f ASC, g ASC, h ASC", sql)
	})

	t.Run("use keys ends the statement", func(t *testing.T) {
		q := NewQuery()
		q.SetSource("b", "")
		q.AddUseKey("k1")
		q.AddUseKey("k2")
		q.SetUseIndex("idx")
		q.AddWhere("a = 1")
		q.AddGroupBy("a")
		q.AddOrderBy("a", Desc)
		q.SetLimit(10)
		q.SetOffset(5)

		sql, err := q.Build()
		require.NoError(t, err)
		assert.Equal(t, `SELECT * FROM `+"`b`"+` USE KEYS ["k1", "k2"]`, sql)
	})

	t.Run("use index", func(t *testing.T) {
		q := NewQuery()
		q.SetSource("b", "")
		q.SetUseIndex("some_index_name")
		q.AddWhere("type = $type")

		sql, err := q.Build()
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM `b` USE INDEX (some_index_name USING GSI) WHERE type = $type", sql)
	})

	t.Run("negative limit and offset are ignored", func(t *testing.T) {
		q := NewQuery()
		q.SetSource("b", "")
		q.SetLimit(10)
		q.SetLimit(-1)
		q.SetOffset(-5)

		sql, err := q.Build()
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM `b` LIMIT 10", sql)
	})

	t.Run("zero limit and offset are rendered", func(t *testing.T) {
		q := NewQuery()
		q.SetSource("b", "")
		q.SetLimit(0)
		q.SetOffset(0)

		sql, err := q.Build()
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM `b` LIMIT 0 OFFSET 0", sql)
	})

	t.Run("sub query source", func(t *testing.T) {
		q := NewQuery()
		q.SetSourceFromSubQuery("SELECT * FROM `other`", "q1")

		sql, err := q.Build()
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM (SELECT * FROM `other`) q1", sql)
	})

	t.Run("build is idempotent", func(t *testing.T) {
		q := NewQuery()
		q.SetSource("b", "")
		q.AddSelect("a", false)
		q.AddOrderBy("a", Desc)

		first, err := q.Build()
		require.NoError(t, err)
		second, err := q.Build()
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}
