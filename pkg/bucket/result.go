package bucket

import (
	"encoding/json"
	"fmt"
)

// Result is a normalized query result. Count is the number of rows returned;
// TotalCount is the number of rows that matched before LIMIT/OFFSET when the
// query service reported it.
type Result struct {
	rows       []interface{}
	count      int
	totalCount int
}

// NewResult wraps already normalized rows. Count and TotalCount default to
// the number of rows.
func NewResult(rows []interface{}) *Result {
	if rows == nil {
		rows = []interface{}{}
	}
	return &Result{
		rows:       rows,
		count:      len(rows),
		totalCount: len(rows),
	}
}

func (r *Result) Rows() []interface{} {
	return r.rows
}

func (r *Result) Len() int {
	return len(r.rows)
}

// At returns the row at index i
func (r *Result) At(i int) (interface{}, bool) {
	if i < 0 || i >= len(r.rows) {
		return nil, false
	}
	return r.rows[i], true
}

func (r *Result) Count() int {
	return r.count
}

func (r *Result) TotalCount() int {
	return r.totalCount
}

func (r *Result) SetCount(count int) *Result {
	r.count = count
	return r
}

func (r *Result) SetTotalCount(totalCount int) *Result {
	r.totalCount = totalCount
	return r
}

// Decode converts the rows into dest, which must be a pointer to a slice.
func (r *Result) Decode(dest interface{}) error {
	data, err := json.Marshal(r.rows)
	if err != nil {
		return fmt.Errorf("failed to encode rows: %w", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to decode rows: %w", err)
	}
	return nil
}

func (r *Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.rows)
}

// normalizeRows strips the keyspace wrapping the query service puts around
// each row: a single-member object unwraps to that member, an object that
// carries a member named after the bucket unwraps to it, anything else is kept.
func normalizeRows(raw *RawResult, bucketName string) []interface{} {
	if raw == nil || raw.Rows == nil {
		return []interface{}{}
	}

	rows := make([]interface{}, 0, len(raw.Rows))
	for _, row := range raw.Rows {
		rows = append(rows, normalizeRow(row, bucketName))
	}
	return rows
}

func normalizeRow(row interface{}, bucketName string) interface{} {
	object, ok := row.(map[string]interface{})
	if !ok {
		return row
	}

	if len(object) == 1 {
		for _, value := range object {
			return value
		}
	}

	if value, ok := object[bucketName]; ok {
		return value
	}

	return row
}

// newResult builds a Result from a raw result, taking counts from the query
// metrics when present.
func newResult(raw *RawResult, bucketName string) *Result {
	result := NewResult(normalizeRows(raw, bucketName))

	if raw == nil || raw.Metrics == nil {
		return result
	}

	count := int(raw.Metrics.ResultCount)
	total := count
	if raw.Metrics.SortCount != nil {
		total = int(*raw.Metrics.SortCount)
	}

	return result.SetCount(count).SetTotalCount(total)
}
