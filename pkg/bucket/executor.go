package bucket

import (
	"context"
	"encoding/json"
	"time"
)

// QueryExecutor runs a rendered N1QL statement with its named parameters.
// Implementations exist for the Couchbase SDK, database/sql drivers and a
// Redis-backed cache.
type QueryExecutor interface {
	Query(ctx context.Context, statement string, params map[string]interface{}) (*RawResult, error)
}

// DocumentStore provides key/value access to documents of one bucket.
// Get returns ErrDocumentNotFound when the key does not exist.
type DocumentStore interface {
	Get(ctx context.Context, key string) (json.RawMessage, error)
	Upsert(ctx context.Context, key string, value interface{}, expiry time.Duration) error
	Remove(ctx context.Context, key string) error
}

// RawResult is the unprocessed result of a statement. Rows hold decoded JSON
// values, usually objects wrapped under the keyspace name.
type RawResult struct {
	Rows    []interface{} `json:"rows"`
	Metrics *Metrics      `json:"metrics,omitempty"`
}

// Metrics reported by the query service. SortCount is only present when the
// statement was ordered and paginated.
type Metrics struct {
	ResultCount uint64  `json:"resultCount"`
	SortCount   *uint64 `json:"sortCount,omitempty"`
}
