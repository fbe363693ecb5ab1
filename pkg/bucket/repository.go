package bucket

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/eleven-am/couchstorm/pkg/n1ql"
)

const defaultConcurrency = 8

// Repository gives access to the documents of a single bucket, either by key
// or through N1QL statements built with a n1ql.QueryBuilder.
type Repository struct {
	bucketName        string
	store             DocumentStore
	executor          QueryExecutor
	middlewareManager *middlewareManager
	concurrency       int
}

// Option configures a Repository
type Option func(*Repository)

// WithMiddleware adds middleware around every operation
func WithMiddleware(middleware ...Middleware) Option {
	return func(r *Repository) {
		for _, m := range middleware {
			r.middlewareManager.add(m)
		}
	}
}

// WithConcurrency bounds the number of parallel reads made by GetByKeys
func WithConcurrency(n int) Option {
	return func(r *Repository) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

func New(bucketName string, store DocumentStore, executor QueryExecutor, opts ...Option) *Repository {
	r := &Repository{
		bucketName:        bucketName,
		store:             store,
		executor:          executor,
		middlewareManager: newMiddlewareManager(),
		concurrency:       defaultConcurrency,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

func (r *Repository) BucketName() string {
	return r.bucketName
}

func (r *Repository) AddMiddleware(middleware Middleware) {
	r.middlewareManager.add(middleware)
}

func (r *Repository) execute(ctx context.Context, mc *MiddlewareContext, finalFunc OperationFunc) error {
	mc.Bucket = r.bucketName
	mc.Context = ctx
	mc.StartTime = time.Now()
	mc.Metadata = make(map[string]interface{})

	return r.middlewareManager.execute(mc, finalFunc)
}

// GetByKey fetches a document by key. A missing document yields nil, nil.
func (r *Repository) GetByKey(ctx context.Context, key string) (map[string]interface{}, error) {
	var doc map[string]interface{}

	err := r.execute(ctx, &MiddlewareContext{Operation: OpGet, Key: key}, func(mc *MiddlewareContext) error {
		raw, err := r.store.Get(mc.Context, mc.Key)
		if err != nil {
			return classify(err, "get", r.bucketName, mc.Key)
		}

		if err := json.Unmarshal(raw, &doc); err != nil {
			return &Error{
				Op:     "get",
				Bucket: r.bucketName,
				Key:    mc.Key,
				Err:    fmt.Errorf("failed to decode document: %w", err),
			}
		}

		mc.Value = doc
		return nil
	})

	if IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return doc, nil
}

// GetByKeys fetches several documents concurrently. Missing documents are
// left out of the returned map.
func (r *Repository) GetByKeys(ctx context.Context, keys ...string) (map[string]map[string]interface{}, error) {
	docs := make(map[string]map[string]interface{}, len(keys))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for _, key := range keys {
		g.Go(func() error {
			doc, err := r.GetByKey(gctx, key)
			if err != nil {
				return err
			}
			if doc == nil {
				return nil
			}

			mu.Lock()
			docs[key] = doc
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return docs, nil
}

// Upsert creates or replaces a document. A zero expiry keeps the document
// until it is removed.
func (r *Repository) Upsert(ctx context.Context, key string, value interface{}, expiry time.Duration) error {
	return r.execute(ctx, &MiddlewareContext{Operation: OpUpsert, Key: key, Value: value}, func(mc *MiddlewareContext) error {
		if err := r.store.Upsert(mc.Context, mc.Key, mc.Value, expiry); err != nil {
			return classify(err, "upsert", r.bucketName, mc.Key)
		}
		return nil
	})
}

// Remove deletes a document. Removing a missing document is not an error.
func (r *Repository) Remove(ctx context.Context, key string) error {
	err := r.execute(ctx, &MiddlewareContext{Operation: OpRemove, Key: key}, func(mc *MiddlewareContext) error {
		if err := r.store.Remove(mc.Context, mc.Key); err != nil {
			return classify(err, "remove", r.bucketName, mc.Key)
		}
		return nil
	})

	if IsNotFound(err) {
		return nil
	}
	return err
}

func (r *Repository) query(ctx context.Context, statement string, params map[string]interface{}) (*RawResult, error) {
	var raw *RawResult

	mc := &MiddlewareContext{
		Operation:  OpQuery,
		Statement:  statement,
		Parameters: params,
	}

	err := r.execute(ctx, mc, func(mc *MiddlewareContext) error {
		result, err := r.executor.Query(mc.Context, mc.Statement, mc.Parameters)
		if err != nil {
			e := classify(err, "query", r.bucketName, "")
			if bucketErr, ok := e.(*Error); ok && bucketErr.Statement == "" {
				bucketErr.Statement = mc.Statement
			}
			return e
		}
		raw = result
		return nil
	})

	return raw, err
}

// ExecuteQuery runs a hand-written statement and returns normalized rows.
func (r *Repository) ExecuteQuery(ctx context.Context, statement string, params map[string]n1ql.Param) ([]interface{}, error) {
	named := make(map[string]interface{}, len(params))
	for name, value := range params {
		named[name] = value.Value()
	}

	raw, err := r.query(ctx, statement, named)
	if err != nil {
		return nil, err
	}

	return normalizeRows(raw, r.bucketName), nil
}

// ExecuteQueryWithOneResult returns the first normalized row, or nil when the
// statement returned nothing.
func (r *Repository) ExecuteQueryWithOneResult(ctx context.Context, statement string, params map[string]n1ql.Param) (interface{}, error) {
	rows, err := r.ExecuteQuery(ctx, statement, params)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// CreateQueryBuilder returns a builder selecting from this bucket
func (r *Repository) CreateQueryBuilder() *n1ql.QueryBuilder {
	return n1ql.NewQueryBuilder(r.bucketName)
}

// GetResultUnprocessed renders qb and returns what the executor produced,
// without normalization. Render failures are returned unchanged.
func (r *Repository) GetResultUnprocessed(ctx context.Context, qb *n1ql.QueryBuilder) (*RawResult, error) {
	statement, err := qb.Query()
	if err != nil {
		return nil, err
	}

	return r.query(ctx, statement, qb.NamedParameters())
}

// GetResult renders and executes qb and returns normalized rows with counts.
func (r *Repository) GetResult(ctx context.Context, qb *n1ql.QueryBuilder) (*Result, error) {
	raw, err := r.GetResultUnprocessed(ctx, qb)
	if err != nil {
		return nil, err
	}

	return newResult(raw, r.bucketName), nil
}

// GetResultAsArray is GetResult without the counts
func (r *Repository) GetResultAsArray(ctx context.Context, qb *n1ql.QueryBuilder) ([]interface{}, error) {
	result, err := r.GetResult(ctx, qb)
	if err != nil {
		return nil, err
	}

	return result.Rows(), nil
}
