// Package cache provides a Redis-backed QueryExecutor decorator. Results are
// keyed by a hash of the statement and its named parameters.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/redis/go-redis/v9"

	"github.com/eleven-am/couchstorm/internal/logger"
	"github.com/eleven-am/couchstorm/pkg/bucket"
)

const (
	DefaultTTL    = time.Minute
	DefaultPrefix = "couchstorm:query:"
)

// Client is the subset of the Redis client used by the cache
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

var _ Client = (*redis.Client)(nil)

type Options struct {
	Address  string
	Password string
	DB       int
	TTL      time.Duration
	Prefix   string
}

// NewClient connects to the Redis server described by opts
func NewClient(opts Options) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     opts.Address,
		Password: opts.Password,
		DB:       opts.DB,
	})
}

// Executor caches results of the wrapped executor. Redis failures are logged
// and the wrapped executor is used instead; they never fail a query.
type Executor struct {
	next   bucket.QueryExecutor
	client Client
	ttl    time.Duration
	prefix string
	log    logger.Logger
}

var _ bucket.QueryExecutor = (*Executor)(nil)

func New(next bucket.QueryExecutor, client Client, opts Options) *Executor {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	prefix := opts.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}

	return &Executor{
		next:   next,
		client: client,
		ttl:    ttl,
		prefix: prefix,
		log:    logger.Cache(),
	}
}

func (e *Executor) Query(ctx context.Context, statement string, params map[string]interface{}) (*bucket.RawResult, error) {
	key, err := e.Key(statement, params)
	if err != nil {
		e.log.Warn("cannot derive cache key: %v", err)
		return e.next.Query(ctx, statement, params)
	}

	if cached, ok := e.lookup(ctx, key); ok {
		return cached, nil
	}

	raw, err := e.next.Query(ctx, statement, params)
	if err != nil {
		return nil, err
	}

	e.store(ctx, key, raw)
	return raw, nil
}

// Key returns the cache key for a statement and its parameters
func (e *Executor) Key(statement string, params map[string]interface{}) (string, error) {
	encoded, err := json.Marshal(params)
	if err != nil {
		return "", fmt.Errorf("failed to encode parameters: %w", err)
	}

	digest := xxhash.New()
	_, _ = digest.WriteString(statement)
	_, _ = digest.Write([]byte{0})
	_, _ = digest.Write(encoded)

	return e.prefix + strconv.FormatUint(digest.Sum64(), 16), nil
}

func (e *Executor) lookup(ctx context.Context, key string) (*bucket.RawResult, bool) {
	data, err := e.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		e.log.WithField("key", key).Warn("cache read failed: %v", err)
		return nil, false
	}

	var raw bucket.RawResult
	if err := json.Unmarshal(data, &raw); err != nil {
		e.log.WithField("key", key).Warn("discarding undecodable cache entry: %v", err)
		return nil, false
	}

	e.log.WithField("key", key).Debug("cache hit")
	return &raw, true
}

func (e *Executor) store(ctx context.Context, key string, raw *bucket.RawResult) {
	if raw == nil {
		return
	}

	data, err := json.Marshal(raw)
	if err != nil {
		e.log.WithField("key", key).Warn("cannot encode result for cache: %v", err)
		return
	}

	if err := e.client.Set(ctx, key, data, e.ttl).Err(); err != nil {
		e.log.WithField("key", key).Warn("cache write failed: %v", err)
	}
}
