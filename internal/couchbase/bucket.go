package couchbase

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/couchbase/gocb/v2"

	"github.com/eleven-am/couchstorm/pkg/bucket"
)

// Bucket serves documents and queries of one bucket's default collection
type Bucket struct {
	cluster    *gocb.Cluster
	bucket     *gocb.Bucket
	collection *gocb.Collection
}

var (
	_ bucket.DocumentStore = (*Bucket)(nil)
	_ bucket.QueryExecutor = (*Bucket)(nil)
)

func (b *Bucket) Name() string {
	return b.bucket.Name()
}

func (b *Bucket) Get(ctx context.Context, key string) (json.RawMessage, error) {
	res, err := b.collection.Get(key, &gocb.GetOptions{Context: ctx})
	if err != nil {
		return nil, translate(err)
	}

	var doc json.RawMessage
	if err := res.Content(&doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (b *Bucket) Upsert(ctx context.Context, key string, value interface{}, expiry time.Duration) error {
	_, err := b.collection.Upsert(key, value, &gocb.UpsertOptions{
		Context: ctx,
		Expiry:  expiry,
	})
	return translate(err)
}

func (b *Bucket) Remove(ctx context.Context, key string) error {
	_, err := b.collection.Remove(key, &gocb.RemoveOptions{Context: ctx})
	return translate(err)
}

// Query runs statement with metrics enabled so result counts are available
func (b *Bucket) Query(ctx context.Context, statement string, params map[string]interface{}) (*bucket.RawResult, error) {
	res, err := b.cluster.Query(statement, &gocb.QueryOptions{
		Context:         ctx,
		NamedParameters: params,
		Metrics:         true,
	})
	if err != nil {
		return nil, translate(err)
	}
	defer res.Close()

	raw := &bucket.RawResult{Rows: make([]interface{}, 0)}
	for res.Next() {
		var row interface{}
		if err := res.Row(&row); err != nil {
			return nil, err
		}
		raw.Rows = append(raw.Rows, row)
	}

	if err := res.Err(); err != nil {
		return nil, translate(err)
	}

	if meta, err := res.MetaData(); err == nil {
		raw.Metrics = metricsOf(meta.Metrics)
	}

	return raw, nil
}

// Close disconnects from the cluster
func (b *Bucket) Close() error {
	return b.cluster.Close(nil)
}

func metricsOf(m gocb.QueryMetrics) *bucket.Metrics {
	metrics := &bucket.Metrics{ResultCount: m.ResultCount}
	if m.SortCount > 0 {
		sortCount := m.SortCount
		metrics.SortCount = &sortCount
	}
	return metrics
}

// translate maps SDK errors onto the repository's common errors
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gocb.ErrDocumentNotFound):
		return bucket.ErrDocumentNotFound
	case errors.Is(err, gocb.ErrTimeout), errors.Is(err, gocb.ErrUnambiguousTimeout), errors.Is(err, gocb.ErrAmbiguousTimeout):
		return errors.Join(bucket.ErrTimeout, err)
	case errors.Is(err, gocb.ErrRequestCanceled):
		return errors.Join(bucket.ErrCanceled, err)
	default:
		return err
	}
}
