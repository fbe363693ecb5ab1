// Package couchbase adapts the Couchbase Go SDK to the bucket repository's
// DocumentStore and QueryExecutor interfaces.
package couchbase

import (
	"fmt"
	"strings"
	"time"

	"github.com/couchbase/gocb/v2"

	"github.com/eleven-am/couchstorm/internal/logger"
)

const DefaultTimeout = 10 * time.Second

// ClusterFactory holds what is needed to connect to a cluster
type ClusterFactory struct {
	Host     string
	Username string
	Password string
	Timeout  time.Duration
}

func NewClusterFactory(host, username, password string) *ClusterFactory {
	return &ClusterFactory{
		Host:     host,
		Username: username,
		Password: password,
		Timeout:  DefaultTimeout,
	}
}

// ConnectionString returns the couchbase:// URL for Host. Hosts that already
// carry a scheme are used as given.
func (f *ClusterFactory) ConnectionString() string {
	if strings.Contains(f.Host, "://") {
		return f.Host
	}
	return "couchbase://" + f.Host
}

// Create connects to the cluster
func (f *ClusterFactory) Create() (*gocb.Cluster, error) {
	timeout := f.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	logger.DB().WithField("host", f.Host).Debug("connecting to cluster")

	cluster, err := gocb.Connect(f.ConnectionString(), gocb.ClusterOptions{
		Authenticator: gocb.PasswordAuthenticator{
			Username: f.Username,
			Password: f.Password,
		},
		TimeoutsConfig: gocb.TimeoutsConfig{
			ConnectTimeout: timeout,
			KVTimeout:      timeout,
			QueryTimeout:   timeout,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", f.Host, err)
	}

	return cluster, nil
}

// OpenBucket connects and waits until bucketName is ready for use
func (f *ClusterFactory) OpenBucket(bucketName string) (*Bucket, error) {
	cluster, err := f.Create()
	if err != nil {
		return nil, err
	}

	b := cluster.Bucket(bucketName)
	if err := b.WaitUntilReady(f.Timeout, nil); err != nil {
		_ = cluster.Close(nil)
		return nil, fmt.Errorf("bucket %s not ready: %w", bucketName, err)
	}

	return &Bucket{
		cluster:    cluster,
		bucket:     b,
		collection: b.DefaultCollection(),
	}, nil
}
