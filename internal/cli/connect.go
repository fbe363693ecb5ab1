package cli

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/eleven-am/couchstorm/internal/cache"
	"github.com/eleven-am/couchstorm/internal/couchbase"
	"github.com/eleven-am/couchstorm/internal/logger"
	"github.com/eleven-am/couchstorm/internal/metrics"
	"github.com/eleven-am/couchstorm/pkg/bucket"
)

var metricsFile string

func init() {
	for _, cmd := range []*cobra.Command{queryCmd, getCmd, upsertCmd, removeCmd} {
		cmd.Flags().StringVar(&metricsFile, "metrics-file", "", "Write operation metrics to this file in Prometheus text format")
	}
}

// session is an open repository plus everything that must be released with it
type session struct {
	repo     *bucket.Repository
	bucket   *couchbase.Bucket
	registry *prometheus.Registry
}

func openSession(withCache bool) (*session, error) {
	if config == nil {
		config = DefaultConfig()
	}

	factory := couchbase.NewClusterFactory(config.Cluster.Host, config.Cluster.Username, config.Cluster.Password)
	factory.Timeout = config.Cluster.Timeout

	b, err := factory.OpenBucket(bucketName)
	if err != nil {
		return nil, err
	}

	var executor bucket.QueryExecutor = b
	if withCache && config.Cache.Enabled {
		opts := cache.Options{
			Address:  config.Cache.Address,
			Password: config.Cache.Password,
			DB:       config.Cache.DB,
			TTL:      config.Cache.TTL,
			Prefix:   config.Cache.Prefix,
		}
		executor = cache.New(b, cache.NewClient(opts), opts)
		logger.CLI().WithField("address", opts.Address).Debug("query cache enabled")
	}

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	repo := bucket.New(bucketName, b, executor,
		bucket.WithMiddleware(
			collector.Middleware(),
			bucket.LoggingMiddleware(logger.Bucket()),
		),
	)

	return &session{repo: repo, bucket: b, registry: registry}, nil
}

func (s *session) Close() error {
	if metricsFile != "" {
		if err := prometheus.WriteToTextfile(metricsFile, s.registry); err != nil {
			logger.CLI().Warn("failed to write metrics: %v", err)
		}
	}

	if err := s.bucket.Close(); err != nil {
		return fmt.Errorf("failed to close cluster connection: %w", err)
	}
	return nil
}
