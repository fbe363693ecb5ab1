// Package metrics records bucket repository operations as Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/eleven-am/couchstorm/pkg/bucket"
)

const (
	statusOK       = "ok"
	statusNotFound = "not_found"
	statusError    = "error"
)

// Collector holds the operation counters and latency histogram
type Collector struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewCollector creates the metrics and registers them with reg
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "couchstorm",
			Name:      "operations_total",
			Help:      "Number of bucket operations by outcome.",
		}, []string{"bucket", "operation", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "couchstorm",
			Name:      "operation_duration_seconds",
			Help:      "A histogram of duration, in seconds, of bucket operations.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 15),
		}, []string{"bucket", "operation"}),
	}

	reg.MustRegister(c.operations, c.duration)
	return c
}

// Middleware returns a repository middleware that observes every operation
func (c *Collector) Middleware() bucket.Middleware {
	return func(next bucket.OperationFunc) bucket.OperationFunc {
		return func(ctx *bucket.MiddlewareContext) error {
			err := next(ctx)

			op := string(ctx.Operation)
			c.operations.WithLabelValues(ctx.Bucket, op, status(err)).Inc()
			c.duration.WithLabelValues(ctx.Bucket, op).Observe(ctx.Duration.Seconds())

			return err
		}
	}
}

func status(err error) string {
	switch {
	case err == nil:
		return statusOK
	case bucket.IsNotFound(err):
		return statusNotFound
	default:
		return statusError
	}
}
