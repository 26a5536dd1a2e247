package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	rpcRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "octra",
			Subsystem: "rpc",
			Name:      "requests_total",
			Help:      "Total number of node RPC requests",
		},
		[]string{"method", "path", "status"}, // status 0 = transport failure
	)

	rpcRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "octra",
			Subsystem: "rpc",
			Name:      "request_duration_seconds",
			Help:      "Node RPC latency in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	submissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "octra",
			Subsystem: "tx",
			Name:      "submissions_total",
			Help:      "Total number of transaction submissions by outcome",
		},
		[]string{"outcome"}, // accepted, rejected, transport
	)

	lastPoolSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "octra",
			Subsystem: "tx",
			Name:      "last_pool_size",
			Help:      "Staging pool size reported by the last accepted submission",
		},
	)
)

// RecordRPC records one node request. path must be the route pattern, not the
// concrete URL, to keep label cardinality bounded.
func RecordRPC(method, path string, status int, elapsed time.Duration) {
	rpcRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	rpcRequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// RecordSubmission counts a submission outcome.
func RecordSubmission(outcome string) {
	submissionsTotal.WithLabelValues(outcome).Inc()
}

// RecordPoolSize stores the pool depth returned on acceptance.
func RecordPoolSize(size int) {
	lastPoolSize.Set(float64(size))
}
