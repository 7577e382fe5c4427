package orchestrator

import "github.com/prometheus/client_golang/prometheus"

// Ambient observability for the sharded search path, the same
// package's collector-plus-MustRegister idiom as the
// Distributed-Search-Analytics-Platform example's pkg/metrics. Only the
// webservice response layer is out of scope (§1); a query engine's own
// per-shard timing is not.
var (
	segmentQueryDurationSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "blacklab_segment_query_duration_seconds",
		Help:    "Time spent running one segment's iterator tree to completion.",
		Buckets: prometheus.DefBuckets,
	})
	segmentQueryCancelledTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "blacklab_segment_query_cancelled_total",
		Help: "Total per-segment query runs aborted by context cancellation.",
	})
)

func init() {
	prometheus.MustRegister(segmentQueryDurationSeconds, segmentQueryCancelledTotal)
}
