package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blog_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "blog_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// CacheResults counts post cache lookups by outcome (hit, miss).
	CacheResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blog_cache_results_total",
		Help: "Total number of cache lookups by outcome",
	}, []string{"outcome"})

	// LikeEvents counts like and unlike operations that changed state.
	LikeEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blog_like_events_total",
		Help: "Total number of like state changes by action",
	}, []string{"action"})

	// AuthEvents counts signup, login and logout outcomes.
	AuthEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blog_auth_events_total",
		Help: "Total number of auth events by action and result",
	}, []string{"action", "result"})
)

// ObserveQuery records the latency of a database query started at start.
func ObserveQuery(operation, table string, start time.Time) {
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
}
