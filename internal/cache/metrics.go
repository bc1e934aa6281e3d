package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the cache layer. Registered once at package
// init on the default registry and exported by the server's /metrics
// endpoint.
var (
	cacheReads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ecocollect_cache_reads_total",
		Help: "Cache reads by outcome (ok, miss, unavailable)",
	}, []string{"outcome"})

	cacheWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ecocollect_cache_writes_total",
		Help: "Cache writes by outcome (ok, failed, unavailable)",
	}, []string{"outcome"})

	rateLimitChecks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ecocollect_ratelimit_checks_total",
		Help: "Rate limit checks by outcome (allowed, denied, open)",
	}, []string{"outcome"})

	queueOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ecocollect_notification_queue_ops_total",
		Help: "Notification queue operations by type (enqueue, dequeue, empty)",
	}, []string{"op"})

	pubsubSubscribers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ecocollect_pubsub_subscribers_active",
		Help: "Number of live pub/sub subscriptions",
	})
)
