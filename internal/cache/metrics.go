package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_requests_total",
			Help: "Cacheable requests by outcome (hit, miss, bypass)",
		},
		[]string{"outcome"},
	)

	invalidationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_invalidations_total",
			Help: "Invalidation tasks processed, by resource family",
		},
		[]string{"family"},
	)

	invalidationFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cache_invalidation_failures_total",
			Help: "Invalidation tasks that failed against the store",
		},
	)

	invalidationDroppedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cache_invalidation_dropped_total",
			Help: "Invalidation tasks dropped because the queue was full",
		},
	)
)
