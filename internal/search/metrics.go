package search

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	searchRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_requests_total",
			Help: "Total number of search queries served, by backend",
		},
		[]string{"backend", "operation"},
	)

	indexFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_index_failures_total",
			Help: "Total number of index maintenance operations that failed",
		},
		[]string{"operation"},
	)
)
