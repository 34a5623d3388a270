package extender

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "extender_requests_total",
		Help: "Scheduler extender requests by endpoint.",
	}, []string{"endpoint"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "extender_request_duration_seconds",
		Help:    "Scheduler extender request latency by endpoint.",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})

	uniformFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "extender_uniform_score_fallbacks_total",
		Help: "Prioritize calls answered with the uniform neutral score.",
	})

	filteredNodes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "extender_filtered_nodes_total",
		Help: "Nodes accepted or rejected by the admission filter.",
	}, []string{"verdict"})
)
