// Package telemetry performs bounded-timeout instant queries against
// Prometheus. Every lookup is a single best-effort attempt: a miss or timeout
// resolves to a documented neutral default rather than an error, because the
// scheduler's admission path must never wait on retries.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/api"
	promv1 "github.com/prometheus/client_golang/api/prometheus/v1"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/model"
	"go.uber.org/zap"
)

// Neutral defaults for unavailable telemetry. Loads default to zero, which
// fails open: an unreachable node looks idle. This bias is known and counted
// (see queryFailures) rather than silently corrected.
const DefaultLoad = 0.0

var queryFailures = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "extender_telemetry_query_failures_total",
	Help: "Instant metric queries that returned no usable sample",
}, []string{"metric"})

// Client answers the per-node utilization and latency lookups the feature
// pipeline needs.
type Client interface {
	// NodeCPULoad returns the node's CPU utilization in [0,1]; DefaultLoad
	// when unavailable.
	NodeCPULoad(ctx context.Context, node string) float64

	// NodeMemoryLoad returns the node's memory utilization in [0,1];
	// DefaultLoad when unavailable.
	NodeMemoryLoad(ctx context.Context, node string) float64

	// NodeNetworkLatencyMs returns the mean RTT toward the node in
	// milliseconds, or nil when unmeasured.
	NodeNetworkLatencyMs(ctx context.Context, node string) *float64
}

// PromClient implements Client against the Prometheus HTTP API, with an
// optional short-TTL sample cache in front of it.
type PromClient struct {
	api      promv1.API
	timeout  time.Duration
	cache    Store // may be nil
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewPromClient creates a telemetry client for the given Prometheus base URL.
// cache may be nil to disable caching.
func NewPromClient(baseURL string, timeout time.Duration, cache Store, cacheTTL time.Duration, logger *zap.Logger) (*PromClient, error) {
	promAPI, err := api.NewClient(api.Config{Address: baseURL})
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus client: %w", err)
	}

	return &PromClient{
		api:      promv1.NewAPI(promAPI),
		timeout:  timeout,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger.Named("telemetry"),
	}, nil
}

// NodeCPULoad queries the 5m non-idle CPU rate averaged over the node's cores.
func (c *PromClient) NodeCPULoad(ctx context.Context, node string) float64 {
	query := fmt.Sprintf(`avg(rate(node_cpu_seconds_total{instance=~"%s.*",mode!="idle"}[5m]))`, node)
	value, ok := c.lookup(ctx, "cpu_load", "cpu:"+node, query)
	if !ok {
		return DefaultLoad
	}
	return value
}

// NodeMemoryLoad queries the fraction of memory in use on the node.
func (c *PromClient) NodeMemoryLoad(ctx context.Context, node string) float64 {
	query := fmt.Sprintf(`(1 - (node_memory_MemAvailable_bytes{instance=~"%s.*"} / node_memory_MemTotal_bytes{instance=~"%s.*"}))`, node, node)
	value, ok := c.lookup(ctx, "memory_load", "mem:"+node, query)
	if !ok {
		return DefaultLoad
	}
	return value
}

// NodeNetworkLatencyMs queries the mean RTT published by the latency probe,
// converting seconds to milliseconds. nil means unmeasured, which downstream
// maps to an explicit neutral instead of a suspiciously fast node.
func (c *PromClient) NodeNetworkLatencyMs(ctx context.Context, node string) *float64 {
	query := fmt.Sprintf(`avg(network_latency_rtt_seconds{target_node="%s"})`, node)
	seconds, ok := c.lookup(ctx, "network_latency", "latency:"+node, query)
	if !ok {
		return nil
	}
	ms := seconds * 1000.0
	return &ms
}

func (c *PromClient) lookup(ctx context.Context, metric, cacheKey, query string) (float64, bool) {
	if c.cache != nil {
		if value, hit, err := c.cache.Get(ctx, cacheKey); err == nil && hit {
			return value, true
		}
	}

	value, ok := c.instantQuery(ctx, metric, query)
	if !ok {
		return 0, false
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, cacheKey, value, c.cacheTTL); err != nil {
			c.logger.Debug("failed to cache sample", zap.String("key", cacheKey), zap.Error(err))
		}
	}
	return value, true
}

// instantQuery runs one bounded instant query and returns the first sample.
func (c *PromClient) instantQuery(ctx context.Context, metric, query string) (float64, bool) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	result, warnings, err := c.api.Query(ctx, query, time.Now())
	if err != nil {
		queryFailures.WithLabelValues(metric).Inc()
		c.logger.Debug("instant query failed", zap.String("metric", metric), zap.Error(err))
		return 0, false
	}
	if len(warnings) > 0 {
		c.logger.Debug("instant query warnings", zap.String("metric", metric), zap.Strings("warnings", warnings))
	}

	vector, ok := result.(model.Vector)
	if !ok || len(vector) == 0 {
		queryFailures.WithLabelValues(metric).Inc()
		return 0, false
	}
	return float64(vector[0].Value), true
}
