package telemetry

import (
	"context"
	"time"
)

// Store caches recent metric samples so scheduling bursts do not re-issue the
// same instant queries. A miss is never an error from the caller's point of
// view; the client simply queries Prometheus again.
type Store interface {
	// Get returns the cached sample for a key, or false if absent/expired.
	Get(ctx context.Context, key string) (float64, bool, error)

	// Set stores a sample with the given TTL.
	Set(ctx context.Context, key string, value float64, ttl time.Duration) error

	// Close cleans up resources used by the store.
	Close() error
}
