package telemetry

import (
	"context"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/nfsched/placement-extender/internal/config"
)

// ProvideStore creates the telemetry sample cache selected by configuration.
// Returns nil (caching disabled) for 'off'.
func ProvideStore(cfg *config.Config, lc fx.Lifecycle) (Store, error) {
	var store Store
	var err error

	switch cfg.Telemetry.Cache {
	case "off":
		return nil, nil
	case "memory":
		store = newMemoryStore()
	case "redis":
		store, err = newRedisStore(cfg.Telemetry.RedisURI)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown telemetry cache type %q", cfg.Telemetry.Cache)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return store.Close()
		},
	})
	return store, nil
}

// ProvideClient creates the Prometheus-backed telemetry client.
func ProvideClient(cfg *config.Config, store Store, logger *zap.Logger) (Client, error) {
	return NewPromClient(
		cfg.Telemetry.PrometheusURL,
		cfg.Telemetry.QueryTimeout,
		store,
		cfg.Telemetry.CacheTTL,
		logger,
	)
}

// Module provides the telemetry dependencies to the fx container.
var Module = fx.Options(
	fx.Provide(ProvideStore),
	fx.Provide(ProvideClient),
)
