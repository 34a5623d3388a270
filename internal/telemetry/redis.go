package telemetry

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "telemetry:"

// redisStore is a Redis-backed sample cache, for deployments running several
// extender replicas against the same Prometheus.
type redisStore struct {
	client    *redis.Client
	keyPrefix string
}

// newRedisStore creates a Redis-backed telemetry sample cache.
func newRedisStore(redisURI string) (Store, error) {
	if redisURI == "" {
		return nil, errors.New("redis URI is required")
	}

	opts, err := redis.ParseURL(redisURI)
	if err != nil {
		return nil, fmt.Errorf("invalid Redis URI: %w", err)
	}

	return &redisStore{
		client:    redis.NewClient(opts),
		keyPrefix: defaultKeyPrefix,
	}, nil
}

func (r *redisStore) formKey(key string) string {
	return r.keyPrefix + key
}

func (r *redisStore) Get(ctx context.Context, key string) (float64, bool, error) {
	raw, err := r.client.Get(ctx, r.formKey(key)).Result()
	if err != nil {
		if err == redis.Nil {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to get sample %s: %w", key, err)
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false, fmt.Errorf("corrupt sample for key %s: %w", key, err)
	}
	return value, true, nil
}

func (r *redisStore) Set(ctx context.Context, key string, value float64, ttl time.Duration) error {
	err := r.client.Set(ctx, r.formKey(key), strconv.FormatFloat(value, 'g', -1, 64), ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to set sample %s: %w", key, err)
	}
	return nil
}

func (r *redisStore) Close() error {
	return r.client.Close()
}
