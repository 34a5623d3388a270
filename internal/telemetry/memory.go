package telemetry

import (
	"context"
	"sync"
	"time"
)

// memoryStore is an in-process sample cache for single-replica deployments
// and tests.
type memoryStore struct {
	mu      sync.RWMutex
	samples map[string]memorySample
}

type memorySample struct {
	value     float64
	expiresAt time.Time
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		samples: make(map[string]memorySample),
	}
}

func (m *memoryStore) Get(_ context.Context, key string) (float64, bool, error) {
	m.mu.RLock()
	sample, ok := m.samples[key]
	m.mu.RUnlock()

	if !ok {
		return 0, false, nil
	}
	if time.Now().After(sample.expiresAt) {
		m.mu.Lock()
		delete(m.samples, key)
		m.mu.Unlock()
		return 0, false, nil
	}
	return sample.value, true, nil
}

func (m *memoryStore) Set(_ context.Context, key string, value float64, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.samples[key] = memorySample{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

func (m *memoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.samples = make(map[string]memorySample)
	return nil
}
