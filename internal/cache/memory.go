package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/maypok86/otter/v2"
	"github.com/maypok86/otter/v2/stats"
)

// Memory is a process-local credential cache using otter. It offers no
// persistence or cross-process sharing; it suits short-lived processes that
// make repeated credential requests but must not leave state on disk.
type Memory struct {
	cache   *otter.Cache[string, json.RawMessage]
	counter *stats.Counter
}

// NewMemory creates an in-memory cache with the specified TTL and max size.
// The TTL bounds how long an entry can live regardless of its expiration;
// freshness against the credential's own expiration is still evaluated on
// every Get.
func NewMemory(ttl time.Duration, maxSize int) (*Memory, error) {
	counter := stats.NewCounter()
	cache := otter.Must(&otter.Options[string, json.RawMessage]{
		MaximumSize:      maxSize,
		StatsRecorder:    counter,
		ExpiryCalculator: otter.ExpiryCreating[string, json.RawMessage](ttl),
	})

	return &Memory{
		cache:   cache,
		counter: counter,
	}, nil
}

// Get retrieves a credential blob, applying the standard freshness policy.
func (m *Memory) Get(_ context.Context, key string) Result {
	entry, ok := m.cache.GetEntry(key)
	if !ok {
		return Miss()
	}

	if !fresh(entry.Value, time.Now()) {
		m.cache.Invalidate(key)
		return Miss()
	}

	return Hit(entry.Value)
}

// Set stores a credential blob.
func (m *Memory) Set(_ context.Context, key string, blob json.RawMessage) error {
	m.cache.Set(key, blob)
	return nil
}

// Close releases any resources held by the cache.
func (m *Memory) Close() error {
	return nil
}
