package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGet_NotFound(t *testing.T) {
	ctx := context.Background()
	cache, err := NewMemory(time.Minute, 100)
	require.NoError(t, err)

	result := cache.Get(ctx, "nonexistent")

	_, hit := result.Credentials()
	assert.False(t, hit)
	assert.NoError(t, result.Cause())
}

func TestMemorySetAndGet_Success(t *testing.T) {
	ctx := context.Background()
	cache, err := NewMemory(time.Minute, 100)
	require.NoError(t, err)

	blob := credentialBlob(t, time.Now().Add(time.Hour))

	err = cache.Set(ctx, "test-key", blob)
	require.NoError(t, err)

	result := cache.Get(ctx, "test-key")

	value, hit := result.Credentials()
	assert.True(t, hit)
	assert.JSONEq(t, string(blob), string(value))
}

func TestMemoryGet_StaleCredential(t *testing.T) {
	ctx := context.Background()
	cache, err := NewMemory(time.Hour, 100)
	require.NoError(t, err)

	// within the cache's TTL but inside the credential's freshness buffer
	blob := credentialBlob(t, time.Now().Add(30*time.Second))

	err = cache.Set(ctx, "test-key", blob)
	require.NoError(t, err)

	result := cache.Get(ctx, "test-key")

	_, hit := result.Credentials()
	assert.False(t, hit)
}

func TestMemoryTTLExpiry(t *testing.T) {
	ctx := context.Background()
	// Use very short TTL for testing
	cache, err := NewMemory(100*time.Millisecond, 100)
	require.NoError(t, err)

	blob := credentialBlob(t, time.Now().Add(time.Hour))

	err = cache.Set(ctx, "test-key", blob)
	require.NoError(t, err)

	// Verify the credential is present immediately
	_, hit := cache.Get(ctx, "test-key").Credentials()
	assert.True(t, hit)

	// Wait for TTL to expire
	time.Sleep(150 * time.Millisecond)

	// Verify the credential is no longer present
	_, hit = cache.Get(ctx, "test-key").Credentials()
	assert.False(t, hit)
}
