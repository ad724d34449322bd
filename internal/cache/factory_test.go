package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cloudvend/tvm-client/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFromConfig_File(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cache.json")

	cache, err := NewFromConfig(config.CacheConfig{Type: "file", File: path})
	require.NoError(t, err)
	defer cache.Close()

	assert.IsType(t, &Instrumented{}, cache)

	blob := credentialBlob(t, time.Now().Add(time.Hour))
	require.NoError(t, cache.Set(ctx, "test-key", blob))

	// the configured path is used verbatim
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestNewFromConfig_Memory(t *testing.T) {
	ctx := context.Background()

	cache, err := NewFromConfig(config.CacheConfig{Type: "memory"})
	require.NoError(t, err)
	defer cache.Close()

	blob := credentialBlob(t, time.Now().Add(time.Hour))
	require.NoError(t, cache.Set(ctx, "test-key", blob))

	_, hit := cache.Get(ctx, "test-key").Credentials()
	assert.True(t, hit)
}

func TestNewFromConfig_Disabled(t *testing.T) {
	ctx := context.Background()

	cache, err := NewFromConfig(config.CacheConfig{Type: "disabled"})
	require.NoError(t, err)
	defer cache.Close()

	blob := credentialBlob(t, time.Now().Add(time.Hour))
	require.NoError(t, cache.Set(ctx, "test-key", blob))

	_, hit := cache.Get(ctx, "test-key").Credentials()
	assert.False(t, hit)
}

func TestNewFromConfig_InvalidType(t *testing.T) {
	_, err := NewFromConfig(config.CacheConfig{Type: "carrier-pigeon"})
	assert.ErrorContains(t, err, "invalid cache type")
}
