package cache

import (
	"fmt"
	"time"

	"github.com/cloudvend/tvm-client/internal/config"
	"github.com/rs/zerolog/log"
)

const (
	// memoryTTL bounds in-memory entries independently of their expiration.
	memoryTTL = time.Hour

	// memoryMaxSize is generous: the key space is a handful of endpoints per
	// identity.
	memoryMaxSize = 64
)

// NewFromConfig creates a cache implementation based on the provided
// configuration. The cache type must be "file", "memory" or "disabled"; any
// other value returns an error.
func NewFromConfig(cacheConfig config.CacheConfig) (CredentialCache, error) {
	switch cacheConfig.Type {
	case "file":
		path := cacheConfig.File
		if path == "" {
			path = DefaultFilePath()
		}

		log.Info().
			Str("cache_type", "file").
			Str("path", path).
			Msg("initializing file credential cache")

		file, err := NewFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to create file cache: %w", err)
		}

		return NewInstrumented(file, "file"), nil

	case "memory":
		log.Info().
			Str("cache_type", "memory").
			Msg("initializing in-memory credential cache")

		memory, err := NewMemory(memoryTTL, memoryMaxSize)
		if err != nil {
			return nil, fmt.Errorf("failed to create memory cache: %w", err)
		}

		return NewInstrumented(memory, "memory"), nil

	case "disabled":
		log.Info().
			Str("cache_type", "disabled").
			Msg("credential caching disabled")

		return Disabled{}, nil

	default:
		return nil, fmt.Errorf("invalid cache type %q: must be \"file\", \"memory\" or \"disabled\"", cacheConfig.Type)
	}
}
