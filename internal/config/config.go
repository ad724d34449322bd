package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Identity IdentityConfig
	TVM      TVMConfig
	Cache    CacheConfig
	Observe  ObserveConfig
}

// IdentityConfig identifies the principal requesting credentials. Both fields
// are mandatory: the token vending service authenticates every request with
// the namespace and its auth key.
type IdentityConfig struct {
	Namespace string `env:"TVM_NAMESPACE, required"`
	Auth      string `env:"TVM_AUTH, required"`
}

type TVMConfig struct {
	// APIURL is the base URL of the token vending service. Endpoint suffixes
	// are appended to this URL.
	APIURL string `env:"TVM_API_URL, default=https://firefly-tvm.adobe.io"`
}

// CacheConfig specifies credential cache configuration.
type CacheConfig struct {
	// Type selects the cache implementation: "file" (default), "memory" or
	// "disabled".
	Type string `env:"TVM_CACHE_TYPE, default=file"`

	// File is the path of the shared cache file. When empty, a fixed path
	// under the platform temp directory is used. Only relevant when Type is
	// "file".
	File string `env:"TVM_CACHE_FILE"`
}

type ObserveConfig struct {
	Enabled                    bool   `env:"OBSERVE_ENABLED, default=false"`
	MetricsEnabled             bool   `env:"OBSERVE_METRICS_ENABLED, default=true"`
	Type                       string `env:"OBSERVE_TYPE, default=grpc"`
	ServiceName                string `env:"OBSERVE_SERVICE_NAME, default=tvm-client"`
	TraceBatchTimeoutSeconds   int    `env:"OBSERVE_TRACE_BATCH_TIMEOUT_SECS, default=20"`
	MetricReadIntervalSeconds  int    `env:"OBSERVE_METRIC_READ_INTERVAL_SECS, default=60"`
	HTTPTransportEnabled       bool   `env:"OBSERVE_HTTP_TRANSPORT_ENABLED, default=true"`
	HTTPConnectionTraceEnabled bool   `env:"OBSERVE_CONNECTION_TRACE_ENABLED, default=true"`
}

func Load(ctx context.Context) (Config, error) {
	return load(ctx, nil) // load from OS environment
}

func load(ctx context.Context, lookup envconfig.Lookuper) (Config, error) {
	var cfg Config
	err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookup, // nil defaults to OS environment
	})
	if err != nil {
		return cfg, err
	}

	err = cfg.Cache.Validate()
	if err != nil {
		return cfg, fmt.Errorf("invalid cache configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the cache configuration is valid.
func (c *CacheConfig) Validate() error {
	switch c.Type {
	case "file", "memory", "disabled":
		return nil
	default:
		return fmt.Errorf("invalid cache type %q: must be \"file\", \"memory\" or \"disabled\"", c.Type)
	}
}
