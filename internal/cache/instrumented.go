package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	metricsOnce     sync.Once
	cacheOperations metric.Int64Counter
	cacheDuration   metric.Float64Histogram
)

func initMetrics() {
	metricsOnce.Do(func() {
		meter := otel.Meter("github.com/cloudvend/tvm-client/internal/cache")

		var err error
		cacheOperations, err = meter.Int64Counter(
			"cache.operations",
			metric.WithDescription("Total cache operations"),
		)
		if err != nil {
			otel.Handle(err)
		}

		cacheDuration, err = meter.Float64Histogram(
			"cache.operation.duration",
			metric.WithDescription("Cache operation duration"),
			metric.WithUnit("s"),
		)
		if err != nil {
			otel.Handle(err)
		}
	})
}

// Instrumented wraps a CredentialCache with metrics instrumentation.
type Instrumented struct {
	wrapped   CredentialCache
	cacheType string
}

// NewInstrumented creates an instrumented cache wrapper.
func NewInstrumented(cache CredentialCache, cacheType string) *Instrumented {
	initMetrics()
	return &Instrumented{
		wrapped:   cache,
		cacheType: cacheType,
	}
}

// Get retrieves a credential blob from the cache.
func (i *Instrumented) Get(ctx context.Context, key string) Result {
	start := time.Now()

	result := i.wrapped.Get(ctx, key)

	duration := time.Since(start)
	i.recordDuration(ctx, "get", duration)

	status := "miss"
	if result.Cause() != nil {
		status = "degraded"
	} else if _, hit := result.Credentials(); hit {
		status = "hit"
	}
	i.recordOperation(ctx, "get", status)
	i.setSpanAttributes(ctx, "get", status, duration)

	return result
}

// Set stores a credential blob in the cache.
func (i *Instrumented) Set(ctx context.Context, key string, blob json.RawMessage) error {
	start := time.Now()

	err := i.wrapped.Set(ctx, key, blob)

	duration := time.Since(start)
	i.recordDuration(ctx, "set", duration)

	status := "success"
	if err != nil {
		status = "error"
	}
	i.recordOperation(ctx, "set", status)
	i.setSpanAttributes(ctx, "set", status, duration)

	return err
}

// Close releases any resources held by the cache.
func (i *Instrumented) Close() error {
	return i.wrapped.Close()
}

func (i *Instrumented) recordOperation(ctx context.Context, operation, status string) {
	if cacheOperations == nil {
		return
	}
	cacheOperations.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("cache.type", i.cacheType),
			attribute.String("cache.operation", operation),
			attribute.String("cache.status", status),
		),
	)
}

func (i *Instrumented) recordDuration(ctx context.Context, operation string, duration time.Duration) {
	if cacheDuration == nil {
		return
	}
	cacheDuration.Record(ctx, duration.Seconds(),
		metric.WithAttributes(
			attribute.String("cache.type", i.cacheType),
			attribute.String("cache.operation", operation),
		),
	)
}

func (i *Instrumented) setSpanAttributes(ctx context.Context, operation, status string, duration time.Duration) {
	span := trace.SpanFromContext(ctx)
	span.SetAttributes(
		attribute.String("cache.type", i.cacheType),
		attribute.String("cache."+operation+".status", status),
		attribute.Float64("cache."+operation+".duration", duration.Seconds()),
	)
}
