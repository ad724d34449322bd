package cache

import (
	"context"
	"encoding/json"
)

// Disabled is a credential cache that caches nothing: every lookup misses and
// every write succeeds without effect. Used when caching is switched off so
// the provider always consults the vending service.
type Disabled struct{}

func (Disabled) Get(_ context.Context, _ string) Result {
	return Miss()
}

func (Disabled) Set(_ context.Context, _ string, _ json.RawMessage) error {
	return nil
}

func (Disabled) Close() error {
	return nil
}
