package cache

import (
	"context"
	"encoding/json"
	"time"
)

// freshnessBuffer is the safety margin subtracted from a credential's
// expiration before it is considered usable from cache. Without it, a
// credential could be handed out moments before expiry and rejected by the
// downstream store.
const freshnessBuffer = 60 * time.Second

// CredentialCache stores opaque credential blobs keyed by a caller-derived
// string. Values are raw JSON as received from the vending service; the cache
// inspects only the "expiration" field when deciding freshness.
type CredentialCache interface {
	// Get looks up a credential blob. The result distinguishes a fresh hit,
	// a miss (absent, stale or unparsable expiration), and a degraded lookup
	// (the underlying store failed). Degraded lookups behave as misses for
	// callers; the cause is available for logging.
	Get(ctx context.Context, key string) Result

	// Set stores a credential blob. Implementations overwrite any existing
	// entry for the key without touching unrelated entries.
	Set(ctx context.Context, key string, blob json.RawMessage) error

	// Close releases any resources held by the cache.
	Close() error
}

type resultState int

const (
	stateMiss resultState = iota
	stateHit
	stateDegraded
)

// Result is the outcome of a cache lookup.
type Result struct {
	state resultState
	blob  json.RawMessage
	cause error
}

// Hit returns a result carrying a fresh credential blob.
func Hit(blob json.RawMessage) Result {
	return Result{state: stateHit, blob: blob}
}

// Miss returns a result indicating the key is absent or stale.
func Miss() Result {
	return Result{state: stateMiss}
}

// Degraded returns a result indicating the cache itself failed. Callers treat
// this the same as a miss; the cause is retained so the failure can be logged.
func Degraded(cause error) Result {
	return Result{state: stateDegraded, cause: cause}
}

// Credentials returns the cached blob and whether the lookup was a hit.
func (r Result) Credentials() (json.RawMessage, bool) {
	return r.blob, r.state == stateHit
}

// Cause returns the underlying error for a degraded lookup, or nil.
func (r Result) Cause() error {
	return r.cause
}

// expirationEnvelope extracts the one field of a credential blob the cache
// policy cares about.
type expirationEnvelope struct {
	Expiration time.Time `json:"expiration"`
}

// fresh reports whether the blob's expiration is far enough in the future for
// the credential to be usable. Blobs with a missing or unparsable expiration
// are never fresh, forcing a re-fetch.
func fresh(blob json.RawMessage, now time.Time) bool {
	var envelope expirationEnvelope
	if err := json.Unmarshal(blob, &envelope); err != nil {
		return false
	}
	if envelope.Expiration.IsZero() {
		return false
	}
	return now.Before(envelope.Expiration.Add(-freshnessBuffer))
}
