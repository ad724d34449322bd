package tvm

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Identity is the principal on whose behalf credentials are requested. It is
// immutable for the lifetime of a Provider: the namespace contributes to
// cache keys and both fields authenticate requests to the vending service.
// The auth key is never persisted.
type Identity struct {
	Namespace string
	Auth      string
}

// NewIdentity validates and constructs an identity. Both fields are required.
func NewIdentity(namespace, auth string) (Identity, error) {
	if namespace == "" {
		return Identity{}, errors.New("identity namespace must not be empty")
	}
	if auth == "" {
		return Identity{}, errors.New("identity auth must not be empty")
	}
	return Identity{Namespace: namespace, Auth: auth}, nil
}

// Credentials is the opaque payload returned by the vending service. The
// service-specific fields (access keys, SAS URLs) are passed through
// untouched; only the expiration timestamp is ever inspected.
type Credentials struct {
	raw json.RawMessage
}

// NewCredentials wraps a response body as a credential blob. The body must be
// valid JSON; no further schema validation is applied.
func NewCredentials(body []byte) (Credentials, error) {
	if !json.Valid(body) {
		return Credentials{}, errors.New("credential payload is not valid JSON")
	}
	raw := make(json.RawMessage, len(body))
	copy(raw, body)
	return Credentials{raw: raw}, nil
}

// Raw returns the blob exactly as received from the vending service.
func (c Credentials) Raw() json.RawMessage {
	return c.raw
}

// Expiration parses the blob's expiration timestamp.
func (c Credentials) Expiration() (time.Time, error) {
	var envelope struct {
		Expiration time.Time `json:"expiration"`
	}
	if err := json.Unmarshal(c.raw, &envelope); err != nil {
		return time.Time{}, fmt.Errorf("parsing credential expiration: %w", err)
	}
	if envelope.Expiration.IsZero() {
		return time.Time{}, errors.New("credential payload has no expiration")
	}
	return envelope.Expiration, nil
}

func (c Credentials) MarshalJSON() ([]byte, error) {
	if c.raw == nil {
		return []byte("null"), nil
	}
	return c.raw, nil
}

func (c *Credentials) UnmarshalJSON(data []byte) error {
	raw := make(json.RawMessage, len(data))
	copy(raw, data)
	c.raw = raw
	return nil
}
