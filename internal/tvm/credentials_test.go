package tvm_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/cloudvend/tvm-client/internal/tvm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIdentity(t *testing.T) {
	id, err := tvm.NewIdentity("ns1", "secret")
	require.NoError(t, err)
	assert.Equal(t, "ns1", id.Namespace)
	assert.Equal(t, "secret", id.Auth)

	_, err = tvm.NewIdentity("", "secret")
	assert.Error(t, err)

	_, err = tvm.NewIdentity("ns1", "")
	assert.Error(t, err)
}

func TestNewCredentials_InvalidJSON(t *testing.T) {
	_, err := tvm.NewCredentials([]byte("accessKeyId=X"))
	assert.Error(t, err)
}

func TestCredentials_RawPassthrough(t *testing.T) {
	body := []byte(`{"accessKeyId":"X","nested":{"anything":["goes",1,true]},"expiration":"2031-01-01T00:00:00Z"}`)

	creds, err := tvm.NewCredentials(body)
	require.NoError(t, err)

	// unknown fields survive unmodified
	assert.JSONEq(t, string(body), string(creds.Raw()))

	marshalled, err := json.Marshal(creds)
	require.NoError(t, err)
	assert.JSONEq(t, string(body), string(marshalled))
}

func TestCredentials_Expiration(t *testing.T) {
	creds, err := tvm.NewCredentials([]byte(`{"expiration":"2031-01-01T00:00:00Z"}`))
	require.NoError(t, err)

	expiry, err := creds.Expiration()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2031, 1, 1, 0, 0, 0, 0, time.UTC), expiry.UTC())
}

func TestCredentials_ExpirationMissing(t *testing.T) {
	creds, err := tvm.NewCredentials([]byte(`{"accessKeyId":"X"}`))
	require.NoError(t, err)

	_, err = creds.Expiration()
	assert.Error(t, err)
}

func TestCredentials_ExpirationUnparsable(t *testing.T) {
	creds, err := tvm.NewCredentials([]byte(`{"expiration":"whenever"}`))
	require.NoError(t, err)

	_, err = creds.Expiration()
	assert.Error(t, err)
}

func TestCredentials_UnmarshalRoundTrip(t *testing.T) {
	body := `{"sasURLPrivate":"https://blob.example/x","expiration":"2031-01-01T00:00:00Z"}`

	var creds tvm.Credentials
	require.NoError(t, json.Unmarshal([]byte(body), &creds))
	assert.JSONEq(t, body, string(creds.Raw()))
}
