package tvm_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/cloudvend/tvm-client/internal/testhelpers"
	"github.com/cloudvend/tvm-client/internal/tvm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFetcher_DefaultURL(t *testing.T) {
	fetcher, err := tvm.NewFetcher("", nil)
	require.NoError(t, err)

	assert.Equal(t, tvm.DefaultAPIURL+"/aws/s3", fetcher.URL(tvm.EndpointAWSS3))
}

func TestNewFetcher_InvalidURL(t *testing.T) {
	_, err := tvm.NewFetcher("not a url", nil)
	assert.Error(t, err)

	_, err = tvm.NewFetcher("/relative/path", nil)
	assert.Error(t, err)
}

func TestFetch_Success(t *testing.T) {
	ctx := context.Background()
	mock := testhelpers.SetupMockTVMServer(t)

	fetcher, err := tvm.NewFetcher(mock.Server.URL, nil)
	require.NoError(t, err)

	identity, err := tvm.NewIdentity("ns1", "secret")
	require.NoError(t, err)

	creds, err := fetcher.Fetch(ctx, tvm.EndpointAWSS3, identity)
	require.NoError(t, err)

	assert.Equal(t, 1, mock.RequestCount)
	assert.Equal(t, "ns1", mock.LastNamespace)
	assert.Equal(t, "secret", mock.LastAuth)

	expiry, err := creds.Expiration()
	require.NoError(t, err)
	assert.False(t, expiry.IsZero())
	assert.Contains(t, string(creds.Raw()), "mock-access-key")
}

func TestFetch_AzureBlob(t *testing.T) {
	ctx := context.Background()
	mock := testhelpers.SetupMockTVMServer(t)

	fetcher, err := tvm.NewFetcher(mock.Server.URL, nil)
	require.NoError(t, err)

	identity, err := tvm.NewIdentity("ns1", "secret")
	require.NoError(t, err)

	creds, err := fetcher.Fetch(ctx, tvm.EndpointAzureBlob, identity)
	require.NoError(t, err)

	assert.Contains(t, string(creds.Raw()), "sasURLPrivate")
}

func TestFetch_RemoteError(t *testing.T) {
	ctx := context.Background()
	mock := testhelpers.SetupMockTVMServer(t)
	mock.StatusCode = http.StatusForbidden
	mock.ErrorBody = `{"error":"namespace not entitled"}`

	fetcher, err := tvm.NewFetcher(mock.Server.URL, nil)
	require.NoError(t, err)

	identity, err := tvm.NewIdentity("ns1", "bad-secret")
	require.NoError(t, err)

	_, err = fetcher.Fetch(ctx, tvm.EndpointAWSS3, identity)
	require.Error(t, err)

	var remoteErr *tvm.RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, http.StatusForbidden, remoteErr.StatusCode)
	assert.Equal(t, `{"error":"namespace not entitled"}`, remoteErr.Body)
}

func TestFetch_TransportError(t *testing.T) {
	ctx := context.Background()
	mock := testhelpers.SetupMockTVMServer(t)
	// close the server before fetching to force a connection failure
	mock.Close()

	fetcher, err := tvm.NewFetcher(mock.Server.URL, nil)
	require.NoError(t, err)

	identity, err := tvm.NewIdentity("ns1", "secret")
	require.NoError(t, err)

	_, err = fetcher.Fetch(ctx, tvm.EndpointAWSS3, identity)
	require.Error(t, err)

	// transport failures are not remote errors
	var remoteErr *tvm.RemoteError
	assert.False(t, errors.As(err, &remoteErr))
}

func TestFetch_UnparsableBody(t *testing.T) {
	ctx := context.Background()
	mock := testhelpers.SetupMockTVMServer(t)
	mock.RawBody = "this is not JSON"

	fetcher, err := tvm.NewFetcher(mock.Server.URL, nil)
	require.NoError(t, err)

	identity, err := tvm.NewIdentity("ns1", "secret")
	require.NoError(t, err)

	_, err = fetcher.Fetch(ctx, tvm.EndpointAWSS3, identity)
	assert.ErrorContains(t, err, "parsing")
}

func TestFetch_UnknownEndpoint(t *testing.T) {
	ctx := context.Background()

	fetcher, err := tvm.NewFetcher("https://tvm.example", nil)
	require.NoError(t, err)

	identity, err := tvm.NewIdentity("ns1", "secret")
	require.NoError(t, err)

	_, err = fetcher.Fetch(ctx, tvm.Endpoint(0), identity)
	assert.Error(t, err)
}
