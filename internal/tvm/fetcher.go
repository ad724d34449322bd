package tvm

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// DefaultAPIURL is the well-known base URL of the token vending service.
const DefaultAPIURL = "https://firefly-tvm.adobe.io"

// maxResponseBytes bounds how much of a response body is read; credential
// payloads are small, so anything beyond this indicates a broken upstream.
const maxResponseBytes = 1 << 20 // 1 MB

// RemoteError is a non-success response from the vending service. The status
// code and body are carried verbatim for the caller; requests are never
// retried.
type RemoteError struct {
	StatusCode int
	Body       string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("token vending request failed: status %d: %s", e.StatusCode, e.Body)
}

// Fetcher requests credentials from the token vending service over HTTP. A
// transport-level failure (DNS, connection, timeout) surfaces as the wrapped
// transport error; a non-2xx response surfaces as a *RemoteError. The two are
// distinguishable with errors.As.
type Fetcher struct {
	apiURL string
	client *http.Client
}

// NewFetcher creates a fetcher for the vending service at apiURL. An empty
// apiURL selects the well-known default; a nil client uses the default HTTP
// client (and with it, transport-default timeouts).
func NewFetcher(apiURL string, client *http.Client) (Fetcher, error) {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}

	u, err := url.Parse(apiURL)
	if err != nil {
		return Fetcher{}, fmt.Errorf("could not parse TVM API URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return Fetcher{}, fmt.Errorf("TVM API URL %q is not absolute", apiURL)
	}

	if client == nil {
		client = http.DefaultClient
	}

	return Fetcher{
		apiURL: apiURL,
		client: client,
	}, nil
}

// URL returns the fully resolved URL for an endpoint.
func (f Fetcher) URL(endpoint Endpoint) string {
	return endpoint.ResolveURL(f.apiURL)
}

// Fetch requests credentials for the endpoint, authenticated as identity via
// query parameters. The response body is returned as an opaque blob.
func (f Fetcher) Fetch(ctx context.Context, endpoint Endpoint, identity Identity) (Credentials, error) {
	if endpoint.Suffix() == "" {
		return Credentials{}, fmt.Errorf("cannot fetch credentials for %s endpoint", endpoint)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL(endpoint), nil)
	if err != nil {
		return Credentials{}, fmt.Errorf("creating credential request: %w", err)
	}

	query := req.URL.Query()
	query.Set("owNamespace", identity.Namespace)
	query.Set("owAuth", identity.Auth)
	req.URL.RawQuery = query.Encode()

	resp, err := f.client.Do(req)
	if err != nil {
		return Credentials{}, fmt.Errorf("requesting %s credentials: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return Credentials{}, fmt.Errorf("reading %s credential response: %w", endpoint, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return Credentials{}, &RemoteError{
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	creds, err := NewCredentials(body)
	if err != nil {
		return Credentials{}, fmt.Errorf("parsing %s credential response: %w", endpoint, err)
	}

	return creds, nil
}
