package tvm

import (
	"context"
	"fmt"

	"github.com/cloudvend/tvm-client/internal/cache"
	"github.com/rs/zerolog/log"
)

// cacheKeySeparator joins the namespace and resolved endpoint URL in a cache
// key. A space is not a valid namespace character, and the namespace comes
// first, so distinct (identity, endpoint) pairs can never produce the same
// key.
const cacheKeySeparator = " "

// Provider is a read-through credential provider: cached credentials are
// returned while fresh, otherwise the vending service is consulted and the
// result written back to the cache. The cache is non-locking, so concurrent
// requests for the same endpoint may each fetch and each write; the last
// write wins. The vending service is idempotent, so the duplicate fetches
// cost efficiency only, and are accepted in exchange for skipping locking.
type Provider struct {
	identity Identity
	fetcher  Fetcher
	cache    cache.CredentialCache
}

// NewProvider constructs a provider. The cache handle is an explicit
// dependency so callers control where (and whether) credentials persist; a
// nil cache disables caching.
func NewProvider(identity Identity, fetcher Fetcher, credentialCache cache.CredentialCache) (*Provider, error) {
	if identity.Namespace == "" || identity.Auth == "" {
		return nil, fmt.Errorf("identity namespace and auth are required")
	}

	if credentialCache == nil {
		credentialCache = cache.Disabled{}
	}

	return &Provider{
		identity: identity,
		fetcher:  fetcher,
		cache:    credentialCache,
	}, nil
}

// CacheKey derives the cache file key for an endpoint.
func (p *Provider) CacheKey(endpoint Endpoint) string {
	return p.identity.Namespace + cacheKeySeparator + p.fetcher.URL(endpoint)
}

// AWSS3Credentials returns credentials for the AWS S3 backing store.
func (p *Provider) AWSS3Credentials(ctx context.Context) (Credentials, error) {
	return p.Credentials(ctx, EndpointAWSS3)
}

// AzureBlobCredentials returns credentials for the Azure Blob backing store.
func (p *Provider) AzureBlobCredentials(ctx context.Context) (Credentials, error) {
	return p.Credentials(ctx, EndpointAzureBlob)
}

// Credentials returns credentials for the endpoint, from cache when fresh.
// Fetch and transport errors propagate to the caller; cache failures never
// do.
func (p *Provider) Credentials(ctx context.Context, endpoint Endpoint) (Credentials, error) {
	key := p.CacheKey(endpoint)

	result := p.cache.Get(ctx, key)
	if cause := result.Cause(); cause != nil {
		log.Debug().Err(cause).
			Str("key", key).
			Msg("credential cache degraded, treating as miss")
	}

	if blob, hit := result.Credentials(); hit {
		log.Debug().
			Str("key", key).
			Msg("hit: fresh cached credentials found")
		return Credentials{raw: blob}, nil
	}

	creds, err := p.fetcher.Fetch(ctx, endpoint, p.identity)
	if err != nil {
		return Credentials{}, err
	}

	// best effort: a failed cache write must not invalidate the credentials
	// that were just fetched
	if err := p.cache.Set(ctx, key, creds.Raw()); err != nil {
		log.Info().Err(err).
			Str("key", key).
			Msg("credential cache write failed, continuing")
	}

	return creds, nil
}
