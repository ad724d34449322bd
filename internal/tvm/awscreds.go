package tvm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
)

// s3CredentialPayload is the shape of the S3 endpoint's response, as far as
// the adapter needs to read it. Unknown fields are ignored.
type s3CredentialPayload struct {
	AccessKeyID     string    `json:"accessKeyId"`
	SecretAccessKey string    `json:"secretAccessKey"`
	SessionToken    string    `json:"sessionToken"`
	Expiration      time.Time `json:"expiration"`
}

// S3CredentialsProvider adapts vended S3 credentials to the aws-sdk-go-v2
// CredentialsProvider interface, so SDK clients refresh through the provider
// (and its cache) transparently.
type S3CredentialsProvider struct {
	provider *Provider
}

var _ aws.CredentialsProvider = S3CredentialsProvider{}

// NewS3CredentialsProvider creates an AWS SDK credential source backed by the
// given provider.
func NewS3CredentialsProvider(provider *Provider) S3CredentialsProvider {
	return S3CredentialsProvider{provider: provider}
}

// Retrieve implements aws.CredentialsProvider.
func (s S3CredentialsProvider) Retrieve(ctx context.Context) (aws.Credentials, error) {
	creds, err := s.provider.AWSS3Credentials(ctx)
	if err != nil {
		return aws.Credentials{}, err
	}

	var payload s3CredentialPayload
	if err := json.Unmarshal(creds.Raw(), &payload); err != nil {
		return aws.Credentials{}, fmt.Errorf("parsing S3 credential payload: %w", err)
	}

	if payload.AccessKeyID == "" || payload.SecretAccessKey == "" {
		return aws.Credentials{}, errors.New("S3 credential payload missing access key")
	}

	return aws.Credentials{
		AccessKeyID:     payload.AccessKeyID,
		SecretAccessKey: payload.SecretAccessKey,
		SessionToken:    payload.SessionToken,
		Source:          "TVMProvider",
		CanExpire:       !payload.Expiration.IsZero(),
		Expires:         payload.Expiration,
	}, nil
}
