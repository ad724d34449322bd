package tvm

import (
	"fmt"
	"strings"
)

// Endpoint identifies a credential kind offered by the token vending service.
// It is a closed enumeration: each endpoint carries a fixed URL suffix
// appended to the service base URL. Two endpoints are distinct exactly when
// their resolved URLs differ.
type Endpoint int

const (
	// EndpointAWSS3 vends scoped credentials for the AWS S3 backing store.
	EndpointAWSS3 Endpoint = iota + 1

	// EndpointAzureBlob vends scoped SAS credentials for the Azure Blob
	// backing store.
	EndpointAzureBlob
)

// Endpoints returns all supported endpoints.
func Endpoints() []Endpoint {
	return []Endpoint{EndpointAWSS3, EndpointAzureBlob}
}

// Suffix returns the URL path suffix for the endpoint, or the empty string
// for an unknown endpoint.
func (e Endpoint) Suffix() string {
	switch e {
	case EndpointAWSS3:
		return "aws/s3"
	case EndpointAzureBlob:
		return "azure/blob"
	default:
		return ""
	}
}

func (e Endpoint) String() string {
	if s := e.Suffix(); s != "" {
		return s
	}
	return fmt.Sprintf("unknown(%d)", int(e))
}

// ResolveURL joins the service base URL with the endpoint's suffix.
func (e Endpoint) ResolveURL(baseURL string) string {
	return strings.TrimSuffix(baseURL, "/") + "/" + e.Suffix()
}

// ParseEndpoint resolves an endpoint from its suffix name, as used on the
// command line.
func ParseEndpoint(name string) (Endpoint, error) {
	for _, e := range Endpoints() {
		if e.Suffix() == name {
			return e, nil
		}
	}
	return 0, fmt.Errorf("unknown endpoint %q: must be one of %v", name, Endpoints())
}
