package httpseed

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"time"
)

// AssetInput defines the arguments for creating an http_client resource.
type AssetInput struct {
	Timeout            string `seed:"timeout"`
	InsecureSkipVerify bool   `seed:"insecure_skip_verify"`
}

// CreateHttpClient is the 'create' handler for the asset. It returns a live
// *http.Client that will be shared across outputs.
func CreateHttpClient(ctx context.Context, input *AssetInput) (*http.Client, error) {
	timeout, err := time.ParseDuration(input.Timeout)
	if err != nil {
		return nil, fmt.Errorf("parsing timeout: %w", err)
	}

	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}
	if input.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return &http.Client{Timeout: timeout, Transport: transport}, nil
}

// DestroyHttpClient is the 'destroy' handler. For an http.Client, closing
// idle connections is all the cleanup there is.
func DestroyHttpClient(client *http.Client) error {
	client.CloseIdleConnections()
	return nil
}
