// Package httputil provides a hardened HTTP client, the timeout-bounded page
// fetcher used by the scraping pipeline, and URL helpers.
package httputil

import (
	"crypto/tls"
	"net/http"
	"time"
)

// DefaultUserAgent is sent when the configuration does not override it.
const DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/121.0"

// NewClient creates a hardened HTTP client with secure defaults.
// It carries no overall timeout: request deadlines come from the caller's context.
func NewClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
			ForceAttemptHTTP2:   true,
			MaxIdleConns:        10,
			IdleConnTimeout:     30 * time.Second,
			DisableCompression:  false,
			MaxIdleConnsPerHost: 5,
		},
	}
}
