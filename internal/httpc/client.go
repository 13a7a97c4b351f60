// Package httpc provides the shared HTTP client with sensible defaults.
// Use it instead of http.DefaultClient so connection setup is bounded.
package httpc

import (
	"net"
	"net/http"
	"time"
)

// Default timeouts for HTTP operations.
const (
	DefaultConnectTimeout  = 10 * time.Second
	DefaultKeepAlive       = 30 * time.Second
	DefaultIdleConnTimeout = 90 * time.Second
	DefaultHeaderTimeout   = 60 * time.Second
)

// Stream is a shared HTTP client for long-lived responses: streamed chat
// replies and model downloads. Only connection setup and response headers
// are bounded; the body may take as long as it takes.
var Stream = NewStreamClient()

// NewStreamClient creates an HTTP client without an overall timeout.
func NewStreamClient() *http.Client {
	return &http.Client{
		Transport: newTransport(DefaultHeaderTimeout),
	}
}

func newTransport(headerTimeout time.Duration) *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   DefaultConnectTimeout,
			KeepAlive: DefaultKeepAlive,
		}).DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       DefaultIdleConnTimeout,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: headerTimeout,
		ExpectContinueTimeout: 1 * time.Second,
	}
}
