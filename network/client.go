// Package network provides a pre-configured, optimized HTTP client for playlist and segment retrieval.
package network

import (
	"net/http"
	"time"

	"github.com/hlsget-cli/hlsget/constant"
)

// Client is the singleton HTTP client shared across the application for efficient resource utilization.
// It is configured with increased concurrency limits and timeouts tailored for bulk segment transfers.
var Client = &http.Client{
	Timeout:   time.Minute,
	Transport: NewHeaderTransport(nil),
}

// NewHeaderTransport returns a tuned transport that injects the given headers into every request.
// The default User-Agent is always applied unless the header map overrides it.
func NewHeaderTransport(headers map[string]string) *HeaderTransport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 100
	t.MaxIdleConnsPerHost = 100
	t.MaxConnsPerHost = 200
	t.IdleConnTimeout = 30 * time.Second
	t.ResponseHeaderTimeout = 30 * time.Second

	return &HeaderTransport{Base: t, Headers: headers}
}

// HeaderTransport implements custom header injection on top of a base RoundTripper.
type HeaderTransport struct {
	Base    http.RoundTripper
	Headers map[string]string
}

func (t *HeaderTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", constant.UserAgent)
	}
	for k, v := range t.Headers {
		req.Header.Set(k, v)
	}
	return t.Base.RoundTrip(req)
}
