// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across stages.
package httputil

import (
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// NewClient returns an HTTP client with the given request timeout.
func NewClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// NewRateLimitedClient returns an HTTP client whose requests are spaced at
// least minInterval apart. Waiting respects the request context, so a
// cancelled request does not block behind the limiter.
func NewRateLimitedClient(timeout, minInterval time.Duration) *http.Client {
	c := NewClient(timeout)
	if minInterval > 0 {
		c.Transport = &rateLimitedTransport{
			base:    http.DefaultTransport,
			limiter: rate.NewLimiter(rate.Every(minInterval), 1),
		}
	}
	return c
}

// rateLimitedTransport delays each request until the limiter grants a slot.
type rateLimitedTransport struct {
	base    http.RoundTripper
	limiter *rate.Limiter
}

func (t *rateLimitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.base.RoundTrip(req)
}
