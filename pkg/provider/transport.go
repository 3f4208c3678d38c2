package provider

import (
	"net/http"

	"golang.org/x/time/rate"
)

// UserAgentTransport wraps an http.RoundTripper and adds a User-Agent header.
type UserAgentTransport struct {
	http.RoundTripper
	UserAgent string
}

// RoundTrip executes a single HTTP transaction, adding the User-Agent header.
func (t *UserAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone the request to avoid modifying the original
	clonedReq := req.Clone(req.Context())
	clonedReq.Header.Set("User-Agent", t.UserAgent)
	return t.RoundTripper.RoundTrip(clonedReq)
}

// RateLimitTransport wraps an http.RoundTripper and waits on a token bucket before every request.
type RateLimitTransport struct {
	http.RoundTripper
	Limiter *rate.Limiter
}

// RoundTrip blocks until the limiter allows the request or the request context is done.
func (t *RateLimitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.Limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.RoundTripper.RoundTrip(req)
}

// NewHTTPClient returns the client shared by all provider calls: identified by userAgent
// and limited to one request per second with a burst of two.
// Unsplash demo applications only get 50 requests per hour.
func NewHTTPClient(userAgent string) *http.Client {
	return &http.Client{
		Transport: &UserAgentTransport{
			RoundTripper: &RateLimitTransport{
				RoundTripper: http.DefaultTransport,
				Limiter:      rate.NewLimiter(rate.Limit(1), 2),
			},
			UserAgent: userAgent,
		},
	}
}
