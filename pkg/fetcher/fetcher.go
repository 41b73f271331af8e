// Package fetcher issues the crawler's outbound HTTP GET requests.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Options configures a Client.
type Options struct {
	UserAgent         string
	Timeout           time.Duration
	RequestsPerSecond float64 // 0 disables the limiter
}

// StatusError is returned for responses outside the 2xx range.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d for %s", e.StatusCode, e.URL)
}

// Client wraps an http.Client with the crawler's User-Agent and rate limit.
type Client struct {
	client    *http.Client
	userAgent string
	limiter   *rate.Limiter
}

// New creates a Client with its own transport.
func New(opts Options) *Client {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     30 * time.Second,
	}
	return NewWithClient(&http.Client{Transport: transport, Timeout: opts.Timeout}, opts)
}

// NewWithClient builds a Client around an existing http.Client (tests).
func NewWithClient(httpClient *http.Client, opts Options) *Client {
	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}
	return &Client{
		client:    httpClient,
		userAgent: opts.UserAgent,
		limiter:   limiter,
	}
}

// Get performs a GET and returns the response with its body unread. Non-2xx
// responses are closed and reported as *StatusError.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", url, err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", url, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}
	return resp, nil
}

// FetchPage returns the response body of url as text.
func (c *Client) FetchPage(ctx context.Context, url string) (string, error) {
	resp, err := c.Get(ctx, url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body of %s: %w", url, err)
	}
	return string(body), nil
}
