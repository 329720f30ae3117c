// ABOUTME: Standard HTTP client implementation with proxy support and observable session state
// ABOUTME: The transport is externally owned; callers recover a closed session via Reopen

package standard

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"feedbot-core/core/interfaces"
)

const (
	defaultTimeout               = 30 * time.Second
	defaultResponseHeaderTimeout = 25 * time.Second
	defaultUserAgent             = "FeedBot/1.0"
)

// Config controls the HTTP client behavior.
type Config struct {
	// Timeout bounds a whole request including body read
	Timeout time.Duration

	// ResponseHeaderTimeout bounds the wait for response headers
	ResponseHeaderTimeout time.Duration

	// ProxyURL routes all requests through a proxy when set
	ProxyURL string

	// UserAgent is sent on every request
	UserAgent string
}

// StandardHTTPClient implements the HTTPClient interface using net/http.
// Requests are single-attempt: retry policy belongs to the caller.
type StandardHTTPClient struct {
	mu     sync.RWMutex
	client *http.Client
	config Config
	closed bool
}

// NewStandardHTTPClient creates a client. It fails when the proxy URL does
// not parse.
func NewStandardHTTPClient(config Config) (*StandardHTTPClient, error) {
	if config.Timeout <= 0 {
		config.Timeout = defaultTimeout
	}
	if config.ResponseHeaderTimeout <= 0 {
		config.ResponseHeaderTimeout = defaultResponseHeaderTimeout
	}
	if config.UserAgent == "" {
		config.UserAgent = defaultUserAgent
	}

	c := &StandardHTTPClient{config: config}
	client, err := c.buildClient()
	if err != nil {
		return nil, err
	}
	c.client = client
	return c, nil
}

func (c *StandardHTTPClient) buildClient() (*http.Client, error) {
	transport := &http.Transport{
		ResponseHeaderTimeout: c.config.ResponseHeaderTimeout,
	}
	if c.config.ProxyURL != "" {
		proxy, err := url.Parse(c.config.ProxyURL)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy URL: %w", err)
		}
		transport.Proxy = http.ProxyURL(proxy)
	}
	return &http.Client{
		Timeout:   c.config.Timeout,
		Transport: transport,
	}, nil
}

// Get performs an HTTP GET request
func (c *StandardHTTPClient) Get(ctx context.Context, url string) (interfaces.Response, error) {
	return c.do(ctx, http.MethodGet, url, nil)
}

// Post performs an HTTP POST request with a JSON body
func (c *StandardHTTPClient) Post(ctx context.Context, url string, body io.Reader) (interfaces.Response, error) {
	return c.do(ctx, http.MethodPost, url, body)
}

func (c *StandardHTTPClient) do(ctx context.Context, method, url string, body io.Reader) (interfaces.Response, error) {
	c.mu.RLock()
	closed := c.closed
	client := c.client
	c.mu.RUnlock()

	if closed {
		return nil, fmt.Errorf("http client is closed")
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.config.UserAgent)
	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}

	return &httpResponse{
		statusCode: resp.StatusCode,
		body:       resp.Body,
		headers:    resp.Header,
	}, nil
}

// Closed reports whether the client has been shut down
func (c *StandardHTTPClient) Closed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// Close shuts the client down and drops idle connections. Requests fail
// until Reopen is called.
func (c *StandardHTTPClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.client.CloseIdleConnections()
}

// Reopen rebuilds the transport and makes the client usable again. It is
// the natural target for a session recovery hook.
func (c *StandardHTTPClient) Reopen() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	client, err := c.buildClient()
	if err != nil {
		return err
	}
	c.client = client
	c.closed = false
	return nil
}

// httpResponse implements the Response interface
type httpResponse struct {
	statusCode int
	body       io.ReadCloser
	headers    http.Header
}

// StatusCode returns the HTTP status code
func (r *httpResponse) StatusCode() int {
	return r.statusCode
}

// Body returns the response body
func (r *httpResponse) Body() io.ReadCloser {
	return r.body
}

// Header returns the value of the specified header
func (r *httpResponse) Header(key string) string {
	return r.headers.Get(key)
}
