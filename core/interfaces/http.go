// ABOUTME: HTTP transport interfaces shared by the fetch and enhancement pipelines
// ABOUTME: The transport is externally owned; this layer only observes its health

package interfaces

import (
	"context"
	"io"
)

// HTTPClient defines the contract for the shared HTTP transport.
// The transport is created and owned by the orchestrator; implementations
// report their open/closed state so callers can request recovery instead
// of recreating the client themselves.
type HTTPClient interface {
	// Get performs an HTTP GET request to the specified URL.
	Get(ctx context.Context, url string) (Response, error)

	// Post performs an HTTP POST request with the given body.
	Post(ctx context.Context, url string, body io.Reader) (Response, error)

	// Closed reports whether the underlying transport has been shut down.
	// A closed transport must not be used until externally recovered.
	Closed() bool
}

// SessionRecoveryFunc is invoked when the shared transport is found closed.
// It must restore the transport or return an error; the caller aborts the
// operation when recovery fails.
type SessionRecoveryFunc func(ctx context.Context) error

// Response defines the interface for HTTP responses.
type Response interface {
	// StatusCode returns the HTTP status code of the response.
	StatusCode() int

	// Body returns the response body. The caller closes it.
	Body() io.ReadCloser

	// Header returns the value of the named header, or "" when absent.
	Header(key string) string
}
