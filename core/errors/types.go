// ABOUTME: Custom error types modelling the failure taxonomy of the pipeline
// ABOUTME: Expected failures return absence values; these types classify the cause

package errors

import (
	"errors"
	"fmt"
	"strings"
)

// TransientTransportError is the narrow retryable class of transport
// failure: the peer sent application data after a TLS close-notify.
// Every other transport failure is terminal for the attempt.
type TransientTransportError struct {
	URL string
	Err error
}

// Error implements the error interface
func (e *TransientTransportError) Error() string {
	return fmt.Sprintf("transient transport error for %s: %v", e.URL, e.Err)
}

// Unwrap returns the underlying error
func (e *TransientTransportError) Unwrap() error {
	return e.Err
}

// HTTPStatusError represents a non-200 response, terminal per attempt
type HTTPStatusError struct {
	URL        string
	StatusCode int
}

// Error implements the error interface
func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("unexpected HTTP status %d for %s", e.StatusCode, e.URL)
}

// SessionInvalidError indicates the shared transport is closed and external
// recovery was unavailable or failed
type SessionInvalidError struct {
	Reason string
}

// Error implements the error interface
func (e *SessionInvalidError) Error() string {
	return fmt.Sprintf("transport session invalid: %s", e.Reason)
}

// ProviderError represents a failed text-provider call; counted against the
// enhancer circuit breaker
type ProviderError struct {
	Provider string
	Err      error
}

// Error implements the error interface
func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s error: %v", e.Provider, e.Err)
}

// Unwrap returns the underlying error
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// QualityRejectedError marks a parsed response discarded by the quality
// gate. Soft failure: counted in stats, does not advance the breaker.
type QualityRejectedError struct {
	Reason string
}

// Error implements the error interface
func (e *QualityRejectedError) Error() string {
	return fmt.Sprintf("response rejected by quality gate: %s", e.Reason)
}

// IsTransientTransport checks if an error is a TransientTransportError
func IsTransientTransport(err error) bool {
	var transientErr *TransientTransportError
	return errors.As(err, &transientErr)
}

// IsHTTPStatus checks if an error is an HTTPStatusError
func IsHTTPStatus(err error) bool {
	var statusErr *HTTPStatusError
	return errors.As(err, &statusErr)
}

// IsSessionInvalid checks if an error is a SessionInvalidError
func IsSessionInvalid(err error) bool {
	var sessionErr *SessionInvalidError
	return errors.As(err, &sessionErr)
}

// IsQualityRejected checks if an error is a QualityRejectedError
func IsQualityRejected(err error) bool {
	var qualityErr *QualityRejectedError
	return errors.As(err, &qualityErr)
}

// IsTLSCloseNotify reports whether a raw transport error belongs to the
// retryable TLS class: application data received after close-notify. Matched
// by message because crypto/tls does not export the condition as a type.
func IsTLSCloseNotify(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "close notify") ||
		strings.Contains(msg, "close_notify")
}

// WrapError wraps an error with additional context
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
