// ABOUTME: Feed fetcher with bounded concurrency and a narrow transient-TLS retry policy
// ABOUTME: Gates fetches on per-feed state and transport health, notifies on failures

package feed

import (
	"context"
	"fmt"
	"io"
	"time"

	coreerrors "feedbot-core/core/errors"
	"feedbot-core/core/interfaces"
)

const (
	// defaultFetchTimeout bounds a single fetch attempt end to end
	defaultFetchTimeout = 30 * time.Second

	// maxFeedBodySize caps how much of a feed payload is read
	maxFeedBodySize = 10 << 20

	// notifyTimeout bounds the fire-and-forget failure notification
	notifyTimeout = 5 * time.Second
)

// FetcherConfig controls retry and concurrency behavior.
type FetcherConfig struct {
	// MaxRetries is the attempt budget per fetch. Only transient TLS
	// session errors consume retries; everything else fails immediately.
	MaxRetries int

	// RetryBaseDelay is multiplied by the attempt number between retries
	RetryBaseDelay time.Duration

	// Concurrency caps in-flight fetches across all goroutines
	Concurrency int

	// FetchTimeout bounds one attempt, zero means the default
	FetchTimeout time.Duration
}

// DefaultFetcherConfig returns the standard fetch policy.
func DefaultFetcherConfig() FetcherConfig {
	return FetcherConfig{
		MaxRetries:     3,
		RetryBaseDelay: 500 * time.Millisecond,
		Concurrency:    5,
		FetchTimeout:   defaultFetchTimeout,
	}
}

// ParseDispatcher hands raw feed payloads to a worker pool so CPU-bound
// parsing does not run on the fetch goroutine.
type ParseDispatcher interface {
	Dispatch(ctx context.Context, raw []byte, sourceURL string) (*FetchResult, error)
}

// Fetcher downloads and parses feeds. It consults the state store before
// every fetch, verifies the transport session is alive, and limits
// concurrent fetches with a semaphore.
type Fetcher struct {
	deps       interfaces.Dependencies
	parser     *SafeParser
	states     *StateStore
	config     FetcherConfig
	sem        chan struct{}
	recovery   interfaces.SessionRecoveryFunc
	dispatcher ParseDispatcher
}

// NewFetcher creates a fetcher. parser and states must not be nil.
func NewFetcher(deps interfaces.Dependencies, parser *SafeParser, states *StateStore, config FetcherConfig) *Fetcher {
	defaults := DefaultFetcherConfig()
	if config.MaxRetries <= 0 {
		config.MaxRetries = defaults.MaxRetries
	}
	if config.RetryBaseDelay <= 0 {
		config.RetryBaseDelay = defaults.RetryBaseDelay
	}
	if config.Concurrency <= 0 {
		config.Concurrency = defaults.Concurrency
	}
	if config.FetchTimeout <= 0 {
		config.FetchTimeout = defaults.FetchTimeout
	}

	return &Fetcher{
		deps:   deps,
		parser: parser,
		states: states,
		config: config,
		sem:    make(chan struct{}, config.Concurrency),
	}
}

// SetSessionRecovery installs a hook invoked when the transport reports
// its session closed. Without a hook a closed session fails the fetch.
func (f *Fetcher) SetSessionRecovery(fn interfaces.SessionRecoveryFunc) {
	f.recovery = fn
}

// SetParseDispatcher routes parsing through a worker pool.
func (f *Fetcher) SetParseDispatcher(d ParseDispatcher) {
	f.dispatcher = d
}

// States exposes the per-feed state store for callers that manage
// activation and error counters.
func (f *Fetcher) States() *StateStore {
	return f.states
}

// Fetch downloads and parses the feed at url. It returns nil when the feed
// is inactive, the transport is down, the fetch fails, or the payload is
// unparseable. Failures are counted in the state store and reported through
// the notifier; Fetch itself never returns an error.
func (f *Fetcher) Fetch(ctx context.Context, url string) *FetchResult {
	if !f.states.IsActive(url) {
		f.deps.Logger.Debug("feed inactive, skipping", map[string]interface{}{"url": url})
		return nil
	}

	if err := f.ensureSession(ctx); err != nil {
		f.deps.Logger.Error("transport session unavailable", map[string]interface{}{
			"url":   url,
			"error": err.Error(),
		})
		return nil
	}

	select {
	case f.sem <- struct{}{}:
		defer func() { <-f.sem }()
	case <-ctx.Done():
		return nil
	}

	raw, ok := f.download(ctx, url)
	if !ok {
		return nil
	}
	f.notifySuccess(ctx, url, len(raw))

	result := f.parse(ctx, raw, url)
	if result == nil {
		f.deps.Logger.Warn("feed payload unparseable", map[string]interface{}{"url": url})
		return nil
	}
	return result
}

// ensureSession checks the transport and runs the recovery hook when the
// session has been closed.
func (f *Fetcher) ensureSession(ctx context.Context) error {
	if !f.deps.HTTPClient.Closed() {
		return nil
	}
	if f.recovery == nil {
		return &coreerrors.SessionInvalidError{Reason: "transport closed and no recovery hook installed"}
	}
	if err := f.recovery(ctx); err != nil {
		return &coreerrors.SessionInvalidError{Reason: "session recovery failed: " + err.Error()}
	}
	if f.deps.HTTPClient.Closed() {
		return &coreerrors.SessionInvalidError{Reason: "transport still closed after recovery"}
	}
	return nil
}

// download performs the attempt loop. Only transient TLS session errors
// are retried, with a linearly growing delay between attempts.
func (f *Fetcher) download(ctx context.Context, url string) ([]byte, bool) {
	for attempt := 1; attempt <= f.config.MaxRetries; attempt++ {
		raw, err := f.tryDownload(ctx, url)
		if err == nil {
			return raw, true
		}

		if coreerrors.IsTransientTransport(err) && attempt < f.config.MaxRetries {
			f.deps.Logger.Warn("transient TLS error, retrying", map[string]interface{}{
				"url":     url,
				"attempt": attempt,
				"error":   err.Error(),
			})
			if !sleepCtx(ctx, f.config.RetryBaseDelay*time.Duration(attempt)) {
				return nil, false
			}
			continue
		}

		f.recordFailure(ctx, url, err)
		return nil, false
	}
	return nil, false
}

// tryDownload performs one HTTP attempt and reads the body.
func (f *Fetcher) tryDownload(ctx context.Context, url string) ([]byte, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, f.config.FetchTimeout)
	defer cancel()

	resp, err := f.deps.HTTPClient.Get(attemptCtx, url)
	if err != nil {
		if coreerrors.IsTLSCloseNotify(err) {
			return nil, &coreerrors.TransientTransportError{URL: url, Err: err}
		}
		return nil, err
	}
	body := resp.Body()
	defer body.Close()

	if resp.StatusCode() != 200 {
		return nil, &coreerrors.HTTPStatusError{URL: url, StatusCode: resp.StatusCode()}
	}

	raw, err := io.ReadAll(io.LimitReader(body, maxFeedBodySize))
	if err != nil {
		return nil, fmt.Errorf("read feed body: %w", err)
	}
	return raw, nil
}

// parse routes through the dispatcher when installed, otherwise parses inline.
func (f *Fetcher) parse(ctx context.Context, raw []byte, url string) *FetchResult {
	if f.dispatcher != nil {
		result, err := f.dispatcher.Dispatch(ctx, raw, url)
		if err != nil {
			f.deps.Logger.Warn("parse dispatch failed, parsing inline", map[string]interface{}{
				"url":   url,
				"error": err.Error(),
			})
			return f.parser.Parse(raw, url)
		}
		return result
	}
	return f.parser.Parse(raw, url)
}

// notifySuccess fires a best-effort notification after a successful
// download, without blocking the fetch path.
func (f *Fetcher) notifySuccess(ctx context.Context, url string, size int) {
	if f.deps.Notifier == nil {
		return
	}
	message := fmt.Sprintf("Feed fetched\nURL: %s\nSize: %d bytes", url, size)
	go func() {
		notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
		defer cancel()
		if err := f.deps.Notifier.Notify(notifyCtx, message); err != nil {
			f.deps.Logger.Debug("success notification not delivered", map[string]interface{}{
				"url":   url,
				"error": err.Error(),
			})
		}
	}()
}

// recordFailure increments the feed's error counter and fires a
// best-effort notification without blocking the fetch path.
func (f *Fetcher) recordFailure(ctx context.Context, url string, cause error) {
	count := f.states.RecordError(url)
	f.deps.Logger.Error("feed fetch failed", map[string]interface{}{
		"url":         url,
		"error":       cause.Error(),
		"error_count": count,
	})

	if f.deps.Notifier == nil {
		return
	}
	message := fmt.Sprintf("Feed fetch failed\nURL: %s\nReason: %s\nConsecutive errors: %d", url, cause, count)
	go func() {
		notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
		defer cancel()
		if err := f.deps.Notifier.Notify(notifyCtx, message); err != nil {
			f.deps.Logger.Warn("failure notification not delivered", map[string]interface{}{
				"url":   url,
				"error": err.Error(),
			})
		}
	}()
}

// sleepCtx sleeps for d unless ctx is done first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
