package feed

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"feedbot-core/core/interfaces"
)

func newTestFetcher(client *mockHTTPClient) *Fetcher {
	cfg := DefaultFetcherConfig()
	cfg.RetryBaseDelay = time.Millisecond
	return NewFetcher(testDeps(client), NewSafeParser(nopLogger{}), NewStateStore(), cfg)
}

func okResponse(body string) *mockResponse {
	return &mockResponse{status: 200, body: body}
}

func TestFetcher_Success(t *testing.T) {
	client := &mockHTTPClient{getFunc: func(_ int, _ string) (interfaces.Response, error) {
		return okResponse(wellFormedRSS), nil
	}}
	fetcher := newTestFetcher(client)

	result := fetcher.Fetch(context.Background(), "https://example.com/rss")

	if result == nil {
		t.Fatal("Fetch returned nil for a healthy feed")
	}
	if len(result.Feed.Items) != 1 {
		t.Errorf("parsed %d items, want 1", len(result.Feed.Items))
	}
	if count := fetcher.States().ErrorCount("https://example.com/rss"); count != 0 {
		t.Errorf("ErrorCount = %d, want 0", count)
	}
}

func TestFetcher_InactiveFeedSkipped(t *testing.T) {
	client := &mockHTTPClient{getFunc: func(_ int, _ string) (interfaces.Response, error) {
		return okResponse(wellFormedRSS), nil
	}}
	fetcher := newTestFetcher(client)
	fetcher.States().SetActive("https://example.com/rss", false)

	if result := fetcher.Fetch(context.Background(), "https://example.com/rss"); result != nil {
		t.Error("Fetch should return nil for an inactive feed")
	}
	if client.callCount() != 0 {
		t.Errorf("client called %d times, want 0", client.callCount())
	}
}

func TestFetcher_ClosedTransportNoRecovery(t *testing.T) {
	client := &mockHTTPClient{getFunc: func(_ int, _ string) (interfaces.Response, error) {
		return okResponse(wellFormedRSS), nil
	}}
	client.setClosed(true)
	fetcher := newTestFetcher(client)

	if result := fetcher.Fetch(context.Background(), "https://example.com/rss"); result != nil {
		t.Error("Fetch should fail when the transport is closed")
	}
	if client.callCount() != 0 {
		t.Errorf("client called %d times, want 0", client.callCount())
	}
}

func TestFetcher_ClosedTransportRecovers(t *testing.T) {
	client := &mockHTTPClient{getFunc: func(_ int, _ string) (interfaces.Response, error) {
		return okResponse(wellFormedRSS), nil
	}}
	client.setClosed(true)
	fetcher := newTestFetcher(client)
	fetcher.SetSessionRecovery(func(_ context.Context) error {
		client.setClosed(false)
		return nil
	})

	if result := fetcher.Fetch(context.Background(), "https://example.com/rss"); result == nil {
		t.Error("Fetch should succeed after session recovery")
	}
}

func TestFetcher_RetriesTLSCloseNotify(t *testing.T) {
	tlsErr := errors.New("remote error: tls: APPLICATION_DATA_AFTER_CLOSE_NOTIFY: close notify")
	client := &mockHTTPClient{getFunc: func(call int, _ string) (interfaces.Response, error) {
		if call < 3 {
			return nil, tlsErr
		}
		return okResponse(wellFormedRSS), nil
	}}
	fetcher := newTestFetcher(client)

	result := fetcher.Fetch(context.Background(), "https://example.com/rss")

	if result == nil {
		t.Fatal("Fetch should succeed after transient TLS retries")
	}
	if client.callCount() != 3 {
		t.Errorf("client called %d times, want 3", client.callCount())
	}
	if count := fetcher.States().ErrorCount("https://example.com/rss"); count != 0 {
		t.Errorf("ErrorCount = %d, want 0 after recovered retries", count)
	}
}

func TestFetcher_TLSRetriesExhausted(t *testing.T) {
	tlsErr := errors.New("remote error: tls: close notify")
	client := &mockHTTPClient{getFunc: func(_ int, _ string) (interfaces.Response, error) {
		return nil, tlsErr
	}}
	fetcher := newTestFetcher(client)

	result := fetcher.Fetch(context.Background(), "https://example.com/rss")

	if result != nil {
		t.Error("Fetch should fail once the retry budget is spent")
	}
	if client.callCount() != 3 {
		t.Errorf("client called %d times, want 3", client.callCount())
	}
	if count := fetcher.States().ErrorCount("https://example.com/rss"); count != 1 {
		t.Errorf("ErrorCount = %d, want 1", count)
	}
}

func TestFetcher_OtherErrorsNotRetried(t *testing.T) {
	client := &mockHTTPClient{getFunc: func(_ int, _ string) (interfaces.Response, error) {
		return nil, errors.New("dial tcp: connection refused")
	}}
	fetcher := newTestFetcher(client)

	if result := fetcher.Fetch(context.Background(), "https://example.com/rss"); result != nil {
		t.Error("Fetch should fail on a non-transient error")
	}
	if client.callCount() != 1 {
		t.Errorf("client called %d times, want 1 (no retry)", client.callCount())
	}
	if count := fetcher.States().ErrorCount("https://example.com/rss"); count != 1 {
		t.Errorf("ErrorCount = %d, want 1", count)
	}
}

func TestFetcher_HTTPStatusTerminal(t *testing.T) {
	client := &mockHTTPClient{getFunc: func(_ int, _ string) (interfaces.Response, error) {
		return &mockResponse{status: 503, body: "unavailable"}, nil
	}}
	fetcher := newTestFetcher(client)

	if result := fetcher.Fetch(context.Background(), "https://example.com/rss"); result != nil {
		t.Error("Fetch should fail on a non-200 status")
	}
	if client.callCount() != 1 {
		t.Errorf("client called %d times, want 1 (no retry on status)", client.callCount())
	}
	if count := fetcher.States().ErrorCount("https://example.com/rss"); count != 1 {
		t.Errorf("ErrorCount = %d, want 1", count)
	}
}

func TestFetcher_NotifiesOnFailure(t *testing.T) {
	client := &mockHTTPClient{getFunc: func(_ int, _ string) (interfaces.Response, error) {
		return &mockResponse{status: 404}, nil
	}}
	notifier := newMockNotifier()
	deps := testDeps(client)
	deps.Notifier = notifier
	cfg := DefaultFetcherConfig()
	cfg.RetryBaseDelay = time.Millisecond
	fetcher := NewFetcher(deps, NewSafeParser(nopLogger{}), NewStateStore(), cfg)

	fetcher.Fetch(context.Background(), "https://example.com/rss")

	select {
	case msg := <-notifier.received:
		if !strings.Contains(msg, "https://example.com/rss") {
			t.Errorf("notification missing feed URL: %q", msg)
		}
		if !strings.Contains(msg, "404") {
			t.Errorf("notification missing status: %q", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no failure notification delivered")
	}
}

func TestFetcher_NotifiesOnSuccess(t *testing.T) {
	client := &mockHTTPClient{getFunc: func(_ int, _ string) (interfaces.Response, error) {
		return okResponse(wellFormedRSS), nil
	}}
	notifier := newMockNotifier()
	deps := testDeps(client)
	deps.Notifier = notifier
	fetcher := NewFetcher(deps, NewSafeParser(nopLogger{}), NewStateStore(), DefaultFetcherConfig())

	result := fetcher.Fetch(context.Background(), "https://example.com/rss")
	if result == nil {
		t.Fatal("Fetch returned nil for a healthy feed")
	}

	select {
	case msg := <-notifier.received:
		if !strings.Contains(msg, "https://example.com/rss") {
			t.Errorf("notification missing feed URL: %q", msg)
		}
		if !strings.Contains(msg, "bytes") {
			t.Errorf("notification missing payload size: %q", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no success notification delivered")
	}
}

func TestFetcher_UnparseablePayload(t *testing.T) {
	client := &mockHTTPClient{getFunc: func(_ int, _ string) (interfaces.Response, error) {
		return okResponse("junk {{{"), nil
	}}
	fetcher := newTestFetcher(client)

	if result := fetcher.Fetch(context.Background(), "https://example.com/rss"); result != nil {
		t.Error("Fetch should return nil for an unparseable payload")
	}
	// parse failures are not transport errors and do not count
	if count := fetcher.States().ErrorCount("https://example.com/rss"); count != 0 {
		t.Errorf("ErrorCount = %d, want 0", count)
	}
}

func TestFetcher_CancelledContext(t *testing.T) {
	client := &mockHTTPClient{getFunc: func(_ int, _ string) (interfaces.Response, error) {
		return okResponse(wellFormedRSS), nil
	}}
	fetcher := newTestFetcher(client)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// cancelled before the semaphore is acquired
	fetcher.sem <- struct{}{}
	for i := 0; i < cap(fetcher.sem)-1; i++ {
		fetcher.sem <- struct{}{}
	}
	if result := fetcher.Fetch(ctx, "https://example.com/rss"); result != nil {
		t.Error("Fetch should return nil when the context is already cancelled")
	}
}
