// Package infrastructure provides concrete implementations of the interfaces
// defined in the core package. These implementations handle external concerns
// such as caching, HTTP communication, logging, text generation and
// notification delivery.
//
// The infrastructure package is organized by technical concern:
//
// - cache/memory: In-memory cache backed by go-cache
// - cache/redis: Redis-based cache implementation
// - cache/sqlite: File-backed cache that survives restarts
// - http/standard: Shared HTTP transport with explicit open/closed state
// - logger/logrus: Structured logger backed by logrus
// - provider/openai: Text provider using the OpenAI chat completions API
// - provider/httpapi: Text provider for OpenAI-compatible endpoints
// - notifier/webhook: Best-effort status notifications over a webhook
//
// # Design Philosophy
//
// Infrastructure components are designed to be:
// - Pluggable: Easy to swap implementations
// - Configurable: Accept configuration objects
// - Testable: Include both unit and integration tests
//
// # Cache Implementations
//
// Memory Cache Example:
//
//	cache := memory.NewMemoryCache(10 * time.Minute)
//	err := cache.Set(ctx, "key", []byte("value"), 1*time.Hour)
//	value, err := cache.Get(ctx, "key")
//
// SQLite Cache Example:
//
//	cache, err := sqlite.NewSQLiteCache("cache.db")
//
// # HTTP Client
//
// The HTTP client reports its open/closed state so the fetch pipeline can
// request recovery instead of rebuilding the transport itself:
//
//	client, err := standard.NewStandardHTTPClient(standard.Config{})
//	if err != nil {
//	    // Handle error
//	}
//	resp, err := client.Get(ctx, "https://example.com")
//	if err != nil {
//	    // Handle error
//	}
//	defer resp.Body().Close()
//
// # Logger
//
// The logger supports structured logging with fields:
//
//	logger := logrus.New("info")
//	logger.Info("fetching feed", map[string]interface{}{
//	    "url": "https://example.com/feed.rss",
//	})
package infrastructure
