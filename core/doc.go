// Package core contains the business logic of the feed ingestion pipeline.
// It is framework-agnostic and can be used independently of any transport
// or infrastructure concerns.
//
// The core package is organized into several sub-packages:
//
// - domain: Pure domain models (Entry, Enhancement, RGBColor)
// - feed: Defensive fetching, hardened parsing and entry extraction
// - images: Multi-strategy image resolution and relevance ranking
// - enhance: Generative title/description rewriting with a circuit breaker
// - services: Article content and thumbnail color services
// - workers: Bounded worker pool for parse dispatch
// - errors: Custom error types for transport and session failures
// - interfaces: Contracts for external dependencies (cache, HTTP, logger)
//
// # Design Principles
//
// The core package follows clean architecture principles:
// - No external framework dependencies
// - All external dependencies are injected via interfaces
// - Business logic is testable in isolation
// - Domain models are free from persistence concerns
//
// # Usage Example
//
//	import (
//	    "feedbot-core/core/feed"
//	    "feedbot-core/core/interfaces"
//	)
//
//	// Create dependencies
//	deps := interfaces.Dependencies{
//	    Cache:      myCache,      // implements interfaces.Cache
//	    HTTPClient: myHTTPClient, // implements interfaces.HTTPClient
//	    Logger:     myLogger,     // implements interfaces.Logger
//	}
//
//	// Create the fetch pipeline
//	parser := feed.NewSafeParser(deps.Logger)
//	states := feed.NewStateStore()
//	fetcher := feed.NewFetcher(deps, parser, states, feed.DefaultFetcherConfig())
//	extractor := feed.NewExtractor(deps)
//
//	// Fetch and extract entries
//	result, err := fetcher.Fetch(ctx, "https://example.com/feed.rss")
//	if err == nil {
//	    entries := extractor.ParseEntries(ctx, result)
//	    _ = entries
//	}
package core
