// ABOUTME: Dependencies container provides dependency injection for core services
// ABOUTME: Defines the contract for dependencies required by the core business logic

package interfaces

// Dependencies holds all external dependencies required by the core business logic
type Dependencies struct {
	// Cache provides caching functionality
	Cache Cache

	// HTTPClient provides the shared HTTP transport
	HTTPClient HTTPClient

	// Logger provides structured logging
	Logger Logger

	// Notifier delivers best-effort status messages; may be nil
	Notifier StatusNotifier
}
