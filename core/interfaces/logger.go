// ABOUTME: Logger interface for structured logging throughout the pipeline
// ABOUTME: Implementations live under infrastructure/logger (logrus)

package interfaces

// Logger defines the structured logging contract used by all core packages.
// Fields carry structured context and may be nil.
//
//	logger.Warn("feed fetch failed", map[string]interface{}{
//		"url":   feedURL,
//		"error": err.Error(),
//	})
type Logger interface {
	// Debug logs detailed troubleshooting information.
	Debug(msg string, fields map[string]interface{})

	// Info logs general informational messages.
	Info(msg string, fields map[string]interface{})

	// Warn logs potential issues that do not prevent operation.
	Warn(msg string, fields map[string]interface{})

	// Error logs failures that need attention.
	Error(msg string, fields map[string]interface{})
}
