// ABOUTME: Extraction configuration for service-level control of optional entry features
// ABOUTME: Provides functional options independent of the wire-level feed structures

package config

// ExtractionConfig controls which optional extraction features are enabled
type ExtractionConfig struct {
	// ExtractColors controls prominent-color extraction for entry images
	ExtractColors bool

	// ArticleFallback controls fetching the linked article when a feed
	// item carries no usable summary
	ArticleFallback bool
}

// DefaultExtractionConfig returns the default configuration with all
// features enabled
func DefaultExtractionConfig() ExtractionConfig {
	return ExtractionConfig{
		ExtractColors:   true,
		ArticleFallback: true,
	}
}

// ExtractionOption is a functional option for configuring extraction
type ExtractionOption func(*ExtractionConfig)

// WithColors enables or disables color extraction
func WithColors(enabled bool) ExtractionOption {
	return func(c *ExtractionConfig) {
		c.ExtractColors = enabled
	}
}

// WithArticleFallback enables or disables the linked-article fallback
func WithArticleFallback(enabled bool) ExtractionOption {
	return func(c *ExtractionConfig) {
		c.ArticleFallback = enabled
	}
}

// WithoutColors disables color extraction
func WithoutColors() ExtractionOption {
	return WithColors(false)
}

// WithoutArticleFallback disables the linked-article fallback
func WithoutArticleFallback() ExtractionOption {
	return WithArticleFallback(false)
}

// NewExtractionConfig creates an extraction configuration with the given
// options applied over the defaults
func NewExtractionConfig(opts ...ExtractionOption) ExtractionConfig {
	config := DefaultExtractionConfig()

	for _, opt := range opts {
		opt(&config)
	}

	return config
}
