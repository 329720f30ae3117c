// ABOUTME: Configuration management for the pipeline with environment variable support
// ABOUTME: Defines configuration structures for fetching, enhancement, and caching

package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration consumed by the core pipeline
type Config struct {
	// Fetch contains feed fetching configuration
	Fetch FetchConfig

	// AI contains content enhancement configuration
	AI AIConfig

	// Cache contains cache backend configuration
	Cache CacheConfig
}

// FetchConfig holds feed fetcher configuration
type FetchConfig struct {
	// MaxRetries is the attempt budget per fetch (transient errors only)
	MaxRetries int

	// RetryBaseDelay is multiplied by the attempt number between retries
	RetryBaseDelay time.Duration

	// ProxyURL routes outbound requests through a proxy when non-empty
	ProxyURL string

	// UserAgent is sent on all outbound requests
	UserAgent string
}

// AIConfig holds content enhancement configuration
type AIConfig struct {
	// Enabled turns the enhancement pipeline on
	Enabled bool

	// ProviderType selects the provider implementation: "openai" or "custom"
	ProviderType string

	// APIKey authenticates with the provider; the enhancer starts inactive
	// without one
	APIKey string

	// BaseURL overrides the provider endpoint (OpenAI-compatible gateways)
	BaseURL string

	// Model is the provider model identifier
	Model string

	// MaxTokens caps the provider response length
	MaxTokens int

	// Temperature controls provider sampling
	Temperature float32

	// PromptTemplate is rendered with {title} and {description} placeholders
	PromptTemplate string

	// MaxTitleLength caps enhanced titles
	MaxTitleLength int

	// MaxDescriptionLength caps enhanced descriptions
	MaxDescriptionLength int

	// ErrorThreshold is the consecutive-failure count that trips the breaker
	ErrorThreshold int

	// LowQualityPhrases are boilerplate signatures that reject a response.
	// Kept as data so other locales can supply their own list.
	LowQualityPhrases []string

	// TitleLabels and DescriptionLabels are the field labels the response
	// parser recognizes, in match priority order
	TitleLabels       []string
	DescriptionLabels []string
}

// CacheConfig holds cache backend configuration
type CacheConfig struct {
	// Type specifies the cache backend (memory/redis/sqlite)
	Type string

	// Redis contains Redis-specific configuration
	Redis RedisConfig

	// Memory contains in-memory cache configuration
	Memory MemoryConfig

	// SQLite contains file-backed cache configuration
	SQLite SQLiteConfig
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	// Address is the Redis server address
	Address string

	// Password is the Redis authentication password
	Password string

	// DB is the Redis database number
	DB int
}

// MemoryConfig holds in-memory cache configuration
type MemoryConfig struct {
	// DefaultExpiration is the default TTL for cache entries in seconds
	DefaultExpiration int
}

// SQLiteConfig holds file-backed cache configuration
type SQLiteConfig struct {
	// Path is the database file location
	Path string
}

const defaultPromptTemplate = "Rewrite the following news item. " +
	"Respond with lines 'Title:' and 'Description:'.\n" +
	"Title: {title}\nDescription: {description}"

// defaultLowQualityPhrases are the boilerplate signatures the quality gate
// rejects. Bilingual because the upstream feeds and providers are.
var defaultLowQualityPhrases = []string{
	"see other sources",
	"read more at",
	"more information can be found",
	"в интернете есть много сайтов",
	"посмотрите, что нашлось в поиске",
	"дополнительные материалы:",
	"смотрите также:",
	"читайте далее",
	"читайте также",
	"рекомендуем прочитать",
	"подробнее на сайте",
	"другие источники:",
	"больше информации можно найти",
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Fetch: FetchConfig{
			MaxRetries:     getEnvAsIntOrDefault("FETCH_MAX_RETRIES", 3),
			RetryBaseDelay: time.Duration(getEnvAsIntOrDefault("FETCH_RETRY_DELAY_MS", 500)) * time.Millisecond,
			ProxyURL:       getEnvOrDefault("FETCH_PROXY_URL", ""),
			UserAgent:      getEnvOrDefault("FETCH_USER_AGENT", "RSSBot/1.0"),
		},
		AI: AIConfig{
			Enabled:              getEnvAsBoolOrDefault("AI_ENABLED", false),
			ProviderType:         getEnvOrDefault("AI_PROVIDER_TYPE", "openai"),
			APIKey:               getEnvOrDefault("AI_API_KEY", ""),
			BaseURL:              getEnvOrDefault("AI_BASE_URL", ""),
			Model:                getEnvOrDefault("AI_MODEL", "gpt-4o-mini"),
			MaxTokens:            getEnvAsIntOrDefault("AI_MAX_TOKENS", 500),
			Temperature:          getEnvAsFloatOrDefault("AI_TEMPERATURE", 0.7),
			PromptTemplate:       getEnvOrDefault("AI_PROMPT", defaultPromptTemplate),
			MaxTitleLength:       getEnvAsIntOrDefault("AI_MAX_TITLE_LENGTH", 200),
			MaxDescriptionLength: getEnvAsIntOrDefault("AI_MAX_DESC_LENGTH", 800),
			ErrorThreshold:       getEnvAsIntOrDefault("AI_ERROR_THRESHOLD", 5),
			LowQualityPhrases:    getEnvAsListOrDefault("AI_LOW_QUALITY_PHRASES", defaultLowQualityPhrases),
			TitleLabels:          getEnvAsListOrDefault("AI_TITLE_LABELS", []string{"title", "заголовок"}),
			DescriptionLabels:    getEnvAsListOrDefault("AI_DESCRIPTION_LABELS", []string{"description", "описание"}),
		},
		Cache: CacheConfig{
			Type: getEnvOrDefault("CACHE_TYPE", "memory"),
			Redis: RedisConfig{
				Address:  getEnvOrDefault("REDIS_ADDRESS", "localhost:6379"),
				Password: getEnvOrDefault("REDIS_PASSWORD", ""),
				DB:       getEnvAsIntOrDefault("REDIS_DB", 0),
			},
			Memory: MemoryConfig{
				DefaultExpiration: getEnvAsIntOrDefault("MEMORY_CACHE_EXPIRATION", 3600),
			},
			SQLite: SQLiteConfig{
				Path: getEnvOrDefault("SQLITE_CACHE_PATH", "cache.db"),
			},
		},
	}

	return cfg, nil
}

// getEnvOrDefault returns the environment variable value or a default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault returns the environment variable as int or a default
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBoolOrDefault returns the environment variable as bool or a default
func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsFloatOrDefault returns the environment variable as float32 or a default
func getEnvAsFloatOrDefault(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatValue)
		}
	}
	return defaultValue
}

// getEnvAsListOrDefault returns the environment variable split on "|" or a default.
// Pipe-separated because phrase lists may contain commas.
func getEnvAsListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parts := strings.Split(value, "|")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}

	if len(result) == 0 {
		return defaultValue
	}
	return result
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Fetch.MaxRetries < 1 {
		return errors.New("fetch max retries must be at least 1")
	}

	if c.Fetch.RetryBaseDelay < 0 {
		return errors.New("fetch retry delay cannot be negative")
	}

	if c.Cache.Type != "memory" && c.Cache.Type != "redis" && c.Cache.Type != "sqlite" {
		return errors.New("cache type must be 'memory', 'redis' or 'sqlite'")
	}

	if c.Cache.Type == "redis" && c.Cache.Redis.Address == "" {
		return errors.New("redis address cannot be empty when using redis cache")
	}

	if c.AI.Enabled {
		if c.AI.ProviderType != "openai" && c.AI.ProviderType != "custom" {
			return errors.New("AI provider type must be 'openai' or 'custom'")
		}

		if c.AI.ErrorThreshold < 1 {
			return errors.New("AI error threshold must be at least 1")
		}

		if c.AI.MaxTitleLength < 1 || c.AI.MaxDescriptionLength < 1 {
			return errors.New("AI output length limits must be positive")
		}

		if !strings.Contains(c.AI.PromptTemplate, "{title}") ||
			!strings.Contains(c.AI.PromptTemplate, "{description}") {
			return errors.New("AI prompt template must contain {title} and {description} placeholders")
		}
	}

	return nil
}
