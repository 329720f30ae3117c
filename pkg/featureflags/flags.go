// ABOUTME: Feature flag management for gradual rollout of pipeline behaviors
// ABOUTME: Provides interface-based feature toggling with env and static backends

package featureflags

import (
	"context"
	"hash/fnv"
	"os"
	"strings"
	"sync"
)

// FeatureFlag represents a single feature flag
type FeatureFlag string

// Defined feature flags
const (
	// EnhancementEnabled is a runtime kill switch for generative rewriting
	EnhancementEnabled FeatureFlag = "enhancement_enabled"

	// ColorExtraction enables prominent-color extraction for entry images
	ColorExtraction FeatureFlag = "color_extraction"

	// ArticleFallback enables fetching linked articles for empty summaries
	ArticleFallback FeatureFlag = "article_fallback"

	// PersistentCache selects the file-backed cache over the in-memory one
	PersistentCache FeatureFlag = "persistent_cache"

	// WebhookNotifications enables failure notifications to the webhook
	WebhookNotifications FeatureFlag = "webhook_notifications"
)

var allFlags = []FeatureFlag{
	EnhancementEnabled,
	ColorExtraction,
	ArticleFallback,
	PersistentCache,
	WebhookNotifications,
}

// Manager defines the interface for feature flag management
type Manager interface {
	// IsEnabled checks if a feature flag is enabled
	IsEnabled(ctx context.Context, flag FeatureFlag) bool

	// IsEnabledForFeed checks if a feature is enabled for a specific feed,
	// allowing percentage-based rollout keyed on the feed URL
	IsEnabledForFeed(ctx context.Context, flag FeatureFlag, feedURL string) bool

	// SetEnabled sets a feature flag's state (for testing)
	SetEnabled(flag FeatureFlag, enabled bool)

	// GetAllFlags returns the state of all flags
	GetAllFlags() map[FeatureFlag]bool
}

// EnvManager implements Manager using environment variables
type EnvManager struct {
	mu        sync.RWMutex
	overrides map[FeatureFlag]bool
	prefix    string
}

// NewEnvManager creates a new environment-based feature flag manager
func NewEnvManager(prefix string) *EnvManager {
	if prefix == "" {
		prefix = "FEATURE_"
	}
	return &EnvManager{
		overrides: make(map[FeatureFlag]bool),
		prefix:    prefix,
	}
}

// IsEnabled checks if a feature flag is enabled
func (m *EnvManager) IsEnabled(ctx context.Context, flag FeatureFlag) bool {
	m.mu.RLock()
	if enabled, ok := m.overrides[flag]; ok {
		m.mu.RUnlock()
		return enabled
	}
	m.mu.RUnlock()

	envKey := m.prefix + strings.ToUpper(string(flag))
	value := strings.ToLower(os.Getenv(envKey))

	return value == "true" || value == "1" || value == "enabled"
}

// IsEnabledForFeed checks if a feature is enabled for a specific feed.
// For EnvManager this is the same as IsEnabled (no per-feed control).
func (m *EnvManager) IsEnabledForFeed(ctx context.Context, flag FeatureFlag, feedURL string) bool {
	return m.IsEnabled(ctx, flag)
}

// SetEnabled sets a feature flag's state (mainly for testing)
func (m *EnvManager) SetEnabled(flag FeatureFlag, enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.overrides[flag] = enabled
}

// GetAllFlags returns the state of all defined flags
func (m *EnvManager) GetAllFlags() map[FeatureFlag]bool {
	ctx := context.Background()
	flags := make(map[FeatureFlag]bool, len(allFlags))
	for _, flag := range allFlags {
		flags[flag] = m.IsEnabled(ctx, flag)
	}
	return flags
}

// StaticManager implements Manager with static configuration plus an
// optional per-feed rollout percentage
type StaticManager struct {
	mu      sync.RWMutex
	flags   map[FeatureFlag]bool
	rollout map[FeatureFlag]uint32
}

// NewStaticManager creates a manager with predefined flag states
func NewStaticManager(flags map[FeatureFlag]bool) *StaticManager {
	if flags == nil {
		flags = make(map[FeatureFlag]bool)
	}
	return &StaticManager{
		flags:   flags,
		rollout: make(map[FeatureFlag]uint32),
	}
}

// SetRolloutPercent limits a flag to a stable subset of feeds. A feed is
// included when its URL hashes into the percentage bucket; 100 includes
// every feed.
func (m *StaticManager) SetRolloutPercent(flag FeatureFlag, percent uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if percent > 100 {
		percent = 100
	}
	m.rollout[flag] = percent
}

// IsEnabled checks if a feature flag is enabled
func (m *StaticManager) IsEnabled(ctx context.Context, flag FeatureFlag) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.flags[flag]
}

// IsEnabledForFeed checks the flag and, when a rollout percentage is set,
// whether the feed URL falls inside the rollout bucket.
func (m *StaticManager) IsEnabledForFeed(ctx context.Context, flag FeatureFlag, feedURL string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.flags[flag] {
		return false
	}
	percent, ok := m.rollout[flag]
	if !ok {
		return true
	}

	h := fnv.New32a()
	h.Write([]byte(feedURL))
	return h.Sum32()%100 < percent
}

// SetEnabled sets a feature flag's state
func (m *StaticManager) SetEnabled(flag FeatureFlag, enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flags[flag] = enabled
}

// GetAllFlags returns all flag states
func (m *StaticManager) GetAllFlags() map[FeatureFlag]bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[FeatureFlag]bool, len(m.flags))
	for k, v := range m.flags {
		result[k] = v
	}
	return result
}

type contextKey struct{}

// WithManager adds a feature flag manager to the context
func WithManager(ctx context.Context, manager Manager) context.Context {
	return context.WithValue(ctx, contextKey{}, manager)
}

// FromContext retrieves the feature flag manager from context. When no
// manager is present, a manager with all features disabled is returned.
func FromContext(ctx context.Context) Manager {
	if manager, ok := ctx.Value(contextKey{}).(Manager); ok {
		return manager
	}
	return NewStaticManager(nil)
}

// IsEnabled is a convenience function to check if a feature is enabled
func IsEnabled(ctx context.Context, flag FeatureFlag) bool {
	return FromContext(ctx).IsEnabled(ctx, flag)
}

// IsEnabledForFeed is a convenience function to check if a feature is
// enabled for a specific feed
func IsEnabledForFeed(ctx context.Context, flag FeatureFlag, feedURL string) bool {
	return FromContext(ctx).IsEnabledForFeed(ctx, flag, feedURL)
}
