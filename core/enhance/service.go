// ABOUTME: Content enhancement service with a failure-counting circuit breaker
// ABOUTME: Sanitizes inputs, renders the prompt, parses the response and gates quality

package enhance

import (
	"context"
	"strings"
	"sync"

	"feedbot-core/core/domain"
	coreerrors "feedbot-core/core/errors"
	"feedbot-core/core/interfaces"
	"feedbot-core/pkg/config"
	"feedbot-core/pkg/featureflags"
)

// Service rewrites entry titles and descriptions through a text provider.
// The breaker trips after ErrorThreshold consecutive hard failures and
// stays tripped until Reset is called; nothing re-enables it automatically.
type Service struct {
	deps     interfaces.Dependencies
	provider interfaces.TextProvider
	parser   *ResponseParser
	config   config.AIConfig
	flags    featureflags.Manager

	mu                sync.Mutex
	active            bool
	errorCount        int
	consecutiveErrors int
	stats             domain.EnhancerStats
}

// NewService creates an enhancement service. The service starts inactive
// when enhancement is disabled or no provider is wired.
func NewService(deps interfaces.Dependencies, provider interfaces.TextProvider, cfg config.AIConfig) *Service {
	s := &Service{
		deps:     deps,
		provider: provider,
		parser:   NewResponseParser(cfg),
		config:   cfg,
		active:   cfg.Enabled && provider != nil,
	}
	deps.Logger.Info("enhancement service initialized", map[string]interface{}{
		"active":   s.active,
		"provider": cfg.ProviderType,
		"model":    cfg.Model,
	})
	return s
}

// SetFeatureFlags installs a runtime kill switch: when a manager is set,
// enhancement also requires the enhancement_enabled flag. A nil manager
// leaves the service governed by configuration alone.
func (s *Service) SetFeatureFlags(m featureflags.Manager) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flags = m
}

// IsAvailable reports whether enhancement can be attempted right now.
func (s *Service) IsAvailable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.available()
}

// available assumes s.mu is held.
func (s *Service) available() bool {
	return s.active && s.errorCount < s.config.ErrorThreshold
}

// Stats returns a copy of the usage counters.
func (s *Service) Stats() domain.EnhancerStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Reset re-arms a tripped breaker and zeroes the failure counters. This is
// the only path back to active once the breaker has tripped.
func (s *Service) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = s.config.Enabled && s.provider != nil
	s.errorCount = 0
	s.consecutiveErrors = 0
	s.deps.Logger.Info("enhancement service reset", map[string]interface{}{
		"active": s.active,
	})
}

// Enhance rewrites title and description. It returns nil when the service
// is unavailable, the provider fails, the response cannot be parsed, or the
// result fails the quality gate. Enhance never returns an error: failures
// update counters and the caller falls back to the original text.
func (s *Service) Enhance(ctx context.Context, title, description string) *domain.Enhancement {
	s.mu.Lock()
	flags := s.flags
	if !s.available() {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	if flags != nil && !flags.IsEnabled(ctx, featureflags.EnhancementEnabled) {
		return nil
	}

	prompt := s.renderPrompt(title, description)

	gen, err := s.provider.Generate(ctx, prompt)
	if err != nil {
		perr := &coreerrors.ProviderError{Provider: s.config.ProviderType, Err: err}
		s.handleError(perr.Error())
		return nil
	}

	s.mu.Lock()
	s.stats.TokenUsage += gen.TokensUsed
	s.mu.Unlock()

	parsed := s.parser.Parse(gen.Text)
	if parsed == nil {
		s.handleError("response parsing failed")
		return nil
	}

	s.mu.Lock()
	s.stats.Used++
	s.consecutiveErrors = 0
	s.mu.Unlock()

	if isLowQuality(parsed.Description, s.config.LowQualityPhrases) {
		// soft rejection: counts as an error in the stats but does not
		// advance the breaker
		s.deps.Logger.Warn("low quality response rejected", map[string]interface{}{
			"title": title,
		})
		s.mu.Lock()
		s.stats.Errors++
		s.mu.Unlock()
		return nil
	}

	return parsed
}

// renderPrompt interpolates the sanitized fields into the template.
func (s *Service) renderPrompt(title, description string) string {
	r := strings.NewReplacer(
		"{title}", SanitizePromptInput(title),
		"{description}", SanitizePromptInput(description),
	)
	return r.Replace(s.config.PromptTemplate)
}

// handleError advances the failure counters and trips the breaker when the
// consecutive-failure threshold is reached.
func (s *Service) handleError(reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.errorCount++
	s.consecutiveErrors++
	s.stats.Errors++

	s.deps.Logger.Error("enhancement failed", map[string]interface{}{
		"reason":             reason,
		"consecutive_errors": s.consecutiveErrors,
	})

	if s.consecutiveErrors >= s.config.ErrorThreshold && s.active {
		s.active = false
		s.deps.Logger.Warn("enhancement disabled after repeated failures", map[string]interface{}{
			"threshold": s.config.ErrorThreshold,
		})
	}
}
