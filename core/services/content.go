// ABOUTME: Article content extraction service using go-readability
// ABOUTME: Backfills entry summaries and images when a feed carries no usable text

package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	readability "github.com/go-shiori/go-readability"

	"feedbot-core/core/interfaces"
)

const (
	articleFetchTimeout = 30 * time.Second
	articleCacheTTL     = 1 * time.Hour
)

// ContentService extracts readable article content from entry links
type ContentService struct {
	deps interfaces.Dependencies
}

// NewContentService creates a new content extraction service
func NewContentService(deps interfaces.Dependencies) *ContentService {
	return &ContentService{deps: deps}
}

// Extract pulls readable content from the article at pageURL.
func (s *ContentService) Extract(ctx context.Context, pageURL string) (*interfaces.ArticleContent, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid article URL: %s", pageURL)
	}

	cacheKey := "article:" + pageURL
	if s.deps.Cache != nil {
		if data, err := s.deps.Cache.Get(ctx, cacheKey); err == nil && data != nil {
			var cached interfaces.ArticleContent
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	article, err := readability.FromURL(pageURL, articleFetchTimeout)
	if err != nil {
		s.deps.Logger.Debug("article extraction failed", map[string]interface{}{
			"url":   pageURL,
			"error": err.Error(),
		})
		return nil, fmt.Errorf("extract article: %w", err)
	}

	content := &interfaces.ArticleContent{
		Title:    article.Title,
		Text:     article.TextContent,
		Excerpt:  article.Excerpt,
		ImageURL: article.Image,
		Author:   article.Byline,
	}

	if s.deps.Cache != nil {
		if data, err := json.Marshal(content); err == nil {
			_ = s.deps.Cache.Set(ctx, cacheKey, data, articleCacheTTL)
		}
	}

	return content, nil
}
