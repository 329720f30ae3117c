// ABOUTME: Service interfaces for the core business logic
// ABOUTME: Defines contracts for enrichment services used by the extraction pipeline

package interfaces

import (
	"context"

	"feedbot-core/core/domain"
)

// ThumbnailColorService extracts prominent colors from resolved entry images
type ThumbnailColorService interface {
	ExtractColor(ctx context.Context, imageURL string) (*domain.RGBColor, error)
	ExtractColorBatch(ctx context.Context, imageURLs []string) map[string]*domain.RGBColor
}

// ArticleContent holds the readable content extracted from an article page
type ArticleContent struct {
	Title    string
	Text     string
	Excerpt  string
	ImageURL string
	Author   string
}

// ContentExtractor pulls readable article content from an entry's link.
// Used as a fallback when the feed itself carries no usable summary or image.
type ContentExtractor interface {
	Extract(ctx context.Context, pageURL string) (*ArticleContent, error)
}
