// ABOUTME: Entry extraction from parsed feeds into canonical Entry records
// ABOUTME: Handles GUID synthesis, batch dedup, field normalization and image fallbacks

package feed

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"time"

	"github.com/mmcdole/gofeed"

	coreconfig "feedbot-core/core/config"
	"feedbot-core/core/domain"
	"feedbot-core/core/images"
	"feedbot-core/core/interfaces"
	htmlutil "feedbot-core/pkg/utils/html"
	timeutil "feedbot-core/pkg/utils/time"
)

// Extractor converts parsed feed items into canonical entries. A failure on
// one item never aborts the batch: the item is logged and skipped.
type Extractor struct {
	deps    interfaces.Dependencies
	content interfaces.ContentExtractor
	colors  interfaces.ThumbnailColorService
	options coreconfig.ExtractionConfig
}

// NewExtractor creates an extractor with the given dependencies. Options
// default to all optional features enabled.
func NewExtractor(deps interfaces.Dependencies, opts ...coreconfig.ExtractionOption) *Extractor {
	return &Extractor{
		deps:    deps,
		options: coreconfig.NewExtractionConfig(opts...),
	}
}

// SetContentExtractor enables the article-content fallback for entries
// whose feed carries no usable summary.
func (e *Extractor) SetContentExtractor(ce interfaces.ContentExtractor) {
	e.content = ce
}

// SetThumbnailColorService enables prominent-color extraction for
// resolved entry images.
func (e *Extractor) SetThumbnailColorService(svc interfaces.ThumbnailColorService) {
	e.colors = svc
}

// ParseEntries extracts one Entry per feed item, deduplicated by GUID.
// The first occurrence of a GUID wins; later duplicates are dropped.
func (e *Extractor) ParseEntries(ctx context.Context, result *FetchResult) []domain.Entry {
	if result == nil || result.Feed == nil || len(result.Feed.Items) == 0 {
		return nil
	}

	base := result.BaseURL()
	seen := make(map[string]struct{}, len(result.Feed.Items))
	entries := make([]domain.Entry, 0, len(result.Feed.Items))

	for _, item := range result.Feed.Items {
		if item == nil {
			continue
		}
		entry, ok := e.extractOne(ctx, item, base)
		if !ok {
			continue
		}
		if _, dup := seen[entry.GUID]; dup {
			e.deps.Logger.Debug("duplicate GUID dropped", map[string]interface{}{
				"guid": entry.GUID,
				"url":  result.SourceURL,
			})
			continue
		}
		seen[entry.GUID] = struct{}{}
		entries = append(entries, entry)
	}

	return entries
}

// extractOne builds an Entry from a single item, recovering from panics so
// one malformed item cannot take the batch down.
func (e *Extractor) extractOne(ctx context.Context, item *gofeed.Item, base string) (entry domain.Entry, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			e.deps.Logger.Warn("entry extraction failed", map[string]interface{}{
				"title": item.Title,
				"panic": r,
			})
			ok = false
		}
	}()

	entry = domain.Entry{
		GUID:        entryGUID(item),
		Title:       entryTitle(item),
		Description: entryDescription(item),
		Link:        item.Link,
		PubDate:     entryPubDate(item),
		Author:      entryAuthor(item),
		Categories:  append([]string(nil), item.Categories...),
	}

	entry.ImageURL = e.resolveImage(item, entry.Link, base)

	if e.options.ArticleFallback && entry.Description == "" && e.content != nil && entry.Link != "" {
		e.fillFromArticle(ctx, &entry)
	}

	if e.options.ExtractColors && e.colors != nil && entry.ImageURL != "" {
		if color, err := e.colors.ExtractColor(ctx, entry.ImageURL); err == nil {
			entry.ThumbnailColor = color
		}
	}

	return entry, true
}

// entryGUID returns the item's explicit identifier, or a hash of its
// identifying fields so the same item always maps to the same GUID.
func entryGUID(item *gofeed.Item) string {
	if item.GUID != "" {
		return item.GUID
	}
	sum := md5.Sum([]byte(item.Link + item.Title + item.Published + item.Updated))
	return hex.EncodeToString(sum[:])
}

func entryTitle(item *gofeed.Item) string {
	title := htmlutil.CollapseWhitespace(htmlutil.StripTags(item.Title))
	if title == "" {
		return "No title"
	}
	return title
}

func entryDescription(item *gofeed.Item) string {
	if item.Description != "" {
		return htmlutil.StripTags(item.Description)
	}
	return htmlutil.StripTags(item.Content)
}

// pubDate candidates in priority order: published, updated, then the
// ad-hoc fields some feeds use instead.
func entryPubDate(item *gofeed.Item) string {
	candidates := []string{item.Published, item.Updated, item.Custom["pubDate"], item.Custom["date"]}
	for _, raw := range candidates {
		if raw == "" {
			continue
		}
		if t := timeutil.ParseFlexible(raw); !t.IsZero() {
			return timeutil.ToISO8601(t)
		}
	}
	return timeutil.ToISO8601(time.Now())
}

func entryAuthor(item *gofeed.Item) string {
	if item.Author != nil && item.Author.Name != "" {
		return item.Author.Name
	}
	for _, a := range item.Authors {
		if a != nil && a.Name != "" {
			return a.Name
		}
	}
	return ""
}

// resolveImage tries the entry-embedded sources first, then mines the
// description and content markup for a usable image.
func (e *Extractor) resolveImage(item *gofeed.Item, link, base string) string {
	if img := images.ExtractFromItem(item); img != "" {
		return img
	}

	miningBase := link
	if miningBase == "" {
		miningBase = base
	}
	if item.Description != "" {
		if img := images.ExtractFromHTML(item.Description, miningBase); img != "" {
			return img
		}
	}
	if item.Content != "" {
		if img := images.ExtractFromHTML(item.Content, miningBase); img != "" {
			return img
		}
	}
	return ""
}

// fillFromArticle backfills description, image and author from the linked
// article when the feed itself had nothing usable.
func (e *Extractor) fillFromArticle(ctx context.Context, entry *domain.Entry) {
	article, err := e.content.Extract(ctx, entry.Link)
	if err != nil || article == nil {
		e.deps.Logger.Debug("article fallback failed", map[string]interface{}{
			"link": entry.Link,
		})
		return
	}
	if article.Excerpt != "" {
		entry.Description = htmlutil.CollapseWhitespace(article.Excerpt)
	}
	if entry.ImageURL == "" && article.ImageURL != "" {
		entry.ImageURL = article.ImageURL
	}
	if entry.Author == "" {
		entry.Author = article.Author
	}
}
