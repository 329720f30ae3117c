// ABOUTME: Page-level image lookups: primary image resolution and full inventory
// ABOUTME: Uses colly to fetch pages, with transient-error retry and rate limiting

package images

import (
	"bytes"
	"context"
	"strings"
	"time"

	"feedbot-core/core/interfaces"
	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly"
	"golang.org/x/time/rate"
)

// contentSelectors is the curated set scanned for a page's primary image
var contentSelectors = []string{
	"article img",
	".post-content img",
	".article-body img",
	"main img",
	"figure img",
	"picture source",
	`[itemprop="image"]`,
	".content img",
	".article img",
	".post__body img",
	".story__content img",
}

// inventorySelectors is the broadened set used for the all-images inventory
var inventorySelectors = []string{
	"img",
	"picture source[srcset]",
	"[data-src]",
	".article-content img",
	".post-content img",
	".content img",
	`[itemprop="image"]`,
	"figure img",
	`div[class*="image"] img`,
}

const (
	pageFetchTimeout = 10 * time.Second
	maxPageBodySize  = 5 * 1024 * 1024
	cacheTTL         = 24 * time.Hour
)

// ResolverConfig holds tunables for page-level lookups
type ResolverConfig struct {
	// MaxRetries is the fetch attempt budget for primary-image lookups
	MaxRetries int

	// RetryDelay is multiplied by the attempt number between retries
	RetryDelay time.Duration

	// UserAgent is sent on page fetches
	UserAgent string

	// RequestsPerSecond limits outbound page fetches process-wide
	RequestsPerSecond float64
}

// DefaultResolverConfig returns the default page lookup configuration
func DefaultResolverConfig() ResolverConfig {
	return ResolverConfig{
		MaxRetries:        3,
		RetryDelay:        500 * time.Millisecond,
		UserAgent:         "RSSBot/1.0",
		RequestsPerSecond: 4,
	}
}

// Resolver performs page-level image lookups
type Resolver struct {
	deps    interfaces.Dependencies
	config  ResolverConfig
	limiter *rate.Limiter
}

// NewResolver creates a resolver for page-level image lookups
func NewResolver(deps interfaces.Dependencies, config ResolverConfig) *Resolver {
	if config.MaxRetries <= 0 {
		config.MaxRetries = DefaultResolverConfig().MaxRetries
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = DefaultResolverConfig().RetryDelay
	}
	if config.UserAgent == "" {
		config.UserAgent = DefaultResolverConfig().UserAgent
	}
	if config.RequestsPerSecond <= 0 {
		config.RequestsPerSecond = DefaultResolverConfig().RequestsPerSecond
	}

	return &Resolver{
		deps:    deps,
		config:  config,
		limiter: rate.NewLimiter(rate.Limit(config.RequestsPerSecond), 1),
	}
}

// PrimaryFromPage fetches a page and resolves its primary image.
// Strategy order: Open Graph / Twitter meta tags, ranked content-area scan,
// favicon link, first image passing the basic validity filter.
// Returns "" when the page yields nothing or cannot be fetched.
func (r *Resolver) PrimaryFromPage(ctx context.Context, pageURL string) string {
	if pageURL == "" {
		return ""
	}

	if cached := r.cachedURL(ctx, "primaryimage:"+pageURL); cached != "" {
		return cached
	}

	doc := r.fetchWithRetry(ctx, pageURL)
	if doc == nil {
		return ""
	}

	result := metaImage(doc)
	if result == "" {
		result = selectBest(collectCandidates(doc, contentSelectors, pageURL))
	}
	if result == "" {
		result = fallbackImage(doc, pageURL)
	}

	if result != "" {
		r.storeURL(ctx, "primaryimage:"+pageURL, result)
	}
	return result
}

// AllImages fetches a page once and returns every discoverable image URL,
// deduplicated and in document order. No ranking, no retry.
func (r *Resolver) AllImages(ctx context.Context, pageURL string) []string {
	doc := r.fetchPage(ctx, pageURL)
	if doc == nil {
		return nil
	}

	seen := make(map[string]struct{})
	var out []string

	for _, selector := range inventorySelectors {
		doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
			src := imageSource(s)
			if src == "" {
				return
			}
			normalized := NormalizeURL(src, pageURL)
			if normalized == "" {
				return
			}
			if _, dup := seen[normalized]; dup {
				return
			}
			seen[normalized] = struct{}{}
			out = append(out, normalized)
		})
	}

	return out
}

// fetchWithRetry fetches a page with linear backoff, retrying only
// transport-level failures. HTTP error statuses abort immediately.
func (r *Resolver) fetchWithRetry(ctx context.Context, pageURL string) *goquery.Document {
	for attempt := 1; attempt <= r.config.MaxRetries; attempt++ {
		doc, transient := r.tryFetch(ctx, pageURL)
		if doc != nil {
			return doc
		}
		if !transient || attempt == r.config.MaxRetries {
			return nil
		}

		r.logDebug("page fetch retry", map[string]interface{}{
			"url":     pageURL,
			"attempt": attempt,
		})

		select {
		case <-time.After(r.config.RetryDelay * time.Duration(attempt)):
		case <-ctx.Done():
			return nil
		}
	}
	return nil
}

// fetchPage performs a single page fetch without retry
func (r *Resolver) fetchPage(ctx context.Context, pageURL string) *goquery.Document {
	doc, _ := r.tryFetch(ctx, pageURL)
	return doc
}

// tryFetch performs one fetch attempt. The bool reports whether a failure
// was transport-level and therefore retryable.
func (r *Resolver) tryFetch(ctx context.Context, pageURL string) (*goquery.Document, bool) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, false
	}

	c := colly.NewCollector(
		colly.UserAgent(r.config.UserAgent),
		colly.MaxBodySize(maxPageBodySize),
		colly.Async(false),
		colly.AllowURLRevisit(),
	)
	c.SetRequestTimeout(pageFetchTimeout)

	var body []byte
	var failStatus int
	var failErr error

	c.OnResponse(func(resp *colly.Response) {
		body = resp.Body
	})
	c.OnError(func(resp *colly.Response, err error) {
		failErr = err
		if resp != nil {
			failStatus = resp.StatusCode
		}
	})

	if err := c.Visit(pageURL); err != nil && failErr == nil {
		failErr = err
	}

	if len(body) == 0 {
		// a recorded status means the server answered; that is terminal
		transient := failErr != nil && failStatus == 0
		r.logDebug("page fetch failed", map[string]interface{}{
			"url":    pageURL,
			"status": failStatus,
			"error":  errString(failErr),
		})
		return nil, transient
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, false
	}
	return doc, false
}

// metaImage looks for Open Graph and Twitter Card image tags
func metaImage(doc *goquery.Document) string {
	result := ""
	doc.Find("meta").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		content, ok := s.Attr("content")
		if !ok || content == "" {
			return true
		}

		prop := strings.ToLower(s.AttrOr("property", ""))
		name := strings.ToLower(s.AttrOr("name", ""))

		if strings.Contains(prop, "og:image") || strings.Contains(prop, "image") ||
			strings.Contains(name, "twitter:image") {
			result = content
			return false
		}
		return true
	})
	return result
}

// fallbackImage tries the site's favicon link, then the first image passing
// the basic validity filter
func fallbackImage(doc *goquery.Document, baseURL string) string {
	href, ok := doc.Find(`link[rel="icon"], link[rel="shortcut icon"]`).First().Attr("href")
	if ok && href != "" {
		if normalized := NormalizeURL(href, baseURL); normalized != "" {
			return normalized
		}
	}

	result := ""
	doc.Find("img").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		src := imageSource(s)
		if src == "" {
			return true
		}
		normalized := NormalizeURL(src, baseURL)
		if normalized == "" || !isRelevant(s, normalized) {
			return true
		}
		result = normalized
		return false
	})
	return result
}

// cachedURL reads a previously resolved URL from the cache
func (r *Resolver) cachedURL(ctx context.Context, key string) string {
	if r.deps.Cache == nil {
		return ""
	}
	data, err := r.deps.Cache.Get(ctx, key)
	if err != nil || len(data) == 0 {
		return ""
	}
	return string(data)
}

// storeURL writes a resolved URL to the cache, best-effort
func (r *Resolver) storeURL(ctx context.Context, key, value string) {
	if r.deps.Cache == nil {
		return
	}
	_ = r.deps.Cache.Set(ctx, key, []byte(value), cacheTTL)
}

func (r *Resolver) logDebug(msg string, fields map[string]interface{}) {
	if r.deps.Logger != nil {
		r.deps.Logger.Debug(msg, fields)
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
