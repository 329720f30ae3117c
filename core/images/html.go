// ABOUTME: HTML mining for representative images in entry descriptions and pages
// ABOUTME: Scans an ordered selector list, normalizes URLs, filters noise assets

package images

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// miningSelectors is the ordered list scanned when mining arbitrary HTML.
// Candidates are collected across all selectors before filtering; the
// platform-specific entries cover sites whose content lives in known
// containers.
var miningSelectors = []string{
	"img",
	"picture source[srcset]",
	"[data-src]",
	"[data-lazy-src]",
	".post-content img",
	".article-body img",
	".content img",
	".post__body img",
	".story__content img",
}

// srcAttributes are tried in order on each matched element
var srcAttributes = []string{"src", "srcset", "data-src", "data-lazy-src"}

// blockedSubstrings disqualify a candidate when found in its URL or class
var blockedSubstrings = []string{
	"pixel", "icon", "logo", "spacer", "ad", "button", "border",
	"thumb", "mini", "avatar", "tracker", "counter",
}

const (
	minImageWidth  = 300
	minImageHeight = 200
)

// ExtractFromHTML mines an HTML fragment for the first relevant image,
// resolving relative URLs against baseURL. Returns "" when nothing survives
// the filters.
func ExtractFromHTML(html, baseURL string) string {
	if html == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	candidates := collectCandidates(doc, miningSelectors, baseURL)
	if len(candidates) == 0 {
		return ""
	}
	return candidates[0].url
}

// candidate pairs a normalized image URL with the element it came from
type candidate struct {
	url string
	sel *goquery.Selection
}

// collectCandidates scans all selectors in order and returns the surviving
// candidates in scan order
func collectCandidates(doc *goquery.Document, selectors []string, baseURL string) []candidate {
	var out []candidate

	for _, selector := range selectors {
		doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
			src := imageSource(s)
			if src == "" {
				return
			}

			normalized := NormalizeURL(src, baseURL)
			if normalized == "" {
				return
			}

			if !isRelevant(s, normalized) {
				return
			}

			out = append(out, candidate{url: normalized, sel: s})
		})
	}

	return out
}

// imageSource extracts a source URL from the first present source attribute.
// Space-delimited values (srcset) yield their first token.
func imageSource(s *goquery.Selection) string {
	for _, attr := range srcAttributes {
		v, ok := s.Attr(attr)
		if !ok || v == "" {
			continue
		}
		if i := strings.IndexAny(v, " \t\n"); i >= 0 {
			v = v[:i]
		}
		return v
	}
	return ""
}

// NormalizeURL resolves an image reference against a base URL.
// Absolute URLs pass through; protocol-relative gets https; root-relative
// takes the base's scheme and host; anything else is joined relative to the
// base path. Returns "" when resolution is impossible.
func NormalizeURL(raw, baseURL string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}

	if strings.HasPrefix(raw, "//") {
		return "https:" + raw
	}

	if baseURL == "" {
		return ""
	}

	base, err := url.Parse(baseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return ""
	}

	if strings.HasPrefix(raw, "/") {
		return base.Scheme + "://" + base.Host + raw
	}

	ref, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}

// isRelevant applies the noise filter: blocklisted substrings in the URL or
// CSS classes disqualify, as do declared dimensions below the minimum.
// Missing or unparseable dimensions are accepted.
func isRelevant(s *goquery.Selection, imgURL string) bool {
	lowered := strings.ToLower(imgURL)
	for _, bad := range blockedSubstrings {
		if strings.Contains(lowered, bad) {
			return false
		}
	}

	if class, ok := s.Attr("class"); ok {
		loweredClass := strings.ToLower(class)
		for _, bad := range blockedSubstrings {
			if strings.Contains(loweredClass, bad) {
				return false
			}
		}
	}

	width, wOK := declaredDimension(s, "width")
	height, hOK := declaredDimension(s, "height")
	if wOK && hOK {
		if width < minImageWidth || height < minImageHeight {
			return false
		}
	}

	return true
}

// declaredDimension parses a numeric size attribute, tolerating unit
// suffixes like "300px"
func declaredDimension(s *goquery.Selection, attr string) (int, bool) {
	v, ok := s.Attr(attr)
	if !ok || v == "" {
		return 0, false
	}

	digits := strings.Builder{}
	for _, r := range v {
		if r < '0' || r > '9' {
			break
		}
		digits.WriteRune(r)
	}
	if digits.Len() == 0 {
		return 0, false
	}

	n := 0
	for _, r := range digits.String() {
		n = n*10 + int(r-'0')
	}
	return n, true
}
