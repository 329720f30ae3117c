// ABOUTME: Quality gate for provider responses
// ABOUTME: Rejects boilerplate search-result prose and embedded markdown links

package enhance

import (
	"regexp"
	"strings"
)

// markdownLink matches an inline markdown-style link, a reliable sign the
// provider pasted search results instead of rewriting the entry
var markdownLink = regexp.MustCompile(`\[.*\]\(https?://[^)]+\)`)

// isLowQuality reports whether text reads like provider boilerplate.
// An empty description is always low quality.
func isLowQuality(text string, phrases []string) bool {
	if text == "" {
		return true
	}
	lower := strings.ToLower(text)
	for _, phrase := range phrases {
		if phrase != "" && strings.Contains(lower, strings.ToLower(phrase)) {
			return true
		}
	}
	return markdownLink.MatchString(text)
}
