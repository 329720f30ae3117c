// ABOUTME: Relevance scoring for image candidates on full pages
// ABOUTME: Highest score wins with a stable first-seen tie-break

package images

import "strings"

// primaryKeywords in an image URL suggest it is the page's main imagery
var primaryKeywords = []string{"main", "featured", "hero", "cover", "primary"}

const (
	largeImageBonus   = 50
	keywordBonus      = 30
	maxAreaBonus      = 40
	socialIconPenalty = 20
)

// relevanceScore rates how likely a candidate is the page's primary image
func relevanceScore(c candidate) int {
	score := 0

	if _, ok := c.sel.Attr("data-large-image"); ok {
		score += largeImageBonus
	}

	lowered := strings.ToLower(c.url)
	for _, kw := range primaryKeywords {
		if strings.Contains(lowered, kw) {
			score += keywordBonus
			break
		}
	}

	width, wOK := declaredDimension(c.sel, "width")
	height, hOK := declaredDimension(c.sel, "height")
	if wOK && hOK {
		bonus := width * height / 1000
		if bonus > maxAreaBonus {
			bonus = maxAreaBonus
		}
		score += bonus
	}

	if strings.Contains(lowered, "social") || strings.Contains(lowered, "icon") {
		score -= socialIconPenalty
	}

	return score
}

// selectBest returns the highest-scoring candidate URL, preferring earlier
// candidates on ties. Returns "" for an empty slate.
func selectBest(candidates []candidate) string {
	if len(candidates) == 0 {
		return ""
	}

	best := 0
	bestScore := relevanceScore(candidates[0])
	for i := 1; i < len(candidates); i++ {
		if score := relevanceScore(candidates[i]); score > bestScore {
			best = i
			bestScore = score
		}
	}

	return candidates[best].url
}
