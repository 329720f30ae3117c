// ABOUTME: Cascading parser for provider responses in inconsistent shapes
// ABOUTME: Tries JSON, provider envelopes, labeled text patterns, then blind segmentation

package enhance

import (
	"encoding/json"
	"regexp"
	"strings"

	"feedbot-core/core/domain"
	"feedbot-core/pkg/config"
)

const (
	minTitleLength       = 5
	minDescriptionLength = 10
	sentenceFallbackCap  = 500
	offsetSplitTitle     = 100
	offsetSplitTotal     = 500
)

var (
	segmentBoundary  = regexp.MustCompile(`\n\n|\n-|\n•`)
	sentenceBoundary = regexp.MustCompile(`[.!?]\s+`)
)

// ResponseParser extracts a title/description pair from whatever shape the
// provider returned. Patterns are fixed at construction from the configured
// field labels, so localized responses parse without code changes.
type ResponseParser struct {
	maxTitle int
	maxDesc  int
	patterns []*regexp.Regexp
}

// NewResponseParser builds the pattern cascade for the configured labels.
func NewResponseParser(cfg config.AIConfig) *ResponseParser {
	titleAlt := labelAlternation(cfg.TitleLabels, "title")
	descAlt := labelAlternation(cfg.DescriptionLabels, "description")

	// order matters: quoted label:value first, then bare labels, then
	// structured fragments, then the two-line label pair
	patterns := []*regexp.Regexp{
		regexp.MustCompile(`(?is)(?:` + titleAlt + `)["']?:\s*["'](.+?)["']`),
		regexp.MustCompile(`(?is)(?:` + titleAlt + `)[\s:]*["']?(.+?)["']?(?:\n|$|\.)`),
		regexp.MustCompile(`(?is)(?:` + descAlt + `)[\s:]*["']?(.+?)["']?(?:\n|$|\.)`),
		regexp.MustCompile(`(?is)\{"title"\s*:\s*"([^"]+)"[^}]*"description"\s*:\s*"([^"]+)"\}`),
		regexp.MustCompile(`(?is)<title>(.+?)</title>\s*<description>(.+?)</description>`),
		regexp.MustCompile(`(?is)(?:` + titleAlt + `):?\s*([^\n]+)\n+(?:` + descAlt + `):?\s*([^\n]+)`),
	}

	return &ResponseParser{
		maxTitle: cfg.MaxTitleLength,
		maxDesc:  cfg.MaxDescriptionLength,
		patterns: patterns,
	}
}

func labelAlternation(labels []string, fallback string) string {
	quoted := make([]string, 0, len(labels))
	for _, l := range labels {
		if l != "" {
			quoted = append(quoted, regexp.QuoteMeta(l))
		}
	}
	if len(quoted) == 0 {
		quoted = []string{fallback}
	}
	return strings.Join(quoted, "|")
}

// Parse runs the full cascade over raw. It returns nil only for input that
// yields nothing at all; every other input produces both fields, with the
// description possibly empty.
func (p *ResponseParser) Parse(raw string) *domain.Enhancement {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil
	}

	var decoded interface{}
	if err := json.Unmarshal([]byte(text), &decoded); err == nil {
		if obj, ok := decoded.(map[string]interface{}); ok {
			if result := p.fromJSONObject(obj); result != nil {
				return result
			}
			if content := firstChoiceContent(obj); content != "" {
				return p.parseText(content)
			}
		}
	}

	return p.parseText(text)
}

// fromJSONObject handles the direct {"title": ..., "description": ...} shape.
func (p *ResponseParser) fromJSONObject(obj map[string]interface{}) *domain.Enhancement {
	title, hasTitle := obj["title"].(string)
	desc, hasDesc := obj["description"].(string)
	if !hasTitle || !hasDesc {
		return nil
	}
	return p.finalize(title, desc)
}

// firstChoiceContent digs into the OpenAI-compatible completion envelope.
func firstChoiceContent(obj map[string]interface{}) string {
	choices, ok := obj["choices"].([]interface{})
	if !ok || len(choices) == 0 {
		return ""
	}
	choice, ok := choices[0].(map[string]interface{})
	if !ok {
		return ""
	}
	message, ok := choice["message"].(map[string]interface{})
	if !ok {
		return ""
	}
	content, _ := message["content"].(string)
	return content
}

// parseText applies the pattern cascade, then falls back to segmentation.
func (p *ResponseParser) parseText(text string) *domain.Enhancement {
	var title, desc string

	for _, pattern := range p.patterns {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if candidate := strings.TrimSpace(m[1]); len([]rune(candidate)) > minTitleLength {
			title = candidate
			break
		}
	}

	if title != "" {
		for _, pattern := range p.patterns {
			if pattern.NumSubexp() < 2 {
				continue
			}
			m := pattern.FindStringSubmatch(text)
			if m == nil {
				continue
			}
			if candidate := strings.TrimSpace(m[2]); len([]rune(candidate)) > minDescriptionLength {
				desc = candidate
				break
			}
		}
	}

	if title == "" || desc == "" {
		title, desc = segmentFallback(text)
	}

	if title == "" && desc == "" {
		return nil
	}
	return p.finalize(title, desc)
}

// segmentFallback splits text blindly when no pattern produced both fields:
// blank-line or bullet boundary, then sentence boundary, then raw offsets.
func segmentFallback(text string) (string, string) {
	parts := segmentBoundary.Split(text, 2)
	if len(parts) >= 2 {
		return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	}

	sentences := sentenceBoundary.Split(text, -1)
	if len(sentences) > 1 {
		end := len(sentences)
		if end > 3 {
			end = 3
		}
		desc := strings.Join(sentences[1:end], " ")
		return sentences[0], truncate(desc, sentenceFallbackCap)
	}

	runes := []rune(text)
	if len(runes) <= offsetSplitTitle {
		return text, ""
	}
	desc := runes[offsetSplitTitle:]
	if len(runes) > offsetSplitTotal {
		desc = runes[offsetSplitTitle:offsetSplitTotal]
	}
	return string(runes[:offsetSplitTitle]), string(desc)
}

// finalize escapes and caps both fields.
func (p *ResponseParser) finalize(title, desc string) *domain.Enhancement {
	return &domain.Enhancement{
		Title:       truncate(sanitizeOutput(title), p.maxTitle),
		Description: truncate(sanitizeOutput(desc), p.maxDesc),
	}
}
