// ABOUTME: HTML utilities for stripping tags from feed-supplied text
// ABOUTME: Tag removal only, no semantic rendering; inner whitespace is preserved

package html

import (
	"regexp"
	"strings"

	xhtml "golang.org/x/net/html"
)

var (
	tagPattern        = regexp.MustCompile(`<[^>]+>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// StripTags removes HTML tags from a string, keeping text content and
// whitespace as-is apart from trimming the ends. Prefers a real tokenizer;
// falls back to regex removal when the input is not parseable markup.
func StripTags(s string) string {
	if s == "" {
		return ""
	}

	if !strings.ContainsRune(s, '<') {
		return strings.TrimSpace(s)
	}

	doc, err := xhtml.Parse(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(tagPattern.ReplaceAllString(s, ""))
	}

	var text strings.Builder
	var walk func(*xhtml.Node)
	walk = func(n *xhtml.Node) {
		if n.Type == xhtml.TextNode {
			text.WriteString(n.Data)
		}
		if n.Type == xhtml.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return strings.TrimSpace(text.String())
}

// CollapseWhitespace reduces consecutive whitespace to single spaces and
// trims the result. Used for titles.
func CollapseWhitespace(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(s, " "))
}
