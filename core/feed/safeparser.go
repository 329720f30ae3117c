// ABOUTME: Hardened feed parsing cascade for untrusted XML payloads
// ABOUTME: Escalates from a lenient parse to DOCTYPE stripping and an entity-rejecting re-serialization

package feed

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/mmcdole/gofeed"
	"golang.org/x/text/encoding/charmap"

	"feedbot-core/core/interfaces"
)

// doctypePattern matches a leading DOCTYPE declaration, including an
// optional internal subset in square brackets.
var doctypePattern = regexp.MustCompile(`(?is)<!DOCTYPE[^>\[]*(\[[^\]]*\])?[^>]*>`)

// FetchResult wraps a successfully parsed feed together with the URL it
// was fetched from.
type FetchResult struct {
	Feed      *gofeed.Feed
	SourceURL string
}

// BaseURL returns scheme://host of the feed's declared site link, used to
// resolve relative asset URLs found in entries. Falls back to the fetch URL
// when the feed does not declare a link.
func (r *FetchResult) BaseURL() string {
	if r == nil {
		return ""
	}
	raw := ""
	if r.Feed != nil {
		raw = r.Feed.Link
	}
	if raw == "" {
		raw = r.SourceURL
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

// SafeParser turns raw feed bytes into a parsed feed, escalating through
// progressively stricter handling when the payload is malformed or carries
// DTD constructs. It never returns an error: an unusable payload yields nil.
type SafeParser struct {
	logger interfaces.Logger
}

// NewSafeParser creates a parser that logs stage transitions to logger.
func NewSafeParser(logger interfaces.Logger) *SafeParser {
	return &SafeParser{logger: logger}
}

// Parse runs the hardening cascade over raw and returns the parsed feed,
// or nil when every stage fails.
func (p *SafeParser) Parse(raw []byte, sourceURL string) *FetchResult {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}

	// Stage 1: lenient parse of the payload as-is. Most feeds stop here.
	if feed, err := gofeed.NewParser().Parse(bytes.NewReader(raw)); err == nil && len(feed.Items) > 0 {
		return &FetchResult{Feed: feed, SourceURL: sourceURL}
	}

	// Stage 2: normalize to UTF-8 and strip any DOCTYPE declaration so a
	// hostile internal subset never reaches an XML parser.
	cleaned := stripDoctype(decodeToUTF8(raw))

	// Stage 3: re-serialize through a tokenizer that rejects DTD and
	// entity declarations outright, then parse the sanitized document.
	if hardened, err := hardenedReserialize(cleaned); err == nil {
		if feed, perr := gofeed.NewParser().Parse(strings.NewReader(hardened)); perr == nil {
			p.logger.Debug("feed parsed after hardened re-serialization", map[string]interface{}{
				"url": sourceURL,
			})
			return &FetchResult{Feed: feed, SourceURL: sourceURL}
		}
	} else {
		p.logger.Warn("feed rejected by hardened XML pass", map[string]interface{}{
			"url":   sourceURL,
			"error": err.Error(),
		})
	}

	// Stage 4: last lenient attempt over the cleaned text. Zero entries is
	// acceptable here, the caller decides what an empty feed means.
	if feed, err := gofeed.NewParser().Parse(strings.NewReader(cleaned)); err == nil {
		return &FetchResult{Feed: feed, SourceURL: sourceURL}
	}

	p.logger.Error("feed unparseable after all stages", map[string]interface{}{
		"url": sourceURL,
	})
	return nil
}

// decodeToUTF8 returns raw as a UTF-8 string. Payloads that are not valid
// UTF-8 are decoded lossily as Latin-1, which maps every byte.
func decodeToUTF8(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return string(raw)
	}
	return string(decoded)
}

// stripDoctype removes DOCTYPE declarations from text.
func stripDoctype(text string) string {
	return doctypePattern.ReplaceAllString(text, "")
}

// hardenedReserialize tokenizes text and writes the tokens back out,
// dropping processing instructions and failing on any DTD or entity
// declaration. encoding/xml never resolves external entities, so the
// output is safe to hand to the feed parser.
func hardenedReserialize(text string) (string, error) {
	dec := xml.NewDecoder(strings.NewReader(text))
	dec.Strict = false
	dec.AutoClose = xml.HTMLAutoClose
	dec.Entity = xml.HTMLEntity
	dec.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
		// input is already UTF-8 regardless of the declared charset
		return input, nil
	}

	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("tokenize: %w", err)
		}
		switch t := tok.(type) {
		case xml.Directive:
			upper := strings.ToUpper(string(t))
			if strings.HasPrefix(upper, "DOCTYPE") || strings.Contains(upper, "ENTITY") {
				return "", fmt.Errorf("forbidden markup declaration: %.40s", string(t))
			}
			continue
		case xml.ProcInst:
			continue
		}
		if err := enc.EncodeToken(tok); err != nil {
			return "", fmt.Errorf("reserialize: %w", err)
		}
	}
	if err := enc.Flush(); err != nil {
		return "", fmt.Errorf("flush: %w", err)
	}
	return buf.String(), nil
}
