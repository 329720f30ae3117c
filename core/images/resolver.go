// ABOUTME: Entry-embedded image extraction from feed items
// ABOUTME: Fixed priority chain over the shapes different feed dialects expose

package images

import (
	"strings"

	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"
)

// maxMediaItems bounds how many media elements are inspected per entry
const maxMediaItems = 20

// structuredFieldNames are the ad-hoc fields some feeds use for images,
// checked after the standard media elements
var structuredFieldNames = []string{"image", "image_url", "thumbnail", "og:image", "media:content"}

// ExtractFromItem returns the first image URL embedded in the feed item
// itself, or "" when the item carries none. Priority: media:content,
// enclosures, media:thumbnail, ad-hoc structured fields.
func ExtractFromItem(item *gofeed.Item) string {
	if item == nil {
		return ""
	}

	if u := fromMediaContent(item); u != "" {
		return u
	}

	if u := fromEnclosures(item); u != "" {
		return u
	}

	if u := fromMediaThumbnail(item); u != "" {
		return u
	}

	return fromStructuredFields(item)
}

// fromMediaContent inspects <media:content> elements with an image type
func fromMediaContent(item *gofeed.Item) string {
	for _, e := range mediaExtensions(item, "content") {
		if !strings.HasPrefix(strings.ToLower(e.Attrs["type"]), "image/") {
			continue
		}
		if u := extensionURL(e); isHTTP(u) {
			return u
		}
	}
	return ""
}

// fromEnclosures inspects <enclosure> elements with an image MIME type
func fromEnclosures(item *gofeed.Item) string {
	count := 0
	for _, enc := range item.Enclosures {
		if enc == nil {
			continue
		}
		if count++; count > maxMediaItems {
			break
		}
		if !strings.HasPrefix(strings.ToLower(enc.Type), "image/") {
			continue
		}
		if isHTTP(enc.URL) {
			return enc.URL
		}
	}
	return ""
}

// fromMediaThumbnail inspects <media:thumbnail> elements
func fromMediaThumbnail(item *gofeed.Item) string {
	for _, e := range mediaExtensions(item, "thumbnail") {
		if u := extensionURL(e); isHTTP(u) {
			return u
		}
	}
	return ""
}

// fromStructuredFields checks the ad-hoc image fields some feeds expose,
// accepting a plain URL string, an element with a url/href/link attribute,
// or the first of a list of either form.
func fromStructuredFields(item *gofeed.Item) string {
	if item.Image != nil && isHTTP(item.Image.URL) {
		return item.Image.URL
	}

	for _, name := range structuredFieldNames {
		if v, ok := item.Custom[name]; ok && isHTTP(v) {
			return v
		}

		for _, e := range namedExtensions(item, name) {
			if u := extensionURL(e); isHTTP(u) {
				return u
			}
			// list form: first child element carries the URL
			for _, children := range e.Children {
				if len(children) > 0 {
					if u := extensionURL(children[0]); isHTTP(u) {
						return u
					}
				}
				break
			}
			break
		}
	}

	return ""
}

// mediaExtensions returns the Media RSS extension elements with the given
// local name, capped to maxMediaItems
func mediaExtensions(item *gofeed.Item, name string) []ext.Extension {
	media, ok := item.Extensions["media"]
	if !ok {
		return nil
	}

	elems := media[name]
	if len(elems) > maxMediaItems {
		elems = elems[:maxMediaItems]
	}
	return elems
}

// namedExtensions scans every namespace for extension elements matching name
func namedExtensions(item *gofeed.Item, name string) []ext.Extension {
	local := name
	if i := strings.IndexByte(name, ':'); i >= 0 {
		local = name[i+1:]
	}

	var out []ext.Extension
	for _, ns := range item.Extensions {
		out = append(out, ns[local]...)
	}
	return out
}

// extensionURL pulls a URL from an extension element, trying the value
// itself then the url/href/link attributes in order
func extensionURL(e ext.Extension) string {
	if isHTTP(e.Value) {
		return e.Value
	}
	for _, attr := range []string{"url", "href", "link"} {
		if v, ok := e.Attrs[attr]; ok && v != "" {
			return v
		}
	}
	return ""
}

// isHTTP reports whether the candidate qualifies as an image URL
func isHTTP(u string) bool {
	return strings.HasPrefix(u, "http")
}
