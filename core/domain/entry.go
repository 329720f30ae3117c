// ABOUTME: Entry domain model represents a canonical feed entry after extraction
// ABOUTME: One Entry is produced per feed item, deduplicated by GUID within a batch

package domain

import "errors"

// Entry is the canonical record produced for a single feed item.
type Entry struct {
	// GUID uniquely identifies the entry within one extraction batch.
	// Either the feed's explicit identifier or a content hash.
	GUID string

	// Title is the entry headline with whitespace collapsed
	Title string

	// Description is the entry summary with HTML tags stripped
	Description string

	// Link is the URL to the full article, empty when the feed omits it
	Link string

	// PubDate is the publication timestamp in ISO-8601 form.
	// Always populated; falls back to extraction time.
	PubDate string

	// ImageURL is the resolved representative image, empty when none found
	ImageURL string

	// Author is the entry author, empty when the feed omits it
	Author string

	// Categories preserves the feed's category terms in source order
	Categories []string

	// ThumbnailColor is the prominent color of ImageURL, nil when
	// color extraction is disabled or failed
	ThumbnailColor *RGBColor
}

// Validate checks that the entry carries the fields required downstream
func (e *Entry) Validate() error {
	if e.GUID == "" {
		return errors.New("entry GUID cannot be empty")
	}

	if e.PubDate == "" {
		return errors.New("entry publication date cannot be empty")
	}

	return nil
}

// RGBColor represents an RGB color value extracted from a thumbnail
type RGBColor struct {
	R uint32
	G uint32
	B uint32
}
