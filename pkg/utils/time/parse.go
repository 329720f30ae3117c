// ABOUTME: Time parsing utilities for the date formats found in the wild in feeds
// ABOUTME: Wraps dateparse for format detection, with ISO-8601 output helpers

package time

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// ParseFlexible attempts to parse a date string in any recognizable format.
// Returns the zero time when the string cannot be parsed.
func ParseFlexible(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}

	t, err := dateparse.ParseAny(s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// ToISO8601 formats a time as an ISO-8601 / RFC 3339 string
func ToISO8601(t time.Time) string {
	return t.Format(time.RFC3339)
}

// ParseWithNow parses a date string, substituting the current time when
// parsing fails
func ParseWithNow(s string) time.Time {
	if t := ParseFlexible(s); !t.IsZero() {
		return t
	}
	return time.Now()
}
