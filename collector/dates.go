package collector

import (
	"time"

	"github.com/araddon/dateparse"
)

// EntryDate picks the publication timestamp of a parsed entry: published,
// then updated, then now. Timestamps in the future are clamped to now so
// that scheduled items do not float to the top of the feed.
func EntryDate(entry *ParsedEntry, now time.Time) time.Time {
	date := now
	switch {
	case entry.Published != nil:
		date = *entry.Published
	case entry.Updated != nil:
		date = *entry.Updated
	}
	if date.After(now) {
		date = now
	}
	return date
}

// ParseLooseDate parses a date string without a known scheme, falling back
// across the formats seen in the wild. Returns nil when nothing matches.
func ParseLooseDate(value string) *time.Time {
	if len(value) == 0 {
		return nil
	}
	parsed, err := dateparse.ParseAny(value)
	if err != nil {
		return nil
	}
	return &parsed
}

// ParseSchemeDate parses a date string with a fixed, locale-independent
// reference scheme. Returns nil on mismatch instead of an error; feeds with
// broken dates still import with fallback timestamps.
func ParseSchemeDate(value string, scheme string) *time.Time {
	if len(value) == 0 {
		return nil
	}
	parsed, err := time.Parse(scheme, value)
	if err != nil {
		return nil
	}
	return &parsed
}
