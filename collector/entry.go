package collector

import (
	"time"

	"github.com/mmcdole/gofeed"
)

// Enclosure is one media attachment of a feed entry.
type Enclosure struct {
	Url  string
	Type string
}

/*
RawEntry is one feed item in the shape the wire handed it to us, before any
per-source parser ran. Optional fields stay at their zero value; "field
absent" is an explicit, testable state here rather than an attribute probe.

Deleted / Moddate / Statedate / SourceTitle carry side-channel elements some
feeds publish in custom namespaces (currently only Buten un Binnen).
*/
type RawEntry struct {
	Title       string
	Summary     string // may carry HTML
	Description string
	Content     string // content:encoded style rich text
	Link        string
	Guid        string
	Published   string
	Updated     string
	PublishedAt *time.Time
	UpdatedAt   *time.Time
	ImageUrl    string
	Enclosures  []Enclosure

	Deleted     string
	Moddate     string
	Statedate   string
	SourceTitle string
}

/*
ParsedEntry is the canonical form the pipeline works on. It exists only for
the duration of one entry's processing and is never persisted.

ForeignId: stable id from the source, primary dedup key when non-empty.
Depublicated: the source retracted this item; a matching stored item must be
deleted.
Moddate: last modification as reported by the source. Absent means the
source does not support update detection and matched items are skipped.
ForceDefaultImage: skip image resolution and use the source default.
*/
type ParsedEntry struct {
	Title       string
	Summary     string
	Content     string
	Link        string
	ForeignId   string
	ImageUrl    string
	ImageSource string
	Enclosures  []Enclosure

	Published *time.Time
	Updated   *time.Time
	Moddate   *time.Time
	Statedate *time.Time

	Depublicated      bool
	ForceDefaultImage bool
	IsEvent           bool
}

// RawEntryFromFeedItem flattens a gofeed item into a RawEntry. Custom
// (non-namespaced) child elements are carried over by name so per-source
// parsers can pick them up.
func RawEntryFromFeedItem(item *gofeed.Item) RawEntry {
	entry := RawEntry{
		Title:       item.Title,
		Summary:     item.Description,
		Description: item.Description,
		Content:     item.Content,
		Link:        item.Link,
		Guid:        item.GUID,
		Published:   item.Published,
		Updated:     item.Updated,
		PublishedAt: item.PublishedParsed,
		UpdatedAt:   item.UpdatedParsed,
	}
	if item.Image != nil {
		entry.ImageUrl = item.Image.URL
	}
	for _, enclosure := range item.Enclosures {
		if enclosure == nil {
			continue
		}
		entry.Enclosures = append(entry.Enclosures, Enclosure{Url: enclosure.URL, Type: enclosure.Type})
	}
	if item.Custom != nil {
		entry.Deleted = item.Custom["deleted"]
		entry.Moddate = item.Custom["moddate"]
		entry.Statedate = item.Custom["statedate"]
		entry.SourceTitle = item.Custom["source"]
		if len(entry.ImageUrl) == 0 {
			entry.ImageUrl = item.Custom["image_url"]
		}
	}
	return entry
}
