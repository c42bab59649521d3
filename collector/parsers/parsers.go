package parsers

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"

	"github.com/zemki/molonews-backend/collector"
	"github.com/zemki/molonews-backend/utils"
)

// ParserFunc normalizes one raw feed entry into the canonical parsed form.
// A parser failing on one entry must only cost that entry, never the rest
// of the source; callers log and move on.
type ParserFunc func(entry collector.RawEntry) (*collector.ParsedEntry, error)

// Reference scheme of the timestamps Buten un Binnen publishes in its
// moddate/statedate elements ("Mon Jan 2 15:04:05 MST 2006" style).
const butenUnBinnenDateScheme = "Mon Jan 02 15:04:05 MST 2006"

type parserSpec struct {
	Description string
	Func        ParserFunc
}

var registry = map[string]parserSpec{
	"taz": {
		Description: "TAZ Parser",
		Func:        Taz,
	},
	"weser": {
		Description: "Weser Report Parser",
		Func:        Weser,
	},
	"bremen.de": {
		Description: "Bremen.de Parser",
		Func:        BremenDe,
	},
	"buergerschaft": {
		Description: "Bremische Bürgerschaft Parser",
		Func:        Buergerschaft,
	},
	"generic": {
		Description: "Generic html Parser",
		Func:        Generic,
	},
	"events": {
		Description: "Parse to events",
		Func:        RssEvents,
	},
	"hochschule": {
		Description: "Hochschule Parser",
		Func:        Hochschule,
	},
	"ButenUnBinnen": {
		Description: "Buten un Binnen",
		Func:        ButenUnBinnen,
	},
	"RegionalNachrichten": {
		Description: "Regional-Nachrichten",
		Func:        RegionalNachrichten,
	},
	"Weserkurier": {
		Description: "Weserkurier",
		Func:        Weserkurier,
	},
}

// GetParserFunction resolves a parser by its configured name. Unknown or
// empty names fall back to the generic parser.
func GetParserFunction(name string) ParserFunc {
	if len(name) > 0 {
		if spec, ok := registry[name]; ok {
			return spec.Func
		}
	}
	return registry["generic"].Func
}

// baseParsed copies the fields every parser starts from. Date strings the
// feed parser could not handle get a second chance through loose parsing.
func baseParsed(entry collector.RawEntry) *collector.ParsedEntry {
	published := entry.PublishedAt
	if published == nil {
		published = collector.ParseLooseDate(entry.Published)
	}
	updated := entry.UpdatedAt
	if updated == nil {
		updated = collector.ParseLooseDate(entry.Updated)
	}
	return &collector.ParsedEntry{
		Title:      entry.Title,
		Summary:    entry.Summary,
		Content:    entry.Content,
		Link:       entry.Link,
		ImageUrl:   entry.ImageUrl,
		Enclosures: entry.Enclosures,
		Published:  published,
		Updated:    updated,
	}
}

func cook(fragment string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(fragment))
}

// Generic strips HTML from the summary and sanitizes link, image and title.
func Generic(entry collector.RawEntry) (*collector.ParsedEntry, error) {
	parsed := baseParsed(entry)
	parsed.Summary = utils.StripHtmlTags(entry.Summary)
	parsed.Link = utils.SanitizeLink(parsed.Link)
	parsed.ImageUrl = utils.SanitizeLink(parsed.ImageUrl)
	parsed.Title = utils.SanitizeTitle(parsed.Title)
	return parsed, nil
}

// Taz trims the title decoration and pulls summary text plus the first
// embedded image out of the HTML description.
func Taz(entry collector.RawEntry) (*collector.ParsedEntry, error) {
	parsed := baseParsed(entry)
	parsed.Title = strings.Trim(parsed.Title, ": ")

	doc, err := cook(entry.Description)
	if err != nil {
		return nil, errors.Wrap(err, "taz: parse description")
	}
	if src, ok := doc.Find("img").First().Attr("src"); ok {
		parsed.ImageUrl = src
	}
	parsed.Summary = doc.Text()
	return parsed, nil
}

// Weser keeps only the first paragraph of the summary.
func Weser(entry collector.RawEntry) (*collector.ParsedEntry, error) {
	parsed := baseParsed(entry)
	doc, err := cook(entry.Summary)
	if err != nil {
		return nil, errors.Wrap(err, "weser: parse summary")
	}
	parsed.Summary = doc.Find("p").First().Text()
	return parsed, nil
}

func BremenDe(entry collector.RawEntry) (*collector.ParsedEntry, error) {
	parsed := baseParsed(entry)
	parsed.Summary = utils.StripHtmlTags(entry.Summary)
	parsed.Link = utils.SanitizeLink(parsed.Link)
	parsed.ImageUrl = utils.SanitizeLink(parsed.ImageUrl)
	return parsed, nil
}

// Buergerschaft forces the non-mobile article rendering (Ticket 124).
func Buergerschaft(entry collector.RawEntry) (*collector.ParsedEntry, error) {
	parsed := baseParsed(entry)
	parsed.Link = parsed.Link + "&noMobile=1"
	return parsed, nil
}

// Hochschule feeds carry no usable summary; reuse the title.
func Hochschule(entry collector.RawEntry) (*collector.ParsedEntry, error) {
	parsed := baseParsed(entry)
	parsed.Summary = entry.Title
	return parsed, nil
}

// RssEvents marks entries of event feeds so the pipeline can route them.
func RssEvents(entry collector.RawEntry) (*collector.ParsedEntry, error) {
	parsed, err := Generic(entry)
	if err != nil {
		return nil, err
	}
	parsed.IsEvent = true
	return parsed, nil
}

// ButenUnBinnen is the one feed that reports depublication: a truthy
// "deleted" element means the item was retracted and must be removed from
// the store. It also ships a stable foreign id and modification dates.
func ButenUnBinnen(entry collector.RawEntry) (*collector.ParsedEntry, error) {
	parsed := baseParsed(entry)
	if len(entry.Deleted) > 0 && entry.Deleted != "false" {
		parsed.Depublicated = true
	}
	parsed.ForeignId = entry.Guid
	parsed.ImageSource = entry.SourceTitle
	parsed.Moddate = collector.ParseSchemeDate(entry.Moddate, butenUnBinnenDateScheme)
	parsed.Statedate = collector.ParseSchemeDate(entry.Statedate, butenUnBinnenDateScheme)
	return parsed, nil
}

// RegionalNachrichten publishes undersized images only; always fall back to
// the source default.
func RegionalNachrichten(entry collector.RawEntry) (*collector.ParsedEntry, error) {
	parsed, err := Generic(entry)
	if err != nil {
		return nil, err
	}
	parsed.ForceDefaultImage = true
	return parsed, nil
}

func Weserkurier(entry collector.RawEntry) (*collector.ParsedEntry, error) {
	parsed, err := Generic(entry)
	if err != nil {
		return nil, err
	}
	parsed.Published = collector.ParseSchemeDate(entry.Published, time.RFC1123Z)
	parsed.Moddate = collector.ParseSchemeDate(entry.Moddate, time.RFC1123Z)
	parsed.Statedate = collector.ParseSchemeDate(entry.Statedate, butenUnBinnenDateScheme)
	return parsed, nil
}
