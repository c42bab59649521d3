package collector_instances

import (
	"context"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/pkg/errors"

	"github.com/zemki/molonews-backend/collector"
	"github.com/zemki/molonews-backend/model"
	"github.com/zemki/molonews-backend/store"
	"github.com/zemki/molonews-backend/utils"
	Logger "github.com/zemki/molonews-backend/utils/log"
)

// FallbackEventTag is attached to imported events whose source carries no
// default tags, so that every event stays reachable through tag filtering.
const FallbackEventTag = "Sonstiges"

// IcsEventCollector imports VEVENT blocks from an ICS calendar source.
// Events that already started are not imported; the calendar is a forward
// looking surface.
type IcsEventCollector struct {
	Fetcher *collector.FeedFetcher
	Store   store.Store

	// Now is overridable for tests. Nil means time.Now.
	Now func() time.Time
}

func (c *IcsEventCollector) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// CollectSource fetches and imports one calendar. Returns the number of
// newly created events. Broken VEVENTs are logged and skipped, they never
// abort the calendar.
func (c *IcsEventCollector) CollectSource(ctx context.Context, source *model.Source) (int, error) {
	document, err := c.Fetcher.FetchDocument(ctx, source.Link)
	if err != nil {
		return 0, err
	}

	calendar, err := ics.ParseCalendar(strings.NewReader(document))
	if err != nil {
		return 0, errors.Wrapf(err, "parse calendar %s", source.Link)
	}

	now := c.now()
	created := 0
	seen := map[string]bool{}
	for _, vevent := range calendar.Events() {
		title := propertyValue(vevent, ics.ComponentPropertySummary)
		if len(title) == 0 {
			continue
		}

		start, ok := eventStart(vevent)
		if !ok {
			Logger.LogV2.Errorf("event without parseable start skipped", source.Name, title)
			continue
		}
		if start.Before(now) {
			continue
		}

		// The same event can appear once per calendar day in some feeds.
		key := eventKey(title, start)
		if seen[key] {
			continue
		}
		seen[key] = true

		exists, err := c.Store.EventExists(title, source.Id, start)
		if err != nil {
			return created, errors.Wrap(err, "event lookup")
		}
		if exists {
			continue
		}

		if err := c.createEvent(vevent, source, title, start, now); err != nil {
			Logger.LogV2.Errorf("creating event failed", source.Name, title, err)
			continue
		}
		created++
	}
	return created, nil
}

func (c *IcsEventCollector) createEvent(vevent *ics.VEvent, source *model.Source, title string, start time.Time, now time.Time) error {
	end := start
	if parsedEnd, ok := eventEnd(vevent); ok && parsedEnd.After(start) {
		end = parsedEnd
	}

	event := &model.Event{
		Title:         utils.SanitizeTitle(title),
		Content:       propertyValue(vevent, ics.ComponentPropertyDescription),
		Link:          propertyValue(vevent, ics.ComponentPropertyUrl),
		EventLocation: propertyValue(vevent, ics.ComponentPropertyLocation),
		Date:          now,
		StartDate:     start,
		Moddate:       now,
		ImageUrl:      source.DefaultImageUrl,
		SourceId:      source.Id,
		Published:     source.DefaultPublished,
		UpForReview:   true,
		Tags:          c.eventTags(source),
		Areas:         source.Areas,
	}
	occurrence := &model.EventOccurrence{StartDatetime: start, EndDatetime: end}

	return c.Store.CreateEventWithOccurrence(event, occurrence)
}

func (c *IcsEventCollector) eventTags(source *model.Source) []*model.Tag {
	if len(source.DefaultTags) > 0 {
		return source.DefaultTags
	}
	fallback, err := c.Store.GetTagByName(FallbackEventTag)
	if err != nil {
		Logger.LogV2.Errorf("fallback event tag missing", FallbackEventTag, err)
		return nil
	}
	return []*model.Tag{fallback}
}

// eventKey identifies an event within one run. Titles can be arbitrarily
// long, so the key is a hash of title and start.
func eventKey(title string, start time.Time) string {
	raw := fmt.Sprintf("%s|%d", title, start.Unix())
	hash, err := utils.TextToMd5Hash(raw)
	if err != nil {
		return raw
	}
	return hash
}

func propertyValue(vevent *ics.VEvent, name ics.ComponentProperty) string {
	property := vevent.GetProperty(name)
	if property == nil {
		return ""
	}
	return strings.TrimSpace(property.Value)
}

// eventStart parses DTSTART, falling back to the all-day DATE form, which
// yields midnight local time.
func eventStart(vevent *ics.VEvent) (time.Time, bool) {
	if start, err := vevent.GetStartAt(); err == nil {
		return start, true
	}
	if start, err := vevent.GetAllDayStartAt(); err == nil {
		return start, true
	}
	return time.Time{}, false
}

func eventEnd(vevent *ics.VEvent) (time.Time, bool) {
	if end, err := vevent.GetEndAt(); err == nil {
		return end, true
	}
	if end, err := vevent.GetAllDayEndAt(); err == nil {
		return end, true
	}
	return time.Time{}, false
}
