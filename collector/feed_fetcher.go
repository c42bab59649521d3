package collector

import (
	"context"
	"strings"

	"github.com/mmcdole/gofeed"
	"github.com/mmcdole/gofeed/rss"
	"github.com/pkg/errors"

	"github.com/zemki/molonews-backend/collector/clients"
)

// FeedFetcher retrieves feed documents over HTTP and turns RSS/Atom payloads
// into parsed feeds, recovering from the malformed markup some municipal
// feeds ship.
type FeedFetcher struct {
	client *clients.HttpClient
}

func NewFeedFetcher() *FeedFetcher {
	return &FeedFetcher{client: clients.NewDefaultHttpClient()}
}

func NewFeedFetcherWithClient(client *clients.HttpClient) *FeedFetcher {
	return &FeedFetcher{client: client}
}

// FetchFeed downloads and parses one RSS/Atom feed.
func (f *FeedFetcher) FetchFeed(ctx context.Context, url string) (*gofeed.Feed, error) {
	body, err := f.client.GetBody(ctx, url)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch feed %s", url)
	}

	feed, err := newFeedParser().ParseString(SanitizeFeedXml(string(body)))
	if err != nil {
		return nil, errors.Wrapf(err, "parse feed %s", url)
	}
	return feed, nil
}

func newFeedParser() *gofeed.Parser {
	parser := gofeed.NewParser()
	parser.RSSTranslator = &rssSourceTranslator{base: &gofeed.DefaultRSSTranslator{}}
	return parser
}

// rssSourceTranslator carries the item-level <source> element over into
// Item.Custom. The default translator consumes it without exposing it, but
// some feeds put the originating outlet's title there and parsers need it.
type rssSourceTranslator struct {
	base *gofeed.DefaultRSSTranslator
}

func (t *rssSourceTranslator) Translate(feed interface{}) (*gofeed.Feed, error) {
	rssFeed, ok := feed.(*rss.Feed)
	if !ok {
		return nil, errors.New("translate: not an rss feed")
	}
	translated, err := t.base.Translate(rssFeed)
	if err != nil {
		return nil, err
	}
	for i, item := range rssFeed.Items {
		if item == nil || item.Source == nil || i >= len(translated.Items) {
			continue
		}
		out := translated.Items[i]
		if out.Custom == nil {
			out.Custom = map[string]string{}
		}
		out.Custom["source"] = item.Source.Title
	}
	return translated, nil
}

// FetchDocument downloads a raw document (ICS text, article HTML).
func (f *FeedFetcher) FetchDocument(ctx context.Context, url string) (string, error) {
	body, err := f.client.GetBody(ctx, url)
	if err != nil {
		return "", errors.Wrapf(err, "fetch document %s", url)
	}
	return string(body), nil
}

// SanitizeFeedXml strips the two defects that most often break strict XML
// parsing of real-world feeds: control characters and bare ampersands that
// are not part of an entity.
func SanitizeFeedXml(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r < 0x20 && r != '\t' && r != '\n' && r != '\r' {
			continue
		}
		if r == '&' && !isEntityStart(runes[i+1:]) {
			b.WriteString("&amp;")
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// isEntityStart reports whether the runes following an ampersand look like
// an XML entity reference ("amp;", "#228;", ...).
func isEntityStart(rest []rune) bool {
	const maxEntityLength = 10
	for i, r := range rest {
		if i > maxEntityLength {
			return false
		}
		if r == ';' {
			return i > 0
		}
		isNameRune := r == '#' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if !isNameRune {
			return false
		}
	}
	return false
}
