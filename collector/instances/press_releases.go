package collector_instances

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gocolly/colly"
	"github.com/pkg/errors"

	"github.com/zemki/molonews-backend/collector"
	"github.com/zemki/molonews-backend/utils"
	Logger "github.com/zemki/molonews-backend/utils/log"
)

const pressReleaseDateScheme = "02.01.2006"

// Press release teasers shorter than this are navigation noise, longer ones
// are whole-page matches from broken markup. Both are discarded.
const (
	pressReleaseMinContentLength = 30
	pressReleaseMaxContentLength = 1500
)

/*
PressReleaseCrawler scrapes municipal press release listings that publish no
syndication feed. One container element per release; releases without a
date, title and plausible body are dropped.

The resulting entries carry no foreign id and no modification date, so
deduplication runs on title within the source and matched releases are
never updated.
*/
type PressReleaseCrawler struct{}

func (c *PressReleaseCrawler) Collect(url string) ([]*collector.ParsedEntry, error) {
	var entries []*collector.ParsedEntry

	crawler := colly.NewCollector()
	crawler.OnHTML("div.CurrentPressReleases-release.is-Active", func(element *colly.HTMLElement) {
		if entry := c.parseRelease(element); entry != nil {
			entries = append(entries, entry)
		}
	})

	if err := crawler.Visit(url); err != nil {
		return nil, errors.Wrapf(err, "scrape %s", url)
	}
	crawler.Wait()

	// The page lists newest first. Process oldest first so that a partial
	// failure never leaves a gap behind already imported newer releases.
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, nil
}

func (c *PressReleaseCrawler) parseRelease(element *colly.HTMLElement) *collector.ParsedEntry {
	rawDate := strings.TrimSpace(element.ChildText("div.CurrentPressReleases-releaseDate"))
	title := strings.TrimSpace(element.ChildText("h3.Headline"))
	if len(rawDate) == 0 || len(title) == 0 {
		return nil
	}

	date, err := time.Parse(pressReleaseDateScheme, rawDate)
	if err != nil {
		Logger.LogV2.Debugf("press release with unparseable date skipped", rawDate, title)
		return nil
	}

	content := strings.TrimSpace(element.ChildText("div.CurrentPressReleases-releasePreviewText"))
	content = strings.TrimSpace(strings.ReplaceAll(content, rawDate, ""))
	content = strings.TrimSpace(strings.ReplaceAll(content, title, ""))
	if length := utf8.RuneCountInString(content); length <= pressReleaseMinContentLength || length >= pressReleaseMaxContentLength {
		return nil
	}

	link := element.Request.AbsoluteURL(element.ChildAttr("a", "href"))
	imageUrl := element.ChildAttr("img", "src")
	if len(imageUrl) > 0 {
		imageUrl = element.Request.AbsoluteURL(imageUrl)
	}

	return &collector.ParsedEntry{
		Title:     utils.SanitizeTitle(title),
		Summary:   content,
		Link:      utils.SanitizeLink(link),
		ImageUrl:  imageUrl,
		Published: &date,
	}
}
