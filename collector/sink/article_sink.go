package sink

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/zemki/molonews-backend/collector"
	"github.com/zemki/molonews-backend/collector/tagging"
	"github.com/zemki/molonews-backend/model"
	"github.com/zemki/molonews-backend/store"
	Logger "github.com/zemki/molonews-backend/utils/log"
)

// LueneBlogBoilerplate is a syndication footer one partner blog appends to
// every abstract. Removed at create time. Editorial rule, revisit when the
// partnership changes.
const LueneBlogBoilerplate = " erschien zuerst auf Lüne-Blog"

// ArticleSink persists newly seen entries as articles. Classifier tags and
// the source's default areas are attached on the way in.
type ArticleSink struct {
	Store  store.Store
	Tagger tagging.Tagger

	// Now is overridable for tests. Nil means time.Now.
	Now func() time.Time
}

func (s *ArticleSink) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// WriteArticle builds and persists an article from a parsed entry. imageUrl
// is the entry's resolved image. A failing classifier is logged and the
// article is created without tags; tagging never blocks an import.
func (s *ArticleSink) WriteArticle(ctx context.Context, entry *collector.ParsedEntry, source *model.Source, imageUrl string) (*model.Article, error) {
	now := s.now()
	date := collector.EntryDate(entry, now)
	moddate := date
	if entry.Moddate != nil {
		moddate = *entry.Moddate
	}

	article := &model.Article{
		Title:       entry.Title,
		Abstract:    stripBoilerplate(entry.Summary),
		Content:     stripBoilerplate(entry.Content),
		Link:        entry.Link,
		Date:        date,
		Moddate:     moddate,
		ImageUrl:    imageUrl,
		ImageSource: entry.ImageSource,
		SourceId:    source.Id,
		Published:   source.DefaultPublished,
		UpForReview: true,
		Areas:       source.Areas,
	}
	if len(entry.ForeignId) > 0 {
		foreignId := entry.ForeignId
		article.ForeignId = &foreignId
	}

	article.Tags = s.tagsFor(ctx, source, entry)

	if err := s.Store.CreateArticle(article); err != nil {
		return nil, errors.Wrap(err, "create article")
	}
	return article, nil
}

func (s *ArticleSink) tagsFor(ctx context.Context, source *model.Source, entry *collector.ParsedEntry) []*model.Tag {
	names, err := s.Tagger.TagNewsArticle(ctx, entry.Title, entry.Summary)
	if err != nil {
		Logger.LogV2.Errorf("tagging failed for source "+source.Name, err)
		return nil
	}
	tags, err := s.Store.GetTagsByNames(names)
	if err != nil {
		Logger.LogV2.Errorf("tag lookup failed for source "+source.Name, err)
		return nil
	}
	return tags
}

func stripBoilerplate(text string) string {
	return strings.ReplaceAll(text, LueneBlogBoilerplate, "")
}
