package sink

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/zemki/molonews-backend/collector"
	"github.com/zemki/molonews-backend/model"
	"github.com/zemki/molonews-backend/store"
)

type fakeTagger struct {
	names []string
	err   error
}

func (f *fakeTagger) TagNewsArticle(ctx context.Context, title string, abstract string) ([]string, error) {
	return f.names, f.err
}

func testSource() *model.Source {
	return &model.Source{
		Id:               "source-1",
		Name:             "Testquelle",
		DefaultPublished: true,
		Areas:            []*model.Area{{Id: "area-1", Name: "Bremen"}},
	}
}

func timePtr(t time.Time) *time.Time { return &t }

func TestWriteArticle(t *testing.T) {
	now := time.Date(2023, 4, 12, 12, 0, 0, 0, time.UTC)

	t.Run("persists entry with source defaults and classifier tags", func(t *testing.T) {
		s := store.NewMemoryStore()
		s.Tags = []*model.Tag{{Id: "tag-1", Name: "Politik"}, {Id: "tag-2", Name: "Sport"}}
		sink := &ArticleSink{
			Store:  s,
			Tagger: &fakeTagger{names: []string{"Politik", "Unbekannt"}},
			Now:    func() time.Time { return now },
		}

		published := now.Add(-24 * time.Hour)
		entry := &collector.ParsedEntry{
			Title:     "Neues Rathaus eröffnet",
			Summary:   "Der Neubau ist fertig.",
			Link:      "https://example.org/rathaus",
			ForeignId: "news-7",
			Published: timePtr(published),
		}

		article, err := sink.WriteArticle(context.Background(), entry, testSource(), "https://example.org/rathaus.jpg")
		require.NoError(t, err)
		require.Len(t, s.Articles(), 1)

		require.Equal(t, "Neues Rathaus eröffnet", article.Title)
		require.Equal(t, "news-7", *article.ForeignId)
		require.True(t, article.Date.Equal(published))
		require.True(t, article.Published)
		require.True(t, article.UpForReview)
		require.Equal(t, "https://example.org/rathaus.jpg", article.ImageUrl)
		require.Len(t, article.Tags, 1)
		require.Equal(t, "Politik", article.Tags[0].Name)
		require.Len(t, article.Areas, 1)
	})

	t.Run("future dates are clamped to now", func(t *testing.T) {
		s := store.NewMemoryStore()
		sink := &ArticleSink{
			Store:  s,
			Tagger: &fakeTagger{},
			Now:    func() time.Time { return now },
		}

		entry := &collector.ParsedEntry{
			Title:     "Vorschau",
			Published: timePtr(now.Add(48 * time.Hour)),
		}

		article, err := sink.WriteArticle(context.Background(), entry, testSource(), "")
		require.NoError(t, err)
		require.True(t, article.Date.Equal(now))
	})

	t.Run("strips syndication boilerplate", func(t *testing.T) {
		s := store.NewMemoryStore()
		sink := &ArticleSink{Store: s, Tagger: &fakeTagger{}}

		entry := &collector.ParsedEntry{
			Title:   "Stadtfest",
			Summary: "Der Beitrag Stadtfest" + LueneBlogBoilerplate + ".",
		}

		article, err := sink.WriteArticle(context.Background(), entry, testSource(), "")
		require.NoError(t, err)
		require.Equal(t, "Der Beitrag Stadtfest.", article.Abstract)
	})

	t.Run("classifier failure creates article without tags", func(t *testing.T) {
		s := store.NewMemoryStore()
		sink := &ArticleSink{Store: s, Tagger: &fakeTagger{err: errors.New("model down")}}

		article, err := sink.WriteArticle(context.Background(), &collector.ParsedEntry{Title: "Titel"}, testSource(), "")
		require.NoError(t, err)
		require.Empty(t, article.Tags)
	})
}
