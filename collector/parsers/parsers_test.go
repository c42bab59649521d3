package parsers

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zemki/molonews-backend/collector"
)

func TestGetParserFunction(t *testing.T) {
	t.Run("unknown name falls back to generic", func(t *testing.T) {
		fn := GetParserFunction("does-not-exist")
		parsed, err := fn(collector.RawEntry{Title: "T", Summary: "<p>S</p>"})
		require.NoError(t, err)
		require.Equal(t, "S", parsed.Summary)
	})

	t.Run("empty name falls back to generic", func(t *testing.T) {
		require.NotNil(t, GetParserFunction(""))
	})

	t.Run("named parser resolves", func(t *testing.T) {
		fn := GetParserFunction("buergerschaft")
		parsed, err := fn(collector.RawEntry{Link: "https://x.test/doc?id=1"})
		require.NoError(t, err)
		require.Equal(t, "https://x.test/doc?id=1&noMobile=1", parsed.Link)
	})
}

func TestGeneric(t *testing.T) {
	t.Run("strips html and sanitizes fields", func(t *testing.T) {
		parsed, err := Generic(collector.RawEntry{
			Title:    "Stadtfest startet",
			Summary:  "<p>Musik <b>im Park</b></p>",
			Link:     "https://https://x.test/1",
			ImageUrl: "https://x.test/img.jpg",
		})
		require.NoError(t, err)
		require.Equal(t, "Musik im Park", parsed.Summary)
		require.Equal(t, "https://x.test/1", parsed.Link)
		require.Equal(t, "https://x.test/img.jpg", parsed.ImageUrl)
	})

	t.Run("over-long title truncated", func(t *testing.T) {
		parsed, err := Generic(collector.RawEntry{Title: strings.Repeat("x", 350)})
		require.NoError(t, err)
		require.Len(t, []rune(parsed.Title), 300)
		require.True(t, strings.HasSuffix(parsed.Title, "..."))
	})

	t.Run("unrecognized date strings fall back to loose parsing", func(t *testing.T) {
		parsed, err := Generic(collector.RawEntry{
			Title:     "Stadtfest startet",
			Published: "2023-12-24 18:30:00",
			Updated:   "2023/12/25",
		})
		require.NoError(t, err)
		require.NotNil(t, parsed.Published)
		require.True(t, parsed.Published.Equal(time.Date(2023, 12, 24, 18, 30, 0, 0, time.UTC)))
		require.NotNil(t, parsed.Updated)
	})

	t.Run("parsed timestamps win over raw strings", func(t *testing.T) {
		at := time.Date(2023, 4, 11, 10, 0, 0, 0, time.UTC)
		parsed, err := Generic(collector.RawEntry{
			Title:       "Stadtfest startet",
			Published:   "2020-01-01 00:00:00",
			PublishedAt: &at,
		})
		require.NoError(t, err)
		require.True(t, parsed.Published.Equal(at))
	})
}

func TestTaz(t *testing.T) {
	parsed, err := Taz(collector.RawEntry{
		Title:       "Streit um Radwege: ",
		Description: `<div><img src="https://taz.test/bild.jpg"/><p>Der Ausbau stockt.</p></div>`,
	})
	require.NoError(t, err)
	require.Equal(t, "Streit um Radwege", parsed.Title)
	require.Equal(t, "https://taz.test/bild.jpg", parsed.ImageUrl)
	require.Contains(t, parsed.Summary, "Der Ausbau stockt.")
}

func TestWeser(t *testing.T) {
	parsed, err := Weser(collector.RawEntry{
		Summary: "<div><p>Erster Absatz.</p><p>Zweiter Absatz.</p></div>",
	})
	require.NoError(t, err)
	require.Equal(t, "Erster Absatz.", parsed.Summary)
}

func TestHochschule(t *testing.T) {
	parsed, err := Hochschule(collector.RawEntry{Title: "Semesterstart", Summary: ""})
	require.NoError(t, err)
	require.Equal(t, "Semesterstart", parsed.Summary)
}

func TestRssEvents(t *testing.T) {
	parsed, err := RssEvents(collector.RawEntry{Title: "Konzert", Summary: "<p>im Schlachthof</p>"})
	require.NoError(t, err)
	require.True(t, parsed.IsEvent)
}

func TestButenUnBinnen(t *testing.T) {
	t.Run("deleted entry is depublicated", func(t *testing.T) {
		parsed, err := ButenUnBinnen(collector.RawEntry{
			Guid:    "bub-123",
			Deleted: "true",
		})
		require.NoError(t, err)
		require.True(t, parsed.Depublicated)
		require.Equal(t, "bub-123", parsed.ForeignId)
	})

	t.Run("deleted false stays published", func(t *testing.T) {
		parsed, err := ButenUnBinnen(collector.RawEntry{Guid: "bub-124", Deleted: "false"})
		require.NoError(t, err)
		require.False(t, parsed.Depublicated)
	})

	t.Run("moddate parsed with fixed scheme", func(t *testing.T) {
		parsed, err := ButenUnBinnen(collector.RawEntry{
			Guid:    "bub-125",
			Moddate: "Mon Jan 02 15:04:05 UTC 2023",
		})
		require.NoError(t, err)
		require.NotNil(t, parsed.Moddate)
		require.Equal(t, 2023, parsed.Moddate.Year())
	})

	t.Run("absent moddate stays nil", func(t *testing.T) {
		parsed, err := ButenUnBinnen(collector.RawEntry{Guid: "bub-126"})
		require.NoError(t, err)
		require.Nil(t, parsed.Moddate)
	})
}

func TestRegionalNachrichten(t *testing.T) {
	parsed, err := RegionalNachrichten(collector.RawEntry{Title: "T", Summary: "S"})
	require.NoError(t, err)
	require.True(t, parsed.ForceDefaultImage)
}

func TestWeserkurier(t *testing.T) {
	parsed, err := Weserkurier(collector.RawEntry{
		Title:     "T",
		Summary:   "S",
		Published: "Mon, 02 Jan 2023 15:04:05 +0100",
		Moddate:   "Mon, 02 Jan 2023 16:04:05 +0100",
	})
	require.NoError(t, err)
	require.NotNil(t, parsed.Published)
	require.NotNil(t, parsed.Moddate)
	require.Equal(t, time.January, parsed.Published.Month())
	require.True(t, parsed.Moddate.After(*parsed.Published))
}
