package collector_instances

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const pressReleasePage = `<!DOCTYPE html>
<html><body>
<div class="CurrentPressReleases-release is-Active">
  <div class="CurrentPressReleases-releaseDate">02.05.2023</div>
  <h3 class="Headline">Neue Baustelle</h3>
  <div class="CurrentPressReleases-releasePreviewText">02.05.2023 Neue Baustelle Die Stadt richtet ab Montag eine Baustelle ein und bittet um Verständnis.</div>
  <a href="/presse/baustelle"><img src="/img/baustelle.jpg"></a>
</div>
<div class="CurrentPressReleases-release is-Active">
  <div class="CurrentPressReleases-releaseDate">28.04.2023</div>
  <h3 class="Headline">Rathaus am Freitag geschlossen</h3>
  <div class="CurrentPressReleases-releasePreviewText">Wegen einer internen Veranstaltung bleibt das Rathaus am Freitag ganztägig geschlossen.</div>
  <a href="/presse/rathaus"></a>
</div>
<div class="CurrentPressReleases-release is-Active">
  <div class="CurrentPressReleases-releaseDate">27.04.2023</div>
  <h3 class="Headline">Zu kurz</h3>
  <div class="CurrentPressReleases-releasePreviewText">Kaum Text.</div>
  <a href="/presse/kurz"></a>
</div>
<div class="CurrentPressReleases-release is-Active">
  <h3 class="Headline">Ohne Datum</h3>
  <div class="CurrentPressReleases-releasePreviewText">Dieser Eintrag hat kein Datum und muss deshalb verworfen werden.</div>
</div>
<div class="CurrentPressReleases-release">
  <div class="CurrentPressReleases-releaseDate">26.04.2023</div>
  <h3 class="Headline">Inaktiv</h3>
  <div class="CurrentPressReleases-releasePreviewText">Inaktive Container gehören nicht zur aktuellen Liste und werden ignoriert.</div>
</div>
</body></html>`

func TestPressReleaseCrawler(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(pressReleasePage))
	}))
	defer server.Close()

	crawler := &PressReleaseCrawler{}
	entries, err := crawler.Collect(server.URL)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	t.Run("oldest release comes first", func(t *testing.T) {
		require.Equal(t, "Rathaus am Freitag geschlossen", entries[0].Title)
		require.Equal(t, "Neue Baustelle", entries[1].Title)
	})

	t.Run("date and title are removed from the body", func(t *testing.T) {
		require.Equal(t, "Die Stadt richtet ab Montag eine Baustelle ein und bittet um Verständnis.", entries[1].Summary)
	})

	t.Run("links and images are absolute", func(t *testing.T) {
		require.Equal(t, server.URL+"/presse/baustelle", entries[1].Link)
		require.Equal(t, server.URL+"/img/baustelle.jpg", entries[1].ImageUrl)
	})

	t.Run("date is parsed day first", func(t *testing.T) {
		require.True(t, entries[1].Published.Equal(time.Date(2023, 5, 2, 0, 0, 0, 0, time.UTC)))
	})

	t.Run("entries carry no update detection", func(t *testing.T) {
		require.Empty(t, entries[0].ForeignId)
		require.Nil(t, entries[0].Moddate)
	})
}
