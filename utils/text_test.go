package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTextToMd5Hash(t *testing.T) {
	hash, err := TextToMd5Hash("Stadtfest startet")
	require.NoError(t, err)
	require.Len(t, hash, 32)

	again, err := TextToMd5Hash("Stadtfest startet")
	require.NoError(t, err)
	require.Equal(t, hash, again)
}

func TestStripHtmlTags(t *testing.T) {
	t.Run("strips markup", func(t *testing.T) {
		require.Equal(t, "Ein Fest im Park", StripHtmlTags("<p>Ein <b>Fest</b> im Park</p>"))
	})

	t.Run("plain text passes through", func(t *testing.T) {
		require.Equal(t, "kein markup", StripHtmlTags("kein markup"))
	})
}

func TestGetBaseUrl(t *testing.T) {
	require.Equal(t, "https://x.test", GetBaseUrl("https://x.test/news/1?utm=x"))
	require.Equal(t, "", GetBaseUrl("not a url"))
}

func TestSanitizeTitle(t *testing.T) {
	t.Run("short titles unchanged", func(t *testing.T) {
		require.Equal(t, "Stadtfest startet", SanitizeTitle("Stadtfest startet"))
	})

	t.Run("long titles truncated at 297 with ellipsis", func(t *testing.T) {
		long := strings.Repeat("ä", 350)
		got := SanitizeTitle(long)
		runes := []rune(got)
		require.Len(t, runes, 300)
		require.Equal(t, "...", string(runes[297:]))
	})
}

func TestSanitizeLink(t *testing.T) {
	t.Run("doubled prefix collapsed", func(t *testing.T) {
		require.Equal(t, "https://x.test/1", SanitizeLink("https://https://x.test/1"))
	})

	t.Run("clean link unchanged", func(t *testing.T) {
		require.Equal(t, "https://x.test/1", SanitizeLink("https://x.test/1"))
	})

	t.Run("non-https link unchanged", func(t *testing.T) {
		require.Equal(t, "http://x.test/1", SanitizeLink("http://x.test/1"))
	})
}
