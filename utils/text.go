package utils

import (
	"crypto/md5"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

func TextToMd5Hash(text string) (string, error) {
	h := md5.New()
	if _, err := io.WriteString(h, text); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

// StripHtmlTags returns the plain text of an HTML fragment. Fragments that
// cannot be parsed are returned unchanged.
func StripHtmlTags(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return fragment
	}
	return doc.Text()
}

// GetBaseUrl reduces a link to scheme://host.
func GetBaseUrl(link string) string {
	parsed, err := url.Parse(link)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return ""
	}
	return fmt.Sprintf("%s://%s", parsed.Scheme, parsed.Host)
}

const maxTitleRunes = 300

// SanitizeTitle shortens over-long titles to 297 runes plus an ellipsis.
func SanitizeTitle(title string) string {
	runes := []rune(title)
	if len(runes) > maxTitleRunes {
		return string(runes[0:maxTitleRunes-3]) + "..."
	}
	return title
}

// SanitizeLink collapses doubled scheme prefixes some feeds emit
// ("https://https://…" and friends) into a single https prefix.
func SanitizeLink(link string) string {
	if strings.HasPrefix(link, "https") {
		parts := strings.Split(link, "https")
		return "https:" + strings.TrimLeft(parts[len(parts)-1], ":")
	}
	return link
}
