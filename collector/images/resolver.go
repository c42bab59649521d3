package images

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"strings"

	// Decoders for the formats the probed feeds actually serve.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/PuerkitoBio/goquery"

	"github.com/zemki/molonews-backend/collector"
	"github.com/zemki/molonews-backend/collector/clients"
	"github.com/zemki/molonews-backend/utils"
	Logger "github.com/zemki/molonews-backend/utils/log"
)

// Images below this edge length render as noise in the app feed.
const ImageMinSize = 150

// Resolver finds a usable image URL for a parsed entry. Every probe fetches
// and decodes the image header, so failures of any kind just mean "try the
// next strategy".
type Resolver struct {
	client *clients.HttpClient
}

func NewResolver() *Resolver {
	return &Resolver{client: clients.NewDefaultHttpClient()}
}

// Resolve picks an image URL for an entry, first match wins:
//  1. the source default when the parser forced it
//  2. the entry's own image_url, if large enough
//  3. the og:image of the linked article page
//  4. the first image/* enclosure that is large enough
//  5. the first <img> inside the rich-text content
//  6. the source default, which may be empty
//
// The result is either empty or a URL that passed the minimum size probe,
// except for the defaults, which are trusted as configured.
func (r *Resolver) Resolve(ctx context.Context, entry *collector.ParsedEntry, defaultImageUrl string) string {
	if entry.ForceDefaultImage {
		return defaultImageUrl
	}

	baseUrl := utils.GetBaseUrl(entry.Link)

	if len(entry.ImageUrl) > 0 {
		imageUrl := NormalizeImageUrl(entry.ImageUrl, baseUrl)
		if r.HasMinSize(ctx, imageUrl) {
			return imageUrl
		}
	}

	if ogImage := r.ogImage(ctx, entry.Link); len(ogImage) > 0 {
		return ogImage
	}

	for _, enclosure := range entry.Enclosures {
		if !strings.HasPrefix(enclosure.Type, "image/") {
			continue
		}
		imageUrl := NormalizeImageUrl(enclosure.Url, baseUrl)
		if r.HasMinSize(ctx, imageUrl) {
			return imageUrl
		}
	}

	if embedded := firstEmbeddedImage(entry.Content); len(embedded) > 0 {
		imageUrl := NormalizeImageUrl(embedded, baseUrl)
		if r.HasMinSize(ctx, imageUrl) {
			return imageUrl
		}
	}

	return defaultImageUrl
}

// NormalizeImageUrl makes a relative image path absolute against the
// article's base URL.
func NormalizeImageUrl(imageUrl string, baseUrl string) string {
	if strings.HasPrefix(imageUrl, "/") {
		return fmt.Sprintf("%s%s", baseUrl, imageUrl)
	}
	return imageUrl
}

// HasMinSize fetches an image and checks both dimensions against
// ImageMinSize. Any network or decode failure counts as too small.
func (r *Resolver) HasMinSize(ctx context.Context, imageUrl string) bool {
	if len(imageUrl) == 0 {
		return false
	}
	body, err := r.client.GetBody(ctx, imageUrl)
	if err != nil {
		Logger.LogV2.Debugf("image probe failed:", err)
		return false
	}
	config, _, err := image.DecodeConfig(bytes.NewReader(body))
	if err != nil {
		Logger.LogV2.Debugf("image decode failed for ", imageUrl, ": ", err)
		return false
	}
	return config.Width >= ImageMinSize && config.Height >= ImageMinSize
}

// ogImage reads the og:image meta tag off the article page and accepts it
// when it meets the size constraint.
func (r *Resolver) ogImage(ctx context.Context, link string) string {
	if len(link) == 0 {
		return ""
	}
	body, err := r.client.GetBody(ctx, link)
	if err != nil {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	ogImage, _ := doc.Find(`meta[property="og:image"]`).Attr("content")
	if len(ogImage) == 0 {
		return ""
	}
	if !r.HasMinSize(ctx, ogImage) {
		return ""
	}
	return ogImage
}

func firstEmbeddedImage(content string) string {
	if len(content) == 0 {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return ""
	}
	src, _ := doc.Find("img").First().Attr("src")
	return src
}
