package feed

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"

	"github.com/matheuskafuri/spacegallery/internal/cache"
	"github.com/matheuskafuri/spacegallery/internal/calendar"
)

// RSSFetcher reads the APOD RSS mirror. Each item's description carries the
// media as embedded HTML, which is where the image or video URL comes from.
type RSSFetcher struct {
	url    string
	client *http.Client
	parser *gofeed.Parser
	strip  *bluemonday.Policy
}

func NewRSSFetcher(url string, client *http.Client) *RSSFetcher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &RSSFetcher{
		url:    url,
		client: client,
		parser: gofeed.NewParser(),
		strip:  bluemonday.StrictPolicy(),
	}
}

func (f *RSSFetcher) Fetch(ctx context.Context) ([]cache.Entry, error) {
	body, err := get(ctx, f.client, f.url, "application/rss+xml, application/xml")
	if err != nil {
		return nil, err
	}

	parsed, err := f.parser.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, &cache.FeedShapeError{URL: f.url, Err: fmt.Errorf("parsing rss: %w", err)}
	}

	entries := make([]cache.Entry, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		entries = append(entries, f.convert(item))
	}
	return entries, nil
}

func (f *RSSFetcher) convert(item *gofeed.Item) cache.Entry {
	e := cache.Entry{
		Date:  itemDate(item),
		Title: strings.TrimSpace(item.Title),
	}

	desc := item.Description
	if desc == "" {
		desc = item.Content
	}

	mediaType, mediaURL, thumb := extractMedia(desc)
	e.MediaType = mediaType
	e.URL = mediaURL
	e.ThumbnailURL = thumb
	if e.URL == "" {
		e.URL = item.Link
	}

	e.Explanation = f.plainText(desc)
	if item.Author != nil {
		e.Copyright = item.Author.Name
	}
	return e
}

// plainText strips markup and collapses whitespace.
func (f *RSSFetcher) plainText(s string) string {
	text := html.UnescapeString(f.strip.Sanitize(s))
	return strings.Join(strings.Fields(text), " ")
}

// extractMedia finds the first video iframe or image in an HTML fragment.
func extractMedia(fragment string) (mediaType, mediaURL, thumbnail string) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "other", "", ""
	}

	if src, ok := doc.Find("iframe").First().Attr("src"); ok && src != "" {
		return cache.MediaVideo, src, ""
	}
	if src, ok := doc.Find("img").First().Attr("src"); ok && src != "" {
		// The RSS image is the small calendar thumbnail; the linked page
		// image, when present, is the full resolution one.
		full := src
		if href, ok := doc.Find("a:has(img)").First().Attr("href"); ok && isImageURL(href) {
			full = href
		}
		return cache.MediaImage, full, src
	}
	return "other", "", ""
}

func isImageURL(u string) bool {
	lower := strings.ToLower(u)
	for _, ext := range []string{".jpg", ".jpeg", ".png", ".gif", ".webp"} {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

var apodPage = regexp.MustCompile(`ap(\d{2})(\d{2})(\d{2})\.html`)

// itemDate prefers the publish date and falls back to the apYYMMDD page name.
func itemDate(item *gofeed.Item) string {
	if item.PublishedParsed != nil {
		return calendar.Format(calendar.FromTime(*item.PublishedParsed))
	}
	if item.UpdatedParsed != nil {
		return calendar.Format(calendar.FromTime(*item.UpdatedParsed))
	}
	m := apodPage.FindStringSubmatch(item.Link)
	if m == nil {
		return ""
	}
	yy, _ := strconv.Atoi(m[1])
	year := 2000 + yy
	if yy >= 95 {
		year = 1900 + yy
	}
	raw := fmt.Sprintf("%04d-%s-%s", year, m[2], m[3])
	if _, err := calendar.Parse(raw); err != nil {
		return ""
	}
	return raw
}
