package feed

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/mmcdole/gofeed"

	"github.com/matheuskafuri/spacegallery/internal/cache"
)

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>APOD</title>
  <link>https://apod.nasa.gov/</link>
  <item>
    <title>The Horsehead Nebula</title>
    <link>https://apod.nasa.gov/apod/ap240115.html</link>
    <description>&lt;a href="https://apod.nasa.gov/apod/image/2401/horse.jpg"&gt;&lt;img src="https://apod.nasa.gov/apod/calendar/S_240115.jpg" /&gt;&lt;/a&gt; A dark &amp;amp; dusty &lt;b&gt;cloud&lt;/b&gt;.</description>
    <pubDate>Mon, 15 Jan 2024 05:00:00 +0000</pubDate>
  </item>
  <item>
    <title>Launch Video</title>
    <link>https://apod.nasa.gov/apod/ap240116.html</link>
    <description>&lt;iframe src="https://www.youtube.com/embed/abc"&gt;&lt;/iframe&gt; Liftoff.</description>
  </item>
</channel>
</rss>`

func TestRSSFetcher(t *testing.T) {
	srv, _ := serve(t, http.StatusOK, "application/rss+xml", sampleRSS)

	entries, err := NewRSSFetcher(srv.URL, srv.Client()).Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	img := entries[0]
	if img.Date != "2024-01-15" {
		t.Errorf("expected date from pubDate, got %q", img.Date)
	}
	if img.MediaType != cache.MediaImage {
		t.Errorf("expected image, got %q", img.MediaType)
	}
	if img.URL != "https://apod.nasa.gov/apod/image/2401/horse.jpg" {
		t.Errorf("expected full image URL, got %q", img.URL)
	}
	if img.ThumbnailURL != "https://apod.nasa.gov/apod/calendar/S_240115.jpg" {
		t.Errorf("expected thumbnail, got %q", img.ThumbnailURL)
	}
	if img.Explanation != "A dark & dusty cloud." {
		t.Errorf("expected stripped explanation, got %q", img.Explanation)
	}

	vid := entries[1]
	if vid.Date != "2024-01-16" {
		t.Errorf("expected date from page name, got %q", vid.Date)
	}
	if vid.MediaType != cache.MediaVideo || vid.URL != "https://www.youtube.com/embed/abc" {
		t.Errorf("expected youtube video, got %s %s", vid.MediaType, vid.URL)
	}
}

func TestRSSFetcherRejectsGarbage(t *testing.T) {
	srv, _ := serve(t, http.StatusOK, "text/html", "<html><body>not a feed</body></html>")

	_, err := NewRSSFetcher(srv.URL, srv.Client()).Fetch(context.Background())
	var fse *cache.FeedShapeError
	if !errors.As(err, &fse) {
		t.Fatalf("expected FeedShapeError, got %v", err)
	}
}

func TestExtractMediaNone(t *testing.T) {
	mt, u, thumb := extractMedia("just words")
	if mt != "other" || u != "" || thumb != "" {
		t.Errorf("expected no media, got %q %q %q", mt, u, thumb)
	}
}

func TestItemDateFromLink(t *testing.T) {
	tests := []struct {
		link string
		want string
	}{
		{"https://apod.nasa.gov/apod/ap951231.html", "1995-12-31"},
		{"https://apod.nasa.gov/apod/ap000101.html", "2000-01-01"},
		{"https://apod.nasa.gov/apod/ap241399.html", ""},
		{"https://example.com/post", ""},
	}
	for _, tt := range tests {
		got := itemDate(&gofeed.Item{Link: tt.link})
		if got != tt.want {
			t.Errorf("itemDate(%q) = %q, want %q", tt.link, got, tt.want)
		}
	}
}
