package gallery

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matheuskafuri/spacegallery/internal/cache"
)

func TestDetailFor(t *testing.T) {
	tests := []struct {
		name     string
		entry    cache.Entry
		wantOpen string
		wantNote string
		wantDate string
	}{
		{
			name:     "image prefers hd",
			entry:    cache.Entry{Date: "2021-07-04", MediaType: cache.MediaImage, URL: "https://x/a.jpg", HDURL: "https://x/a_hd.jpg"},
			wantOpen: "https://x/a_hd.jpg",
			wantDate: "Jul 4, 2021",
		},
		{
			name:     "image without hd",
			entry:    cache.Entry{Date: "2021-07-04", MediaType: cache.MediaImage, URL: "//x/a.jpg"},
			wantOpen: "https://x/a.jpg",
			wantDate: "Jul 4, 2021",
		},
		{
			name:     "youtube embed",
			entry:    cache.Entry{Date: "2021-07-04", MediaType: cache.MediaVideo, URL: "https://www.youtube.com/embed/abc?rel=0"},
			wantOpen: "https://www.youtube.com/watch?v=abc&rel=0",
			wantDate: "Jul 4, 2021",
		},
		{
			name:     "other video",
			entry:    cache.Entry{Date: "2021-07-04", MediaType: cache.MediaVideo, URL: "https://vimeo.com/1"},
			wantOpen: "https://vimeo.com/1",
			wantNote: "Open video in browser",
			wantDate: "Jul 4, 2021",
		},
		{
			name:     "unsupported media",
			entry:    cache.Entry{Date: "bad", MediaType: "other", URL: "https://x/page.html"},
			wantNote: "Media type not supported in the detail view.",
			wantDate: "bad",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := DetailFor(tt.entry)
			require.Equal(t, tt.wantOpen, d.OpenURL)
			require.Equal(t, tt.wantNote, d.Note)
			require.Equal(t, tt.wantDate, d.Date)
		})
	}
}

func TestDetailForUntitled(t *testing.T) {
	d := DetailFor(cache.Entry{MediaType: cache.MediaImage, URL: "https://x/a.jpg"})
	require.Equal(t, "Untitled", d.Title)
}

func TestWatchURL(t *testing.T) {
	require.Equal(t, "https://www.youtube.com/watch?v=xyz", WatchURL("//www.youtube.com/embed/xyz"))
	require.Equal(t, "https://youtu.be/xyz", WatchURL("https://youtu.be/xyz"))
	require.Equal(t, "https://example.com/embed/xyz", WatchURL("https://example.com/embed/xyz"))
	require.True(t, IsYouTube("https://YouTube.com/watch?v=1"))
	require.False(t, IsYouTube("https://vimeo.com/1"))
}
