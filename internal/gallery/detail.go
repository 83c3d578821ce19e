package gallery

import (
	"strings"

	"github.com/matheuskafuri/spacegallery/internal/cache"
)

// Detail is what the modal view shows for a selected card.
type Detail struct {
	Title       string
	Date        string // human form, e.g. "Jan 3, 2020"; raw date when unparsable
	Explanation string
	MediaType   string
	URL         string
	Copyright   string

	// OpenURL is the link handed to the system browser, empty when the
	// media type cannot be shown.
	OpenURL string
	Note    string
}

func DetailFor(e cache.Entry) Detail {
	d := Detail{
		Title:       e.Title,
		Date:        e.Date,
		Explanation: e.Explanation,
		MediaType:   e.MediaType,
		URL:         e.URL,
		Copyright:   e.Copyright,
	}
	if day, ok := e.Day(); ok {
		d.Date = day.Human()
	}
	if d.Title == "" {
		d.Title = "Untitled"
	}

	switch e.MediaType {
	case cache.MediaImage:
		d.OpenURL = absoluteURL(e.URL)
		if e.HDURL != "" {
			d.OpenURL = absoluteURL(e.HDURL)
		}
	case cache.MediaVideo:
		d.OpenURL = WatchURL(e.URL)
		if !IsYouTube(e.URL) {
			d.Note = "Open video in browser"
		}
	default:
		d.Note = "Media type not supported in the detail view."
	}
	return d
}

// IsYouTube reports whether u points at YouTube.
func IsYouTube(u string) bool {
	lower := strings.ToLower(u)
	return strings.Contains(lower, "youtube") || strings.Contains(lower, "youtu.be")
}

// WatchURL turns a YouTube embed link into a watch page link and fixes
// scheme-relative URLs. Other URLs pass through.
func WatchURL(u string) string {
	u = absoluteURL(u)
	if !IsYouTube(u) {
		return u
	}
	if i := strings.Index(u, "/embed/"); i >= 0 {
		rest := u[i+len("/embed/"):]
		id, query, _ := strings.Cut(rest, "?")
		watch := u[:i] + "/watch?v=" + id
		if query != "" {
			watch += "&" + query
		}
		return watch
	}
	return u
}

func absoluteURL(u string) string {
	if strings.HasPrefix(u, "//") {
		return "https:" + u
	}
	return u
}
