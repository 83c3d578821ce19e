package cache

import (
	"sort"

	"github.com/matheuskafuri/spacegallery/internal/calendar"
)

const (
	MediaImage = "image"
	MediaVideo = "video"
)

// Entry is one day of the catalog, decoded as-is from the feed.
type Entry struct {
	Date         string `json:"date"`
	MediaType    string `json:"media_type"`
	URL          string `json:"url"`
	HDURL        string `json:"hdurl,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	Title        string `json:"title,omitempty"`
	Explanation  string `json:"explanation,omitempty"`
	Copyright    string `json:"copyright,omitempty"`
}

// Day parses the entry date. ok is false when the date is missing or malformed.
func (e Entry) Day() (d calendar.Date, ok bool) {
	d, err := calendar.Parse(e.Date)
	return d, err == nil
}

// Dataset is the catalog sorted newest first. It is never modified after
// construction.
type Dataset struct {
	entries []Entry
	days    []calendar.Date // parallel to entries, zero when unparsable
}

// NewDataset copies entries and sorts them descending by date. Entries with
// unparsable dates keep their relative order and sort last.
func NewDataset(entries []Entry) *Dataset {
	type keyed struct {
		e   Entry
		day calendar.Date
	}
	rows := make([]keyed, len(entries))
	for i, e := range entries {
		d, _ := e.Day()
		rows[i] = keyed{e: e, day: d}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].day, rows[j].day
		if a.IsZero() || b.IsZero() {
			return !a.IsZero() && b.IsZero()
		}
		return a.After(b)
	})

	ds := &Dataset{
		entries: make([]Entry, len(rows)),
		days:    make([]calendar.Date, len(rows)),
	}
	for i, r := range rows {
		ds.entries[i] = r.e
		ds.days[i] = r.day
	}
	return ds
}

func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.entries)
}

// Entries returns a copy of the sorted entries.
func (d *Dataset) Entries() []Entry {
	if d == nil {
		return nil
	}
	out := make([]Entry, len(d.entries))
	copy(out, d.entries)
	return out
}

// Each calls fn for every entry in storage order with its parsed day.
// day is the zero Date for unparsable entries.
func (d *Dataset) Each(fn func(e Entry, day calendar.Date)) {
	if d == nil {
		return
	}
	for i, e := range d.entries {
		fn(e, d.days[i])
	}
}

// Bounds returns the earliest and latest parsable dates. ok is false when no
// entry has a usable date.
func (d *Dataset) Bounds() (earliest, latest calendar.Date, ok bool) {
	if d == nil {
		return calendar.Date{}, calendar.Date{}, false
	}
	// Sorted newest first with unparsable dates at the tail.
	for _, day := range d.days {
		if day.IsZero() {
			break
		}
		if !ok {
			latest = day
			ok = true
		}
		earliest = day
	}
	return earliest, latest, ok
}

// Stats summarizes the dataset for display.
type Stats struct {
	Total       int
	Undated     int
	ByMediaType map[string]int
	Earliest    calendar.Date
	Latest      calendar.Date
}

func (d *Dataset) Stats() Stats {
	s := Stats{ByMediaType: make(map[string]int)}
	d.Each(func(e Entry, day calendar.Date) {
		s.Total++
		if day.IsZero() {
			s.Undated++
		}
		mt := e.MediaType
		if mt == "" {
			mt = "unknown"
		}
		s.ByMediaType[mt]++
	})
	s.Earliest, s.Latest, _ = d.Bounds()
	return s
}

// QueryOpts narrows an index query. Zero fields are ignored.
type QueryOpts struct {
	Start     calendar.Date
	End       calendar.Date
	Search    string
	MediaType string
	Limit     int
}
