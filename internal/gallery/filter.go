package gallery

import (
	"fmt"
	"sort"

	"github.com/matheuskafuri/spacegallery/internal/cache"
	"github.com/matheuskafuri/spacegallery/internal/calendar"
)

// Range is an inclusive pair of calendar days with Start <= End.
type Range struct {
	Start calendar.Date
	End   calendar.Date
}

func (r Range) Contains(d calendar.Date) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}

// Days is the number of calendar days covered, inclusive.
func (r Range) Days() int {
	return int(r.End.Time().Sub(r.Start.Time()).Hours()/24) + 1
}

func (r Range) String() string {
	return fmt.Sprintf("%s → %s", calendar.Format(r.Start), calendar.Format(r.End))
}

// ResolveRange turns two optional user inputs into an ordered range.
//
// Missing or unparsable endpoints default to the dataset bounds (today when
// the dataset has no dated entries). Endpoints the user did give are never
// clamped to the dataset, so a range entirely outside it is valid and simply
// matches nothing. An inverted range is swapped.
func ResolveRange(userStart, userEnd string, ds *cache.Dataset, today calendar.Date) Range {
	earliest, latest, ok := ds.Bounds()
	if !ok {
		earliest, latest = today, today
	}

	start, startErr := calendar.Parse(userStart)
	end, endErr := calendar.Parse(userEnd)
	if startErr != nil {
		start = earliest
	}
	if endErr != nil {
		end = latest
	}

	if start.After(end) {
		start, end = end, start
	}
	return Range{Start: start, End: end}
}

// Apply returns the entries of ds inside r, oldest first. Entries whose date
// does not parse are left out.
func Apply(ds *cache.Dataset, r Range) []cache.Entry {
	type dated struct {
		e   cache.Entry
		day calendar.Date
	}
	var hits []dated
	ds.Each(func(e cache.Entry, day calendar.Date) {
		if day.IsZero() || !r.Contains(day) {
			return
		}
		hits = append(hits, dated{e: e, day: day})
	})

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].day.Before(hits[j].day)
	})

	out := make([]cache.Entry, len(hits))
	for i, h := range hits {
		out[i] = h.e
	}
	return out
}

// DefaultWindow is the range prefilled into the inputs after the first
// load: the last `days` days of the dataset, or all of it when shorter.
func DefaultWindow(ds *cache.Dataset, days int) (Range, bool) {
	earliest, latest, ok := ds.Bounds()
	if !ok {
		return Range{}, false
	}
	if days < 1 {
		days = 1
	}
	start := calendar.Max(latest.AddDays(-(days - 1)), earliest)
	return Range{Start: start, End: latest}, true
}
