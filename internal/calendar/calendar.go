// Package calendar handles calendar dates with the time of day removed.
//
// A Date is the day as written in the source string. Offsets in date-time
// strings are respected but never converted to the local zone, so the same
// string always yields the same day regardless of where the program runs.
package calendar

import (
	"fmt"
	"strings"
	"time"
)

const layout = "2006-01-02"

// Accepted date-time layouts, tried in order after the plain date layout.
var dateTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04:05Z0700",
}

// Date is a calendar day. The zero value is not a valid date.
type Date struct {
	t time.Time // always midnight UTC
}

// ParseError reports a date string that could not be interpreted.
type ParseError struct {
	Raw string
}

func (e *ParseError) Error() string {
	if e.Raw == "" {
		return "calendar: empty date"
	}
	return fmt.Sprintf("calendar: cannot parse date %q", e.Raw)
}

// Parse reads a YYYY-MM-DD date or an ISO-8601 date-time and returns the
// calendar day it names.
func Parse(raw string) (Date, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Date{}, &ParseError{Raw: raw}
	}
	if t, err := time.Parse(layout, s); err == nil {
		return FromTime(t), nil
	}
	if !strings.ContainsAny(s, "Tt") {
		return Date{}, &ParseError{Raw: raw}
	}
	s = strings.Replace(s, "t", "T", 1)
	for _, l := range dateTimeLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return FromTime(t), nil
		}
	}
	return Date{}, &ParseError{Raw: raw}
}

// MustParse is Parse for literals known to be valid.
func MustParse(raw string) Date {
	d, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return d
}

// FromTime keeps the year, month and day of t in t's own location.
func FromTime(t time.Time) Date {
	y, m, d := t.Date()
	return Date{t: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current local calendar day.
func Today() Date {
	return FromTime(time.Now())
}

// Format renders d as YYYY-MM-DD. The zero Date formats as "".
func Format(d Date) string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(layout)
}

// Compare orders two dates by day: -1 if a is earlier, 1 if later, 0 if equal.
func Compare(a, b Date) int {
	switch {
	case a.t.Before(b.t):
		return -1
	case a.t.After(b.t):
		return 1
	default:
		return 0
	}
}

func (d Date) IsZero() bool { return d.t.IsZero() }
func (d Date) Before(o Date) bool { return Compare(d, o) < 0 }
func (d Date) After(o Date) bool { return Compare(d, o) > 0 }
func (d Date) Equal(o Date) bool { return Compare(d, o) == 0 }
func (d Date) String() string { return Format(d) }
func (d Date) Time() time.Time { return d.t }
func (d Date) AddDays(n int) Date { return Date{t: d.t.AddDate(0, 0, n)} }
func (d Date) Human() string { return d.t.Format("Jan 2, 2006") }

// Min returns the earlier of a and b.
func Min(a, b Date) Date {
	if a.After(b) {
		return b
	}
	return a
}

// Max returns the later of a and b.
func Max(a, b Date) Date {
	if a.Before(b) {
		return b
	}
	return a
}
