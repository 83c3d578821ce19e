package calendar

import (
	"errors"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  string
		err   bool
	}{
		{"2020-01-03", "2020-01-03", false},
		{" 2020-01-03 ", "2020-01-03", false},
		{"2020-01-03T00:00:00", "2020-01-03", false},
		{"2020-01-03T23:59:59", "2020-01-03", false},
		{"2020-01-03T10:15", "2020-01-03", false},
		{"2020-01-03T10:15:30.123", "2020-01-03", false},
		{"2020-01-03T23:30:00Z", "2020-01-03", false},
		{"2020-01-03T23:30:00-08:00", "2020-01-03", false},
		{"2020-01-03T01:30:00+09:00", "2020-01-03", false},
		{"2020-01-03T01:30:00+0900", "2020-01-03", false},
		{"2020-01-03t12:00:00Z", "2020-01-03", false},
		{"", "", true},
		{"   ", "", true},
		{"not a date", "", true},
		{"2020-13-01", "", true},
		{"2020-02-30", "", true},
		{"01/03/2020", "", true},
		{"2020-01-03Tnoon", "", true},
	}
	for _, tt := range tests {
		got, err := Parse(tt.input)
		if tt.err {
			if err == nil {
				t.Errorf("Parse(%q): expected error, got %v", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("Parse(%q): unexpected error: %v", tt.input, err)
			continue
		}
		if Format(got) != tt.want {
			t.Errorf("Parse(%q) = %s, want %s", tt.input, Format(got), tt.want)
		}
	}
}

func TestParseErrorType(t *testing.T) {
	_, err := Parse("garbage")
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if pe.Raw != "garbage" {
		t.Errorf("expected raw %q, got %q", "garbage", pe.Raw)
	}
}

func TestSameDayTimestampsCompareEqual(t *testing.T) {
	a, _ := Parse("2021-06-15T00:00:01")
	b, _ := Parse("2021-06-15T23:59:59")
	if Compare(a, b) != 0 {
		t.Errorf("expected same-day timestamps to compare equal, got %d", Compare(a, b))
	}
	if !a.Equal(b) {
		t.Error("expected Equal to be true")
	}
}

func TestRoundTrip(t *testing.T) {
	inputs := []string{
		"1995-06-16",
		"2000-02-29",
		"2020-01-01T08:00:00Z",
		"2024-12-31T23:59:59-05:00",
		"1999-12-31T00:00",
	}
	for _, s := range inputs {
		first, err := Parse(s)
		if err != nil {
			t.Fatalf("Parse(%q): %v", s, err)
		}
		again, err := Parse(Format(first))
		if err != nil {
			t.Fatalf("Parse(Format(%q)): %v", s, err)
		}
		if !again.Equal(first) {
			t.Errorf("round trip of %q: got %s, want %s", s, again, first)
		}
	}
}

func TestCompare(t *testing.T) {
	early := MustParse("2020-01-01")
	late := MustParse("2020-01-02")

	if Compare(early, late) != -1 {
		t.Error("expected early < late")
	}
	if Compare(late, early) != 1 {
		t.Error("expected late > early")
	}
	if Compare(early, early) != 0 {
		t.Error("expected equal dates to compare 0")
	}
	if !early.Before(late) || !late.After(early) {
		t.Error("Before/After disagree with Compare")
	}
}

func TestFormatZero(t *testing.T) {
	var d Date
	if Format(d) != "" {
		t.Errorf("expected empty string for zero date, got %q", Format(d))
	}
	if !d.IsZero() {
		t.Error("expected zero date to report IsZero")
	}
}

func TestFromTimeKeepsLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	ts := time.Date(2022, 3, 1, 2, 0, 0, 0, tokyo) // still Feb 28 in UTC
	if got := Format(FromTime(ts)); got != "2022-03-01" {
		t.Errorf("FromTime = %s, want 2022-03-01", got)
	}
}

func TestAddDaysAndBounds(t *testing.T) {
	d := MustParse("2020-03-01")
	if got := Format(d.AddDays(-1)); got != "2020-02-29" {
		t.Errorf("AddDays(-1) = %s, want 2020-02-29", got)
	}
	a, b := MustParse("2020-01-05"), MustParse("2020-01-02")
	if !Min(a, b).Equal(b) {
		t.Error("Min picked the later date")
	}
	if !Max(a, b).Equal(a) {
		t.Error("Max picked the earlier date")
	}
}

func TestHuman(t *testing.T) {
	if got := MustParse("2025-06-15").Human(); got != "Jun 15, 2025" {
		t.Errorf("Human() = %q, want %q", got, "Jun 15, 2025")
	}
}
