package models

import (
	"fmt"
	"strings"
	"time"
)

const dayLayout = "2006-01-02"

// Day is a calendar date without time of day or zone
type Day struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDay reduces s to a calendar date. It accepts YYYY-MM-DD and RFC 3339
// timestamps; for timestamps the date as written is kept, never converted
// to another zone.
func ParseDay(s string) (Day, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Day{}, false
	}
	if t, err := time.Parse(dayLayout, s); err == nil {
		return DayOf(t), true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return DayOf(t), true
	}
	return Day{}, false
}

// DayOf returns the calendar date of t in t's own location
func DayOf(t time.Time) Day {
	y, m, d := t.Date()
	return Day{Year: y, Month: m, Day: d}
}

// Time anchors the date at noon in loc so formatting never crosses a day boundary
func (d Day) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Date(d.Year, d.Month, d.Day, 12, 0, 0, 0, loc)
}

func (d Day) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d Day) IsZero() bool {
	return d == Day{}
}

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or after o
func (d Day) Compare(o Day) int {
	switch {
	case d.Year != o.Year:
		return cmpInt(d.Year, o.Year)
	case d.Month != o.Month:
		return cmpInt(int(d.Month), int(o.Month))
	default:
		return cmpInt(d.Day, o.Day)
	}
}

func (d Day) Before(o Day) bool { return d.Compare(o) < 0 }

// Format renders the date with a time layout, e.g. "Jan 2"
func (d Day) Format(layout string) string {
	return d.Time(time.UTC).Format(layout)
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
