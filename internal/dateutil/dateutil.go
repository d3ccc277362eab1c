// Package dateutil holds the calendar helpers shared by the catalog, the
// editor and the activity index. Every "today" decision goes through a Clock
// so that day boundaries can be simulated in tests.
package dateutil

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"
	"unicode"
)

// Layout is the calendar date layout embedded in entry file names.
const Layout = "2006-01-02"

// Clock is the time source used for every day-boundary decision.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the local wall clock.
type SystemClock struct{}

// Now returns the current local time.
func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant. The zero value is not useful.
type FixedClock struct {
	T time.Time
}

// Now returns the fixed instant.
func (c *FixedClock) Now() time.Time { return c.T }

// Advance moves the clock forward by d.
func (c *FixedClock) Advance(d time.Duration) { c.T = c.T.Add(d) }

var datePattern = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)

// FormatDate formats t as YYYY-MM-DD in t's own location.
func FormatDate(t time.Time) string {
	return t.Format(Layout)
}

// Today returns the local calendar date of clock as YYYY-MM-DD.
func Today(clock Clock) string {
	return FormatDate(clock.Now())
}

// ExtractDate returns the first YYYY-MM-DD substring of name that is a real
// calendar date. Strings like 2025-13-45 are ignored.
func ExtractDate(name string) (string, bool) {
	for _, m := range datePattern.FindAllString(name, -1) {
		if _, err := time.Parse(Layout, m); err == nil {
			return m, true
		}
	}

	return "", false
}

// SameDay reports whether a and b fall on the same calendar date in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	if loc == nil {
		loc = time.Local
	}

	return FormatDate(a.In(loc)) == FormatDate(b.In(loc))
}

// CurrentTime returns the HH:MM wall clock time of clock.
func CurrentTime(clock Clock) string {
	return clock.Now().Format("15:04")
}

// CountCharacters counts the runes of text that are not whitespace.
func CountCharacters(text string) int {
	n := 0

	for _, r := range text {
		if !unicode.IsSpace(r) {
			n++
		}
	}

	return n
}

// TimeOfDay buckets the hour at which a page was written.
type TimeOfDay string

const (
	Morning   TimeOfDay = "morning"
	Afternoon TimeOfDay = "afternoon"
	Evening   TimeOfDay = "evening"
)

// ClassifyHour maps an hour (0-23) to a time-of-day bucket: up to 10 is
// morning, up to 14 is afternoon, anything later is evening.
func ClassifyHour(hour int) TimeOfDay {
	switch {
	case hour <= 10:
		return Morning
	case hour <= 14:
		return Afternoon
	default:
		return Evening
	}
}

// RelativeLabel describes date (YYYY-MM-DD) relative to the clock's today:
// "today", "yesterday", "N days ago" within a week, else the date itself.
func RelativeLabel(date string, clock Clock) string {
	now := clock.Now()

	d, err := time.ParseInLocation(Layout, date, now.Location())
	if err != nil {
		return date
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	days := int(math.Round(today.Sub(d).Hours() / 24))

	switch {
	case days == 0:
		return "today"
	case days == 1:
		return "yesterday"
	case days > 1 && days < 7:
		return fmt.Sprintf("%d days ago", days)
	default:
		return date
	}
}

// YearBounds returns the first and last instant of year in loc.
func YearBounds(year int, loc *time.Location) (since, until time.Time) {
	if loc == nil {
		loc = time.Local
	}

	since = time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	until = time.Date(year, time.December, 31, 23, 59, 59, 0, loc)

	return since, until
}

// TrimExt strips a trailing ".md" for display.
func TrimExt(name string) string {
	return strings.TrimSuffix(name, ".md")
}
