// Package activity aggregates journal commits into the per-day record the
// heatmap is drawn from.
package activity

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/inovacc/mornpage/internal/dateutil"
	"github.com/inovacc/mornpage/internal/gateway"
)

// Day is the activity of one calendar date.
type Day struct {
	Count        int `json:"count"`
	EarliestHour int `json:"earliest_hour"`
}

// TimeOfDay buckets EarliestHour.
func (d Day) TimeOfDay() dateutil.TimeOfDay {
	return dateutil.ClassifyHour(d.EarliestHour)
}

// Record maps YYYY-MM-DD to the activity of that date. Dates without
// activity are absent and count as zero.
type Record map[string]Day

var entryFilePattern = regexp.MustCompile(`\d{4}-\d{2}-\d{2}\.md`)

// IsJournalCommit reports whether message looks like a journal save: it
// contains one of markers or names a YYYY-MM-DD.md file.
func IsJournalCommit(message string, markers []string) bool {
	for _, m := range markers {
		if m != "" && strings.Contains(message, m) {
			return true
		}
	}

	return entryFilePattern.MatchString(message)
}

// Group folds matching commits into a Record keyed by the local date of
// each commit timestamp in loc.
func Group(commits []gateway.Commit, markers []string, loc *time.Location) Record {
	if loc == nil {
		loc = time.Local
	}

	rec := make(Record)

	for _, c := range commits {
		if !IsJournalCommit(c.Message, markers) {
			continue
		}

		t := c.Timestamp.In(loc)
		key := dateutil.FormatDate(t)

		day, seen := rec[key]
		if !seen || t.Hour() < day.EarliestHour {
			day.EarliestHour = t.Hour()
		}

		day.Count++
		rec[key] = day
	}

	return rec
}

// Index builds activity records from the repository history.
type Index struct {
	gw      gateway.Gateway
	clock   dateutil.Clock
	markers []string
	logger  *slog.Logger
}

// New creates an Index counting commits that carry one of markers.
func New(gw gateway.Gateway, clock dateutil.Clock, markers []string, logger *slog.Logger) *Index {
	if clock == nil {
		clock = dateutil.SystemClock{}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Index{gw: gw, clock: clock, markers: markers, logger: logger}
}

// BuildForYear returns the activity of year in the clock's time zone.
func (x *Index) BuildForYear(ctx context.Context, year int) (Record, error) {
	loc := x.clock.Now().Location()
	since, until := dateutil.YearBounds(year, loc)

	commits, err := x.gw.ListCommits(ctx, gateway.CommitQuery{Since: since, Until: until})
	if err != nil {
		return nil, fmt.Errorf("build activity for %d: %w", year, err)
	}

	rec := Group(commits, x.markers, loc)

	x.logger.Debug("activity built",
		slog.Int("year", year),
		slog.Int("commits", len(commits)),
		slog.Int("days", len(rec)),
	)

	return rec, nil
}

// Stats summarizes a Record.
type Stats struct {
	ActiveDays    int `json:"active_days"`
	ThisMonth     int `json:"this_month"`
	CurrentStreak int `json:"current_streak"`
	BestStreak    int `json:"best_streak"`
}

// Summarize computes Stats relative to now. The current streak runs back
// from today, or from yesterday while today has no entry yet.
func Summarize(rec Record, now time.Time) Stats {
	s := Stats{ActiveDays: len(rec)}

	month := now.Format("2006-01")
	dates := make([]time.Time, 0, len(rec))

	for key := range rec {
		if strings.HasPrefix(key, month) {
			s.ThisMonth++
		}

		d, err := time.ParseInLocation(dateutil.Layout, key, now.Location())
		if err == nil {
			dates = append(dates, d)
		}
	}

	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	run := 0

	for i, d := range dates {
		if i > 0 && dateutil.FormatDate(dates[i-1].AddDate(0, 0, 1)) == dateutil.FormatDate(d) {
			run++
		} else {
			run = 1
		}

		s.BestStreak = max(s.BestStreak, run)
	}

	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if _, ok := rec[dateutil.FormatDate(day)]; !ok {
		day = day.AddDate(0, 0, -1)
	}

	for {
		if _, ok := rec[dateutil.FormatDate(day)]; !ok {
			break
		}

		s.CurrentStreak++
		day = day.AddDate(0, 0, -1)
	}

	return s
}
