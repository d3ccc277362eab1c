package activity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/inovacc/mornpage/internal/dateutil"
	"github.com/inovacc/mornpage/internal/gateway"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var markers = []string{"Morning page", "from sukipi.me"}

func TestIsJournalCommit(t *testing.T) {
	assert.True(t, IsJournalCommit("Morning page: 2025-01-27.md", markers))
	assert.True(t, IsJournalCommit("Update file from sukipi.me", markers))
	assert.True(t, IsJournalCommit("add 2025/01/2025-01-27.md", markers))
	assert.False(t, IsJournalCommit("Initial commit", markers))
	assert.False(t, IsJournalCommit("2025-01-27 notes", nil))
}

func TestGroup_CountAndEarliestHour(t *testing.T) {
	loc := time.FixedZone("KST", 9*3600)

	commits := []gateway.Commit{
		{Message: "Morning page: a", Timestamp: time.Date(2025, 1, 27, 9, 15, 0, 0, loc)},
		{Message: "Morning page: a", Timestamp: time.Date(2025, 1, 27, 6, 40, 0, 0, loc)},
		{Message: "Morning page: a", Timestamp: time.Date(2025, 1, 27, 21, 0, 0, 0, loc)},
		{Message: "unrelated", Timestamp: time.Date(2025, 1, 27, 1, 0, 0, 0, loc)},
		// 2025-01-27 23:30 UTC is 08:30 on the 28th in KST
		{Message: "Morning page: b", Timestamp: time.Date(2025, 1, 27, 23, 30, 0, 0, time.UTC)},
	}

	rec := Group(commits, markers, loc)

	assert.Equal(t, Record{
		"2025-01-27": {Count: 3, EarliestHour: 6},
		"2025-01-28": {Count: 1, EarliestHour: 8},
	}, rec)
	assert.Equal(t, dateutil.Morning, rec["2025-01-27"].TimeOfDay())
}

func TestGroup_MidnightIsEarliest(t *testing.T) {
	commits := []gateway.Commit{
		{Message: "Morning page", Timestamp: time.Date(2025, 3, 1, 5, 0, 0, 0, time.UTC)},
		{Message: "Morning page", Timestamp: time.Date(2025, 3, 1, 0, 5, 0, 0, time.UTC)},
	}

	rec := Group(commits, markers, time.UTC)
	assert.Equal(t, 0, rec["2025-03-01"].EarliestHour)
}

func TestBuildForYear(t *testing.T) {
	clock := &dateutil.FixedClock{T: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	gw := gateway.NewMemory(clock)

	gw.AddCommit("Morning page: 2024-12-31.md", time.Date(2024, 12, 31, 7, 0, 0, 0, time.UTC))
	gw.AddCommit("Morning page: 2025-01-01.md", time.Date(2025, 1, 1, 7, 0, 0, 0, time.UTC))
	gw.AddCommit("Initial commit", time.Date(2025, 1, 2, 7, 0, 0, 0, time.UTC))

	rec, err := New(gw, clock, markers, nil).BuildForYear(context.Background(), 2025)
	require.NoError(t, err)
	assert.Equal(t, Record{"2025-01-01": {Count: 1, EarliestHour: 7}}, rec)
}

func TestBuildForYear_Error(t *testing.T) {
	gw := gateway.NewMemory(nil)
	boom := errors.New("boom")
	gw.Fail = func(string, string) error { return boom }

	_, err := New(gw, nil, markers, nil).BuildForYear(context.Background(), 2025)
	assert.ErrorIs(t, err, boom)
}

func TestSummarize(t *testing.T) {
	now := time.Date(2025, 2, 3, 8, 0, 0, 0, time.UTC)

	rec := Record{
		"2025-01-10": {Count: 1},
		"2025-01-11": {Count: 1},
		"2025-01-12": {Count: 1},
		"2025-01-13": {Count: 1},
		"2025-01-30": {Count: 1},
		"2025-02-01": {Count: 1},
		"2025-02-02": {Count: 2},
		"2025-02-03": {Count: 1},
	}

	assert.Equal(t, Stats{ActiveDays: 8, ThisMonth: 3, CurrentStreak: 3, BestStreak: 4}, Summarize(rec, now))
}

func TestSummarize_StreakFromYesterday(t *testing.T) {
	now := time.Date(2025, 2, 3, 8, 0, 0, 0, time.UTC)

	rec := Record{"2025-02-01": {}, "2025-02-02": {}}
	assert.Equal(t, 2, Summarize(rec, now).CurrentStreak)

	rec = Record{"2025-02-01": {}}
	assert.Equal(t, 0, Summarize(rec, now).CurrentStreak)
}

func TestSummarize_Empty(t *testing.T) {
	assert.Equal(t, Stats{}, Summarize(Record{}, time.Now()))
}
