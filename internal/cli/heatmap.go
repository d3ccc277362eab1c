package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/inovacc/mornpage/internal/activity"
	"github.com/inovacc/mornpage/internal/dateutil"
)

const cell = "■"

var weekdayLabels = [7]string{"Sun", "", "Tue", "", "Thu", "", "Sat"}

func cellStyle(day activity.Day, ok bool) lipgloss.Style {
	if !ok || day.Count == 0 {
		return emptyCellStyle
	}

	switch day.TimeOfDay() {
	case dateutil.Morning:
		return morningCellStyle
	case dateutil.Afternoon:
		return afternoonCellStyle
	default:
		return eveningCellStyle
	}
}

// HeatmapGrid lays out year as weeks (columns) of days (rows, Sunday
// first). Cells before January 1st and after December 31st are empty
// strings.
func HeatmapGrid(year int, loc *time.Location) [7][]string {
	if loc == nil {
		loc = time.Local
	}

	first := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	offset := int(first.Weekday())
	days := time.Date(year, time.December, 31, 0, 0, 0, 0, loc).YearDay()

	weeks := (offset + days + 6) / 7

	var grid [7][]string
	for r := range grid {
		grid[r] = make([]string, weeks)
	}

	for i := range days {
		pos := offset + i
		grid[pos%7][pos/7] = dateutil.FormatDate(first.AddDate(0, 0, i))
	}

	return grid
}

// RenderHeatmap draws the activity of year with month labels, a legend and
// the summary statistics.
func RenderHeatmap(year int, rec activity.Record, stats activity.Stats, loc *time.Location) string {
	grid := HeatmapGrid(year, loc)
	weeks := len(grid[0])

	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("%d", year)))
	b.WriteString("\n\n")

	// month labels sit above the week holding the 1st of each month
	labels := []rune(strings.Repeat(" ", weeks*2))

	for w := range weeks {
		for r := range 7 {
			date := grid[r][w]
			if !strings.HasSuffix(date, "-01") {
				continue
			}

			t, err := time.Parse(dateutil.Layout, date)
			if err != nil {
				continue
			}

			name := t.Month().String()[:3]
			if w*2+len(name) <= len(labels) {
				copy(labels[w*2:], []rune(name))
			}
		}
	}

	b.WriteString("    ")
	b.WriteString(dimStyle.Render(strings.TrimRight(string(labels), " ")))
	b.WriteString("\n")

	for r := range 7 {
		b.WriteString(dimStyle.Render(fmt.Sprintf("%-4s", weekdayLabels[r])))

		for w := range weeks {
			date := grid[r][w]
			if date == "" {
				b.WriteString("  ")
				continue
			}

			day, ok := rec[date]
			b.WriteString(cellStyle(day, ok).Render(cell))
			b.WriteString(" ")
		}

		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(legend())
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Active days %d · This month %d · Current streak %d · Best streak %d\n",
		stats.ActiveDays, stats.ThisMonth, stats.CurrentStreak, stats.BestStreak))

	return b.String()
}

func legend() string {
	return strings.Join([]string{
		emptyCellStyle.Render(cell) + dimStyle.Render(" none"),
		morningCellStyle.Render(cell) + dimStyle.Render(" morning (≤10h)"),
		afternoonCellStyle.Render(cell) + dimStyle.Render(" afternoon (≤14h)"),
		eveningCellStyle.Render(cell) + dimStyle.Render(" evening"),
	}, "   ")
}
