package cmd

import (
	"context"
	"fmt"

	"github.com/inovacc/mornpage/internal/activity"
	"github.com/inovacc/mornpage/internal/cli"
	"github.com/inovacc/mornpage/internal/core"
	"github.com/spf13/cobra"
)

var heatmapYear int

// heatmapOutput is the JSON form of heatmap.
type heatmapOutput struct {
	Year  int             `json:"year"`
	Days  activity.Record `json:"days"`
	Stats activity.Stats  `json:"stats"`
}

var heatmapCmd = &cobra.Command{
	Use:   "heatmap",
	Short: "Show the writing activity of a year",
	Long: `Draw one cell per day of the year. Days with a journal commit are
colored by the earliest hour written: green in the morning (until 10h),
amber in the afternoon (until 14h), orange in the evening.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withJournal(cmd, func(ctx context.Context, a *app, j *core.Journal) error {
			now := a.clock.Now()

			year := heatmapYear
			if year == 0 {
				year = now.Year()
			}

			if year < 2008 || year > now.Year()+1 {
				return fmt.Errorf("year %d is out of range", year)
			}

			rec, err := j.BuildActivity(ctx, year)
			if err != nil {
				return err
			}

			stats := activity.Summarize(rec, now)

			if jsonOutput {
				return outputJSON(cmd.OutOrStdout(), heatmapOutput{Year: year, Days: rec, Stats: stats})
			}

			printf(cmd.OutOrStdout(), "%s", cli.RenderHeatmap(year, rec, stats, now.Location()))

			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(heatmapCmd)
	heatmapCmd.Flags().IntVarP(&heatmapYear, "year", "y", 0, "Year to show (default current year)")
}
