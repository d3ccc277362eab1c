package cmd

import (
	"runtime"

	"github.com/inovacc/mornpage/internal/application"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		if jsonOutput {
			return outputJSON(out, map[string]string{
				"version": application.Version,
				"go":      runtime.Version(),
			})
		}

		printf(out, "%s %s (%s)\n", application.AppName, application.Version, runtime.Version())

		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
