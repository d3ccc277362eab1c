package cmd

import (
	"fmt"

	"github.com/inovacc/mornpage/internal/model"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change settings",
	Long: `Settings are stored in the local database next to the login.

Keys:
  branch            branch to read and write, empty for the repository default
  api_base_url      GitHub Enterprise API URL, empty for github.com
  commit_prefix     start of every commit message
  activity_markers  comma separated commit message markers counted by heatmap
  scan_secrets      scan entries for secrets before saving (true/false)
  timeout_seconds   bound on the network calls of a command`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		out := cmd.OutOrStdout()

		if jsonOutput {
			return outputJSON(out, a.cfg)
		}

		printf(out, "%s\n", headerStyle.Render("Settings"))

		for _, key := range model.ConfigKeys {
			value, _ := a.cfg.Get(key)
			if value == "" {
				value = "(default)"
			}

			printf(out, "  %-17s %s\n", key, value)
		}

		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:     "set <key> <value>",
	Short:   "Change a setting",
	Example: `  mornpage config set branch journal
  mornpage config set activity_markers "Morning page,from sukipi.me"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		cfg := a.cfg
		if err := cfg.Set(args[0], args[1]); err != nil {
			return err
		}

		if err := a.store.SaveConfig(&cfg); err != nil {
			return fmt.Errorf("save config: %w", err)
		}

		value, _ := cfg.Get(args[0])
		printf(cmd.OutOrStdout(), "%s = %s\n", args[0], value)

		return nil
	},
}

var configResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the default settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		def := model.DefaultConfig()
		if err := a.store.SaveConfig(&def); err != nil {
			return fmt.Errorf("save config: %w", err)
		}

		printf(cmd.OutOrStdout(), "Settings reset to defaults.\n")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd, configSetCmd, configResetCmd)
}
