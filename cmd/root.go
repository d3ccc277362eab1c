package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/inovacc/mornpage/internal/application"
	"github.com/inovacc/mornpage/internal/core"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	jsonOutput bool
	tokenFlag  string
)

var rootCmd = &cobra.Command{
	Use:   application.AppName,
	Short: "Write morning pages into a GitHub repository",
	Long: `Mornpage keeps a daily writing journal in a GitHub repository.
Each day gets one markdown file named after its date. Today's entry stays
editable until midnight, then becomes read-only.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, errorLine(err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().StringVar(&tokenFlag, "token", "", "GitHub token (defaults to GITHUB_TOKEN, GH_TOKEN or gh auth)")
}

func errorLine(err error) string {
	return "Error: " + core.UserMessage(err)
}

// newLogger creates the command logger.
// Uses JSON handler when JSON output is enabled, text otherwise
func newLogger(w io.Writer, jsonOut, debug bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelWarn}
	if debug {
		opts.Level = slog.LevelDebug
	}

	if jsonOut {
		return slog.New(slog.NewJSONHandler(w, opts))
	}

	return slog.New(slog.NewTextHandler(w, opts))
}

// outputJSON outputs data as indented JSON
func outputJSON(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(data)
}
