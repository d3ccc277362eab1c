package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/inovacc/mornpage/internal/catalog"
	"github.com/inovacc/mornpage/internal/cli"
	"github.com/inovacc/mornpage/internal/core"
	"github.com/spf13/cobra"
)

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Write today's morning page",
	Long: `Open today's entry in the writing surface. When no entry for today
exists yet a new one named YYYY-MM-DD.md is started. Press ctrl+s to save;
at least 1000 characters are required.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withJournal(cmd, func(ctx context.Context, a *app, j *core.Journal) error {
			if _, err := j.Start(ctx); err != nil {
				return err
			}

			return write(cmd, j)
		})
	},
}

var openCmd = &cobra.Command{
	Use:   "open <path>",
	Short: "Open an entry",
	Long:  `Open an entry by its repository path. Entries of past days open read-only.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withJournal(cmd, func(ctx context.Context, a *app, j *core.Journal) error {
			if _, err := j.Catalog.Refresh(ctx); err != nil {
				return err
			}

			if err := j.Editor.Open(ctx, args[0]); err != nil {
				return err
			}

			return write(cmd, j)
		})
	},
}

var newCmd = &cobra.Command{
	Use:   "new [name]",
	Short: "Start a new entry for today",
	Long: `Start a new entry dated today. The name decides the path:

  (none)         YYYY-MM-DD.md
  notes.md       notes.md, used as given
  2025/09/       2025/09/YYYY-MM-DD.md
  2025/09/ideas  2025/09/YYYY-MM-DD ideas.md
  draft          YYYY-MM-DD draft.md

An existing entry at that path is opened instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var name string
		if len(args) > 0 {
			name = args[0]
		}

		return withJournal(cmd, func(ctx context.Context, a *app, j *core.Journal) error {
			if _, err := j.Catalog.Refresh(ctx); err != nil {
				return err
			}

			path := j.Editor.CreateNamed(name)

			if j.Catalog.Exists(path) {
				if err := j.Editor.Open(ctx, path); err != nil {
					return err
				}
			}

			return write(cmd, j)
		})
	},
}

func write(cmd *cobra.Command, j *core.Journal) error {
	m, err := cli.RunWriter(cmd.Context(), j)
	if err != nil {
		return err
	}

	entry := j.Editor.Entry()
	out := cmd.OutOrStdout()

	switch {
	case m.Saves() > 0:
		printf(out, "%s %s saved (%d characters)\n", successStyle.Render("✓"), entry.Path, j.Editor.Characters())
	case j.Editor.Dirty():
		printf(out, "%s\n", warningStyle.Render(entry.Path+" was not saved"))
	}

	return nil
}

var saveFile string

var saveCmd = &cobra.Command{
	Use:   "save <path>",
	Short: "Save content to an entry without the writing surface",
	Long: `Replace the content of an entry and commit it. The content is read
from --file, or from stdin when no file is given. The same rules as in the
writing surface apply: only today's entries can be saved and dated entries
need at least 1000 characters.`,
	Example: `  mornpage save 2025-01-27.md --file page.md
  cat page.md | mornpage save 2025-01-27.md`,
	Args: cobra.ExactArgs(1),
	RunE: runSave,
}

func init() {
	rootCmd.AddCommand(todayCmd, openCmd, newCmd, saveCmd, listCmd)
	saveCmd.Flags().StringVarP(&saveFile, "file", "f", "", "Read content from file instead of stdin")
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "Only entries whose file name contains this text")
}

func runSave(cmd *cobra.Command, args []string) error {
	content, err := readContent(cmd.InOrStdin(), saveFile)
	if err != nil {
		return err
	}

	return withJournal(cmd, func(ctx context.Context, a *app, j *core.Journal) error {
		res, err := j.SaveContent(ctx, args[0], content)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()

		if jsonOutput {
			return outputJSON(out, res)
		}

		verb := "updated"
		if res.Created {
			verb = "created"
		}

		printf(out, "%s %s %s (commit %s)\n", successStyle.Render("✓"), args[0], verb, shortSHA(res.CommitSHA))

		return nil
	})
}

func readContent(stdin io.Reader, file string) (string, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", file, err)
		}

		return string(data), nil
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}

	return string(data), nil
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}

	return sha
}

var listSearch string

// listOutput is the JSON form of list.
type listOutput struct {
	Entries []*catalog.Node `json:"entries"`
	Stats   catalog.Stats   `json:"stats"`
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List journal entries",
	Long:    `Show the entries of the journal repository as a tree, or as a flat list when searching.`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withJournal(cmd, func(ctx context.Context, a *app, j *core.Journal) error {
			root, err := j.Catalog.Refresh(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			stats := j.Catalog.Stats()

			if jsonOutput {
				return outputJSON(out, listOutput{Entries: j.Catalog.Search(listSearch), Stats: stats})
			}

			if listSearch != "" {
				printf(out, "%s", cli.RenderList(j.Catalog.Search(listSearch), a.clock))
				return nil
			}

			printf(out, "%s", cli.RenderTree(root, a.clock))
			printf(out, "\n%s entries, %s this month\n",
				countStyle.Render(fmt.Sprint(stats.Total)), countStyle.Render(fmt.Sprint(stats.ThisMonth)))

			return nil
		})
	},
}
