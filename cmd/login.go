package cmd

import (
	"context"
	"time"

	"github.com/inovacc/mornpage/internal/core"
	"github.com/inovacc/mornpage/internal/giturl"
	"github.com/spf13/cobra"
)

var loginRemember bool

var loginCmd = &cobra.Command{
	Use:   "login <owner/repo>",
	Short: "Connect to the journal repository",
	Long: `Validate a GitHub token against the journal repository and store it
encrypted on this machine.

The token is taken from --token, GITHUB_TOKEN, GH_TOKEN or the gh CLI, and
prompted for when none is set. With --remember later commands reconnect
without asking for 30 days.`,
	Example: `  mornpage login alice/morning-pages --remember
  mornpage login https://github.com/alice/morning-pages`,
	Args: cobra.ExactArgs(1),
	RunE: runLogin,
}

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().BoolVarP(&loginRemember, "remember", "r", false, "Remember this login for 30 days")
}

func runLogin(cmd *cobra.Command, args []string) error {
	repo, err := giturl.Parse(args[0])
	if err != nil {
		return err
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	token, source, err := core.ResolveToken(tokenFlag, repo.Host)
	if err != nil {
		return err
	}

	ctx, cancel := contextFor(cmd, a)
	defer cancel()

	sess, err := a.auth.Login(ctx, args[0], token, loginRemember)
	if err != nil {
		return err
	}

	sess.Source = source

	out := cmd.OutOrStdout()

	if jsonOutput {
		return outputJSON(out, sess)
	}

	printf(out, "%s Logged in to %s (token from %s)\n", successStyle.Render("✓"), pathStyle.Render(sess.Repo.FullName()), source)

	if !sess.RememberUntil.IsZero() {
		printf(out, "  remembered until %s\n", sess.RememberUntil.Local().Format(time.DateTime))
	}

	return nil
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored login",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.auth.Logout(); err != nil {
			return err
		}

		printf(cmd.OutOrStdout(), "Logged out.\n")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

var statusWeb bool

// statusOutput is the status report.
type statusOutput struct {
	core.Status

	User      string     `json:"user,omitempty"`
	Branch    string     `json:"branch,omitempty"`
	Private   bool       `json:"private,omitempty"`
	Remaining int        `json:"rate_remaining,omitempty"`
	Reset     *time.Time `json:"rate_reset,omitempty"`
	Error     string     `json:"error,omitempty"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the login state and the connected repository",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().BoolVarP(&statusWeb, "web", "w", false, "Open the repository in the browser")
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	report := statusOutput{Status: a.auth.Status()}

	if report.LoggedIn {
		ctx, cancel := contextFor(cmd, a)
		defer cancel()

		if _, sess, err := a.connect(ctx); err != nil {
			report.Error = core.UserMessage(err)
		} else {
			fillRemote(ctx, &report, sess)
		}
	}

	if statusWeb {
		if !report.LoggedIn {
			return core.ErrNotLoggedIn
		}

		if err := core.OpenInBrowser(giturl.WebURL(report.Repo)); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()

	if jsonOutput {
		return outputJSON(out, report)
	}

	if !report.LoggedIn {
		printf(out, "Not logged in.\nLog in with: mornpage login <owner/repo>\n")
		return nil
	}

	printf(out, "Repository:  %s\n", pathStyle.Render(report.Repo.FullName()))

	if report.User != "" {
		printf(out, "User:        %s\n", report.User)
	}

	if report.Branch != "" {
		printf(out, "Branch:      %s\n", report.Branch)
	}

	if report.CanAutoLogin {
		printf(out, "Remembered:  until %s\n", report.RememberUntil.Local().Format(time.DateTime))
	} else {
		printf(out, "Remembered:  no\n")
	}

	if report.Reset != nil {
		printf(out, "API quota:   %d left, resets %s\n", report.Remaining, report.Reset.Local().Format(time.TimeOnly))
	}

	if report.Error != "" {
		printf(out, "%s\n", warningStyle.Render(report.Error))
	}

	return nil
}

func fillRemote(ctx context.Context, report *statusOutput, sess *core.Session) {
	if sess.Info != nil {
		report.Branch = sess.Info.DefaultBranch
		report.Private = sess.Info.Private
	}

	if id, err := sess.Gateway.User(ctx); err == nil {
		report.User = id.Login
	}

	if rate, err := sess.Gateway.RateLimit(ctx); err == nil {
		report.Remaining = rate.Remaining
		report.Reset = &rate.Reset
	}
}
