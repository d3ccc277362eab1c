package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/inovacc/mornpage/internal/core"
	"github.com/inovacc/mornpage/internal/credential"
	"github.com/inovacc/mornpage/internal/dateutil"
	"github.com/inovacc/mornpage/internal/editor"
	"github.com/inovacc/mornpage/internal/gateway"
	"github.com/inovacc/mornpage/internal/model"
	"github.com/inovacc/mornpage/internal/store"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var noTokens = core.TokenResolver{
	Getenv:      func(string) string { return "" },
	GHToken:     func(string) (string, string) { return "", "" },
	Interactive: func() bool { return false },
}

type testEnv struct {
	gw    *gateway.Memory
	st    *store.Memory
	clock *dateutil.FixedClock
}

func setupCmd(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		clock: &dateutil.FixedClock{T: time.Date(2025, 1, 27, 7, 30, 0, 0, time.Local)},
		st:    store.NewMemory(),
	}
	env.gw = gateway.NewMemory(env.clock)

	cipher, err := credential.NewCipher(bytes.Repeat([]byte{7}, 32))
	require.NoError(t, err)

	prev := openApp
	t.Cleanup(func() { openApp = prev })

	openApp = func(cmd *cobra.Command) (*app, error) {
		logger := newLogger(io.Discard, false, false)

		cfg, err := env.st.GetConfig()
		if err != nil {
			return nil, err
		}

		factory := func(ctx context.Context, token string, repo model.RepoRef) (gateway.Gateway, error) {
			return env.gw, nil
		}

		creds := credential.NewStore(env.st.Credentials(), cipher, env.clock, logger)

		return &app{
			cfg:    *cfg,
			store:  env.st,
			auth:   core.NewAuth(creds, factory, noTokens, logger),
			clock:  env.clock,
			logger: logger,
		}, nil
	}

	return env
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	verbose, jsonOutput, tokenFlag = false, false, ""
	loginRemember, statusWeb = false, false
	saveFile, listSearch, heatmapYear = "", "", 0

	var out bytes.Buffer

	rootCmd.SetArgs(args)
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetIn(strings.NewReader(stdin))

	err := rootCmd.Execute()

	return out.String(), err
}

func login(t *testing.T) {
	t.Helper()

	_, err := run(t, "", "login", "alice/pages", "--token", "ghp_test", "--remember")
	require.NoError(t, err)
}

func TestVersion(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "mornpage")
}

func TestLoginStatusLogout(t *testing.T) {
	setupCmd(t)

	out, err := run(t, "", "login", "https://github.com/alice/pages.git", "--token", "ghp_test", "--remember")
	require.NoError(t, err)
	assert.Contains(t, out, "alice/pages")
	assert.Contains(t, out, "remembered until")

	out, err = run(t, "", "status", "--json")
	require.NoError(t, err)

	var report statusOutput
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.True(t, report.LoggedIn)
	assert.True(t, report.CanAutoLogin)
	assert.Equal(t, "alice", report.Repo.Owner)
	assert.Equal(t, "memory", report.User)
	assert.Equal(t, 5000, report.Remaining)
	assert.Empty(t, report.Error)

	_, err = run(t, "", "logout")
	require.NoError(t, err)

	out, err = run(t, "", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Not logged in")
}

func TestLogin_InvalidToken(t *testing.T) {
	env := setupCmd(t)
	env.gw.Fail = func(op, path string) error {
		if op == "repository" {
			return gateway.ErrUnauthorized
		}

		return nil
	}

	_, err := run(t, "", "login", "alice/pages", "--token", "bad")
	require.Error(t, err)
	assert.Contains(t, errorLine(err), "token is invalid or expired")

	_, ok, _ := env.st.Credentials().Get(credential.KeyToken)
	assert.False(t, ok)
}

func TestLogin_BadRepository(t *testing.T) {
	setupCmd(t)

	_, err := run(t, "", "login", "not a repo", "--token", "x")
	require.Error(t, err)
	assert.Equal(t, core.KindValidation, core.Classify(err))
}

func TestCommands_RequireLogin(t *testing.T) {
	setupCmd(t)

	_, err := run(t, "", "list")
	require.ErrorIs(t, err, core.ErrNotLoggedIn)
}

func TestSave(t *testing.T) {
	env := setupCmd(t)
	login(t)

	dir := t.TempDir()
	short := filepath.Join(dir, "short.md")
	require.NoError(t, os.WriteFile(short, []byte("too short"), 0o600))

	_, err := run(t, "", "save", "2025-01-27.md", "--file", short)
	require.Error(t, err)
	assert.Equal(t, core.KindValidation, core.Classify(err))

	page := strings.Repeat("words ", 250)

	out, err := run(t, page, "save", "2025-01-27.md")
	require.NoError(t, err)
	assert.Contains(t, out, "2025-01-27.md created")

	got, ok := env.gw.Content("2025-01-27.md")
	require.True(t, ok)
	assert.Equal(t, page, got)

	env.gw.Seed("2025-01-20.md", "old", "Morning page: 2025-01-20.md", env.clock.T.AddDate(0, 0, -7))

	_, err = run(t, page, "save", "2025-01-20.md")
	require.ErrorIs(t, err, editor.ErrLocked)
}

func TestList(t *testing.T) {
	env := setupCmd(t)
	login(t)

	env.gw.Seed("2025-01-26.md", "a", "Morning page: 2025-01-26.md", env.clock.T.AddDate(0, 0, -1))
	env.gw.Seed("2024/2024-12-31 year end.md", "b", "Morning page", env.clock.T.AddDate(0, 0, -27))

	out, err := run(t, "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "2024/")
	assert.Contains(t, out, "2024-12-31 year end")
	assert.Contains(t, out, "yesterday")
	assert.Contains(t, out, "entries")

	out, err = run(t, "", "list", "--search", "YEAR", "--json")
	require.NoError(t, err)

	var got listOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got.Entries, 1)
	assert.Equal(t, "2024/2024-12-31 year end.md", got.Entries[0].Path)
	assert.Equal(t, 2, got.Stats.Total)
	assert.Equal(t, 1, got.Stats.ThisMonth)
}

func TestHeatmap(t *testing.T) {
	env := setupCmd(t)
	login(t)

	base := time.Date(2025, 1, 25, 7, 0, 0, 0, time.Local)
	env.gw.Seed("2025-01-25.md", "a", "Morning page: 2025-01-25.md", base)
	env.gw.Seed("2025-01-26.md", "b", "Morning page: 2025-01-26.md", base.AddDate(0, 0, 1).Add(8*time.Hour))
	env.gw.AddCommit("unrelated change", base)

	out, err := run(t, "", "heatmap", "--json")
	require.NoError(t, err)

	var got heatmapOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 2025, got.Year)
	assert.Len(t, got.Days, 2)
	assert.Equal(t, 15, got.Days["2025-01-26"].EarliestHour)
	assert.Equal(t, 2, got.Stats.CurrentStreak)

	out, err = run(t, "", "heatmap")
	require.NoError(t, err)
	assert.Contains(t, out, "Current streak 2")

	_, err = run(t, "", "heatmap", "--year", "1999")
	require.Error(t, err)
}

func TestConfig(t *testing.T) {
	env := setupCmd(t)

	_, err := run(t, "", "config", "set", "branch", "journal")
	require.NoError(t, err)

	cfg, err := env.st.GetConfig()
	require.NoError(t, err)
	assert.Equal(t, "journal", cfg.Branch)

	out, err := run(t, "", "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "journal")

	_, err = run(t, "", "config", "set", "nope", "1")
	require.Error(t, err)

	_, err = run(t, "", "config", "reset")
	require.NoError(t, err)

	cfg, err = env.st.GetConfig()
	require.NoError(t, err)
	assert.Equal(t, model.DefaultConfig(), *cfg)
}

func TestLogFlags_RedactsToken(t *testing.T) {
	cmd := &cobra.Command{Use: "x", RunE: func(*cobra.Command, []string) error { return nil }}

	var token, name string

	cmd.Flags().StringVar(&token, "token", "", "")
	cmd.Flags().StringVar(&name, "name", "", "")
	require.NoError(t, cmd.Flags().Parse([]string{"--token", "ghp_secret", "--name", "pages"}))

	var buf bytes.Buffer

	logFlags(cmd, newLogger(&buf, false, true))

	assert.Contains(t, buf.String(), "[redacted]")
	assert.Contains(t, buf.String(), "pages")
	assert.NotContains(t, buf.String(), "ghp_secret")
}
