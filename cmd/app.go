package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/inovacc/mornpage/internal/application"
	"github.com/inovacc/mornpage/internal/core"
	"github.com/inovacc/mornpage/internal/credential"
	"github.com/inovacc/mornpage/internal/dateutil"
	"github.com/inovacc/mornpage/internal/model"
	"github.com/inovacc/mornpage/internal/security"
	"github.com/inovacc/mornpage/internal/store"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// app is the per-command wiring of local state and the journal components.
type app struct {
	cfg    model.Config
	store  store.Store
	auth   *core.Auth
	clock  dateutil.Clock
	logger *slog.Logger

	// checker scans content before saves, nil disables the scan
	checker core.ContentChecker
}

// openApp is replaced in tests.
var openApp = openDefaultApp

func openDefaultApp(cmd *cobra.Command) (*app, error) {
	logger := newLogger(cmd.ErrOrStderr(), jsonOutput, verbose)
	logFlags(cmd, logger)

	dir, err := application.GetApplicationDirectory()
	if err != nil {
		return nil, err
	}

	st := store.Open(dir, logger)

	cfg, err := st.GetConfig()
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("load config: %w", err)
	}

	cipher, err := credential.NewFileCipher(dir)
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("credential key: %w", err)
	}

	clock := dateutil.SystemClock{}
	creds := credential.NewStore(st.Credentials(), cipher, clock, logger)

	a := &app{
		cfg:    *cfg,
		store:  st,
		auth:   core.NewAuth(creds, core.GitHubFactory(*cfg, logger), core.DefaultTokenResolver, logger),
		clock:  clock,
		logger: logger,
	}

	if cfg.ScanSecrets {
		scanner, err := security.NewScanner()
		if err != nil {
			logger.Warn("secret scanner unavailable, saving without scan", slog.String("error", err.Error()))
		} else {
			a.checker = scanner
		}
	}

	return a, nil
}

// logFlags records the flags set on the command line at debug level.
func logFlags(cmd *cobra.Command, logger *slog.Logger) {
	cmd.Flags().Visit(func(f *pflag.Flag) {
		value := f.Value.String()
		if f.Name == "token" {
			value = "[redacted]"
		}

		logger.Debug("flag", slog.String("name", f.Name), slog.String("value", value))
	})
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Debug("close store", slog.String("error", err.Error()))
	}
}

// timeout is the per-command bound on network calls.
func (a *app) timeout() time.Duration {
	if a.cfg.TimeoutSeconds <= 0 {
		return time.Duration(model.DefaultConfig().TimeoutSeconds) * time.Second
	}

	return time.Duration(a.cfg.TimeoutSeconds) * time.Second
}

// connect authenticates and returns the journal of the session repository.
func (a *app) connect(ctx context.Context) (*core.Journal, *core.Session, error) {
	sess, err := a.auth.Connect(ctx, tokenFlag)
	if err != nil {
		return nil, nil, err
	}

	a.logger.Debug("connected",
		slog.String("repo", sess.Repo.FullName()),
		slog.String("token_source", string(sess.Source)),
	)

	j := core.NewJournal(sess.Gateway, core.JournalOptions{
		Config:  a.cfg,
		Clock:   a.clock,
		Checker: a.checker,
		Logger:  a.logger,
	})

	return j, sess, nil
}

func contextFor(cmd *cobra.Command, a *app) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), a.timeout())
}

// withJournal opens the app, connects under the command timeout and runs fn.
func withJournal(cmd *cobra.Command, fn func(ctx context.Context, a *app, j *core.Journal) error) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := contextFor(cmd, a)
	defer cancel()

	j, _, err := a.connect(ctx)
	if err != nil {
		return err
	}

	return fn(ctx, a, j)
}

func printf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
