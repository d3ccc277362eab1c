package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/inovacc/mornpage/internal/credential"
	"github.com/inovacc/mornpage/internal/gateway"
	"github.com/inovacc/mornpage/internal/giturl"
	"github.com/inovacc/mornpage/internal/model"
)

// GatewayFactory builds the gateway for an authenticated repository.
type GatewayFactory func(ctx context.Context, token string, repo model.RepoRef) (gateway.Gateway, error)

// GitHubFactory returns a factory for gateway.GitHub honoring the branch and
// API base URL of cfg. A repository on another host without an explicit base
// URL is treated as GitHub Enterprise at https://<host>/api/v3/.
func GitHubFactory(cfg model.Config, logger *slog.Logger) GatewayFactory {
	return func(ctx context.Context, token string, repo model.RepoRef) (gateway.Gateway, error) {
		base := cfg.APIBaseURL
		if base == "" && repo.Host != "" {
			base = fmt.Sprintf("https://%s/api/v3/", repo.Host)
		}

		return gateway.NewGitHub(ctx, token, repo,
			gateway.WithBaseURL(base),
			gateway.WithBranch(cfg.Branch),
			gateway.WithLogger(logger),
		)
	}
}

// Session is an authenticated connection to the journal repository.
type Session struct {
	Repo          model.RepoRef     `json:"repo"`
	Info          *gateway.RepoInfo `json:"info"`
	Source        TokenSource       `json:"token_source"`
	RememberUntil time.Time         `json:"remember_until,omitzero"`

	Gateway gateway.Gateway `json:"-"`
}

// Status is the locally known login state.
type Status struct {
	LoggedIn      bool          `json:"logged_in"`
	Repo          model.RepoRef `json:"repo,omitzero"`
	CanAutoLogin  bool          `json:"can_auto_login"`
	RememberUntil time.Time     `json:"remember_until,omitzero"`
}

// Auth handles login, auto-login and logout.
type Auth struct {
	creds      *credential.Store
	newGateway GatewayFactory
	resolver   TokenResolver
	logger     *slog.Logger
}

// NewAuth wires Auth. logger may be nil.
func NewAuth(creds *credential.Store, factory GatewayFactory, resolver TokenResolver, logger *slog.Logger) *Auth {
	if logger == nil {
		logger = slog.Default()
	}

	return &Auth{creds: creds, newGateway: factory, resolver: resolver, logger: logger}
}

// Login validates token against the repository named by repoInput and
// stores the credential. A storage failure is logged and the session is
// still returned.
func (a *Auth) Login(ctx context.Context, repoInput, token string, remember bool) (*Session, error) {
	repo, err := giturl.Parse(repoInput)
	if err != nil {
		return nil, err
	}

	if token == "" {
		return nil, ErrNoToken
	}

	sess, err := a.validate(ctx, token, repo)
	if err != nil {
		return nil, err
	}

	if err := a.creds.Save(token, repo, remember); err != nil {
		a.logger.Warn("credentials not saved, login is valid for this run only",
			slog.String("error", err.Error()),
		)
	} else if cred, ok := a.creds.Load(); ok {
		sess.RememberUntil = cred.RememberUntil
	}

	a.logger.Info("logged in",
		slog.String("repo", repo.FullName()),
		slog.Bool("remember", remember),
	)

	return sess, nil
}

// AutoLogin reconnects with the stored credential while its remember-me
// window is open. A token the remote no longer accepts is forgotten.
func (a *Auth) AutoLogin(ctx context.Context) (*Session, error) {
	if !a.creds.CanAutoLogin() {
		return nil, fmt.Errorf("%w: remembered login expired or never set", ErrNotLoggedIn)
	}

	cred, ok := a.creds.Load()
	if !ok {
		return nil, fmt.Errorf("%w: no stored credential", ErrNotLoggedIn)
	}

	sess, err := a.validate(ctx, cred.Token, cred.Repo)
	if err != nil {
		if errors.Is(err, gateway.ErrUnauthorized) || errors.Is(err, gateway.ErrNotFound) {
			a.logger.Info("stored credential rejected, clearing it")

			if clearErr := a.creds.Clear(); clearErr != nil {
				a.logger.Warn("failed to clear credentials", slog.String("error", clearErr.Error()))
			}
		}

		return nil, err
	}

	sess.Source = TokenSourceStored
	sess.RememberUntil = cred.RememberUntil

	return sess, nil
}

// Connect returns a session for a command: the remembered login when
// possible, otherwise the stored repository with a freshly resolved token.
func (a *Auth) Connect(ctx context.Context, flagToken string) (*Session, error) {
	if flagToken == "" && a.creds.CanAutoLogin() {
		return a.AutoLogin(ctx)
	}

	cred, ok := a.creds.Load()
	if !ok {
		return nil, ErrNotLoggedIn
	}

	token, source, err := a.resolver.Resolve(flagToken, cred.Repo.Host)
	if err != nil {
		return nil, err
	}

	sess, err := a.validate(ctx, token, cred.Repo)
	if err != nil {
		return nil, err
	}

	sess.Source = source

	return sess, nil
}

// Logout forgets the stored credential.
func (a *Auth) Logout() error {
	if err := a.creds.Clear(); err != nil {
		return fmt.Errorf("logout: %w", err)
	}

	return nil
}

// Status reports the stored login without contacting the remote.
func (a *Auth) Status() Status {
	cred, ok := a.creds.Load()
	if !ok {
		return Status{}
	}

	return Status{
		LoggedIn:      true,
		Repo:          cred.Repo,
		CanAutoLogin:  a.creds.CanAutoLogin(),
		RememberUntil: cred.RememberUntil,
	}
}

func (a *Auth) validate(ctx context.Context, token string, repo model.RepoRef) (*Session, error) {
	gw, err := a.newGateway(ctx, token, repo)
	if err != nil {
		return nil, err
	}

	info, err := gw.Repository(ctx)

	switch {
	case err == nil:
	case errors.Is(err, gateway.ErrUnauthorized):
		return nil, &AuthError{Repo: repo, Reason: "token is invalid or expired", Err: err}
	case errors.Is(err, gateway.ErrNotFound):
		return nil, &AuthError{Repo: repo, Reason: "repository not found or not accessible with this token", Err: err}
	default:
		return nil, err
	}

	return &Session{Repo: repo, Info: info, Gateway: gw}, nil
}
