package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v82/github"
	"github.com/inovacc/mornpage/internal/model"
	"golang.org/x/oauth2"
)

// GitHub is the Gateway backed by the GitHub REST API
type GitHub struct {
	client *github.Client
	repo   model.RepoRef
	branch string
	logger *slog.Logger
}

// Option configures a GitHub gateway.
type Option func(*GitHub) error

// WithBranch reads and writes a branch other than the repository default.
func WithBranch(branch string) Option {
	return func(g *GitHub) error {
		g.branch = strings.TrimSpace(branch)
		return nil
	}
}

// WithBaseURL points the client at a GitHub Enterprise API root, for
// example https://ghe.example.com/api/v3/.
func WithBaseURL(raw string) Option {
	return func(g *GitHub) error {
		if raw == "" {
			return nil
		}

		if !strings.HasSuffix(raw, "/") {
			raw += "/"
		}

		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("invalid API base URL %q: %w", raw, err)
		}

		g.client.BaseURL = u

		return nil
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(g *GitHub) error {
		if logger != nil {
			g.logger = logger
		}

		return nil
	}
}

// NewGitHub creates a gateway for repo authenticated with token.
func NewGitHub(ctx context.Context, token string, repo model.RepoRef, opts ...Option) (*GitHub, error) {
	if repo.IsZero() {
		return nil, errors.New("repository owner and name are required")
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(ctx, ts)

	g := &GitHub{
		client: github.NewClient(tc),
		repo:   repo,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(g); err != nil {
			return nil, err
		}
	}

	return g, nil
}

func (g *GitHub) ref() *github.RepositoryContentGetOptions {
	if g.branch == "" {
		return nil
	}

	return &github.RepositoryContentGetOptions{Ref: g.branch}
}

// ReadFile fetches and decodes path.
func (g *GitHub) ReadFile(ctx context.Context, path string) (*File, error) {
	op := "read " + path

	fc, _, resp, err := g.client.Repositories.GetContents(ctx, g.repo.Owner, g.repo.Name, path, g.ref())
	if err != nil {
		return nil, classify(op, resp, err)
	}

	if fc == nil {
		return nil, &RemoteError{Op: op, Message: "path is a directory"}
	}

	content, err := fc.GetContent()
	if err != nil {
		return nil, &RemoteError{Op: op, Message: err.Error()}
	}

	return &File{Path: fc.GetPath(), Content: content, SHA: fc.GetSHA()}, nil
}

// WriteFile creates path, or updates it with the SHA read just before.
func (g *GitHub) WriteFile(ctx context.Context, path, content, message string) (*WriteResult, error) {
	op := "write " + path

	var sha string

	current, err := g.ReadFile(ctx, path)

	switch {
	case err == nil:
		sha = current.SHA
	case errors.Is(err, ErrNotFound):
	default:
		return nil, err
	}

	opts := &github.RepositoryContentFileOptions{
		Message: github.Ptr(message),
		Content: []byte(content),
	}
	if g.branch != "" {
		opts.Branch = github.Ptr(g.branch)
	}

	var (
		res  *github.RepositoryContentResponse
		resp *github.Response
	)

	if sha == "" {
		res, resp, err = g.client.Repositories.CreateFile(ctx, g.repo.Owner, g.repo.Name, path, opts)
	} else {
		opts.SHA = github.Ptr(sha)
		res, resp, err = g.client.Repositories.UpdateFile(ctx, g.repo.Owner, g.repo.Name, path, opts)
	}

	if err != nil {
		if status := statusOf(resp, err); status == http.StatusConflict || status == http.StatusUnprocessableEntity {
			return nil, &ConflictError{Path: path, Err: err}
		}

		return nil, classify(op, resp, err)
	}

	g.logger.Debug("wrote file",
		slog.String("path", path),
		slog.Bool("created", sha == ""),
		slog.String("commit", res.Commit.GetSHA()),
	)

	return &WriteResult{
		SHA:       res.GetContent().GetSHA(),
		CommitSHA: res.Commit.GetSHA(),
		Created:   sha == "",
	}, nil
}

// ListDirectory lists one level of path.
func (g *GitHub) ListDirectory(ctx context.Context, path string) ([]DirEntry, error) {
	op := "list " + path
	if path == "" {
		op = "list repository root"
	}

	fc, dir, resp, err := g.client.Repositories.GetContents(ctx, g.repo.Owner, g.repo.Name, path, g.ref())
	if err != nil {
		return nil, classify(op, resp, err)
	}

	if fc != nil && dir == nil {
		return nil, &RemoteError{Op: op, Message: "path is a file"}
	}

	entries := make([]DirEntry, 0, len(dir))

	for _, item := range dir {
		entries = append(entries, DirEntry{
			Name: item.GetName(),
			Path: item.GetPath(),
			Type: entryType(item.GetType()),
		})
	}

	return entries, nil
}

func entryType(t string) EntryType {
	switch t {
	case "file":
		return TypeFile
	case "dir":
		return TypeDirectory
	default:
		return TypeOther
	}
}

// LastCommitFor returns the newest commit touching path.
func (g *GitHub) LastCommitFor(ctx context.Context, path string) (*Commit, error) {
	opts := &github.CommitsListOptions{
		SHA:         g.branch,
		Path:        path,
		ListOptions: github.ListOptions{PerPage: 1},
	}

	commits, resp, err := g.client.Repositories.ListCommits(ctx, g.repo.Owner, g.repo.Name, opts)
	if err != nil {
		return nil, classify("last commit for "+path, resp, err)
	}

	if len(commits) == 0 {
		return nil, fmt.Errorf("last commit for %s: %w", path, ErrNotFound)
	}

	c := toCommit(commits[0])

	return &c, nil
}

// ListCommits walks every page of the commit history matching q.
func (g *GitHub) ListCommits(ctx context.Context, q CommitQuery) ([]Commit, error) {
	opts := &github.CommitsListOptions{
		SHA:         g.branch,
		Path:        q.Path,
		Since:       q.Since,
		Until:       q.Until,
		ListOptions: github.ListOptions{PerPage: 100},
	}

	var all []Commit

	for {
		commits, resp, err := g.client.Repositories.ListCommits(ctx, g.repo.Owner, g.repo.Name, opts)
		if err != nil {
			// an empty repository answers 409 on the commits endpoint
			if statusOf(resp, err) == http.StatusConflict {
				return all, nil
			}

			return nil, classify("list commits", resp, err)
		}

		for _, c := range commits {
			all = append(all, toCommit(c))
		}

		if resp.NextPage == 0 {
			break
		}

		opts.Page = resp.NextPage
	}

	g.logger.Debug("listed commits", slog.Int("count", len(all)))

	return all, nil
}

func toCommit(rc *github.RepositoryCommit) Commit {
	inner := rc.GetCommit()

	ts := inner.GetAuthor().GetDate().Time
	if ts.IsZero() {
		ts = inner.GetCommitter().GetDate().Time
	}

	return Commit{
		SHA:       rc.GetSHA(),
		Message:   inner.GetMessage(),
		Timestamp: ts,
	}
}

// User returns the account the token belongs to.
func (g *GitHub) User(ctx context.Context) (*Identity, error) {
	u, resp, err := g.client.Users.Get(ctx, "")
	if err != nil {
		return nil, classify("get user", resp, err)
	}

	return &Identity{Login: u.GetLogin(), Name: u.GetName()}, nil
}

// Repository fetches the journal repository, which validates both the token
// and the repository reference.
func (g *GitHub) Repository(ctx context.Context) (*RepoInfo, error) {
	r, resp, err := g.client.Repositories.Get(ctx, g.repo.Owner, g.repo.Name)
	if err != nil {
		return nil, classify("get repository "+g.repo.FullName(), resp, err)
	}

	return &RepoInfo{
		FullName:      r.GetFullName(),
		DefaultBranch: r.GetDefaultBranch(),
		Private:       r.GetPrivate(),
	}, nil
}

// RateLimit returns the core REST budget.
func (g *GitHub) RateLimit(ctx context.Context) (*Rate, error) {
	limits, resp, err := g.client.RateLimit.Get(ctx)
	if err != nil {
		return nil, classify("get rate limit", resp, err)
	}

	core := limits.GetCore()
	if core == nil {
		return &Rate{}, nil
	}

	return &Rate{Limit: core.Limit, Remaining: core.Remaining, Reset: core.Reset.Time}, nil
}

func statusOf(resp *github.Response, err error) int {
	var ge *github.ErrorResponse
	if errors.As(err, &ge) && ge.Response != nil {
		return ge.Response.StatusCode
	}

	if resp != nil && resp.Response != nil {
		return resp.StatusCode
	}

	return 0
}

// classify maps a go-github error onto the gateway error kinds.
func classify(op string, resp *github.Response, err error) error {
	var rateLimitErr *github.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return &RemoteError{
			Op:      op,
			Status:  http.StatusForbidden,
			Message: fmt.Sprintf("rate limit exceeded, resets at %s", rateLimitErr.Rate.Reset.Format("15:04")),
		}
	}

	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return &RemoteError{Op: op, Status: http.StatusForbidden, Message: abuseErr.Message}
	}

	status := statusOf(resp, err)

	switch status {
	case 0:
		return &TransportError{Op: op, Err: err}
	case http.StatusUnauthorized:
		return fmt.Errorf("%s: %w", op, ErrUnauthorized)
	case http.StatusNotFound:
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	message := http.StatusText(status)

	var ge *github.ErrorResponse
	if errors.As(err, &ge) && ge.Message != "" {
		message = ge.Message
	}

	return &RemoteError{Op: op, Status: status, Message: message}
}
