package gateway

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/inovacc/mornpage/internal/dateutil"
)

type memoryCommit struct {
	Commit
	path string
}

// Memory is an in-process Gateway. Blob SHAs are computed the way git does,
// so a stale token is detectable exactly as on GitHub.
type Memory struct {
	mu      sync.Mutex
	clock   dateutil.Clock
	files   map[string]string
	commits []memoryCommit
	seq     int

	// Fail, when set, is consulted before every operation; a non-nil result
	// is returned in place of the real answer.
	Fail func(op, path string) error
}

// NewMemory creates an empty in-memory repository whose commits are
// timestamped by clock (nil means the system clock).
func NewMemory(clock dateutil.Clock) *Memory {
	if clock == nil {
		clock = dateutil.SystemClock{}
	}

	return &Memory{clock: clock, files: make(map[string]string)}
}

func blobSHA(content string) string {
	h := sha1.New()
	_, _ = fmt.Fprintf(h, "blob %d\x00%s", len(content), content)

	return hex.EncodeToString(h.Sum(nil))
}

func (m *Memory) fail(op, p string) error {
	if m.Fail == nil {
		return nil
	}

	return m.Fail(op, p)
}

// Seed stores a file and records a commit for it at the given time.
func (m *Memory) Seed(p, content, message string, at time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.files[p] = content
	m.record(p, message, at)
}

// AddCommit records a commit without changing any file.
func (m *Memory) AddCommit(message string, at time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.record("", message, at)
}

func (m *Memory) record(p, message string, at time.Time) Commit {
	m.seq++

	c := Commit{
		SHA:       fmt.Sprintf("%040x", m.seq),
		Message:   message,
		Timestamp: at,
	}
	m.commits = append(m.commits, memoryCommit{Commit: c, path: p})

	return c
}

// Content returns the stored content of p, for assertions.
func (m *Memory) Content(p string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.files[p]

	return c, ok
}

// ReadFile implements Gateway.
func (m *Memory) ReadFile(_ context.Context, p string) (*File, error) {
	if err := m.fail("read", p); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	content, ok := m.files[p]
	if !ok {
		return nil, fmt.Errorf("read %s: %w", p, ErrNotFound)
	}

	return &File{Path: p, Content: content, SHA: blobSHA(content)}, nil
}

// WriteFile implements Gateway.
func (m *Memory) WriteFile(ctx context.Context, p, content, message string) (*WriteResult, error) {
	var sha string

	current, err := m.ReadFile(ctx, p)

	switch {
	case err == nil:
		sha = current.SHA
	case errors.Is(err, ErrNotFound):
	default:
		return nil, err
	}

	return m.WriteWithToken(ctx, p, content, message, sha)
}

// WriteWithToken writes p only if its current SHA equals token ("" means
// the file must not exist yet), the check GitHub applies on PUT.
func (m *Memory) WriteWithToken(_ context.Context, p, content, message, token string) (*WriteResult, error) {
	if err := m.fail("write", p); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	existing, exists := m.files[p]

	switch {
	case exists && token == "":
		return nil, &ConflictError{Path: p, Err: fmt.Errorf("%s already exists", p)}
	case exists && blobSHA(existing) != token:
		return nil, &ConflictError{Path: p, Err: fmt.Errorf("%s does not match %s", p, token)}
	case !exists && token != "":
		return nil, &ConflictError{Path: p, Err: fmt.Errorf("%s no longer exists", p)}
	}

	m.files[p] = content
	c := m.record(p, message, m.clock.Now())

	return &WriteResult{SHA: blobSHA(content), CommitSHA: c.SHA, Created: !exists}, nil
}

// ListDirectory implements Gateway. Directories exist only while they hold
// at least one file, as in git.
func (m *Memory) ListDirectory(_ context.Context, dir string) ([]DirEntry, error) {
	if err := m.fail("list", dir); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	dir = strings.Trim(dir, "/")

	prefix := ""
	if dir != "" {
		prefix = dir + "/"
	}

	seen := make(map[string]EntryType)

	for p := range m.files {
		if !strings.HasPrefix(p, prefix) {
			continue
		}

		rest := strings.TrimPrefix(p, prefix)
		if name, _, nested := strings.Cut(rest, "/"); nested {
			seen[name] = TypeDirectory
		} else {
			seen[name] = TypeFile
		}
	}

	if len(seen) == 0 && dir != "" {
		return nil, fmt.Errorf("list %s: %w", dir, ErrNotFound)
	}

	entries := make([]DirEntry, 0, len(seen))
	for name, typ := range seen {
		entries = append(entries, DirEntry{Name: name, Path: path.Join(dir, name), Type: typ})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	return entries, nil
}

// LastCommitFor implements Gateway.
func (m *Memory) LastCommitFor(_ context.Context, p string) (*Commit, error) {
	if err := m.fail("last commit", p); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for i := len(m.commits) - 1; i >= 0; i-- {
		if m.commits[i].path == p {
			c := m.commits[i].Commit
			return &c, nil
		}
	}

	return nil, fmt.Errorf("last commit for %s: %w", p, ErrNotFound)
}

// ListCommits implements Gateway. Bounds are inclusive.
func (m *Memory) ListCommits(_ context.Context, q CommitQuery) ([]Commit, error) {
	if err := m.fail("list commits", q.Path); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Commit

	for _, c := range m.commits {
		if q.Path != "" && c.path != q.Path {
			continue
		}

		if !q.Since.IsZero() && c.Timestamp.Before(q.Since) {
			continue
		}

		if !q.Until.IsZero() && c.Timestamp.After(q.Until) {
			continue
		}

		out = append(out, c.Commit)
	}

	return out, nil
}

// User implements Gateway.
func (m *Memory) User(context.Context) (*Identity, error) {
	if err := m.fail("user", ""); err != nil {
		return nil, err
	}

	return &Identity{Login: "memory"}, nil
}

// Repository implements Gateway.
func (m *Memory) Repository(context.Context) (*RepoInfo, error) {
	if err := m.fail("repository", ""); err != nil {
		return nil, err
	}

	return &RepoInfo{FullName: "memory/journal", DefaultBranch: "main", Private: true}, nil
}

// RateLimit implements Gateway.
func (m *Memory) RateLimit(context.Context) (*Rate, error) {
	return &Rate{Limit: 5000, Remaining: 5000, Reset: m.clock.Now().Add(time.Hour)}, nil
}
