// Package gateway is the content store behind the journal: a GitHub
// repository reached through the REST contents and commits endpoints.
//
// [Gateway] is the contract the rest of mornpage depends on. [GitHub] talks
// to api.github.com (or an Enterprise host); [Memory] keeps everything in
// process and is what the catalog, editor and activity tests run against.
package gateway

import (
	"context"
	"time"
)

// EntryType is the kind of a directory listing item.
type EntryType string

const (
	TypeFile      EntryType = "file"
	TypeDirectory EntryType = "dir"
	TypeOther     EntryType = "other"
)

// DirEntry is one item of a directory listing.
type DirEntry struct {
	Name string    `json:"name"`
	Path string    `json:"path"`
	Type EntryType `json:"type"`
}

// File is the decoded content of a stored file.
type File struct {
	Path    string `json:"path"`
	Content string `json:"content"`

	// SHA is the blob SHA, the concurrency token required to overwrite Path
	SHA string `json:"sha"`
}

// Commit is the subset of commit metadata the journal uses.
type Commit struct {
	SHA       string    `json:"sha"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// WriteResult describes a successful write.
type WriteResult struct {
	// SHA is the new blob SHA of the written file
	SHA       string `json:"sha"`
	CommitSHA string `json:"commit_sha"`
	Created   bool   `json:"created"`
}

// CommitQuery bounds ListCommits. Zero values mean unbounded.
type CommitQuery struct {
	Path  string
	Since time.Time
	Until time.Time
}

// Identity is the authenticated account.
type Identity struct {
	Login string `json:"login"`
	Name  string `json:"name,omitempty"`
}

// RepoInfo is the journal repository as reported by the remote.
type RepoInfo struct {
	FullName      string `json:"full_name"`
	DefaultBranch string `json:"default_branch"`
	Private       bool   `json:"private"`
}

// Rate is the remaining API budget of the token.
type Rate struct {
	Limit     int       `json:"limit"`
	Remaining int       `json:"remaining"`
	Reset     time.Time `json:"reset"`
}

// Gateway wraps the remote content store. Every method may fail with a
// *TransportError or *RemoteError; see errors.go for the other kinds.
type Gateway interface {
	// ReadFile returns ErrNotFound when path does not exist.
	ReadFile(ctx context.Context, path string) (*File, error)

	// WriteFile creates path or overwrites it using its current concurrency
	// token. A stale token surfaces as *ConflictError.
	WriteFile(ctx context.Context, path, content, message string) (*WriteResult, error)

	// ListDirectory lists one level of path ("" is the repository root).
	ListDirectory(ctx context.Context, path string) ([]DirEntry, error)

	// LastCommitFor returns ErrNotFound when no commit touched path.
	LastCommitFor(ctx context.Context, path string) (*Commit, error)

	// ListCommits returns matching commits in unspecified order.
	ListCommits(ctx context.Context, q CommitQuery) ([]Commit, error)

	User(ctx context.Context) (*Identity, error)
	Repository(ctx context.Context) (*RepoInfo, error)
	RateLimit(ctx context.Context) (*Rate, error)
}
