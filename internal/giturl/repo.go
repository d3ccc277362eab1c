// Package giturl turns the repository reference typed at login into a
// model.RepoRef.
package giturl

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/inovacc/mornpage/internal/model"
)

const defaultHost = "github.com"

// ErrInvalid is wrapped by every parse failure.
var ErrInvalid = errors.New("invalid repository reference")

// Parse accepts:
//   - "owner/repo"
//   - "host/owner/repo"
//   - "https://github.com/owner/repo" (extra path segments, query and
//     fragment are ignored)
//   - "git@github.com:owner/repo.git"
//   - "ssh://git@github.com/owner/repo.git"
//
// A trailing ".git" is always stripped.
func Parse(input string) (model.RepoRef, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return model.RepoRef{}, fmt.Errorf("%w: empty input", ErrInvalid)
	}

	if isURL(input) {
		return parseURL(input)
	}

	return parseFullName(input)
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "git@") || strings.Contains(s, "://")
}

func parseURL(raw string) (model.RepoRef, error) {
	if strings.HasPrefix(raw, "git@") {
		// scp-like syntax
		raw = "ssh://" + strings.Replace(raw, ":", "/", 1)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return model.RepoRef{}, fmt.Errorf("%w %q: %v", ErrInvalid, raw, err)
	}

	switch strings.TrimPrefix(u.Scheme, "git+") {
	case "https", "http", "ssh":
	default:
		return model.RepoRef{}, fmt.Errorf("%w %q: unsupported scheme %q", ErrInvalid, raw, u.Scheme)
	}

	parts := strings.SplitN(strings.Trim(u.Path, "/"), "/", 3)
	if len(parts) < 2 {
		return model.RepoRef{}, fmt.Errorf("%w %q: expected owner/repo in path", ErrInvalid, raw)
	}

	host := u.Hostname()
	if host == "" {
		host = defaultHost
	}

	return build(host, parts[0], parts[1], raw)
}

func parseFullName(fullName string) (model.RepoRef, error) {
	parts := strings.Split(strings.Trim(fullName, "/"), "/")

	switch len(parts) {
	case 2:
		return build(defaultHost, parts[0], parts[1], fullName)
	case 3:
		return build(parts[0], parts[1], parts[2], fullName)
	default:
		return model.RepoRef{}, fmt.Errorf("%w %q: expected owner/repo or host/owner/repo", ErrInvalid, fullName)
	}
}

func build(host, owner, name, input string) (model.RepoRef, error) {
	name = strings.TrimSuffix(name, ".git")
	if owner == "" || name == "" {
		return model.RepoRef{}, fmt.Errorf("%w %q: owner and name are required", ErrInvalid, input)
	}

	host = strings.ToLower(strings.TrimPrefix(host, "www."))
	if host == defaultHost {
		host = ""
	}

	return model.RepoRef{Owner: owner, Name: name, Host: host}, nil
}

// WebURL is the browser URL of ref.
func WebURL(ref model.RepoRef) string {
	host := ref.Host
	if host == "" {
		host = defaultHost
	}

	return fmt.Sprintf("https://%s/%s/%s", host, ref.Owner, ref.Name)
}
