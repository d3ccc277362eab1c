package core

import (
	"errors"
	"fmt"
	"os"

	"github.com/cli/go-gh/v2/pkg/auth"
	"golang.org/x/term"
)

// TokenSource indicates where the token was found
type TokenSource string

const (
	TokenSourceFlag      TokenSource = "flag"
	TokenSourceStored    TokenSource = "stored"
	TokenSourceEnvGitHub TokenSource = "GITHUB_TOKEN"
	TokenSourceEnvGH     TokenSource = "GH_TOKEN"
	TokenSourceGHCLI     TokenSource = "gh-cli"
	TokenSourcePrompt    TokenSource = "prompt"
	TokenSourceNone      TokenSource = "none"
)

// ErrNoToken is returned when no token source produced a token
var ErrNoToken = errors.New(`GitHub token required

Provide a token via one of:
  * --token flag
  * GITHUB_TOKEN or GH_TOKEN env var
  * gh auth login             (auto-detected from gh CLI)

Create a fine-grained token with "Contents: read and write" on the journal
repository at: https://github.com/settings/tokens`)

// TokenResolver looks a token up in the usual places. Zero-value fields use
// the process environment, the gh CLI configuration and the terminal.
type TokenResolver struct {
	Getenv      func(string) string
	GHToken     func(host string) (string, string)
	Prompt      func(prompt string) (string, error)
	Interactive func() bool
}

// DefaultTokenResolver reads the real environment.
var DefaultTokenResolver = TokenResolver{}

// Resolve finds a token for host.
// Priority order:
//  1. flagToken (explicit --token flag)
//  2. GITHUB_TOKEN environment variable
//  3. GH_TOKEN environment variable
//  4. gh CLI auth for the host
//  5. hidden prompt, only when stdin is a terminal
func (r TokenResolver) Resolve(flagToken, host string) (string, TokenSource, error) {
	if flagToken != "" {
		return flagToken, TokenSourceFlag, nil
	}

	getenv := r.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	if token := getenv("GITHUB_TOKEN"); token != "" {
		return token, TokenSourceEnvGitHub, nil
	}

	if token := getenv("GH_TOKEN"); token != "" {
		return token, TokenSourceEnvGH, nil
	}

	if host == "" {
		host = "github.com"
	}

	ghToken := r.GHToken
	if ghToken == nil {
		ghToken = auth.TokenForHost
	}

	if token, _ := ghToken(host); token != "" {
		return token, TokenSourceGHCLI, nil
	}

	interactive := r.Interactive
	if interactive == nil {
		interactive = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) }
	}

	if interactive() {
		prompt := r.Prompt
		if prompt == nil {
			prompt = PromptForPassword
		}

		token, err := prompt(fmt.Sprintf("GitHub token for %s: ", host))
		if err != nil {
			return "", TokenSourceNone, fmt.Errorf("read token: %w", err)
		}

		if token != "" {
			return token, TokenSourcePrompt, nil
		}
	}

	return "", TokenSourceNone, ErrNoToken
}

// ResolveToken resolves with DefaultTokenResolver.
func ResolveToken(flagToken, host string) (string, TokenSource, error) {
	return DefaultTokenResolver.Resolve(flagToken, host)
}

// PromptForPassword prompts the user for a secret without echoing
func PromptForPassword(prompt string) (string, error) {
	_, _ = fmt.Fprint(os.Stderr, prompt)

	fd := int(os.Stdin.Fd())

	bytePassword, err := term.ReadPassword(fd)

	_, _ = fmt.Fprintln(os.Stderr)

	if err != nil {
		return "", err
	}

	return string(bytePassword), nil
}
