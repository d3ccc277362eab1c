package model

import (
	"fmt"
	"time"
)

// RepoRef identifies the journal repository.
type RepoRef struct {
	Owner string `json:"owner"`
	Name  string `json:"repo"`
	Host  string `json:"host,omitempty"`
}

// FullName returns the "owner/repo" string
func (r RepoRef) FullName() string {
	return fmt.Sprintf("%s/%s", r.Owner, r.Name)
}

// IsZero reports whether the reference is unset.
func (r RepoRef) IsZero() bool {
	return r.Owner == "" || r.Name == ""
}

// Credential is the token and repository a session authenticates with.
type Credential struct {
	Token string  `json:"-"`
	Repo  RepoRef `json:"repo"`

	// RememberUntil is zero unless "remember me" was chosen at login
	RememberUntil time.Time `json:"remember_until,omitzero"`
}
