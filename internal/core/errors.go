package core

import (
	"errors"
	"fmt"

	"github.com/inovacc/mornpage/internal/credential"
	"github.com/inovacc/mornpage/internal/editor"
	"github.com/inovacc/mornpage/internal/gateway"
	"github.com/inovacc/mornpage/internal/giturl"
	"github.com/inovacc/mornpage/internal/model"
	"github.com/inovacc/mornpage/internal/security"
)

// ErrNotLoggedIn is returned when no usable credential is stored
var ErrNotLoggedIn = errors.New(`not logged in: run "mornpage login <owner/repo>"`)

// AuthError is a login rejected by the remote
type AuthError struct {
	Repo   model.RepoRef
	Reason string
	Err    error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("login to %s failed: %s", e.Repo.FullName(), e.Reason)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// Kind is the category of an error as presented to the user.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindRemote
	KindTransport
	KindUnauthorized
	KindCorrupt
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not found"
	case KindConflict:
		return "conflict"
	case KindRemote:
		return "remote"
	case KindTransport:
		return "transport"
	case KindUnauthorized:
		return "unauthorized"
	case KindCorrupt:
		return "corrupt"
	default:
		return "unknown"
	}
}

// Classify maps err to its Kind. The checks run most specific first.
func Classify(err error) Kind {
	var (
		validation *editor.ValidationError
		leak       *security.LeakError
		conflict   *gateway.ConflictError
		transport  *gateway.TransportError
		remote     *gateway.RemoteError
	)

	switch {
	case err == nil:
		return KindUnknown
	case errors.As(err, &validation),
		errors.As(err, &leak),
		errors.Is(err, editor.ErrLocked),
		errors.Is(err, editor.ErrNoEntry),
		errors.Is(err, giturl.ErrInvalid),
		errors.Is(err, ErrNoToken):
		return KindValidation
	case errors.As(err, &conflict):
		return KindConflict
	case errors.Is(err, gateway.ErrUnauthorized), errors.Is(err, ErrNotLoggedIn):
		return KindUnauthorized
	case errors.Is(err, gateway.ErrNotFound):
		return KindNotFound
	case errors.As(err, &transport):
		return KindTransport
	case errors.As(err, &remote):
		return KindRemote
	case errors.Is(err, credential.ErrDecryptionFailed):
		return KindCorrupt
	default:
		return KindUnknown
	}
}

// UserMessage is the single line shown to the user for err.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.Error()
	}

	switch Classify(err) {
	case KindConflict:
		return "The entry changed on GitHub since it was opened. Open it again and re-apply your edits."
	case KindTransport:
		return "Could not reach GitHub. Check your connection and try again."
	case KindRemote:
		var remote *gateway.RemoteError
		if errors.As(err, &remote) && remote.Status != 0 {
			return fmt.Sprintf("GitHub returned an error (%d): %s", remote.Status, remote.Message)
		}
	case KindCorrupt:
		return "Stored login could not be read. Run \"mornpage login\" again."
	}

	return err.Error()
}
