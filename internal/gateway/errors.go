package gateway

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the remote answers 404
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized is returned when the remote answers 401
	ErrUnauthorized = errors.New("unauthorized: token missing, expired or revoked")
)

// RemoteError is any other non-success answer from the remote
type RemoteError struct {
	Op      string
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}

	return fmt.Sprintf("%s: remote returned %d: %s", e.Op, e.Status, e.Message)
}

// ConflictError means the remote rejected a write because the concurrency
// token was stale: the file changed between read and write. Re-reading and
// writing again may succeed.
type ConflictError struct {
	Path string
	Err  error
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("write conflict on %s: file changed remotely: %v", e.Path, e.Err)
}

func (e *ConflictError) Unwrap() error {
	return e.Err
}

// Retryable reports that the write may be attempted again.
func (e *ConflictError) Retryable() bool { return true }

// TransportError wraps failures to reach the remote at all
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether err is a condition a caller may retry.
func IsRetryable(err error) bool {
	var conflict *ConflictError
	if errors.As(err, &conflict) {
		return conflict.Retryable()
	}

	var transport *TransportError

	return errors.As(err, &transport)
}
