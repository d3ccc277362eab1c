// Package credential persists the GitHub token and journal repository
// between runs. Token and repository reference are encrypted independently;
// the auto-login expiry is stored in plaintext as unix milliseconds.
package credential

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/inovacc/mornpage/internal/dateutil"
	"github.com/inovacc/mornpage/internal/model"
	"github.com/inovacc/mornpage/internal/store"
)

// Storage keys
const (
	KeyToken     = "mp_token"
	KeyRepo      = "mp_repo"
	KeyAutoLogin = "mp_auto_login"
)

// RememberFor is the auto-login window granted by "remember me".
const RememberFor = 30 * 24 * time.Hour

// Store reads and writes the credential triple.
type Store struct {
	kv     store.KV
	cipher *Cipher
	clock  dateutil.Clock
	logger *slog.Logger
}

// NewStore wires a credential Store. clock and logger may be nil.
func NewStore(kv store.KV, c *Cipher, clock dateutil.Clock, logger *slog.Logger) *Store {
	if clock == nil {
		clock = dateutil.SystemClock{}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Store{kv: kv, cipher: c, clock: clock, logger: logger}
}

// Save encrypts and writes token and repo. With remember the auto-login
// expiry is set 30 days ahead; without it any previous expiry is removed.
func (s *Store) Save(token string, repo model.RepoRef, remember bool) error {
	if token == "" || repo.IsZero() {
		return errors.New("token and repository are required")
	}

	encToken, err := s.cipher.Encrypt([]byte(token))
	if err != nil {
		return err
	}

	repoJSON, err := json.Marshal(repo)
	if err != nil {
		return fmt.Errorf("encode repository: %w", err)
	}

	encRepo, err := s.cipher.Encrypt(repoJSON)
	if err != nil {
		return err
	}

	if err := s.kv.Set(KeyToken, encToken); err != nil {
		return err
	}

	if err := s.kv.Set(KeyRepo, encRepo); err != nil {
		if delErr := s.kv.Delete(KeyToken); delErr != nil {
			s.logger.Warn("failed to remove partial credential", slog.String("error", delErr.Error()))
		}

		return err
	}

	if !remember {
		return s.kv.Delete(KeyAutoLogin)
	}

	expiry := s.clock.Now().Add(RememberFor).UnixMilli()

	return s.kv.Set(KeyAutoLogin, strconv.FormatInt(expiry, 10))
}

// Load returns the stored credential. Missing keys, storage errors and
// undecryptable values all report absence.
func (s *Store) Load() (model.Credential, bool) {
	encToken, ok := s.get(KeyToken)
	if !ok {
		return model.Credential{}, false
	}

	encRepo, ok := s.get(KeyRepo)
	if !ok {
		return model.Credential{}, false
	}

	token, err := s.cipher.Decrypt(encToken)
	if err != nil {
		s.logger.Debug("stored token unreadable", "error", err)
		return model.Credential{}, false
	}

	repoJSON, err := s.cipher.Decrypt(encRepo)
	if err != nil {
		s.logger.Debug("stored repository unreadable", "error", err)
		return model.Credential{}, false
	}

	var repo model.RepoRef
	if err := json.Unmarshal(repoJSON, &repo); err != nil || repo.IsZero() {
		s.logger.Debug("stored repository malformed", "error", err)
		return model.Credential{}, false
	}

	cred := model.Credential{Token: string(token), Repo: repo}
	if expiry, ok := s.expiry(); ok {
		cred.RememberUntil = expiry
	}

	return cred, true
}

// CanAutoLogin reports whether a stored expiry exists and is in the future.
func (s *Store) CanAutoLogin() bool {
	expiry, ok := s.expiry()
	if !ok {
		return false
	}

	return s.clock.Now().Before(expiry)
}

// Clear removes all stored keys. Clearing an empty store is not an error.
func (s *Store) Clear() error {
	var errs []error

	for _, key := range []string{KeyToken, KeyRepo, KeyAutoLogin} {
		if err := s.kv.Delete(key); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (s *Store) get(key string) (string, bool) {
	v, ok, err := s.kv.Get(key)
	if err != nil {
		s.logger.Debug("credential read failed", "key", key, "error", err)
		return "", false
	}

	return v, ok && v != ""
}

func (s *Store) expiry() (time.Time, bool) {
	raw, ok := s.get(KeyAutoLogin)
	if !ok {
		return time.Time{}, false
	}

	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, false
	}

	return time.UnixMilli(ms), true
}
