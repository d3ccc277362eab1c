package store

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/inovacc/mornpage/internal/model"
)

// DBFileName is the BoltDB file inside the application directory.
const DBFileName = "mornpage.bolt"

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("store is closed")

// KV is a flat string key-value namespace.
type KV interface {
	// Get returns the value for key and whether it was present.
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

// Store is the local persistence used by the app.
type Store interface {
	Ping() error
	Credentials() KV
	GetConfig() (*model.Config, error)
	SaveConfig(cfg *model.Config) error
	Close() error
}

// Open opens the BoltDB store in dir. When the file cannot be opened it logs
// the reason and returns an in-memory store instead.
func Open(dir string, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.Default()
	}

	path := filepath.Join(dir, DBFileName)

	db, err := NewBolt(path)
	if err != nil {
		logger.Warn("local store unavailable, settings will not persist", "path", path, "error", err)
		return NewMemory()
	}

	return db
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}

	return fmt.Errorf("store %s: %w", op, err)
}
