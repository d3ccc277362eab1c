package store

import (
	"sync"

	"github.com/inovacc/mornpage/internal/model"
)

// Memory is a process-local Store. It is the fallback when the BoltDB file is
// unavailable and the default store in tests.
type Memory struct {
	mu     sync.RWMutex
	creds  *MemoryKV
	cfg    *model.Config
	closed bool
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{creds: NewMemoryKV()}
}

func (m *Memory) Ping() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return ErrClosed
	}

	return nil
}

func (m *Memory) Credentials() KV { return m.creds }

func (m *Memory) GetConfig() (*model.Config, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.cfg == nil {
		def := model.DefaultConfig()
		return &def, nil
	}

	c := *m.cfg
	c.ActivityMarkers = append([]string(nil), m.cfg.ActivityMarkers...)

	return &c, nil
}

func (m *Memory) SaveConfig(cfg *model.Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := *cfg
	c.ActivityMarkers = append([]string(nil), cfg.ActivityMarkers...)
	m.cfg = &c

	return nil
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true

	return nil
}

// MemoryKV is a map-backed KV. FailWrites makes Set return an error, which
// tests use to simulate a full or read-only store.
type MemoryKV struct {
	mu         sync.RWMutex
	data       map[string]string
	FailWrites error
}

// NewMemoryKV returns an empty MemoryKV.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string]string)}
}

func (k *MemoryKV) Get(key string) (string, bool, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	v, ok := k.data[key]

	return v, ok, nil
}

func (k *MemoryKV) Set(key, value string) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.FailWrites != nil {
		return wrap("set "+key, k.FailWrites)
	}

	k.data[key] = value

	return nil
}

func (k *MemoryKV) Delete(key string) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	delete(k.data, key)

	return nil
}
