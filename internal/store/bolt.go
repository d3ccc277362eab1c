package store

import (
	"encoding/json"
	"time"

	"github.com/inovacc/mornpage/internal/model"
	"go.etcd.io/bbolt"
)

const (
	boltBucketCredentials = "credentials" // key: fixed credential key -> value
	boltBucketConfig      = "config"      // key: "config" -> Config JSON
	boltKeyConfig         = "config"
)

type Bolt struct {
	storage *bbolt.DB
}

// NewBolt creates or opens a Bolt database at the specified path.
func NewBolt(path string) (*Bolt, error) {
	instance, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}

	if err := instance.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(boltBucketCredentials)); err != nil {
			return err
		}

		if _, err := tx.CreateBucketIfNotExists([]byte(boltBucketConfig)); err != nil {
			return err
		}

		return nil
	}); err != nil {
		_ = instance.Close()

		return nil, err
	}

	return &Bolt{storage: instance}, nil
}

func (b *Bolt) Ping() error {
	return b.storage.View(func(tx *bbolt.Tx) error {
		return nil
	})
}

func (b *Bolt) Close() error {
	return b.storage.Close()
}

// Credentials returns the credentials bucket as a KV.
func (b *Bolt) Credentials() KV {
	return &boltKV{db: b.storage, bucket: []byte(boltBucketCredentials)}
}

func (b *Bolt) GetConfig() (*model.Config, error) {
	var cfg *model.Config

	err := b.storage.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(boltBucketConfig)).Get([]byte(boltKeyConfig))
		if data == nil {
			def := model.DefaultConfig()
			cfg = &def

			return nil
		}

		var c model.Config
		if err := json.Unmarshal(data, &c); err != nil {
			return err
		}

		cfg = &c

		return nil
	})

	return cfg, wrap("get config", err)
}

func (b *Bolt) SaveConfig(cfg *model.Config) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return wrap("save config", err)
	}

	return wrap("save config", b.storage.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(boltBucketConfig)).Put([]byte(boltKeyConfig), data)
	}))
}

type boltKV struct {
	db     *bbolt.DB
	bucket []byte
}

func (k *boltKV) Get(key string) (string, bool, error) {
	var (
		value string
		found bool
	)

	err := k.db.View(func(tx *bbolt.Tx) error {
		if v := tx.Bucket(k.bucket).Get([]byte(key)); v != nil {
			value, found = string(v), true
		}

		return nil
	})

	return value, found, wrap("get "+key, err)
}

func (k *boltKV) Set(key, value string) error {
	return wrap("set "+key, k.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(k.bucket).Put([]byte(key), []byte(value))
	}))
}

func (k *boltKV) Delete(key string) error {
	return wrap("delete "+key, k.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(k.bucket).Delete([]byte(key))
	}))
}
