// Package badger provides an embedded, persistent KeyValueStore backed by
// BadgerDB. It is the default cache backend: no external service required.
package badger

import (
	"context"
	"errors"
	"fmt"

	badgerdb "github.com/dgraph-io/badger/v3"

	"studylink/internal/port"
)

type kvStore struct {
	db *badgerdb.DB
}

// NewKVStore opens (or creates) a Badger database at dir.
func NewKVStore(dir string) (port.KeyValueStore, func() error, error) {
	opts := badgerdb.DefaultOptions(dir)
	opts.Logger = nil
	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, nil, fmt.Errorf("opening badger at %s: %w", dir, err)
	}
	return &kvStore{db: db}, db.Close, nil
}

func (s *kvStore) GetItem(_ context.Context, key string) (string, bool, error) {
	var value []byte
	err := s.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badgerdb.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("badger get %q: %w", key, err)
	}
	return string(value), true, nil
}

func (s *kvStore) SetItem(_ context.Context, key, value string) error {
	err := s.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("badger set %q: %w", key, err)
	}
	return nil
}

func (s *kvStore) RemoveItem(_ context.Context, key string) error {
	err := s.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("badger delete %q: %w", key, err)
	}
	return nil
}

func (s *kvStore) GetAllKeys(_ context.Context) ([]string, error) {
	var keys []string
	err := s.db.View(func(txn *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, string(it.Item().KeyCopy(nil)))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("badger list keys: %w", err)
	}
	return keys, nil
}

func (s *kvStore) MultiRemove(_ context.Context, keys []string) error {
	err := s.db.Update(func(txn *badgerdb.Txn) error {
		for _, key := range keys {
			if err := txn.Delete([]byte(key)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("badger multi remove: %w", err)
	}
	return nil
}
