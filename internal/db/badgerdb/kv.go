package badgerdb

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/kailas-cloud/tastebud/internal/db"
)

// Get retrieves a value by key.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	var out []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		raw, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		out, err = decode(raw, kindString)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, db.ErrKeyNotFound
	}
	if err != nil {
		return nil, &db.Error{Op: db.OpGet, Err: err}
	}
	return out, nil
}

// Set stores a value at the given key.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	err := s.update(ctx, func(txn *badger.Txn) error {
		return txn.Set([]byte(key), encodeString(value))
	})
	if err != nil {
		return &db.Error{Op: db.OpSet, Err: err}
	}
	return nil
}

// SetNX stores value only if key is absent. Reports whether it was stored.
func (s *Store) SetNX(ctx context.Context, key string, value []byte) (bool, error) {
	stored := false
	err := s.update(ctx, func(txn *badger.Txn) error {
		stored = false
		_, err := txn.Get([]byte(key))
		if err == nil {
			return nil
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err := txn.Set([]byte(key), encodeString(value)); err != nil {
			return err
		}
		stored = true
		return nil
	})
	if err != nil {
		return false, &db.Error{Op: db.OpSet, Err: err}
	}
	return stored, nil
}

// SetWithTTL stores a value that badger expires after ttl.
func (s *Store) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	err := s.update(ctx, func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry([]byte(key), encodeString(value)).WithTTL(ttl))
	})
	if err != nil {
		return &db.Error{Op: db.OpSet, Err: err}
	}
	return nil
}
