// ABOUTME: Badger storage backend for weather history slots
// ABOUTME: Each slot is one key written in a single transaction

package storage

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v3"
)

const badgerKeyPrefix = "slot:"

// BadgerBackend stores slots in an embedded Badger key-value database.
type BadgerBackend struct {
	db *badger.DB
}

// Compile-time check that BadgerBackend implements Backend.
var _ Backend = (*BadgerBackend)(nil)

// NewBadgerBackend opens a Badger database in dir. An empty dir opens an
// in-memory database.
func NewBadgerBackend(dir string) (*BadgerBackend, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &BadgerBackend{db: db}, nil
}

func badgerKey(slot string) []byte {
	return []byte(badgerKeyPrefix + slot)
}

// Read returns the slot contents, or nil if the key is missing.
func (b *BadgerBackend) Read(slot string) ([]byte, error) {
	var data []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(badgerKey(slot))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("get slot: %w", err)
	}
	return data, nil
}

// Write replaces the slot contents.
func (b *BadgerBackend) Write(slot string, data []byte) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(badgerKey(slot), data)
	})
	if err != nil {
		return fmt.Errorf("set slot: %w", err)
	}
	return nil
}

// Close closes the database.
func (b *BadgerBackend) Close() error {
	return b.db.Close()
}
