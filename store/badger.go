package store

import (
	"errors"

	"github.com/dgraph-io/badger/v4"

	"github.com/named-data/certbundle/ndn"
)

// BadgerStore is the persistent content store backend, grounded on the
// teacher's std/object/storage.BadgerStore.
type BadgerStore struct {
	db *badger.DB
}

// OpenBadgerStore opens (creating if necessary) a badger database at
// path.
func OpenBadgerStore(path string) (*BadgerStore, error) {
	db, err := badger.Open(badger.DefaultOptions(path))
	if err != nil {
		return nil, err
	}
	return &BadgerStore{db: db}, nil
}

func (s *BadgerStore) Close() error { return s.db.Close() }

func (s *BadgerStore) Get(name ndn.Name, prefix bool) (wire []byte, found bool, err error) {
	key := nameKey(name)
	err = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err == nil {
			wire, err = item.ValueCopy(nil)
			found = err == nil
			return err
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if !prefix {
			return nil
		}

		pfx := key
		if len(pfx) == 0 || pfx[len(pfx)-1] != '/' {
			pfx = append(append([]byte(nil), key...), '/')
		}
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true // newest (lexicographically last) first
		it := txn.NewIterator(opts)
		defer it.Close()

		it.Seek(prefixUpperBound(pfx))
		if !it.ValidForPrefix(pfx) {
			return nil
		}
		wire, err = it.Item().ValueCopy(nil)
		found = err == nil
		return err
	})
	return
}

func (s *BadgerStore) Put(name ndn.Name, wire []byte) error {
	key := nameKey(name)
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, wire)
	})
}

func (s *BadgerStore) Remove(name ndn.Name) error {
	key := nameKey(name)
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
}
