// Package store is the producer-side content store for served objects —
// bundle segments and certificates a producer has already built and may
// be asked for again (spec.md §6 "producer-side served-object content
// store... explicitly NOT the validator's in-memory certificate cache,
// which carries no persisted state"). Grounded on the teacher's
// std/ndn.Store interface and its std/object/storage badger/memory
// implementations, trimmed to the get/put/remove operations a
// certificate-and-bundle producer actually needs (no transactions, no
// range removal — nothing here ever needs to delete a contiguous run of
// segments atomically).
package store

import "github.com/named-data/certbundle/ndn"

// Store is implemented by both the persistent (badger) and in-memory
// backends.
type Store interface {
	// Get returns the Data wire stored under name. If prefix is true and
	// no exact match exists, the lexicographically last wire stored under
	// name as a prefix is returned instead (matching a consumer's rightmost
	// child selector against whatever the producer has on hand).
	Get(name ndn.Name, prefix bool) ([]byte, bool, error)

	// Put stores a Data wire under its own name.
	Put(name ndn.Name, wire []byte) error

	// Remove deletes the Data wire stored under name, if any.
	Remove(name ndn.Name) error

	// Close releases any resources held by the store.
	Close() error
}

// nameKey renders a Name to a byte string suitable as a sorted
// key-value-store key. It uses the name's URI form rather than the raw
// TLV encoding: every component is '/'-delimited, so a prefix of
// components is always a byte-prefix of the full key; prefix lookups
// probe with a trailing '/' so that /a does not also match /ab. It keeps
// this package free of any
// dependency on the TLV codec's unexported encoders.
func nameKey(n ndn.Name) []byte {
	return []byte(n.String())
}

// prefixUpperBound returns the smallest key strictly greater than every
// key that has prefix as a byte-prefix, for use as an iterator's seek
// bound ("prefix + 0xff" trick, as the teacher's BadgerStore.Get does).
func prefixUpperBound(prefix []byte) []byte {
	out := make([]byte, len(prefix)+1)
	copy(out, prefix)
	out[len(prefix)] = 0xff
	return out
}
