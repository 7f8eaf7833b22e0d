// Copyright (c) 2019 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package kv defines the byte-oriented key/value store contract that the
// trie node backend and the named stores are built on.
package kv

// Getter reads values by key.
type Getter interface {
	// Get fails with an error satisfying IsNotFound when the key is absent.
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
	IsNotFound(err error) bool
}

// Putter writes or removes values by key.
type Putter interface {
	Put(key, val []byte) error
	Delete(key []byte) error
}

// Snapshot is a read-only, point-in-time view of a store.
// It must be released after use.
type Snapshot interface {
	Getter
	Release()
}

// Bulk collects writes and applies them on Write.
type Bulk interface {
	Putter
	// EnableAutoFlush lets the bulk flush on its own when it grows large.
	// Writes are no longer atomic then.
	EnableAutoFlush()
	Write() error
}

// Iterator walks kv pairs in ascending key order.
// Key and Value are only valid until the next call to Next.
type Iterator interface {
	Next() bool
	Key() []byte
	Value() []byte
	Release()
	Error() error
}

// Range is the half-open key range [Start, Limit).
// An empty Limit means no upper bound.
type Range struct {
	Start []byte
	Limit []byte
}

// Store is a full functional kv store.
type Store interface {
	Getter
	Putter

	Snapshot() Snapshot
	Bulk() Bulk
	Iterate(r Range) Iterator
}
