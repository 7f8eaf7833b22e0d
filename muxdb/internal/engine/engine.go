// Copyright (c) 2022 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package engine provides the leveldb backed key/value engine of muxdb.
package engine

import (
	"io"

	"github.com/vechain/worldstate/kv"
)

// Engine is a kv store which owns the underlying db.
type Engine interface {
	kv.Store
	io.Closer

	// Compact compacts the underlying storage for the key range.
	// A zero range compacts everything.
	Compact(r kv.Range) error
}

// Options tunes the leveldb engine.
type Options struct {
	// OpenFilesCacheCapacity is the capacity of open files caching.
	OpenFilesCacheCapacity int
	// ReadCacheMB is the size of the block cache.
	ReadCacheMB int
	// WriteBufferMB is the size of the memtable.
	WriteBufferMB int
}
