// Copyright (c) 2019 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package muxdb implements the storage layer for the world state.
// It multiplexes trie nodes and general purpose named kv-stores onto one
// leveldb instance.
package muxdb

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"

	"github.com/vechain/worldstate/kv"
	"github.com/vechain/worldstate/log"
	"github.com/vechain/worldstate/muxdb/internal/engine"
	"github.com/vechain/worldstate/world"
)

const (
	trieNodeSpace   = byte(0) // the key space for trie nodes, keyed by node hash.
	namedStoreSpace = byte(1) // the key space for named store.
)

const (
	propStoreName = "muxdb.props"
	configKey     = "config"
)

var logger = log.WithContext("pkg", "muxdb")

// ErrClosed is returned by any operation on a closed database.
var ErrClosed = leveldb.ErrClosed

// Options optional parameters for MuxDB.
type Options struct {
	// TrieNodeCacheSizeMB is the size of the cache for trie node blobs.
	// Zero disables the cache.
	TrieNodeCacheSizeMB int

	// OpenFilesCacheCapacity is the capacity of open files caching for underlying database.
	OpenFilesCacheCapacity int
	// ReadCacheMB is the size of read cache for underlying database.
	ReadCacheMB int
	// WriteBufferMB is the size of write buffer for underlying database.
	WriteBufferMB int
}

// DefaultOptions is used when Open is given nil options.
var DefaultOptions = Options{
	TrieNodeCacheSizeMB:    64,
	OpenFilesCacheCapacity: 64,
	ReadCacheMB:            16,
	WriteBufferMB:          16,
}

// MuxDB is the database to efficiently store world state tries and code.
// It's safe for concurrent use.
type MuxDB struct {
	engine    engine.Engine
	nodes     kv.Store
	cache     *nodeCache
	closeOnce sync.Once
}

// Open opens or creates DB at the given path.
func Open(path string, options *Options) (*MuxDB, error) {
	if options == nil {
		options = &DefaultOptions
	}
	eng, err := engine.OpenLevel(path, engine.Options{
		OpenFilesCacheCapacity: options.OpenFilesCacheCapacity,
		ReadCacheMB:            options.ReadCacheMB,
		WriteBufferMB:          options.WriteBufferMB,
	})
	if err != nil {
		return nil, err
	}

	db := newMuxDB(eng, options.TrieNodeCacheSizeMB)

	// persists critical options to avoid opening an incompatible database.
	if err := currentConfig.LoadOrSave(db.NewStore(propStoreName)); err != nil {
		eng.Close()
		return nil, err
	}
	logger.Debug("database opened", "path", path, "node-cache-mb", options.TrieNodeCacheSizeMB)
	return db, nil
}

// NewMem creates a memory-backed DB.
func NewMem() *MuxDB {
	return newMuxDB(engine.NewMemLevel(), 0)
}

func newMuxDB(engine engine.Engine, cacheSizeMB int) *MuxDB {
	return &MuxDB{
		engine: engine,
		nodes:  kv.Bucket(string(trieNodeSpace)).NewStore(engine),
		cache:  newNodeCache(cacheSizeMB),
	}
}

// Close closes the DB. It's safe to call Close more than once.
func (db *MuxDB) Close() (err error) {
	db.closeOnce.Do(func() {
		err = db.engine.Close()
	})
	return
}

// NewTrie creates trie with existing root node.
//
// If root is zero or the hash of an empty trie, the trie is initially empty.
func (db *MuxDB) NewTrie(root world.Bytes32) *Trie {
	return newTrie(db, root)
}

// HasTrieNode returns whether the trie node with the given hash was committed.
// The empty root always exists.
func (db *MuxDB) HasTrieNode(hash world.Bytes32) (bool, error) {
	if world.IsEmptyRoot(hash) {
		return true, nil
	}
	return db.nodes.Has(hash[:])
}

// NewStore creates named kv-store.
func (db *MuxDB) NewStore(name string) kv.Store {
	return kv.Bucket(string(namedStoreSpace) + name).NewStore(db.engine)
}

// NewBatch creates a batch to write trie nodes and named store entries atomically.
func (db *MuxDB) NewBatch() *Batch {
	bulk := db.engine.Bulk()
	return &Batch{
		db:    db,
		bulk:  bulk,
		nodes: kv.Bucket(string(trieNodeSpace)).NewPutter(bulk),
	}
}

// Compact compacts the whole underlying storage.
func (db *MuxDB) Compact() error {
	start := time.Now()
	if err := db.engine.Compact(kv.Range{}); err != nil {
		return errors.Wrap(err, "compact")
	}
	logger.Debug("database compacted", "elapsed", time.Since(start))
	return nil
}

// IsNotFound returns if the error indicates key not found.
func (db *MuxDB) IsNotFound(err error) bool {
	return db.engine.IsNotFound(err)
}

type config struct {
	Version uint32 `json:"version"`
	Hasher  string `json:"hasher"`
}

var currentConfig = config{
	Version: 1,
	Hasher:  "keccak256",
}

// LoadOrSave saves c if no config stored yet, otherwise checks that the
// stored config equals c.
func (c config) LoadOrSave(store kv.Store) error {
	// try to load
	data, err := store.Get([]byte(configKey))
	if err == nil {
		var stored config
		if err := json.Unmarshal(data, &stored); err != nil {
			return errors.Wrap(err, "decode config")
		}
		if stored != c {
			return errors.Errorf("incompatible database config: want %+v, got %+v", c, stored)
		}
		return nil
	}

	if !store.IsNotFound(err) {
		return err
	}
	// not found
	// encode and save
	data, err = json.Marshal(c)
	if err != nil {
		return err
	}
	return store.Put([]byte(configKey), data)
}
