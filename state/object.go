// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/vechain/worldstate/cache"
	"github.com/vechain/worldstate/muxdb"
	"github.com/vechain/worldstate/world"
)

var codeCache, _ = cache.NewLRU[world.Bytes32, []byte](512)

// stateObject caches an account, its storage and code.
type stateObject struct {
	db   *muxdb.MuxDB
	addr world.Address
	data Account

	trie      *muxdb.Trie // storage trie, opened at data.Root on demand
	trieDirty bool        // storage trie has changes not committed

	storage      map[world.Bytes32]world.Bytes32 // loaded or written leaves
	dirtyStorage map[world.Bytes32]struct{}      // leaves not flushed into trie

	code      []byte
	dirtyCode bool
}

func newStateObject(db *muxdb.MuxDB, addr world.Address, data *Account) *stateObject {
	return &stateObject{
		db:           db,
		addr:         addr,
		data:         *data,
		storage:      make(map[world.Bytes32]world.Bytes32),
		dirtyStorage: make(map[world.Bytes32]struct{}),
	}
}

func (o *stateObject) getOrOpenTrie() *muxdb.Trie {
	if o.trie == nil {
		o.trie = o.db.NewTrie(o.data.Root)
	}
	return o.trie
}

// getStorage returns the leaf word for given key.
func (o *stateObject) getStorage(key world.Bytes32) (world.Bytes32, error) {
	if v, ok := o.storage[key]; ok {
		metricStateAccess().AddWithLabel(1, storageCacheLabels)
		return v, nil
	}
	var v world.Bytes32
	// the storage trie is only empty before the first flush
	if o.trie != nil || o.data.HasStorage() {
		var err error
		if v, err = loadStorage(o.getOrOpenTrie(), key); err != nil {
			return world.Bytes32{}, err
		}
		metricStateAccess().AddWithLabel(1, storageTrieLabels)
	}
	o.storage[key] = v
	return v, nil
}

func (o *stateObject) setStorage(key, val world.Bytes32) {
	o.storage[key] = val
	o.dirtyStorage[key] = struct{}{}
}

// flush writes dirty storage into the storage trie, and updates the storage root.
func (o *stateObject) flush() error {
	if len(o.dirtyStorage) == 0 {
		return nil
	}
	trie := o.getOrOpenTrie()
	for key := range o.dirtyStorage {
		if err := saveStorage(trie, key, o.storage[key]); err != nil {
			return err
		}
	}
	clear(o.dirtyStorage)
	o.data.Root = trie.Hash()
	o.trieDirty = true
	return nil
}

// commit writes the storage trie nodes into the batch. The trie stays
// dirty until the batch is written.
func (o *stateObject) commit(batch *muxdb.Batch) error {
	if !o.trieDirty {
		return nil
	}
	_, err := o.trie.Commit(batch)
	return err
}

// getCode returns the code of the account.
func (o *stateObject) getCode() ([]byte, error) {
	if o.code != nil {
		return o.code, nil
	}
	if o.data.CodeHash == world.EmptyCodeHash {
		return nil, nil
	}
	code, err := codeCache.GetOrLoad(o.data.CodeHash, func(hash world.Bytes32) ([]byte, error) {
		metricStateAccess().AddWithLabel(1, codeStoreLabels)
		return o.db.NewStore(codeStoreName).Get(hash[:])
	})
	if err != nil {
		return nil, err
	}
	o.code = code
	return code, nil
}
