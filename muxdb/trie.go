// Copyright (c) 2021 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package muxdb

import (
	"github.com/vechain/worldstate/trie"
	"github.com/vechain/worldstate/world"
)

// Trie is the managed trie. Nodes are read through the node cache, and
// committed into a Batch.
//
// Trie is not safe for concurrent use.
type Trie struct {
	db   *MuxDB
	trie *trie.Trie
}

func newTrie(db *MuxDB, root world.Bytes32) *Trie {
	return &Trie{
		db,
		trie.New(root, (*nodeReader)(db)),
	}
}

// Get returns the value for key stored in the trie.
// The value bytes must not be modified by the caller.
func (t *Trie) Get(key []byte) ([]byte, error) {
	return t.trie.Get(key)
}

// Update associates key with value in the trie.
// Empty value deletes the key.
func (t *Trie) Update(key, val []byte) error {
	return t.trie.Update(key, val)
}

// Delete removes any existing value for key from the trie.
func (t *Trie) Delete(key []byte) error {
	return t.trie.Delete(key)
}

// Hash returns the root hash of the trie, without writing anything.
func (t *Trie) Hash() world.Bytes32 {
	return t.trie.Hash()
}

// Commit writes all dirty nodes into the batch and returns the root hash.
// Nodes reach the database when the batch is written. If the batch is
// discarded instead, the trie is restored as it was before Commit.
func (t *Trie) Commit(b *Batch) (world.Bytes32, error) {
	prev := t.trie.Copy()
	root, err := t.trie.Commit((*nodeWriter)(b))
	if err != nil {
		return world.Bytes32{}, err
	}
	b.undo = append(b.undo, func() { t.trie = prev })
	return root, nil
}

// nodeReader loads trie nodes from the cache, or the node space on miss.
type nodeReader MuxDB

func (r *nodeReader) Get(hash []byte) ([]byte, error) {
	if blob := r.cache.Get(hash, false); blob != nil {
		return blob, nil
	}
	blob, err := r.nodes.Get(hash)
	if err != nil {
		return nil, err
	}
	r.cache.Add(hash, blob)
	return blob, nil
}
