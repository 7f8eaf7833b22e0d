// Copyright 2014 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

// Package trie implements Merkle Patricia Tries.
package trie

import (
	"bytes"
	"fmt"

	"github.com/vechain/worldstate/world"
)

// DatabaseReader wraps the Get method of a backing store for the trie.
// Nodes are keyed by their hash.
type DatabaseReader interface {
	Get(key []byte) (value []byte, err error)
}

// DatabaseWriter wraps the Put method of a backing store for the trie.
type DatabaseWriter interface {
	// Put stores the mapping key->value in the database.
	// Implementations must not hold onto the value bytes, the trie
	// will reuse the slice across calls to Put.
	Put(key, value []byte) error
}

// Trie is a Merkle Patricia Trie.
// The zero value is an empty trie with no database.
// Use New to create a trie that sits on top of a database.
//
// Trie is not safe for concurrent use.
type Trie struct {
	root node
	db   DatabaseReader
}

// newFlag returns the cache flag value for a newly created node.
func (t *Trie) newFlag() nodeFlag {
	return nodeFlag{dirty: true}
}

// New creates a trie with an existing root node from db.
//
// If root is the zero hash or the hash of an empty trie, the trie is
// initially empty. Otherwise the root node is resolved lazily, a missing
// root is reported by the first access.
func New(root world.Bytes32, db DatabaseReader) *Trie {
	t := &Trie{db: db}
	if !world.IsEmptyRoot(root) {
		t.root = hashNode(root.Bytes())
	}
	return t
}

// Copy returns a shallow copy of the trie. Nodes are never modified in
// place, so the copy is unaffected by later changes to t.
func (t *Trie) Copy() *Trie {
	cpy := *t
	return &cpy
}

// Get returns the value for key stored in the trie.
// The value bytes must not be modified by the caller.
// A missing key gives nil value without error.
func (t *Trie) Get(key []byte) ([]byte, error) {
	val, root, resolved, err := t.tryGet(t.root, keybytesToHex(key), 0)
	if err != nil {
		return nil, err
	}
	if resolved {
		t.root = root
	}
	return val, nil
}

// tryGet looks up key[pos:] under n. Nodes resolved on the way are kept in
// copies of their parents, and the copy of n is returned when resolved.
func (t *Trie) tryGet(n node, key []byte, pos int) ([]byte, node, bool, error) {
	switch n := n.(type) {
	case nil:
		return nil, nil, false, nil
	case valueNode:
		return n, n, false, nil
	case hashNode:
		rn, err := t.resolveHash(n, key[:pos])
		if err != nil {
			return nil, n, false, err
		}
		val, nn, _, err := t.tryGet(rn, key, pos)
		return val, nn, err == nil, err
	case *shortNode:
		if !bytes.HasPrefix(key[pos:], n.Key) {
			return nil, n, false, nil
		}
		val, child, resolved, err := t.tryGet(n.Val, key, pos+len(n.Key))
		if resolved {
			n = n.copy()
			n.Val = child
		}
		return val, n, resolved, err
	case *fullNode:
		val, child, resolved, err := t.tryGet(n.Children[key[pos]], key, pos+1)
		if resolved {
			n = n.copy()
			n.Children[key[pos]] = child
		}
		return val, n, resolved, err
	}
	panic(fmt.Sprintf("trie: invalid node %T", n))
}

// Update associates key with value in the trie. Subsequent calls to
// Get will return value. If value has length zero, any existing value
// is deleted from the trie and calls to Get will return nil.
//
// The value bytes must not be modified by the caller while they are
// stored in the trie.
func (t *Trie) Update(key, value []byte) error {
	var (
		k    = keybytesToHex(key)
		root node
		err  error
	)
	if len(value) == 0 {
		_, root, err = t.delete(t.root, nil, k)
	} else {
		_, root, err = t.insert(t.root, nil, k, valueNode(value))
	}
	if err != nil {
		return err
	}
	t.root = root
	return nil
}

// Delete removes any existing value for key from the trie.
func (t *Trie) Delete(key []byte) error {
	return t.Update(key, nil)
}

// insert puts value at key under n, where path is the nibbles leading to n.
// It returns whether anything changed, and the node replacing n.
func (t *Trie) insert(n node, path, key []byte, value node) (bool, node, error) {
	if len(key) == 0 {
		old, ok := n.(valueNode)
		return !ok || !bytes.Equal(old, value.(valueNode)), value, nil
	}
	switch n := n.(type) {
	case nil:
		return true, &shortNode{key, value, t.newFlag()}, nil
	case hashNode:
		rn, err := t.resolveHash(n, path)
		if err != nil {
			return false, nil, err
		}
		changed, nn, err := t.insert(rn, path, key, value)
		if !changed || err != nil {
			return false, rn, err
		}
		return true, nn, nil
	case *shortNode:
		return t.insertShort(n, path, key, value)
	case *fullNode:
		i := key[0]
		changed, child, err := t.insert(n.Children[i], append(path, i), key[1:], value)
		if !changed || err != nil {
			return false, n, err
		}
		return true, t.withChild(n, i, child), nil
	}
	panic(fmt.Sprintf("trie: invalid node %T", n))
}

func (t *Trie) insertShort(n *shortNode, path, key []byte, value node) (bool, node, error) {
	common := prefixLen(key, n.Key)
	if common == len(n.Key) {
		changed, child, err := t.insert(n.Val, append(path, n.Key...), key[common:], value)
		if !changed || err != nil {
			return false, n, err
		}
		return true, &shortNode{n.Key, child, t.newFlag()}, nil
	}

	// split at the first differing nibble
	branch := &fullNode{flags: t.newFlag()}
	for _, e := range [2]struct {
		key []byte
		val node
	}{{n.Key, n.Val}, {key, value}} {
		_, child, err := t.insert(nil, append(path, e.key[:common+1]...), e.key[common+1:], e.val)
		if err != nil {
			return false, nil, err
		}
		branch.Children[e.key[common]] = child
	}
	if common == 0 {
		return true, branch, nil
	}
	return true, &shortNode{key[:common], branch, t.newFlag()}, nil
}

// withChild returns a dirty copy of n with the i-th child replaced.
func (t *Trie) withChild(n *fullNode, i byte, child node) *fullNode {
	cpy := n.copy()
	cpy.flags = t.newFlag()
	cpy.Children[i] = child
	return cpy
}

// delete removes key under n. It returns whether anything changed, and the
// node replacing n, kept in minimal form.
func (t *Trie) delete(n node, path, key []byte) (bool, node, error) {
	switch n := n.(type) {
	case nil:
		return false, nil, nil
	case valueNode:
		return true, nil, nil
	case hashNode:
		rn, err := t.resolveHash(n, path)
		if err != nil {
			return false, nil, err
		}
		changed, nn, err := t.delete(rn, path, key)
		if !changed || err != nil {
			return false, rn, err
		}
		return true, nn, nil
	case *shortNode:
		if !bytes.HasPrefix(key, n.Key) {
			return false, n, nil
		}
		if len(key) == len(n.Key) {
			return true, nil, nil
		}
		changed, child, err := t.delete(n.Val, append(path, n.Key...), key[len(n.Key):])
		if !changed || err != nil {
			return false, n, err
		}
		// child is never nil, the subtrie held at least two values.
		// A short child is merged, with a fresh key slice since n.Key may be shared.
		if short, ok := child.(*shortNode); ok {
			return true, &shortNode{concat(n.Key, short.Key...), short.Val, t.newFlag()}, nil
		}
		return true, &shortNode{n.Key, child, t.newFlag()}, nil
	case *fullNode:
		i := key[0]
		changed, child, err := t.delete(n.Children[i], append(path, i), key[1:])
		if !changed || err != nil {
			return false, n, err
		}
		nn := t.withChild(n, i, child)
		if child != nil {
			return true, nn, nil
		}
		return t.reduce(nn, path)
	}
	panic(fmt.Sprintf("trie: invalid node %T", n))
}

// reduce turns a full node left with one child into a short node.
// The full node had two children at least, so one is always left.
func (t *Trie) reduce(n *fullNode, path []byte) (bool, node, error) {
	only := -1
	for i, child := range &n.Children {
		if child == nil {
			continue
		}
		if only >= 0 {
			return true, n, nil
		}
		only = i
	}

	nibble := byte(only)
	if nibble != 16 {
		// a short child absorbs the nibble, resolved just to check that
		child, err := t.resolve(n.Children[nibble], append(path, nibble))
		if err != nil {
			return false, nil, err
		}
		if short, ok := child.(*shortNode); ok {
			return true, &shortNode{concat([]byte{nibble}, short.Key...), short.Val, t.newFlag()}, nil
		}
	}
	return true, &shortNode{[]byte{nibble}, n.Children[nibble], t.newFlag()}, nil
}

func concat(s1 []byte, s2 ...byte) []byte {
	r := make([]byte, len(s1)+len(s2))
	copy(r, s1)
	copy(r[len(s1):], s2)
	return r
}

func (t *Trie) resolve(n node, prefix []byte) (node, error) {
	if n, ok := n.(hashNode); ok {
		return t.resolveHash(n, prefix)
	}
	return n, nil
}

func (t *Trie) resolveHash(n hashNode, prefix []byte) (node, error) {
	hash := world.BytesToBytes32(n)
	if t.db == nil {
		return nil, &MissingNodeError{NodeHash: hash, Path: prefix}
	}
	enc, err := t.db.Get(n)
	if err != nil || len(enc) == 0 {
		return nil, &MissingNodeError{NodeHash: hash, Path: prefix, Err: err}
	}
	dec, err := decodeNode(n, enc)
	if err != nil {
		return nil, &MissingNodeError{NodeHash: hash, Path: prefix, Err: err}
	}
	return dec, nil
}

// Hash returns the root hash of the trie. It does not write to the
// database and can be used even if the trie doesn't have one.
func (t *Trie) Hash() world.Bytes32 {
	hash, cached, _ := t.hashRoot(nil)
	t.root = cached
	return hash
}

// Commit writes all dirty nodes to db and returns the root hash.
// The root node is always written, even if it's small.
func (t *Trie) Commit(db DatabaseWriter) (world.Bytes32, error) {
	if db == nil {
		panic("commit to nil database")
	}
	hash, cached, err := t.hashRoot(db)
	if err != nil {
		return world.Bytes32{}, err
	}
	t.root = cached
	return hash, nil
}

func (t *Trie) hashRoot(db DatabaseWriter) (world.Bytes32, node, error) {
	if t.root == nil {
		return world.EmptyRoot, nil, nil
	}
	h := newHasher()
	defer returnHasherToPool(h)

	hashed, cached, err := h.hash(t.root, db, true)
	if err != nil {
		return world.Bytes32{}, t.root, err
	}
	return world.BytesToBytes32(hashed.(hashNode)), cached, nil
}
