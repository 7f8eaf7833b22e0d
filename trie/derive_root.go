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

package trie

import (
	"github.com/qianbin/drlp"

	"github.com/vechain/worldstate/world"
)

// see "github.com/ethereum/go-ethereum/core/types/hashing.go"

// DerivableList is an ordered list of rlp encoded items.
type DerivableList interface {
	Len() int
	GetRlp(i int) []byte
}

// DeriveRoot returns the root hash of a trie keyed by the rlp encoded
// index of each item.
func DeriveRoot(list DerivableList) world.Bytes32 {
	var (
		trie Trie
		key  []byte
	)

	for i := 0; i < list.Len(); i++ {
		key = drlp.AppendUint(key[:0], uint64(i))
		// never fails, there is no node to resolve
		_ = trie.Update(key, list.GetRlp(i))
	}
	return trie.Hash()
}
