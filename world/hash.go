// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package world

import (
	"hash"
	"io"
	"sync"

	"golang.org/x/crypto/sha3"
)

// keccakHasher is the legacy keccak-256 sponge. Read squeezes the digest
// out without the copy Sum makes.
type keccakHasher interface {
	hash.Hash
	io.Reader
}

var keccakPool = sync.Pool{
	New: func() any {
		return sha3.NewLegacyKeccak256().(keccakHasher)
	},
}

// Keccak256 computes the legacy keccak-256 digest of the concatenated data.
func Keccak256(data ...[]byte) Bytes32 {
	return Keccak256Fn(func(w io.Writer) {
		for _, b := range data {
			w.Write(b)
		}
	})
}

// Keccak256Fn computes the legacy keccak-256 digest of whatever fn writes.
func Keccak256Fn(fn func(w io.Writer)) (h Bytes32) {
	hasher := keccakPool.Get().(keccakHasher)
	fn(hasher)
	hasher.Read(h[:])
	hasher.Reset()
	keccakPool.Put(hasher)
	return
}
