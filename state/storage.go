// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/worldstate/muxdb"
	"github.com/vechain/worldstate/world"
)

// Strategy is the way a storage value is laid out in storage leaves.
type Strategy uint8

const (
	// Raw stores a value of at most one word at the slot key, left padded.
	Raw Strategy = iota
	// Chunked splits a value into ChunkSize bytes chunks, with a leaf at the
	// slot key recording the value length.
	Chunked
)

// ChunkSize is the size of a chunk of a Chunked value.
const ChunkSize = 32

// maxChunkedLen bounds the length recorded in the metadata leaf, so that a
// corrupted length word never makes a read walk millions of chunks.
const maxChunkedLen = 1 << 24

func (s Strategy) String() string {
	switch s {
	case Raw:
		return "raw"
	case Chunked:
		return "chunked"
	default:
		return fmt.Sprintf("strategy(%d)", uint8(s))
	}
}

// leaf is a storage leaf to be written.
type leaf struct {
	key world.Bytes32
	val world.Bytes32
}

// chunkKey returns the leaf key of the i-th chunk of the slot.
func chunkKey(slot world.Bytes32, i uint64) world.Bytes32 {
	var idx world.Bytes32
	binary.BigEndian.PutUint64(idx[24:], i)
	return world.Keccak256(slot[:], idx[:])
}

// chunkCount returns ceil(n / ChunkSize).
func chunkCount(n uint64) uint64 {
	return (n + ChunkSize - 1) / ChunkSize
}

// lengthWord encodes the chunked value length as a 32 bytes big endian word.
func lengthWord(n uint64) (w world.Bytes32) {
	binary.BigEndian.PutUint64(w[24:], n)
	return
}

// decodeLengthWord decodes the metadata leaf of a chunked value.
func decodeLengthWord(w world.Bytes32) (uint64, error) {
	for _, b := range w[:24] {
		if b != 0 {
			return 0, ErrEncoding
		}
	}
	n := binary.BigEndian.Uint64(w[24:])
	if n > maxChunkedLen {
		return 0, ErrEncoding
	}
	return n, nil
}

// chunkedLeaves lays out value into the metadata leaf and chunk leaves.
// Chunks beyond the new count, up to oldLen's count, are zeroed.
func chunkedLeaves(slot world.Bytes32, value []byte, oldLen uint64) []leaf {
	n := chunkCount(uint64(len(value)))
	old := chunkCount(oldLen)

	leaves := make([]leaf, 0, 1+max(n, old))
	var meta world.Bytes32
	if len(value) > 0 {
		meta = lengthWord(uint64(len(value)))
	}
	leaves = append(leaves, leaf{slot, meta})

	for i := uint64(0); i < n; i++ {
		var w world.Bytes32
		copy(w[:], value[i*ChunkSize:])
		leaves = append(leaves, leaf{chunkKey(slot, i), w})
	}
	for i := n; i < old; i++ {
		leaves = append(leaves, leaf{chunkKey(slot, i), world.Bytes32{}})
	}
	return leaves
}

// encodeLeaf encodes the leaf word as stored in the trie. The zero word
// encodes to nil, which removes the leaf.
func encodeLeaf(w world.Bytes32) []byte {
	if w.IsZero() {
		return nil
	}
	data, _ := rlp.EncodeToBytes(bytes.TrimLeft(w[:], "\x00"))
	return data
}

// decodeLeaf decodes the trie value into the leaf word.
func decodeLeaf(data []byte) (world.Bytes32, error) {
	if len(data) == 0 {
		return world.Bytes32{}, nil
	}
	content, _, err := rlp.SplitString(data)
	if err != nil {
		return world.Bytes32{}, fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	if len(content) > 32 {
		return world.Bytes32{}, fmt.Errorf("%w: storage leaf too long: %d", ErrEncoding, len(content))
	}
	return world.BytesToBytes32(content), nil
}

// loadStorage loads the leaf word from the storage trie.
func loadStorage(trie *muxdb.Trie, key world.Bytes32) (world.Bytes32, error) {
	hkey := world.Keccak256(key[:])
	data, err := trie.Get(hkey[:])
	if err != nil {
		return world.Bytes32{}, err
	}
	return decodeLeaf(data)
}

// saveStorage saves the leaf word into the storage trie.
func saveStorage(trie *muxdb.Trie, key, val world.Bytes32) error {
	hkey := world.Keccak256(key[:])
	return trie.Update(hkey[:], encodeLeaf(val))
}
