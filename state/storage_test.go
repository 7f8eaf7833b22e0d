// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"encoding/hex"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/worldstate/muxdb"
	"github.com/vechain/worldstate/world"
)

func mustHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}

func TestChunkedStorage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "account.db")
	origin := world.MustParseAddress("0xbafe3b6f2a19658df3cb5efca158c93272ff5cff")
	key := world.MustParseBytes32("0xbafe3b6f2a19658df3cb5efca158c93272ff5cff010101010101010102020202")
	fakeCodeHash := world.MustParseBytes32("0xabcdef00000000000000000000000000000000ff010101010101010102020202")

	values := [][]byte{
		mustHex("aa"),
		mustHex("ffff"),
		mustHex("00112233445566778899aabbccddeeff00112233445566778899aabbccddeeff00112233445566778899aabbccddeeff00112233445566778899aabbccddeeff00112233445566778899aabbccddeeff00112233445566778899aabbccddeeff"),
		mustHex("00112233445566778899aabbccddeeff00112233445566778899aabbccddeeff00112233445566778899aabbccddeeff00112233445566778899aabbccddeeff00112233445566778899aabbccddeeff00112233445566778899aabbccddeeffabcd001122"),
		mustHex("00112233445566778899aabbccddeeff00112233445566778899aabbccddeeff"),
		mustHex("00112233445566778899aabbccddeeff00112233445566778899aabbccddeeffaa"),
	}

	var (
		initialRoot world.Bytes32
		roots       []world.Bytes32
	)
	{
		db, err := muxdb.Open(path, nil)
		require.NoError(t, err)
		st, err := Open(db, world.EmptyRoot)
		require.NoError(t, err)

		empty, _ := st.IsEmpty(origin)
		assert.True(t, empty, "account must not exist in an empty state")
		// make sure the account is not empty
		require.NoError(t, st.SetCodeHash(origin, fakeCodeHash))
		empty, _ = st.IsEmpty(origin)
		assert.False(t, empty, "account must exist after setting code hash")

		initialRoot, err = st.IntermediateRoot()
		require.NoError(t, err)

		for _, value := range values {
			require.NoError(t, st.SetStorage(origin, key, value, Chunked))
			got, err := st.GetStorage(origin, key, Chunked)
			require.NoError(t, err)
			assert.Equal(t, value, got)

			root, err := st.Commit()
			require.NoError(t, err)
			roots = append(roots, root)

			got, err = st.GetStorage(origin, key, Chunked)
			require.NoError(t, err)
			assert.Equal(t, value, got)
		}
		require.NoError(t, st.Close())
		require.NoError(t, db.Close())
	}

	// every committed state can be loaded again
	db, err := muxdb.Open(path, nil)
	require.NoError(t, err)
	defer db.Close()

	for i, value := range values {
		st, err := Open(db, roots[i])
		require.NoError(t, err)

		got, err := st.GetStorage(origin, key, Chunked)
		require.NoError(t, err)
		assert.Equal(t, value, got)

		// removing the key results in the initial state root
		require.NoError(t, st.RemoveStorage(origin, key, Chunked))
		root, err := st.IntermediateRoot()
		require.NoError(t, err)
		assert.Equal(t, initialRoot, root)
		require.NoError(t, st.Close())
	}
}

func TestChunkedRoundTrip(t *testing.T) {
	st := newState(t)
	addr := world.Address{1}
	key := world.Bytes32{1}

	base, _ := st.IntermediateRoot()
	for n := 0; n < 5*ChunkSize+1; n++ {
		value := bytes.Repeat([]byte{0xab}, n)
		require.NoError(t, st.SetStorage(addr, key, value, Chunked))
		got, err := st.GetStorage(addr, key, Chunked)
		require.NoError(t, err)
		assert.Equal(t, value, got, "length %d", n)
	}
	require.NoError(t, st.RemoveStorage(addr, key, Chunked))
	got, err := st.GetStorage(addr, key, Chunked)
	require.NoError(t, err)
	assert.Equal(t, []byte{}, got)

	root, _ := st.IntermediateRoot()
	assert.Equal(t, base, root)
}

func TestChunkedShrink(t *testing.T) {
	st := newState(t)
	addr := world.Address{1}
	key := world.Bytes32{1}

	require.NoError(t, st.SetCodeHash(addr, world.Keccak256([]byte("code"))))
	require.NoError(t, st.SetStorage(addr, key, []byte("short"), Chunked))
	short, _ := st.IntermediateRoot()

	require.NoError(t, st.SetStorage(addr, key, bytes.Repeat([]byte{1}, 200), Chunked))
	require.NoError(t, st.SetStorage(addr, key, []byte("short"), Chunked))
	root, _ := st.IntermediateRoot()
	// stale chunks are dropped
	assert.Equal(t, short, root)

	// an empty value removes
	require.NoError(t, st.SetStorage(addr, key, nil, Chunked))
	got, _ := st.GetStorage(addr, key, Chunked)
	assert.Empty(t, got)
}

func TestRawStorage(t *testing.T) {
	st := newState(t)
	addr := world.Address{1}
	key := world.Bytes32{1}

	got, err := st.GetStorage(addr, key, Raw)
	require.NoError(t, err)
	assert.Equal(t, []byte{}, got)

	assert.ErrorIs(t, st.SetStorage(addr, key, make([]byte, 33), Raw), ErrValueTooLong)

	base, _ := st.IntermediateRoot()
	require.NoError(t, st.SetStorage(addr, key, []byte{1, 2}, Raw))
	got, err = st.GetStorage(addr, key, Raw)
	require.NoError(t, err)
	assert.Equal(t, world.BytesToBytes32([]byte{1, 2}).Bytes(), got)

	require.NoError(t, st.RemoveStorage(addr, key, Raw))
	root, _ := st.IntermediateRoot()
	assert.Equal(t, base, root)
}

func TestChunkedEncodingError(t *testing.T) {
	st := newState(t)
	addr := world.Address{1}
	key := world.Bytes32{1}

	// a raw word is not a sane length
	require.NoError(t, st.SetStorage(addr, key, bytes.Repeat([]byte{0xff}, 32), Raw))
	_, err := st.GetStorage(addr, key, Chunked)
	assert.ErrorIs(t, err, ErrEncoding)
	assert.False(t, IsStorageError(err))
	assert.ErrorIs(t, st.SetStorage(addr, key, []byte{1}, Chunked), ErrEncoding)

	// length beyond bound
	require.NoError(t, st.SetStorage(addr, key, []byte{1, 0, 0, 0, 0}, Raw))
	_, err = st.GetStorage(addr, key, Chunked)
	assert.ErrorIs(t, err, ErrEncoding)

	// a 4 GiB length is rejected before reading any chunk
	require.NoError(t, st.SetStorage(addr, key, []byte{0xff, 0xff, 0xff, 0xff}, Raw))
	_, err = st.GetStorage(addr, key, Chunked)
	assert.ErrorIs(t, err, ErrEncoding)
	assert.ErrorIs(t, st.RemoveStorage(addr, key, Chunked), ErrEncoding)

	// a length without stored chunks reads back as zeros
	require.NoError(t, st.SetStorage(addr, key, lengthWord(100).Bytes(), Raw))
	got, err := st.GetStorage(addr, key, Chunked)
	require.NoError(t, err)
	assert.Equal(t, make([]byte, 100), got)
}

func TestUnknownStrategy(t *testing.T) {
	st := newState(t)
	_, err := st.GetStorage(world.Address{}, world.Bytes32{}, Strategy(9))
	assert.ErrorContains(t, err, "strategy(9)")
	assert.Error(t, st.SetStorage(world.Address{}, world.Bytes32{}, nil, Strategy(9)))
}

func TestChunkedLeaves(t *testing.T) {
	slot := world.Bytes32{1}

	leaves := chunkedLeaves(slot, bytes.Repeat([]byte{1}, 33), 0)
	require.Len(t, leaves, 3)
	assert.Equal(t, slot, leaves[0].key)
	assert.Equal(t, lengthWord(33), leaves[0].val)
	assert.Equal(t, chunkKey(slot, 0), leaves[1].key)
	assert.Equal(t, world.BytesToBytes32(bytes.Repeat([]byte{1}, 32)), leaves[1].val)
	// right padded
	assert.Equal(t, world.Bytes32{1}, leaves[2].val)

	// exact multiple has no extra chunk
	assert.Len(t, chunkedLeaves(slot, make([]byte, 64), 0), 3)

	// shrinking zeroes stale chunks
	leaves = chunkedLeaves(slot, []byte{1}, 96)
	require.Len(t, leaves, 4)
	assert.Equal(t, world.Bytes32{}, leaves[2].val)
	assert.Equal(t, world.Bytes32{}, leaves[3].val)

	// removal
	leaves = chunkedLeaves(slot, nil, 40)
	require.Len(t, leaves, 3)
	for _, l := range leaves {
		assert.True(t, l.val.IsZero())
	}
}

func TestChunkKey(t *testing.T) {
	slot := world.Bytes32{1}
	var idx world.Bytes32
	idx[31] = 2
	assert.Equal(t, world.Keccak256(slot[:], idx[:]), chunkKey(slot, 2))
	assert.NotEqual(t, chunkKey(slot, 0), chunkKey(slot, 1))
}

func TestLeafCodec(t *testing.T) {
	assert.Nil(t, encodeLeaf(world.Bytes32{}))

	w := world.BytesToBytes32([]byte{0, 1, 2})
	got, err := decodeLeaf(encodeLeaf(w))
	require.NoError(t, err)
	assert.Equal(t, w, got)

	got, err = decodeLeaf(nil)
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	_, err = decodeLeaf([]byte{0xc0})
	assert.ErrorIs(t, err, ErrEncoding)

	n, err := decodeLengthWord(lengthWord(maxChunkedLen))
	require.NoError(t, err)
	assert.Equal(t, uint64(maxChunkedLen), n)

	_, err = decodeLengthWord(lengthWord(maxChunkedLen + 1))
	assert.ErrorIs(t, err, ErrEncoding)
	_, err = decodeLengthWord(lengthWord(math.MaxUint32))
	assert.ErrorIs(t, err, ErrEncoding)
}
