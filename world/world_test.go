// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package world

import (
	"encoding/json"
	"io"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
)

func TestEmptyConstants(t *testing.T) {
	enc, _ := rlp.EncodeToBytes([]byte{})
	assert.Equal(t, Bytes32(crypto.Keccak256Hash(enc)), EmptyRoot)
	assert.Equal(t, Bytes32(crypto.Keccak256Hash(nil)), EmptyCodeHash)

	assert.True(t, IsEmptyRoot(EmptyRoot))
	assert.True(t, IsEmptyRoot(Bytes32{}))
	assert.False(t, IsEmptyRoot(EmptyCodeHash))
}

func TestKeccak256(t *testing.T) {
	data := [][]byte{[]byte("hello"), []byte(" "), []byte("world")}
	assert.Equal(t, Bytes32(crypto.Keccak256Hash(data...)), Keccak256(data...))
	assert.Equal(t, EmptyCodeHash, Keccak256())

	h := Keccak256Fn(func(w io.Writer) {
		for _, b := range data {
			w.Write(b)
		}
	})
	assert.Equal(t, Keccak256(data...), h)
	// pooled hashers are reset after use
	assert.Equal(t, h, Keccak256(data...))
}

func TestParseBytes32(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"0x56e81f171bcc55a6ff8345e692c0f86e5b48e01b996cadc001622fb5e363b421", false},
		{"56e81f171bcc55a6ff8345e692c0f86e5b48e01b996cadc001622fb5e363b421", false},
		{"1x56e81f171bcc55a6ff8345e692c0f86e5b48e01b996cadc001622fb5e363b421", true},
		{"0x56e8", true},
		{"0xzz e81f171bcc55a6ff8345e692c0f86e5b48e01b996cadc001622fb5e363b42", true},
	}
	for _, tt := range tests {
		b, err := ParseBytes32(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
		} else {
			assert.NoError(t, err, tt.in)
			assert.Equal(t, EmptyRoot, b)
		}
	}
}

func TestBytes32JSON(t *testing.T) {
	var b Bytes32
	assert.NoError(t, json.Unmarshal([]byte(`"`+EmptyRoot.String()+`"`), &b))
	assert.Equal(t, EmptyRoot, b)

	data, err := json.Marshal(&b)
	assert.NoError(t, err)
	assert.Equal(t, `"`+EmptyRoot.String()+`"`, string(data))
}

func TestAddress(t *testing.T) {
	addr := MustParseAddress("0xbafe3b6f2a19658df3cb5efca158c93272ff5cff")
	assert.Equal(t, "0xbafe3b6f2a19658df3cb5efca158c93272ff5cff", addr.String())
	assert.False(t, addr.IsZero())
	assert.True(t, Address{}.IsZero())

	var parsed Address
	assert.NoError(t, parsed.UnmarshalText([]byte("bafe3b6f2a19658df3cb5efca158c93272ff5cff")))
	assert.Equal(t, addr, parsed)

	_, err := ParseAddress("0xbafe")
	assert.Equal(t, errInvalidLength, err)
	_, err = ParseAddress("1xbafe3b6f2a19658df3cb5efca158c93272ff5cff")
	assert.Equal(t, errInvalidPrefix, err)

	// a failed decode leaves the value untouched
	assert.Error(t, parsed.UnmarshalText([]byte("0xzzfe3b6f2a19658df3cb5efca158c93272ff5cff")))
	assert.Equal(t, addr, parsed)

	data, err := json.Marshal(map[string]Address{"addr": addr})
	assert.NoError(t, err)
	assert.Equal(t, `{"addr":"0xbafe3b6f2a19658df3cb5efca158c93272ff5cff"}`, string(data))

	assert.Equal(t, addr, BytesToAddress(append([]byte{0xff}, addr[:]...)))
}

func TestCreateContractAddress(t *testing.T) {
	// well known address derived from 0x6ac7ea33f8831ea9dcc53393aaa88b25a785dbf0 with nonce 0..2
	creator := MustParseAddress("0x6ac7ea33f8831ea9dcc53393aaa88b25a785dbf0")
	assert.Equal(t, MustParseAddress("0xcd234a471b72ba2f1ccf0a70fcaba648a5eecd8d"), CreateContractAddress(creator, 0))
	assert.Equal(t, MustParseAddress("0x343c43a37d37dff08ae8c4a11544c718abb4fcf8"), CreateContractAddress(creator, 1))
	assert.Equal(t, MustParseAddress("0xf778b86fa74e846c4f0a1fbd1335fe81c00a0c91"), CreateContractAddress(creator, 2))
}
