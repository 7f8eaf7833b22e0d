// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package world

import (
	"encoding"
	"encoding/hex"

	"github.com/ethereum/go-ethereum/common"
)

// Bytes32 is a 32-byte word: hashes, roots, storage slots and values.
type Bytes32 [32]byte

var (
	_ encoding.TextMarshaler   = Bytes32{}
	_ encoding.TextUnmarshaler = (*Bytes32)(nil)
)

func (b Bytes32) String() string {
	return "0x" + hex.EncodeToString(b[:])
}

func (b Bytes32) Bytes() []byte {
	return b[:]
}

func (b Bytes32) IsZero() bool {
	return b == Bytes32{}
}

// MarshalText encodes b as 0x-prefixed hex. JSON and yaml follow it.
func (b Bytes32) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

func (b *Bytes32) UnmarshalText(text []byte) error {
	var decoded Bytes32
	if err := decodeFixedHex(string(text), decoded[:]); err != nil {
		return err
	}
	*b = decoded
	return nil
}

// ParseBytes32 parses 64 hex digits, optionally 0x-prefixed.
func ParseBytes32(s string) (b Bytes32, err error) {
	err = decodeFixedHex(s, b[:])
	return
}

func MustParseBytes32(s string) Bytes32 {
	b, err := ParseBytes32(s)
	if err != nil {
		panic(err)
	}
	return b
}

// BytesToBytes32 left-pads b, or keeps its rightmost 32 bytes when longer.
func BytesToBytes32(b []byte) Bytes32 {
	return Bytes32(common.BytesToHash(b))
}
