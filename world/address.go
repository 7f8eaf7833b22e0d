// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package world

import (
	"encoding"
	"encoding/hex"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// AddressLength is the size of an account address in bytes.
const AddressLength = common.AddressLength

// Address identifies an account.
type Address common.Address

var (
	_ encoding.TextMarshaler   = Address{}
	_ encoding.TextUnmarshaler = (*Address)(nil)
)

func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

func (a Address) Bytes() []byte {
	return a[:]
}

func (a Address) IsZero() bool {
	return a == Address{}
}

// MarshalText encodes a as 0x-prefixed hex. JSON and yaml follow it.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Address) UnmarshalText(text []byte) error {
	var decoded Address
	if err := decodeFixedHex(string(text), decoded[:]); err != nil {
		return err
	}
	*a = decoded
	return nil
}

// ParseAddress parses 40 hex digits, optionally 0x-prefixed.
func ParseAddress(s string) (*Address, error) {
	var addr Address
	if err := decodeFixedHex(s, addr[:]); err != nil {
		return nil, err
	}
	return &addr, nil
}

func MustParseAddress(s string) Address {
	addr, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return *addr
}

// BytesToAddress left-pads b, or keeps its rightmost 20 bytes when longer.
func BytesToAddress(b []byte) Address {
	return Address(common.BytesToAddress(b))
}

// CreateContractAddress returns the address of a contract created by the
// given account with the given nonce.
func CreateContractAddress(creator Address, nonce uint64) Address {
	return Address(crypto.CreateAddress(common.Address(creator), nonce))
}
