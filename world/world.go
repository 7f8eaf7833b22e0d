// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package world defines the primitive types shared by the world state packages.
package world

import (
	"encoding/hex"
	"errors"
	"strings"
)

var (
	// EmptyRoot is the root hash of a trie without any entry,
	// i.e. keccak256(rlp("")).
	EmptyRoot = MustParseBytes32("0x56e81f171bcc55a6ff8345e692c0f86e5b48e01b996cadc001622fb5e363b421")

	// EmptyCodeHash is the code hash of an account without code, i.e. keccak256(nil).
	EmptyCodeHash = MustParseBytes32("0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470")
)

var (
	errInvalidPrefix = errors.New("invalid prefix")
	errInvalidLength = errors.New("invalid length")
)

// IsEmptyRoot returns whether the root denotes an empty trie.
// The zero hash is accepted as well.
func IsEmptyRoot(root Bytes32) bool {
	return root == EmptyRoot || root.IsZero()
}

// decodeFixedHex decodes exactly len(dst) bytes of hex, with or without 0x.
func decodeFixedHex(s string, dst []byte) error {
	switch len(s) {
	case len(dst) * 2:
	case len(dst)*2 + 2:
		if !strings.EqualFold(s[:2], "0x") {
			return errInvalidPrefix
		}
		s = s[2:]
	default:
		return errInvalidLength
	}
	_, err := hex.Decode(dst, []byte(s))
	return err
}
