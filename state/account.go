// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"

	"github.com/vechain/worldstate/muxdb"
	"github.com/vechain/worldstate/world"
)

// Account is the consensus representation of an account.
// RLP encoded objects are stored in the accounts trie, in the same layout
// as an Ethereum account.
type Account struct {
	Nonce    uint64
	Balance  *uint256.Int
	Root     world.Bytes32 // merkle root of the storage trie
	CodeHash world.Bytes32 // hash of code
}

// IsEmpty returns if an account is empty.
// An empty account has zero nonce, zero balance and no code.
func (a *Account) IsEmpty() bool {
	return a.Nonce == 0 &&
		a.Balance.IsZero() &&
		a.CodeHash == world.EmptyCodeHash
}

// HasStorage returns whether the storage trie is not empty.
func (a *Account) HasStorage() bool {
	return !world.IsEmptyRoot(a.Root)
}

func emptyAccount() *Account {
	return &Account{
		Balance:  new(uint256.Int),
		Root:     world.EmptyRoot,
		CodeHash: world.EmptyCodeHash,
	}
}

// loadAccount loads an account object by address in trie.
// It returns empty account if no account found at the address.
func loadAccount(trie *muxdb.Trie, addr world.Address) (*Account, error) {
	key := world.Keccak256(addr[:])
	data, err := trie.Get(key[:])
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return emptyAccount(), nil
	}
	var a Account
	if err := rlp.DecodeBytes(data, &a); err != nil {
		return nil, fmt.Errorf("%w: account %v: %v", ErrEncoding, addr, err)
	}
	if a.Balance == nil {
		a.Balance = new(uint256.Int)
	}
	return &a, nil
}

// saveAccount saves account into trie at given address.
// If the account is empty and has no storage, the value for given address is deleted.
func saveAccount(trie *muxdb.Trie, addr world.Address, a *Account) error {
	key := world.Keccak256(addr[:])
	if a.IsEmpty() && !a.HasStorage() {
		return trie.Delete(key[:])
	}
	data, err := rlp.EncodeToBytes(a)
	if err != nil {
		return err
	}
	return trie.Update(key[:], data)
}
